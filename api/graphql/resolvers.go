package graphql

import (
	"context"
	"strconv"

	gql "github.com/graph-gophers/graphql-go"
	"gorm.io/gorm"

	"backoffice.GO/core/apperr"
	catalogEntity "backoffice.GO/model/entity/catalog"
	catalogRepo "backoffice.GO/model/repository/catalog"
	stockRepo "backoffice.GO/model/repository/stock"
	catalogService "backoffice.GO/service/catalog"
)

// RootResolver is the root for graphql-go.
type RootResolver struct {
	DB *gorm.DB
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func pageArgs(page, limit *int32, defLimit int) (int, int) {
	p, l := 1, defLimit
	if page != nil && *page > 0 {
		p = int(*page)
	}
	if limit != nil && *limit > 0 {
		l = int(*limit)
	}
	return p, l
}

type ProductsArgs struct {
	Search   *string
	Category *string
	Status   *string
	Sort     *string
	Page     *int32
	Limit    *int32
}

func (r *RootResolver) Products(ctx context.Context, args ProductsArgs) (*ProductPageResolver, error) {
	page, limit := pageArgs(args.Page, args.Limit, 20)
	filter := catalogRepo.ListFilter{
		Search:   derefStr(args.Search),
		Category: derefStr(args.Category),
		Status:   derefStr(args.Status),
		Sort:     derefStr(args.Sort),
	}
	result, err := catalogService.ListProducts(r.DB, filter, page, limit)
	if err != nil {
		return nil, err
	}
	return &ProductPageResolver{result: result}, nil
}

func (r *RootResolver) Product(ctx context.Context, args struct{ Sku string }) (*ProductResolver, error) {
	repo := catalogRepo.NewProductRepository(r.DB)
	variant, err := repo.FindVariantBySKU(args.Sku)
	if apperr.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	product, err := repo.FindByID(variant.ProductID)
	if err != nil {
		return nil, err
	}
	return &ProductResolver{view: productView(product)}, nil
}

func (r *RootResolver) StockStats(ctx context.Context, args struct{ StartDate, EndDate *string }) (*StockStatsResolver, error) {
	stats, err := stockRepo.NewStockRepository(r.DB).MovementStats(stockRepo.StatsFilter{
		StartDate: derefStr(args.StartDate),
		EndDate:   derefStr(args.EndDate),
	})
	if err != nil {
		return nil, err
	}
	return &StockStatsResolver{stats: stats}, nil
}

func (r *RootResolver) Search(ctx context.Context, args struct {
	Query string
	Page  *int32
	Limit *int32
}) (*SearchResultResolver, error) {
	page, limit := pageArgs(args.Page, args.Limit, 20)
	hits, total, err := catalogService.SearchProducts(ctx, r.DB, args.Query, page, limit)
	if err != nil {
		return nil, err
	}
	return &SearchResultResolver{hits: hits, total: total}, nil
}

func (r *RootResolver) Extension(ctx context.Context, args struct {
	Name     string
	ArgsJson *string
}) (string, error) {
	return CallExtension(ctx, args.Name, derefStr(args.ArgsJson))
}

func productView(p *catalogEntity.Product) catalogService.ProductView {
	return catalogService.ProductView{
		Product: *p,
		Stock:   p.TotalStock(),
		Type:    p.DerivedType(),
	}
}

// --- field resolvers ---

type ProductPageResolver struct {
	result *catalogService.ListResult
}

func (r *ProductPageResolver) Total() int32 {
	return int32(r.result.Total)
}

func (r *ProductPageResolver) Items() []*ProductResolver {
	items := make([]*ProductResolver, 0, len(r.result.Products))
	for _, p := range r.result.Products {
		items = append(items, &ProductResolver{view: p})
	}
	return items
}

type ProductResolver struct {
	view catalogService.ProductView
}

func (r *ProductResolver) ID() gql.ID {
	return gql.ID(strconv.FormatUint(uint64(r.view.Product.ID), 10))
}
func (r *ProductResolver) Title() string       { return r.view.Product.Title }
func (r *ProductResolver) Description() string { return r.view.Product.Description }
func (r *ProductResolver) Category() string    { return r.view.Product.Category }
func (r *ProductResolver) Status() string      { return r.view.Product.Status }
func (r *ProductResolver) Type() string        { return r.view.Type }
func (r *ProductResolver) Stock() int32        { return int32(r.view.Stock) }
func (r *ProductResolver) Images() []string    { return r.view.Product.ImageList() }

func (r *ProductResolver) Variants() []*VariantResolver {
	out := make([]*VariantResolver, 0, len(r.view.Product.Variants))
	for i := range r.view.Product.Variants {
		out = append(out, &VariantResolver{v: r.view.Product.Variants[i]})
	}
	return out
}

type VariantResolver struct {
	v catalogEntity.Variant
}

func (r *VariantResolver) ID() gql.ID {
	return gql.ID(strconv.FormatUint(uint64(r.v.ID), 10))
}
func (r *VariantResolver) Sku() string         { return r.v.SKU }
func (r *VariantResolver) OptionName() string  { return r.v.OptionName }
func (r *VariantResolver) Price() float64      { return r.v.Price }
func (r *VariantResolver) DefaultCost() float64 { return r.v.DefaultCost }
func (r *VariantResolver) StockQty() int32     { return int32(r.v.StockQty) }
func (r *VariantResolver) IsBundle() bool      { return r.v.IsBundle }

type StockStatsResolver struct {
	stats *stockRepo.MovementStats
}

func (r *StockStatsResolver) TotalIn() int32        { return int32(r.stats.TotalIn) }
func (r *StockStatsResolver) TotalOut() int32       { return int32(r.stats.TotalOut) }
func (r *StockStatsResolver) TotalAdjustAdd() int32 { return int32(r.stats.TotalAdjustAdd) }
func (r *StockStatsResolver) TotalAdjustSub() int32 { return int32(r.stats.TotalAdjustSub) }
func (r *StockStatsResolver) TotalReturn() int32    { return int32(r.stats.TotalReturn) }
func (r *StockStatsResolver) Incoming() int32       { return int32(r.stats.Incoming()) }
func (r *StockStatsResolver) Outgoing() int32       { return int32(r.stats.Outgoing()) }
func (r *StockStatsResolver) Net() int32            { return int32(r.stats.Net()) }

type SearchResultResolver struct {
	hits  []catalogService.ProductHit
	total int64
}

func (r *SearchResultResolver) Total() int32 {
	return int32(r.total)
}

func (r *SearchResultResolver) Hits() []*SearchHitResolver {
	out := make([]*SearchHitResolver, 0, len(r.hits))
	for i := range r.hits {
		out = append(out, &SearchHitResolver{hit: r.hits[i]})
	}
	return out
}

type SearchHitResolver struct {
	hit catalogService.ProductHit
}

func (r *SearchHitResolver) ID() gql.ID {
	return gql.ID(strconv.FormatUint(uint64(r.hit.ID), 10))
}
func (r *SearchHitResolver) Title() string    { return r.hit.Title }
func (r *SearchHitResolver) Sku() string      { return r.hit.SKU }
func (r *SearchHitResolver) Category() string { return r.hit.Category }
func (r *SearchHitResolver) Status() string   { return r.hit.Status }
func (r *SearchHitResolver) Stock() int32     { return int32(r.hit.Stock) }
func (r *SearchHitResolver) Price() float64   { return r.hit.Price }
