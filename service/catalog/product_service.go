package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"backoffice.GO/core/apperr"
	catalogEntity "backoffice.GO/model/entity/catalog"
	stockEntity "backoffice.GO/model/entity/stock"
	catalogRepo "backoffice.GO/model/repository/catalog"
	stockRepo "backoffice.GO/model/repository/stock"
	stockSvc "backoffice.GO/service/stock"
)

// VariantInput carries one variant of a create/update payload. ID is zero for
// new variants.
type VariantInput struct {
	ID          uint    `json:"id"`
	SKU         string  `json:"sku"`
	OptionName  string  `json:"option_name"`
	Price       float64 `json:"price"`
	DefaultCost float64 `json:"default_cost"`
	StockQty    int     `json:"stock_qty"`
	IsBundle    bool    `json:"is_bundle"`
}

// ProductInput is the create/update payload. A nil Images slice on update
// means "leave images unchanged".
type ProductInput struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Status      string         `json:"status"`
	Material    *string        `json:"material"`
	PartTone    *string        `json:"part_tone"`
	Images      []string       `json:"images"`
	Variants    []VariantInput `json:"variants"`
}

// ProductView is a product projection with the derived fields list consumers
// expect attached.
type ProductView struct {
	catalogEntity.Product
	Stock int    `json:"stock"`
	Type  string `json:"type"`
}

// ListResult is one page of products plus the unpaginated total.
type ListResult struct {
	Products []ProductView `json:"products"`
	Total    int64         `json:"total"`
}

func toView(p *catalogEntity.Product) ProductView {
	if len(p.Images) == 0 {
		p.Images = datatypes.JSON("[]")
	}
	return ProductView{
		Product: *p,
		Stock:   p.TotalStock(),
		Type:    p.DerivedType(),
	}
}

func marshalImages(paths []string) datatypes.JSON {
	if paths == nil {
		paths = []string{}
	}
	b, _ := json.Marshal(paths)
	return datatypes.JSON(b)
}

func validateCreate(in ProductInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return apperr.Validationf("product title is required")
	}
	if in.Category == "" {
		return apperr.Validationf("category is required")
	}
	if len(in.Variants) == 0 {
		return apperr.Validationf("at least one product variant (SKU) is required")
	}
	hasSKU := false
	for _, v := range in.Variants {
		if strings.TrimSpace(v.SKU) != "" {
			hasSKU = true
			break
		}
	}
	if !hasSKU {
		return apperr.Validationf("product SKU is required")
	}
	return nil
}

// CreateProduct inserts a product with its variants and, for every non-bundle
// variant carrying initial stock, the matching IN ledger entry. One
// transaction: any failure rolls the whole product back.
func CreateProduct(db *gorm.DB, in ProductInput) (*ProductView, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = catalogEntity.StatusActive
	}

	var productID uint
	err := db.Transaction(func(tx *gorm.DB) error {
		repo := catalogRepo.NewProductRepository(tx)
		ledger := stockRepo.NewStockRepository(tx)

		product := catalogEntity.Product{
			Title:       in.Title,
			Description: in.Description,
			Category:    in.Category,
			Images:      marshalImages(in.Images),
			Status:      status,
			Material:    in.Material,
			PartTone:    in.PartTone,
		}
		if err := repo.Create(&product); err != nil {
			return err
		}
		productID = product.ID

		for _, vin := range in.Variants {
			variant := catalogEntity.Variant{
				ProductID:   product.ID,
				SKU:         vin.SKU,
				OptionName:  vin.OptionName,
				Price:       vin.Price,
				DefaultCost: vin.DefaultCost,
				StockQty:    vin.StockQty,
				IsBundle:    vin.IsBundle,
			}
			if err := repo.CreateVariant(&variant); err != nil {
				return err
			}
			if !vin.IsBundle && vin.StockQty > 0 {
				note := fmt.Sprintf("Initial stock: %s", in.Title)
				if _, err := ledger.Append(variant.ID, vin.StockQty, stockEntity.MovementIn, note); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	stockSvc.InvalidateDashboard()

	created, err := catalogRepo.NewProductRepository(db).FindByID(productID)
	if err != nil {
		return nil, err
	}
	view := toView(created)
	return &view, nil
}

// UpdateProduct updates product scalars and applies the variant set diff:
// variants missing from the payload are deleted, matching ones get their
// non-stock fields updated, and a changed stock_qty fires the stock mutation
// protocol (set cache + append reconciling ADJUST entry, same transaction).
// Variants without a matching ID are inserted fresh.
func UpdateProduct(db *gorm.DB, id uint, in ProductInput) (*ProductView, error) {
	repo := catalogRepo.NewProductRepository(db)
	if _, err := repo.FindByID(id); err != nil {
		return nil, err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		txRepo := repo.WithTx(tx)
		ledger := stockRepo.NewStockRepository(tx)

		updates := map[string]interface{}{
			"title":       in.Title,
			"category":    in.Category,
			"status":      in.Status,
			"description": in.Description,
			"material":    in.Material,
			"part_tone":   in.PartTone,
		}
		if in.Images != nil {
			updates["images"] = marshalImages(in.Images)
		}
		if err := tx.Model(&catalogEntity.Product{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		if in.Variants == nil {
			return nil
		}

		existing, err := txRepo.VariantsByProduct(id)
		if err != nil {
			return err
		}
		existingByID := make(map[uint]catalogEntity.Variant, len(existing))
		for _, v := range existing {
			existingByID[v.ID] = v
		}
		incoming := make(map[uint]bool, len(in.Variants))
		for _, vin := range in.Variants {
			if vin.ID != 0 {
				incoming[vin.ID] = true
			}
		}

		var toDelete []uint
		for _, v := range existing {
			if !incoming[v.ID] {
				toDelete = append(toDelete, v.ID)
			}
		}
		if err := txRepo.DeleteVariants(toDelete); err != nil {
			return err
		}

		for _, vin := range in.Variants {
			current, ok := existingByID[vin.ID]
			if vin.ID != 0 && ok {
				if err := txRepo.UpdateVariantFields(vin.ID, vin.SKU, vin.OptionName, vin.Price); err != nil {
					return err
				}
				if vin.StockQty == current.StockQty {
					continue
				}
				if err := txRepo.SetVariantStock(vin.ID, vin.StockQty); err != nil {
					return err
				}
				if current.IsBundle {
					// bundle stock is not tracked by ledger deltas
					continue
				}
				diff := vin.StockQty - current.StockQty
				movType := stockEntity.MovementAdjustAdd
				if diff < 0 {
					movType = stockEntity.MovementAdjustSub
					diff = -diff
				}
				note := fmt.Sprintf("Manual edit: %d -> %d", current.StockQty, vin.StockQty)
				if _, err := ledger.Append(vin.ID, diff, movType, note); err != nil {
					return err
				}
				continue
			}

			variant := catalogEntity.Variant{
				ProductID:   id,
				SKU:         vin.SKU,
				OptionName:  vin.OptionName,
				Price:       vin.Price,
				DefaultCost: vin.DefaultCost,
				StockQty:    vin.StockQty,
				IsBundle:    vin.IsBundle,
			}
			if err := txRepo.CreateVariant(&variant); err != nil {
				return err
			}
			if !vin.IsBundle && vin.StockQty > 0 {
				if _, err := ledger.Append(variant.ID, vin.StockQty, stockEntity.MovementIn, "Added to existing product"); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	stockSvc.InvalidateDashboard()

	updated, err := repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	view := toView(updated)
	return &view, nil
}

// ListProducts returns a filtered, sorted page of products with the derived
// stock and type fields attached.
func ListProducts(db *gorm.DB, filter catalogRepo.ListFilter, page, limit int) (*ListResult, error) {
	products, total, err := catalogRepo.NewProductRepository(db).List(filter, page, limit)
	if err != nil {
		return nil, err
	}
	views := make([]ProductView, 0, len(products))
	for i := range products {
		views = append(views, toView(&products[i]))
	}
	return &ListResult{Products: views, Total: total}, nil
}
