package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/mitchellh/mapstructure"
	"gorm.io/gorm"

	catalogRepo "backoffice.GO/model/repository/catalog"
)

var (
	searchServiceInstance *SearchService
	searchServiceOnce     sync.Once
)

// GetSearchService returns singleton SearchService.
func GetSearchService() *SearchService {
	searchServiceOnce.Do(func() {
		searchServiceInstance = NewSearchService()
	})
	return searchServiceInstance
}

// SearchService queries the product search index when Elasticsearch is
// configured. Without ELASTICSEARCH_HOST it is disabled and callers fall back
// to SQL matching.
type SearchService struct {
	client *elasticsearch.Client
	index  string
}

func NewSearchService() *SearchService {
	index := os.Getenv("ELASTICSEARCH_INDEX")
	if index == "" {
		index = "backoffice_products"
	}
	svc := &SearchService{index: index}

	host := os.Getenv("ELASTICSEARCH_HOST")
	if host == "" {
		return svc
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{host},
	})
	if err != nil {
		return svc
	}
	svc.client = client
	return svc
}

// Enabled reports whether an Elasticsearch backend is configured.
func (s *SearchService) Enabled() bool {
	return s.client != nil
}

// ProductHit is one search result decoded from the index document.
type ProductHit struct {
	ID       uint    `mapstructure:"id" json:"id"`
	Title    string  `mapstructure:"title" json:"title"`
	SKU      string  `mapstructure:"sku" json:"sku"`
	Category string  `mapstructure:"category" json:"category"`
	Status   string  `mapstructure:"status" json:"status"`
	Stock    int     `mapstructure:"stock" json:"stock"`
	Price    float64 `mapstructure:"price" json:"price"`
}

// Search runs a multi_match query against the product index.
func (s *SearchService) Search(ctx context.Context, query string, page, limit int) ([]ProductHit, int64, error) {
	if s.client == nil {
		return nil, 0, fmt.Errorf("elasticsearch not configured")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	body := map[string]interface{}{
		"from": (page - 1) * limit,
		"size": limit,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"title^3", "sku^2", "description", "category"},
			},
		},
	}
	bodyBytes, _ := json.Marshal(body)

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(bodyBytes)),
	)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, 0, fmt.Errorf("elasticsearch error: %s", res.String())
	}

	var esResp struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source map[string]interface{} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, 0, err
	}

	hits := make([]ProductHit, 0, len(esResp.Hits.Hits))
	for _, h := range esResp.Hits.Hits {
		var hit ProductHit
		if err := mapstructure.WeakDecode(h.Source, &hit); err != nil {
			continue
		}
		hits = append(hits, hit)
	}
	return hits, esResp.Hits.Total.Value, nil
}

// SearchProducts searches the catalog: Elasticsearch when configured, SQL
// substring matching otherwise.
func SearchProducts(ctx context.Context, db *gorm.DB, query string, page, limit int) ([]ProductHit, int64, error) {
	if svc := GetSearchService(); svc.Enabled() {
		return svc.Search(ctx, query, page, limit)
	}

	result, err := ListProducts(db, catalogRepo.ListFilter{Search: query}, page, limit)
	if err != nil {
		return nil, 0, err
	}
	hits := make([]ProductHit, 0, len(result.Products))
	for _, p := range result.Products {
		sku := ""
		price := 0.0
		if len(p.Variants) > 0 {
			sku = p.Variants[0].SKU
			price = p.Variants[0].Price
		}
		hits = append(hits, ProductHit{
			ID:       p.ID,
			Title:    p.Title,
			SKU:      sku,
			Category: p.Category,
			Status:   p.Status,
			Stock:    p.Stock,
			Price:    price,
		})
	}
	return hits, result.Total, nil
}
