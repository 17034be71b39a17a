package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strings"
)

// Service orchestrates catalog queries and caching.
type Service struct {
	queries     Querier
	cache       *Cache
	searchLimit int
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Queries     Querier
	Cache       *Cache
	SearchLimit int
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Queries == nil {
		return nil, errors.New("catalog: queries provider is required")
	}
	limit := cfg.SearchLimit
	if limit < 1 {
		limit = 50
	}
	return &Service{queries: cfg.Queries, cache: cfg.Cache, searchLimit: limit}, nil
}

// Search returns products matching the term and category filters.
func (s *Service) Search(ctx context.Context, term string, categories []string) ([]Product, error) {
	term = strings.TrimSpace(term)
	filtered := make([]string, 0, len(categories))
	for _, c := range categories {
		if trimmed := strings.TrimSpace(c); trimmed != "" {
			filtered = append(filtered, trimmed)
		}
	}
	sort.Strings(filtered)

	key := searchCacheKey(term, filtered)
	var cached []Product
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	products, err := s.queries.SearchProducts(ctx, term, filtered, int32(s.searchLimit))
	if err != nil {
		return nil, err
	}
	_ = s.cache.SetJSON(ctx, key, products)
	return products, nil
}

// Categories returns every distinct category name in sorted order.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	const key = "catalog:categories"
	var cached []string
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}
	categories, err := s.queries.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.SetJSON(ctx, key, categories)
	return categories, nil
}

func searchCacheKey(term string, categories []string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(term) + "|" + strings.Join(categories, ",")))
	return "catalog:search:" + hex.EncodeToString(sum[:8])
}
