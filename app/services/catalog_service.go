package services

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/till/app/models"
)

const entityProducts = "products"

// CatalogStore is the product catalog as seen through the sync policy.
type CatalogStore struct {
	policy *SyncPolicy
}

func NewCatalogStore(policy *SyncPolicy) *CatalogStore {
	return &CatalogStore{policy: policy}
}

// List never fails. With no local data yet it returns the default catalog.
func (c *CatalogStore) List(ctx context.Context) []models.Product {
	return read(ctx, c.policy, entityProducts,
		func(ctx context.Context, r RemoteBackend) ([]models.Product, error) {
			return r.ListProducts(ctx)
		},
		c.policy.Local().Products,
		func() []models.Product { return []models.Product{} },
	)
}

// Upsert inserts p or replaces the product with the same id.
func (c *CatalogStore) Upsert(ctx context.Context, p models.Product) error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrEmptyID
	}
	return c.policy.write(ctx, entityProducts, "upsert",
		func(ctx context.Context, r RemoteBackend) error { return r.UpsertProduct(ctx, p) },
		func() error { return c.policy.Local().UpsertProduct(p) },
	)
}

// Remove deletes id. An unknown id is not an error.
func (c *CatalogStore) Remove(ctx context.Context, id string) error {
	return c.policy.write(ctx, entityProducts, "remove",
		func(ctx context.Context, r RemoteBackend) error { return r.DeleteProduct(ctx, id) },
		func() error { return c.policy.Local().DeleteProduct(id) },
	)
}

// AllCategories is the pseudo-category that matches every product.
const AllCategories = "all"

// Categories returns the distinct categories in first-seen order.
func Categories(products []models.Product) []string {
	seen := make(map[string]struct{}, len(products))
	out := make([]string, 0, len(products))
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// Filter keeps products whose name contains query (case-insensitive) and whose
// category equals category. An empty or "all" category matches everything.
func Filter(products []models.Product, query, category string) []models.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		if category != "" && category != AllCategories && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	return out
}
