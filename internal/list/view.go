// Package list is the product list view-model: a wholesale-loaded snapshot of
// the catalog with derived text filtering and identity-based deletion.
package list

import (
	"context"
	"strings"
	"sync"

	"github.com/beyoung-commerce/admin-console/internal/domain"
	"go.uber.org/zap"
)

type Backend interface {
	ListProducts(ctx context.Context, token string) ([]domain.Product, error)
	DeleteProduct(ctx context.Context, id string, token string) error
}

// ConfirmFunc asks whether a delete should proceed. A nil func means always
// proceed (the HTTP surface confirms on its own side).
type ConfirmFunc func(domain.Product) bool

type View struct {
	backend Backend
	confirm ConfirmFunc
	logger  *zap.Logger

	mu       sync.RWMutex
	products []domain.Product
}

func NewView(backend Backend, confirm ConfirmFunc, logger *zap.Logger) *View {
	return &View{
		backend: backend,
		confirm: confirm,
		logger:  logger,
	}
}

// Load fetches the product list and replaces the in-memory slice wholesale.
func (v *View) Load(ctx context.Context, token string) error {
	products, err := v.backend.ListProducts(ctx, token)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.products = products
	v.mu.Unlock()

	v.logger.Info("Product list loaded", zap.Int("count", len(products)))
	return nil
}

// Products returns the current snapshot.
func (v *View) Products() []domain.Product {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]domain.Product(nil), v.products...)
}

// Filter returns the products whose title contains query, case-insensitively.
// The source list is never mutated; an empty query matches everything.
func (v *View) Filter(query string) []domain.Product {
	v.mu.RLock()
	defer v.mu.RUnlock()

	q := strings.ToLower(query)
	matched := make([]domain.Product, 0, len(v.products))
	for _, p := range v.products {
		if strings.Contains(strings.ToLower(p.Title), q) {
			matched = append(matched, p)
		}
	}
	return matched
}

// Delete confirms intent, issues the delete call, and on success removes the
// matching entry from the list by ID. On failure the list is left unchanged.
// A product that was never persisted is a no-op.
func (v *View) Delete(ctx context.Context, p domain.Product, token string) error {
	if p.ID == "" {
		return nil
	}
	if v.confirm != nil && !v.confirm(p) {
		return nil
	}

	if err := v.backend.DeleteProduct(ctx, p.ID, token); err != nil {
		v.logger.Warn("Failed to delete product",
			zap.String("product_id", p.ID),
			zap.Error(err))
		return err
	}

	v.mu.Lock()
	kept := v.products[:0]
	for _, existing := range v.products {
		if existing.ID != p.ID {
			kept = append(kept, existing)
		}
	}
	v.products = kept
	v.mu.Unlock()

	v.logger.Info("Product deleted", zap.String("product_id", p.ID))
	return nil
}
