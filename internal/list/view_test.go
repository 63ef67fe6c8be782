package list

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/beyoung-commerce/admin-console/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBackend struct {
	mu        sync.Mutex
	products  []domain.Product
	listErr   error
	deleteErr error
	deletes   []string
}

func (f *fakeBackend) ListProducts(ctx context.Context, token string) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Product(nil), f.products...), nil
}

func (f *fakeBackend) DeleteProduct(ctx context.Context, id string, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return f.deleteErr
}

func catalog() []domain.Product {
	return []domain.Product{
		{ID: "p1", Title: "Red Shirt"},
		{ID: "p2", Title: "Blue Jeans"},
	}
}

func TestLoadReplacesListWholesale(t *testing.T) {
	backend := &fakeBackend{products: catalog()}
	v := NewView(backend, nil, zap.NewNop())

	require.NoError(t, v.Load(context.Background(), "token"))
	assert.Len(t, v.Products(), 2)

	backend.mu.Lock()
	backend.products = []domain.Product{{ID: "p3", Title: "Green Hoodie"}}
	backend.mu.Unlock()

	require.NoError(t, v.Load(context.Background(), "token"))
	products := v.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "Green Hoodie", products[0].Title)
}

func TestFilterIsCaseInsensitiveOnTitle(t *testing.T) {
	v := NewView(&fakeBackend{products: catalog()}, nil, zap.NewNop())
	require.NoError(t, v.Load(context.Background(), "token"))

	matched := v.Filter("shirt")
	require.Len(t, matched, 1)
	assert.Equal(t, "Red Shirt", matched[0].Title)

	assert.Len(t, v.Filter(""), 2)
	assert.Empty(t, v.Filter("jacket"))

	// filtering never mutates the source list
	assert.Len(t, v.Products(), 2)
}

func TestDeleteRemovesExactlyOneByIdentity(t *testing.T) {
	backend := &fakeBackend{products: catalog()}
	v := NewView(backend, nil, zap.NewNop())
	require.NoError(t, v.Load(context.Background(), "token"))

	require.NoError(t, v.Delete(context.Background(), domain.Product{ID: "p1"}, "token"))

	assert.Equal(t, []string{"p1"}, backend.deletes)
	products := v.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "p2", products[0].ID)
}

func TestFailedDeleteLeavesListUnchanged(t *testing.T) {
	backend := &fakeBackend{products: catalog(), deleteErr: errors.New("boom")}
	v := NewView(backend, nil, zap.NewNop())
	require.NoError(t, v.Load(context.Background(), "token"))

	err := v.Delete(context.Background(), domain.Product{ID: "p1"}, "token")
	require.Error(t, err)
	assert.Len(t, v.Products(), 2)
}

func TestDeleteSkipsUnpersistedProduct(t *testing.T) {
	backend := &fakeBackend{products: catalog()}
	v := NewView(backend, nil, zap.NewNop())
	require.NoError(t, v.Load(context.Background(), "token"))

	require.NoError(t, v.Delete(context.Background(), domain.Product{Title: "draft only"}, "token"))
	assert.Empty(t, backend.deletes)
	assert.Len(t, v.Products(), 2)
}

func TestDeclinedConfirmationIssuesNoCall(t *testing.T) {
	backend := &fakeBackend{products: catalog()}
	decline := func(domain.Product) bool { return false }
	v := NewView(backend, decline, zap.NewNop())
	require.NoError(t, v.Load(context.Background(), "token"))

	require.NoError(t, v.Delete(context.Background(), domain.Product{ID: "p1"}, "token"))
	assert.Empty(t, backend.deletes)
	assert.Len(t, v.Products(), 2)
}
