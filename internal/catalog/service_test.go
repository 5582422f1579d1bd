package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = log.New(io.Discard, "", 0)

type fakeRepo struct {
	Repository

	listProductsFn func(ctx context.Context, f ListFilter) ([]Product, error)
	getProductFn   func(ctx context.Context, id string) (*Product, error)
	getBySlugFn    func(ctx context.Context, slug string) (*Product, error)
	createFn       func(ctx context.Context, p *Product) error

	listCalls int
	getCalls  int
}

func (f *fakeRepo) ListProducts(ctx context.Context, fl ListFilter) ([]Product, error) {
	f.listCalls++
	return f.listProductsFn(ctx, fl)
}

func (f *fakeRepo) GetProduct(ctx context.Context, id string) (*Product, error) {
	f.getCalls++
	return f.getProductFn(ctx, id)
}

func (f *fakeRepo) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	return f.getBySlugFn(ctx, slug)
}

func (f *fakeRepo) CreateProduct(ctx context.Context, p *Product) error {
	return f.createFn(ctx, p)
}

// fakeCache is a map-backed Cache that records invalidations.
type fakeCache struct {
	values      map[string]string
	getErr      error
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, dest any) error {
	if c.getErr != nil {
		return c.getErr
	}
	raw, ok := c.values[key]
	if !ok {
		return errCacheMiss
	}
	return json.Unmarshal([]byte(raw), dest)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = string(data)
	return nil
}

func (c *fakeCache) InvalidatePrefix(_ context.Context, prefix string) error {
	c.invalidated = append(c.invalidated, prefix)
	for k := range c.values {
		delete(c.values, k)
	}
	return nil
}

func TestGetProduct_CacheHitSkipsRepo(t *testing.T) {
	repo := &fakeRepo{getProductFn: func(context.Context, string) (*Product, error) {
		return &Product{ID: "p1", Name: "iPhone 16", Price: 124990}, nil
	}}
	cache := newFakeCache()
	svc := NewService(repo, cache, testLogger)
	ctx := context.Background()

	first, err := svc.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.getCalls)

	second, err := svc.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.getCalls, "second read must come from cache")
	assert.Equal(t, first.Price, second.Price)
}

func TestGetProduct_CacheErrorFallsThrough(t *testing.T) {
	repo := &fakeRepo{getProductFn: func(context.Context, string) (*Product, error) {
		return &Product{ID: "p1"}, nil
	}}
	cache := newFakeCache()
	cache.getErr = errors.New("redis gone")
	svc := NewService(repo, cache, testLogger)

	p, err := svc.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, 1, repo.getCalls)
}

func TestGetProduct_RepoErrorPropagates(t *testing.T) {
	repo := &fakeRepo{getProductFn: func(context.Context, string) (*Product, error) {
		return nil, ErrNotFound
	}}
	svc := NewService(repo, newFakeCache(), testLogger)

	_, err := svc.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetProductBySlug_Cached(t *testing.T) {
	calls := 0
	repo := &fakeRepo{}
	repo.getBySlugFn = func(_ context.Context, slug string) (*Product, error) {
		calls++
		if slug != "iphone-16" {
			return nil, ErrNotFound
		}
		return &Product{ID: "p1", Slug: "iphone-16"}, nil
	}
	svc := NewService(repo, newFakeCache(), testLogger)
	ctx := context.Background()

	p, err := svc.GetProductBySlug(ctx, "iphone-16")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)

	_, err = svc.GetProductBySlug(ctx, "iphone-16")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	_, err = svc.GetProductBySlug(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListProducts_DistinctFiltersDistinctKeys(t *testing.T) {
	repo := &fakeRepo{listProductsFn: func(_ context.Context, f ListFilter) ([]Product, error) {
		return []Product{{ID: "for-" + f.BrandSlug}}, nil
	}}
	cache := newFakeCache()
	svc := NewService(repo, cache, testLogger)
	ctx := context.Background()

	apple, err := svc.ListProducts(ctx, ListFilter{BrandSlug: "apple"})
	require.NoError(t, err)
	samsung, err := svc.ListProducts(ctx, ListFilter{BrandSlug: "samsung"})
	require.NoError(t, err)

	assert.Equal(t, "for-apple", apple[0].ID)
	assert.Equal(t, "for-samsung", samsung[0].ID)
	assert.Equal(t, 2, repo.listCalls)

	// repeated filter is served from cache
	_, err = svc.ListProducts(ctx, ListFilter{BrandSlug: "apple"})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
}

func TestCreateProduct_InvalidatesCatalogCache(t *testing.T) {
	repo := &fakeRepo{
		listProductsFn: func(context.Context, ListFilter) ([]Product, error) {
			return []Product{{ID: "p1"}}, nil
		},
		createFn: func(context.Context, *Product) error { return nil },
	}
	cache := newFakeCache()
	svc := NewService(repo, cache, testLogger)
	ctx := context.Background()

	_, err := svc.ListProducts(ctx, ListFilter{})
	require.NoError(t, err)
	require.NotEmpty(t, cache.values)

	require.NoError(t, svc.CreateProduct(ctx, &Product{Name: "new", Slug: "new"}))

	assert.Equal(t, []string{cachePrefix}, cache.invalidated)
	assert.Empty(t, cache.values)

	_, err = svc.ListProducts(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls, "list must refetch after invalidation")
}

func TestCreateProduct_RepoErrorSkipsInvalidation(t *testing.T) {
	repo := &fakeRepo{createFn: func(context.Context, *Product) error { return ErrConflict }}
	cache := newFakeCache()
	svc := NewService(repo, cache, testLogger)

	err := svc.CreateProduct(context.Background(), &Product{Slug: "dup"})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Empty(t, cache.invalidated)
}

func TestService_NilCacheWorks(t *testing.T) {
	repo := &fakeRepo{getProductFn: func(context.Context, string) (*Product, error) {
		return &Product{ID: "p1"}, nil
	}}
	svc := NewService(repo, nil, testLogger)

	p, err := svc.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
}
