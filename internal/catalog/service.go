package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/singleflight"
)

const cachePrefix = "catalog:"

// Service layers the Redis cache over the repository. Reads go cache-first
// and fall back to Postgres on any cache failure; writes go straight to
// Postgres and invalidate the whole catalog prefix.
type Service struct {
	repo   Repository
	cache  Cache
	logger *log.Logger
	sfg    singleflight.Group // Prevents cache stampede
}

func NewService(repo Repository, cache Cache, logger *log.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

func (s *Service) ListProducts(ctx context.Context, f ListFilter) ([]Product, error) {
	key := fmt.Sprintf("%sproducts:%s:%s:%s:%t:%s:%d:%d",
		cachePrefix, f.CategorySlug, f.BrandSlug, f.Search, f.InStockOnly, f.Sort, f.Offset, f.Limit)

	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		if s.cache != nil {
			var cached []Product
			if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
				return cached, nil
			} else if !errors.Is(err, errCacheMiss) {
				s.logger.Printf("cache get error: %v", err)
			}
		}

		products, err := s.repo.ListProducts(ctx, f)
		if err != nil {
			return nil, err
		}

		if s.cache != nil {
			if err := s.cache.SetJSON(ctx, key, products); err != nil {
				s.logger.Printf("cache set error: %v", err)
			}
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Product), nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*Product, error) {
	key := cachePrefix + "product:" + id

	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		if s.cache != nil {
			var cached Product
			if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
				return &cached, nil
			} else if !errors.Is(err, errCacheMiss) {
				s.logger.Printf("cache get error: %v", err)
			}
		}

		p, err := s.repo.GetProduct(ctx, id)
		if err != nil {
			return nil, err
		}

		if s.cache != nil {
			if err := s.cache.SetJSON(ctx, key, p); err != nil {
				s.logger.Printf("cache set error: %v", err)
			}
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Product), nil
}

func (s *Service) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	key := cachePrefix + "product-slug:" + slug

	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		if s.cache != nil {
			var cached Product
			if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
				return &cached, nil
			} else if !errors.Is(err, errCacheMiss) {
				s.logger.Printf("cache get error: %v", err)
			}
		}

		p, err := s.repo.GetProductBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}

		if s.cache != nil {
			if err := s.cache.SetJSON(ctx, key, p); err != nil {
				s.logger.Printf("cache set error: %v", err)
			}
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Product), nil
}

func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	key := cachePrefix + "categories"

	if s.cache != nil {
		var cached []Category
		if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, errCacheMiss) {
			s.logger.Printf("cache get error: %v", err)
		}
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, categories); err != nil {
			s.logger.Printf("cache set error: %v", err)
		}
	}
	return categories, nil
}

func (s *Service) ListBrands(ctx context.Context) ([]Brand, error) {
	key := cachePrefix + "brands"

	if s.cache != nil {
		var cached []Brand
		if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, errCacheMiss) {
			s.logger.Printf("cache get error: %v", err)
		}
	}

	brands, err := s.repo.ListBrands(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, brands); err != nil {
			s.logger.Printf("cache set error: %v", err)
		}
	}
	return brands, nil
}

func (s *Service) CreateProduct(ctx context.Context, p *Product) error {
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) UpdateProduct(ctx context.Context, p *Product) error {
	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) CreateCategory(ctx context.Context, c *Category) error {
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) UpdateCategory(ctx context.Context, c *Category) error {
	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) CreateBrand(ctx context.Context, b *Brand) error {
	if err := s.repo.CreateBrand(ctx, b); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) DeleteBrand(ctx context.Context, id string) error {
	if err := s.repo.DeleteBrand(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePrefix(ctx, cachePrefix); err != nil {
		s.logger.Printf("cache invalidate error: %v", err)
	}
}
