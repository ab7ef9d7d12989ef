package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"kharcha/internal/api"
	"kharcha/internal/cache"
	"kharcha/internal/core"
)

// CategoryService wraps the category endpoints with local validation and a
// short-lived cache for name lookups.
type CategoryService struct {
	client *api.Client
	cache  *cache.LRUCache[[]core.Category]
}

const categoryCacheKey = "categories"

func NewCategoryService(client *api.Client) *CategoryService {
	return &CategoryService{
		client: client,
		cache:  cache.NewLRUCache[[]core.Category](4, 2*time.Minute),
	}
}

// List returns the normalized category list. Both backend response shapes
// are already flattened by the client.
func (s *CategoryService) List(ctx context.Context) ([]core.Category, error) {
	records, err := s.client.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]core.Category, 0, len(records))
	for _, r := range records {
		out = append(out, core.Category{ID: r.ID, Name: r.Name, Color: r.Color, Icon: r.Icon, IsMine: r.IsMine})
	}
	s.cache.Set(categoryCacheKey, out)
	return out, nil
}

// Resolve maps a category name to its id, refreshing the cached list on a
// miss. Matching is case-insensitive.
func (s *CategoryService) Resolve(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, core.ErrEmptyCategory
	}
	cats, ok := s.cache.Get(categoryCacheKey)
	if !ok {
		var err error
		cats, err = s.List(ctx)
		if err != nil {
			return 0, err
		}
	}
	for _, c := range cats {
		if strings.EqualFold(c.Name, name) {
			return c.ID, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", name)
}

// Create rejects blank names before any network call. A duplicate-name
// conflict from the server surfaces as the generic API failure; the
// backend's duplicate error is not parsed into anything structured.
func (s *CategoryService) Create(ctx context.Context, name string) (core.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Category{}, core.ErrEmptyCategory
	}
	rec, err := s.client.CreateCategory(ctx, name)
	if err != nil {
		return core.Category{}, err
	}
	s.cache.Delete(categoryCacheKey)
	return core.Category{ID: rec.ID, Name: rec.Name, Color: rec.Color, Icon: rec.Icon, IsMine: rec.IsMine}, nil
}

func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if err := s.client.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(categoryCacheKey)
	return nil
}

// DeleteAll fires one delete per id concurrently and reports the joined
// failures if any. Deletes that succeeded are not rolled back; partial
// failure is accepted, not transactional, so no errgroup cancellation is
// used here.
func (s *CategoryService) DeleteAll(ctx context.Context, ids []int64) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			if err := s.client.DeleteCategory(ctx, id); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()
	s.cache.Delete(categoryCacheKey)
	if len(errs) > 0 {
		return fmt.Errorf("delete %d of %d categories failed: %w", len(errs), len(ids), errors.Join(errs...))
	}
	return nil
}
