package remote

import (
	"context"
	"fmt"

	"github.com/dafibh/planner/planner-web/internal/cache"
	"github.com/dafibh/planner/planner-web/internal/client"
	"github.com/dafibh/planner/planner-web/internal/domain"
)

// AllocationRepository implements domain.AllocationRepository over the planner API
type AllocationRepository struct {
	api   *client.Client
	cache *cache.Cache
}

// NewAllocationRepository creates a new AllocationRepository
func NewAllocationRepository(api *client.Client, c *cache.Cache) *AllocationRepository {
	return &AllocationRepository{api: api, cache: c}
}

func (r *AllocationRepository) List(ctx context.Context) ([]domain.Allocation, error) {
	return cache.Fetch(ctx, r.cache, allocationsKey, func(ctx context.Context) ([]domain.Allocation, error) {
		var allocations []domain.Allocation
		if err := r.api.Get(ctx, "/allocations", &allocations); err != nil {
			return nil, err
		}
		return allocations, nil
	})
}

func (r *AllocationRepository) GetByID(ctx context.Context, id int64) (*domain.Allocation, error) {
	allocation, err := cache.Fetch(ctx, r.cache, cache.IDKey(allocationKey, id), func(ctx context.Context) (domain.Allocation, error) {
		var a domain.Allocation
		err := r.api.Get(ctx, fmt.Sprintf("/allocations/%d", id), &a)
		return a, err
	})
	if err != nil {
		return nil, err
	}
	return &allocation, nil
}

func (r *AllocationRepository) Create(ctx context.Context, input *domain.AllocationInput) (*domain.Allocation, error) {
	var created domain.Allocation
	if err := r.api.Post(ctx, "/allocations", input, &created); err != nil {
		return nil, err
	}
	r.cache.Invalidate(ctx, childWriteKeys(allocationsKey, allocationKey, created.ID)...)
	return &created, nil
}

// Update replaces the whole allocation
func (r *AllocationRepository) Update(ctx context.Context, id int64, input *domain.AllocationInput) (*domain.Allocation, error) {
	var updated domain.Allocation
	if err := r.api.Patch(ctx, fmt.Sprintf("/allocations/%d", id), input, &updated); err != nil {
		return nil, err
	}
	r.cache.Invalidate(ctx, childWriteKeys(allocationsKey, allocationKey, id)...)
	return &updated, nil
}

func (r *AllocationRepository) Delete(ctx context.Context, id int64) error {
	if err := r.api.Delete(ctx, fmt.Sprintf("/allocations/%d", id)); err != nil {
		return err
	}
	r.cache.Invalidate(ctx, childWriteKeys(allocationsKey, allocationKey, id)...)
	return nil
}
