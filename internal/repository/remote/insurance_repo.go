package remote

import (
	"context"
	"fmt"

	"github.com/dafibh/planner/planner-web/internal/cache"
	"github.com/dafibh/planner/planner-web/internal/client"
	"github.com/dafibh/planner/planner-web/internal/domain"
)

// InsuranceRepository implements domain.InsuranceRepository over the planner API
type InsuranceRepository struct {
	api   *client.Client
	cache *cache.Cache
}

// NewInsuranceRepository creates a new InsuranceRepository
func NewInsuranceRepository(api *client.Client, c *cache.Cache) *InsuranceRepository {
	return &InsuranceRepository{api: api, cache: c}
}

func (r *InsuranceRepository) List(ctx context.Context) ([]domain.Insurance, error) {
	return cache.Fetch(ctx, r.cache, insurancesKey, func(ctx context.Context) ([]domain.Insurance, error) {
		var insurances []domain.Insurance
		if err := r.api.Get(ctx, "/insurances", &insurances); err != nil {
			return nil, err
		}
		return insurances, nil
	})
}

func (r *InsuranceRepository) GetByID(ctx context.Context, id int64) (*domain.Insurance, error) {
	insurance, err := cache.Fetch(ctx, r.cache, cache.IDKey(insuranceKey, id), func(ctx context.Context) (domain.Insurance, error) {
		var i domain.Insurance
		err := r.api.Get(ctx, fmt.Sprintf("/insurances/%d", id), &i)
		return i, err
	})
	if err != nil {
		return nil, err
	}
	return &insurance, nil
}

func (r *InsuranceRepository) Create(ctx context.Context, input *domain.InsuranceInput) (*domain.Insurance, error) {
	var created domain.Insurance
	if err := r.api.Post(ctx, "/insurances", input, &created); err != nil {
		return nil, err
	}
	r.cache.Invalidate(ctx, childWriteKeys(insurancesKey, insuranceKey, created.ID)...)
	return &created, nil
}

// Update replaces the whole insurance policy
func (r *InsuranceRepository) Update(ctx context.Context, id int64, input *domain.InsuranceInput) (*domain.Insurance, error) {
	var updated domain.Insurance
	if err := r.api.Patch(ctx, fmt.Sprintf("/insurances/%d", id), input, &updated); err != nil {
		return nil, err
	}
	r.cache.Invalidate(ctx, childWriteKeys(insurancesKey, insuranceKey, id)...)
	return &updated, nil
}

func (r *InsuranceRepository) Delete(ctx context.Context, id int64) error {
	if err := r.api.Delete(ctx, fmt.Sprintf("/insurances/%d", id)); err != nil {
		return err
	}
	r.cache.Invalidate(ctx, childWriteKeys(insurancesKey, insuranceKey, id)...)
	return nil
}
