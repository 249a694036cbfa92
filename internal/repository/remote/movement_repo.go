package remote

import (
	"context"
	"fmt"

	"github.com/dafibh/planner/planner-web/internal/cache"
	"github.com/dafibh/planner/planner-web/internal/client"
	"github.com/dafibh/planner/planner-web/internal/domain"
)

// MovementRepository implements domain.MovementRepository over the planner API
type MovementRepository struct {
	api   *client.Client
	cache *cache.Cache
}

// NewMovementRepository creates a new MovementRepository
func NewMovementRepository(api *client.Client, c *cache.Cache) *MovementRepository {
	return &MovementRepository{api: api, cache: c}
}

// List returns movements in API order; the API does not filter by simulation
func (r *MovementRepository) List(ctx context.Context) ([]domain.Movement, error) {
	return cache.Fetch(ctx, r.cache, movementsKey, func(ctx context.Context) ([]domain.Movement, error) {
		var movements []domain.Movement
		if err := r.api.Get(ctx, "/movements", &movements); err != nil {
			return nil, err
		}
		return movements, nil
	})
}

func (r *MovementRepository) GetByID(ctx context.Context, id int64) (*domain.Movement, error) {
	movement, err := cache.Fetch(ctx, r.cache, cache.IDKey(movementKey, id), func(ctx context.Context) (domain.Movement, error) {
		var m domain.Movement
		err := r.api.Get(ctx, fmt.Sprintf("/movements/%d", id), &m)
		return m, err
	})
	if err != nil {
		return nil, err
	}
	return &movement, nil
}

func (r *MovementRepository) Create(ctx context.Context, input *domain.MovementInput) (*domain.Movement, error) {
	var created domain.Movement
	if err := r.api.Post(ctx, "/movements", input, &created); err != nil {
		return nil, err
	}
	r.cache.Invalidate(ctx, childWriteKeys(movementsKey, movementKey, created.ID)...)
	return &created, nil
}

// Update replaces the whole movement
func (r *MovementRepository) Update(ctx context.Context, id int64, input *domain.MovementInput) (*domain.Movement, error) {
	var updated domain.Movement
	if err := r.api.Patch(ctx, fmt.Sprintf("/movements/%d", id), input, &updated); err != nil {
		return nil, err
	}
	r.cache.Invalidate(ctx, childWriteKeys(movementsKey, movementKey, id)...)
	return &updated, nil
}

func (r *MovementRepository) Delete(ctx context.Context, id int64) error {
	if err := r.api.Delete(ctx, fmt.Sprintf("/movements/%d", id)); err != nil {
		return err
	}
	r.cache.Invalidate(ctx, childWriteKeys(movementsKey, movementKey, id)...)
	return nil
}
