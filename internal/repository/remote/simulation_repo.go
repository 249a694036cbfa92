package remote

import (
	"context"
	"fmt"

	"github.com/dafibh/planner/planner-web/internal/cache"
	"github.com/dafibh/planner/planner-web/internal/client"
	"github.com/dafibh/planner/planner-web/internal/domain"
)

// SimulationRepository implements domain.SimulationRepository over the planner API
type SimulationRepository struct {
	api   *client.Client
	cache *cache.Cache
}

// NewSimulationRepository creates a new SimulationRepository
func NewSimulationRepository(api *client.Client, c *cache.Cache) *SimulationRepository {
	return &SimulationRepository{api: api, cache: c}
}

// List returns every simulation without nested collections
func (r *SimulationRepository) List(ctx context.Context) ([]domain.Simulation, error) {
	return cache.Fetch(ctx, r.cache, simulationsKey, func(ctx context.Context) ([]domain.Simulation, error) {
		var simulations []domain.Simulation
		if err := r.api.Get(ctx, "/simulations", &simulations); err != nil {
			return nil, err
		}
		return simulations, nil
	})
}

// GetByID returns a simulation with its allocations, movements and insurances
func (r *SimulationRepository) GetByID(ctx context.Context, id int64) (*domain.Simulation, error) {
	simulation, err := cache.Fetch(ctx, r.cache, cache.IDKey(simulationKey, id), func(ctx context.Context) (domain.Simulation, error) {
		var s domain.Simulation
		err := r.api.Get(ctx, fmt.Sprintf("/simulations/%d", id), &s)
		return s, err
	})
	if err != nil {
		return nil, err
	}
	return &simulation, nil
}

func (r *SimulationRepository) Create(ctx context.Context, input *domain.SimulationInput) (*domain.Simulation, error) {
	var created domain.Simulation
	if err := r.api.Post(ctx, "/simulations", input, &created); err != nil {
		return nil, err
	}
	r.cache.Invalidate(ctx, simulationsKey)
	return &created, nil
}

func (r *SimulationRepository) Update(ctx context.Context, id int64, input *domain.SimulationInput) (*domain.Simulation, error) {
	var updated domain.Simulation
	if err := r.api.Patch(ctx, fmt.Sprintf("/simulations/%d", id), input, &updated); err != nil {
		return nil, err
	}
	r.cache.Invalidate(ctx,
		simulationsKey,
		cache.IDKey(simulationKey, id),
		cache.IDKey(projectionKey, id),
		cache.IDKey(timelineKey, id),
	)
	return &updated, nil
}

// Delete removes a simulation. The API cascades to its children, so every
// child listing is dropped as well.
func (r *SimulationRepository) Delete(ctx context.Context, id int64) error {
	if err := r.api.Delete(ctx, fmt.Sprintf("/simulations/%d", id)); err != nil {
		return err
	}
	r.cache.Invalidate(ctx,
		simulationsKey,
		cache.IDKey(simulationKey, id),
		cache.IDKey(projectionKey, id),
		cache.IDKey(timelineKey, id),
		cache.IDKey(versionsKey, id),
		allocationsKey, allocationKey,
		insurancesKey, insuranceKey,
		movementsKey, movementKey,
	)
	return nil
}

// GetProjection returns the yearly forecast ordered by year
func (r *SimulationRepository) GetProjection(ctx context.Context, id int64) ([]domain.ProjectionPoint, error) {
	return cache.Fetch(ctx, r.cache, cache.IDKey(projectionKey, id), func(ctx context.Context) ([]domain.ProjectionPoint, error) {
		var points []domain.ProjectionPoint
		if err := r.api.Get(ctx, fmt.Sprintf("/simulations/%d/projection", id), &points); err != nil {
			return nil, err
		}
		return points, nil
	})
}

func (r *SimulationRepository) GetTimeline(ctx context.Context, id int64) ([]domain.TimelineEvent, error) {
	return cache.Fetch(ctx, r.cache, cache.IDKey(timelineKey, id), func(ctx context.Context) ([]domain.TimelineEvent, error) {
		var events []domain.TimelineEvent
		if err := r.api.Get(ctx, fmt.Sprintf("/simulations/%d/timeline", id), &events); err != nil {
			return nil, err
		}
		return events, nil
	})
}

func (r *SimulationRepository) GetVersions(ctx context.Context, id int64) ([]domain.SimulationVersion, error) {
	return cache.Fetch(ctx, r.cache, cache.IDKey(versionsKey, id), func(ctx context.Context) ([]domain.SimulationVersion, error) {
		return r.api.GetSimulationVersions(ctx, id)
	})
}

func (r *SimulationRepository) CreateVersion(ctx context.Context, id int64, input *domain.VersionInput) (*domain.SimulationVersion, error) {
	version, err := r.api.CreateSimulationVersion(ctx, id, input)
	if err != nil {
		return nil, err
	}
	r.cache.Invalidate(ctx, cache.IDKey(versionsKey, id), simulationsKey)
	return version, nil
}
