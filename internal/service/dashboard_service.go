package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/dafibh/planner/planner-web/internal/domain"
	"golang.org/x/sync/errgroup"
)

// DashboardService assembles the projection dashboard of a simulation
type DashboardService struct {
	simulationRepo domain.SimulationRepository
	settings       domain.ProjectionSettings
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(simulationRepo domain.SimulationRepository, settings domain.ProjectionSettings) *DashboardService {
	return &DashboardService{
		simulationRepo: simulationRepo,
		settings:       settings,
	}
}

// Settings returns the projection settings in use
func (s *DashboardService) Settings() domain.ProjectionSettings {
	return s.settings
}

// Options returns the simulations offered by the picker
func (s *DashboardService) Options(ctx context.Context) ([]domain.Simulation, error) {
	return s.simulationRepo.List(ctx)
}

// Resolve turns the raw picker value into a selected simulation id.
// Empty, malformed and unknown values all mean no selection (0).
func Resolve(options []domain.Simulation, raw string) int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	for _, option := range options {
		if option.ID == id {
			return id
		}
	}
	return 0
}

// Load fetches the detail, projection and timeline of a simulation in
// parallel and derives the dashboard. The first failure cancels the others.
func (s *DashboardService) Load(ctx context.Context, simulationID int64) (*domain.Dashboard, error) {
	var (
		simulation *domain.Simulation
		points     []domain.ProjectionPoint
		events     []domain.TimelineEvent
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		simulation, err = s.simulationRepo.GetByID(gctx, simulationID)
		return err
	})
	g.Go(func() error {
		var err error
		points, err = s.simulationRepo.GetProjection(gctx, simulationID)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = s.simulationRepo.GetTimeline(gctx, simulationID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Summarize(simulation, points, events, s.settings), nil
}

// Summarize derives the dashboard from fetched data. It is recomputed on every
// render and never cached.
func Summarize(simulation *domain.Simulation, points []domain.ProjectionPoint, events []domain.TimelineEvent, settings domain.ProjectionSettings) *domain.Dashboard {
	if points == nil {
		points = []domain.ProjectionPoint{}
	}
	return &domain.Dashboard{
		Simulation:    simulation,
		ReferenceYear: settings.ReferenceYear,
		NetWorth:      domain.NetWorth(points, settings.ReferenceYear),
		AgeSnapshots:  domain.AgeSnapshots(points, settings),
		Series:        domain.DetailSeries(points),
		Timeline:      domain.RankTimeline(events),
		Projection:    points,
	}
}
