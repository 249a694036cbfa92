package service

import (
	"context"

	"github.com/dafibh/planner/planner-web/internal/domain"
	"github.com/dafibh/planner/planner-web/internal/websocket"
)

// SimulationService handles simulation forms, versions and live events
type SimulationService struct {
	simulationRepo domain.SimulationRepository
	validator      Validator
	eventPublisher websocket.EventPublisher
}

// NewSimulationService creates a new SimulationService
func NewSimulationService(simulationRepo domain.SimulationRepository, validator Validator) *SimulationService {
	return &SimulationService{
		simulationRepo: simulationRepo,
		validator:      validator,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *SimulationService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *SimulationService) publishEvent(simulationID int64, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(simulationID, event)
	}
}

// NewForm returns the defaults of an empty simulation form
func (s *SimulationService) NewForm() domain.SimulationInput {
	return domain.NewSimulationInput()
}

// EditForm loads a simulation and seeds its form
func (s *SimulationService) EditForm(ctx context.Context, id int64) (domain.SimulationInput, error) {
	simulation, err := s.simulationRepo.GetByID(ctx, id)
	if err != nil {
		return domain.SimulationInput{}, err
	}
	return simulation.Input(), nil
}

func (s *SimulationService) GetSimulations(ctx context.Context) ([]domain.Simulation, error) {
	return s.simulationRepo.List(ctx)
}

// GetSimulation returns a simulation with its nested collections
func (s *SimulationService) GetSimulation(ctx context.Context, id int64) (*domain.Simulation, error) {
	return s.simulationRepo.GetByID(ctx, id)
}

// CreateSimulation validates input and creates the simulation. Nothing is sent
// when validation fails.
func (s *SimulationService) CreateSimulation(ctx context.Context, input *domain.SimulationInput) (*domain.Simulation, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	created, err := s.simulationRepo.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	s.publishEvent(created.ID, websocket.SimulationChanged(websocket.EventTypeCreated, created.ID))
	return created, nil
}

// UpdateSimulation replaces the whole simulation
func (s *SimulationService) UpdateSimulation(ctx context.Context, id int64, input *domain.SimulationInput) (*domain.Simulation, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	updated, err := s.simulationRepo.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}

	s.publishEvent(id, websocket.SimulationChanged(websocket.EventTypeUpdated, id))
	return updated, nil
}

func (s *SimulationService) DeleteSimulation(ctx context.Context, id int64) error {
	if err := s.simulationRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.publishEvent(id, websocket.SimulationChanged(websocket.EventTypeDeleted, id))
	return nil
}

// GetVersions returns the snapshots of a simulation in API order
func (s *SimulationService) GetVersions(ctx context.Context, id int64) ([]domain.SimulationVersion, error) {
	return s.simulationRepo.GetVersions(ctx, id)
}

// NewVersionForm returns the defaults of the snapshot form
func (s *SimulationService) NewVersionForm() domain.VersionInput {
	return domain.NewVersionInput()
}

// CreateVersion snapshots a simulation under a new name and rate
func (s *SimulationService) CreateVersion(ctx context.Context, id int64, input *domain.VersionInput) (*domain.SimulationVersion, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	version, err := s.simulationRepo.CreateVersion(ctx, id, input)
	if err != nil {
		return nil, err
	}

	s.publishEvent(id, websocket.SimulationVersioned(id, version.ID))
	return version, nil
}
