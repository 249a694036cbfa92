package service

import (
	"context"

	"github.com/dafibh/planner/planner-web/internal/domain"
	"github.com/dafibh/planner/planner-web/internal/websocket"
)

// AllocationService handles allocation forms and live events
type AllocationService struct {
	allocationRepo domain.AllocationRepository
	validator      Validator
	eventPublisher websocket.EventPublisher
}

// NewAllocationService creates a new AllocationService
func NewAllocationService(allocationRepo domain.AllocationRepository, validator Validator) *AllocationService {
	return &AllocationService{
		allocationRepo: allocationRepo,
		validator:      validator,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *AllocationService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *AllocationService) publishEvent(simulationID int64, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(simulationID, event)
	}
}

// NewForm returns the defaults of an empty allocation form
func (s *AllocationService) NewForm() domain.AllocationInput {
	return domain.NewAllocationInput()
}

// EditForm loads an allocation and seeds its form. Financing terms are only
// carried over when the allocation is financed.
func (s *AllocationService) EditForm(ctx context.Context, id int64) (domain.AllocationInput, error) {
	allocation, err := s.allocationRepo.GetByID(ctx, id)
	if err != nil {
		return domain.AllocationInput{}, err
	}
	return allocation.Input(), nil
}

func (s *AllocationService) GetAllocations(ctx context.Context) ([]domain.Allocation, error) {
	return s.allocationRepo.List(ctx)
}

func (s *AllocationService) GetAllocation(ctx context.Context, id int64) (*domain.Allocation, error) {
	return s.allocationRepo.GetByID(ctx, id)
}

func (s *AllocationService) CreateAllocation(ctx context.Context, input *domain.AllocationInput) (*domain.Allocation, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	created, err := s.allocationRepo.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	s.publishEvent(input.SimulationID, websocket.AllocationChanged(websocket.EventTypeCreated, created.ID, input.SimulationID))
	return created, nil
}

// UpdateAllocation replaces the whole allocation
func (s *AllocationService) UpdateAllocation(ctx context.Context, id int64, input *domain.AllocationInput) (*domain.Allocation, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	updated, err := s.allocationRepo.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}

	s.publishEvent(input.SimulationID, websocket.AllocationChanged(websocket.EventTypeUpdated, id, input.SimulationID))
	return updated, nil
}

// DeleteAllocation removes an allocation. It is looked up first so the event
// reaches the pages following its simulation.
func (s *AllocationService) DeleteAllocation(ctx context.Context, id int64) error {
	existing, err := s.allocationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.allocationRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.publishEvent(existing.SimulationID, websocket.AllocationChanged(websocket.EventTypeDeleted, id, existing.SimulationID))
	return nil
}
