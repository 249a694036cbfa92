package service

import (
	"context"

	"github.com/dafibh/planner/planner-web/internal/domain"
	"github.com/dafibh/planner/planner-web/internal/websocket"
)

// MovementService handles movement forms and live events
type MovementService struct {
	movementRepo   domain.MovementRepository
	validator      Validator
	eventPublisher websocket.EventPublisher
}

// NewMovementService creates a new MovementService
func NewMovementService(movementRepo domain.MovementRepository, validator Validator) *MovementService {
	return &MovementService{
		movementRepo: movementRepo,
		validator:    validator,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *MovementService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *MovementService) publishEvent(simulationID int64, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(simulationID, event)
	}
}

func (s *MovementService) NewForm() domain.MovementInput {
	return domain.NewMovementInput()
}

// EditForm loads a movement and seeds its form. A missing end date stays empty.
func (s *MovementService) EditForm(ctx context.Context, id int64) (domain.MovementInput, error) {
	movement, err := s.movementRepo.GetByID(ctx, id)
	if err != nil {
		return domain.MovementInput{}, err
	}
	return movement.Input(), nil
}

func (s *MovementService) GetMovements(ctx context.Context) ([]domain.Movement, error) {
	return s.movementRepo.List(ctx)
}

func (s *MovementService) GetMovement(ctx context.Context, id int64) (*domain.Movement, error) {
	return s.movementRepo.GetByID(ctx, id)
}

// CreateMovement validates input and creates the movement. An empty end date is
// left out of the payload.
func (s *MovementService) CreateMovement(ctx context.Context, input *domain.MovementInput) (*domain.Movement, error) {
	normalizeEndDate(input)
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	created, err := s.movementRepo.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	s.publishEvent(input.SimulationID, websocket.MovementChanged(websocket.EventTypeCreated, created.ID, input.SimulationID))
	return created, nil
}

func (s *MovementService) UpdateMovement(ctx context.Context, id int64, input *domain.MovementInput) (*domain.Movement, error) {
	normalizeEndDate(input)
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	updated, err := s.movementRepo.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}

	s.publishEvent(input.SimulationID, websocket.MovementChanged(websocket.EventTypeUpdated, id, input.SimulationID))
	return updated, nil
}

func (s *MovementService) DeleteMovement(ctx context.Context, id int64) error {
	existing, err := s.movementRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.movementRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.publishEvent(existing.SimulationID, websocket.MovementChanged(websocket.EventTypeDeleted, id, existing.SimulationID))
	return nil
}

func normalizeEndDate(input *domain.MovementInput) {
	if input.EndDate != nil && input.EndDate.IsZero() {
		input.EndDate = nil
	}
}
