package service

import (
	"context"

	"github.com/dafibh/planner/planner-web/internal/domain"
	"github.com/dafibh/planner/planner-web/internal/websocket"
)

// InsuranceService handles insurance forms and live events
type InsuranceService struct {
	insuranceRepo  domain.InsuranceRepository
	validator      Validator
	eventPublisher websocket.EventPublisher
}

// NewInsuranceService creates a new InsuranceService
func NewInsuranceService(insuranceRepo domain.InsuranceRepository, validator Validator) *InsuranceService {
	return &InsuranceService{
		insuranceRepo: insuranceRepo,
		validator:     validator,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *InsuranceService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *InsuranceService) publishEvent(simulationID int64, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(simulationID, event)
	}
}

func (s *InsuranceService) NewForm() domain.InsuranceInput {
	return domain.NewInsuranceInput()
}

func (s *InsuranceService) EditForm(ctx context.Context, id int64) (domain.InsuranceInput, error) {
	insurance, err := s.insuranceRepo.GetByID(ctx, id)
	if err != nil {
		return domain.InsuranceInput{}, err
	}
	return insurance.Input(), nil
}

func (s *InsuranceService) GetInsurances(ctx context.Context) ([]domain.Insurance, error) {
	return s.insuranceRepo.List(ctx)
}

func (s *InsuranceService) GetInsurance(ctx context.Context, id int64) (*domain.Insurance, error) {
	return s.insuranceRepo.GetByID(ctx, id)
}

func (s *InsuranceService) CreateInsurance(ctx context.Context, input *domain.InsuranceInput) (*domain.Insurance, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	created, err := s.insuranceRepo.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	s.publishEvent(input.SimulationID, websocket.InsuranceChanged(websocket.EventTypeCreated, created.ID, input.SimulationID))
	return created, nil
}

func (s *InsuranceService) UpdateInsurance(ctx context.Context, id int64, input *domain.InsuranceInput) (*domain.Insurance, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	updated, err := s.insuranceRepo.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}

	s.publishEvent(input.SimulationID, websocket.InsuranceChanged(websocket.EventTypeUpdated, id, input.SimulationID))
	return updated, nil
}

func (s *InsuranceService) DeleteInsurance(ctx context.Context, id int64) error {
	existing, err := s.insuranceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.insuranceRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.publishEvent(existing.SimulationID, websocket.InsuranceChanged(websocket.EventTypeDeleted, id, existing.SimulationID))
	return nil
}
