package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dafibh/planner/planner-web/internal/domain"
	"github.com/dafibh/planner/planner-web/internal/testutil"
	"github.com/dafibh/planner/planner-web/internal/validation"
)

func TestAllocationForm_Defaults(t *testing.T) {
	svc := NewAllocationService(testutil.NewMockAllocationRepository(), validation.New())

	form := svc.NewForm()

	if form.Type != domain.AllocationTypeFinancial {
		t.Errorf("Expected FINANCEIRA, got %s", form.Type)
	}
	if form.Financing != nil {
		t.Error("Expected no financing by default")
	}
	if form.SimulationID != 1 {
		t.Errorf("Expected simulation 1, got %d", form.SimulationID)
	}
	if !form.Value.IsZero() {
		t.Errorf("Expected zero value, got %s", form.Value)
	}
}

func TestCreateAllocation_PublishesToOwningSimulation(t *testing.T) {
	repo := testutil.NewMockAllocationRepository()
	publisher := testutil.NewMockEventPublisher()
	svc := NewAllocationService(repo, validation.New())
	svc.SetEventPublisher(publisher)

	input := domain.AllocationInput{
		Name:         "Apartamento",
		Type:         domain.AllocationTypeFixed,
		Value:        domain.NewAmount(500000),
		Date:         domain.NewDate(2025, 3, 1),
		Financing:    &domain.FinancingTerms{StartDate: domain.NewDate(2025, 3, 1), Installments: 360, InterestRate: domain.MustAmount("0.09"), DownPayment: domain.NewAmount(100000)},
		SimulationID: 7,
	}

	created, err := svc.CreateAllocation(context.Background(), &input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !created.HasFinancing || created.Installments != 360 {
		t.Errorf("Expected financing to be stored, got %+v", created)
	}
	if len(publisher.Events) != 1 || publisher.Events[0].SimulationID != 7 || publisher.Events[0].Event.Type != "allocation.created" {
		t.Errorf("Unexpected events %+v", publisher.Events)
	}
}

func TestCreateAllocation_InvalidSendsNothing(t *testing.T) {
	repo := testutil.NewMockAllocationRepository()
	svc := NewAllocationService(repo, validation.New())

	input := svc.NewForm()
	_, err := svc.CreateAllocation(context.Background(), &input)

	verrs, ok := validation.AsErrors(err)
	if !ok {
		t.Fatalf("Expected validation errors, got %v", err)
	}
	for _, field := range []string{"name", "value", "date"} {
		if !verrs.Has(field) {
			t.Errorf("Expected error on %s", field)
		}
	}
	if repo.LastInput != nil {
		t.Error("Expected no repository call")
	}
}

func TestEditAllocationForm_FinancingVariant(t *testing.T) {
	repo := testutil.NewMockAllocationRepository()
	repo.Allocations[1] = &domain.Allocation{ID: 1, Name: "Tesouro", Type: domain.AllocationTypeFinancial, Value: domain.NewAmount(1000), Date: domain.NewDate(2025, 1, 1), Installments: 12, SimulationID: 1}
	repo.Allocations[2] = &domain.Allocation{ID: 2, Name: "Casa", Type: domain.AllocationTypeFixed, Value: domain.NewAmount(1000), Date: domain.NewDate(2025, 1, 1), HasFinancing: true, Installments: 12, SimulationID: 1}
	svc := NewAllocationService(repo, validation.New())

	plain, _ := svc.EditForm(context.Background(), 1)
	if plain.Financing != nil {
		t.Error("Expected stale terms of an unfinanced allocation to be dropped")
	}

	financed, _ := svc.EditForm(context.Background(), 2)
	if financed.Financing == nil || financed.Financing.Installments != 12 {
		t.Errorf("Expected financing terms, got %+v", financed.Financing)
	}
}

func TestDeleteAllocation(t *testing.T) {
	repo := testutil.NewMockAllocationRepository()
	repo.Allocations[5] = &domain.Allocation{ID: 5, SimulationID: 3}
	publisher := testutil.NewMockEventPublisher()
	svc := NewAllocationService(repo, validation.New())
	svc.SetEventPublisher(publisher)

	if err := svc.DeleteAllocation(context.Background(), 5); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(repo.Deleted) != 1 || repo.Deleted[0] != 5 {
		t.Errorf("Expected allocation 5 deleted, got %v", repo.Deleted)
	}
	if publisher.Events[0].SimulationID != 3 {
		t.Errorf("Expected event for simulation 3, got %d", publisher.Events[0].SimulationID)
	}

	if err := svc.DeleteAllocation(context.Background(), 5); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestInsuranceService_Lifecycle(t *testing.T) {
	repo := testutil.NewMockInsuranceRepository()
	publisher := testutil.NewMockEventPublisher()
	svc := NewInsuranceService(repo, validation.New())
	svc.SetEventPublisher(publisher)

	form := svc.NewForm()
	if form.SimulationID != 1 || form.Duration != 0 {
		t.Errorf("Unexpected defaults %+v", form)
	}

	input := domain.InsuranceInput{Name: "Vida", StartDate: domain.NewDate(2025, 1, 1), Duration: 20, Premium: domain.NewAmount(150), InsuredValue: domain.NewAmount(500000), SimulationID: 1}
	created, err := svc.CreateInsurance(context.Background(), &input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	input.Duration = 0
	if _, err := svc.UpdateInsurance(context.Background(), created.ID, &input); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}

	edit, err := svc.EditForm(context.Background(), created.ID)
	if err != nil || edit.Duration != 20 {
		t.Errorf("Expected stored duration 20, got %d (%v)", edit.Duration, err)
	}

	if err := svc.DeleteInsurance(context.Background(), created.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	types := publisher.Types()
	if len(types) != 2 || types[0] != "insurance.created" || types[1] != "insurance.deleted" {
		t.Errorf("Unexpected events %v", types)
	}
}

func TestMovementService_EndDate(t *testing.T) {
	repo := testutil.NewMockMovementRepository()
	svc := NewMovementService(repo, validation.New())

	empty := domain.Date{}
	input := domain.MovementInput{Type: domain.MovementTypeOutflow, Value: domain.NewAmount(10), Frequency: domain.FrequencyMonthly, StartDate: domain.NewDate(2025, 1, 1), EndDate: &empty, SimulationID: 1}

	created, err := svc.CreateMovement(context.Background(), &input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if repo.LastInput.EndDate != nil {
		t.Error("Expected an empty end date to be dropped from the payload")
	}

	end := domain.NewDate(2030, 12, 31)
	input.EndDate = &end
	if _, err := svc.UpdateMovement(context.Background(), created.ID, &input); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	form, _ := svc.EditForm(context.Background(), created.ID)
	if form.EndDate == nil || form.EndDate.String() != "2030-12-31" {
		t.Errorf("Expected end date 2030-12-31, got %v", form.EndDate)
	}
}
