package domain

import "context"

// Insurance is a policy attached to a simulation
type Insurance struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	StartDate    Date   `json:"startDate"`
	Duration     int    `json:"duration"`
	Premium      Amount `json:"premium"`
	InsuredValue Amount `json:"insuredValue"`
	SimulationID int64  `json:"simulationId"`
}

// InsuranceInput is the create/replace payload for an insurance
type InsuranceInput struct {
	Name         string `json:"name" validate:"min=3" msg:"Nome deve ter no mínimo 3 caracteres"`
	StartDate    Date   `json:"startDate" validate:"required" msg:"Data de início é obrigatória"`
	Duration     int    `json:"duration" validate:"gt=0" msg:"Duração deve ser um número inteiro positivo"`
	Premium      Amount `json:"premium" validate:"gt=0" msg:"Prêmio deve ser um número positivo"`
	InsuredValue Amount `json:"insuredValue" validate:"gt=0" msg:"Valor segurado deve ser um número positivo"`
	SimulationID int64  `json:"simulationId" validate:"gt=0" msg:"ID da simulação é obrigatório"`
}

// NewInsuranceInput returns the defaults of an empty insurance form
func NewInsuranceInput() InsuranceInput {
	return InsuranceInput{SimulationID: 1}
}

// Input converts a fetched insurance into its editable payload
func (i *Insurance) Input() InsuranceInput {
	return InsuranceInput{
		Name:         i.Name,
		StartDate:    i.StartDate,
		Duration:     i.Duration,
		Premium:      i.Premium,
		InsuredValue: i.InsuredValue,
		SimulationID: i.SimulationID,
	}
}

type InsuranceRepository interface {
	List(ctx context.Context) ([]Insurance, error)
	GetByID(ctx context.Context, id int64) (*Insurance, error)
	Create(ctx context.Context, input *InsuranceInput) (*Insurance, error)
	Update(ctx context.Context, id int64, input *InsuranceInput) (*Insurance, error)
	Delete(ctx context.Context, id int64) error
}
