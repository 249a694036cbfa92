package domain

import "context"

type MovementType string
type MovementFrequency string

const (
	MovementTypeInflow  MovementType = "ENTRADA"
	MovementTypeOutflow MovementType = "SAIDA"
)

const (
	FrequencyOnce    MovementFrequency = "UNICA"
	FrequencyMonthly MovementFrequency = "MENSAL"
	FrequencyAnnual  MovementFrequency = "ANUAL"
)

var MovementTypes = []MovementType{MovementTypeInflow, MovementTypeOutflow}

var MovementFrequencies = []MovementFrequency{FrequencyOnce, FrequencyMonthly, FrequencyAnnual}

// Movement is a one-time or recurring cash flow within a simulation
type Movement struct {
	ID           int64             `json:"id"`
	Type         MovementType      `json:"type"`
	Value        Amount            `json:"value"`
	Frequency    MovementFrequency `json:"frequency"`
	StartDate    Date              `json:"startDate"`
	EndDate      Date              `json:"endDate"`
	SimulationID int64             `json:"simulationId"`
}

// IsInflow reports whether the movement adds money
func (m Movement) IsInflow() bool {
	return m.Type == MovementTypeInflow
}

// MovementInput is the create/replace payload for a movement
type MovementInput struct {
	Type         MovementType      `json:"type" validate:"oneof=ENTRADA SAIDA" msg:"Tipo inválido"`
	Value        Amount            `json:"value" validate:"gt=0" msg:"Valor deve ser um número positivo"`
	Frequency    MovementFrequency `json:"frequency" validate:"oneof=UNICA MENSAL ANUAL" msg:"Frequência inválida"`
	StartDate    Date              `json:"startDate" validate:"required" msg:"Data de início é obrigatória"`
	EndDate      *Date             `json:"endDate,omitempty"`
	SimulationID int64             `json:"simulationId" validate:"gt=0" msg:"ID da simulação é obrigatório"`
}

// NewMovementInput returns the defaults of an empty movement form
func NewMovementInput() MovementInput {
	return MovementInput{
		Type:         MovementTypeInflow,
		Frequency:    FrequencyOnce,
		SimulationID: 1,
	}
}

// Input converts a fetched movement into its editable payload
func (m *Movement) Input() MovementInput {
	in := MovementInput{
		Type:         m.Type,
		Value:        m.Value,
		Frequency:    m.Frequency,
		StartDate:    m.StartDate,
		SimulationID: m.SimulationID,
	}
	if !m.EndDate.IsZero() {
		end := m.EndDate
		in.EndDate = &end
	}
	return in
}

type MovementRepository interface {
	List(ctx context.Context) ([]Movement, error)
	GetByID(ctx context.Context, id int64) (*Movement, error)
	Create(ctx context.Context, input *MovementInput) (*Movement, error)
	Update(ctx context.Context, id int64, input *MovementInput) (*Movement, error)
	Delete(ctx context.Context, id int64) error
}
