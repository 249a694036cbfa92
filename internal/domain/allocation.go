package domain

import (
	"context"
	"encoding/json"
)

type AllocationType string

const (
	AllocationTypeFinancial AllocationType = "FINANCEIRA"
	AllocationTypeFixed     AllocationType = "IMOBILIZADA"
)

var AllocationTypes = []AllocationType{AllocationTypeFinancial, AllocationTypeFixed}

// Allocation is an asset owned within a simulation, as returned by the API.
// The financing fields are only meaningful when HasFinancing is set.
type Allocation struct {
	ID           int64          `json:"id"`
	Name         string         `json:"name"`
	Type         AllocationType `json:"type"`
	Value        Amount         `json:"value"`
	Date         Date           `json:"date"`
	HasFinancing bool           `json:"hasFinancing"`
	StartDate    Date           `json:"startDate"`
	Installments int            `json:"installments"`
	InterestRate Amount         `json:"interestRate"`
	DownPayment  Amount         `json:"downPayment"`
	SimulationID int64          `json:"simulationId"`
}

// FinancingTerms are the terms of a financed allocation
type FinancingTerms struct {
	StartDate    Date   `json:"startDate"`
	Installments int    `json:"installments" validate:"gte=0" msg:"Número de parcelas deve ser um inteiro não negativo"`
	InterestRate Amount `json:"interestRate" validate:"gte=0" msg:"Taxa de juros deve ser positiva"`
	DownPayment  Amount `json:"downPayment" validate:"gte=0" msg:"Valor de entrada deve ser positivo"`
}

// AllocationInput is the create/replace payload for an allocation.
// A nil Financing means the allocation is not financed; its terms are then
// left out of the payload entirely.
type AllocationInput struct {
	Name         string          `json:"name" validate:"min=3" msg:"Nome deve ter no mínimo 3 caracteres"`
	Type         AllocationType  `json:"type" validate:"oneof=FINANCEIRA IMOBILIZADA" msg:"Tipo inválido"`
	Value        Amount          `json:"value" validate:"gt=0" msg:"Valor deve ser um número positivo"`
	Date         Date            `json:"date" validate:"required" msg:"Data é obrigatória"`
	Financing    *FinancingTerms `json:"-" validate:"omitempty"`
	SimulationID int64           `json:"simulationId" validate:"gt=0" msg:"ID da simulação é obrigatório"`
}

type allocationPayload struct {
	Name         string         `json:"name"`
	Type         AllocationType `json:"type"`
	Value        Amount         `json:"value"`
	Date         Date           `json:"date"`
	HasFinancing bool           `json:"hasFinancing"`
	*FinancingTerms
	SimulationID int64 `json:"simulationId"`
}

func (in AllocationInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(allocationPayload{
		Name:           in.Name,
		Type:           in.Type,
		Value:          in.Value,
		Date:           in.Date,
		HasFinancing:   in.Financing != nil,
		FinancingTerms: in.Financing,
		SimulationID:   in.SimulationID,
	})
}

// NewAllocationInput returns the defaults of an empty allocation form
func NewAllocationInput() AllocationInput {
	return AllocationInput{
		Type:         AllocationTypeFinancial,
		SimulationID: 1,
	}
}

// Input converts a fetched allocation into its editable payload
func (a *Allocation) Input() AllocationInput {
	in := AllocationInput{
		Name:         a.Name,
		Type:         a.Type,
		Value:        a.Value,
		Date:         a.Date,
		SimulationID: a.SimulationID,
	}
	if a.HasFinancing {
		in.Financing = &FinancingTerms{
			StartDate:    a.StartDate,
			Installments: a.Installments,
			InterestRate: a.InterestRate,
			DownPayment:  a.DownPayment,
		}
	}
	return in
}

type AllocationRepository interface {
	List(ctx context.Context) ([]Allocation, error)
	GetByID(ctx context.Context, id int64) (*Allocation, error)
	Create(ctx context.Context, input *AllocationInput) (*Allocation, error)
	Update(ctx context.Context, id int64, input *AllocationInput) (*Allocation, error)
	Delete(ctx context.Context, id int64) error
}
