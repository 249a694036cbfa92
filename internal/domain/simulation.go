package domain

import (
	"context"
	"time"
)

type SimulationStatus string

const (
	SimulationStatusAlive    SimulationStatus = "VIVO"
	SimulationStatusDeceased SimulationStatus = "MORTO"
	SimulationStatusInvalid  SimulationStatus = "INVALIDO"
)

// SimulationStatuses lists the statuses in the order they are offered to users
var SimulationStatuses = []SimulationStatus{
	SimulationStatusAlive,
	SimulationStatusDeceased,
	SimulationStatusInvalid,
}

// Simulation is a named financial scenario. The nested collections are only
// present when the simulation is fetched by id.
type Simulation struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	StartDate   Date             `json:"startDate"`
	Rate        Amount           `json:"rate"`
	Status      SimulationStatus `json:"status"`
	Allocations []Allocation     `json:"allocations,omitempty"`
	Movements   []Movement       `json:"movements,omitempty"`
	Insurances  []Insurance      `json:"insurances,omitempty"`
}

// SimulationInput is the create/replace payload for a simulation
type SimulationInput struct {
	Name      string           `json:"name" validate:"min=3" msg:"Nome deve ter no mínimo 3 caracteres"`
	StartDate Date             `json:"startDate" validate:"required" msg:"Data de início é obrigatória"`
	Rate      Amount           `json:"rate" validate:"gte=0" msg:"Taxa deve ser positiva" parsemsg:"Taxa deve ser um número válido"`
	Status    SimulationStatus `json:"status" validate:"oneof=VIVO MORTO INVALIDO" msg:"Status inválido"`
}

// NewSimulationInput returns the defaults of an empty simulation form
func NewSimulationInput() SimulationInput {
	return SimulationInput{
		Rate:   MustAmount("0.04"),
		Status: SimulationStatusAlive,
	}
}

// Input converts a fetched simulation into its editable payload
func (s *Simulation) Input() SimulationInput {
	return SimulationInput{
		Name:      s.Name,
		StartDate: s.StartDate,
		Rate:      s.Rate,
		Status:    s.Status,
	}
}

// SimulationVersion is an immutable snapshot of a simulation
type SimulationVersion struct {
	ID           int64     `json:"id"`
	SimulationID int64     `json:"simulationId"`
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"createdAt"`
}

// VersionInput is the payload of the snapshot action
type VersionInput struct {
	Name string `json:"name" validate:"required" msg:"Nome é obrigatório"`
	Rate Amount `json:"rate" validate:"gte=0,lte=1" msg:"Taxa deve estar entre 0 e 1"`
}

// NewVersionInput returns the defaults of the snapshot form
func NewVersionInput() VersionInput {
	return VersionInput{Rate: MustAmount("0.04")}
}

type SimulationRepository interface {
	List(ctx context.Context) ([]Simulation, error)
	GetByID(ctx context.Context, id int64) (*Simulation, error)
	Create(ctx context.Context, input *SimulationInput) (*Simulation, error)
	Update(ctx context.Context, id int64, input *SimulationInput) (*Simulation, error)
	Delete(ctx context.Context, id int64) error
	GetProjection(ctx context.Context, id int64) ([]ProjectionPoint, error)
	GetTimeline(ctx context.Context, id int64) ([]TimelineEvent, error)
	GetVersions(ctx context.Context, id int64) ([]SimulationVersion, error)
	CreateVersion(ctx context.Context, id int64, input *VersionInput) (*SimulationVersion, error)
}
