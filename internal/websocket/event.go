package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents what happened to an entity
type EventType string

const (
	EventTypeCreated   EventType = "created"
	EventTypeUpdated   EventType = "updated"
	EventTypeDeleted   EventType = "deleted"
	EventTypeVersioned EventType = "versioned"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeSimulation EntityType = "simulation"
	EntityTypeAllocation EntityType = "allocation"
	EntityTypeInsurance  EntityType = "insurance"
	EntityTypeMovement   EntityType = "movement"
)

// EntityRef identifies the changed record. Pages only need to know that data
// they show went stale, never the new data itself.
type EntityRef struct {
	ID           int64 `json:"id"`
	SimulationID int64 `json:"simulationId"`
}

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string     `json:"type"`   // Combined type e.g. "allocation.updated"
	Entity    EntityType `json:"entity"` // Entity type e.g. "allocation"
	Payload   EntityRef  `json:"payload"`
	Timestamp time.Time  `json:"timestamp"`
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload EntityRef) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// SimulationChanged creates a simulation.<eventType> event
func SimulationChanged(eventType EventType, id int64) Event {
	return NewEvent(eventType, EntityTypeSimulation, EntityRef{ID: id, SimulationID: id})
}

// SimulationVersioned creates a simulation.versioned event
func SimulationVersioned(simulationID, versionID int64) Event {
	return NewEvent(EventTypeVersioned, EntityTypeSimulation, EntityRef{ID: versionID, SimulationID: simulationID})
}

// AllocationChanged creates an allocation.<eventType> event
func AllocationChanged(eventType EventType, id, simulationID int64) Event {
	return NewEvent(eventType, EntityTypeAllocation, EntityRef{ID: id, SimulationID: simulationID})
}

// InsuranceChanged creates an insurance.<eventType> event
func InsuranceChanged(eventType EventType, id, simulationID int64) Event {
	return NewEvent(eventType, EntityTypeInsurance, EntityRef{ID: id, SimulationID: simulationID})
}

// MovementChanged creates a movement.<eventType> event
func MovementChanged(eventType EventType, id, simulationID int64) Event {
	return NewEvent(eventType, EntityTypeMovement, EntityRef{ID: id, SimulationID: simulationID})
}
