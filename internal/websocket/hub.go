package websocket

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrClientClosed is returned when sending to a closed client
var ErrClientClosed = errors.New("client is closed")

// AllSimulations is the scope of clients that follow every simulation
const AllSimulations int64 = 0

// ClientInterface is what the hub needs from a connection
type ClientInterface interface {
	ID() string
	SimulationID() int64
	Send(data []byte) error
	Close() error
}

// Hub fans events out to the tabs following each simulation.
// Tabs following AllSimulations receive every event. Safe for concurrent use.
type Hub struct {
	mu     sync.RWMutex
	scopes map[int64]map[string]ClientInterface
}

// NewHub creates an empty Hub
func NewHub() *Hub {
	return &Hub{scopes: make(map[int64]map[string]ClientInterface)}
}

// Register adds a client under the simulation it follows
func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	scope, ok := h.scopes[client.SimulationID()]
	if !ok {
		scope = make(map[string]ClientInterface)
		h.scopes[client.SimulationID()] = scope
	}
	scope[client.ID()] = client
	h.mu.Unlock()

	log.Debug().
		Int64("simulation_id", client.SimulationID()).
		Str("client_id", client.ID()).
		Msg("WebSocket client registered")
}

// Unregister removes a client. Unknown clients are ignored.
func (h *Hub) Unregister(client ClientInterface) {
	if !h.remove(client) {
		return
	}
	log.Debug().
		Int64("simulation_id", client.SimulationID()).
		Str("client_id", client.ID()).
		Msg("WebSocket client unregistered")
}

func (h *Hub) remove(client ClientInterface) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	scope, ok := h.scopes[client.SimulationID()]
	if !ok {
		return false
	}
	if _, ok := scope[client.ID()]; !ok {
		return false
	}
	delete(scope, client.ID())
	if len(scope) == 0 {
		delete(h.scopes, client.SimulationID())
	}
	return true
}

// targets snapshots the clients an event about simulationID reaches
func (h *Hub) targets(simulationID int64) []ClientInterface {
	h.mu.RLock()
	defer h.mu.RUnlock()

	targets := make([]ClientInterface, 0, len(h.scopes[simulationID])+len(h.scopes[AllSimulations]))
	for _, client := range h.scopes[simulationID] {
		targets = append(targets, client)
	}
	if simulationID != AllSimulations {
		for _, client := range h.scopes[AllSimulations] {
			targets = append(targets, client)
		}
	}
	return targets
}

// Broadcast sends an event to the clients following simulationID and to the
// clients following every simulation. A client whose queue is full is dropped;
// its page stops refreshing until it is reloaded.
func (h *Hub) Broadcast(simulationID int64, event Event) {
	targets := h.targets(simulationID)
	if len(targets) == 0 {
		return
	}

	data, err := event.ToJSON()
	if err != nil {
		log.Error().
			Err(err).
			Int64("simulation_id", simulationID).
			Str("event_type", event.Type).
			Msg("Failed to serialize event")
		return
	}

	delivered := 0
	for _, client := range targets {
		err := client.Send(data)
		switch {
		case err == nil:
			delivered++
		case errors.Is(err, ErrSlowClient):
			log.Warn().
				Int64("simulation_id", simulationID).
				Str("client_id", client.ID()).
				Msg("Dropping slow WebSocket client")
			h.Unregister(client)
			client.Close()
		default:
			h.Unregister(client)
		}
	}

	log.Debug().
		Int64("simulation_id", simulationID).
		Str("event_type", event.Type).
		Int("client_count", delivered).
		Msg("Broadcast event")
}

// Shutdown closes every client and empties the hub
func (h *Hub) Shutdown() int {
	h.mu.Lock()
	var clients []ClientInterface
	for _, scope := range h.scopes {
		for _, client := range scope {
			clients = append(clients, client)
		}
	}
	h.scopes = make(map[int64]map[string]ClientInterface)
	h.mu.Unlock()

	for _, client := range clients {
		client.Close()
	}
	return len(clients)
}

// ClientCount returns the number of clients following a simulation
func (h *Hub) ClientCount(simulationID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.scopes[simulationID])
}

// TotalClientCount returns the number of connected clients
func (h *Hub) TotalClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, scope := range h.scopes {
		total += len(scope)
	}
	return total
}
