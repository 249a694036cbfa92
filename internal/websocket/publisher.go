package websocket

// EventPublisher tells open pages that data of a simulation changed
type EventPublisher interface {
	Publish(simulationID int64, event Event)
}

var _ EventPublisher = (*Hub)(nil)

// Publish implements EventPublisher
func (h *Hub) Publish(simulationID int64, event Event) {
	h.Broadcast(simulationID, event)
}

// PublisherFunc adapts a function to EventPublisher
type PublisherFunc func(simulationID int64, event Event)

// Publish calls f
func (f PublisherFunc) Publish(simulationID int64, event Event) {
	f(simulationID, event)
}

// Discard drops every event
var Discard EventPublisher = PublisherFunc(func(int64, Event) {})
