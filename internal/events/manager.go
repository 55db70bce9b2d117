package events

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

// Manager handles event emission and logging. Services and jobs emit
// through the manager rather than the bus directly so every event
// lands in the structured log as well as on the wire.
type Manager struct {
	bus *Bus
	log zerolog.Logger
}

// NewManager creates a new event manager
func NewManager(bus *Bus, log zerolog.Logger) *Manager {
	return &Manager{
		bus: bus,
		log: log.With().Str("service", "events").Logger(),
	}
}

// Emit publishes an event to the bus and logs it. Data is a typed
// payload from event_data.go or any JSON-marshalable value.
func (m *Manager) Emit(eventType EventType, module string, data interface{}) {
	m.bus.Emit(eventType, module, data)

	event := Event{
		Type:   eventType,
		Module: module,
		Data:   data,
	}
	eventJSON, _ := json.Marshal(event)
	m.log.Info().
		Str("event_type", string(eventType)).
		Str("module", module).
		RawJSON("event", eventJSON).
		Msg("Event emitted")
}

// EmitError emits an error event
func (m *Manager) EmitError(module string, err error, context map[string]interface{}) {
	data := &ErrorEventData{
		Error:   err.Error(),
		Context: context,
	}
	m.Emit(ErrorOccurred, module, data)
}
