// Package events provides the in-process pub/sub bus that fans league
// happenings out to the SSE stream, the news feed and background jobs.
package events

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// EventType identifies a category of event
type EventType string

// Negotiation lifecycle events
const (
	NegotiationOpened  EventType = "NEGOTIATION_OPENED"
	OfferProposed      EventType = "OFFER_PROPOSED"
	CounterProposed    EventType = "COUNTER_PROPOSED"
	OfferAccepted      EventType = "OFFER_ACCEPTED"
	OfferRejected      EventType = "OFFER_REJECTED"
	UltimatumIssued    EventType = "ULTIMATUM_ISSUED"
	NegotiationExpired EventType = "NEGOTIATION_EXPIRED"
)

// League and maintenance events
const (
	ContractSigned  EventType = "CONTRACT_SIGNED"
	SponsorSigned   EventType = "SPONSOR_SIGNED"
	MarketRevalued  EventType = "MARKET_REVALUED"
	BackupCompleted EventType = "BACKUP_COMPLETED"
)

// Job lifecycle events
const (
	JobStarted   EventType = "JOB_STARTED"
	JobCompleted EventType = "JOB_COMPLETED"
	JobFailed    EventType = "JOB_FAILED"
)

// ErrorOccurred is emitted by Manager.EmitError for any module failure
const ErrorOccurred EventType = "ERROR_OCCURRED"

// Event is one published occurrence. Data carries a typed payload from
// event_data.go, or any JSON-marshalable value.
type Event struct {
	Type      EventType   `json:"type"`
	Module    string      `json:"module"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Handler receives published events. Handlers run on the emitter's
// goroutine and must not block; slow consumers buffer on their own side.
type Handler func(*Event)

// Bus is a simple synchronous pub/sub bus.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	log      zerolog.Logger
}

// NewBus creates a new event bus
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
		log:      log.With().Str("component", "event_bus").Logger(),
	}
}

// Subscribe registers a handler for one event type. There is no
// unsubscribe; subscribers live as long as the process.
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Emit publishes an event to every subscriber of its type.
func (b *Bus) Emit(eventType EventType, module string, data interface{}) {
	event := &Event{
		Type:      eventType,
		Module:    module,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}

	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[eventType]))
	copy(handlers, b.handlers[eventType])
	b.mu.RUnlock()

	b.log.Debug().
		Str("event_type", string(eventType)).
		Str("module", module).
		Int("subscribers", len(handlers)).
		Msg("Emitting event")

	for _, handler := range handlers {
		handler(event)
	}
}
