package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/apexsim/paddock/internal/events"
	"github.com/apexsim/paddock/internal/utils"
)

// EventsStreamHandler streams league events to clients over
// Server-Sent Events: negotiation progress, signings, job runs.
type EventsStreamHandler struct {
	eventBus *events.Bus
	log      zerolog.Logger
}

// NewEventsStreamHandler creates a new events stream handler
func NewEventsStreamHandler(eventBus *events.Bus, log zerolog.Logger) *EventsStreamHandler {
	return &EventsStreamHandler{
		eventBus: eventBus,
		log:      log.With().Str("component", "events_stream").Logger(),
	}
}

// streamedEventTypes is every event type forwarded to clients that do
// not narrow the stream with a types filter.
var streamedEventTypes = []events.EventType{
	events.NegotiationOpened,
	events.OfferProposed,
	events.CounterProposed,
	events.OfferAccepted,
	events.OfferRejected,
	events.UltimatumIssued,
	events.NegotiationExpired,
	events.ContractSigned,
	events.SponsorSigned,
	events.MarketRevalued,
	events.BackupCompleted,
	events.JobStarted,
	events.JobCompleted,
	events.JobFailed,
	events.ErrorOccurred,
}

// ServeHTTP handles GET /api/events/stream requests (SSE).
func (h *EventsStreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	// The server's WriteTimeout would cut the stream after a few
	// seconds; lift it for this connection only.
	rc := http.NewResponseController(w)
	_ = rc.SetWriteDeadline(time.Time{})

	// Parse the optional comma-separated types filter
	typesFilter := r.URL.Query().Get("types")

	var allowedTypes map[events.EventType]bool
	if requested := utils.ParseCSV(typesFilter); len(requested) > 0 {
		allowedTypes = make(map[events.EventType]bool, len(requested))
		for _, name := range requested {
			allowedTypes[events.EventType(name)] = true
		}
	}

	h.log.Info().
		Str("types_filter", typesFilter).
		Msg("Client connected to event stream")

	// Create event channel for this connection
	eventChan := make(chan *events.Event, 100) // Buffer to prevent blocking

	eventHandler := func(event *events.Event) {
		if allowedTypes != nil && !allowedTypes[event.Type] {
			return
		}

		// Non-blocking send (drop if channel full)
		select {
		case eventChan <- event:
		default:
			h.log.Warn().
				Str("event_type", string(event.Type)).
				Msg("Event channel full, dropping event")
		}
	}

	if allowedTypes == nil {
		for _, eventType := range streamedEventTypes {
			h.eventBus.Subscribe(eventType, eventHandler)
		}
	} else {
		for eventType := range allowedTypes {
			h.eventBus.Subscribe(eventType, eventHandler)
		}
	}

	done := r.Context().Done()

	// Send initial connection message
	fmt.Fprintf(w, "data: %s\n\n", h.encodeEvent(map[string]interface{}{
		"type":    "connected",
		"message": "Connected to event stream",
	}))
	flusher.Flush()

	// Heartbeat ticker to keep connection alive
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-done:
			h.log.Info().Msg("Client disconnected from event stream")
			return

		case event := <-eventChan:
			eventJSON := h.encodeEvent(map[string]interface{}{
				"type":      string(event.Type),
				"module":    event.Module,
				"timestamp": event.Timestamp.Format(time.RFC3339),
				"data":      event.Data,
			})

			fmt.Fprintf(w, "data: %s\n\n", eventJSON)
			flusher.Flush()

		case <-heartbeat.C:
			fmt.Fprintf(w, "data: %s\n\n", h.encodeEvent(map[string]interface{}{
				"type":      "heartbeat",
				"timestamp": time.Now().Format(time.RFC3339),
			}))
			flusher.Flush()
		}
	}
}

// encodeEvent encodes an event map to a JSON string.
func (h *EventsStreamHandler) encodeEvent(event map[string]interface{}) string {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to marshal event")
		return `{"error":"failed to encode event"}`
	}
	return string(data)
}
