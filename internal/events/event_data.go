package events

import (
	"time"
)

// EventData is the interface that all event data types must implement
// This allows for type-safe event data while maintaining flexibility
type EventData interface {
	// EventType returns the event type this data is associated with
	EventType() EventType
}

// NegotiationOpenedData contains data for NegotiationOpened events
type NegotiationOpenedData struct {
	SessionID      string `json:"session_id"`
	Kind           string `json:"kind"`
	TeamID         string `json:"team_id"`
	CounterpartyID string `json:"counterparty_id"`
	Season         int    `json:"season"`
}

// EventType returns the event type for NegotiationOpenedData
func (d *NegotiationOpenedData) EventType() EventType {
	return NegotiationOpened
}

// OfferData contains data for OfferProposed, CounterProposed and
// UltimatumIssued events
type OfferData struct {
	SessionID string `json:"session_id"`
	Round     int    `json:"round"`
	OfferedBy string `json:"offered_by"`
	Ultimatum bool   `json:"ultimatum"`
}

// EventType returns the event type for OfferData
func (d *OfferData) EventType() EventType {
	if d.Ultimatum {
		return UltimatumIssued
	}
	if d.Round > 1 {
		return CounterProposed
	}
	return OfferProposed
}

// ResponseData contains data for OfferAccepted and OfferRejected events
type ResponseData struct {
	SessionID  string `json:"session_id"`
	Action     string `json:"action"`
	Tone       string `json:"tone"`
	Newsworthy bool   `json:"newsworthy"`
	Reason     string `json:"reason,omitempty"`
	Accepted   bool   `json:"-"`
}

// EventType returns the event type for ResponseData
func (d *ResponseData) EventType() EventType {
	if d.Accepted {
		return OfferAccepted
	}
	return OfferRejected
}

// NegotiationExpiredData contains data for NegotiationExpired events
type NegotiationExpiredData struct {
	SessionID string    `json:"session_id"`
	Deadline  time.Time `json:"deadline"`
}

// EventType returns the event type for NegotiationExpiredData
func (d *NegotiationExpiredData) EventType() EventType {
	return NegotiationExpired
}

// ContractSignedData contains data for ContractSigned and SponsorSigned
// events
type ContractSignedData struct {
	SessionID      string  `json:"session_id"`
	Kind           string  `json:"kind"`
	TeamID         string  `json:"team_id"`
	CounterpartyID string  `json:"counterparty_id"`
	AnnualAmount   float64 `json:"annual_amount"`
	Years          int     `json:"years"`
}

// EventType returns the event type for ContractSignedData
func (d *ContractSignedData) EventType() EventType {
	if d.Kind == "SPONSOR" {
		return SponsorSigned
	}
	return ContractSigned
}

// MarketRevaluedData contains data for MarketRevalued events
type MarketRevaluedData struct {
	Season  int `json:"season"`
	Drivers int `json:"drivers"`
}

// EventType returns the event type for MarketRevaluedData
func (d *MarketRevaluedData) EventType() EventType {
	return MarketRevalued
}

// BackupCompletedData contains data for BackupCompleted events
type BackupCompletedData struct {
	Archive   string  `json:"archive"`
	SizeBytes int64   `json:"size_bytes"`
	Duration  float64 `json:"duration_seconds"`
}

// EventType returns the event type for BackupCompletedData
func (d *BackupCompletedData) EventType() EventType {
	return BackupCompleted
}

// ErrorEventData contains data for ErrorOccurred events
type ErrorEventData struct {
	Error   string                 `json:"error"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// EventType returns the event type for ErrorEventData
func (d *ErrorEventData) EventType() EventType {
	return ErrorOccurred
}

// JobStatusData contains data for job lifecycle events
type JobStatusData struct {
	JobName   string    `json:"job_name"`
	Status    string    `json:"status"` // "started", "completed", "failed"
	Error     string    `json:"error,omitempty"`
	Duration  float64   `json:"duration_seconds,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// EventType returns the event type for JobStatusData
// Note: The actual event type is determined by the Status field
func (d *JobStatusData) EventType() EventType {
	switch d.Status {
	case "completed":
		return JobCompleted
	case "failed":
		return JobFailed
	default:
		return JobStarted
	}
}
