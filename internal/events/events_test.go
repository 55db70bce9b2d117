package events

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_EmitDeliversToSubscribers(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	var received []*Event
	bus.Subscribe(OfferAccepted, func(e *Event) {
		received = append(received, e)
	})

	bus.Emit(OfferAccepted, "negotiation", &ResponseData{SessionID: "ses-1", Accepted: true})

	require.Len(t, received, 1)
	assert.Equal(t, OfferAccepted, received[0].Type)
	assert.Equal(t, "negotiation", received[0].Module)
	assert.False(t, received[0].Timestamp.IsZero())

	data, ok := received[0].Data.(*ResponseData)
	require.True(t, ok)
	assert.Equal(t, "ses-1", data.SessionID)
}

func TestBus_AllSubscribersOfATypeReceive(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	first, second := 0, 0
	bus.Subscribe(MarketRevalued, func(*Event) { first++ })
	bus.Subscribe(MarketRevalued, func(*Event) { second++ })

	bus.Emit(MarketRevalued, "scheduler", &MarketRevaluedData{Season: 2031, Drivers: 20})

	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}

func TestBus_OtherTypesAreNotDelivered(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	calls := 0
	bus.Subscribe(OfferRejected, func(*Event) { calls++ })

	bus.Emit(OfferAccepted, "negotiation", nil)

	assert.Zero(t, calls)
}

func TestBus_EmitWithoutSubscribersIsSafe(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	assert.NotPanics(t, func() {
		bus.Emit(BackupCompleted, "reliability", &BackupCompletedData{Archive: "a.tar.gz"})
	})
}

func TestManager_EmitReachesBusSubscribers(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	manager := NewManager(bus, zerolog.Nop())

	var received []*Event
	bus.Subscribe(ContractSigned, func(e *Event) {
		received = append(received, e)
	})

	manager.Emit(ContractSigned, "negotiation_service", &ContractSignedData{
		SessionID: "ses-9",
		Kind:      "DRIVER",
		TeamID:    "team-red",
	})

	require.Len(t, received, 1)
	assert.Equal(t, "negotiation_service", received[0].Module)
}

func TestManager_EmitErrorWrapsTheFailure(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	manager := NewManager(bus, zerolog.Nop())

	var received []*Event
	bus.Subscribe(ErrorOccurred, func(e *Event) {
		received = append(received, e)
	})

	manager.EmitError("scheduler", assert.AnError, map[string]interface{}{"job": "deadline_sweep"})

	require.Len(t, received, 1)
	data, ok := received[0].Data.(*ErrorEventData)
	require.True(t, ok)
	assert.Equal(t, assert.AnError.Error(), data.Error)
	assert.Equal(t, "deadline_sweep", data.Context["job"])
}

func TestOfferData_EventTypeFollowsRoundShape(t *testing.T) {
	assert.Equal(t, OfferProposed, (&OfferData{Round: 1}).EventType())
	assert.Equal(t, CounterProposed, (&OfferData{Round: 2}).EventType())
	assert.Equal(t, UltimatumIssued, (&OfferData{Round: 3, Ultimatum: true}).EventType())
}

func TestResponseData_EventTypeFollowsOutcome(t *testing.T) {
	assert.Equal(t, OfferAccepted, (&ResponseData{Accepted: true}).EventType())
	assert.Equal(t, OfferRejected, (&ResponseData{}).EventType())
}

func TestJobStatusData_EventTypeFollowsStatus(t *testing.T) {
	assert.Equal(t, JobStarted, (&JobStatusData{Status: "started"}).EventType())
	assert.Equal(t, JobCompleted, (&JobStatusData{Status: "completed"}).EventType())
	assert.Equal(t, JobFailed, (&JobStatusData{Status: "failed"}).EventType())
}

func TestContractSignedData_SponsorDealsGetTheirOwnType(t *testing.T) {
	assert.Equal(t, SponsorSigned, (&ContractSignedData{Kind: "SPONSOR"}).EventType())
	assert.Equal(t, ContractSigned, (&ContractSignedData{Kind: "DRIVER"}).EventType())
}
