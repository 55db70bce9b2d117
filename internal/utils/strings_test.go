package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "single value",
			input:    "CONTRACT_SIGNED",
			expected: []string{"CONTRACT_SIGNED"},
		},
		{
			name:     "two values",
			input:    "OFFER_ACCEPTED, OFFER_REJECTED",
			expected: []string{"OFFER_ACCEPTED", "OFFER_REJECTED"},
		},
		{
			name:     "three values with varied spacing",
			input:    "NEGOTIATION_OPENED,  COUNTER_PROPOSED , ULTIMATUM_ISSUED",
			expected: []string{"NEGOTIATION_OPENED", "COUNTER_PROPOSED", "ULTIMATUM_ISSUED"},
		},
		{
			name:     "no spaces after comma",
			input:    "JOB_STARTED,JOB_COMPLETED",
			expected: []string{"JOB_STARTED", "JOB_COMPLETED"},
		},
		{
			name:     "trailing comma",
			input:    "MARKET_REVALUED,",
			expected: []string{"MARKET_REVALUED"},
		},
		{
			name:     "leading comma",
			input:    ",BACKUP_COMPLETED",
			expected: []string{"BACKUP_COMPLETED"},
		},
		{
			name:     "only spaces",
			input:    "   ",
			expected: nil,
		},
		{
			name:     "comma only",
			input:    ",",
			expected: nil,
		},
		{
			name:     "multiple commas",
			input:    ",,CONTRACT_SIGNED,,SPONSOR_SIGNED,,",
			expected: []string{"CONTRACT_SIGNED", "SPONSOR_SIGNED"},
		},
		{
			name:     "value with internal spaces preserved",
			input:    "Red Bridge Racing, Northway GP",
			expected: []string{"Red Bridge Racing", "Northway GP"},
		},
		{
			name:     "mixed spacing around values",
			input:    "  drv-101  ,  drv-204  ",
			expected: []string{"drv-101", "drv-204"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseCSV(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseCSV_Idempotent(t *testing.T) {
	// Parsing an already-parsed single value should return same result
	input := "CONTRACT_SIGNED"
	firstParse := ParseCSV(input)
	assert.Equal(t, []string{"CONTRACT_SIGNED"}, firstParse)

	// Parsing the single result element should give same result
	if len(firstParse) > 0 {
		secondParse := ParseCSV(firstParse[0])
		assert.Equal(t, []string{"CONTRACT_SIGNED"}, secondParse)
	}
}

func TestParseCSV_PreservesInput(t *testing.T) {
	// Verify that the function doesn't modify the input string
	input := "OFFER_ACCEPTED, OFFER_REJECTED"
	originalInput := input

	_ = ParseCSV(input)

	assert.Equal(t, originalInput, input, "input should not be modified")
}
