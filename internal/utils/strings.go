package utils

import "strings"

// ParseCSV splits a comma-separated string and returns trimmed non-empty values.
// Returns nil for empty/whitespace-only input.
// Used to parse comma-separated lists arriving over the API, such as the
// event type filter on the stream endpoint.
func ParseCSV(s string) []string {
	if s == "" {
		return nil
	}

	var result []string
	for _, v := range strings.Split(s, ",") {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return nil
	}

	return result
}
