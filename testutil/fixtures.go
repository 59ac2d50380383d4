package testutil

import (
	"encoding/json"
	"strings"
	"testing"
)

// EventPayload renders one event payload as wire JSON. section may be nil
// for unnamed reasoning.
func EventPayload(t *testing.T, section *string, text string) string {
	t.Helper()
	data, err := json.Marshal(map[string]interface{}{
		"section": section,
		"text":    text,
	})
	if err != nil {
		t.Fatalf("Failed to marshal payload: %v", err)
	}
	return string(data)
}

// SessionUpdatePayload renders a session reassignment payload.
func SessionUpdatePayload(t *testing.T, sessionID string) string {
	t.Helper()
	data, err := json.Marshal(map[string]interface{}{
		"section":   "SessionUpdate",
		"sessionId": sessionID,
	})
	if err != nil {
		t.Fatalf("Failed to marshal payload: %v", err)
	}
	return string(data)
}

// WireBody renders a full wire-format stream body: each payload becomes a
// data: line terminated by a blank line.
func WireBody(payloads ...string) string {
	var sb strings.Builder
	for _, p := range payloads {
		for _, line := range strings.Split(p, "\n") {
			sb.WriteString("data: ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Section returns a pointer to a section label.
func Section(name string) *string { return &name }
