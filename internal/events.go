package internal

import (
	"encoding/json"
	"fmt"
)

// Reserved section labels in the wire format. The backend has shipped two
// labels for the final answer over time; both are accepted on ingest and
// normalized to a FinalAnswerEvent.
const (
	SectionSummary       = "Summary"
	SectionAnswer        = "Answer"
	SectionSessionUpdate = "SessionUpdate"
)

// SentinelDone is the text value that marks the end of a section's output.
// It carries no content and never mutates the turn.
const SentinelDone = "DONE"

// Event is one parsed record from the response stream.
type Event interface {
	// Section returns the wire section label the event arrived under.
	Section() string
}

// ReasoningEvent is an intermediate reasoning fragment. Name is empty for
// unnamed reasoning (a JSON null section on the wire).
type ReasoningEvent struct {
	Name string
	Text string
}

// FinalAnswerEvent is a fragment of the distinguished final answer.
type FinalAnswerEvent struct {
	Text string
}

// SessionUpdateEvent reassigns the session identifier mid-stream.
type SessionUpdateEvent struct {
	SessionID string
}

// DoneEvent signals that a section finished streaming.
type DoneEvent struct {
	Label string
}

func (e ReasoningEvent) Section() string     { return e.Name }
func (e FinalAnswerEvent) Section() string   { return SectionSummary }
func (e SessionUpdateEvent) Section() string { return SectionSessionUpdate }
func (e DoneEvent) Section() string          { return e.Label }

// wirePayload is the JSON shape of a single record payload.
type wirePayload struct {
	Section   *string `json:"section"`
	Text      string  `json:"text"`
	SessionID string  `json:"sessionId"`
}

// DecodeEventPayload decodes one raw record payload into an Event.
// The payload must be strict JSON; anything else is a ParseError and the
// caller drops the record.
func DecodeEventPayload(raw string) (Event, error) {
	var payload wirePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, &ParseError{Source: "stream", Payload: raw, Err: err}
	}

	section := ""
	if payload.Section != nil {
		section = *payload.Section
	}

	if section == SectionSessionUpdate {
		if payload.SessionID == "" {
			return nil, &ParseError{
				Source:  "stream",
				Payload: raw,
				Err:     fmt.Errorf("session update without sessionId"),
			}
		}
		return SessionUpdateEvent{SessionID: payload.SessionID}, nil
	}

	if payload.Text == SentinelDone {
		return DoneEvent{Label: section}, nil
	}

	if section == SectionSummary || section == SectionAnswer {
		return FinalAnswerEvent{Text: payload.Text}, nil
	}

	return ReasoningEvent{Name: section, Text: payload.Text}, nil
}
