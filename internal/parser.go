package internal

import (
	"io"
	"strings"
)

// recordSeparator ends one wire record: a blank line after one or more
// "data:"-prefixed lines.
const recordSeparator = "\n\n"

// dataPrefix marks a payload-carrying line in the wire format.
const dataPrefix = "data:"

// EventParser assembles decoded text fragments into discrete events.
//
// Records are blank-line-delimited groups of "data:" lines. The last,
// possibly incomplete, segment stays buffered until more text arrives; a
// trailing record with no closing blank line is flushed at end of stream.
// Payloads that fail strict JSON decoding are dropped with a logged
// warning. A payload identical to the immediately preceding yielded
// payload is suppressed.
type EventParser struct {
	dec        *StreamDecoder
	buf        string
	queue      []Event
	lastRaw    string
	yieldedAny bool
	flushed    bool
}

// NewEventParser creates an EventParser pulling fragments from dec.
func NewEventParser(dec *StreamDecoder) *EventParser {
	return &EventParser{dec: dec}
}

// Next returns the next event in the stream, in strict arrival order. It
// returns io.EOF once the source is exhausted and the trailing record, if
// any, has been flushed. Any other error is a read failure from the
// underlying source.
func (p *EventParser) Next() (Event, error) {
	for {
		if len(p.queue) > 0 {
			ev := p.queue[0]
			p.queue = p.queue[1:]
			return ev, nil
		}
		if p.flushed {
			return nil, io.EOF
		}

		fragment, err := p.dec.Next()
		if err == io.EOF {
			p.flush()
			p.flushed = true
			continue
		}
		if err != nil {
			// Salvage complete records received before the failure so the
			// caller sees everything that arrived intact.
			p.Feed(fragment)
			return nil, err
		}
		p.Feed(fragment)
	}
}

// Feed appends a decoded text fragment and queues every complete record it
// closes. Exposed so replay tooling and tests can drive the parser without
// a byte source.
func (p *EventParser) Feed(fragment string) {
	p.buf += fragment
	for {
		idx := strings.Index(p.buf, recordSeparator)
		if idx < 0 {
			return
		}
		segment := p.buf[:idx]
		p.buf = p.buf[idx+len(recordSeparator):]
		p.handleSegment(segment)
	}
}

// Drain returns all queued events, clearing the queue. Used together with
// Feed when driving the parser directly.
func (p *EventParser) Drain() []Event {
	events := p.queue
	p.queue = nil
	return events
}

// flush processes whatever remains in the buffer as a final record.
func (p *EventParser) flush() {
	segment := strings.TrimRight(p.buf, "\n")
	p.buf = ""
	if segment == "" {
		return
	}
	p.handleSegment(segment)
}

// handleSegment turns one complete record segment into at most one event.
func (p *EventParser) handleSegment(segment string) {
	raw, ok := extractPayload(segment)
	if !ok {
		return
	}

	if p.yieldedAny && raw == p.lastRaw {
		LogDebug("suppressing duplicate payload: %q", raw)
		return
	}

	ev, err := DecodeEventPayload(raw)
	if err != nil {
		LogWarn("dropping malformed record: %v", err)
		return
	}

	p.lastRaw = raw
	p.yieldedAny = true
	p.queue = append(p.queue, ev)
}

// extractPayload joins the "data:" lines of a record segment into the raw
// payload string. Lines without the prefix (including SSE comments) are
// ignored. ok is false when the segment carries no data lines at all.
func extractPayload(segment string) (payload string, ok bool) {
	var parts []string
	for _, line := range strings.Split(segment, "\n") {
		line = strings.TrimRight(line, "\r")
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}
		parts = append(parts, strings.TrimSpace(line[len(dataPrefix):]))
	}
	if parts == nil {
		return "", false
	}
	return strings.Join(parts, "\n"), true
}
