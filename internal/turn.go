package internal

import "time"

// ErrorSectionName is the reasoning section used for the visible marker
// appended when a stream fails partway through a turn.
const ErrorSectionName = "Error"

// ReasoningSection is one named block of intermediate reasoning.
type ReasoningSection struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Text string `json:"text" yaml:"text"`
}

// Turn is one user query and everything the backend streamed back for it.
type Turn struct {
	ID          string             `json:"id,omitempty" yaml:"id,omitempty"`
	SessionID   string             `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	UserText    string             `json:"user_text" yaml:"user_text"`
	Reasoning   []ReasoningSection `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`
	FinalAnswer string             `json:"final_answer" yaml:"final_answer"`
	CreatedAt   time.Time          `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// Accumulator folds the ordered event sequence of one query into a Turn.
//
// Reasoning events merge into the last section when the names match,
// final-answer text concatenates, and the DONE sentinel is consumed
// without mutating anything. Exactly one stream feeds an accumulator at a
// time; that is the caller's precondition.
type Accumulator struct {
	turn Turn
	done bool
}

// NewAccumulator creates an Accumulator for a query.
func NewAccumulator(userText string) *Accumulator {
	return &Accumulator{
		turn: Turn{
			UserText:  userText,
			CreatedAt: time.Now().UTC(),
		},
	}
}

// Apply folds one event into the turn. Session updates are not content and
// are ignored here; the runner routes them to the session manager before
// the accumulator sees the stream.
func (a *Accumulator) Apply(ev Event) {
	switch e := ev.(type) {
	case FinalAnswerEvent:
		a.turn.FinalAnswer += e.Text
	case ReasoningEvent:
		a.appendReasoning(e.Name, e.Text)
	case DoneEvent:
		if e.Label == SectionSummary || e.Label == SectionAnswer {
			a.done = true
		}
	case SessionUpdateEvent:
		// no content
	}
}

// appendReasoning extends the last section when the name matches,
// otherwise starts a new one. Adjacent sections never share a name.
func (a *Accumulator) appendReasoning(name, text string) {
	n := len(a.turn.Reasoning)
	if n > 0 && a.turn.Reasoning[n-1].Name == name {
		a.turn.Reasoning[n-1].Text += text
		return
	}
	a.turn.Reasoning = append(a.turn.Reasoning, ReasoningSection{Name: name, Text: text})
}

// AppendError attaches a visible error marker to the turn so an
// interrupted stream reads as degraded rather than silently truncated.
// The marker goes through the same merge rule as streamed sections, so a
// backend-emitted Error section never ends up adjacent to the marker.
func (a *Accumulator) AppendError(err error) {
	text := "stream interrupted: " + err.Error()
	if n := len(a.turn.Reasoning); n > 0 && a.turn.Reasoning[n-1].Name == ErrorSectionName {
		text = "\n" + text
	}
	a.appendReasoning(ErrorSectionName, text)
}

// Done reports whether the final answer's DONE sentinel has arrived.
func (a *Accumulator) Done() bool {
	return a.done
}

// Snapshot returns a copy of the turn as accumulated so far. The reasoning
// slice is copied so callers can render incrementally while the
// accumulator keeps mutating.
func (a *Accumulator) Snapshot() Turn {
	snapshot := a.turn
	if len(a.turn.Reasoning) > 0 {
		snapshot.Reasoning = make([]ReasoningSection, len(a.turn.Reasoning))
		copy(snapshot.Reasoning, a.turn.Reasoning)
	}
	return snapshot
}
