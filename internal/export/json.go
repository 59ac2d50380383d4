package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/metachat/internal"
)

// JSONExporter exports transcripts as one pretty-printed JSON document
type JSONExporter struct{}

// jsonDocument is the exported envelope: the session, a turn count for
// consumers that stream-skip the body, and the turns themselves.
type jsonDocument struct {
	SessionID string          `json:"session_id"`
	TurnCount int             `json:"turn_count"`
	Turns     []internal.Turn `json:"turns"`
}

// Export exports a transcript to JSON format
func (e *JSONExporter) Export(transcript *internal.Transcript, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(jsonDocument{
		SessionID: transcript.SessionID,
		TurnCount: transcript.TurnCount(),
		Turns:     transcript.Turns,
	})
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
