package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/metachat/internal"
)

// JSONLExporter exports transcripts in JSONL format (one turn per line)
type JSONLExporter struct{}

// Export exports a transcript to JSONL format
func (e *JSONLExporter) Export(transcript *internal.Transcript, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, turn := range transcript.Turns {
		obj := map[string]interface{}{
			"session_id":   transcript.SessionID,
			"user_text":    turn.UserText,
			"final_answer": turn.FinalAnswer,
		}

		if len(turn.Reasoning) > 0 {
			obj["reasoning"] = turn.Reasoning
		}
		if !turn.CreatedAt.IsZero() {
			obj["created_at"] = turn.CreatedAt
		}

		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode turn: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
