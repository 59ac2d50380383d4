package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/metachat/internal"
)

// MarkdownExporter exports transcripts in Markdown format
type MarkdownExporter struct{}

// Export exports a transcript to Markdown format
func (e *MarkdownExporter) Export(transcript *internal.Transcript, w io.Writer) error {
	// Header
	_, _ = fmt.Fprintf(w, "# Session %s\n\n", transcript.SessionID)
	_, _ = fmt.Fprintf(w, "**Turns:** %d\n\n", len(transcript.Turns))
	_, _ = fmt.Fprintf(w, "---\n\n")

	for i, turn := range transcript.Turns {
		_, _ = fmt.Fprintf(w, "**You:**\n\n%s\n\n", escapeMarkdown(turn.UserText))

		for _, section := range turn.Reasoning {
			name := section.Name
			if name == "" {
				name = "Reasoning"
			}
			_, _ = fmt.Fprintf(w, "<details><summary>%s</summary>\n\n%s\n\n</details>\n\n",
				name, escapeMarkdown(section.Text))
		}

		if turn.FinalAnswer != "" {
			_, _ = fmt.Fprintf(w, "**Assistant:**\n\n%s\n\n", escapeMarkdown(turn.FinalAnswer))
		}

		if i < len(transcript.Turns)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// escapeMarkdown escapes markdown special characters outside code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
