package internal

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorMessagesAndUnwrap(t *testing.T) {
	cause := errors.New("root cause")

	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "transport",
			err:  &TransportError{Op: "query", URL: "http://x/query", Err: cause},
			want: []string{"transport error", "query", "http://x/query", "root cause"},
		},
		{
			name: "parse",
			err:  &ParseError{Source: "stream", Payload: "not-json", Err: cause},
			want: []string{"parse error", "stream", "not-json", "root cause"},
		},
		{
			name: "store",
			err:  &StoreError{Path: "/tmp/db", Op: "write", Err: cause},
			want: []string{"store error", "write", "/tmp/db", "root cause"},
		},
		{
			name: "session",
			err:  &SessionError{State: "creating", Err: cause},
			want: []string{"session error", "creating", "root cause"},
		},
		{
			name: "export",
			err:  &ExportError{Format: "jsonl", Path: "/tmp/out", Err: cause},
			want: []string{"export error", "jsonl", "/tmp/out", "root cause"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, part := range tt.want {
				if !strings.Contains(msg, part) {
					t.Errorf("Error() = %q, missing %q", msg, part)
				}
			}
			if !errors.Is(tt.err, cause) {
				t.Errorf("errors.Is() failed to find the cause in %T", tt.err)
			}
		})
	}
}
