package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/iksnae/metachat/internal"
	"github.com/spf13/cobra"
)

var (
	replayRaw bool
)

// replayCmd represents the replay command
var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Run a saved wire-format stream through the ingestion pipeline",
	Long: `Replay a saved response body (the raw event-stream bytes) through the
decoder, parser and accumulator, printing each event as it is yielded.

Useful for debugging wire-format problems offline: capture a response with
curl and replay it here. '-' reads from stdin.

With --raw each event is printed as parsed; without it the reconstructed
turn is rendered the same way 'ask' renders a live stream.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var src io.ReadCloser
		if args[0] == "-" {
			src = io.NopCloser(os.Stdin)
		} else {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open stream file: %w", err)
			}
			src = f
		}

		dec := internal.NewStreamDecoder(src)
		defer func() { _ = dec.Close() }()
		parser := internal.NewEventParser(dec)

		acc := internal.NewAccumulator("(replayed stream)")
		printer := newStreamPrinter(false)

		n := 0
		count, err := replayEvents(parser, func(ev internal.Event) {
			if replayRaw {
				n++
				printEvent(n, ev)
				return
			}
			acc.Apply(ev)
			printer.update(acc.Snapshot())
		})
		if err != nil {
			return fmt.Errorf("stream read failed after %d event(s): %w", count, err)
		}

		if replayRaw {
			internal.PrintSuccess(fmt.Sprintf("Replayed %d event(s)", count))
			return nil
		}
		printer.finish(acc.Snapshot())
		return nil
	},
}

// replayEvents pulls the parser dry, handing each event to handle. On a
// read failure the records completed before the failure are still handed
// over before the error is returned.
func replayEvents(parser *internal.EventParser, handle func(internal.Event)) (int, error) {
	count := 0
	for {
		ev, err := parser.Next()
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			for _, pending := range parser.Drain() {
				count++
				handle(pending)
			}
			return count, err
		}
		count++
		handle(ev)
	}
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().BoolVar(&replayRaw, "raw", false, "Print parsed events instead of the rendered turn")
}

func printEvent(n int, ev internal.Event) {
	switch e := ev.(type) {
	case internal.ReasoningEvent:
		name := e.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Printf("%3d reasoning %-16s %q\n", n, name, e.Text)
	case internal.FinalAnswerEvent:
		fmt.Printf("%3d answer    %-16s %q\n", n, "", e.Text)
	case internal.SessionUpdateEvent:
		fmt.Printf("%3d session   %-16s %s\n", n, "", e.SessionID)
	case internal.DoneEvent:
		fmt.Printf("%3d done      %-16s\n", n, e.Label)
	default:
		fmt.Printf("%3d unknown   %v\n", n, ev)
	}
}
