package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/metachat/internal"
	"github.com/spf13/cobra"
)

var (
	askHideReasoning bool
)

var (
	sectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("62"))

	answerHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("42"))

	errorSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("196"))

	reasoningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question and stream the answer",
	Long: `Ask the backend a question and print the response as it streams in:
intermediate reasoning sections first, then the final answer.

The turn is cached locally when the stream ends, so it shows up in
'metachat history' and 'metachat export'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")

		_, store, client, manager, err := openEnvironment()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		runner := internal.NewQueryRunner(client, manager, store)
		printer := newStreamPrinter(askHideReasoning)

		spinner := internal.StartSpinner("Waiting for response...")
		started := false
		turn, err := runner.Run(cmd.Context(), question, func(snapshot internal.Turn) {
			if !started {
				spinner.Stop()
				started = true
			}
			printer.update(snapshot)
		})
		if !started {
			spinner.Stop()
		}
		printer.finish(turn)

		if err != nil {
			// The partial turn was already printed and cached; surface the
			// failure without discarding it.
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().BoolVar(&askHideReasoning, "no-reasoning", false, "Only print the final answer")
}

// streamPrinter renders turn snapshots incrementally: it remembers how much
// of each section has been printed and emits only the new tail.
type streamPrinter struct {
	hideReasoning bool
	sectionIndex  int // sections fully or partially printed
	sectionChars  int // printed chars of the current section
	answerStarted bool
	answerChars   int
}

func newStreamPrinter(hideReasoning bool) *streamPrinter {
	return &streamPrinter{hideReasoning: hideReasoning, sectionIndex: -1}
}

func (p *streamPrinter) update(turn internal.Turn) {
	if !p.hideReasoning {
		p.printReasoning(turn)
	}
	p.printAnswer(turn)
}

func (p *streamPrinter) printReasoning(turn internal.Turn) {
	for i, section := range turn.Reasoning {
		if i < p.sectionIndex {
			continue
		}
		if i > p.sectionIndex {
			p.sectionIndex = i
			p.sectionChars = 0
			fmt.Println()
			fmt.Println(renderSectionHeader(section.Name))
		}
		if len(section.Text) > p.sectionChars {
			fmt.Print(reasoningStyle.Render(section.Text[p.sectionChars:]))
			p.sectionChars = len(section.Text)
		}
	}
}

func (p *streamPrinter) printAnswer(turn internal.Turn) {
	if turn.FinalAnswer == "" {
		return
	}
	if !p.answerStarted {
		p.answerStarted = true
		fmt.Println()
		fmt.Println()
		fmt.Println(answerHeaderStyle.Render("Answer"))
	}
	if len(turn.FinalAnswer) > p.answerChars {
		fmt.Print(turn.FinalAnswer[p.answerChars:])
		p.answerChars = len(turn.FinalAnswer)
	}
}

// finish flushes anything the snapshots did not cover (a turn that failed
// before the first snapshot) and ends the output line.
func (p *streamPrinter) finish(turn internal.Turn) {
	p.update(turn)
	fmt.Println()
	if isQuiet(turn) {
		internal.PrintWarning("No response content received")
	}
}

// isQuiet reports whether the turn carries no content at all.
func isQuiet(turn internal.Turn) bool {
	return turn.FinalAnswer == "" && len(turn.Reasoning) == 0
}

func renderSectionHeader(name string) string {
	if name == "" {
		name = "Reasoning"
	}
	if name == internal.ErrorSectionName {
		return errorSectionStyle.Render(name)
	}
	return sectionHeaderStyle.Render(name)
}
