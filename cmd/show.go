package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/metachat/internal"
	"github.com/spf13/cobra"
)

var (
	showReasoning bool
)

var (
	questionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	answerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show [turn-id]",
	Short: "Show a cached turn in full",
	Long: `Show one cached turn in full: the question, the final answer and,
with --reasoning, every intermediate reasoning section.

Without an argument the most recent turn of the current session is shown.
Turn IDs (or unambiguous prefixes) come from 'metachat history'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, manager, err := openEnvironment()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		turn, err := resolveTurn(cmd, store, manager, args)
		if err != nil {
			return err
		}
		if turn == nil {
			internal.PrintInfo("No cached turns to show")
			return nil
		}

		printTurn(*turn)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showReasoning, "reasoning", false, "Include intermediate reasoning sections")
}

// resolveTurn picks the requested turn: by ID prefix when given, otherwise
// the most recent turn of the active session.
func resolveTurn(cmd *cobra.Command, store *internal.Store, manager *internal.SessionManager, args []string) (*internal.Turn, error) {
	session := manager.Activate(cmd.Context())
	turns, err := store.ListTurns(session.ID, 0)
	if err != nil {
		return nil, err
	}
	if len(turns) == 0 {
		return nil, nil
	}

	if len(args) == 0 {
		return &turns[len(turns)-1], nil
	}

	prefix := args[0]
	var match *internal.Turn
	for i := range turns {
		if strings.HasPrefix(turns[i].ID, prefix) {
			if match != nil {
				return nil, fmt.Errorf("turn id prefix %q is ambiguous", prefix)
			}
			match = &turns[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no turn with id %q (see 'metachat history')", prefix)
	}
	return match, nil
}

func printTurn(turn internal.Turn) {
	fmt.Println(metaStyle.Render(fmt.Sprintf("turn %s · session %s · %s",
		turn.ID, turn.SessionID, turn.CreatedAt.Local().Format("2006-01-02 15:04:05"))))
	fmt.Println()
	fmt.Println(questionStyle.Render("You:"))
	fmt.Println(turn.UserText)
	fmt.Println()

	if showReasoning {
		for _, section := range turn.Reasoning {
			fmt.Println(renderSectionHeader(section.Name))
			fmt.Println(reasoningStyle.Render(section.Text))
			fmt.Println()
		}
	}

	fmt.Println(answerHeaderStyle.Render("Answer"))
	if turn.FinalAnswer == "" {
		fmt.Println(metaStyle.Render("(no final answer recorded)"))
		return
	}
	fmt.Println(answerStyle.Render(turn.FinalAnswer))
}
