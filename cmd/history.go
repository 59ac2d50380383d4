package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/metachat/internal"
	"github.com/spf13/cobra"
)

var (
	historyRestore bool
	historyLimit   int
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the turns of the current session",
	Long: `List the locally cached turns of the current session.

With --restore the backend's stored history is fetched first and the local
cache is replaced with it, which is useful after switching machines or
clearing the data directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, client, manager, err := openEnvironment()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		session := manager.Activate(cmd.Context())

		var turns []internal.Turn
		if historyRestore {
			runner := internal.NewQueryRunner(client, manager, store)
			turns, err = runner.RestoreHistory(cmd.Context())
			if err != nil {
				return err
			}
			internal.PrintSuccess(fmt.Sprintf("Restored %d turn(s) from the backend", len(turns)))
		} else {
			turns, err = store.ListTurns(session.ID, historyLimit)
			if err != nil {
				return err
			}
		}

		if len(turns) == 0 {
			internal.PrintInfo(fmt.Sprintf("No turns cached for session %s", session.ID))
			return nil
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("Session %s (%s) · %d turn(s)", session.ID, session.Origin, len(turns))))
		fmt.Println()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tASKED\tQUESTION\tANSWER")
		for _, turn := range turns {
			created := ""
			if !turn.CreatedAt.IsZero() {
				created = dateStyle.Render(turn.CreatedAt.Local().Format("2006-01-02 15:04"))
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				idStyle.Render(shortID(turn.ID)),
				created,
				truncate(turn.UserText, 40),
				truncate(turn.FinalAnswer, 48),
			)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolVar(&historyRestore, "restore", false, "Fetch history from the backend and replace the local cache")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "Maximum number of turns to list (0 = all)")
}

// shortID abbreviates a UUID for table display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// truncate cuts s to max characters on a single line.
func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
