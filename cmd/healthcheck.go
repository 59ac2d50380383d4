package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/metachat/internal"
	"github.com/spf13/cobra"
)

var (
	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check backend reachability and local store health",
	Long: `Check the health of metachat by verifying:
  • Config resolution (data dir, server URL)
  • Local store accessibility and cached turn count
  • Backend reachability (session endpoint)

Useful for debugging connection or data-dir issues.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(sectionStyle.Render("metachat health check"))
		fmt.Println()
		failed := false

		// Step 1: resolve config
		fmt.Println(stepStyle.Render("Step 1: Resolving configuration..."))
		cfg, err := loadConfig()
		if err != nil {
			fmt.Println(failStyle.Render("✗ Failed to resolve configuration:"), err)
			os.Exit(1)
		}
		fmt.Println(okStyle.Render("✓ Configuration resolved"))
		fmt.Printf("   Data dir:   %s\n", cfg.DataDir)
		fmt.Printf("   Server URL: %s\n", cfg.ServerURL)
		fmt.Println()

		// Step 2: open the local store
		fmt.Println(stepStyle.Render("Step 2: Checking local store..."))
		store, err := internal.OpenStore(cfg.StorePath())
		if err != nil {
			fmt.Println(failStyle.Render("✗ Failed to open store:"), err)
			failed = true
		} else {
			defer func() { _ = store.Close() }()
			fmt.Println(okStyle.Render("✓ Store accessible"))
			fmt.Printf("   Path: %s\n", store.Path())

			if id, err := store.LoadSessionID(); err != nil {
				fmt.Println(warnStyle.Render("⚠ Could not read persisted session:"), err)
			} else if id == "" {
				fmt.Println(warnStyle.Render("⚠ No persisted session (one is created on first ask)"))
			} else {
				turns, err := store.ListTurns(id, 0)
				if err != nil {
					fmt.Println(warnStyle.Render("⚠ Could not read cached turns:"), err)
				} else {
					fmt.Printf("   Session %s with %d cached turn(s)\n", id, len(turns))
				}
			}
		}
		fmt.Println()

		// Step 3: probe the backend
		fmt.Println(stepStyle.Render("Step 3: Probing backend..."))
		client := internal.NewClient(cfg.ServerURL, cfg.Timeout())
		if _, err := client.CreateSession(cmd.Context()); err != nil {
			fmt.Println(failStyle.Render("✗ Backend unreachable:"), err)
			failed = true
		} else {
			fmt.Println(okStyle.Render("✓ Backend reachable"))
		}
		fmt.Println()

		if failed {
			fmt.Println(failStyle.Render("Health check failed"))
			os.Exit(1)
		}
		fmt.Println(okStyle.Render("All checks passed"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
}
