package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/metachat/internal"
	"github.com/spf13/cobra"
)

var (
	verbose   bool
	serverURL string
	dataDir   string
	version   string = "dev"
	commit    string = "unknown"
	date      string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "metachat",
	Short: "Terminal client for the streaming knowledge-graph Q&A backend",
	Long: `A terminal client for a knowledge-graph Q&A backend that answers
incrementally: each question streams back labeled reasoning sections and a
final answer as they are produced.

The client keeps one conversation session alive across runs, caches every
completed turn locally, and can export transcripts in several formats.

Quick Start:
  metachat ask "What pathways involve citrate?"   # Ask and stream the answer
  metachat history                                # List cached turns
  metachat export --format md                     # Export the transcript

Session identity is created on first use, persisted locally, and follows
backend reassignments automatically.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		internal.PrintError(fmt.Sprintf("Error: %v", err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Backend base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory (config file, session store)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// loadConfig resolves the effective configuration from the data dir, the
// config file and the persistent flags.
func loadConfig() (*internal.Config, error) {
	dir := dataDir
	if dir == "" {
		var err error
		dir, err = internal.DefaultDataDir()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := internal.LoadConfig(dir)
	if err != nil {
		return nil, err
	}
	if serverURL != "" {
		cfg.ServerURL = serverURL
	}
	return cfg, nil
}

// openEnvironment wires up the store, client and session manager the
// streaming commands share. The caller closes the store.
func openEnvironment() (*internal.Config, *internal.Store, *internal.Client, *internal.SessionManager, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	store, err := internal.OpenStore(cfg.StorePath())
	if err != nil {
		return nil, nil, nil, nil, err
	}

	client := internal.NewClient(cfg.ServerURL, cfg.Timeout())
	manager := internal.NewSessionManager(store, client)
	return cfg, store, client, manager, nil
}
