package cmd

import (
	"fmt"

	"github.com/iksnae/metachat/internal"
	"github.com/spf13/cobra"
)

// sessionCmd represents the session command
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect or reset the conversation session",
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current session identifier and how it was obtained",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, manager, err := openEnvironment()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		session := manager.Activate(cmd.Context())
		fmt.Printf("session: %s\n", session.ID)
		fmt.Printf("origin:  %s\n", session.Origin)
		fmt.Printf("state:   %s\n", manager.State())
		return nil
	},
}

var sessionResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the persisted session so the next query starts a new one",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, manager, err := openEnvironment()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		if err := manager.Reset(); err != nil {
			return err
		}
		internal.PrintSuccess("Session cleared; the next 'ask' creates a new one")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionResetCmd)
}
