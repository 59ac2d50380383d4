package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iksnae/metachat/internal"
	"github.com/iksnae/metachat/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportFormat    string
	exportOutput    string
	exportSessionID string
	exportStdout    bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a session transcript to file",
	Long: `Export the cached transcript of a session to various formats
(jsonl, md, yaml, json).

By default the current session is exported into the working directory.
Use --session to export another cached session; 'metachat session show'
prints the current one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		_, store, _, manager, err := openEnvironment()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		sessionID := exportSessionID
		if sessionID == "" {
			sessionID = manager.Activate(cmd.Context()).ID
		}

		transcript, err := internal.LoadTranscript(store, sessionID)
		if err != nil {
			return err
		}
		if transcript.TurnCount() == 0 {
			internal.PrintInfo(fmt.Sprintf("No cached turns for session %s", sessionID))
			return nil
		}

		if exportStdout {
			return exporter.Export(transcript, os.Stdout)
		}

		outDir := exportOutput
		if outDir == "" {
			outDir = "."
		}
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return &internal.ExportError{Format: exportFormat, Path: outDir, Err: err}
		}

		path := filepath.Join(outDir, fmt.Sprintf("session_%s.%s", sessionID, exporter.Extension()))
		f, err := os.Create(path)
		if err != nil {
			return &internal.ExportError{Format: exportFormat, Path: path, Err: err}
		}
		defer func() { _ = f.Close() }()

		if err := exporter.Export(transcript, f); err != nil {
			return &internal.ExportError{Format: exportFormat, Path: path, Err: err}
		}

		internal.PrintSuccess(fmt.Sprintf("Exported %d turn(s) to %s", transcript.TurnCount(), path))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "md", "Export format: jsonl, md, yaml, json")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output directory (default: current directory)")
	exportCmd.Flags().StringVar(&exportSessionID, "session", "", "Session to export (default: current session)")
	exportCmd.Flags().BoolVar(&exportStdout, "stdout", false, "Write to stdout instead of a file")
}
