package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestExportRejectsUnknownFormat(t *testing.T) {
	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs([]string{"export", "--format", "xml"})

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("Execute() succeeded, want unsupported-format error")
	}
	if !strings.Contains(err.Error(), "unsupported format") {
		t.Errorf("error = %v, want unsupported format", err)
	}
}

func TestExportFlagDefaults(t *testing.T) {
	if got := exportCmd.Flags().Lookup("format").DefValue; got != "md" {
		t.Errorf("format default = %q, want md", got)
	}
	if got := exportCmd.Flags().Lookup("stdout").DefValue; got != "false" {
		t.Errorf("stdout default = %q, want false", got)
	}
}
