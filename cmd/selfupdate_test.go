package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestSelfUpdateCommandShape(t *testing.T) {
	cmd := newSelfUpdateCmd()
	if cmd.Use != "self-update" {
		t.Errorf("Use = %q, want self-update", cmd.Use)
	}
	if cmd.Short == "" || cmd.Long == "" {
		t.Error("self-update must carry both short and long descriptions")
	}
	if cmd.RunE == nil {
		t.Error("self-update has no RunE")
	}
}

func TestSelfUpdateRefusesDevBuilds(t *testing.T) {
	originalVersion := rootCmd.Version
	defer func() { rootCmd.Version = originalVersion }()

	for _, version := range []string{"dev", ""} {
		rootCmd.Version = version
		err := runSelfUpdate(nil, nil)
		if err == nil {
			t.Fatalf("version %q: expected an error, got none", version)
		}
		if !strings.Contains(err.Error(), "cannot self-update a development version") {
			t.Errorf("version %q: unexpected error: %v", version, err)
		}
	}
}

func TestSelfUpdateHelpMentionsReleaseCheck(t *testing.T) {
	cmd := newSelfUpdateCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("rendering help: %v", err)
	}
	if !strings.Contains(buf.String(), "Checks for the latest release") {
		t.Errorf("help output misses the long description: %q", buf.String())
	}
}
