package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"nathanbeddoewebdev/actionrunner/internal/config"
)

func execRoot(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	config.SetPath(filepath.Join(t.TempDir(), "config.json"))
	t.Cleanup(config.ResetPath)

	var outBuf, errBuf bytes.Buffer
	root := rootCmd()
	root.SetOut(&outBuf)
	root.SetErr(&errBuf)
	root.SetArgs(args)
	err = root.Execute()
	return outBuf.String(), errBuf.String(), err
}

func TestRoot_Subcommands(t *testing.T) {
	root := rootCmd()

	want := []string{"config", "db", "history", "journal", "run"}
	for _, name := range want {
		found := false
		for _, c := range root.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRoot_LogFlagsApplyToSubcommands(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "actionrunner.log")

	stdout, _, err := execRoot(t, "--log-level", "debug", "--log-file", logFile, "config", "get", "workdir")
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !strings.Contains(stdout, "/home/project") {
		t.Errorf("unexpected output: %s", stdout)
	}
}

func TestRoot_InvalidLogLevel(t *testing.T) {
	_, _, err := execRoot(t, "--log-level", "chatty", "config", "get")
	if err == nil || !strings.Contains(err.Error(), "unknown level") {
		t.Errorf("expected log level error, got %v", err)
	}
}
