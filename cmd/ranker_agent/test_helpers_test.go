package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

const testCandidates = `[
	{
		"id": "alice",
		"name": "Alice",
		"education": [{"degree": "PhD", "field": "Computer Science", "university": "MIT"}],
		"experience": [{"title": "Senior Engineer", "org": "Acme", "start": "2018", "end": "2024"}],
		"publications": [{"title": "Parsing at scale", "venue": "ACL", "year": 2022, "author_position": 1, "journal_if": 4.5}]
	},
	{
		"id": "bob",
		"name": "Bob",
		"education": [{"degree": "BS", "field": "History", "university": "State College"}]
	},
	{"id": "carol", "name": "Carol"}
]`

const testReference = `{"alice": 0.9, "bob": 0.5, "carol": 0.1}`

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// resetFlags restores every flag to its default so commands can run repeatedly in one process
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

// executeCommand runs the root command with args and returns its error
func executeCommand(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv(envRubric, "")
	resetFlags(rootCmd)
	rootCmd.SetArgs(args)
	rootCmd.SetErr(io.Discard)
	return rootCmd.Execute()
}
