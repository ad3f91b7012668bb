package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandHasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"serve", "review", "migrate", "version"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestReadTarget_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "target.md")
	require.NoError(t, os.WriteFile(path, []byte("target body"), 0o600))

	reviewFlags.targetFile = path
	t.Cleanup(func() { reviewFlags.targetFile = "" })

	got, err := readTarget()
	require.NoError(t, err)
	assert.Equal(t, "target body", got)
}

func TestReadTarget_NoFile(t *testing.T) {
	reviewFlags.targetFile = ""

	got, err := readTarget()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadTarget_MissingFile(t *testing.T) {
	reviewFlags.targetFile = filepath.Join(t.TempDir(), "does-not-exist")
	t.Cleanup(func() { reviewFlags.targetFile = "" })

	_, err := readTarget()
	assert.Error(t, err)
}

func TestReviewCommandRequiresFlags(t *testing.T) {
	flag := reviewCmd.Flags().Lookup("project-id")
	require.NotNil(t, flag)
	assert.Equal(t, []string{"true"}, flag.Annotations[cobra.BashCompOneRequiredFlag])
}
