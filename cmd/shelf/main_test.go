package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")}, args...))
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestMigrateCommands(t *testing.T) {
	t.Setenv("SHELF_DATABASE_FILE", filepath.Join(t.TempDir(), "shelf.db"))

	assert.Contains(t, runCLI(t, "migrate", "version"), "schema: empty")
	assert.Contains(t, runCLI(t, "migrate", "up"), "schema: version 2")
	assert.Contains(t, runCLI(t, "migrate", "down"), "schema: version 1")
	assert.Contains(t, runCLI(t, "migrate", "down", "--steps", "1"), "schema: empty")
}

func TestMigrateDownRejectsZeroSteps(t *testing.T) {
	t.Setenv("SHELF_DATABASE_FILE", filepath.Join(t.TempDir(), "shelf.db"))

	cmd := newRootCommand()
	cmd.SetArgs([]string{"migrate", "down", "--steps", "0"})
	assert.Error(t, cmd.Execute())
}

func TestRootShowsHelp(t *testing.T) {
	out := runCLI(t)
	assert.Contains(t, out, "serve")
	assert.Contains(t, out, "migrate")
}
