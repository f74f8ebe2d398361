package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rocrate-validator/rocval/commands"
)

func TestProfilesListCommandPrintsRegisteredProfiles(t *testing.T) {
	profilesDir := buildProfiles(t)

	cmd := commands.NewProfilesCommand()
	cmd.SetArgs([]string{"list", "--builtin-profiles-dir", profilesDir})

	var runErr error
	output := captureStdout(t, func() {
		runErr = cmd.ExecuteContext(context.Background())
	})

	require.NoError(t, runErr)
	require.Contains(t, output, "https://w3id.org/ro/crate/1.1")
	require.Contains(t, output, "ro-crate")
}

func TestProfilesListCommandEmptyRegistry(t *testing.T) {
	dir := t.TempDir()

	cmd := commands.NewProfilesCommand()
	cmd.SetArgs([]string{"list", "--builtin-profiles-dir", dir})

	var runErr error
	output := captureStdout(t, func() {
		runErr = cmd.ExecuteContext(context.Background())
	})

	require.NoError(t, runErr)
	require.Contains(t, output, "No profiles registered")
}
