package commands_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rocrate-validator/rocval/commands"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func buildProfiles(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ro-crate", "profile.yaml"), `
uri: https://w3id.org/ro/crate/1.1
token: ro-crate
version: "1.1"
name: RO-Crate
`)
	writeFile(t, filepath.Join(dir, "ro-crate", "requirements.yaml"), `
requirements:
  - id: root_name
    severity: REQUIRED
    checks:
      - id: root_name
        predicate: root_name
        severity: REQUIRED
`)
	return dir
}

func buildCrate(t *testing.T, name string) string {
	t.Helper()
	dir := t.TempDir()
	metadata := `{
  "@graph": [
    {"@id": "ro-crate-metadata.json", "about": {"@id": "./"}},
    {"@id": "./", "@type": "Dataset"` + name + `}
  ]
}`
	writeFile(t, filepath.Join(dir, "ro-crate-metadata.json"), metadata)
	return dir
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	require.NoError(t, w.Close())
	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}

func TestValidateCommandReportsValidCrate(t *testing.T) {
	profilesDir := buildProfiles(t)
	crateDir := buildCrate(t, `, "name": "My Dataset"`)

	cmd := commands.NewValidateCommand()
	cmd.SetArgs([]string{
		"--builtin-profiles-dir", profilesDir,
		crateDir,
	})

	var runErr error
	output := captureStdout(t, func() {
		runErr = cmd.ExecuteContext(context.Background())
	})

	require.NoError(t, runErr)
	require.Contains(t, output, "Result: VALID")
}

func TestValidateCommandExitsOneOnIssues(t *testing.T) {
	profilesDir := buildProfiles(t)
	crateDir := buildCrate(t, "")

	cmd := commands.NewValidateCommand()
	cmd.SetArgs([]string{
		"--builtin-profiles-dir", profilesDir,
		crateDir,
	})

	var runErr error
	output := captureStdout(t, func() {
		runErr = cmd.ExecuteContext(context.Background())
	})

	require.Contains(t, output, "Result: INVALID")
	var exitErr *commands.ExitCodeError
	require.True(t, errors.As(runErr, &exitErr))
	require.Equal(t, 1, exitErr.Code)
}

func TestValidateCommandFailsOnMissingCrate(t *testing.T) {
	profilesDir := buildProfiles(t)

	cmd := commands.NewValidateCommand()
	cmd.SetArgs([]string{
		"--builtin-profiles-dir", profilesDir,
		filepath.Join(t.TempDir(), "does-not-exist"),
	})

	runErr := cmd.ExecuteContext(context.Background())
	var exitErr *commands.ExitCodeError
	require.True(t, errors.As(runErr, &exitErr))
	require.Equal(t, 2, exitErr.Code)
}

func TestValidateCommandJSONFormat(t *testing.T) {
	profilesDir := buildProfiles(t)
	crateDir := buildCrate(t, `, "name": "My Dataset"`)

	cmd := commands.NewValidateCommand()
	cmd.SetArgs([]string{
		"--builtin-profiles-dir", profilesDir,
		"--format", "json",
		crateDir,
	})

	var runErr error
	output := captureStdout(t, func() {
		runErr = cmd.ExecuteContext(context.Background())
	})

	require.NoError(t, runErr)
	require.Contains(t, output, `"valid": true`)
}
