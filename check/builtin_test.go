package check

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rocrate-validator/rocval/crate"
	"github.com/rocrate-validator/rocval/model"
)

func loadTestCrate(t *testing.T, metadata string, files map[string]string) *crate.Crate {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ro-crate-metadata.json"), []byte(metadata), 0o644))
	for name, content := range files {
		full := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	c, err := crate.Load(context.Background(), dir, crate.Options{})
	require.NoError(t, err)
	return c
}

func TestFilePresenceDetectsMissingFile(t *testing.T) {
	metadata := `{
  "@graph": [
    {"@id": "ro-crate-metadata.json", "about": {"@id": "./"}},
    {"@id": "./", "@type": "Dataset", "hasPart": [{"@id": "outputs/tac_on_data_360_1.txt"}]}
  ]
}`
	c := loadTestCrate(t, metadata, nil)

	chk := model.Check{ID: "file_presence", RequirementID: "file_presence", Severity: model.Required}
	issues, err := filePresence(context.Background(), c, chk)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	require.Equal(t, "file_presence", issues[0].CheckID)
	require.Contains(t, issues[0].Message, "outputs/tac_on_data_360_1.txt")
}

func TestFilePresencePassesWhenFileExists(t *testing.T) {
	metadata := `{
  "@graph": [
    {"@id": "ro-crate-metadata.json", "about": {"@id": "./"}},
    {"@id": "./", "@type": "Dataset", "hasPart": [{"@id": "outputs/result.txt"}]}
  ]
}`
	c := loadTestCrate(t, metadata, map[string]string{"outputs/result.txt": "hi"})

	chk := model.Check{ID: "file_presence", Severity: model.Required}
	issues, err := filePresence(context.Background(), c, chk)
	require.NoError(t, err)
	require.Empty(t, issues)
}

func TestRootLicenseMissing(t *testing.T) {
	metadata := `{
  "@graph": [
    {"@id": "ro-crate-metadata.json", "about": {"@id": "./"}},
    {"@id": "./", "@type": "Dataset"}
  ]
}`
	c := loadTestCrate(t, metadata, nil)

	predicate, ok := Lookup("root_license")
	require.True(t, ok)

	chk := model.Check{ID: "root_license", Severity: model.Recommended}
	issues, err := predicate(context.Background(), c, chk)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	require.Equal(t, model.Recommended, issues[0].Severity)
}

func TestRootIDWrongProperty(t *testing.T) {
	metadata := `{
  "@graph": [
    {"@id": "ro-crate-metadata.json", "about": {"@id": "./"}},
    {"should_be_the_id": "./", "@type": "Dataset"}
  ]
}`
	c := loadTestCrate(t, metadata, nil)

	chk := model.Check{ID: "root_id", Severity: model.Required}
	issues, err := rootID(context.Background(), c, chk)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	require.Equal(t, model.Required, issues[0].Severity)
}
