package engine_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rocrate-validator/rocval/config"
	"github.com/rocrate-validator/rocval/engine"
	"github.com/rocrate-validator/rocval/executor"
	"github.com/rocrate-validator/rocval/model"
	"github.com/rocrate-validator/rocval/profile"
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

func TestValidateAgainstRealBuiltinProfiles(t *testing.T) {
	registry, err := profile.Load(filepath.Join("..", "profiles"), nil, nil)
	require.NoError(t, err)

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ro-crate-metadata.json"), `{
  "@graph": [
    {"@id": "ro-crate-metadata.json", "about": {"@id": "./"}},
    {"@id": "./", "@type": "Dataset", "name": "a workflow crate",
     "conformsTo": [{"@id": "https://w3id.org/workflowhub/workflow-ro-crate/1.0"}],
     "mainEntity": {"@id": "workflow/main.cwl"},
     "hasPart": [{"@id": "workflow/main.cwl"}]},
    {"@id": "workflow/main.cwl", "@type": "ComputationalWorkflow", "name": "main"}
  ]
}`)
	writeFile(t, filepath.Join(dir, "workflow", "main.cwl"), "cwlVersion: v1.2\n")

	settings := config.DefaultSettings()
	settings.RocrateURI = dir
	settings.AllowWarnings = true

	result, err := engine.Validate(context.Background(), settings, engine.Options{Registry: registry})
	require.NoError(t, err)
	require.True(t, result.Valid())

	var found bool
	for _, issue := range result.Issues {
		if issue.CheckID == "workflow_language" {
			found = true
			require.Equal(t, model.Recommended, issue.Severity)
		}
	}
	require.True(t, found, "shapes.yaml-backed workflow_language check should have fired on a crate missing programmingLanguage")
}

func TestValidatePassesWithNameSet(t *testing.T) {
	profilesDir := buildProfiles(t)
	registry, err := profile.Load(profilesDir, nil, nil)
	require.NoError(t, err)

	crateDir := buildCrate(t, `, "name": "My Dataset"`)

	settings := config.DefaultSettings()
	settings.RocrateURI = crateDir

	result, err := engine.Validate(context.Background(), settings, engine.Options{Registry: registry})
	require.NoError(t, err)
	require.True(t, result.Valid())
	require.Equal(t, []string{"https://w3id.org/ro/crate/1.1"}, result.Profiles)
}

func TestValidateFailsWithoutName(t *testing.T) {
	profilesDir := buildProfiles(t)
	registry, err := profile.Load(profilesDir, nil, nil)
	require.NoError(t, err)

	crateDir := buildCrate(t, "")

	settings := config.DefaultSettings()
	settings.RocrateURI = crateDir

	result, err := engine.Validate(context.Background(), settings, engine.Options{Registry: registry})
	require.NoError(t, err)
	require.False(t, result.Valid())
	require.Len(t, result.Issues, 1)
	require.Equal(t, "root_name", result.Issues[0].CheckID)
}

func TestValidateAllowWarningsCollectsLowerSeverityWithoutAffectingValidity(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ro-crate", "profile.yaml"), `
uri: https://w3id.org/ro/crate/1.1
token: ro-crate
name: RO-Crate
`)
	writeFile(t, filepath.Join(dir, "ro-crate", "requirements.yaml"), `
requirements:
  - id: root_name
    severity: RECOMMENDED
    checks:
      - id: root_name
        predicate: root_name
        severity: RECOMMENDED
`)
	registry, err := profile.Load(dir, nil, nil)
	require.NoError(t, err)

	crateDir := buildCrate(t, "")

	settings := config.DefaultSettings()
	settings.RocrateURI = crateDir
	settings.RequirementSeverity = "REQUIRED"
	settings.AllowWarnings = true

	result, err := engine.Validate(context.Background(), settings, engine.Options{Registry: registry})
	require.NoError(t, err)
	require.True(t, result.Valid(), "a RECOMMENDED-only issue must not fail a REQUIRED threshold")
	require.Len(t, result.Issues, 1)
	require.Equal(t, model.Recommended, result.Issues[0].Severity)
}

func TestValidateMissingRocrateURI(t *testing.T) {
	registry, err := profile.Load(buildProfiles(t), nil, nil)
	require.NoError(t, err)

	settings := config.DefaultSettings()
	_, err = engine.Validate(context.Background(), settings, engine.Options{Registry: registry})
	require.Error(t, err)
}

func TestValidateRequiresRegistry(t *testing.T) {
	settings := config.DefaultSettings()
	settings.RocrateURI = buildCrate(t, "")
	_, err := engine.Validate(context.Background(), settings, engine.Options{})
	require.Error(t, err)
}

func TestValidatePublishesEventsToSubscribers(t *testing.T) {
	profilesDir := buildProfiles(t)
	registry, err := profile.Load(profilesDir, nil, nil)
	require.NoError(t, err)

	crateDir := buildCrate(t, `, "name": "My Dataset"`)

	var events []model.EventType
	sub := executor.SubscriberFunc(func(e model.Event) {
		events = append(events, e.Type)
	})

	settings := config.DefaultSettings()
	settings.RocrateURI = crateDir

	_, err = engine.Validate(context.Background(), settings, engine.Options{
		Registry:    registry,
		Subscribers: []executor.Subscriber{sub},
	})
	require.NoError(t, err)
	require.Contains(t, events, model.ValidationStarted)
	require.Contains(t, events, model.ValidationFinished)
}

func TestValidateInheritProfilesFalseSkipsParentRequirements(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ro-crate", "profile.yaml"), `
uri: https://w3id.org/ro/crate/1.1
token: ro-crate
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
	writeFile(t, filepath.Join(dir, "workflow-ro-crate", "profile.yaml"), `
uri: https://w3id.org/workflowhub/workflow-ro-crate/1.0
token: workflow-ro-crate
name: Workflow RO-Crate
isProfileOf:
  - https://w3id.org/ro/crate/1.1
`)
	writeFile(t, filepath.Join(dir, "workflow-ro-crate", "requirements.yaml"), `
requirements:
  - id: main_workflow
    severity: REQUIRED
    checks:
      - id: main_entity_present
        predicate: main_entity_present
        severity: REQUIRED
`)
	registry, err := profile.Load(dir, nil, nil)
	require.NoError(t, err)

	crateDir := buildCrate(t, "")

	no := false
	settings := config.DefaultSettings()
	settings.RocrateURI = crateDir
	settings.ProfileIdentifier = "https://w3id.org/workflowhub/workflow-ro-crate/1.0"
	settings.InheritProfiles = &no

	result, err := engine.Validate(context.Background(), settings, engine.Options{Registry: registry})
	require.NoError(t, err)
	require.Len(t, result.Issues, 1)
	require.Equal(t, "main_entity_present", result.Issues[0].CheckID)
}

func TestValidateWritesSerializationOutput(t *testing.T) {
	profilesDir := buildProfiles(t)
	registry, err := profile.Load(profilesDir, nil, nil)
	require.NoError(t, err)

	crateDir := buildCrate(t, `, "name": "My Dataset"`)
	outPath := filepath.Join(t.TempDir(), "nested", "out.ttl")

	settings := config.DefaultSettings()
	settings.RocrateURI = crateDir
	settings.SerializationOutputPath = outPath
	settings.SerializationOutputFormat = "turtle"

	_, err = engine.Validate(context.Background(), settings, engine.Options{Registry: registry})
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "My Dataset")
}

func TestValidateRejectsUnknownSerializationFormat(t *testing.T) {
	profilesDir := buildProfiles(t)
	registry, err := profile.Load(profilesDir, nil, nil)
	require.NoError(t, err)

	crateDir := buildCrate(t, `, "name": "My Dataset"`)

	settings := config.DefaultSettings()
	settings.RocrateURI = crateDir
	settings.SerializationOutputPath = filepath.Join(t.TempDir(), "out.ttl")
	settings.SerializationOutputFormat = "bogus"

	_, err = engine.Validate(context.Background(), settings, engine.Options{Registry: registry})
	require.Error(t, err)
}
