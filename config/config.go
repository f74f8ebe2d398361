// Package config loads the engine's Settings record from YAML, with
// layered precedence (built-in defaults, then user config, then
// project config) and shell-style environment variable expansion.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/rocrate-validator/rocval/export"
	"github.com/rocrate-validator/rocval/model"
)

// Settings is the configuration record the CLI/API layer builds and
// hands to the engine's Validate entry point.
type Settings struct {
	// RocrateURI is the crate location: a local directory, a local or
	// file:// zip, or an http(s) URL to a zip. Required.
	RocrateURI string `yaml:"rocrate_uri"`
	// ProfileIdentifier forces a specific profile URI or token; empty
	// means auto-detect from the crate's conformsTo.
	ProfileIdentifier string `yaml:"profile_identifier"`
	// RequirementSeverity is the minimum severity to execute
	// ("OPTIONAL", "RECOMMENDED", "REQUIRED").
	RequirementSeverity string `yaml:"requirement_severity"`
	// Interactive permits interactive profile selection when no
	// conformsTo value matches a registered profile.
	Interactive bool `yaml:"interactive"`
	// ProfilesPath lists extra profile directories, stacked over the
	// built-in directory (later entries shadow earlier ones).
	ProfilesPath []string `yaml:"profiles_path"`
	// BuiltinProfilesDir overrides the built-in profiles directory.
	BuiltinProfilesDir string `yaml:"builtin_profiles_dir"`
	// InheritProfiles includes a profile's parents in execution.
	// Pointer so a layered file can distinguish "not set" (inherit the
	// prior layer's value) from an explicit false; DefaultSettings
	// sets it true.
	InheritProfiles *bool `yaml:"inherit_profiles"`
	// AbortOnFirst stops after the first issue at or above threshold.
	AbortOnFirst bool `yaml:"abort_on_first"`
	// Inference names an ontology graph augmentation mode: "none",
	// "rdfs", or "owl". Validate checks the value; the engine does not
	// pass it to the SHACL engine and performs no augmentation.
	Inference string `yaml:"inference"`
	// AllowInfos / AllowWarnings, when true, collect OPTIONAL /
	// RECOMMENDED severity findings as Issues even when they fall
	// below RequirementSeverity, without affecting result validity.
	AllowInfos    bool `yaml:"allow_infos"`
	AllowWarnings bool `yaml:"allow_warnings"`
	// SerializationOutputPath / SerializationOutputFormat, when set,
	// write the crate's resolved graph to disk (turtle, ntriples, or
	// jsonld).
	SerializationOutputPath   string `yaml:"serialization_output_path"`
	SerializationOutputFormat string `yaml:"serialization_output_format"`
	// HTTPCacheDir overrides the default remote-crate download cache
	// directory (os.UserCacheDir()/rocval/crates).
	HTTPCacheDir string `yaml:"http_cache_dir"`
}

// DefaultSettings returns Settings with the engine's documented
// defaults applied.
func DefaultSettings() *Settings {
	inherit := true
	return &Settings{
		RequirementSeverity: "REQUIRED",
		InheritProfiles:     &inherit,
		Inference:           "none",
		BuiltinProfilesDir:  "profiles",
	}
}

// InheritsProfiles reports the effective InheritProfiles value,
// defaulting to true when unset.
func (s *Settings) InheritsProfiles() bool {
	return s.InheritProfiles == nil || *s.InheritProfiles
}

// Severity parses RequirementSeverity into a model.Severity.
func (s *Settings) Severity() (model.Severity, error) {
	return model.ParseSeverity(s.RequirementSeverity)
}

// Validate checks that Settings is well-formed enough to attempt a
// validation run.
func (s *Settings) Validate() error {
	if s.RocrateURI == "" {
		return fmt.Errorf("rocrate_uri is required")
	}
	if _, err := s.Severity(); err != nil {
		return fmt.Errorf("requirement_severity: %w", err)
	}
	switch s.Inference {
	case "", "none", "rdfs", "owl":
	default:
		return fmt.Errorf("inference: unsupported value %q", s.Inference)
	}
	if s.SerializationOutputPath != "" {
		if _, err := export.ParseFormat(s.SerializationOutputFormat); err != nil {
			return fmt.Errorf("serialization_output_format: %w", err)
		}
	}
	return nil
}

// LoadFromFile reads and parses one YAML settings file, expanding
// ${VAR} / ${VAR:-default} references against the process environment
// before unmarshalling.
func LoadFromFile(path string) (*Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	expanded := ExpandEnvWithDefaults(string(raw))

	settings := &Settings{}
	if err := yaml.Unmarshal([]byte(expanded), settings); err != nil {
		return nil, fmt.Errorf("parse settings file: %w", err)
	}
	return settings, nil
}

// SaveToFile writes settings to path as YAML, creating parent
// directories as needed.
func (s *Settings) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

// Merge overlays other onto s: any non-zero field of other replaces
// the corresponding field of s. Slice fields (ProfilesPath) are
// replaced wholesale, not appended, using last-writer-wins layering.
func (s *Settings) Merge(other *Settings) {
	if other == nil {
		return
	}
	if other.RocrateURI != "" {
		s.RocrateURI = other.RocrateURI
	}
	if other.ProfileIdentifier != "" {
		s.ProfileIdentifier = other.ProfileIdentifier
	}
	if other.RequirementSeverity != "" {
		s.RequirementSeverity = other.RequirementSeverity
	}
	if other.Interactive {
		s.Interactive = true
	}
	if len(other.ProfilesPath) > 0 {
		s.ProfilesPath = other.ProfilesPath
	}
	if other.BuiltinProfilesDir != "" {
		s.BuiltinProfilesDir = other.BuiltinProfilesDir
	}
	if other.InheritProfiles != nil {
		s.InheritProfiles = other.InheritProfiles
	}
	if other.AbortOnFirst {
		s.AbortOnFirst = true
	}
	if other.Inference != "" {
		s.Inference = other.Inference
	}
	if other.AllowInfos {
		s.AllowInfos = true
	}
	if other.AllowWarnings {
		s.AllowWarnings = true
	}
	if other.SerializationOutputPath != "" {
		s.SerializationOutputPath = other.SerializationOutputPath
	}
	if other.SerializationOutputFormat != "" {
		s.SerializationOutputFormat = other.SerializationOutputFormat
	}
	if other.HTTPCacheDir != "" {
		s.HTTPCacheDir = other.HTTPCacheDir
	}
}
