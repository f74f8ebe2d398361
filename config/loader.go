package config

import (
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	// ProjectConfigFile is the name of the project-level settings
	// file, discovered by walking up from the working directory.
	ProjectConfigFile = "rocval.yaml"
	// UserConfigDir is the directory for user-level settings.
	UserConfigDir = ".config/rocval"
	// UserConfigFile is the name of the user-level settings file.
	UserConfigFile = "config.yaml"
)

// Loader loads Settings with layered precedence.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load builds Settings with layered precedence:
//  1. Engine defaults (DefaultSettings).
//  2. User settings (~/.config/rocval/config.yaml).
//  3. Project settings (rocval.yaml in the working directory or an
//     ancestor).
//
// Each layer's file, if present, has ${VAR}/${VAR:-default}
// environment references expanded before being parsed and merged over
// the accumulated result. A missing settings file at any layer is not
// an error; a malformed one is logged and skipped so a single bad
// layer does not abort the whole load.
func (l *Loader) Load() (*Settings, error) {
	settings := DefaultSettings()

	if userPath := l.userConfigPath(); userPath != "" {
		if userSettings, err := LoadFromFile(userPath); err == nil {
			l.logger.Debug("loaded user settings", slog.String("path", userPath))
			settings.Merge(userSettings)
		} else if !errors.Is(err, os.ErrNotExist) {
			l.logger.Warn("failed to load user settings", slog.String("path", userPath), slog.String("error", err.Error()))
		}
	}

	if projectPath := l.findProjectConfig(); projectPath != "" {
		if projectSettings, err := LoadFromFile(projectPath); err == nil {
			l.logger.Debug("loaded project settings", slog.String("path", projectPath))
			settings.Merge(projectSettings)
		} else {
			l.logger.Warn("failed to load project settings", slog.String("path", projectPath), slog.String("error", err.Error()))
		}
	} else {
		l.logger.Debug("no project settings file found")
	}

	if len(settings.ProfilesPath) == 0 {
		if gitRoot := l.detectGitRoot(); gitRoot != "" {
			candidate := filepath.Join(gitRoot, "profiles")
			if info, err := os.Stat(candidate); err == nil && info.IsDir() {
				l.logger.Debug("discovered repo-local profiles directory", slog.String("path", candidate))
				settings.ProfilesPath = []string{candidate}
			}
		}
	}

	return settings, nil
}

// EnsureUserConfig writes the default settings to the user config path
// if nothing is there yet.
func (l *Loader) EnsureUserConfig() error {
	path := l.userConfigPath()
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := DefaultSettings().SaveToFile(path); err != nil {
		return err
	}
	l.logger.Info("created default user settings", slog.String("path", path))
	return nil
}

func (l *Loader) userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// findProjectConfig walks up from the working directory looking for
// ProjectConfigFile.
func (l *Loader) findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		candidate := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// detectGitRoot finds the git repository root from the working
// directory. Load uses it to discover a repo-local profiles/ directory
// and add it to ProfilesPath when no layer has set one explicitly.
func (l *Loader) detectGitRoot() string {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	output, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}
