package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/rocrate-validator/rocval/vocabulary/rocrate"
)

// Registry discovers profiles on disk and serves lookups by
// identifier, URI, and conformsTo candidate matching. It is built
// once, explicitly, and is immutable thereafter — the engine never
// reads ambient global state for it.
type Registry struct {
	byURI   map[string]Profile
	byToken map[string][]Profile // sorted ascending by version, unversioned last
	logger  *slog.Logger
}

// Load scans builtinDir and, in order, each directory in extensionDirs
// (layered: later directories shadow earlier ones, and all of them
// shadow builtinDir, on profile URI collision), returning an
// immutable Registry. A later profile reusing a URI under a different
// token is an ErrDuplicateIdentifier error.
func Load(builtinDir string, extensionDirs []string, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		byURI:   make(map[string]Profile),
		byToken: make(map[string][]Profile),
		logger:  logger,
	}

	dirs := append([]string{builtinDir}, extensionDirs...)
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := r.loadDir(dir); err != nil {
			return nil, err
		}
	}

	for token, profiles := range r.byToken {
		sort.Slice(profiles, func(i, j int) bool {
			return profiles[i].Ordinal().compare(profiles[j].Ordinal()) < 0
		})
		r.byToken[token] = profiles
	}

	return r, nil
}

func (r *Registry) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			r.logger.Warn("profiles directory not found", slog.String("dir", dir))
			return nil
		}
		return fmt.Errorf("profile: reading %s: %w", dir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if ignored(entry.Name()) {
			continue
		}

		p, err := loadProfileDir(filepath.Join(dir, entry.Name()), entry.Name())
		if err != nil {
			return err
		}

		if existing, ok := r.byURI[p.URI]; ok && existing.Token != p.Token {
			return fmt.Errorf("%w: %s", ErrDuplicateIdentifier, p.URI)
		}
		r.removeFromToken(p) // a later layer redefining the same URI replaces, not duplicates
		r.byURI[p.URI] = p
		r.byToken[p.Token] = append(r.byToken[p.Token], p)
		r.logger.Debug("loaded profile", slog.String("uri", p.URI), slog.String("token", p.Token), slog.String("version", p.Version))
	}
	return nil
}

func (r *Registry) removeFromToken(p Profile) {
	list := r.byToken[p.Token]
	for i, existing := range list {
		if existing.URI == p.URI {
			r.byToken[p.Token] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

func ignored(name string) bool {
	for _, pattern := range rocrate.IgnoredProfileDirectoryPatterns {
		if matched, _ := doublestar.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

// Get returns the profile with the given URI.
func (r *Registry) Get(uri string) (Profile, error) {
	p, ok := r.byURI[uri]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, uri)
	}
	return p, nil
}

// All returns every registered profile, in indeterminate order.
func (r *Registry) All() []Profile {
	out := make([]Profile, 0, len(r.byURI))
	for _, p := range r.byURI {
		out = append(out, p)
	}
	return out
}

// FindByURI returns the profile with the given URI, or ok=false.
func (r *Registry) FindByURI(uri string) (Profile, bool) {
	p, ok := r.byURI[uri]
	return p, ok
}

// versionsForToken returns the registered profiles for token, sorted
// ascending by version (unversioned last).
func (r *Registry) versionsForToken(token string) []Profile {
	return r.byToken[token]
}
