// Package engine wires the Crate Loader, Profile Registry, Inheritance
// Resolver, and Check Executor into the single Validate entry point the
// CLI/API layer calls: build a Settings value, hand it to Validate, get
// back a ValidationResult (or an error the earlier stages raised).
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocrate-validator/rocval/config"
	"github.com/rocrate-validator/rocval/crate"
	"github.com/rocrate-validator/rocval/executor"
	"github.com/rocrate-validator/rocval/export"
	"github.com/rocrate-validator/rocval/model"
	"github.com/rocrate-validator/rocval/profile"
	"github.com/rocrate-validator/rocval/shacl"
)

// ErrInteractiveSelectionRequired is returned when settings.Interactive
// is true and the Profile Selector found no exact/downgrade match: the
// caller must present Candidates to the user, set
// Settings.ProfileIdentifier to the chosen profile's URI, and call
// Validate again.
type ErrInteractiveSelectionRequired struct {
	Candidates []profile.Profile
}

func (e *ErrInteractiveSelectionRequired) Error() string {
	return fmt.Sprintf("engine: interactive profile selection required (%d candidates)", len(e.Candidates))
}

// Options supplies the dependencies Validate needs beyond Settings
// itself: the Registry to select and resolve profiles against, the
// SHACL engine backing shape-based checks, event subscribers, and a
// logger. Registry is required; the rest have teacher-style defaults.
type Options struct {
	Registry    *profile.Registry
	ShapeEngine shacl.Engine
	Subscribers []executor.Subscriber
	Cancel      *executor.CancellationToken
	Logger      *slog.Logger
}

// Validate drives Loader -> Selector -> Resolver -> Executor -> Result
// for one crate against settings.
func Validate(ctx context.Context, settings *config.Settings, opts Options) (*model.ValidationResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Registry == nil {
		return nil, errors.New("engine: Options.Registry is required")
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("engine: invalid settings: %w", err)
	}

	threshold, err := settings.Severity()
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	c, err := crate.Load(ctx, settings.RocrateURI, crate.Options{CacheDir: settings.HTTPCacheDir})
	if err != nil {
		return nil, fmt.Errorf("engine: load crate: %w", err)
	}

	mode := profile.NonInteractive
	if settings.Interactive {
		mode = profile.Interactive
	}

	selection, err := opts.Registry.Select(c.RootDataEntityConformsTo(), settings.ProfileIdentifier, mode)
	if err != nil {
		return nil, fmt.Errorf("engine: select profile: %w", err)
	}
	if len(selection.Profiles) == 0 && len(selection.Candidates) > 0 {
		return nil, &ErrInteractiveSelectionRequired{Candidates: selection.Candidates}
	}
	if len(selection.Profiles) == 0 {
		return nil, errors.New("engine: no profile selected and no base profile registered")
	}

	resolved := make([]executor.ResolvedProfile, 0, len(selection.Profiles))
	profileURIs := make([]string, 0, len(selection.Profiles))
	for _, p := range selection.Profiles {
		reqs := p.Requirements
		if settings.InheritsProfiles() {
			reqs, err = opts.Registry.Resolve(p)
			if err != nil {
				return nil, fmt.Errorf("engine: resolve profile %s: %w", p.URI, err)
			}
		}
		resolved = append(resolved, executor.ResolvedProfile{URI: p.URI, Requirements: reqs})
		profileURIs = append(profileURIs, p.URI)
	}

	pub := executor.NewPublisher(opts.Subscribers...)
	for _, w := range selection.Warnings {
		if w.Fallback {
			pub.Notify(model.Event{
				Type:      model.ProfileFallback,
				Timestamp: timeNow(),
				Message:   w.Reason,
			})
		}
	}

	engine := opts.ShapeEngine
	if engine == nil {
		engine = shacl.NewLocalEngine()
	}

	execThreshold := threshold
	if settings.AllowWarnings && execThreshold > model.Recommended {
		execThreshold = model.Recommended
	}
	if settings.AllowInfos && execThreshold > model.Optional {
		execThreshold = model.Optional
	}

	exec := executor.New(engine)
	result := exec.Run(ctx, c, resolved, executor.Options{
		Threshold:    execThreshold,
		AbortOnFirst: settings.AbortOnFirst,
		Publisher:    pub,
		Cancel:       opts.Cancel,
	})

	result.Threshold = threshold
	result.Warnings = selection.Warnings

	if settings.SerializationOutputPath != "" {
		format, err := export.ParseFormat(settings.SerializationOutputFormat)
		if err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
		if err := export.WriteToFile(c.MetadataGraph(), c.URI(), format, settings.SerializationOutputPath); err != nil {
			return nil, fmt.Errorf("engine: export metadata graph: %w", err)
		}
	}

	logger.Debug("validation complete",
		slog.String("run_id", result.RunID.String()),
		slog.Any("profiles", profileURIs),
		slog.Int("issues", len(result.Issues)),
		slog.Bool("valid", result.Valid()),
	)

	return result, nil
}

var timeNow = time.Now
