package commands

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rocrate-validator/rocval/config"
	"github.com/rocrate-validator/rocval/profile"
)

// NewProfilesCommand builds the "profiles" command group for
// inspecting and reloading the profile registry outside a validation
// run.
func NewProfilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Inspect the conformance profile registry",
	}
	cmd.AddCommand(newProfilesListCommand())
	cmd.AddCommand(newProfilesWatchCommand())
	return cmd
}

func registryFlags(cmd *cobra.Command, profilesPath *[]string, builtinDir *string) {
	cmd.Flags().StringSliceVar(profilesPath, "profiles-path", nil, "extra profile directories, stacked over the built-in directory")
	cmd.Flags().StringVar(builtinDir, "builtin-profiles-dir", "", "override the built-in profiles directory")
}

func loadRegistry(profilesPath []string, builtinDir string, logger *slog.Logger) (*profile.Registry, error) {
	settings := config.DefaultSettings()
	if len(profilesPath) > 0 {
		settings.ProfilesPath = profilesPath
	}
	if builtinDir != "" {
		settings.BuiltinProfilesDir = builtinDir
	}
	return profile.Load(settings.BuiltinProfilesDir, settings.ProfilesPath, logger)
}

func newProfilesListCommand() *cobra.Command {
	var (
		profilesPath []string
		builtinDir   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every profile the registry loaded",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadRegistry(profilesPath, builtinDir, slog.Default())
			if err != nil {
				return &ExitCodeError{Code: 2, Err: fmt.Errorf("load profiles: %w", err)}
			}

			profiles := registry.All()
			if len(profiles) == 0 {
				fmt.Println("No profiles registered.")
				return nil
			}
			for _, p := range profiles {
				version := p.Version
				if version == "" {
					version = "-"
				}
				fmt.Printf("%-50s %-25s %-8s %s\n", p.URI, p.Token, version, p.Name)
			}
			return nil
		},
	}
	registryFlags(cmd, &profilesPath, &builtinDir)
	return cmd
}

func newProfilesWatchCommand() *cobra.Command {
	var (
		profilesPath []string
		builtinDir   string
	)

	cmd := &cobra.Command{
		Use:   "watch <extension-dir>",
		Short: "Reload the registry whenever an extension profiles directory changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			logger := slog.Default()

			reload := func() {
				registry, err := loadRegistry(append(append([]string{}, profilesPath...), dir), builtinDir, logger)
				if err != nil {
					logger.Warn("reload failed", slog.String("error", err.Error()))
					return
				}
				fmt.Printf("reloaded: %d profiles registered\n", len(registry.All()))
			}
			reload()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			stopCh := make(chan struct{})
			go func() {
				<-ctx.Done()
				close(stopCh)
			}()

			if err := profile.Watch(dir, reload, stopCh, logger); err != nil {
				return &ExitCodeError{Code: 2, Err: fmt.Errorf("watch %s: %w", dir, err)}
			}
			return nil
		},
	}
	registryFlags(cmd, &profilesPath, &builtinDir)
	return cmd
}
