package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rocrate-validator/rocval/config"
	"github.com/rocrate-validator/rocval/engine"
	"github.com/rocrate-validator/rocval/executor"
	"github.com/rocrate-validator/rocval/model"
	"github.com/rocrate-validator/rocval/profile"
	"github.com/rocrate-validator/rocval/subscriber"
)

// NewValidateCommand builds the "validate" subcommand: the thin CLI
// consumer of engine.Validate the engine package itself deliberately
// excludes.
func NewValidateCommand() *cobra.Command {
	var (
		configPath          string
		profileID           string
		severity            string
		interactive         bool
		inherit             string
		allowWarnings       bool
		allowInfos          bool
		profilesPath        []string
		builtinDir          string
		httpCacheDir        string
		outputFormat        string
		serializationPath   string
		serializationFormat string
	)

	cmd := &cobra.Command{
		Use:   "validate <rocrate-uri>",
		Short: "Validate an RO-Crate against a conformance profile",
		Long: `Validate loads an RO-Crate (a local directory, a local or remote zip,
or an http(s) URL), selects a conformance profile from its conformsTo
declarations (or the --profile override), runs the profile's checks,
and reports the resulting issues.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := cmd.Flags().Changed
			opts := validateOptions{
				rocrateURI:          args[0],
				configPath:          configPath,
				profileID:           profileID,
				severity:            severity,
				interactive:         interactive,
				interactiveSet:      changed("interactive"),
				inherit:             inherit,
				allowWarnings:       allowWarnings,
				allowWarningsSet:    changed("allow-warnings"),
				allowInfos:          allowInfos,
				allowInfosSet:       changed("allow-infos"),
				profilesPath:        profilesPath,
				builtinDir:          builtinDir,
				httpCacheDir:        httpCacheDir,
				outputFormat:        outputFormat,
				serializationPath:   serializationPath,
				serializationFormat: serializationFormat,
			}
			return runValidate(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "settings file to load on top of the layered defaults")
	cmd.Flags().StringVar(&profileID, "profile", "", "force a specific profile URI or token, overriding conformsTo detection")
	cmd.Flags().StringVar(&severity, "requirement-severity", "", "minimum severity to execute (OPTIONAL, RECOMMENDED, REQUIRED)")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "permit interactive profile selection when conformsTo matches nothing")
	cmd.Flags().StringVar(&inherit, "inherit-profiles", "", "include a profile's parent requirements (true/false, default true)")
	cmd.Flags().BoolVar(&allowWarnings, "allow-warnings", false, "collect RECOMMENDED issues without affecting validity")
	cmd.Flags().BoolVar(&allowInfos, "allow-infos", false, "collect OPTIONAL issues without affecting validity")
	cmd.Flags().StringSliceVar(&profilesPath, "profiles-path", nil, "extra profile directories, stacked over the built-in directory")
	cmd.Flags().StringVar(&builtinDir, "builtin-profiles-dir", "", "override the built-in profiles directory")
	cmd.Flags().StringVar(&httpCacheDir, "http-cache-dir", "", "override the remote-crate download cache directory")
	cmd.Flags().StringVar(&outputFormat, "format", "text", "result output format (text, json)")
	cmd.Flags().StringVar(&serializationPath, "export", "", "write the crate's resolved metadata graph to this path")
	cmd.Flags().StringVar(&serializationFormat, "export-format", "turtle", "metadata graph export format (turtle, ntriples, jsonld)")

	return cmd
}

type validateOptions struct {
	rocrateURI          string
	configPath          string
	profileID           string
	severity            string
	interactive         bool
	interactiveSet      bool
	inherit             string
	allowWarnings       bool
	allowWarningsSet    bool
	allowInfos          bool
	allowInfosSet       bool
	profilesPath        []string
	builtinDir          string
	httpCacheDir        string
	outputFormat        string
	serializationPath   string
	serializationFormat string
}

func runValidate(ctx context.Context, opts validateOptions) error {
	logger := slog.Default()

	settings, err := config.NewLoader(logger).Load()
	if err != nil {
		return &ExitCodeError{Code: 2, Err: fmt.Errorf("load settings: %w", err)}
	}
	if opts.configPath != "" {
		fileSettings, err := config.LoadFromFile(opts.configPath)
		if err != nil {
			return &ExitCodeError{Code: 2, Err: fmt.Errorf("load %s: %w", opts.configPath, err)}
		}
		settings.Merge(fileSettings)
	}

	settings.RocrateURI = opts.rocrateURI
	if opts.profileID != "" {
		settings.ProfileIdentifier = opts.profileID
	}
	if opts.severity != "" {
		settings.RequirementSeverity = opts.severity
	}
	if opts.interactiveSet {
		settings.Interactive = opts.interactive
	}
	if opts.inherit != "" {
		v := strings.EqualFold(opts.inherit, "true")
		settings.InheritProfiles = &v
	}
	if opts.allowWarningsSet {
		settings.AllowWarnings = opts.allowWarnings
	}
	if opts.allowInfosSet {
		settings.AllowInfos = opts.allowInfos
	}
	if len(opts.profilesPath) > 0 {
		settings.ProfilesPath = opts.profilesPath
	}
	if opts.builtinDir != "" {
		settings.BuiltinProfilesDir = opts.builtinDir
	}
	if opts.httpCacheDir != "" {
		settings.HTTPCacheDir = opts.httpCacheDir
	}
	settings.SerializationOutputPath = opts.serializationPath
	if opts.serializationPath != "" {
		settings.SerializationOutputFormat = opts.serializationFormat
	}

	registry, err := profile.Load(settings.BuiltinProfilesDir, settings.ProfilesPath, logger)
	if err != nil {
		return &ExitCodeError{Code: 2, Err: fmt.Errorf("load profiles: %w", err)}
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cancel := &executor.CancellationToken{}
	go func() {
		<-runCtx.Done()
		cancel.Cancel()
	}()

	subs := []executor.Subscriber{subscriber.NewLoggingSubscriber(logger)}
	runOpts := engine.Options{
		Registry:    registry,
		Subscribers: subs,
		Cancel:      cancel,
		Logger:      logger,
	}

	result, err := engine.Validate(runCtx, settings, runOpts)
	if err != nil {
		var interactiveErr *engine.ErrInteractiveSelectionRequired
		if errors.As(err, &interactiveErr) {
			chosen, promptErr := promptForProfile(interactiveErr.Candidates)
			if promptErr != nil {
				return &ExitCodeError{Code: 2, Err: promptErr}
			}
			settings.ProfileIdentifier = chosen
			result, err = engine.Validate(runCtx, settings, runOpts)
		}
	}
	if err != nil {
		return &ExitCodeError{Code: 2, Err: err}
	}

	if err := printResult(result, opts.outputFormat); err != nil {
		return &ExitCodeError{Code: 2, Err: err}
	}

	if result.Cancelled {
		return &ExitCodeError{Code: 2, Err: errors.New("validation cancelled before completion")}
	}
	if !result.Valid() {
		return &ExitCodeError{Code: 1}
	}
	return nil
}

// promptForProfile implements the interactive profile chooser at the
// CLI layer: print the candidates and read a choice from stdin.
func promptForProfile(candidates []profile.Profile) (string, error) {
	if len(candidates) == 0 {
		return "", errors.New("no candidate profiles to choose from")
	}
	fmt.Fprintln(os.Stderr, "Multiple profiles match this crate; choose one:")
	for i, p := range candidates {
		fmt.Fprintf(os.Stderr, "  [%d] %s (%s)\n", i+1, p.Name, p.URI)
	}
	fmt.Fprint(os.Stderr, "Enter number: ")

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return "", errors.New("no selection provided")
	}
	choice, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil || choice < 1 || choice > len(candidates) {
		return "", fmt.Errorf("invalid selection %q", scanner.Text())
	}
	return candidates[choice-1].URI, nil
}

type issueView struct {
	CheckID       string `json:"check_id"`
	RequirementID string `json:"requirement_id"`
	ProfileURI    string `json:"profile_uri"`
	Severity      string `json:"severity"`
	Message       string `json:"message"`
	FocusNode     string `json:"focus_node,omitempty"`
	Path          string `json:"path,omitempty"`
}

type resultView struct {
	RunID     string      `json:"run_id"`
	Valid     bool        `json:"valid"`
	Profiles  []string    `json:"profiles"`
	Threshold string      `json:"threshold"`
	Issues    []issueView `json:"issues"`
	Cancelled bool        `json:"cancelled"`
}

func printResult(result *model.ValidationResult, format string) error {
	switch format {
	case "json":
		return printResultJSON(result)
	case "", "text":
		printResultText(result)
		return nil
	default:
		return fmt.Errorf("unsupported --format %q", format)
	}
}

func printResultJSON(result *model.ValidationResult) error {
	view := resultView{
		RunID:     result.RunID.String(),
		Valid:     result.Valid(),
		Profiles:  result.Profiles,
		Threshold: result.Threshold.String(),
		Cancelled: result.Cancelled,
	}
	for _, issue := range result.Issues {
		view.Issues = append(view.Issues, issueView{
			CheckID:       issue.CheckID,
			RequirementID: issue.RequirementID,
			ProfileURI:    issue.ProfileURI,
			Severity:      issue.Severity.String(),
			Message:       issue.Message,
			FocusNode:     issue.FocusNode,
			Path:          issue.Path,
		})
	}
	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func printResultText(result *model.ValidationResult) {
	fmt.Printf("Profile(s): %s\n", strings.Join(result.Profiles, ", "))
	fmt.Printf("Threshold: %s\n", result.Threshold)
	if result.Valid() {
		fmt.Println("Result: VALID")
	} else {
		fmt.Println("Result: INVALID")
	}
	for _, w := range result.Warnings {
		fmt.Printf("Warning: %s\n", w.Reason)
	}
	if len(result.Issues) == 0 {
		fmt.Println("No issues found.")
		return
	}
	fmt.Printf("Issues (%d):\n", len(result.Issues))
	for _, issue := range result.Issues {
		location := issue.FocusNode
		if issue.Path != "" {
			location += " " + issue.Path
		}
		fmt.Printf("  [%s] %s %s: %s\n", issue.Severity, issue.CheckID, location, issue.Message)
	}
}
