package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/shadergen/internal/codegen"
	"github.com/roach88/shadergen/internal/config"
	"github.com/roach88/shadergen/internal/include"
	"github.com/roach88/shadergen/internal/watch"
)

// ErrCodeStale is reported by build --check when outputs are out of date.
const ErrCodeStale = "E030"

// Job statuses in a build report.
const (
	JobWritten   = "written"
	JobUnchanged = "unchanged"
	JobStale     = "stale"
	JobFailed    = "failed"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	Check    bool
	Watch    bool
	Debounce time.Duration
}

// JobResult is the outcome of one build target.
type JobResult struct {
	Name       string    `json:"name"`
	Output     string    `json:"output"`
	Status     string    `json:"status"`
	SourceHash string    `json:"source_hash,omitempty"`
	Includes   []string  `json:"includes,omitempty"`
	Error      *CLIError `json:"error,omitempty"`

	// inputs are the files whose changes affect this job.
	inputs []string
}

// BuildReport summarizes a build run.
type BuildReport struct {
	Config    string      `json:"config"`
	Jobs      []JobResult `json:"jobs"`
	Written   int         `json:"written"`
	Unchanged int         `json:"unchanged"`
	Stale     int         `json:"stale"`
	Failed    int         `json:"failed"`
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build [config]",
		Short: "Generate every shader class listed in a project file",
		Long: `Generate every shader class listed in a project file.

Without an argument the current directory is searched for shadergen.yaml,
shadergen.yml, shadergen.toml or shadergen.cue. Outputs whose content would
not change are left untouched.

Example:
  shadergen build
  shadergen build --check shadergen.toml
  shadergen build --watch`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Check, "check", false, "fail if any output is out of date instead of writing")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "rebuild when shaders, includes or the config change")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", watch.DefaultDebounce, "quiet period before a watch rebuild")
	cmd.MarkFlagsMutuallyExclusive("check", "watch")

	return cmd
}

func runBuild(opts *BuildOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	path, err := configPath(args)
	if err != nil {
		return outputCommandError(formatter, err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		var valErrs validationErrors
		if errors.As(err, &valErrs) {
			return outputValidationErrors(formatter, valErrs)
		}
		return outputCommandError(formatter, err)
	}
	formatter.VerboseLog("Loaded %s", cfg.Path)
	slog.Debug("config loaded", "path", cfg.Path, "jobs", len(cfg.Jobs), "discover", len(cfg.Discover))

	report, err := buildAll(cfg, opts.Check, nil)
	if err != nil {
		return outputCommandError(formatter, err)
	}

	if opts.Watch {
		_ = outputBuildReport(formatter, report)
		return runWatch(opts, cmd, formatter, slog.Default(), cfg, report)
	}

	return outputBuildReport(formatter, report)
}

func configPath(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return config.Find(wd)
}

// validationErrors carries every problem Validate found.
type validationErrors []config.ValidationError

func (v validationErrors) Error() string {
	return fmt.Sprintf("config has %d error(s)", len(v))
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, validationErrors(errs)
	}
	return cfg, nil
}

// buildAll runs every target. Per-job failures are recorded in the report;
// the returned error is reserved for targets that cannot be expanded at all.
//
// A failed job keeps the inputs it had in prev, so includes that broke the
// build stay watched until they are fixed.
func buildAll(cfg *config.Config, check bool, prev *BuildReport) (*BuildReport, error) {
	targets, err := cfg.Targets()
	if err != nil {
		return nil, err
	}

	report := &BuildReport{Config: cfg.Path, Jobs: make([]JobResult, 0, len(targets))}
	for _, t := range targets {
		res := buildTarget(t, check)
		if res.Status == JobFailed {
			res.inputs = append(res.inputs, prev.inputsOf(res.Name)...)
			slices.Sort(res.inputs)
			res.inputs = slices.Compact(res.inputs)
		}
		slog.Debug("job built", "job", res.Name, "status", res.Status, "output", res.Output)
		switch res.Status {
		case JobWritten:
			report.Written++
		case JobUnchanged:
			report.Unchanged++
		case JobStale:
			report.Stale++
		case JobFailed:
			report.Failed++
		}
		report.Jobs = append(report.Jobs, res)
	}
	return report, nil
}

func buildTarget(t config.Target, check bool) JobResult {
	res := JobResult{
		Name:   t.Name,
		Output: t.Output,
		inputs: []string{t.Vertex, t.Fragment},
	}

	out, err := codegen.GenerateFiles(t.Vertex, t.Fragment, t.Options)
	if err != nil {
		res.Status = JobFailed
		res.Error = &CLIError{Code: ErrorCode(err), Message: err.Error(), Details: errorDetails(err)}
		res.inputs = append(res.inputs, missingIncludes(err)...)
		return res
	}
	res.SourceHash = out.SourceHash
	res.Includes = out.Includes
	res.inputs = append(res.inputs, out.Includes...)

	existing, err := os.ReadFile(t.Output)
	switch {
	case err == nil && bytes.Equal(existing, []byte(out.Source)):
		res.Status = JobUnchanged
	case check:
		res.Status = JobStale
	default:
		if err := writeOutput(t.Output, out.Source); err != nil {
			res.Status = JobFailed
			res.Error = &CLIError{Code: ErrCodeWriteFailed, Message: err.Error()}
			return res
		}
		res.Status = JobWritten
	}
	return res
}

// inputsOf returns the inputs recorded for the named job, if any.
func (r *BuildReport) inputsOf(name string) []string {
	if r == nil {
		return nil
	}
	for _, job := range r.Jobs {
		if job.Name == name {
			return job.inputs
		}
	}
	return nil
}

// missingIncludes returns the candidate paths of an include that was not
// found, limited to those whose directory exists and can be watched.
func missingIncludes(err error) []string {
	var notFound *include.NotFoundError
	if !errors.As(err, &notFound) {
		return nil
	}
	var paths []string
	for _, candidate := range notFound.Searched {
		if info, statErr := os.Stat(filepath.Dir(candidate)); statErr == nil && info.IsDir() {
			paths = append(paths, candidate)
		}
	}
	return paths
}

// watchedFiles lists the config file and every input of the last build.
func watchedFiles(cfg *config.Config, report *BuildReport) []string {
	files := []string{cfg.Path}
	for _, job := range report.Jobs {
		files = append(files, job.inputs...)
	}
	slices.Sort(files)
	return slices.Compact(files)
}

func runWatch(opts *BuildOptions, cmd *cobra.Command, formatter *OutputFormatter, logger *slog.Logger, cfg *config.Config, report *BuildReport) error {
	w, err := watch.New(opts.Debounce, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to start watcher", err)
	}
	defer func() {
		if closeErr := w.Close(); closeErr != nil {
			logger.Error("error closing watcher", "error", closeErr)
		}
	}()

	if err := w.SetFiles(watchedFiles(cfg, report)); err != nil {
		return WrapExitError(ExitCommandError, "failed to watch inputs", err)
	}

	// Setup signal handling for graceful shutdown
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
			// Parent context cancelled (e.g., from test)
		}
	}()

	runErr := make(chan error, 1)
	go func() {
		runErr <- w.Run(ctx)
	}()

	logger.Info("watching for changes", "config", cfg.Path, "files", len(w.Files()))

	for ev := range w.Events() {
		logger.Info("change detected", "files", ev.Paths)

		if slices.Contains(ev.Paths, cfg.Path) {
			next, err := loadConfig(cfg.Path)
			if err != nil {
				logger.Error("config reload failed, keeping previous config", "error", err)
			} else {
				cfg = next
				logger.Info("config reloaded", "path", cfg.Path)
			}
		}

		next, err := buildAll(cfg, false, report)
		if err != nil {
			logger.Error("build failed", "error", err)
			continue
		}
		report = next
		_ = outputBuildReport(formatter, report)

		if err := w.SetFiles(watchedFiles(cfg, report)); err != nil {
			logger.Error("failed to update watched files", "error", err)
		}
	}

	if err := <-runErr; err != nil && !errors.Is(err, context.Canceled) {
		return WrapExitError(ExitFailure, "watch error", err)
	}

	logger.Info("watch stopped")
	return nil
}

// outputBuildReport prints the report and returns an ExitError when jobs
// failed or, in check mode, outputs are stale.
func outputBuildReport(formatter *OutputFormatter, report *BuildReport) error {
	var exitErr *ExitError
	var firstErr *CLIError
	switch {
	case report.Failed > 0:
		exitErr = NewExitError(ExitFailure, fmt.Sprintf("%d job(s) failed", report.Failed))
		for _, job := range report.Jobs {
			if job.Error != nil {
				firstErr = job.Error
				break
			}
		}
	case report.Stale > 0:
		exitErr = NewExitError(ExitFailure, fmt.Sprintf("%d output(s) out of date", report.Stale))
		firstErr = &CLIError{Code: ErrCodeStale, Message: exitErr.Message}
	}

	if formatter.Format == "json" {
		if firstErr == nil {
			if err := formatter.Success(report); err != nil {
				return err
			}
			return nil
		}
		if err := formatter.encode(CLIResponse{
			Status:  "error",
			Error:   firstErr,
			Data:    report, // Include all job results in data
			TraceID: formatter.TraceID,
		}); err != nil {
			return err
		}
		return exitErr
	}

	for _, job := range report.Jobs {
		switch job.Status {
		case JobWritten:
			fmt.Fprintf(formatter.Writer, "✓ %s → %s\n", job.Name, job.Output)
		case JobUnchanged:
			formatter.VerboseLog("= %s (unchanged)", job.Name)
		case JobStale:
			fmt.Fprintf(formatter.Writer, "✗ %s: %s is out of date\n", job.Name, job.Output)
		case JobFailed:
			fmt.Fprintf(formatter.Writer, "✗ %s: [%s] %s\n", job.Name, job.Error.Code, job.Error.Message)
		}
	}
	fmt.Fprintf(formatter.Writer, "Built %d job(s): %d written, %d unchanged, %d stale, %d failed\n",
		len(report.Jobs), report.Written, report.Unchanged, report.Stale, report.Failed)

	if exitErr != nil {
		return exitErr
	}
	return nil
}

// outputValidationErrors outputs every config validation error.
func outputValidationErrors(formatter *OutputFormatter, errs validationErrors) error {
	exitErr := NewExitError(ExitCommandError, fmt.Sprintf("config validation failed with %d error(s)", len(errs)))

	if formatter.Format == "json" {
		if err := formatter.encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    ErrCodeConfigInvalid,
				Message: exitErr.Message,
				Details: []config.ValidationError(errs),
			},
			TraceID: formatter.TraceID,
		}); err != nil {
			return err
		}
		return exitErr
	}

	fmt.Fprintln(formatter.Writer, "✗ Config validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, e := range errs {
		fmt.Fprintf(formatter.Writer, "  %s\n", e.Error())
	}

	return exitErr
}
