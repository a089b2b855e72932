// Package rth drives a matrix-style library-evolution compatibility test:
// a library and a consumer are each compiled under a BEFORE and an AFTER
// configuration, every retained library×consumer pair is linked, and each
// linked binary is executed. Any external command exiting non-zero aborts
// the whole run.
package rth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/compat-infra/rth/logging"
	"github.com/compat-infra/rth/metrics"
	"github.com/compat-infra/rth/registry"
	"github.com/compat-infra/rth/runner"
	"github.com/compat-infra/rth/types"
)

// Harness is the test orchestrator. One harness runs one or more matrix
// tests strictly in sequence; the first failure aborts everything.
type Harness struct {
	config  *Config
	results []*MatrixResult
}

// NewHarness creates a harness from a validated Config.
func NewHarness(config *Config) (*Harness, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if config.Log == nil {
		config.Log = log.New()
	}
	return &Harness{config: config}, nil
}

// Results returns the per-test results accumulated so far, in run order.
func (h *Harness) Results() []*MatrixResult {
	return h.results
}

// Run executes every configured matrix test. Setup and configuration
// problems surface as RuntimeErrors; a non-zero exit from any external
// invocation surfaces as a MatrixFailureError wrapping the CommandError.
func (h *Harness) Run(ctx context.Context) error {
	jobs, err := h.resolveJobs()
	if err != nil {
		return NewRuntimeError(err)
	}

	for _, job := range jobs {
		result, err := h.runMatrix(ctx, job)
		h.results = append(h.results, result)
		h.printResultsTable(result)
		fmt.Println(result.String())
		metrics.RecordMatrix(result.TestName, result.RunID, len(result.Pairs), result.Status)
		if err != nil {
			return err
		}
	}
	return nil
}

// matrixJob is one fully-resolved matrix test: a source file, the workspace
// it builds into, and its effective policy flags.
type matrixJob struct {
	source                 string
	workspace              string
	extraLibraryFlags      []string
	skipBackwardDeployment bool
}

func (j matrixJob) name() string {
	return types.DeriveBaseName(j.source)
}

// resolveJobs expands the configuration into matrix jobs. Single-test mode
// builds directly in the workspace root; manifest mode gives every test its
// own workspace subdirectory.
func (h *Harness) resolveJobs() ([]matrixJob, error) {
	cfg := h.config
	if cfg.TestSource != "" {
		return []matrixJob{{
			source:                 cfg.TestSource,
			workspace:              cfg.Workspace,
			extraLibraryFlags:      cfg.ExtraLibraryFlags,
			skipBackwardDeployment: cfg.SkipBackwardDeployment,
		}}, nil
	}

	reg, err := registry.NewRegistry(registry.Config{
		Log:          cfg.Log,
		ManifestFile: cfg.SuiteManifest,
		SuiteDir:     cfg.SuiteDir,
	})
	if err != nil {
		return nil, err
	}

	var jobs []matrixJob
	for _, test := range reg.Tests() {
		jobs = append(jobs, matrixJob{
			source:                 test.Source,
			workspace:              filepath.Join(cfg.Workspace, test.Name()),
			extraLibraryFlags:      append(append([]string{}, cfg.ExtraLibraryFlags...), test.ExtraLibraryFlags...),
			skipBackwardDeployment: cfg.SkipBackwardDeployment || test.SkipBackwardDeployment,
		})
	}
	return jobs, nil
}

// runMatrix runs the five-stage pipeline for one job. The returned result is
// always non-nil; the workspace is left intact on failure for inspection.
func (h *Harness) runMatrix(ctx context.Context, job matrixJob) (*MatrixResult, error) {
	cfg := h.config
	runID := uuid.New().String()
	pairs := types.Pairs(job.skipBackwardDeployment)
	result := newMatrixResult(runID, job.name(), pairs)

	cfg.Log.Info("Starting matrix run",
		"test", job.name(),
		"run_id", runID,
		"workspace", job.workspace,
		"pairs", len(pairs))

	var fileLogger *logging.FileLogger
	var sink runner.Sink
	if cfg.LogDir != "" {
		var err error
		if fileLogger, err = logging.NewFileLogger(cfg.LogDir, runID); err != nil {
			return result, NewRuntimeError(err)
		}
		sink = fileLogger
	}

	run := &matrixRun{
		cfg:     cfg,
		job:     job,
		invoker: runner.NewInvoker(runner.Config{Log: cfg.Log, Verbose: cfg.Verbose, Sink: sink}),
		pairs:   pairs,
		result:  result,
	}

	start := time.Now()
	err := run.run(ctx)
	result.Duration = time.Since(start)

	if fileLogger != nil {
		if logErr := fileLogger.Complete(runID, result.Status); logErr != nil {
			cfg.Log.Error("Failed to finalize run logs", "error", logErr)
		}
	}

	if err != nil {
		cfg.Log.Error("Matrix run failed", "test", job.name(), "run_id", runID, "error", err)
		if runner.IsCommandError(err) {
			return result, NewMatrixFailureError(err)
		}
		if IsRuntimeError(err) {
			return result, err
		}
		return result, NewRuntimeError(err)
	}

	cfg.Log.Info("Matrix run completed", "test", job.name(), "run_id", runID, "status", result.Status)
	return result, nil
}

// matrixRun holds the state of one in-flight pipeline.
type matrixRun struct {
	cfg     *Config
	job     matrixJob
	invoker *runner.Invoker
	pairs   []types.Pair
	result  *MatrixResult
}

// run performs the stages in strict sequence, stopping at the first error.
func (m *matrixRun) run(ctx context.Context) error {
	steps := []struct {
		stage types.Stage
		fn    func(context.Context) error
	}{
		{types.StageSetup, m.setUp},
		{types.StageCompileLibrary, m.compileLibrary},
		{types.StageCompileMain, m.compileMain},
		{types.StageLink, m.link},
		{types.StageExecute, m.execute},
	}
	for _, step := range steps {
		start := time.Now()
		err := step.fn(ctx)
		m.result.recordStage(step.stage, start, err)
		if err != nil {
			return err
		}
	}
	return nil
}

// setUp recreates the per-label subdirectories. Only before/ and after/ are
// managed; stray files elsewhere in the workspace are deliberately left
// alone.
func (m *matrixRun) setUp(_ context.Context) error {
	if err := os.MkdirAll(m.job.workspace, 0o755); err != nil {
		return NewRuntimeError(fmt.Errorf("failed to create workspace: %w", err))
	}
	for _, label := range types.Labels() {
		dir := filepath.Join(m.job.workspace, label.Dir())
		if err := os.RemoveAll(dir); err != nil {
			return NewRuntimeError(fmt.Errorf("failed to clear %s: %w", dir, err))
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return NewRuntimeError(fmt.Errorf("failed to create %s: %w", dir, err))
		}
	}
	return nil
}

// compileLibrary builds the library under each label: one invocation
// emitting the loadable library and one emitting the module interface, both
// against the same source and object path, with the label as a define.
func (m *matrixRun) compileLibrary(ctx context.Context) error {
	libSrc := types.LibrarySourcePath(m.cfg.SuiteDir, m.job.source)
	objName := types.LibraryObjectName(m.job.source)

	for _, label := range types.Labels() {
		obj := filepath.Join(m.job.workspace, label.Dir(), objName)
		for _, emit := range []string{"-emit-library", "-emit-module"} {
			command := append([]string{}, m.cfg.BuildCmd...)
			command = append(command, emit, "-enable-library-evolution", "-D", label.String(), libSrc, "-o", obj)
			command = append(command, m.job.extraLibraryFlags...)
			if err := m.invoker.Run(ctx, types.StageCompileLibrary, m.job.workspace, command); err != nil {
				return err
			}
		}
	}
	return nil
}

// compileMain builds the consumer once per label, resolving modules against
// that label's library output directory.
func (m *matrixRun) compileMain(ctx context.Context) error {
	for _, label := range types.Labels() {
		dir := filepath.Join(m.job.workspace, label.Dir())
		command := append([]string{}, m.cfg.BuildCmd...)
		command = append(command,
			"-D", label.String(),
			"-I", dir,
			"-c", m.job.source,
			"-o", filepath.Join(dir, types.MainObjectName))
		if err := m.invoker.Run(ctx, types.StageCompileMain, m.job.workspace, command); err != nil {
			return err
		}
	}
	return nil
}

// link produces one executable per retained pair at the workspace root.
func (m *matrixRun) link(ctx context.Context) error {
	objName := types.LibraryObjectName(m.job.source)
	for _, pair := range m.pairs {
		command := append([]string{}, m.cfg.BuildCmd...)
		command = append(command,
			filepath.Join(m.job.workspace, pair.Library.Dir(), objName),
			filepath.Join(m.job.workspace, pair.Consumer.Dir(), types.MainObjectName),
			"-o", filepath.Join(m.job.workspace, pair.Executable()))
		err := m.invoker.Run(ctx, types.StageLink, m.job.workspace, command)
		m.result.recordLink(pair, err)
		if err != nil {
			return err
		}
	}
	return nil
}

// execute runs every linked pair with the run prefix, over the exact same
// pair slice the link phase used.
func (m *matrixRun) execute(ctx context.Context) error {
	for _, pair := range m.pairs {
		command := append([]string{}, m.cfg.RunCmd...)
		command = append(command, filepath.Join(m.job.workspace, pair.Executable()))
		err := m.invoker.Run(ctx, types.StageExecute, m.job.workspace, command)
		m.result.recordExecute(pair, err)
		if err != nil {
			return err
		}
	}
	return nil
}

// printResultsTable prints one run's stage and pair outcomes to the console.
func (h *Harness) printResultsTable(result *MatrixResult) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(fmt.Sprintf("Resilience Matrix Results: %s (%s)", result.TestName, formatDuration(result.Duration)))

	t.AppendHeader(table.Row{
		"Type", "ID", "Duration", "Linked", "Executed", "Status",
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "ID", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Linked", Align: text.AlignCenter},
		{Name: "Executed", Align: text.AlignCenter},
	})

	for _, stage := range result.Stages {
		t.AppendRow(table.Row{
			"Stage",
			stage.Stage.String(),
			formatDuration(stage.Duration),
			"-",
			"-",
			getResultString(stage.Status),
		})
	}
	t.AppendSeparator()
	for n, pair := range result.Pairs {
		prefix := "├──"
		if n == len(result.Pairs)-1 {
			prefix = "└──"
		}
		t.AppendRow(table.Row{
			"Pair",
			fmt.Sprintf("%s %s", prefix, pair.Pair),
			"-",
			boolToMark(pair.Linked),
			boolToMark(pair.Executed),
			getResultString(pair.Status),
		})
	}

	t.Render()
}
