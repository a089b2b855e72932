package rth

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/shlex"
	"github.com/urfave/cli/v2"

	"github.com/compat-infra/rth/flags"
	"github.com/compat-infra/rth/types"
)

// Config holds the application configuration
type Config struct {
	BuildCmd               []string   // Command prefix for every compile and link invocation
	RunCmd                 []string   // Command prefix for executing linked artifacts
	Workspace              string     // Workspace root, recreated each run
	SuiteDir               string     // Test-suite root; library sources under Inputs/
	TestSource             string     // Consumer/test source (single-test mode)
	SuiteManifest          string     // YAML manifest path (suite mode)
	ExtraLibraryFlags      []string   // Extra flags for library compiles only
	SkipBackwardDeployment bool       // Omit the BEFORE-library/AFTER-consumer pair
	Verbose                bool       // Echo command lines before running them
	LogDir                 string     // Per-invocation log directory; empty disables
	Log                    log.Logger
}

// NewConfig creates a new Config from cli context
func NewConfig(ctx *cli.Context, log log.Logger) (*Config, error) {
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, fmt.Errorf("missing required flags: %w", err)
	}

	buildCmd, err := tokenize(ctx.String(flags.TargetBuildSwift.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize --%s: %w", flags.TargetBuildSwift.Name, err)
	}
	if len(buildCmd) == 0 {
		return nil, errors.New("build command prefix is empty")
	}
	runCmd, err := tokenize(ctx.String(flags.TargetRun.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize --%s: %w", flags.TargetRun.Name, err)
	}
	if len(runCmd) == 0 {
		return nil, errors.New("run command prefix is empty")
	}
	extraLibFlags, err := tokenize(ctx.String(flags.AdditionalCompileFlagsLibrary.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize --%s: %w", flags.AdditionalCompileFlagsLibrary.Name, err)
	}

	workspace, err := filepath.Abs(ctx.String(flags.Workspace.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for workspace '%s': %w", ctx.String(flags.Workspace.Name), err)
	}
	suiteDir, err := filepath.Abs(ctx.String(flags.SuiteDir.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for suite directory '%s': %w", ctx.String(flags.SuiteDir.Name), err)
	}

	testSource := ctx.String(flags.TestSource.Name)
	suiteManifest := ctx.String(flags.SuiteManifest.Name)
	switch {
	case testSource == "" && suiteManifest == "":
		return nil, errors.New("either a test source (-s) or a suite manifest (--suite-manifest) is required")
	case testSource != "" && suiteManifest != "":
		return nil, errors.New("-s and --suite-manifest are mutually exclusive")
	case testSource != "":
		if err := types.ValidateTestSource(testSource); err != nil {
			return nil, err
		}
		if testSource, err = filepath.Abs(testSource); err != nil {
			return nil, fmt.Errorf("failed to resolve absolute path for test source '%s': %w", ctx.String(flags.TestSource.Name), err)
		}
	default:
		if suiteManifest, err = filepath.Abs(suiteManifest); err != nil {
			return nil, fmt.Errorf("failed to resolve absolute path for suite manifest '%s': %w", ctx.String(flags.SuiteManifest.Name), err)
		}
	}

	logDir := ctx.String(flags.LogDir.Name)
	if logDir != "" {
		if logDir, err = filepath.Abs(logDir); err != nil {
			return nil, fmt.Errorf("failed to resolve absolute path for log directory '%s': %w", ctx.String(flags.LogDir.Name), err)
		}
	}

	return &Config{
		BuildCmd:               buildCmd,
		RunCmd:                 runCmd,
		Workspace:              workspace,
		SuiteDir:               suiteDir,
		TestSource:             testSource,
		SuiteManifest:          suiteManifest,
		ExtraLibraryFlags:      extraLibFlags,
		SkipBackwardDeployment: ctx.Bool(flags.NoBackwardDeployment.Name),
		Verbose:                ctx.Bool(flags.Verbose.Name),
		LogDir:                 logDir,
		Log:                    log,
	}, nil
}

// tokenize splits a shell-style flag string into argv form. Empty input
// yields a nil slice.
func tokenize(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	return shlex.Split(s)
}
