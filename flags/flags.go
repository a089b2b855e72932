package flags

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

const EnvVarPrefix = "RTH"

func prefixEnvVars(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

var (
	TargetBuildSwift = &cli.StringFlag{
		Name:     "target-build-swift",
		Value:    "",
		Required: true,
		EnvVars:  prefixEnvVars("TARGET_BUILD_SWIFT"),
		Usage:    "Shell-tokenized command prefix used for every compile and link invocation",
	}
	TargetRun = &cli.StringFlag{
		Name:     "target-run",
		Value:    "",
		Required: true,
		EnvVars:  prefixEnvVars("TARGET_RUN"),
		Usage:    "Shell-tokenized command prefix used to execute each linked artifact",
	}
	Workspace = &cli.StringFlag{
		Name:     "t",
		Value:    "",
		Required: true,
		EnvVars:  prefixEnvVars("WORKSPACE"),
		Usage:    "Workspace root directory, recreated at the start of every run",
	}
	SuiteDir = &cli.StringFlag{
		Name:     "S",
		Value:    "",
		Required: true,
		EnvVars:  prefixEnvVars("SUITE_DIR"),
		Usage:    "Test-suite root directory; library sources are resolved under its Inputs/ folder",
	}
	TestSource = &cli.StringFlag{
		Name:    "s",
		Value:   "",
		EnvVars: prefixEnvVars("TEST_SOURCE"),
		Usage:   "Path to the consumer/test source file (eg. 'test_fixed_layout.swift')",
	}
	AdditionalCompileFlagsLibrary = &cli.StringFlag{
		Name:    "additional-compile-flags-library",
		Value:   "",
		EnvVars: prefixEnvVars("ADDITIONAL_COMPILE_FLAGS_LIBRARY"),
		Usage:   "Extra shell-tokenized flags appended only to library-compile invocations",
	}
	NoBackwardDeployment = &cli.BoolFlag{
		Name:    "no-backward-deployment",
		Value:   false,
		EnvVars: prefixEnvVars("NO_BACKWARD_DEPLOYMENT"),
		Usage:   "Skip linking and executing the old-library/new-consumer pair",
	}
	Verbose = &cli.BoolFlag{
		Name:    "verbose",
		Value:   true,
		EnvVars: prefixEnvVars("VERBOSE"),
		Usage:   "Echo every external command line before running it",
	}
	LogDir = &cli.StringFlag{
		Name:    "log-dir",
		Value:   "",
		EnvVars: prefixEnvVars("LOG_DIR"),
		Usage:   "Directory to store per-invocation logs (disabled when empty)",
	}
	LogLevel = &cli.StringFlag{
		Name:    "log.level",
		Value:   "info",
		EnvVars: prefixEnvVars("LOG_LEVEL"),
		Usage:   "The lowest log level that will be output",
	}
	SuiteManifest = &cli.StringFlag{
		Name:    "suite-manifest",
		Value:   "",
		EnvVars: prefixEnvVars("SUITE_MANIFEST"),
		Usage:   "Path to a YAML manifest listing several matrix tests (eg. 'suite.yaml'); mutually exclusive with -s",
	}
)

var requiredFlags = []cli.Flag{
	TargetBuildSwift,
	TargetRun,
	Workspace,
	SuiteDir,
}

var optionalFlags = []cli.Flag{
	TestSource,
	AdditionalCompileFlagsLibrary,
	NoBackwardDeployment,
	Verbose,
	LogDir,
	LogLevel,
	SuiteManifest,
}

var Flags []cli.Flag

func init() {
	Flags = append(requiredFlags, optionalFlags...)
}

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}
