package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/honeycombio/otel-config-go/otelconfig"
	"github.com/urfave/cli/v2"

	rth "github.com/compat-infra/rth"
	"github.com/compat-infra/rth/exitcodes"
	"github.com/compat-infra/rth/flags"
	"github.com/compat-infra/rth/service"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "rth"
	app.Usage = "Resilience Test Harness"
	app.Description = "rth verifies binary compatibility across a library-evolution boundary by building a BEFORE/AFTER library and consumer, linking every retained pair, and running each result"
	app.Flags = flags.Flags
	app.Action = run
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			// Use the exit code from the ExitCoder
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			// Check for typed runtime errors
			if rth.IsRuntimeError(err) {
				// For runtime errors, use exit code 2
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.RuntimeErr))
			} else {
				// Failed invocations and any unspecified errors use exit code 1
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.MatrixFailure))
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start telemetry
	shutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithServiceName(app.Name),
		otelconfig.WithServiceVersion(app.Version),
	)
	if err != nil {
		log.Crit("Failed to setup open telemetry", "message", err)
	}
	defer shutdown()

	// Start server
	svc := service.New()
	svc.Start(ctx)
	defer svc.Shutdown()

	// Start CLI
	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Crit("Application failed", "message", err)
	}
}

func run(ctx *cli.Context) error {
	logLevel, err := levelFromString(ctx.String(flags.LogLevel.Name))
	if err != nil {
		return rth.NewRuntimeError(fmt.Errorf("invalid log level: %w", err))
	}
	logger := log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, logLevel, false))
	log.SetDefault(logger)

	cfg, err := rth.NewConfig(ctx, logger)
	if err != nil {
		// Wrap in RuntimeError to signal this should exit with code 2
		return rth.NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
	}

	cfg.Log.Debug("Config", "config", cfg)

	harness, err := rth.NewHarness(cfg)
	if err != nil {
		return rth.NewRuntimeError(fmt.Errorf("failed to create harness: %w", err))
	}

	return harness.Run(ctx.Context)
}

// levelFromString parses a --log.level value ("debug", "info", "warn",
// "error", case-insensitive) into the slog level the log handler expects.
func levelFromString(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown level %q: %w", s, err)
	}
	return lvl, nil
}
