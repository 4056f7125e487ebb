package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/i2y/apicheck/configs"
	"github.com/i2y/apicheck/internal/adapter/outbound/codescan"
	"github.com/i2y/apicheck/internal/adapter/outbound/report"
	"github.com/i2y/apicheck/internal/adapter/outbound/schemafile"
	"github.com/i2y/apicheck/internal/telemetry"
	"github.com/i2y/apicheck/internal/usecase"
)

// LevelCritical is used for failures that end the run.
const LevelCritical = slog.LevelError + 4

// presetNone disables the built-in matcher so only configured patterns apply.
const presetNone = "none"

// Exit statuses.
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	// === Command Line Flags ===
	fs := flag.NewFlagSet("apicheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		verbose bool
		preset  string
		format  string
		lint    bool
	)
	fs.BoolVar(&verbose, "v", false, "Enable verbose logging.")
	fs.BoolVar(&verbose, "verbose", false, "Enable verbose logging.")
	fs.StringVar(&preset, "preset", "", "Route declaration idiom to scan for (flask, fastapi, express, none).")
	fs.StringVar(&format, "format", "", "Report format: text or json.")
	fs.BoolVar(&lint, "lint", false, "Also check the schema against the OpenAPI 3 specification (warnings only).")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Scans codebase for API endpoints and validates them against a schema.")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Usage: apicheck [flags] <code_path> <schema_path>")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "  code_path    Path to the codebase to scan.")
		fmt.Fprintln(stderr, "  schema_path  Path to the API schema file (OpenAPI/Swagger).")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return exitUsage
	}
	codePath, schemaPath := fs.Arg(0), fs.Arg(1)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === Configuration ===
	cfg, err := configs.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return exitFailed
	}
	if preset != "" {
		cfg.RoutePreset = preset
	}
	if format != "" {
		cfg.OutputFormat = format
	}
	if lint {
		cfg.SchemaLint = true
	}

	// === Logging ===
	logLevel := cfg.ParsedLogLevel()
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := newLogger(stderr, logLevel)
	slog.SetDefault(logger)
	logger.Debug("Verbose logging enabled.", slog.String("level", logLevel.String()))

	// === OpenTelemetry ===
	shutdownOtel, err := telemetry.Init(ctx, telemetry.Settings{
		Endpoint: cfg.OtelExporterOtlpEndpoint,
		Insecure: cfg.OtelExporterOtlpInsecure,
	}, logger)
	if err != nil {
		logger.Log(ctx, LevelCritical, "Failed to initialize OpenTelemetry.", slog.Any("error", err))
		return exitFailed
	}
	defer func() {
		if err := shutdownOtel(context.Background()); err != nil {
			logger.Error("Failed to shutdown OpenTelemetry TracerProvider.", slog.Any("error", err))
		}
	}()

	// === Dependency Injection ===
	writer, err := report.New(cfg.OutputFormat)
	if err != nil {
		logger.Log(ctx, LevelCritical, "An unexpected error occurred", slog.Any("error", err))
		return exitFailed
	}

	matchers, err := buildMatchers(cfg)
	if err != nil {
		logger.Log(ctx, LevelCritical, "An unexpected error occurred", slog.Any("error", err))
		return exitFailed
	}

	loader := schemafile.NewLoader(logger, schemafile.WithLint(cfg.SchemaLint))
	scanner := codescan.NewScanner(logger, matchers...)
	validator := usecase.NewValidateEndpointsUseCase(logger)
	checkUC := usecase.NewCheckAPIUseCase(loader, scanner, validator, logger)

	// === Run ===
	result, err := checkUC.Execute(ctx, codePath, schemaPath)
	if err != nil {
		logger.Log(ctx, LevelCritical, "An unexpected error occurred", slog.Any("error", err))
		return exitFailed
	}

	if err := writer.Write(stdout, result); err != nil {
		logger.Log(ctx, LevelCritical, "Failed to write report", slog.Any("error", err))
		return exitFailed
	}

	if !result.Passed() {
		logger.Error("API Endpoint Validation Failed", slog.Int("findings", len(result.Findings)))
		return exitFailed
	}
	logger.Info("API Endpoint Validation Passed.")
	return exitOK
}

// buildMatchers returns the preset matcher (unless disabled) followed by any
// patterns from the config file.
func buildMatchers(cfg *configs.Config) ([]usecase.RouteMatcher, error) {
	var matchers []usecase.RouteMatcher
	if cfg.RoutePreset != presetNone {
		m, err := codescan.Preset(cfg.RoutePreset)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}
	for _, rp := range cfg.RoutePatterns {
		m, err := codescan.NewRegexMatcher(rp.Name, rp.Pattern, rp.Extensions)
		if err != nil {
			return nil, fmt.Errorf("route pattern %s: %w", rp.Name, err)
		}
		matchers = append(matchers, m)
	}
	if len(matchers) == 0 {
		return nil, &usecase.ConfigError{
			Field:   "route_preset",
			Value:   cfg.RoutePreset,
			Message: "no route matchers configured",
		}
	}
	return matchers, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey && len(groups) == 0 {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelCritical {
					a.Value = slog.StringValue("CRITICAL")
				}
			}
			return a
		},
	}))
}
