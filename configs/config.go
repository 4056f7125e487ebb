package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable name, e.g. APICHECK_LOG_LEVEL.
const EnvPrefix = "apicheck"

// DefaultConfigFile is read when APICHECK_CONFIG_FILE is unset. It may be absent.
const DefaultConfigFile = ".apicheck.yaml"

// RoutePattern describes a custom route declaration idiom.
type RoutePattern struct {
	Name       string   `yaml:"name,omitempty"`
	Pattern    string   `yaml:"pattern"`
	Extensions []string `yaml:"extensions,omitempty"` // Defaults to [".py"]
}

// FileConfig defines the structure loaded from the YAML configuration file.
type FileConfig struct {
	RoutePatterns []interface{} `yaml:"route_patterns"`
	RoutePreset   string        `yaml:"route_preset,omitempty"`
	OutputFormat  string        `yaml:"output_format,omitempty"`
	SchemaLint    *bool         `yaml:"schema_lint,omitempty"`
}

// Config holds the final application configuration, merged from file and environment variables.
// Fields are loaded from environment variables with the prefix "APICHECK_", overriding file settings.
type Config struct {
	ConfigFilePath string `envconfig:"CONFIG_FILE" default:".apicheck.yaml"`

	// File-only
	RoutePatterns []RoutePattern `ignored:"true"`

	LogLevel                 string `envconfig:"LOG_LEVEL" default:"info"`
	RoutePreset              string `envconfig:"ROUTE_PRESET" default:"flask"`
	OutputFormat             string `envconfig:"OUTPUT_FORMAT" default:"text"`
	SchemaLint               bool   `envconfig:"SCHEMA_LINT" default:"false"`
	OtelExporterOtlpEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelExporterOtlpInsecure bool   `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"true"`
}

// ParsedLogLevel returns the slog.Level based on the configured LogLevel string.
func (c *Config) ParsedLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		fallthrough
	default:
		return slog.LevelInfo
	}
}

// Load loads configuration first from environment variables (to get the file path),
// then from the YAML file, and finally lets environment variables override file values.
func Load() (*Config, error) {
	var initialCfg Config
	if err := envconfig.Process(EnvPrefix, &initialCfg); err != nil {
		return nil, fmt.Errorf("failed to process initial environment variables: %w", err)
	}

	finalCfg := initialCfg
	fileCfg, err := readFile(initialCfg.ConfigFilePath)
	if err != nil {
		return nil, err
	}

	if fileCfg != nil {
		// File values only fill what the environment left at its default.
		if fileCfg.RoutePreset != "" && !envSet("ROUTE_PRESET") {
			finalCfg.RoutePreset = fileCfg.RoutePreset
		}
		if fileCfg.OutputFormat != "" && !envSet("OUTPUT_FORMAT") {
			finalCfg.OutputFormat = fileCfg.OutputFormat
		}
		if fileCfg.SchemaLint != nil && !envSet("SCHEMA_LINT") {
			finalCfg.SchemaLint = *fileCfg.SchemaLint
		}
		finalCfg.RoutePatterns = parseRoutePatterns(fileCfg.RoutePatterns)
	}

	return &finalCfg, nil
}

// readFile returns nil without error when the default config file does not exist.
func readFile(path string) (*FileConfig, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !envSet("CONFIG_FILE") {
			slog.Debug("No config file found, using defaults/env vars only.", "path", path)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	slog.Debug("Loaded configuration from file.", "path", path)

	var fileCfg FileConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config file '%s': %w", path, err)
	}
	return &fileCfg, nil
}

// parseRoutePatterns accepts both a bare regex string and an object per entry.
func parseRoutePatterns(raw []interface{}) []RoutePattern {
	patterns := make([]RoutePattern, 0, len(raw))
	for i, entry := range raw {
		switch v := entry.(type) {
		case string:
			patterns = append(patterns, RoutePattern{
				Name:       fmt.Sprintf("custom-%d", i+1),
				Pattern:    v,
				Extensions: []string{".py"},
			})
		case map[string]interface{}:
			rp := RoutePattern{Name: fmt.Sprintf("custom-%d", i+1)}
			if name, ok := v["name"].(string); ok && name != "" {
				rp.Name = name
			}
			if pattern, ok := v["pattern"].(string); ok {
				rp.Pattern = pattern
			}
			switch exts := v["extensions"].(type) {
			case string:
				rp.Extensions = []string{exts}
			case []interface{}:
				for _, e := range exts {
					if s, ok := e.(string); ok {
						rp.Extensions = append(rp.Extensions, s)
					}
				}
			}
			if len(rp.Extensions) == 0 {
				rp.Extensions = []string{".py"}
			}
			if rp.Pattern == "" {
				slog.Warn("Route pattern entry missing pattern field, skipping", "index", i)
				continue
			}
			patterns = append(patterns, rp)
		default:
			slog.Warn("Ignoring invalid route pattern format", "pattern", entry)
		}
	}
	return patterns
}

func envSet(name string) bool {
	_, ok := os.LookupEnv(strings.ToUpper(EnvPrefix) + "_" + name)
	return ok
}
