package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the main configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Renderer RendererConfig `yaml:"renderer"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Report   ReportConfig   `yaml:"report"`
	Cleanup  CleanupConfig  `yaml:"cleanup"`
	Metrics  *MetricsConfig `yaml:"metrics,omitempty"`
	Upload   *UploadConfig  `yaml:"upload,omitempty"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// RendererConfig controls the external log-rendering command
type RendererConfig struct {
	// Command is the rendering binary, normally the macOS "log" tool.
	// Overridable for testing and for wrapper scripts.
	Command string        `yaml:"command"`
	Timeout time.Duration `yaml:"timeout"`
}

// AnalysisConfig controls timestamp parsing
type AnalysisConfig struct {
	// TimeFormats are tried in order against the leading timestamp of a
	// line. Empty means the built-in format list.
	TimeFormats []string `yaml:"time_formats,omitempty"`

	// FallbackFormat is the fixed-format last resort, applied after
	// stripping a trailing +offset from the timestamp text.
	FallbackFormat string `yaml:"fallback_format,omitempty"`
}

// ReportConfig controls where the CSV artifact is written
type ReportConfig struct {
	Dir string `yaml:"dir"`
}

// CleanupPolicy decides the fate of the temporary extraction directory
type CleanupPolicy string

const (
	CleanupAlways CleanupPolicy = "always"
	CleanupNever  CleanupPolicy = "never"
	CleanupAsk    CleanupPolicy = "ask"
)

// CleanupConfig holds temp-directory cleanup configuration
type CleanupConfig struct {
	Policy CleanupPolicy `yaml:"policy"`
}

// MetricsConfig holds run-metrics configuration. When enabled, a
// textfile-collector snapshot is written next to the report.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// UploadConfig holds optional S3 delivery of the CSV artifact
type UploadConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Bucket       string `yaml:"bucket"`
	Region       string `yaml:"region"`
	Prefix       string `yaml:"prefix,omitempty"`
	Endpoint     string `yaml:"endpoint,omitempty"`
	UsePathStyle bool   `yaml:"use_path_style,omitempty"`
}

// Default values
const (
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "console"
	DefaultRenderCommand   = "log"
	DefaultRenderTimeout   = 900 * time.Second
	DefaultFallbackFormat  = "2006-01-02 15:04:05.000000"
	DefaultMetricsFilename = "log_report_metrics.prom"
)

// Load loads configuration from a YAML file with environment variable overrides
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(expandedData, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Apply defaults
	cfg.applyDefaults()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for unspecified configuration
func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
	if c.Renderer.Command == "" {
		c.Renderer.Command = DefaultRenderCommand
	}
	if c.Renderer.Timeout == 0 {
		c.Renderer.Timeout = DefaultRenderTimeout
	}
	if c.Analysis.FallbackFormat == "" {
		c.Analysis.FallbackFormat = DefaultFallbackFormat
	}
	if c.Report.Dir == "" {
		c.Report.Dir = "."
	}
	if c.Cleanup.Policy == "" {
		c.Cleanup.Policy = CleanupAsk
	}
	if c.Metrics != nil && c.Metrics.Enabled && c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsFilename
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	validLogFormats := map[string]bool{
		"json": true, "console": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if c.Renderer.Timeout < 0 {
		return fmt.Errorf("renderer timeout must be positive, got %s", c.Renderer.Timeout)
	}

	switch c.Cleanup.Policy {
	case CleanupAlways, CleanupNever, CleanupAsk:
	default:
		return fmt.Errorf("invalid cleanup policy: %s", c.Cleanup.Policy)
	}

	if c.Upload != nil && c.Upload.Enabled {
		if c.Upload.Bucket == "" {
			return fmt.Errorf("upload enabled but no bucket configured")
		}
		if c.Upload.Region == "" {
			return fmt.Errorf("upload enabled but no region configured")
		}
	}

	return nil
}

// LoadOrDefault loads configuration from file or returns a default configuration
func LoadOrDefault(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	cfg := &Config{
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Renderer: RendererConfig{
			Command: DefaultRenderCommand,
			Timeout: DefaultRenderTimeout,
		},
		Analysis: AnalysisConfig{
			FallbackFormat: DefaultFallbackFormat,
		},
		Report: ReportConfig{
			Dir: ".",
		},
		Cleanup: CleanupConfig{
			Policy: CleanupAsk,
		},
	}
	return cfg
}
