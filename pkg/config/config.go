package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	errs "reviewimg/pkg/errors"
)

const (
	// DefaultInputPath is used when no export path argument is given
	DefaultInputPath = "reviews.json"
	// DefaultOutputDir is used when no output folder argument is given
	DefaultOutputDir = "./downloads"
)

// Config holds all configuration options for reviewimg
type Config struct {
	// Review export to read
	Input InputConfig `yaml:"input" json:"input"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Image categories and their field selectors
	Categories []CategoryConfig `yaml:"categories" json:"categories"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Metrics output
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
}

// InputConfig holds the export location
type InputConfig struct {
	Path string `yaml:"path" json:"path"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	BaseDirectory string `yaml:"base_directory" json:"base_directory"`
}

// CategoryConfig selects one image class from each review: review[Role][Field].
// Images are written to BaseDirectory/Folder.
type CategoryConfig struct {
	Name    string `yaml:"name" json:"name"`
	Role    string `yaml:"role" json:"role"`
	Field   string `yaml:"field" json:"field"`
	Folder  string `yaml:"folder" json:"folder"`
	Enabled bool   `yaml:"enabled" json:"enabled"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	UserAgent string `yaml:"user_agent" json:"user_agent"`
	// RequestsPerMinute paces downloads; 0 disables pacing
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// MetricsConfig holds metrics output configuration
type MetricsConfig struct {
	// TextFile receives a Prometheus text-format dump after the run when set
	TextFile string `yaml:"text_file" json:"text_file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Path: DefaultInputPath,
		},
		Output: OutputConfig{
			BaseDirectory: DefaultOutputDir,
		},
		Categories: []CategoryConfig{
			{Name: "reviews", Role: "reviewer", Field: "thumbnail", Folder: "reviews", Enabled: true},
			{Name: "products", Role: "product", Field: "image_url", Folder: "products", Enabled: false},
			{Name: "content", Role: "content", Field: "image_url", Folder: "content", Enabled: false},
		},
		Download: DownloadConfig{
			UserAgent:         "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
			RequestsPerMinute: 0,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if input := os.Getenv("REVIEWIMG_INPUT"); input != "" {
		c.Input.Path = input
	}
	if outputDir := os.Getenv("REVIEWIMG_OUTPUT_DIR"); outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}
	if categories := os.Getenv("REVIEWIMG_CATEGORIES"); categories != "" {
		if err := c.EnableCategories(strings.Split(categories, ",")); err != nil {
			return err
		}
	}
	if userAgent := os.Getenv("REVIEWIMG_USER_AGENT"); userAgent != "" {
		c.Download.UserAgent = userAgent
	}
	if rpm := os.Getenv("REVIEWIMG_REQUESTS_PER_MINUTE"); rpm != "" {
		val, err := strconv.Atoi(rpm)
		if err != nil {
			return fmt.Errorf("invalid REVIEWIMG_REQUESTS_PER_MINUTE %q: %w", rpm, err)
		}
		c.Download.RequestsPerMinute = val
	}
	if logLevel := os.Getenv("REVIEWIMG_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("REVIEWIMG_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}
	if metricsFile := os.Getenv("REVIEWIMG_METRICS_FILE"); metricsFile != "" {
		c.Metrics.TextFile = metricsFile
	}
	return nil
}

// EnableCategories enables exactly the named categories and disables the rest
func (c *Config) EnableCategories(names []string) error {
	wanted := make(map[string]bool)
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			wanted[name] = true
		}
	}

	for i := range c.Categories {
		name := c.Categories[i].Name
		c.Categories[i].Enabled = wanted[name]
		delete(wanted, name)
	}

	if len(wanted) > 0 {
		unknown := make([]string, 0, len(wanted))
		for name := range wanted {
			unknown = append(unknown, name)
		}
		sort.Strings(unknown)
		return fmt.Errorf("unknown categories: %s", strings.Join(unknown, ", "))
	}
	return nil
}

// EnabledCategories returns the categories to process, in declaration order
func (c *Config) EnabledCategories() []CategoryConfig {
	var enabled []CategoryConfig
	for _, cat := range c.Categories {
		if cat.Enabled {
			enabled = append(enabled, cat)
		}
	}
	return enabled
}

// CategoryDir returns the output folder for a category
func (c *Config) CategoryDir(cat CategoryConfig) string {
	return filepath.Join(c.Output.BaseDirectory, cat.Folder)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var problems []error

	if c.Input.Path == "" {
		problems = append(problems, errors.New("input path is required"))
	}
	if c.Output.BaseDirectory == "" {
		problems = append(problems, errors.New("output directory is required"))
	}

	if len(c.EnabledCategories()) == 0 {
		problems = append(problems, errors.New("at least one category must be enabled"))
	}
	seen := make(map[string]bool)
	for _, cat := range c.Categories {
		if cat.Name == "" {
			problems = append(problems, errors.New("category name is required"))
			continue
		}
		if seen[cat.Name] {
			problems = append(problems, fmt.Errorf("duplicate category %q", cat.Name))
		}
		seen[cat.Name] = true
		if cat.Role == "" || cat.Field == "" {
			problems = append(problems, fmt.Errorf("category %q needs both role and field", cat.Name))
		}
		if cat.Folder == "" {
			problems = append(problems, fmt.Errorf("category %q needs a folder", cat.Name))
		}
	}

	if c.Download.RequestsPerMinute < 0 {
		problems = append(problems, errors.New("requests per minute cannot be negative"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		problems = append(problems, errors.New("invalid log level"))
	}

	if len(problems) > 0 {
		return errors.Join(problems...)
	}

	return nil
}

// Render returns the configuration as YAML
func (c *Config) Render() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// MergeCommandLineFlags merges positional arguments and flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if input, ok := flags["input"].(string); ok && input != "" {
		c.Input.Path = input
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line > Environment variables > .env file > Defaults
func Load(flags map[string]interface{}) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".reviewimg.env"))

	config := DefaultConfig()

	if err := config.LoadFromEnv(); err != nil {
		return nil, errs.Wrap(errs.ErrorTypeConfig, err, "failed to load environment variables")
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, errs.Wrap(errs.ErrorTypeConfig, err, "configuration validation failed")
	}

	return config, nil
}
