package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string
	SpecDir     string
	Extension   string

	// Remote service
	BaseURL     string
	Token       string
	PageSize    int
	SentinelTag string

	// Report settings
	ReportFile string
	ReportDir  string

	// Execution settings
	Processors int

	// Paths to ignore when scanning
	PathsToIgnore []string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	Processors int
	Verbose    bool
	DryRun     bool
	NameFilter string
	ShowSteps  bool
	OpenErrors bool
}

// fileConfig mirrors the optional .tmsync.yaml project file
type fileConfig struct {
	URL         string   `yaml:"url"`
	SpecDir     string   `yaml:"spec_dir"`
	Processors  int      `yaml:"processors"`
	PageSize    int      `yaml:"page_size"`
	SentinelTag string   `yaml:"tag"`
	Ignore      []string `yaml:"ignore"`
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath: DefaultProjectPath,
		SpecDir:     DefaultSpecDir,
		Extension:   DefaultExtension,
		BaseURL:     DefaultBaseURL,
		PageSize:    DefaultPageSize,
		SentinelTag: DefaultSentinelTag,
		ReportFile:  DefaultReportFile,
		ReportDir:   DefaultReportDir,
		Processors:  DefaultProcessors,
		Flags:       Flags{Processors: DefaultProcessors},
	}
	// Copy default paths to ignore
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// Load layers the project file, the project's .env and the process environment over the defaults.
func (c *Config) Load() error {
	if err := c.loadProjectFile(filepath.Join(c.ProjectPath, DefaultProjectFile)); err != nil {
		return err
	}

	// .env is optional, plain environment variables work as well
	_ = godotenv.Load(filepath.Join(c.ProjectPath, ".env"))

	if v := os.Getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		c.Token = v
	}
	if v := os.Getenv(EnvProcessors); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid %s value %q", EnvProcessors, v)
		}
		c.Processors = n
	}
	return nil
}

func (c *Config) loadProjectFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if fc.URL != "" {
		c.BaseURL = fc.URL
	}
	if fc.SpecDir != "" {
		c.SpecDir = fc.SpecDir
	}
	if fc.Processors > 0 {
		c.Processors = fc.Processors
	}
	if fc.PageSize > 0 {
		c.PageSize = fc.PageSize
	}
	if fc.SentinelTag != "" {
		c.SentinelTag = fc.SentinelTag
	}
	c.PathsToIgnore = append(c.PathsToIgnore, fc.Ignore...)
	return nil
}

// GetSpecRoot returns the directory holding the spec files
func (c *Config) GetSpecRoot() string {
	if filepath.IsAbs(c.SpecDir) {
		return c.SpecDir
	}
	return filepath.Join(c.ProjectPath, c.SpecDir)
}

// GetReportPath returns the absolute path of the last run report so every command
// reads and writes the same file regardless of cwd.
func (c *Config) GetReportPath() string {
	p := filepath.Join(c.ProjectPath, c.ReportDir, c.ReportFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
