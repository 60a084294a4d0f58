// Package config provides configuration loading and validation for formseed.
//
// Configuration is assembled from an optional config.yml, an optional .env
// file, and environment variables (FORMSEED_* overrides plus the
// OPENAI_API_KEY and FORMBRICKS_API_KEY credentials), then passed into
// components as an explicit struct so nothing reads ambient process state.
package config

import (
	"fmt"
	"time"

	"github.com/seedlabs/formseed/internal/logger"
)

// Config is the top-level formseed configuration.
type Config struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`

	Target        TargetConfig        `yaml:"target" mapstructure:"target"`
	LLM           LLMConfig           `yaml:"llm" mapstructure:"llm"`
	Stack         StackConfig         `yaml:"stack" mapstructure:"stack"`
	Seed          SeedConfig          `yaml:"seed" mapstructure:"seed"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
}

// TargetConfig describes the survey application being seeded.
type TargetConfig struct {
	// BaseURL is the root of the target service's HTTP API.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// APIKey is the bearer token for authenticated management calls.
	// Normally supplied via the FORMBRICKS_API_KEY environment variable.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
	// Timeout bounds each create call.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// LLMConfig describes the model used to generate synthetic data.
type LLMConfig struct {
	// Dialect selects the provider mapping (default "openai").
	Dialect string `yaml:"dialect" mapstructure:"dialect"`
	// BaseURL is the provider's API base URL.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// Model is the chat model used for generation.
	Model string `yaml:"model" mapstructure:"model"`
	// APIKey is the provider credential, normally from OPENAI_API_KEY.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
	// MaxTokens limits the generation response length.
	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens"`
	// Timeout bounds the completion request.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// StackConfig describes how the target application is run locally.
type StackConfig struct {
	// RepoURL is cloned when Dir does not exist yet.
	RepoURL string `yaml:"repo_url" mapstructure:"repo_url"`
	// Dir is the checkout directory holding the compose file.
	Dir string `yaml:"dir" mapstructure:"dir"`
	// Project is the compose project name used for container filtering.
	Project string `yaml:"project" mapstructure:"project"`
	// DockerHost overrides the Docker engine endpoint. Empty uses the
	// environment (DOCKER_HOST or the default socket).
	DockerHost string `yaml:"docker_host" mapstructure:"docker_host"`
}

// SeedConfig tunes the seeding workflow.
type SeedConfig struct {
	// BundlePath is where the generated bundle is written and read.
	BundlePath string `yaml:"bundle_path" mapstructure:"bundle_path"`
	// MaxAttempts bounds the readiness probe count.
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts"`
	// Interval is the fixed delay between readiness probes.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
	// ProbeTimeout bounds a single health probe.
	ProbeTimeout time.Duration `yaml:"probe_timeout" mapstructure:"probe_timeout"`
}

// ObservabilityConfig enables optional OTLP export.
type ObservabilityConfig struct {
	// Endpoint is the OTLP HTTP endpoint host:port. Empty disables export.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// Insecure allows plain HTTP to the collector.
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
	// Interval is the metric export interval.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// ApplyDefaults fills in zero-value fields with the tool's defaults.
// The 10 attempts × 10s readiness policy matches the target application's
// known slow local startup.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "formseed"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Logging.ServiceName == "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()

	if c.Target.BaseURL == "" {
		c.Target.BaseURL = "http://localhost:3000"
	}
	if c.Target.Timeout == 0 {
		c.Target.Timeout = 30 * time.Second
	}

	if c.LLM.Dialect == "" {
		c.LLM.Dialect = "openai"
	}
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = "https://api.openai.com"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 2000
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 120 * time.Second
	}

	if c.Stack.RepoURL == "" {
		c.Stack.RepoURL = "https://github.com/formbricks/formbricks.git"
	}
	if c.Stack.Dir == "" {
		c.Stack.Dir = "formbricks"
	}
	if c.Stack.Project == "" {
		c.Stack.Project = "formbricks"
	}

	if c.Seed.BundlePath == "" {
		c.Seed.BundlePath = "generated_data.json"
	}
	if c.Seed.MaxAttempts == 0 {
		c.Seed.MaxAttempts = 10
	}
	if c.Seed.Interval == 0 {
		c.Seed.Interval = 10 * time.Second
	}
	if c.Seed.ProbeTimeout == 0 {
		c.Seed.ProbeTimeout = 5 * time.Second
	}

	if c.Observability.Interval == 0 {
		c.Observability.Interval = 15 * time.Second
	}
}

// Validate checks that the configuration is internally consistent.
// Credential presence is checked per command, not here, because not every
// command needs every credential.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	validEnvs := []string{"development", "staging", "production"}
	if !containsString(validEnvs, c.Environment) {
		return fmt.Errorf("config.environment must be one of %v (got: %s)", validEnvs, c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if c.Seed.MaxAttempts < 1 {
		return fmt.Errorf("config.seed.max_attempts must be at least 1")
	}
	if c.Seed.Interval <= 0 {
		return fmt.Errorf("config.seed.interval must be positive")
	}
	if c.Seed.ProbeTimeout <= 0 {
		return fmt.Errorf("config.seed.probe_timeout must be positive")
	}
	return nil
}

func containsString(slice []string, val string) bool {
	for _, s := range slice {
		if s == val {
			return true
		}
	}
	return false
}
