package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/mkuiper/guardplan/pkg/core/planning"
)

// DistanceConfig configures the distance-matrix provider.
// The API key is deliberately not read from yaml: it comes from the
// GUARDPLAN_MAPS_API_KEY environment variable (or a .env file). A missing
// key disables distance scoring rather than failing startup.
type DistanceConfig struct {
	TimeoutSeconds int     `yaml:"timeoutSeconds" validate:"omitempty,min=1"`
	RatePerKm      float64 `yaml:"ratePerKm" validate:"omitempty,gt=0"`
}

// PlanningConfig holds the tunable planning constants.
// The assumed shift boundaries apply when a gap has no concrete times yet;
// assignments can override them per site.
type PlanningConfig struct {
	MinRestHours      float64 `yaml:"minRestHours" validate:"omitempty,gt=0"`
	AssumedShiftStart string  `yaml:"assumedShiftStart" validate:"omitempty,datetime=15:04"`
	AssumedShiftEnd   string  `yaml:"assumedShiftEnd" validate:"omitempty,datetime=15:04"`
	AssumedShiftHours float64 `yaml:"assumedShiftHours" validate:"omitempty,gt=0"`
	LowRemainingHours float64 `yaml:"lowRemainingHours" validate:"omitempty,gt=0"`
	MaxConcurrency    int     `yaml:"maxConcurrency" validate:"omitempty,min=1"`
}

// Config represents the application configuration
type Config struct {
	ListenAddr string         `yaml:"listenAddr"`
	Distance   DistanceConfig `yaml:"distance"`
	Planning   PlanningConfig `yaml:"planning"`

	// DatabaseURL and DistanceAPIKey are populated from the environment
	DatabaseURL    string `yaml:"-"`
	DistanceAPIKey string `yaml:"-"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from guardplan.yaml.
// It looks for the config file in the current directory first, then in the
// user's home directory.
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnvironment()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("config validation failed: DATABASE_URL is not set")
	}
	return nil
}

// PlanningParams maps the configured planning constants onto the engine's
// parameter set, falling back to the engine defaults for unset values
func (c *Config) PlanningParams() planning.Params {
	params := planning.DefaultParams()
	if c.Planning.MinRestHours > 0 {
		params.MinRestHours = c.Planning.MinRestHours
	}
	if c.Planning.AssumedShiftStart != "" {
		params.AssumedStart = c.Planning.AssumedShiftStart
	}
	if c.Planning.AssumedShiftEnd != "" {
		params.AssumedEnd = c.Planning.AssumedShiftEnd
	}
	if c.Planning.AssumedShiftHours > 0 {
		params.AssumedShiftHours = c.Planning.AssumedShiftHours
	}
	if c.Planning.LowRemainingHours > 0 {
		params.LowRemainingHours = c.Planning.LowRemainingHours
	}
	if c.Planning.MaxConcurrency > 0 {
		params.MaxParallel = c.Planning.MaxConcurrency
	}
	return params
}

// DistanceTimeout returns the per-call timeout for distance lookups
func (c *Config) DistanceTimeout() time.Duration {
	return time.Duration(c.Distance.TimeoutSeconds) * time.Second
}

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.Distance.TimeoutSeconds == 0 {
		c.Distance.TimeoutSeconds = 5
	}
	if c.Distance.RatePerKm == 0 {
		c.Distance.RatePerKm = 0.23
	}
}

func (c *Config) applyEnvironment() {
	c.DatabaseURL = os.Getenv("DATABASE_URL")
	c.DistanceAPIKey = os.Getenv("GUARDPLAN_MAPS_API_KEY")
}

// findConfigFile searches for guardplan.yaml in the current directory and
// the home directory
func findConfigFile() (string, error) {
	configFileName := "guardplan.yaml"

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
