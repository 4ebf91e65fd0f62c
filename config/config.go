package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// The environment variable that points to the config file
const PathEnv = "CCSIM_CONFIG"

const DefaultPath = "config.yaml"

type Config struct {
	// The competition document with the clubs of every round
	DataFile string `yaml:"data_file"`

	// How often the whole season is simulated
	Runs int `yaml:"runs"`

	// The number of parallel simulation workers
	Workers int `yaml:"workers"`

	// Seed of the first worker. Zero picks a seed from the clock.
	Seed int64 `yaml:"seed"`

	// Optional JSON file for the draws of the last run
	Output string `yaml:"output"`

	Logging LoggingConfig `yaml:"logging"`
	Ratings RatingsConfig `yaml:"ratings"`
	Draw    DrawConfig    `yaml:"draw"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

type RatingsConfig struct {
	Enabled           bool          `yaml:"enabled"`
	BaseURL           string        `yaml:"base_url"`
	CacheDir          string        `yaml:"cache_dir"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	// Match club names that differ slightly between the feed
	// and the competition data
	FuzzyMatch bool `yaml:"fuzzy_match"`
}

type DrawConfig struct {
	QualifyingAttempts int `yaml:"qualifying_attempts"`
	SolverAttempts     int `yaml:"solver_attempts"`
	SolverNodeBudget   int `yaml:"solver_node_budget"`
}

func Default() *Config {
	return &Config{
		DataFile: "data/competition.yaml",
		Runs:     1,
		Workers:  1,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Ratings: RatingsConfig{
			Enabled:           false,
			BaseURL:           "http://api.clubelo.com/",
			CacheDir:          "data/ratings",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 1,
			FuzzyMatch:        true,
		},
		Draw: DrawConfig{
			QualifyingAttempts: 100,
			SolverAttempts:     50,
			SolverNodeBudget:   20000,
		},
	}
}

// Loads the config file on top of the defaults. A missing file
// leaves the defaults in place.
func Load(configPath string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Loads the config file named by CCSIM_CONFIG, then applies
// the variables of a .env file and the environment.
func LoadFromEnv() (*Config, error) {
	// The .env file is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	path := os.Getenv(PathEnv)
	if path == "" {
		path = DefaultPath
	}

	config, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Overrides the config with CCSIM_* variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("CCSIM_DATA_FILE"); ok {
		c.DataFile = v
	}
	if v, ok := lookup("CCSIM_LOG_LEVEL"); ok {
		c.Logging.Level = v
	}
	if v, ok := lookup("CCSIM_OUTPUT"); ok {
		c.Output = v
	}
	if v, ok := lookup("CCSIM_RATINGS_CACHE_DIR"); ok {
		c.Ratings.CacheDir = v
	}

	ints := map[string]*int{
		"CCSIM_RUNS":    &c.Runs,
		"CCSIM_WORKERS": &c.Workers,
	}
	for name, field := range ints {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		*field = n
	}

	if v, ok := lookup("CCSIM_SEED"); ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid CCSIM_SEED: %w", err)
		}
		c.Seed = seed
	}
	if v, ok := lookup("CCSIM_RATINGS_ENABLED"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid CCSIM_RATINGS_ENABLED: %w", err)
		}
		c.Ratings.Enabled = enabled
	}

	return nil
}

func (c *Config) Validate() error {
	switch {
	case c.DataFile == "":
		return errors.New("config: data_file is empty")
	case c.Runs <= 0:
		return fmt.Errorf("config: runs must be positive, got %d", c.Runs)
	case c.Workers <= 0:
		return fmt.Errorf("config: workers must be positive, got %d", c.Workers)
	case c.Ratings.Enabled && c.Ratings.BaseURL == "":
		return errors.New("config: ratings are enabled without a base_url")
	case c.Ratings.Enabled && c.Ratings.RequestsPerSecond <= 0:
		return errors.New("config: ratings requests_per_second must be positive")
	}
	return nil
}
