package workload

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"admitd/internal/ratelimit"
)

// Config describes one load-generation run.
type Config struct {
	// Requests is the total number of admission calls per repetition.
	Requests int `yaml:"requests"`

	// ChunkSize is how many requests each worker task takes at once.
	ChunkSize int `yaml:"chunkSize"`

	// Workers bounds the number of concurrent submission goroutines.
	Workers int `yaml:"workers"`

	// Repetitions replays the same key stream this many times.
	Repetitions int `yaml:"repetitions"`

	// Rate paces submission in requests per second; zero means unpaced.
	Rate float64 `yaml:"rate"`

	// Seed fixes the key stream for reproducible runs; zero picks one.
	Seed uint64 `yaml:"seed"`

	Strategy string        `yaml:"strategy"`
	Limit    int           `yaml:"limit"`
	Window   time.Duration `yaml:"window"`
}

// DefaultConfig is a moderate smoke-test shape; real runs configure more.
func DefaultConfig() Config {
	policy := ratelimit.DefaultPolicy()

	return Config{
		Requests:    100_000,
		ChunkSize:   1_000,
		Workers:     8,
		Repetitions: 1,
		Strategy:    string(ratelimit.StrategyKeyed),
		Limit:       policy.Limit,
		Window:      policy.Window,
	}
}

// LoadConfig reads a yaml workload file, filling omitted fields from the
// defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read workload config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse workload config: %w", err)
	}

	return cfg, nil
}

// Validate checks the run shape.
func (c Config) Validate() error {
	if c.Requests <= 0 {
		return fmt.Errorf("requests must be positive, got %d", c.Requests)
	}

	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunkSize must be positive, got %d", c.ChunkSize)
	}

	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}

	if c.Repetitions <= 0 {
		return fmt.Errorf("repetitions must be positive, got %d", c.Repetitions)
	}

	if c.Rate < 0 {
		return fmt.Errorf("rate must not be negative, got %f", c.Rate)
	}

	if _, err := ratelimit.ParseStrategy(c.Strategy); err != nil {
		return err
	}

	return ratelimit.Policy{Limit: c.Limit, Window: c.Window}.Validate()
}

// Policy returns the admission policy described by the config.
func (c Config) Policy() ratelimit.Policy {
	return ratelimit.Policy{Limit: c.Limit, Window: c.Window}
}
