// Package loadgen pushes synthetic Channable orders at the order webhook to
// measure import throughput and error rates.
package loadgen

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Configuration errors
var (
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrConfigNotFound = errors.New("configuration file not found")
)

// Config describes one load run
type Config struct {
	Name   string       `yaml:"name"`
	Target TargetConfig `yaml:"target"`

	// Stores receive orders round-robin
	Stores   []int64         `yaml:"stores"`
	Products []ProductConfig `yaml:"products"`

	Duration    time.Duration `yaml:"duration"`
	QPS         float64       `yaml:"qps"`
	BurstSize   int           `yaml:"burstSize,omitempty"`
	Concurrency int           `yaml:"concurrency,omitempty"`

	// MaxLines caps the number of product lines per order
	MaxLines int `yaml:"maxLines,omitempty"`
	// LVBRatio is the share of orders sent as already shipped by the marketplace
	LVBRatio float64 `yaml:"lvbRatio,omitempty"`
	// Countries are picked at random for billing and shipping addresses
	Countries []string `yaml:"countries,omitempty"`
	// Seed makes the generated orders reproducible; 0 picks a random seed
	Seed uint64 `yaml:"seed,omitempty"`
}

// TargetConfig is the orderbridge instance under test
type TargetConfig struct {
	BaseURL string        `yaml:"baseURL"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// ProductConfig is a catalog product orders may contain
type ProductConfig struct {
	ID    int64  `yaml:"id"`
	Title string `yaml:"title,omitempty"`
	// Price is the unit price as the marketplace reports it
	Price string `yaml:"price"`
}

// Load reads a YAML configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes loads configuration from YAML bytes.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}
	if c.Target.BaseURL == "" {
		return fmt.Errorf("%w: target.baseURL is required", ErrInvalidConfig)
	}
	if len(c.Products) == 0 {
		return fmt.Errorf("%w: at least one product is required", ErrInvalidConfig)
	}
	for i, p := range c.Products {
		if p.ID <= 0 {
			return fmt.Errorf("%w: products[%d].id must be positive", ErrInvalidConfig, i)
		}
		price, err := decimal.NewFromString(p.Price)
		if err != nil || price.IsNegative() {
			return fmt.Errorf("%w: products[%d].price %q is not a valid price", ErrInvalidConfig, i, p.Price)
		}
	}
	for i, id := range c.Stores {
		if id < 0 {
			return fmt.Errorf("%w: stores[%d] cannot be negative", ErrInvalidConfig, i)
		}
	}
	if c.QPS < 0 {
		return fmt.Errorf("%w: qps cannot be negative", ErrInvalidConfig)
	}
	if c.LVBRatio < 0 || c.LVBRatio > 1 {
		return fmt.Errorf("%w: lvbRatio must be between 0 and 1", ErrInvalidConfig)
	}
	for i, code := range c.Countries {
		if len(code) != 2 {
			return fmt.Errorf("%w: countries[%d] must be a two letter code", ErrInvalidConfig, i)
		}
	}
	return nil
}

// ApplyDefaults fills the optional settings
func (c *Config) ApplyDefaults() {
	if len(c.Stores) == 0 {
		c.Stores = []int64{1}
	}
	if c.Duration <= 0 {
		c.Duration = time.Minute
	}
	if c.QPS == 0 {
		c.QPS = 1
	}
	if c.BurstSize <= 0 {
		c.BurstSize = 1
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	if c.MaxLines <= 0 {
		c.MaxLines = 3
	}
	if len(c.Countries) == 0 {
		c.Countries = []string{"NL", "BE"}
	}
	if c.Target.Timeout <= 0 {
		c.Target.Timeout = 10 * time.Second
	}
}
