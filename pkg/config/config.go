package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Model struct {
		APIKey   string        `yaml:"api_key"`
		BaseURL  string        `yaml:"base_url"`
		Name     string        `yaml:"name"`
		Timeout  time.Duration `yaml:"timeout"`
		MaxRetry int           `yaml:"max_retry"`
	} `yaml:"model"`
	Payment struct {
		SkipVerification bool          `yaml:"skip_verification"`
		PriceMinorUnits  int64         `yaml:"price_minor_units"`
		Currency         string        `yaml:"currency"`
		PayTo            string        `yaml:"pay_to"`
		Token            string        `yaml:"token"`
		Network          string        `yaml:"network"`
		ReceiptTTL       time.Duration `yaml:"receipt_ttl"`
	} `yaml:"payment"`
	Cache struct {
		Backend   string        `yaml:"backend"` // memory or redis
		SignalTTL time.Duration `yaml:"signal_ttl"`
		Redis     struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Market struct {
		BasePrice      float64       `yaml:"base_price"`
		BaseInflation  float64       `yaml:"base_inflation"`
		BaseUSDIndex   float64       `yaml:"base_usd_index"`
		HistorySize    int           `yaml:"history_size"`
		UpdateInterval time.Duration `yaml:"update_interval"`
	} `yaml:"market"`
	Ledger struct {
		RPCURL       string        `yaml:"rpc_url"`
		VaultAddress string        `yaml:"vault_address"`
		Timeout      time.Duration `yaml:"timeout"`
	} `yaml:"ledger"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Model.APIKey = v
	}
	if v := os.Getenv("PAYMENT_ADDRESS"); v != "" {
		c.Payment.PayTo = v
	}
	if v := os.Getenv("USDC_ADDRESS"); v != "" {
		c.Payment.Token = v
	}
	if v := os.Getenv("VAULT_ADDRESS"); v != "" {
		c.Ledger.VaultAddress = v
	}
	if v := os.Getenv("RPC_URL"); v != "" {
		c.Ledger.RPCURL = v
	}
	if v := os.Getenv("SKIP_PAYMENT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Payment.SkipVerification = b
		}
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("cache.backend must be 'memory' or 'redis', got '%s'", c.Cache.Backend)
	}
	if c.Cache.SignalTTL <= 0 {
		c.Cache.SignalTTL = 15 * time.Minute
	}
	if c.Payment.PriceMinorUnits <= 0 {
		return fmt.Errorf("payment.price_minor_units must be positive")
	}
	if c.Payment.Currency == "" {
		c.Payment.Currency = "USDC"
	}
	if !c.Payment.SkipVerification && c.Payment.PayTo == "" {
		return fmt.Errorf("payment.pay_to is required when verification is on")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
