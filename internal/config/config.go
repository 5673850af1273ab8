package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Tables names the five warehouse tables the views read from.
// Each entry is a schema-qualified identifier such as "core.master_table".
type Tables struct {
	Master      string `yaml:"master"`
	Hospital    string `yaml:"hospital"`
	Provider    string `yaml:"provider"`
	Plan        string `yaml:"plan"`
	ServiceCode string `yaml:"service_code"`
}

// DefaultTables returns the identifiers created by the embedded migrations.
func DefaultTables() Tables {
	return Tables{
		Master:      "core.master_table",
		Hospital:    "core.hospital_data",
		Provider:    "core.insurance_providers",
		Plan:        "core.insurance_plans",
		ServiceCode: "core.service_codes",
	}
}

// Config holds all runtime configuration for a healthnav process.
type Config struct {
	DSN        string
	LogFormat  string // "text" or "json"
	LogLevel   string
	ConfigPath string

	Tables Tables

	// DefaultStates is the fallback used by the price-variation view when
	// no state is selected.
	DefaultStates []string

	OptionCacheTTL   time.Duration
	OptionCacheSize  int
	ListenAddr       string
	StatementTimeout time.Duration
	ChartLimit       int

	// Seed-only
	FilePath string
	Force    bool
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	Tables           *Tables  `yaml:"tables"`
	DefaultStates    []string `yaml:"default_states"`
	OptionCacheTTL   string   `yaml:"option_cache_ttl"`
	OptionCacheSize  int      `yaml:"option_cache_size"`
	ListenAddr       string   `yaml:"listen_addr"`
	StatementTimeout string   `yaml:"statement_timeout"`
	ChartLimit       int      `yaml:"chart_limit"`
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Default returns a Config with every optional field populated.
func Default() Config {
	return Config{
		LogFormat:        "text",
		LogLevel:         "info",
		Tables:           DefaultTables(),
		DefaultStates:    []string{"NV", "IL", "NC"},
		OptionCacheTTL:   time.Hour,
		OptionCacheSize:  256,
		ListenAddr:       ":8080",
		StatementTimeout: 60 * time.Second,
		ChartLimit:       30,
	}
}

// LoadFromFile reads a YAML config file and merges its values into Config.
// Keys absent from the file keep their current values.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if yc.Tables != nil {
		mergeTables(&c.Tables, *yc.Tables)
	}
	if len(yc.DefaultStates) > 0 {
		c.DefaultStates = make([]string, len(yc.DefaultStates))
		for i, s := range yc.DefaultStates {
			c.DefaultStates[i] = strings.ToUpper(strings.TrimSpace(s))
		}
	}
	if yc.OptionCacheTTL != "" {
		d, err := time.ParseDuration(yc.OptionCacheTTL)
		if err != nil {
			return fmt.Errorf("parse option_cache_ttl: %w", err)
		}
		c.OptionCacheTTL = d
	}
	if yc.StatementTimeout != "" {
		d, err := time.ParseDuration(yc.StatementTimeout)
		if err != nil {
			return fmt.Errorf("parse statement_timeout: %w", err)
		}
		c.StatementTimeout = d
	}
	if yc.OptionCacheSize != 0 {
		c.OptionCacheSize = yc.OptionCacheSize
	}
	if yc.ListenAddr != "" {
		c.ListenAddr = yc.ListenAddr
	}
	if yc.ChartLimit != 0 {
		c.ChartLimit = yc.ChartLimit
	}
	return c.Validate()
}

func mergeTables(dst *Tables, src Tables) {
	if src.Master != "" {
		dst.Master = src.Master
	}
	if src.Hospital != "" {
		dst.Hospital = src.Hospital
	}
	if src.Provider != "" {
		dst.Provider = src.Provider
	}
	if src.Plan != "" {
		dst.Plan = src.Plan
	}
	if src.ServiceCode != "" {
		dst.ServiceCode = src.ServiceCode
	}
}

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	for name, ident := range map[string]string{
		"master":       c.Tables.Master,
		"hospital":     c.Tables.Hospital,
		"provider":     c.Tables.Provider,
		"plan":         c.Tables.Plan,
		"service_code": c.Tables.ServiceCode,
	} {
		if !identifierPattern.MatchString(ident) {
			return fmt.Errorf("tables.%s: invalid identifier %q", name, ident)
		}
	}
	if len(c.DefaultStates) == 0 {
		return fmt.Errorf("default_states must not be empty")
	}
	if c.OptionCacheTTL <= 0 {
		return fmt.Errorf("option_cache_ttl must be positive")
	}
	if c.OptionCacheSize <= 0 {
		return fmt.Errorf("option_cache_size must be positive")
	}
	if c.ChartLimit <= 0 {
		return fmt.Errorf("chart_limit must be positive")
	}
	return nil
}

// ValidateWithDSN checks the config and the DSN field.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or HEALTHNAV_DB_URL is required")
	}
	return nil
}

// ValidateSeed checks the fixture path in addition to the DSN.
func (c *Config) ValidateSeed() error {
	if err := c.ValidateWithDSN(); err != nil {
		return err
	}
	if c.FilePath == "" {
		return fmt.Errorf("--file is required")
	}
	if _, err := os.Stat(c.FilePath); err != nil {
		return fmt.Errorf("file not accessible: %w", err)
	}
	return nil
}
