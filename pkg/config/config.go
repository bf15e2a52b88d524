package config

import (
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/ekaya-inc/ekaya-dal/pkg/adapters/datasource"
)

// Config holds all configuration for ekaya-dal.
// Configuration can come from a YAML file or environment variables.
// Environment variables always override YAML values for fields that support both.
// The database password must only come from the environment.
type Config struct {
	Version string `yaml:"-"` // Set at load time, not from config

	Source SourceConfig `yaml:"source"`
	Report ReportConfig `yaml:"report"`
	Log    LogConfig    `yaml:"log"`
}

// SourceConfig describes the database whose catalog is inspected.
type SourceConfig struct {
	Type     string `yaml:"type" env:"DAL_SOURCE_TYPE" env-default:"postgres"`
	Host     string `yaml:"host" env:"DAL_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"DAL_PORT" env-default:"0"` // 0 = adapter default
	Database string `yaml:"database" env:"DAL_DATABASE"`
	User     string `yaml:"user" env:"DAL_USER"`
	Password string `yaml:"-" env:"DAL_PASSWORD"` // Secret - not in YAML

	// PostgreSQL only
	SSLMode string `yaml:"ssl_mode" env:"DAL_SSLMODE" env-default:"disable"`

	// Oracle only
	ConnectMode  string `yaml:"connect_mode" env:"DAL_ORACLE_CONNECT_MODE" env-default:"sid"`
	CatalogScope string `yaml:"catalog_scope" env:"DAL_ORACLE_CATALOG_SCOPE" env-default:"dba"`
}

// ReportConfig controls the row-count report.
type ReportConfig struct {
	Schemas                []string `yaml:"schemas" env:"DAL_SCHEMAS" env-separator:","`
	Format                 string   `yaml:"format" env:"DAL_REPORT_FORMAT" env-default:"text"`
	SkipContractViolations bool     `yaml:"skip_contract_violations" env:"DAL_SKIP_CONTRACT_VIOLATIONS" env-default:"false"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `yaml:"level" env:"DAL_LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"DAL_LOG_FORMAT" env-default:"console"`
}

// Load reads configuration from the YAML file at path with environment
// variable overrides. With an empty path only the environment is read.
// The version parameter is injected at build time and set on the returned Config.
func Load(path, version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	cfg.normalize()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) normalize() {
	c.Source.Type = strings.ToLower(strings.TrimSpace(c.Source.Type))
	c.Source.ConnectMode = strings.ToLower(strings.TrimSpace(c.Source.ConnectMode))
	c.Source.CatalogScope = strings.ToLower(strings.TrimSpace(c.Source.CatalogScope))
	c.Report.Format = strings.ToLower(strings.TrimSpace(c.Report.Format))

	schemas := c.Report.Schemas[:0]
	for _, s := range c.Report.Schemas {
		if s = strings.TrimSpace(s); s != "" {
			schemas = append(schemas, s)
		}
	}
	c.Report.Schemas = schemas
}

func (c *Config) validate() error {
	if c.Source.Type == "" {
		return fmt.Errorf("source.type is required")
	}
	if c.Source.Port < 0 || c.Source.Port > 65535 {
		return fmt.Errorf("source.port %d is out of range", c.Source.Port)
	}
	switch c.Report.Format {
	case "text", "yaml":
	default:
		return fmt.Errorf("report.format must be text or yaml, got %q", c.Report.Format)
	}
	return nil
}

// Coordinates returns the connection coordinates handed to DB.OpenConnection.
func (s SourceConfig) Coordinates() datasource.Coordinates {
	return datasource.Coordinates{
		Host:     s.Host,
		Port:     s.Port,
		Database: s.Database,
		User:     s.User,
		Password: s.Password,
	}
}

// Settings returns the adapter-specific settings for datasource.NewDB.
// Only the settings that apply to Type are included.
func (s SourceConfig) Settings() map[string]any {
	switch s.Type {
	case "oracle":
		return map[string]any{
			"connect_mode":  s.ConnectMode,
			"catalog_scope": s.CatalogScope,
		}
	case "postgres":
		return map[string]any{
			"ssl_mode": s.SSLMode,
		}
	default:
		return map[string]any{}
	}
}
