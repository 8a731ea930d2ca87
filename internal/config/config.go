package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/finad-dev/finad/internal/model"
)

// FileName is the workspace configuration file.
const FileName = "finad.yaml"

// EnvPrefix prefixes environment overrides, e.g. FINAD_SYNC_SHEETS_URL.
const EnvPrefix = "FINAD"

// Config represents the top-level finad.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business" mapstructure:"business"`
	Ledger   LedgerConfig   `yaml:"ledger" mapstructure:"ledger"`
	Session  SessionConfig  `yaml:"session" mapstructure:"session"`
	Sync     SyncConfig     `yaml:"sync" mapstructure:"sync"`
	Git      GitConfig      `yaml:"git" mapstructure:"git"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// BusinessConfig identifies the workspace owner.
type BusinessConfig struct {
	Name     string `yaml:"name" mapstructure:"name"`
	Currency string `yaml:"currency" mapstructure:"currency"` // symbol prefixed to report totals
}

// LedgerConfig seeds the ledger of a new workspace.
type LedgerConfig struct {
	OpeningBalance string `yaml:"opening_balance" mapstructure:"opening_balance"`
}

// SessionConfig picks the role a CLI call acts under when --role is absent.
type SessionConfig struct {
	DefaultRole string `yaml:"default_role" mapstructure:"default_role"`
	User        string `yaml:"user" mapstructure:"user"`
}

// SyncConfig points at the remote collaborators notified after a change.
// Empty values disable a target.
type SyncConfig struct {
	SheetsURL     string        `yaml:"sheets_url" mapstructure:"sheets_url"`
	RedisAddr     string        `yaml:"redis_addr" mapstructure:"redis_addr"`
	RedisPassword string        `yaml:"redis_password,omitempty" mapstructure:"redis_password"`
	RedisDB       int           `yaml:"redis_db" mapstructure:"redis_db"`
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit" mapstructure:"auto_commit"`
	AuthorName  string `yaml:"author_name" mapstructure:"author_name"`
	AuthorEmail string `yaml:"author_email" mapstructure:"author_email"`
}

// LogConfig sets the zap level.
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// OpeningBalance parses the configured opening balance.
func (c *Config) OpeningBalance() (decimal.Decimal, error) {
	d, err := model.ParseAmount(c.Ledger.OpeningBalance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ledger.opening_balance: %w", err)
	}
	return d, nil
}

// Load reads a finad.yaml file from disk. FINAD_* environment variables
// override file values, with "." in a key replaced by "_".
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, Default(""))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override keys the file
// leaves out.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("business.name", d.Business.Name)
	v.SetDefault("business.currency", d.Business.Currency)
	v.SetDefault("ledger.opening_balance", d.Ledger.OpeningBalance)
	v.SetDefault("session.default_role", d.Session.DefaultRole)
	v.SetDefault("session.user", d.Session.User)
	v.SetDefault("sync.sheets_url", d.Sync.SheetsURL)
	v.SetDefault("sync.redis_addr", d.Sync.RedisAddr)
	v.SetDefault("sync.redis_password", d.Sync.RedisPassword)
	v.SetDefault("sync.redis_db", d.Sync.RedisDB)
	v.SetDefault("sync.timeout", d.Sync.Timeout)
	v.SetDefault("git.auto_commit", d.Git.AutoCommit)
	v.SetDefault("git.author_name", d.Git.AuthorName)
	v.SetDefault("git.author_email", d.Git.AuthorEmail)
	v.SetDefault("log.level", d.Log.Level)
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default(businessName string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:     businessName,
			Currency: "₹",
		},
		Ledger: LedgerConfig{
			OpeningBalance: "500000.00",
		},
		Session: SessionConfig{
			DefaultRole: "Company",
			User:        "Admin",
		},
		Sync: SyncConfig{
			Timeout: 5 * time.Second,
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "FinAd",
			AuthorEmail: "books@finad.dev",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}
