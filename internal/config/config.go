// Package config defines the site configuration and how it is loaded.
package config

import (
	"time"

	"github.com/pkg/errors"
)

// Sentinel errors, for errors.Is.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)

// Config is the process configuration.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// GinMode is debug, release or test.
	GinMode string `koanf:"gin_mode"`

	// DBPath is the SQLite database file.
	DBPath string `koanf:"db_path"`

	DefaultTheme    string `koanf:"default_theme"`
	DefaultLanguage string `koanf:"default_language"`

	// SectionStrategy selects the active-section rule: band or threshold.
	SectionStrategy string `koanf:"section_strategy"`

	// SessionTTLSeconds is how long an idle visitor's section tracker lives.
	SessionTTLSeconds int `koanf:"session_ttl_s"`

	// Relay is the contact relay: formspree, smtp or none.
	Relay            string `koanf:"relay"`
	FormspreeFormID  string `koanf:"formspree_form_id"`
	FormspreeBaseURL string `koanf:"formspree_endpoint"`
	RelayTimeoutS    int    `koanf:"relay_timeout_s"`

	SMTPHost  string `koanf:"smtp_host"`
	SMTPPort  string `koanf:"smtp_port"`
	SMTPUser  string `koanf:"smtp_user"`
	SMTPPass  string `koanf:"smtp_pass"`
	ContactTo string `koanf:"contact_to"`

	AdminUsername string `koanf:"admin_username"`
	AdminPassword string `koanf:"admin_password"`

	// VisitorRetentionDays bounds how long visitor rows are kept.
	VisitorRetentionDays int `koanf:"visitor_retention_days"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		Addr:                 ":8080",
		LogLevel:             "info",
		LogFormat:            "text",
		GinMode:              "release",
		DBPath:               "portfolio.db",
		DefaultTheme:         "dark",
		DefaultLanguage:      "tr",
		SectionStrategy:      "band",
		SessionTTLSeconds:    1800,
		Relay:                "formspree",
		FormspreeFormID:      "xzdaaorl",
		FormspreeBaseURL:     "https://formspree.io/f/",
		RelayTimeoutS:        10,
		SMTPHost:             "smtp.gmail.com",
		SMTPPort:             "587",
		AdminUsername:        "admin",
		VisitorRetentionDays: 365,
	}
}

// SessionTTL returns the tracker idle TTL.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSeconds) * time.Second
}

// RelayTimeout returns the contact relay timeout.
func (c *Config) RelayTimeout() time.Duration {
	return time.Duration(c.RelayTimeoutS) * time.Second
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.Wrap(ErrInvalidConfig, "addr must not be empty")
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return errors.Wrapf(ErrInvalidConfig, "gin_mode %q", c.GinMode)
	}
	if c.DefaultTheme != "dark" && c.DefaultTheme != "light" {
		return errors.Wrapf(ErrInvalidConfig, "default_theme %q", c.DefaultTheme)
	}
	if c.DefaultLanguage != "tr" && c.DefaultLanguage != "en" {
		return errors.Wrapf(ErrInvalidConfig, "default_language %q", c.DefaultLanguage)
	}
	switch c.Relay {
	case "formspree":
		if c.FormspreeFormID == "" {
			return errors.Wrap(ErrInvalidConfig, "formspree_form_id is required for the formspree relay")
		}
	case "smtp", "none":
	default:
		return errors.Wrapf(ErrInvalidConfig, "relay %q", c.Relay)
	}
	if c.SessionTTLSeconds <= 0 {
		return errors.Wrap(ErrInvalidConfig, "session_ttl_s must be positive")
	}
	if c.RelayTimeoutS <= 0 {
		return errors.Wrap(ErrInvalidConfig, "relay_timeout_s must be positive")
	}
	if c.VisitorRetentionDays <= 0 {
		return errors.Wrap(ErrInvalidConfig, "visitor_retention_days must be positive")
	}
	return nil
}
