package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Listen       string        `yaml:"listen"`
	PublicURL    string        `yaml:"public_url"`
	DatabasePath string        `yaml:"database_path"`
	Session      SessionConfig `yaml:"session"`
	SMTP         SMTPConfig    `yaml:"smtp"`
	Logs         LogsConfig    `yaml:"logs"`
	TLS          TLSConfig     `yaml:"tls"`
}

type SessionConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	// Secret signs CSRF tokens. When empty a random secret is generated at
	// startup, so tokens do not survive a restart.
	Secret string `yaml:"secret"`
}

// SMTPConfig configures the outbound mailer. When Server, Username or
// Password is empty, sending is disabled and the mailer logs a warning
// instead of dialing.
type SMTPConfig struct {
	Server   string `yaml:"server"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	SendFrom string `yaml:"send_from"`
}

type LogsConfig struct {
	MaxAge time.Duration `yaml:"max_age"`
}

type TLSConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cert    string `yaml:"cert"`
	Key     string `yaml:"key"`
}

var C Config

func Load() error {
	// Defaults
	C = Config{
		Listen:       ":8080",
		PublicURL:    "http://localhost:8080",
		DatabasePath: "app.db",
		Session: SessionConfig{
			Timeout: 24 * time.Hour,
		},
		SMTP: SMTPConfig{
			Server: "smtp.mailgun.org",
			Port:   587,
		},
		Logs: LogsConfig{
			MaxAge: 48 * time.Hour,
		},
	}

	// Load from YAML if exists
	if data, err := os.ReadFile("config.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &C); err != nil {
			return err
		}
	}

	// Environment overrides
	if v := os.Getenv("LISTEN"); v != "" {
		C.Listen = v
	}
	if v := os.Getenv("PUBLIC_URL"); v != "" {
		C.PublicURL = v
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		C.DatabasePath = v
	}
	if v := os.Getenv("SESSION_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			C.Session.Timeout = d
		}
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		C.Session.Secret = v
	}
	if v := os.Getenv("SMTP_SERVER"); v != "" {
		C.SMTP.Server = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.SMTP.Port = p
		}
	}
	if v := os.Getenv("SMTP_USERNAME"); v != "" {
		C.SMTP.Username = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		C.SMTP.Password = v
	}
	if v := os.Getenv("SMTP_SEND_FROM"); v != "" {
		C.SMTP.SendFrom = v
	}
	if v := os.Getenv("LOGS_MAX_AGE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			C.Logs.MaxAge = d
		}
	}
	if v := os.Getenv("TLS_ENABLED"); v == "true" {
		C.TLS.Enabled = true
	}
	if v := os.Getenv("TLS_CERT"); v != "" {
		C.TLS.Cert = v
	}
	if v := os.Getenv("TLS_KEY"); v != "" {
		C.TLS.Key = v
	}

	// Send-from falls back to the SMTP username, matching common provider setups
	if C.SMTP.SendFrom == "" {
		C.SMTP.SendFrom = C.SMTP.Username
	}

	return nil
}
