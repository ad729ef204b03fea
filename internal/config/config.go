// Package config loads service settings from an optional YAML file, the environment and CLI flags.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Unknown session policies.
const (
	PolicyRestart = "restart"
	PolicyReject  = "reject"
)

// Config holds all configuration values.
type Config struct {
	Port     int    `mapstructure:"PORT"`
	Debug    bool   `mapstructure:"DEBUG"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
	LogJSON  bool   `mapstructure:"LOG_JSON"`

	// Transcript delivery.
	ToMail       string        `mapstructure:"TO_MAIL"`
	FromEmail    string        `mapstructure:"FROM_EMAIL"`
	SMTPServer   string        `mapstructure:"SMTP_SERVER"`
	SMTPPort     int           `mapstructure:"SMTP_PORT"`
	SMTPLogin    string        `mapstructure:"SMTP_LOGIN"`
	SMTPPassword string        `mapstructure:"SMTP_PASSWORD"`
	SMTPTimeout  time.Duration `mapstructure:"SMTP_TIMEOUT"`

	// Session storage.
	Store         string        `mapstructure:"STORE"`
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	RedisTTL      time.Duration `mapstructure:"REDIS_TTL"`

	// SessionKey enables at-rest encryption of stored sessions. Base64 of 32 bytes.
	SessionKey string `mapstructure:"SESSION_KEY"`
	// SessionPreviousKey still decrypts sessions written before a key rotation.
	SessionPreviousKey string `mapstructure:"SESSION_PREVIOUS_KEY"`

	RateLimitPerMin int    `mapstructure:"RATE_LIMIT_PER_MIN"`
	UnknownSession  string `mapstructure:"UNKNOWN_SESSION"`
}

// flagKeys maps CLI flag names to configuration keys.
var flagKeys = map[string]string{
	"port":  "PORT",
	"debug": "DEBUG",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 8080)
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_JSON", false)

	v.SetDefault("TO_MAIL", "")
	v.SetDefault("FROM_EMAIL", "")
	v.SetDefault("SMTP_SERVER", "")
	v.SetDefault("SMTP_PORT", 465)
	v.SetDefault("SMTP_LOGIN", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_TIMEOUT", 20*time.Second)

	v.SetDefault("STORE", StoreMemory)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_TTL", 24*time.Hour)
	v.SetDefault("SESSION_KEY", "")
	v.SetDefault("SESSION_PREVIOUS_KEY", "")

	v.SetDefault("RATE_LIMIT_PER_MIN", 120)
	v.SetDefault("UNKNOWN_SESSION", PolicyRestart)
}

// Load reads configuration with precedence flags > environment > file > defaults.
// An empty path looks for an optional aura.yaml in the working directory.
// flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("aura")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every inconsistent setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d is out of range", c.Port))
	}
	if c.Store != StoreMemory && c.Store != StoreRedis {
		errs = append(errs, fmt.Errorf("STORE must be %q or %q, got %q", StoreMemory, StoreRedis, c.Store))
	}
	if c.UnknownSession != PolicyRestart && c.UnknownSession != PolicyReject {
		errs = append(errs, fmt.Errorf("UNKNOWN_SESSION must be %q or %q, got %q", PolicyRestart, PolicyReject, c.UnknownSession))
	}
	if c.RateLimitPerMin < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_MIN must not be negative"))
	}
	if _, _, err := c.EncryptionKeys(); err != nil {
		errs = append(errs, err)
	}
	if c.SMTPEnabled() {
		if c.ToMail == "" {
			errs = append(errs, errors.New("TO_MAIL is required when SMTP_SERVER is set"))
		}
		if c.FromEmail == "" && c.SMTPLogin == "" {
			errs = append(errs, errors.New("FROM_EMAIL or SMTP_LOGIN is required when SMTP_SERVER is set"))
		}
	}
	return errors.Join(errs...)
}

// SMTPEnabled reports whether transcripts are delivered by mail.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPServer != ""
}

// EncryptionKeys decodes the session keys. active is nil when encryption is off.
func (c *Config) EncryptionKeys() (active []byte, fallback [][]byte, err error) {
	if c.SessionKey == "" {
		if c.SessionPreviousKey != "" {
			return nil, nil, errors.New("SESSION_PREVIOUS_KEY requires SESSION_KEY")
		}
		return nil, nil, nil
	}
	active, err = decodeKey("SESSION_KEY", c.SessionKey)
	if err != nil {
		return nil, nil, err
	}
	if c.SessionPreviousKey != "" {
		prev, err := decodeKey("SESSION_PREVIOUS_KEY", c.SessionPreviousKey)
		if err != nil {
			return nil, nil, err
		}
		fallback = append(fallback, prev)
	}
	return active, fallback, nil
}

func decodeKey(name, value string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%s is not valid base64: %w", name, err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("%s must decode to 32 bytes, got %d", name, len(key))
	}
	return key, nil
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
