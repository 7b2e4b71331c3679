// Package config loads the formcheck.yaml settings shared by the CLI
// commands.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no --config flag
// is given.
const DefaultFile = "formcheck.yaml"

// Store kinds.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Pattern matcher kinds.
const (
	PatternRegex     = "regex"
	PatternSubstring = "substring"
)

// Config is the root of formcheck.yaml.
type Config struct {
	LogLevel  string      `yaml:"log_level"`
	LogFormat string      `yaml:"log_format" validate:"oneof=text json"`
	Pattern   string      `yaml:"pattern" validate:"oneof=regex substring"`
	HTTP      HTTPConfig  `yaml:"http"`
	MCP       MCPConfig   `yaml:"mcp"`
	Store     StoreConfig `yaml:"store"`
}

type HTTPConfig struct {
	Port int `yaml:"port" validate:"min=1,max=65535"`
}

type MCPConfig struct {
	Transport string `yaml:"transport" validate:"oneof=stdio sse"`
	Port      int    `yaml:"port" validate:"min=1,max=65535"`
}

type StoreConfig struct {
	Kind     string        `yaml:"kind" validate:"oneof=memory file redis"`
	Dir      string        `yaml:"dir" validate:"required_if=Kind file"`
	CacheTTL time.Duration `yaml:"cache_ttl" validate:"min=0s"` // zero disables the read cache
	ReadOnly bool          `yaml:"read_only"`
	Redis    RedisConfig   `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db" validate:"min=0"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl" validate:"min=0s"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "text",
		Pattern:   PatternRegex,
		HTTP:      HTTPConfig{Port: 8080},
		MCP:       MCPConfig{Transport: "stdio", Port: 8081},
		Store: StoreConfig{
			Kind: StoreMemory,
			Dir:  ".formcheck/schemas",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "formcheck:schema:",
			},
		},
	}
}

// Load reads path over the defaults. A missing file is not an error when
// optional is true.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML into cfg, keeping the values the document omits, and
// validates the result.
func Parse(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid config: %w", err)
	}
	return cfg.Validate()
}

// Validate checks enumerations and ranges.
func (c Config) Validate() error {
	var errs []error
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if err := structValidator.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			errs = append(errs, fieldError(fe))
		}
	}
	if c.Store.Kind == StoreRedis && c.Store.Redis.Addr == "" {
		errs = append(errs, errors.New("store.redis.addr: required for the redis store"))
	}
	return errors.Join(errs...)
}

var structValidator = newStructValidator()

// newStructValidator reports fields by their YAML names.
func newStructValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func fieldError(fe validator.FieldError) error {
	// Namespace is "Config.store.kind"; drop the root type.
	_, key, _ := strings.Cut(fe.Namespace(), ".")
	switch fe.Tag() {
	case "oneof":
		return fmt.Errorf("%s: %q is not one of [%s]", key, fe.Value(), fe.Param())
	case "required_if":
		return fmt.Errorf("%s: required for the %s store", key, strings.TrimPrefix(fe.Param(), "Kind "))
	case "min":
		return fmt.Errorf("%s: %v is below %s", key, fe.Value(), fe.Param())
	case "max":
		return fmt.Errorf("%s: %v is above %s", key, fe.Value(), fe.Param())
	}
	return fmt.Errorf("%s: failed %s validation", key, fe.Tag())
}

// SlogLevel returns the configured log level. Call Validate first.
func (c Config) SlogLevel() slog.Level {
	level, _ := ParseLevel(c.LogLevel)
	return level
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: unknown level %q", s)
	}
	return level, nil
}
