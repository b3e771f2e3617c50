// Package config loads server and CLI settings from defaults, an optional
// YAML file, a .env file and PROJECTION_EDITOR_* environment variables, in
// that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PROJECTION_EDITOR_"

// Store kinds.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config is the resolved configuration.
type Config struct {
	Addr        string `mapstructure:"addr"`
	Variant     string `mapstructure:"variant"`
	VariantsDir string `mapstructure:"variants_dir"`
	LogLevel    string `mapstructure:"log_level"`
	Store       Store  `mapstructure:"store"`
	Theme       Theme  `mapstructure:"theme"`

	// SecureCookie marks the session cookie Secure; set it behind TLS.
	SecureCookie bool `mapstructure:"secure_cookie"`
}

// Store selects the session backend.
type Store struct {
	Kind  string        `mapstructure:"kind"`
	TTL   time.Duration `mapstructure:"ttl"`
	Redis Redis         `mapstructure:"redis"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Theme configures the page theme. Tokens become CSS custom properties.
type Theme struct {
	Name    string            `mapstructure:"name"`
	Variant string            `mapstructure:"variant"`
	Tokens  map[string]string `mapstructure:"tokens"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:     ":8080",
		Variant:  "shared",
		LogLevel: "info",
		Store: Store{
			Kind: StoreMemory,
			TTL:  24 * time.Hour,
			Redis: Redis{
				Addr: "localhost:6379",
			},
		},
	}
}

// Load resolves the configuration. path may be empty; a missing .env file is
// not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	return decodeYAML(data, cfg)
}

func decodeYAML(data []byte, cfg *Config) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("config: parse yaml: %w", err)
	}
	if raw == nil {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return fmt.Errorf("config: decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("config: decode: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		value, ok := lookup(EnvPrefix + key)
		if !ok {
			return "", false
		}
		return strings.TrimSpace(value), true
	}

	strs := map[string]*string{
		"ADDR":           &cfg.Addr,
		"VARIANT":        &cfg.Variant,
		"VARIANTS_DIR":   &cfg.VariantsDir,
		"LOG_LEVEL":      &cfg.LogLevel,
		"STORE_KIND":     &cfg.Store.Kind,
		"REDIS_ADDR":     &cfg.Store.Redis.Addr,
		"REDIS_PASSWORD": &cfg.Store.Redis.Password,
		"THEME_NAME":     &cfg.Theme.Name,
		"THEME_VARIANT":  &cfg.Theme.Variant,
	}
	for key, dst := range strs {
		if value, ok := get(key); ok {
			*dst = value
		}
	}

	if value, ok := get("STORE_TTL"); ok {
		ttl, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("config: %sSTORE_TTL: %w", EnvPrefix, err)
		}
		cfg.Store.TTL = ttl
	}
	if value, ok := get("SECURE_COOKIE"); ok {
		secure, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("config: %sSECURE_COOKIE: %w", EnvPrefix, err)
		}
		cfg.SecureCookie = secure
	}
	if value, ok := get("REDIS_DB"); ok {
		db, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("config: %sREDIS_DB: %w", EnvPrefix, err)
		}
		cfg.Store.Redis.DB = db
	}
	return nil
}

// Validate checks the resolved values.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if strings.TrimSpace(c.Variant) == "" {
		errs = append(errs, errors.New("variant is required"))
	}
	switch c.Store.Kind {
	case StoreMemory:
	case StoreRedis:
		if c.Store.Redis.Addr == "" {
			errs = append(errs, errors.New("store.redis.addr is required for the redis store"))
		}
		if c.Store.Redis.DB < 0 {
			errs = append(errs, errors.New("store.redis.db must not be negative"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.kind %q must be %q or %q", c.Store.Kind, StoreMemory, StoreRedis))
	}
	if c.Store.TTL < 0 {
		errs = append(errs, errors.New("store.ttl must not be negative"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
