package config

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/ncobase/pagekit/logging/logger"
	"github.com/ncobase/pagekit/validation/validator"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. PAGEKIT_PAGING_MAX_SIZE.
const EnvPrefix = "PAGEKIT"

var (
	config *Config
	path   string
	once   sync.Once
	mu     sync.Mutex
	v      *viper.Viper
)

// Config represents the configuration implementation.
type Config struct {
	AppName string
	RunMode string
	Logger  *Logger
	Paging  *Paging      `validate:"required"`
	SortID  *SortID      `validate:"required"`
	Data    *Data        `validate:"required"`
	Metrics *Metrics     `validate:"required"`
	Tracing *Tracing     `validate:"required"`
	Viper   *viper.Viper `validate:"-"`
}

func init() {
	flag.StringVar(&path, "conf", "", "e.g: bin ./config.yaml")
	v = viper.New()
}

// Init initializes and loads the configuration.
func Init() (cfg *Config, err error) {
	once.Do(func() {
		cfg, err = loadConfiguration()
	})
	return cfg, err
}

// GetConfig returns the configuration.
func GetConfig() (*Config, error) {
	mu.Lock()
	cfg := config
	mu.Unlock()
	if cfg != nil {
		return cfg, nil
	}
	cfg, err := Init()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	return cfg, nil
}

// loadConfiguration loads the configuration from the file and sets it globally.
func loadConfiguration() (*Config, error) {
	if !flag.Parsed() {
		flag.Parse()
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	mu.Lock()
	config = cfg
	mu.Unlock()
	return cfg, nil
}

// LoadConfig loads the configuration from the file. An empty path searches
// /etc/pagekit, $HOME/.pagekit, the working directory and the executable's
// directory for config.{yaml,json,toml}.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		ex, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to get executable path: %w", err)
		}
		v.SetConfigName("config")
		v.AddConfigPath("/etc/pagekit")
		v.AddConfigPath("$HOME/.pagekit")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Dir(ex))
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return fromViper(v)
}

// fromViper builds and validates a Config from an already loaded viper.
func fromViper(v *viper.Viper) (*Config, error) {
	metricsCfg, err := getMetricsConfig(v)
	if err != nil {
		return nil, err
	}
	tracingCfg, err := getTracingConfig(v)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AppName: getStringOrDefault(v, "app_name", "pagekit"),
		RunMode: getStringOrDefault(v, "run_mode", "release"),
		Logger:  getLoggerConfig(v),
		Paging:  getPagingConfig(v),
		SortID:  getSortIDConfig(v),
		Data:    getDataConfig(v),
		Metrics: metricsCfg,
		Tracing: tracingCfg,
		Viper:   v,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() (*Config, error) {
	return fromViper(viper.New())
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := validator.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Paging.DefaultSize > c.Paging.MaxSize {
		return fmt.Errorf("invalid config: paging.default_size %d exceeds paging.max_size %d",
			c.Paging.DefaultSize, c.Paging.MaxSize)
	}
	if _, err := c.SortID.Codec(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.Tracing.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Reload reloads the configuration from the file.
func Reload() error {
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}
	newConfig, err := fromViper(v)
	if err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}

	mu.Lock()
	config = newConfig
	mu.Unlock()
	return nil
}

// Watch watches the configuration file and reloads it when it changes.
func Watch(callback func(*Config)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		if err := Reload(); err != nil {
			logger.Errorf(context.Background(), "error reloading config %s: %v", e.Name, err)
			return
		}
		logger.Infof(context.Background(), "config reloaded after %s on %s", e.Op, e.Name)
		if callback != nil {
			mu.Lock()
			cfg := config
			mu.Unlock()
			callback(cfg)
		}
	})
	v.WatchConfig()
}
