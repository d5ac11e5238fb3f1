package config

import (
	"github.com/spf13/viper"
)

// Config data config struct
type Config struct {
	*Database `yaml:"database" json:"database"`
	*Redis    `yaml:"redis" json:"redis"`
	*MongoDB  `yaml:"mongodb" json:"mongodb"`
	*Pebble   `yaml:"pebble" json:"pebble"`
	// Store selects the collection backend: a database driver name,
	// "mongodb" or "pebble".
	Store string `yaml:"store" json:"store" validate:"omitempty,oneof=mysql postgres sqlite mongodb pebble"`
}

// GetConfig returns data config
func GetConfig(v *viper.Viper) *Config {
	return &Config{
		Database: getDatabaseConfig(v),
		Redis:    getRedisConfigs(v),
		MongoDB:  getMongoDBConfigs(v),
		Pebble:   getPebbleConfig(v),
		Store:    v.GetString("data.store"),
	}
}
