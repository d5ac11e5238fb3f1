package config

import (
	"github.com/spf13/viper"
)

// Pebble embedded key-value store config struct
type Pebble struct {
	Path     string `json:"path" yaml:"path"`
	Prefix   string `json:"prefix" yaml:"prefix"`
	InMemory bool   `json:"in_memory" yaml:"in_memory"`
}

// getPebbleConfig reads Pebble configurations
func getPebbleConfig(v *viper.Viper) *Pebble {
	v.SetDefault("data.pebble.prefix", "rec:")
	return &Pebble{
		Path:     v.GetString("data.pebble.path"),
		Prefix:   v.GetString("data.pebble.prefix"),
		InMemory: v.GetBool("data.pebble.in_memory"),
	}
}
