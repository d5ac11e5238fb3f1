package config

import (
	"fmt"

	"github.com/ncobase/pagekit/tracing"
	"github.com/spf13/viper"
)

// Tracing represents the trace export configuration
type Tracing = tracing.Config

func getTracingConfig(v *viper.Viper) (*Tracing, error) {
	cfg := tracing.DefaultConfig()
	if !v.IsSet("tracing") {
		return cfg, nil
	}
	if err := v.UnmarshalKey("tracing", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode tracing config: %w", err)
	}
	return cfg, nil
}
