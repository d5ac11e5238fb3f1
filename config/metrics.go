package config

import (
	"fmt"

	"github.com/ncobase/pagekit/metrics"
	"github.com/spf13/viper"
)

// Metrics represents the metrics configuration
type Metrics = metrics.Config

func getMetricsConfig(v *viper.Viper) (*Metrics, error) {
	cfg := metrics.DefaultConfig()
	if !v.IsSet("metrics") {
		return cfg, nil
	}
	if err := v.UnmarshalKey("metrics", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode metrics config: %w", err)
	}
	return cfg, nil
}
