package config

import (
	"github.com/ncobase/pagekit/paging"
	"github.com/spf13/viper"
)

// Paging represents the pagination defaults
type Paging struct {
	DefaultSize int  `json:"default_size" yaml:"default_size" validate:"min=1"`
	MaxSize     int  `json:"max_size" yaml:"max_size" validate:"min=1"`
	Override    bool `json:"override" yaml:"override"` // Allow MaxSize above paging.MaxPageSizeThreshold
	Jumps       bool `json:"jumps" yaml:"jumps"`
	CountTotal  bool `json:"count_total" yaml:"count_total"` // Count the collection on the first page
}

// Limits returns the sizing bounds of the configuration.
func (p *Paging) Limits() paging.Limits {
	return paging.Limits{
		DefaultSize: p.DefaultSize,
		MaxSize:     p.MaxSize,
		Override:    p.Override,
		CountTotal:  p.CountTotal,
	}
}

// PageSize returns size clamped to the configured bounds. A non-positive
// size selects DefaultSize.
func (p *Paging) PageSize(size int) paging.PageSize {
	return p.Limits().PageSize(size)
}

// FirstPage returns the first page request under these defaults.
func (p *Paging) FirstPage(size int, dir paging.SortDirection) paging.Request {
	return p.Limits().FirstPage(size, dir)
}

// EngineOptions returns the engine options implied by the configuration.
func (p *Paging) EngineOptions() []paging.Option {
	if p.Jumps {
		return nil
	}
	return []paging.Option{paging.WithoutJumps()}
}

func getPagingConfig(v *viper.Viper) *Paging {
	return &Paging{
		DefaultSize: getIntOrDefault(v, "paging.default_size", 20),
		MaxSize:     getIntOrDefault(v, "paging.max_size", paging.DefaultMaxPageSize),
		Override:    getBoolOrDefault(v, "paging.override", false),
		Jumps:       getBoolOrDefault(v, "paging.jumps", true),
		CountTotal:  getBoolOrDefault(v, "paging.count_total", false),
	}
}
