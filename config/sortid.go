package config

import (
	"time"

	"github.com/ncobase/pagekit/sortid"
	"github.com/spf13/viper"
)

// SortID represents the identifier layout and the local node
type SortID struct {
	TimestampBits int           `json:"timestamp_bits" yaml:"timestamp_bits"`
	NodeBits      int           `json:"node_bits" yaml:"node_bits"`
	SequenceBits  int           `json:"sequence_bits" yaml:"sequence_bits"`
	ResidueBits   int           `json:"residue_bits" yaml:"residue_bits"`
	Epoch         time.Time     `json:"epoch" yaml:"epoch"`
	Unit          time.Duration `json:"unit" yaml:"unit"`
	Node          uint64        `json:"node" yaml:"node"`
}

// Settings returns the codec settings.
func (s *SortID) Settings() sortid.Settings {
	return sortid.Settings{
		TimestampBits: s.TimestampBits,
		NodeBits:      s.NodeBits,
		SequenceBits:  s.SequenceBits,
		ResidueBits:   s.ResidueBits,
		Epoch:         s.Epoch,
		Unit:          s.Unit,
	}
}

// Codec returns a codec for the configured layout.
func (s *SortID) Codec() (*sortid.Codec, error) {
	return sortid.NewCodec(s.Settings())
}

// Generator returns a generator for the configured node.
func (s *SortID) Generator(opts ...sortid.GeneratorOption) (*sortid.Generator, error) {
	c, err := s.Codec()
	if err != nil {
		return nil, err
	}
	return sortid.NewGenerator(c, s.Node, opts...)
}

func getSortIDConfig(v *viper.Viper) *SortID {
	d := sortid.DefaultSettings()
	epoch := d.Epoch
	if v.IsSet("sortid.epoch") {
		epoch = v.GetTime("sortid.epoch").UTC()
	}
	return &SortID{
		TimestampBits: getIntOrDefault(v, "sortid.timestamp_bits", d.TimestampBits),
		NodeBits:      getIntOrDefault(v, "sortid.node_bits", d.NodeBits),
		SequenceBits:  getIntOrDefault(v, "sortid.sequence_bits", d.SequenceBits),
		ResidueBits:   getIntOrDefault(v, "sortid.residue_bits", d.ResidueBits),
		Epoch:         epoch,
		Unit:          getDurationOrDefault(v, "sortid.unit", d.Unit),
		Node:          uint64(getIntOrDefault(v, "sortid.node", 0)),
	}
}
