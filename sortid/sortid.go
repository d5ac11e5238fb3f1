// Package sortid encodes (timestamp, node, sequence) triples into signed
// 64-bit identifiers whose numeric order follows creation time.
//
// The field order is fixed: timestamp in the most significant available bits,
// then the node id, then the per-tick sequence. An optional residue sits
// below the sign bit and is meant for a secondary disambiguator such as an
// entity kind; identifiers only sort by time among equal residues.
package sortid

import (
	"errors"
	"fmt"
	"time"

	"github.com/ncobase/pagekit/bitfield"
	"github.com/ncobase/pagekit/validation/validator"
)

var (
	// ErrInvalidSettings is returned when settings cannot form a layout.
	ErrInvalidSettings = errors.New("sortid: invalid settings")

	// ErrInvalidID is returned for identifiers this codec never produces.
	ErrInvalidID = errors.New("sortid: invalid identifier")

	// ErrFieldOverflow is returned when a value does not fit its field.
	ErrFieldOverflow = errors.New("sortid: field overflow")
)

// DefaultEpoch is the epoch used by DefaultSettings.
var DefaultEpoch = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// Settings describes the identifier layout.
type Settings struct {
	TimestampBits int           `json:"timestamp_bits" yaml:"timestamp_bits" validate:"min=1,max=62"`
	NodeBits      int           `json:"node_bits" yaml:"node_bits" validate:"min=1,max=62"`
	SequenceBits  int           `json:"sequence_bits" yaml:"sequence_bits" validate:"min=1,max=62"`
	ResidueBits   int           `json:"residue_bits" yaml:"residue_bits" validate:"min=0,max=60"`
	Epoch         time.Time     `json:"epoch" yaml:"epoch"`
	Unit          time.Duration `json:"unit" yaml:"unit" validate:"gt=0"`
}

// DefaultSettings returns 41 timestamp bits in milliseconds, 10 node bits
// and 12 sequence bits.
func DefaultSettings() Settings {
	return Settings{
		TimestampBits: 41,
		NodeBits:      10,
		SequenceBits:  12,
		Epoch:         DefaultEpoch,
		Unit:          time.Millisecond,
	}
}

// Parts are the decoded fields of an identifier.
type Parts struct {
	Timestamp uint64 `json:"timestamp"`
	Node      uint64 `json:"node"`
	Sequence  uint64 `json:"sequence"`
	Residue   uint64 `json:"residue,omitempty"`
}

// Codec converts between Parts and identifiers.
type Codec struct {
	settings Settings
	layout   *bitfield.Layout
}

// NewCodec validates settings and returns a codec.
func NewCodec(s Settings) (*Codec, error) {
	if err := validator.Struct(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	layout, err := bitfield.NewLayout(64, s.ResidueBits, bitfield.Signed{}, bitfield.MostSignificantFirst,
		s.TimestampBits, s.NodeBits, s.SequenceBits)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return &Codec{settings: s, layout: layout}, nil
}

// MustCodec is like NewCodec but panics on error.
func MustCodec(s Settings) *Codec {
	c, err := NewCodec(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Settings returns the codec settings.
func (c *Codec) Settings() Settings { return c.settings }

// Layout returns the underlying bit layout.
func (c *Codec) Layout() *bitfield.Layout { return c.layout }

// Encode packs the fields into an identifier. Values wider than their field
// are truncated to the field's low bits; use EncodeChecked to reject them.
func (c *Codec) Encode(ts, node, seq uint64) int64 {
	return c.encode(Parts{Timestamp: ts, Node: node, Sequence: seq})
}

// EncodeChecked packs p after checking every field fits.
func (c *Codec) EncodeChecked(p Parts) (int64, error) {
	if err := c.check(p); err != nil {
		return 0, err
	}
	return c.encode(p), nil
}

func (c *Codec) encode(p Parts) int64 {
	b := c.layout.Builder()
	b, _ = b.TryAdd(p.Timestamp, c.settings.TimestampBits)
	b, _ = b.TryAdd(p.Node, c.settings.NodeBits)
	b, _ = b.TryAdd(p.Sequence, c.settings.SequenceBits)
	if c.settings.ResidueBits > 0 {
		b, _ = b.WithResidue(p.Residue)
	}
	return b.Int64()
}

func (c *Codec) check(p Parts) error {
	fields := []struct {
		name  string
		value uint64
		width int
	}{
		{"timestamp", p.Timestamp, c.settings.TimestampBits},
		{"node", p.Node, c.settings.NodeBits},
		{"sequence", p.Sequence, c.settings.SequenceBits},
		{"residue", p.Residue, c.settings.ResidueBits},
	}
	for _, f := range fields {
		if f.width == 0 && f.value == 0 {
			continue
		}
		if !bitfield.Fits(f.value, f.width) {
			return fmt.Errorf("%w: %s %d exceeds %d bits", ErrFieldOverflow, f.name, f.value, f.width)
		}
	}
	return nil
}

// Decode replays the field order of Encode.
func (c *Codec) Decode(id int64) (Parts, error) {
	if err := c.Validate(id); err != nil {
		return Parts{}, err
	}
	var (
		p   Parts
		err error
	)
	r := c.layout.ParseInt64(id)
	if p.Timestamp, r, err = r.Read(c.settings.TimestampBits); err != nil {
		return Parts{}, err
	}
	if p.Node, r, err = r.Read(c.settings.NodeBits); err != nil {
		return Parts{}, err
	}
	if p.Sequence, r, err = r.Read(c.settings.SequenceBits); err != nil {
		return Parts{}, err
	}
	if c.settings.ResidueBits > 0 {
		if p.Residue, err = r.Residue(); err != nil {
			return Parts{}, err
		}
	}
	return p, nil
}

// Validate rejects identifiers the codec cannot have produced: zero,
// negative values and bits set in the unused gap between fields and residue.
func (c *Codec) Validate(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	used := c.settings.TimestampBits + c.settings.NodeBits + c.settings.SequenceBits
	gap := c.layout.Available() - used
	if gap > 0 {
		// MSB-first packing leaves the gap in the lowest bits.
		if uint64(id)&bitfield.MaxValue(gap) != 0 {
			return fmt.Errorf("%w: %d has bits outside the layout", ErrInvalidID, id)
		}
	}
	return nil
}

// Ticks converts t to timestamp units since the epoch.
func (c *Codec) Ticks(t time.Time) (uint64, error) {
	d := t.Sub(c.settings.Epoch)
	if d < 0 {
		return 0, fmt.Errorf("%w: %s is before epoch %s", ErrFieldOverflow, t, c.settings.Epoch)
	}
	ticks := uint64(d / c.settings.Unit)
	if !bitfield.Fits(ticks, c.settings.TimestampBits) {
		return 0, fmt.Errorf("%w: %s is past the last representable tick", ErrFieldOverflow, t)
	}
	return ticks, nil
}

// Time converts a decoded timestamp back to wall time.
func (c *Codec) Time(p Parts) time.Time {
	return c.settings.Epoch.Add(time.Duration(p.Timestamp) * c.settings.Unit)
}

// LowerBound returns the smallest identifier created at or after t, for
// time-range filters over identifier columns.
func (c *Codec) LowerBound(t time.Time) (int64, error) {
	ticks, err := c.Ticks(t)
	if err != nil {
		return 0, err
	}
	return c.Encode(ticks, 0, 0), nil
}
