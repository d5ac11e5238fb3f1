package sortid

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ncobase/pagekit/bitfield"
)

// ErrClockBackwards is returned when the clock moves behind the last issued tick.
var ErrClockBackwards = errors.New("sortid: clock moved backwards")

// Generator issues increasing identifiers for one node.
type Generator struct {
	codec   *Codec
	node    uint64
	residue uint64
	now     func() time.Time
	sleep   func(time.Duration)

	mu   sync.Mutex
	last uint64
	seq  uint64
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) { g.now = now }
}

// WithSleep replaces time.Sleep while waiting for the next tick.
func WithSleep(sleep func(time.Duration)) GeneratorOption {
	return func(g *Generator) { g.sleep = sleep }
}

// WithResidue stamps every identifier with residue.
func WithResidue(residue uint64) GeneratorOption {
	return func(g *Generator) { g.residue = residue }
}

// NewGenerator returns a generator for node.
func NewGenerator(c *Codec, node uint64, opts ...GeneratorOption) (*Generator, error) {
	if !bitfield.Fits(node, c.settings.NodeBits) {
		return nil, fmt.Errorf("%w: node %d exceeds %d bits", ErrFieldOverflow, node, c.settings.NodeBits)
	}
	g := &Generator{
		codec: c,
		node:  node,
		now:   time.Now,
		sleep: time.Sleep,
	}
	for _, opt := range opts {
		opt(g)
	}
	if c.settings.ResidueBits == 0 {
		g.residue = 0
	} else if !bitfield.Fits(g.residue, c.settings.ResidueBits) {
		return nil, fmt.Errorf("%w: residue %d exceeds %d bits", ErrFieldOverflow, g.residue, c.settings.ResidueBits)
	}
	return g, nil
}

// Node returns the generator's node id.
func (g *Generator) Node() uint64 { return g.node }

// Next returns the next identifier. When the sequence of the current tick is
// exhausted it waits for the clock to advance.
func (g *Generator) Next() (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ticks, err := g.codec.Ticks(g.now())
	if err != nil {
		return 0, err
	}
	if ticks < g.last {
		return 0, fmt.Errorf("%w: tick %d < %d", ErrClockBackwards, ticks, g.last)
	}

	if ticks == g.last {
		g.seq++
		if g.seq > bitfield.MaxValue(g.codec.settings.SequenceBits) {
			for ticks <= g.last {
				g.sleep(g.codec.settings.Unit)
				if ticks, err = g.codec.Ticks(g.now()); err != nil {
					return 0, err
				}
			}
			g.seq = 0
		}
	} else {
		g.seq = 0
	}
	g.last = ticks

	return g.codec.encode(Parts{
		Timestamp: ticks,
		Node:      g.node,
		Sequence:  g.seq,
		Residue:   g.residue,
	}), nil
}
