package bitfield

import (
	"fmt"
	"math"
)

// Direction is the order in which sequential fields are laid out.
type Direction int

const (
	// MostSignificantFirst places the first field in the highest available bits.
	MostSignificantFirst Direction = iota
	// LeastSignificantFirst places the first field in bit 0.
	LeastSignificantFirst
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case MostSignificantFirst:
		return "msb-first"
	case LeastSignificantFirst:
		return "lsb-first"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Layout describes how fields are packed into one integer.
type Layout struct {
	width     int
	residue   int
	available int
	packing   Packing
	direction Direction
	fields    []int
}

// NewLayout validates and returns a layout.
//
// fields optionally declares the widths of the sequential fields; when given,
// their sum must fit in the available bits. A nil packing means Unsigned.
func NewLayout(width, residueWidth int, packing Packing, direction Direction, fields ...int) (*Layout, error) {
	if width != 32 && width != 64 {
		return nil, fmt.Errorf("%w: width must be 32 or 64, got %d", ErrInvalidLayout, width)
	}
	if residueWidth < 0 {
		return nil, fmt.Errorf("%w: negative residue width %d", ErrInvalidLayout, residueWidth)
	}
	if direction != MostSignificantFirst && direction != LeastSignificantFirst {
		return nil, fmt.Errorf("%w: unknown %s", ErrInvalidLayout, direction)
	}
	if packing == nil {
		packing = Unsigned{}
	}
	if err := packing.check(width, residueWidth); err != nil {
		return nil, err
	}

	available := width - residueWidth - packing.SignBits()
	if available < 1 {
		return nil, fmt.Errorf("%w: no sequential capacity left (width %d, residue %d, sign %d)",
			ErrInvalidLayout, width, residueWidth, packing.SignBits())
	}

	sum := 0
	for i, w := range fields {
		if w < 1 {
			return nil, fmt.Errorf("%w: field %d has width %d", ErrInvalidLayout, i, w)
		}
		sum += w
	}
	if sum > available {
		return nil, fmt.Errorf("%w: fields need %d bits, %d available", ErrInvalidLayout, sum, available)
	}

	l := &Layout{
		width:     width,
		residue:   residueWidth,
		available: available,
		packing:   packing,
		direction: direction,
	}
	if len(fields) > 0 {
		l.fields = append([]int(nil), fields...)
	}
	return l, nil
}

// MustLayout is like NewLayout but panics on error.
func MustLayout(width, residueWidth int, packing Packing, direction Direction, fields ...int) *Layout {
	l, err := NewLayout(width, residueWidth, packing, direction, fields...)
	if err != nil {
		panic(err)
	}
	return l
}

// Width returns the total width in bits.
func (l *Layout) Width() int { return l.width }

// ResidueWidth returns the residue width in bits.
func (l *Layout) ResidueWidth() int { return l.residue }

// Available returns the number of bits for sequential fields.
func (l *Layout) Available() int { return l.available }

// Direction returns the packing direction.
func (l *Layout) Direction() Direction { return l.direction }

// Packing returns the sign strategy.
func (l *Layout) Packing() Packing { return l.packing }

// Fields returns a copy of the declared field widths.
func (l *Layout) Fields() []int { return append([]int(nil), l.fields...) }

// shift returns the bit offset for a field of width w at cumulative position o.
func (l *Layout) shift(o, w int) int {
	if l.direction == LeastSignificantFirst {
		return o
	}
	return l.available - o - w
}

// Builder returns an empty builder for the layout.
func (l *Layout) Builder() Builder {
	return Builder{layout: l}
}

// Parser returns a parser over raw bits. Bits above the layout width are ignored.
func (l *Layout) Parser(bits uint64) Parser {
	return Parser{layout: l, bits: bits & mask(l.width)}
}

// ParseInt64 returns a parser over a signed value produced by Builder.Int64.
func (l *Layout) ParseInt64(v int64) Parser {
	return l.Parser(uint64(v))
}

// Pack writes values into the declared fields in order.
func (l *Layout) Pack(values ...uint64) (uint64, error) {
	if len(values) > len(l.fields) {
		return 0, fmt.Errorf("%w: %d values for %d declared fields", ErrCapacityExceeded, len(values), len(l.fields))
	}
	b := l.Builder()
	for i, v := range values {
		var ok bool
		if b, ok = b.TryAdd(v, l.fields[i]); !ok {
			return 0, fmt.Errorf("%w: field %d", ErrCapacityExceeded, i)
		}
	}
	return b.Bits(), nil
}

// Unpack reads every declared field from bits.
func (l *Layout) Unpack(bits uint64) ([]uint64, error) {
	p := l.Parser(bits)
	out := make([]uint64, len(l.fields))
	for i, w := range l.fields {
		var err error
		if out[i], p, err = p.Read(w); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Fits reports whether value can be stored in width bits without truncation.
func Fits(value uint64, width int) bool {
	if width >= 64 {
		return true
	}
	if width <= 0 {
		return false
	}
	return value <= mask(width)
}

// MaxValue returns the largest value a field of width bits can hold.
func MaxValue(width int) uint64 {
	return mask(width)
}

func mask(w int) uint64 {
	if w <= 0 {
		return 0
	}
	if w >= 64 {
		return math.MaxUint64
	}
	return uint64(1)<<uint(w) - 1
}
