package bitfield

// Builder accumulates fields for one encode operation. It is a value: every
// write returns a new Builder and leaves the receiver untouched, so a builder
// is never shared between writers.
type Builder struct {
	layout *Layout
	bits   uint64
	offset int
}

// Layout returns the builder's layout.
func (b Builder) Layout() *Layout { return b.layout }

// Offset returns the number of sequential bits written so far.
func (b Builder) Offset() int { return b.offset }

// Remaining returns the number of sequential bits still free.
func (b Builder) Remaining() int { return b.layout.available - b.offset }

// TryAdd writes the low width bits of value at the next sequential offset.
// It returns the unchanged builder and false when the field does not fit.
func (b Builder) TryAdd(value uint64, width int) (Builder, bool) {
	if width < 1 || width > b.Remaining() {
		return b, false
	}
	shift := b.layout.shift(b.offset, width)
	b.bits |= (value & mask(width)) << uint(shift)
	b.offset += width
	return b, true
}

// WithResidue places value in the residue bits, independent of the
// sequential fields.
func (b Builder) WithResidue(value uint64) (Builder, error) {
	bits, err := b.layout.packing.placeResidue(b.layout, b.bits, value)
	if err != nil {
		return b, err
	}
	b.bits = bits
	return b, nil
}

// Negative sets the sign bit. The sign is independent of the field values;
// callers keep sign and magnitude consistent.
func (b Builder) Negative() (Builder, error) {
	bits, err := b.layout.packing.setSign(b.layout, b.bits, true)
	if err != nil {
		return b, err
	}
	b.bits = bits
	return b, nil
}

// Positive clears the sign bit.
func (b Builder) Positive() (Builder, error) {
	bits, err := b.layout.packing.setSign(b.layout, b.bits, false)
	if err != nil {
		return b, err
	}
	b.bits = bits
	return b, nil
}

// Reset returns an empty builder for the same layout.
func (b Builder) Reset() Builder {
	return Builder{layout: b.layout}
}

// Bits returns the composed value as raw bits.
func (b Builder) Bits() uint64 { return b.bits }

// Uint64 returns the composed value as an unsigned integer.
func (b Builder) Uint64() uint64 { return b.bits }

// Uint32 returns the composed value of a 32-bit layout.
func (b Builder) Uint32() uint32 { return uint32(b.bits) }

// Int32 returns the composed value of a 32-bit layout as a signed integer.
func (b Builder) Int32() int32 { return int32(uint32(b.bits)) }

// Int64 returns the composed value as a signed integer. For 32-bit layouts
// the value is sign-extended from bit 31.
func (b Builder) Int64() int64 {
	if b.layout.width == 32 {
		if _, ok := b.layout.packing.(Signed); ok {
			return int64(int32(uint32(b.bits)))
		}
	}
	return int64(b.bits)
}
