package bitfield

import "fmt"

// Parser reads fields back in the order they were written.
type Parser struct {
	layout *Layout
	bits   uint64
	offset int
}

// Offset returns the number of sequential bits read so far.
func (p Parser) Offset() int { return p.offset }

// Remaining returns the number of sequential bits not yet read.
func (p Parser) Remaining() int { return p.layout.available - p.offset }

// Read returns the next field of width bits and the advanced parser.
// Reading past the available bits is a caller bug and returns ErrCapacityExceeded.
func (p Parser) Read(width int) (uint64, Parser, error) {
	if width < 1 || width > p.Remaining() {
		return 0, p, fmt.Errorf("%w: read of %d bits at offset %d of %d",
			ErrCapacityExceeded, width, p.offset, p.layout.available)
	}
	shift := p.layout.shift(p.offset, width)
	v := p.bits >> uint(shift) & mask(width)
	p.offset += width
	return v, p, nil
}

// Residue extracts the residue bits.
func (p Parser) Residue() (uint64, error) {
	return p.layout.packing.residue(p.layout, p.bits)
}

// IsNegative reports whether the sign bit is set.
func (p Parser) IsNegative() bool {
	return p.layout.packing.negative(p.layout, p.bits)
}

// Bits returns the raw bits being parsed.
func (p Parser) Bits() uint64 { return p.bits }
