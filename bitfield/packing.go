package bitfield

import "fmt"

// Packing is the sign strategy of a layout. The two implementations are
// Signed and Unsigned.
type Packing interface {
	// Name returns the strategy name.
	Name() string
	// SignBits returns the number of bits reserved for the sign.
	SignBits() int

	check(width, residueWidth int) error
	placeResidue(l *Layout, bits, value uint64) (uint64, error)
	residue(l *Layout, bits uint64) (uint64, error)
	setSign(l *Layout, bits uint64, negative bool) (uint64, error)
	negative(l *Layout, bits uint64) bool
}

// Signed reserves the top bit for the sign and the bits below it for the residue.
type Signed struct{}

// Name implements Packing.
func (Signed) Name() string { return "signed" }

// SignBits implements Packing.
func (Signed) SignBits() int { return 1 }

func (Signed) check(width, residueWidth int) error {
	if residueWidth >= width-1 {
		return fmt.Errorf("%w: residue width %d leaves no room below the sign bit", ErrInvalidLayout, residueWidth)
	}
	return nil
}

func (Signed) placeResidue(l *Layout, bits, value uint64) (uint64, error) {
	if l.residue == 0 {
		return bits, ErrResidueDisabled
	}
	m := mask(l.residue) << uint(l.available)
	return bits&^m | (value&mask(l.residue))<<uint(l.available), nil
}

func (Signed) residue(l *Layout, bits uint64) (uint64, error) {
	if l.residue == 0 {
		return 0, ErrResidueDisabled
	}
	return bits >> uint(l.available) & mask(l.residue), nil
}

func (Signed) setSign(l *Layout, bits uint64, negative bool) (uint64, error) {
	sign := uint64(1) << uint(l.width-1)
	if negative {
		return bits | sign, nil
	}
	return bits &^ sign, nil
}

func (Signed) negative(l *Layout, bits uint64) bool {
	return bits>>uint(l.width-1)&1 == 1
}

// Unsigned uses every bit for sequential fields.
type Unsigned struct{}

// Name implements Packing.
func (Unsigned) Name() string { return "unsigned" }

// SignBits implements Packing.
func (Unsigned) SignBits() int { return 0 }

func (Unsigned) check(_, residueWidth int) error {
	if residueWidth != 0 {
		return fmt.Errorf("%w: unsigned packing has no residue, got width %d", ErrInvalidLayout, residueWidth)
	}
	return nil
}

func (Unsigned) placeResidue(_ *Layout, bits, _ uint64) (uint64, error) {
	return bits, ErrSignedOnly
}

func (Unsigned) residue(*Layout, uint64) (uint64, error) {
	return 0, ErrSignedOnly
}

func (Unsigned) setSign(_ *Layout, bits uint64, _ bool) (uint64, error) {
	return bits, ErrSignedOnly
}

func (Unsigned) negative(*Layout, uint64) bool { return false }
