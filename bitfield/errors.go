package bitfield

import "errors"

var (
	// ErrInvalidLayout is returned when a layout cannot be constructed.
	ErrInvalidLayout = errors.New("bitfield: invalid layout")

	// ErrCapacityExceeded is returned when a read or pack goes past the available bits.
	ErrCapacityExceeded = errors.New("bitfield: capacity exceeded")

	// ErrSignedOnly is returned by residue and sign operations on unsigned layouts.
	ErrSignedOnly = errors.New("bitfield: operation requires signed packing")

	// ErrResidueDisabled is returned by residue operations when the residue width is zero.
	ErrResidueDisabled = errors.New("bitfield: residue disabled")
)
