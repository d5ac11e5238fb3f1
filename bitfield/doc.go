// Package bitfield packs several narrow unsigned fields into one fixed-width
// integer and reads them back.
//
// A Layout fixes the total width (32 or 64 bits), the residue width, the
// packing strategy (Signed or Unsigned) and the direction in which sequential
// fields are laid out. Layouts are immutable and safe to share; encoding and
// decoding happen on Builder and Parser values, one per operation.
//
// # Packing
//
//	layout, err := bitfield.NewLayout(64, 0, bitfield.Signed{}, bitfield.MostSignificantFirst, 41, 10, 12)
//	if err != nil {
//	    return err
//	}
//
//	b := layout.Builder()
//	b, _ = b.TryAdd(ts, 41)
//	b, _ = b.TryAdd(node, 10)
//	b, _ = b.TryAdd(seq, 12)
//	id := b.Int64()
//
// # Unpacking
//
// Reads must replay the writes in the same order. The layout carries no
// self-describing header, so decoding with a different direction silently
// yields different values.
//
//	p := layout.ParseInt64(id)
//	ts, p, _ := p.Read(41)
//	node, p, _ := p.Read(10)
//	seq, _, _ := p.Read(12)
//
// # Capacity and truncation
//
// TryAdd refuses a field that does not fit in the remaining capacity and
// returns the builder unchanged. A value wider than its field is truncated to
// the field's low bits; use Fits to reject such values upstream.
//
// # Residue and sign
//
// With Signed packing the top bit is the sign and the residue occupies the
// bits directly below it, independent of the sequential fields. Unsigned
// packing has neither; residue and sign operations return ErrSignedOnly.
package bitfield
