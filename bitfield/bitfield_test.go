package bitfield

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		name      string
		width     int
		residue   int
		packing   Packing
		direction Direction
		fields    []int
		values    []uint64
	}{
		{"signed64 msb snowflake", 64, 0, Signed{}, MostSignificantFirst, []int{41, 10, 12}, []uint64{1<<41 - 1, 1023, 4095}},
		{"signed64 lsb snowflake", 64, 0, Signed{}, LeastSignificantFirst, []int{41, 10, 12}, []uint64{123456789, 7, 42}},
		{"signed64 msb residue", 64, 8, Signed{}, MostSignificantFirst, []int{40, 15}, []uint64{99, 300}},
		{"unsigned64 full width", 64, 0, Unsigned{}, MostSignificantFirst, []int{32, 32}, []uint64{math.MaxUint32, 1}},
		{"unsigned64 single field", 64, 0, Unsigned{}, LeastSignificantFirst, []int{64}, []uint64{math.MaxUint64}},
		{"signed32 msb", 32, 3, Signed{}, MostSignificantFirst, []int{20, 8}, []uint64{1<<20 - 1, 200}},
		{"unsigned32 lsb", 32, 0, Unsigned{}, LeastSignificantFirst, []int{1, 15, 16}, []uint64{1, 12345, 65535}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l, err := NewLayout(tc.width, tc.residue, tc.packing, tc.direction, tc.fields...)
			require.NoError(t, err)

			b := l.Builder()
			for i, v := range tc.values {
				var ok bool
				b, ok = b.TryAdd(v, tc.fields[i])
				require.True(t, ok, "field %d", i)
			}

			p := l.Parser(b.Bits())
			for i, want := range tc.values {
				var got uint64
				got, p, err = p.Read(tc.fields[i])
				require.NoError(t, err)
				assert.Equal(t, want, got, "field %d", i)
			}

			unpacked, err := l.Unpack(b.Bits())
			require.NoError(t, err)
			assert.Equal(t, tc.values, unpacked)
		})
	}
}

func TestBitPositions(t *testing.T) {
	msb := MustLayout(64, 0, Signed{}, MostSignificantFirst, 41, 10, 12)
	bits, err := msb.Pack(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<22|2<<12|3), bits)

	lsb := MustLayout(64, 0, Signed{}, LeastSignificantFirst, 41, 10, 12)
	bits, err = lsb.Pack(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(1|2<<41|3<<51), bits)
}

func TestTryAddRefusesOverflow(t *testing.T) {
	l := MustLayout(32, 0, Unsigned{}, MostSignificantFirst)

	b, ok := l.Builder().TryAdd(0x3FFFFFFF, 30)
	require.True(t, ok)
	before := b

	after, ok := b.TryAdd(0x7, 3)
	assert.False(t, ok)
	assert.Equal(t, before.Bits(), after.Bits())
	assert.Equal(t, 30, after.Offset())
	assert.Equal(t, 2, after.Remaining())

	after, ok = b.TryAdd(0x3, 2)
	assert.True(t, ok)
	assert.Equal(t, uint32(math.MaxUint32), after.Uint32())
}

func TestTryAddIsPure(t *testing.T) {
	l := MustLayout(64, 0, Unsigned{}, LeastSignificantFirst)
	base := l.Builder()

	b1, _ := base.TryAdd(5, 8)
	b2, _ := base.TryAdd(9, 8)

	assert.Equal(t, uint64(0), base.Bits())
	assert.Equal(t, uint64(5), b1.Bits())
	assert.Equal(t, uint64(9), b2.Bits())
}

func TestTruncation(t *testing.T) {
	l := MustLayout(32, 0, Unsigned{}, LeastSignificantFirst, 4, 4)

	bits, err := l.Pack(0xFF, 0x1)
	require.NoError(t, err)

	values, err := l.Unpack(bits)
	require.NoError(t, err)
	assert.Equal(t, []uint64{0xF, 0x1}, values)

	assert.False(t, Fits(0xFF, 4))
	assert.True(t, Fits(0xF, 4))
	assert.True(t, Fits(math.MaxUint64, 64))
	assert.Equal(t, uint64(0xF), MaxValue(4))
}

func TestResidue(t *testing.T) {
	l := MustLayout(64, 4, Signed{}, MostSignificantFirst, 41, 10, 8)
	assert.Equal(t, 59, l.Available())

	b := l.Builder()
	b, err := b.WithResidue(0xA)
	require.NoError(t, err)
	b, _ = b.TryAdd(1<<41-1, 41)
	b, _ = b.TryAdd(1023, 10)
	b, _ = b.TryAdd(255, 8)

	p := l.Parser(b.Bits())
	residue, err := p.Residue()
	require.NoError(t, err)
	assert.Equal(t, uint64(0xA), residue)
	assert.False(t, p.IsNegative())

	values, err := l.Unpack(b.Bits())
	require.NoError(t, err)
	assert.Equal(t, []uint64{1<<41 - 1, 1023, 255}, values)

	// residue is overwritten in place, fields untouched
	b, err = b.WithResidue(0x3)
	require.NoError(t, err)
	residue, err = l.Parser(b.Bits()).Residue()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x3), residue)
	values, err = l.Unpack(b.Bits())
	require.NoError(t, err)
	assert.Equal(t, []uint64{1<<41 - 1, 1023, 255}, values)
}

func TestResidueDisabledAndUnsigned(t *testing.T) {
	signed := MustLayout(64, 0, Signed{}, MostSignificantFirst)
	_, err := signed.Builder().WithResidue(1)
	assert.ErrorIs(t, err, ErrResidueDisabled)
	_, err = signed.Parser(0).Residue()
	assert.ErrorIs(t, err, ErrResidueDisabled)

	unsigned := MustLayout(64, 0, Unsigned{}, MostSignificantFirst)
	_, err = unsigned.Builder().WithResidue(1)
	assert.ErrorIs(t, err, ErrSignedOnly)
	_, err = unsigned.Builder().Negative()
	assert.ErrorIs(t, err, ErrSignedOnly)
	_, err = unsigned.Parser(0).Residue()
	assert.ErrorIs(t, err, ErrSignedOnly)
	assert.False(t, unsigned.Parser(math.MaxUint64).IsNegative())
}

func TestSign(t *testing.T) {
	l64 := MustLayout(64, 0, Signed{}, MostSignificantFirst, 20)
	b, _ := l64.Builder().TryAdd(7, 20)
	neg, err := b.Negative()
	require.NoError(t, err)
	assert.Less(t, neg.Int64(), int64(0))
	assert.True(t, l64.ParseInt64(neg.Int64()).IsNegative())

	v, _, err := l64.ParseInt64(neg.Int64()).Read(20)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), v)

	pos, err := neg.Positive()
	require.NoError(t, err)
	assert.Equal(t, b.Int64(), pos.Int64())

	l32 := MustLayout(32, 0, Signed{}, LeastSignificantFirst, 16)
	b32, _ := l32.Builder().TryAdd(300, 16)
	neg32, err := b32.Negative()
	require.NoError(t, err)
	assert.Less(t, neg32.Int32(), int32(0))
	assert.Less(t, neg32.Int64(), int64(0))
	p := l32.ParseInt64(neg32.Int64())
	assert.True(t, p.IsNegative())
	v, _, err = p.Read(16)
	require.NoError(t, err)
	assert.Equal(t, uint64(300), v)
}

func TestWrongDirectionDecode(t *testing.T) {
	msb := MustLayout(32, 0, Unsigned{}, MostSignificantFirst, 8, 8)
	lsb := MustLayout(32, 0, Unsigned{}, LeastSignificantFirst, 8, 8)

	bits, err := msb.Pack(1, 2)
	require.NoError(t, err)

	right, err := msb.Unpack(bits)
	require.NoError(t, err)
	wrong, err := lsb.Unpack(bits)
	require.NoError(t, err)

	assert.Equal(t, []uint64{1, 2}, right)
	assert.NotEqual(t, right, wrong)
}

func TestMonotonicOrdering(t *testing.T) {
	for _, dir := range []Direction{MostSignificantFirst, LeastSignificantFirst} {
		l := MustLayout(64, 0, Signed{}, dir, 41, 10, 12)
		prev := int64(-1)
		for ts := uint64(1000); ts < 1100; ts++ {
			b := l.Builder()
			b, _ = b.TryAdd(ts, 41)
			b, _ = b.TryAdd(5, 10)
			b, _ = b.TryAdd(9, 12)
			assert.Greater(t, b.Int64(), prev, "%s ts=%d", dir, ts)
			prev = b.Int64()
		}
	}
}

func TestReadPastCapacity(t *testing.T) {
	l := MustLayout(32, 0, Unsigned{}, MostSignificantFirst)
	p := l.Parser(0)
	_, p, err := p.Read(30)
	require.NoError(t, err)
	_, _, err = p.Read(3)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	_, _, err = p.Read(0)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestPackTooManyValues(t *testing.T) {
	l := MustLayout(32, 0, Unsigned{}, MostSignificantFirst, 8)
	_, err := l.Pack(1, 2)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestNewLayoutErrors(t *testing.T) {
	cases := []struct {
		name    string
		width   int
		residue int
		packing Packing
		fields  []int
	}{
		{"bad width", 48, 0, Unsigned{}, nil},
		{"negative residue", 64, -1, Signed{}, nil},
		{"unsigned residue", 64, 3, Unsigned{}, nil},
		{"no capacity below sign", 32, 31, Signed{}, nil},
		{"fields too wide", 64, 0, Signed{}, []int{41, 10, 13}},
		{"zero width field", 32, 0, Unsigned{}, []int{8, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLayout(tc.width, tc.residue, tc.packing, MostSignificantFirst, tc.fields...)
			assert.ErrorIs(t, err, ErrInvalidLayout)
		})
	}

	assert.Panics(t, func() { MustLayout(16, 0, nil, MostSignificantFirst) })
}

func TestLayoutAccessors(t *testing.T) {
	l := MustLayout(32, 2, Signed{}, LeastSignificantFirst, 10, 10)
	assert.Equal(t, 32, l.Width())
	assert.Equal(t, 2, l.ResidueWidth())
	assert.Equal(t, 29, l.Available())
	assert.Equal(t, LeastSignificantFirst, l.Direction())
	assert.Equal(t, "signed", l.Packing().Name())
	assert.Equal(t, []int{10, 10}, l.Fields())
	assert.Equal(t, "lsb-first", l.Direction().String())

	def := MustLayout(64, 0, nil, MostSignificantFirst)
	assert.Equal(t, "unsigned", def.Packing().Name())
	assert.Equal(t, 64, def.Available())
}

func TestReset(t *testing.T) {
	l := MustLayout(64, 0, Unsigned{}, MostSignificantFirst)
	b, _ := l.Builder().TryAdd(3, 4)
	r := b.Reset()
	assert.Equal(t, uint64(0), r.Bits())
	assert.Equal(t, 0, r.Offset())
	assert.Same(t, l, r.Layout())
}
