package corrupt

import (
	"fmt"
	"strings"
)

// BitBuffer is a growable sequence of bits backed by packed bytes.
//
// Bit 0 is the most significant bit of the first byte. Bits past Len inside
// the last byte are always zero, so padding the buffer to a byte boundary
// never leaks stale data.
type BitBuffer struct {
	buf []byte
	n   uint64
}

// NewBitBuffer returns a buffer holding a copy of data, 8 bits per byte.
func NewBitBuffer(data []byte) *BitBuffer {
	buf := make([]byte, len(data))
	copy(buf, data)

	return &BitBuffer{buf: buf, n: uint64(len(data)) * 8}
}

// BitBufferFromBools returns a buffer with one bit per element of bits.
func BitBufferFromBools(bits []bool) *BitBuffer {
	b := &BitBuffer{
		buf: make([]byte, (len(bits)+7)/8),
		n:   uint64(len(bits)),
	}

	for i, v := range bits {
		if v {
			b.buf[i>>3] |= 0x80 >> (i & 7)
		}
	}

	return b
}

// Len returns the number of bits in the buffer.
func (b *BitBuffer) Len() uint64 {
	return b.n
}

// Bit reports whether bit i is set. Panics if i >= Len.
func (b *BitBuffer) Bit(i uint64) bool {
	b.check(i)

	return b.get(i)
}

// SetBit sets bit i to v. Panics if i >= Len.
func (b *BitBuffer) SetBit(i uint64, v bool) {
	b.check(i)
	b.set(i, v)
}

// FlipBit inverts bit i. Panics if i >= Len.
func (b *BitBuffer) FlipBit(i uint64) {
	b.check(i)
	b.buf[i>>3] ^= 0x80 >> (i & 7)
}

// Remove deletes up to n bits starting at from and shifts the following bits
// left. Requests past the end are clamped; from >= Len is a no-op.
// Returns the number of bits removed.
func (b *BitBuffer) Remove(from, n uint64) uint64 {
	if from >= b.n || n == 0 {
		return 0
	}

	n = min(n, b.n-from)
	end := from + n

	if from%8 == 0 && n%8 == 0 {
		copy(b.buf[from/8:], b.buf[end/8:])
	} else {
		for src := end; src < b.n; src++ {
			b.set(src-n, b.get(src))
		}
	}

	b.n -= n
	b.buf = b.buf[:(b.n+7)/8]

	if rem := b.n % 8; rem != 0 {
		b.buf[len(b.buf)-1] &= 0xFF << (8 - rem)
	}

	return n
}

// Bytes packs the buffer back into bytes.
// Returns [ErrLength] if Len is not a multiple of 8.
func (b *BitBuffer) Bytes() ([]byte, error) {
	if b.n%8 != 0 {
		return nil, fmt.Errorf("%w: %d bits", ErrLength, b.n)
	}

	out := make([]byte, len(b.buf))
	copy(out, b.buf)

	return out, nil
}

// Bools returns the buffer as one bool per bit.
func (b *BitBuffer) Bools() []bool {
	out := make([]bool, b.n)
	for i := range out {
		out[i] = b.get(uint64(i))
	}

	return out
}

// Clone returns an independent copy of the buffer.
func (b *BitBuffer) Clone() *BitBuffer {
	buf := make([]byte, len(b.buf))
	copy(buf, b.buf)

	return &BitBuffer{buf: buf, n: b.n}
}

// String renders the bits as '0' and '1' characters.
func (b *BitBuffer) String() string {
	var sb strings.Builder

	sb.Grow(int(b.n))

	for i := range b.n {
		if b.get(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}

	return sb.String()
}

// aligned serializes the buffer according to align.
func (b *BitBuffer) aligned(align Align) ([]byte, error) {
	switch align {
	case AlignPad:
		out := make([]byte, len(b.buf))
		copy(out, b.buf)

		return out, nil
	case AlignTruncate:
		out := make([]byte, b.n/8)
		copy(out, b.buf)

		return out, nil
	case AlignStrict:
		return b.Bytes()
	default:
		panic(fmt.Sprintf("corrupt: unknown align %d", align))
	}
}

func (b *BitBuffer) get(i uint64) bool {
	return b.buf[i>>3]&(0x80>>(i&7)) != 0
}

func (b *BitBuffer) set(i uint64, v bool) {
	mask := byte(0x80) >> (i & 7)
	if v {
		b.buf[i>>3] |= mask
	} else {
		b.buf[i>>3] &^= mask
	}
}

func (b *BitBuffer) check(i uint64) {
	if i >= b.n {
		panic(fmt.Sprintf("corrupt: bit index %d out of range [0, %d)", i, b.n))
	}
}
