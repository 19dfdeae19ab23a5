package testutil

import "encoding/binary"

// ByteStream reads bytes sequentially from a byte slice.
//
// Fuzz tests use it to derive values from fuzz input. Once exhausted, every
// read returns zero, so the same input always yields the same values.
type ByteStream struct {
	bytes []byte
	pos   int
}

// NewByteStream creates a stream over the given bytes.
func NewByteStream(b []byte) *ByteStream {
	return &ByteStream{bytes: b}
}

// HasMore reports whether unread bytes remain.
func (s *ByteStream) HasMore() bool {
	return s.pos < len(s.bytes)
}

// NextByte returns the next byte, or 0 if exhausted.
func (s *ByteStream) NextByte() byte {
	if s.pos >= len(s.bytes) {
		return 0
	}

	v := s.bytes[s.pos]
	s.pos++

	return v
}

// NextBytes reads n bytes, padding with zeros if exhausted.
func (s *ByteStream) NextBytes(n int) []byte {
	if n <= 0 {
		return []byte{}
	}

	out := make([]byte, n)
	for i := range n {
		out[i] = s.NextByte()
	}

	return out
}

// NextInt returns a value in [0, maxVal) derived from the next byte.
func (s *ByteStream) NextInt(maxVal int) int {
	if maxVal <= 0 {
		return 0
	}

	return int(s.NextByte()) % maxVal
}

// NextUint64 reads eight bytes as a big-endian integer.
func (s *ByteStream) NextUint64() uint64 {
	return binary.BigEndian.Uint64(s.NextBytes(8))
}

// NextUint16 reads two bytes as a big-endian integer.
func (s *ByteStream) NextUint16() uint16 {
	return binary.BigEndian.Uint16(s.NextBytes(2))
}

// NextBool returns a boolean derived from the next byte.
func (s *ByteStream) NextBool() bool {
	return s.NextByte()&1 == 1
}

// Rest returns all unread bytes and exhausts the stream.
func (s *ByteStream) Rest() []byte {
	if s.pos >= len(s.bytes) {
		return []byte{}
	}

	out := s.bytes[s.pos:]
	s.pos = len(s.bytes)

	return out
}
