package corrupt

import (
	"fmt"
	"strconv"
	"strings"
)

// Range is a span of bits where corruption is allowed.
//
// From+Len may point past the end of the buffer. Methods clamp to the bits
// that exist when the round runs.
type Range struct {
	From uint64 `json:"from"`
	Len  uint64 `json:"len"`
}

// NewRange returns a range of n bits starting at from.
// Returns [ErrConfig] if n is zero.
func NewRange(from, n uint64) (Range, error) {
	if n == 0 {
		return Range{}, fmt.Errorf("%w: range length must be positive", ErrConfig)
	}

	return Range{From: from, Len: n}, nil
}

// WholeRange returns the range covering an input of byteLen bytes.
func WholeRange(byteLen uint64) Range {
	return Range{From: 0, Len: byteLen * 8}
}

// Clamp resolves the range against a buffer of bufLen bits.
// ok is false when no bit of the range exists.
func (r Range) Clamp(bufLen uint64) (start, end uint64, ok bool) {
	if r.From >= bufLen {
		return 0, 0, false
	}

	end = bufLen
	if r.Len < bufLen-r.From {
		end = r.From + r.Len
	}

	return r.From, end, true
}

// String formats the range as FROM:LEN in bits, the form [ParseRange] reads.
func (r Range) String() string {
	return strconv.FormatUint(r.From, 10) + ":" + strconv.FormatUint(r.Len, 10)
}

// ParseRange parses FROM:LEN.
//
// Both numbers are bits unless suffixed with an upper-case "B" (bytes).
// Decimal and 0x hexadecimal are accepted, e.g. "0:64", "0x10B:4B"; write
// hex digits in lower case so a trailing b is not read as the suffix.
func ParseRange(s string) (Range, error) {
	fromStr, lenStr, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Range{}, fmt.Errorf("%w: range %q: want FROM:LEN", ErrConfig, s)
	}

	from, err := parseBits(fromStr)
	if err != nil {
		return Range{}, fmt.Errorf("%w: range %q: from: %w", ErrConfig, s, err)
	}

	n, err := parseBits(lenStr)
	if err != nil {
		return Range{}, fmt.Errorf("%w: range %q: len: %w", ErrConfig, s, err)
	}

	r, err := NewRange(from, n)
	if err != nil {
		return Range{}, fmt.Errorf("range %q: %w", s, err)
	}

	return r, nil
}

// ParseBits parses a bit count with the same syntax as [ParseRange] bounds.
func ParseBits(s string) (uint64, error) {
	n, err := parseBits(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrConfig, s, err)
	}

	return n, nil
}

func parseBits(s string) (uint64, error) {
	s = strings.TrimSpace(s)

	scale := uint64(1)
	if trimmed, ok := strings.CutSuffix(s, "B"); ok {
		s = trimmed
		scale = 8
	}

	n, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, err
	}

	if n > ^uint64(0)/scale {
		return 0, strconv.ErrRange
	}

	return n * scale, nil
}
