package corrupt

import (
	"fmt"
	"strings"
)

// Method is one of the fixed set of corruption methods.
//
// The zero value is not a valid method.
type Method uint8

// Corruption methods, in canonical order.
const (
	Zeros Method = iota + 1
	Ones
	Flip
	Swap
	Reverse
	Repeat
	Shorten
	AddNoise
	Interference
	RRotate
	LRotate
)

var methodNames = [...]string{
	Zeros:        "zeros",
	Ones:         "ones",
	Flip:         "flip",
	Swap:         "swap",
	Reverse:      "reverse",
	Repeat:       "repeat",
	Shorten:      "shorten",
	AddNoise:     "addnoise",
	Interference: "interference",
	RRotate:      "rrotate",
	LRotate:      "lrotate",
}

var methodDescriptions = [...]string{
	Zeros:        "Replace a part with 0 bits",
	Ones:         "Replace a part with 1 bits",
	Flip:         "Invert every bit of a part",
	Swap:         "Exchange the bits of two parts",
	Reverse:      "Reverse the bit order of a part",
	Repeat:       "Repeat a part over the bits that follow it",
	Shorten:      "Remove a part, shrinking the data",
	AddNoise:     "Flip bits of a part at random (density, default 0.5)",
	Interference: "XOR one part into another",
	RRotate:      "Rotate the bits of a part to the right",
	LRotate:      "Rotate the bits of a part to the left",
}

// methodAliases maps the names used by earlier versions of the tool.
var methodAliases = map[string]Method{
	"rcycle": RRotate,
	"lcycle": LRotate,
}

// Methods returns all methods in canonical order.
func Methods() []Method {
	out := make([]Method, 0, len(methodNames)-1)
	for m := Zeros; m <= LRotate; m++ {
		out = append(out, m)
	}

	return out
}

// ParseMethod returns the method with the given name or alias.
// Matching is case-insensitive.
func ParseMethod(name string) (Method, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	for _, m := range Methods() {
		if methodNames[m] == name {
			return m, nil
		}
	}

	if m, ok := methodAliases[name]; ok {
		return m, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
}

// Valid reports whether m is one of the defined methods.
func (m Method) Valid() bool {
	return m >= Zeros && m <= LRotate
}

// String returns the canonical name of m.
func (m Method) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Method(%d)", uint8(m))
	}

	return methodNames[m]
}

// Describe returns a one-line description of m.
func (m Method) Describe() string {
	if !m.Valid() {
		return ""
	}

	return methodDescriptions[m]
}

// Aliases returns the alternative names accepted for m.
func (m Method) Aliases() []string {
	var out []string

	for alias, target := range methodAliases {
		if target == m {
			out = append(out, alias)
		}
	}

	return out
}

// ChangesLength reports whether m may change the buffer length.
func (m Method) ChangesLength() bool {
	return m == Shorten
}

// MarshalText implements [encoding.TextMarshaler].
func (m Method) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMethod, uint8(m))
	}

	return []byte(m.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}

	*m = parsed

	return nil
}

// roundResult describes the effect of a single round.
type roundResult struct {
	applied bool
	touched uint64
	removed uint64
}

// round applies one round of m to the part of b selected by r.
//
// Draw order per method is fixed: changing it changes every output for a
// given seed.
func (m Method) round(b *BitBuffer, r Range, s *PartSampler, density float64) roundResult {
	start, end, ok := r.Clamp(b.Len())
	if !ok {
		return roundResult{}
	}

	regionLen := end - start

	switch m {
	case Zeros, Ones, Flip, Reverse:
		off, n := s.part(regionLen)
		if n == 0 {
			return roundResult{}
		}

		switch m {
		case Zeros:
			b.Fill(start+off, n, false)
		case Ones:
			b.Fill(start+off, n, true)
		case Flip:
			b.Invert(start+off, n)
		default:
			b.ReverseBits(start+off, n)
		}

		return roundResult{applied: true, touched: n}

	case Swap, Interference:
		off1, n1 := s.part(regionLen)
		off2, n2 := s.part(regionLen)

		n := min(n1, n2)
		if n == 0 {
			return roundResult{}
		}

		if m == Swap {
			b.SwapParts(start+off1, start+off2, n)

			return roundResult{applied: true, touched: 2 * n}
		}

		b.XorPart(start+off1, start+off2, n)

		return roundResult{applied: true, touched: n}

	case Repeat:
		off, n := s.part(regionLen)
		span := s.Origin(regionLen - off - n)

		if n == 0 || span == 0 {
			return roundResult{}
		}

		touched := b.Tile(start+off, n, span)

		return roundResult{applied: touched > 0, touched: touched}

	case Shorten:
		off, n := s.part(regionLen)
		if n == 0 {
			return roundResult{}
		}

		removed := b.Remove(start+off, n)

		return roundResult{applied: true, removed: removed}

	case AddNoise:
		off, n := s.part(regionLen)
		if n == 0 {
			return roundResult{}
		}

		flipped := b.AddNoise(start+off, n, density, s.Float64)

		return roundResult{applied: true, touched: flipped}

	case RRotate, LRotate:
		// Parts under 2 bits draw no intensity.
		off, n := s.part(regionLen)
		if n < 2 {
			return roundResult{}
		}

		// Intensity in [1, n-1].
		k := 1 + s.Origin(n-2)

		if m == RRotate {
			b.RotateRight(start+off, n, k)
		} else {
			b.RotateLeft(start+off, n, k)
		}

		return roundResult{applied: true, touched: n}

	default:
		panic(fmt.Sprintf("corrupt: unhandled method %v", m))
	}
}
