package testutil

import "github.com/calvinalkan/korrupt/pkg/corrupt"

// PlanInput is a plan configuration and an input buffer decoded from
// fuzz bytes.
type PlanInput struct {
	Seed    uint64
	Align   corrupt.Align
	Methods []corrupt.MethodSpec
	Ranges  []corrupt.Range
	Input   []byte
}

// Builder returns a builder populated from the decoded configuration.
func (p PlanInput) Builder() *corrupt.Builder {
	b := corrupt.NewBuilder().SetSeed(p.Seed).SetAlign(p.Align)
	for _, m := range p.Methods {
		b.AddMethod(m)
	}

	for _, r := range p.Ranges {
		b.AddRange(r)
	}

	return b
}

// DecodePlanInput derives a valid plan configuration from s.
//
// Lengths and rounds are kept small so a single fuzz iteration stays fast.
// Ranges may point past the end of the input.
func DecodePlanInput(s *ByteStream) PlanInput {
	all := corrupt.Methods()

	p := PlanInput{
		Seed:  s.NextUint64(),
		Align: corrupt.Align(1 + s.NextInt(2)), // pad or truncate
	}

	for range 1 + s.NextInt(4) {
		spec := corrupt.MethodSpec{
			Method: all[s.NextInt(len(all))],
			Rounds: uint64(1 + s.NextInt(8)),
		}

		if s.NextBool() {
			spec.Length = corrupt.FixedLength(uint64(1 + s.NextInt(64)))
		} else {
			spec.Length = corrupt.LengthRange(uint64(s.NextInt(64)), uint64(1+s.NextInt(128)))
		}

		if spec.Method == corrupt.AddNoise {
			spec.Density = float64(1+s.NextInt(100)) / 100
		}

		p.Methods = append(p.Methods, spec)
	}

	for range 1 + s.NextInt(3) {
		p.Ranges = append(p.Ranges, corrupt.Range{
			From: uint64(s.NextUint16() % 4096),
			Len:  uint64(1 + s.NextUint16()%4096),
		})
	}

	p.Input = s.Rest()
	if len(p.Input) > 512 {
		p.Input = p.Input[:512]
	}

	return p
}
