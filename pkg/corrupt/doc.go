// Package corrupt provides a deterministic bit-level corruption engine.
//
// A [Plan] applies an ordered list of corruption methods to one or more
// bit ranges of an input. Every method owns a private random stream derived
// from the plan seed, so the same seed, methods and ranges always produce
// the same output for the same input.
//
// # Basic Usage
//
//	b := corrupt.NewBuilder()
//	b.SetSeed(42)
//	b.AddMethod(corrupt.MethodSpec{
//	    Method: corrupt.Flip,
//	    Rounds: 10,
//	    Length: corrupt.FixedLength(8),
//	})
//	b.AddRange(corrupt.WholeRange(uint64(len(data))))
//
//	plan, err := b.Build()
//	if err != nil {
//	    // errors.Is(err, corrupt.ErrConfig)
//	}
//
//	out, err := plan.Run(data)
//
// # Addressing
//
// Offsets and lengths are counted in bits, most significant bit first within
// each byte. Ranges may extend past the end of the buffer; every method
// clamps to the bits that currently exist. Only [Shorten] changes the buffer
// length, and later rounds resolve their range against the shorter buffer.
//
// # Degenerate Rounds
//
// A round whose range is empty or whose sampled part has length zero does
// nothing. Methods never fail: a multi-method plan always runs to the end.
//
// # Concurrency
//
// A built [Plan] is read-only. Each call to [Plan.Run] re-creates the method
// streams from their seeds, so one plan may run different inputs from
// several goroutines. A [BitBuffer] is not safe for concurrent use.
package corrupt
