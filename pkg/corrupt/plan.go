package corrupt

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultDensity is the probability that [AddNoise] flips a bit when
// [MethodSpec.Density] is zero.
const DefaultDensity = 0.5

// Align controls how a buffer whose length is no longer a multiple of 8
// (after [Shorten]) is turned back into bytes.
type Align uint8

const (
	// AlignStrict fails with [ErrLength]. This is the zero value.
	AlignStrict Align = iota
	// AlignPad appends zero bits up to the next byte boundary.
	AlignPad
	// AlignTruncate drops the trailing partial byte.
	AlignTruncate
)

var alignNames = [...]string{
	AlignStrict:   "strict",
	AlignPad:      "pad",
	AlignTruncate: "truncate",
}

// ParseAlign parses "strict", "pad" or "truncate".
func ParseAlign(s string) (Align, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for a, name := range alignNames {
		if name == s {
			return Align(a), nil
		}
	}

	return 0, fmt.Errorf("%w: unknown align %q (want strict|pad|truncate)", ErrConfig, s)
}

func (a Align) String() string {
	if int(a) >= len(alignNames) {
		return "Align(" + strconv.Itoa(int(a)) + ")"
	}

	return alignNames[a]
}

// MarshalText implements [encoding.TextMarshaler].
func (a Align) MarshalText() ([]byte, error) {
	if int(a) >= len(alignNames) {
		return nil, fmt.Errorf("%w: unknown align %d", ErrConfig, a)
	}

	return []byte(a.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (a *Align) UnmarshalText(text []byte) error {
	parsed, err := ParseAlign(string(text))
	if err != nil {
		return err
	}

	*a = parsed

	return nil
}

// LengthSpec selects how long each sampled part is: either Fixed, or
// uniformly between Min and Max. Exactly one form must be set.
type LengthSpec struct {
	Fixed *uint64 `json:"fixed,omitempty"`
	Min   *uint64 `json:"min,omitempty"`
	Max   *uint64 `json:"max,omitempty"`
}

// FixedLength returns a spec that always samples n bits.
func FixedLength(n uint64) LengthSpec {
	return LengthSpec{Fixed: &n}
}

// LengthRange returns a spec that samples between lo and hi bits.
// The bounds are swapped if lo > hi.
func LengthRange(lo, hi uint64) LengthSpec {
	return LengthSpec{Min: &lo, Max: &hi}
}

// IsZero reports whether no length form is set.
func (l LengthSpec) IsZero() bool {
	return l.Fixed == nil && l.Min == nil && l.Max == nil
}

// Bounds validates the spec and returns the normalized [lo, hi] bounds.
func (l LengthSpec) Bounds() (lo, hi uint64, err error) {
	switch {
	case l.Fixed != nil && (l.Min != nil || l.Max != nil):
		return 0, 0, fmt.Errorf("%w: fixed part length cannot be combined with min/max", ErrConfig)
	case l.Fixed != nil:
		if *l.Fixed == 0 {
			return 0, 0, fmt.Errorf("%w: fixed part length must be positive", ErrConfig)
		}

		return *l.Fixed, *l.Fixed, nil
	case l.Min == nil && l.Max == nil:
		return 0, 0, fmt.Errorf("%w: part length required (fixed or min/max)", ErrConfig)
	case l.Min == nil || l.Max == nil:
		return 0, 0, fmt.Errorf("%w: min and max part length must be given together", ErrConfig)
	}

	lo, hi = *l.Min, *l.Max
	if lo > hi {
		lo, hi = hi, lo
	}

	if hi == 0 {
		return 0, 0, fmt.Errorf("%w: max part length must be positive", ErrConfig)
	}

	return lo, hi, nil
}

// String formats the spec as "8" or "4..64".
func (l LengthSpec) String() string {
	lo, hi, err := l.Bounds()
	if err != nil {
		return "invalid"
	}

	if lo == hi {
		return strconv.FormatUint(lo, 10)
	}

	return strconv.FormatUint(lo, 10) + ".." + strconv.FormatUint(hi, 10)
}

// MethodSpec requests one method in a plan.
type MethodSpec struct {
	Method Method
	Rounds uint64
	Length LengthSpec

	// Density is the flip probability for [AddNoise], in (0, 1].
	// Zero selects [DefaultDensity]. Ignored by other methods.
	Density float64
}

// Validate reports whether s can be used in a plan. Errors wrap [ErrConfig].
func (s MethodSpec) Validate() error {
	_, _, _, err := s.validate()

	return err
}

func (s MethodSpec) validate() (lo, hi uint64, density float64, err error) {
	if !s.Method.Valid() {
		return 0, 0, 0, fmt.Errorf("%w: %v", ErrUnknownMethod, s.Method)
	}

	if s.Rounds == 0 {
		return 0, 0, 0, fmt.Errorf("%w: rounds must be positive", ErrConfig)
	}

	lo, hi, err = s.Length.Bounds()
	if err != nil {
		return 0, 0, 0, err
	}

	density = s.Density
	if density == 0 {
		density = DefaultDensity
	}

	if !(density > 0 && density <= 1) {
		return 0, 0, 0, fmt.Errorf("%w: density %v outside (0, 1]", ErrConfig, s.Density)
	}

	return lo, hi, density, nil
}

// methodConfig is a validated method bound to its stream seed.
type methodConfig struct {
	spec    MethodSpec
	lo, hi  uint64
	density float64
	seed    uint64
}

// Builder collects the seed, methods and ranges of a [Plan].
// The zero value is ready to use and has seed 0.
type Builder struct {
	seed    uint64
	align   Align
	methods []MethodSpec
	ranges  []Range
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// SetSeed sets the master seed.
func (b *Builder) SetSeed(seed uint64) *Builder {
	b.seed = seed

	return b
}

// SetAlign sets the byte alignment policy used by [Plan.Run].
func (b *Builder) SetAlign(a Align) *Builder {
	b.align = a

	return b
}

// AddMethod appends a method. Methods run in the order they are added.
func (b *Builder) AddMethod(spec MethodSpec) *Builder {
	b.methods = append(b.methods, spec)

	return b
}

// AddRange appends a range. Ranges are processed in the order they are added.
func (b *Builder) AddRange(r Range) *Builder {
	b.ranges = append(b.ranges, r)

	return b
}

// Build validates the configuration and derives one stream seed per method
// from the master seed. The builder may be reused; the plan does not share
// state with it.
func (b *Builder) Build() (*Plan, error) {
	if len(b.methods) == 0 {
		return nil, fmt.Errorf("%w: no methods", ErrConfig)
	}

	if len(b.ranges) == 0 {
		return nil, fmt.Errorf("%w: no ranges", ErrConfig)
	}

	if int(b.align) >= len(alignNames) {
		return nil, fmt.Errorf("%w: unknown align %d", ErrConfig, b.align)
	}

	ranges := make([]Range, len(b.ranges))
	for i, r := range b.ranges {
		if r.Len == 0 {
			return nil, fmt.Errorf("%w: range %d: length must be positive", ErrConfig, i+1)
		}

		ranges[i] = r
	}

	// The master stream lives only here. One draw per method, in order.
	master := newStream(b.seed)

	methods := make([]methodConfig, len(b.methods))
	for i, spec := range b.methods {
		lo, hi, density, err := spec.validate()
		if err != nil {
			return nil, fmt.Errorf("method %d (%v): %w", i+1, spec.Method, err)
		}

		methods[i] = methodConfig{
			spec:    spec,
			lo:      lo,
			hi:      hi,
			density: density,
			seed:    master.Uint64(),
		}
	}

	return &Plan{
		methods: methods,
		ranges:  ranges,
		seed:    b.seed,
		align:   b.align,
	}, nil
}

// BuildPlan builds a plan with [AlignStrict] in one call.
func BuildPlan(seed uint64, methods []MethodSpec, ranges []Range) (*Plan, error) {
	b := NewBuilder().SetSeed(seed)
	for _, m := range methods {
		b.AddMethod(m)
	}

	for _, r := range ranges {
		b.AddRange(r)
	}

	return b.Build()
}

// Plan is an immutable, validated corruption plan.
type Plan struct {
	methods []methodConfig
	ranges  []Range
	seed    uint64
	align   Align
}

// Seed returns the master seed.
func (p *Plan) Seed() uint64 {
	return p.seed
}

// Align returns the byte alignment policy.
func (p *Plan) Align() Align {
	return p.align
}

// Methods returns the method specs in application order.
func (p *Plan) Methods() []MethodSpec {
	out := make([]MethodSpec, len(p.methods))
	for i, mc := range p.methods {
		out[i] = mc.spec
	}

	return out
}

// Ranges returns the ranges in application order.
func (p *Plan) Ranges() []Range {
	out := make([]Range, len(p.ranges))
	copy(out, p.ranges)

	return out
}

// Run corrupts a copy of input and returns it. input is not modified.
//
// The result depends only on the plan and input. Returns [ErrLength] only
// with [AlignStrict] when [Shorten] removed a number of bits that is not a
// multiple of 8.
func (p *Plan) Run(input []byte) ([]byte, error) {
	out, _, err := p.RunReport(input)

	return out, err
}

// RunReport is like [Plan.Run] and also returns what each method did.
func (p *Plan) RunReport(input []byte) ([]byte, Report, error) {
	bits := NewBitBuffer(input)
	report := p.RunBits(bits)

	out, err := bits.aligned(p.align)
	if err != nil {
		return nil, report, err
	}

	return out, report, nil
}

// RunBits corrupts bits in place.
//
// For each range, each method runs its rounds in order. Every method stream
// is re-created from its seed first, so repeated calls are independent.
func (p *Plan) RunBits(bits *BitBuffer) Report {
	samplers := make([]*PartSampler, len(p.methods))
	report := Report{
		InputBits: bits.Len(),
		Methods:   make([]MethodReport, len(p.methods)),
	}

	for i, mc := range p.methods {
		samplers[i] = NewPartSampler(mc.lo, mc.hi, mc.seed)
		report.Methods[i].Method = mc.spec.Method
	}

	for _, r := range p.ranges {
		for i := range p.methods {
			mc := &p.methods[i]
			for range mc.spec.Rounds {
				res := mc.spec.Method.round(bits, r, samplers[i], mc.density)
				report.Methods[i].add(res)
			}
		}
	}

	report.OutputBits = bits.Len()

	return report
}

// Report summarizes a run.
type Report struct {
	InputBits  uint64
	OutputBits uint64
	Methods    []MethodReport
}

// MethodReport counts the rounds of one plan method across all ranges.
type MethodReport struct {
	Method      Method
	Rounds      uint64 // rounds executed
	Applied     uint64 // rounds that changed something
	Skipped     uint64 // rounds that were no-ops
	BitsTouched uint64 // bits written, flipped or moved
	BitsRemoved uint64 // bits removed by Shorten
}

func (r *MethodReport) add(res roundResult) {
	r.Rounds++

	if !res.applied {
		r.Skipped++

		return
	}

	r.Applied++
	r.BitsTouched += res.touched
	r.BitsRemoved += res.removed
}

// String formats the report line shown by verbose output.
func (r MethodReport) String() string {
	s := fmt.Sprintf("%-12s rounds=%d applied=%d skipped=%d touched=%d",
		r.Method, r.Rounds, r.Applied, r.Skipped, r.BitsTouched)
	if r.BitsRemoved > 0 {
		s += fmt.Sprintf(" removed=%d", r.BitsRemoved)
	}

	return s
}
