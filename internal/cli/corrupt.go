package cli

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/calvinalkan/korrupt/internal/config"
	"github.com/calvinalkan/korrupt/internal/fs"
	"github.com/calvinalkan/korrupt/pkg/corrupt"
)

const (
	outputDirPerm  = 0o750
	outputFilePerm = 0o644
)

// Output template placeholders.
const (
	placeholderFilename = "@@filename@@"
	placeholderSeed     = "@@seed@@"
	placeholderIndex    = "@@index@@"
)

// CorruptCmd returns the corrupt command.
func CorruptCmd(cfg *config.Config, fsys fs.FS) *Command {
	flags := flag.NewFlagSet("corrupt", flag.ContinueOnError)
	flags.StringSliceP("method", "m", nil, "Corruption `method`, repeatable or comma separated (see: korrupt methods)")
	flags.UintSliceP("rounds", "r", nil, "Rounds: one value for every method, or one per method in order")
	flags.Uint64("fixedpartlen", 0, "Fixed part length in bits")
	flags.Uint64("minpartlen", 0, "Minimum part length in bits (requires --maxpartlen)")
	flags.Uint64("maxpartlen", 0, "Maximum part length in bits (requires --minpartlen)")
	flags.StringArray("range", nil, "Bit range `FROM:LEN` to corrupt, repeatable; B suffix for bytes (default: whole file)")
	flags.Uint64P("seed", "s", 0, "Master seed (default: random, printed to stderr)")
	flags.StringP("output", "o", "", "Output path template; @@filename@@, @@seed@@, @@index@@ are expanded (default \""+config.DefaultOutput+"\")")
	flags.String("align", "", "Non byte-aligned result handling: strict|pad|truncate (default \"pad\")")
	flags.Float64("density", 0, "Flip probability for addnoise, in (0, 1] (default 0.5)")
	flags.IntP("jobs", "j", 0, "Inputs processed in parallel (default 1)")
	flags.BoolP("verbose", "v", false, "Print a per-method report for each input")
	flags.Bool("dry-run", false, "Corrupt in memory and report, but write nothing")

	return &Command{
		Flags: flags,
		Usage: "corrupt <input>... [flags]",
		Short: "Corrupt files, prints output paths",
		Long: `Corrupt each input with the configured methods and write the result to
the output template. Prints one output path per input, in input order.

Flags override the config file. The same seed, methods and ranges always
produce the same output.`,
		Examples: []string{
			"corrupt -m flip -r 10 --fixedpartlen 8 -s 42 image.png",
			"corrupt -m swap,rrotate -r 4,2 --minpartlen 1 --maxpartlen 64 --range 16B:64B a.bin b.bin",
			"corrupt -m shorten -r 1 --fixedpartlen 3 --align truncate -o 'out/@@seed@@-@@filename@@' data.bin",
		},
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execCorrupt(ctx, o, cfg, fsys, flags, args)
		},
	}
}

// corruptOptions is the resolved configuration of one corrupt invocation.
type corruptOptions struct {
	seed    uint64
	align   corrupt.Align
	methods []corrupt.MethodSpec
	ranges  []corrupt.Range
	output  string
	jobs    int
	verbose bool
	dryRun  bool
}

func execCorrupt(ctx context.Context, o *IO, cfg *config.Config, fsys fs.FS, flags *flag.FlagSet, args []string) error {
	if len(args) == 0 {
		return ErrInputRequired
	}

	opts, err := resolveCorruptOptions(o, cfg, flags)
	if err != nil {
		return err
	}

	jobs, err := planJobs(cfg.EffectiveCwd, opts, args)
	if err != nil {
		return err
	}

	results := runJobs(ctx, fsys, opts, jobs)

	var (
		errs    []error
		skipped int
	)

	for i, res := range results {
		switch {
		case res.skipped:
			skipped++
		case res.err != nil:
			errs = append(errs, fmt.Errorf("%s: %w", jobs[i].input, res.err))
		default:
			printResult(o, opts, jobs[i], res)
		}
	}

	if skipped > 0 {
		errs = append(errs, fmt.Errorf("%w: %d of %d inputs not processed", ErrInterrupted, skipped, len(jobs)))
	}

	return errors.Join(errs...)
}

func printResult(o *IO, opts corruptOptions, j job, res result) {
	if res.empty {
		o.Warn(j.input+" is empty", "output is an empty file")
	}

	if opts.dryRun {
		o.Println("(dry-run)", j.output)
	} else {
		o.Println(j.output)
	}

	if !opts.verbose {
		return
	}

	o.Printf("  bits in=%d out=%d\n", res.report.InputBits, res.report.OutputBits)

	for _, mr := range res.report.Methods {
		o.Println("  " + mr.String())
	}
}

func resolveCorruptOptions(o *IO, cfg *config.Config, flags *flag.FlagSet) (corruptOptions, error) {
	opts := corruptOptions{
		align:  cfg.Align,
		output: cfg.Output,
		jobs:   cfg.Jobs,
	}

	opts.verbose, _ = flags.GetBool("verbose")
	opts.dryRun, _ = flags.GetBool("dry-run")

	methods, err := resolveMethods(cfg, flags)
	if err != nil {
		return corruptOptions{}, err
	}

	opts.methods = methods

	opts.ranges, err = resolveRanges(cfg, flags)
	if err != nil {
		return corruptOptions{}, err
	}

	if flags.Changed("align") {
		name, _ := flags.GetString("align")

		opts.align, err = corrupt.ParseAlign(name)
		if err != nil {
			return corruptOptions{}, err
		}
	}

	if flags.Changed("output") {
		opts.output, _ = flags.GetString("output")
	}

	if opts.output == "" {
		return corruptOptions{}, config.ErrOutputEmpty
	}

	if flags.Changed("jobs") {
		opts.jobs, _ = flags.GetInt("jobs")
	}

	if opts.jobs < 1 {
		return corruptOptions{}, fmt.Errorf("%w: got %d", config.ErrJobsInvalid, opts.jobs)
	}

	switch {
	case flags.Changed("seed"):
		opts.seed, _ = flags.GetUint64("seed")
	case cfg.Seed != nil:
		opts.seed = *cfg.Seed
	default:
		opts.seed = rand.Uint64()
		o.ErrPrintln("seed:", opts.seed, "(pass --seed to reproduce)")
	}

	return opts, nil
}

// resolveMethods returns the methods from -m, or from the config file, with
// --rounds, part length and --density flags applied on top.
func resolveMethods(cfg *config.Config, flags *flag.FlagSet) ([]corrupt.MethodSpec, error) {
	var specs []corrupt.MethodSpec

	if flags.Changed("method") {
		if !flags.Changed("rounds") {
			return nil, ErrRoundsRequired
		}

		names, _ := flags.GetStringSlice("method")
		for _, name := range names {
			m, err := corrupt.ParseMethod(name)
			if err != nil {
				return nil, err
			}

			specs = append(specs, corrupt.MethodSpec{Method: m})
		}
	} else {
		specs = cfg.MethodSpecs()
	}

	if len(specs) == 0 {
		return nil, ErrMethodRequired
	}

	if flags.Changed("rounds") {
		rounds, _ := flags.GetUintSlice("rounds")

		switch len(rounds) {
		case 1:
			for i := range specs {
				specs[i].Rounds = uint64(rounds[0])
			}
		case len(specs):
			for i := range specs {
				specs[i].Rounds = uint64(rounds[i])
			}
		default:
			return nil, fmt.Errorf("%w: got %d values for %d methods", ErrRoundsMismatch, len(rounds), len(specs))
		}
	}

	length, changed, err := lengthFromFlags(flags)
	if err != nil {
		return nil, err
	}

	if changed {
		for i := range specs {
			specs[i].Length = length
		}
	}

	if flags.Changed("density") {
		density, _ := flags.GetFloat64("density")
		for i := range specs {
			if specs[i].Method == corrupt.AddNoise {
				specs[i].Density = density
			}
		}
	}

	for i, spec := range specs {
		err := spec.Validate()
		if err != nil {
			return nil, fmt.Errorf("method %d (%v): %w", i+1, spec.Method, err)
		}
	}

	return specs, nil
}

func lengthFromFlags(flags *flag.FlagSet) (corrupt.LengthSpec, bool, error) {
	hasFixed := flags.Changed("fixedpartlen")
	hasMin := flags.Changed("minpartlen")
	hasMax := flags.Changed("maxpartlen")

	switch {
	case hasFixed && (hasMin || hasMax):
		return corrupt.LengthSpec{}, false, ErrPartLenConflict
	case hasMin != hasMax:
		return corrupt.LengthSpec{}, false, ErrPartLenIncomplete
	case hasFixed:
		n, _ := flags.GetUint64("fixedpartlen")

		return corrupt.FixedLength(n), true, nil
	case hasMin:
		lo, _ := flags.GetUint64("minpartlen")
		hi, _ := flags.GetUint64("maxpartlen")

		return corrupt.LengthRange(lo, hi), true, nil
	}

	return corrupt.LengthSpec{}, false, nil
}

// resolveRanges returns the --range flags, or the config ranges. An empty
// result means "whole file" and is resolved per input.
func resolveRanges(cfg *config.Config, flags *flag.FlagSet) ([]corrupt.Range, error) {
	if !flags.Changed("range") {
		return cfg.ParsedRanges()
	}

	raw, _ := flags.GetStringArray("range")

	out := make([]corrupt.Range, 0, len(raw))

	for _, s := range raw {
		r, err := corrupt.ParseRange(s)
		if err != nil {
			return nil, err
		}

		out = append(out, r)
	}

	return out, nil
}

// job is one input and the output it is written to.
type job struct {
	index  int
	input  string
	output string
}

type result struct {
	report  corrupt.Report
	empty   bool
	skipped bool
	err     error
}

// planJobs resolves input and output paths and rejects outputs that would
// overwrite an input or another output.
func planJobs(cwd string, opts corruptOptions, inputs []string) ([]job, error) {
	jobs := make([]job, len(inputs))
	inputSet := make(map[string]bool, len(inputs))

	for i, in := range inputs {
		jobs[i] = job{index: i, input: absPath(cwd, in)}
		inputSet[jobs[i].input] = true
	}

	outputs := make(map[string]string, len(jobs))

	for i := range jobs {
		out := expandOutput(opts.output, jobs[i].input, opts.seed, i)
		out = absPath(cwd, out)

		if inputSet[out] {
			return nil, fmt.Errorf("%w: %s", ErrOutputIsInput, out)
		}

		if prev, ok := outputs[out]; ok {
			return nil, fmt.Errorf("%w: %s and %s -> %s", ErrOutputCollision, prev, jobs[i].input, out)
		}

		outputs[out] = jobs[i].input
		jobs[i].output = out
	}

	return jobs, nil
}

func expandOutput(template, input string, seed uint64, index int) string {
	return strings.NewReplacer(
		placeholderFilename, filepath.Base(input),
		placeholderSeed, strconv.FormatUint(seed, 10),
		placeholderIndex, strconv.Itoa(index),
	).Replace(template)
}

func absPath(cwd, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}

	return filepath.Join(cwd, path)
}

// runJobs processes jobs with at most opts.jobs in flight. Results are
// indexed like jobs. Once ctx is canceled, jobs that have not started are
// marked skipped; a failed job does not stop the others.
func runJobs(ctx context.Context, fsys fs.FS, opts corruptOptions, jobs []job) []result {
	results := make([]result, len(jobs))

	var g errgroup.Group

	g.SetLimit(opts.jobs)

	for i := range jobs {
		g.Go(func() error {
			if ctx.Err() != nil {
				results[i] = result{skipped: true}

				return nil
			}

			results[i] = processJob(fsys, opts, jobs[i])

			return nil
		})
	}

	_ = g.Wait()

	return results
}

func processJob(fsys fs.FS, opts corruptOptions, j job) result {
	info, err := fsys.Stat(j.input)
	if err != nil {
		return result{err: err}
	}

	data, err := fsys.ReadFile(j.input)
	if err != nil {
		return result{err: err}
	}

	// Pipes, devices and procfs report sizes that say nothing about what a
	// read returns; only a regular file that yields fewer bytes is short.
	if info.Mode().IsRegular() && int64(len(data)) < info.Size() {
		return result{err: fmt.Errorf("%w: read %d of %d bytes", ErrShortRead, len(data), info.Size())}
	}

	var res result

	out := data

	if len(data) > 0 {
		plan, err := buildPlan(opts, uint64(len(data)))
		if err != nil {
			return result{err: err}
		}

		out, res.report, err = plan.RunReport(data)
		if err != nil {
			return result{err: err}
		}
	} else {
		res.empty = true
	}

	if opts.dryRun {
		return res
	}

	err = fsys.MkdirAll(filepath.Dir(j.output), outputDirPerm)
	if err != nil {
		return result{err: fmt.Errorf("create output dir: %w", err)}
	}

	err = fsys.WriteFileAtomic(j.output, out, outputFilePerm)
	if err != nil {
		return result{err: fmt.Errorf("write %s: %w", j.output, err)}
	}

	return res
}

func buildPlan(opts corruptOptions, byteLen uint64) (*corrupt.Plan, error) {
	b := corrupt.NewBuilder().SetSeed(opts.seed).SetAlign(opts.align)

	for _, m := range opts.methods {
		b.AddMethod(m)
	}

	if len(opts.ranges) == 0 {
		b.AddRange(corrupt.WholeRange(byteLen))
	}

	for _, r := range opts.ranges {
		b.AddRange(r)
	}

	return b.Build()
}
