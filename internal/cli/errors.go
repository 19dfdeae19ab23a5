package cli

import "errors"

// Error variables for CLI commands.
var (
	ErrUnknownCommand    = errors.New("unknown command")
	ErrUnexpectedArgs    = errors.New("unexpected arguments")
	ErrInputRequired     = errors.New("at least one input file is required")
	ErrMethodRequired    = errors.New("no corruption method given (use -m or configure methods)")
	ErrRoundsRequired    = errors.New("--rounds is required with --method")
	ErrRoundsMismatch    = errors.New("--rounds needs one value or one per method")
	ErrPartLenConflict   = errors.New("--fixedpartlen cannot be combined with --minpartlen/--maxpartlen")
	ErrPartLenIncomplete = errors.New("--minpartlen and --maxpartlen must be given together")
	ErrOutputIsInput     = errors.New("output would overwrite its input")
	ErrOutputCollision   = errors.New("two inputs map to the same output (use @@index@@ in --output)")
	ErrShortRead         = errors.New("input changed while reading")
	ErrInterrupted       = errors.New("interrupted")
)
