package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
)

// Command is one korrupt subcommand. Help output for every command is
// generated from these fields.
type Command struct {
	// Flags holds the command's own flags. Its name is unused; the command
	// name is the first word of Usage.
	Flags *flag.FlagSet

	// Usage follows "korrupt" in help, e.g. "corrupt <input>... [flags]".
	Usage string

	// Short appears in the global command list.
	Short string

	// Long is the command help body. Short is used when empty.
	Long string

	// Examples are full invocations listed under the flags in command help.
	Examples []string

	// NoArgs rejects positional arguments before Exec runs.
	NoArgs bool

	// Exec runs with the positional arguments left after flag parsing.
	Exec func(ctx context.Context, o *IO, args []string) error
}

// Name returns the first word of Usage.
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")

	return name
}

// HelpLine is the command's row in the global usage listing.
func (c *Command) HelpLine() string {
	return fmt.Sprintf("  %-28s %s", c.Usage, c.Short)
}

// PrintHelp writes "korrupt <cmd> --help" output to stdout.
func (c *Command) PrintHelp(o *IO) {
	o.Printf("%s", c.help())
}

func (c *Command) help() string {
	var b strings.Builder

	fmt.Fprintln(&b, "Usage: korrupt", c.Usage)
	fmt.Fprintln(&b)

	if c.Long != "" {
		fmt.Fprintln(&b, c.Long)
	} else {
		fmt.Fprintln(&b, c.Short)
	}

	if c.Flags != nil && c.Flags.HasFlags() {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "Flags:")

		c.Flags.SetOutput(&b)
		c.Flags.PrintDefaults()
	}

	if len(c.Examples) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "Examples:")

		for _, ex := range c.Examples {
			fmt.Fprintln(&b, "  korrupt", ex)
		}
	}

	return b.String()
}

// Run parses args, then calls Exec, and returns the exit code. Usage errors
// print the error and the command help to stderr.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	// pflag would print its own usage on parse errors.
	c.Flags.SetOutput(&strings.Builder{})

	err := c.Flags.Parse(args)
	if errors.Is(err, flag.ErrHelp) {
		c.PrintHelp(o)

		return 0
	}

	if err == nil && c.NoArgs && c.Flags.NArg() > 0 {
		err = fmt.Errorf("%w: %s", ErrUnexpectedArgs, strings.Join(c.Flags.Args(), " "))
	}

	if err != nil {
		o.ErrPrintln("error:", err)
		o.ErrPrintln()
		o.ErrPrintln(strings.TrimRight(c.help(), "\n"))

		return 1
	}

	err = c.Exec(ctx, o, c.Flags.Args())
	if err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	return 0
}
