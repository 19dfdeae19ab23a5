package cli

import (
	"context"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/korrupt/pkg/corrupt"
)

// MethodsCmd returns the methods command.
func MethodsCmd() *Command {
	return &Command{
		Flags:  flag.NewFlagSet("methods", flag.ContinueOnError),
		Usage:  "methods",
		Short:  "List corruption methods",
		Long:   "List every corruption method with a short description. Aliases are accepted by -m.",
		NoArgs: true,
		Exec: func(_ context.Context, o *IO, _ []string) error {
			execMethods(o)

			return nil
		},
	}
}

func execMethods(o *IO) {
	for _, m := range corrupt.Methods() {
		line := m.Describe()
		if m.ChangesLength() {
			line += " (changes length)"
		}

		if aliases := m.Aliases(); len(aliases) > 0 {
			line += " [alias: " + strings.Join(aliases, ", ") + "]"
		}

		o.Printf("%-13s %s\n", m, line)
	}
}
