package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/korrupt/internal/config"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(cfg *config.Config) *Command {
	flags := flag.NewFlagSet("print-config", flag.ContinueOnError)
	flags.String("format", config.FormatJSON, "Output format: json|yaml")

	return &Command{
		Flags:    flags,
		Usage:    "print-config [flags]",
		Short:    "Show resolved configuration",
		Long:     "Display the effective configuration and which files it was loaded from.",
		Examples: []string{"print-config --format yaml", "-c ci.json print-config"},
		NoArgs:   true,
		Exec: func(_ context.Context, o *IO, _ []string) error {
			format, _ := flags.GetString("format")

			return execPrintConfig(o, cfg, format)
		},
	}
}

func execPrintConfig(o *IO, cfg *config.Config, format string) error {
	formatted, err := config.Format(*cfg, format)
	if err != nil {
		return err
	}

	o.Println(formatted)
	o.Println()
	o.Println("# effective_cwd:", cfg.EffectiveCwd)
	o.Println("# sources:")

	if cfg.Sources.Global != "" {
		o.Println("#   global:", cfg.Sources.Global)
	}

	if cfg.Sources.Project != "" {
		o.Println("#   project:", cfg.Sources.Project)
	}

	if cfg.Sources.Global == "" && cfg.Sources.Project == "" {
		o.Println("#   (defaults only)")
	}

	return nil
}
