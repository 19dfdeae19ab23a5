package cli_test

import (
	"strings"
	"testing"

	"github.com/calvinalkan/korrupt/internal/cli"
	"github.com/calvinalkan/korrupt/pkg/corrupt"
)

func Test_Methods_Lists_Every_Method_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("methods")

	lines := strings.Split(stdout, "\n")
	if got, want := len(lines), len(corrupt.Methods()); got != want {
		t.Fatalf("lines=%d, want=%d\n%s", got, want, stdout)
	}

	for i, m := range corrupt.Methods() {
		if !strings.HasPrefix(lines[i], m.String()+" ") {
			t.Errorf("line %d=%q, want prefix %q", i, lines[i], m.String())
		}
	}

	cli.AssertContains(t, stdout, "alias: rcycle")
	cli.AssertContains(t, stdout, "alias: lcycle")
	cli.AssertContains(t, stdout, "(changes length)")
}
