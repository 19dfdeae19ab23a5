package cli_test

import (
	"bytes"
	"testing"

	"github.com/calvinalkan/korrupt/internal/cli"
)

func Test_Bare_Command_Prints_Usage_When_Invoked(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	exitCode := cli.Run(nil, &stdout, &stderr, []string{"korrupt"}, nil, nil)

	if got, want := exitCode, 0; got != want {
		t.Errorf("exitCode=%d, want=%d", got, want)
	}

	if got, want := stderr.String(), ""; got != want {
		t.Errorf("stderr=%q, want=%q", got, want)
	}

	cli.AssertContains(t, stdout.String(), "korrupt - deterministic binary corruption")
	cli.AssertContains(t, stdout.String(), "--cwd")
	cli.AssertContains(t, stdout.String(), "corrupt <input>...")
	cli.AssertContains(t, stdout.String(), "methods")
	cli.AssertContains(t, stdout.String(), "print-config")
}

func Test_Help_Flag_Prints_Usage_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("--help")

	cli.AssertContains(t, stdout, "Global flags:")
	cli.AssertContains(t, stdout, "--config")
}

func Test_Invalid_Global_Flag_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("--invalid-flag", "methods")

	cli.AssertContains(t, stderr, "unknown flag")
	cli.AssertContains(t, stderr, "--invalid-flag")
	cli.AssertContains(t, stderr, "Global flags:")
	cli.AssertContains(t, stderr, "--cwd")
	cli.AssertContains(t, stderr, "--config")
}

func Test_Unknown_Command_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("explode")

	cli.AssertContains(t, stderr, "unknown command: explode")
	cli.AssertContains(t, stderr, "Commands:")
}

func Test_Invalid_Config_Fails_Before_Command_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".korrupt.json", []byte(`{"jobs": 0}`))

	stderr := c.MustFail("methods")
	cli.AssertContains(t, stderr, "jobs must be at least 1")
}

func Test_Command_Help_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("corrupt", "--help")

	cli.AssertContains(t, stdout, "Usage: korrupt corrupt <input>...")
	cli.AssertContains(t, stdout, "--fixedpartlen")
	cli.AssertContains(t, stdout, "--range")
	cli.AssertContains(t, stdout, "@@filename@@")
	cli.AssertContains(t, stdout, "Examples:")
	cli.AssertContains(t, stdout, "  korrupt corrupt -m flip")
}

func Test_Command_Without_Args_Rejects_Positional_Args_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("methods", "flip")

	cli.AssertContains(t, stderr, "unexpected arguments: flip")
	cli.AssertContains(t, stderr, "Usage: korrupt methods")
}
