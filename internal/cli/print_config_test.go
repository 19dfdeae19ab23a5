package cli_test

import (
	"path/filepath"
	"testing"

	"github.com/calvinalkan/korrupt/internal/cli"
)

func Test_Print_Config_Defaults_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("print-config")

	cli.AssertContains(t, stdout, `"output": "/tmp/korrupt/@@filename@@"`)
	cli.AssertContains(t, stdout, `"align": "pad"`)
	cli.AssertContains(t, stdout, `"jobs": 1`)
	cli.AssertContains(t, stdout, "(defaults only)")
	cli.AssertContains(t, stdout, "# effective_cwd: "+c.Dir)
}

func Test_Print_Config_From_Project_File_With_Comments_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".korrupt.json", []byte(`{
		// project defaults
		"seed": 99,
		"methods": [{"method": "rcycle", "rounds": 3, "min": 1, "max": 16}],
	}`))

	stdout := c.MustRun("print-config")

	cli.AssertContains(t, stdout, `"seed": 99`)
	cli.AssertContains(t, stdout, `"method": "rrotate"`)
	cli.AssertContains(t, stdout, "#   project: "+filepath.Join(c.Dir, ".korrupt.json"))
}

func Test_Print_Config_Explicit_Config_Flag_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("custom.json", []byte(`{"output": "out/@@index@@.bin"}`))

	stdout := c.MustRun("--config=custom.json", "print-config")
	cli.AssertContains(t, stdout, `"output": "out/@@index@@.bin"`)
}

func Test_Print_Config_Global_File_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".xdg/korrupt/config.json", []byte(`{"align": "truncate"}`))

	stdout := c.MustRun("print-config")
	cli.AssertContains(t, stdout, `"align": "truncate"`)
	cli.AssertContains(t, stdout, "#   global: "+filepath.Join(c.Dir, ".xdg", "korrupt", "config.json"))
}

func Test_Print_Config_Missing_Explicit_Config_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("-c", "nope.json", "print-config")
	cli.AssertContains(t, stderr, "config file not found")
}

func Test_Print_Config_As_YAML_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("print-config", "--format", "yaml")

	cli.AssertContains(t, stdout, "align: pad")
	cli.AssertContains(t, stdout, "jobs: 1")
	cli.AssertNotContains(t, stdout, "{")
}

func Test_Print_Config_Unknown_Format_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("print-config", "--format", "toml")
	cli.AssertContains(t, stderr, "unknown format")
}
