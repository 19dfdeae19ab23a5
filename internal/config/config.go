// Package config loads korrupt's layered JSONC configuration.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"

	"github.com/calvinalkan/korrupt/internal/fs"
	"github.com/calvinalkan/korrupt/pkg/corrupt"
)

// FileName is the project config file name.
const FileName = ".korrupt.json"

// DefaultOutput is the output template used when none is configured.
const DefaultOutput = "/tmp/korrupt/@@filename@@"

// Method is one entry of the "methods" list.
//
//	{"method": "flip", "rounds": 10, "fixed": 8}
//	{"method": "addnoise", "rounds": 2, "min": 4, "max": 64, "density": 0.25}
type Method struct {
	Method  corrupt.Method `json:"method"            yaml:"method"`
	Rounds  uint64         `json:"rounds"            yaml:"rounds"`
	Fixed   *uint64        `json:"fixed,omitempty"   yaml:"fixed,omitempty"`
	Min     *uint64        `json:"min,omitempty"     yaml:"min,omitempty"`
	Max     *uint64        `json:"max,omitempty"     yaml:"max,omitempty"`
	Density float64        `json:"density,omitempty" yaml:"density,omitempty"`
}

// Spec converts the entry to a [corrupt.MethodSpec].
func (m Method) Spec() corrupt.MethodSpec {
	return corrupt.MethodSpec{
		Method:  m.Method,
		Rounds:  m.Rounds,
		Length:  corrupt.LengthSpec{Fixed: m.Fixed, Min: m.Min, Max: m.Max},
		Density: m.Density,
	}
}

// validate checks the fields an entry sets. Rounds and part length may be
// left out and supplied by -r and the part length flags; the CLI validates
// the complete spec after applying them.
func (m Method) validate() error {
	spec := m.Spec()

	if spec.Rounds == 0 {
		spec.Rounds = 1
	}

	if spec.Length.IsZero() {
		spec.Length = corrupt.FixedLength(1)
	}

	return spec.Validate()
}

// Config holds all configuration options.
type Config struct {
	Output  string        `json:"output"            yaml:"output"`
	Seed    *uint64       `json:"seed,omitempty"    yaml:"seed,omitempty"`
	Align   corrupt.Align `json:"align"             yaml:"align"`
	Jobs    int           `json:"jobs"              yaml:"jobs"`
	Methods []Method      `json:"methods,omitempty" yaml:"methods,omitempty"`
	Ranges  []string      `json:"ranges,omitempty"  yaml:"ranges,omitempty"`

	// Absolute working directory (from -C flag or os.Getwd).
	EffectiveCwd string `json:"-" yaml:"-"`

	// Sources tracks which config files were loaded (for diagnostics).
	Sources Sources `json:"-" yaml:"-"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project or explicit config if loaded, empty otherwise
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Output: DefaultOutput,
		Align:  corrupt.AlignPad,
		Jobs:   1,
	}
}

// MethodSpecs returns the configured methods as plan specs.
func (c Config) MethodSpecs() []corrupt.MethodSpec {
	out := make([]corrupt.MethodSpec, len(c.Methods))
	for i, m := range c.Methods {
		out[i] = m.Spec()
	}

	return out
}

// ParsedRanges parses the configured ranges.
func (c Config) ParsedRanges() ([]corrupt.Range, error) {
	out := make([]corrupt.Range, 0, len(c.Ranges))

	for _, s := range c.Ranges {
		r, err := corrupt.ParseRange(s)
		if err != nil {
			return nil, err
		}

		out = append(out, r)
	}

	return out, nil
}

// fileConfig is the on-disk form. Pointer and nil-slice fields distinguish
// "absent" from "explicitly set" so layers merge field by field.
type fileConfig struct {
	Output  *string        `json:"output"`
	Seed    *uint64        `json:"seed"`
	Align   *corrupt.Align `json:"align"`
	Jobs    *int           `json:"jobs"`
	Methods []Method       `json:"methods"`
	Ranges  []string       `json:"ranges"`
}

// globalPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/korrupt/config.json if set, otherwise
// ~/.config/korrupt/config.json. Returns "" if neither variable is set.
func globalPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "korrupt", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "korrupt", "config.json")
	}

	return ""
}

// LoadInput holds the inputs for [Load].
type LoadInput struct {
	WorkDirOverride string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath      string            // -c/--config flag value
	Env             map[string]string // environment variables
	FS              fs.FS             // filesystem to read config files from; nil means fs.NewReal()
}

// Load loads configuration with the following precedence (highest wins):
//  1. Defaults
//  2. Global user config (~/.config/korrupt/config.json or $XDG_CONFIG_HOME/korrupt/config.json)
//  3. Project config file (.korrupt.json in the working directory, if it exists)
//  4. Explicit config file via ConfigPath (if non-empty, replaces 3)
//
// CLI flags are applied on top by the caller.
func Load(input LoadInput) (Config, error) {
	fsys := input.FS
	if fsys == nil {
		fsys = fs.NewReal()
	}

	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	} else if !filepath.IsAbs(workDir) {
		abs, err := filepath.Abs(workDir)
		if err != nil {
			return Config{}, fmt.Errorf("cannot resolve working directory: %w", err)
		}

		workDir = abs
	}

	cfg := Default()

	if path := globalPath(input.Env); path != "" {
		loaded, err := loadFile(fsys, path, false, &cfg)
		if err != nil {
			return Config{}, err
		}

		if loaded {
			cfg.Sources.Global = path
		}
	}

	projectPath := filepath.Join(workDir, FileName)
	mustExist := false

	if input.ConfigPath != "" {
		projectPath = input.ConfigPath
		if !filepath.IsAbs(projectPath) {
			projectPath = filepath.Join(workDir, projectPath)
		}

		mustExist = true

		exists, err := fsys.Exists(projectPath)
		if err != nil || !exists {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigFileNotFound, input.ConfigPath)
		}
	}

	loaded, err := loadFile(fsys, projectPath, mustExist, &cfg)
	if err != nil {
		return Config{}, err
	}

	if loaded {
		cfg.Sources.Project = projectPath
	}

	cfg.EffectiveCwd = workDir

	return cfg, nil
}

// loadFile merges the config file at path into cfg. If mustExist is false,
// a missing file is not an error and reports loaded=false.
func loadFile(fsys fs.FS, path string, mustExist bool, cfg *Config) (bool, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !mustExist {
			return false, nil
		}

		return false, fmt.Errorf("%w: %s: %w", ErrConfigFileRead, path, err)
	}

	fc, err := parse(data)
	if err != nil {
		return false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	err = merge(cfg, fc)
	if err != nil {
		return false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	return true, nil
}

func parse(data []byte) (fileConfig, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var fc fileConfig

	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.DisallowUnknownFields()

	err = dec.Decode(&fc)
	if err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return fc, nil
}

// merge validates fc and overlays its set fields onto cfg. A later layer
// replaces the methods and ranges lists as a whole.
func merge(cfg *Config, fc fileConfig) error {
	if fc.Output != nil {
		if *fc.Output == "" {
			return ErrOutputEmpty
		}

		cfg.Output = *fc.Output
	}

	if fc.Jobs != nil {
		if *fc.Jobs < 1 {
			return fmt.Errorf("%w: got %d", ErrJobsInvalid, *fc.Jobs)
		}

		cfg.Jobs = *fc.Jobs
	}

	if fc.Seed != nil {
		seed := *fc.Seed
		cfg.Seed = &seed
	}

	if fc.Align != nil {
		cfg.Align = *fc.Align
	}

	if fc.Methods != nil {
		for i, m := range fc.Methods {
			err := m.validate()
			if err != nil {
				return fmt.Errorf("methods[%d] (%v): %w", i, m.Method, err)
			}
		}

		cfg.Methods = fc.Methods
	}

	if fc.Ranges != nil {
		for i, s := range fc.Ranges {
			_, err := corrupt.ParseRange(s)
			if err != nil {
				return fmt.Errorf("ranges[%d]: %w", i, err)
			}
		}

		cfg.Ranges = fc.Ranges
	}

	return nil
}

// Output formats accepted by [Format].
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Format renders cfg as indented JSON (the config file shape) or YAML.
func Format(cfg Config, format string) (string, error) {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatJSON, "":
		data, err = json.MarshalIndent(cfg, "", "  ")
	case FormatYAML:
		data, err = yaml.Marshal(cfg)
	default:
		return "", fmt.Errorf("%w: %q", ErrFormatUnknown, format)
	}

	if err != nil {
		return "", fmt.Errorf("format config: %w", err)
	}

	return strings.TrimRight(string(data), "\n"), nil
}
