package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/calvinalkan/korrupt/internal/fs"
	"github.com/calvinalkan/korrupt/pkg/corrupt"
)

// statFS reports a fixed mode and size for every Stat, as pipes, devices
// and procfs files do.
type statFS struct {
	fs.FS

	mode os.FileMode
	size int64
}

func (s statFS) Stat(path string) (os.FileInfo, error) {
	return fakeInfo{name: filepath.Base(path), mode: s.mode, size: s.size}, nil
}

type fakeInfo struct {
	name string
	mode os.FileMode
	size int64
}

func (f fakeInfo) Name() string       { return f.name }
func (f fakeInfo) Size() int64        { return f.size }
func (f fakeInfo) Mode() os.FileMode  { return f.mode }
func (f fakeInfo) ModTime() time.Time { return time.Time{} }
func (f fakeInfo) IsDir() bool        { return f.mode.IsDir() }
func (f fakeInfo) Sys() any           { return nil }

func Test_ProcessJob_Checks_Size_Only_For_Short_Regular_Reads(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		mode      os.FileMode
		size      int64
		wantShort bool
	}{
		{name: "NamedPipe", mode: os.ModeNamedPipe, size: 0},
		{name: "CharDevice", mode: os.ModeDevice | os.ModeCharDevice, size: 0},
		{name: "ProcfsStyleRegular", mode: 0o444, size: 0},
		{name: "RegularMatching", mode: 0o644, size: 4},
		{name: "RegularShort", mode: 0o644, size: 64, wantShort: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			input := filepath.Join(dir, "in")

			if err := os.WriteFile(input, []byte{1, 2, 3, 4}, 0o600); err != nil {
				t.Fatalf("setup: %v", err)
			}

			fsys := statFS{FS: fs.NewReal(), mode: testCase.mode, size: testCase.size}
			opts := corruptOptions{
				seed:    1,
				align:   corrupt.AlignPad,
				methods: []corrupt.MethodSpec{{Method: corrupt.Flip, Rounds: 1, Length: corrupt.FixedLength(1)}},
				jobs:    1,
			}

			res := processJob(fsys, opts, job{input: input, output: filepath.Join(dir, "out")})

			if got, want := errors.Is(res.err, ErrShortRead), testCase.wantShort; got != want {
				t.Fatalf("short read=%t, want=%t (err=%v)", got, want, res.err)
			}

			if testCase.wantShort {
				return
			}

			if res.err != nil {
				t.Fatalf("processJob: %v", res.err)
			}

			if got, want := res.report.InputBits, uint64(32); got != want {
				t.Fatalf("input bits=%d, want=%d", got, want)
			}
		})
	}
}
