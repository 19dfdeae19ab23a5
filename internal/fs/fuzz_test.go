package fs

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"
)

// =============================================================================
// Fuzz Tests
//
// These tests verify PROPERTIES that should hold across many random inputs:
//   - Chaos in passthrough mode behaves exactly like Real
//   - Partial reads always return a valid prefix of the original
//   - Partial writes always leave a valid prefix on disk
// =============================================================================

func FuzzChaos_PassthroughMatchesReal(f *testing.F) {
	f.Add(uint64(0), []byte("hello world"))
	f.Add(uint64(1), []byte{})
	f.Add(uint64(math.MaxUint64), []byte{0x00, 0xFF})

	f.Fuzz(func(t *testing.T, seed uint64, content []byte) {
		dir := t.TempDir()

		realFS := NewReal()
		chaosFS := NewChaos(NewReal(), seed, allFaults())
		chaosFS.SetMode(ChaosModePassthrough)

		realPath := filepath.Join(dir, "real", "out.bin")
		chaosPath := filepath.Join(dir, "chaos", "out.bin")

		realErr := realFS.MkdirAll(filepath.Dir(realPath), 0o750)

		chaosErr := chaosFS.MkdirAll(filepath.Dir(chaosPath), 0o750)
		if got, want := chaosErr == nil, realErr == nil; got != want {
			t.Fatalf("MkdirAll: real=%v chaos=%v", realErr, chaosErr)
		}

		realErr = realFS.WriteFileAtomic(realPath, content, 0o644)

		chaosErr = chaosFS.WriteFileAtomic(chaosPath, content, 0o644)
		if got, want := chaosErr == nil, realErr == nil; got != want {
			t.Fatalf("WriteFileAtomic: real=%v chaos=%v", realErr, chaosErr)
		}

		realData, _ := realFS.ReadFile(realPath)
		chaosData, _ := chaosFS.ReadFile(chaosPath)

		if !bytes.Equal(chaosData, realData) {
			t.Fatalf("ReadFile: chaos=%q, real=%q", chaosData, realData)
		}

		realExists, _ := realFS.Exists(realPath)
		chaosExists, _ := chaosFS.Exists(chaosPath)

		if got, want := chaosExists, realExists; got != want {
			t.Fatalf("Exists: got=%v, want=%v", got, want)
		}
	})
}

func FuzzChaos_PartialReadIsPrefix(f *testing.F) {
	f.Add(uint64(0), []byte("ab"))
	f.Add(uint64(1), []byte("the quick brown fox"))
	f.Add(uint64(100), []byte{0x00, 0xFF, 0x00, 0xFF})
	f.Add(uint64(200), []byte(strings.Repeat("x", 4097)))

	f.Fuzz(func(t *testing.T, seed uint64, content []byte) {
		if len(content) < 2 {
			return
		}

		path := filepath.Join(t.TempDir(), "in.bin")

		realFS := NewReal()
		if err := realFS.WriteFileAtomic(path, content, 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}

		chaosFS := NewChaos(realFS, seed, ChaosConfig{PartialReadRate: 1.0})
		chaosFS.SetMode(ChaosModeInject)

		data, err := chaosFS.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}

		if !bytes.HasPrefix(content, data) || len(data) >= len(content) || len(data) == 0 {
			t.Fatalf("partial read should be a strict prefix\noriginal: %q\ngot: %q", content, data)
		}
	})
}

func FuzzChaos_PartialWriteIsPrefix(f *testing.F) {
	f.Add(uint64(0), []byte("ab"))
	f.Add(uint64(7), []byte("corrupted output"))

	f.Fuzz(func(t *testing.T, seed uint64, content []byte) {
		if len(content) < 2 {
			return
		}

		path := filepath.Join(t.TempDir(), "out.bin")

		chaosFS := NewChaos(NewReal(), seed, ChaosConfig{PartialWriteRate: 1.0})
		chaosFS.SetMode(ChaosModeInject)

		if err := chaosFS.WriteFileAtomic(path, content, 0o644); err == nil {
			t.Fatal("partial write reported success")
		}

		data, err := NewReal().ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}

		if !bytes.HasPrefix(content, data) || len(data) >= len(content) {
			t.Fatalf("on-disk data should be a strict prefix\noriginal: %q\ngot: %q", content, data)
		}
	})
}
