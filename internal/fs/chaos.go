package fs

import (
	"io/fs"
	"math/rand/v2"
	"os"
	"sync"
	"sync/atomic"
	"syscall"

	"golang.org/x/sys/unix"
)

// ChaosConfig controls fault injection probabilities.
// Each rate is a float64 from 0.0 (never) to 1.0 (always).
type ChaosConfig struct {
	ReadFailRate     float64 // Fail ReadFile entirely
	PartialReadRate  float64 // Return a truncated prefix from ReadFile
	WriteFailRate    float64 // Fail WriteFileAtomic before touching the target
	PartialWriteRate float64 // Leave a truncated target behind, then fail
	MkdirFailRate    float64 // Fail MkdirAll
	StatFailRate     float64 // Fail Stat/Exists
}

// DefaultChaosConfig returns a config with reasonable fault rates for testing.
func DefaultChaosConfig() ChaosConfig {
	return ChaosConfig{
		ReadFailRate:     0.02,
		PartialReadRate:  0.02,
		WriteFailRate:    0.02,
		PartialWriteRate: 0.03,
		MkdirFailRate:    0.02,
		StatFailRate:     0.01,
	}
}

// PathState tracks the fault state of a path for consistent error injection.
type PathState int

const (
	// PathNormal means no persistent fault - errors are transient.
	// This is the zero value, so untracked paths are normal.
	PathNormal PathState = iota
	// PathIOError is sticky - the path has a "bad sector" and always returns EIO.
	PathIOError
	// PathReadOnly is sticky for writes - filesystem is read-only, returns EROFS.
	PathReadOnly
	// PathNoPermission is semi-sticky - operations return EACCES 80% of the time.
	PathNoPermission
)

// ChaosMode controls how Chaos behaves.
type ChaosMode uint8

const (
	// ChaosModePassthrough behaves like the underlying FS and ignores sticky
	// path state without clearing it.
	ChaosModePassthrough ChaosMode = iota

	// ChaosModeInject enables fault-rate injection and sticky path state.
	ChaosModeInject

	// ChaosModeStickyOnly applies only sticky path state. Fault rates are disabled.
	ChaosModeStickyOnly
)

// Chaos wraps an [FS] and injects random failures for testing.
//
// Errors are state-aware: once a path gets EIO (bad sector), it stays broken.
// Errors are also reality-aware: ENOENT is only returned if the file really
// doesn't exist on the underlying filesystem.
//
// Injected errors are *fs.PathError values holding a syscall.Errno, so
// errors.Is and os.IsNotExist behave as with real failures. Use [IsInjected]
// to tell them apart.
type Chaos struct {
	fs     FS
	config ChaosConfig
	mode   atomic.Uint32

	mu         sync.Mutex
	rng        *rand.Rand
	pathStates map[string]PathState

	readFails     atomic.Int64
	partialReads  atomic.Int64
	writeFails    atomic.Int64
	partialWrites atomic.Int64
	mkdirFails    atomic.Int64
	statFails     atomic.Int64
}

// NewChaos creates a new Chaos filesystem wrapping the given [FS].
// The seed controls random fault injection for reproducibility.
func NewChaos(fs FS, seed uint64, config ChaosConfig) *Chaos {
	return &Chaos{
		fs:         fs,
		rng:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		config:     config,
		pathStates: make(map[string]PathState),
	}
}

// SetMode updates Chaos behavior. Safe to call concurrently with
// filesystem operations. Switching modes never clears sticky path state.
//
// The default for a new [Chaos] is [ChaosModePassthrough].
func (c *Chaos) SetMode(m ChaosMode) { c.mode.Store(uint32(m)) }

// ChaosStats contains counts of injected faults.
type ChaosStats struct {
	ReadFails     int64
	PartialReads  int64
	WriteFails    int64
	PartialWrites int64
	MkdirFails    int64
	StatFails     int64
}

// Stats returns the current fault injection counts.
func (c *Chaos) Stats() ChaosStats {
	return ChaosStats{
		ReadFails:     c.readFails.Load(),
		PartialReads:  c.partialReads.Load(),
		WriteFails:    c.writeFails.Load(),
		PartialWrites: c.partialWrites.Load(),
		MkdirFails:    c.mkdirFails.Load(),
		StatFails:     c.statFails.Load(),
	}
}

// TotalFaults returns the total number of injected faults.
func (c *Chaos) TotalFaults() int64 {
	s := c.Stats()

	return s.ReadFails + s.PartialReads + s.WriteFails + s.PartialWrites +
		s.MkdirFails + s.StatFails
}

// PathState returns the current fault state for a path (for testing).
func (c *Chaos) PathState(path string) PathState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.pathStates[path]
}

// SetPathState forces the fault state for a path (for testing).
func (c *Chaos) SetPathState(path string, state PathState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if state == PathNormal {
		delete(c.pathStates, path)
	} else {
		c.pathStates[path] = state
	}
}

// ResetAllPathStates clears all fault states (for testing).
func (c *Chaos) ResetAllPathStates() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.pathStates)
}

func (c *Chaos) ReadFile(path string) ([]byte, error) {
	mode := ChaosMode(c.mode.Load())
	if mode == ChaosModePassthrough {
		return c.fs.ReadFile(path)
	}

	if err := c.sticky("read", path, &c.readFails); err != nil {
		return nil, err
	}

	if c.should(mode, c.config.ReadFailRate) {
		errno, err := c.pickError("read", path)
		if err != nil {
			return nil, err
		}

		c.readFails.Add(1)

		return nil, pathError("read", path, errno)
	}

	data, err := c.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if c.should(mode, c.config.PartialReadRate) && len(data) > 1 {
		c.partialReads.Add(1)

		return data[:1+c.randIntn(len(data)-1)], nil
	}

	return data, nil
}

func (c *Chaos) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	mode := ChaosMode(c.mode.Load())
	if mode == ChaosModePassthrough {
		return c.fs.WriteFileAtomic(path, data, perm)
	}

	if err := c.sticky("write", path, &c.writeFails); err != nil {
		return err
	}

	if c.should(mode, c.config.WriteFailRate) {
		errno, err := c.pickError("write", path)
		if err != nil {
			return err
		}

		c.writeFails.Add(1)

		return pathError("write", path, errno)
	}

	// Simulates a writer that bypassed the rename and crashed midway.
	if c.should(mode, c.config.PartialWriteRate) && len(data) > 1 {
		c.partialWrites.Add(1)

		err := c.fs.WriteFileAtomic(path, data[:1+c.randIntn(len(data)-1)], perm)
		if err != nil {
			return err
		}

		errno, err := c.pickError("write", path)
		if err != nil {
			return err
		}

		return pathError("write", path, errno)
	}

	return c.fs.WriteFileAtomic(path, data, perm)
}

func (c *Chaos) MkdirAll(path string, perm os.FileMode) error {
	mode := ChaosMode(c.mode.Load())
	if mode == ChaosModePassthrough {
		return c.fs.MkdirAll(path, perm)
	}

	if err := c.sticky("mkdir", path, &c.mkdirFails); err != nil {
		return err
	}

	if c.should(mode, c.config.MkdirFailRate) {
		errno, err := c.pickError("mkdir", path)
		if err != nil {
			return err
		}

		c.mkdirFails.Add(1)

		return pathError("mkdir", path, errno)
	}

	return c.fs.MkdirAll(path, perm)
}

func (c *Chaos) Stat(path string) (os.FileInfo, error) {
	err := c.statFault(path)
	if err != nil {
		return nil, err
	}

	return c.fs.Stat(path)
}

func (c *Chaos) Exists(path string) (bool, error) {
	err := c.statFault(path)
	if err != nil {
		return false, err
	}

	return c.fs.Exists(path)
}

func (c *Chaos) statFault(path string) error {
	mode := ChaosMode(c.mode.Load())
	if mode == ChaosModePassthrough {
		return nil
	}

	if err := c.sticky("stat", path, &c.statFails); err != nil {
		return err
	}

	if c.should(mode, c.config.StatFailRate) {
		errno, err := c.pickError("stat", path)
		if err != nil {
			return err
		}

		c.statFails.Add(1)

		return pathError("stat", path, errno)
	}

	return nil
}

// sticky returns the error implied by the sticky state of path, if any.
// A no-permission path recovers with 20% probability per call.
func (c *Chaos) sticky(op, path string, counter *atomic.Int64) error {
	state := c.PathState(path)

	if state == PathNoPermission {
		if c.randFloat() < 0.8 {
			counter.Add(1)

			return pathError(op, path, unix.EACCES)
		}

		c.SetPathState(path, PathNormal)

		return nil
	}

	switch {
	case state == PathIOError:
		counter.Add(1)

		return pathError(op, path, unix.EIO)
	case state == PathReadOnly && isWriteOp(op):
		counter.Add(1)

		return pathError(op, path, unix.EROFS)
	}

	return nil
}

// should returns true with the given probability when chaos is injecting.
func (c *Chaos) should(mode ChaosMode, rate float64) bool {
	if mode != ChaosModeInject {
		return false
	}

	return c.randFloat() < rate
}

func (c *Chaos) randFloat() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.rng.Float64()
}

func (c *Chaos) randIntn(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.rng.IntN(n)
}

// errToState converts an injected errno to the state it leaves behind.
func errToState(err syscall.Errno) PathState {
	switch err {
	case unix.EIO:
		return PathIOError
	case unix.EROFS:
		return PathReadOnly
	case unix.EACCES, unix.EPERM:
		return PathNoPermission
	default:
		return PathNormal
	}
}

func isWriteOp(op string) bool {
	return op == "write" || op == "mkdir"
}

// pathError creates an *fs.PathError like the OS would return and marks it
// as injected.
func pathError(op, path string, errno syscall.Errno) error {
	pe := &fs.PathError{Op: op, Path: path, Err: errno}
	markInjectedPathError(pe)

	return pe
}

// pickError selects an errno consistent with the operation and with whether
// path really exists, then records the resulting sticky state.
func (c *Chaos) pickError(op string, path string) (syscall.Errno, error) {
	var valid []syscall.Errno

	switch op {
	case "read":
		valid = []syscall.Errno{unix.EIO, unix.EINTR, unix.EACCES}
	case "write":
		valid = []syscall.Errno{unix.EACCES, unix.EIO, unix.ENOSPC, unix.EDQUOT, unix.EROFS}
	case "mkdir":
		valid = []syscall.Errno{unix.EACCES, unix.ENOSPC, unix.EROFS}
	case "stat":
		// Surface a real existence-check failure rather than guessing.
		exists, err := c.fs.Exists(path)
		if err != nil {
			return 0, err
		}

		if exists {
			valid = []syscall.Errno{unix.EACCES, unix.EIO}
		} else {
			valid = []syscall.Errno{unix.ENOENT, unix.EACCES, unix.EIO}
		}
	default:
		valid = []syscall.Errno{unix.EIO}
	}

	errno := valid[c.randIntn(len(valid))]
	c.SetPathState(path, errToState(errno))

	return errno, nil
}

// Compile-time interface check.
var _ FS = (*Chaos)(nil)
