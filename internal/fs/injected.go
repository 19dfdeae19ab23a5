package fs

import (
	"errors"
	iofs "io/fs"
	"sync"
)

// injectedPathErrors holds every *fs.PathError created by [Chaos].
//
// Chaos returns plain path errors so os.IsNotExist and errors.Is keep
// working. The registry lets tests still tell them apart from real OS errors.
var injectedPathErrors sync.Map // map[*fs.PathError]struct{}

// IsInjected reports whether err (or any wrapped error) was injected by [Chaos].
// Returns false if err is nil.
func IsInjected(err error) bool {
	var pathErr *iofs.PathError
	if !errors.As(err, &pathErr) {
		return false
	}

	_, ok := injectedPathErrors.Load(pathErr)

	return ok
}

func markInjectedPathError(err *iofs.PathError) {
	injectedPathErrors.Store(err, struct{}{})
}
