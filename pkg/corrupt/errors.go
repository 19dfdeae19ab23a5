package corrupt

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the corruption engine.
//
// Callers should use [errors.Is] to check error types.
var (
	// ErrConfig indicates an invalid or incomplete plan configuration.
	//
	// Returned by [Builder.Build], [BuildPlan], [NewRange] and the parse
	// helpers. Never returned while a plan runs.
	ErrConfig = errors.New("corrupt: invalid config")

	// ErrUnknownMethod indicates a method name that [ParseMethod] does not know.
	// It also matches [ErrConfig].
	ErrUnknownMethod = fmt.Errorf("%w: unknown method", ErrConfig)

	// ErrLength indicates a bit buffer whose length is not a multiple of 8
	// was serialized with [AlignStrict].
	ErrLength = errors.New("corrupt: bit length not byte-aligned")
)
