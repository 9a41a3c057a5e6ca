package gpt

import (
	"errors"
	"fmt"
)

// ErrIO is returned when the underlying BlockDevice reported a hard I/O
// failure. The caller should not retry at this layer.
var ErrIO = errors.New("gpt: device i/o error")

// ErrInvalid is returned when on-disk bytes or a caller-supplied label do
// not satisfy the GPT format or the package's layout invariants.
var ErrInvalid = errors.New("gpt: invalid label")

// ErrOther wraps an unexpected error surfaced by a capability the package
// consumes (BlockDevice, UUIDSource, HwFixupSource).
var ErrOther = errors.New("gpt: other error")

// wrapf wraps one of the three sentinels above with formatted context;
// every helper that talks to a capability (BlockDevice, UUIDSource,
// HwFixupSource) wraps the failure instead of returning it bare.
func wrapf(sentinel error, format string, args ...any) error {
	return &wrappedError{sentinel: sentinel, msg: fmt.Sprintf(format, args...)}
}

type wrappedError struct {
	sentinel error
	msg      string
}

func (e *wrappedError) Error() string { return e.msg }
func (e *wrappedError) Unwrap() error { return e.sentinel }
