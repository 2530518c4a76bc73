//go:build linux

package liburing

import (
	stderrors "errors"
	"syscall"

	"github.com/brickingsoft/errors"
)

var (
	ErrKernel          = errors.Define("io_uring kernel call failed")
	ErrMap             = errors.Define("io_uring ring mapping failed")
	ErrInvalidState    = errors.Define("io_uring ring is not fully mapped")
	ErrInvalidArgument = errors.Define("io_uring invalid argument")
	ErrMLockBudget     = errors.Define("io_uring ring exceeds the memlock limit")
)

// IsKernelError reports whether err came from io_uring_setup(2) or io_uring_register(2).
func IsKernelError(err error) bool {
	return errors.Is(err, ErrKernel)
}

// IsMapError reports whether err came from mapping or advising ring memory.
func IsMapError(err error) bool {
	return errors.Is(err, ErrMap)
}

func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

func IsMLockBudgetExceeded(err error) bool {
	return errors.Is(err, ErrMLockBudget)
}

// Errno returns the OS error code carried by err, if any.
func Errno(err error) (syscall.Errno, bool) {
	var errno syscall.Errno
	if stderrors.As(err, &errno) {
		return errno, true
	}
	return 0, false
}

const (
	errMetaPkgKey = "pkg"
	errMetaPkgVal = "liburing"
)

const (
	errMetaOpKey         = "op"
	errMetaOpSetup       = "setup"
	errMetaOpRegister    = "register"
	errMetaOpClose       = "close"
	errMetaOpMmapSQRing  = "mmap_sq_ring"
	errMetaOpMmapCQRing  = "mmap_cq_ring"
	errMetaOpMmapSQEs    = "mmap_sqes"
	errMetaOpDontFork    = "dontfork"
	errMetaOpMLockSize   = "mlock_size"
	errMetaOpMLockLimit  = "mlock_limit"
	errMetaOpMLockBudget = "mlock_budget"
)

const (
	errMetaNeedKey  = "need"
	errMetaLimitKey = "limit"
)

// RingError is the error returned by a failed ring operation.
// errors.Is matches it against its kind (ErrKernel, ErrMap, ...),
// errors.As reaches the OS error code in Err.
type RingError struct {
	Op   string
	Err  error
	kind error
}

func (e *RingError) Error() string {
	if e.Err == nil {
		return e.kind.Error() + ": " + e.Op
	}
	return e.kind.Error() + ": " + e.Op + ": " + e.Err.Error()
}

func (e *RingError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.Err}
}

func newRingError(kind error, op string, cause error) error {
	return &RingError{
		Op:  op,
		Err: cause,
		kind: errors.From(
			kind,
			errors.WithMeta(errMetaPkgKey, errMetaPkgVal),
			errors.WithMeta(errMetaOpKey, op),
		),
	}
}

func kernelError(op string, cause error) error {
	return newRingError(ErrKernel, op, cause)
}

func mapError(op string, cause error) error {
	return newRingError(ErrMap, op, cause)
}

func invalidState(op string) error {
	return newRingError(ErrInvalidState, op, syscall.EINVAL)
}

func invalidArgument(op string) error {
	return newRingError(ErrInvalidArgument, op, syscall.EINVAL)
}
