package bjpeg

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel error classes, matching the encoder's error taxonomy. Use
// errors.Is against these to classify a failure returned by Encode.
var (
	// ErrInvalidInput covers malformed input and unsupported parameters:
	// bad PPM data, unsupported sampling specs, bad quality values.
	ErrInvalidInput = errors.New("bjpeg: invalid input")

	// ErrUnsupportedSampling is a narrower InvalidInput: the requested
	// (a, b, vertical) subsampling shape isn't one bjpeg implements.
	ErrUnsupportedSampling = errors.New("bjpeg: unsupported chroma subsampling")

	// ErrDimension means a plane's width or height is not a multiple of 8
	// after subsampling.
	ErrDimension = errors.New("bjpeg: plane dimensions not a multiple of 8")

	// ErrAlphabetTooLarge means Package-Merge cannot fit the symbol set in
	// the requested code-length bound.
	ErrAlphabetTooLarge = errors.New("bjpeg: huffman alphabet too large for length limit")

	// ErrWorkerFailure means a dispatcher worker panicked or failed to
	// join.
	ErrWorkerFailure = errors.New("bjpeg: parallel worker failure")

	// ErrIO covers write failures on the destination.
	ErrIO = errors.New("bjpeg: io error")
)

// stageError attaches a pipeline stage name and an optional underlying
// cause to one of the sentinel classes above, while still satisfying
// errors.Is(err, class) and errors.Unwrap(err) == cause.
type stageError struct {
	class error
	stage string
	cause error
}

func (e *stageError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("%s: %s", e.stage, e.class.Error())
	}
	return fmt.Sprintf("%s: %s: %v", e.stage, e.class.Error(), e.cause)
}

func (e *stageError) Unwrap() error { return e.cause }

func (e *stageError) Is(target error) bool { return target == e.class }

// wrap attaches stage context to cause using one of the sentinel classes
// above. cause may be nil.
func wrap(class error, stage string, cause error) error {
	return &stageError{class: class, stage: stage, cause: cause}
}

// ExitCode maps an error returned by Encode (or a CLI-level failure) to a
// process exit code, per the encoder's error taxonomy.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUnsupportedSampling):
		return 2
	case errors.Is(err, ErrDimension):
		return 3
	case errors.Is(err, ErrAlphabetTooLarge):
		return 4
	case errors.Is(err, ErrWorkerFailure):
		return 5
	case errors.Is(err, ErrIO):
		return 6
	default:
		return 1
	}
}
