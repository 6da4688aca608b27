package checkpoint

import (
	"errors"
	"fmt"
)

var (
	// ErrPartsDirMissing is returned when the fragments directory does not exist.
	ErrPartsDirMissing = errors.New("fragments directory not found")

	// ErrNoFragments is returned when the fragments directory has no matching files.
	ErrNoFragments = errors.New("no model fragments found")

	// ErrBadSuffix is returned for a fragment whose suffix is not a number.
	ErrBadSuffix = errors.New("fragment name must end with partN")

	// ErrDuplicateFragment is returned when two fragments share an index.
	ErrDuplicateFragment = errors.New("duplicate fragment index")

	// ErrFragmentsExist is returned by Split when the target directory
	// already holds fragments of the same checkpoint.
	ErrFragmentsExist = errors.New("fragments already exist")
)

// CombineError describes an I/O failure while writing the combined file.
type CombineError struct {
	Op       string // "open", "read", "write", "sync", "rename", ...
	Fragment string // empty when the failure is not tied to one fragment
	Err      error
}

func (e *CombineError) Error() string {
	if e.Fragment == "" {
		return fmt.Sprintf("failed to combine model files: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("failed to combine model files: %s %s: %v", e.Op, e.Fragment, e.Err)
}

func (e *CombineError) Unwrap() error {
	return e.Err
}
