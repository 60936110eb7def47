package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateJob is matched by errors.Is for every *DuplicateJobError.
	ErrDuplicateJob = errors.New("duplicate job")
	// ErrUnknownJob is matched by errors.Is for every *UnknownJobError.
	ErrUnknownJob = errors.New("unknown job")
	// ErrNegativeValue is returned for a negative duration or edge weight.
	ErrNegativeValue = errors.New("negative value")
)

// DuplicateJobError is returned by AddJob when the id is already registered.
type DuplicateJobError struct {
	ID JobID
}

func (e *DuplicateJobError) Error() string {
	return fmt.Sprintf("job %q already exists", e.ID)
}

// Is reports whether target is ErrDuplicateJob.
func (e *DuplicateJobError) Is(target error) bool {
	return target == ErrDuplicateJob
}

// UnknownJobError is returned by AddDependency when an endpoint is missing.
type UnknownJobError struct {
	ID JobID
	// Role is "producer" or "consumer".
	Role string
}

func (e *UnknownJobError) Error() string {
	return fmt.Sprintf("%s job %q not found", e.Role, e.ID)
}

// Is reports whether target is ErrUnknownJob.
func (e *UnknownJobError) Is(target error) bool {
	return target == ErrUnknownJob
}
