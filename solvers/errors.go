package solvers

import "errors"

var (
	// ErrWriteAfterFinalize signals a mutation of an already finalized node,
	// time step or iteration. This is an internal-consistency failure, not a
	// recoverable condition.
	ErrWriteAfterFinalize = errors.New("solvers: write to finalized structure")

	// ErrOutOfRange signals access to a node or time step outside the
	// configured grid.
	ErrOutOfRange = errors.New("solvers: index out of range")

	// ErrIterationOpen signals starting a new iteration while the previous
	// one has not been finalized.
	ErrIterationOpen = errors.New("solvers: previous iteration not finalized")
)
