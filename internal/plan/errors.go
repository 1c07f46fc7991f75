package plan

import "errors"

var (
	// ErrMissingDependency reports a stage whose upstream stage does not exist yet
	ErrMissingDependency = errors.New("missing dependency")

	// ErrDegenerate reports landmarks that do not define a plane
	ErrDegenerate = errors.New("degenerate geometry")

	// ErrUnknownChannel reports an unrecognized parameter channel
	ErrUnknownChannel = errors.New("unknown parameter channel")

	// ErrUnknownRole reports an unrecognized plane role
	ErrUnknownRole = errors.New("unknown plane role")
)
