package world

import (
	"errors"
	"fmt"
)

var (
	// ErrZeroMass is returned when a body's mass would be set to zero.
	ErrZeroMass = errors.New("mass can not be set to 0")
	// ErrInvalidMass is returned for negative or non-finite masses.
	ErrInvalidMass = errors.New("mass must be positive and finite")
	// ErrNegativeExtent is returned when a radius or half extent is negative.
	ErrNegativeExtent = errors.New("extent can not be negative")
	// ErrNonFiniteExtent is returned when a radius or half extent is NaN or infinite.
	ErrNonFiniteExtent = errors.New("extent must be finite")
	// ErrShapeMismatch is returned when an extent setter does not apply to the body's shape.
	ErrShapeMismatch = errors.New("extent does not apply to shape")
	// ErrDuplicateBody is returned when a body ID is already registered.
	ErrDuplicateBody = errors.New("duplicate body id")
	// ErrDuplicateGroup is returned when a group name is already registered.
	ErrDuplicateGroup = errors.New("duplicate group name")
	// ErrUnknownBody is returned when a body ID is not registered.
	ErrUnknownBody = errors.New("unknown body")
	// ErrUnknownGroup is returned when a group name is not registered.
	ErrUnknownGroup = errors.New("unknown group")
	// ErrSharedCenter is returned when every body of a self-colliding group
	// would be moved to the same point.
	ErrSharedCenter = errors.New("internally collidable group can not place all bodies at the same location")
	// ErrInvariant marks geometry states the resolvers treat as impossible.
	ErrInvariant = errors.New("collision invariant violated")
)

// InvariantError reports a classification branch that matched no bounce.
// It indicates a geometry bug, not a recoverable runtime condition.
type InvariantError struct {
	Resolver string
	BodyID   string
	Detail   string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s (body %s): %s", ErrInvariant, e.Resolver, e.BodyID, e.Detail)
}

// Unwrap lets errors.Is match ErrInvariant.
func (e *InvariantError) Unwrap() error {
	return ErrInvariant
}
