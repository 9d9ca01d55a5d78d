package core

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownName is wrapped by the Parse* functions.
	ErrUnknownName = errors.New("unknown name")

	// ErrMissingPending is returned when an additive action tile holds one
	// flow but has no buffered input to combine with.
	ErrMissingPending = errors.New("action tile has no pending input")

	// ErrMalformedSave is wrapped by save decoding failures.
	ErrMalformedSave = errors.New("malformed save data")

	// ErrInvalidProperty is wrapped when a label has an unknown color or a
	// pressure outside 1-MaxPressure.
	ErrInvalidProperty = errors.New("invalid property")
)

// DuplicateFlowError is returned when a flow is written into an occupied slot.
type DuplicateFlowError struct {
	Key Key
}

func (e *DuplicateFlowError) Error() string {
	return fmt.Sprintf("duplicate flow in slot %s", e.Key)
}

// UnknownKindError is returned when a tile kind falls outside the known set.
type UnknownKindError struct {
	Kind TileKind
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown tile kind %d", uint8(e.Kind))
}
