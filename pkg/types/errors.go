package types

import (
	"errors"
	"fmt"
)

// Engine errors. Every engine operation that fails with one of these leaves
// the receiver unchanged.
var (
	// ErrOutOfRange reports an index, quantity or numeric value outside its
	// valid range.
	ErrOutOfRange = errors.New("value out of range")

	// ErrInvalidValue reports a value that is not valid for the game or
	// generation (species, item, move, ability, form, location).
	ErrInvalidValue = errors.New("invalid value")

	// ErrUnsupported reports an operation that no argument could make succeed
	// for this game or format.
	ErrUnsupported = errors.New("operation not supported")
)

// Refinements of the engine errors. Each wraps its parent kind so callers may
// test for either.
var (
	ErrFieldNotApplicable = fmt.Errorf("%w: field not applicable to this generation", ErrInvalidValue)
	ErrIncompatibleGame   = fmt.Errorf("%w: games are not convertible", ErrInvalidValue)
	ErrPocketFull         = fmt.Errorf("%w: pocket is full", ErrOutOfRange)
)

// Codec errors.
var (
	ErrInvalidSave        = errors.New("invalid or unrecognized save data")
	ErrAttributeNotFound  = errors.New("attribute not found")
	ErrInvalidPokemonFile = errors.New("invalid pokemon file")
	// ErrUnknownEntry marks a save that decodes but refers to a species, move,
	// item or location the Reference Database does not hold.
	ErrUnknownEntry       = fmt.Errorf("%w: entry missing from the reference database", ErrInvalidSave)
)

// Reference Database errors.
var (
	ErrDatabaseDetached = errors.New("database is detached")
	ErrNotFound         = errors.New("entry not found")
)
