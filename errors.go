package searchcol

import "errors"

// Sentinel errors for the search column core. They are compared with
// errors.Is the same way the teacher compares ErrNoPostingList and friends.
var (
	// ErrTermMissing is returned (and, at the column façade, recovered) when
	// a query references a term the dictionary never assigned an id to.
	ErrTermMissing = errors.New("searchcol: term not found in dictionary")

	// ErrPositionOverflow is returned when a token position exceeds the
	// encoder's payload capacity.
	ErrPositionOverflow = errors.New("searchcol: position overflows encoder payload width")

	// ErrDocTooLong is returned by the builder when a document's token
	// count exceeds MaxPosition.
	ErrDocTooLong = errors.New("searchcol: document length exceeds MaxPosition")

	// ErrMalformedPositions is returned when a position slice passed to the
	// positional index is not strictly ascending, or otherwise inconsistent.
	ErrMalformedPositions = errors.New("searchcol: positions must be strictly ascending")

	// ErrOutOfRange is returned for out-of-bounds element access.
	ErrOutOfRange = errors.New("searchcol: index out of range")

	// ErrTypeMismatch is returned when a value of the wrong shape/type is
	// supplied where a string, token list, or single-element slot is required.
	ErrTypeMismatch = errors.New("searchcol: unexpected value type")

	// ErrIncompatibleDict is returned when merging or concatenating columns
	// whose term dictionaries disagree on a shared id.
	ErrIncompatibleDict = errors.New("searchcol: incompatible term dictionaries")
)
