package spatial

import "errors"

var (
	// ErrNotFound is returned when a point to delete is not stored.
	ErrNotFound = errors.New("spatial: point not found")

	// ErrEmpty is returned by queries that need at least one stored element.
	ErrEmpty = errors.New("spatial: empty structure")

	// ErrInvalidArgument is returned for bad capacities, negative k,
	// dimension mismatches and invalid configs.
	ErrInvalidArgument = errors.New("spatial: invalid argument")
)
