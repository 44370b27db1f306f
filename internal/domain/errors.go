package domain

import "errors"

var (
	// ErrUnknownScenario is returned for unrecognised failure scenarios
	ErrUnknownScenario = errors.New("unknown failure scenario")

	// ErrUnknownMapping is returned when no normalization mapping exists
	// for a (provider, source) pair
	ErrUnknownMapping = errors.New("unknown provider/source mapping")

	// ErrMissingField is wrapped by per-record normalization errors
	ErrMissingField = errors.New("missing required field")

	// ErrSnapshotUnavailable is returned when no graph snapshot has been
	// discovered yet
	ErrSnapshotUnavailable = errors.New("no graph snapshot available")

	// ErrStoreUnavailable is returned when the persistence backend is not
	// configured
	ErrStoreUnavailable = errors.New("store not available")
)
