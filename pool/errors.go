package pool

import "errors"

// Errors returned (or, for the fatal tier, wrapped into a panic value) by
// the pool engine. See spec.md §7 for the three-tier error model this maps
// to: fatal conditions panic, logged-and-ignored conditions are absorbed
// and logged, and these sentinels cover the remaining caller-visible cases.
var (
	// ErrInvalidArgument is returned by AddBytes when called with a nil
	// buffer.
	ErrInvalidArgument = errors.New("pool: invalid argument")

	// ErrSeedFileAlreadySet is panicked by SetSeedFile on re-registration;
	// the original documents this as a fatal bug, not a recoverable error.
	ErrSeedFileAlreadySet = errors.New("pool: seed file already registered")

	// ErrNoEntropySource is panicked when no slow gatherer is bound at the
	// point a read demands entropy, or when a bound gatherer fails.
	ErrNoEntropySource = errors.New("pool: no usable entropy source")

	// ErrRequestTooLarge is panicked when a single chunk passed
	// internally to the reader exceeds PoolSize; the public Randomize
	// entry point never lets this escape since it always chunks requests.
	ErrRequestTooLarge = errors.New("pool: requested more random data than the pool size")
)
