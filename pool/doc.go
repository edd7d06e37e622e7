// Package pool implements a continuously-seeded CSPRNG core modeled on
// Peter Gutmann's "Software Generation of Practically Strong Random
// Numbers" design, as used in classic libgcrypt.
//
// The generator keeps a 600-byte entropy pool that is stirred by an
// overlapping-window SHA-1 cascade (see mixer.go) and fed from entropy
// sources of varying trust (see intake.go, poll.go). Output is derived
// from a scratch copy of the pool so that raw pool bytes are never
// handed to a caller (see read.go).
//
// All mutable state lives behind a single mutex on *Engine; there is no
// other synchronization. Source backends are supplied through the
// pool/source package and bound with SetSlowGatherer, SetFastGatherer and
// SetHWGatherer.
package pool
