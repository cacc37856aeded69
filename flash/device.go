// Package flash defines the flash adapter contract used by the flashenv
// core, plus the implementations this module ships: a host-file-backed
// simulated NOR region, a deterministic fault injector, and a
// snapshot/rollback wrapper for power-loss testing.
//
// The core (package flashenv) only ever depends on the [Device] interface.
// Everything in this package is an external collaborator from the core's
// point of view.
package flash

import "errors"

// ErrErase is returned by [Device.Erase] on failure. The flashenv persister
// treats this as a signal to migrate the active block forward, never as a
// user-facing error.
var ErrErase = errors.New("flash: erase failed")

// ErrWrite is returned by [Device.Write] on failure. Like [ErrErase], this
// drives wear-leveling migration rather than surfacing to callers.
var ErrWrite = errors.New("flash: write failed")

// Device is the word-aligned flash adapter contract. Addresses and lengths
// are absolute byte offsets into the region; all three operations assume
// 4-byte alignment, mirroring real NOR flash word granularity.
//
// Implementations are not required to be safe for concurrent use; the
// flashenv core is single-threaded and non-reentrant by design.
type Device interface {
	// Read copies nbytes starting at addr into dst. dst must have length
	// >= nbytes. Reads of never-written flash return 0xFF bytes.
	Read(addr uint32, dst []byte, nbytes uint32) error

	// Write programs nbytes from src at addr. Returns [ErrWrite] (or an
	// error wrapping it) on failure.
	Write(addr uint32, src []byte, nbytes uint32) error

	// Erase clears at least nbytes starting at addr, rounded up to the
	// device's erase unit. Returns [ErrErase] (or an error wrapping it) on
	// failure.
	Erase(addr uint32, nbytes uint32) error
}
