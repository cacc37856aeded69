package flashenv

import "errors"

// Error kinds returned by [Store] operations. These are user-level results,
// not programmer-error conditions; the latter are fatal assertions (panics)
// per the core's single-threaded, non-reentrant contract.
var (
	// ErrNameError is returned when a key is empty, contains '=', or (for
	// Del) does not exist.
	ErrNameError = errors.New("flashenv: name error")

	// ErrNameExists is returned by Create when the key already exists.
	ErrNameExists = errors.New("flashenv: name already exists")

	// ErrFull is returned when a record does not fit in the remaining
	// detail area, or when Save has exhausted every wear-leveling slot in
	// the region.
	ErrFull = errors.New("flashenv: region full")

	// ErrCorrupt is returned internally by recovery when the persisted
	// image fails validation (out-of-range pointers or CRC mismatch); it
	// never escapes Load, which falls back to defaults instead.
	ErrCorrupt = errors.New("flashenv: corrupt image")
)
