package flash

import "fmt"

// FaultConfig controls deterministic fault injection on a [Fault] device.
//
// Unlike a rate-based fault model, FaultConfig queues an exact number of
// failures so tests can assert precisely on wear-leveling migration.
type FaultConfig struct {
	// FailEraseCount is the number of upcoming Erase calls that fail before
	// Erase calls start succeeding again.
	FailEraseCount int

	// FailWriteCount is the number of upcoming Write calls that fail before
	// Write calls start succeeding again.
	FailWriteCount int

	// ClearAbandonedOnFailure, when true, makes the wrapped device still
	// erase (to [unwritten]) the targeted range even when reporting a
	// simulated erase failure, modeling a controller that re-erases a block
	// it gave up on before moving past it. Simulated write failures never
	// touch the wrapped device. Default false: the failed sectors are left
	// as-is and simply abandoned.
	ClearAbandonedOnFailure bool
}

// Fault wraps a [Device] and injects deterministic erase/write failures.
//
// Panics if the wrapped device is nil.
type Fault struct {
	inner  Device
	config FaultConfig

	eraseFails int
	writeFails int
}

// NewFault returns a [Fault] wrapping inner with the given configuration.
// Panics if inner is nil.
func NewFault(inner Device, config FaultConfig) *Fault {
	if inner == nil {
		panic("flash: inner device is nil")
	}

	return &Fault{inner: inner, config: config}
}

// FailNextErases queues n additional erase failures.
func (f *Fault) FailNextErases(n int) { f.config.FailEraseCount += n }

// FailNextWrites queues n additional write failures.
func (f *Fault) FailNextWrites(n int) { f.config.FailWriteCount += n }

// EraseFailuresDelivered reports how many Erase calls have failed so far.
func (f *Fault) EraseFailuresDelivered() int { return f.eraseFails }

// WriteFailuresDelivered reports how many Write calls have failed so far.
func (f *Fault) WriteFailuresDelivered() int { return f.writeFails }

// Read implements [Device], passing through to the wrapped device
// unconditionally; fault injection only targets erase and write.
func (f *Fault) Read(addr uint32, dst []byte, nbytes uint32) error {
	return f.inner.Read(addr, dst, nbytes)
}

// Write implements [Device].
func (f *Fault) Write(addr uint32, src []byte, nbytes uint32) error {
	if f.config.FailWriteCount > 0 {
		f.config.FailWriteCount--
		f.writeFails++

		return fmt.Errorf("%w: injected at addr=%d len=%d", ErrWrite, addr, nbytes)
	}

	return f.inner.Write(addr, src, nbytes)
}

// Erase implements [Device].
func (f *Fault) Erase(addr uint32, nbytes uint32) error {
	if f.config.FailEraseCount > 0 {
		f.config.FailEraseCount--
		f.eraseFails++

		if f.config.ClearAbandonedOnFailure {
			_ = f.inner.Erase(addr, nbytes)
		}

		return fmt.Errorf("%w: injected at addr=%d len=%d", ErrErase, addr, nbytes)
	}

	return f.inner.Erase(addr, nbytes)
}

var _ Device = (*Fault)(nil)
