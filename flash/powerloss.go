package flash

// PowerLoss wraps a [Device] and lets tests simulate a crash: take a
// durable [Snapshot], perform some writes/erases, then [Crash] to discard
// everything since the snapshot.
//
// This models the commit-atomicity gap: the interval between "new active
// block written" and "system slot updated" is unprotected, so a crash in
// that window must revert a fresh load to the previous, still-consistent
// block.
//
// PowerLoss wraps a [*FileDevice] only: it captures the region with
// [FileDevice.Snapshot] and restores it by writing the captured bytes back
// over the whole region.
type PowerLoss struct {
	inner *FileDevice

	durable []byte // byte-for-byte copy of inner's region as of the last Snapshot
}

// NewPowerLoss returns a [PowerLoss] wrapping inner, with the current
// contents of inner captured as the initial durable snapshot. Panics if
// inner is nil.
func NewPowerLoss(inner *FileDevice) *PowerLoss {
	if inner == nil {
		panic("flash: inner device is nil")
	}

	return &PowerLoss{inner: inner, durable: inner.Snapshot()}
}

// Snapshot captures the device's current contents as the new durable point.
// A later [PowerLoss.Crash] reverts to exactly this state.
func (p *PowerLoss) Snapshot() {
	p.durable = p.inner.Snapshot()
}

// Crash discards everything written since the last [PowerLoss.Snapshot] (or
// since construction, if Snapshot was never called), simulating a power
// loss. The wrapped device's contents are reset to the durable snapshot.
func (p *PowerLoss) Crash() {
	restored := make([]byte, len(p.durable))
	copy(restored, p.durable)

	_ = p.inner.Write(0, restored, uint32(len(restored)))
}

// Read implements [Device].
func (p *PowerLoss) Read(addr uint32, dst []byte, nbytes uint32) error {
	return p.inner.Read(addr, dst, nbytes)
}

// Write implements [Device].
func (p *PowerLoss) Write(addr uint32, src []byte, nbytes uint32) error {
	return p.inner.Write(addr, src, nbytes)
}

// Erase implements [Device].
func (p *PowerLoss) Erase(addr uint32, nbytes uint32) error {
	return p.inner.Erase(addr, nbytes)
}

var _ Device = (*PowerLoss)(nil)
