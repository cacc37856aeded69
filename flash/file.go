package flash

import (
	"bytes"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
)

// unwritten is the byte value read back from flash cells that have never
// been programmed since their last erase.
const unwritten = 0xFF

// FileDevice is a [Device] backed by an in-memory byte buffer, optionally
// mirrored to a host file between process runs.
//
// FileDevice never fails on its own; wrap it in [NewFault] or
// [NewPowerLoss] to exercise the flashenv persister's wear-leveling and
// crash-recovery paths.
type FileDevice struct {
	path string // host mirror path, empty if purely in-memory
	mem  []byte
}

// New returns a purely in-memory [FileDevice] of the given size, with every
// byte reading [unwritten] (0xFF), matching a freshly erased region.
func New(size uint32) *FileDevice {
	mem := make([]byte, size)
	for i := range mem {
		mem[i] = unwritten
	}

	return &FileDevice{mem: mem}
}

// Open loads a [FileDevice] mirrored to a host file at path. If the file
// exists and has exactly size bytes, its contents seed the region,
// preserving state across process restarts. Otherwise a fresh all-0xFF
// region of size bytes is created.
func Open(path string, size uint32) (*FileDevice, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-controlled
	if err == nil && uint32(len(data)) == size {
		return &FileDevice{path: path, mem: data}, nil
	}

	d := New(size)
	d.path = path

	if err := d.Sync(); err != nil {
		return nil, fmt.Errorf("flash: seeding host mirror %q: %w", path, err)
	}

	return d, nil
}

// Sync durably replaces the host mirror file (if any) with the device's
// current contents, using a temp-file-then-rename so a crash mid-write
// never leaves a torn mirror file. This is the *host-side* persistence of
// the simulated region, distinct from the in-region system-slot commit
// point the flashenv persister implements.
func (d *FileDevice) Sync() error {
	if d.path == "" {
		return nil
	}

	return atomic.WriteFile(d.path, bytes.NewReader(d.mem))
}

// Size returns the region size in bytes.
func (d *FileDevice) Size() uint32 { return uint32(len(d.mem)) }

// Snapshot returns a copy of the region's current contents.
func (d *FileDevice) Snapshot() []byte {
	out := make([]byte, len(d.mem))
	copy(out, d.mem)

	return out
}

func (d *FileDevice) bounds(addr, nbytes uint32) error {
	if nbytes == 0 {
		return nil
	}

	end := uint64(addr) + uint64(nbytes)
	if end > uint64(len(d.mem)) {
		return fmt.Errorf("flash: access [%d,%d) out of bounds (size %d)", addr, end, len(d.mem))
	}

	return nil
}

// Read implements [Device].
func (d *FileDevice) Read(addr uint32, dst []byte, nbytes uint32) error {
	if err := d.bounds(addr, nbytes); err != nil {
		return err
	}

	copy(dst[:nbytes], d.mem[addr:addr+nbytes])

	return nil
}

// Write implements [Device]. Bytes are programmed directly; FileDevice does
// not model the NOR restriction that writes may only clear bits (1 -> 0).
func (d *FileDevice) Write(addr uint32, src []byte, nbytes uint32) error {
	if err := d.bounds(addr, nbytes); err != nil {
		return err
	}

	copy(d.mem[addr:addr+nbytes], src[:nbytes])

	return nil
}

// Erase implements [Device], resetting the range to [unwritten] bytes.
func (d *FileDevice) Erase(addr uint32, nbytes uint32) error {
	if err := d.bounds(addr, nbytes); err != nil {
		return err
	}

	for i := addr; i < addr+nbytes; i++ {
		d.mem[i] = unwritten
	}

	return nil
}

var _ Device = (*FileDevice)(nil)
