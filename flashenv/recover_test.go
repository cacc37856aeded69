package flashenv

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flashkv/flashkv/flash"
)

func TestLoad_UninitializedSlotInstallsDefaults(t *testing.T) {
	dev := flash.New(0x10000)
	s := newTestStore(t, dev, false)

	v, ok := s.Get("user")
	require.True(t, ok)
	require.Equal(t, "admin", v)
}

// TestLoad_CRCMismatchFallsBackToDefaults covers the checksum-mismatch
// recovery path: a corrupted detail area is discarded for fresh defaults
// rather than surfaced as a read error.
func TestLoad_CRCMismatchFallsBackToDefaults(t *testing.T) {
	dev := flash.New(0x10000)
	s := newTestStore(t, dev, true)

	require.NoError(t, s.Set("ip", "10.0.0.1"))

	_, err := s.Save()
	require.NoError(t, err)

	// Corrupt a byte inside the committed detail area directly on the
	// device, bypassing the Store so the in-RAM image is unaffected.
	buf := make([]byte, 1)
	require.NoError(t, dev.Read(s.active+s.headerLen(), buf, 1))
	buf[0] ^= 0xFF
	require.NoError(t, dev.Write(s.active+s.headerLen(), buf, 1))

	reloaded, err := Init(Config{
		Device:     dev,
		RegionBase: testRegionBase,
		TotalSize:  testTotalSize,
		EraseUnit:  testEraseUnit,
		CRCEnabled: true,
		Defaults:   testDefaults,
	})
	require.NoError(t, err)

	v, ok := reloaded.Get("user")
	require.True(t, ok)
	require.Equal(t, "admin", v)

	_, ok = reloaded.Get("ip")
	require.False(t, ok)
}

// TestLoad_OutOfRangeDetailEndFallsBackToDefaults covers the malformed
// detail_end_addr recovery path.
func TestLoad_OutOfRangeDetailEndFallsBackToDefaults(t *testing.T) {
	dev := flash.New(0x10000)
	s := newTestStore(t, dev, false)

	_, err := s.Save()
	require.NoError(t, err)

	// Clobber the committed detail_end_addr word with a garbage address
	// that lands past the region.
	buf := make([]byte, 4)
	putWord(buf, 0, 0xDEADBEEF)
	require.NoError(t, dev.Erase(s.active, 4))
	require.NoError(t, dev.Write(s.active, buf, 4))

	reloaded, err := Init(Config{
		Device:     dev,
		RegionBase: testRegionBase,
		TotalSize:  testTotalSize,
		EraseUnit:  testEraseUnit,
		CRCEnabled: false,
		Defaults:   testDefaults,
	})
	require.NoError(t, err)

	v, ok := reloaded.Get("user")
	require.True(t, ok)
	require.Equal(t, "admin", v)
}

// TestLoad_PowerLossRevertsUncommittedActiveBlock covers a crash after a
// durable snapshot: the later Save rewrites the active block in place (no
// migration, so the system slot is not touched), and the crash discards
// that write, so a fresh load sees the block as it was at the snapshot.
func TestLoad_PowerLossRevertsUncommittedActiveBlock(t *testing.T) {
	dev := flash.New(0x10000)
	pl := flash.NewPowerLoss(dev)

	s := newTestStore(t, pl, false)

	_, err := s.Save()
	require.NoError(t, err)

	pl.Snapshot()

	require.NoError(t, s.Set("ip", "10.0.0.1"))
	_, err = s.Save()
	require.NoError(t, err)

	v, ok := s.Get("ip")
	require.True(t, ok)
	require.Equal(t, "10.0.0.1", v)

	pl.Crash()

	reloaded, err := Init(Config{
		Device:     pl,
		RegionBase: testRegionBase,
		TotalSize:  testTotalSize,
		EraseUnit:  testEraseUnit,
		CRCEnabled: false,
		Defaults:   testDefaults,
	})
	require.NoError(t, err)

	_, ok = reloaded.Get("ip")
	require.False(t, ok, "crash after snapshot must not persist the post-snapshot write")
}
