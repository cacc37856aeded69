package flashenv

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flashkv/flashkv/flash"
)

const (
	testRegionBase = 0x1000
	testTotalSize  = 0x1000
	testEraseUnit  = 0x200
)

var testDefaults = []Record{
	{Key: "boot_times", Value: "0"},
	{Key: "user", Value: "admin"},
}

func newTestStore(t *testing.T, dev flash.Device, crcEnabled bool) *Store {
	t.Helper()

	s, err := Init(Config{
		Device:     dev,
		RegionBase: testRegionBase,
		TotalSize:  testTotalSize,
		EraseUnit:  testEraseUnit,
		CRCEnabled: crcEnabled,
		Defaults:   testDefaults,
	})
	require.NoError(t, err)

	return s
}
