package flash_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flashkv/flashkv/flash"
)

func TestFault_EraseFailsExactlyQueuedCount(t *testing.T) {
	inner := flash.New(4096)
	f := flash.NewFault(inner, flash.FaultConfig{FailEraseCount: 2})

	require.ErrorIs(t, f.Erase(0, 512), flash.ErrErase)
	require.ErrorIs(t, f.Erase(0, 512), flash.ErrErase)
	require.NoError(t, f.Erase(0, 512))

	require.Equal(t, 2, f.EraseFailuresDelivered())
}

func TestFault_WriteFailsExactlyQueuedCount(t *testing.T) {
	inner := flash.New(4096)
	f := flash.NewFault(inner, flash.FaultConfig{FailWriteCount: 1})

	err := f.Write(0, []byte{1, 2, 3, 4}, 4)
	require.ErrorIs(t, err, flash.ErrWrite)

	require.NoError(t, f.Write(0, []byte{1, 2, 3, 4}, 4))
	require.Equal(t, 1, f.WriteFailuresDelivered())
}

func TestFault_FailNextErasesQueuesAdditional(t *testing.T) {
	inner := flash.New(4096)
	f := flash.NewFault(inner, flash.FaultConfig{})

	require.NoError(t, f.Erase(0, 4))

	f.FailNextErases(1)
	require.Error(t, f.Erase(0, 4))
	require.NoError(t, f.Erase(0, 4))
}

func TestFault_ClearAbandonedOnFailureStillErases(t *testing.T) {
	inner := flash.New(4096)
	require.NoError(t, inner.Write(0, []byte{1, 2, 3, 4}, 4))

	f := flash.NewFault(inner, flash.FaultConfig{FailEraseCount: 1, ClearAbandonedOnFailure: true})
	require.Error(t, f.Erase(0, 4))

	got := make([]byte, 4)
	require.NoError(t, inner.Read(0, got, 4))
	require.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, got)
}

func TestFault_ReadNeverFails(t *testing.T) {
	inner := flash.New(16)
	f := flash.NewFault(inner, flash.FaultConfig{FailEraseCount: 100, FailWriteCount: 100})

	buf := make([]byte, 4)
	require.NoError(t, f.Read(0, buf, 4))
}

func TestFault_WrapsSentinelNotJustMessage(t *testing.T) {
	inner := flash.New(16)
	f := flash.NewFault(inner, flash.FaultConfig{FailEraseCount: 1})

	err := f.Erase(0, 4)
	require.True(t, errors.Is(err, flash.ErrErase))
}
