package flashenv

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flashkv/flashkv/flash"
)

func TestValidateKey(t *testing.T) {
	require.ErrorIs(t, validateKey(""), ErrNameError)
	require.ErrorIs(t, validateKey("a=b"), ErrNameError)
	require.NoError(t, validateKey("a"))
}

func TestCreate_Full(t *testing.T) {
	dev := flash.New(0x10000)
	s := newTestStore(t, dev, false)

	big := make([]byte, testTotalSize)
	for i := range big {
		big[i] = 'x'
	}

	err := s.Create("huge", string(big))
	require.ErrorIs(t, err, ErrFull)

	_, ok := s.Get("huge")
	require.False(t, ok)
}

func TestDel_ShiftsRemainderLeft(t *testing.T) {
	dev := flash.New(0x10000)
	s := newTestStore(t, dev, false)

	require.NoError(t, s.Create("a", "1"))
	require.NoError(t, s.Create("b", "2"))
	require.NoError(t, s.Create("c", "3"))

	require.NoError(t, s.Del("b"))

	_, ok := s.Get("b")
	require.False(t, ok)

	va, ok := s.Get("a")
	require.True(t, ok)
	require.Equal(t, "1", va)

	vc, ok := s.Get("c")
	require.True(t, ok)
	require.Equal(t, "3", vc)
}

func TestSet_ReplaceIsDeleteThenCreate(t *testing.T) {
	dev := flash.New(0x10000)
	s := newTestStore(t, dev, false)

	require.NoError(t, s.Set("user", "alice"))

	v, ok := s.Get("user")
	require.True(t, ok)
	require.Equal(t, "alice", v)

	count := 0
	walkRecords(s.detail(), func(_ int, key, _ string, _ int) bool {
		if key == "user" {
			count++
		}

		return true
	})
	require.Equal(t, 1, count)
}

func TestSetDefault_TruncatesAndReinstalls(t *testing.T) {
	dev := flash.New(0x10000)
	s := newTestStore(t, dev, false)

	require.NoError(t, s.Set("user", "someone-else"))
	require.NoError(t, s.Set("extra", "value"))

	require.NoError(t, s.SetDefault())

	v, ok := s.Get("user")
	require.True(t, ok)
	require.Equal(t, "admin", v)

	_, ok = s.Get("extra")
	require.False(t, ok)
}
