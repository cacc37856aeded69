package flashenv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildDetail(t *testing.T, records ...Record) []byte {
	t.Helper()

	var buf []byte

	for _, r := range records {
		length := recordLen(r.Key, r.Value)
		rec := make([]byte, length)
		encodeRecord(rec, r.Key, r.Value)
		buf = append(buf, rec...)
	}

	return buf
}

func TestFind_EmptyKeyIsNameError(t *testing.T) {
	detail := buildDetail(t, Record{"a", "1"})

	_, _, _, err := find(detail, "")
	require.ErrorIs(t, err, ErrNameError)
}

func TestFind_Miss(t *testing.T) {
	detail := buildDetail(t, Record{"a", "1"})

	_, _, found, err := find(detail, "b")
	require.NoError(t, err)
	require.False(t, found)
}

func TestFind_Hit(t *testing.T) {
	detail := buildDetail(t, Record{"a", "1"}, Record{"b", "2"})

	_, value, found, err := find(detail, "b")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "2", value)
}

// TestFind_NoPrefixHazard asserts the positional '=' check rejects a key
// that is merely a prefix of another key or of a value.
func TestFind_NoPrefixHazard(t *testing.T) {
	// "use" is a prefix of key "user"; a naive substring search would match
	// key "user"'s record when searching for "use".
	detail := buildDetail(t, Record{"user", "use=not-a-key"})

	_, _, found, err := find(detail, "use")
	require.NoError(t, err)
	require.False(t, found, "prefix of an existing key must not match")

	_, value, found, err := find(detail, "user")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "use=not-a-key", value)
}

func TestWalkRecords_StopsEarly(t *testing.T) {
	detail := buildDetail(t, Record{"a", "1"}, Record{"b", "2"}, Record{"c", "3"})

	var seen []string

	walkRecords(detail, func(_ int, key, _ string, _ int) bool {
		seen = append(seen, key)

		return key != "b"
	})

	require.Equal(t, []string{"a", "b"}, seen)
}
