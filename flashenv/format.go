package flashenv

import "encoding/binary"

// wordSize is the flash/RAM image addressing granularity: 4 bytes.
const wordSize = 4

// headerWords returns the parameter header size in words: 1 word
// (detail_end_addr) when CRC is disabled, 2 words (plus data_crc32) when
// enabled.
func headerWords(crcEnabled bool) uint32 {
	if crcEnabled {
		return 2
	}

	return 1
}

// headerBytes returns the parameter header size in bytes.
func headerBytes(crcEnabled bool) uint32 {
	return headerWords(crcEnabled) * wordSize
}

// roundUp4 rounds n up to the next multiple of 4.
func roundUp4(n int) int {
	return (n + 3) &^ 3
}

// Record is a decoded key/value pair, used by [Store.Dump] and defaults.
type Record struct {
	Key   string
	Value string
}

// recordLen returns the on-flash length of the encoded record for key/value:
// len(key) + 1 ('=') + len(value) + 1 ('\x00'), rounded up to a multiple of
// 4 bytes.
func recordLen(key, value string) int {
	return roundUp4(len(key) + len(value) + 2)
}

// encodeRecord writes "key=value\x00" into dst, zero-padded to recordLen(key,
// value) bytes. dst must have at least that length.
func encodeRecord(dst []byte, key, value string) int {
	n := copy(dst, key)
	dst[n] = '='
	n++
	n += copy(dst[n:], value)
	dst[n] = 0
	n++

	padded := roundUp4(n)
	for i := n; i < padded; i++ {
		dst[i] = 0
	}

	return padded
}

// scanRecord reads one record starting at buf[0], returning its key, value,
// and padded on-flash length. buf must extend at least to the record's
// null terminator (not necessarily to its full padded length).
//
// A record's unpadded content runs up to the first 0x00 byte, which —
// because pad bytes are always 0x00 too — is never reached inside the
// padding of a well-formed record. Jumping by the rounded-up length in one
// step avoids re-scanning the padding byte-by-byte.
func scanRecord(buf []byte) (key, value string, length int) {
	nul := -1

	for i, b := range buf {
		if b == 0 {
			nul = i

			break
		}
	}

	if nul < 0 {
		nul = len(buf)
	}

	content := buf[:nul]

	eq := -1

	for i, b := range content {
		if b == '=' {
			eq = i

			break
		}
	}

	if eq < 0 {
		return string(content), "", roundUp4(nul + 1)
	}

	return string(content[:eq]), string(content[eq+1:]), roundUp4(nul + 1)
}

// putWord writes v little-endian at buf[off:off+4].
func putWord(buf []byte, off uint32, v uint32) {
	binary.LittleEndian.PutUint32(buf[off:off+wordSize], v)
}

// getWord reads a little-endian word at buf[off:off+4].
func getWord(buf []byte, off uint32) uint32 {
	return binary.LittleEndian.Uint32(buf[off : off+wordSize])
}
