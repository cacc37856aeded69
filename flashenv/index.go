package flashenv

// walkRecords yields (offset, key, value, length) for every record in
// detail, offset relative to the start of the detail area. Stops when fn
// returns false or the detail area is exhausted.
func walkRecords(detail []byte, fn func(offset int, key, value string, length int) bool) {
	offset := 0
	for offset < len(detail) {
		key, value, length := scanRecord(detail[offset:])
		if !fn(offset, key, value, length) {
			return
		}

		offset += length
	}
}

// find returns the offset and value of key within detail. A candidate
// matches when the record's key slice equals key exactly — the walker
// separates key from value on the first '=', so a key that happens to be a
// prefix of another key or value can never match it.
//
// Returns ErrNameError if key is empty.
func find(detail []byte, key string) (offset int, value string, found bool, err error) {
	if key == "" {
		return 0, "", false, ErrNameError
	}

	walkRecords(detail, func(off int, k, v string, _ int) bool {
		if k == key {
			offset, value, found = off, v, true

			return false
		}

		return true
	})

	return offset, value, found, nil
}
