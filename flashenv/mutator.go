package flashenv

import "strings"

// validateKey returns [ErrNameError] if key is empty or contains '='.
func validateKey(key string) error {
	if key == "" || strings.ContainsRune(key, '=') {
		return ErrNameError
	}

	return nil
}

// Create inserts key=value, returning [ErrNameError] for an invalid key,
// [ErrNameExists] if key is already present, or [ErrFull] if the record
// would not fit. Only the RAM image changes; nothing is written to flash
// until [Store.Save].
func (s *Store) Create(key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	_, _, found, err := find(s.detail(), key)
	if err != nil {
		return err
	}

	if found {
		return ErrNameExists
	}

	length := recordLen(key, value)
	if s.UsedSize()+uint32(length) >= s.totalSize {
		return ErrFull
	}

	h := s.headerLen()
	ds := s.detailSize()

	// Grow the live detail slice in place: encodeRecord writes past the
	// current detailSize boundary, which is safe because ram is allocated
	// to totalSize and the Full check above already bounded length.
	dst := s.ram[h+ds : h+ds+uint32(length)]
	encodeRecord(dst, key, value)

	s.detailEndAddr += uint32(length)
	s.syncDetailEndWord()

	return nil
}

// Del removes key, shifting the remainder of the detail area left in RAM.
// Returns [ErrNameError] for an invalid or missing key.
func (s *Store) Del(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	offset, value, found, err := find(s.detail(), key)
	if err != nil {
		return err
	}

	if !found {
		return ErrNameError
	}

	length := recordLen(key, value)

	detail := s.detail()
	copy(detail[offset:], detail[offset+length:])

	s.detailEndAddr -= uint32(length)
	s.syncDetailEndWord()

	return nil
}

// Set installs key=value: an empty value deletes the key, an existing key
// is replaced (delete then create), and a new key is created. All changes
// are in RAM only until [Store.Save].
func (s *Store) Set(key, value string) error {
	if value == "" {
		return s.Del(key)
	}

	_, _, found, err := find(s.detail(), key)
	if err != nil {
		return err
	}

	if found {
		if err := s.Del(key); err != nil {
			return err
		}
	}

	return s.Create(key, value)
}

// SetDefault truncates the detail area and re-creates every configured
// default record, then persists the result with [Store.Save].
func (s *Store) SetDefault() error {
	s.detailEndAddr = s.active + s.headerLen()
	s.syncDetailEndWord()

	for _, r := range s.defaults {
		if err := s.Create(r.Key, r.Value); err != nil {
			return err
		}
	}

	_, err := s.Save()

	return err
}
