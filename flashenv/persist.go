package flashenv

// SaveResult reports diagnostics from a successful or failed [Store.Save]
// without changing the error-reporting contract: callers still only see
// [ErrFull], never the underlying flash erase/write errors.
type SaveResult struct {
	// Migrations is the number of times the active block stepped forward
	// due to an erase or write failure during this Save call.
	Migrations int
}

// Save flushes the RAM image to the active data block, migrating forward
// through the region on erase or write failure. It returns [ErrFull] once
// no slot remains in the region, never the underlying flash errors — those
// drive migration internally and are never reported to the caller.
func (s *Store) Save() (SaveResult, error) {
	var result SaveResult

	entrySlot, err := s.readSystemSlot()
	if err != nil {
		entrySlot = uninitializedWord
	}

	for s.active+s.headerLen()+s.detailSize() < s.regionBase+s.totalSize {
		blockSize := s.headerLen() + s.detailSize()

		if s.crcEnabled {
			crc := computeCRC(s.crcFn, s.ram[0:wordSize], s.detail())
			putWord(s.ram, wordSize, crc)
		}

		if eraseErr := s.dev.Erase(s.active, blockSize); eraseErr != nil {
			s.migrate(&result)

			continue
		}

		if writeErr := s.dev.Write(s.active, s.ram[:blockSize], blockSize); writeErr != nil {
			s.migrate(&result)

			continue
		}

		if s.active != entrySlot {
			if err := s.commitSystemSlot(s.active); err != nil {
				return result, err
			}
		}

		return result, nil
	}

	_ = s.commitSystemSlot(uninitializedWord)

	return result, ErrFull
}

// migrate advances the active block forward by
// step = (detailSize/eraseUnit + 1) * eraseUnit and records the migration
// in result.
func (s *Store) migrate(result *SaveResult) {
	step := (s.detailSize()/s.eraseUnit + 1) * s.eraseUnit

	s.active += step
	s.detailEndAddr += step
	s.syncDetailEndWord()

	result.Migrations++
}

// readSystemSlot reads the active-block address word at regionBase.
func (s *Store) readSystemSlot() (uint32, error) {
	buf := make([]byte, wordSize)
	if err := s.dev.Read(s.regionBase, buf, wordSize); err != nil {
		return 0, err
	}

	return getWord(buf, 0), nil
}

// commitSystemSlot is the commit point: erase the system-slot word first,
// then write the new value.
func (s *Store) commitSystemSlot(value uint32) error {
	if err := s.dev.Erase(s.regionBase, wordSize); err != nil {
		return err
	}

	buf := make([]byte, wordSize)
	putWord(buf, 0, value)

	return s.dev.Write(s.regionBase, buf, wordSize)
}
