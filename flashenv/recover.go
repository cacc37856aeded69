package flashenv

// load locates the active block on boot and mirrors it into the RAM image,
// falling back to defaults on an uninitialized or out-of-range system slot,
// an out-of-range detail_end_addr, or (with CRC enabled) a checksum
// mismatch.
//
// This is a destructive policy: a transient read glitch looks identical to
// real corruption and both reset to defaults.
func (s *Store) load() error {
	candidate, err := s.readSystemSlot()
	if err != nil {
		return err
	}

	if candidate == uninitializedWord || uint64(candidate) > uint64(s.regionBase)+uint64(s.totalSize) {
		s.active = s.regionBase + s.eraseUnit

		return s.installDefaults()
	}

	s.active = candidate
	h := s.headerLen()

	endBuf := make([]byte, wordSize)
	if err := s.dev.Read(s.active, endBuf, wordSize); err != nil {
		return err
	}

	detailEnd := getWord(endBuf, 0)

	if uint64(detailEnd) > uint64(s.regionBase)+uint64(s.totalSize) || detailEnd < s.active+h {
		return s.installDefaults()
	}

	detailSize := detailEnd - s.active - h
	if detailSize > s.totalSize-h {
		return s.installDefaults()
	}

	putWord(s.ram, 0, detailEnd)

	if detailSize > 0 {
		if err := s.dev.Read(s.active+h, s.ram[h:h+detailSize], detailSize); err != nil {
			return err
		}
	}

	s.detailEndAddr = detailEnd

	if s.crcEnabled {
		storedBuf := make([]byte, wordSize)
		if err := s.dev.Read(s.active+wordSize, storedBuf, wordSize); err != nil {
			return err
		}

		stored := getWord(storedBuf, 0)
		computed := computeCRC(s.crcFn, s.ram[0:wordSize], s.ram[h:h+detailSize])

		if computed != stored {
			return s.installDefaults()
		}

		putWord(s.ram, wordSize, stored)
	}

	return nil
}

// installDefaults resets the detail area to empty at the current active
// block and reinstalls the configured defaults, persisting the result.
func (s *Store) installDefaults() error {
	s.detailEndAddr = s.active + s.headerLen()
	s.syncDetailEndWord()

	return s.SetDefault()
}
