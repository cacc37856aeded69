package flashenv

import (
	"fmt"
	"sort"
	"strings"

	"github.com/flashkv/flashkv/flash"
)

// uninitializedWord is the value read back from an unwritten (freshly
// erased) flash word.
const uninitializedWord = 0xFFFFFFFF

// Config describes the region geometry and initial contents for [Init].
type Config struct {
	// Device is the flash adapter. Must not be nil.
	Device flash.Device

	// RegionBase is the absolute flash address of the system slot.
	RegionBase uint32

	// TotalSize is the region size in bytes. Must be a multiple of 4 and
	// greater than EraseUnit.
	TotalSize uint32

	// EraseUnit is the flash erase granularity in bytes. Must be a
	// multiple of 4.
	EraseUnit uint32

	// CRCEnabled turns on the optional CRC-32 integrity check.
	CRCEnabled bool

	// Defaults are installed whenever the region is uninitialized or found
	// corrupt. May be empty.
	Defaults []Record

	// CRC32, if non-nil, overrides [DefaultCRC32].
	CRC32 CRC32Func
}

// Store owns one region's RAM image, active-block address, and geometry.
// It is single-threaded and non-reentrant: no method suspends, and callers
// sharing a Store across goroutines must serialize access externally.
// Every piece of mutable state lives in this value, passed explicitly to
// every operation — there is no hidden process-wide state.
type Store struct {
	dev        flash.Device
	regionBase uint32
	totalSize  uint32
	eraseUnit  uint32
	crcEnabled bool
	crcFn      CRC32Func
	defaults   []Record

	ram           []byte // RAM-cached image, len == totalSize
	active        uint32 // absolute address of the active data block
	detailEndAddr uint32 // absolute address, mirrors ram[0:4]
}

// Init validates cfg, allocates the RAM image, and loads it from flash
// (installing defaults if the region is uninitialized or corrupt).
//
// Malformed geometry (cfg.Device nil, TotalSize not a multiple of 4,
// TotalSize <= EraseUnit, EraseUnit not a multiple of 4) is a programmer
// error and panics rather than returning an error.
func Init(cfg Config) (*Store, error) {
	if cfg.Device == nil {
		panic("flashenv: cfg.Device is nil")
	}

	if cfg.TotalSize%wordSize != 0 {
		panic("flashenv: cfg.TotalSize must be a multiple of 4")
	}

	if cfg.EraseUnit%wordSize != 0 || cfg.EraseUnit == 0 {
		panic("flashenv: cfg.EraseUnit must be a non-zero multiple of 4")
	}

	if cfg.TotalSize <= cfg.EraseUnit {
		panic("flashenv: cfg.TotalSize must be greater than cfg.EraseUnit")
	}

	crcFn := cfg.CRC32
	if crcFn == nil {
		crcFn = DefaultCRC32
	}

	s := &Store{
		dev:        cfg.Device,
		regionBase: cfg.RegionBase,
		totalSize:  cfg.TotalSize,
		eraseUnit:  cfg.EraseUnit,
		crcEnabled: cfg.CRCEnabled,
		crcFn:      crcFn,
		defaults:   append([]Record(nil), cfg.Defaults...),
		ram:        make([]byte, cfg.TotalSize),
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

// headerLen returns the parameter header size for this store.
func (s *Store) headerLen() uint32 {
	return headerBytes(s.crcEnabled)
}

// detailSize returns the current detail area length in bytes, always a
// multiple of 4.
func (s *Store) detailSize() uint32 {
	return s.detailEndAddr - s.active - s.headerLen()
}

// detail returns the live slice of the RAM image holding the detail area.
func (s *Store) detail() []byte {
	h := s.headerLen()

	return s.ram[h : h+s.detailSize()]
}

// syncDetailEndWord mirrors s.detailEndAddr into ram[0:4]: the RAM image's
// first word always mirrors detail_end_addr.
func (s *Store) syncDetailEndWord() {
	putWord(s.ram, 0, s.detailEndAddr)
}

// Get returns the value for key and true, or ("", false) if absent or key
// is invalid.
func (s *Store) Get(key string) (string, bool) {
	_, value, found, err := find(s.detail(), key)
	if err != nil {
		return "", false
	}

	return value, found
}

// UsedSize returns the number of bytes currently occupied by the header
// and detail area.
func (s *Store) UsedSize() uint32 {
	return s.headerLen() + s.detailSize()
}

// TotalSize returns the configured region size.
func (s *Store) TotalSize() uint32 {
	return s.totalSize
}

// Dump returns every live record, sorted by key for deterministic output.
func (s *Store) Dump() []Record {
	var out []Record

	walkRecords(s.detail(), func(_ int, key, value string, _ int) bool {
		out = append(out, Record{Key: key, Value: value})

		return true
	})

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })

	return out
}

// Print returns a human-readable dump of every live record, one
// "key=value" pair per line.
func (s *Store) Print() string {
	var b strings.Builder

	for _, r := range s.Dump() {
		fmt.Fprintf(&b, "%s=%s\n", r.Key, r.Value)
	}

	return b.String()
}
