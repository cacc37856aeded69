// Package flashenv implements a wear-leveling key/value environment store
// for NOR-like flash memory.
//
// It keeps a small named string-keyed environment (process configuration)
// in a bounded flash region, with a RAM-cached image that survives power
// loss, a wear-leveling policy that migrates the active data block forward
// when an erase or program fails, and an optional CRC-32 check over the
// persisted image.
//
// # Layout
//
// The region is made of a one-word system slot (holding the active data
// block's address) followed by a relocatable data block: a parameter
// header (detail_end_addr, and optionally a CRC-32) followed by a detail
// area of concatenated "key=value\x00" records, each padded to a multiple
// of 4 bytes.
//
// # Usage
//
//	store, err := flashenv.Init(flashenv.Config{
//	    Device:     dev,
//	    RegionBase: 0x1000,
//	    TotalSize:  0x1000,
//	    EraseUnit:  0x200,
//	    Defaults: []flashenv.Record{
//	        {Key: "boot_times", Value: "0"},
//	        {Key: "user", Value: "admin"},
//	    },
//	})
//	if err != nil { ... }
//
//	v, ok := store.Get("user")
//	err = store.Set("ip", "192.168.1.10")
//	_, err = store.Save()
//
// # Concurrency
//
// A [Store] is single-threaded and non-reentrant: no operation suspends,
// and the caller must serialize access externally if shared across
// goroutines.
package flashenv
