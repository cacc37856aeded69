// flashenv is a CLI for inspecting and editing NOR-flash-backed key/value
// regions.
//
// Usage:
//
//	flashenv init                 Create a new region file
//	flashenv get <key>             Print a key's value
//	flashenv set <key> <value>     Set a key (empty value deletes it)
//	flashenv del <key>              Delete a key
//	flashenv save                  Persist pending changes to flash
//	flashenv print                 Print every live key=value pair
//	flashenv repl                  Start an interactive shell
//
// Global options:
//
//	-c, --config <path>   Explicit config file (JSONC)
//	-r, --region <path>   Region file path, overriding config
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/flashkv/flashkv/flash"
	"github.com/flashkv/flashkv/flashenv"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("flashenv", pflag.ContinueOnError)

	configPath := fs.StringP("config", "c", "", "explicit config file")
	regionOverride := fs.StringP("region", "r", "", "region file path, overriding config")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: flashenv [options] <command> [args...]")
		fmt.Fprintln(os.Stderr, "\nCommands:")
		fmt.Fprintln(os.Stderr, "  init                 Create a new region file")
		fmt.Fprintln(os.Stderr, "  get <key>            Print a key's value")
		fmt.Fprintln(os.Stderr, "  set <key> <value>    Set a key (empty value deletes it)")
		fmt.Fprintln(os.Stderr, "  del <key>            Delete a key")
		fmt.Fprintln(os.Stderr, "  save                 Persist pending changes to flash")
		fmt.Fprintln(os.Stderr, "  print                Print every live key=value pair")
		fmt.Fprintln(os.Stderr, "  repl                 Start an interactive shell")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		fs.Usage()

		return fmt.Errorf("missing command")
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	cfg, _, err := LoadConfig(workDir, *configPath, os.Environ())
	if err != nil {
		return err
	}

	if *regionOverride != "" {
		cfg.RegionFile = *regionOverride
	}

	cmd := fs.Arg(0)
	cmdArgs := fs.Args()[1:]

	if cmd == "init" {
		return runInit(cfg)
	}

	store, dev, err := openStore(cfg)
	if err != nil {
		return err
	}

	switch cmd {
	case "get":
		return runGet(store, cmdArgs)
	case "set":
		return runSet(store, dev, cmdArgs)
	case "del":
		return runDel(store, dev, cmdArgs)
	case "save":
		return runSave(store, dev)
	case "print":
		fmt.Print(store.Print())

		return nil
	case "repl":
		return (&REPL{store: store, dev: dev, cfg: cfg}).Run()
	default:
		fs.Usage()

		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func crcEnabled(cfg Config) bool {
	return cfg.CRCEnabled == nil || *cfg.CRCEnabled
}

func defaultRecords(cfg Config) []flashenv.Record {
	if len(cfg.Defaults) == 0 {
		return nil
	}

	records := make([]flashenv.Record, 0, len(cfg.Defaults))
	for k, v := range cfg.Defaults {
		records = append(records, flashenv.Record{Key: k, Value: v})
	}

	return records
}

// openStore opens (creating if necessary) the region file named in cfg and
// loads a [flashenv.Store] over it.
func openStore(cfg Config) (*flashenv.Store, *flash.FileDevice, error) {
	dev, err := flash.Open(cfg.RegionFile, cfg.TotalSize)
	if err != nil {
		return nil, nil, fmt.Errorf("opening region file %s: %w", cfg.RegionFile, err)
	}

	store, err := flashenv.Init(flashenv.Config{
		Device:     dev,
		RegionBase: cfg.RegionBase,
		TotalSize:  cfg.TotalSize,
		EraseUnit:  cfg.EraseUnit,
		CRCEnabled: crcEnabled(cfg),
		Defaults:   defaultRecords(cfg),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("loading region: %w", err)
	}

	return store, dev, nil
}

func runInit(cfg Config) error {
	if _, err := os.Stat(cfg.RegionFile); err == nil {
		return fmt.Errorf("region file already exists: %s", cfg.RegionFile)
	}

	store, dev, err := openStore(cfg)
	if err != nil {
		return err
	}

	if err := dev.Sync(); err != nil {
		return fmt.Errorf("syncing region file: %w", err)
	}

	fmt.Printf("initialized %s (%d bytes, erase unit %d)\n", cfg.RegionFile, cfg.TotalSize, cfg.EraseUnit)
	fmt.Print(store.Print())

	return nil
}

func runGet(store *flashenv.Store, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: flashenv get <key>")
	}

	value, ok := store.Get(args[0])
	if !ok {
		return fmt.Errorf("key not found: %s", args[0])
	}

	fmt.Println(value)

	return nil
}

func runSet(store *flashenv.Store, dev *flash.FileDevice, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: flashenv set <key> <value>")
	}

	if err := store.Set(args[0], args[1]); err != nil {
		return err
	}

	return saveAndSync(store, dev)
}

func runDel(store *flashenv.Store, dev *flash.FileDevice, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: flashenv del <key>")
	}

	if err := store.Del(args[0]); err != nil {
		return err
	}

	return saveAndSync(store, dev)
}

func runSave(store *flashenv.Store, dev *flash.FileDevice) error {
	return saveAndSync(store, dev)
}

func saveAndSync(store *flashenv.Store, dev *flash.FileDevice) error {
	result, err := store.Save()
	if err != nil {
		return err
	}

	if err := dev.Sync(); err != nil {
		return fmt.Errorf("syncing region file: %w", err)
	}

	if result.Migrations > 0 {
		fmt.Printf("migrated active block %d time(s)\n", result.Migrations)
	}

	return nil
}
