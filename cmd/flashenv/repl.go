package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/flashkv/flashkv/flash"
	"github.com/flashkv/flashkv/flashenv"
)

// REPL is the interactive command loop over an open region.
type REPL struct {
	store *flashenv.Store
	dev   *flash.FileDevice
	cfg   Config
	liner *liner.State
}

// historyFile returns the path to the REPL's history file.
func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".flashenv_history")
}

// Run starts the REPL loop.
func (r *REPL) Run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(historyFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Printf("flashenv - region shell (%s, used=%d/%d)\n", r.cfg.RegionFile, r.store.UsedSize(), r.store.TotalSize())
	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	for {
		line, err := r.liner.Prompt("flashenv> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println("\nBye!")

				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			fmt.Println("Bye!")
			r.saveHistory()

			return nil

		case "help", "?":
			r.printHelp()

		case "get":
			r.cmdGet(args)

		case "set":
			r.cmdSet(args)

		case "del", "delete":
			r.cmdDel(args)

		case "save":
			r.cmdSave()

		case "print", "dump", "ls":
			fmt.Print(r.store.Print())

		case "info":
			r.cmdInfo()

		case "clear", "cls":
			fmt.Print("\033[H\033[2J")

		default:
			fmt.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	r.saveHistory()

	return nil
}

func (r *REPL) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			r.liner.WriteHistory(f)
			f.Close()
		}
	}
}

func (r *REPL) completer(line string) []string {
	commands := []string{
		"get", "set", "del", "delete",
		"save", "print", "dump", "ls",
		"info", "clear", "cls",
		"help", "exit", "quit", "q",
	}

	var completions []string

	lower := strings.ToLower(line)
	for _, cmd := range commands {
		if strings.HasPrefix(cmd, lower) {
			completions = append(completions, cmd)
		}
	}

	return completions
}

func (r *REPL) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  get <key>            Print a key's value")
	fmt.Println("  set <key> <value>    Set a key (in RAM only, until 'save')")
	fmt.Println("  del <key>            Delete a key (in RAM only, until 'save')")
	fmt.Println("  save                 Persist pending changes to flash")
	fmt.Println("  print                Print every live key=value pair")
	fmt.Println("  info                 Show region geometry and usage")
	fmt.Println("  help                 Show this help")
	fmt.Println("  exit / quit / q      Exit")
}

func (r *REPL) cmdGet(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: get <key>")

		return
	}

	value, ok := r.store.Get(args[0])
	if !ok {
		fmt.Println("(not found)")

		return
	}

	fmt.Println(value)
}

func (r *REPL) cmdSet(args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: set <key> <value>")

		return
	}

	if err := r.store.Set(args[0], args[1]); err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	fmt.Printf("OK: set %s (staged, run 'save' to persist)\n", args[0])
}

func (r *REPL) cmdDel(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: del <key>")

		return
	}

	if err := r.store.Del(args[0]); err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	fmt.Printf("OK: deleted %s (staged, run 'save' to persist)\n", args[0])
}

func (r *REPL) cmdSave() {
	result, err := r.store.Save()
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	if err := r.dev.Sync(); err != nil {
		fmt.Printf("Error syncing region file: %v\n", err)

		return
	}

	fmt.Printf("OK: saved (migrations=%d)\n", result.Migrations)
}

func (r *REPL) cmdInfo() {
	fmt.Printf("Region file:   %s\n", r.cfg.RegionFile)
	fmt.Printf("Region base:   0x%x\n", r.cfg.RegionBase)
	fmt.Printf("Total size:    %d bytes\n", r.store.TotalSize())
	fmt.Printf("Erase unit:    %d bytes\n", r.cfg.EraseUnit)
	fmt.Printf("CRC enabled:   %v\n", crcEnabled(r.cfg))
	fmt.Printf("Used size:     %d bytes\n", r.store.UsedSize())
}
