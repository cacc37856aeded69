package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
)

var (
	errConfigFileNotFound = errors.New("config file not found")
	errConfigFileRead     = errors.New("cannot read config file")
	errConfigInvalid      = errors.New("invalid config file")
	errRegionFileEmpty    = errors.New("region_file cannot be empty")
)

// Config holds the on-disk region geometry and defaults used when no flag
// overrides it.
type Config struct {
	RegionFile string            `json:"region_file,omitempty"`
	RegionBase uint32            `json:"region_base,omitempty"`
	TotalSize  uint32            `json:"total_size,omitempty"`
	EraseUnit  uint32            `json:"erase_unit,omitempty"`
	CRCEnabled *bool             `json:"crc_enabled,omitempty"`
	Defaults   map[string]string `json:"defaults,omitempty"`
}

// DefaultConfig returns the configuration used when no config file or flag
// supplies a value.
func DefaultConfig() Config {
	crcEnabled := true

	return Config{
		RegionFile: ".flashenv.bin",
		RegionBase: 0,
		TotalSize:  0x10000,
		EraseUnit:  0x1000,
		CRCEnabled: &crcEnabled,
	}
}

// ConfigFileName is the default project-local config file name.
const ConfigFileName = ".flashenv.json"

// ConfigSources tracks which config files were loaded, for diagnostics.
type ConfigSources struct {
	Global  string
	Project string
}

// getGlobalConfigPath returns $XDG_CONFIG_HOME/flashenv/config.json, or
// ~/.config/flashenv/config.json if XDG_CONFIG_HOME is unset. Returns empty
// if the home directory cannot be determined.
func getGlobalConfigPath(env []string) string {
	for _, e := range env {
		if after, ok := strings.CutPrefix(e, "XDG_CONFIG_HOME="); ok {
			return filepath.Join(after, "flashenv", "config.json")
		}
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "flashenv", "config.json")
	}

	home, err := os.UserHomeDir()
	if err == nil {
		return filepath.Join(home, ".config", "flashenv", "config.json")
	}

	return ""
}

// LoadConfig loads configuration with the following precedence (highest
// wins): defaults, global user config, project config (or an explicit
// config file), then CLI flag overrides applied by the caller.
func LoadConfig(workDir, configPath string, env []string) (Config, ConfigSources, error) {
	cfg := DefaultConfig()

	var sources ConfigSources

	globalCfg, globalPath, err := loadGlobalConfig(env)
	if err != nil {
		return Config{}, ConfigSources{}, err
	}

	sources.Global = globalPath
	cfg = mergeConfig(cfg, globalCfg)

	projectCfg, projectPath, err := loadProjectConfig(workDir, configPath)
	if err != nil {
		return Config{}, ConfigSources{}, err
	}

	sources.Project = projectPath
	cfg = mergeConfig(cfg, projectCfg)

	if err := validateConfig(cfg); err != nil {
		return Config{}, ConfigSources{}, err
	}

	return cfg, sources, nil
}

func loadGlobalConfig(env []string) (Config, string, error) {
	path := getGlobalConfigPath(env)
	if path == "" {
		return Config{}, "", nil
	}

	cfg, loaded, err := loadConfigFile(path, false)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	return cfg, path, nil
}

func loadProjectConfig(workDir, configPath string) (Config, string, error) {
	var (
		cfgFile   string
		mustExist bool
	)

	if configPath != "" {
		cfgFile = configPath
		if !filepath.IsAbs(cfgFile) {
			cfgFile = filepath.Join(workDir, cfgFile)
		}

		mustExist = true

		if _, err := os.Stat(cfgFile); err != nil {
			return Config{}, "", fmt.Errorf("%w: %s", errConfigFileNotFound, configPath)
		}
	} else {
		cfgFile = filepath.Join(workDir, ConfigFileName)
	}

	cfg, loaded, err := loadConfigFile(cfgFile, mustExist)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	return cfg, cfgFile, nil
}

func loadConfigFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}

		if mustExist {
			return Config{}, false, fmt.Errorf("%w: %s", errConfigFileRead, path)
		}

		return Config{}, false, nil
	}

	cfg, err := parseConfig(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}

	return cfg, true, nil
}

func parseConfig(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return cfg, nil
}

func mergeConfig(base, overlay Config) Config {
	if overlay.RegionFile != "" {
		base.RegionFile = overlay.RegionFile
	}

	if overlay.RegionBase != 0 {
		base.RegionBase = overlay.RegionBase
	}

	if overlay.TotalSize != 0 {
		base.TotalSize = overlay.TotalSize
	}

	if overlay.EraseUnit != 0 {
		base.EraseUnit = overlay.EraseUnit
	}

	if overlay.Defaults != nil {
		base.Defaults = overlay.Defaults
	}

	if overlay.CRCEnabled != nil {
		base.CRCEnabled = overlay.CRCEnabled
	}

	return base
}

func validateConfig(cfg Config) error {
	if cfg.RegionFile == "" {
		return errRegionFileEmpty
	}

	return nil
}

// FormatConfig returns cfg as formatted JSON.
func FormatConfig(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("formatting config: %w", err)
	}

	return string(data), nil
}
