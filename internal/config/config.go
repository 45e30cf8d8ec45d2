// Package config loads the layered bl configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"

	"github.com/calvinalkan/backlog/internal/preset"
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	DB            string      `json:"db"`
	User          string      `json:"user,omitempty"`
	DefaultPreset preset.Name `json:"default_preset,omitempty"`
	PageSize      int         `json:"page_size,omitempty"`

	// Resolved paths (computed, not serialized)
	EffectiveCwd string `json:"-"` // Absolute working directory (from -C flag or os.Getwd)
	DBAbs        string `json:"-"` // Absolute path to the SQLite database

	// Sources tracks which config files were loaded (for diagnostics)
	Sources Sources `json:"-"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		DB:            filepath.Join(".backlog", "items.sqlite"),
		DefaultPreset: preset.Default,
		PageSize:      10,
	}
}

// FileName is the default project config file name.
const FileName = ".bl.json"

// globalPath returns $XDG_CONFIG_HOME/bl/config.json, falling back to
// ~/.config/bl/config.json. Empty when neither variable is set.
func globalPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "bl", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "bl", "config.json")
	}

	return ""
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDirOverride string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath      string            // -c/--config flag value
	DBOverride      *string           // --db flag value; nil means not given
	Env             map[string]string // environment variables
}

// Load builds the configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config (~/.config/bl/config.json or $XDG_CONFIG_HOME/bl/config.json)
// 3. Project config file (.bl.json, if it exists) or the explicit -c file
// 4. CLI overrides.
//
// The database path in the returned Config is resolved against the
// effective working directory.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	workDir, err := filepath.Abs(workDir)
	if err != nil {
		return Config{}, fmt.Errorf("resolve working directory: %w", err)
	}

	cfg := Default()

	if path := globalPath(input.Env); path != "" {
		globalCfg, loaded, loadErr := loadFile(path, false)
		if loadErr != nil {
			return Config{}, loadErr
		}

		if loaded {
			cfg.Sources.Global = path
			cfg = merge(cfg, globalCfg)
		}
	}

	projectCfg, projectPath, err := loadProject(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = projectPath
	cfg = merge(cfg, projectCfg)

	if input.DBOverride != nil {
		if *input.DBOverride == "" {
			return Config{}, ErrDBEmpty
		}

		cfg.DB = *input.DBOverride
	}

	err = validate(cfg)
	if err != nil {
		return Config{}, err
	}

	cfg.EffectiveCwd = workDir

	if filepath.IsAbs(cfg.DB) {
		cfg.DBAbs = cfg.DB
	} else {
		cfg.DBAbs = filepath.Join(workDir, cfg.DB)
	}

	return cfg, nil
}

// loadProject loads .bl.json from workDir, or configPath when given.
// An explicit file must exist.
func loadProject(workDir, configPath string) (Config, string, error) {
	if configPath == "" {
		path := filepath.Join(workDir, FileName)

		cfg, loaded, err := loadFile(path, false)
		if err != nil || !loaded {
			return Config{}, "", err
		}

		return cfg, path, nil
	}

	path := configPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}

	_, statErr := os.Stat(path)
	if statErr != nil {
		return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
	}

	cfg, _, err := loadFile(path, true)
	if err != nil {
		return Config{}, "", err
	}

	return cfg, path, nil
}

// loadFile reads one config file. Missing optional files report
// loaded=false without error.
func loadFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}

		return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
	}

	cfg, err := parse(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	return cfg, true, nil
}

func parse(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	err = json.Unmarshal(standardized, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	// A present-but-empty db is a mistake, not "use the default".
	var raw map[string]any

	_ = json.Unmarshal(standardized, &raw)

	if val, ok := raw["db"].(string); ok && val == "" {
		return Config{}, ErrDBEmpty
	}

	if _, ok := raw["page_size"]; ok && cfg.PageSize <= 0 {
		return Config{}, fmt.Errorf("%w, got %d", ErrPageSizeInvalid, cfg.PageSize)
	}

	return cfg, nil
}

func merge(base, overlay Config) Config {
	if overlay.DB != "" {
		base.DB = overlay.DB
	}

	if overlay.User != "" {
		base.User = overlay.User
	}

	if overlay.DefaultPreset != "" {
		base.DefaultPreset = overlay.DefaultPreset
	}

	if overlay.PageSize != 0 {
		base.PageSize = overlay.PageSize
	}

	return base
}

func validate(cfg Config) error {
	if cfg.DB == "" {
		return ErrDBEmpty
	}

	if cfg.PageSize <= 0 {
		return fmt.Errorf("%w, got %d", ErrPageSizeInvalid, cfg.PageSize)
	}

	_, err := preset.Resolve(cfg.DefaultPreset, cfg.User)
	if err != nil {
		return fmt.Errorf("%w: default_preset: %w", ErrConfigInvalid, err)
	}

	return nil
}
