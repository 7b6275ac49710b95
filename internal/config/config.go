// Package config loads brine.toml, the optional per-project settings file
// read by the brine command.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the name looked up by Find.
const FileName = "brine.toml"

// Miri holds the [miri] section.
type Miri struct {
	Jobs     int    `toml:"jobs"` // 0 = GOMAXPROCS
	Stats    bool   `toml:"stats"`
	VMTrace  bool   `toml:"vm_trace"`
	MaxSteps uint64 `toml:"max_steps"`
}

// Output holds the [output] section.
type Output struct {
	Color string `toml:"color"`
}

// Cache holds the [cache] section.
type Cache struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Config is a decoded brine.toml.
type Config struct {
	Miri   Miri   `toml:"miri"`
	Output Output `toml:"output"`
	Cache  Cache  `toml:"cache"`

	// Path is the file the config was read from; empty for defaults.
	Path string `toml:"-"`
}

// ErrInvalidColor reports an [output].color value other than auto, on or off.
var ErrInvalidColor = errors.New("invalid [output].color")

// Default returns the configuration used when no brine.toml exists.
func Default() Config {
	return Config{
		Miri:   Miri{Jobs: 1},
		Output: Output{Color: "auto"},
	}
}

// Find walks up from startDir to locate brine.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load parses path on top of Default. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.normalize(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads the nearest brine.toml above startDir, or Default when
// there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

func (c *Config) normalize() error {
	if c.Miri.Jobs < 0 {
		return fmt.Errorf("invalid [miri].jobs %d: must not be negative", c.Miri.Jobs)
	}
	color := strings.ToLower(strings.TrimSpace(c.Output.Color))
	switch color {
	case "":
		color = "auto"
	case "auto", "on", "off":
	default:
		return fmt.Errorf("%w %q: want auto, on or off", ErrInvalidColor, c.Output.Color)
	}
	c.Output.Color = color
	c.Cache.Dir = strings.TrimSpace(c.Cache.Dir)
	if c.Cache.Dir != "" && !filepath.IsAbs(c.Cache.Dir) && c.Path != "" {
		c.Cache.Dir = filepath.Join(filepath.Dir(c.Path), filepath.FromSlash(c.Cache.Dir))
	}
	return nil
}
