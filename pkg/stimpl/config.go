package stimpl

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the project configuration file looked up by
// FindProjectConfig.
const ConfigFileName = "stimpl.toml"

// DefaultParallel is how many programs RunFiles evaluates at once when the
// configuration does not say.
const DefaultParallel = 4

// ProjectConfig represents a stimpl.toml project configuration file.
type ProjectConfig struct {
	// Debug enables the diagnostic dump after each program.
	Debug bool `toml:"debug"`

	// Parallel bounds concurrent program evaluation.
	Parallel int `toml:"parallel"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// NoColor disables styled log and error output.
	NoColor bool `toml:"no_color"`
}

// DefaultProjectConfig is used when no stimpl.toml is found.
func DefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Parallel: DefaultParallel,
		LogLevel: "info",
	}
}

// LoadProjectConfig loads a stimpl.toml file from the given path. Unset
// values keep their defaults.
func LoadProjectConfig(path string) (*ProjectConfig, error) {
	config := DefaultProjectConfig()
	md, err := toml.DecodeFile(path, config)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("parsing %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if config.Parallel < 0 {
		return nil, fmt.Errorf("parsing %s: parallel must not be negative", path)
	}
	if _, err := config.Level(); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return config, nil
}

// FindProjectConfig searches for a stimpl.toml file starting from dir and
// walking up to parent directories, stopping at a .git boundary. Returns
// ("", nil, nil) if not found.
func FindProjectConfig(dir string) (string, *ProjectConfig, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, err
	}
	for {
		path := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			config, err := LoadProjectConfig(path)
			if err != nil {
				return "", nil, err
			}
			return path, config, nil
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return "", nil, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil, nil
		}
		dir = parent
	}
}

// Level parses LogLevel.
func (c *ProjectConfig) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return level, nil
}
