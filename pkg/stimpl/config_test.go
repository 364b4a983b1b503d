package stimpl

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadProjectConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
debug = true
parallel = 8
log_level = "warn"
`)

	cfg, err := LoadProjectConfig(path)
	require.NoError(t, err)
	require.Equal(t, &ProjectConfig{
		Debug:    true,
		Parallel: 8,
		LogLevel: "warn",
	}, cfg)

	level, err := cfg.Level()
	require.NoError(t, err)
	require.Equal(t, slog.LevelWarn, level)
}

func TestLoadProjectConfigDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "no_color = true\n")

	cfg, err := LoadProjectConfig(path)
	require.NoError(t, err)
	require.True(t, cfg.NoColor)
	require.False(t, cfg.Debug)
	require.Equal(t, DefaultParallel, cfg.Parallel)

	level, err := cfg.Level()
	require.NoError(t, err)
	require.Equal(t, slog.LevelInfo, level)
}

func TestLoadProjectConfigErrors(t *testing.T) {
	for name, contents := range map[string]string{
		"unknown key":       "paralel = 2\n",
		"negative parallel": "parallel = -1\n",
		"bad level":         "log_level = \"loud\"\n",
		"bad toml":          "debug = \n",
		"wrong type":        "parallel = \"many\"\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadProjectConfig(writeConfig(t, t.TempDir(), contents))
			require.Error(t, err)
			require.Contains(t, err.Error(), ConfigFileName)
		})
	}
}

func TestFindProjectConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	t.Run("walks up", func(t *testing.T) {
		expected := writeConfig(t, root, "parallel = 2\n")
		t.Cleanup(func() { _ = os.Remove(expected) })

		path, cfg, err := FindProjectConfig(nested)
		require.NoError(t, err)
		require.Equal(t, expected, path)
		require.Equal(t, 2, cfg.Parallel)
	})

	t.Run("stops at .git", func(t *testing.T) {
		writeConfig(t, root, "parallel = 2\n")
		require.NoError(t, os.Mkdir(filepath.Join(root, "a", ".git"), 0o755))

		path, cfg, err := FindProjectConfig(nested)
		require.NoError(t, err)
		require.Empty(t, path)
		require.Nil(t, cfg)
	})
}
