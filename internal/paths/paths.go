// Package paths resolves the configuration directory, the Reference Database
// file and the scratch directory used by the CLI.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user directories.
const AppName = "pkmn"

// File names inside the resolved directories.
const (
	ConfigFileName   = "config.yaml"
	DatabaseFileName = "pkmn.db"
)

// Environment variable names for overrides.
const (
	EnvConfigDir    = "PKMN_CONFIG_DIR"
	EnvDatabasePath = "PKMN_DATABASE_PATH"
	EnvScratchDir   = "PKMN_TMP_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	tempDir       func() string
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	tempDir:       os.TempDir,
}

// DefaultConfigDir returns the platform-specific configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/pkmn (fallback ~/.config/pkmn)
// macOS:   ~/Library/Application Support/pkmn
// Windows: %APPDATA%/pkmn
func DefaultConfigDir() (string, error) {
	if platformDir.goos == "linux" {
		return xdgDir("XDG_CONFIG_HOME", ".config")
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

// DefaultDataDir returns the platform-specific data directory.
//
// Linux:   $XDG_DATA_HOME/pkmn (fallback ~/.local/share/pkmn)
// Others:  the configuration directory
func DefaultDataDir() (string, error) {
	if platformDir.goos == "linux" {
		return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	}
	return DefaultConfigDir()
}

func xdgDir(env, fallback string) (string, error) {
	if xdg := os.Getenv(env); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, AppName), nil
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > PKMN_CONFIG_DIR > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDatabasePath returns the SQLite Reference Database file following
// the precedence chain: flag > config.yaml database_path > PKMN_DATABASE_PATH
// > DefaultDataDir()/pkmn.db.
func ResolveDatabasePath(flag, configValue string) (string, error) {
	for _, v := range []string{flag, configValue, os.Getenv(EnvDatabasePath)} {
		if v != "" {
			return filepath.Abs(v)
		}
	}
	dir, err := DefaultDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DatabaseFileName), nil
}

// ResolveScratchDir returns the directory exported Pokémon files are written
// to: config.yaml tmp_dir > PKMN_TMP_DIR > $TMPDIR/pkmn.
func ResolveScratchDir(configValue string) (string, error) {
	for _, v := range []string{configValue, os.Getenv(EnvScratchDir)} {
		if v != "" {
			return filepath.Abs(v)
		}
	}
	return filepath.Join(platformDir.tempDir(), AppName), nil
}
