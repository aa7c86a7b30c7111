package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/pkmn/internal/paths"
	"github.com/mesh-intelligence/pkmn/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	// Config keys of config.yaml.
	cfgKeyBackend      = "backend"
	cfgKeyDatabasePath = "database_path"
	cfgKeyDSN          = "dsn"
	cfgKeyTmpDir       = "tmp_dir"

	// EnvDatabaseDSN supplies the postgres DSN when config.yaml has none.
	EnvDatabaseDSN = "PKMN_DATABASE_DSN"
	// EnvBackend overrides the backend named in config.yaml.
	EnvBackend = "PKMN_BACKEND"
)

// configFile is the structure pkmn init writes to config.yaml.
type configFile struct {
	Backend      string `yaml:"backend"`
	DatabasePath string `yaml:"database_path,omitempty"`
	DSN          string `yaml:"dsn,omitempty"`
	TmpDir       string `yaml:"tmp_dir,omitempty"`
}

// loadConfig reads config.yaml from configDir. A missing file or directory
// leaves the defaults in place.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	if err := v.BindEnv(cfgKeyDSN, EnvDatabaseDSN); err != nil {
		return nil, err
	}
	if err := v.BindEnv(cfgKeyBackend, EnvBackend); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// writeConfigIfMissing creates config.yaml in configDir with cfg unless the
// file already exists. It reports whether a file was written.
func writeConfigIfMissing(configDir string, cfg configFile) (bool, error) {
	path := filepath.Join(configDir, paths.ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat config file: %w", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
