package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pkmn/internal/paths"
)

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config.yaml and seed the Reference Database",
		Long: "Create the configuration directory and config.yaml when missing, then attach\n" +
			"the Reference Database once so that a new SQLite file is created and seeded.",
		Args: cobra.NoArgs,
		RunE: a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, args []string) error {
	cfg, err := a.databaseConfig()
	if err != nil {
		return err
	}

	wrote, err := writeConfigIfMissing(a.configDir, configFile{
		Backend:      cfg.Backend,
		DatabasePath: cfg.DatabasePath,
		TmpDir:       a.v.GetString(cfgKeyTmpDir),
	})
	if err != nil {
		return systemErr(fmt.Errorf("write config: %w", err))
	}
	if wrote {
		a.logger.Info("config written", "dir", a.configDir)
	}

	db, err := a.attachBackend()
	if err != nil {
		return err
	}
	if err := db.Detach(); err != nil {
		return systemErr(fmt.Errorf("detach database: %w", err))
	}

	fmt.Fprintf(a.stdout, "config:   %s/%s\n", a.configDir, paths.ConfigFileName)
	if cfg.DatabasePath != "" {
		fmt.Fprintf(a.stdout, "database: %s\n", cfg.DatabasePath)
	} else {
		fmt.Fprintf(a.stdout, "database: %s\n", cfg.Backend)
	}
	return nil
}
