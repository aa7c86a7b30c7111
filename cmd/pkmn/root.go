package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/pkmn/internal/paths"
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	database  string
	jsonMode  bool
	verbose   bool
	metrics   bool
}

// app carries the state one invocation shares across its commands.
type app struct {
	flags     rootFlags
	configDir string
	v         *viper.Viper
	logger    *slog.Logger
	registry  *prometheus.Registry
	stdout    io.Writer
	stderr    io.Writer
}

// newRootCmd creates the top-level "pkmn" command with global flags and all
// subcommands registered. Each call builds an independent command tree.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		stdout:   stdout,
		stderr:   stderr,
		registry: prometheus.NewRegistry(),
		logger:   slog.New(slog.NewTextHandler(stderr, nil)),
	}

	root := &cobra.Command{
		Use:   "pkmn",
		Short: "Inspect and edit Pokémon save files",
		Long: "pkmn reads and writes save files of the generation I to III handheld games\n" +
			"and of Colosseum and XD, and converts single Pokémon between games.",
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.finish,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.database, "database", "", "SQLite Reference Database file")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	pf.BoolVar(&a.flags.verbose, "verbose", false, "log debug events to stderr")
	pf.BoolVar(&a.flags.metrics, "metrics", false, "print Reference Database metrics to stderr on exit")

	root.AddCommand(
		a.newVersionCmd(),
		a.newInitCmd(),
		a.newDetectCmd(),
		a.newInfoCmd(),
		a.newPartyCmd(),
		a.newBagCmd(),
		a.newPCCmd(),
		a.newExportCmd(),
		a.newConvertCmd(),
		a.newNewCmd(),
		a.newSchemaCmd(),
	)
	return root
}

// setup installs the logger and loads config.yaml.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if a.flags.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))

	dir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return systemErr(fmt.Errorf("resolve config dir: %w", err))
	}
	v, err := loadConfig(dir)
	if err != nil {
		return err
	}
	a.configDir = dir
	a.v = v
	a.logger.Debug("config loaded", "command", cmd.Name(), "config_dir", dir, "backend", v.GetString(cfgKeyBackend))
	return nil
}

func (a *app) finish(_ *cobra.Command, _ []string) error {
	if !a.flags.metrics {
		return nil
	}
	return a.dumpMetrics(a.stderr)
}

// dumpMetrics writes the registry in the Prometheus text format.
func (a *app) dumpMetrics(w io.Writer) error {
	families, err := a.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return nil
}
