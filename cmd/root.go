package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pable/go-tennis-metrics/internal/config"
	"github.com/pable/go-tennis-metrics/internal/dataset"
	"github.com/pable/go-tennis-metrics/internal/logger"
	"github.com/pable/go-tennis-metrics/internal/metrics"
	"github.com/pable/go-tennis-metrics/internal/session"
	"github.com/pable/go-tennis-metrics/internal/storage"
)

var (
	cfgFile string
	v       = config.NewViper()
	cfg     *config.Config
	log     = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "tennismetrics",
	Short: "Tennis session metrics tool",
	Long: `Build a per-player, per-session metrics dataset from tennis shot and point
tables stored as one dated folder per session, and inspect it from the terminal.`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tennismetrics.yaml)")
	pf.String(config.KeyDataRoot, "data", "root directory holding one folder per session")
	pf.String(config.KeyHost, config.DefaultHost, "name of the host player")
	pf.String(config.KeyDBPath, config.DefaultDBPath(), "path to SQLite database")
	pf.String(config.KeyShotsFile, session.DefaultShotsFile, "shots table file name inside each session folder")
	pf.String(config.KeyPointsFile, session.DefaultPointsFile, "points table file name inside each session folder")
	pf.String(config.KeyLogLevel, "info", "log level (debug, info, warn, error)")
	pf.String(config.KeyLogFormat, "text", "log format (text, json)")
	pf.Bool(config.KeyRobustSpeed, false, "average speeds after dropping 1.5×IQR outliers")
	pf.String(config.KeyMetricsFile, "", "write Prometheus textfile metrics here after each build")
	pf.Duration(config.KeyCacheTTL, 5*time.Minute, "how long the shell keeps a built dataset")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(pointsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(shellCmd)
}

// initConfig layers defaults, the config file, TENNISMETRICS_* variables and
// flags, then sets up the logger.
func initConfig(cmd *cobra.Command, _ []string) error {
	used, err := config.ReadFile(v, cfgFile)
	if err != nil {
		return err
	}
	bindFlags(cmd.Root(), v)

	cfg, err = config.Load(v)
	if err != nil {
		return err
	}
	log = logger.New(cfg.LogLevel, cfg.LogFormat)
	if used != "" {
		log.WithField("file", used).Debug("using config file")
	}
	return nil
}

// bindFlags binds every persistent flag to the viper key of the same name, so
// a flag set on the command line wins over the environment and the file.
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		if err := v.BindPFlag(f.Name, f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not bind flag %s: %v\n", f.Name, err)
		}
	})
}

// buildDataset runs the pipeline over the configured data root and records
// build metrics.
func buildDataset() (dataset.Result, error) {
	res, err := dataset.Build(cfg.DataRoot, cfg.SessionOptions(), log)
	if err != nil {
		return res, err
	}

	rec := metrics.NewRecorder()
	rec.Observe(res)
	if cfg.MetricsFile != "" {
		if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
			log.WithError(err).WithField("file", cfg.MetricsFile).Warn("could not write metrics textfile")
		}
	}
	return res, nil
}

// openDB opens the configured database, creating its directory if needed.
func openDB() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}
