package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/givehub/opskit/internal/config"
	"github.com/givehub/opskit/internal/logging"
	"github.com/givehub/opskit/internal/version"
)

var (
	cfg     *config.Config
	logger  *zap.Logger
	dataDir string
)

var rootCmd = &cobra.Command{
	Use:   "opskit",
	Short: "Operations toolkit for the GiveHub donation platform",
	Long: `opskit bundles the automation the platform needs around its backend:
object-store bucket provisioning, demo-data seeding over the REST API
and fixture-vs-server consistency checks.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		logger, err = logging.New(cfg.Env)
		return err
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the opskit version",
	// Version must print even when the environment is broken.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Version)
	},
}

// Execute runs the CLI and flushes any buffered log output on the way out.
func Execute() error {
	err := rootCmd.Execute()
	if logger != nil {
		logger.Sync()
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "seed fixture directory (default from SEED_DATA_DIR)")
	rootCmd.AddCommand(versionCmd)
}

func seedDataDir() string {
	if dataDir != "" {
		return dataDir
	}
	return cfg.Seed.DataDir
}
