package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/d60-Lab/pingjob/config"
	"github.com/d60-Lab/pingjob/pkg/logger"
	"github.com/d60-Lab/pingjob/pkg/monitoring"
)

var (
	cfgFile string
	cfg     *config.Config
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pingjob",
		Short:         "Distribute job postings to Facebook, Twitter and Instagram",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.LoadFrom(cfgFile)
			if err != nil {
				return err
			}
			if err := logger.Init(cfg.Log); err != nil {
				return err
			}
			enabled, err := monitoring.InitSentry(cfg)
			if err != nil {
				logger.Warn("sentry init failed", zap.Error(err))
			} else if enabled {
				logger.Info("sentry enabled")
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			monitoring.Flush()
			_ = logger.Sync()
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./config.yaml or ./config/config.yaml)")

	root.AddCommand(serveCmd(), distributeCmd(), migrateCmd(), platformsCmd())
	return root
}

func Execute() error {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		root.PrintErrln("Error:", err)
		return err
	}
	return nil
}
