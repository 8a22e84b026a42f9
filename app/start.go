package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/authcore/authcore/internal/config"
	"github.com/authcore/authcore/internal/daemon"
	"github.com/authcore/authcore/internal/logger"
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode (plain http cookies, template reload, sql logging)")

	rootCmd.AddCommand(startCmd)
}

var (
	devMode bool

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the authcore web service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.ReadConfig(configPath)
			if err != nil {
				return err //nolint:wrapcheck
			}

			if devMode {
				cfg.DevMode = true
			}

			if err = logger.Init(cfg.Log); err != nil {
				return err //nolint:wrapcheck
			}

			if cfg.DevMode {
				log.Warn().Msg("dev mode enabled: session cookies are sent over plain http")
			}

			d, err := daemon.New(cmd.Context(), &cfg)
			if err != nil {
				log.Error().Err(err).Msg("failed to start")
				return err //nolint:wrapcheck
			}

			return d.Start() //nolint:wrapcheck
		},
	}
)
