// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var configPath string // directory holding main.toml and the optional .env

var rootCmd = &cobra.Command{
	Use:   "authcore",
	Short: "authcore signs users in with GitHub or Google and issues session tokens",
	Long: `authcore links verified GitHub and Google identities to local users
and hands out stateless signed session tokens that are valid for 90 days.`,
	Args:          cobra.OnlyValidArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "configuration directory")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute() //nolint:wrapcheck
}
