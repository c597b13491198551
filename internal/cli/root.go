package cli

import (
	"fmt"
	"os"

	"github.com/devcontools/devcon/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "devcon <command>",
	Short: "Launch build and test environment containers",
	Long: `Devcon launches the team's containerized build and test environments.
An image alias selects a predefined environment profile; the matching
image is pulled from the release registry, falling back to the
development registry. Containers are named after the invoking user and
alias, so each (user, alias, name) triple maps to exactly one container.

Examples:
  devcon create -d qx                   # Create a persistent qx container
  devcon exec -d qx                     # Open a shell in it
  devcon exec -d qx -c "pytest -x"      # Run a command in it
  devcon run -d yocto_dunfell -c make   # One-shot build, removed on exit
  devcon run -p registry.example.com/custom/env -v 2.0
  devcon list                           # Show your containers
  devcon clean                          # Stop and remove them all`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/devcon/config.yaml)")

	// SilenceUsage keeps runtime failures (pull errors, daemon down) from
	// drowning in help text, but rejected options still print the full
	// usage alongside the offending flag name.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		cmd.PrintErrln(cmd.UsageString())
		return err
	})
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Warning: could not find home directory:", err)
			return
		}

		// Search for config in standard locations
		viper.AddConfigPath(home + "/.config/devcon")
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("DEVCON")
	viper.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintln(os.Stderr, "Warning: error reading config file:", err)
		}
	}

	// Load into config struct
	cfg = config.LoadConfig()
}
