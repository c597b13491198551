package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage devcon configuration",
	Long: `Manage devcon configuration settings.

Commands:
  list    List all configuration settings
  get     Get a configuration value
  set     Set a configuration value
  path    Show configuration file path
  init    Create default configuration file

Examples:
  devcon config list
  devcon config get registry.host
  devcon config set image.default_version 2024.2
  devcon config set profiles.file ~/.config/devcon/profiles.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := viper.AllSettings()
		printSettingsFlat("", settings)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		if !viper.IsSet(key) {
			return fmt.Errorf("key not found: %s", key)
		}
		value := viper.Get(key)
		// Handle nested maps by printing them in a readable format
		if m, ok := value.(map[string]interface{}); ok {
			printSettingsFlat(key, m)
		} else {
			fmt.Println(value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := validateConfigKey(key, value); err != nil {
			return err
		}

		configPath := getConfigPath()

		configDir := filepath.Dir(configPath)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		viper.Set(key, value)

		if err := viper.WriteConfigAs(configPath); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}

		fmt.Printf("Set %s = %s\n", key, value)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Run: func(cmd *cobra.Command, args []string) {
		if cfgFile := viper.ConfigFileUsed(); cfgFile != "" {
			fmt.Println(cfgFile)
		} else {
			fmt.Println(getConfigPath())
		}
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := getConfigPath()
		configDir := filepath.Dir(configPath)

		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists at %s", configPath)
		}

		defaultConfig := `# Devcon configuration

# Registry settings. The username/password pair is the shared read-only
# pull credential for the internal registry.
registry:
  host: registry.lab.internal:5000
  release_repo: tools
  dev_repo: tools-dev
  username: readonly
  password: readonly

# Image defaults
image:
  default_version: latest

# Environment variables to pass through into containers
environment:
  passthrough:
    - TERM
    - COLORTERM
    - DISPLAY
  custom: {}
    # CCACHE_DIR: /work/.ccache

# Host-side default locations
paths:
  ssh_keys_dir: ~/.ssh
  # xauth_dir: ""
  xsocket_dir: /tmp/.X11-unix
  # work_dir: ""        # default: your home directory

# Per-alias profile overrides (optional)
profiles:
  file: ""
    # file: ~/.config/devcon/profiles.yaml
`

		if err := os.WriteFile(configPath, []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}

		fmt.Printf("Created config file at %s\n", configPath)
		return nil
	},
}

// printSettingsFlat prints settings in dot notation
func printSettingsFlat(prefix string, settings map[string]interface{}) {
	keys := make([]string, 0, len(settings))
	for key := range settings {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := settings[key]
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]interface{}); ok {
			printSettingsFlat(fullKey, nested)
		} else {
			fmt.Printf("%s: %v\n", fullKey, value)
		}
	}
}

// getConfigPath returns the default config file path
func getConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "devcon", "config.yaml")
}

// validateConfigKey validates values for keys that must not be blanked
func validateConfigKey(key, value string) error {
	required := map[string]bool{
		"registry.host":          true,
		"registry.release_repo":  true,
		"registry.dev_repo":      true,
		"image.default_version":  true,
	}

	if required[key] && value == "" {
		return fmt.Errorf("%s cannot be empty", key)
	}
	return nil // Unknown keys pass through
}
