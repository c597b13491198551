package config

import (
	"github.com/spf13/viper"
)

// Config represents the full configuration structure
type Config struct {
	Registry    RegistryConfig    `mapstructure:"registry"`
	Image       ImageConfig       `mapstructure:"image"`
	Environment EnvironmentConfig `mapstructure:"environment"`
	Paths       PathsConfig       `mapstructure:"paths"`
	Profiles    ProfilesConfig    `mapstructure:"profiles"`
}

// RegistryConfig configures image resolution and registry access
type RegistryConfig struct {
	Host        string `mapstructure:"host"`
	ReleaseRepo string `mapstructure:"release_repo"`
	DevRepo     string `mapstructure:"dev_repo"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
}

// ImageConfig configures image defaults
type ImageConfig struct {
	DefaultVersion string `mapstructure:"default_version"`
}

// EnvironmentConfig configures environment variables passed into containers
type EnvironmentConfig struct {
	Passthrough []string          `mapstructure:"passthrough"`
	Custom      map[string]string `mapstructure:"custom"`
}

// PathsConfig configures host-side default locations
type PathsConfig struct {
	SSHKeysDir string `mapstructure:"ssh_keys_dir"`
	XAuthDir   string `mapstructure:"xauth_dir"`
	XSocketDir string `mapstructure:"xsocket_dir"`
	WorkDir    string `mapstructure:"work_dir"`
}

// ProfilesConfig configures the image profile override file
type ProfilesConfig struct {
	File string `mapstructure:"file"`
}

// LoadConfig loads configuration from viper with defaults
func LoadConfig() *Config {
	setDefaults()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return defaultConfig()
	}

	return cfg
}

func setDefaults() {
	// Registry defaults. The password is the embedded read-only pull
	// credential for the internal registry; pushes need a real login.
	viper.SetDefault("registry.host", DefaultRegistryHost)
	viper.SetDefault("registry.release_repo", DefaultReleaseRepo)
	viper.SetDefault("registry.dev_repo", DefaultDevRepo)
	viper.SetDefault("registry.username", DefaultRegistryUser)
	viper.SetDefault("registry.password", DefaultRegistryPassword)

	// Image defaults
	viper.SetDefault("image.default_version", DefaultImageVersion)

	// Environment defaults
	viper.SetDefault("environment.passthrough", []string{"TERM", "COLORTERM", "DISPLAY"})
	viper.SetDefault("environment.custom", map[string]string{})

	// Path defaults
	viper.SetDefault("paths.ssh_keys_dir", "~/.ssh")
	viper.SetDefault("paths.xauth_dir", "")
	viper.SetDefault("paths.xsocket_dir", DefaultXSocketDir)
	viper.SetDefault("paths.work_dir", "")

	// Profile overrides
	viper.SetDefault("profiles.file", "")
}

func defaultConfig() *Config {
	return &Config{
		Registry: RegistryConfig{
			Host:        DefaultRegistryHost,
			ReleaseRepo: DefaultReleaseRepo,
			DevRepo:     DefaultDevRepo,
			Username:    DefaultRegistryUser,
			Password:    DefaultRegistryPassword,
		},
		Image: ImageConfig{
			DefaultVersion: DefaultImageVersion,
		},
		Environment: EnvironmentConfig{
			Passthrough: []string{"TERM", "COLORTERM", "DISPLAY"},
			Custom:      map[string]string{},
		},
		Paths: PathsConfig{
			SSHKeysDir: "~/.ssh",
			XSocketDir: DefaultXSocketDir,
		},
	}
}
