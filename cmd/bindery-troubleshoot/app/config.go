package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. BINDERY_TROUBLESHOOT_NAMESPACE.
	EnvPrefix      = "BINDERY_TROUBLESHOOT"
	ConfigFileName = ".bindery-troubleshoot"
)

// Config holds the settings that may come from a config file or the environment.
// Command line flags always win.
type Config struct {
	Kubeconfig string `mapstructure:"kubeconfig"`
	Namespace  string `mapstructure:"namespace"`
	Selector   string `mapstructure:"selector"`
	Output     string `mapstructure:"output"`
	Verbose    bool   `mapstructure:"verbose"`
}

func DefaultConfig() Config {
	return Config{Output: "text"}
}

// LoadConfig reads path, or the first .bindery-troubleshoot.yaml found in the
// working directory or the user config dir when path is empty. A missing
// default file is not an error.
func LoadConfig(path string) (Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("kubeconfig", defaults.Kubeconfig)
	v.SetDefault("namespace", defaults.Namespace)
	v.SetDefault("selector", defaults.Selector)
	v.SetDefault("output", defaults.Output)
	v.SetDefault("verbose", defaults.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, fmt.Errorf("config file not found: %s", path)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(ConfigFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
