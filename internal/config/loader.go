package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".restamp"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix, e.g. RESTAMP_BATCH_SIZE.
const envPrefix = "RESTAMP"

// Load reads configuration from file, environment and defaults. An explicit
// path is used verbatim; otherwise the file is searched in searchDir (the
// work tree, usually) and $HOME. A missing file is not an error.
func Load(configPath, searchDir string) (*Config, error) {
	v := viper.New()

	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		if searchDir != "" {
			v.AddConfigPath(searchDir)
		}
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("batch_size", DefaultBatchSize)
	v.SetDefault("directories", DefaultDirectories)
	v.SetDefault("commit_time", DefaultCommitTime)
	v.SetDefault("merge", DefaultMerge)
	v.SetDefault("first_parent", DefaultFirstParent)
	v.SetDefault("skip_missing", DefaultSkipMissing)
	v.SetDefault("skip_older_than", DefaultSkipOlderThan)
}
