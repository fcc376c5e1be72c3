// internal/config/config.go
package config

import "errors"

// Defaults for settings absent from the config file and environment.
const (
	DefaultLogLevel      = "warn"
	DefaultBatchSize     = 100
	DefaultDirectories   = true
	DefaultCommitTime    = false
	DefaultMerge         = false
	DefaultFirstParent   = false
	DefaultSkipMissing   = false
	DefaultSkipOlderThan = 0
)

// Config holds the persistent knobs of a restore run. One-shot switches
// (force, dry run, repository location) are flags only and never read
// from a file. Field tags use mapstructure for viper unmarshalling.
type Config struct {
	LogLevel      string `mapstructure:"log_level"`
	BatchSize     int    `mapstructure:"batch_size"`
	Directories   bool   `mapstructure:"directories"`
	CommitTime    bool   `mapstructure:"commit_time"`
	Merge         bool   `mapstructure:"merge"`
	FirstParent   bool   `mapstructure:"first_parent"`
	SkipMissing   bool   `mapstructure:"skip_missing"`
	SkipOlderThan int64  `mapstructure:"skip_older_than"`
}

// Validate checks settings that have hard bounds.
func (c *Config) Validate() error {
	if c.BatchSize < 1 {
		return errors.New("batch_size must be at least 1")
	}
	if c.SkipOlderThan < 0 {
		return errors.New("skip_older_than must not be negative")
	}
	return nil
}
