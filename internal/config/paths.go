package config

import "path/filepath"

const (
	// Global layout under READGATE_HOME.
	ConfigFilePath = "config.toml"
	LogsDirPath    = "logs"

	StatsLogFileName = "read-stats.jsonl"
)

func homeConfigPath(home string) string {
	return filepath.Join(home, ConfigFilePath)
}

func defaultHomePath(home string) string {
	return filepath.Join(home, ".readgate")
}

func (c *Config) ConfigPath() string {
	return homeConfigPath(c.HomeDir)
}

func (c *Config) LogsDir() string {
	return filepath.Join(c.HomeDir, LogsDirPath)
}

// StatsLogPath returns the audit log location, honoring the
// audit.log_file override when set.
func (c *Config) StatsLogPath() string {
	if c.Audit.LogFile != "" {
		return c.Audit.LogFile
	}
	return filepath.Join(c.LogsDir(), StatsLogFileName)
}
