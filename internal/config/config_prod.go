//go:build !dev

package config

// GetDir returns the directory holding config.toml and the log file, creating it on first use.
func GetDir() (string, error) {
	return userDir(appConfDir)
}
