//go:build dev

package config

// dev builds keep their own config, usually pointed at a local rmsim instance
const devConfDir = ".rmshelf-dev"

// GetDir returns the dev config directory, creating it on first use.
func GetDir() (string, error) {
	return userDir(devConfDir)
}
