package config

import (
	"os"
	"path/filepath"
)

const appDirName = ".oversee"

// DataDir returns the base data directory for Oversee.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, appDirName), nil
}

// SettingsPath returns the path to the settings file.
func SettingsPath() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "settings.toml"), nil
}

// LogPath returns the path of the UI log file. The UI owns the terminal, so
// log output goes to a file instead of stderr.
func LogPath() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "oversee.log"), nil
}

// DefaultExportDir returns the directory for CSV downloads and chart
// snapshots when the settings file does not name one.
func DefaultExportDir() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "exports"), nil
}
