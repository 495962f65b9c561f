package config

import (
	"errors"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const defaultBackendAddress = "127.0.0.1:5000"

const (
	defaultDecisionsPollSeconds = 5
	defaultLiveMetricsSeconds   = 10
	defaultTrendsPollSeconds    = 30
	defaultStatusPollSeconds    = 15
)

type Settings struct {
	Backend BackendConfig `toml:"backend"`
	Logging LoggingConfig `toml:"logging"`
	Poll    PollConfig    `toml:"poll"`
	Export  ExportConfig  `toml:"export"`
}

type BackendConfig struct {
	Address string `toml:"address"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

type PollConfig struct {
	DecisionsSeconds   int `toml:"decisions_seconds"`
	LiveMetricsSeconds int `toml:"live_metrics_seconds"`
	TrendsSeconds      int `toml:"trends_seconds"`
	StatusSeconds      int `toml:"status_seconds"`
}

type ExportConfig struct {
	Dir string `toml:"dir"`
}

func DefaultSettings() Settings {
	return Settings{
		Backend: BackendConfig{Address: defaultBackendAddress},
		Logging: LoggingConfig{Level: "info"},
	}
}

func LoadSettings() (Settings, error) {
	path, err := SettingsPath()
	if err != nil {
		return Settings{}, err
	}
	return loadSettingsFromPath(path)
}

func loadSettingsFromPath(path string) (Settings, error) {
	settings := DefaultSettings()
	if err := readTOML(path, &settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func (s Settings) BackendAddress() string {
	addr := strings.TrimSpace(s.Backend.Address)
	if addr == "" {
		return defaultBackendAddress
	}
	addr = strings.TrimPrefix(addr, "http://")
	addr = strings.TrimPrefix(addr, "https://")
	addr = strings.TrimRight(addr, "/")
	if addr == "" {
		return defaultBackendAddress
	}
	return addr
}

func (s Settings) BackendBaseURL() string {
	return "http://" + s.BackendAddress()
}

func (s Settings) LogLevel() string {
	level := strings.TrimSpace(s.Logging.Level)
	if level == "" {
		return "info"
	}
	return level
}

func (s Settings) DecisionsPollInterval() time.Duration {
	return pollInterval(s.Poll.DecisionsSeconds, defaultDecisionsPollSeconds)
}

func (s Settings) LiveMetricsPollInterval() time.Duration {
	return pollInterval(s.Poll.LiveMetricsSeconds, defaultLiveMetricsSeconds)
}

func (s Settings) TrendsPollInterval() time.Duration {
	return pollInterval(s.Poll.TrendsSeconds, defaultTrendsPollSeconds)
}

func (s Settings) StatusPollInterval() time.Duration {
	return pollInterval(s.Poll.StatusSeconds, defaultStatusPollSeconds)
}

func (s Settings) ExportDir() (string, error) {
	dir := strings.TrimSpace(s.Export.Dir)
	if dir != "" {
		return dir, nil
	}
	return DefaultExportDir()
}

func pollInterval(seconds, fallback int) time.Duration {
	if seconds < 1 {
		seconds = fallback
	}
	return time.Duration(seconds) * time.Second
}

func readTOML(path string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return toml.Unmarshal(data, out)
}
