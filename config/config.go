package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/b0bbywan/go-screengrab/logger"
)

const (
	AppName    = "screengrab"
	AppVersion = "0.3.2"

	releasesURL  = "https://github.com/b0bbywan/go-screengrab/releases"
	changelogURL = "https://github.com/b0bbywan/go-screengrab/blob/main/CHANGELOG.md"
	atomFeedURL  = releasesURL + ".atom"
	indexURL     = "https://raw.githubusercontent.com/b0bbywan/go-screengrab/main/version.json"
)

type Config struct {
	Capture  *CaptureConfig
	Update   *UpdateConfig
	LogLevel logger.Level
}

type CaptureConfig struct {
	// Timeout guards every portal request; the portal may never answer.
	Timeout time.Duration
	// NoticePoll is the interval at which the stall notice is polled
	// for presentation focus during the interactive retry.
	NoticePoll time.Duration
	// OutputDir receives one PNG per captured screen.
	OutputDir string
	// Screens are X11-style "WxH+X+Y" geometry strings describing the
	// screen layout within the full desktop. Empty means one screen
	// covering the whole desktop.
	Screens []string
	// Sandboxed reports whether the process runs under a confinement
	// mechanism that requires the interactive retry.
	Sandboxed bool
}

type UpdateConfig struct {
	Enabled bool
	// Packaged builds read the releases atom feed, others the version index.
	Packaged     bool
	AtomURL      string
	IndexURL     string
	ReleasesURL  string
	ChangelogURL string
	CacheTTL     time.Duration
}

// parseLogLevel converts a string to a logger.Level
func parseLogLevel(levelStr string) logger.Level {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return logger.DEBUG
	case "INFO":
		return logger.INFO
	case "WARN":
		return logger.WARN
	case "ERROR":
		return logger.ERROR
	case "FATAL":
		return logger.FATAL
	default:
		return logger.WARN // default
	}
}

// sandboxed detects the flatpak confinement marker.
func sandboxed() bool {
	return os.Getenv("FLATPAK_ID") != ""
}

func New() (*Config, error) {
	viper.SetDefault("capture.timeout", "10s")
	viper.SetDefault("capture.notice_poll", "300ms")
	viper.SetDefault("capture.output", ".")
	viper.SetDefault("capture.screens", []string{})

	viper.SetDefault("update.enabled", true)
	viper.SetDefault("update.cache_ttl", "24h")

	viper.SetDefault("LogLevel", "WARN")

	// Load from configuration file, environment variables, and CLI flags
	viper.SetConfigName("config")                       // name of config file (without extension)
	viper.SetConfigType("yaml")                         // config file format
	viper.AddConfigPath(filepath.Join("/etc", AppName)) // Global configuration path
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", AppName)) // User config path
	}

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional, continue with defaults if not found
		if _, isNotFound := err.(viper.ConfigFileNotFoundError); !isNotFound {
			logger.Warn("failed to read config: %v", err)
		}
	}

	timeout := viper.GetDuration("capture.timeout")
	if timeout <= 0 {
		return nil, fmt.Errorf("invalid capture timeout: %s", timeout)
	}

	noticePoll := viper.GetDuration("capture.notice_poll")
	if noticePoll <= 0 {
		noticePoll = 300 * time.Millisecond
	}

	isSandboxed := sandboxed()

	capturecfg := CaptureConfig{
		Timeout:    timeout,
		NoticePoll: noticePoll,
		OutputDir:  viper.GetString("capture.output"),
		Screens:    viper.GetStringSlice("capture.screens"),
		Sandboxed:  isSandboxed,
	}

	cacheTTL := viper.GetDuration("update.cache_ttl")
	if cacheTTL <= 0 {
		cacheTTL = 24 * time.Hour
	}

	viper.SetDefault("update.packaged", isSandboxed)
	updatecfg := UpdateConfig{
		Enabled:      viper.GetBool("update.enabled"),
		Packaged:     viper.GetBool("update.packaged"),
		AtomURL:      atomFeedURL,
		IndexURL:     indexURL,
		ReleasesURL:  releasesURL,
		ChangelogURL: changelogURL,
		CacheTTL:     cacheTTL,
	}

	cfg := Config{
		Capture:  &capturecfg,
		Update:   &updatecfg,
		LogLevel: parseLogLevel(viper.GetString("LogLevel")),
	}

	return &cfg, nil
}
