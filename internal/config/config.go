package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/pshhmi/internal/state"
)

// Config captures everything the HMI reads from pshhmi's config file.
type Config struct {
	APIBind           string
	PollInterval      time.Duration
	Protocol          state.Protocol
	DiscardStalePolls bool
	LogFile           string
	LogLevel          string
	MetricsAddr       string
}

const (
	defaultConfigPath   = "~/.config/pshhmi/config.toml"
	defaultLogFile      = "~/.local/state/pshhmi/pshhmi.log"
	defaultAPIBind      = "127.0.0.1:8080"
	defaultPollInterval = 5 * time.Second
	defaultLogLevel     = "info"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBind:           defaultAPIBind,
		PollInterval:      defaultPollInterval,
		Protocol:          state.ProtocolAuto,
		DiscardStalePolls: true,
		LogFile:           mustExpand(defaultLogFile),
		LogLevel:          defaultLogLevel,
	}
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBind           string `toml:"api_bind"`
		PollSeconds       int    `toml:"poll_seconds"`
		Protocol          string `toml:"protocol"`
		DiscardStalePolls *bool  `toml:"discard_stale_polls"`
		LogFile           string `toml:"log_file"`
		LogLevel          string `toml:"log_level"`
		MetricsAddr       string `toml:"metrics_addr"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if bind := strings.TrimSpace(raw.APIBind); bind != "" {
		cfg.APIBind = bind
	}
	if raw.PollSeconds < 0 {
		return Config{}, fmt.Errorf("parse config: poll_seconds must be positive, got %d", raw.PollSeconds)
	}
	if raw.PollSeconds > 0 {
		cfg.PollInterval = time.Duration(raw.PollSeconds) * time.Second
	}
	protocol, err := state.ParseProtocol(raw.Protocol)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.Protocol = protocol
	if raw.DiscardStalePolls != nil {
		cfg.DiscardStalePolls = *raw.DiscardStalePolls
	}
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}
	if level := strings.TrimSpace(raw.LogLevel); level != "" {
		cfg.LogLevel = level
	}
	cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
