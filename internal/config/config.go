// Package config provides configuration file parsing for pkgfetch.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// FileName is the config file looked up inside Dir.
const FileName = "config"

// Config holds the tunables shared by every command.
type Config struct {
	// CommandTimeout bounds each external tool invocation.
	CommandTimeout time.Duration
	// RecentLimit is how many recent packages each source contributes.
	RecentLimit int
	// WatchInterval is the periodic refresh interval of `pkgfetch watch`.
	WatchInterval time.Duration
	// Debounce coalesces bursts of package-database change events.
	Debounce time.Duration
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		CommandTimeout: 30 * time.Second,
		RecentLimit:    5,
		WatchInterval:  5 * time.Minute,
		Debounce:       2 * time.Second,
	}
}

// Validate reports the first out-of-range value.
func (c Config) Validate() error {
	if c.CommandTimeout <= 0 {
		return fmt.Errorf("command_timeout must be positive, got %s", c.CommandTimeout)
	}
	if c.RecentLimit < 1 {
		return fmt.Errorf("recent_limit must be positive, got %d", c.RecentLimit)
	}
	if c.WatchInterval < time.Second {
		return fmt.Errorf("watch_interval must be at least 1s, got %s", c.WatchInterval)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative, got %s", c.Debounce)
	}
	return nil
}

// Dir returns the pkgfetch config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/pkgfetch if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "pkgfetch"), nil
}

// Load reads {dir}/config on top of Default. A missing file is not an error.
// Blank lines, comments, malformed lines and unknown keys are skipped; a
// known key with an unparsable value is an error.
func Load(dir string) (Config, error) {
	cfg := Default()

	f, err := os.Open(filepath.Join(dir, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if value == "" {
			continue
		}

		if err := cfg.set(key, value); err != nil {
			return Default(), fmt.Errorf("%s line %d: %w", FileName, lineNo, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return Default(), err
	}

	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

func (c *Config) set(key, value string) error {
	var err error
	switch key {
	case "command_timeout":
		c.CommandTimeout, err = time.ParseDuration(value)
	case "recent_limit":
		c.RecentLimit, err = strconv.Atoi(value)
	case "watch_interval":
		c.WatchInterval, err = time.ParseDuration(value)
	case "debounce":
		c.Debounce, err = time.ParseDuration(value)
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return nil
}
