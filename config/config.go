package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultPrintCommand = "lp"
)

// Config is the top-level configuration.
type Config struct {
	LogFile string                  `toml:"log_file"`
	Servers map[string]ServerConfig `toml:"servers"`
}

// ServerConfig holds connection details for one Nexus server.
type ServerConfig struct {
	URL                string   `toml:"url"`
	Username           string   `toml:"username"`
	Password           string   `toml:"password"`
	InsecureSkipVerify bool     `toml:"insecure_skip_verify"`
	Timeout            Duration `toml:"timeout"`
	Permissions        []string `toml:"permissions"`
	DownloadDir        string   `toml:"download_dir"`
	PrintCommand       string   `toml:"print_command"`
	Debug              bool     `toml:"debug"`
}

// Duration is a time.Duration that decodes from a TOML string like "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

// DefaultPath returns the default config file path using XDG conventions.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "nexus-tui", "config.toml")
}

// DefaultLogPath returns the log file used when log_file is unset.
func DefaultLogPath() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".local", "state")
	}
	return filepath.Join(dir, "nexus-tui", "nexus-tui.log")
}

// LoadFrom reads and parses the config file at the given path.
// It applies defaults for server fields after parsing.
func LoadFrom(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	if len(cfg.Servers) == 0 {
		return nil, fmt.Errorf("config has no servers defined")
	}
	for name, server := range cfg.Servers {
		if server.URL == "" {
			return nil, fmt.Errorf("server %q: url is required", name)
		}
		if !strings.HasSuffix(server.URL, "/") {
			server.URL += "/"
		}
		if server.Timeout.Duration == 0 {
			server.Timeout.Duration = defaultTimeout
		}
		if server.DownloadDir == "" {
			server.DownloadDir = "~/Downloads"
		}
		server.DownloadDir = expandPath(server.DownloadDir)
		if server.PrintCommand == "" {
			server.PrintCommand = defaultPrintCommand
		}
		cfg.Servers[name] = server
	}
	if cfg.LogFile == "" {
		cfg.LogFile = DefaultLogPath()
	}
	cfg.LogFile = expandPath(cfg.LogFile)
	return &cfg, nil
}

// expandPath expands ~ to $HOME and then expands all environment variables.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		path = "$HOME" + path[1:]
	}
	return os.ExpandEnv(path)
}

// ServerNames returns the sorted list of server profile names.
func (c *Config) ServerNames() []string {
	names := make([]string, 0, len(c.Servers))
	for name := range c.Servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
