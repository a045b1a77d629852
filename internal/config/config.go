// Package config loads and validates the SignPad settings file.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"signpad/internal/signature"
)

const appDirName = "signpad"

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Pad configures the capture surface.
type Pad struct {
	StrokeColor string           `yaml:"strokeColor"`
	StrokeWidth float64          `yaml:"strokeWidth"`
	Layout      signature.Layout `yaml:"layout"`
	ResetPolicy string           `yaml:"resetPolicy"` // keep | clear
}

// Notify configures how the failure message is shown.
type Notify struct {
	Kind    string        `yaml:"kind"` // popup | system | toast
	Timeout time.Duration `yaml:"timeout"`
}

// Storage configures what happens to finished signatures.
type Storage struct {
	Directory string `yaml:"directory"`
	PDF       bool   `yaml:"pdf"`
	Archive   bool   `yaml:"archive"`
}

// Transfer configures the LAN hand-off to a collector.
type Transfer struct {
	Enabled          bool          `yaml:"enabled"`
	Collector        string        `yaml:"collector"` // host:port, empty means discover
	DiscoveryTimeout time.Duration `yaml:"discoveryTimeout"`
	ListenPort       int           `yaml:"listenPort"`
}

type Config struct {
	Pad      Pad      `yaml:"pad"`
	Notify   Notify   `yaml:"notify"`
	Storage  Storage  `yaml:"storage"`
	Transfer Transfer `yaml:"transfer"`
}

func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Pad: Pad{
			StrokeColor: signature.DefaultStrokeColor,
			StrokeWidth: signature.DefaultStrokeWidth,
			Layout:      signature.DefaultLayout(),
			ResetPolicy: signature.KeepTouched.String(),
		},
		Notify: Notify{
			Kind:    "popup",
			Timeout: 3 * time.Second,
		},
		Storage: Storage{
			Directory: filepath.Join(home, "Signatures"),
			PDF:       false,
			Archive:   true,
		},
		Transfer: Transfer{
			Enabled:          false,
			DiscoveryTimeout: 2 * time.Second,
			ListenPort:       8899,
		},
	}
}

// DefaultPath returns <user config dir>/signpad/config.yaml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appDirName, "config.yaml")
}

// Load reads the config at path. A missing file yields the defaults, which
// are written back so the user has something to edit.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		if err := cfg.Save(path); err != nil {
			log.Printf("[CONFIG] could not write defaults to %s: %v", path, err)
		}
		return cfg, nil
	}
	if err != nil {
		return Default(), fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Validate()
	return cfg, nil
}

// Validate replaces out of range values with their defaults.
func (c *Config) Validate() {
	def := Default()

	if !hexColor.MatchString(c.Pad.StrokeColor) {
		c.Pad.StrokeColor = def.Pad.StrokeColor
	}
	if c.Pad.StrokeWidth <= 0 || c.Pad.StrokeWidth > 50 {
		c.Pad.StrokeWidth = def.Pad.StrokeWidth
	}
	l := c.Pad.Layout
	if l.Breakpoint <= 0 || !pct(l.NarrowWidthPct) || !pct(l.WideWidthPct) || !pct(l.HeightPct) {
		c.Pad.Layout = def.Pad.Layout
	}
	c.Pad.ResetPolicy = strings.ToLower(c.Pad.ResetPolicy)
	if c.Pad.ResetPolicy != "keep" && c.Pad.ResetPolicy != "clear" {
		c.Pad.ResetPolicy = def.Pad.ResetPolicy
	}

	c.Notify.Kind = strings.ToLower(c.Notify.Kind)
	switch c.Notify.Kind {
	case "popup", "system", "toast":
	default:
		c.Notify.Kind = def.Notify.Kind
	}
	if c.Notify.Timeout <= 0 {
		c.Notify.Timeout = def.Notify.Timeout
	}

	if c.Storage.Directory == "" || strings.Contains(c.Storage.Directory, "..") {
		c.Storage.Directory = def.Storage.Directory
	}
	if strings.HasPrefix(c.Storage.Directory, "~") {
		home, _ := os.UserHomeDir()
		c.Storage.Directory = filepath.Join(home, c.Storage.Directory[1:])
	}

	if c.Transfer.DiscoveryTimeout <= 0 {
		c.Transfer.DiscoveryTimeout = def.Transfer.DiscoveryTimeout
	}
	if c.Transfer.ListenPort <= 0 || c.Transfer.ListenPort > 65535 {
		c.Transfer.ListenPort = def.Transfer.ListenPort
	}
}

func pct(v float32) bool {
	return v > 0 && v <= 100
}

// Save writes the config as YAML, creating the directory if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// PadOptions turns the pad section into signature options.
func (c *Config) PadOptions() []signature.Option {
	return []signature.Option{
		signature.WithLayout(c.Pad.Layout),
		signature.WithResetPolicy(signature.ParseResetPolicy(c.Pad.ResetPolicy)),
	}
}
