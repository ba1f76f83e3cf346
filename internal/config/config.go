// Package config assembles the tool options from defaults, an optional TOML
// config file, and DIFFPATCH_* environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// Interface selects the presenter variant.
type Interface int

const (
	InterfaceDirect Interface = iota
	InterfaceFullscreen
	InterfaceInlineClear
)

var interfaceNames = []string{"direct", "fullscreen", "inline-clear"}

func (i Interface) String() string {
	if int(i) < len(interfaceNames) {
		return interfaceNames[i]
	}
	return "unknown"
}

// ParseInterface parses an interface name.
func ParseInterface(s string) (Interface, error) {
	for i, name := range interfaceNames {
		if s == name {
			return Interface(i), nil
		}
	}
	return InterfaceDirect, fmt.Errorf("expected one of %s, got %q", strings.Join(interfaceNames, ", "), s)
}

// Options is the resolved configuration for one invocation.
type Options struct {
	ContextLen       int       // context lines per hunk
	Interface        Interface // presenter variant
	ImmediateCommand bool      // dispatch on first keypress, no newline
	Editor           string    // external editor command
	Verbose          int       // debug log verbosity
	NoColor          bool
}

// Default returns the built-in option values.
func Default() Options {
	return Options{
		ContextLen:       3,
		Interface:        InterfaceDirect,
		ImmediateCommand: false,
		Editor:           "",
	}
}

// fileConfig mirrors the optional TOML config file. Pointer fields
// distinguish unset keys from explicit values.
type fileConfig struct {
	ContextLen       *int    `toml:"context_len"`
	Interface        *string `toml:"interface"`
	ImmediateCommand *bool   `toml:"immediate_command"`
	Editor           *string `toml:"editor"`
}

// ConfigFilePath returns the default config file location,
// ~/.config/diffpatch/config.toml (honoring XDG_CONFIG_HOME).
func ConfigFilePath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "diffpatch", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "diffpatch", "config.toml")
}

// Load resolves options from defaults, the config file (when present), and
// the environment. Invalid values are errors, never silent defaults.
func Load(configPath string) (Options, error) {
	opts := Default()

	explicit := configPath != ""
	if configPath == "" {
		configPath = ConfigFilePath()
	}
	if configPath != "" {
		if err := mergeFile(&opts, configPath, explicit); err != nil {
			return opts, err
		}
	}
	if err := mergeEnv(&opts); err != nil {
		return opts, err
	}

	if opts.ContextLen < 0 {
		return opts, fmt.Errorf("context length must be non-negative, got %d", opts.ContextLen)
	}
	return opts, nil
}

func mergeFile(opts *Options, path string, explicit bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse TOML config %s: %w", path, err)
	}

	if fc.ContextLen != nil {
		opts.ContextLen = *fc.ContextLen
	}
	if fc.Interface != nil {
		iface, err := ParseInterface(*fc.Interface)
		if err != nil {
			return fmt.Errorf("invalid interface in %s: %w", path, err)
		}
		opts.Interface = iface
	}
	if fc.ImmediateCommand != nil {
		opts.ImmediateCommand = *fc.ImmediateCommand
	}
	if fc.Editor != nil {
		opts.Editor = *fc.Editor
	}
	return nil
}

// mergeEnv overlays DIFFPATCH_* environment variables via viper.
func mergeEnv(opts *Options) error {
	v := viper.New()
	v.SetEnvPrefix("DIFFPATCH")
	v.AutomaticEnv()

	if s := v.GetString("context_len"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("DIFFPATCH_CONTEXT_LEN=%s could not be parsed: %w", s, err)
		}
		opts.ContextLen = n
	}
	if s := v.GetString("interface"); s != "" {
		iface, err := ParseInterface(s)
		if err != nil {
			return fmt.Errorf("DIFFPATCH_INTERFACE=%s could not be parsed: %w", s, err)
		}
		opts.Interface = iface
	}
	if s := v.GetString("immediate_command"); s != "" {
		b, err := parseBoolWord(s)
		if err != nil {
			return fmt.Errorf("DIFFPATCH_IMMEDIATE_COMMAND=%s could not be parsed as a boolean", s)
		}
		opts.ImmediateCommand = b
	}
	if s := v.GetString("editor"); s != "" {
		opts.Editor = s
	}
	return nil
}

func parseBoolWord(s string) (bool, error) {
	switch s {
	case "yes", "y", "1", "true":
		return true, nil
	case "no", "n", "0", "false":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean word: %q", s)
}
