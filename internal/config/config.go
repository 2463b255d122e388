package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LocalNames are the repo-local config files, in search order.
var LocalNames = []string{".vibeguard.yml", ".vibeguard.yaml", "vibeguard.yml", "vibeguard.yaml"}

// FileConfig is the on-disk YAML configuration shape for VibeGuard. Unset
// keys stay nil so a local file can override only what it names.
type FileConfig struct {
	// Enable turns scanning and remediation on or off for the workspace.
	Enable *bool `yaml:"enable"`
	// ConfirmVariableName prompts for the variable name before each fix.
	ConfirmVariableName *bool `yaml:"confirm_variable_name"`

	EnvFile    *string `yaml:"env_file"`
	IgnoreFile *string `yaml:"ignore_file"`

	Include         *string `yaml:"include"`
	Exclude         *string `yaml:"exclude"`
	MaxBytes        *int64  `yaml:"max_bytes"`
	Threads         *int    `yaml:"threads"`
	DefaultExcludes *bool   `yaml:"default_excludes"`
	NoColor         *bool   `yaml:"no_color"`
}

// Settings is a fully resolved configuration.
type Settings struct {
	Enable              bool
	ConfirmVariableName bool
	EnvFile             string
	IgnoreFile          string
	Include             string
	Exclude             string
	MaxBytes            int64
	Threads             int
	DefaultExcludes     bool
	NoColor             bool
}

// Defaults returns the settings used when no file sets a key.
func Defaults() Settings {
	return Settings{
		Enable:              true,
		ConfirmVariableName: true,
		EnvFile:             ".env",
		IgnoreFile:          ".gitignore",
		MaxBytes:            1 << 20,
		DefaultExcludes:     true,
	}
}

// Resolve layers local over global over Defaults.
func Resolve(local, global FileConfig) Settings {
	s := Defaults()
	for _, fc := range []FileConfig{global, local} {
		setBool(&s.Enable, fc.Enable)
		setBool(&s.ConfirmVariableName, fc.ConfirmVariableName)
		setString(&s.EnvFile, fc.EnvFile)
		setString(&s.IgnoreFile, fc.IgnoreFile)
		setString(&s.Include, fc.Include)
		setString(&s.Exclude, fc.Exclude)
		if fc.MaxBytes != nil && *fc.MaxBytes > 0 {
			s.MaxBytes = *fc.MaxBytes
		}
		if fc.Threads != nil && *fc.Threads > 0 {
			s.Threads = *fc.Threads
		}
		setBool(&s.DefaultExcludes, fc.DefaultExcludes)
		setBool(&s.NoColor, fc.NoColor)
	}
	return s
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}

// Load reads the local config under root and the global config, and
// resolves them. Missing files are not errors; malformed ones are.
func Load(root string) (Settings, error) {
	local, err := LoadLocal(root)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Settings{}, err
	}
	global, err := LoadGlobal()
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Settings{}, err
	}
	return Resolve(local, global), nil
}

// ErrNotFound is returned when a config file does not exist.
var ErrNotFound = errors.New("no config file")

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadLocal searches for a repo-local config file in the given root.
// It supports .vibeguard.yml/.yaml and vibeguard.yml/.yaml.
func LoadLocal(repoRoot string) (FileConfig, error) {
	for _, name := range LocalNames {
		p := filepath.Join(repoRoot, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return FileConfig{}, ErrNotFound
}

// GlobalPath returns the global config location under XDG_CONFIG_HOME or
// ~/.config, or "" when neither can be determined.
func GlobalPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return ""
	}
	return filepath.Join(base, "vibeguard", "config.yml")
}

// LoadGlobal loads the global config file.
func LoadGlobal() (FileConfig, error) {
	p := GlobalPath()
	if p == "" {
		return FileConfig{}, ErrNotFound
	}
	if _, err := os.Stat(p); err != nil {
		return FileConfig{}, ErrNotFound
	}
	return LoadFile(p)
}
