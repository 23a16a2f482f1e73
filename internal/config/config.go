package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/conrad-labs/conrad/internal/branding"
	"github.com/conrad-labs/conrad/internal/logging"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys.
const (
	KeyPsradPath = "psrad_path"
	KeyLogLevel  = "log_level"
)

// Dir returns the path to the config directory. It checks CONRAD_HOME first,
// then falls back to ~/.conrad/.
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// ErrUnknownKey is returned by Set and Source for keys conrad does not use.
var ErrUnknownKey = errors.New("unknown config key")

// envNames lists, per key, the environment variables that override the file.
var envNames = map[string][]string{
	KeyPsradPath: {"PSRAD_PATH", branding.EnvVar(KeyPsradPath)},
	KeyLogLevel:  {branding.EnvVar(KeyLogLevel)},
}

// Keys returns the known setting keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(envNames))
	for k := range envNames {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Config holds settings merged from the config file and the environment.
// file holds the config file alone and is what Set writes back.
type Config struct {
	v    *viper.Viper
	file *viper.Viper
	path string
}

// Load reads the config file, if present, and binds the environment.
// A missing file is not an error; an unreadable or malformed one is.
func Load() (*Config, error) {
	path := FilePath()

	file, err := readFile(path)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.AutomaticEnv()
	v.SetDefault(KeyLogLevel, logging.DefaultLevel)
	for _, key := range Keys() {
		if err := v.BindEnv(append([]string{key}, envNames[key]...)...); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}
	if err := v.MergeConfigMap(file.AllSettings()); err != nil {
		return nil, fmt.Errorf("merging config file %s: %w", path, err)
	}
	return &Config{v: v, file: file, path: path}, nil
}

// readFile loads path into a viper instance with no env, default or flag
// bindings.
func readFile(path string) (*viper.Viper, error) {
	file := viper.New()
	file.SetConfigFile(path)
	file.SetConfigType(fileType)
	if err := file.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}
	return file, nil
}

// Viper exposes the underlying instance for flag binding.
func (c *Config) Viper() *viper.Viper { return c.v }

// Get returns a config value by key. Returns empty string if not set.
func (c *Config) Get(key string) string {
	return c.v.GetString(key)
}

// Lookup returns the value for key and whether it is set to a non-empty
// value. Keys are matched case-insensitively, so PSRAD_PATH finds psrad_path.
func (c *Config) Lookup(key string) (string, bool) {
	key = strings.ToLower(key)
	if !c.v.IsSet(key) {
		return "", false
	}
	val := c.v.GetString(key)
	return val, val != ""
}

// Source reports where the value of key comes from: the name of the
// environment variable, "file", "default" or "unset".
func (c *Config) Source(key string) (string, error) {
	key = strings.ToLower(key)
	names, ok := envNames[key]
	if !ok {
		return "", fmt.Errorf("%q: %w", key, ErrUnknownKey)
	}
	for _, name := range names {
		if os.Getenv(name) != "" {
			return name, nil
		}
	}
	if c.file.IsSet(key) {
		return "file", nil
	}
	if key == KeyLogLevel {
		return "default", nil
	}
	return "unset", nil
}

// Set validates value, stores it under key in the config file and applies
// it to c. Only keys already in the file and key itself are written, never
// values that came from the environment, defaults or flags.
func (c *Config) Set(key, value string) error {
	key = strings.ToLower(key)
	value, err := normalize(key, value)
	if err != nil {
		return err
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	c.file.Set(key, value)
	if err := c.file.WriteConfigAs(c.path); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	c.v.Set(key, value)
	return nil
}

// normalize checks value for key and returns the form to store.
func normalize(key, value string) (string, error) {
	switch key {
	case KeyPsradPath:
		if strings.TrimSpace(value) == "" {
			return "", fmt.Errorf("%s must not be empty", key)
		}
		abs, err := filepath.Abs(value)
		if err != nil {
			return "", fmt.Errorf("resolving %s: %w", value, err)
		}
		return abs, nil
	case KeyLogLevel:
		lvl, err := logging.ParseLevel(value)
		if err != nil {
			return "", err
		}
		return lvl.String(), nil
	default:
		return "", fmt.Errorf("%q (known keys: %s): %w", key, strings.Join(Keys(), ", "), ErrUnknownKey)
	}
}
