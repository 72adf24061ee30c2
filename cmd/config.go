package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/rubiojr/jnigen/compiler"
)

// ConfigFile is the name of the project configuration file.
const ConfigFile = "jnigen.toml"

// Config is the content of a jnigen.toml file.
type Config struct {
	JavaOut string    `toml:"java_out"`
	Debug   bool      `toml:"debug"`
	GoFile  string    `toml:"go_file"`
	Log     LogConfig `toml:"log"`

	// Dir is the directory containing the file (set at load time).
	Dir string `toml:"-"`
}

// LogConfig configures logging.
type LogConfig struct {
	Verbosity int `toml:"verbosity"`
}

// LoadConfig parses the configuration file at path. Relative paths in it
// are resolved against its directory.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}
	if c.JavaOut != "" && !filepath.IsAbs(c.JavaOut) {
		c.JavaOut = filepath.Join(c.Dir, c.JavaOut)
	}
	return &c, nil
}

// FindConfig walks up from startDir to find a jnigen.toml file and loads
// it. It returns an empty Config when there is none.
func FindConfig(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", startDir, err)
	}

	for {
		path := filepath.Join(dir, ConfigFile)
		if _, err := os.Stat(path); err == nil {
			return LoadConfig(path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return &Config{}, nil
		}
		dir = parent
	}
}

// Compiler returns the compiler settings the file describes.
func (c *Config) Compiler() compiler.Config {
	return compiler.Config{
		JavaOut: c.JavaOut,
		Debug:   c.Debug,
		GoFile:  c.GoFile,
	}
}
