// Package config loads the server configuration document. Loading,
// validation, and file format are ambient concerns; the ServerConfig
// shape this package produces is exactly what the router consumes.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/codereef/lspbridge/internal/corerr"
)

// ServerConfig is the immutable description of one downstream language
// server. Two configs that marshal to the same JSON are considered
// identical for the purpose of collapsing to a single running child —
// see Key.
type ServerConfig struct {
	Command         []string `json:"command" toml:"command" yaml:"command"`
	Extensions      []string `json:"extensions" toml:"extensions" yaml:"extensions"`
	RootDir         string   `json:"rootDir,omitempty" toml:"root_dir,omitempty" yaml:"rootDir,omitempty"`
	RestartInterval *float64 `json:"restartInterval,omitempty" toml:"restart_interval,omitempty" yaml:"restartInterval,omitempty"`
}

// Key returns the canonical string used to key ServerState in the
// registry: identical configs collapse to one child.
func (c ServerConfig) Key() string {
	raw, _ := json.Marshal(c)
	return string(raw)
}

// NormalizedRestartInterval floors the configured interval to 0.1
// minutes, or returns (0, false) if no restart was configured.
func (c ServerConfig) NormalizedRestartInterval() (float64, bool) {
	if c.RestartInterval == nil {
		return 0, false
	}
	v := *c.RestartInterval
	if v < 0.1 {
		v = 0.1
	}
	return v, true
}

// HandlesExtension reports whether this server's extension set includes
// ext (a bare extension such as "ts", without the leading dot).
func (c ServerConfig) HandlesExtension(ext string) bool {
	ext = strings.TrimPrefix(ext, ".")
	for _, e := range c.Extensions {
		if strings.TrimPrefix(e, ".") == ext {
			return true
		}
	}
	return false
}

// Config is the top-level configuration document.
type Config struct {
	Servers []ServerConfig `json:"servers" toml:"servers" yaml:"servers"`
}

// Validate checks the structural requirements enforced at startup: every
// server needs a non-empty command and at least one extension.
func (c *Config) Validate() error {
	if len(c.Servers) == 0 {
		return corerr.New(corerr.Configuration, "no servers configured")
	}
	for i, s := range c.Servers {
		if len(s.Command) == 0 {
			return corerr.Newf(corerr.Configuration, "server %d: command is required", i)
		}
		if len(s.Extensions) == 0 {
			return corerr.Newf(corerr.Configuration, "server %d (%s): no extensions configured", i, s.Command[0])
		}
	}
	return nil
}

// Load reads a configuration document, selecting TOML, YAML, or JSON by
// the file extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, corerr.Wrap(corerr.IO, err, "read config file")
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, corerr.Wrap(corerr.Configuration, err, "parse TOML config")
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, corerr.Wrap(corerr.Configuration, err, "parse YAML config")
		}
	case ".json", "":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, corerr.Wrap(corerr.Configuration, err, "parse JSON config")
		}
	default:
		return nil, corerr.Newf(corerr.Configuration, "unrecognized config extension %q", ext)
	}

	for i := range cfg.Servers {
		if cfg.Servers[i].RootDir == "" {
			continue
		}
		abs, err := filepath.Abs(cfg.Servers[i].RootDir)
		if err != nil {
			return nil, corerr.Wrap(corerr.Configuration, err, fmt.Sprintf("resolve rootDir for server %d", i))
		}
		cfg.Servers[i].RootDir = abs
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ResolveRootDir returns the server's configured root, defaulting to the
// process's working directory.
func ResolveRootDir(c ServerConfig) (string, error) {
	if c.RootDir != "" {
		return c.RootDir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "get working directory")
	}
	return wd, nil
}
