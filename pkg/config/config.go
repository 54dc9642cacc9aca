// Package config loads the nt configuration file.
//
// The file is TOML by default (~/.config/nt/config.toml, or $NOTE_CONFIG);
// a .yaml or .yml extension selects YAML. Sections:
//
//	[logseq]
//	repo = "~/notes"                         # graph directory
//	endpoint = "http://127.0.0.1:12315/api"  # API server
//	token = "..."                            # or LOGSEQ_TOKEN
//	timeout = "10s"
//
//	[filter]
//	tasks = "^(TODO|DOING)"
//
//	[query]
//	linked = "[:find (pull ?p [*]) :where [?p :block/name \"$1\"]]"
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/nt/pkg/core"
)

const (
	// EnvConfig overrides the config file location.
	EnvConfig = "NOTE_CONFIG"
	// EnvToken supplies the API token.
	EnvToken = "LOGSEQ_TOKEN"
	// EnvEndpoint overrides the API endpoint.
	EnvEndpoint = "LOGSEQ_ENDPOINT"

	DefaultEndpoint = "http://127.0.0.1:12315/api"
	DefaultTimeout  = 30 * time.Second
)

// Duration is a time.Duration written as "10s" in config files.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Logseq holds the connection settings.
type Logseq struct {
	Repo     string   `toml:"repo" yaml:"repo"`
	Endpoint string   `toml:"endpoint" yaml:"endpoint"`
	Token    string   `toml:"token" yaml:"token,omitempty"`
	Timeout  Duration `toml:"timeout" yaml:"timeout"`
}

// Config is the loaded configuration.
type Config struct {
	Logseq Logseq            `toml:"logseq" yaml:"logseq"`
	Filter map[string]string `toml:"filter" yaml:"filter,omitempty"`
	Query  map[string]string `toml:"query" yaml:"query,omitempty"`

	// Path is the file the config was read from.
	Path string `toml:"-" yaml:"-"`
}

// DefaultPath returns $NOTE_CONFIG or ~/.config/nt/config.toml.
func DefaultPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return filepath.FromSlash(p)
	}
	return filepath.Join(home(), ".config", "nt", "config.toml")
}

// Load reads the config at path (DefaultPath when empty), applies
// environment overrides and defaults, and validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, core.Guide("Note config not present at %s.", path)
		}
		return nil, fmt.Errorf("problem reading config at %s: %w", path, err)
	}

	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("problem reading config at %s: %w", path, err)
	}
	cfg.Path = path
	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes config data; ext picks the format.
func Parse(data []byte, ext string) (*Config, error) {
	cfg := &Config{}
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if c.Logseq.Token == "" {
		c.Logseq.Token = os.Getenv(EnvToken)
	}
	if ep := os.Getenv(EnvEndpoint); ep != "" {
		c.Logseq.Endpoint = ep
	}
}

func (c *Config) applyDefaults() {
	if c.Logseq.Endpoint == "" {
		c.Logseq.Endpoint = DefaultEndpoint
	}
	if c.Logseq.Timeout == 0 {
		c.Logseq.Timeout = Duration(DefaultTimeout)
	}
	c.Logseq.Repo = ExpandHome(c.Logseq.Repo)
}

// Validate checks the settings. Failures are returned as *core.Guidance.
func (c *Config) Validate() error {
	where := c.Path
	if where == "" {
		where = "config"
	}

	if strings.TrimSpace(c.Logseq.Repo) == "" {
		return core.Guide("Logseq repo must be set in config at %s.", where)
	}
	if c.Logseq.Token == "" {
		return core.Guide("%s environment var must be set.", EnvToken)
	}

	err := validation.ValidateStruct(&c.Logseq,
		validation.Field(&c.Logseq.Endpoint, validation.Required, validation.By(func(value any) error {
			u, err := url.Parse(value.(string))
			if err != nil || u.Scheme == "" || u.Host == "" {
				return validation.NewError("nt.config.endpoint", "must be an absolute URL")
			}
			return nil
		})),
		validation.Field(&c.Logseq.Timeout, validation.By(func(value any) error {
			if value.(Duration) < 0 {
				return validation.NewError("nt.config.timeout", "must not be negative")
			}
			return nil
		})),
	)
	if err != nil {
		return core.Guide("Invalid [logseq] settings in %s: %v.", where, err)
	}

	filters := validation.Errors{}
	for name, pattern := range c.Filter {
		if _, err := regexp.Compile(pattern); err != nil {
			filters[name] = err
		}
	}
	if err := filters.Filter(); err != nil {
		return core.Guide("Invalid [filter] patterns in %s: %v.", where, err)
	}
	return nil
}

// Dump writes the effective configuration as YAML with the token redacted.
func (c *Config) Dump(w io.Writer) error {
	redacted := *c
	if redacted.Logseq.Token != "" {
		redacted.Logseq.Token = "********"
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(redacted); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Timeout returns the API timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Logseq.Timeout)
}

// ExpandHome replaces a leading ~ with the home directory.
func ExpandHome(p string) string {
	if p == "~" {
		return home()
	}
	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		return filepath.Join(home(), p[2:])
	}
	return p
}

func home() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return "."
}
