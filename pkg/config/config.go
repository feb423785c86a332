package config

import (
	"strings"

	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/composer-merge/pkg/errors"
	"github.com/arthur-debert/composer-merge/pkg/lockfile"
	"github.com/arthur-debert/composer-merge/pkg/paths"
)

// LogFileAuto selects the log file under the XDG state directory
const LogFileAuto = "auto"

// Config is the effective configuration of one run
type Config struct {
	Merge  Merge  `koanf:"merge" toml:"merge"`
	Render Render `koanf:"render" toml:"render"`
	Lock   Lock   `koanf:"lock" toml:"lock"`
	Log    Log    `koanf:"log" toml:"log"`
}

// Merge holds merge settings
type Merge struct {
	// MarkerSize applies when the marker width argument is not given
	MarkerSize int `koanf:"marker_size" toml:"marker_size"`
}

// Render holds output settings
type Render struct {
	// Indent is the fallback indent unit
	Indent string `koanf:"indent" toml:"indent"`
}

// Lock holds lock file handling settings
type Lock struct {
	Filename       string      `koanf:"filename" toml:"filename"`
	ContentHashKey string      `koanf:"content_hash_key" toml:"content_hash_key"`
	Lists          []ListField `koanf:"lists" toml:"lists"`
}

// ListField names a record list of the lock file and its key fields
type ListField struct {
	Field string   `koanf:"field" toml:"field"`
	Key   []string `koanf:"key" toml:"key"`
}

// Log holds log file settings
type Log struct {
	File string `koanf:"file" toml:"file"`
}

// Validate checks values the loader cannot type check
func (c *Config) Validate() error {
	if c.Merge.MarkerSize <= 0 {
		return errors.Newf(errors.ErrConfigValid, "merge.marker_size must be positive, got %d", c.Merge.MarkerSize).
			WithDetail("key", "merge.marker_size")
	}
	if strings.TrimSpace(c.Lock.Filename) == "" {
		return errors.New(errors.ErrConfigValid, "lock.filename must not be empty").
			WithDetail("key", "lock.filename")
	}
	if c.Lock.ContentHashKey == "" {
		return errors.New(errors.ErrConfigValid, "lock.content_hash_key must not be empty").
			WithDetail("key", "lock.content_hash_key")
	}
	if strings.Trim(c.Render.Indent, " \t") != "" {
		return errors.Newf(errors.ErrConfigValid, "render.indent must only hold spaces and tabs, got %q", c.Render.Indent).
			WithDetail("key", "render.indent")
	}
	for i, l := range c.Lock.Lists {
		if l.Field == "" || len(l.Key) == 0 {
			return errors.Newf(errors.ErrConfigValid, "lock.lists[%d] needs a field and at least one key", i).
				WithDetail("key", "lock.lists")
		}
	}
	return nil
}

// Normalizer builds the lock normalizer for this configuration
func (c *Config) Normalizer() *lockfile.Normalizer {
	lists := make([]lockfile.ListField, 0, len(c.Lock.Lists))
	for _, l := range c.Lock.Lists {
		lists = append(lists, lockfile.ListField{Field: l.Field, Key: l.Key})
	}
	return lockfile.New(c.Lock.ContentHashKey, lists)
}

// LogFilePath resolves log.file. Empty means no log file.
func (c *Config) LogFilePath(p paths.Paths) string {
	if c.Log.File == LogFileAuto {
		if p == nil {
			return ""
		}
		return p.LogFilePath()
	}
	return paths.ExpandHome(c.Log.File)
}

// TOML renders the configuration in the format of the config files
func (c *Config) TOML() (string, error) {
	out, err := gotoml.Marshal(c)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
	}
	return string(out), nil
}
