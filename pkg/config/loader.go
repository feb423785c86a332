package config

import (
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/composer-merge/pkg/errors"
	"github.com/arthur-debert/composer-merge/pkg/logging"
	"github.com/arthur-debert/composer-merge/pkg/paths"
)

// EnvPrefix prefixes configuration environment variables. A double
// underscore separates section and key: COMPOSER_MERGE_MERGE__MARKER_SIZE.
const EnvPrefix = "COMPOSER_MERGE_"

// Options selects the layers Load applies on top of the defaults
type Options struct {
	// Paths locates the user and repository files. Nil skips both.
	Paths paths.Paths
	// File is an explicit config file that must exist
	File string
	// Overrides are dotted keys set from the command line
	Overrides map[string]interface{}
}

// Default returns the embedded defaults
func Default() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}
	return unmarshal(k)
}

// Load builds the effective configuration
func Load(opts Options) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User and repository files, when present
	if opts.Paths != nil {
		for _, path := range []string{opts.Paths.UserConfigPath(), opts.Paths.RepoConfigPath()} {
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if err := loadFile(k, path); err != nil {
				return nil, err
			}
			logger.Debug().Str("path", path).Msg("Loaded config file")
		}
	}

	// 3. Explicit file
	if opts.File != "" {
		if err := loadFile(k, paths.ExpandHome(opts.File)); err != nil {
			return nil, err
		}
		logger.Debug().Str("path", opts.File).Msg("Loaded config file")
	}

	// 4. Environment
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 5. Command line
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	cfg, err := unmarshal(k)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(k *koanf.Koanf, path string) error {
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path).
			WithDetail("path", path)
	}
	return nil
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal configuration")
	}
	return &cfg, nil
}
