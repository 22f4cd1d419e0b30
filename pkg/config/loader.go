package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/scawful/barista/pkg/errors"
	"github.com/scawful/barista/pkg/logging"
)

const (
	// EnvPrefix prefixes every environment override
	EnvPrefix = "BARISTA_"

	// EnvConfigFile points at an explicit configuration file
	EnvConfigFile = "BARISTA_CONFIG"

	// ConfigDirName is the directory under the XDG config home
	ConfigDirName = "barista"

	// ConfigFileName is the user configuration file name
	ConfigFileName = "barista.toml"
)

// LoadOptions controls where configuration is read from
type LoadOptions struct {
	// ConfigFile is an explicit user file; empty uses the default location
	ConfigFile string
	// SkipFile ignores every user file, explicit or default
	SkipFile bool
	// SkipEnv disables BARISTA_* overrides
	SkipEnv bool
}

// Load resolves configuration in order: embedded defaults, user file,
// environment variables. Later layers override earlier ones.
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User file if it exists
	path := opts.ConfigFile
	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfigFile)
		explicit = path != ""
	}
	if !explicit {
		path = DefaultConfigPath()
	}
	if opts.SkipFile {
		logger.Trace().Msg("Skipping user configuration file")
	} else if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded user configuration")
	} else if explicit {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s is not readable", path)
	}

	// 3. Environment
	if !opts.SkipEnv {
		err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the embedded defaults without consulting files or env
func Default() *Config {
	cfg, err := Load(LoadOptions{SkipFile: true, SkipEnv: true})
	if err != nil {
		panic(fmt.Sprintf("embedded defaults are invalid: %v", err))
	}
	return cfg
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/barista/barista.toml
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = xdg.ConfigHome
	}
	return filepath.Join(configHome, ConfigDirName, ConfigFileName)
}

// envKey maps BARISTA_HOOK_TIMEOUT to hook.timeout. Only the first
// underscore separates section from key, so BARISTA_PATHS_SYSTEM_BIN_DIR
// becomes paths.system_bin_dir.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

func validate(cfg *Config) error {
	if cfg.App.Name == "" {
		return errors.New(errors.ErrConfigParse, "app.name must not be empty")
	}
	if strings.ContainsAny(cfg.App.Name, `/\`) {
		return errors.Newf(errors.ErrConfigParse, "app.name %q must be a single path element", cfg.App.Name)
	}
	if cfg.Hook.Timeout < 0 {
		return errors.New(errors.ErrConfigParse, "hook.timeout must not be negative")
	}
	if cfg.Build.Timeout < 0 {
		return errors.New(errors.ErrConfigParse, "build.timeout must not be negative")
	}
	for i, step := range cfg.Build.Commands {
		if len(step) == 0 {
			return errors.Newf(errors.ErrConfigParse, "build.commands[%d] is empty", i)
		}
	}
	return nil
}
