package config

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ZebulonRouseFrantzich/clusterfetch/internal/platform"
	"github.com/magiconair/properties"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Loader merges configuration from, in increasing precedence: built-in
// defaults, a config file, CLUSTERFETCH_* environment variables and bound
// command-line flags.
type Loader struct {
	v        *viper.Viper
	detector platform.Detector
	logger   Logger
}

// NewLoader creates a loader. detector feeds the platform table of Lua
// configs and may be nil.
func NewLoader(detector platform.Detector) *Loader {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyHome, defaultHome())

	return &Loader{v: v, detector: detector, logger: noopLogger{}}
}

// WithLogger returns the loader with logger attached.
func (l *Loader) WithLogger(logger Logger) *Loader {
	l.logger = orNoop(logger)
	return l
}

// BindFlag makes flag override key when it is set on the command line.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("bind %s: flag is nil", key)
	}
	return l.v.BindPFlag(key, flag)
}

// Load reads the config file at path and returns the merged configuration.
// An empty path uses defaults and the environment only. The format follows
// the extension: .lua is evaluated in a sandbox, .hcl is decoded as HCL
// native syntax, .properties is read as a Java properties file, anything else
// is handed to viper (yaml, toml, json).
func (l *Loader) Load(ctx context.Context, path string) (*Config, error) {
	if path != "" {
		if err := l.readFile(ctx, path); err != nil {
			return nil, err
		}
	}

	config := &Config{
		Home:        l.v.GetString(KeyHome),
		StoreBinDir: l.v.GetString(KeyStoreBinDir),
		OgmiosHome:  l.v.GetString(KeyOgmiosHome),
		KupoHome:    l.v.GetString(KeyKupoHome),
		Node:        l.source(KeyNodeVersion, KeyNodeURL),
		YaciStore:   l.source(KeyYaciStoreVersion, KeyYaciStoreURL),
		Ogmios:      l.source(KeyOgmiosVersion, KeyOgmiosURL),
		Kupo:        l.source(KeyKupoVersion, KeyKupoURL),
	}

	if err := config.applyDefaults(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	l.logger.Debug("configuration loaded",
		"path", path,
		"home", config.Home,
		"store_bin_dir", config.StoreBinDir,
		"ogmios_home", config.OgmiosHome,
		"kupo_home", config.KupoHome,
	)
	return config, nil
}

func (l *Loader) source(versionKey, urlKey string) Source {
	return Source{
		Version: l.v.GetString(versionKey),
		URL:     l.v.GetString(urlKey),
	}
}

func (l *Loader) readFile(ctx context.Context, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".lua":
		parsed, err := NewParser(l.detector).WithLogger(l.logger).ParseFile(ctx, path)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		l.setFileValues(parsed.Settings())

	case ".hcl":
		parsed, err := parseHCLFile(path)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		l.setFileValues(parsed.Settings())

	case ".properties":
		props, err := properties.LoadFile(path, properties.UTF8)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		values := make(map[string]string, props.Len())
		for _, key := range props.Keys() {
			values[key] = props.GetString(key, "")
		}
		l.setFileValues(values)

	default:
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		if err := l.checkNumericVersions(); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}

	l.logger.Debug("config file read", "path", path)
	return nil
}

// checkNumericVersions rejects fractional versions decoded as floats by the
// YAML, TOML or JSON readers, which viper would otherwise stringify as 2.1
// for 2.10.
func (l *Loader) checkNumericVersions() error {
	for _, key := range []string{KeyNodeVersion, KeyYaciStoreVersion, KeyOgmiosVersion, KeyKupoVersion} {
		var f float64
		switch v := l.v.Get(key).(type) {
		case float64:
			f = v
		case float32:
			f = float64(v)
		default:
			continue
		}
		if f != math.Trunc(f) {
			return unquotedNumberError(key, strconv.FormatFloat(f, 'f', -1, 64))
		}
	}
	return nil
}

// setFileValues stores file-provided values beneath env and flag overrides.
func (l *Loader) setFileValues(values map[string]string) {
	for key, value := range values {
		l.v.SetDefault(key, value)
	}
}
