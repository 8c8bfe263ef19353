// Package config loads the console settings. Precedence is flag > env
// (FEDADMIN_*) > config file > defaults; a default file is written on
// first run.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"fedadmin/internal/domains"
	"fedadmin/internal/errs"
	"fedadmin/internal/sink"
)

const (
	// EnvPrefix is prepended to every key when read from the environment,
	// e.g. FEDADMIN_API_TOKEN for api.token.
	EnvPrefix = "FEDADMIN"
	fileName  = "config.toml"
	localFile = "fedadmin.toml"
)

// Config is the top-level console configuration.
type Config struct {
	API    APIConfig    `mapstructure:"api"`
	UI     UIConfig     `mapstructure:"ui"`
	Log    LogConfig    `mapstructure:"log"`
	Export ExportConfig `mapstructure:"export"`
}

// APIConfig locates and authenticates against the admin backend.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// UIConfig tunes the terminal console.
type UIConfig struct {
	PageSize      int    `mapstructure:"page_size"`
	DefaultDomain string `mapstructure:"default_domain"`
}

// LogConfig controls the log file. Stdout belongs to the console.
type LogConfig struct {
	File string `mapstructure:"file"`
}

// ExportConfig selects where exports are saved.
type ExportConfig struct {
	Sink string   `mapstructure:"sink"`
	Dir  string   `mapstructure:"dir"`
	S3   S3Config `mapstructure:"s3"`
}

// S3Config is the bucket used by the s3 sink.
type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	Prefix    string `mapstructure:"prefix"`
	PathStyle bool   `mapstructure:"path_style"`
}

// SinkConfig converts the export settings for sink.Open.
func (e ExportConfig) SinkConfig() sink.Config {
	return sink.Config{
		Driver: e.Sink,
		Dir:    e.Dir,
		S3: sink.S3Config{
			Bucket:    e.S3.Bucket,
			Region:    e.S3.Region,
			Endpoint:  e.S3.Endpoint,
			Prefix:    e.S3.Prefix,
			PathStyle: e.S3.PathStyle,
		},
	}
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		API:    APIConfig{BaseURL: "http://127.0.0.1:8088", Timeout: 15 * time.Second},
		UI:     UIConfig{PageSize: 20, DefaultDomain: "users"},
		Log:    LogConfig{File: filepath.Join(Dir(), "fedadmin.log")},
		Export: ExportConfig{Sink: string(sink.DriverFS), Dir: "~/Downloads", S3: S3Config{Region: "us-east-1"}},
	}
}

// Dir is the per-user configuration directory.
func Dir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "fedadmin")
}

// DefaultPath is where the bootstrapped config file lives.
func DefaultPath() string {
	return filepath.Join(Dir(), fileName)
}

// SetDefaults registers every key so environment overrides apply even
// when the file omits them.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.token", d.API.Token)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("ui.page_size", d.UI.PageSize)
	v.SetDefault("ui.default_domain", d.UI.DefaultDomain)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("export.sink", d.Export.Sink)
	v.SetDefault("export.dir", d.Export.Dir)
	v.SetDefault("export.s3.bucket", d.Export.S3.Bucket)
	v.SetDefault("export.s3.region", d.Export.S3.Region)
	v.SetDefault("export.s3.endpoint", d.Export.S3.Endpoint)
	v.SetDefault("export.s3.prefix", d.Export.S3.Prefix)
	v.SetDefault("export.s3.path_style", d.Export.S3.PathStyle)
}

// SetupEnv maps FEDADMIN_SECTION_KEY variables onto section.key.
func SetupEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// ReadFile points v at path, or at the first of ./fedadmin.toml and
// DefaultPath that exists. When neither exists a default file is written
// to DefaultPath. It returns the file used, or "" when running on
// defaults alone.
func ReadFile(v *viper.Viper, path string) (string, error) {
	if path == "" {
		path = discover()
	}
	if path == "" {
		if created, err := Bootstrap(DefaultPath()); err == nil && created {
			path = DefaultPath()
		}
	}
	if path == "" {
		return "", nil
	}

	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return "", errs.Wrapf(err, errs.CodeConfigLoadFailure, "reading config %s", path)
	}
	return path, nil
}

func discover() string {
	for _, candidate := range []string{localFile, DefaultPath()} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// Decode unmarshals and validates the merged settings of v.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errs.Wrapf(err, errs.CodeConfigLoadFailure, "unmarshalling config")
	}
	if problems := cfg.Validate(); len(problems) > 0 {
		return nil, errs.Wrapf(errors.Join(problems...), errs.CodeConfigInvalidValue, "validating config")
	}
	return &cfg, nil
}

// Load reads path (or the discovered file) with environment overrides on
// a fresh viper instance.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	SetupEnv(v)
	if _, err := ReadFile(v, path); err != nil {
		return nil, err
	}
	return Decode(v)
}

// Validate collects every problem rather than stopping at the first.
func (c *Config) Validate() []error {
	var problems []error
	invalid := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf("config: "+format, args...))
	}

	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		invalid("api.base_url must be an absolute URL, got %q", c.API.BaseURL)
	} else if u.Scheme != "http" && u.Scheme != "https" {
		invalid("api.base_url must use http or https, got %q", u.Scheme)
	}
	if c.API.Timeout <= 0 {
		invalid("api.timeout must be positive, got %s", c.API.Timeout)
	}
	if c.UI.PageSize < 1 || c.UI.PageSize > 100 {
		invalid("ui.page_size must be between 1 and 100, got %d", c.UI.PageSize)
	}
	if !slices.Contains(domains.Names, c.UI.DefaultDomain) {
		invalid("ui.default_domain must be one of [%s], got %q", strings.Join(domains.Names, ", "), c.UI.DefaultDomain)
	}
	switch sink.Driver(strings.ToLower(c.Export.Sink)) {
	case sink.DriverFS, sink.DriverMemory:
	case sink.DriverS3:
		if c.Export.S3.Bucket == "" {
			invalid("export.s3.bucket is required when export.sink is s3")
		}
	default:
		invalid("export.sink must be one of [fs, s3, memory], got %q", c.Export.Sink)
	}
	return problems
}

// document is the on-disk shape. Durations are written as strings
// ("15s") so the file stays readable and round-trips through viper.
type document struct {
	API struct {
		BaseURL string `toml:"base_url"`
		Token   string `toml:"token"`
		Timeout string `toml:"timeout"`
	} `toml:"api"`
	UI struct {
		PageSize      int    `toml:"page_size"`
		DefaultDomain string `toml:"default_domain"`
	} `toml:"ui"`
	Log struct {
		File string `toml:"file"`
	} `toml:"log"`
	Export struct {
		Sink string `toml:"sink"`
		Dir  string `toml:"dir"`
		S3   struct {
			Bucket    string `toml:"bucket"`
			Region    string `toml:"region"`
			Endpoint  string `toml:"endpoint"`
			Prefix    string `toml:"prefix"`
			PathStyle bool   `toml:"path_style"`
		} `toml:"s3"`
	} `toml:"export"`
}

// Marshal encodes cfg as TOML.
func Marshal(cfg Config) ([]byte, error) {
	var doc document
	doc.API.BaseURL = cfg.API.BaseURL
	doc.API.Token = cfg.API.Token
	doc.API.Timeout = cfg.API.Timeout.String()
	doc.UI.PageSize = cfg.UI.PageSize
	doc.UI.DefaultDomain = cfg.UI.DefaultDomain
	doc.Log.File = cfg.Log.File
	doc.Export.Sink = cfg.Export.Sink
	doc.Export.Dir = cfg.Export.Dir
	doc.Export.S3.Bucket = cfg.Export.S3.Bucket
	doc.Export.S3.Region = cfg.Export.S3.Region
	doc.Export.S3.Endpoint = cfg.Export.S3.Endpoint
	doc.Export.S3.Prefix = cfg.Export.S3.Prefix
	doc.Export.S3.PathStyle = cfg.Export.S3.PathStyle

	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshalling config: %w", err)
	}
	return data, nil
}

// Save writes cfg to path. The file holds the API token, so it is only
// readable by the owner.
func Save(path string, cfg Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Bootstrap writes the default configuration to path unless a file is
// already there. It reports whether a file was created.
func Bootstrap(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := Save(path, Default()); err != nil {
		return false, err
	}
	return true, nil
}
