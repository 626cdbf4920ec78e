// Package config reads the streamstack configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/streamstack/config.toml
// (~/.config/streamstack/config.toml when XDG_CONFIG_HOME is unset). Every
// setting is optional. Command-line flags override file values, which
// override built-in defaults:
//
//	[data]
//	keys = ["Heating", "Noise"]
//	date_layout = "01/02/2006"
//
//	[render]
//	width = 880
//	height = 580
//	duration = "750ms"
//	modes = ["streamgraph", "stack", "area"]
//	formats = ["svg", "json"]
//	interpolation = "basis"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/streamstack/pkg/errors"
	"github.com/matzehuels/streamstack/pkg/pipeline"
)

const (
	appName  = "streamstack"
	fileName = "config.toml"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// DefaultMongoDatabase is the database used when none is configured.
const DefaultMongoDatabase = "streamstack"

// Config is the contents of the configuration file.
type Config struct {
	Data   Data   `toml:"data"`
	Render Render `toml:"render"`
	Cache  Cache  `toml:"cache"`
}

// Data configures how input records are read.
type Data struct {
	Keys       []string `toml:"keys,omitempty"`
	DateLayout string   `toml:"date_layout,omitempty"`
}

// Render configures chart layout and output.
type Render struct {
	Width         float64  `toml:"width,omitempty"`
	Height        float64  `toml:"height,omitempty"`
	PaddingBottom float64  `toml:"padding_bottom,omitempty"`
	Duration      Duration `toml:"duration,omitempty"`
	Modes         []string `toml:"modes,omitempty"`
	Formats       []string `toml:"formats,omitempty"`
	Interpolation string   `toml:"interpolation,omitempty"`
}

// Cache selects and configures the artifact cache backend.
type Cache struct {
	Backend       string `toml:"backend,omitempty"`
	Dir           string `toml:"dir,omitempty"`
	RedisURL      string `toml:"redis_url,omitempty"`
	MongoURI      string `toml:"mongo_uri,omitempty"`
	MongoDatabase string `toml:"mongo_database,omitempty"`
}

// Duration is a time.Duration written as a string such as "750ms".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// DefaultPath returns the path of the per-user configuration file.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Load reads the configuration file at path.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, errors.Wrap(errors.GetCode(err), err, "config %s", path)
	}
	return cfg, nil
}

// LoadDefault reads the file at [DefaultPath]. A missing file yields an
// empty Config.
func LoadDefault() (Config, string, error) {
	path, err := DefaultPath()
	if err != nil {
		return Config{}, "", err
	}
	cfg, err := Load(path)
	if errors.Is(err, errors.ErrCodeFileNotFound) {
		return Config{}, path, nil
	}
	return cfg, path, err
}

// Decode parses TOML from r. Unknown keys are an INVALID_CONFIG error.
func Decode(r io.Reader) (Config, error) {
	var cfg Config
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// String returns cfg as TOML.
func (c Config) String() string {
	var buf bytes.Buffer
	_ = c.Encode(&buf)
	return buf.String()
}

// Validate checks the cache backend settings.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case "", BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis needs redis_url")
		}
	case BackendMongo:
		if c.Cache.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend mongo needs mongo_uri")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"unknown cache backend %q (want file, redis, mongo or none)", c.Cache.Backend)
	}
	return nil
}

// Apply fills the fields of opts that are still unset with values from
// the file. Fields already set, typically from flags, are kept.
func (c Config) Apply(opts *pipeline.Options) {
	if len(opts.Keys) == 0 {
		opts.Keys = c.Data.Keys
	}
	setString(&opts.DateLayout, c.Data.DateLayout)

	r := c.Render
	setFloat(&opts.Width, r.Width)
	setFloat(&opts.Height, r.Height)
	setFloat(&opts.PaddingBottom, r.PaddingBottom)
	if opts.Duration == 0 {
		opts.Duration = time.Duration(r.Duration)
	}
	if len(opts.Modes) == 0 {
		opts.Modes = r.Modes
	}
	if len(opts.Formats) == 0 {
		opts.Formats = r.Formats
	}
	setString(&opts.Interpolation, r.Interpolation)
}

func setString(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

func setFloat(dst *float64, v float64) {
	if *dst == 0 {
		*dst = v
	}
}
