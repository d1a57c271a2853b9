// Package config loads cosmicscale settings from a TOML file.
//
// Every field has a default, so a missing file (or a file that sets only a
// few keys) yields a complete configuration:
//
//	[resolver]
//	visible_min = 0.0001
//	visible_max = 10000.0
//	active_threshold = 2.5
//
//	[viewer]
//	start = 0.0
//	zoom_speed = 0.1
//	min = -16.0
//	max = 27.0
//
//	[server]
//	addr = ":8080"
//
//	[mirror]
//	version = "cosmic-scale-v1"
//	origin = "http://localhost:3000"
//	backend = "file"
//
//	[mirror.redis]
//	addr = "localhost:6379"
package config

import (
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cosmicscale/pkg/cache"
	"github.com/matzehuels/cosmicscale/pkg/core/scale"
	errs "github.com/matzehuels/cosmicscale/pkg/errors"
	"github.com/matzehuels/cosmicscale/pkg/mirror"
)

// AppName names the config and cache directories.
const AppName = "cosmicscale"

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultStart     = 0.0
	DefaultZoomSpeed = 0.1
	DefaultRangeMin  = -16.0
	DefaultRangeMax  = 27.0
	DefaultWidth     = 960
	DefaultHeight    = 640

	DefaultAddr         = ":8080"
	DefaultReadTimeout  = 15 * time.Second
	DefaultWriteTimeout = 30 * time.Second

	DefaultOrigin       = "http://localhost:3000"
	DefaultFetchTimeout = 10 * time.Second
	DefaultAttempts     = 3
	DefaultRedisAddr    = "localhost:6379"
	DefaultMongoURI     = "mongodb://localhost:27017"
	DefaultMongoDB      = AppName
	DefaultMongoColl    = "assets"
)

// Mirror backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// ValidBackends is the set of supported mirror backends.
var ValidBackends = map[string]bool{
	BackendFile:  true,
	BackendRedis: true,
	BackendMongo: true,
	BackendNone:  true,
}

// =============================================================================
// Config
// =============================================================================

// Config is the complete cosmicscale configuration.
type Config struct {
	Resolver scale.Bounds `toml:"resolver"`
	Viewer   Viewer       `toml:"viewer"`
	Server   Server       `toml:"server"`
	Mirror   Mirror       `toml:"mirror"`
}

// Viewer configures interactive zooming.
type Viewer struct {
	Start     float64 `toml:"start"`
	ZoomSpeed float64 `toml:"zoom_speed"`
	Min       float64 `toml:"min"`
	Max       float64 `toml:"max"`
	Width     int     `toml:"width"`
	Height    int     `toml:"height"`
}

// Server configures the HTTP server.
type Server struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

// Mirror configures the offline asset mirror.
type Mirror struct {
	Version      string            `toml:"version"`
	Origin       string            `toml:"origin"`
	Assets       []string          `toml:"assets"`
	Backend      string            `toml:"backend"`
	Dir          string            `toml:"dir"`
	Scope        string            `toml:"scope"`
	TTL          time.Duration     `toml:"ttl"`
	FetchTimeout time.Duration     `toml:"fetch_timeout"`
	Attempts     int               `toml:"attempts"`
	Redis        cache.RedisConfig `toml:"redis"`
	Mongo        cache.MongoConfig `toml:"mongo"`
}

// Manifest returns the mirror manifest described by m.
func (m Mirror) Manifest() mirror.Manifest {
	return mirror.Manifest{
		Version: m.Version,
		Assets:  append([]string(nil), m.Assets...),
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

// SetDefaults fills every zero-valued field with its default.
func (c *Config) SetDefaults() {
	if c.Resolver == (scale.Bounds{}) {
		c.Resolver = scale.DefaultBounds()
	}

	v := &c.Viewer
	if v.ZoomSpeed == 0 {
		v.ZoomSpeed = DefaultZoomSpeed
	}
	if v.Min == 0 && v.Max == 0 {
		v.Min, v.Max = DefaultRangeMin, DefaultRangeMax
	}
	if v.Width == 0 {
		v.Width = DefaultWidth
	}
	if v.Height == 0 {
		v.Height = DefaultHeight
	}

	s := &c.Server
	if s.Addr == "" {
		s.Addr = DefaultAddr
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = DefaultReadTimeout
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = DefaultWriteTimeout
	}

	m := &c.Mirror
	if m.Version == "" {
		m.Version = mirror.DefaultVersion
	}
	if m.Origin == "" {
		m.Origin = DefaultOrigin
	}
	if m.Assets == nil {
		m.Assets = append([]string(nil), mirror.DefaultAssets...)
	}
	if m.Backend == "" {
		m.Backend = BackendFile
	}
	if m.FetchTimeout == 0 {
		m.FetchTimeout = DefaultFetchTimeout
	}
	if m.Attempts == 0 {
		m.Attempts = DefaultAttempts
	}
	if m.Redis.Addr == "" {
		m.Redis.Addr = DefaultRedisAddr
	}
	if m.Mongo.URI == "" {
		m.Mongo.URI = DefaultMongoURI
	}
	if m.Mongo.Database == "" {
		m.Mongo.Database = DefaultMongoDB
	}
	if m.Mongo.Collection == "" {
		m.Mongo.Collection = DefaultMongoColl
	}
}

// Validate checks the configuration. All failures carry INVALID_CONFIG.
func (c *Config) Validate() error {
	if err := c.Resolver.Validate(); err != nil {
		return err
	}

	v := c.Viewer
	for _, f := range []float64{v.Start, v.ZoomSpeed, v.Min, v.Max} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return errs.New(errs.ErrCodeInvalidConfig, "viewer values must be finite")
		}
	}
	if v.ZoomSpeed <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "viewer zoom_speed must be positive, got %g", v.ZoomSpeed)
	}
	if v.Min >= v.Max {
		return errs.New(errs.ErrCodeInvalidConfig, "viewer range [%g, %g] is empty", v.Min, v.Max)
	}
	if v.Start < v.Min || v.Start > v.Max {
		return errs.New(errs.ErrCodeInvalidConfig, "viewer start %g outside range [%g, %g]", v.Start, v.Min, v.Max)
	}
	if v.Width <= 0 || v.Height <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "viewer size %dx%d must be positive", v.Width, v.Height)
	}

	if c.Server.Addr == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "server addr cannot be empty")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "server timeouts cannot be negative")
	}

	m := c.Mirror
	if err := errs.ValidateURL(m.Origin); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "mirror origin")
	}
	if err := m.Manifest().Validate(); err != nil {
		return err
	}
	if !ValidBackends[m.Backend] {
		return errs.New(errs.ErrCodeInvalidConfig, "unknown mirror backend %q (valid: file, redis, mongo, none)", m.Backend)
	}
	if m.TTL < 0 || m.FetchTimeout < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "mirror durations cannot be negative")
	}
	if m.Attempts < 1 {
		return errs.New(errs.ErrCodeInvalidConfig, "mirror attempts must be at least 1")
	}
	return nil
}

// =============================================================================
// Loading
// =============================================================================

// Load reads a TOML config file, applies defaults, and validates the result.
// A missing file at the default path yields the defaults; a missing file at
// an explicit path is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	c := &Config{}
	md, err := toml.DecodeFile(path, c)
	switch {
	case errors.Is(err, os.ErrNotExist) && !explicit:
		c = &Config{}
	case errors.Is(err, os.ErrNotExist):
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "config file %s", path)
	case err != nil:
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse %s", path)
	default:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errs.New(errs.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
		}
	}

	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Parse decodes TOML data, applies defaults, and validates.
func Parse(data string) (*Config, error) {
	c := &Config{}
	md, err := toml.Decode(data, c)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Encode renders c as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// =============================================================================
// Paths
// =============================================================================

// DefaultPath returns $XDG_CONFIG_HOME/cosmicscale/config.toml, falling
// back to ~/.config/cosmicscale/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns $XDG_CACHE_HOME/cosmicscale, falling back to
// ~/.cache/cosmicscale.
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
