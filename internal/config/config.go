package config

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"

	"github.com/mlb-trending/trending/internal/errors"
)

const (
	// JSONFileName is the name of the JSON configuration file.
	JSONFileName = "trending.json"

	// TOMLFileName is the name of the TOML configuration file.
	TOMLFileName = "trending.toml"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "TRENDING_"

	// DefaultPort is the default server port.
	DefaultPort = 8080

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultAssetsDir is the default directory of the built front-end.
	DefaultAssetsDir = "dist"
)

// Asset sources.
const (
	AssetSourceDir = "dir"
	AssetSourceS3  = "s3"
)

// Config is the complete server configuration.
type Config struct {
	// Name is the application name, used as the tracing service name.
	Name string `json:"name,omitempty" toml:"name,omitempty" env:"NAME"`

	// Server contains HTTP listener settings.
	Server ServerConfig `json:"server" toml:"server" envPrefix:"SERVER_"`

	// Assets configures where the application shell is served from.
	Assets AssetsConfig `json:"assets" toml:"assets" envPrefix:"ASSETS_"`

	// Log configures structured logging.
	Log LogConfig `json:"log" toml:"log" envPrefix:"LOG_"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `json:"metrics" toml:"metrics" envPrefix:"METRICS_"`

	// Tracing configures the OTLP trace exporter.
	Tracing TracingConfig `json:"tracing" toml:"tracing" envPrefix:"TRACING_"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	// Host is the interface to bind to.
	Host string `json:"host,omitempty" toml:"host,omitempty" env:"HOST"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty" toml:"port,omitempty" env:"PORT"`

	// ReadTimeout bounds reading a request (e.g. "15s").
	ReadTimeout string `json:"readTimeout,omitempty" toml:"readTimeout,omitempty" env:"READ_TIMEOUT"`

	// ShutdownTimeout bounds graceful shutdown (e.g. "10s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty" toml:"shutdownTimeout,omitempty" env:"SHUTDOWN_TIMEOUT"`

	// AllowedOrigins lists origins allowed to open the navigation websocket.
	// Empty allows same-origin requests only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty" toml:"allowedOrigins,omitempty" env:"ALLOWED_ORIGINS"`
}

// AssetsConfig configures the asset store.
type AssetsConfig struct {
	// Source is "dir" or "s3".
	Source string `json:"source,omitempty" toml:"source,omitempty" env:"SOURCE"`

	// Dir is the local directory holding the built front-end.
	Dir string `json:"dir,omitempty" toml:"dir,omitempty" env:"DIR"`

	// Index is the shell document served for every matched route.
	Index string `json:"index,omitempty" toml:"index,omitempty" env:"INDEX"`

	// NotFound is the document served for unmatched URLs, if present.
	NotFound string `json:"notFound,omitempty" toml:"notFound,omitempty" env:"NOT_FOUND"`

	// CacheControl is sent with static assets (not with the shell).
	CacheControl string `json:"cacheControl,omitempty" toml:"cacheControl,omitempty" env:"CACHE_CONTROL"`

	// S3 configures the S3 asset source.
	S3 S3Config `json:"s3" toml:"s3" envPrefix:"S3_"`
}

// S3Config locates the front-end build in a bucket.
type S3Config struct {
	Bucket   string `json:"bucket,omitempty" toml:"bucket,omitempty" env:"BUCKET"`
	Prefix   string `json:"prefix,omitempty" toml:"prefix,omitempty" env:"PREFIX"`
	Region   string `json:"region,omitempty" toml:"region,omitempty" env:"REGION"`
	Endpoint string `json:"endpoint,omitempty" toml:"endpoint,omitempty" env:"ENDPOINT"`

	// PathStyle addresses the bucket as a path (needed by most S3 emulators).
	PathStyle bool `json:"pathStyle,omitempty" toml:"pathStyle,omitempty" env:"PATH_STYLE"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty" toml:"level,omitempty" env:"LEVEL"`

	// Format is text or json.
	Format string `json:"format,omitempty" toml:"format,omitempty" env:"FORMAT"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled" toml:"enabled" env:"ENABLED"`
	Namespace string `json:"namespace,omitempty" toml:"namespace,omitempty" env:"NAMESPACE"`
	Path      string `json:"path,omitempty" toml:"path,omitempty" env:"PATH"`
}

// TracingConfig configures the OTLP/HTTP trace exporter. Tracing is off
// when Endpoint is empty.
type TracingConfig struct {
	Endpoint    string  `json:"endpoint,omitempty" toml:"endpoint,omitempty" env:"ENDPOINT"`
	Insecure    bool    `json:"insecure,omitempty" toml:"insecure,omitempty" env:"INSECURE"`
	SampleRatio float64 `json:"sampleRatio,omitempty" toml:"sampleRatio,omitempty" env:"SAMPLE_RATIO"`
}

// New creates a Config with default values.
func New() *Config {
	cfg := &Config{
		Metrics: MetricsConfig{Enabled: true},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from dir. trending.json wins over trending.toml
// when both exist. Environment overrides are applied.
func Load(dir string) (*Config, error) {
	for _, name := range []string{JSONFileName, TOMLFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New(errors.CodeConfigNotFound).
		WithDetail("No " + JSONFileName + " or " + TOMLFileName + " in " + dir).
		WithSuggestion("Create " + JSONFileName + " or run without one to use defaults")
}

// LoadOrDefault is Load, falling back to defaults plus environment
// overrides when dir holds no configuration file.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if err == nil {
		return cfg, nil
	}
	if !errors.HasCode(err, errors.CodeConfigNotFound) {
		return nil, err
	}

	cfg = New()
	if err := cfg.ApplyEnv(nil); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads configuration from a .json or .toml file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigNotFound).
				WithDetail(path + " does not exist")
		}
		return nil, errors.New(errors.CodeConfigInvalid).WithDetail(path).Wrap(err)
	}

	cfg := &Config{Metrics: MetricsConfig{Enabled: true}}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := decodeJSON(path, data, cfg); err != nil {
			return nil, err
		}
	case ".toml":
		if err := decodeTOML(path, data, cfg); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New(errors.CodeConfigFormat).WithDetail(path)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.ApplyEnv(nil); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeJSON(path string, data []byte, cfg *Config) error {
	err := json.Unmarshal(data, cfg)
	if err == nil {
		return nil
	}

	e := errors.New(errors.CodeConfigInvalid).
		WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
		WithSuggestion("Check that the file is valid JSON")
	var syntax *json.SyntaxError
	if stderrors.As(err, &syntax) {
		line, col := position(data, syntax.Offset)
		e.WithLocation(path, line, col)
	}
	return e
}

func decodeTOML(path string, data []byte, cfg *Config) error {
	err := toml.Unmarshal(data, cfg)
	if err == nil {
		return nil
	}

	e := errors.New(errors.CodeConfigInvalid).
		WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
		WithSuggestion("Check that the file is valid TOML")
	var derr *toml.DecodeError
	if stderrors.As(err, &derr) {
		row, col := derr.Position()
		e.WithLocation(path, row, col)
	}
	return e
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	before := data[:offset]
	line = bytes.Count(before, []byte("\n")) + 1
	col = int(offset) - bytes.LastIndexByte(before, '\n')
	return line, col
}

// ApplyEnv overrides fields from TRENDING_* variables. A nil environ reads
// the process environment.
func (c *Config) ApplyEnv(environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(c, opts); err != nil {
		return errors.New(errors.CodeConfigEnv).WithDetail(err.Error()).Wrap(err)
	}
	return nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to path, as TOML when path ends in .toml
// and as JSON otherwise.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		data, err = toml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = "mlb-trending"
	}

	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "15s"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}

	if c.Assets.Source == "" {
		c.Assets.Source = AssetSourceDir
	}
	if c.Assets.Dir == "" {
		c.Assets.Dir = DefaultAssetsDir
	}
	if c.Assets.Index == "" {
		c.Assets.Index = "index.html"
	}
	if c.Assets.NotFound == "" {
		c.Assets.NotFound = "404.html"
	}
	if c.Assets.CacheControl == "" {
		c.Assets.CacheControl = "public, max-age=3600"
	}
	if c.Assets.S3.Region == "" {
		c.Assets.S3.Region = "us-west-1"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "trending"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}

	if c.Tracing.SampleRatio == 0 {
		c.Tracing.SampleRatio = 1
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New(errors.CodeConfigPort).
			WithDetailf("server.port = %d", c.Server.Port)
	}
	for field, value := range map[string]string{
		"server.readTimeout":     c.Server.ReadTimeout,
		"server.shutdownTimeout": c.Server.ShutdownTimeout,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return errors.New(errors.CodeConfigInvalid).
				WithDetailf("%s = %q is not a duration", field, value).
				WithSuggestion(`Use Go duration syntax, e.g. "10s" or "1m30s"`)
		}
	}

	switch c.Assets.Source {
	case AssetSourceDir:
	case AssetSourceS3:
		if c.Assets.S3.Bucket == "" {
			return errors.New(errors.CodeConfigInvalid).
				WithDetail("assets.source is s3 but assets.s3.bucket is empty")
		}
	default:
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("assets.source = %q", c.Assets.Source).
			WithSuggestion(`Use "dir" or "s3"`)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("log.level = %q", c.Log.Level).
			WithSuggestion("Use debug, info, warn or error")
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("log.format = %q", c.Log.Format).
			WithSuggestion("Use text or json")
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("metrics.path = %q must start with '/'", c.Metrics.Path)
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("tracing.sampleRatio = %v must be within [0, 1]", c.Tracing.SampleRatio)
	}
	return nil
}

// Address returns the listen address.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// ReadTimeout returns the parsed read timeout.
func (c *Config) ReadTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.ReadTimeout)
	return d
}

// ShutdownTimeout returns the parsed shutdown timeout.
func (c *Config) ShutdownTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.ShutdownTimeout)
	return d
}

// AssetsPath returns the absolute path of the asset directory.
func (c *Config) AssetsPath() string {
	if filepath.IsAbs(c.Assets.Dir) {
		return c.Assets.Dir
	}
	return filepath.Join(c.Dir(), c.Assets.Dir)
}

// TracingEnabled reports whether an OTLP endpoint is configured.
func (c *Config) TracingEnabled() bool {
	return c.Tracing.Endpoint != ""
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range []string{JSONFileName, TOMLFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing a config file, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New(errors.CodeConfigNotFound).
				WithDetail("No " + JSONFileName + " or " + TOMLFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the project root containing
// the working directory, or defaults when there is none.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return LoadOrDefault(wd)
	}
	return Load(root)
}
