package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/soocke/pose-label-go/domain/frames"
	"github.com/soocke/pose-label-go/domain/geometry"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "POSE_LABEL_"

// Config holds runtime configuration for the annotator.
// Fields may be loaded from a JSON file and overridden by environment
// variables and command-line flags.
type Config struct {
	Debug    bool   `json:"debug"`
	LogLevel string `json:"log_level"`

	// Label store
	ServerURL             string `json:"server_url"`
	SessionID             string `json:"session_id"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds"`

	// Annotation defaults
	EdgeLength    int  `json:"edge_length"`
	Inherit       bool `json:"inherit"`
	UnlabeledOnly bool `json:"unlabeled_only"`

	// Display
	DarkMode        bool `json:"dark_mode"`
	MaxDisplayWidth int  `json:"max_display_width"`
	PreviewSize     int  `json:"preview_size"`
	ImageCacheSize  int  `json:"image_cache_size"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:              "info",
		ServerURL:             "http://localhost:8000",
		RequestTimeoutSeconds: 10,
		EdgeLength:            geometry.DefaultEdgeLength,
		Inherit:               true,
		MaxDisplayWidth:       960,
		PreviewSize:           128,
		ImageCacheSize:        frames.DefaultCacheSize,
	}
}

// Validate clamps/normalizes values to safe ranges. Values that cannot be
// repaired are reported as errors.
func (c *Config) Validate() error {
	var errs []error
	c.ServerURL = strings.TrimSpace(c.ServerURL)
	if u, err := url.Parse(c.ServerURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("server_url %q is not an absolute URL", c.ServerURL))
	}
	c.SessionID = strings.TrimSpace(c.SessionID)
	if strings.Contains(c.SessionID, "/") {
		errs = append(errs, fmt.Errorf("session_id %q must not contain '/'", c.SessionID))
	}
	if err := geometry.ValidateEdgeLength(c.EdgeLength); err != nil {
		c.EdgeLength = geometry.DefaultEdgeLength
	}
	if c.RequestTimeoutSeconds <= 0 {
		c.RequestTimeoutSeconds = 10
	}
	if c.MaxDisplayWidth < 200 {
		c.MaxDisplayWidth = 960
	}
	if c.PreviewSize < 32 {
		c.PreviewSize = 128
	}
	if c.ImageCacheSize <= 0 {
		c.ImageCacheSize = frames.DefaultCacheSize
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		c.LogLevel = "info"
	}
	return errors.Join(errs...)
}

// RequestTimeout returns the per-request timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Level returns the configured log level, forced to debug when Debug is set.
func (c *Config) Level() slog.Level {
	if c.Debug {
		return slog.LevelDebug
	}
	l, _ := ParseLevel(c.LogLevel)
	return l
}

// ParseLevel maps debug/info/warn/error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, err
	}
	return l, nil
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// LoadEnv reads KEY=VALUE pairs from the given dotenv files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadEnv(files ...string) error {
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	return godotenv.Load(present...)
}

// ApplyEnv overrides fields from POSE_LABEL_* variables using lookup.
// Pass os.LookupEnv in production. Unparseable values are reported and skipped.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			return
		}
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
			return
		}
		*dst = i
	}
	boolean := func(key string, dst *bool) {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			return
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
			return
		}
		*dst = b
	}
	str("SERVER_URL", &c.ServerURL)
	str("SESSION_ID", &c.SessionID)
	str("LOG_LEVEL", &c.LogLevel)
	integer("REQUEST_TIMEOUT_SECONDS", &c.RequestTimeoutSeconds)
	integer("EDGE_LENGTH", &c.EdgeLength)
	integer("MAX_DISPLAY_WIDTH", &c.MaxDisplayWidth)
	integer("PREVIEW_SIZE", &c.PreviewSize)
	integer("IMAGE_CACHE_SIZE", &c.ImageCacheSize)
	boolean("INHERIT", &c.Inherit)
	boolean("UNLABELED_ONLY", &c.UnlabeledOnly)
	boolean("DARK_MODE", &c.DarkMode)
	boolean("DEBUG", &c.Debug)
	return errors.Join(errs...)
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
