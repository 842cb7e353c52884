package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/Carmen-Shannon/contraption/common"
	"github.com/Carmen-Shannon/contraption/internal/logging"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvPrefix marks environment variables that override file settings.
// CONTRAPTION_TICK_RATE=30 overrides tick_rate.
const EnvPrefix = "CONTRAPTION_"

// Config is the runtime configuration for the contraption binary.
type Config struct {
	LogLevel        string        `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	LogFormat       string        `mapstructure:"log_format" yaml:"log_format" json:"log_format"`
	Scene           string        `mapstructure:"scene" yaml:"scene" json:"scene"`
	TickRate        float64       `mapstructure:"tick_rate" yaml:"tick_rate" json:"tick_rate"`
	FrameLimit      uint64        `mapstructure:"frame_limit" yaml:"frame_limit" json:"frame_limit"`
	Width           int           `mapstructure:"width" yaml:"width" json:"width"`
	Height          int           `mapstructure:"height" yaml:"height" json:"height"`
	Workers         int           `mapstructure:"workers" yaml:"workers" json:"workers"`
	CullRadius      float32       `mapstructure:"cull_radius" yaml:"cull_radius" json:"cull_radius"`
	InspectorAddr   string        `mapstructure:"inspector_addr" yaml:"inspector_addr" json:"inspector_addr"`
	Profiling       bool          `mapstructure:"profiling" yaml:"profiling" json:"profiling"`
	ProfileInterval time.Duration `mapstructure:"profile_interval" yaml:"profile_interval" json:"profile_interval"`
	Watch           bool          `mapstructure:"watch" yaml:"watch" json:"watch"`
}

// keys is the set of setting names, taken from the mapstructure tags of Config.
var keys = func() map[string]bool {
	t := reflect.TypeFor[Config]()
	out := make(map[string]bool, t.NumField())
	for i := range t.NumField() {
		if tag := t.Field(i).Tag.Get("mapstructure"); tag != "" {
			out[tag] = true
		}
	}
	return out
}()

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		LogLevel:        "info",
		LogFormat:       "text",
		TickRate:        60,
		Width:           1280,
		Height:          720,
		ProfileInterval: time.Second,
	}
}

// Load reads an optional YAML file, applies environment overrides from
// environ (os.Environ() form) and decodes the result over Default().
// Prefixed variables that do not name a setting are ignored.
// A relative scene path in the file resolves against the file's directory.
func Load(path string, environ []string) (Config, error) {
	raw := map[string]any{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrap(err, "read config")
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, errors.Wrapf(err, "parse config %s", path)
		}
		if scene, ok := raw["scene"].(string); ok && scene != "" && !filepath.IsAbs(scene) {
			raw["scene"] = filepath.Join(filepath.Dir(path), scene)
		}
	}

	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		name := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		if !keys[name] {
			continue
		}
		raw[name] = value
	}

	cfg := Default()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return Config{}, errors.Wrap(err, "config decoder")
	}
	if err := dec.Decode(raw); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}

	defaults := Default()
	cfg.LogLevel = common.Coalesce(cfg.LogLevel, defaults.LogLevel)
	cfg.LogFormat = common.Coalesce(cfg.LogFormat, defaults.LogFormat)
	cfg.ProfileInterval = common.Coalesce(cfg.ProfileInterval, defaults.ProfileInterval)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first setting that is out of range.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format %q: want text or json", c.LogFormat)
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("invalid tick rate %v: must be positive", c.TickRate)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", c.Width, c.Height)
	}
	if c.Workers < 0 {
		return fmt.Errorf("invalid worker count %d", c.Workers)
	}
	if c.CullRadius < 0 {
		return fmt.Errorf("invalid cull radius %v", c.CullRadius)
	}
	return nil
}
