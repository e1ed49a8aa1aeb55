// Package config holds the host configuration read from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/zeusecs/pkg/ecs"
	"github.com/zeusync/zeusecs/pkg/observability/log"
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Log     LogConfig     `json:"log" yaml:"log"`
	Modules ModulesConfig `json:"modules" yaml:"modules"`
	Loop    LoopConfig    `json:"loop" yaml:"loop"`
	Scene   string        `json:"scene,omitempty" yaml:"scene,omitempty"`
}

type LogConfig struct {
	Level    log.Level `json:"level" yaml:"level"`
	Encoding string    `json:"encoding" yaml:"encoding"`
}

// ModulesConfig tells the host where to find modules and which symbol they
// export.
type ModulesConfig struct {
	Dir        string `json:"dir,omitempty" yaml:"dir,omitempty"`
	Entrypoint string `json:"entrypoint" yaml:"entrypoint"`
	Watch      bool   `json:"watch" yaml:"watch"`
}

// LoopConfig drives the host tick loop. Zero ticks runs until interrupted.
type LoopConfig struct {
	Ticks    int           `json:"ticks" yaml:"ticks"`
	Interval time.Duration `json:"interval" yaml:"interval"`
	State    string        `json:"state,omitempty" yaml:"state,omitempty"`
}

func Default() Config {
	return Config{
		Log: LogConfig{
			Level:    log.LevelInfo,
			Encoding: "console",
		},
		Modules: ModulesConfig{
			Dir:        "./modules",
			Entrypoint: ecs.DefaultEntrypoint,
		},
		Loop: LoopConfig{
			Ticks:    60,
			Interval: 16 * time.Millisecond,
		},
	}
}

// Load reads YAML from r over the defaults and validates the result.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func (c Config) Validate() error {
	var errs []error
	switch c.Log.Encoding {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("%w: log.encoding %q, want json or console", ErrInvalid, c.Log.Encoding))
	}
	if c.Modules.Entrypoint == "" {
		errs = append(errs, fmt.Errorf("%w: modules.entrypoint is required", ErrInvalid))
	}
	if c.Modules.Watch && c.Modules.Dir == "" {
		errs = append(errs, fmt.Errorf("%w: modules.watch needs modules.dir", ErrInvalid))
	}
	if c.Loop.Ticks < 0 {
		errs = append(errs, fmt.Errorf("%w: loop.ticks must not be negative", ErrInvalid))
	}
	if c.Loop.Interval < 0 {
		errs = append(errs, fmt.Errorf("%w: loop.interval must not be negative", ErrInvalid))
	}
	return errors.Join(errs...)
}
