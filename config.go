package osmgraph

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/rubenv/osmgraph/action"
	"github.com/rubenv/osmgraph/geometry"
	yaml "gopkg.in/yaml.v2"
)

type Config struct {
	Store       StoreConfig       `yaml:"store"`
	Projection  string            `yaml:"projection"`
	Circularize CircularizeConfig `yaml:"circularize"`
	Export      ExportConfig      `yaml:"export"`
	LogLevel    string            `yaml:"log_level"`
}

type StoreConfig struct {
	Path       string `yaml:"path"`
	InMemory   bool   `yaml:"in_memory"`
	SyncWrites bool   `yaml:"sync_writes"`
}

type CircularizeConfig struct {
	// Maximum angle in degrees between two consecutive points.
	MaxAngle float64 `yaml:"max_angle"`
}

type ExportConfig struct {
	Simplify int     `yaml:"simplify"`
	Quantize float64 `yaml:"quantize"`
}

func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Path: "data",
		},
		Projection: "mercator",
		Circularize: CircularizeConfig{
			MaxAngle: action.DefaultMaxAngle,
		},
		Export: ExportConfig{
			Quantize: 1e6,
		},
		LogLevel: "info",
	}
}

func ReadConfig(filename string) (*Config, error) {
	fp, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	return ParseConfig(fp)
}

// ParseConfig reads a YAML config. Missing settings keep their defaults.
func ParseConfig(in io.Reader) (*Config, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, err
	}

	if config.Circularize.MaxAngle <= 0 || config.Circularize.MaxAngle >= 180 {
		return nil, fmt.Errorf("Invalid circularize max_angle: %v", config.Circularize.MaxAngle)
	}
	if _, err := config.Projector(); err != nil {
		return nil, err
	}
	if _, err := config.Level(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Projector() (geometry.Projector, error) {
	return geometry.ProjectorByName(c.Projection)
}

func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("Invalid log_level: %q", c.LogLevel)
	}
	return level, nil
}

// NewLogger builds a text logger on stderr at the configured level.
func (c *Config) NewLogger() *slog.Logger {
	level, err := c.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
