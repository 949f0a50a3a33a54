package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. SIGNALLINK_LOG_LEVEL.
const EnvPrefix = "SIGNALLINK"

// Analyzer and GPS source names accepted in Settings.
const (
	AnalysisLocal  = "local"
	AnalysisRemote = "remote"
	GPSStatic      = "static"
	GPSSimulated   = "simulated"
)

// Settings holds the runtime configuration resolved from flags, environment,
// an optional YAML file and defaults (in that order of precedence).
type Settings struct {
	Log       LogSettings       `mapstructure:"log"`
	Simulator SimulatorSettings `mapstructure:"simulator"`
	Sender    SenderSettings    `mapstructure:"sender"`
	Analysis  AnalysisSettings  `mapstructure:"analysis"`
	Server    ServerSettings    `mapstructure:"server"`
}

type LogSettings struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
	JSON  bool   `mapstructure:"json"`
}

type Coordinate struct {
	Lat float64 `mapstructure:"lat"`
	Lon float64 `mapstructure:"lon"`
}

type SimulatorSettings struct {
	Tick        time.Duration `mapstructure:"tick"`
	Probability float64       `mapstructure:"probability"`
	Capacity    int           `mapstructure:"capacity"`
	Origin      Coordinate    `mapstructure:"origin"`
}

type SenderSettings struct {
	GPS      string  `mapstructure:"gps"`
	Lat      float64 `mapstructure:"lat"`
	Lon      float64 `mapstructure:"lon"`
	Accuracy float64 `mapstructure:"accuracy"`
}

// AnalysisSettings selects the emergency classifier. The remote analyzer is
// only used when Mode is "remote".
type AnalysisSettings struct {
	Mode     string        `mapstructure:"mode"`
	Endpoint string        `mapstructure:"endpoint"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type ServerSettings struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// SetDefaults registers every known key so that AutomaticEnv can resolve
// environment overrides during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "signal-link.log")
	v.SetDefault("log.json", false)

	v.SetDefault("simulator.tick", EmitInterval)
	v.SetDefault("simulator.probability", EmitProbability)
	v.SetDefault("simulator.capacity", SignalCapacity)
	v.SetDefault("simulator.origin.lat", OriginLat)
	v.SetDefault("simulator.origin.lon", OriginLon)

	v.SetDefault("sender.gps", GPSSimulated)
	v.SetDefault("sender.lat", OriginLat)
	v.SetDefault("sender.lon", OriginLon)
	v.SetDefault("sender.accuracy", SignalAccuracy)

	v.SetDefault("analysis.mode", AnalysisLocal)
	v.SetDefault("analysis.endpoint", "")
	v.SetDefault("analysis.api_key", "")
	v.SetDefault("analysis.timeout", 10*time.Second)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
}

// Load resolves Settings. A .env file in the working directory is loaded
// into the process environment first, if present. path may be empty.
func Load(v *viper.Viper, path string) (*Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate rejects settings the simulator, sender or analyzer cannot run with.
func (s *Settings) Validate() error {
	var problems []string

	if s.Simulator.Tick <= 0 {
		problems = append(problems, "simulator.tick must be positive")
	}
	if s.Simulator.Probability < 0 || s.Simulator.Probability > 1 {
		problems = append(problems, "simulator.probability must be within [0, 1]")
	}
	if s.Simulator.Capacity < 1 {
		problems = append(problems, "simulator.capacity must be at least 1")
	}
	if !validLatLon(s.Simulator.Origin.Lat, s.Simulator.Origin.Lon) {
		problems = append(problems, "simulator.origin is not a valid coordinate")
	}

	switch s.Sender.GPS {
	case GPSStatic, GPSSimulated:
	default:
		problems = append(problems, fmt.Sprintf("sender.gps %q is not one of static, simulated", s.Sender.GPS))
	}
	if !validLatLon(s.Sender.Lat, s.Sender.Lon) {
		problems = append(problems, "sender lat/lon is not a valid coordinate")
	}

	switch s.Analysis.Mode {
	case AnalysisLocal:
	case AnalysisRemote:
		if s.Analysis.Endpoint == "" {
			problems = append(problems, "analysis.endpoint is required when analysis.mode is remote")
		}
	default:
		problems = append(problems, fmt.Sprintf("analysis.mode %q is not one of local, remote", s.Analysis.Mode))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func validLatLon(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
