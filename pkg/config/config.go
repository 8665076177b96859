// Package config holds every tunable constant of the simulation in one place
// and loads overrides from a JSON file, the environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "BOATRACE"

// Physics drives the craft integrator. Speeds are in simulation units per
// second, angles in degrees and rates in degrees per second.
type Physics struct {
	MaxSpeed        float64 `mapstructure:"maxSpeed"`
	AccelRate       float64 `mapstructure:"accelRate"`       // unit/s²
	DecelRate       float64 `mapstructure:"decelRate"`       // unit/s²
	SpeedConversion float64 `mapstructure:"speedConversion"` // unit/s -> displayed unit/h
	SpeedScale      float64 `mapstructure:"speedScale"`      // unit/s -> px/s

	BankMax           float64 `mapstructure:"bankMax"`
	BankRateLow       float64 `mapstructure:"bankRateLow"`
	BankRateHigh      float64 `mapstructure:"bankRateHigh"`
	BankRateThreshold float64 `mapstructure:"bankRateThreshold"`
	BankDecay         float64 `mapstructure:"bankDecay"`    // per reference frame
	BankDecayFPS      float64 `mapstructure:"bankDecayFps"` // reference frame rate for BankDecay
	BankSnapBefore    float64 `mapstructure:"bankSnapBefore"`
	BankSnapAfter     float64 `mapstructure:"bankSnapAfter"`

	TurnGain  float64 `mapstructure:"turnGain"`
	LowFactor float64 `mapstructure:"lowFactor"`

	MaxStep       float64 `mapstructure:"maxStep"`       // seconds
	WakeMaxLength float64 `mapstructure:"wakeMaxLength"` // pixels at max speed
}

// Lap holds the timing and penalty rules.
type Lap struct {
	CollisionRadius float64 `mapstructure:"collisionRadius"` // pixels
	PenaltySeconds  float64 `mapstructure:"penaltySeconds"`
	HistorySize     int     `mapstructure:"historySize"`
}

type Paths struct {
	IdealLines string `mapstructure:"idealLines"`
	Sounds     string `mapstructure:"sounds"`
	Ghosts     string `mapstructure:"ghosts"`
}

type Audio struct {
	Enabled    bool          `mapstructure:"enabled"`
	SampleRate int           `mapstructure:"sampleRate"`
	MusicFade  time.Duration `mapstructure:"musicFade"`
	FadeSteps  int           `mapstructure:"fadeSteps"`
}

type Log struct {
	Level string `mapstructure:"level"`
	Dir   string `mapstructure:"dir"`
}

type Track struct {
	Initial string `mapstructure:"initial"`
}

type Window struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

type Config struct {
	Physics Physics `mapstructure:"physics"`
	Lap     Lap     `mapstructure:"lap"`
	Paths   Paths   `mapstructure:"paths"`
	Audio   Audio   `mapstructure:"audio"`
	Log     Log     `mapstructure:"log"`
	Track   Track   `mapstructure:"track"`
	Window  Window  `mapstructure:"window"`
}

// Default returns the stock tuning.
func Default() Config {
	const maxSpeed = 100.0
	return Config{
		Physics: Physics{
			MaxSpeed:          maxSpeed,
			AccelRate:         maxSpeed / 18, // 18 seconds from standstill to max
			DecelRate:         12.333,
			SpeedConversion:   0.6,
			SpeedScale:        0.837,
			BankMax:           55,
			BankRateLow:       40,
			BankRateHigh:      10,
			BankRateThreshold: 30,
			BankDecay:         0.9,
			BankDecayFPS:      60,
			BankSnapBefore:    0.5,
			BankSnapAfter:     0.05,
			TurnGain:          15,
			LowFactor:         0.02084,
			MaxStep:           0.1,
			WakeMaxLength:     200,
		},
		Lap: Lap{
			CollisionRadius: 12,
			PenaltySeconds:  10,
			HistorySize:     4,
		},
		Paths: Paths{
			IdealLines: "assets/ideal",
			Sounds:     "assets/sounds",
			Ghosts:     "ghosts",
		},
		Audio: Audio{
			Enabled:    true,
			SampleRate: 48000,
			MusicFade:  5 * time.Second,
			FadeSteps:  50,
		},
		Log: Log{
			Level: "info",
		},
		Track: Track{
			Initial: "speedTrack",
		},
		Window: Window{
			Width:  1280,
			Height: 720,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("physics.maxSpeed", d.Physics.MaxSpeed)
	v.SetDefault("physics.accelRate", d.Physics.AccelRate)
	v.SetDefault("physics.decelRate", d.Physics.DecelRate)
	v.SetDefault("physics.speedConversion", d.Physics.SpeedConversion)
	v.SetDefault("physics.speedScale", d.Physics.SpeedScale)
	v.SetDefault("physics.bankMax", d.Physics.BankMax)
	v.SetDefault("physics.bankRateLow", d.Physics.BankRateLow)
	v.SetDefault("physics.bankRateHigh", d.Physics.BankRateHigh)
	v.SetDefault("physics.bankRateThreshold", d.Physics.BankRateThreshold)
	v.SetDefault("physics.bankDecay", d.Physics.BankDecay)
	v.SetDefault("physics.bankDecayFps", d.Physics.BankDecayFPS)
	v.SetDefault("physics.bankSnapBefore", d.Physics.BankSnapBefore)
	v.SetDefault("physics.bankSnapAfter", d.Physics.BankSnapAfter)
	v.SetDefault("physics.turnGain", d.Physics.TurnGain)
	v.SetDefault("physics.lowFactor", d.Physics.LowFactor)
	v.SetDefault("physics.maxStep", d.Physics.MaxStep)
	v.SetDefault("physics.wakeMaxLength", d.Physics.WakeMaxLength)

	v.SetDefault("lap.collisionRadius", d.Lap.CollisionRadius)
	v.SetDefault("lap.penaltySeconds", d.Lap.PenaltySeconds)
	v.SetDefault("lap.historySize", d.Lap.HistorySize)

	v.SetDefault("paths.idealLines", d.Paths.IdealLines)
	v.SetDefault("paths.sounds", d.Paths.Sounds)
	v.SetDefault("paths.ghosts", d.Paths.Ghosts)

	v.SetDefault("audio.enabled", d.Audio.Enabled)
	v.SetDefault("audio.sampleRate", d.Audio.SampleRate)
	v.SetDefault("audio.musicFade", d.Audio.MusicFade)
	v.SetDefault("audio.fadeSteps", d.Audio.FadeSteps)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.dir", d.Log.Dir)

	v.SetDefault("track.initial", d.Track.Initial)

	v.SetDefault("window.width", d.Window.Width)
	v.SetDefault("window.height", d.Window.Height)
}

// Load builds a Config from defaults, the optional JSON file at path, BOATRACE_*
// environment variables and any flags that were set on fs (nil is fine). Flag
// names are the dotted config keys, e.g. --log.level.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("error binding flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate reports every problem found rather than just the first one.
func (c *Config) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %g", name, v))
		}
	}

	p := c.Physics
	positive("physics.maxSpeed", p.MaxSpeed)
	positive("physics.accelRate", p.AccelRate)
	positive("physics.decelRate", p.DecelRate)
	positive("physics.speedConversion", p.SpeedConversion)
	positive("physics.speedScale", p.SpeedScale)
	positive("physics.bankRateLow", p.BankRateLow)
	positive("physics.bankRateHigh", p.BankRateHigh)
	positive("physics.bankDecayFps", p.BankDecayFPS)
	positive("physics.maxStep", p.MaxStep)
	if p.BankMax <= 0 || p.BankMax > 90 {
		errs = append(errs, fmt.Errorf("physics.bankMax must be in (0, 90], got %g", p.BankMax))
	}
	if p.BankDecay <= 0 || p.BankDecay >= 1 {
		errs = append(errs, fmt.Errorf("physics.bankDecay must be in (0, 1), got %g", p.BankDecay))
	}

	positive("lap.collisionRadius", c.Lap.CollisionRadius)
	if c.Lap.PenaltySeconds < 0 {
		errs = append(errs, fmt.Errorf("lap.penaltySeconds must not be negative, got %g", c.Lap.PenaltySeconds))
	}
	if c.Lap.HistorySize < 1 {
		errs = append(errs, fmt.Errorf("lap.historySize must be at least 1, got %d", c.Lap.HistorySize))
	}

	if c.Audio.Enabled && c.Audio.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("audio.sampleRate must be positive, got %d", c.Audio.SampleRate))
	}
	if c.Audio.FadeSteps < 1 {
		errs = append(errs, fmt.Errorf("audio.fadeSteps must be at least 1, got %d", c.Audio.FadeSteps))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}

	return errors.Join(errs...)
}

// Flags declares the command-line overrides understood by Load.
func Flags() *pflag.FlagSet {
	d := Default()
	fs := pflag.NewFlagSet("boatrace", pflag.ContinueOnError)
	fs.String("config", "", "path to a JSON config file")
	fs.String("log.level", d.Log.Level, "log level (debug, info, warn, error)")
	fs.String("log.dir", d.Log.Dir, "directory for log files (default: user config dir)")
	fs.String("track.initial", d.Track.Initial, "track selected at startup")
	fs.Int("window.width", d.Window.Width, "initial window width")
	fs.Int("window.height", d.Window.Height, "initial window height")
	fs.Bool("audio.enabled", d.Audio.Enabled, "play sound effects and music")
	fs.String("paths.idealLines", d.Paths.IdealLines, "directory containing ideal-line overlays")
	fs.String("paths.sounds", d.Paths.Sounds, "directory containing sound effects")
	fs.String("paths.ghosts", d.Paths.Ghosts, "default directory for ghost files")
	return fs
}
