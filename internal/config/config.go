// Package config holds the bridge settings: defaults, an optional YAML file
// and the command line flags that override both.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DEFAULT_SERIAL_PORT = "/dev/ttyACM0"
	DEFAULT_BAUD_RATE   = 115200
	MAX_VOLUME          = 10
)

// Axes is the index table for the controller's analog axes.
type Axes struct {
	LeftX        int `yaml:"left_x"`
	LeftY        int `yaml:"left_y"`
	LeftTrigger  int `yaml:"left_trigger"`
	RightX       int `yaml:"right_x"`
	RightY       int `yaml:"right_y"`
	RightTrigger int `yaml:"right_trigger"`
}

// Buttons is the index table for the controller's digital buttons.
type Buttons struct {
	Cross     int `yaml:"cross"`
	Circle    int `yaml:"circle"`
	Triangle  int `yaml:"triangle"`
	Square    int `yaml:"square"`
	L1        int `yaml:"l1"`
	R1        int `yaml:"r1"`
	L2        int `yaml:"l2"`
	R2        int `yaml:"r2"`
	Select    int `yaml:"select"`
	Start     int `yaml:"start"`
	PS        int `yaml:"ps"`
	L3        int `yaml:"l3"`
	R3        int `yaml:"r3"`
	DPadUp    int `yaml:"dpad_up"`
	DPadDown  int `yaml:"dpad_down"`
	DPadLeft  int `yaml:"dpad_left"`
	DPadRight int `yaml:"dpad_right"`
}

type Serial struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

type Input struct {
	InvertX  bool    `yaml:"invert_x"`
	InvertY  bool    `yaml:"invert_y"`
	Deadzone float64 `yaml:"deadzone"`

	// RetryAttempts of zero retries controller enumeration forever.
	RetryBackoff  time.Duration `yaml:"retry_backoff"`
	RetryAttempts int           `yaml:"retry_attempts"`
	Settle        time.Duration `yaml:"settle"`
}

type Loop struct {
	Period         time.Duration `yaml:"period"`
	ButtonCooldown time.Duration `yaml:"button_cooldown"`
	StatusEvery    time.Duration `yaml:"status_every"`
}

type Audio struct {
	Dir    string `yaml:"dir"`
	Volume int    `yaml:"volume"`

	NameClip        string        `yaml:"name_clip"`
	NameDuration    time.Duration `yaml:"name_duration"`
	StartupClip     string        `yaml:"startup_clip"`
	StartupDuration time.Duration `yaml:"startup_duration"`
}

type Remote struct {
	// Listen is the TCP address a remote controller feed connects to. Empty
	// means the controller is attached locally.
	Listen string `yaml:"listen"`
}

// Config is the complete set of bridge settings.
type Config struct {
	Serial  Serial  `yaml:"serial"`
	Input   Input   `yaml:"input"`
	Loop    Loop    `yaml:"loop"`
	Audio   Audio   `yaml:"audio"`
	Remote  Remote  `yaml:"remote"`
	Axes    Axes    `yaml:"axes"`
	Buttons Buttons `yaml:"buttons"`
}

// Default returns the settings for a PS3 controller and the stock Arduino
// sketch.
func Default() *Config {
	return &Config{
		Serial: Serial{
			Port: DEFAULT_SERIAL_PORT,
			Baud: DEFAULT_BAUD_RATE,
		},
		Input: Input{
			InvertX:      true,
			InvertY:      true,
			Deadzone:     0.15,
			RetryBackoff: time.Second,
			Settle:       time.Second,
		},
		Loop: Loop{
			Period:         25 * time.Millisecond,
			ButtonCooldown: 250 * time.Millisecond,
			StatusEvery:    time.Second,
		},
		Audio: Audio{
			Dir:             "./sounds",
			Volume:          MAX_VOLUME,
			NameClip:        "./sounds/walle-name-long.mp3",
			NameDuration:    3500 * time.Millisecond,
			StartupClip:     "./sounds/startup-sound_2500.mp3",
			StartupDuration: 2500 * time.Millisecond,
		},
		Axes: Axes{
			LeftX:        0,
			LeftY:        1,
			LeftTrigger:  2,
			RightX:       3,
			RightY:       4,
			RightTrigger: 5,
		},
		Buttons: Buttons{
			Cross:     0,
			Circle:    1,
			Triangle:  2,
			Square:    3,
			L1:        4,
			R1:        5,
			L2:        6,
			R2:        7,
			Select:    8,
			Start:     9,
			PS:        10,
			L3:        11,
			R3:        12,
			DPadUp:    13,
			DPadDown:  14,
			DPadLeft:  15,
			DPadRight: 16,
		},
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default value.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", filename, err)
	}

	return cfg, nil
}

// RegisterFlags binds the most commonly changed settings to fs. Values
// already in cfg become the flag defaults, so flags parsed afterwards
// override both the defaults and the file.
func (cfg *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&cfg.Serial.Port, "port", cfg.Serial.Port, "Arduino serial port")
	fs.IntVar(&cfg.Serial.Baud, "baud", cfg.Serial.Baud, "Serial baud rate")
	fs.BoolVar(&cfg.Input.InvertX, "invert-x", cfg.Input.InvertX, "Invert X axes")
	fs.BoolVar(&cfg.Input.InvertY, "invert-y", cfg.Input.InvertY, "Invert Y axes")
	fs.Float64Var(&cfg.Input.Deadzone, "deadzone", cfg.Input.Deadzone, "Axis deadzone threshold")
	fs.DurationVar(&cfg.Loop.Period, "period", cfg.Loop.Period, "Control loop period")
	fs.DurationVar(&cfg.Loop.ButtonCooldown, "cooldown", cfg.Loop.ButtonCooldown, "Button re-trigger cooldown")
	fs.IntVar(&cfg.Audio.Volume, "volume", cfg.Audio.Volume, "Audio volume (0-10)")
	fs.StringVar(&cfg.Audio.Dir, "sounds", cfg.Audio.Dir, "Sound clip directory")
	fs.StringVar(&cfg.Remote.Listen, "listen", cfg.Remote.Listen, "Accept a remote controller feed on this address instead of a local joystick")
}

// Validate reports the first setting that cannot be used.
func (cfg *Config) Validate() error {
	switch {
	case cfg.Serial.Baud <= 0:
		return fmt.Errorf("baud rate must be positive: %d", cfg.Serial.Baud)
	case cfg.Input.Deadzone < 0 || cfg.Input.Deadzone >= 1:
		return fmt.Errorf("deadzone must be in [0,1): %v", cfg.Input.Deadzone)
	case cfg.Input.RetryBackoff < 0 || cfg.Input.Settle < 0:
		return errors.New("input durations must not be negative")
	case cfg.Input.RetryAttempts < 0:
		return fmt.Errorf("retry attempts must not be negative: %d", cfg.Input.RetryAttempts)
	case cfg.Loop.Period <= 0:
		return fmt.Errorf("loop period must be positive: %v", cfg.Loop.Period)
	case cfg.Loop.ButtonCooldown < 0 || cfg.Loop.StatusEvery < 0:
		return errors.New("loop durations must not be negative")
	case cfg.Audio.Volume < 0 || cfg.Audio.Volume > MAX_VOLUME:
		return fmt.Errorf("volume must be in 0..%d: %d", MAX_VOLUME, cfg.Audio.Volume)
	case cfg.Audio.NameDuration < 0 || cfg.Audio.StartupDuration < 0:
		return errors.New("audio durations must not be negative")
	}
	return nil
}
