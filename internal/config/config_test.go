package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"walle/internal/test"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	test.ExpectSuccess(t, cfg.Validate())
	test.ExpectEquality(t, cfg.Serial.Port, "/dev/ttyACM0")
	test.ExpectEquality(t, cfg.Serial.Baud, 115200)
	test.ExpectEquality(t, cfg.Input.Deadzone, 0.15)
	test.ExpectEquality(t, cfg.Loop.Period, 25*time.Millisecond)
	test.ExpectEquality(t, cfg.Loop.ButtonCooldown, 250*time.Millisecond)
	test.ExpectEquality(t, cfg.Buttons.DPadRight, 16)
	test.ExpectEquality(t, cfg.Axes.RightTrigger, 5)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "walle.yaml")
	data := []byte(`
serial:
  port: /dev/ttyUSB1
input:
  invert_x: false
  deadzone: 0.2
loop:
  period: 50ms
buttons:
  select: 6
`)
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(filename)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, cfg.Serial.Port, "/dev/ttyUSB1")
	test.ExpectEquality(t, cfg.Serial.Baud, 115200)
	test.ExpectEquality(t, cfg.Input.InvertX, false)
	test.ExpectEquality(t, cfg.Input.InvertY, true)
	test.ExpectEquality(t, cfg.Input.Deadzone, 0.2)
	test.ExpectEquality(t, cfg.Loop.Period, 50*time.Millisecond)
	test.ExpectEquality(t, cfg.Buttons.Select, 6)
	test.ExpectEquality(t, cfg.Buttons.Start, 9)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	test.ExpectFailure(t, err)

	filename := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(filename, []byte("loop: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = Load(filename)
	test.ExpectFailure(t, err)
}

func TestFlagsOverride(t *testing.T) {
	cfg := Default()
	fs := flag.NewFlagSet("walle", flag.ContinueOnError)
	cfg.RegisterFlags(fs)

	err := fs.Parse([]string{"-port", "/dev/ttyS0", "-invert-y=false", "-volume", "4", "-period", "10ms"})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, cfg.Serial.Port, "/dev/ttyS0")
	test.ExpectEquality(t, cfg.Input.InvertY, false)
	test.ExpectEquality(t, cfg.Audio.Volume, 4)
	test.ExpectEquality(t, cfg.Loop.Period, 10*time.Millisecond)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"baud", func(c *Config) { c.Serial.Baud = 0 }},
		{"deadzone negative", func(c *Config) { c.Input.Deadzone = -0.1 }},
		{"deadzone one", func(c *Config) { c.Input.Deadzone = 1 }},
		{"period", func(c *Config) { c.Loop.Period = 0 }},
		{"volume high", func(c *Config) { c.Audio.Volume = 11 }},
		{"volume low", func(c *Config) { c.Audio.Volume = -1 }},
		{"attempts", func(c *Config) { c.Input.RetryAttempts = -2 }},
		{"cooldown", func(c *Config) { c.Loop.ButtonCooldown = -time.Second }},
		{"startup", func(c *Config) { c.Audio.StartupDuration = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			test.ExpectFailure(t, cfg.Validate())
		})
	}
}
