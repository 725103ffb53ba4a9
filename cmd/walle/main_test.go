package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"walle/internal/test"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, opts, err := loadConfig(nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, opts.configFile, "")
	test.ExpectEquality(t, cfg.Serial.Port, "/dev/ttyACM0")
	test.ExpectEquality(t, cfg.Loop.StatusEvery, time.Second)
}

func TestLoadConfigFlagsBeatFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "walle.yaml")
	data := []byte("serial:\n  port: /dev/ttyUSB0\n  baud: 9600\n")
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := loadConfig([]string{"-config", filename, "-port", "/dev/ttyACM1", "-quiet"})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, cfg.Serial.Port, "/dev/ttyACM1")
	test.ExpectEquality(t, cfg.Serial.Baud, 9600)
	test.ExpectEquality(t, cfg.Loop.StatusEvery, time.Duration(0))
}

func TestLoadConfigInvalid(t *testing.T) {
	_, _, err := loadConfig([]string{"-volume", "12"})
	test.ExpectFailure(t, err)

	_, _, err = loadConfig([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")})
	test.ExpectFailure(t, err)
}
