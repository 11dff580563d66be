package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override scenario fields.
const (
	EnvDataRate   = "LEORELAY_DATA_RATE"
	EnvSendOffset = "LEORELAY_SEND_OFFSET"
	EnvStopTime   = "LEORELAY_STOP_TIME"
	EnvDelayMode  = "LEORELAY_DELAY_MODE"
	EnvFixedDelay = "LEORELAY_FIXED_DELAY"
)

// Load reads a YAML scenario file. Fields missing from the file keep their
// default values, and listed positions are merged into the default ones.
func Load(path string) (Scenario, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("reading scenario: %w", err)
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parsing scenario %s: %w", path, err)
	}

	return s, nil
}

// ApplyEnv loads the given .env files, or ".env" when none is given, and
// applies the LEORELAY_* overrides. Missing .env files are ignored.
func (s *Scenario) ApplyEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}

	floats := []struct {
		env string
		dst *float64
	}{
		{EnvDataRate, &s.DataRate},
		{EnvSendOffset, &s.SendOffset},
		{EnvStopTime, &s.StopTime},
		{EnvFixedDelay, &s.FixedDelay},
	}

	for _, f := range floats {
		str := os.Getenv(f.env)
		if str == "" {
			continue
		}

		v, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", f.env, err)
		}

		*f.dst = v
	}

	if mode := os.Getenv(EnvDelayMode); mode != "" {
		s.DelayMode = mode
	}

	return nil
}

// Save writes the scenario as YAML.
func (s Scenario) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
