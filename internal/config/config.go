// SPDX-License-Identifier: EPL-2.0

// Package config reads command settings from an optional .env file and
// the environment. Flags registered with Bind override both.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment keys.
const (
	EnvAddr    = "AUDSINK_ADDR"
	EnvVolume  = "AUDSINK_VOLUME"
	EnvSpeed   = "AUDSINK_SPEED"
	EnvMDNS    = "AUDSINK_MDNS"
	EnvName    = "AUDSINK_NAME"
	EnvLogFile = "AUDSINK_LOG_FILE"
	EnvBackend = "AUDSINK_BACKEND"
)

// Defaults used when neither the environment nor a flag sets a value.
const (
	DefaultAddr    = "127.0.0.1:8931"
	DefaultVolume  = 85.0
	DefaultSpeed   = 1.0
	DefaultBackend = "oto"
	DefaultLogFile = "audsink.log"
)

type Config struct {
	Addr    string
	Volume  float64
	Speed   float64
	MDNS    bool
	Name    string
	LogFile string
	Backend string
}

// Default returns the built-in settings. Name falls back to
// "<hostname>-audsink".
func Default() *Config {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	return &Config{
		Addr:    DefaultAddr,
		Volume:  DefaultVolume,
		Speed:   DefaultSpeed,
		Name:    fmt.Sprintf("%s-audsink", hostname),
		LogFile: DefaultLogFile,
		Backend: DefaultBackend,
	}
}

// Load reads the given .env files (".env" when none are named) and then
// the environment. A missing .env file is not an error.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading env file: %w", err)
	}

	cfg := Default()
	if err := cfg.FromEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv overrides cfg with every variable lookup finds.
func (c *Config) FromEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Addr = v
	}
	if v, ok := lookup(EnvName); ok && v != "" {
		c.Name = v
	}
	if v, ok := lookup(EnvLogFile); ok && v != "" {
		c.LogFile = v
	}
	if v, ok := lookup(EnvBackend); ok && v != "" {
		c.Backend = strings.ToLower(v)
	}

	if v, ok := lookup(EnvVolume); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvVolume, err)
		}
		c.Volume = f
	}
	if v, ok := lookup(EnvSpeed); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvSpeed, err)
		}
		c.Speed = f
	}
	if v, ok := lookup(EnvMDNS); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvMDNS, err)
		}
		c.MDNS = b
	}

	return nil
}

// Bind registers flags on set with the current values as defaults, so that
// parsing set applies flag > environment > default.
func (c *Config) Bind(set *flag.FlagSet) {
	set.StringVar(&c.Addr, "addr", c.Addr, "Listen address for the bridge")
	set.Float64Var(&c.Volume, "volume", c.Volume, "Initial volume in percent (0-100)")
	set.Float64Var(&c.Speed, "speed", c.Speed, "Initial playback speed")
	set.BoolVar(&c.MDNS, "mdns", c.MDNS, "Advertise the bridge over mDNS")
	set.StringVar(&c.Name, "name", c.Name, "Service name for mDNS")
	set.StringVar(&c.LogFile, "log-file", c.LogFile, "Log file path")
	set.StringVar(&c.Backend, "backend", c.Backend, "Output backend (oto, portaudio, malgo)")
}
