// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/profiler"

	"github.com/bedrock-xrpl/bedrock/contracts/vault"
	"github.com/bedrock-xrpl/bedrock/pebble"
	"github.com/bedrock-xrpl/bedrock/runtime"
	"github.com/bedrock-xrpl/bedrock/trace"
)

const (
	MemoryBackend = "memory"
	PebbleBackend = "pebble"

	AppName = "bedrock"
	Version = "v0.1.0"

	defaultContinuousProfilerFrequency = 1 * time.Minute
	defaultContinuousProfilerMaxFiles  = 10
)

var ErrUnknownBackend = errors.New("unknown state backend")

type Config struct {
	// Logging
	LogLevel logging.Level `json:"logLevel"`
	LogDir   string        `json:"logDir"`

	// State
	StateBackend string        `json:"stateBackend"`
	DatabaseDir  string        `json:"databaseDir"`
	Pebble       pebble.Config `json:"pebble"`

	// Execution
	Runtime runtime.Config `json:"runtime"`
	Vault   vault.Config   `json:"vault"`

	// Tracing
	TraceEnabled    bool    `json:"traceEnabled"`
	TraceSampleRate float64 `json:"traceSampleRate"`
	TraceEndpoint   string  `json:"traceEndpoint"`

	// Profiling
	ContinuousProfilerDir string `json:"continuousProfilerDir"`

	loaded bool
}

func New(b []byte) (*Config, error) {
	c := &Config{}
	c.setDefault()
	if len(b) > 0 {
		if err := json.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", string(b), err)
		}
		c.loaded = true
	}
	if err := c.verify(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) setDefault() {
	c.LogLevel = logging.Info
	c.LogDir = ".bedrock/logs"
	c.StateBackend = PebbleBackend
	c.DatabaseDir = ".bedrock/db"
	c.Pebble = pebble.NewDefaultConfig()
	c.Runtime = runtime.NewConfig()
	c.Vault = vault.NewConfig()
	c.TraceSampleRate = 1
}

func (c *Config) verify() error {
	switch c.StateBackend {
	case MemoryBackend, PebbleBackend:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.StateBackend)
	}
	if c.Runtime.MaxUnits < c.Runtime.CallUnits {
		return fmt.Errorf("maxUnits (%d) below callUnits (%d)", c.Runtime.MaxUnits, c.Runtime.CallUnits)
	}
	return nil
}

func (c *Config) GetTraceConfig() *trace.Config {
	return &trace.Config{
		Enabled:         c.TraceEnabled,
		TraceSampleRate: c.TraceSampleRate,
		Endpoint:        c.TraceEndpoint,
		AppName:         AppName,
		Agent:           AppName,
		Version:         Version,
	}
}

func (c *Config) GetContinuousProfilerConfig() *profiler.Config {
	if len(c.ContinuousProfilerDir) == 0 {
		return &profiler.Config{Enabled: false}
	}
	return &profiler.Config{
		Enabled:     true,
		Dir:         c.ContinuousProfilerDir,
		Freq:        defaultContinuousProfilerFrequency,
		MaxNumFiles: defaultContinuousProfilerMaxFiles,
	}
}

// Loaded reports whether the config was read from a file.
func (c *Config) Loaded() bool { return c.loaded }
