package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RunConfig describes a simulation run: topology shape, router timing
// parameters, and how long to run. It is the YAML-loadable counterpart
// to the cobra flags in cmd/root.go: flags override whatever the config
// file sets, the same layering the teacher's cmd package uses.
type RunConfig struct {
	Topology string `yaml:"topology"` // "ring" or "torus"

	Terminals int `yaml:"terminals"` // ring size / torus terminal count
	TorusK    int `yaml:"torus_k"`
	TorusR    int `yaml:"torus_r"`

	ChannelDelay int64 `yaml:"channel_delay"`
	InputBufSize int64 `yaml:"input_buf_size"`
	PacketSize   int64 `yaml:"packet_size"`

	Horizon int64 `yaml:"horizon"`
	Seed    int64 `yaml:"seed"`

	Debug      bool   `yaml:"debug"`
	TraceLevel string `yaml:"trace_level"` // "none" or "cycle"
}

// DefaultConfig mirrors the reference implementation's hardcoded
// defaults: channel delay 1, input buffer size 6, and a configurable
// packet size defaulting to 4 (the original hardcoded a 4-flit packet
// via `counter == 3`).
func DefaultConfig() RunConfig {
	return RunConfig{
		Topology:     "ring",
		Terminals:    4,
		TorusK:       4,
		TorusR:       1,
		ChannelDelay: 1,
		InputBufSize: 6,
		PacketSize:   4,
		Horizon:      10000,
		Seed:         1,
		TraceLevel:   "none",
	}
}

// LoadConfig reads a YAML file into a RunConfig seeded with DefaultConfig,
// so a config file only needs to specify the fields it wants to override.
func LoadConfig(path string) (RunConfig, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("netsim: reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("netsim: parsing config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// validTraceLevels lists the trace verbosity settings this simulator
// accepts; "none" records no per-cycle trace records, "cycle" records
// them. logrus Debug output is governed by the logger's level, not by
// this setting.
var validTraceLevels = map[string]bool{
	"none":  true,
	"cycle": true,
}

func IsValidTraceLevel(level string) bool { return validTraceLevels[level] }

// pow returns base^exp for the small non-negative exponents torus
// dimension counts use; no need for math.Pow's float round-trip.
func pow(base, exp int) int {
	n := 1
	for i := 0; i < exp; i++ {
		n *= base
	}
	return n
}

// Validate rejects configurations that would make the router pipeline's
// invariants impossible to uphold (e.g. a channel with zero delay would
// let a put and a same-cycle get race, which a Channel must never allow).
func (c RunConfig) Validate() error {
	switch c.Topology {
	case "ring":
		if c.Terminals < 1 {
			return fmt.Errorf("netsim: ring topology needs terminals >= 1, got %d", c.Terminals)
		}
	case "torus":
		if c.TorusK < 2 || c.TorusR < 1 {
			return fmt.Errorf("netsim: torus topology needs torus_k >= 2 and torus_r >= 1, got k=%d r=%d", c.TorusK, c.TorusR)
		}
		if want := pow(c.TorusK, c.TorusR); c.Terminals != want {
			return fmt.Errorf("netsim: torus_k=%d torus_r=%d needs terminals = %d (one per router), got %d", c.TorusK, c.TorusR, want, c.Terminals)
		}
	default:
		return fmt.Errorf("netsim: unknown topology %q (want \"ring\" or \"torus\")", c.Topology)
	}
	if c.ChannelDelay < 1 {
		return fmt.Errorf("netsim: channel_delay must be >= 1, got %d", c.ChannelDelay)
	}
	if c.InputBufSize < 1 {
		return fmt.Errorf("netsim: input_buf_size must be >= 1, got %d", c.InputBufSize)
	}
	if c.PacketSize < 1 {
		return fmt.Errorf("netsim: packet_size must be >= 1, got %d", c.PacketSize)
	}
	if !IsValidTraceLevel(c.TraceLevel) {
		return fmt.Errorf("netsim: unknown trace_level %q", c.TraceLevel)
	}
	return nil
}
