package config

import (
	_ "embed"
)

//go:embed defaults/chromatic.yaml
var defaultYAML []byte

// DefaultConfig returns the default Chromatic configuration.
func DefaultConfig() Config {
	return Config{
		Simulation: SimulationConfig{
			StepMs:      600,
			LeakDelayMs: 150,
			MaxSteps:    500,
		},
		Storage: StorageConfig{
			DBPath: "~/.chromatic/chromatic.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		UI: UIConfig{
			TickRate: 30,
		},
		SSH: SSHConfig{
			Address:        ":23235",
			IdleTimeoutMin: 30,
			MaxSessions:    32,
		},
		Web: WebConfig{
			Address: ":8085",
		},
	}
}
