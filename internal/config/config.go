// Package config provides YAML-based configuration loading for Chromatic.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/core"
)

// Config contains all configuration for Chromatic.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Storage    StorageConfig    `yaml:"storage"`
	Puzzles    PuzzlesConfig    `yaml:"puzzles"`
	Log        LogConfig        `yaml:"log"`
	UI         UIConfig         `yaml:"ui"`
	SSH        SSHConfig        `yaml:"ssh"`
	Web        WebConfig        `yaml:"web"`
}

// SimulationConfig defines simulator timing.
type SimulationConfig struct {
	StepMs      int `yaml:"step_ms"`       // Wall time per simulation step
	LeakDelayMs int `yaml:"leak_delay_ms"` // Delay before a leak is shown
	MaxSteps    int `yaml:"max_steps"`     // Cap for headless runs
}

// StorageConfig defines where progress is kept.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// PuzzlesConfig selects the puzzle pack.
type PuzzlesConfig struct {
	Dir string `yaml:"dir"` // Empty uses the embedded pack
}

// LogConfig defines logging parameters.
type LogConfig struct {
	Level string `yaml:"level"`
}

// UIConfig defines terminal UI parameters.
type UIConfig struct {
	TickRate int `yaml:"tick_rate"` // Frames per second
}

// SSHConfig defines SSH server parameters.
type SSHConfig struct {
	Address        string `yaml:"address"`
	HostKey        string `yaml:"host_key"`
	IdleTimeoutMin int    `yaml:"idle_timeout_min"`
	MaxSessions    int    `yaml:"max_sessions"` // 0 is unlimited
}

// WebConfig defines the spectator server parameters.
type WebConfig struct {
	Address string `yaml:"address"`
}

// SimOptions converts the simulation section to engine options.
func (c Config) SimOptions() core.Options {
	return core.Options{
		StepDuration: time.Duration(c.Simulation.StepMs) * time.Millisecond,
		LeakDelay:    time.Duration(c.Simulation.LeakDelayMs) * time.Millisecond,
	}
}

// IdleTimeout returns the SSH idle timeout.
func (c Config) IdleTimeout() time.Duration {
	return time.Duration(c.SSH.IdleTimeoutMin) * time.Minute
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	var errs []error
	if c.Simulation.StepMs <= 0 {
		errs = append(errs, fmt.Errorf("simulation.step_ms must be positive, got %d", c.Simulation.StepMs))
	}
	if c.Simulation.LeakDelayMs < 0 {
		errs = append(errs, fmt.Errorf("simulation.leak_delay_ms must not be negative, got %d", c.Simulation.LeakDelayMs))
	}
	if c.Simulation.MaxSteps <= 0 {
		errs = append(errs, fmt.Errorf("simulation.max_steps must be positive, got %d", c.Simulation.MaxSteps))
	}
	if c.SSH.MaxSessions < 0 {
		errs = append(errs, fmt.Errorf("ssh.max_sessions must not be negative, got %d", c.SSH.MaxSessions))
	}
	if c.UI.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("ui.tick_rate must be positive, got %d", c.UI.TickRate))
	}
	return errors.Join(errs...)
}
