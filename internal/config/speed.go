package config

// SpeedPreset represents a named simulation speed.
type SpeedPreset string

const (
	SpeedSlow   SpeedPreset = "slow"
	SpeedNormal SpeedPreset = "normal"
	SpeedFast   SpeedPreset = "fast"
)

// StepMsForPreset returns the step_ms for a speed preset.
func StepMsForPreset(preset SpeedPreset) int {
	switch preset {
	case SpeedSlow:
		return 1200
	case SpeedFast:
		return 200
	default:
		return 600
	}
}

// ApplySpeedPreset modifies the config based on a speed preset.
// An empty preset leaves the config unchanged.
func ApplySpeedPreset(cfg *Config, preset SpeedPreset) {
	if preset == "" {
		return
	}
	cfg.Simulation.StepMs = StepMsForPreset(preset)
	cfg.Simulation.LeakDelayMs = cfg.Simulation.StepMs / 4
}
