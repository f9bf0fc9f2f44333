package config

// Replay is the configuration of the dcore replay tool.
type Replay struct {
	Audit Audit
	Log   Log
}

// Audit configures where the audit log is kept.
type Audit struct {
	// Disabled drops audit entries instead of storing them.
	Disabled bool
}

// Log configures the go-log subsystems.
type Log struct {
	Level string
}

// DefaultReplay returns the default config.
func DefaultReplay() *Replay {
	return &Replay{
		Log: Log{
			Level: "info",
		},
	}
}
