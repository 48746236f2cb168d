package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/collegesched/scheduler/internal/errs"
)

// RunConfig is the immutable, CLI/env-derived parameter bundle threaded
// through every stage of a single invocation (§3, §9 Design Notes: "immutable
// snapshots passed between stages" rather than a mutable global generator
// object).
type RunConfig struct {
	Mock         bool
	Profile      Profile
	Overrides    ToggleOverrides
	Reduced      bool
	Timeout      time.Duration
	Adaptive     bool
	MaxAttempts  int
	Staggered    bool
	NoExpertise  bool
	Seed         int64
	DataDir      string
	OutDir       string
}

// bindEnv overlays environment variables onto cfg for any field whose flag
// the user did not set explicitly. An explicit flag always wins (P12):
// this only ever supplies a default, never overrides a value the user typed.
func bindEnv(cfg *RunConfig, flagsSeen map[string]bool) *RunConfig {
	v := viper.New()
	v.SetEnvPrefix("SCHED")
	v.AutomaticEnv()

	if !flagsSeen["data-dir"] {
		if s := v.GetString("DATA_DIR"); s != "" {
			cfg.DataDir = s
		}
	}
	if !flagsSeen["out-dir"] {
		if s := v.GetString("OUT_DIR"); s != "" {
			cfg.OutDir = s
		}
	}
	if !flagsSeen["timeout"] {
		if d := v.GetDuration("TIMEOUT"); d > 0 {
			cfg.Timeout = d
		}
	}
	if !flagsSeen["seed"] {
		if s := v.GetInt64("SEED"); s != 0 {
			cfg.Seed = s
		}
	}
	if !flagsSeen["max-attempts"] {
		if n := v.GetInt("MAX_ATTEMPTS"); n > 0 {
			cfg.MaxAttempts = n
		}
	}
	return cfg
}

// Validate rejects a RunConfig that cannot drive a meaningful run.
func (cfg *RunConfig) Validate() *errs.Error {
	if cfg.Timeout <= 0 {
		return errs.New(errs.ConfigInvalid, "timeout must be > 0")
	}
	if cfg.MaxAttempts < 1 {
		return errs.New(errs.ConfigInvalid, "max-attempts must be >= 1")
	}
	if cfg.DataDir == "" {
		return errs.New(errs.ConfigInvalid, "data-dir must not be empty")
	}
	if cfg.OutDir == "" {
		return errs.New(errs.ConfigInvalid, "out-dir must not be empty")
	}
	return nil
}
