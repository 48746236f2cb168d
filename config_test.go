package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunConfigValidate(t *testing.T) {
	cfg := &RunConfig{Timeout: 30 * time.Second, MaxAttempts: 4, DataDir: "./data", OutDir: "."}
	require.NoError(t, cfg.Validate())

	bad := *cfg
	bad.Timeout = 0
	require.Error(t, bad.Validate())

	bad = *cfg
	bad.MaxAttempts = 0
	require.Error(t, bad.Validate())

	bad = *cfg
	bad.DataDir = ""
	require.Error(t, bad.Validate())

	bad = *cfg
	bad.OutDir = ""
	require.Error(t, bad.Validate())
}

func TestBindEnvOnlyFillsUnseenFlags(t *testing.T) {
	t.Setenv("SCHED_DATA_DIR", "/from/env")
	t.Setenv("SCHED_SEED", "42")

	cfg := &RunConfig{Timeout: time.Second, MaxAttempts: 1, DataDir: "./flag-set", OutDir: "."}
	flagsSeen := map[string]bool{"data-dir": true}

	bindEnv(cfg, flagsSeen)

	require.Equal(t, "./flag-set", cfg.DataDir, "an explicit flag must never be overridden by the environment")
	require.Equal(t, int64(42), cfg.Seed, "an unset flag may be filled in from the environment")
}
