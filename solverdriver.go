package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/collegesched/scheduler/internal/engine"
	"github.com/collegesched/scheduler/internal/errs"
)

// DriveSolver runs the Solver Driver (§4.6): builds a fresh model at the
// configured profile, solves it under the configured wall-clock budget, and
// in adaptive mode retries with the next-looser profile on the lattice walk
// real -> hybrid -> balanced -> relaxed until a feasible solution is found or
// max-attempts is exhausted. Each retry rebuilds the model from scratch,
// which is how the previous attempt is implicitly cancelled (§5).
func DriveSolver(ctx context.Context, rc *ReducedCatalog, cfg *RunConfig, logger *zap.Logger) (*Arena, engine.Result, Profile, *errs.Error) {
	profile := cfg.Profile

	for attempt := 1; ; attempt++ {
		logger.Info("building constraint model", zap.String("profile", profile.String()), zap.Int("attempt", attempt))

		m, arena, buildErr := BuildModel(rc, profile, cfg.Overrides, cfg.Staggered, logger)
		if buildErr != nil {
			return nil, nil, profile, buildErr
		}

		ShapeObjective(m, arena, rc, cfg.Staggered)

		result, err := m.SolveWithTimeout(ctx, cfg.Timeout)
		if err != nil {
			return nil, nil, profile, errs.Wrap(err, errs.Infeasible, "solver invocation failed")
		}

		switch result.Status() {
		case engine.StatusOptimal, engine.StatusFeasible:
			logger.Info("feasible schedule found", zap.String("profile", profile.String()), zap.Int("attempt", attempt))
			return arena, result, profile, nil
		}

		code := errs.Infeasible
		message := "no feasible timetable under profile " + profile.String()
		if result.Status() == engine.StatusTimeout {
			code = errs.Timeout
			message = "solver timed out under profile " + profile.String()
		}

		if !cfg.Adaptive || attempt >= cfg.MaxAttempts {
			hint := message + "; try --adaptive, a looser profile, or a longer --timeout"
			return nil, nil, profile, errs.New(code, hint)
		}

		next, ok := profile.Relax()
		if !ok {
			return nil, nil, profile, errs.New(code, message+"; already at the most relaxed profile")
		}
		logger.Warn("relaxing profile after solver failure", zap.String("from", profile.String()), zap.String("to", next.String()))
		profile = next
	}
}
