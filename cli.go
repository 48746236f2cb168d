// +build !wasm

package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/collegesched/scheduler/internal/errs"
)

var (
	flagMock        bool
	flagRelaxed     bool
	flagBalanced    bool
	flagHybrid      bool
	flagReal        bool
	flagReduced     bool
	flagTimeout     time.Duration
	flagAdaptive    bool
	flagMaxAttempts int
	flagStaggered   bool
	flagNoExpertise bool
	flagSeed        int64
	flagDataDir     string
	flagOutDir      string
	flagVerbose     bool
)

// newRootCommand builds the cobra command tree (§4.10): a root "schedule"
// command with "generate", "show", "byteacher", and "bydept" subcommands,
// each parsing the §6 flag surface. Grounded on the source's cmdSchedule
// tree in the original cli.go, generalized from single-purpose scheduling
// flags to the profile/reduction/adaptive surface this solver needs.
func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "schedule",
		Short: "Constraint-based academic timetable scheduler",
		Long:  "A tool to generate and inspect college course timetables under a constraint solver.",
	}

	addCommonFlags := func(cmd *cobra.Command) {
		cmd.Flags().BoolVar(&flagMock, "mock", false, "use a small built-in catalog instead of reading data-dir")
		cmd.Flags().BoolVar(&flagRelaxed, "relaxed", false, "use the relaxed strictness profile")
		cmd.Flags().BoolVar(&flagBalanced, "balanced", false, "use the balanced strictness profile (default)")
		cmd.Flags().BoolVar(&flagHybrid, "hybrid", false, "use the hybrid strictness profile")
		cmd.Flags().BoolVar(&flagReal, "real", false, "use the real strictness profile")
		cmd.Flags().BoolVar(&flagReduced, "reduced", false, "cap catalog size for a tractable test run")
		cmd.MarkFlagsMutuallyExclusive("relaxed", "balanced", "hybrid", "real")
		cmd.Flags().DurationVar(&flagTimeout, "timeout", 600*time.Second, "per-attempt solver wall-clock budget")
		cmd.Flags().BoolVar(&flagAdaptive, "adaptive", false, "relax the profile and retry on infeasibility")
		cmd.Flags().IntVar(&flagMaxAttempts, "max-attempts", 3, "maximum solver attempts under --adaptive")
		cmd.Flags().BoolVar(&flagStaggered, "staggered", false, "apply the stagger-cap constraint and objective bonus")
		cmd.Flags().BoolVar(&flagNoExpertise, "no-expertise", false, "clear prior expertise and assignments, then re-synthesize them")
		cmd.Flags().Int64Var(&flagSeed, "seed", 0, "random seed for expertise induction (default: derived at startup)")
		cmd.Flags().StringVar(&flagDataDir, "data-dir", "./data", "directory holding the catalog CSVs")
		cmd.Flags().StringVar(&flagOutDir, "out-dir", ".", "directory to write timetable CSVs into")
		cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "enable debug-level logging")
	}

	cmdGenerate := &cobra.Command{
		Use:   "generate",
		Short: "generate a timetable and write it to out-dir",
		RunE:  runGenerate,
	}
	addCommonFlags(cmdGenerate)
	root.AddCommand(cmdGenerate)

	cmdShow := &cobra.Command{
		Use:   "show",
		Short: "generate a timetable and print the master table to stdout",
		RunE:  runShow,
	}
	addCommonFlags(cmdShow)
	root.AddCommand(cmdShow)

	cmdByTeacher := &cobra.Command{
		Use:   "byteacher",
		Short: "generate a timetable and print it grouped by teacher",
		RunE:  runByTeacher,
	}
	addCommonFlags(cmdByTeacher)
	root.AddCommand(cmdByTeacher)

	cmdByDept := &cobra.Command{
		Use:   "bydept",
		Short: "generate a timetable and print it grouped by department",
		RunE:  runByDept,
	}
	addCommonFlags(cmdByDept)
	root.AddCommand(cmdByDept)

	return root
}

// Execute builds the root command and runs it, returning the process exit
// code to use (§4.12): recoverable stages log a warning and continue, while
// a fatal *errs.Error maps through Code.ExitCode().
func Execute() int {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		var e *errs.Error
		if errs.As(err, &e) {
			return e.Code.ExitCode()
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func resolveProfile() Profile {
	switch {
	case flagReal:
		return ProfileReal
	case flagHybrid:
		return ProfileHybrid
	case flagRelaxed:
		return ProfileRelaxed
	default:
		return ProfileBalanced
	}
}

func buildConfig(cmd *cobra.Command) *RunConfig {
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	cfg := &RunConfig{
		Mock:        flagMock,
		Profile:     resolveProfile(),
		Reduced:     flagReduced,
		Timeout:     flagTimeout,
		Adaptive:    flagAdaptive,
		MaxAttempts: flagMaxAttempts,
		Staggered:   flagStaggered,
		NoExpertise: flagNoExpertise,
		Seed:        seed,
		DataDir:     flagDataDir,
		OutDir:      flagOutDir,
	}
	return bindEnv(cfg, seenFlags(cmd))
}

// seenFlags reports which flags the user set explicitly, so bindEnv only
// ever supplies a default and never overrides an explicit flag (P12).
func seenFlags(cmd *cobra.Command) map[string]bool {
	seen := make(map[string]bool)
	cmd.Flags().Visit(func(f *pflag.Flag) { seen[f.Name] = true })
	return seen
}

func run(cmd *cobra.Command, after func([]ScheduleEntry, *ReducedCatalog) error) error {
	logger, logErr := newLogger(flagVerbose)
	if logErr != nil {
		return logErr
	}
	defer logger.Sync()

	cfg := buildConfig(cmd)
	if verr := cfg.Validate(); verr != nil {
		logger.Error("invalid configuration", zap.Error(verr))
		return verr
	}
	logger.Info("starting run", zap.String("profile", cfg.Profile.String()), zap.Int64("seed", cfg.Seed))

	cat, lerr := LoadCatalog(cfg, logger)
	if lerr != nil {
		logger.Error("catalog load failed", zap.Error(lerr))
		return lerr
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	InduceExpertise(cat, rng, cfg.NoExpertise, logger)

	rc := Reduce(cat, cfg.Reduced, logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout*time.Duration(cfg.MaxAttempts)+time.Second)
	defer cancel()

	arena, result, profile, derr := DriveSolver(ctx, rc, cfg, logger)
	if derr != nil {
		if derr.Code == errs.ModelEmpty {
			logger.Warn("no decision variables after reduction; producing an empty schedule", zap.Error(derr))
			return after(nil, rc)
		}
		logger.Error("solver did not find a feasible timetable", zap.Error(derr))
		return derr
	}
	logger.Info("solved", zap.String("final_profile", profile.String()))

	entries := Materialize(rc, arena, result)
	return after(entries, rc)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	return run(cmd, func(entries []ScheduleEntry, rc *ReducedCatalog) error {
		writer := NewTableWriter(flagOutDir)
		if err := EmitAll(writer, entries, rc); err != nil {
			return err
		}
		fmt.Printf("wrote %d placements to %s\n", len(entries), flagOutDir)
		return nil
	})
}

func runShow(cmd *cobra.Command, args []string) error {
	return run(cmd, func(entries []ScheduleEntry, rc *ReducedCatalog) error {
		printMaster(entries)
		return nil
	})
}

func runByTeacher(cmd *cobra.Command, args []string) error {
	return run(cmd, func(entries []ScheduleEntry, rc *ReducedCatalog) error {
		printGrouped(entries, func(e ScheduleEntry) string { return e.TeacherID })
		return nil
	})
}

func runByDept(cmd *cobra.Command, args []string) error {
	return run(cmd, func(entries []ScheduleEntry, rc *ReducedCatalog) error {
		printGrouped(entries, func(e ScheduleEntry) string { return e.DeptName })
		return nil
	})
}

func printMaster(entries []ScheduleEntry) {
	for _, e := range entries {
		fmt.Printf("%-10s slot %-3d %-10s  %-10s %-10s %-10s %s\n",
			e.Day, e.Slot, e.TimeText, e.CourseID, e.TeacherID, e.DeptName, e.RoomID)
	}
}

func printGrouped(entries []ScheduleEntry, keyOf func(ScheduleEntry) string) {
	grouped := make(map[string][]ScheduleEntry)
	var order []string
	for _, e := range entries {
		key := keyOf(e)
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], e)
	}
	for _, key := range order {
		fmt.Printf("=== %s ===\n", key)
		printMaster(grouped[key])
	}
}
