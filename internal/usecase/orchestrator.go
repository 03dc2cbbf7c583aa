package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/winterwar/wwlauncher/internal/domain"
)

// Launcher starts the host application.
type Launcher interface {
	Launch(ctx context.Context, res domain.Resolution, opts LaunchOptions) (domain.LaunchOutcome, error)
}

// LauncherFactory builds the launch chain once the executable is known.
type LauncherFactory func(res domain.Resolution) Launcher

// RunOptions controls one orchestrated run.
type RunOptions struct {
	DryRun bool
	Launch LaunchOptions
	// PurgeOnly stops after the purge stage (dedicated servers).
	PurgeOnly bool
}

// RunReport collects every stage's result for the caller.
type RunReport struct {
	Candidates []domain.CandidatePath
	Purge      domain.PurgeSummary
	Resolution *domain.Resolution
	Launch     *domain.LaunchOutcome
	StartedAt  time.Time
	DurationMs int64
}

// Orchestrator runs scan -> purge -> resolve -> launch in strict order.
type Orchestrator struct {
	scanner     domain.Scanner
	purger      domain.Purger
	resolver    domain.Resolver
	newLauncher LauncherFactory
	logger      *zap.Logger
}

// NewOrchestrator wires the stages. resolver and newLauncher may be nil
// for purge-only runs.
func NewOrchestrator(
	scanner domain.Scanner,
	purger domain.Purger,
	resolver domain.Resolver,
	newLauncher LauncherFactory,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		scanner:     scanner,
		purger:      purger,
		resolver:    resolver,
		newLauncher: newLauncher,
		logger:      logger,
	}
}

// Run executes the pipeline. Purge failures are warnings in the report;
// a resolver failure aborts before any launch attempt. Run returns once a
// launch request was issued, not when the host exits.
func (o *Orchestrator) Run(ctx context.Context, opts RunOptions) (*RunReport, error) {
	start := time.Now()
	report := &RunReport{StartedAt: start}
	defer func() { report.DurationMs = time.Since(start).Milliseconds() }()

	candidates, err := o.scanner.Scan(ctx)
	if err != nil {
		return report, fmt.Errorf("artifact scan failed: %w", err)
	}
	report.Candidates = candidates

	count := len(candidates)
	o.logger.Info(fmt.Sprintf("found %d Winter War artifact%s", count, plural(count)))

	report.Purge = o.purger.Purge(ctx, candidates, opts.DryRun)
	for _, w := range report.Purge.Warnings {
		o.logger.Warn("purge warning", zap.Error(w))
	}

	if opts.PurgeOnly {
		o.logger.Info("done")
		return report, nil
	}
	if o.resolver == nil || o.newLauncher == nil {
		return report, fmt.Errorf("launch stage not configured")
	}

	res, err := o.resolver.Resolve(ctx)
	if err != nil {
		return report, err
	}
	report.Resolution = &res

	launchOpts := opts.Launch
	launchOpts.DryRun = opts.DryRun || launchOpts.DryRun
	outcome, err := o.newLauncher(res).Launch(ctx, res, launchOpts)
	report.Launch = &outcome
	if err != nil {
		return report, err
	}
	return report, nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
