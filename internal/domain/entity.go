// Package domain contains core launcher entities and interfaces.
// This is the innermost layer - no external dependencies.
package domain

import "time"

// Rule identifies why a path was picked up for purging.
type Rule string

const (
	RuleMarker         Rule = "marker"          // top-level cache dir holding the package marker
	RuleWorkshopID     Rule = "workshop-id"     // cache dir named after the workshop id
	RulePublishedAudio Rule = "published-audio" // generated audio under Published
	RuleLocalization   Rule = "localization"
	RuleOverrideConfig Rule = "override-config"
)

// CandidatePath is a filesystem location scheduled for removal.
type CandidatePath struct {
	Path  string
	Rule  Rule
	IsDir bool
}

// PurgeOutcome is the per-path result kind.
type PurgeOutcome string

const (
	PurgeRemoved PurgeOutcome = "removed"
	PurgeSkipped PurgeOutcome = "skipped" // dry run
	PurgeFailed  PurgeOutcome = "failed"
)

// PurgeResult captures what happened to one candidate.
type PurgeResult struct {
	Candidate CandidatePath
	Outcome   PurgeOutcome
	Reason    error // set when Outcome is PurgeFailed
}

// PurgeSummary aggregates a purge batch. It is never persisted.
type PurgeSummary struct {
	Results    []PurgeResult
	Removed    int
	Skipped    int
	Failed     int
	Warnings   []error
	DryRun     bool
	ExecutedAt time.Time
	DurationMs int64
}

// Failures returns the results that could not be removed.
func (s PurgeSummary) Failures() []PurgeResult {
	var out []PurgeResult
	for _, r := range s.Results {
		if r.Outcome == PurgeFailed {
			out = append(out, r)
		}
	}
	return out
}

// ProcessState is the watcher's view of the host process.
type ProcessState string

const (
	StateNotStarted ProcessState = "not_started"
	StateRunning    ProcessState = "running"
	StateExited     ProcessState = "exited"
)

// CanTransition reports whether moving from s to next is allowed.
// States only ever move forward: not_started -> running -> exited.
func (s ProcessState) CanTransition(next ProcessState) bool {
	switch s {
	case StateNotStarted:
		return next == StateRunning
	case StateRunning:
		return next == StateExited
	default:
		return false
	}
}

// Transition records one state change observed by the watcher.
type Transition struct {
	From ProcessState
	To   ProcessState
	At   time.Time
}

// Completion is the single signal a watcher hands to its controller.
type Completion struct {
	Final       ProcessState
	Transitions []Transition
	Cancelled   bool
}

// Resolution is the located host executable and the strategy that found it.
type Resolution struct {
	Path     string
	Strategy string
	Tried    []string
}

// LaunchAttemptOutcome is the result kind of one launch strategy.
type LaunchAttemptOutcome string

const (
	AttemptStarted LaunchAttemptOutcome = "started"
	AttemptFailed  LaunchAttemptOutcome = "failed"
	AttemptSkipped LaunchAttemptOutcome = "skipped" // dry run
)

// LaunchAttempt is an ordered diagnostic record of one strategy.
type LaunchAttempt struct {
	Strategy string
	Command  string
	Outcome  LaunchAttemptOutcome
	Err      error
}

// LaunchOutcome lists every attempt made by the launch chain.
type LaunchOutcome struct {
	Attempts []LaunchAttempt
	Strategy string // strategy that started the host, empty if none
	DryRun   bool
}

// Succeeded reports whether some strategy started the host application.
func (o LaunchOutcome) Succeeded() bool {
	return o.Strategy != ""
}

// CommandSpec describes a process to spawn.
type CommandSpec struct {
	Name string
	Args []string
	Dir  string
}
