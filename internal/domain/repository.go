package domain

import (
	"context"
	"io/fs"
)

// ProcessManager handles OS process table queries.
// Implementation: uses gopsutil for cross-platform support.
type ProcessManager interface {
	// FindByName returns PIDs of processes whose name equals name (case-insensitive).
	FindByName(name string) ([]int, error)

	// IsRunningByName reports whether any process with that name exists.
	IsRunningByName(name string) (bool, error)
}

// FileSystemManager handles filesystem operations.
type FileSystemManager interface {
	// Exists checks if a path exists.
	Exists(path string) bool

	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)

	// Delete removes a file or directory recursively.
	Delete(path string) error

	// Canonical returns a normalized absolute path used for deduplication.
	Canonical(path string) string

	// Walk walks the tree rooted at root.
	Walk(root string, fn fs.WalkDirFunc) error
}

// InstallRootSource queries the platform's record of where the game
// platform (Steam) is installed. ok is false when no record exists.
type InstallRootSource interface {
	InstallRoot() (root string, ok bool, err error)
}

// Handle is a started process.
type Handle interface {
	Pid() int
	// Wait blocks until the process exits and returns captured output.
	Wait() (stdout, stderr []byte, err error)
}

// CommandStarter creates processes without waiting for them.
type CommandStarter interface {
	Start(ctx context.Context, spec CommandSpec) (Handle, error)
}

// ScriptWriter renders an argv into an executable script file.
type ScriptWriter interface {
	// Write overwrites path with a script running argv.
	Write(path string, argv []string) error

	// ProxyCommand returns the silent command that runs the script at path.
	ProxyCommand(path string) (CommandSpec, error)
}

// Scanner discovers stale artifacts of the package.
type Scanner interface {
	Scan(ctx context.Context) ([]CandidatePath, error)
}

// Purger removes candidate paths, best effort.
type Purger interface {
	Purge(ctx context.Context, candidates []CandidatePath, dryRun bool) PurgeSummary
}

// Resolver locates the host executable.
type Resolver interface {
	Resolve(ctx context.Context) (Resolution, error)
}
