package usecase

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/winterwar/wwlauncher/internal/domain"
)

// fakeFileInfo implements fs.FileInfo for the in-memory filesystem
type fakeFileInfo struct {
	name  string
	isDir bool
}

func (f fakeFileInfo) Name() string       { return f.name }
func (f fakeFileInfo) Size() int64        { return 0 }
func (f fakeFileInfo) Mode() fs.FileMode  { return 0o644 }
func (f fakeFileInfo) ModTime() time.Time { return time.Time{} }
func (f fakeFileInfo) IsDir() bool        { return f.isDir }
func (f fakeFileInfo) Sys() any           { return nil }

// mockFileSystemManager implements domain.FileSystemManager for testing.
// entries maps a path to whether it is a directory.
type mockFileSystemManager struct {
	entries      map[string]bool
	deleteErrs   map[string]error
	deletedPaths []string
	statCalls    []string
}

func newMockFS(entries map[string]bool) *mockFileSystemManager {
	if entries == nil {
		entries = map[string]bool{}
	}
	return &mockFileSystemManager{entries: entries, deleteErrs: map[string]error{}}
}

func (m *mockFileSystemManager) Exists(path string) bool {
	_, ok := m.entries[path]
	return ok
}

func (m *mockFileSystemManager) Stat(path string) (fs.FileInfo, error) {
	m.statCalls = append(m.statCalls, path)
	isDir, ok := m.entries[path]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
	}
	return fakeFileInfo{name: filepath.Base(path), isDir: isDir}, nil
}

func (m *mockFileSystemManager) Delete(path string) error {
	if err := m.deleteErrs[path]; err != nil {
		return err
	}
	m.deletedPaths = append(m.deletedPaths, path)
	delete(m.entries, path)
	return nil
}

func (m *mockFileSystemManager) Canonical(path string) string {
	return filepath.Clean(path)
}

func (m *mockFileSystemManager) Walk(root string, fn fs.WalkDirFunc) error {
	return nil
}

// mockInstallRoot implements domain.InstallRootSource for testing
type mockInstallRoot struct {
	root  string
	ok    bool
	err   error
	calls int
}

func (m *mockInstallRoot) InstallRoot() (string, bool, error) {
	m.calls++
	return m.root, m.ok, m.err
}

// mockHandle implements domain.Handle for testing
type mockHandle struct {
	pid    int
	stdout []byte
}

func (h *mockHandle) Pid() int { return h.pid }

func (h *mockHandle) Wait() ([]byte, []byte, error) {
	return h.stdout, nil, nil
}

// mockCommandStarter implements domain.CommandStarter for testing.
// failNames makes Start fail for the given program names.
type mockCommandStarter struct {
	mu        sync.Mutex
	failNames map[string]error
	started   []domain.CommandSpec
}

func (m *mockCommandStarter) Start(ctx context.Context, spec domain.CommandSpec) (domain.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = append(m.started, spec)
	if err := m.failNames[spec.Name]; err != nil {
		return nil, err
	}
	return &mockHandle{pid: 1000 + len(m.started)}, nil
}

func (m *mockCommandStarter) calls() []domain.CommandSpec {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.CommandSpec, len(m.started))
	copy(out, m.started)
	return out
}

// mockScriptWriter implements domain.ScriptWriter for testing
type mockScriptWriter struct {
	writeErr  error
	proxyErr  error
	written   map[string][]string
	proxyPath string
}

func (m *mockScriptWriter) Write(path string, argv []string) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	if m.written == nil {
		m.written = map[string][]string{}
	}
	m.written[path] = append([]string(nil), argv...)
	return nil
}

func (m *mockScriptWriter) ProxyCommand(path string) (domain.CommandSpec, error) {
	if m.proxyErr != nil {
		return domain.CommandSpec{}, m.proxyErr
	}
	m.proxyPath = path
	return domain.CommandSpec{Name: "/bin/sh", Args: []string{path}}, nil
}

// mockScanner implements domain.Scanner for testing
type mockScanner struct {
	candidates []domain.CandidatePath
	err        error
	calls      int
}

func (m *mockScanner) Scan(ctx context.Context) ([]domain.CandidatePath, error) {
	m.calls++
	return m.candidates, m.err
}

// mockPurger implements domain.Purger for testing
type mockPurger struct {
	summary    domain.PurgeSummary
	calls      int
	lastDryRun bool
}

func (m *mockPurger) Purge(ctx context.Context, candidates []domain.CandidatePath, dryRun bool) domain.PurgeSummary {
	m.calls++
	m.lastDryRun = dryRun
	s := m.summary
	s.DryRun = dryRun
	return s
}

// mockResolver implements domain.Resolver for testing
type mockResolver struct {
	res   domain.Resolution
	err   error
	calls int
}

func (m *mockResolver) Resolve(ctx context.Context) (domain.Resolution, error) {
	m.calls++
	return m.res, m.err
}

// mockLauncher implements Launcher for testing
type mockLauncher struct {
	outcome  domain.LaunchOutcome
	err      error
	calls    int
	lastOpts LaunchOptions
}

func (m *mockLauncher) Launch(ctx context.Context, res domain.Resolution, opts LaunchOptions) (domain.LaunchOutcome, error) {
	m.calls++
	m.lastOpts = opts
	return m.outcome, m.err
}

var errPermission = &fs.PathError{Op: "remove", Path: "locked", Err: os.ErrPermission}

var errStart = errors.New("exec: executable file not found in $PATH")
