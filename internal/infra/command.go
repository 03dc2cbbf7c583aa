package infra

import (
	"bytes"
	"context"
	"os/exec"
	"sync"

	"github.com/winterwar/wwlauncher/internal/domain"
)

// ExecCommandStarter implements domain.CommandStarter with os/exec.
// Started processes are not bound to ctx: the host application must
// outlive the launcher.
type ExecCommandStarter struct{}

// NewCommandStarter creates a command starter.
func NewCommandStarter() domain.CommandStarter {
	return &ExecCommandStarter{}
}

// Start creates the process and returns without waiting for it.
func (s *ExecCommandStarter) Start(ctx context.Context, spec domain.CommandSpec) (domain.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmd := exec.Command(spec.Name, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Stdin = nil
	h := &execHandle{cmd: cmd}
	cmd.Stdout = &h.stdout
	cmd.Stderr = &h.stderr

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return h, nil
}

type execHandle struct {
	cmd    *exec.Cmd
	stdout bytes.Buffer
	stderr bytes.Buffer

	once sync.Once
	err  error
}

func (h *execHandle) Pid() int {
	if h.cmd.Process == nil {
		return 0
	}
	return h.cmd.Process.Pid
}

func (h *execHandle) Wait() ([]byte, []byte, error) {
	h.once.Do(func() { h.err = h.cmd.Wait() })
	return h.stdout.Bytes(), h.stderr.Bytes(), h.err
}

// Ensure ExecCommandStarter implements domain.CommandStarter.
var _ domain.CommandStarter = (*ExecCommandStarter)(nil)
