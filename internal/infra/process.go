// Package infra implements infrastructure concerns (process table, filesystem,
// platform registry, process creation).
package infra

import (
	"strings"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/winterwar/wwlauncher/internal/domain"
)

// ProcessManagerImpl implements domain.ProcessManager using gopsutil.
type ProcessManagerImpl struct {
	list func() ([]*process.Process, error)
}

// NewProcessManager creates a new process manager.
func NewProcessManager() domain.ProcessManager {
	return &ProcessManagerImpl{list: process.Processes}
}

// FindByName returns PIDs of processes named name (case-insensitive).
func (pm *ProcessManagerImpl) FindByName(name string) ([]int, error) {
	procs, err := pm.list()
	if err != nil {
		return nil, err
	}

	var found []int
	for _, p := range procs {
		pname, err := p.Name()
		if err != nil {
			continue // Process may have exited
		}
		if matchesProcessName(pname, name) {
			found = append(found, int(p.Pid))
		}
	}

	return found, nil
}

// IsRunningByName reports whether a process named name is in the process table.
func (pm *ProcessManagerImpl) IsRunningByName(name string) (bool, error) {
	pids, err := pm.FindByName(name)
	if err != nil {
		return false, err
	}
	return len(pids) > 0, nil
}

// matchesProcessName compares process names case-insensitively. Linux
// truncates comm to 15 bytes, so a truncated prefix of want also matches.
func matchesProcessName(got, want string) bool {
	if strings.EqualFold(got, want) {
		return true
	}
	const commLen = 15
	return len(got) == commLen && len(want) > commLen &&
		strings.EqualFold(got, want[:commLen])
}

// Ensure ProcessManagerImpl implements domain.ProcessManager.
var _ domain.ProcessManager = (*ProcessManagerImpl)(nil)
