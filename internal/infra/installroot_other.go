//go:build !windows

package infra

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/winterwar/wwlauncher/internal/domain"
)

// DirInstallRoot finds the Steam install root among the directories the
// Steam client itself creates on Linux and macOS.
type DirInstallRoot struct {
	candidates []string
}

// NewInstallRootSource creates the platform install-root source.
func NewInstallRootSource() domain.InstallRootSource {
	home, _ := os.UserHomeDir()
	return NewDirInstallRoot(
		filepath.Join(home, ".steam", "steam"),
		filepath.Join(xdg.DataHome, "Steam"),
		filepath.Join(home, "Library", "Application Support", "Steam"),
	)
}

// NewDirInstallRoot creates a source probing the given dirs in order (for testing).
func NewDirInstallRoot(candidates ...string) *DirInstallRoot {
	return &DirInstallRoot{candidates: candidates}
}

// InstallRoot returns the first existing candidate directory.
func (d *DirInstallRoot) InstallRoot() (string, bool, error) {
	for _, c := range d.candidates {
		info, err := os.Stat(c)
		if err == nil && info.IsDir() {
			return c, true, nil
		}
	}
	return "", false, nil
}

// Ensure DirInstallRoot implements domain.InstallRootSource.
var _ domain.InstallRootSource = (*DirInstallRoot)(nil)
