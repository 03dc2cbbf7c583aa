package infra

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/winterwar/wwlauncher/internal/domain"
)

// DocumentsDir returns the user's documents directory (My Documents on
// Windows, XDG_DOCUMENTS_DIR elsewhere).
func DocumentsDir() (string, error) {
	dir := xdg.UserDirs.Documents
	if dir == "" {
		return "", domain.NewError(domain.KindDataRootNotFound,
			"user documents directory not found", nil)
	}
	return dir, nil
}

// ExecutableDir returns the directory of the running binary.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultServerRoot returns the server installation root for a launcher
// placed in <root>/Binaries/Win64.
func DefaultServerRoot() (string, error) {
	dir, err := ExecutableDir()
	if err != nil {
		return "", domain.NewError(domain.KindDataRootNotFound,
			"server root not found", err)
	}
	return filepath.Clean(filepath.Join(dir, "..", "..")), nil
}
