package infra

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/winterwar/wwlauncher/internal/domain"
)

// FileSystemManagerImpl implements domain.FileSystemManager.
type FileSystemManagerImpl struct {
	caseInsensitive bool
}

// NewFileSystemManager creates a new filesystem manager.
func NewFileSystemManager() domain.FileSystemManager {
	return &FileSystemManagerImpl{caseInsensitive: runtime.GOOS == "windows"}
}

// Exists checks if a path exists.
func (fm *FileSystemManagerImpl) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Stat returns file info for path.
func (fm *FileSystemManagerImpl) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Delete removes a file or directory recursively.
// Symlinks are unlinked, never followed.
func (fm *FileSystemManagerImpl) Delete(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return os.RemoveAll(path)
	}
	return os.Remove(path)
}

// Canonical returns an absolute, cleaned, symlink-resolved path. Paths that
// cannot be resolved fall back to their cleaned absolute form.
func (fm *FileSystemManagerImpl) Canonical(path string) string {
	p := path
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		p = resolved
	}
	p = filepath.Clean(p)
	if fm.caseInsensitive {
		p = strings.ToLower(p)
	}
	return p
}

// Walk walks the tree rooted at root. A root that is a symlink or junction
// is followed; visited paths are reported under root as given.
func (fm *FileSystemManagerImpl) Walk(root string, fn fs.WalkDirFunc) error {
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil || resolved == root {
		return filepath.WalkDir(root, fn)
	}
	return filepath.WalkDir(resolved, func(path string, d fs.DirEntry, err error) error {
		if rel, relErr := filepath.Rel(resolved, path); relErr == nil {
			path = filepath.Join(root, rel)
		}
		return fn(path, d, err)
	})
}

// Ensure FileSystemManagerImpl implements domain.FileSystemManager.
var _ domain.FileSystemManager = (*FileSystemManagerImpl)(nil)
