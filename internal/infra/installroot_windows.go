//go:build windows

package infra

import (
	"errors"
	"path/filepath"

	"golang.org/x/sys/windows/registry"

	"github.com/winterwar/wwlauncher/internal/domain"
)

// registryValue is one place the Steam installer records its install root.
type registryValue struct {
	root registry.Key
	path string
	name string
}

var steamRegistryValues = []registryValue{
	{registry.CURRENT_USER, `Software\Valve\Steam`, "SteamPath"},
	{registry.LOCAL_MACHINE, `SOFTWARE\WOW6432Node\Valve\Steam`, "InstallPath"},
	{registry.LOCAL_MACHINE, `SOFTWARE\Valve\Steam`, "InstallPath"},
}

// RegistryInstallRoot reads the Steam install root from the Windows registry.
type RegistryInstallRoot struct {
	values []registryValue
}

// NewInstallRootSource creates the platform install-root source.
func NewInstallRootSource() domain.InstallRootSource {
	return &RegistryInstallRoot{values: steamRegistryValues}
}

// InstallRoot returns the first recorded install root. A missing key is
// not an error: ok is false.
func (r *RegistryInstallRoot) InstallRoot() (string, bool, error) {
	var lastErr error
	for _, v := range r.values {
		root, err := readStringValue(v)
		if errors.Is(err, registry.ErrNotExist) {
			continue
		}
		if err != nil {
			lastErr = err
			continue
		}
		if root != "" {
			return filepath.Clean(root), true, nil
		}
	}
	return "", false, lastErr
}

func readStringValue(v registryValue) (string, error) {
	k, err := registry.OpenKey(v.root, v.path, registry.QUERY_VALUE)
	if err != nil {
		return "", err
	}
	defer k.Close()

	s, _, err := k.GetStringValue(v.name)
	if err != nil {
		return "", err
	}
	return registry.ExpandString(s)
}

// Ensure RegistryInstallRoot implements domain.InstallRootSource.
var _ domain.InstallRootSource = (*RegistryInstallRoot)(nil)
