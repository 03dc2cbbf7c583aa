package catalog

import "path/filepath"

const (
	clientDataSubdir = "My Games/Rising Storm 2/ROGame"
	serverDataSubdir = "ROGame"
	launchLogName    = "LaunchWinterWar.log"
)

// Catalog computes the well-known artifact locations for a package under
// one data root. It is a pure function of its inputs: nothing here touches
// the filesystem, unresolvable paths are checked for existence downstream.
type Catalog struct {
	root   string
	policy PackagePolicy
}

// New creates a catalog for policy rooted at the ROGame data directory.
func New(dataRoot string, policy PackagePolicy) Catalog {
	return Catalog{root: filepath.Clean(dataRoot), policy: policy}
}

// ClientDataRoot returns the client data root under a user documents dir.
func ClientDataRoot(documentsDir string) string {
	return filepath.Join(documentsDir, filepath.FromSlash(clientDataSubdir))
}

// ServerDataRoot returns the data root of a dedicated server installation.
func ServerDataRoot(serverRoot string) string {
	return filepath.Join(serverRoot, serverDataSubdir)
}

// Root returns the data root.
func (c Catalog) Root() string { return c.root }

// Policy returns the package policy.
func (c Catalog) Policy() PackagePolicy { return c.policy }

// CacheDir holds downloaded workshop content, one top-level dir per item.
func (c Catalog) CacheDir() string {
	return filepath.Join(c.root, "Cache")
}

// PublishedDir holds cooked/published content.
func (c Catalog) PublishedDir() string {
	return filepath.Join(c.root, "Published")
}

// PublishedAudioDir holds generated audio banks not covered by the marker scan.
func (c Catalog) PublishedAudioDir() string {
	return filepath.Join(c.PublishedDir(), filepath.FromSlash(c.policy.PublishedAudioDir()))
}

// WorkshopCacheDir is the cache dir named after the workshop id.
func (c Catalog) WorkshopCacheDir() string {
	return filepath.Join(c.CacheDir(), WorkshopDirName(c.policy))
}

// LocalizationFile is the package localization file.
func (c Catalog) LocalizationFile() string {
	return filepath.Join(c.root, filepath.FromSlash(c.policy.LocalizationFile()))
}

// OverrideConfigFile is the package override configuration file.
func (c Catalog) OverrideConfigFile() string {
	return filepath.Join(c.root, filepath.FromSlash(c.policy.OverrideConfigFile()))
}

// LogsDir is the game's log directory.
func (c Catalog) LogsDir() string {
	return filepath.Join(c.root, "Logs")
}

// LaunchLogFile is where the launcher writes its own log.
func (c Catalog) LaunchLogFile() string {
	return filepath.Join(c.LogsDir(), launchLogName)
}

// Paths lists every fixed location in a stable order.
func (c Catalog) Paths() []string {
	return []string{
		c.CacheDir(),
		c.WorkshopCacheDir(),
		c.PublishedAudioDir(),
		c.LocalizationFile(),
		c.OverrideConfigFile(),
	}
}
