// Package catalog describes the add-on packages the launcher knows about and
// the fixed on-disk layout where their cached artifacts live.
package catalog

import "strconv"

// Host application constants (Rising Storm 2: Vietnam).
const (
	HostAppID       = 418460
	HostExecutable  = "VNGame.exe"
	BinariesDir     = "Binaries/Win64"
	SteamLibraryDir = "steamapps/common/Rising Storm 2"
)

// PackagePolicy describes one add-on package whose artifacts get purged.
type PackagePolicy interface {
	// ID returns unique identifier (e.g., "winterwar").
	ID() string

	// Name returns human-readable name for display.
	Name() string

	// MarkerFile is the file whose presence marks a cache dir as ours.
	MarkerFile() string

	// WorkshopID is the numeric workshop content identifier.
	WorkshopID() int64

	// LocalizationFile is relative to the data root.
	LocalizationFile() string

	// OverrideConfigFile is relative to the data root.
	OverrideConfigFile() string

	// PublishedAudioDir is the generated audio dir, relative to Published.
	PublishedAudioDir() string

	// ProcessName is the host process the watcher tracks.
	ProcessName() string

	// HostAppID is the platform app id used for protocol launches.
	HostAppID() int
}

// WinterWarPolicy implements PackagePolicy for Talvisota - Winter War.
type WinterWarPolicy struct{}

// NewWinterWarPolicy creates the Winter War package policy.
func NewWinterWarPolicy() *WinterWarPolicy {
	return &WinterWarPolicy{}
}

func (p *WinterWarPolicy) ID() string {
	return "winterwar"
}

func (p *WinterWarPolicy) Name() string {
	return "Talvisota - Winter War"
}

func (p *WinterWarPolicy) MarkerFile() string {
	return "WinterWar.u"
}

func (p *WinterWarPolicy) WorkshopID() int64 {
	return 1758494341
}

func (p *WinterWarPolicy) LocalizationFile() string {
	return "Localization/INT/WinterWar.int"
}

func (p *WinterWarPolicy) OverrideConfigFile() string {
	return "Config/ROGame_WinterWar.ini"
}

func (p *WinterWarPolicy) PublishedAudioDir() string {
	return "CookedPC/WwiseAudio"
}

func (p *WinterWarPolicy) ProcessName() string {
	return HostExecutable
}

func (p *WinterWarPolicy) HostAppID() int {
	return HostAppID
}

// WorkshopDirName returns the cache directory name derived from the workshop id.
func WorkshopDirName(p PackagePolicy) string {
	return strconv.FormatInt(p.WorkshopID(), 10)
}

// Ensure WinterWarPolicy implements PackagePolicy.
var _ PackagePolicy = (*WinterWarPolicy)(nil)

// StaticPolicy is a PackagePolicy built from plain values, used for
// packages described outside the built-in set (and in tests).
type StaticPolicy struct {
	PolicyID       string
	DisplayName    string
	Marker         string
	Workshop       int64
	Localization   string
	OverrideConfig string
	AudioDir       string
	Process        string
	AppID          int
}

func (p StaticPolicy) ID() string                 { return p.PolicyID }
func (p StaticPolicy) Name() string               { return p.DisplayName }
func (p StaticPolicy) MarkerFile() string         { return p.Marker }
func (p StaticPolicy) WorkshopID() int64          { return p.Workshop }
func (p StaticPolicy) LocalizationFile() string   { return p.Localization }
func (p StaticPolicy) OverrideConfigFile() string { return p.OverrideConfig }
func (p StaticPolicy) PublishedAudioDir() string  { return p.AudioDir }
func (p StaticPolicy) ProcessName() string        { return p.Process }
func (p StaticPolicy) HostAppID() int             { return p.AppID }

var _ PackagePolicy = StaticPolicy{}
