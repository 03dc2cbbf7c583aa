// Package fixtures provides test helpers for integration tests.
package fixtures

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

// FakeROGame creates a directory structure mimicking the Rising Storm 2
// ROGame data directory with a Winter War install in it.
type FakeROGame struct {
	Root       string
	WorkshopID int64
}

// NewFakeROGame creates a new fake data directory generator.
func NewFakeROGame(root string, workshopID int64) *FakeROGame {
	return &FakeROGame{Root: root, WorkshopID: workshopID}
}

// Create writes the fake data directory.
func (f *FakeROGame) Create() error {
	files := []struct{ rel, content string }{
		// Workshop download named after the workshop id
		{filepath.Join("Cache", f.workshopDir(), "WinterWar.u"), "package"},
		// Older download under an unrelated id, marker nested deeper
		{filepath.Join("Cache", "1234", "Published", "CookedPC", "WinterWar.u"), "package"},
		// Some other mod that must survive
		{filepath.Join("Cache", "9999", "OtherMod.u"), "other"},
		{filepath.Join("Published", "CookedPC", "WwiseAudio", "Windows", "ww.bnk"), "audio"},
		{filepath.Join("Localization", "INT", "WinterWar.int"), "[WinterWar]"},
		{filepath.Join("Config", "ROGame_WinterWar.ini"), "[Engine]"},
		// Base game files that must survive
		{filepath.Join("Config", "ROGame.ini"), "[Engine]"},
		{filepath.Join("Localization", "INT", "ROGame.int"), "[ROGame]"},
		{filepath.Join("Published", "CookedPC", "ROGame_Base.upk"), "base"},
	}

	for _, file := range files {
		path := filepath.Join(f.Root, file.rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(file.content), 0644); err != nil {
			return err
		}
	}

	return os.MkdirAll(filepath.Join(f.Root, "Logs"), 0755)
}

// ArtifactPaths returns the paths a purge must remove.
func (f *FakeROGame) ArtifactPaths() []string {
	return []string{
		filepath.Join(f.Root, "Cache", f.workshopDir()),
		filepath.Join(f.Root, "Cache", "1234"),
		filepath.Join(f.Root, "Published", "CookedPC", "WwiseAudio"),
		filepath.Join(f.Root, "Localization", "INT", "WinterWar.int"),
		filepath.Join(f.Root, "Config", "ROGame_WinterWar.ini"),
	}
}

// KeptPaths returns the paths a purge must leave alone.
func (f *FakeROGame) KeptPaths() []string {
	return []string{
		filepath.Join(f.Root, "Cache"),
		filepath.Join(f.Root, "Cache", "9999", "OtherMod.u"),
		filepath.Join(f.Root, "Config", "ROGame.ini"),
		filepath.Join(f.Root, "Localization", "INT", "ROGame.int"),
		filepath.Join(f.Root, "Published", "CookedPC", "ROGame_Base.upk"),
		filepath.Join(f.Root, "Logs"),
	}
}

func (f *FakeROGame) workshopDir() string {
	return strconv.FormatInt(f.WorkshopID, 10)
}

// FakeGameInstall creates a game install with a stand-in executable.
type FakeGameInstall struct {
	Dir string
}

// NewFakeGameInstall creates a new fake install generator.
func NewFakeGameInstall(dir string) *FakeGameInstall {
	return &FakeGameInstall{Dir: dir}
}

// Create writes Binaries/Win64/<exe>. On non-Windows systems the
// executable is a shell script that runs body.
func (f *FakeGameInstall) Create(exe, body string) (string, error) {
	binDir := filepath.Join(f.Dir, "Binaries", "Win64")
	if err := os.MkdirAll(binDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(binDir, exe)
	content := "#!/bin/sh\n" + body + "\n"
	if runtime.GOOS == "windows" {
		content = "fake executable"
	}
	if err := os.WriteFile(path, []byte(content), 0755); err != nil {
		return "", err
	}
	return path, nil
}
