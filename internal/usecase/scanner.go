// Package usecase contains the launcher's business logic: artifact
// discovery, purging, executable resolution and the launch chain.
package usecase

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/winterwar/wwlauncher/internal/catalog"
	"github.com/winterwar/wwlauncher/internal/domain"
)

// ArtifactScanner implements domain.Scanner over a catalog.
type ArtifactScanner struct {
	catalog   catalog.Catalog
	fsManager domain.FileSystemManager
	logger    *zap.Logger
}

// NewArtifactScanner creates a scanner for the catalog's data root.
func NewArtifactScanner(c catalog.Catalog, fs domain.FileSystemManager, logger *zap.Logger) *ArtifactScanner {
	return &ArtifactScanner{
		catalog:   c,
		fsManager: fs,
		logger:    logger,
	}
}

// Scan returns the deduplicated set of paths to purge. A missing cache root
// is not an error.
func (s *ArtifactScanner) Scan(ctx context.Context) ([]domain.CandidatePath, error) {
	set := newCandidateSet(s.fsManager)

	if err := s.scanMarkers(ctx, set); err != nil {
		return nil, err
	}

	// Some installs carry the workshop dir without the marker file
	// (partial downloads, repackaged content).
	s.addIfExists(set, s.catalog.WorkshopCacheDir(), domain.RuleWorkshopID)
	s.addIfExists(set, s.catalog.PublishedAudioDir(), domain.RulePublishedAudio)
	s.addIfExists(set, s.catalog.LocalizationFile(), domain.RuleLocalization)
	s.addIfExists(set, s.catalog.OverrideConfigFile(), domain.RuleOverrideConfig)

	candidates := set.list()
	s.logger.Info("artifact scan finished",
		zap.String("root", s.catalog.Root()),
		zap.Int("candidates", len(candidates)))
	return candidates, nil
}

// scanMarkers walks the cache root and maps each marker file to its
// top-level directory directly under the cache root.
func (s *ArtifactScanner) scanMarkers(ctx context.Context, set *candidateSet) error {
	cacheDir := s.catalog.CacheDir()
	if !s.fsManager.Exists(cacheDir) {
		s.logger.Info("cache directory does not exist", zap.String("path", cacheDir))
		return nil
	}

	marker := s.catalog.Policy().MarkerFile()
	err := s.fsManager.Walk(cacheDir, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			s.logger.Warn("skipping unreadable cache entry",
				zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() && path != cacheDir {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.EqualFold(d.Name(), marker) {
			return nil
		}

		top, ok := topLevelDir(cacheDir, path)
		if !ok {
			s.logger.Warn("marker directly under cache root, ignoring", zap.String("path", path))
			return nil
		}
		if set.add(domain.CandidatePath{Path: top, Rule: domain.RuleMarker, IsDir: true}) {
			s.logger.Info("found package cache directory",
				zap.String("path", top), zap.String("marker", path))
		}
		return nil
	})
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		s.logger.Warn("cache walk aborted", zap.String("root", cacheDir), zap.Error(err))
	}
	return nil
}

func (s *ArtifactScanner) addIfExists(set *candidateSet, path string, rule domain.Rule) {
	info, err := s.fsManager.Stat(path)
	if err != nil {
		return
	}
	if set.add(domain.CandidatePath{Path: path, Rule: rule, IsDir: info.IsDir()}) {
		s.logger.Info("found artifact", zap.String("path", path), zap.String("rule", string(rule)))
	}
}

// topLevelDir returns the first path element of path below root.
func topLevelDir(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) < 2 {
		return "", false
	}
	return filepath.Join(root, parts[0]), true
}

// candidateSet deduplicates candidates by canonical path; the first rule
// to produce a path wins.
type candidateSet struct {
	fsManager domain.FileSystemManager
	seen      map[string]struct{}
	items     []domain.CandidatePath
}

func newCandidateSet(fs domain.FileSystemManager) *candidateSet {
	return &candidateSet{fsManager: fs, seen: make(map[string]struct{})}
}

func (c *candidateSet) add(p domain.CandidatePath) bool {
	key := c.fsManager.Canonical(p.Path)
	if _, ok := c.seen[key]; ok {
		return false
	}
	c.seen[key] = struct{}{}
	c.items = append(c.items, p)
	return true
}

func (c *candidateSet) list() []domain.CandidatePath {
	out := make([]domain.CandidatePath, len(c.items))
	copy(out, c.items)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Ensure ArtifactScanner implements domain.Scanner.
var _ domain.Scanner = (*ArtifactScanner)(nil)
