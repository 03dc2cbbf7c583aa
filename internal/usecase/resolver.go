package usecase

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/winterwar/wwlauncher/internal/catalog"
	"github.com/winterwar/wwlauncher/internal/domain"
)

// Resolution strategy names.
const (
	StrategyLocal    = "local"
	StrategyRegistry = "registry"
	StrategyFallback = "fallback"
)

// LaunchResolver implements domain.Resolver. Strategies run in fixed order
// and the first existing path wins.
type LaunchResolver struct {
	workDir     string
	exe         string
	installRoot domain.InstallRootSource
	fsManager   domain.FileSystemManager
	logger      *zap.Logger
}

// NewLaunchResolver creates a resolver looking for exe around workDir.
// installRoot may be nil, which skips the registry strategy.
func NewLaunchResolver(
	workDir string,
	exe string,
	installRoot domain.InstallRootSource,
	fs domain.FileSystemManager,
	logger *zap.Logger,
) *LaunchResolver {
	return &LaunchResolver{
		workDir:     workDir,
		exe:         exe,
		installRoot: installRoot,
		fsManager:   fs,
		logger:      logger,
	}
}

// Resolve returns the host executable or a KindExecutableNotFound error.
func (r *LaunchResolver) Resolve(ctx context.Context) (domain.Resolution, error) {
	var tried []string

	check := func(strategy, path string) (domain.Resolution, bool) {
		tried = append(tried, path)
		if r.isFile(path) {
			abs, err := filepath.Abs(path)
			if err != nil {
				abs = path
			}
			r.logger.Info("host executable found",
				zap.String("path", abs), zap.String("strategy", strategy))
			return domain.Resolution{Path: abs, Strategy: strategy, Tried: tried}, true
		}
		r.logger.Debug("host executable not at path",
			zap.String("path", path), zap.String("strategy", strategy))
		return domain.Resolution{}, false
	}

	// 1. Standalone layout: launcher next to Binaries/.
	local := filepath.Join(r.workDir, filepath.FromSlash(catalog.BinariesDir), r.exe)
	if res, ok := check(StrategyLocal, local); ok {
		return res, nil
	}

	if err := ctx.Err(); err != nil {
		return domain.Resolution{}, err
	}

	// 2. Managed-platform install recorded by the Steam installer.
	if path, ok := r.registryPath(); ok {
		if res, ok := check(StrategyRegistry, path); ok {
			return res, nil
		}
	}

	// 3. Launcher placed inside the binaries dir itself.
	fallback := filepath.Join(r.workDir, r.exe)
	if res, ok := check(StrategyFallback, fallback); ok {
		return res, nil
	}

	r.logger.Error("host executable not found", zap.Strings("tried", tried))
	return domain.Resolution{}, domain.NewExecutableNotFoundError(r.exe, tried)
}

func (r *LaunchResolver) registryPath() (string, bool) {
	if r.installRoot == nil {
		return "", false
	}
	root, ok, err := r.installRoot.InstallRoot()
	if err != nil {
		r.logger.Warn("install root lookup failed, skipping", zap.Error(err))
		return "", false
	}
	if !ok {
		r.logger.Info("no install root recorded, skipping registry strategy")
		return "", false
	}
	return filepath.Join(root,
		filepath.FromSlash(catalog.SteamLibraryDir),
		filepath.FromSlash(catalog.BinariesDir),
		r.exe), true
}

func (r *LaunchResolver) isFile(path string) bool {
	info, err := r.fsManager.Stat(path)
	return err == nil && !info.IsDir()
}

// Ensure LaunchResolver implements domain.Resolver.
var _ domain.Resolver = (*LaunchResolver)(nil)
