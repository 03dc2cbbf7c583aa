//go:build integration && !windows

package integration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/winterwar/wwlauncher/internal/catalog"
	"github.com/winterwar/wwlauncher/internal/domain"
	"github.com/winterwar/wwlauncher/internal/infra"
	"github.com/winterwar/wwlauncher/internal/monitor"
	"github.com/winterwar/wwlauncher/internal/usecase"
	"github.com/winterwar/wwlauncher/test/fixtures"
)

// openerlessStarter refuses protocol openers so launches exercise the
// direct strategy against the fake executable.
type openerlessStarter struct {
	mu      sync.Mutex
	inner   domain.CommandStarter
	started []domain.CommandSpec
}

func (s *openerlessStarter) Start(ctx context.Context, spec domain.CommandSpec) (domain.Handle, error) {
	s.mu.Lock()
	s.started = append(s.started, spec)
	s.mu.Unlock()
	switch spec.Name {
	case "xdg-open", "open", "cmd":
		return nil, errors.New("no protocol handler")
	}
	return s.inner.Start(ctx, spec)
}

var _ = Describe("Launcher", func() {
	var (
		tmpDir string
		logger *zap.Logger
		fs     domain.FileSystemManager
		policy catalog.PackagePolicy
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "wwlauncher-integration-*")
		Expect(err).NotTo(HaveOccurred())

		logger = zap.NewNop()
		fs = infra.NewFileSystemManager()
		policy = catalog.NewWinterWarPolicy()
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("Purge pipeline", func() {
		var (
			rogame *fixtures.FakeROGame
			cat    catalog.Catalog
		)

		BeforeEach(func() {
			root := filepath.Join(tmpDir, "Documents", "My Games", "Rising Storm 2", "ROGame")
			rogame = fixtures.NewFakeROGame(root, policy.WorkshopID())
			Expect(rogame.Create()).To(Succeed())
			cat = catalog.New(root, policy)
		})

		Context("when Winter War artifacts are present", func() {
			It("should remove every artifact and nothing else", func() {
				orchestrator := usecase.NewOrchestrator(
					usecase.NewArtifactScanner(cat, fs, logger),
					usecase.NewPurgeExecutor(fs, logger),
					nil, nil, logger,
				)

				report, err := orchestrator.Run(context.Background(), usecase.RunOptions{PurgeOnly: true})
				Expect(err).NotTo(HaveOccurred())
				Expect(report.Candidates).To(HaveLen(len(rogame.ArtifactPaths())))
				Expect(report.Purge.Failed).To(BeZero())

				for _, p := range rogame.ArtifactPaths() {
					_, err := os.Stat(p)
					Expect(os.IsNotExist(err)).To(BeTrue(), "expected %s to be removed", p)
				}
				for _, p := range rogame.KeptPaths() {
					_, err := os.Stat(p)
					Expect(err).NotTo(HaveOccurred(), "expected %s to survive", p)
				}
			})

			It("should leave the filesystem untouched in dry run", func() {
				orchestrator := usecase.NewOrchestrator(
					usecase.NewArtifactScanner(cat, fs, logger),
					usecase.NewPurgeExecutor(fs, logger),
					nil, nil, logger,
				)

				report, err := orchestrator.Run(context.Background(),
					usecase.RunOptions{PurgeOnly: true, DryRun: true})
				Expect(err).NotTo(HaveOccurred())
				Expect(report.Purge.Skipped).To(Equal(len(rogame.ArtifactPaths())))

				for _, p := range rogame.ArtifactPaths() {
					_, err := os.Stat(p)
					Expect(err).NotTo(HaveOccurred())
				}
			})

			It("should find nothing on a second run", func() {
				scanner := usecase.NewArtifactScanner(cat, fs, logger)
				purger := usecase.NewPurgeExecutor(fs, logger)

				candidates, err := scanner.Scan(context.Background())
				Expect(err).NotTo(HaveOccurred())
				purger.Purge(context.Background(), candidates, false)

				again, err := scanner.Scan(context.Background())
				Expect(err).NotTo(HaveOccurred())
				Expect(again).To(BeEmpty())
			})
		})

		Context("when the data directory is a dedicated server", func() {
			It("should purge under <root>/ROGame", func() {
				serverRoot := filepath.Join(tmpDir, "server")
				server := fixtures.NewFakeROGame(catalog.ServerDataRoot(serverRoot), policy.WorkshopID())
				Expect(server.Create()).To(Succeed())

				serverCat := catalog.New(catalog.ServerDataRoot(serverRoot), policy)
				candidates, err := usecase.NewArtifactScanner(serverCat, fs, logger).Scan(context.Background())
				Expect(err).NotTo(HaveOccurred())

				summary := usecase.NewPurgeExecutor(fs, logger).Purge(context.Background(), candidates, false)
				Expect(summary.Removed).To(Equal(len(server.ArtifactPaths())))
			})
		})
	})

	Describe("Executable resolution", func() {
		Context("when the launcher sits next to Binaries", func() {
			It("should resolve the local layout", func() {
				install := fixtures.NewFakeGameInstall(filepath.Join(tmpDir, "rs2"))
				exePath, err := install.Create(catalog.HostExecutable, "exit 0")
				Expect(err).NotTo(HaveOccurred())

				resolver := usecase.NewLaunchResolver(install.Dir, catalog.HostExecutable,
					infra.NewDirInstallRoot(), fs, logger)
				res, err := resolver.Resolve(context.Background())
				Expect(err).NotTo(HaveOccurred())
				Expect(res.Strategy).To(Equal(usecase.StrategyLocal))
				Expect(res.Path).To(Equal(exePath))
			})
		})

		Context("when the game lives in the Steam library", func() {
			It("should resolve through the install root", func() {
				steam := filepath.Join(tmpDir, "Steam")
				install := fixtures.NewFakeGameInstall(filepath.Join(steam, "steamapps", "common", "Rising Storm 2"))
				_, err := install.Create(catalog.HostExecutable, "exit 0")
				Expect(err).NotTo(HaveOccurred())

				resolver := usecase.NewLaunchResolver(filepath.Join(tmpDir, "elsewhere"), catalog.HostExecutable,
					infra.NewDirInstallRoot(steam), fs, logger)
				res, err := resolver.Resolve(context.Background())
				Expect(err).NotTo(HaveOccurred())
				Expect(res.Strategy).To(Equal(usecase.StrategyRegistry))
			})
		})

		Context("when the game is nowhere", func() {
			It("should fail with executable not found", func() {
				resolver := usecase.NewLaunchResolver(tmpDir, catalog.HostExecutable,
					infra.NewDirInstallRoot(), fs, logger)
				_, err := resolver.Resolve(context.Background())
				Expect(domain.IsExecutableNotFound(err)).To(BeTrue())
			})
		})
	})

	Describe("Launch and watch", func() {
		It("should launch directly and follow the game until it exits", func() {
			const gameName = "wwfakegame"
			install := fixtures.NewFakeGameInstall(filepath.Join(tmpDir, "rs2"))
			_, err := install.Create(gameName, "sleep 1")
			Expect(err).NotTo(HaveOccurred())

			pm := infra.NewProcessManager()
			watcher := monitor.NewProcessWatcher(monitor.WatcherConfig{
				ProcessName:       gameName,
				StartPollInterval: 50 * time.Millisecond,
				ExitPollInterval:  50 * time.Millisecond,
			}, pm, logger)
			completion := watcher.Start(context.Background())

			starter := &openerlessStarter{inner: infra.NewCommandStarter()}
			scripts := infra.NewScriptWriterFor(runtime.GOOS)
			orchestrator := usecase.NewOrchestrator(
				usecase.NewArtifactScanner(catalog.New(filepath.Join(tmpDir, "none"), policy), fs, logger),
				usecase.NewPurgeExecutor(fs, logger),
				usecase.NewLaunchResolver(install.Dir, gameName, nil, fs, logger),
				func(res domain.Resolution) usecase.Launcher {
					return usecase.NewLaunchStrategyChain(
						usecase.DefaultLaunchChainConfig(res, scripts.ScriptName()), starter, scripts, logger)
				},
				logger,
			)

			report, err := orchestrator.Run(context.Background(), usecase.RunOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Launch.Strategy).To(Equal(usecase.LaunchDirect))

			var c domain.Completion
			Eventually(completion, 10*time.Second).Should(Receive(&c))
			Expect(c.Cancelled).To(BeFalse())
			Expect(c.Final).To(Equal(domain.StateExited))
			Expect(c.Transitions).To(HaveLen(2))
		})

		It("should stop waiting when asked", func() {
			pm := infra.NewProcessManager()
			watcher := monitor.NewProcessWatcher(monitor.WatcherConfig{
				ProcessName:       "wwlauncher-never-started",
				StartPollInterval: 50 * time.Millisecond,
				ExitPollInterval:  50 * time.Millisecond,
			}, pm, logger)
			completion := watcher.Start(context.Background())

			watcher.Stop()

			var c domain.Completion
			Eventually(completion, time.Second).Should(Receive(&c))
			Expect(c.Cancelled).To(BeTrue())
			Expect(c.Final).To(Equal(domain.StateNotStarted))
		})
	})

	Describe("Single instance", func() {
		It("should refuse a second launcher", func() {
			path := filepath.Join(tmpDir, "wwlauncher.lock")
			first, err := infra.AcquireInstanceLock(context.Background(), path, time.Second)
			Expect(err).NotTo(HaveOccurred())
			defer first.Release()

			_, err = infra.AcquireInstanceLock(context.Background(), path, 200*time.Millisecond)
			Expect(domain.KindOf(err)).To(Equal(domain.KindAlreadyRunning))
		})
	})
})
