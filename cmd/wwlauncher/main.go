// Package main is the CLI entry point for wwlauncher.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/winterwar/wwlauncher/internal/catalog"
	"github.com/winterwar/wwlauncher/internal/config"
	"github.com/winterwar/wwlauncher/internal/domain"
	"github.com/winterwar/wwlauncher/internal/infra"
	"github.com/winterwar/wwlauncher/internal/monitor"
	"github.com/winterwar/wwlauncher/internal/usecase"
)

var (
	// Version info (set via ldflags)
	Version   = "1.0.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

const lockTimeout = 2 * time.Second

func main() {
	known, extra := partitionArgs(rootCmd, os.Args[1:])
	passthroughArgs = extra
	rootCmd.SetArgs(known)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "wwlauncher",
	Short: "Winter War launcher - cleans stale cache and starts Rising Storm 2",
	Long: `wwlauncher removes stale Winter War workshop artifacts from the
Rising Storm 2 data directory, then launches the game through Steam
(falling back to the executable itself) and waits for it to exit.

Arguments the launcher does not recognise are passed to the game.`,
	Version:       Version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runLaunch,
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Purge Winter War artifacts from a dedicated server",
	Long: `Removes stale Winter War artifacts from a dedicated server
installation. The server root defaults to two levels above the launcher
binary (the launcher is expected in <root>/Binaries/Win64).`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPurge,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List known packages and the locations they purge",
	RunE:  runList,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Prints version, commit, and build time. Use --json for machine-readable output.`,
	Run:   runVersion,
}

var (
	configFile      string
	packageID       string
	jsonOutput      bool
	passthroughArgs []string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: wwlauncher.yaml next to the binary or in the working dir)")
	rootCmd.PersistentFlags().StringVar(&packageID, "package", catalog.NewWinterWarPolicy().ID(), "Package whose artifacts are purged")
	rootCmd.PersistentFlags().Bool("dry-run", false, "Report what would be removed and launched without doing it")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.Flags().StringArray("launch-options", nil, "Options passed to the game (split on whitespace, repeatable)")
	rootCmd.Flags().Bool("proxy", false, "Launch through an intermediate script")
	rootCmd.Flags().Bool("watch", true, "Wait for the game process to exit")
	rootCmd.Flags().String("data-root", "", "Override the ROGame data directory")
	rootCmd.Flags().String("game-dir", "", "Directory to look for the game executable in (default: launcher dir)")

	purgeCmd.Flags().String("server-root", "", "Dedicated server installation root")
	versionCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	rootCmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		printFatal(os.Stderr, err, "")
		return err
	})

	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	opts := config.Options{File: configFile}
	if opts.File == "" {
		if dir, err := infra.ExecutableDir(); err == nil {
			opts.SearchDirs = append(opts.SearchDirs, dir)
		}
		opts.SearchDirs = append(opts.SearchDirs, ".")
	}
	v := config.New(opts)
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return nil, err
	}
	return config.Load(v, opts)
}

// acquireLock takes the single-instance lock. Dry runs leave the
// filesystem untouched and return a nil lock.
func acquireLock(ctx context.Context, dryRun bool, path string) (*infra.InstanceLock, error) {
	if dryRun {
		return nil, nil
	}
	return infra.AcquireInstanceLock(ctx, path, lockTimeout)
}

func runLaunch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		printFatal(os.Stderr, err, "")
		return err
	}

	policy, err := catalog.NewRegistry().Get(packageID)
	if err != nil {
		printFatal(os.Stderr, err, "")
		return err
	}

	dataRoot, err := cfg.ResolveDataRoot(infra.DocumentsDir)
	if err != nil {
		logger := createLogger(cfg.Log, "")
		logger.Error("could not determine data root", zap.Error(err))
		_ = logger.Sync()
		printFatal(os.Stderr, err, "")
		return err
	}

	cat := catalog.New(dataRoot, policy)
	logPath := cat.LaunchLogFile()
	logger := createLogger(cfg.Log, logPath)
	defer func() { _ = logger.Sync() }()

	logger.Info("wwlauncher starting",
		zap.String("version", Version),
		zap.String("data_root", dataRoot),
		zap.String("config", cfg.File),
		zap.Bool("dry_run", cfg.DryRun))

	ctx, cancel := signalContext(logger)
	defer cancel()

	lock, err := acquireLock(ctx, cfg.DryRun, infra.DefaultLockPath())
	if err != nil {
		logger.Error("instance lock", zap.Error(err))
		printFatal(os.Stderr, err, logPath)
		return err
	}
	defer func() { _ = lock.Release() }()

	workDir := cfg.GameDir
	if workDir == "" {
		if workDir, err = infra.ExecutableDir(); err != nil {
			printFatal(os.Stderr, err, logPath)
			return err
		}
	}

	// Initialize infrastructure
	pm := infra.NewProcessManager()
	fs := infra.NewFileSystemManager()
	starter := infra.NewCommandStarter()
	scripts := infra.NewScriptWriter()

	orchestrator := usecase.NewOrchestrator(
		usecase.NewArtifactScanner(cat, fs, logger),
		usecase.NewPurgeExecutor(fs, logger),
		usecase.NewLaunchResolver(workDir, catalog.HostExecutable, infra.NewInstallRootSource(), fs, logger),
		func(res domain.Resolution) usecase.Launcher {
			chainConfig := usecase.DefaultLaunchChainConfig(res, scripts.ScriptName())
			chainConfig.AppID = policy.HostAppID()
			return usecase.NewLaunchStrategyChain(chainConfig, starter, scripts, logger)
		},
		logger,
	)

	watcher := monitor.NewProcessWatcher(monitor.WatcherConfig{
		ProcessName:       policy.ProcessName(),
		StartPollInterval: cfg.Poll.StartInterval,
		ExitPollInterval:  cfg.Poll.ExitInterval,
	}, pm, logger)
	watching := cfg.Watch && !cfg.DryRun

	g, gctx := errgroup.WithContext(ctx)

	// The watcher is running before the launch request goes out so a fast
	// starting game is not missed.
	var completion <-chan domain.Completion
	if watching {
		completion = watcher.Start(gctx)
	}

	g.Go(func() error {
		report, runErr := orchestrator.Run(gctx, usecase.RunOptions{
			DryRun: cfg.DryRun,
			Launch: usecase.LaunchOptions{
				Tokens: usecase.ParseLaunchOptions(append(cfg.LaunchOptions, passthroughArgs...)...),
				Proxy:  cfg.ProxyLaunch,
			},
		})
		if report != nil {
			if err := renderPurgeSummary(os.Stdout, report.Purge); err != nil {
				logger.Warn("could not render purge summary", zap.Error(err))
			}
		}
		if runErr != nil {
			watcher.Stop()
		}
		return runErr
	})

	if watching {
		g.Go(func() error {
			c := <-completion
			logCompletion(logger, c)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("launch failed", zap.Error(err))
		printFatal(os.Stderr, err, logPath)
		return err
	}
	logger.Info("done")
	return nil
}

func runPurge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		printFatal(os.Stderr, err, "")
		return err
	}

	policy, err := catalog.NewRegistry().Get(packageID)
	if err != nil {
		printFatal(os.Stderr, err, "")
		return err
	}

	serverRoot, err := cfg.ResolveServerRoot(infra.DefaultServerRoot)
	if err != nil {
		printFatal(os.Stderr, err, "")
		return err
	}

	cat := catalog.New(catalog.ServerDataRoot(serverRoot), policy)
	logPath := cat.LaunchLogFile()
	logger := createLogger(cfg.Log, logPath)
	defer func() { _ = logger.Sync() }()

	logger.Info("server purge starting", zap.String("server_root", serverRoot))

	ctx, cancel := signalContext(logger)
	defer cancel()

	fs := infra.NewFileSystemManager()
	orchestrator := usecase.NewOrchestrator(
		usecase.NewArtifactScanner(cat, fs, logger),
		usecase.NewPurgeExecutor(fs, logger),
		nil, nil,
		logger,
	)

	report, err := orchestrator.Run(ctx, usecase.RunOptions{DryRun: cfg.DryRun, PurgeOnly: true})
	if err != nil {
		printFatal(os.Stderr, err, logPath)
		return err
	}
	return renderPurgeSummary(os.Stdout, report.Purge)
}

func runList(cmd *cobra.Command, args []string) error {
	registry := catalog.NewRegistry()

	dataRoot := ""
	if docs, err := infra.DocumentsDir(); err == nil {
		dataRoot = catalog.ClientDataRoot(docs)
	}

	fmt.Println("\n=== Known Packages ===")
	if err := renderPolicies(os.Stdout, registry.GetAll(), dataRoot); err != nil {
		return err
	}
	fmt.Println("\n======================")
	return nil
}

func runVersion(cmd *cobra.Command, args []string) {
	if jsonOutput {
		fmt.Printf(`{"version":"%s","commit":"%s","build_time":"%s"}`+"\n",
			Version, Commit, BuildTime)
	} else {
		fmt.Printf("wwlauncher %s (commit: %s, built: %s)\n",
			Version, Commit, BuildTime)
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(logger *zap.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			logger.Info("received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()
	return ctx, cancel
}

func logCompletion(logger *zap.Logger, c domain.Completion) {
	if c.Cancelled {
		logger.Info("stopped waiting for Rising Storm 2",
			zap.String("state", string(c.Final)))
		return
	}
	fields := []zap.Field{zap.String("state", string(c.Final))}
	if n := len(c.Transitions); n == 2 {
		fields = append(fields, zap.Duration("played", c.Transitions[1].At.Sub(c.Transitions[0].At)))
	}
	logger.Info("Rising Storm 2 exited", fields...)
}

// createLogger logs JSON to stdout and, when the game's Logs directory
// exists, to the launch log file there.
func createLogger(logCfg config.LogConfig, logPath string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = nil
	if logCfg.Console {
		cfg.OutputPaths = append(cfg.OutputPaths, "stdout")
	}
	if logPath != "" {
		if info, err := os.Stat(filepath.Dir(logPath)); err == nil && info.IsDir() {
			cfg.OutputPaths = append(cfg.OutputPaths, logPath)
		}
	}
	if len(cfg.OutputPaths) == 0 {
		return zap.NewNop()
	}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if level, err := zap.ParseAtomicLevel(logCfg.Level); err == nil {
		cfg.Level = level
	}

	logger, err := cfg.Build()
	if err != nil {
		// Fallback to stdout if file logging fails
		logger, _ = zap.NewProduction()
	}
	return logger
}
