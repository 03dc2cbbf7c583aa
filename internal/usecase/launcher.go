package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/winterwar/wwlauncher/internal/catalog"
	"github.com/winterwar/wwlauncher/internal/domain"
)

// Launch strategy names.
const (
	LaunchProtocol      = "protocol"
	LaunchProxyProtocol = "proxy-protocol"
	LaunchDirect        = "direct"
)

// LaunchOptions controls one launch.
type LaunchOptions struct {
	Tokens []string // passed through to the host application verbatim
	Proxy  bool     // hand off through an intermediate script
	DryRun bool
}

// ParseLaunchOptions splits every value on whitespace, so "-windowed -log"
// passed as one token becomes two. Order is kept, empty tokens dropped.
func ParseLaunchOptions(values ...string) []string {
	var tokens []string
	for _, v := range values {
		tokens = append(tokens, strings.Fields(v)...)
	}
	return tokens
}

// LaunchChainConfig holds the launch chain's fixed settings.
type LaunchChainConfig struct {
	AppID      int
	ScriptPath string // intermediate script for proxied launches
	GOOS       string
}

// DefaultLaunchChainConfig returns settings for the running OS. The script
// lives in the binaries dir next to the resolved executable.
func DefaultLaunchChainConfig(res domain.Resolution, scriptName string) LaunchChainConfig {
	return LaunchChainConfig{
		AppID:      catalog.HostAppID,
		ScriptPath: filepath.Join(filepath.Dir(res.Path), scriptName),
		GOOS:       runtime.GOOS,
	}
}

// LaunchStrategyChain starts the host through protocol handoff and falls
// back to invoking the executable directly.
type LaunchStrategyChain struct {
	config  LaunchChainConfig
	starter domain.CommandStarter
	scripts domain.ScriptWriter
	logger  *zap.Logger
}

// NewLaunchStrategyChain creates a launch chain.
func NewLaunchStrategyChain(
	config LaunchChainConfig,
	starter domain.CommandStarter,
	scripts domain.ScriptWriter,
	logger *zap.Logger,
) *LaunchStrategyChain {
	return &LaunchStrategyChain{
		config:  config,
		starter: starter,
		scripts: scripts,
		logger:  logger,
	}
}

// ProtocolURL returns the platform protocol launch request.
func (l *LaunchStrategyChain) ProtocolURL() string {
	return fmt.Sprintf("steam://run/%d", l.config.AppID)
}

// protocolArgv composes the opener invocation for the protocol URL.
func (l *LaunchStrategyChain) protocolArgv(tokens []string) []string {
	var argv []string
	switch l.config.GOOS {
	case "windows":
		argv = []string{"cmd", "/c", "start", "", l.ProtocolURL()}
	case "darwin":
		argv = []string{"open", l.ProtocolURL()}
	default:
		argv = []string{"xdg-open", l.ProtocolURL()}
	}
	return append(argv, tokens...)
}

// Launch runs the chain. It returns once a process was created, not when
// the host exits. Every attempt is kept in the outcome.
func (l *LaunchStrategyChain) Launch(ctx context.Context, res domain.Resolution, opts LaunchOptions) (domain.LaunchOutcome, error) {
	outcome := domain.LaunchOutcome{DryRun: opts.DryRun}
	protoArgv := l.protocolArgv(opts.Tokens)

	primary := LaunchProtocol
	if opts.Proxy {
		primary = LaunchProxyProtocol
	}

	if opts.DryRun {
		l.logger.Info("dry run, not launching host application",
			zap.String("strategy", primary),
			zap.Strings("command", protoArgv))
		outcome.Attempts = append(outcome.Attempts, domain.LaunchAttempt{
			Strategy: primary,
			Command:  strings.Join(protoArgv, " "),
			Outcome:  domain.AttemptSkipped,
		})
		return outcome, nil
	}

	var primarySpec domain.CommandSpec
	var prepErr error
	if opts.Proxy {
		primarySpec, prepErr = l.prepareProxy(protoArgv)
	} else {
		primarySpec = domain.CommandSpec{Name: protoArgv[0], Args: protoArgv[1:]}
	}

	if prepErr == nil {
		if l.try(ctx, &outcome, primary, primarySpec) {
			return outcome, nil
		}
	} else {
		l.logger.Error("proxy launch unavailable", zap.Error(prepErr))
		outcome.Attempts = append(outcome.Attempts, domain.LaunchAttempt{
			Strategy: primary,
			Command:  strings.Join(protoArgv, " "),
			Outcome:  domain.AttemptFailed,
			Err:      prepErr,
		})
	}

	// Protocol handoff does not work on some systems.
	l.logger.Info("attempting to launch using direct path to executable",
		zap.String("path", res.Path))
	direct := domain.CommandSpec{
		Name: res.Path,
		Args: append([]string(nil), opts.Tokens...),
		Dir:  filepath.Dir(res.Path),
	}
	if l.try(ctx, &outcome, LaunchDirect, direct) {
		return outcome, nil
	}

	last := outcome.Attempts[len(outcome.Attempts)-1].Err
	return outcome, domain.NewError(domain.KindLaunchFailed,
		"could not launch Rising Storm 2 with any strategy", last)
}

// prepareProxy writes the composed command to the intermediate script and
// returns the silent proxy invocation.
func (l *LaunchStrategyChain) prepareProxy(argv []string) (domain.CommandSpec, error) {
	if l.scripts == nil {
		return domain.CommandSpec{}, fmt.Errorf("no script writer configured")
	}
	if err := l.scripts.Write(l.config.ScriptPath, argv); err != nil {
		return domain.CommandSpec{}, err
	}
	l.logger.Info("wrote launch script", zap.String("path", l.config.ScriptPath))
	return l.scripts.ProxyCommand(l.config.ScriptPath)
}

// try starts spec and records the attempt. Only a process-creation failure
// counts as failure; the exit status of a protocol handoff is irrelevant.
func (l *LaunchStrategyChain) try(ctx context.Context, outcome *domain.LaunchOutcome, strategy string, spec domain.CommandSpec) bool {
	command := strings.TrimSpace(spec.Name + " " + strings.Join(spec.Args, " "))
	l.logger.Info("launching Rising Storm 2",
		zap.String("strategy", strategy),
		zap.String("command", command))

	handle, err := l.starter.Start(ctx, spec)
	if err != nil {
		l.logger.Error("launch strategy failed",
			zap.String("strategy", strategy), zap.Error(err))
		outcome.Attempts = append(outcome.Attempts, domain.LaunchAttempt{
			Strategy: strategy,
			Command:  command,
			Outcome:  domain.AttemptFailed,
			Err:      err,
		})
		return false
	}

	outcome.Attempts = append(outcome.Attempts, domain.LaunchAttempt{
		Strategy: strategy,
		Command:  command,
		Outcome:  domain.AttemptStarted,
	})
	outcome.Strategy = strategy
	go l.reap(strategy, handle)
	return true
}

// reap logs the captured output once the started process exits.
func (l *LaunchStrategyChain) reap(strategy string, h domain.Handle) {
	stdout, stderr, err := h.Wait()
	fields := []zap.Field{zap.String("strategy", strategy), zap.Int("pid", h.Pid())}
	if len(stdout) > 0 {
		l.logger.Info("command stdout", append(fields, zap.ByteString("stdout", stdout))...)
	}
	if len(stderr) > 0 {
		l.logger.Error("command stderr", append(fields, zap.ByteString("stderr", stderr))...)
	}
	if err != nil {
		l.logger.Debug("launched command exited with error", append(fields, zap.Error(err))...)
	}
}
