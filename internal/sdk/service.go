package sdk

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"droidbuild/internal/config"
	"droidbuild/internal/paths"
)

type Logger interface {
	Printf(format string, v ...any)
}

type noopLogger struct{}

func (noopLogger) Printf(string, ...any) {}

// Service holds the toolchain selection for one build session. Construction
// loads the session config, walks the candidate SDK roots in order, and
// records the first usable build-tools release into the shared config. The
// selection lives only for this session; nothing is persisted unless a
// command explicitly saves the config.
type Service struct {
	Paths  paths.SessionPaths
	Logger Logger
	Runner Runner

	cfg      *config.Config
	resolver *Resolver
	root     string
	version  string
	advisory string
	aaptWarn string
}

func (s *Service) logf(format string, v ...any) {
	if s == nil || s.Logger == nil {
		return
	}
	s.Logger.Printf(format, v...)
}

// NewService resolves the toolchain for a session rooted at pp.
func NewService(ctx context.Context, pp paths.SessionPaths, logger Logger, runner Runner) (*Service, error) {
	return NewServiceWithStatus(ctx, pp, logger, runner, nil)
}

// NewServiceWithStatus is NewService with a callback for user-facing progress
// lines while the toolchain is being located.
func NewServiceWithStatus(ctx context.Context, pp paths.SessionPaths, logger Logger, runner Runner, statusFn func(string)) (*Service, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = noopLogger{}
	}
	if runner == nil {
		runner = CmdRunner{}
	}
	status := func(format string, v ...any) {
		if statusFn != nil {
			statusFn(fmt.Sprintf(format, v...))
		}
	}

	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return nil, err
	}

	svc := &Service{
		Paths:  pp,
		Logger: logger,
		Runner: runner,
		cfg:    &cfg,
	}

	roots := CandidateRoots(cfg, pp)
	if len(roots) == 0 {
		return nil, fmt.Errorf("no sdk root configured, set sdk_path or $ANDROID_HOME: %w", ErrUnresolved)
	}

	pinned := cfg.BuildToolsVersion()
	for _, root := range roots {
		status("Scanning %s...", root)
		if pinned != "" {
			dir := filepath.Join(root, "build-tools", pinned)
			ok, statErr := paths.DirExists(dir)
			if statErr != nil {
				return nil, fmt.Errorf("stat pinned build-tools: %w", statErr)
			}
			if ok {
				svc.root = root
				svc.version = pinned
				break
			}
			svc.logf("pinned build-tools %s not installed under %s", pinned, root)
			continue
		}

		version, locErr := LocateBuildTools(root)
		if locErr == nil {
			svc.root = root
			svc.version = version
			break
		}
		if errors.Is(locErr, ErrUnresolved) {
			svc.logf("no usable build-tools under %s", root)
			continue
		}
		return nil, locErr
	}

	if svc.version == "" {
		return nil, fmt.Errorf("no usable build-tools release under any sdk root (tried %s): %w",
			strings.Join(roots, ", "), ErrUnresolved)
	}

	cfg.BuildTools = svc.version
	svc.resolver = NewResolver(&cfg, svc.root)
	svc.logf("selected build-tools %s under %s", svc.version, svc.root)
	status("Selected build-tools %s", svc.version)

	if versions, listErr := ListBuildTools(svc.root); listErr == nil {
		if newer := LexicalMismatch(versions, svc.version); newer != "" {
			svc.advisory = fmt.Sprintf("build-tools %s sorts highest lexically but %s is semantically newer", svc.version, newer)
			svc.logf("warning: %s", svc.advisory)
		}
	}

	if aapt, findErr := svc.resolver.FindTool(markerTool); findErr == nil {
		warn, checkErr := CheckAapt(ctx, runner, aapt)
		if checkErr != nil {
			svc.logf("aapt version check failed: %v", checkErr)
		} else if warn != "" {
			svc.aaptWarn = warn
			svc.logf("warning: %s", warn)
		}
	}

	return svc, nil
}

// CandidateRoots returns the SDK roots to try in order: the configured
// sdk_path, then $ANDROID_HOME, then $ANDROID_SDK_ROOT. Relative paths are
// taken against the session root; duplicates and blanks are dropped.
func CandidateRoots(cfg config.Config, pp paths.SessionPaths) []string {
	var roots []string
	seen := map[string]struct{}{}
	add := func(value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		value = pp.SDKRoot(value)
		if _, ok := seen[value]; ok {
			return
		}
		seen[value] = struct{}{}
		roots = append(roots, value)
	}

	add(cfg.SDKRoot())
	add(os.Getenv("ANDROID_HOME"))
	add(os.Getenv("ANDROID_SDK_ROOT"))
	return roots
}

// SDKRoot returns the root the build-tools selection came from.
func (s *Service) SDKRoot() string {
	return s.root
}

// BuildTools returns the selected build-tools release.
func (s *Service) BuildTools() string {
	return s.version
}

// Config returns the session configuration with the selection applied.
func (s *Service) Config() *config.Config {
	return s.cfg
}

// Advisory returns the lexical-versus-semantic ordering note, or empty.
func (s *Service) Advisory() string {
	return s.advisory
}

// AaptWarning returns the aapt version warning gathered at startup, or empty.
func (s *Service) AaptWarning() string {
	return s.aaptWarn
}

// FindTool resolves a recognized SDK tool within this session.
func (s *Service) FindTool(name string) (string, error) {
	if s == nil || s.resolver == nil {
		return "", errors.New("sdk service is nil")
	}
	return s.resolver.FindTool(name)
}

// Statuses reports availability for every recognized tool.
func (s *Service) Statuses() []Status {
	if s == nil || s.resolver == nil {
		return nil
	}
	return s.resolver.Statuses()
}
