// Package locate resolves NiftyReg tool names to executable paths.
package locate

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/zjrosen/niftyregw/internal/log"
)

// ErrNotFound is matched by every *NotFoundError.
var ErrNotFound = errors.New("tool not found")

// NotFoundError reports a tool that is neither on PATH nor in the install dir.
type NotFoundError struct {
	Tool       string
	InstallDir string
}

func (e *NotFoundError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s not found on PATH", e.Tool)
	if e.InstallDir != "" {
		fmt.Fprintf(&b, " or in %s", e.InstallDir)
	}
	b.WriteString(" (install it with `niftyregw install`)")
	return b.String()
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// LookPathFunc matches exec.LookPath.
type LookPathFunc func(file string) (string, error)

// Option configures a Locator.
type Option func(*Locator)

// WithInstallDir adds a directory searched after PATH.
func WithInstallDir(dir string) Option {
	return func(l *Locator) {
		l.installDir = dir
	}
}

// WithCacheTTL caches resolved paths for ttl. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(l *Locator) {
		l.ttl = ttl
	}
}

// WithLookPath replaces exec.LookPath.
func WithLookPath(fn LookPathFunc) Option {
	return func(l *Locator) {
		l.lookPath = fn
	}
}

// WithLogger sets where resolution is logged.
func WithLogger(sink log.ToolSink) Option {
	return func(l *Locator) {
		l.logger = sink
	}
}

// Locator finds executables. Safe for concurrent use.
type Locator struct {
	lookPath   LookPathFunc
	installDir string
	ttl        time.Duration
	logger     log.ToolSink
	paths      *readThrough[string]
}

// New creates a Locator.
func New(opts ...Option) *Locator {
	l := &Locator{lookPath: exec.LookPath}
	for _, opt := range opts {
		opt(l)
	}
	l.paths = newReadThrough(l.ttl, l.resolve)
	return l
}

// Find returns the absolute path of tool. The error wraps ErrNotFound when
// the tool cannot be resolved. Failed lookups are never cached.
func (l *Locator) Find(tool string) (string, error) {
	if tool == "" {
		return "", &NotFoundError{Tool: tool, InstallDir: l.installDir}
	}
	return l.paths.get(tool)
}

// Forget evicts cached paths, for example after an install.
func (l *Locator) Forget(tools ...string) {
	l.paths.forget(tools...)
}

// InstallDir returns the fallback directory, which may be empty.
func (l *Locator) InstallDir() string {
	return l.installDir
}

func (l *Locator) resolve(tool string) (string, error) {
	path, err := l.lookPath(tool)
	switch {
	case err == nil:
		return l.found(tool, path, "PATH")
	case errors.Is(err, exec.ErrDot):
		// a match relative to the working directory is not trusted
		l.logger.Debug("ignoring tool in current directory", "tool", tool, "path", path)
	}

	if l.installDir != "" {
		candidate := filepath.Join(l.installDir, executableName(tool))
		if isExecutable(candidate) {
			return l.found(tool, candidate, "install dir")
		}
	}

	return "", &NotFoundError{Tool: tool, InstallDir: l.installDir}
}

func (l *Locator) found(tool, path, via string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", tool, err)
	}
	l.logger.Debug("found tool", "tool", tool, "path", abs, "via", via)
	return abs, nil
}

func executableName(tool string) string {
	if runtime.GOOS == "windows" && !strings.HasSuffix(strings.ToLower(tool), ".exe") {
		return tool + ".exe"
	}
	return tool
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0111 != 0
}
