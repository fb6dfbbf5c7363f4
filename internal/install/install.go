// Package install downloads prebuilt NiftyReg binaries for the host.
package install

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/zjrosen/niftyregw/internal/log"
)

// Binaries lists the NiftyReg executables shipped in a release.
var Binaries = []string{
	"reg_aladin",
	"reg_average",
	"reg_f3d",
	"reg_jacobian",
	"reg_measure",
	"reg_resample",
	"reg_tools",
	"reg_transform",
}

// binaryPrefix selects archive members to install.
const binaryPrefix = "reg_"

// DownloadError reports a non-200 response for the release archive.
type DownloadError struct {
	URL        string
	StatusCode int
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: HTTP %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// ErrNoBinaries is returned when an archive contains nothing to install.
var ErrNoBinaries = errors.New("archive contains no NiftyReg binaries")

// Option configures an Installer.
type Option func(*Installer)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(c *http.Client) Option {
	return func(i *Installer) {
		i.client = c
	}
}

// WithCUDAProbe replaces NvidiaSMIProbe.
func WithCUDAProbe(fn CUDAProbeFunc) Option {
	return func(i *Installer) {
		i.cudaProbe = fn
	}
}

// WithHost overrides runtime.GOOS and runtime.GOARCH.
func WithHost(goos, goarch string) Option {
	return func(i *Installer) {
		i.goos = goos
		i.goarch = goarch
	}
}

// WithLogger sets where progress is logged.
func WithLogger(sink log.ToolSink) Option {
	return func(i *Installer) {
		i.logger = sink
	}
}

// Installer fetches and unpacks a release archive.
type Installer struct {
	releaseURL string
	client     *http.Client
	cudaProbe  CUDAProbeFunc
	goos       string
	goarch     string
	logger     log.ToolSink
}

// New creates an Installer. releaseURL must contain one %s for the platform.
func New(releaseURL string, opts ...Option) *Installer {
	i := &Installer{
		releaseURL: releaseURL,
		client:     http.DefaultClient,
		cudaProbe:  NvidiaSMIProbe,
		goos:       runtime.GOOS,
		goarch:     runtime.GOARCH,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// DetectPlatform returns the archive variant for the host.
func (i *Installer) DetectPlatform(ctx context.Context) (string, error) {
	cuda := false
	if i.goos == "linux" || i.goos == "windows" {
		cuda = i.cudaProbe(ctx)
	}
	name, err := PlatformName(i.goos, i.goarch, cuda)
	if err != nil {
		return "", err
	}
	i.logger.Debug("detected platform", "os", i.goos, "arch", i.goarch, "cuda", cuda, "platform", name)
	return name, nil
}

// URL returns the archive URL for platform.
func (i *Installer) URL(platform string) string {
	return fmt.Sprintf(i.releaseURL, platform)
}

// Install downloads the archive for platform (detected when empty) and
// moves every reg_* executable into outDir. It returns the installed paths
// sorted.
func (i *Installer) Install(ctx context.Context, outDir, platform string) ([]string, error) {
	if platform == "" {
		var err error
		if platform, err = i.DetectPlatform(ctx); err != nil {
			return nil, err
		}
	}

	tmp, err := os.MkdirTemp("", "niftyregw-install-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmp) }()

	url := i.URL(platform)
	archive := filepath.Join(tmp, "niftyreg.zip")
	i.logger.Info("downloading NiftyReg", "platform", platform, "url", url)
	if err := i.download(ctx, url, archive); err != nil {
		return nil, err
	}

	staged := filepath.Join(tmp, "bin")
	names, err := Extract(archive, staged)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", outDir, err)
	}

	installed := make([]string, 0, len(names))
	for _, name := range names {
		dst := filepath.Join(outDir, name)
		if err := moveFile(filepath.Join(staged, name), dst); err != nil {
			return installed, fmt.Errorf("installing %s: %w", name, err)
		}
		i.logger.Debug("installed", "path", dst)
		installed = append(installed, dst)
	}
	sort.Strings(installed)

	i.logger.Info("installed NiftyReg", "count", len(installed), "dir", outDir)
	return installed, nil
}

func (i *Installer) download(ctx context.Context, url, dst string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	resp, err := i.client.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &DownloadError{URL: url, StatusCode: resp.StatusCode}
	}

	f, err := os.Create(dst) // #nosec G304 -- dst is inside our temp dir
	if err != nil {
		return fmt.Errorf("creating archive file: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		return fmt.Errorf("download %s: %w", url, err)
	}
	return f.Close()
}

// Extract writes every regular reg_* member of the zip at archivePath into
// destDir, flattened to its base name and made executable. It returns the
// extracted base names sorted.
func Extract(archivePath, destDir string) ([]string, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer func() { _ = zr.Close() }()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", destDir, err)
	}

	seen := map[string]bool{}
	for _, f := range zr.File {
		// zip member names always use forward slashes
		base := path.Base(f.Name)
		if !f.Mode().IsRegular() || !strings.HasPrefix(base, binaryPrefix) {
			continue
		}
		if err := extractFile(f, filepath.Join(destDir, base)); err != nil {
			return nil, err
		}
		seen[base] = true
	}

	if len(seen) == 0 {
		return nil, ErrNoBinaries
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func extractFile(f *zip.File, dst string) error {
	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("reading %s: %w", f.Name, err)
	}
	defer func() { _ = src.Close() }()

	mode := f.Mode().Perm() | 0o111
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode) // #nosec G302 G304 -- installed binaries must be executable
	if err != nil {
		return fmt.Errorf("extracting %s: %w", f.Name, err)
	}
	if _, err := io.Copy(out, src); err != nil { // #nosec G110 -- trusted release archive
		_ = out.Close()
		return fmt.Errorf("extracting %s: %w", f.Name, err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	// OpenFile applies the umask
	return os.Chmod(dst, mode)
}

// moveFile renames src to dst, copying when they are on different devices.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src) // #nosec G304 -- staged file in our temp dir
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm()) // #nosec G302 G304
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Remove(src)
}
