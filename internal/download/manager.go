package download

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/getwindl/windl/internal/catalog"
	"github.com/getwindl/windl/internal/config"
	httpx "github.com/getwindl/windl/internal/http"
	ioutils "github.com/getwindl/windl/internal/io"
	"github.com/getwindl/windl/internal/locale"
	"github.com/getwindl/windl/internal/model"
	"github.com/getwindl/windl/internal/msapi"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a resolution or download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Manager drives the end-to-end flow: complete a partial selection,
// resolve it to a download URL and stream the artifact to disk.
type Manager struct {
	settings *config.Settings
	resolver *msapi.Resolver
	client   *httpx.Client
	logger   *log.Logger

	receivedBytes int64
	totalBytes    int64

	onProgress func(ProgressEvent)
}

// NewManager creates a Manager over the built-in catalog. onProgress may
// be nil.
func NewManager(settings *config.Settings, logger *log.Logger, onProgress func(ProgressEvent)) *Manager {
	resolver := msapi.NewResolver(catalog.Default(), msapi.Config{
		OrgID:         settings.OrgID,
		ProfileID:     settings.ProfileID,
		DefaultLocale: settings.DefaultLocale,
		Timeout:       time.Duration(settings.RequestTimeoutSeconds) * time.Second,
		Logger:        logger,
	})

	return &Manager{
		settings:   settings,
		resolver:   resolver,
		client:     httpx.NewClient(time.Duration(settings.DownloadTimeoutSeconds) * time.Second),
		logger:     logger,
		onProgress: onProgress,
	}
}

// Versions lists the catalog's product versions.
func (m *Manager) Versions() []model.Version { return m.resolver.Versions() }

// Releases lists the releases of the matched version.
func (m *Manager) Releases(version string) ([]model.Release, error) {
	return m.resolver.Releases(version)
}

// Editions lists the editions of the matched release.
func (m *Manager) Editions(version, release string) ([]model.Edition, error) {
	return m.resolver.Editions(version, release)
}

// Languages lists the installation languages of the matched edition.
func (m *Manager) Languages(ctx context.Context, sel model.Selection) ([]model.Language, error) {
	return m.resolver.Languages(ctx, sel.Version, sel.Release, sel.Edition)
}

// Architectures lists the download options of the matched language.
func (m *Manager) Architectures(ctx context.Context, sel model.Selection) ([]model.Architecture, error) {
	return m.resolver.Architectures(ctx, sel.Version, sel.Release, sel.Edition, sel.Language)
}

// Resolve completes the selection and resolves it to a download URL.
//
// Empty fields are defaulted stage by stage: the first catalog version,
// its first release, the release's first edition, the language matching
// the system locale and the architecture matching the host. Filled
// fields are matched as fragments. The returned selection carries the
// concrete names that ended up being used.
func (m *Manager) Resolve(ctx context.Context, sel model.Selection) (model.Selection, string, error) {
	if sel.Version == "" {
		sel.Version = m.resolver.Versions()[0].Name
		m.progress(ProgressEvent{Message: fmt.Sprintf("No version given, using %s", sel.Version), Level: LevelVerbose})
	}

	if sel.Release == "" {
		releases, err := m.resolver.Releases(sel.Version)
		if err != nil {
			return sel, "", err
		}
		sel.Release = releases[0].Name
		m.progress(ProgressEvent{Message: fmt.Sprintf("No release given, using %s", sel.Release), Level: LevelVerbose})
	}

	if sel.Edition == "" {
		editions, err := m.resolver.Editions(sel.Version, sel.Release)
		if err != nil {
			return sel, "", err
		}
		sel.Edition = editions[0].Name
		m.progress(ProgressEvent{Message: fmt.Sprintf("No edition given, using %s", sel.Edition), Level: LevelVerbose})
	}

	if sel.Language == "" {
		m.progress(ProgressEvent{Message: "Discovering languages...", Level: LevelInfo})
		langs, err := m.resolver.Languages(ctx, sel.Version, sel.Release, sel.Edition)
		if err != nil {
			return sel, "", err
		}
		sel.Language = defaultLanguage(langs, locale.System())
		m.progress(ProgressEvent{Message: fmt.Sprintf("No language given, using %s", sel.Language), Level: LevelVerbose})
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Resolving download for %s", sel.String()), Level: LevelInfo})
	archs, err := m.resolver.Architectures(ctx, sel.Version, sel.Release, sel.Edition, sel.Language)
	if err != nil {
		return sel, "", err
	}

	if sel.Architecture == "" {
		sel.Architecture = defaultArchitecture(archs, locale.HostArchitecture())
		m.progress(ProgressEvent{Message: fmt.Sprintf("No architecture given, using %s", sel.Architecture), Level: LevelVerbose})
	}

	for _, a := range archs {
		if strings.EqualFold(a.Name, sel.Architecture) {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Resolved: %s", a.URL), Level: LevelSuccess})
			return sel, a.URL, nil
		}
	}
	return sel, "", &msapi.NotFoundError{Kind: "architecture", Query: sel.Architecture}
}

// Download streams the artifact at url to disk and returns the
// destination path. The selection is used to compose a filename when one
// cannot be derived from the URL. An existing file whose size is within
// the allowed difference of the remote size is kept as-is. Failures are
// retried with exponential cooldown per the settings.
func (m *Manager) Download(ctx context.Context, sel model.Selection, url string) (string, error) {
	dest, err := m.destinationPath(sel, url)
	if err != nil {
		return "", err
	}

	expected, err := m.client.GetFileSize(ctx, url)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Could not determine file size: %v", err), Level: LevelWarning})
		expected = 0
	}
	atomic.StoreInt64(&m.totalBytes, expected)

	if m.alreadyDownloaded(dest, expected) {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping existing: %s", filepath.Base(dest)), Level: LevelInfo})
		atomic.StoreInt64(&m.receivedBytes, expected)
		return dest, nil
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloading %s (%s)", filepath.Base(dest), ioutils.HumanBytes(expected)), Level: LevelInfo})

	g, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	g.Go(func() error {
		defer close(done)
		return m.downloadWithRetry(gctx, url, dest)
	})
	g.Go(func() error {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return nil
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				m.reportProgress()
			}
		}
	})

	if err := g.Wait(); err != nil {
		return "", err
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded: %s", dest), Level: LevelSuccess})
	return dest, nil
}

// GetProgress returns bytes received so far and the expected total.
// Total is zero when the remote size is unknown.
func (m *Manager) GetProgress() (received, total int64) {
	return atomic.LoadInt64(&m.receivedBytes), atomic.LoadInt64(&m.totalBytes)
}

func (m *Manager) downloadWithRetry(ctx context.Context, url, dest string) error {
	var err error
	for tries := 0; tries < m.settings.DownloadMaxRetries; tries++ {
		err = m.client.DownloadFile(ctx, url, dest, func(written, total int64) {
			atomic.StoreInt64(&m.receivedBytes, written)
			if total > 0 {
				atomic.StoreInt64(&m.totalBytes, total)
			}
		})
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return err
		}
		if tries < m.settings.DownloadMaxRetries-1 {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Retry %d/%d: %v", tries+1, m.settings.DownloadMaxRetries, err), Level: LevelWarning})
			m.waitForRetry(ctx, tries)
		}
	}
	return err
}

// destinationPath derives the local path for the artifact: the output
// setting when it names a file, a joined path when it names a directory,
// and the URL-derived filename in the working directory otherwise.
func (m *Manager) destinationPath(sel model.Selection, url string) (string, error) {
	name := ioutils.FileNameFromURL(url)
	if name == "" {
		name = composedFileName(sel)
	}

	out := m.settings.OutputPath
	switch {
	case out == "":
		return name, nil
	case strings.HasSuffix(out, string(os.PathSeparator)) || strings.HasSuffix(out, "/"):
		if err := ioutils.EnsureDir(out); err != nil {
			return "", err
		}
		return filepath.Join(out, name), nil
	}

	if info, err := os.Stat(out); err == nil && info.IsDir() {
		return filepath.Join(out, name), nil
	}
	if err := ioutils.EnsureDir(filepath.Dir(out)); err != nil {
		return "", err
	}
	return out, nil
}

func (m *Manager) alreadyDownloaded(dest string, expected int64) bool {
	info, err := os.Stat(dest)
	if err != nil || expected <= 0 {
		return false
	}
	diff := float64(info.Size()-expected) / float64(expected)
	return math.Abs(diff) <= m.settings.AllowedFileSizeDifference
}

func (m *Manager) reportProgress() {
	received, total := m.GetProgress()
	if total > 0 {
		pct := float64(received) / float64(total) * 100
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("%.1f%% (%s / %s)", pct, ioutils.HumanBytes(received), ioutils.HumanBytes(total)),
			Level:   LevelVerbose,
		})
		return
	}
	m.progress(ProgressEvent{Message: ioutils.HumanBytes(received), Level: LevelVerbose})
}

func (m *Manager) waitForRetry(ctx context.Context, tries int) {
	cooldown := m.settings.DownloadRetryCooldown * math.Pow(m.settings.DownloadRetryExponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
	}
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}

// composedFileName builds a filename from the selection for URLs that
// carry no recognizable ISO name (some signed links hide it entirely).
func composedFileName(sel model.Selection) string {
	parts := []string{sel.Version, sel.Release, sel.Edition, sel.Language, sel.Architecture}
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return "download.iso"
	}
	name := strings.Join(kept, "_")
	name = strings.ReplaceAll(name, " ", "_")
	return ioutils.SanitizeFileName(name) + ".iso"
}

// defaultLanguage picks the language for an unspecified selection: the
// one matching the system locale, else American English, else the first
// discovered.
func defaultLanguage(langs []model.Language, systemLocale string) string {
	if len(langs) == 0 {
		return ""
	}
	for _, l := range langs {
		if locale.MatchesLanguage(l.Name, systemLocale) || locale.MatchesLanguage(l.DisplayName, systemLocale) {
			return l.Name
		}
	}
	for _, l := range langs {
		if strings.Contains(strings.ToLower(l.Name), "english") && strings.Contains(strings.ToLower(l.Name), "united states") {
			return l.Name
		}
	}
	return langs[0].Name
}

// defaultArchitecture picks the architecture for an unspecified
// selection: the one matching the host, else the first offered.
func defaultArchitecture(archs []model.Architecture, host string) string {
	if len(archs) == 0 {
		return ""
	}
	for _, a := range archs {
		if strings.EqualFold(a.Name, host) {
			return a.Name
		}
	}
	return archs[0].Name
}
