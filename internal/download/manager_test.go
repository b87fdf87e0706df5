package download

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/getwindl/windl/internal/config"
	"github.com/getwindl/windl/internal/model"
)

func testManager(t *testing.T, mutate func(*config.Settings)) *Manager {
	t.Helper()
	settings := config.DefaultSettings()
	settings.DownloadRetryCooldown = 0
	if mutate != nil {
		mutate(settings)
	}
	return NewManager(settings, log.New(io.Discard), nil)
}

func TestDefaultLanguage(t *testing.T) {
	langs := []model.Language{
		{Name: "German", DisplayName: "Deutsch"},
		{Name: "English (United States)", DisplayName: "English (US)"},
		{Name: "Japanese", DisplayName: "日本語"},
	}

	tests := []struct {
		name   string
		locale string
		want   string
	}{
		{name: "system locale match", locale: "de-DE", want: "German"},
		{name: "unknown locale falls back to US English", locale: "xx-YY", want: "English (United States)"},
		{name: "US locale", locale: "en-US", want: "English (United States)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := defaultLanguage(langs, tt.locale); got != tt.want {
				t.Errorf("defaultLanguage(%q) = %q, want %q", tt.locale, got, tt.want)
			}
		})
	}

	noEnglish := []model.Language{{Name: "German"}, {Name: "French"}}
	if got := defaultLanguage(noEnglish, "xx-YY"); got != "German" {
		t.Errorf("defaultLanguage without english = %q, want first entry", got)
	}
	if got := defaultLanguage(nil, "en-US"); got != "" {
		t.Errorf("defaultLanguage(nil) = %q, want empty", got)
	}
}

func TestDefaultArchitecture(t *testing.T) {
	archs := []model.Architecture{
		{Name: "x86", URL: "u1"},
		{Name: "x64", URL: "u2"},
		{Name: "ARM64", URL: "u3"},
	}

	if got := defaultArchitecture(archs, "x64"); got != "x64" {
		t.Errorf("defaultArchitecture(x64) = %q", got)
	}
	if got := defaultArchitecture(archs, "arm64"); got != "ARM64" {
		t.Errorf("defaultArchitecture(arm64) = %q, want case-insensitive match", got)
	}
	if got := defaultArchitecture(archs, "riscv"); got != "x86" {
		t.Errorf("defaultArchitecture(riscv) = %q, want first entry", got)
	}
}

func TestDestinationPath(t *testing.T) {
	dir := t.TempDir()
	url := "https://dl.example.test/path/Win11_24H2_English_x64.iso?t=abc"

	t.Run("no output path", func(t *testing.T) {
		m := testManager(t, nil)
		got, err := m.destinationPath(model.Selection{}, url)
		if err != nil {
			t.Fatal(err)
		}
		if got != "Win11_24H2_English_x64.iso" {
			t.Errorf("destinationPath() = %q", got)
		}
	})

	t.Run("output is a directory", func(t *testing.T) {
		m := testManager(t, func(s *config.Settings) { s.OutputPath = dir })
		got, err := m.destinationPath(model.Selection{}, url)
		if err != nil {
			t.Fatal(err)
		}
		if got != filepath.Join(dir, "Win11_24H2_English_x64.iso") {
			t.Errorf("destinationPath() = %q", got)
		}
	})

	t.Run("output is a file path", func(t *testing.T) {
		out := filepath.Join(dir, "sub", "custom.iso")
		m := testManager(t, func(s *config.Settings) { s.OutputPath = out })
		got, err := m.destinationPath(model.Selection{}, url)
		if err != nil {
			t.Fatal(err)
		}
		if got != out {
			t.Errorf("destinationPath() = %q, want %q", got, out)
		}
		if _, err := os.Stat(filepath.Join(dir, "sub")); err != nil {
			t.Errorf("parent directory not created: %v", err)
		}
	})
}

func TestComposedFileName(t *testing.T) {
	sel := model.Selection{
		Version:      "Windows 11",
		Release:      "24H2",
		Edition:      "Home/Pro",
		Language:     "English",
		Architecture: "x64",
	}
	got := composedFileName(sel)
	if got != "Windows_11_24H2_Home_Pro_English_x64.iso" {
		t.Errorf("composedFileName() = %q", got)
	}
	if got := composedFileName(model.Selection{}); got != "download.iso" {
		t.Errorf("composedFileName(empty) = %q", got)
	}
}

func TestDestinationPathWithoutISOName(t *testing.T) {
	m := testManager(t, nil)
	sel := model.Selection{Version: "Windows 11", Architecture: "x64"}
	got, err := m.destinationPath(sel, "https://dl.example.test/get?token=abc")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Windows_11_x64.iso" {
		t.Errorf("destinationPath() = %q, want composed fallback", got)
	}
}

func TestDownloadWritesFile(t *testing.T) {
	payload := []byte("fake iso payload, long enough to be realistic for a test")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	dir := t.TempDir()
	m := testManager(t, func(s *config.Settings) { s.OutputPath = filepath.Join(dir, "image.iso") })

	var events []ProgressEvent
	m.onProgress = func(e ProgressEvent) { events = append(events, e) }

	dest, err := m.Download(context.Background(), model.Selection{}, srv.URL+"/image.iso")
	if err != nil {
		t.Fatalf("Download() = %v", err)
	}
	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(payload) {
		t.Errorf("file content mismatch: %d bytes, want %d", len(got), len(payload))
	}

	received, total := m.GetProgress()
	if received != int64(len(payload)) || total != int64(len(payload)) {
		t.Errorf("GetProgress() = %d/%d, want %d/%d", received, total, len(payload), len(payload))
	}
	if len(events) == 0 {
		t.Error("no progress events emitted")
	}
}

func TestDownloadSkipsExisting(t *testing.T) {
	payload := []byte("stable payload served on every request here")
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			requests++
		}
		w.Header().Set("Content-Length", "43")
		if r.Method == http.MethodGet {
			w.Write(payload)
		}
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "image.iso")
	if err := os.WriteFile(dest, payload, 0644); err != nil {
		t.Fatal(err)
	}

	m := testManager(t, func(s *config.Settings) { s.OutputPath = dest })
	got, err := m.Download(context.Background(), model.Selection{}, srv.URL+"/image.iso")
	if err != nil {
		t.Fatalf("Download() = %v", err)
	}
	if got != dest {
		t.Errorf("Download() = %q, want %q", got, dest)
	}
	if requests != 0 {
		t.Errorf("server received %d GET requests, want 0 (skip existing)", requests)
	}
}

func TestDownloadRetriesThenSucceeds(t *testing.T) {
	payload := []byte("eventually served payload")
	gets := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Length", "25")
			return
		}
		gets++
		if gets == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write(payload)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "image.iso")
	m := testManager(t, func(s *config.Settings) { s.OutputPath = dest })

	if _, err := m.Download(context.Background(), model.Selection{}, srv.URL+"/image.iso"); err != nil {
		t.Fatalf("Download() = %v, want recovery on second attempt", err)
	}
	if gets != 2 {
		t.Errorf("server received %d GET requests, want 2", gets)
	}
}
