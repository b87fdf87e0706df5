package msapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	httpx "github.com/getwindl/windl/internal/http"
	"github.com/getwindl/windl/internal/msapi/dto"
)

func testClassifier(siteBase string) *classifier {
	return &classifier{
		client:   httpx.NewClient(5 * time.Second),
		siteBase: siteBase,
		logger:   log.New(io.Discard),
	}
}

func TestClassifyCleanResponse(t *testing.T) {
	c := testClassifier("http://127.0.0.1:0")
	resp := &dto.Response{Skus: []dto.Sku{{ID: "1", Language: "English"}}}

	if err := c.classify(context.Background(), resp, "en-US", "s1"); err != nil {
		t.Fatalf("classify() = %v, want nil", err)
	}
}

func TestClassifyValidationContainer(t *testing.T) {
	c := testClassifier("http://127.0.0.1:0")
	resp := &dto.Response{
		ValidationContainer: &dto.ValidationContainer{
			ErrorList: []json.RawMessage{json.RawMessage(`"invalid edition"`)},
		},
	}

	err := c.classify(context.Background(), resp, "en-US", "s1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("classify() = %v, want APIError", err)
	}
	if !strings.Contains(apiErr.Message, "invalid edition") {
		t.Errorf("Message = %q, want the vendor text", apiErr.Message)
	}
}

func TestClassifyPlainAPIError(t *testing.T) {
	c := testClassifier("http://127.0.0.1:0")
	resp := &dto.Response{Errors: []dto.ErrorEntry{{Type: 2, Value: "no such sku"}}}

	err := c.classify(context.Background(), resp, "en-US", "s1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("classify() = %v, want APIError", err)
	}
	if apiErr.Message != "no such sku" {
		t.Errorf("Message = %q, want the vendor value verbatim", apiErr.Message)
	}
}

func TestClassifyBanWithScrapedMessage(t *testing.T) {
	page := `<html><body>
		<input id="errorModalMessage" type="hidden"
			value="We are unable to serve &lt;b&gt;your request&lt;/b&gt;.   Error code 715-123130." />
	</body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/en-us/software-download/windows11" {
			t.Errorf("ban page path = %q", r.URL.Path)
		}
		io.WriteString(w, page)
	}))
	defer srv.Close()

	c := testClassifier(srv.URL)
	resp := &dto.Response{Errors: []dto.ErrorEntry{{Type: banSentinelType, Value: "Sentinel"}}}

	err := c.classify(context.Background(), resp, "en-US", "sess-42")
	var blocked *BlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("classify() = %v, want BlockedError", err)
	}
	if blocked.SessionID != "sess-42" {
		t.Errorf("SessionID = %q, want sess-42", blocked.SessionID)
	}
	if !strings.Contains(blocked.Message, banReferenceCode) {
		t.Errorf("Message = %q, want scraped text with reference code", blocked.Message)
	}
	if strings.Contains(blocked.Message, "<b>") {
		t.Errorf("Message = %q, markup not stripped", blocked.Message)
	}
	if !strings.Contains(blocked.Message, "Session: sess-42") {
		t.Errorf("Message = %q, want the session id appended", blocked.Message)
	}
}

func TestClassifyBanFallsBackWhenPageUnreadable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := testClassifier(srv.URL)
	resp := &dto.Response{Errors: []dto.ErrorEntry{{Type: banSentinelType}}}

	err := c.classify(context.Background(), resp, "en-US", "s1")
	var blocked *BlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("classify() = %v, want BlockedError", err)
	}
	if !strings.Contains(blocked.Message, fallbackBanMessage) {
		t.Errorf("Message = %q, want the fallback explanation", blocked.Message)
	}
}

func TestClassifyBanFallsBackWithoutReferenceCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<input id="errorModalMessage" value="Unrelated banner text." />`)
	}))
	defer srv.Close()

	c := testClassifier(srv.URL)
	resp := &dto.Response{Errors: []dto.ErrorEntry{{Type: banSentinelType}}}

	err := c.classify(context.Background(), resp, "en-US", "s1")
	var blocked *BlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("classify() = %v, want BlockedError", err)
	}
	if !strings.Contains(blocked.Message, fallbackBanMessage) {
		t.Errorf("Message = %q, want the fallback explanation", blocked.Message)
	}
}

func TestExtractHiddenField(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   string
		wantOK bool
	}{
		{
			name:   "simple value",
			body:   `<input id="errorModalMessage" value="plain text" />`,
			want:   "plain text",
			wantOK: true,
		},
		{
			name:   "entities and markup",
			body:   `<input id="errorModalMessage" value="a &amp; b &lt;i&gt;c&lt;/i&gt;  d" />`,
			want:   "a & b c d",
			wantOK: true,
		},
		{
			name: "marker absent",
			body: `<input id="other" value="x" />`,
		},
		{
			name: "empty value",
			body: `<input id="errorModalMessage" value="" />`,
		},
		{
			name: "unterminated value",
			body: `<input id="errorModalMessage" value="never closed`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractHiddenField(tt.body, banMessageMarker)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
