package msapi

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	httpx "github.com/getwindl/windl/internal/http"
	"github.com/getwindl/windl/internal/msapi/dto"
)

const (
	// banSentinelType is the error type code the vendor returns when a
	// client has been rate-limited or blocked.
	banSentinelType = 9

	// banReferenceCode is the support reference embedded in the vendor's
	// localized block explanation. Extraction only trusts a page message
	// that contains it.
	banReferenceCode = "715-123130"

	// banMessageMarker identifies the hidden input on the download page
	// that carries the localized block explanation.
	banMessageMarker = `id="errorModalMessage"`
)

// fallbackBanMessage is used whenever the localized explanation cannot
// be extracted.
const fallbackBanMessage = "Your IP address has been blocked by the vendor (error 715-123130). " +
	"Wait a few days, or retry from a different network."

var (
	markupPattern     = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// classifier inspects vendor responses and sorts them into the error
// taxonomy: ok, API error, or blocked. On a ban it resolves the
// localized explanation from the vendor's download page.
type classifier struct {
	client   *httpx.Client
	siteBase string
	logger   *log.Logger
}

// classify checks a decoded vendor response, in order: the structured
// validation container (non-empty means APIError), then the legacy flat
// error list, whose first entry either carries the ban sentinel
// (BlockedError) or a plain vendor message (APIError). Returns nil for
// a usable payload.
func (c *classifier) classify(ctx context.Context, resp *dto.Response, locale, sessionID string) error {
	if resp.ValidationContainer.HasErrors() {
		return &APIError{Message: resp.ValidationContainer.First()}
	}
	if len(resp.Errors) == 0 {
		return nil
	}

	first := resp.Errors[0]
	if first.Type == banSentinelType {
		msg := c.banMessage(ctx, locale)
		return &BlockedError{
			Message:   fmt.Sprintf("%s Session: %s", msg, sessionID),
			SessionID: sessionID,
		}
	}
	return &APIError{Message: first.Value}
}

// banMessage fetches the localized download page and extracts the block
// explanation from its hidden error field. Best-effort end to end: a
// fetch error, a missing marker or a message without the known reference
// code all fall through to the fixed fallback. Never returns an error.
func (c *classifier) banMessage(ctx context.Context, locale string) string {
	pageURL := fmt.Sprintf("%s/%s/software-download/windows11", c.siteBase, strings.ToLower(locale))

	body, status, err := c.client.GetString(ctx, pageURL, nil)
	if err != nil || status != http.StatusOK {
		c.logger.Debug("ban message page fetch failed", "url", pageURL, "status", status, "err", err)
		return fallbackBanMessage
	}

	msg, ok := extractHiddenField(body, banMessageMarker)
	if !ok || !strings.Contains(msg, banReferenceCode) {
		return fallbackBanMessage
	}
	return msg
}

// extractHiddenField pulls the value attribute of the input identified
// by marker, HTML-unescapes it, strips markup and collapses whitespace.
func extractHiddenField(body, marker string) (string, bool) {
	i := strings.Index(body, marker)
	if i < 0 {
		return "", false
	}
	rest := body[i:]

	const valueAttr = `value="`
	vi := strings.Index(rest, valueAttr)
	if vi < 0 {
		return "", false
	}
	rest = rest[vi+len(valueAttr):]

	end := strings.IndexByte(rest, '"')
	if end < 0 {
		return "", false
	}

	msg := html.UnescapeString(rest[:end])
	msg = markupPattern.ReplaceAllString(msg, " ")
	msg = whitespacePattern.ReplaceAllString(msg, " ")
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return "", false
	}
	return msg, true
}
