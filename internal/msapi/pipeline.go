package msapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/getwindl/windl/internal/catalog"
	httpx "github.com/getwindl/windl/internal/http"
	"github.com/getwindl/windl/internal/model"
	"github.com/getwindl/windl/internal/msapi/dto"
)

// Config configures a Resolver. The zero value of every field has a
// sensible default, so Config{} yields a production resolver.
type Config struct {
	// Endpoints overrides the vendor URLs; zero means DefaultEndpoints.
	Endpoints Endpoints

	// OrgID and ProfileID identify the client to the vendor.
	OrgID     string
	ProfileID string

	// DefaultLocale is adopted when locale negotiation rejects the
	// system locale. Defaults to "en-US".
	DefaultLocale string

	// Timeout bounds each individual vendor request. Defaults to 30s.
	Timeout time.Duration

	// Logger receives debug/warn diagnostics. Defaults to a silent
	// logger.
	Logger *log.Logger
}

// Resolver walks the selection funnel against the vendor API:
// versions, releases and editions come from the static catalog;
// languages and architectures are discovered over the network; the
// final stage yields a download URL.
//
// A Resolver is single-run state: it owns the branch session registry,
// the negotiated locale and the warmed landing-page visit, none of which
// outlive it. It is not safe for concurrent use: stages must run
// strictly in order, and the human-pacing delays between vendor calls
// would be defeated by parallel branches.
type Resolver struct {
	cat       *catalog.Catalog
	client    *httpx.Client
	sessions  *SessionRegistry
	retry     *retrier
	classify  *classifier
	negotiate *negotiator
	endpoints Endpoints
	profileID string
	logger    *log.Logger

	// pacing knobs, overridden in tests
	sleep       sleepFunc
	branchDelay func() time.Duration
	pageDelay   func() time.Duration

	locale string
	warmed bool
}

// NewResolver creates a Resolver over the given catalog.
func NewResolver(cat *catalog.Catalog, cfg Config) *Resolver {
	if cfg.Endpoints == (Endpoints{}) {
		cfg.Endpoints = DefaultEndpoints()
	}
	if cfg.OrgID == "" {
		cfg.OrgID = "y6jn8c31"
	}
	if cfg.ProfileID == "" {
		cfg.ProfileID = "606624d44113c169"
	}
	if cfg.DefaultLocale == "" {
		cfg.DefaultLocale = "en-US"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}

	client := httpx.NewClient(cfg.Timeout)

	return &Resolver{
		cat:       cat,
		client:    client,
		sessions:  NewSessionRegistry(client, cfg.Endpoints.Gateway, cfg.Endpoints.LandingPage, cfg.OrgID, cfg.Logger),
		retry:     newRetrier(cfg.Logger),
		classify:  &classifier{client: client, siteBase: cfg.Endpoints.SiteBase, logger: cfg.Logger},
		negotiate: newNegotiator(client, cfg.Endpoints.SiteBase, cfg.DefaultLocale, cfg.Logger),
		endpoints: cfg.Endpoints,
		profileID: cfg.ProfileID,
		logger:    cfg.Logger,
		sleep:     sleepCtx,
		branchDelay: func() time.Duration {
			return 500*time.Millisecond + rand.N(time.Second)
		},
		pageDelay: func() time.Duration {
			return time.Second + rand.N(2*time.Second)
		},
	}
}

// Versions returns the catalog's product versions. No network access.
func (r *Resolver) Versions() []model.Version {
	return r.cat.Versions()
}

// Releases returns the releases of the first version matching the
// fragment. No network access.
func (r *Resolver) Releases(version string) ([]model.Release, error) {
	releases, ok := r.cat.Releases(version)
	if !ok {
		return nil, &NotFoundError{Kind: "version", Query: version}
	}
	return releases, nil
}

// Editions returns the editions of the matched release. No network
// access.
func (r *Resolver) Editions(version, release string) ([]model.Edition, error) {
	if _, ok := r.cat.FindVersion(version); !ok {
		return nil, &NotFoundError{Kind: "version", Query: version}
	}
	editions, ok := r.cat.Editions(version, release)
	if !ok {
		return nil, &NotFoundError{Kind: "release", Query: release}
	}
	return editions, nil
}

// Languages discovers the installation languages of the matched edition.
//
// Each internal edition identifier becomes a funnel branch, indexed by
// its position in the edition's identifier list. Every branch gets its
// own allow-listed session, a pacing delay, and one SKU-information
// call. SKUs surfaced by different branches for the same language are
// merged into a single record that remembers each contributing branch.
//
// Firmware-shell versions short-circuit to a single fixed language.
func (r *Resolver) Languages(ctx context.Context, version, release, edition string) ([]model.Language, error) {
	if isShellVersion(version) {
		return shellLanguages(), nil
	}

	ed, err := r.findEdition(version, release, edition)
	if err != nil {
		return nil, err
	}

	if err := r.ensureReady(ctx); err != nil {
		return nil, err
	}

	var langs []model.Language
	index := make(map[string]int)

	for branch, editionID := range ed.IDs {
		sessionID, err := r.sessions.Begin(ctx, branch)
		if err != nil {
			return nil, err
		}
		if err := r.sleep(ctx, r.branchDelay()); err != nil {
			return nil, err
		}

		resp, err := r.skuInformation(ctx, editionID, sessionID)
		if err != nil {
			return nil, fmt.Errorf("language discovery for branch %d (edition id %d): %w", branch, editionID, err)
		}

		for _, sku := range resp.Skus {
			i, ok := index[sku.Language]
			if !ok {
				i = len(langs)
				index[sku.Language] = i
				langs = append(langs, model.Language{
					Name:        sku.Language,
					DisplayName: sku.LocalizedLanguage,
				})
			}
			langs[i].Refs = append(langs[i].Refs, model.SkuRef{BranchIndex: branch, SkuID: sku.ID})
		}
	}

	return langs, nil
}

// Architectures discovers the download options for the matched language.
//
// For every (branch, SKU) pair accumulated under the language, the call
// presents the exact session registered for that branch during language
// discovery. Sessions are reused, never recreated, or the vendor
// rejects the request. Firmware-shell versions divert to the static
// release-asset path.
func (r *Resolver) Architectures(ctx context.Context, version, release, edition, language string) ([]model.Architecture, error) {
	if isShellVersion(version) {
		return r.shellArchitectures(ctx, version, release, edition)
	}

	langs, err := r.Languages(ctx, version, release, edition)
	if err != nil {
		return nil, err
	}
	lang, ok := findLanguage(langs, language)
	if !ok {
		return nil, &NotFoundError{Kind: "language", Query: language}
	}

	var archs []model.Architecture
	for _, ref := range lang.Refs {
		sessionID, err := r.sessions.SessionFor(ref.BranchIndex)
		if err != nil {
			return nil, err
		}
		if err := r.sleep(ctx, r.branchDelay()); err != nil {
			return nil, err
		}

		resp, err := r.downloadLinks(ctx, ref.SkuID, sessionID)
		if err != nil {
			return nil, fmt.Errorf("architecture discovery for sku %s: %w", ref.SkuID, err)
		}
		for _, opt := range resp.ProductDownloadOptions {
			archs = append(archs, opt.ToArchitecture())
		}
	}

	return archs, nil
}

// DownloadURL resolves the full selection to a single artifact URL. The
// architecture match is exact (case-insensitive), unlike the substring
// matching of earlier stages.
func (r *Resolver) DownloadURL(ctx context.Context, version, release, edition, language, architecture string) (string, error) {
	archs, err := r.Architectures(ctx, version, release, edition, language)
	if err != nil {
		return "", err
	}

	for _, a := range archs {
		if strings.EqualFold(a.Name, architecture) {
			return a.URL, nil
		}
	}
	return "", &NotFoundError{Kind: "architecture", Query: architecture}
}

// Locale returns the negotiated request locale; empty until the first
// networked stage has run.
func (r *Resolver) Locale() string { return r.locale }

func (r *Resolver) findEdition(version, release, edition string) (*catalog.EditionData, error) {
	if _, ok := r.cat.FindVersion(version); !ok {
		return nil, &NotFoundError{Kind: "version", Query: version}
	}
	if _, ok := r.cat.FindRelease(version, release); !ok {
		return nil, &NotFoundError{Kind: "release", Query: release}
	}
	ed, ok := r.cat.FindEdition(version, release, edition)
	if !ok {
		return nil, &NotFoundError{Kind: "edition", Query: edition}
	}
	return ed, nil
}

// ensureReady runs the once-per-resolver preamble before the first
// vendor call: negotiate the request locale, then visit the landing
// page and linger the way a reading user would.
func (r *Resolver) ensureReady(ctx context.Context) error {
	if r.locale == "" {
		r.locale = r.negotiate.negotiate(ctx)
	}
	if !r.warmed {
		r.logger.Debug("visiting landing page", "url", r.endpoints.LandingPage)
		if err := r.client.Visit(ctx, r.endpoints.LandingPage); err != nil {
			return transientErr("landing page visit", err)
		}
		r.warmed = true
		if err := r.sleep(ctx, r.pageDelay()); err != nil {
			return err
		}
	}
	return nil
}

// skuInformation calls the SKU endpoint through the retry controller,
// reshaping the request per attempt.
func (r *Resolver) skuInformation(ctx context.Context, editionID int, sessionID string) (*dto.Response, error) {
	var resp *dto.Response
	err := r.retry.do(ctx, "sku information", func(p attemptProfile) error {
		q := url.Values{}
		q.Set("profile", r.profileID)
		q.Set("productEditionId", strconv.Itoa(editionID))
		q.Set("SKU", p.placeholder)
		q.Set("friendlyFileName", p.placeholder)
		q.Set("Locale", r.requestLocale(p))
		q.Set("sessionID", sessionID)

		got, err := r.fetchResponse(ctx, r.endpoints.SKUInfo+"?"+q.Encode(), p, sessionID, nil)
		if err != nil {
			return err
		}
		resp = got
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// downloadLinks calls the download-links endpoint through the retry
// controller, presenting the branch's session and the landing page as
// Referer.
func (r *Resolver) downloadLinks(ctx context.Context, skuID, sessionID string) (*dto.Response, error) {
	var resp *dto.Response
	err := r.retry.do(ctx, "download links", func(p attemptProfile) error {
		q := url.Values{}
		q.Set("profile", r.profileID)
		q.Set("productEditionId", p.placeholder)
		q.Set("SKU", skuID)
		q.Set("friendlyFileName", p.placeholder)
		q.Set("Locale", r.requestLocale(p))
		q.Set("sessionID", sessionID)

		got, err := r.fetchResponse(ctx, r.endpoints.DownloadLinks+"?"+q.Encode(), p, sessionID,
			map[string]string{"Origin": r.endpoints.SiteBase})
		if err != nil {
			return err
		}
		resp = got
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// fetchResponse performs one shaped vendor call: fetch, reject empty
// bodies, decode, classify. Empty and malformed bodies are transient;
// classification failures are terminal.
func (r *Resolver) fetchResponse(ctx context.Context, reqURL string, p attemptProfile, sessionID string, extra map[string]string) (*dto.Response, error) {
	headers := map[string]string{
		"Referer":         r.endpoints.LandingPage,
		"Accept":          p.accept,
		"Accept-Language": "en-US,en;q=0.9",
		"User-Agent":      p.userAgent,
	}
	if p.noCache {
		headers["Cache-Control"] = "no-cache"
		headers["Pragma"] = "no-cache"
		headers["Sec-Fetch-Dest"] = "empty"
		headers["Sec-Fetch-Mode"] = "cors"
		headers["Sec-Fetch-Site"] = "same-site"
	}
	if p.xhr {
		headers["X-Requested-With"] = "XMLHttpRequest"
	}
	for k, v := range extra {
		headers[k] = v
	}

	body, status, err := r.client.Get(ctx, reqURL, headers)
	if err != nil {
		return nil, transientErr("vendor api call", err)
	}
	r.logger.Debug("vendor api response", "url", reqURL, "status", status, "bytes", len(body))

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, transientErr("vendor api call", fmt.Errorf("empty response body (HTTP %d)", status))
	}

	var resp dto.Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, transientErr("vendor api call", fmt.Errorf("malformed response: %w", err))
	}

	if err := r.classify.classify(ctx, &resp, r.locale, sessionID); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *Resolver) requestLocale(p attemptProfile) string {
	loc := r.locale
	if loc == "" {
		loc = "en-US"
	}
	if p.lowerLocale {
		return strings.ToLower(loc)
	}
	return loc
}

// findLanguage matches a language fragment against both the language
// code and the localized display name.
func findLanguage(langs []model.Language, query string) (model.Language, bool) {
	for _, l := range langs {
		if model.MatchName(l.Name, query) || model.MatchName(l.DisplayName, query) {
			return l, true
		}
	}
	return model.Language{}, false
}
