package msapi

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	httpx "github.com/getwindl/windl/internal/http"
	"github.com/getwindl/windl/internal/locale"
)

// negotiator fixes the request locale for a resolver run.
//
// The vendor only serves a limited set of localized download pages; a
// locale it doesn't know is rejected across the API. The negotiator
// probes the localized landing page for the system locale once and
// adopts it on HTTP success, otherwise it adopts the fallback. The
// probe is deliberately not retried: a failure means "not supported",
// not "transient".
type negotiator struct {
	client       *httpx.Client
	siteBase     string
	fallback     string
	systemLocale func() string
	logger       *log.Logger
}

func newNegotiator(client *httpx.Client, siteBase, fallback string, logger *log.Logger) *negotiator {
	return &negotiator{
		client:       client,
		siteBase:     siteBase,
		fallback:     fallback,
		systemLocale: locale.System,
		logger:       logger,
	}
}

func (n *negotiator) negotiate(ctx context.Context) string {
	loc := n.systemLocale()
	if loc == "" || strings.EqualFold(loc, n.fallback) {
		return n.fallback
	}

	probeURL := fmt.Sprintf("%s/%s/software-download/", n.siteBase, strings.ToLower(loc))
	_, status, err := n.client.Get(ctx, probeURL, nil)
	if err == nil && status >= 200 && status < 300 {
		n.logger.Debug("system locale accepted", "locale", loc)
		return loc
	}

	n.logger.Debug("locale not supported, using fallback",
		"locale", loc, "fallback", n.fallback, "status", status, "err", err)
	return n.fallback
}
