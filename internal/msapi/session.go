package msapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	httpx "github.com/getwindl/windl/internal/http"
)

// sessionStatus records the outcome of a session's gateway registration.
type sessionStatus int

const (
	statusUnknown sessionStatus = iota
	statusWhitelisted
	// statusDegraded means the gateway call failed but the pipeline
	// continues; the downstream API often accepts the session anyway.
	statusDegraded
)

type branchSession struct {
	id     string
	status sessionStatus
}

// SessionRegistry creates and retains one session identifier per funnel
// branch.
//
// A branch's session is created exactly once, immediately allow-listed
// with the vendor gateway, and then reused for every vendor call
// attributable to that branch: the SKU discovery call and, later, the
// download-links call for any SKU the branch surfaced. Creating a fresh
// session for the second call makes the vendor reject it, which is why
// the registry is keyed by branch index rather than handing out
// throwaway identifiers.
//
// The registry is owned by a single Resolver and mutated only from the
// pipeline's thread of control; it holds no locks.
type SessionRegistry struct {
	client      *httpx.Client
	gateway     string
	landingPage string
	orgID       string
	logger      *log.Logger

	sessions map[int]*branchSession
	newID    func() string
}

// NewSessionRegistry creates a registry that allow-lists sessions
// against the given gateway endpoint.
func NewSessionRegistry(client *httpx.Client, gateway, landingPage, orgID string, logger *log.Logger) *SessionRegistry {
	return &SessionRegistry{
		client:      client,
		gateway:     gateway,
		landingPage: landingPage,
		orgID:       orgID,
		logger:      logger,
		sessions:    make(map[int]*branchSession),
		newID:       uuid.NewString,
	}
}

// Begin generates a fresh session identifier for the branch, registers
// it under branchIndex and allow-lists it with the gateway.
//
// Whitelisting failure is soft: the gateway is sometimes unreachable
// while the downstream API still accepts the session, so the failure is
// logged, recorded on the session, and the identifier is returned
// anyway. Only context cancellation aborts.
func (r *SessionRegistry) Begin(ctx context.Context, branchIndex int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s := &branchSession{id: r.newID()}
	if err := r.whitelist(ctx, s.id); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		s.status = statusDegraded
		r.logger.Warn("session whitelisting failed, continuing anyway",
			"branch", branchIndex, "session", s.id, "err", err)
	} else {
		s.status = statusWhitelisted
	}

	r.sessions[branchIndex] = s
	return s.id, nil
}

// SessionFor returns the session identifier registered for the branch.
// An unknown branch indicates a pipeline ordering bug (architecture
// discovery ran before language discovery) and yields a not-found error.
func (r *SessionRegistry) SessionFor(branchIndex int) (string, error) {
	s, ok := r.sessions[branchIndex]
	if !ok {
		return "", &NotFoundError{Kind: "branch session", Query: strconv.Itoa(branchIndex)}
	}
	return s.id, nil
}

// Degraded reports whether any branch proceeded despite a failed
// gateway registration. Surfaced to callers for diagnostics only.
func (r *SessionRegistry) Degraded() bool {
	for _, s := range r.sessions {
		if s.status == statusDegraded {
			return true
		}
	}
	return false
}

// whitelist performs the gateway call. The response body is ignored;
// only transport success or failure is observed.
func (r *SessionRegistry) whitelist(ctx context.Context, sessionID string) error {
	u := fmt.Sprintf("%s?org_id=%s&session_id=%s",
		r.gateway, url.QueryEscape(r.orgID), url.QueryEscape(sessionID))

	r.logger.Debug("whitelisting session", "url", u)

	_, _, err := r.client.Get(ctx, u, map[string]string{
		"Referer":          r.landingPage,
		"Sec-Fetch-Dest":   "empty",
		"Sec-Fetch-Mode":   "cors",
		"Sec-Fetch-Site":   "cross-site",
		"X-Requested-With": "XMLHttpRequest",
	})
	return err
}
