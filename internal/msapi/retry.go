package msapi

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	httpx "github.com/getwindl/windl/internal/http"
)

const (
	chrome120UA  = httpx.DefaultUserAgent
	chrome119UA  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36"
	firefox121UA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/121.0"
)

// attemptProfile is one row of the request-shaping strategy table. The
// vendor's server-side validation is inconsistent: different Accept
// headers, browser identities and encodings of the unused query
// placeholders succeed at different times. Each retry therefore reshapes
// the request per this table instead of repeating it verbatim.
type attemptProfile struct {
	accept      string
	userAgent   string
	placeholder string // encoding of the unused SKU/filename parameters
	lowerLocale bool   // send the locale parameter lower-cased
	xhr         bool   // include X-Requested-With
	noCache     bool   // include cache-busting and CORS fetch metadata
}

// attemptProfiles is indexed by zero-based attempt number.
var attemptProfiles = []attemptProfile{
	{accept: "application/json, text/plain, */*", userAgent: chrome120UA, placeholder: "undefined", xhr: true},
	{accept: "*/*", userAgent: chrome119UA, placeholder: "", lowerLocale: true, xhr: true, noCache: true},
	{accept: "application/json", userAgent: firefox121UA, placeholder: "null", noCache: true},
}

// maxAttempts is the total number of tries per vendor call.
const maxAttempts = 3

// retrier wraps individual vendor calls with bounded retry, exponential
// backoff and per-attempt request shaping.
//
// A short jittered delay precedes every attempt, emulating the script
// execution latency a real browser exhibits before firing the request.
// The vendor blocks high-frequency clients, so these delays are part of
// the call's correctness, not cosmetics.
type retrier struct {
	logger *log.Logger

	backoffSleep sleepFunc
	jitterSleep  sleepFunc
	jitter       func() time.Duration
}

func newRetrier(logger *log.Logger) *retrier {
	return &retrier{
		logger:       logger,
		backoffSleep: sleepCtx,
		jitterSleep:  sleepCtx,
		jitter: func() time.Duration {
			return 100*time.Millisecond + rand.N(300*time.Millisecond)
		},
	}
}

// do invokes op once per attempt profile until it succeeds or fails
// terminally. Transient failures back off 2^attempt seconds (2s, then
// 4s) between attempts; any other failure, and the final attempt's
// failure, return immediately with the error unmodified.
func (r *retrier) do(ctx context.Context, name string, op func(p attemptProfile) error) error {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := r.jitterSleep(ctx, r.jitter()); err != nil {
			return err
		}

		lastErr = op(attemptProfiles[attempt])
		if lastErr == nil {
			return nil
		}
		if !isTransient(lastErr) || attempt == maxAttempts-1 {
			return lastErr
		}

		backoff := time.Duration(1<<(attempt+1)) * time.Second
		r.logger.Warn("vendor call failed, retrying",
			"op", name, "attempt", attempt+1, "backoff", backoff, "err", lastErr)
		if err := r.backoffSleep(ctx, backoff); err != nil {
			return err
		}
	}
	return lastErr
}
