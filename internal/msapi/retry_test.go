package msapi

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

// instantSleep records requested durations without waiting.
func instantSleep(into *[]time.Duration) sleepFunc {
	return func(ctx context.Context, d time.Duration) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		*into = append(*into, d)
		return nil
	}
}

func testRetrier(backoffs, jitters *[]time.Duration) *retrier {
	return &retrier{
		logger:       log.New(io.Discard),
		backoffSleep: instantSleep(backoffs),
		jitterSleep:  instantSleep(jitters),
		jitter:       func() time.Duration { return 150 * time.Millisecond },
	}
}

func TestRetrierSucceedsFirstAttempt(t *testing.T) {
	var backoffs, jitters []time.Duration
	r := testRetrier(&backoffs, &jitters)

	calls := 0
	err := r.do(context.Background(), "test", func(p attemptProfile) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("do() = %v, want nil", err)
	}
	if calls != 1 {
		t.Errorf("op called %d times, want 1", calls)
	}
	if len(backoffs) != 0 {
		t.Errorf("got %d backoff sleeps, want 0", len(backoffs))
	}
	if len(jitters) != 1 {
		t.Errorf("got %d jitter sleeps, want 1", len(jitters))
	}
}

func TestRetrierRetriesTransientWithBackoff(t *testing.T) {
	var backoffs, jitters []time.Duration
	r := testRetrier(&backoffs, &jitters)

	calls := 0
	err := r.do(context.Background(), "test", func(p attemptProfile) error {
		calls++
		return transientErr("op", errors.New("flaky"))
	})
	if err == nil {
		t.Fatal("do() = nil, want error after exhausting attempts")
	}
	if calls != maxAttempts {
		t.Errorf("op called %d times, want %d", calls, maxAttempts)
	}

	want := []time.Duration{2 * time.Second, 4 * time.Second}
	if len(backoffs) != len(want) {
		t.Fatalf("got %d backoff sleeps %v, want %d", len(backoffs), backoffs, len(want))
	}
	for i, d := range want {
		if backoffs[i] != d {
			t.Errorf("backoff[%d] = %v, want %v", i, backoffs[i], d)
		}
	}
	if len(jitters) != maxAttempts {
		t.Errorf("got %d jitter sleeps, want %d", len(jitters), maxAttempts)
	}
}

func TestRetrierSucceedsOnThirdAttempt(t *testing.T) {
	var backoffs, jitters []time.Duration
	r := testRetrier(&backoffs, &jitters)

	calls := 0
	err := r.do(context.Background(), "test", func(p attemptProfile) error {
		calls++
		if calls < 3 {
			return transientErr("op", errors.New("flaky"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("do() = %v, want success on third attempt", err)
	}
	if calls != 3 {
		t.Errorf("op called %d times, want 3", calls)
	}
	want := []time.Duration{2 * time.Second, 4 * time.Second}
	if len(backoffs) != 2 || backoffs[0] != want[0] || backoffs[1] != want[1] {
		t.Errorf("backoff sleeps = %v, want %v", backoffs, want)
	}
}

func TestRetrierStopsOnTerminalError(t *testing.T) {
	var backoffs, jitters []time.Duration
	r := testRetrier(&backoffs, &jitters)

	terminal := &APIError{Message: "bad edition"}
	calls := 0
	err := r.do(context.Background(), "test", func(p attemptProfile) error {
		calls++
		return terminal
	})
	if !errors.Is(err, terminal) {
		t.Fatalf("do() = %v, want the terminal error unmodified", err)
	}
	if calls != 1 {
		t.Errorf("op called %d times, want 1", calls)
	}
	if len(backoffs) != 0 {
		t.Errorf("got %d backoff sleeps, want 0", len(backoffs))
	}
}

func TestRetrierVariesAttemptProfile(t *testing.T) {
	var backoffs, jitters []time.Duration
	r := testRetrier(&backoffs, &jitters)

	var agents []string
	var placeholders []string
	_ = r.do(context.Background(), "test", func(p attemptProfile) error {
		agents = append(agents, p.userAgent)
		placeholders = append(placeholders, p.placeholder)
		return transientErr("op", errors.New("flaky"))
	})

	if len(agents) != maxAttempts {
		t.Fatalf("got %d attempts, want %d", len(agents), maxAttempts)
	}
	for i := 1; i < len(agents); i++ {
		if agents[i] == agents[i-1] {
			t.Errorf("attempt %d reused user agent %q", i, agents[i])
		}
	}
	wantPlaceholders := []string{"undefined", "", "null"}
	for i, want := range wantPlaceholders {
		if placeholders[i] != want {
			t.Errorf("attempt %d placeholder = %q, want %q", i, placeholders[i], want)
		}
	}
}

func TestRetrierHonorsContextCancellation(t *testing.T) {
	r := newRetrier(log.New(io.Discard))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.do(ctx, "test", func(p attemptProfile) error {
		t.Fatal("op must not run with a cancelled context")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("do() = %v, want context.Canceled", err)
	}
}
