package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sony/gobreaker/v2"
)

var errFlaky = errors.New("nats: timeout")

func retryOnFlaky(err error) ErrorClassification {
	return ErrorClassification{Retryable: errors.Is(err, errFlaky), RecordFailure: true}
}

func fastRetries(attempts int) Config {
	return Config{
		RetryMaxAttempts:    attempts,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     2,
	}
}

func TestBackoffSchedule(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want []time.Duration
	}{
		{name: "single attempt", cfg: Config{RetryMaxAttempts: 1}, want: nil},
		{
			name: "grows then caps",
			cfg: Config{
				RetryMaxAttempts:    5,
				RetryInitialBackoff: 100 * time.Millisecond,
				RetryMaxBackoff:     300 * time.Millisecond,
				RetryMultiplier:     2,
			},
			want: []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond, 300 * time.Millisecond},
		},
		{
			name: "initial above cap",
			cfg: Config{
				RetryMaxAttempts:    3,
				RetryInitialBackoff: time.Second,
				RetryMaxBackoff:     250 * time.Millisecond,
				RetryMultiplier:     3,
			},
			want: []time.Duration{250 * time.Millisecond, 250 * time.Millisecond},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, backoffSchedule(tc.cfg)); diff != "" {
				t.Fatalf("schedule mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExecuteRetries(t *testing.T) {
	errBadSubject := errors.New("nats: invalid subject")
	cases := []struct {
		name         string
		attempts     int
		failures     int
		failWith     error
		wantErr      error
		wantCalls    int
		wantRetryLog []int
	}{
		{name: "recovers after transient failures", attempts: 3, failures: 2, failWith: errFlaky, wantCalls: 3, wantRetryLog: []int{1, 2}},
		{name: "gives up when budget is spent", attempts: 2, failures: 5, failWith: errFlaky, wantErr: errFlaky, wantCalls: 2, wantRetryLog: []int{1}},
		{name: "permanent failure is not retried", attempts: 3, failures: 5, failWith: errBadSubject, wantErr: errBadSubject, wantCalls: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var retried []int
			exec := NewExecutorWithHooks(fastRetries(tc.attempts), nil, Hooks{
				OnRetry: func(_ string, attempt int) { retried = append(retried, attempt) },
			})

			calls := 0
			err := exec.Execute(context.Background(), "nats.publish", func(context.Context) error {
				calls++
				if calls <= tc.failures {
					return tc.failWith
				}
				return nil
			}, retryOnFlaky)

			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if calls != tc.wantCalls {
				t.Fatalf("expected %d calls, got %d", tc.wantCalls, calls)
			}
			if diff := cmp.Diff(tc.wantRetryLog, retried); diff != "" {
				t.Fatalf("retry hook mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExecuteStopsOnCancelledContext(t *testing.T) {
	exec := NewExecutor(Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: time.Hour,
		RetryMaxBackoff:     time.Hour,
		RetryMultiplier:     2,
	})
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := exec.Execute(ctx, "nats.publish", func(context.Context) error {
		calls++
		cancel()
		return errFlaky
	}, retryOnFlaky)
	if !errors.Is(err, errFlaky) {
		t.Fatalf("expected last operation error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected no retry after cancellation, got %d calls", calls)
	}
}

func TestExecuteOpensBreakerPerOperation(t *testing.T) {
	var transitions []gobreaker.State
	cfg := fastRetries(1)
	cfg.BreakerEnabled = true
	cfg.BreakerMinRequests = 2
	cfg.BreakerFailureRatio = 0.5
	cfg.BreakerOpenTimeout = time.Minute
	cfg.BreakerHalfOpenMaxCalls = 1
	exec := NewExecutorWithHooks(cfg, nil, Hooks{
		OnStateChange: func(_ string, to gobreaker.State) { transitions = append(transitions, to) },
	})

	failing := func(context.Context) error { return errFlaky }
	for i := 0; i < 2; i++ {
		if err := exec.Execute(context.Background(), "nats.publish", failing, retryOnFlaky); !errors.Is(err, errFlaky) {
			t.Fatalf("expected publish error on call %d, got %v", i, err)
		}
	}

	err := exec.Execute(context.Background(), "nats.publish", func(context.Context) error {
		t.Fatalf("operation must not run while the breaker is open")
		return nil
	}, retryOnFlaky)
	if !IsCircuitOpen(err) {
		t.Fatalf("expected open breaker error, got %v", err)
	}
	if got := exec.State("nats.publish"); got != gobreaker.StateOpen {
		t.Fatalf("expected open state, got %s", got)
	}
	if diff := cmp.Diff([]gobreaker.State{gobreaker.StateOpen}, transitions); diff != "" {
		t.Fatalf("transitions mismatch (-want +got):\n%s", diff)
	}

	if err := exec.Execute(context.Background(), "nats.subscribe", func(context.Context) error { return nil }, retryOnFlaky); err != nil {
		t.Fatalf("expected independent breaker for another operation, got %v", err)
	}
	if exec.State("never-ran") != gobreaker.StateClosed {
		t.Fatalf("expected unknown operation to report closed")
	}
}

func TestExecuteRejectsNilCallback(t *testing.T) {
	if err := NewExecutor(DefaultConfig()).Execute(context.Background(), "op", nil, nil); err == nil {
		t.Fatalf("expected error for nil callback")
	}
}
