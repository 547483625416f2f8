package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	ctx := context.Background()
	permanent := errors.New("permanent")

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   bool
	}{
		{"success first try", 0, nil, 1, false},
		{"retryable then success", 1, &RetryableError{Err: ErrNetwork}, 2, false},
		{"permanent stops", 5, permanent, 1, true},
		{"retryable exhausted", 5, &RetryableError{Err: ErrNetwork}, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Policy{Attempts: 3, Delay: time.Millisecond}.Do(ctx, func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Policy{Attempts: 3, Delay: time.Second}.Do(ctx, func() error {
		return &RetryableError{Err: ErrNetwork}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestPolicyOnRetry(t *testing.T) {
	var attempts []int
	calls := 0
	p := Policy{
		Attempts: 4,
		Delay:    2 * time.Millisecond,
		MaxDelay: 3 * time.Millisecond,
		OnRetry: func(attempt int, err error) {
			attempts = append(attempts, attempt)
			if !errors.Is(err, ErrNetwork) {
				t.Errorf("OnRetry err = %v", err)
			}
		},
	}
	err := p.Do(context.Background(), func() error {
		calls++
		return &RetryableError{Err: ErrNetwork}
	})
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("err = %v, want ErrNetwork", err)
	}
	// No OnRetry after the final attempt.
	if len(attempts) != 3 || attempts[0] != 1 || attempts[2] != 3 {
		t.Errorf("OnRetry attempts = %v, want [1 2 3]", attempts)
	}
	if calls != 4 {
		t.Errorf("calls = %d, want 4", calls)
	}
}

func TestPolicyDefaults(t *testing.T) {
	p := Policy{}.withDefaults()
	if p.Attempts != DefaultAttempts || p.Delay != DefaultDelay || p.MaxDelay != DefaultMaxDelay {
		t.Errorf("defaults = %+v", p)
	}
	p = Policy{Delay: time.Minute, MaxDelay: time.Second}.withDefaults()
	if p.MaxDelay != time.Minute {
		t.Errorf("MaxDelay = %v, want raised to Delay", p.MaxDelay)
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		code      int
		wantErr   error
		retryable bool
	}{
		{200, nil, false},
		{204, nil, false},
		{404, ErrNotFound, false},
		{429, ErrNetwork, true},
		{500, ErrNetwork, true},
		{403, ErrNetwork, false},
	}
	for _, tt := range tests {
		err := CheckStatus(tt.code)
		if tt.wantErr == nil {
			if err != nil {
				t.Errorf("%d: err = %v", tt.code, err)
			}
			continue
		}
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("%d: err = %v, want %v", tt.code, err, tt.wantErr)
		}
		if got := isRetryable(err); got != tt.retryable {
			t.Errorf("%d: retryable = %v, want %v", tt.code, got, tt.retryable)
		}
	}
}
