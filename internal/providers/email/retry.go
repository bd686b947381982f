package email

import (
	"context"
	"time"
)

// RetryPolicy makes resend behavior an explicit collaborator instead of an
// inlined loop at the call site.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
}

// LinearBackoff returns attempt*step delays: step, 2*step, 3*step, ...
func LinearBackoff(step time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * step
	}
}

// RetryingSender wraps a Provider and retries failed sends per the policy.
type RetryingSender struct {
	provider Provider
	policy   RetryPolicy
}

func NewRetryingSender(provider Provider, policy RetryPolicy) *RetryingSender {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &RetryingSender{provider: provider, policy: policy}
}

func (s *RetryingSender) Send(ctx context.Context, to []string, subject string, htmlBody string) error {
	return s.retry(ctx, func() error {
		return s.provider.Send(ctx, to, subject, htmlBody)
	})
}

func (s *RetryingSender) SendTemplate(ctx context.Context, to []string, templateName string, data map[string]interface{}) error {
	return s.retry(ctx, func() error {
		return s.provider.SendTemplate(ctx, to, templateName, data)
	})
}

func (s *RetryingSender) retry(ctx context.Context, send func() error) error {
	var lastErr error
	for attempt := 1; attempt <= s.policy.MaxAttempts; attempt++ {
		lastErr = send()
		if lastErr == nil {
			return nil
		}
		if attempt == s.policy.MaxAttempts {
			break
		}
		delay := time.Duration(0)
		if s.policy.Backoff != nil {
			delay = s.policy.Backoff(attempt)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}
