package custodian

import (
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/owlprotocol/denote-workspace-sub000/ledger"
)

// RetryPolicy bounds how often a failing request is attempted again.
//
// MaxAttempts of zero retries forever. InitialBackoff of zero retries on the
// next poll without waiting.
type RetryPolicy struct {
	MaxAttempts    int           `mapstructure:"max_attempts"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration `mapstructure:"max_backoff"`
	Multiplier     float64       `mapstructure:"multiplier"`
}

// DefaultRetryPolicy gives up after five failures, waiting one to thirty
// minutes between attempts.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    5,
		InitialBackoff: time.Minute,
		MaxBackoff:     30 * time.Minute,
		Multiplier:     2,
	}
}

// Validate checks the policy values.
func (p RetryPolicy) Validate() error {
	if p.MaxAttempts < 0 {
		return ErrInvalidConfig.Wrapf("max attempts cannot be negative, got %d", p.MaxAttempts)
	}
	if p.InitialBackoff < 0 || p.MaxBackoff < 0 {
		return ErrInvalidConfig.Wrap("backoff durations cannot be negative")
	}
	if p.InitialBackoff > 0 && p.MaxBackoff < p.InitialBackoff {
		return ErrInvalidConfig.Wrapf("max backoff %s is below initial backoff %s", p.MaxBackoff, p.InitialBackoff)
	}
	if p.InitialBackoff > 0 && p.Multiplier < 1 {
		return ErrInvalidConfig.Wrapf("multiplier must be at least 1, got %v", p.Multiplier)
	}
	return nil
}

func (p RetryPolicy) newBackOff() *backoff.ExponentialBackOff {
	b := &backoff.ExponentialBackOff{
		InitialInterval: p.InitialBackoff,
		Multiplier:      p.Multiplier,
		MaxInterval:     p.MaxBackoff,
	}
	b.Reset()
	return b
}

type retryState struct {
	attempts  int
	notBefore time.Time
	backoff   *backoff.ExponentialBackOff
}

// retryTracker remembers failed requests until they succeed or are dead-lettered.
type retryTracker struct {
	policy  RetryPolicy
	entries map[ledger.ContractID]*retryState
}

func newRetryTracker(policy RetryPolicy) *retryTracker {
	return &retryTracker{policy: policy, entries: make(map[ledger.ContractID]*retryState)}
}

// ready reports whether cid may be attempted at now.
func (t *retryTracker) ready(cid ledger.ContractID, now time.Time) bool {
	st, ok := t.entries[cid]
	return !ok || !now.Before(st.notBefore)
}

// failure records a failed attempt and reports the attempt count and whether
// the request has exhausted its attempts.
func (t *retryTracker) failure(cid ledger.ContractID, now time.Time) (int, bool) {
	st, ok := t.entries[cid]
	if !ok {
		st = &retryState{}
		if t.policy.InitialBackoff > 0 {
			st.backoff = t.policy.newBackOff()
		}
		t.entries[cid] = st
	}
	st.attempts++

	if t.policy.MaxAttempts > 0 && st.attempts >= t.policy.MaxAttempts {
		delete(t.entries, cid)
		return st.attempts, true
	}
	if st.backoff != nil {
		st.notBefore = now.Add(st.backoff.NextBackOff())
	}
	return st.attempts, false
}

// attempts returns the failures recorded for cid so far.
func (t *retryTracker) attempts(cid ledger.ContractID) int {
	if st, ok := t.entries[cid]; ok {
		return st.attempts
	}
	return 0
}

func (t *retryTracker) forget(cid ledger.ContractID) {
	delete(t.entries, cid)
}

func (t *retryTracker) size() int {
	return len(t.entries)
}
