// Package custodian polls the ledger for request contracts addressed to the
// custodian party, runs each through the compliance approval service and
// accepts it on the ledger.
//
// Requests are handled one at a time with a full polling interval between
// them. Successfully accepted requests are remembered for the life of the
// process only, so a restart re-examines everything still active.
package custodian

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"cosmossdk.io/log"
	"github.com/benbjohnson/clock"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/owlprotocol/denote-workspace-sub000/app/telemetry"
	"github.com/owlprotocol/denote-workspace-sub000/ledger"
)

// Default timings
const (
	DefaultPollInterval = 60 * time.Second
)

// Config configures a Dispatcher.
type Config struct {
	// Party is the custodian party requests are filtered to and accepted as.
	Party        ledger.Party
	PollInterval time.Duration
	Retry        RetryPolicy
}

// DefaultConfig returns the default dispatcher configuration for party.
func DefaultConfig(party ledger.Party) Config {
	return Config{
		Party:        party,
		PollInterval: DefaultPollInterval,
		Retry:        DefaultRetryPolicy(),
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := ledger.ValidateParty(c.Party); err != nil {
		return ErrInvalidConfig.Wrap(err.Error())
	}
	if c.PollInterval <= 0 {
		return ErrInvalidConfig.Wrapf("poll interval must be positive, got %s", c.PollInterval)
	}
	return c.Retry.Validate()
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// CycleStats summarises one polling cycle.
type CycleStats struct {
	Observed     int // active request contracts returned by the query
	New          int // dispatched this cycle
	Processed    int
	Failed       int
	Skipped      int // unknown templates
	Deferred     int // still inside their retry backoff
	DeadLettered int
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithClock sets the clock used for retry windows and timestamps.
func WithClock(c clock.Clock) Option {
	return func(d *Dispatcher) { d.clock = c }
}

// WithSleeper replaces the sleep between requests and cycles.
func WithSleeper(s Sleeper) Option {
	return func(d *Dispatcher) { d.sleep = s }
}

// WithDeadLetterSink sets where abandoned requests are recorded.
func WithDeadLetterSink(s DeadLetterSink) Option {
	return func(d *Dispatcher) { d.deadLetters = s }
}

// Dispatcher is the custodian polling loop. It is not safe for concurrent use;
// a single goroutine calls Run.
type Dispatcher struct {
	client   ledger.Client
	approver Approver
	acceptor Acceptor
	cfg      Config
	logger   log.Logger

	clock       clock.Clock
	sleep       Sleeper
	deadLetters DeadLetterSink
	tracer      trace.Tracer
	metrics     *Metrics

	processed *ProcessedSet
	dead      map[ledger.ContractID]struct{}
	retries   *retryTracker

	lastCycle    atomic.Pointer[time.Time]
	lastProgress atomic.Pointer[time.Time]
}

// NewDispatcher creates a dispatcher with an empty processed set.
func NewDispatcher(client ledger.Client, approver Approver, acceptor Acceptor, cfg Config, logger log.Logger, opts ...Option) (*Dispatcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := &Dispatcher{
		client:    client,
		approver:  approver,
		acceptor:  acceptor,
		cfg:       cfg,
		logger:    logger.With("module", ModuleName),
		clock:     clock.New(),
		tracer:    otel.Tracer("denote/custodian"),
		metrics:   NewMetrics(),
		processed: NewProcessedSet(),
		dead:      make(map[ledger.ContractID]struct{}),
		retries:   newRetryTracker(cfg.Retry),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.sleep == nil {
		d.sleep = ClockSleeper(d.clock)
	}
	if d.deadLetters == nil {
		d.deadLetters = NewLogSink(d.logger)
	}
	return d, nil
}

// ClockSleeper sleeps on c.
func ClockSleeper(c clock.Clock) Sleeper {
	return func(ctx context.Context, d time.Duration) error {
		t := c.Timer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			return nil
		}
	}
}

// Processed returns the set of requests accepted by this dispatcher.
func (d *Dispatcher) Processed() *ProcessedSet {
	return d.processed
}

// DeadLettered reports whether cid was abandoned.
func (d *Dispatcher) DeadLettered(cid ledger.ContractID) bool {
	_, ok := d.dead[cid]
	return ok
}

// LastCycle returns when the last successful cycle finished, or the zero
// time. Safe to call from other goroutines.
func (d *Dispatcher) LastCycle() time.Time {
	if t := d.lastCycle.Load(); t != nil {
		return *t
	}
	return time.Time{}
}

// LastProgress returns when the dispatcher last completed a query or
// finished with a request, or the zero time. A cycle working through a
// backlog advances it once per request. Safe to call from other goroutines.
func (d *Dispatcher) LastProgress() time.Time {
	if t := d.lastProgress.Load(); t != nil {
		return *t
	}
	return time.Time{}
}

func (d *Dispatcher) markProgress() time.Time {
	now := d.clock.Now()
	d.lastProgress.Store(&now)
	return now
}

// Run polls until ctx is cancelled. A failed query is logged and retried after
// one polling interval.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.logger.Info("custodian started",
		"party", d.cfg.Party,
		"poll_interval", d.cfg.PollInterval,
		"max_attempts", d.cfg.Retry.MaxAttempts,
	)
	for {
		stats, err := d.RunCycle(ctx)
		if ctx.Err() != nil {
			break
		}
		switch {
		case err != nil:
			d.logger.Error("poll failed", "error", err)
		case stats.Observed > 0:
			d.logger.Info("cycle complete",
				"observed", stats.Observed,
				"new", stats.New,
				"processed", stats.Processed,
				"failed", stats.Failed,
				"skipped", stats.Skipped,
				"deferred", stats.Deferred,
				"dead_lettered", stats.DeadLettered,
			)
		}
		if err := d.sleep(ctx, d.cfg.PollInterval); err != nil {
			break
		}
	}
	d.logger.Info("custodian stopped", "processed", d.processed.Len())
	return nil
}

// RunCycle queries the active requests once and dispatches every new one,
// sleeping one polling interval after each.
func (d *Dispatcher) RunCycle(ctx context.Context) (CycleStats, error) {
	ctx, span := d.tracer.Start(ctx, "custodian.cycle")
	defer span.End()

	var stats CycleStats
	pending, err := d.poll(ctx, &stats)
	if err != nil {
		d.metrics.Cycles.WithLabelValues("query_failed").Inc()
		telemetry.RecordError(span, err)
		return stats, err
	}
	stats.New = len(pending)
	d.markProgress()

	for _, ev := range pending {
		d.dispatch(ctx, ev, &stats)
		if err := d.sleep(ctx, d.cfg.PollInterval); err != nil {
			return stats, err
		}
		d.markProgress()
	}

	d.metrics.Cycles.WithLabelValues("ok").Inc()
	d.metrics.Processed.Set(float64(d.processed.Len()))
	d.metrics.PendingRetries.Set(float64(d.retries.size()))
	now := d.markProgress()
	d.lastCycle.Store(&now)
	d.metrics.LastCycle.Set(float64(now.Unix()))
	span.SetAttributes(
		attribute.Int("observed", stats.Observed),
		attribute.Int("new", stats.New),
		attribute.Int("processed", stats.Processed),
	)
	return stats, nil
}

// poll returns the active requests that are neither processed, abandoned nor
// waiting out a retry backoff, in ledger order.
func (d *Dispatcher) poll(ctx context.Context, stats *CycleStats) ([]*ledger.CreatedEvent, error) {
	offset, err := d.client.LedgerEnd(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: ledger end: %w", ErrQueryFailed, err)
	}
	entries, err := d.client.ActiveContracts(ctx, ledger.ActiveContractsQuery{
		TemplateIDs:   WatchedTemplates(),
		FilterByParty: true,
		Parties:       []ledger.Party{d.cfg.Party},
		Offset:        offset,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: active contracts at %d: %w", ErrQueryFailed, offset, err)
	}

	now := d.clock.Now()
	var pending []*ledger.CreatedEvent
	for _, entry := range entries {
		ev := entry.Active
		if ev == nil {
			continue
		}
		stats.Observed++
		if d.processed.Contains(ev.ContractID) {
			continue
		}
		if _, ok := d.dead[ev.ContractID]; ok {
			continue
		}
		if !d.retries.ready(ev.ContractID, now) {
			stats.Deferred++
			continue
		}
		pending = append(pending, ev)
	}
	return pending, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, ev *ledger.CreatedEvent, stats *CycleStats) {
	ctx, span := d.tracer.Start(ctx, "custodian.dispatch", trace.WithAttributes(
		attribute.String("contract_id", ev.ContractID.String()),
		attribute.String("template_id", ev.TemplateID.String()),
	))
	defer span.End()
	start := d.clock.Now()

	req, err := Classify(ev)
	if errors.Is(err, ErrUnknownTemplate) {
		d.logger.Warn("skipping request with unknown template", "contract_id", ev.ContractID, "template_id", ev.TemplateID)
		d.metrics.RequestsTotal.WithLabelValues(KindUnknown.String(), "skipped").Inc()
		stats.Skipped++
		return
	}
	if err != nil {
		d.fail(ctx, span, ev, KindUnknown, err, stats)
		return
	}
	kind := req.Kind()
	span.SetAttributes(attribute.String("kind", kind.String()))

	approved, err := req.approve(ctx, d.approver)
	if err != nil {
		d.fail(ctx, span, ev, kind, fmt.Errorf("approval: %w", err), stats)
		return
	}
	if !approved {
		d.logger.Warn("request rejected by approval service", "contract_id", ev.ContractID, "kind", kind)
		d.abandon(ctx, ev, kind, ReasonRejected, d.retries.attempts(ev.ContractID)+1, ErrApprovalRejected)
		d.metrics.RequestsTotal.WithLabelValues(kind.String(), "rejected").Inc()
		stats.DeadLettered++
		return
	}

	if err := req.accept(ctx, d.acceptor); err != nil {
		d.fail(ctx, span, ev, kind, fmt.Errorf("accept: %w", err), stats)
		return
	}

	d.processed.Add(ev.ContractID)
	d.retries.forget(ev.ContractID)
	stats.Processed++
	d.metrics.RequestsTotal.WithLabelValues(kind.String(), "processed").Inc()
	d.metrics.DispatchLatency.WithLabelValues(kind.String()).Observe(d.clock.Since(start).Seconds())
	d.logger.Info("request processed", "contract_id", ev.ContractID, "kind", kind)
}

// fail leaves the request out of the processed set so a later cycle picks it
// up again, unless it has run out of attempts.
func (d *Dispatcher) fail(ctx context.Context, span trace.Span, ev *ledger.CreatedEvent, kind Kind, err error, stats *CycleStats) {
	telemetry.RecordError(span, err)
	stats.Failed++
	d.metrics.RequestsTotal.WithLabelValues(kind.String(), "failed").Inc()

	attempts, exhausted := d.retries.failure(ev.ContractID, d.clock.Now())
	d.logger.Error("request failed", "contract_id", ev.ContractID, "kind", kind, "attempt", attempts, "error", err)
	if exhausted {
		d.abandon(ctx, ev, kind, ReasonExhausted, attempts, err)
		stats.DeadLettered++
	}
}

func (d *Dispatcher) abandon(ctx context.Context, ev *ledger.CreatedEvent, kind Kind, reason string, attempts int, cause error) {
	d.dead[ev.ContractID] = struct{}{}
	d.retries.forget(ev.ContractID)

	dl := DeadLetter{
		ContractID: ev.ContractID,
		TemplateID: ev.TemplateID,
		Kind:       kind.String(),
		Reason:     reason,
		Attempts:   attempts,
		Payload:    ev.CreateArgument,
		At:         d.clock.Now().UTC(),
	}
	if cause != nil {
		dl.LastError = cause.Error()
	}
	if err := d.deadLetters.Write(ctx, dl); err != nil {
		d.logger.Error("failed to write dead letter", "contract_id", ev.ContractID, "error", err)
	}
}
