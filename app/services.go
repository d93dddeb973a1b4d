package app

import (
	"context"
	"errors"
	"time"

	"cosmossdk.io/log"
	"github.com/benbjohnson/clock"
	"golang.org/x/sync/errgroup"

	"github.com/owlprotocol/denote-workspace-sub000/api"
	"github.com/owlprotocol/denote-workspace-sub000/api/health"
	"github.com/owlprotocol/denote-workspace-sub000/custodian"
	"github.com/owlprotocol/denote-workspace-sub000/custodian/approval"
	"github.com/owlprotocol/denote-workspace-sub000/custodian/deadletter"
	"github.com/owlprotocol/denote-workspace-sub000/ledger"
	"github.com/owlprotocol/denote-workspace-sub000/ledger/jsonapi"
	bondkeeper "github.com/owlprotocol/denote-workspace-sub000/x/bond/keeper"
	tokenkeeper "github.com/owlprotocol/denote-workspace-sub000/x/token/keeper"
)

// Version is reported by health endpoints
var Version = "dev"

// NewLedgerClient connects to the configured JSON API
func NewLedgerClient(cfg Config, logger log.Logger) (ledger.Client, error) {
	return jsonapi.NewClient(cfg.Ledger, logger)
}

// deadLetterStore is the sink selected by DeadLetterConfig plus its
// lifecycle hooks.
type deadLetterStore struct {
	sink  custodian.DeadLetterSink
	close func() error
	ping  func(context.Context) error
}

func openDeadLetterStore(ctx context.Context, cfg DeadLetterConfig, logger log.Logger) (deadLetterStore, error) {
	switch {
	case cfg.PostgresDSN != "":
		sink, err := deadletter.OpenPostgresSink(ctx, cfg.PostgresDSN)
		if err != nil {
			return deadLetterStore{}, err
		}
		logger.Info("dead letters stored in postgres")
		return deadLetterStore{sink: sink, close: sink.Close, ping: sink.Ping}, nil
	case cfg.Dir != "":
		sink, err := deadletter.NewFileSink(cfg.Dir,
			deadletter.WithMaxSize(cfg.MaxSizeMB<<20),
			deadletter.WithMaxFiles(cfg.MaxFiles),
		)
		if err != nil {
			return deadLetterStore{}, err
		}
		logger.Info("dead letters stored on disk", "dir", cfg.Dir)
		return deadLetterStore{sink: sink, close: sink.Close}, nil
	default:
		return deadLetterStore{sink: custodian.NewLogSink(logger), close: func() error { return nil }}, nil
	}
}

// CustodianService is the custodian daemon with its ops listener.
type CustodianService struct {
	Party      ledger.Party
	Dispatcher *custodian.Dispatcher
	Checker    *health.Checker

	ops         *OpsServer
	deadLetters deadLetterStore
	logger      log.Logger
}

// NewCustodianService builds the dispatcher for cfg against client. The
// custodian key must be configured.
func NewCustodianService(ctx context.Context, cfg Config, client ledger.Client, logger log.Logger) (*CustodianService, error) {
	party, err := cfg.Custodian.CustodianParty()
	if err != nil {
		return nil, err
	}

	store, err := openDeadLetterStore(ctx, cfg.Custodian.DeadLetter, logger)
	if err != nil {
		return nil, err
	}

	tokens := tokenkeeper.NewKeeper(client, logger)
	bonds := bondkeeper.NewKeeper(client, logger)
	d, err := custodian.NewDispatcher(client,
		approval.NewMockClient(cfg.Custodian.ApprovalDelay, logger),
		custodian.NewLedgerAcceptor(party, tokens, bonds),
		cfg.Custodian.DispatcherConfig(party),
		logger,
		custodian.WithDeadLetterSink(store.sink),
	)
	if err != nil {
		_ = store.close()
		return nil, err
	}

	// progress is marked after every request: one approval plus one interval apart
	step := cfg.Custodian.PollInterval + cfg.Custodian.ApprovalDelay
	checker := health.NewChecker(Version, clock.New())
	checker.Register("ledger", health.LedgerCheck(client))
	checker.Register("custodian", health.ProgressCheck(d.LastProgress, 10*step, 3*step, clock.New()))
	if store.ping != nil {
		checker.Register("dead_letters", health.DatabaseCheck(store.ping))
	}

	s := &CustodianService{
		Party:       party,
		Dispatcher:  d,
		Checker:     checker,
		deadLetters: store,
		logger:      logger,
	}
	if cfg.Ops.Enabled {
		s.ops = NewOpsServer(cfg.Ops.Addr, checker, logger)
	}
	return s, nil
}

// Run runs the dispatcher and the ops server until ctx is cancelled.
func (s *CustodianService) Run(ctx context.Context) error {
	defer func() {
		if err := s.deadLetters.close(); err != nil {
			s.logger.Error("failed to close dead letter sink", "error", err)
		}
	}()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.Dispatcher.Run(ctx) })
	if s.ops != nil {
		g.Go(func() error { return s.ops.Start(ctx) })
	}
	return g.Wait()
}

// APIService is the REST server with its ops listener.
type APIService struct {
	Server  *api.Server
	Checker *health.Checker
	ops     *OpsServer
}

// NewAPIService builds the REST server for cfg against client. custodianParty
// may be empty when no custodian key is configured.
func NewAPIService(cfg Config, client ledger.Client, custodianParty ledger.Party, logger log.Logger) *APIService {
	checker := health.NewChecker(Version, clock.New())
	checker.Register("ledger", health.LedgerCheck(client))

	apiCfg := cfg.API
	s := &APIService{
		Server:  api.NewServer(client, custodianParty, &apiCfg, logger),
		Checker: checker,
	}
	if cfg.Ops.Enabled {
		s.ops = NewOpsServer(cfg.Ops.Addr, checker, logger)
	}
	return s
}

// Run serves until ctx is cancelled.
func (s *APIService) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.Server.Start(ctx) })
	if s.ops != nil {
		g.Go(func() error { return s.ops.Start(ctx) })
	}
	return g.Wait()
}

// OptionalCustodianParty returns the custodian party when a key is configured
// and the empty party otherwise.
func OptionalCustodianParty(cfg CustodianConfig) (ledger.Party, error) {
	party, err := cfg.CustodianParty()
	if errors.Is(err, ErrMissingCustodianKey) {
		return "", nil
	}
	return party, err
}

// ShutdownTimeout bounds telemetry flushing on exit
const ShutdownTimeout = 5 * time.Second
