// Package jsonapi implements ledger.Client over the ledger's JSON API (v2).
package jsonapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/owlprotocol/denote-workspace-sub000/ledger"
)

const tracerName = "denote/ledger/jsonapi"

// Config holds JSON API connection settings
type Config struct {
	// BaseURL of the JSON API, e.g. http://localhost:7575
	BaseURL string `mapstructure:"url"`

	// UserID is the ledger user commands are submitted as.
	UserID string `mapstructure:"user_id"`

	// Audience and HMACSecret are used to mint short lived HS256 bearer
	// tokens. StaticToken, when set, is sent as is instead.
	Audience    string        `mapstructure:"audience"`
	HMACSecret  string        `mapstructure:"hmac_secret"`
	StaticToken string        `mapstructure:"token"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`

	// Timeout bounds each HTTP round trip. Zero means no timeout.
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultConfig returns a config for a local sandbox
func DefaultConfig() Config {
	return Config{
		BaseURL:  "http://localhost:7575",
		UserID:   "ledger-api-user",
		Audience: "https://daml.com/jwt/aud/participant/participant1",
		TokenTTL: 5 * time.Minute,
	}
}

// Client talks to the JSON API over HTTP.
type Client struct {
	cfg    Config
	http   *http.Client
	logger log.Logger
	tracer trace.Tracer

	latency metric.Float64Histogram
}

var _ ledger.Client = (*Client)(nil)

// NewClient creates a new JSON API client
func NewClient(cfg Config, logger log.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("json api base URL is required")
	}
	if cfg.UserID == "" {
		return nil, fmt.Errorf("json api user id is required")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 5 * time.Minute
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	latency, err := otel.Meter(tracerName).Float64Histogram("ledger.request.duration",
		metric.WithDescription("JSON API round trip latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create latency histogram: %w", err)
	}

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger.With("module", "ledger"),
		tracer:  otel.Tracer(tracerName),
		latency: latency,
	}, nil
}

// LedgerEnd returns the current ledger end offset
func (c *Client) LedgerEnd(ctx context.Context) (ledger.Offset, error) {
	var out ledgerEndResponse
	if err := c.do(ctx, http.MethodGet, "/v2/state/ledger-end", nil, &out); err != nil {
		return 0, err
	}
	return ledger.Offset(out.Offset), nil
}

// ActiveContracts queries the active contract set
func (c *Client) ActiveContracts(ctx context.Context, q ledger.ActiveContractsQuery) ([]ledger.ContractEntry, error) {
	ctx, span := c.tracer.Start(ctx, "ledger.active_contracts",
		trace.WithAttributes(
			attribute.Int("ledger.template_count", len(q.TemplateIDs)),
			attribute.Int64("ledger.offset", int64(q.Offset)),
		),
	)
	defer span.End()

	req := newActiveContractsRequest(q)
	var out []activeContractsResponseItem
	if err := c.do(ctx, http.MethodPost, "/v2/state/active-contracts", req, &out); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	entries := make([]ledger.ContractEntry, 0, len(out))
	for _, item := range out {
		entries = append(entries, item.toEntry())
	}
	span.SetAttributes(attribute.Int("ledger.entry_count", len(entries)))
	return entries, nil
}

// Submit submits commands and waits for the resulting transaction
func (c *Client) Submit(ctx context.Context, cmds ledger.Commands) (*ledger.Transaction, error) {
	if cmds.CommandID == "" {
		cmds.CommandID = uuid.NewString()
	}

	ctx, span := c.tracer.Start(ctx, "ledger.submit",
		trace.WithAttributes(
			attribute.String("ledger.command_id", cmds.CommandID),
			attribute.Int("ledger.command_count", len(cmds.Commands)),
		),
	)
	defer span.End()

	req, err := newSubmitRequest(cmds, c.cfg.UserID)
	if err != nil {
		return nil, err
	}

	var out submitResponse
	if err := c.do(ctx, http.MethodPost, "/v2/commands/submit-and-wait-for-transaction", req, &out); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	tx, err := out.toTransaction()
	if err != nil {
		return nil, err
	}

	c.logger.Debug("transaction committed",
		"command_id", cmds.CommandID,
		"update_id", tx.UpdateID,
		"offset", tx.Offset,
		"events", len(tx.Events),
	)
	return tx, nil
}

// AllocateParty allocates a party on the participant
func (c *Client) AllocateParty(ctx context.Context, hint string) (ledger.Party, error) {
	req := allocatePartyRequest{PartyIDHint: hint}
	var out allocatePartyResponse
	if err := c.do(ctx, http.MethodPost, "/v2/parties", req, &out); err != nil {
		return "", err
	}
	if out.PartyDetails.Party == "" {
		return "", errorsmod.Wrap(ledger.ErrMalformedResponse, "party allocation returned no party")
	}
	return ledger.Party(out.PartyDetails.Party), nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	token, err := c.bearerToken()
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	c.latency.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("http.path", path),
		attribute.Int("http.status", status),
	))
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errorsmod.Wrapf(ledger.ErrLedgerUnavailable, "%s %s: %s", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return newAPIError(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errorsmod.Wrapf(ledger.ErrMalformedResponse, "%s %s: %s", method, path, err)
	}
	return nil
}

func (c *Client) bearerToken() (string, error) {
	if c.cfg.StaticToken != "" {
		return c.cfg.StaticToken, nil
	}
	if c.cfg.HMACSecret == "" {
		return "", nil
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   c.cfg.UserID,
		"aud":   c.cfg.Audience,
		"scope": "daml_ledger_api",
		"iat":   now.Unix(),
		"exp":   now.Add(c.cfg.TokenTTL).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(c.cfg.HMACSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign ledger token: %w", err)
	}
	return signed, nil
}
