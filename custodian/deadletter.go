package custodian

import (
	"context"
	"encoding/json"
	"time"

	"cosmossdk.io/log"

	"github.com/owlprotocol/denote-workspace-sub000/ledger"
)

// DeadLetter is a request the custodian stopped attempting.
type DeadLetter struct {
	ContractID ledger.ContractID `json:"contractId"`
	TemplateID ledger.TemplateID `json:"templateId"`
	Kind       string            `json:"kind"`
	Reason     string            `json:"reason"`
	Attempts   int               `json:"attempts"`
	LastError  string            `json:"lastError,omitempty"`
	Payload    json.RawMessage   `json:"payload,omitempty"`
	At         time.Time         `json:"at"`
}

// Dead letter reasons
const (
	ReasonRejected  = "approval_rejected"
	ReasonExhausted = "retries_exhausted"
)

// DeadLetterSink stores dead letters for an operator to inspect.
type DeadLetterSink interface {
	Write(ctx context.Context, dl DeadLetter) error
}

// LogSink writes dead letters to the logger only.
type LogSink struct {
	logger log.Logger
}

// NewLogSink returns a sink logging at error level.
func NewLogSink(logger log.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Write(_ context.Context, dl DeadLetter) error {
	s.logger.Error("request dead-lettered",
		"contract_id", dl.ContractID,
		"kind", dl.Kind,
		"reason", dl.Reason,
		"attempts", dl.Attempts,
		"last_error", dl.LastError,
	)
	return nil
}
