package jsonapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/owlprotocol/denote-workspace-sub000/ledger"
)

// APIError is a non-2xx JSON API response.
type APIError struct {
	HTTPStatus    int
	Code          codes.Code
	ErrorCode     string
	Cause         string
	CorrelationID string
}

type errorBody struct {
	Code          string `json:"code"`
	Cause         string `json:"cause"`
	GRPCCodeValue *int   `json:"grpcCodeValue"`
	CorrelationID string `json:"correlationId"`
}

func newAPIError(httpStatus int, raw []byte) *APIError {
	e := &APIError{HTTPStatus: httpStatus, Code: codeFromHTTP(httpStatus)}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		e.Cause = string(raw)
		return e
	}
	e.ErrorCode = body.Code
	e.Cause = body.Cause
	e.CorrelationID = body.CorrelationID
	if body.GRPCCodeValue != nil {
		e.Code = codes.Code(*body.GRPCCodeValue)
	}
	return e
}

func (e *APIError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("json api %d %s (%s): %s", e.HTTPStatus, e.ErrorCode, e.Code, e.Cause)
	}
	return fmt.Sprintf("json api %d (%s): %s", e.HTTPStatus, e.Code, e.Cause)
}

// GRPCStatus lets status.Code and status.FromError see the ledger's code.
func (e *APIError) GRPCStatus() *status.Status {
	return status.New(e.Code, e.Cause)
}

// Unwrap maps the error onto the ledger package sentinels so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case codes.NotFound:
		return ledger.ErrContractNotFound
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted:
		return ledger.ErrLedgerUnavailable
	case codes.Unauthenticated, codes.PermissionDenied:
		return ledger.ErrUnauthorized
	default:
		return ledger.ErrCommandRejected
	}
}

// Retryable reports whether submitting the same command again may succeed.
func (e *APIError) Retryable() bool {
	switch e.Code {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted:
		return true
	}
	return false
}

func codeFromHTTP(httpStatus int) codes.Code {
	switch httpStatus {
	case http.StatusBadRequest:
		return codes.InvalidArgument
	case http.StatusUnauthorized:
		return codes.Unauthenticated
	case http.StatusForbidden:
		return codes.PermissionDenied
	case http.StatusNotFound:
		return codes.NotFound
	case http.StatusConflict:
		return codes.AlreadyExists
	case http.StatusTooManyRequests:
		return codes.ResourceExhausted
	case http.StatusServiceUnavailable, http.StatusBadGateway:
		return codes.Unavailable
	case http.StatusGatewayTimeout:
		return codes.DeadlineExceeded
	}
	if httpStatus >= 500 {
		return codes.Internal
	}
	return codes.Unknown
}
