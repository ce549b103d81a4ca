package payment

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Status is the authoritative transaction status reported by the gateway's verify call
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusPending Status = "pending"
	StatusUnknown Status = "unknown"
)

// ParseStatus normalises a gateway status string. Anything unrecognised is StatusUnknown.
func ParseStatus(raw string) Status {
	switch Status(raw) {
	case StatusSuccess, StatusFailed, StatusPending:
		return Status(raw)
	default:
		return StatusUnknown
	}
}

// Payer identifies who pays on the hosted checkout page
type Payer struct {
	Email     string
	Phone     string
	FirstName string
	LastName  string
}

type InitializeRequest struct {
	Amount      decimal.Decimal
	Currency    string
	Payer       Payer
	TxRef       string
	CallbackURL string
	ReturnURL   string
	Title       string
	Description string
}

type InitializeResult struct {
	CheckoutURL string
}

type VerifyResult struct {
	TxRef  string
	Status Status
}

// Gateway is the hosted-checkout payment API. A failed Initialize must not be
// retried with the same tx_ref; the gateway rejects duplicate references.
type Gateway interface {
	Initialize(ctx context.Context, req *InitializeRequest) (*InitializeResult, error)
	Verify(ctx context.Context, txRef string) (*VerifyResult, error)
}

// GatewayError is returned when the upstream API answers with a non-success
// status or a payload that cannot be used.
type GatewayError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("payment gateway %s failed (status %d): %s: %v", e.Op, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("payment gateway %s failed (status %d): %s", e.Op, e.StatusCode, e.Message)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
