package providers

import (
	"context"
	"encoding/json"

	"golang-klarna-payments/internal/services/payments/types"
)

// PaymentProvider is the set of calls the merchant API relays to the
// payment provider. Successful results are provider JSON, relayed verbatim.
type PaymentProvider interface {
	CreateSession(ctx context.Context, req types.SessionRequest) (json.RawMessage, error)
	FinalizeOrder(ctx context.Context, authorizationToken string, payload json.RawMessage) (json.RawMessage, error)
	GetOrder(ctx context.Context, orderID string) (json.RawMessage, error)
	CaptureOrder(ctx context.Context, orderID string) (json.RawMessage, error)
	CancelOrder(ctx context.Context, orderID string) (json.RawMessage, error)
	RefundOrder(ctx context.Context, orderID string, amount int64) (json.RawMessage, error)
}

// Operation tags an outbound call so responses can be normalized without
// inspecting the URL.
type Operation int

const (
	OpSession Operation = iota
	OpFinalize
	OpGetOrder
	OpCapture
	OpCancel
	OpRefund
)

func (o Operation) String() string {
	switch o {
	case OpSession:
		return "create_session"
	case OpFinalize:
		return "finalize_order"
	case OpGetOrder:
		return "get_order"
	case OpCapture:
		return "capture_order"
	case OpCancel:
		return "cancel_order"
	case OpRefund:
		return "refund_order"
	default:
		return "unknown"
	}
}
