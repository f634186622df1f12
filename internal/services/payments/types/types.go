package types

import "encoding/json"

const (
	DefaultPurchaseCountry  = "US"
	DefaultPurchaseCurrency = "USD"
	DefaultLocale           = "en-US"
	DefaultOrderAmount      = int64(10000)

	// DefaultActionAmount is used for captures, and for refunds without an amount.
	DefaultActionAmount = int64(10000)
)

// SessionRequest is the merchant-facing session body. A nil field was not
// sent by the caller; explicit values, including 0 and "", are forwarded.
type SessionRequest struct {
	PurchaseCountry  *string     `json:"purchase_country"`
	PurchaseCurrency *string     `json:"purchase_currency"`
	Locale           *string     `json:"locale"`
	OrderAmount      *int64      `json:"order_amount"`
	OrderLines       []OrderLine `json:"order_lines"`
}

type OrderLine struct {
	Type           string `json:"type,omitempty"`
	Reference      string `json:"reference,omitempty"`
	Name           string `json:"name"`
	Quantity       int64  `json:"quantity"`
	UnitPrice      int64  `json:"unit_price"`
	TaxRate        int64  `json:"tax_rate"`
	TotalAmount    int64  `json:"total_amount"`
	TotalTaxAmount int64  `json:"total_tax_amount"`
	ImageURL       string `json:"image_url,omitempty"`
	ProductURL     string `json:"product_url,omitempty"`
}

// SessionPayload is the body sent to Klarna's session endpoint.
type SessionPayload struct {
	PurchaseCountry  string      `json:"purchase_country"`
	PurchaseCurrency string      `json:"purchase_currency"`
	Locale           string      `json:"locale"`
	OrderAmount      int64       `json:"order_amount"`
	OrderTaxAmount   int64       `json:"order_tax_amount"`
	OrderLines       []OrderLine `json:"order_lines"`
}

// WithDefaults fills absent fields. A nil OrderLines gets one demo line
// for the whole amount; an empty but non-nil slice is kept as is.
func (r SessionRequest) WithDefaults() SessionPayload {
	p := SessionPayload{
		PurchaseCountry:  valueOr(r.PurchaseCountry, DefaultPurchaseCountry),
		PurchaseCurrency: valueOr(r.PurchaseCurrency, DefaultPurchaseCurrency),
		Locale:           valueOr(r.Locale, DefaultLocale),
		OrderAmount:      valueOr(r.OrderAmount, DefaultOrderAmount),
		OrderLines:       r.OrderLines,
	}

	if p.OrderLines == nil {
		p.OrderLines = []OrderLine{{
			Type:        "physical",
			Reference:   "demo-1",
			Name:        "Demo product",
			Quantity:    1,
			UnitPrice:   p.OrderAmount,
			TotalAmount: p.OrderAmount,
		}}
	}

	return p
}

func valueOr[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}

type FinalizeOrderRequest struct {
	AuthorizationToken string          `json:"authorization_token"`
	Payload            json.RawMessage `json:"payload"`
}

type RefundRequest struct {
	Amount *int64 `json:"amount"`
}

type CaptureBody struct {
	CapturedAmount int64 `json:"captured_amount"`
}

type RefundBody struct {
	RefundedAmount int64 `json:"refunded_amount"`
}

// ActionResult is returned when Klarna acknowledges an order action
// with an empty body and an id header.
type ActionResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	CancelID  string `json:"cancelId,omitempty"`
	CaptureID string `json:"captureId,omitempty"`
	RefundID  string `json:"refundId,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
