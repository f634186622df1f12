package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang-klarna-payments/internal/services/payments/types"
)

const (
	DefaultTimeout = 8 * time.Second

	maxResponseBytes = int64(10 << 20)
	userAgent        = "golang-klarna-payments/1.0"
)

type KlarnaProvider struct {
	baseURL  string
	username string
	password string
	timeout  time.Duration
	client   *http.Client
	logger   *slog.Logger
}

func NewKlarnaProvider(baseURL, username, password string, timeout time.Duration) *KlarnaProvider {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &KlarnaProvider{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
		timeout:  timeout,
		client:   &http.Client{Timeout: timeout},
		logger:   slog.Default().With("provider", "klarna"),
	}
}

func (p *KlarnaProvider) CreateSession(ctx context.Context, req types.SessionRequest) (json.RawMessage, error) {
	return p.do(ctx, OpSession, http.MethodPost, "/payments/v1/sessions", req.WithDefaults())
}

func (p *KlarnaProvider) FinalizeOrder(ctx context.Context, authorizationToken string, payload json.RawMessage) (json.RawMessage, error) {
	if authorizationToken == "" {
		return nil, validationError("authorization_token required")
	}

	path := fmt.Sprintf("/payments/v1/authorizations/%s/order", url.PathEscape(authorizationToken))

	if len(payload) == 0 || string(payload) == "null" {
		return p.do(ctx, OpFinalize, http.MethodPost, path, nil)
	}
	return p.do(ctx, OpFinalize, http.MethodPost, path, payload)
}

func (p *KlarnaProvider) GetOrder(ctx context.Context, orderID string) (json.RawMessage, error) {
	path, err := orderPath(orderID, "")
	if err != nil {
		return nil, err
	}
	return p.do(ctx, OpGetOrder, http.MethodGet, path, nil)
}

func (p *KlarnaProvider) CaptureOrder(ctx context.Context, orderID string) (json.RawMessage, error) {
	path, err := orderPath(orderID, "/captures")
	if err != nil {
		return nil, err
	}
	return p.do(ctx, OpCapture, http.MethodPost, path, types.CaptureBody{CapturedAmount: types.DefaultActionAmount})
}

func (p *KlarnaProvider) CancelOrder(ctx context.Context, orderID string) (json.RawMessage, error) {
	path, err := orderPath(orderID, "/cancel")
	if err != nil {
		return nil, err
	}
	return p.do(ctx, OpCancel, http.MethodPost, path, nil)
}

func (p *KlarnaProvider) RefundOrder(ctx context.Context, orderID string, amount int64) (json.RawMessage, error) {
	path, err := orderPath(orderID, "/refunds")
	if err != nil {
		return nil, err
	}
	return p.do(ctx, OpRefund, http.MethodPost, path, types.RefundBody{RefundedAmount: amount})
}

func orderPath(orderID, suffix string) (string, error) {
	if orderID == "" {
		return "", validationError("orderId required")
	}
	return "/ordermanagement/v1/orders/" + url.PathEscape(orderID) + suffix, nil
}

// do performs exactly one request against the Klarna API. payload, when
// non-nil, is sent as JSON.
func (p *KlarnaProvider) do(ctx context.Context, op Operation, method, path string, payload any) (json.RawMessage, error) {
	if p.username == "" || p.password == "" {
		return nil, configurationError("Klarna credentials not configured")
	}

	var body io.Reader
	if raw, ok := payload.(json.RawMessage); ok {
		body = bytes.NewReader(raw)
	} else if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshaling %s payload: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", op, err)
	}
	req.SetBasicAuth(p.username, p.password)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Error("klarna request failed", "operation", op.String(), "method", method, "path", path, "duration", time.Since(start), "error", err)
		return nil, transportError(ctx, err)
	}
	defer resp.Body.Close()

	p.logger.Info("klarna request",
		"operation", op.String(),
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"correlation_id", resp.Header.Get("Klarna-Correlation-Id"),
	)

	return p.normalize(ctx, op, resp)
}

// normalize turns a Klarna response into the relayed body. Empty-body
// acknowledgements of order actions are recognized from the status code
// before anything is decoded.
func (p *KlarnaProvider) normalize(ctx context.Context, op Operation, resp *http.Response) (json.RawMessage, error) {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, err := readBody(resp)
		if err != nil {
			return nil, transportError(ctx, err)
		}
		return nil, providerError(resp.StatusCode, raw)
	}

	if resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusNoContent {
		if result, ok := actionResult(op, resp.Header); ok {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
			return json.Marshal(result)
		}
	}

	raw, err := readBody(resp)
	if err != nil {
		return nil, transportError(ctx, err)
	}

	if !json.Valid(raw) {
		return nil, &Error{
			Kind:       KindProvider,
			Message:    fmt.Sprintf("invalid JSON in %d response from provider", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	return json.RawMessage(raw), nil
}

func actionResult(op Operation, header http.Header) (types.ActionResult, bool) {
	switch op {
	case OpCancel:
		return types.ActionResult{Success: true, Message: "Order cancelled successfully", CancelID: header.Get("Cancel-Id")}, true
	case OpCapture:
		return types.ActionResult{Success: true, Message: "Amount captured successfully", CaptureID: header.Get("Capture-Id")}, true
	case OpRefund:
		return types.ActionResult{Success: true, Message: "Operation completed successfully", RefundID: header.Get("Refund-Id")}, true
	default:
		return types.ActionResult{}, false
	}
}

// providerError extracts error_message from a Klarna error body, falling
// back to the whole body.
func providerError(status int, raw []byte) *Error {
	pErr := &Error{Kind: KindProvider, StatusCode: status}

	if !json.Valid(raw) {
		pErr.Message = fmt.Sprintf("unexpected status %d from provider", status)
		return pErr
	}

	var body struct {
		ErrorMessage  any `json:"error_message"`
		ErrorCode     any `json:"error_code"`
		CorrelationID any `json:"correlation_id"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		pErr.Code = fieldText(body.ErrorCode)
		pErr.CorrelationID = fieldText(body.CorrelationID)
		if msg := fieldText(body.ErrorMessage); msg != "" {
			pErr.Message = msg
			return pErr
		}
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		pErr.Message = string(raw)
		return pErr
	}
	pErr.Message = compact.String()

	return pErr
}

// fieldText renders a decoded JSON value as text. Null, false, 0 and ""
// yield "" so the caller falls back to the whole body.
func fieldText(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if !v {
			return ""
		}
		return "true"
	case float64:
		if v == 0 {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}

func transportError(ctx context.Context, err error) *Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return timeoutError(err)
	}
	return networkError(err)
}

func readBody(resp *http.Response) ([]byte, error) {
	return io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
}
