package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"golang-klarna-payments/internal/services/payments/providers"
	"golang-klarna-payments/internal/services/payments/types"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = int64(1 << 20)

type handler struct {
	provider providers.PaymentProvider
}

func NewHandler(provider providers.PaymentProvider) *handler {
	return &handler{
		provider: provider,
	}
}

// Routes mounts the merchant API. Callers attach it under /api.
func (h *handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/session", h.CreateSession)
	r.Post("/create_order", h.CreateOrder)

	r.Route("/orders/{orderId}", func(r chi.Router) {
		r.Get("/", h.GetOrder)
		r.Post("/captures", h.CaptureOrder)
		r.Post("/cancel", h.CancelOrder)
		r.Post("/refunds", h.RefundOrder)
	})

	return r
}

func (h *handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	slog.Info("running CreateSession")

	var body types.SessionRequest
	if err := decodeBody(w, r, &body); err != nil {
		respondError(w, err)
		return
	}

	data, err := h.provider.CreateSession(r.Context(), body)
	if err != nil {
		slog.Error("creating klarna session", "error", err)
		respondError(w, err)
		return
	}

	respondRaw(w, data)
}

func (h *handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	slog.Info("running CreateOrder")

	var body types.FinalizeOrderRequest
	if err := decodeBody(w, r, &body); err != nil {
		respondError(w, err)
		return
	}

	data, err := h.provider.FinalizeOrder(r.Context(), body.AuthorizationToken, body.Payload)
	if err != nil {
		slog.Error("finalizing klarna order", "error", err)
		respondError(w, err)
		return
	}

	respondRaw(w, data)
}

func (h *handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	slog.Info("running GetOrder", "order_id", orderID)

	data, err := h.provider.GetOrder(r.Context(), orderID)
	if err != nil {
		slog.Error("fetching klarna order", "order_id", orderID, "error", err)
		respondError(w, err)
		return
	}

	respondRaw(w, data)
}

// CaptureOrder always captures types.DefaultActionAmount; a client
// supplied amount is ignored.
func (h *handler) CaptureOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	slog.Info("running CaptureOrder", "order_id", orderID)

	data, err := h.provider.CaptureOrder(r.Context(), orderID)
	if err != nil {
		slog.Error("capturing klarna order", "order_id", orderID, "error", err)
		respondError(w, err)
		return
	}

	respondRaw(w, data)
}

func (h *handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	slog.Info("running CancelOrder", "order_id", orderID)

	data, err := h.provider.CancelOrder(r.Context(), orderID)
	if err != nil {
		slog.Error("cancelling klarna order", "order_id", orderID, "error", err)
		respondError(w, err)
		return
	}

	respondRaw(w, data)
}

func (h *handler) RefundOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	slog.Info("running RefundOrder", "order_id", orderID)

	var body types.RefundRequest
	if err := decodeBody(w, r, &body); err != nil {
		respondError(w, err)
		return
	}

	amount := types.DefaultActionAmount
	if body.Amount != nil {
		amount = *body.Amount
	}

	data, err := h.provider.RefundOrder(r.Context(), orderID, amount)
	if err != nil {
		slog.Error("refunding klarna order", "order_id", orderID, "amount", amount, "error", err)
		respondError(w, err)
		return
	}

	respondRaw(w, data)
}

var errInvalidJSON = &providers.Error{Kind: providers.KindValidation, Message: "Invalid JSON"}

// decodeBody decodes an optional JSON body; an empty body leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	slog.Error("decoding request body", "error", err)
	return errInvalidJSON
}

func respondRaw(w http.ResponseWriter, data json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if providers.IsValidation(err) {
		status = http.StatusBadRequest
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: providers.Message(err)})
}
