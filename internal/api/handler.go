package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/eugenenazirov/change-calculator/internal/calculator"
	"github.com/eugenenazirov/change-calculator/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler wires calculator and storage dependencies into HTTP handlers.
type Handler struct {
	calculator calculator.Calculator
	storage    storage.Storage
	validate   *validator.Validate

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(calc calculator.Calculator, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		calculator: calc,
		storage:    store,
		validate:   newValidator(),
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetDenominations(w http.ResponseWriter, r *http.Request) {
	_ = r
	denoms, err := h.storage.GetDenominations()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := denominationsResponse{
		Currency:      h.storage.Currency(),
		Denominations: denoms.Units(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCharge(w http.ResponseWriter, r *http.Request) {
	var req chargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", describeValidation(err))
		return
	}

	charged := calculator.Amount(*req.AmountCharged)
	given := calculator.Amount(*req.AmountGiven)

	start := time.Now()
	result, chargeErr := h.calculator.Charge(charged, given)
	elapsed := time.Since(start)

	if chargeErr != nil {
		switch {
		case calculator.IsValidationError(chargeErr):
			suggestion := fmt.Sprintf("Tender at least %d", charged)
			writeError(w, http.StatusUnprocessableEntity, "Insufficient amount", chargeErr.Error(), suggestion)
		case errors.Is(chargeErr, calculator.ErrNegativeAmount):
			writeError(w, http.StatusBadRequest, "Invalid request", chargeErr.Error())
		default:
			writeInternalError(w, chargeErr)
		}
		return
	}

	entries := result.Sorted()
	change := make(map[string]int64, len(entries))
	breakdown := make([]breakdownEntry, 0, len(entries))
	for _, entry := range entries {
		change[strconv.FormatInt(entry.Denomination, 10)] = entry.Count
		breakdown = append(breakdown, breakdownEntry{
			Denomination: entry.Denomination,
			Count:        entry.Count,
		})
	}

	resp := chargeResponse{
		AmountCharged:     int64(charged),
		AmountGiven:       int64(given),
		Currency:          h.storage.Currency(),
		Change:            change,
		Breakdown:         breakdown,
		ChangeDue:         result.Total(),
		Pieces:            result.Pieces(),
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func describeValidation(err error) string {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(vErrs))
	for _, fe := range vErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be >= %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type chargeRequest struct {
	AmountCharged *int64 `json:"amountCharged" validate:"required,min=0"`
	AmountGiven   *int64 `json:"amountGiven" validate:"required,min=0"`
}

type breakdownEntry struct {
	Denomination int64 `json:"denomination"`
	Count        int64 `json:"count"`
}

type chargeResponse struct {
	AmountCharged     int64            `json:"amountCharged"`
	AmountGiven       int64            `json:"amountGiven"`
	Currency          string           `json:"currency"`
	Change            map[string]int64 `json:"change"`
	Breakdown         []breakdownEntry `json:"breakdown"`
	ChangeDue         int64            `json:"changeDue"`
	Pieces            int64            `json:"pieces"`
	CalculationTimeMs int64            `json:"calculationTimeMs"`
}

type denominationsResponse struct {
	Currency      string  `json:"currency"`
	Denominations []int64 `json:"denominations"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
