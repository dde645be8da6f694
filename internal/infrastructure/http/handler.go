package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"minibank.dev/internal/application/usecase"
	"minibank.dev/internal/domain/entity"
	"minibank.dev/internal/infrastructure/logger"
)

// Handler holds HTTP handlers and their dependencies
type Handler struct {
	dispatchUseCase *usecase.DispatchUseCase
	logger          logger.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(dispatchUseCase *usecase.DispatchUseCase, logger logger.Logger) *Handler {
	return &Handler{
		dispatchUseCase: dispatchUseCase,
		logger:          logger,
	}
}

// HandleDispatch handles POST /dispatch requests. It forwards the collected
// operation, account number and raw string parameters to the dispatcher and
// renders either the result string or the error notice.
func (h *Handler) HandleDispatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestLogger := ctx.Value("logger").(logger.Logger)

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req usecase.DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		requestLogger.LogError(ctx, "Failed to parse JSON body", err)
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	result, err := h.dispatchUseCase.Execute(ctx, req)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			requestLogger.LogError(ctx, "Dispatch failed", err,
				"operation", req.Operation,
				"account", req.AccountNumber)
		} else {
			requestLogger.LogWarning(ctx, "Dispatch rejected",
				"operation", req.Operation,
				"account", req.AccountNumber,
				"reason", err.Error())
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"result": result})

	requestLogger.LogInfo(ctx, "Dispatch processed",
		"operation", req.Operation,
		"account", req.AccountNumber)
}

// HandleHealth handles GET /healthz requests
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// statusFor maps dispatcher failures onto HTTP status codes. Domain errors
// are client-visible notices; a malformed amount is bad input; anything else
// is unexpected.
func statusFor(err error) int {
	var domainErr entity.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr {
		case entity.ErrInvalidAccount:
			return http.StatusNotFound
		case entity.ErrInsufficientFunds:
			return http.StatusConflict
		default:
			return http.StatusBadRequest
		}
	}

	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// SetupRoutes sets up all HTTP routes
func (h *Handler) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	dispatchHandler := RequestIDMiddleware(
		LoggingMiddleware(h.HandleDispatch, h.logger),
		h.logger,
	)

	mux.HandleFunc("/dispatch", dispatchHandler)
	mux.HandleFunc("/healthz", h.HandleHealth)

	return mux
}
