package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"app/internal/ai"
	"app/internal/repository"
	"app/internal/service"
)

// ErrorBodyDTO carries a machine-readable rejection. Optional fields hold the
// context a caller needs to self-correct.
type ErrorBodyDTO struct {
	Code               string   `json:"code"`
	Message            string   `json:"message"`
	Scope              string   `json:"scope,omitempty"`
	CurrentUsage       *int     `json:"currentUsage,omitempty"`
	Limit              *int     `json:"limit,omitempty"`
	AvailablePlatforms []string `json:"availablePlatforms,omitempty"`
	PreferredPlatforms []string `json:"preferredPlatforms,omitempty"`
}

type errorResponse struct {
	Success bool         `json:"success"`
	Error   ErrorBodyDTO `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeErrorBody(w http.ResponseWriter, status int, body ErrorBodyDTO) {
	writeJSON(w, status, errorResponse{Success: false, Error: body})
}

func badRequest(w http.ResponseWriter, message string) {
	writeErrorBody(w, http.StatusBadRequest, ErrorBodyDTO{Code: "validation_error", Message: message})
}

func unauthorized(w http.ResponseWriter) {
	writeErrorBody(w, http.StatusUnauthorized, ErrorBodyDTO{Code: "unauthorized", Message: "account identity missing"})
}

// writeServiceError maps service and repository errors onto the API's status
// codes and structured rejection bodies.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	var qerr *service.QuotaExceededError
	var perr *service.NoPlatformsAvailableError
	switch {
	case errors.As(err, &verr):
		badRequest(w, verr.Reason)
	case errors.As(err, &perr):
		writeErrorBody(w, http.StatusBadRequest, ErrorBodyDTO{
			Code:               "no_platforms_available",
			Message:            perr.Error(),
			AvailablePlatforms: perr.Allowed,
			PreferredPlatforms: perr.Preferred,
		})
	case errors.As(err, &qerr):
		writeErrorBody(w, http.StatusPaymentRequired, ErrorBodyDTO{
			Code:         "quota_exceeded",
			Message:      qerr.Error(),
			Scope:        qerr.Scope,
			CurrentUsage: &qerr.Current,
			Limit:        &qerr.Limit,
		})
	case errors.Is(err, service.ErrSubscriptionRequired):
		writeErrorBody(w, http.StatusPaymentRequired, ErrorBodyDTO{Code: "subscription_required", Message: err.Error()})
	case errors.Is(err, service.ErrTierMismatch):
		writeErrorBody(w, http.StatusForbidden, ErrorBodyDTO{Code: "tier_mismatch", Message: err.Error()})
	case errors.Is(err, ai.ErrProviderUnavailable):
		writeErrorBody(w, http.StatusForbidden, ErrorBodyDTO{Code: "provider_unavailable", Message: err.Error()})
	case errors.Is(err, ai.ErrNoProviders), errors.Is(err, service.ErrStorageNotReady):
		writeErrorBody(w, http.StatusServiceUnavailable, ErrorBodyDTO{Code: "service_unavailable", Message: err.Error()})
	case errors.Is(err, repository.ErrContentNotFound), errors.Is(err, repository.ErrAccountNotFound):
		writeErrorBody(w, http.StatusNotFound, ErrorBodyDTO{Code: "not_found", Message: err.Error()})
	case errors.Is(err, service.ErrGenerationFailed):
		writeErrorBody(w, http.StatusInternalServerError, ErrorBodyDTO{Code: "generation_failed", Message: err.Error()})
	default:
		writeErrorBody(w, http.StatusInternalServerError, ErrorBodyDTO{Code: "internal_error", Message: "unexpected error"})
	}
}
