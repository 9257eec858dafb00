package handler

import (
	"net/http"
	"strconv"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/service"
)

// UsageHandler handles the usage, platform, provider and overage views.
type UsageHandler struct {
	usageService service.UsageService
	providers    []string
}

// NewUsageHandler creates a new UsageHandler. providers is the list of AI
// providers available at startup.
func NewUsageHandler(usageService service.UsageService, providers []string) *UsageHandler {
	return &UsageHandler{usageService: usageService, providers: providers}
}

// RegisterRoutes mounts the usage routes.
func (h *UsageHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/usage", authMw(http.HandlerFunc(h.getUsage)))
	mux.Handle("/platforms", authMw(http.HandlerFunc(h.getPlatforms)))
	mux.Handle("/providers", authMw(http.HandlerFunc(h.getProviders)))
	mux.Handle("/overages", authMw(http.HandlerFunc(h.listOverages)))
}

func (h *UsageHandler) getUsage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	accountID := middleware.AccountID(r.Context())
	if accountID == "" {
		unauthorized(w)
		return
	}
	summary, err := h.usageService.Summary(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUsageDTO(*summary))
}

func (h *UsageHandler) getPlatforms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	accountID := middleware.AccountID(r.Context())
	if accountID == "" {
		unauthorized(w)
		return
	}
	tierName, allowed, err := h.usageService.Platforms(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.PlatformsResponseDTO{Tier: tierName, Platforms: allowed})
}

func (h *UsageHandler) getProviders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	if middleware.AccountID(r.Context()) == "" {
		unauthorized(w)
		return
	}
	writeJSON(w, http.StatusOK, dto.ProvidersResponseDTO{Providers: h.providers})
}

func (h *UsageHandler) listOverages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	accountID := middleware.AccountID(r.Context())
	if accountID == "" {
		unauthorized(w)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	events, err := h.usageService.Overages(r.Context(), accountID, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	overages := make([]dto.OverageEventDTO, len(events))
	for i, event := range events {
		overages[i] = toOverageDTO(event)
	}
	writeJSON(w, http.StatusOK, dto.OverageListResponseDTO{Overages: overages})
}
