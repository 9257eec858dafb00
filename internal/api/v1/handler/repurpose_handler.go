package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"
	"app/internal/tier"

	"github.com/go-playground/validator/v10"
)

// RepurposeHandler handles the repurpose endpoints.
type RepurposeHandler struct {
	repurposeService service.RepurposeService
	validate         *validator.Validate
}

// NewRepurposeHandler creates a new RepurposeHandler.
func NewRepurposeHandler(repurposeService service.RepurposeService, validate *validator.Validate) *RepurposeHandler {
	return &RepurposeHandler{repurposeService: repurposeService, validate: validate}
}

// RegisterRoutes mounts the generic and tier-scoped repurpose routes.
func (h *RepurposeHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/repurpose", authMw(http.HandlerFunc(h.repurpose)))
	mux.Handle("/repurpose/", authMw(http.HandlerFunc(h.repurposeTier)))
}

func (h *RepurposeHandler) repurpose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/repurpose" {
		http.NotFound(w, r)
		return
	}
	h.serve(w, r, "")
}

func (h *RepurposeHandler) repurposeTier(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/repurpose/")
	t, ok := tier.Parse(name)
	if !ok || strings.Contains(name, "/") {
		http.NotFound(w, r)
		return
	}
	h.serve(w, r, string(t))
}

func (h *RepurposeHandler) serve(w http.ResponseWriter, r *http.Request, endpointTier string) {
	accountID := middleware.AccountID(r.Context())
	if accountID == "" {
		unauthorized(w)
		return
	}
	var req dto.RepurposeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON payload: "+err.Error())
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		badRequest(w, "validation failed: "+err.Error())
		return
	}

	result, err := h.repurposeService.Repurpose(r.Context(), accountID, service.RepurposeParams{
		Title:        req.Title,
		Content:      req.Content,
		ContentType:  req.ContentType,
		ContentID:    req.ContentID,
		Platforms:    req.Platforms,
		BrandVoice:   req.BrandVoice,
		Tone:         req.Tone,
		AllowOverage: req.AllowOverage,
		Provider:     req.Provider,
		Model:        req.Model,
		EndpointTier: endpointTier,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRepurposeResponse(result))
}

func toRepurposeResponse(result *service.RepurposeResult) dto.RepurposeResponseDTO {
	repurposed := make([]dto.RepurposedVariantDTO, len(result.Content.Variants))
	for i, v := range result.Content.Variants {
		repurposed[i] = dto.RepurposedVariantDTO{Platform: v.Platform, Content: v.Text}
	}
	platforms := make([]string, len(result.PlatformsUsed))
	for i, pl := range result.PlatformsUsed {
		platforms[i] = string(pl)
	}
	resp := dto.RepurposeResponseDTO{
		Success: true,
		Content: dto.RepurposeContentDTO{
			ID:              result.Content.ID,
			Title:           result.Content.Title,
			OriginalContent: result.Content.OriginalText,
			Repurposed:      repurposed,
		},
		Usage:    toUsageDTO(result.Usage),
		Metadata: dto.RepurposeMetadataDTO{PlatformsUsed: platforms, Provider: result.Provider},
		Warnings: result.Warnings,
	}
	if result.Overage != nil {
		ov := toOverageDTO(*result.Overage)
		resp.Overage = &ov
	}
	return resp
}

func toUsageDTO(summary model.UsageSummary) dto.UsageDTO {
	return dto.UsageDTO{
		Tier:           summary.Tier,
		CurrentUsage:   summary.CurrentUsage,
		MonthlyLimit:   summary.MonthlyLimit,
		RemainingUsage: summary.RemainingUsage,
		DailyUsage:     summary.DailyUsage,
		DailyLimit:     summary.DailyLimit,
	}
}

func toOverageDTO(event model.OverageEvent) dto.OverageEventDTO {
	return dto.OverageEventDTO{
		ID:          event.ID,
		AmountCents: event.AmountCents,
		Count:       event.Count,
		Status:      event.Status,
		CreatedAt:   event.CreatedAt,
	}
}
