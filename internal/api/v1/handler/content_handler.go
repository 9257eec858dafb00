package handler

import (
	"net/http"
	"strconv"
	"strings"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"
)

// ContentHandler handles the content library endpoints.
type ContentHandler struct {
	contentService service.ContentService
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(contentService service.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// RegisterRoutes mounts the content routes.
func (h *ContentHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/content", authMw(http.HandlerFunc(h.listContent)))
	mux.Handle("/content/", authMw(http.HandlerFunc(h.handleContent)))
}

func (h *ContentHandler) listContent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet || r.URL.Path != "/content" {
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
	items, err := h.contentService.List(r.Context(), accountID, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := dto.ContentListResponseDTO{Items: make([]dto.ContentResponseDTO, len(items))}
	for i, item := range items {
		resp.Items[i] = toContentDTO(item)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleContent dispatches /content/{contentId} and /content/{contentId}/export.
func (h *ContentHandler) handleContent(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.AccountID(r.Context())
	if accountID == "" {
		unauthorized(w)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/content/")
	if contentID, ok := strings.CutSuffix(rest, "/export"); ok {
		if r.Method != http.MethodPost || contentID == "" || strings.Contains(contentID, "/") {
			http.NotFound(w, r)
			return
		}
		h.exportContent(w, r, contentID, accountID)
		return
	}
	if rest == "" || strings.Contains(rest, "/") {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.getContent(w, r, rest, accountID)
	case http.MethodDelete:
		h.deleteContent(w, r, rest, accountID)
	default:
		http.NotFound(w, r)
	}
}

func (h *ContentHandler) getContent(w http.ResponseWriter, r *http.Request, contentID, accountID string) {
	item, err := h.contentService.Get(r.Context(), contentID, accountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toContentDTO(*item))
}

func (h *ContentHandler) deleteContent(w http.ResponseWriter, r *http.Request, contentID, accountID string) {
	if err := h.contentService.Delete(r.Context(), contentID, accountID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ContentHandler) exportContent(w http.ResponseWriter, r *http.Request, contentID, accountID string) {
	url, err := h.contentService.Export(r.Context(), contentID, accountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ExportResponseDTO{URL: url})
}

func toContentDTO(item model.ContentItem) dto.ContentResponseDTO {
	variants := make([]dto.VariantDTO, len(item.Variants))
	for i, v := range item.Variants {
		variants[i] = dto.VariantDTO{Platform: v.Platform, Content: v.Text, CreatedAt: v.CreatedAt}
	}
	return dto.ContentResponseDTO{
		ID:              item.ID,
		Title:           item.Title,
		OriginalContent: item.OriginalText,
		ContentType:     item.ContentType,
		Status:          item.Status,
		Tier:            item.Tier,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
		Variants:        variants,
	}
}
