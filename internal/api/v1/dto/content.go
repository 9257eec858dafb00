package dto

import "time"

// VariantDTO is one stored platform variant of a content item.
type VariantDTO struct {
	Platform  string    `json:"platform"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// ContentResponseDTO is returned in API responses for content items.
type ContentResponseDTO struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	OriginalContent string       `json:"originalContent"`
	ContentType     string       `json:"contentType"`
	Status          string       `json:"status"`
	Tier            string       `json:"tier"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
	Variants        []VariantDTO `json:"variants,omitempty"`
}

// ContentListResponseDTO is returned when listing an account's content.
type ContentListResponseDTO struct {
	Items []ContentResponseDTO `json:"items"`
}

// ExportResponseDTO carries a presigned download link for an export.
type ExportResponseDTO struct {
	URL string `json:"url"`
}
