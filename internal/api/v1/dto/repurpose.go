package dto

// RepurposeRequestDTO is used for incoming repurpose requests. ContentID
// present selects the update path.
type RepurposeRequestDTO struct {
	Title        string   `json:"title" validate:"required"`
	Content      string   `json:"content" validate:"required"`
	ContentType  string   `json:"contentType" validate:"required"`
	ContentID    string   `json:"contentId,omitempty"`
	Platforms    []string `json:"platforms,omitempty"`
	BrandVoice   string   `json:"brandVoice,omitempty"`
	Tone         string   `json:"tone,omitempty"`
	AllowOverage bool     `json:"allowOverage,omitempty"`
	Provider     string   `json:"provider,omitempty"`
	Model        string   `json:"model,omitempty"`
}

// RepurposedVariantDTO is one platform rendering inside a repurpose response.
type RepurposedVariantDTO struct {
	Platform string `json:"platform"`
	Content  string `json:"content"`
}

// RepurposeContentDTO is the content block of a repurpose response.
type RepurposeContentDTO struct {
	ID              string                 `json:"id,omitempty"`
	Title           string                 `json:"title"`
	OriginalContent string                 `json:"originalContent"`
	Repurposed      []RepurposedVariantDTO `json:"repurposed"`
}

// RepurposeMetadataDTO records which platforms and provider served a request.
type RepurposeMetadataDTO struct {
	PlatformsUsed []string `json:"platformsUsed"`
	Provider      string   `json:"provider"`
}

// RepurposeResponseDTO is returned on a successful repurpose.
type RepurposeResponseDTO struct {
	Success  bool                 `json:"success"`
	Content  RepurposeContentDTO  `json:"content"`
	Usage    UsageDTO             `json:"usage"`
	Metadata RepurposeMetadataDTO `json:"metadata"`
	Overage  *OverageEventDTO     `json:"overage,omitempty"`
	Warnings []string             `json:"warnings,omitempty"`
}
