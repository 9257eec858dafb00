package ai

import (
	"fmt"
	"strings"

	"app/internal/tier"
)

const systemPrompt = "You are a content repurposing assistant. You rewrite source content " +
	"for a specific social platform, preserving the message while matching the platform's " +
	"format, length conventions and voice. Return only the rewritten content, no preamble."

// platformSpecs state the output conventions per target platform.
var platformSpecs = map[tier.Platform]string{
	tier.PlatformTwitter:   "a tweet of at most 280 characters, punchy, with at most two relevant hashtags",
	tier.PlatformLinkedIn:  "a LinkedIn post, professional tone, short paragraphs, a hook in the first line, under 1300 characters",
	tier.PlatformInstagram: "an Instagram caption, engaging and visual language, line breaks between thoughts, 3-5 hashtags at the end",
	tier.PlatformFacebook:  "a Facebook post, conversational tone, one or two short paragraphs, ends with a question to drive comments",
	tier.PlatformTikTok:    "a TikTok video script with a spoken hook in the first two seconds, short punchy lines, under 60 seconds of speech",
	tier.PlatformYouTube:   "a YouTube video description with a two-line summary, timestamps placeholder section and 3-5 keywords",
}

// buildPrompt renders the user prompt for one generation request.
func buildPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rewrite the following %s as %s.\n", req.ContentType, platformSpecs[req.Platform])
	if req.Tone != "" {
		fmt.Fprintf(&b, "Tone: %s.\n", req.Tone)
	}
	if req.BrandVoice != "" {
		fmt.Fprintf(&b, "Brand voice: %s.\n", req.BrandVoice)
	}
	fmt.Fprintf(&b, "\nTitle: %s\n\n%s", req.Title, req.Content)
	return b.String()
}
