package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"meme-forge-backend/internal/common/logger"
	"meme-forge-backend/internal/features/meme/models"
)

const (
	defaultImageWidth  = 400
	defaultImageHeight = 350
	maxImageText       = 30
)

// PlaceholderImageService stands in for a real image-synthesis collaborator.
// It renders the prompt onto a placeholder image, seeded by the prompt so
// the same prompt yields the same image.
type PlaceholderImageService struct {
	baseURL string
}

func NewPlaceholderImageService(baseURL string) *PlaceholderImageService {
	if baseURL == "" {
		baseURL = "https://fpoimg.com"
	}
	return &PlaceholderImageService{baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *PlaceholderImageService) GenerateImage(ctx context.Context, opts models.ImageOptions) (string, error) {
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = defaultImageWidth
	}
	if height <= 0 {
		height = defaultImageHeight
	}

	text := opts.Prompt
	if len(text) > maxImageText {
		text = text[:maxImageText]
	}

	// QueryEscape renders spaces as '+', the placeholder service's format.
	imageURL := fmt.Sprintf("%s/%dx%d?text=%s&bg_color=e6e6e6&text_color=8F8F8F&random=%d",
		s.baseURL, width, height, url.QueryEscape(text), promptSeed(opts.Prompt))

	logger.Debug().Str("image_url", imageURL).Msg("Placeholder image generated")
	return imageURL, nil
}

// promptSeed derives a stable 32-bit seed from the prompt, matching the
// classic h = 31*h + c string hash.
func promptSeed(prompt string) uint32 {
	var h int32
	for _, c := range prompt {
		h = (h << 5) - h + int32(c)
	}
	if h < 0 {
		h = -h
	}
	return uint32(h)
}
