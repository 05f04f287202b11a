package service

import (
	"context"
	"fmt"
	"strings"
)

// TemplateCaptionService stands in for a real caption-synthesis
// collaborator. It fills one of a fixed set of meme templates, picked by the
// prompt seed so a prompt always maps to the same caption.
type TemplateCaptionService struct{}

func NewTemplateCaptionService() *TemplateCaptionService {
	return &TemplateCaptionService{}
}

func (s *TemplateCaptionService) GenerateCaption(ctx context.Context, prompt string) (string, error) {
	templates := []func(string) string{
		func(p string) string {
			return fmt.Sprintf("When you %s but the deadline is tomorrow", strings.ToLower(p))
		},
		func(p string) string {
			return fmt.Sprintf("%s: Solana Edition", p)
		},
		func(p string) string {
			return fmt.Sprintf("Me trying to %s while my SOL bags are heavy", strings.ToLower(p))
		},
		func(p string) string {
			return fmt.Sprintf("%s? More like SOLana to the moon! 🚀", p)
		},
		func(p string) string {
			return fmt.Sprintf("That moment when you %s and remember you bought the dip", strings.ToLower(p))
		},
	}

	pick := templates[int(promptSeed(prompt))%len(templates)]
	return pick(prompt), nil
}
