package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"

	apperrors "meme-forge-backend/internal/common/errors"
	"meme-forge-backend/internal/common/logger"
	"meme-forge-backend/internal/features/nft/models"
)

const (
	collectionName   = "AI Meme Forge Collection"
	collectionFamily = "AI Meme Forge"
	externalURL      = "https://ai-meme-forge.vercel.app"
	maxNameLength    = 32 // Metaplex name limit
)

// Config wires the NFT surface to the rest of the deployment.
type Config struct {
	// PublicBaseURL is where this backend serves metadata documents.
	PublicBaseURL string
	Network       string
	// CreatorWallet is credited in served metadata documents.
	CreatorWallet string
}

// Service shapes NFT metadata and mock-mints meme NFTs. The real on-chain
// Metaplex call is an externally-owned black box; here a fresh keypair
// stands in for the mint account it would create.
type Service struct {
	cfg Config
}

func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// Mint validates the request, derives a metadata URI served by this backend
// and returns a synthetic mint address with its explorer link.
func (s *Service) Mint(ctx context.Context, req *models.MintRequest) (*models.MintResponse, error) {
	if req.ImageURL == "" || req.Prompt == "" || req.UserPublicKey == "" {
		return nil, apperrors.New(apperrors.ErrCodeMissingFields,
			"missing required fields: imageUrl, prompt, userPublicKey")
	}

	name := s.generateName(req.Prompt)
	metadataURI := fmt.Sprintf("%s/api/metadata/%s",
		strings.TrimRight(s.cfg.PublicBaseURL, "/"), s.metadataID(req))

	mintAddress := solana.NewWallet().PublicKey().String()

	logger.Info().
		Str("mint_address", mintAddress).
		Str("name", name).
		Str("creator", req.UserPublicKey).
		Msg("Meme NFT minted")

	return &models.MintResponse{
		Success:     true,
		MintAddress: mintAddress,
		MetadataURI: metadataURI,
		ExplorerURL: s.ExplorerURL(mintAddress),
		Name:        name,
		Timestamp:   time.Now().UTC(),
	}, nil
}

// Metadata serves the mock off-chain document for a metadata id of the form
// "<unix-millis>-<escaped meme text>".
func (s *Service) Metadata(id string) *models.Metadata {
	parts := strings.SplitN(id, "-", 2)

	created := time.Now().UTC()
	if ms, err := strconv.ParseInt(parts[0], 10, 64); err == nil {
		created = time.UnixMilli(ms).UTC()
	}

	memeText := "AI Meme"
	if len(parts) > 1 && parts[1] != "" {
		if unescaped, err := url.QueryUnescape(parts[1]); err == nil {
			memeText = strings.ReplaceAll(unescaped, "_", " ")
		}
	}

	imageText := memeText
	if len(imageText) > 30 {
		imageText = imageText[:30]
	}
	image := fmt.Sprintf("https://fpoimg.com/1024x1024?text=%s&bg_color=e6e6e6&text_color=8F8F8F&random=%s",
		url.QueryEscape(imageText), parts[0])

	return &models.Metadata{
		Name:        fmt.Sprintf("AI Meme #%s", parts[0]),
		Description: fmt.Sprintf("AI-generated meme created with x402 protocol. Generated on %s", created.Format("1/2/2006")),
		Image:       image,
		Attributes: []models.Attribute{
			{TraitType: "Platform", Value: collectionFamily},
			{TraitType: "Protocol", Value: "x402"},
			{TraitType: "Created", Value: created.Format("2006-01-02")},
			{TraitType: "Meme Text", Value: memeText},
		},
		ExternalURL: externalURL,
		Properties: models.Properties{
			Category: "image",
			Creators: []models.Creator{{Address: s.cfg.CreatorWallet, Share: 100}},
			Files:    []models.File{{URI: image, Type: "image/png"}},
		},
		Collection: models.Collection{Name: collectionName, Family: collectionFamily},
	}
}

// ExplorerURL links the mint account on the configured cluster.
func (s *Service) ExplorerURL(mintAddress string) string {
	return fmt.Sprintf("https://explorer.solana.com/address/%s?cluster=%s", mintAddress, s.cfg.Network)
}

func (s *Service) metadataID(req *models.MintRequest) string {
	text := req.MemeText
	if text == "" {
		text = req.Prompt
	}
	if len(text) > 20 {
		text = text[:20]
	}
	text = strings.ReplaceAll(text, " ", "_")
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), url.QueryEscape(text))
}

// generateName builds a Metaplex-compatible NFT name from the prompt.
func (s *Service) generateName(prompt string) string {
	prefixes := []string{"AI", "Art", "Meme", "Crypto", "NFT"}
	suffixes := []string{"Token", "NFT", "Art"}

	seed := int(nameSeed(prompt))
	prefix := prefixes[seed%len(prefixes)]
	suffix := suffixes[seed%len(suffixes)]

	promptPart := strings.ReplaceAll(prompt, " ", "")
	if len(promptPart) > 15 {
		promptPart = promptPart[:15]
	}

	stamp := strconv.FormatInt(time.Now().UnixMilli()%1000, 10)
	name := fmt.Sprintf("%s%s%s#%s", prefix, promptPart, suffix, stamp)
	if len(name) > maxNameLength {
		name = name[:maxNameLength]
	}
	return name
}

func nameSeed(s string) uint32 {
	var h int32
	for _, c := range s {
		h = (h << 5) - h + int32(c)
	}
	if h < 0 {
		h = -h
	}
	return uint32(h)
}
