package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "meme-forge-backend/internal/common/errors"
	"meme-forge-backend/internal/features/nft/models"
)

func newTestService() *Service {
	return NewService(Config{
		PublicBaseURL: "http://localhost:8080",
		Network:       "devnet",
		CreatorWallet: "4YweNXQbjMMDnD2sBG5FSWDP5mnqeu1gmCm48r4WV9q3",
	})
}

func TestMintSuccess(t *testing.T) {
	svc := newTestService()

	resp, err := svc.Mint(context.Background(), &models.MintRequest{
		ImageURL:      "https://fpoimg.com/400x350?text=cats",
		Prompt:        "cats in space",
		MemeText:      "cats: Solana Edition",
		UserPublicKey: "7nYabs9dUhvxYwdTnrWVBL9MYviKSfrEbdWCUbcBwCPc",
	})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.MintAddress)
	require.Contains(t, resp.MetadataURI, "http://localhost:8080/api/metadata/")
	require.Contains(t, resp.ExplorerURL, resp.MintAddress)
	require.Contains(t, resp.ExplorerURL, "cluster=devnet")
	require.NotEmpty(t, resp.Name)
	require.LessOrEqual(t, len(resp.Name), 32)
}

func TestMintAddressesAreUnique(t *testing.T) {
	svc := newTestService()
	req := &models.MintRequest{
		ImageURL:      "https://fpoimg.com/400x350?text=cats",
		Prompt:        "cats",
		UserPublicKey: "7nYabs9dUhvxYwdTnrWVBL9MYviKSfrEbdWCUbcBwCPc",
	}

	first, err := svc.Mint(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Mint(context.Background(), req)
	require.NoError(t, err)
	require.NotEqual(t, first.MintAddress, second.MintAddress)
}

func TestMintMissingFields(t *testing.T) {
	svc := newTestService()

	for _, req := range []*models.MintRequest{
		{},
		{ImageURL: "http://img"},
		{ImageURL: "http://img", Prompt: "cats"},
		{Prompt: "cats", UserPublicKey: "wallet"},
	} {
		_, err := svc.Mint(context.Background(), req)
		require.Error(t, err)
		require.Equal(t, apperrors.ErrCodeMissingFields, apperrors.AsAppError(err).Code)
	}
}

func TestMetadataFromID(t *testing.T) {
	svc := newTestService()

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC).UnixMilli()
	meta := svc.Metadata(fmt.Sprintf("%d-cats_in_space", ts))

	require.Equal(t, fmt.Sprintf("AI Meme #%d", ts), meta.Name)
	require.Contains(t, meta.Image, "fpoimg.com/1024x1024")
	require.Equal(t, "image", meta.Properties.Category)
	require.Len(t, meta.Properties.Creators, 1)
	require.Equal(t, 100, meta.Properties.Creators[0].Share)
	require.Equal(t, "AI Meme Forge Collection", meta.Collection.Name)

	var memeText string
	for _, attr := range meta.Attributes {
		if attr.TraitType == "Meme Text" {
			memeText = attr.Value
		}
	}
	require.Equal(t, "cats in space", memeText)

	var created string
	for _, attr := range meta.Attributes {
		if attr.TraitType == "Created" {
			created = attr.Value
		}
	}
	require.Equal(t, "2024-05-01", created)
}

func TestMetadataFromOpaqueID(t *testing.T) {
	svc := newTestService()

	meta := svc.Metadata("not-a-timestamp")
	require.NotEmpty(t, meta.Name)
	require.NotEmpty(t, meta.Image)
}
