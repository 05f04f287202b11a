package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc"

	apperrors "meme-forge-backend/internal/common/errors"
	"meme-forge-backend/internal/common/logger"
	"meme-forge-backend/internal/features/meme/models"
	paymentmodels "meme-forge-backend/internal/features/payment/models"
	"meme-forge-backend/internal/features/payment/repository"
)

// PaymentVerifier gates generation behind a verified x402 payment.
type PaymentVerifier interface {
	Verify(ctx context.Context, req *paymentmodels.VerificationRequest) (*paymentmodels.VerificationResult, error)
}

// ImageGenerator accepts a prompt and returns an image URL or fails.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, opts models.ImageOptions) (string, error)
}

// CaptionGenerator accepts a prompt and returns a meme caption or fails.
type CaptionGenerator interface {
	GenerateCaption(ctx context.Context, prompt string) (string, error)
}

// Config controls the generation gate policy.
type Config struct {
	// AllowSkip enables the debug payment bypass. Testing affordance,
	// never enabled in production.
	AllowSkip      bool
	RequiredAmount decimal.Decimal
	Network        string
}

// Service sequences "verify payment, then produce content".
type Service struct {
	verifier PaymentVerifier
	ledger   repository.SignatureLedger // nil disables replay protection
	images   ImageGenerator
	captions CaptionGenerator
	cfg      Config
}

func NewService(verifier PaymentVerifier, ledger repository.SignatureLedger, images ImageGenerator, captions CaptionGenerator, cfg Config) *Service {
	return &Service{
		verifier: verifier,
		ledger:   ledger,
		images:   images,
		captions: captions,
		cfg:      cfg,
	}
}

// Generate validates the request, verifies the payment, consumes the
// signature, and produces image and caption concurrently. skipPayment is the
// client's bypass request; it takes effect only when AllowSkip is configured.
func (s *Service) Generate(ctx context.Context, req *models.GenerateRequest, skipPayment bool) (*models.GenerateResponse, error) {
	if req.Prompt == "" || req.TransactionSignature == "" || req.UserWallet == "" {
		return nil, apperrors.New(apperrors.ErrCodeMissingFields,
			"missing required fields: prompt, transactionSignature, userWallet")
	}

	verified, err := s.verifyPayment(ctx, req, skipPayment)
	if err != nil {
		return nil, err
	}

	consumed := false
	if s.ledger != nil && verified.Protocol != protocolDebug {
		ok, lerr := s.ledger.Consume(ctx, req.TransactionSignature)
		if lerr != nil {
			return nil, apperrors.Wrap(lerr, apperrors.ErrCodeCacheError, "signature ledger unavailable")
		}
		if !ok {
			return nil, apperrors.New(apperrors.ErrCodeSignatureAlreadyUsed,
				"transaction signature already used for a generation")
		}
		consumed = true
	}

	// Image and caption are independent, fire both and await both.
	var (
		imageURL, memeText string
		imgErr, capErr     error
	)
	wg := conc.NewWaitGroup()
	wg.Go(func() {
		imageURL, imgErr = s.images.GenerateImage(ctx, models.ImageOptions{
			Prompt: req.Prompt,
			Style:  req.Style,
			Width:  req.Width,
			Height: req.Height,
		})
	})
	wg.Go(func() {
		memeText, capErr = s.captions.GenerateCaption(ctx, req.Prompt)
	})
	wg.Wait()

	if imgErr != nil || capErr != nil {
		if consumed {
			// Let the client retry with the same payment.
			if rerr := s.ledger.Release(ctx, req.TransactionSignature); rerr != nil {
				logger.Error().Err(rerr).Msg("Failed to release consumed signature")
			}
		}
		genErr := imgErr
		if genErr == nil {
			genErr = capErr
		}
		return nil, apperrors.Wrap(genErr, apperrors.ErrCodeGenerationFailed, "failed to generate meme content")
	}

	return &models.GenerateResponse{
		Success:  true,
		ImageURL: imageURL,
		MemeText: memeText,
		Prompt:   req.Prompt,
		PaymentVerified: models.PaymentReceipt{
			Signature: verified.Signature,
			Amount:    verified.Amount,
			Timestamp: verified.Timestamp,
			Sender:    verified.Sender,
			Recipient: verified.Recipient,
		},
		Timestamp: time.Now().UTC(),
	}, nil
}

// protocolDebug marks synthetic results produced by the payment bypass.
const protocolDebug = "x402-debug"

func (s *Service) verifyPayment(ctx context.Context, req *models.GenerateRequest, skipPayment bool) (*paymentmodels.VerificationResult, error) {
	if skipPayment && s.cfg.AllowSkip {
		logger.Warn().
			Str("user_wallet", req.UserWallet).
			Msg("Payment verification skipped (debug bypass)")
		return &paymentmodels.VerificationResult{
			Verified:       true,
			Amount:         s.cfg.RequiredAmount,
			RequiredAmount: s.cfg.RequiredAmount,
			Signature:      req.TransactionSignature,
			Protocol:       protocolDebug,
			Network:        s.cfg.Network,
		}, nil
	}

	return s.verifier.Verify(ctx, &paymentmodels.VerificationRequest{
		TransactionSignature: req.TransactionSignature,
		UserWallet:           req.UserWallet,
	})
}
