package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	apperrors "meme-forge-backend/internal/common/errors"
	"meme-forge-backend/internal/common/logger"
	"meme-forge-backend/internal/features/payment/models"
	"meme-forge-backend/internal/platform/solana"
)

// minSignatureLength is a format sanity check on the submitted signature,
// not cryptographic validation.
const minSignatureLength = 64

// TransactionReader is the blockchain RPC collaborator, the source of truth
// for the payment fact.
type TransactionReader interface {
	GetTransaction(ctx context.Context, signature string) (*solana.Transaction, error)
}

// Config is the payment policy the verifier enforces.
type Config struct {
	RecipientWallet string
	RequiredAmount  decimal.Decimal
	Network         string
}

// Service decides whether a claimed payment is valid.
type Service struct {
	chain TransactionReader
	cfg   Config
}

func NewService(chain TransactionReader, cfg Config) *Service {
	return &Service{chain: chain, cfg: cfg}
}

// Verify checks a submitted transaction signature against the payment
// policy: the transaction must exist and have executed successfully, the
// first account key must be the user's wallet, the second the configured
// recipient, and the sender's balance delta must cover the required amount.
//
// The sender/recipient extraction is position-based: a simple two-party
// transfer references the sender at account index 0 and the destination at
// index 1. Transactions with more accounts or non-transfer instructions are
// not parsed semantically.
func (s *Service) Verify(ctx context.Context, req *models.VerificationRequest) (*models.VerificationResult, error) {
	if req.TransactionSignature == "" || req.UserWallet == "" {
		return nil, apperrors.New(apperrors.ErrCodeMissingParams, "missing transaction signature or user wallet")
	}

	if len(req.TransactionSignature) < minSignatureLength {
		return nil, apperrors.New(apperrors.ErrCodeInvalidSignature, "invalid transaction signature format")
	}

	required := s.cfg.RequiredAmount
	if req.Amount != nil && req.Amount.IsPositive() {
		required = *req.Amount
	}

	logger.Debug().
		Str("signature", shorten(req.TransactionSignature)).
		Str("user_wallet", shorten(req.UserWallet)).
		Msg("Fetching transaction from blockchain")

	tx, err := s.chain.GetTransaction(ctx, req.TransactionSignature)
	if err != nil {
		switch {
		case errors.Is(err, solana.ErrTxNotFound):
			return nil, apperrors.New(apperrors.ErrCodeTransactionNotFound, "transaction not found or not confirmed")
		case errors.Is(err, solana.ErrInvalidSignature):
			return nil, apperrors.New(apperrors.ErrCodeInvalidSignature, "invalid transaction signature format")
		default:
			return nil, apperrors.Wrap(err, apperrors.ErrCodeVerificationError, "x402 payment verification failed")
		}
	}

	if tx.ExecutionErr != "" {
		return nil, apperrors.New(apperrors.ErrCodeTransactionFailed, "transaction execution failed").
			WithDetail("details", tx.ExecutionErr)
	}

	var sender, recipient string
	if len(tx.AccountKeys) > 0 {
		sender = tx.AccountKeys[0]
	}
	if len(tx.AccountKeys) > 1 {
		recipient = tx.AccountKeys[1]
	}

	if sender != req.UserWallet {
		return nil, apperrors.New(apperrors.ErrCodeSenderMismatch, "transaction sender does not match user wallet").
			WithDetail("expected", req.UserWallet).
			WithDetail("actual", sender)
	}

	if recipient != s.cfg.RecipientWallet {
		return nil, apperrors.New(apperrors.ErrCodeRecipientMismatch, "transaction recipient does not match expected x402 recipient").
			WithDetail("expected", s.cfg.RecipientWallet).
			WithDetail("actual", recipient)
	}

	if len(tx.PreBalances) == 0 || len(tx.PostBalances) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeNoBalanceData, "unable to verify payment amount - no balance data")
	}

	// Paid amount is the sender's lamport delta converted to SOL.
	delta := int64(tx.PreBalances[0]) - int64(tx.PostBalances[0])
	paid := decimal.New(delta, -9)

	if paid.LessThan(required) {
		return nil, apperrors.New(apperrors.ErrCodeInsufficientAmount, "insufficient payment amount").
			WithDetail("paid", paid).
			WithDetail("required", required)
	}

	logger.Info().
		Str("signature", shorten(req.TransactionSignature)).
		Str("paid", paid.String()).
		Str("required", required.String()).
		Msg("x402 payment verified")

	result := &models.VerificationResult{
		Verified:       true,
		Amount:         paid,
		RequiredAmount: required,
		Signature:      req.TransactionSignature,
		Sender:         sender,
		Recipient:      recipient,
		Protocol:       "x402",
		Network:        s.cfg.Network,
	}
	if tx.BlockTime != nil {
		result.Timestamp = tx.BlockTime.Unix()
	}
	return result, nil
}

// RequiredAmount exposes the configured policy amount for info endpoints
// and synthetic debug results.
func (s *Service) RequiredAmount() decimal.Decimal {
	return s.cfg.RequiredAmount
}

func shorten(v string) string {
	if len(v) <= 10 {
		return v
	}
	return v[:10] + "..."
}
