package models

import (
	"github.com/shopspring/decimal"
)

// VerificationRequest is the x402 check input, constructed per request.
type VerificationRequest struct {
	TransactionSignature string `json:"transactionSignature"`
	UserWallet           string `json:"userWallet"`
	// Amount overrides the configured policy amount when positive.
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

// VerificationResult is the successful outcome of an x402 check. It lives
// for the duration of one request and is never persisted.
type VerificationResult struct {
	Verified       bool            `json:"verified"`
	Amount         decimal.Decimal `json:"amount"`
	RequiredAmount decimal.Decimal `json:"requiredAmount"`
	Signature      string          `json:"signature"`
	Timestamp      int64           `json:"timestamp,omitempty"`
	Sender         string          `json:"sender"`
	Recipient      string          `json:"recipient"`
	Protocol       string          `json:"protocol"`
	Network        string          `json:"network"`
}

// ProtocolInfo describes the x402 endpoint, served on GET for discovery.
type ProtocolInfo struct {
	Protocol      string            `json:"protocol"`
	Version       string            `json:"version"`
	Description   string            `json:"description"`
	Endpoints     map[string]string `json:"endpoints"`
	Configuration ProtocolConfig    `json:"configuration"`
}

type ProtocolConfig struct {
	PaymentAmount   decimal.Decimal `json:"paymentAmount"`
	RecipientWallet string          `json:"recipientWallet"`
	Network         string          `json:"network"`
}
