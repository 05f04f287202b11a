package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GenerateRequest is the payment-gated meme generation input.
type GenerateRequest struct {
	Prompt               string `json:"prompt"`
	TransactionSignature string `json:"transactionSignature"`
	UserWallet           string `json:"userWallet"`
	Model                string `json:"model,omitempty"`
	Style                string `json:"style,omitempty"`
	Width                int    `json:"width,omitempty"`
	Height               int    `json:"height,omitempty"`
	// Debug requests the payment bypass; honored only when the server
	// explicitly allows skipping verification.
	Debug bool `json:"debug,omitempty"`
}

// ImageOptions carries the prompt and rendering hints to the image collaborator.
type ImageOptions struct {
	Prompt string
	Style  string
	Width  int
	Height int
}

// PaymentReceipt is the payment metadata echoed back with generated content.
type PaymentReceipt struct {
	Signature string          `json:"signature"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp int64           `json:"timestamp,omitempty"`
	Sender    string          `json:"sender,omitempty"`
	Recipient string          `json:"recipient,omitempty"`
}

// GenerateResponse combines generated content with the verification result.
type GenerateResponse struct {
	Success         bool           `json:"success"`
	ImageURL        string         `json:"imageUrl"`
	MemeText        string         `json:"memeText"`
	Prompt          string         `json:"prompt"`
	PaymentVerified PaymentReceipt `json:"paymentVerified"`
	Timestamp       time.Time      `json:"timestamp"`
}
