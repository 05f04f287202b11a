package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "meme-forge-backend/internal/common/errors"
	"meme-forge-backend/internal/features/payment/models"
)

// Verifier is the payment verification collaborator.
type Verifier interface {
	Verify(ctx context.Context, req *models.VerificationRequest) (*models.VerificationResult, error)
}

type PaymentHandler struct {
	verifier Verifier
	cfg      models.ProtocolConfig
}

func NewPaymentHandler(verifier Verifier, cfg models.ProtocolConfig) *PaymentHandler {
	return &PaymentHandler{verifier: verifier, cfg: cfg}
}

func (h *PaymentHandler) RegisterRoutes(router *gin.RouterGroup) {
	x402 := router.Group("/x402")
	{
		x402.POST("/check", h.check)
		x402.GET("/check", h.info)
	}
}

// check verifies a submitted payment transaction against the x402 policy.
func (h *PaymentHandler) check(c *gin.Context) {
	var req models.VerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeVerificationError(c, apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.verifier.Verify(c.Request.Context(), &req)
	if err != nil {
		h.writeVerificationError(c, err)
		return
	}

	c.Header("X-Protocol", "x402")
	c.Header("X-Payment-Verified", "true")
	c.Header("X-Payment-Amount", result.Amount.String())
	c.Header("X-Payment-Currency", "SOL")
	c.Header("X-Payment-Signature", result.Signature)
	c.JSON(http.StatusOK, result)
}

// info describes the protocol endpoint and its active configuration.
func (h *PaymentHandler) info(c *gin.Context) {
	c.JSON(http.StatusOK, models.ProtocolInfo{
		Protocol:    "x402",
		Version:     "1.0.0",
		Description: "x402 Payment Verification Protocol",
		Endpoints: map[string]string{
			"POST /api/x402/check": "Verify x402 payment transaction",
		},
		Configuration: h.cfg,
	})
}

// writeVerificationError reproduces the x402 error body: verified flag,
// message, code and per-code diagnostic fields at the top level, plus the
// payment-required headers on the 402 class.
func (h *PaymentHandler) writeVerificationError(c *gin.Context, err error) {
	appErr := apperrors.AsAppError(err)

	body := gin.H{
		"verified": false,
		"error":    appErr.Message,
		"code":     appErr.Code,
	}
	for k, v := range appErr.Details {
		body[k] = v
	}

	if appErr.IsPaymentRequired() {
		body["protocol"] = "x402"
		body["payment_required"] = fmt.Sprintf("%s SOL", h.cfg.PaymentAmount)
		c.Header("Payment-Required", "true")
		c.Header("X-Protocol", "x402")
		c.Header("X-Payment-Amount", h.cfg.PaymentAmount.String())
		c.Header("X-Payment-Currency", "SOL")
	}

	c.JSON(appErr.HTTPStatus(), body)
}
