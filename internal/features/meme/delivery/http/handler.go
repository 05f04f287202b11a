package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "meme-forge-backend/internal/common/errors"
	"meme-forge-backend/internal/features/meme/models"
)

// Generator is the payment-gated generation collaborator.
type Generator interface {
	Generate(ctx context.Context, req *models.GenerateRequest, skipPayment bool) (*models.GenerateResponse, error)
}

type MemeHandler struct {
	service Generator
}

func NewMemeHandler(service Generator) *MemeHandler {
	return &MemeHandler{service: service}
}

func (h *MemeHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/generate", h.generate)
	router.GET("/generate", h.info)
}

// generate produces a meme after the x402 payment check passes.
func (h *MemeHandler) generate(c *gin.Context) {
	var req models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "invalid request body"))
		return
	}

	skipPayment := req.Debug || c.GetHeader("X-Skip-Payment") == "true"

	resp, err := h.service.Generate(c.Request.Context(), &req, skipPayment)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *MemeHandler) info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":  "AI Meme Generator API",
		"version":  "1.0.0",
		"protocol": "x402",
		"endpoints": map[string]string{
			"POST /api/generate":   "Generate AI meme after payment verification",
			"POST /api/x402/check": "Verify x402 payment transaction",
		},
	})
}

func writeError(c *gin.Context, err error) {
	appErr := apperrors.AsAppError(err)

	body := gin.H{
		"error": appErr.Message,
		"code":  appErr.Code,
	}
	for k, v := range appErr.Details {
		body[k] = v
	}

	c.JSON(appErr.HTTPStatus(), body)
}
