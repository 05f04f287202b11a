package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "meme-forge-backend/internal/common/errors"
	"meme-forge-backend/internal/features/nft/models"
)

// Minter is the NFT minting and metadata collaborator.
type Minter interface {
	Mint(ctx context.Context, req *models.MintRequest) (*models.MintResponse, error)
	Metadata(id string) *models.Metadata
}

type NFTHandler struct {
	service Minter
}

func NewNFTHandler(service Minter) *NFTHandler {
	return &NFTHandler{service: service}
}

func (h *NFTHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/mint-nft", h.mint)
	router.GET("/metadata/:id", h.metadata)
}

// mint creates an NFT record for an already generated meme.
func (h *NFTHandler) mint(c *gin.Context) {
	var req models.MintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "invalid request body"))
		return
	}

	resp, err := h.service.Mint(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// metadata serves the off-chain metadata document referenced by minted NFTs.
func (h *NFTHandler) metadata(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, apperrors.New(apperrors.ErrCodeMetadataError, "missing metadata id"))
		return
	}

	c.JSON(http.StatusOK, h.service.Metadata(id))
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
