package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"meme-forge-backend/internal/common/config"
	"meme-forge-backend/internal/common/logger"
	"meme-forge-backend/internal/common/middleware"
	memehttp "meme-forge-backend/internal/features/meme/delivery/http"
	memeservice "meme-forge-backend/internal/features/meme/service"
	nfthttp "meme-forge-backend/internal/features/nft/delivery/http"
	nftservice "meme-forge-backend/internal/features/nft/service"
	paymenthttp "meme-forge-backend/internal/features/payment/delivery/http"
	paymentmodels "meme-forge-backend/internal/features/payment/models"
	"meme-forge-backend/internal/features/payment/repository"
	paymentredis "meme-forge-backend/internal/features/payment/repository/redis"
	paymentservice "meme-forge-backend/internal/features/payment/service"
	redisplatform "meme-forge-backend/internal/platform/redis"
	solanaplatform "meme-forge-backend/internal/platform/solana"
)

func main() {
	cfg := config.Load()

	logger.Init("meme-forge-backend", cfg.Debug)

	logger.Info().
		Str("version", "1.0.0").
		Str("network", cfg.Solana.Network).
		Str("rpc_url", cfg.Solana.RPCURL).
		Bool("debug", cfg.Debug).
		Msg("Starting Meme Forge Backend")

	if cfg.Payment.AllowSkip {
		logger.Warn().Msg("Payment bypass is enabled - do not run this configuration in production")
	}

	chain := solanaplatform.NewClient(cfg.Solana.RPCURL, cfg.Solana.Commitment, cfg.Solana.RPCTimeout)

	paymentSvc := paymentservice.NewService(chain, paymentservice.Config{
		RecipientWallet: cfg.Payment.RecipientWallet,
		RequiredAmount:  cfg.Payment.Amount,
		Network:         cfg.Solana.Network,
	})

	// Redis backs the consumed-signature ledger; without replay protection
	// the service runs stateless and a signature can pay more than once.
	var (
		rdb    *redisplatform.Client
		ledger repository.SignatureLedger
	)
	if cfg.Payment.ReplayProtection {
		var err error
		rdb, err = redisplatform.Open(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		ledger = paymentredis.NewLedger(rdb.Client, cfg.Payment.SignatureTTL)
		logger.Info().Msg("Signature replay protection enabled")
	}

	memeSvc := memeservice.NewService(
		paymentSvc,
		ledger,
		memeservice.NewPlaceholderImageService(""),
		memeservice.NewTemplateCaptionService(),
		memeservice.Config{
			AllowSkip:      cfg.Payment.AllowSkip,
			RequiredAmount: cfg.Payment.Amount,
			Network:        cfg.Solana.Network,
		},
	)

	nftSvc := nftservice.NewService(nftservice.Config{
		PublicBaseURL: cfg.PublicBaseURL,
		Network:       cfg.Solana.Network,
		CreatorWallet: cfg.Payment.RecipientWallet,
	})

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Accept", "X-Request-ID", "X-Skip-Payment"}
	router.Use(cors.New(corsConfig))

	api := router.Group("/api")
	paymenthttp.NewPaymentHandler(paymentSvc, paymentmodels.ProtocolConfig{
		PaymentAmount:   cfg.Payment.Amount,
		RecipientWallet: cfg.Payment.RecipientWallet,
		Network:         cfg.Solana.Network,
	}).RegisterRoutes(api)
	memehttp.NewMemeHandler(memeSvc).RegisterRoutes(api)
	nfthttp.NewNFTHandler(nftSvc).RegisterRoutes(api)

	registerProbes(router, rdb)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

func registerProbes(router *gin.Engine, rdb *redisplatform.Client) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "meme-forge-backend",
		})
	})

	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/ready", func(c *gin.Context) {
		if rdb != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := rdb.Healthcheck(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unready",
					"error":   "redis unavailable",
					"details": err.Error(),
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"service":   "meme-forge-backend",
		})
	})
}
