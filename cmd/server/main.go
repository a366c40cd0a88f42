package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"claimflow-system/config"
	"claimflow-system/internal/database"
	"claimflow-system/internal/gateway/handlers"
	"claimflow-system/internal/logger"
	claimshandler "claimflow-system/internal/services/claims/handler"
	documentshandler "claimflow-system/internal/services/documents/handler"
	hrhandler "claimflow-system/internal/services/hr/handler"
	usershandler "claimflow-system/internal/services/users/handler"
	"claimflow-system/internal/utils"
)

func main() {
	cfg := config.LoadConfig()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.Auth.JWTSecret != "" {
		utils.JwtSecret = []byte(cfg.Auth.JWTSecret)
	} else {
		log.Warn("AUTH_JWT_SECRET not set, using built-in development secret")
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.SSLMode)

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	if err := database.Seed(db); err != nil {
		log.Fatal("Failed to seed database", zap.Error(err))
	}

	redisClient := config.NewRedisClient(cfg.Redis)

	contentStore, err := documentshandler.NewLocalContentStore(cfg.Upload.Dir)
	if err != nil {
		log.Fatal("Failed to initialize content store", zap.Error(err))
	}

	users := usershandler.NewUserHandler(db, redisClient, log, cfg.Auth.TokenTTL)
	claims := claimshandler.NewClaimHandler(db, redisClient, log)
	documents := documentshandler.NewDocumentHandler(db, contentStore, log)
	hr := hrhandler.NewHRHandler(db, redisClient, users, log)

	router := setupRouter(routerDeps{
		Auth:         handlers.NewAuthHTTPHandler(users),
		Claims:       handlers.NewClaimsHTTPHandler(claims),
		Verification: handlers.NewVerificationHTTPHandler(claims),
		Approval:     handlers.NewApprovalHTTPHandler(claims),
		Documents:    handlers.NewDocumentsHTTPHandler(documents),
		HR:           handlers.NewHRHTTPHandler(hr),
	})

	addr := ":" + cfg.Server.Port
	log.Info("Starting server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
