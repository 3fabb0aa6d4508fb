package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	chatHandler "mediconnect-backend/internal/apps/chat/handler"
	chatModels "mediconnect-backend/internal/apps/chat/models"
	chatRepository "mediconnect-backend/internal/apps/chat/repository"
	chatService "mediconnect-backend/internal/apps/chat/service"
	dietPlanHandler "mediconnect-backend/internal/apps/dietplan/handler"
	dietPlanModels "mediconnect-backend/internal/apps/dietplan/models"
	dietPlanRepository "mediconnect-backend/internal/apps/dietplan/repository"
	dietPlanService "mediconnect-backend/internal/apps/dietplan/service"
	hospitalHandler "mediconnect-backend/internal/apps/hospital/handler"
	hospitalService "mediconnect-backend/internal/apps/hospital/service"
	medicineHandler "mediconnect-backend/internal/apps/medicine/handler"
	medicineModels "mediconnect-backend/internal/apps/medicine/models"
	medicineRepository "mediconnect-backend/internal/apps/medicine/repository"
	medicineService "mediconnect-backend/internal/apps/medicine/service"
	otpHandler "mediconnect-backend/internal/apps/otp/handler"
	otpModels "mediconnect-backend/internal/apps/otp/models"
	otpRepository "mediconnect-backend/internal/apps/otp/repository"
	otpService "mediconnect-backend/internal/apps/otp/service"
	recordHandler "mediconnect-backend/internal/apps/record/handler"
	recordModels "mediconnect-backend/internal/apps/record/models"
	recordRepository "mediconnect-backend/internal/apps/record/repository"
	recordService "mediconnect-backend/internal/apps/record/service"
	userHandler "mediconnect-backend/internal/apps/user/handler"
	userModels "mediconnect-backend/internal/apps/user/models"
	userRepository "mediconnect-backend/internal/apps/user/repository"
	userService "mediconnect-backend/internal/apps/user/service"
	"mediconnect-backend/internal/common/clock"
	"mediconnect-backend/internal/common/config"
	"mediconnect-backend/internal/common/database"
	"mediconnect-backend/internal/common/logging"
	"mediconnect-backend/internal/common/middleware"
	"mediconnect-backend/pkg/secure"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	shutdownTimeout  = 30 * time.Second
	placesCacheTTL   = 10 * time.Minute
	redisPingTimeout = 5 * time.Second
)

func databaseConfig(cfg config.Config) database.Config {
	return database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	}
}

func migrateAll(db *gorm.DB) error {
	return database.Migrate(db,
		&userModels.User{},
		&otpModels.PhoneOTP{},
		&chatModels.ChatTurn{},
		&medicineModels.Medicine{},
		&recordModels.HealthRecord{},
		&dietPlanModels.PlanPurchase{},
	)
}

func runMigrate() error {
	cfg := config.Load()
	logger, err := logging.New(cfg.Env)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := database.NewConnection(databaseConfig(cfg))
	if err != nil {
		return err
	}
	if err := migrateAll(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.Info("migrations applied")
	return nil
}

func runServer(migrate bool) error {
	cfg := config.Load()
	logger, err := logging.New(cfg.Env)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := database.NewConnection(databaseConfig(cfg))
	if err != nil {
		logger.Error("failed to connect to database", zap.Error(err))
		return err
	}
	if migrate {
		if err := migrateAll(db); err != nil {
			logger.Error("failed to migrate database", zap.Error(err))
			return err
		}
	}

	var rdb *redis.Client
	if cfg.OTP.Store == "redis" || cfg.PlacesAPIKey != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		pingErr := rdb.Ping(ctx).Err()
		cancel()
		if pingErr != nil {
			if cfg.OTP.Store == "redis" {
				logger.Error("failed to connect to redis", zap.String("addr", cfg.Redis.Addr), zap.Error(pingErr))
				return pingErr
			}
			logger.Warn("redis unavailable, places results will not be cached", zap.Error(pingErr))
			rdb = nil
		}
	}

	clk := clock.New()

	// Users
	userRepo := userRepository.NewUserRepository(db)
	users := userService.NewUserService(userRepo)

	// Phone OTP
	var otpRepo otpRepository.PhoneOTPRepository
	if cfg.OTP.Store == "redis" {
		otpRepo = otpRepository.NewRedisPhoneOTPRepository(rdb, cfg.OTP.Retention)
	} else {
		otpRepo = otpRepository.NewPhoneOTPRepository(db)
	}

	var cipher *secure.Cipher
	if cfg.OTP.EncryptionKey != "" {
		cipher, err = secure.NewCipher([]byte(cfg.OTP.EncryptionKey))
		if err != nil {
			logger.Error("invalid OTP_ENCRYPTION_KEY", zap.Error(err))
			return err
		}
	}

	var provider otpService.OTPProvider
	if cfg.OTP.AuthKey != "" {
		provider = otpService.NewAuthKeyProvider(cfg.OTP.AuthKey, cfg.OTP.AuthKeyTemplateID, &http.Client{Timeout: 15 * time.Second}, logger)
	} else {
		logger.Warn("AUTHKEY_API_KEY not set, OTP codes will only be logged")
		provider = otpService.NewNoOpProvider(logger)
	}

	otpSvc := otpService.NewPhoneOTPService(otpRepo, provider, otpService.Options{
		TTL:          cfg.OTP.TTL,
		MaxAttempts:  cfg.OTP.MaxAttempts,
		DiscloseCode: cfg.OTP.DiscloseCode,
		Cipher:       cipher,
		Clock:        clk,
		Verifier:     users,
		Logger:       logger.Named("otp"),
	})

	// Chat
	chatSvc := chatService.NewChatService(chatService.Options{
		Clock: clk,
		Inference: chatService.NewHFClient(chatService.HFConfig{
			APIKey:    cfg.Chat.HFAPIKey,
			BaseURL:   cfg.Chat.HFBaseURL,
			Model:     cfg.Chat.HFModel,
			MaxTokens: cfg.Chat.MaxTokens,
			Timeout:   cfg.Chat.RequestTimeout,
		}, nil),
		Repo:   chatRepository.NewChatTurnRepository(db),
		Users:  users,
		Logger: logger.Named("chat"),
	})
	defer chatSvc.Close()

	// Medicines
	medicineSvc := medicineService.NewMedicineService(medicineRepository.NewMedicineRepository(db), userRepo)

	// Health records
	recordSvc := recordService.NewHealthRecordService(recordRepository.NewHealthRecordRepository(db), userRepo)

	// Diet plans
	var gateway dietPlanService.OrderGateway
	if cfg.Razorpay.KeyID != "" && cfg.Razorpay.KeySecret != "" {
		gateway = dietPlanService.NewRazorpayGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	} else {
		logger.Warn("Razorpay credentials not configured, premium purchases disabled")
	}
	dietPlanSvc := dietPlanService.NewDietPlanService(dietPlanRepository.NewPurchaseRepository(db), userRepo, dietPlanService.Options{
		Gateway:       gateway,
		KeyID:         cfg.Razorpay.KeyID,
		KeySecret:     cfg.Razorpay.KeySecret,
		WebhookSecret: cfg.Razorpay.WebhookSecret,
		AppEnv:        cfg.Env,
		Clock:         clk,
		Logger:        logger.Named("dietplan"),
	})

	// Emergency hospitals
	hospitalOpts := hospitalService.Options{Logger: logger.Named("hospital")}
	if cfg.PlacesAPIKey != "" {
		hospitalOpts.Places = hospitalService.NewGooglePlacesClient(cfg.PlacesAPIKey, &http.Client{Timeout: 10 * time.Second})
		if rdb != nil {
			hospitalOpts.Cache = hospitalService.NewRedisNearbyCache(rdb, placesCacheTTL)
		}
	}
	hospitalSvc := hospitalService.NewHospitalService(hospitalOpts)

	// Setup Gin router
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	cors, err := middleware.SetupCORS(cfg.Env, cfg.CORSAllowedOrigins)
	if err != nil {
		logger.Error("invalid CORS configuration", zap.Error(err))
		return err
	}
	router.Use(middleware.RequestID(), middleware.RequestLogger(logger), gin.Recovery(), cors)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Server is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		otpHandler.RegisterOTPRoutes(v1, otpHandler.NewPhoneOTPHandler(otpSvc))
		chatHandler.RegisterChatRoutes(v1, chatHandler.NewChatHandler(chatSvc))
		userHandler.RegisterUserRoutes(v1, userHandler.NewUserHandler(users))
		medicineHandler.RegisterMedicineRoutes(v1, medicineHandler.NewMedicineHandler(medicineSvc))
		recordHandler.RegisterHealthRecordRoutes(v1, recordHandler.NewHealthRecordHandler(recordSvc))
		dietPlanHandler.RegisterDietPlanRoutes(v1, dietPlanHandler.NewDietPlanHandler(dietPlanSvc))
		hospitalHandler.RegisterHospitalRoutes(v1, hospitalHandler.NewHospitalHandler(hospitalSvc))
	}

	// SSE streams stay open, so no WriteTimeout
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.String("environment", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error("failed to start server", zap.Error(err))
			return err
		}
	case <-quit:
	}

	logger.Info("shutting down server...")
	chatSvc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Info("server stopped")
	return nil
}
