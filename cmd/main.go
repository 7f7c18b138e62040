package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/app"
	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/config"
	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/controllers"
	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/middleware"
	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/repositories"
	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/services"
	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize application:", err)
	}
	defer application.Close()

	//----------------------------------------------------------------------
	// Repositories
	//----------------------------------------------------------------------
	pendingCodeRepo := repositories.NewPendingCodeRepository(application.Redis)
	verifiedPhoneRepo := repositories.NewVerifiedPhoneRepository(application.Mongo)
	transactionRepo := repositories.NewTransactionRepository(application.Mongo)
	rateLimitRepo := repositories.NewRateLimitRepository(application.Redis)

	//----------------------------------------------------------------------
	// Services
	//----------------------------------------------------------------------
	rateLimiterService := services.NewRateLimiterService(rateLimitRepo, cfg)

	var smsSender services.SMSSender
	if cfg.SMSDryRun {
		smsSender = services.NewDryRunSMSSender()
	} else {
		smsSender = services.NewTwilioSMSSender(cfg)
	}

	otpService := services.NewOTPService(
		pendingCodeRepo,
		verifiedPhoneRepo,
		rateLimiterService,
		smsSender,
		cfg,
	)

	sessionService := services.NewSessionService(cfg)
	paymentService := services.NewPaymentService(transactionRepo, cfg)
	transactionCleanupService := services.NewTransactionCleanupService(transactionRepo, cfg)

	//----------------------------------------------------------------------
	// Controllers
	//----------------------------------------------------------------------
	otpController := controllers.NewOTPController(otpService, sessionService, cfg)
	paymentController := controllers.NewPaymentController(paymentService, sessionService, cfg)
	healthController := controllers.NewHealthController(application)

	//----------------------------------------------------------------------
	// Router & Endpoints
	//----------------------------------------------------------------------
	router := mux.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery)

	// Health
	router.HandleFunc("/health", healthController.HealthCheckHandler).Methods("GET")

	// /api/otp
	otpRouter := router.PathPrefix("/api/otp").Subrouter()
	otpRouter.HandleFunc("/send", otpController.SendOTP).Methods("POST")
	otpRouter.HandleFunc("/verify", otpController.VerifyOTP).Methods("POST")
	otpRouter.HandleFunc("/resend", otpController.ResendOTP).Methods("POST")
	otpRouter.HandleFunc("/check-verification", otpController.CheckVerification).Methods("GET")

	// /api/payment
	paymentRouter := router.PathPrefix("/api/payment").Subrouter()
	paymentRouter.HandleFunc("/generate-qr", paymentController.GenerateQR).Methods("POST")
	paymentRouter.HandleFunc("/update-qr-timestamp", paymentController.UpdateQRTimestamp).Methods("POST")

	//----------------------------------------------------------------------
	// Setup daily cleanup via cron
	//----------------------------------------------------------------------
	c := cron.New()

	_, schErr := c.AddFunc("0 3 * * *", func() {
		if e := transactionCleanupService.CleanupDaily(context.Background()); e != nil {
			utils.Logger.WithError(e).Error("Scheduled stale-transaction cleanup failed")
		}
	})
	if schErr != nil {
		utils.Logger.WithError(schErr).Fatal("Failed to schedule stale-transaction cleanup job")
	}

	c.Start()

	co := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AppUrl},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("Failed to start server:", err)
	}
}
