package config

import (
	"encoding/base64"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/utils"
)

const AppName = "verification-service"

// Config holds all application configuration, including secrets and
// provider credentials.
type Config struct {
	AppName string
	AppPort string
	AppUrl  string

	MongoURI  string
	MongoDB   string
	RedisURL  string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromPhone  string
	SMSDryRun        bool

	SessionSigningKey []byte
	CookieSecure      bool

	UPIID           string
	UPIMerchantName string

	VerificationCodeLength int
	VerificationCodeExpiry time.Duration
	MaxVerifyAttempts      int
	CookieExpiry           time.Duration
	ElevatedTrustWindow    time.Duration
	PersistWaitTimeout     time.Duration
	CorrelationWindow      time.Duration

	SMSLimitPerIPPerHour     int
	SMSLimitPerNumberPerHour int
	GlobalSMSLimitPerHour    int
	RateLimitWindow          time.Duration

	StaleTransactionAge time.Duration
}

// Constants for time-based configuration defaults.
const (
	VerificationCodeLength        = 6
	DefaultVerificationCodeExpiry = 5 * time.Minute
	MaxVerifyAttempts             = 3
	DefaultCookieExpiry           = 30 * 24 * time.Hour
	DefaultElevatedTrustWindow    = 24 * time.Hour
	DefaultPersistWaitTimeout     = 3 * time.Second
	DefaultCorrelationWindow      = 5 * time.Minute

	DefaultSMSLimitPerIPPerHour     = 20
	DefaultSMSLimitPerNumberPerHour = 5
	DefaultGlobalSMSLimitPerHour    = 1000
	DefaultRateLimitWindow          = 1 * time.Hour

	DefaultStaleTransactionAge = 30 * 24 * time.Hour
)

// LoadConfig reads the environment (plus an optional .env for local
// runs) and returns a *Config. Missing required variables are fatal.
func LoadConfig() *Config {
	_ = godotenv.Load()

	utils.Logger.Info("Loading config for app: ", AppName)

	appPort := requireEnv("APP_PORT")
	appUrl := requireEnv("APP_URL")
	mongoURI := requireEnv("MONGO_URI")
	mongoDB := requireEnv("MONGO_DB")
	redisURL := requireEnv("REDIS_URL")

	twilioAccountSID := requireEnv("TWILIO_ACCOUNT_SID")
	twilioAuthToken := requireEnv("TWILIO_AUTH_TOKEN")
	twilioFromPhone := requireEnv("TWILIO_FROM_PHONE")

	upiID := requireEnv("UPI_ID")
	upiMerchantName := requireEnv("UPI_MERCHANT_NAME")

	signingKeyBase64 := requireEnv("SESSION_SIGNING_KEY_BASE64")
	signingKey, err := base64.StdEncoding.DecodeString(signingKeyBase64)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to decode SESSION_SIGNING_KEY_BASE64 from base64")
	}
	if len(signingKey) < 32 {
		utils.Logger.Fatal("SessionSigningKey must be at least 32 bytes for HMAC-SHA256 signing")
	}

	smsDryRun := os.Getenv("SMS_DRY_RUN") == "true"
	if smsDryRun {
		utils.Logger.Warn("SMS_DRY_RUN enabled; verification codes will be logged, not sent")
	}
	cookieSecure := os.Getenv("COOKIE_SECURE") != "false"

	return &Config{
		AppName: AppName,
		AppPort: appPort,
		AppUrl:  appUrl,

		MongoURI: mongoURI,
		MongoDB:  mongoDB,
		RedisURL: redisURL,

		TwilioAccountSID: twilioAccountSID,
		TwilioAuthToken:  twilioAuthToken,
		TwilioFromPhone:  twilioFromPhone,
		SMSDryRun:        smsDryRun,

		SessionSigningKey: signingKey,
		CookieSecure:      cookieSecure,

		UPIID:           upiID,
		UPIMerchantName: upiMerchantName,

		VerificationCodeLength: VerificationCodeLength,
		VerificationCodeExpiry: DefaultVerificationCodeExpiry,
		MaxVerifyAttempts:      MaxVerifyAttempts,
		CookieExpiry:           DefaultCookieExpiry,
		ElevatedTrustWindow:    DefaultElevatedTrustWindow,
		PersistWaitTimeout:     DefaultPersistWaitTimeout,
		CorrelationWindow:      DefaultCorrelationWindow,

		SMSLimitPerIPPerHour:     DefaultSMSLimitPerIPPerHour,
		SMSLimitPerNumberPerHour: DefaultSMSLimitPerNumberPerHour,
		GlobalSMSLimitPerHour:    DefaultGlobalSMSLimitPerHour,
		RateLimitWindow:          DefaultRateLimitWindow,

		StaleTransactionAge: DefaultStaleTransactionAge,
	}
}

func requireEnv(name string) string {
	v := os.Getenv(name)
	if v == "" {
		utils.Logger.Fatalf("%s env var is missing", name)
	}
	return v
}
