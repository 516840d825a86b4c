package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"payment-gateway/internal/domains/payment/gateway/vnpay"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App     AppConfig
	Log     LogConfig
	Redis   RedisConfig
	JWT     JWTConfig
	VNPay   VNPayConfig
	Payment PaymentConfig
	Tracing TracingConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type LogConfig struct {
	Level      string
	File       string // empty disables the rotating file sink
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	Issuer            string
	AccessTokenExpiry int // minutes
}

type VNPayConfig struct {
	Enabled    bool
	PayURL     string        // Payment page URL
	ReturnURL  string        // Frontend callback URL
	TmnCode    string        // Merchant Code (e.g., "DEMOV01")
	HashSecret string        // Secret key for HMAC-SHA512
	APIURL     string        // Refund API URL
	Version    string        // Protocol version
	OrderType  string        // Order classification
	Locale     string        // vn, en
	CurrCode   string        // VND
	BankCode   string        // Optional fixed bank
	Timeout    time.Duration // Refund API timeout
}

type PaymentConfig struct {
	MockEnabled   bool
	MockReturnURL string
	RefundLockTTL time.Duration
}

type TracingConfig struct {
	Enabled bool
}

// Load đọc config từ environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "payment-gateway"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			File:       getEnv("LOG_FILE", ""),
			MaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
			MaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 30),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", defaultJWTSecret),
			Issuer:            getEnv("JWT_ISSUER", "payment-gateway"),
			AccessTokenExpiry: getEnvInt("JWT_ACCESS_EXPIRY", 60), // minutes
		},
		VNPay: VNPayConfig{
			Enabled:    getEnvBool("VNPAY_ENABLED", true),
			PayURL:     getEnv("VNPAY_PAY_URL", "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"),
			ReturnURL:  getEnv("VNPAY_RETURN_URL", "http://localhost:3000/payment/callback"),
			TmnCode:    getEnv("VNPAY_TMN_CODE", ""),
			HashSecret: getEnv("VNPAY_HASH_SECRET", ""),
			APIURL:     getEnv("VNPAY_API_URL", "https://sandbox.vnpayment.vn/merchant_webapi/api/transaction"),
			Version:    getEnv("VNPAY_VERSION", vnpay.DefaultVersion),
			OrderType:  getEnv("VNPAY_ORDER_TYPE", vnpay.DefaultOrderType),
			Locale:     getEnv("VNPAY_LOCALE", vnpay.DefaultLocale),
			CurrCode:   getEnv("VNPAY_CURR_CODE", vnpay.DefaultCurrCode),
			BankCode:   getEnv("VNPAY_BANK_CODE", ""),
			Timeout:    getEnvDuration("VNPAY_TIMEOUT", 30*time.Second),
		},
		Payment: PaymentConfig{
			MockEnabled:   getEnvBool("PAYMENT_MOCK_ENABLED", false),
			MockReturnURL: getEnv("PAYMENT_MOCK_RETURN_URL", "http://localhost:3000/payment/callback"),
			RefundLockTTL: getEnvDuration("PAYMENT_REFUND_LOCK_TTL", 15*time.Minute),
		},
		Tracing: TracingConfig{
			Enabled: getEnvBool("TRACING_ENABLED", false),
		},
	}

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	// Production environment phải có JWT secret
	if c.App.Environment == "production" && c.JWT.Secret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}

	if !c.VNPay.Enabled && !c.Payment.MockEnabled {
		return fmt.Errorf("no payment gateway enabled (VNPAY_ENABLED, PAYMENT_MOCK_ENABLED)")
	}

	if c.VNPay.Enabled {
		if err := c.VNPayGatewayConfig().Validate(); err != nil {
			return fmt.Errorf("vnpay: %w", err)
		}
	}

	if c.Payment.RefundLockTTL <= 0 {
		return fmt.Errorf("PAYMENT_REFUND_LOCK_TTL must be positive")
	}

	return nil
}

// VNPayGatewayConfig converts the env section to the adapter config
func (c *Config) VNPayGatewayConfig() *vnpay.Config {
	return &vnpay.Config{
		PayURL:     c.VNPay.PayURL,
		ReturnURL:  c.VNPay.ReturnURL,
		TmnCode:    c.VNPay.TmnCode,
		HashSecret: c.VNPay.HashSecret,
		APIURL:     c.VNPay.APIURL,
		Version:    c.VNPay.Version,
		OrderType:  c.VNPay.OrderType,
		Locale:     c.VNPay.Locale,
		CurrCode:   c.VNPay.CurrCode,
		BankCode:   c.VNPay.BankCode,
	}
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
