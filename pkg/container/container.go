package container

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"payment-gateway/internal/config"
	"payment-gateway/internal/domains/payment/gateway"
	"payment-gateway/internal/domains/payment/gateway/mock"
	"payment-gateway/internal/domains/payment/gateway/vnpay"
	paymentHandler "payment-gateway/internal/domains/payment/handler"
	paymentService "payment-gateway/internal/domains/payment/service"
	infraCache "payment-gateway/internal/infrastructure/cache"
	"payment-gateway/internal/infrastructure/metrics"
	"payment-gateway/pkg/cache"
	"payment-gateway/pkg/jwt"
	"payment-gateway/pkg/logger"
	"payment-gateway/pkg/tracing"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa TẤT CẢ dependencies của application
// Pattern: Service Locator + Dependency Injection
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config         *config.Config
	Redis          *infraCache.RedisClient
	Cache          cache.Cache // Refund guard (interface)
	JWTManager     *jwt.Manager
	Metrics        *metrics.PaymentMetrics
	Registry       *prometheus.Registry
	shutdownTracer tracing.ShutdownFunc

	// ========================================
	// GATEWAY LAYER
	// ========================================
	Resolver *gateway.Resolver

	// ========================================
	// SERVICE LAYER
	// ========================================
	PaymentService paymentService.PaymentService

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================
	PaymentHandler *paymentHandler.PaymentHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer loads configuration from the environment and builds the graph
func NewContainer() (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewContainerWithConfig(cfg)
}

// NewContainerWithConfig tạo và initialize toàn bộ dependency graph
//
// Thứ tự initialization:
// 1. Logger, tracing
// 2. Infrastructure (Redis, JWT, metrics)
// 3. Gateways + resolver
// 4. Services
// 5. Handlers
func NewContainerWithConfig(cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	// ========================================
	// STEP 1: LOGGER + TRACING
	// ========================================
	logger.Init(logger.Options{
		Env:        cfg.App.Environment,
		Level:      cfg.Log.Level,
		FilePath:   cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	log.Info().Str("env", cfg.App.Environment).Msg("Initializing DI container")

	shutdown, err := tracing.Init(tracing.Options{
		Enabled:        cfg.Tracing.Enabled,
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init tracing: %w", err)
	}
	c.shutdownTracer = shutdown

	// ========================================
	// STEP 2: INFRASTRUCTURE
	// ========================================
	c.initInfrastructure()

	// ========================================
	// STEP 3: GATEWAYS
	// ========================================
	if err := c.initGateways(); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init gateways: %w", err)
	}
	log.Info().Strs("methods", c.Resolver.Methods()).Msg("Payment gateways registered")

	// ========================================
	// STEP 4: SERVICES
	// ========================================
	c.PaymentService = paymentService.NewPaymentService(
		c.Resolver,
		c.Cache,
		c.Metrics,
		cfg.Payment.RefundLockTTL,
	)

	// ========================================
	// STEP 5: HANDLERS
	// ========================================
	c.PaymentHandler = paymentHandler.NewPaymentHandler(c.PaymentService)

	log.Info().Msg("DI container initialized successfully")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initInfrastructure() {
	cfg := c.Config

	c.Redis = infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Redis failure không critical cho pay; refunds fail closed until it recovers
	if err := c.Redis.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("Redis connection failed, refunds disabled until it recovers")
	}
	c.Cache = infraCache.NewRedisCache(c.Redis)

	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.Issuer,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
	)

	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.Metrics = metrics.NewPaymentMetrics(c.Registry)
}

func (c *Container) initGateways() error {
	cfg := c.Config
	var gateways []gateway.Gateway

	if cfg.VNPay.Enabled {
		transport := gateway.NewHTTPTransport(cfg.VNPay.Timeout)
		vnpayClient, err := vnpay.NewClient(cfg.VNPayGatewayConfig(), transport)
		if err != nil {
			return err
		}
		gateways = append(gateways, vnpayClient)
	}

	if cfg.Payment.MockEnabled {
		gateways = append(gateways, mock.NewGateway(cfg.Payment.MockReturnURL))
	}

	resolver, err := gateway.NewResolver(gateways...)
	if err != nil {
		return err
	}
	c.Resolver = resolver
	return nil
}

// HealthCheck reports the refund guard state
func (c *Container) HealthCheck(ctx context.Context) map[string]string {
	status := map[string]string{"redis": "ok"}
	if err := c.Cache.Ping(ctx); err != nil {
		status["redis"] = err.Error()
	}
	return status
}

// Cleanup dọn dẹp resources khi shutdown
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources...")

	if c.shutdownTracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.shutdownTracer(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to flush traces")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		} else {
			log.Info().Msg("Redis connections closed")
		}
	}

	log.Info().Msg("Container cleanup completed")
}
