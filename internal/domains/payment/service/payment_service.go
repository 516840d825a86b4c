package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"payment-gateway/internal/domains/payment/gateway"
	"payment-gateway/internal/domains/payment/model"
	"payment-gateway/internal/infrastructure/metrics"
	"payment-gateway/pkg/cache"
	"payment-gateway/pkg/logger"
)

const tracerName = "payment-gateway/payment"

// =====================================================
// PAYMENT SERVICE IMPLEMENTATION
// =====================================================
type paymentService struct {
	resolver *gateway.Resolver
	cache    cache.Cache
	metrics  *metrics.PaymentMetrics
	tracer   trace.Tracer

	refundLockTTL time.Duration
}

func NewPaymentService(
	resolver *gateway.Resolver,
	refundCache cache.Cache,
	paymentMetrics *metrics.PaymentMetrics,
	refundLockTTL time.Duration,
) PaymentService {
	if refundLockTTL <= 0 {
		refundLockTTL = model.DefaultRefundLockTTL
	}
	return &paymentService{
		resolver:      resolver,
		cache:         refundCache,
		metrics:       paymentMetrics,
		tracer:        otel.Tracer(tracerName),
		refundLockTTL: refundLockTTL,
	}
}

func (s *paymentService) Methods() []string {
	return s.resolver.Methods()
}

// =====================================================
// CREATE PAYMENT
// =====================================================

// CreatePayment initiates a redirect-based payment
//
// Flow:
// 1. Validate request
// 2. Resolve gateway by method
// 3. Build signed redirect
//
// Edge Cases:
// - Invalid request -> PAY004
// - Unknown method -> PAY005
func (s *paymentService) CreatePayment(
	ctx context.Context,
	req model.CreatePaymentRequest,
	ipAddress string,
) (*model.CreatePaymentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentService.CreatePayment", trace.WithAttributes(
		attribute.String("payment.method", req.Method),
		attribute.String("payment.order_id", req.OrderID.String()),
	))
	defer span.End()

	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		return nil, model.NewInvalidRequestError(err)
	}

	// Step 2: Resolve gateway
	g, err := s.resolver.Resolve(req.Method)
	if err != nil {
		span.SetStatus(codes.Error, "unknown method")
		return nil, model.NewInvalidGatewayError(req.Method, err)
	}

	// Step 3: Build redirect
	start := time.Now()
	resp, err := g.InitiatePayment(ctx, req.ToGatewayRequest(ipAddress))
	s.metrics.ObserveDuration(req.Method, "pay", time.Since(start).Seconds())
	if err != nil {
		s.metrics.PaymentInitiated(req.Method, metrics.OutcomeError)
		span.RecordError(err)
		span.SetStatus(codes.Error, "initiate payment failed")
		logger.Error("Failed to initiate payment", err)
		return nil, model.NewInternalError(fmt.Errorf("initiate %s payment: %w", req.Method, err))
	}

	s.metrics.PaymentInitiated(req.Method, metrics.OutcomeSuccess)
	span.SetAttributes(attribute.String("payment.transaction_id", resp.TransactionID))

	logger.Info("Payment initiated", map[string]interface{}{
		"method":         req.Method,
		"order_id":       req.OrderID.String(),
		"transaction_id": resp.TransactionID,
	})

	return model.NewCreatePaymentResponse(req.Method, resp), nil
}

// =====================================================
// REFUND
// =====================================================

// Refund requests a refund through the resolved gateway
//
// Flow:
// 1. Validate request
// 2. Resolve gateway by method
// 3. Acquire refund lock for (method, transaction)
// 4. Call gateway
// 5. Keep or release the lock depending on the outcome
//
// Lock policy:
// - success, transport failure, integrity violation -> lock kept until TTL
// - provider rejection, request never sent -> lock released
// - cache unavailable -> refund refused
//
// Edge Cases:
// - Invalid request -> PAY004
// - Unknown method -> PAY005
// - Refund in progress -> PAY010
// - Integrity violation -> PAY012
// - Transport failure -> PAY016
func (s *paymentService) Refund(
	ctx context.Context,
	req model.RefundRequestDTO,
	ipAddress, createBy string,
) (*model.RefundResponseDTO, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentService.Refund", trace.WithAttributes(
		attribute.String("payment.method", req.Method),
		attribute.String("payment.transaction_id", req.TransactionID),
	))
	defer span.End()

	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		return nil, model.NewInvalidRequestError(err)
	}

	// Step 2: Resolve gateway
	g, err := s.resolver.Resolve(req.Method)
	if err != nil {
		span.SetStatus(codes.Error, "unknown method")
		return nil, model.NewInvalidGatewayError(req.Method, err)
	}

	// Step 3: Acquire refund lock
	lockKey := model.RefundLockKey(req.Method, req.TransactionID)
	acquired, err := s.cache.SetNX(ctx, lockKey, createBy, s.refundLockTTL)
	if err != nil {
		s.metrics.Refund(req.Method, metrics.OutcomeError)
		span.RecordError(err)
		span.SetStatus(codes.Error, "refund guard unavailable")
		logger.Error("Refund guard unavailable", err)
		return nil, model.NewInternalError(fmt.Errorf("refund guard: %w", err))
	}
	if !acquired {
		s.metrics.Refund(req.Method, metrics.OutcomeInProgress)
		span.SetStatus(codes.Error, "refund in progress")
		logger.Warn("Refund already requested", map[string]interface{}{
			"method":         req.Method,
			"transaction_id": req.TransactionID,
			"create_by":      createBy,
		})
		return nil, model.NewRefundInProgressError(req.TransactionID)
	}

	// Step 4: Call gateway
	start := time.Now()
	resp, err := g.Refund(ctx, req.ToGatewayRequest(ipAddress, createBy))
	s.metrics.ObserveDuration(req.Method, "refund", time.Since(start).Seconds())

	// Step 5: Map outcome
	if err != nil {
		span.RecordError(err)

		var integrityErr *gateway.IntegrityError
		if errors.As(err, &integrityErr) {
			s.metrics.Refund(req.Method, metrics.OutcomeIntegrityError)
			span.SetStatus(codes.Error, "integrity violation")
			logger.Security("Refund response failed signature verification", map[string]interface{}{
				"method":         req.Method,
				"transaction_id": req.TransactionID,
				"create_by":      createBy,
			})
			return nil, model.NewInvalidSignatureError(err)
		}

		s.releaseLock(ctx, lockKey)
		s.metrics.Refund(req.Method, metrics.OutcomeError)
		span.SetStatus(codes.Error, "refund failed")
		logger.Error("Refund request failed", err)
		return nil, model.NewInternalError(fmt.Errorf("refund via %s: %w", req.Method, err))
	}

	switch {
	case resp.TransportFailed():
		s.metrics.Refund(req.Method, metrics.OutcomeTransportFailed)
		span.RecordError(resp.Err)
		span.SetStatus(codes.Error, "transport failed")
		logger.Error("Refund transport failed, state unknown", resp.Err)
		return nil, model.NewGatewayUnavailableError(resp.Err)

	case !resp.Success:
		s.releaseLock(ctx, lockKey)
		s.metrics.Refund(req.Method, metrics.OutcomeProviderRejected)
		span.SetAttributes(attribute.String("payment.response_code", resp.ResponseCode))
		logger.Info("Refund rejected by provider", map[string]interface{}{
			"method":         req.Method,
			"transaction_id": req.TransactionID,
			"response_code":  resp.ResponseCode,
			"message":        resp.Message,
		})

	default:
		s.metrics.Refund(req.Method, metrics.OutcomeSuccess)
		span.SetAttributes(attribute.String("payment.response_code", resp.ResponseCode))
		logger.Info("Refund succeeded", map[string]interface{}{
			"method":         req.Method,
			"transaction_id": req.TransactionID,
			"create_by":      createBy,
		})
	}

	return model.NewRefundResponseDTO(req.Method, req.TransactionID, resp), nil
}

// =====================================================
// QUERY TRANSACTION
// =====================================================

// QueryTransaction looks up a prior transaction at the provider.
// Read-only: the refund lock is never touched, so an operator can settle
// a refund whose outcome was lost before deciding to retry.
//
// Edge Cases:
// - Invalid request -> PAY004
// - Unknown method or no query support -> PAY005
// - Integrity violation -> PAY012
// - Transport failure -> PAY016
func (s *paymentService) QueryTransaction(
	ctx context.Context,
	req model.QueryTransactionRequestDTO,
	ipAddress string,
) (*model.QueryTransactionResponseDTO, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentService.QueryTransaction", trace.WithAttributes(
		attribute.String("payment.method", req.Method),
		attribute.String("payment.transaction_id", req.TransactionID),
	))
	defer span.End()

	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		return nil, model.NewInvalidRequestError(err)
	}

	// Step 2: Resolve gateway with query capability
	g, err := s.resolver.Resolve(req.Method)
	if err != nil {
		span.SetStatus(codes.Error, "unknown method")
		return nil, model.NewInvalidGatewayError(req.Method, err)
	}
	querier, ok := g.(gateway.TransactionQuerier)
	if !ok {
		span.SetStatus(codes.Error, "query not supported")
		return nil, model.NewInvalidGatewayError(req.Method,
			fmt.Errorf("%w: %s", gateway.ErrQueryNotSupported, req.Method))
	}

	// Step 3: Call gateway
	start := time.Now()
	resp, err := querier.QueryTransaction(ctx, req.ToGatewayRequest(ipAddress))
	s.metrics.ObserveDuration(req.Method, "query", time.Since(start).Seconds())

	// Step 4: Map outcome
	if err != nil {
		span.RecordError(err)

		var integrityErr *gateway.IntegrityError
		if errors.As(err, &integrityErr) {
			s.metrics.Query(req.Method, metrics.OutcomeIntegrityError)
			span.SetStatus(codes.Error, "integrity violation")
			logger.Security("Query response failed signature verification", map[string]interface{}{
				"method":         req.Method,
				"transaction_id": req.TransactionID,
			})
			return nil, model.NewInvalidSignatureError(err)
		}

		s.metrics.Query(req.Method, metrics.OutcomeError)
		span.SetStatus(codes.Error, "query failed")
		logger.Error("Transaction query failed", err)
		return nil, model.NewInternalError(fmt.Errorf("query via %s: %w", req.Method, err))
	}

	switch {
	case resp.TransportFailed():
		s.metrics.Query(req.Method, metrics.OutcomeTransportFailed)
		span.RecordError(resp.Err)
		span.SetStatus(codes.Error, "transport failed")
		logger.Error("Transaction query transport failed", resp.Err)
		return nil, model.NewPaymentError(model.ErrCodeGatewayUnavailable, "Payment gateway unavailable", resp.Err)

	case !resp.Success:
		s.metrics.Query(req.Method, metrics.OutcomeProviderRejected)

	default:
		s.metrics.Query(req.Method, metrics.OutcomeSuccess)
	}

	span.SetAttributes(attribute.String("payment.response_code", resp.ResponseCode))
	logger.Info("Transaction queried", map[string]interface{}{
		"method":             req.Method,
		"transaction_id":     req.TransactionID,
		"response_code":      resp.ResponseCode,
		"transaction_status": resp.TransactionStatus,
	})

	return model.NewQueryTransactionResponseDTO(req.Method, req.TransactionID, resp), nil
}

// releaseLock drops the refund lock even when the request context is done
func (s *paymentService) releaseLock(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	if err := s.cache.Delete(ctx, key); err != nil {
		logger.Error("Failed to release refund lock", err)
	}
}
