package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/diegova8/food-manager-backend/config"
	"github.com/diegova8/food-manager-backend/models"
	"github.com/diegova8/food-manager-backend/repository"
	"github.com/diegova8/food-manager-backend/sender"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const sideEffectTimeout = 15 * time.Second

// IntentResult is returned to the caller so the cart can be replayed
// verbatim at capture time. Nothing is written locally at this stage.
type IntentResult struct {
	GatewayOrderID   string
	SettlementAmount float64
}

// CaptureOutcome is the terminal state of a capture request.
type CaptureOutcome struct {
	OrderID       uuid.UUID
	Status        string
	TransactionID string
	Replayed      bool
}

// CheckoutService runs the two-phase gateway interaction: intent creation
// and capture reconciliation. Both operations are stateless; the only
// durable write is the order insert inside CaptureOrder.
type CheckoutService struct {
	orderRepo repository.OrderRepository
	notifRepo repository.NotificationRepository
	gateway   PayPalAPI
	email     sender.EmailSender // nil disables email side effects
	events    EventPublisher     // nil disables the SNS side effect

	rate               float64
	businessCurrency   string
	settlementCurrency string
	adminEmail         string

	logger *zap.Logger
}

func NewCheckoutService(
	orderRepo repository.OrderRepository,
	notifRepo repository.NotificationRepository,
	gateway PayPalAPI,
	email sender.EmailSender,
	events EventPublisher,
	cfg *config.Config,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		orderRepo:          orderRepo,
		notifRepo:          notifRepo,
		gateway:            gateway,
		email:              email,
		events:             events,
		rate:               cfg.ExchangeRate,
		businessCurrency:   cfg.BusinessCurrency,
		settlementCurrency: cfg.SettlementCurrency,
		adminEmail:         cfg.AdminEmail,
		logger:             logger,
	}
}

// CreateGatewayOrder converts the cart total to the settlement currency,
// exchanges credentials for an access token and creates a payable order at
// the gateway. Safe for the client to retry: each attempt creates a fresh,
// independent gateway order and writes nothing locally.
func (s *CheckoutService) CreateGatewayOrder(ctx context.Context, cart *CartRequest) (*IntentResult, error) {
	if _, err := cart.ScheduledFor(); err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}

	amount := ToSettlementAmount(cart.Total, s.rate)

	token, err := s.gateway.ExchangeToken(ctx)
	if err != nil {
		return nil, err
	}

	gatewayOrderID, err := s.gateway.CreateOrder(ctx, token, amount, s.settlementCurrency, cart.Description())
	if err != nil {
		return nil, err
	}

	s.logger.Info("gateway order created",
		zap.String("paypal_order_id", gatewayOrderID),
		zap.Float64("total", cart.Total),
		zap.Float64("settlement_amount", amount),
	)

	return &IntentResult{GatewayOrderID: gatewayOrderID, SettlementAmount: amount}, nil
}

// CaptureOrder captures funds for a previously created gateway order,
// reconciles the captured amount against the cart total and persists the
// order exactly once. userID is the optionally authenticated principal; when
// nil the order belongs to the guest contact block in the cart.
func (s *CheckoutService) CaptureOrder(ctx context.Context, gatewayOrderID string, cart *CartRequest, userID *uuid.UUID) (*CaptureOutcome, error) {
	scheduledFor, err := cart.ScheduledFor()
	if err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}

	// Replay-safe short circuit for duplicate submissions. This read races
	// with concurrent captures; the unique index on the gateway order id is
	// what actually guarantees a single row.
	existing, err := s.orderRepo.FindByPayPalOrderID(ctx, gatewayOrderID)
	if err != nil {
		return nil, fmt.Errorf("idempotency lookup failed: %w", err)
	}
	if existing != nil {
		s.logger.Info("capture replayed for already processed order",
			zap.String("paypal_order_id", gatewayOrderID),
			zap.String("order_id", existing.ID.String()),
		)
		return outcomeFrom(existing, true), nil
	}

	token, err := s.gateway.ExchangeToken(ctx)
	if err != nil {
		return nil, err
	}

	capture, err := s.gateway.CaptureOrder(ctx, token, gatewayOrderID)
	if err != nil {
		return nil, err
	}
	if capture.Status != CaptureStatusCompleted {
		return nil, &PaymentNotCompletedError{Status: capture.Status}
	}

	expected := ToSettlementAmount(cart.Total, s.rate)
	if !WithinTolerance(capture.Amount, expected) {
		// Funds are captured at the gateway but no order will exist; this
		// needs manual reconciliation or a refund.
		s.logger.Error("captured amount outside tolerance, manual reconciliation required",
			zap.String("paypal_order_id", gatewayOrderID),
			zap.Float64("captured", capture.Amount),
			zap.Float64("expected", expected),
		)
		return nil, &AmountMismatchError{Captured: capture.Amount, Expected: expected}
	}

	order := s.buildOrder(cart, userID, gatewayOrderID, capture, scheduledFor)

	if err := s.orderRepo.Create(ctx, order); err != nil {
		if errors.Is(err, repository.ErrDuplicateOrder) {
			// A concurrent capture for the same gateway order won the insert.
			winner, ferr := s.orderRepo.FindByPayPalOrderID(ctx, gatewayOrderID)
			if ferr == nil && winner != nil {
				return outcomeFrom(winner, true), nil
			}
			return nil, fmt.Errorf("duplicate order lookup failed: %w", ferr)
		}
		// Money is captured and nothing is persisted. Loudest failure class
		// this service has.
		s.logger.Error("order persistence failed after successful capture",
			zap.String("paypal_order_id", gatewayOrderID),
			zap.String("transaction_id", capture.TransactionID),
			zap.Float64("captured", capture.Amount),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	s.fanOutSideEffects(order)

	s.logger.Info("order confirmed",
		zap.String("order_id", order.ID.String()),
		zap.String("paypal_order_id", gatewayOrderID),
		zap.String("transaction_id", capture.TransactionID),
	)

	return outcomeFrom(order, false), nil
}

func (s *CheckoutService) buildOrder(cart *CartRequest, userID *uuid.UUID, gatewayOrderID string, capture *CaptureResult, scheduledFor time.Time) *models.Order {
	order := &models.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Total:           cart.Total,
		CapturedAmount:  capture.Amount,
		DeliveryMethod:  cart.DeliveryMethod,
		ScheduledFor:    scheduledFor,
		Notes:           cart.Notes,
		PaymentMethod:   models.PaymentMethodPayPal,
		PayPalOrderID:   gatewayOrderID,
		PayPalCaptureID: capture.TransactionID,
		Status:          models.OrderStatusConfirmed,
	}

	// Guest contact data is only schema-validated, never verified; an
	// authenticated principal supersedes it entirely.
	if userID == nil {
		order.CustomerName = cart.PersonalInfo.Name
		order.CustomerPhone = cart.PersonalInfo.Phone
		order.CustomerEmail = cart.PersonalInfo.Email
	}

	for _, item := range cart.Items {
		order.OrderItems = append(order.OrderItems, models.OrderItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	return order
}

// fanOutSideEffects runs the post-commit notifications. The three effects
// are independent of each other, each wrapped in its own error boundary;
// none of them can change the response already earned by the insert.
func (s *CheckoutService) fanOutSideEffects(order *models.Order) {
	var wg sync.WaitGroup

	run := func(name string, fn func(ctx context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("side effect panicked",
						zap.String("effect", name),
						zap.Any("panic", r),
					)
				}
			}()

			ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
			defer cancel()

			if err := fn(ctx); err != nil {
				s.logger.Warn("side effect failed",
					zap.String("effect", name),
					zap.String("order_id", order.ID.String()),
					zap.Error(err),
				)
			}
		}()
	}

	run("admin_notification", func(ctx context.Context) error {
		return s.recordNotification(ctx, order)
	})
	run("customer_email", func(ctx context.Context) error {
		return s.sendCustomerEmail(ctx, order)
	})
	run("admin_email", func(ctx context.Context) error {
		return s.sendAdminEmail(ctx, order)
	})

	wg.Wait()
}

func (s *CheckoutService) recordNotification(ctx context.Context, order *models.Order) error {
	entry := &models.NotificationLog{
		OrderID:   order.ID,
		Recipient: s.adminEmail,
		Type:      models.TypeOrderConfirmed,
		Channel:   models.ChannelInternal,
		Status:    models.NotificationStatusCreated,
	}
	if err := s.notifRepo.SaveLog(ctx, entry); err != nil {
		return err
	}

	// Broker publish is best-effort on top of the durable log row.
	if s.events != nil {
		payload := map[string]interface{}{
			"order_id":        order.ID.String(),
			"paypal_order_id": order.PayPalOrderID,
			"total":           order.Total,
			"currency":        s.businessCurrency,
			"delivery_method": order.DeliveryMethod,
		}
		if err := s.events.Publish(ctx, models.TypeOrderConfirmed, payload); err != nil {
			s.logger.Warn("order event publish failed", zap.Error(err))
		}
	}

	return nil
}

func (s *CheckoutService) sendCustomerEmail(ctx context.Context, order *models.Order) error {
	if s.email == nil {
		return nil
	}
	if order.CustomerEmail == "" {
		s.logger.Debug("no customer email on order, skipping confirmation",
			zap.String("order_id", order.ID.String()),
		)
		return nil
	}

	body, err := sender.OrderConfirmationBody(order)
	if err != nil {
		return err
	}
	_, err = s.email.SendEmail(ctx, order.CustomerEmail, "Your order is confirmed", body)
	return err
}

func (s *CheckoutService) sendAdminEmail(ctx context.Context, order *models.Order) error {
	if s.email == nil || s.adminEmail == "" {
		return nil
	}

	body, err := sender.AdminAlertBody(order)
	if err != nil {
		return err
	}
	_, err = s.email.SendEmail(ctx, s.adminEmail, "New paid order received", body)
	return err
}

func outcomeFrom(order *models.Order, replayed bool) *CaptureOutcome {
	return &CaptureOutcome{
		OrderID:       order.ID,
		Status:        order.Status,
		TransactionID: order.PayPalCaptureID,
		Replayed:      replayed,
	}
}
