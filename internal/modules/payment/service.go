package payment

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/urbancoll/artisanhub-backend/internal/apperror"
	"github.com/urbancoll/artisanhub-backend/internal/logx"
	"github.com/urbancoll/artisanhub-backend/internal/modules/order"
	"github.com/urbancoll/artisanhub-backend/internal/modules/user"
)

// Service defines the payment bridge business logic.
type Service interface {
	// Create initiates a payment for an order, either against the live
	// provider or the offline mock.
	Create(ctx context.Context, orderID string) (*CreatePaymentResponse, error)

	// HandleWebhook applies a provider callback. Unrecognized event types
	// and unknown references are logged and acknowledged without error.
	HandleWebhook(ctx context.Context, event WebhookEvent) error

	// Verify polls the provider for the authoritative charge status and
	// reconciles the payment and order. It is the fallback when webhooks
	// are delayed or dropped.
	Verify(ctx context.Context, reference string) (*Payment, error)
}

type service struct {
	repo    Repository
	orders  order.Repository
	users   user.Repository
	gateway Gateway
}

// NewService creates a new payment service with the configured gateway.
func NewService(repo Repository, orders order.Repository, users user.Repository, gateway Gateway) Service {
	return &service{repo: repo, orders: orders, users: users, gateway: gateway}
}

func (s *service) Create(ctx context.Context, orderID string) (*CreatePaymentResponse, error) {
	if orderID == "" {
		return nil, apperror.New(apperror.KindValidation, "orderId is required")
	}
	o, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindNotFound, "order not found", err)
	}

	amountMinor := MinorUnits(o.Total)

	if !s.gateway.Live() {
		return s.createMock(ctx, o)
	}

	customer, err := s.users.GetUserByID(ctx, o.CustomerID.String())
	if err != nil {
		return nil, err
	}

	init, err := s.gateway.Initialize(ctx, amountMinor, customer.Email)
	if err != nil {
		// no Payment record on provider failure
		return nil, apperror.Wrap(apperror.KindProvider, "payment provider error", err)
	}

	p := &Payment{
		ID:          uuid.New(),
		OrderID:     o.ID,
		Provider:    s.gateway.Name(),
		ProviderRef: init.Reference,
		Amount:      o.Total,
		Captured:    false,
		Status:      TxPending,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	logx.Info().
		Str("order_id", orderID).
		Str("provider_ref", init.Reference).
		Int64("amount_minor", amountMinor).
		Msg("payment intent created")
	return &CreatePaymentResponse{
		ClientSecret:     init.ClientSecret,
		AuthorizationURL: init.AuthorizationURL,
		Mode:             "live",
		Payment:          p,
	}, nil
}

func (s *service) createMock(ctx context.Context, o *order.Order) (*CreatePaymentResponse, error) {
	init, err := s.gateway.Initialize(ctx, MinorUnits(o.Total), "")
	if err != nil {
		return nil, apperror.Wrap(apperror.KindProvider, "payment provider error", err)
	}
	p := &Payment{
		ID:          uuid.New(),
		OrderID:     o.ID,
		Provider:    s.gateway.Name(),
		ProviderRef: init.Reference,
		Amount:      o.Total,
		Captured:    true,
		Status:      TxCompleted,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	logx.Warn().
		Str("order_id", o.ID.String()).
		Str("provider_ref", init.Reference).
		Msg("MOCK payment auto-captured: no payment provider configured, this is not a real charge")
	return &CreatePaymentResponse{Mode: "mock", Payment: p}, nil
}

func (s *service) HandleWebhook(ctx context.Context, event WebhookEvent) error {
	switch event.Event {
	case "charge.success":
		return s.settle(ctx, event.Data.Reference, true)
	case "charge.failed":
		return s.settle(ctx, event.Data.Reference, false)
	default:
		// providers retry unacknowledged deliveries; unknown event types
		// are acknowledged so new ones can roll out without noise
		logx.Info().Str("event", event.Event).Msg("unhandled webhook event type")
		return nil
	}
}

func (s *service) Verify(ctx context.Context, reference string) (*Payment, error) {
	p, err := s.repo.GetByProviderRef(ctx, s.gateway.Name(), reference)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindNotFound, "payment not found", err)
	}
	if p.Status == TxCompleted || p.Status == TxFailed {
		return p, nil
	}

	res, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindProvider, "payment provider error", err)
	}

	switch res.Status {
	case "success":
		if err := s.settle(ctx, reference, true); err != nil {
			return nil, err
		}
	case "failed":
		if err := s.settle(ctx, reference, false); err != nil {
			return nil, err
		}
	default:
		return p, nil // still pending at the provider
	}
	return s.repo.GetByProviderRef(ctx, s.gateway.Name(), reference)
}

// settle applies a terminal charge outcome to the payment and its order.
func (s *service) settle(ctx context.Context, reference string, success bool) error {
	p, err := s.repo.GetByProviderRef(ctx, s.gateway.Name(), reference)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logx.Warn().Str("reference", reference).Msg("webhook for unknown payment reference")
			return nil
		}
		return err
	}

	if success {
		if err := s.repo.UpdateStatus(ctx, p.ID.String(), TxCompleted, true); err != nil {
			return err
		}
		if err := s.orders.UpdateStatus(ctx, p.OrderID.String(), order.StatusCompleted); err != nil {
			return err
		}
		logx.Info().Str("reference", reference).Msg("payment captured")
		return nil
	}

	if err := s.repo.UpdateStatus(ctx, p.ID.String(), TxFailed, false); err != nil {
		return err
	}
	if err := s.orders.UpdateStatus(ctx, p.OrderID.String(), order.StatusCancelled); err != nil {
		return err
	}
	logx.Info().Str("reference", reference).Msg("payment failed, order cancelled")
	return nil
}
