package order

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/urbancoll/artisanhub-backend/internal/apperror"
	"github.com/urbancoll/artisanhub-backend/internal/logx"
)

// Service defines the order management business logic.
type Service interface {
	// PlaceOrder validates the cart against the catalog, snapshots prices,
	// computes the total and persists the order atomically with its stock
	// decrements.
	PlaceOrder(ctx context.Context, customerID string, req PlaceOrderRequest) (*Order, error)

	// GetOrder retrieves one of the caller's orders.
	GetOrder(ctx context.Context, customerID, id string) (*Order, error)

	// ListOrders returns the caller's orders with items and payment.
	ListOrders(ctx context.Context, customerID string) ([]*Order, error)
}

type service struct {
	repo Repository
}

// NewService creates a new order service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) PlaceOrder(ctx context.Context, customerID string, req PlaceOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, apperror.New(apperror.KindValidation, "items are required")
	}

	ids := make([]string, 0, len(req.Items))
	for _, ci := range req.Items {
		if ci.Quantity < 1 {
			return nil, apperror.Newf(apperror.KindValidation, "quantity must be at least 1 for product %s", ci.ProductID)
		}
		if _, err := uuid.Parse(ci.ProductID); err != nil {
			return nil, apperror.Newf(apperror.KindValidation, "invalid product id %s", ci.ProductID)
		}
		ids = append(ids, ci.ProductID)
	}

	products, err := s.repo.GetProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*ProductInfo, len(products))
	for _, p := range products {
		byID[p.ID.String()] = p
	}

	var missing []string
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, apperror.Newf(apperror.KindValidation, "products not found: %s", strings.Join(missing, ", "))
	}

	parsedCustomer, err := uuid.Parse(customerID)
	if err != nil {
		return nil, apperror.New(apperror.KindValidation, "invalid customer id")
	}

	// Advisory pre-check; the conditional decrement inside the transaction
	// is the authoritative guard against concurrent orders.
	var items []*OrderItem
	var total float64
	for _, ci := range req.Items {
		p := byID[ci.ProductID]
		if p.Stock < ci.Quantity {
			return nil, apperror.Newf(apperror.KindInsufficientStock, "insufficient stock for %s", p.Name)
		}
		total += p.Price * float64(ci.Quantity)
		items = append(items, &OrderItem{
			ID:        uuid.New(),
			ProductID: p.ID,
			Quantity:  ci.Quantity,
			Price:     p.Price,
		})
	}

	o := &Order{
		ID:         uuid.New(),
		CustomerID: parsedCustomer,
		Total:      round2(total),
		Status:     StatusPending,
		Items:      items,
	}

	if err := s.repo.CreateOrder(ctx, o); err != nil {
		var conflict *StockConflictError
		if errors.As(err, &conflict) {
			name := conflict.ProductID.String()
			if p, ok := byID[name]; ok {
				name = p.Name
			}
			return nil, apperror.Newf(apperror.KindInsufficientStock, "insufficient stock for %s", name)
		}
		return nil, err
	}

	logx.Info().
		Str("order_id", o.ID.String()).
		Str("customer_id", customerID).
		Float64("total", o.Total).
		Int("items", len(items)).
		Msg("order placed")
	return o, nil
}

func (s *service) GetOrder(ctx context.Context, customerID, id string) (*Order, error) {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.Wrap(apperror.KindNotFound, "order not found", err)
		}
		return nil, err
	}
	if o.CustomerID.String() != customerID {
		return nil, apperror.New(apperror.KindNotFound, "order not found")
	}
	return o, nil
}

func (s *service) ListOrders(ctx context.Context, customerID string) ([]*Order, error) {
	return s.repo.ListOrdersByCustomer(ctx, customerID)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
