package payment

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbancoll/artisanhub-backend/internal/apperror"
	"github.com/urbancoll/artisanhub-backend/internal/modules/order"
	"github.com/urbancoll/artisanhub-backend/internal/modules/user"
)

// ── fakes ────────────────────────────────────────────────────────────────────

type fakePaymentRepo struct {
	byRef map[string]*Payment
}

func newFakePaymentRepo() *fakePaymentRepo { return &fakePaymentRepo{byRef: map[string]*Payment{}} }

func (f *fakePaymentRepo) Create(_ context.Context, p *Payment) error {
	cp := *p
	f.byRef[p.Provider+"/"+p.ProviderRef] = &cp
	return nil
}

func (f *fakePaymentRepo) GetByProviderRef(_ context.Context, provider, ref string) (*Payment, error) {
	p, ok := f.byRef[provider+"/"+ref]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (f *fakePaymentRepo) GetByOrderID(_ context.Context, orderID string) (*Payment, error) {
	for _, p := range f.byRef {
		if p.OrderID.String() == orderID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakePaymentRepo) UpdateStatus(_ context.Context, id string, status TxStatus, captured bool) error {
	for _, p := range f.byRef {
		if p.ID.String() == id {
			p.Status = status
			p.Captured = captured
		}
	}
	return nil
}

type fakeOrderRepo struct {
	orders map[string]*order.Order
}

func newFakeOrderRepo() *fakeOrderRepo { return &fakeOrderRepo{orders: map[string]*order.Order{}} }

func (f *fakeOrderRepo) addOrder(total float64) *order.Order {
	o := &order.Order{ID: uuid.New(), CustomerID: uuid.New(), Total: total, Status: order.StatusPending}
	f.orders[o.ID.String()] = o
	return o
}

func (f *fakeOrderRepo) GetProducts(context.Context, []string) ([]*order.ProductInfo, error) {
	return nil, nil
}
func (f *fakeOrderRepo) CreateOrder(context.Context, *order.Order) error { return nil }

func (f *fakeOrderRepo) GetOrderByID(_ context.Context, id string) (*order.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) ListOrdersByCustomer(context.Context, string) ([]*order.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id string, status order.OrderStatus) error {
	if o, ok := f.orders[id]; ok {
		o.Status = status
	}
	return nil
}

type fakeUserRepo struct{}

func (fakeUserRepo) CreateUser(context.Context, *user.User) error { return nil }
func (fakeUserRepo) GetUserByEmail(context.Context, string) (*user.User, error) {
	return nil, sql.ErrNoRows
}
func (fakeUserRepo) GetUserByID(context.Context, string) (*user.User, error) {
	return &user.User{ID: uuid.New(), Email: "buyer@example.com"}, nil
}
func (fakeUserRepo) ListUsers(context.Context) ([]*user.User, error) { return nil, nil }
func (fakeUserRepo) DeleteUser(context.Context, string) error        { return nil }

type fakeGateway struct {
	live        bool
	initErr     error
	verifyState string
	lastAmount  int64
	initCalls   int
}

func (g *fakeGateway) Name() string {
	if g.live {
		return "paystack"
	}
	return "mock"
}
func (g *fakeGateway) Live() bool { return g.live }

func (g *fakeGateway) Initialize(_ context.Context, amountMinor int64, email string) (*InitResult, error) {
	g.initCalls++
	if g.initErr != nil {
		return nil, g.initErr
	}
	g.lastAmount = amountMinor
	return &InitResult{Reference: "ref_" + uuid.NewString(), ClientSecret: "cs_test"}, nil
}

func (g *fakeGateway) Verify(context.Context, string) (*VerifyResult, error) {
	return &VerifyResult{Status: g.verifyState}, nil
}

// ── tests ────────────────────────────────────────────────────────────────────

func TestMinorUnitsRoundsHalfUp(t *testing.T) {
	assert.Equal(t, int64(2000), MinorUnits(19.999))
	assert.Equal(t, int64(1999), MinorUnits(19.994))
	assert.Equal(t, int64(100), MinorUnits(1.0))
	assert.Equal(t, int64(1), MinorUnits(0.005))
	assert.Equal(t, int64(0), MinorUnits(0))
}

func TestCreateLivePayment(t *testing.T) {
	repo := newFakePaymentRepo()
	orders := newFakeOrderRepo()
	gw := &fakeGateway{live: true}
	svc := NewService(repo, orders, fakeUserRepo{}, gw)

	o := orders.addOrder(19.999)
	resp, err := svc.Create(context.Background(), o.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "live", resp.Mode)
	assert.Equal(t, "cs_test", resp.ClientSecret)
	assert.False(t, resp.Payment.Captured)
	assert.Equal(t, TxPending, resp.Payment.Status)
	assert.Equal(t, int64(2000), gw.lastAmount)
}

func TestCreatePaymentOrderMissing(t *testing.T) {
	svc := NewService(newFakePaymentRepo(), newFakeOrderRepo(), fakeUserRepo{}, &fakeGateway{live: true})
	_, err := svc.Create(context.Background(), uuid.NewString())
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestCreatePaymentProviderFailureLeavesNoRecord(t *testing.T) {
	repo := newFakePaymentRepo()
	orders := newFakeOrderRepo()
	gw := &fakeGateway{live: true, initErr: errors.New("connect timeout")}
	svc := NewService(repo, orders, fakeUserRepo{}, gw)

	o := orders.addOrder(50)
	_, err := svc.Create(context.Background(), o.ID.String())
	assert.Equal(t, apperror.KindProvider, apperror.KindOf(err))
	assert.Empty(t, repo.byRef)
}

func TestCreateNonLiveGatewayFailureLeavesNoRecord(t *testing.T) {
	repo := newFakePaymentRepo()
	orders := newFakeOrderRepo()
	gw := &fakeGateway{live: false, initErr: errors.New("boom")}
	svc := NewService(repo, orders, fakeUserRepo{}, gw)

	o := orders.addOrder(25)
	_, err := svc.Create(context.Background(), o.ID.String())
	assert.Equal(t, apperror.KindProvider, apperror.KindOf(err))
	assert.Empty(t, repo.byRef)
}

func TestCreateMockPaymentIsFlaggedAndCaptured(t *testing.T) {
	repo := newFakePaymentRepo()
	orders := newFakeOrderRepo()
	svc := NewService(repo, orders, fakeUserRepo{}, NewMockGateway())

	o := orders.addOrder(25)
	resp, err := svc.Create(context.Background(), o.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "mock", resp.Mode)
	assert.Equal(t, "mock", resp.Payment.Provider)
	assert.True(t, resp.Payment.Captured)
	assert.Empty(t, resp.ClientSecret)
}

func TestWebhookChargeSuccess(t *testing.T) {
	repo := newFakePaymentRepo()
	orders := newFakeOrderRepo()
	gw := &fakeGateway{live: true}
	svc := NewService(repo, orders, fakeUserRepo{}, gw)

	o := orders.addOrder(40)
	resp, err := svc.Create(context.Background(), o.ID.String())
	require.NoError(t, err)

	err = svc.HandleWebhook(context.Background(), WebhookEvent{
		Event: "charge.success",
		Data:  WebhookData{Reference: resp.Payment.ProviderRef},
	})
	require.NoError(t, err)

	p, err := repo.GetByProviderRef(context.Background(), "paystack", resp.Payment.ProviderRef)
	require.NoError(t, err)
	assert.True(t, p.Captured)
	assert.Equal(t, TxCompleted, p.Status)
	assert.Equal(t, order.StatusCompleted, orders.orders[o.ID.String()].Status)
}

func TestWebhookChargeFailed(t *testing.T) {
	repo := newFakePaymentRepo()
	orders := newFakeOrderRepo()
	gw := &fakeGateway{live: true}
	svc := NewService(repo, orders, fakeUserRepo{}, gw)

	o := orders.addOrder(40)
	resp, err := svc.Create(context.Background(), o.ID.String())
	require.NoError(t, err)

	err = svc.HandleWebhook(context.Background(), WebhookEvent{
		Event: "charge.failed",
		Data:  WebhookData{Reference: resp.Payment.ProviderRef},
	})
	require.NoError(t, err)

	p, _ := repo.GetByProviderRef(context.Background(), "paystack", resp.Payment.ProviderRef)
	assert.False(t, p.Captured)
	assert.Equal(t, TxFailed, p.Status)
	assert.Equal(t, order.StatusCancelled, orders.orders[o.ID.String()].Status)
}

func TestWebhookUnrecognizedEventIsAcknowledged(t *testing.T) {
	repo := newFakePaymentRepo()
	orders := newFakeOrderRepo()
	gw := &fakeGateway{live: true}
	svc := NewService(repo, orders, fakeUserRepo{}, gw)

	o := orders.addOrder(40)
	resp, err := svc.Create(context.Background(), o.ID.String())
	require.NoError(t, err)

	err = svc.HandleWebhook(context.Background(), WebhookEvent{
		Event: "transfer.reversed",
		Data:  WebhookData{Reference: resp.Payment.ProviderRef},
	})
	require.NoError(t, err)

	// nothing changed
	p, _ := repo.GetByProviderRef(context.Background(), "paystack", resp.Payment.ProviderRef)
	assert.False(t, p.Captured)
	assert.Equal(t, TxPending, p.Status)
	assert.Equal(t, order.StatusPending, orders.orders[o.ID.String()].Status)
}

func TestWebhookUnknownReferenceIsAcknowledged(t *testing.T) {
	svc := NewService(newFakePaymentRepo(), newFakeOrderRepo(), fakeUserRepo{}, &fakeGateway{live: true})
	err := svc.HandleWebhook(context.Background(), WebhookEvent{
		Event: "charge.success",
		Data:  WebhookData{Reference: "ref_nobody"},
	})
	assert.NoError(t, err)
}

func TestVerifyReconcilesPendingPayment(t *testing.T) {
	repo := newFakePaymentRepo()
	orders := newFakeOrderRepo()
	gw := &fakeGateway{live: true, verifyState: "success"}
	svc := NewService(repo, orders, fakeUserRepo{}, gw)

	o := orders.addOrder(40)
	resp, err := svc.Create(context.Background(), o.ID.String())
	require.NoError(t, err)

	p, err := svc.Verify(context.Background(), resp.Payment.ProviderRef)
	require.NoError(t, err)
	assert.True(t, p.Captured)
	assert.Equal(t, TxCompleted, p.Status)
	assert.Equal(t, order.StatusCompleted, orders.orders[o.ID.String()].Status)
}
