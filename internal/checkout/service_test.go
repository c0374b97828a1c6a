package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/dryfruit-backend/internal/cart"
	"github.com/angelmondragon/dryfruit-backend/internal/catalog"
	"github.com/angelmondragon/dryfruit-backend/internal/delivery"
	"github.com/angelmondragon/dryfruit-backend/internal/orders"
	"github.com/angelmondragon/dryfruit-backend/internal/users"
	"github.com/angelmondragon/dryfruit-backend/pkg/config"
	"github.com/angelmondragon/dryfruit-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/dryfruit-backend/pkg/errors"
	"github.com/angelmondragon/dryfruit-backend/pkg/kvstore"
	"github.com/angelmondragon/dryfruit-backend/pkg/latency"
	"github.com/angelmondragon/dryfruit-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProfiles struct {
	user users.User
	err  error
}

func (s stubProfiles) GetProfile(context.Context, string) (users.User, error) {
	return s.user, s.err
}

type failingPlacer struct{}

func (failingPlacer) PlaceOrder(context.Context, orders.PlaceOrderInput) (orders.Order, error) {
	return orders.Order{}, errors.New("ledger down")
}

var storeCfg = config.StoreConfig{DeliveryFee: 40, UPIPayeeAddress: "merchant@upi", UPIPayeeName: "Dry Fruits Store"}

// slowPlacer holds every placement until release is closed.
type slowPlacer struct {
	next    orderPlacer
	entered chan struct{}
	release chan struct{}
}

func (p slowPlacer) PlaceOrder(ctx context.Context, in orders.PlaceOrderInput) (orders.Order, error) {
	p.entered <- struct{}{}
	<-p.release
	return p.next.PlaceOrder(ctx, in)
}

type fixture struct {
	svc    Service
	carts  cart.Service
	orders orders.Service
}

func newFixture(t *testing.T, profile users.User) fixture {
	t.Helper()
	return newFixtureWithPlacer(t, profile, nil)
}

// newFixtureWithPlacer wraps the real ledger with wrap when it is not nil.
func newFixtureWithPlacer(t *testing.T, profile users.User, wrap func(orderPlacer) orderPlacer) fixture {
	t.Helper()
	store := kvstore.NewMemoryStore()
	locker := kvstore.NewLocalLocker()
	logg := logger.Nop()

	carts, err := cart.NewService(store, locker, catalog.NewService())
	require.NoError(t, err)
	roster, err := delivery.NewService(store, locker, latency.None{}, logg)
	require.NoError(t, err)
	ledger, err := orders.NewService(orders.ServiceParams{Store: store, Locker: locker, Roster: roster, Logger: logg})
	require.NoError(t, err)

	var placer orderPlacer = ledger
	if wrap != nil {
		placer = wrap(ledger)
	}
	svc, err := NewService(carts, stubProfiles{user: profile}, placer, locker, storeCfg, logg)
	require.NoError(t, err)
	return fixture{svc: svc, carts: carts, orders: ledger}
}

func profileWithAddresses() users.User {
	return users.User{ID: "user-1", Phone: "9876543210", Addresses: []users.Address{
		{ID: "a1", Type: enums.AddressTypeHome, Address: "12 MG Road", City: "Bengaluru", State: "Karnataka", Pincode: "560001"},
		{ID: "a2", Type: enums.AddressTypeWork, Address: "Tech Park", City: "Bengaluru", State: "Karnataka", Pincode: "560103", IsDefault: true},
	}}
}

func fillCart(t *testing.T, carts cart.Service) {
	t.Helper()
	for i := 0; i < 2; i++ {
		_, err := carts.Add(context.Background(), "user-1", "1")
		require.NoError(t, err)
	}
}

func TestQuote(t *testing.T) {
	f := newFixture(t, profileWithAddresses())
	fillCart(t, f.carts)

	quote, err := f.svc.Quote(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, float64(998), quote.Subtotal)
	assert.Equal(t, float64(40), quote.DeliveryFee)
	assert.Equal(t, float64(1038), quote.Payable)
	assert.Equal(t, 2, quote.TotalItems)
	require.NotNil(t, quote.Address)
	assert.Equal(t, "a2", quote.Address.ID)
	assert.Equal(t, []enums.PaymentMethod{enums.PaymentMethodUPI, enums.PaymentMethodCOD}, quote.PaymentMethods)
}

func TestPlaceOrderWithUPI(t *testing.T) {
	f := newFixture(t, profileWithAddresses())
	fillCart(t, f.carts)
	ctx := context.Background()

	result, err := f.svc.PlaceOrder(ctx, "user-1", PlaceOrderInput{})
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentMethodUPI, result.Order.PaymentMethod)
	assert.Equal(t, float64(998), result.Order.TotalAmount)
	assert.Equal(t, float64(1038), result.Payable)
	assert.Equal(t, "a2", result.Order.DeliveryAddress.ID)
	assert.Equal(t, enums.PaymentStatusCompleted, result.Order.PaymentStatus)
	assert.Equal(t, "upi://pay?pa=merchant%40upi&pn=Dry%20Fruits%20Store&am=1038.00&tr="+result.Order.ID+"&cu=INR", result.PaymentURL)

	view, err := f.carts.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	stored, err := f.orders.Get(ctx, result.Order.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 1)
}

func TestPlaceOrderWithCODAndExplicitAddress(t *testing.T) {
	f := newFixture(t, profileWithAddresses())
	fillCart(t, f.carts)

	result, err := f.svc.PlaceOrder(context.Background(), "user-1", PlaceOrderInput{AddressID: "a1", PaymentMethod: enums.PaymentMethodCOD})
	require.NoError(t, err)
	assert.Equal(t, "a1", result.Order.DeliveryAddress.ID)
	assert.Empty(t, result.PaymentURL)
	assert.Equal(t, enums.PaymentStatusCompleted, result.Order.PaymentStatus)
}

func TestPlaceOrderRejections(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t, profileWithAddresses())
	_, err := f.svc.PlaceOrder(ctx, "user-1", PlaceOrderInput{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "empty cart")

	f = newFixture(t, users.User{ID: "user-1"})
	fillCart(t, f.carts)
	_, err = f.svc.PlaceOrder(ctx, "user-1", PlaceOrderInput{})
	require.Error(t, err)
	assert.Equal(t, "please select a delivery address", pkgerrors.As(err).Message())

	f = newFixture(t, profileWithAddresses())
	fillCart(t, f.carts)
	_, err = f.svc.PlaceOrder(ctx, "user-1", PlaceOrderInput{AddressID: "zz"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	_, err = f.svc.PlaceOrder(ctx, "user-1", PlaceOrderInput{PaymentMethod: "card"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	// the cart survives a failed placement
	view, err := f.carts.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, view.TotalItems)
}

func TestPlaceOrderKeepsCartWhenLedgerFails(t *testing.T) {
	store := kvstore.NewMemoryStore()
	carts, err := cart.NewService(store, kvstore.NewLocalLocker(), catalog.NewService())
	require.NoError(t, err)
	fillCart(t, carts)

	svc, err := NewService(carts, stubProfiles{user: profileWithAddresses()}, failingPlacer{}, kvstore.NewLocalLocker(), storeCfg, logger.Nop())
	require.NoError(t, err)
	_, err = svc.PlaceOrder(context.Background(), "user-1", PlaceOrderInput{})
	require.Error(t, err)

	view, err := carts.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, view.TotalItems)
}

func TestConcurrentCheckoutsPlaceOneOrder(t *testing.T) {
	entered := make(chan struct{}, 2)
	release := make(chan struct{})
	f := newFixtureWithPlacer(t, profileWithAddresses(), func(next orderPlacer) orderPlacer {
		return slowPlacer{next: next, entered: entered, release: release}
	})
	fillCart(t, f.carts)
	ctx := context.Background()

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := f.svc.PlaceOrder(ctx, "user-1", PlaceOrderInput{PaymentMethod: enums.PaymentMethodCOD})
			errs <- err
		}()
	}

	<-entered
	// the second checkout must still be waiting on the first
	select {
	case <-entered:
		t.Fatal("second checkout reached the ledger while the first was placing")
	case <-time.After(50 * time.Millisecond):
	}
	close(release)

	var failures []error
	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			failures = append(failures, err)
		}
	}
	require.Len(t, failures, 1)
	assert.True(t, pkgerrors.IsCode(failures[0], pkgerrors.CodeValidation))

	placed, err := f.orders.All(ctx)
	require.NoError(t, err)
	assert.Len(t, placed, 1)
}

func TestUPIPaymentURLFormatsAmount(t *testing.T) {
	assert.Equal(t, "upi://pay?pa=shop%40okaxis&pn=Nuts%20%26%20Co&am=99.50&tr=ORD1&cu=INR",
		UPIPaymentURL("shop@okaxis", "Nuts & Co", 99.5, "ORD1"))
}
