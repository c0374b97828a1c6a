// Package checkout turns a customer's cart into an order. Payment is never
// verified: the order is recorded as paid and, for UPI, the caller receives the
// deep link to hand to a payment app.
package checkout

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/angelmondragon/dryfruit-backend/internal/cart"
	"github.com/angelmondragon/dryfruit-backend/internal/orders"
	"github.com/angelmondragon/dryfruit-backend/internal/users"
	"github.com/angelmondragon/dryfruit-backend/pkg/config"
	"github.com/angelmondragon/dryfruit-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/dryfruit-backend/pkg/errors"
	"github.com/angelmondragon/dryfruit-backend/pkg/kvstore"
	"github.com/angelmondragon/dryfruit-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type cartReader interface {
	Get(ctx context.Context, userID string) (cart.View, error)
	Clear(ctx context.Context, userID string) (cart.View, error)
}

type profileReader interface {
	GetProfile(ctx context.Context, userID string) (users.User, error)
}

type orderPlacer interface {
	PlaceOrder(ctx context.Context, input orders.PlaceOrderInput) (orders.Order, error)
}

// Quote summarizes what the customer would pay right now.
type Quote struct {
	Items          []cart.Item           `json:"items"`
	TotalItems     int                   `json:"totalItems"`
	Subtotal       float64               `json:"subtotal"`
	DeliveryFee    float64               `json:"deliveryFee"`
	Payable        float64               `json:"payable"`
	Address        *users.Address        `json:"address,omitempty"`
	PaymentMethods []enums.PaymentMethod `json:"paymentMethods"`
}

// PlaceOrderInput selects the address and payment method. Both are optional.
type PlaceOrderInput struct {
	AddressID     string              `json:"addressId" validate:"omitempty,max=64"`
	PaymentMethod enums.PaymentMethod `json:"paymentMethod" validate:"omitempty,oneof=upi cod"`
}

// Result is the placed order plus the payment hand-off.
type Result struct {
	Order      orders.Order `json:"order"`
	Payable    float64      `json:"payable"`
	PaymentURL string       `json:"paymentUrl,omitempty"`
}

// Service runs checkout for a customer.
type Service interface {
	Quote(ctx context.Context, userID string) (Quote, error)
	PlaceOrder(ctx context.Context, userID string, input PlaceOrderInput) (Result, error)
}

type service struct {
	carts  cartReader
	users  profileReader
	orders orderPlacer
	locker kvstore.Locker
	cfg    config.StoreConfig
	logg   *logger.Logger
}

// NewService builds the checkout service. The locker serializes checkouts of
// one customer so a cart is turned into at most one order.
func NewService(carts cartReader, profiles profileReader, placer orderPlacer, locker kvstore.Locker, cfg config.StoreConfig, logg *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if profiles == nil {
		return nil, fmt.Errorf("user service required")
	}
	if placer == nil {
		return nil, fmt.Errorf("order service required")
	}
	if locker == nil {
		return nil, fmt.Errorf("locker required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.DeliveryFee < 0 {
		return nil, fmt.Errorf("delivery fee must not be negative")
	}
	return &service{carts: carts, users: profiles, orders: placer, locker: locker, cfg: cfg, logg: logg}, nil
}

func (s *service) Quote(ctx context.Context, userID string) (Quote, error) {
	view, err := s.carts.Get(ctx, userID)
	if err != nil {
		return Quote{}, err
	}
	user, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return Quote{}, err
	}

	quote := Quote{
		Items:          view.Items,
		TotalItems:     view.TotalItems,
		Subtotal:       view.TotalAmount,
		DeliveryFee:    s.cfg.DeliveryFee,
		Payable:        payable(view.TotalAmount, s.cfg.DeliveryFee),
		PaymentMethods: enums.PaymentMethods(),
	}
	if addr, ok := users.DefaultAddress(user.Addresses); ok {
		quote.Address = &addr
	}
	return quote, nil
}

func (s *service) PlaceOrder(ctx context.Context, userID string, input PlaceOrderInput) (Result, error) {
	method := input.PaymentMethod
	if method == "" {
		method = enums.PaymentMethodUPI
	}
	if !method.IsValid() {
		return Result{}, pkgerrors.Newf(pkgerrors.CodeValidation, "unsupported payment method %q", method)
	}

	unlock, err := s.locker.Lock(ctx, "checkout:"+userID)
	if err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to lock checkout")
	}
	defer func() { _ = unlock(context.WithoutCancel(ctx)) }()

	view, err := s.carts.Get(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	if len(view.Items) == 0 {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	user, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	address, err := resolveAddress(user.Addresses, strings.TrimSpace(input.AddressID))
	if err != nil {
		return Result{}, err
	}

	order, err := s.orders.PlaceOrder(ctx, orders.PlaceOrderInput{
		UserID:          userID,
		Items:           view.Items,
		DeliveryAddress: address,
		PaymentMethod:   method,
		DeliveryFee:     s.cfg.DeliveryFee,
	})
	if err != nil {
		return Result{}, err
	}

	if _, err := s.carts.Clear(ctx, userID); err != nil {
		// the order stands; a stale cart is only an inconvenience
		s.logg.Error(s.logg.WithOrderID(ctx, order.ID), "clear cart after checkout", err)
	}

	result := Result{Order: order, Payable: payable(order.TotalAmount, order.DeliveryFee)}
	if method == enums.PaymentMethodUPI {
		result.PaymentURL = UPIPaymentURL(s.cfg.UPIPayeeAddress, s.cfg.UPIPayeeName, result.Payable, order.ID)
	}
	return result, nil
}

func resolveAddress(addresses []users.Address, addressID string) (users.Address, error) {
	if addressID != "" {
		addr, ok := users.FindAddress(addresses, addressID)
		if !ok {
			return users.Address{}, pkgerrors.New(pkgerrors.CodeValidation, "delivery address not found").
				WithDetails(map[string]any{"addressId": addressID})
		}
		return addr, nil
	}
	addr, ok := users.DefaultAddress(addresses)
	if !ok {
		return users.Address{}, pkgerrors.New(pkgerrors.CodeValidation, "please select a delivery address")
	}
	return addr, nil
}

func payable(subtotal, fee float64) float64 {
	total, _ := decimal.NewFromFloat(subtotal).Add(decimal.NewFromFloat(fee)).Round(2).Float64()
	return total
}

// UPIPaymentURL builds the upi://pay deep link for an order.
func UPIPaymentURL(payee, name string, amount float64, orderID string) string {
	params := []struct{ key, value string }{
		{"pa", payee},
		{"pn", name},
		{"am", decimal.NewFromFloat(amount).StringFixed(2)},
		{"tr", orderID},
		{"cu", "INR"},
	}
	var b strings.Builder
	b.WriteString("upi://pay?")
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.key)
		b.WriteByte('=')
		b.WriteString(strings.ReplaceAll(url.QueryEscape(p.value), "+", "%20"))
	}
	return b.String()
}
