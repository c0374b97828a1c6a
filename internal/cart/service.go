package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/dryfruit-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/dryfruit-backend/pkg/errors"
	"github.com/angelmondragon/dryfruit-backend/pkg/kvstore"
)

const keyPrefix = "cart-storage:"

// View is a cart plus its derived totals.
type View struct {
	Items       []Item  `json:"items"`
	TotalItems  int     `json:"totalItems"`
	TotalAmount float64 `json:"totalAmount"`
}

func newView(state State) View {
	items := state.Items
	if items == nil {
		items = []Item{}
	}
	return View{Items: items, TotalItems: TotalItems(items), TotalAmount: TotalAmount(items)}
}

type productLookup interface {
	Get(id string) (catalog.Product, error)
}

// Service manages per-user carts.
type Service interface {
	Get(ctx context.Context, userID string) (View, error)
	Add(ctx context.Context, userID, productID string) (View, error)
	Decrement(ctx context.Context, userID, productID string) (View, error)
	RemoveItem(ctx context.Context, userID, productID string) (View, error)
	Clear(ctx context.Context, userID string) (View, error)
}

type service struct {
	store    kvstore.Store
	locker   kvstore.Locker
	products productLookup
}

// NewService builds a cart service backed by the snapshot store.
func NewService(store kvstore.Store, locker kvstore.Locker, products productLookup) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("snapshot store required")
	}
	if locker == nil {
		return nil, fmt.Errorf("snapshot locker required")
	}
	if products == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	return &service{store: store, locker: locker, products: products}, nil
}

// Key returns the snapshot key of a user's cart.
func Key(userID string) string {
	return keyPrefix + userID
}

func (s *service) doc(userID string) (*kvstore.Doc[State], error) {
	if strings.TrimSpace(userID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	return kvstore.NewDoc(s.store, s.locker, Key(userID), func() State { return State{Items: []Item{}} })
}

func (s *service) Get(ctx context.Context, userID string) (View, error) {
	doc, err := s.doc(userID)
	if err != nil {
		return View{}, err
	}
	state, err := doc.Get(ctx)
	if err != nil {
		return View{}, err
	}
	return newView(state), nil
}

func (s *service) Add(ctx context.Context, userID, productID string) (View, error) {
	product, err := s.products.Get(productID)
	if err != nil {
		return View{}, err
	}
	return s.update(ctx, userID, func(state State) State { return ApplyAdd(state, product) })
}

func (s *service) Decrement(ctx context.Context, userID, productID string) (View, error) {
	return s.update(ctx, userID, func(state State) State { return ApplyRemove(state, productID) })
}

func (s *service) RemoveItem(ctx context.Context, userID, productID string) (View, error) {
	return s.update(ctx, userID, func(state State) State { return ApplyRemoveCompletely(state, productID) })
}

func (s *service) Clear(ctx context.Context, userID string) (View, error) {
	return s.update(ctx, userID, ApplyClear)
}

func (s *service) update(ctx context.Context, userID string, fn func(State) State) (View, error) {
	doc, err := s.doc(userID)
	if err != nil {
		return View{}, err
	}
	state, err := doc.Update(ctx, func(current State) (State, error) {
		return fn(current), nil
	})
	if err != nil {
		return View{}, err
	}
	return newView(state), nil
}
