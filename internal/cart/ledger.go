package cart

import "github.com/angelmondragon/dryfruit-backend/internal/catalog"

// Item is one cart line. Quantity is always at least one.
type Item struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// State is the persisted snapshot of a user's cart.
type State struct {
	Items []Item `json:"items"`
}

// ApplyAdd increments the quantity of product, appending a new line when absent.
func ApplyAdd(state State, product catalog.Product) State {
	items := make([]Item, 0, len(state.Items)+1)
	found := false
	for _, item := range state.Items {
		if item.Product.ID == product.ID {
			item.Quantity++
			found = true
		}
		items = append(items, item)
	}
	if !found {
		items = append(items, Item{Product: product, Quantity: 1})
	}
	return State{Items: items}
}

// ApplyRemove decrements the quantity of productID and drops the line when it would reach zero.
func ApplyRemove(state State, productID string) State {
	items := make([]Item, 0, len(state.Items))
	for _, item := range state.Items {
		if item.Product.ID == productID {
			if item.Quantity <= 1 {
				continue
			}
			item.Quantity--
		}
		items = append(items, item)
	}
	return State{Items: items}
}

// ApplyRemoveCompletely drops the line for productID whatever its quantity.
func ApplyRemoveCompletely(state State, productID string) State {
	items := make([]Item, 0, len(state.Items))
	for _, item := range state.Items {
		if item.Product.ID != productID {
			items = append(items, item)
		}
	}
	return State{Items: items}
}

func ApplyClear(State) State {
	return State{Items: []Item{}}
}

// TotalAmount sums the effective price of every line times its quantity.
func TotalAmount(items []Item) float64 {
	var total float64
	for _, item := range items {
		total += item.Product.EffectivePrice() * float64(item.Quantity)
	}
	return total
}

func TotalItems(items []Item) int {
	var total int
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

// ItemQuantity returns the quantity of productID, or zero when it is not in the cart.
func ItemQuantity(items []Item, productID string) int {
	for _, item := range items {
		if item.Product.ID == productID {
			return item.Quantity
		}
	}
	return 0
}

// CloneItems copies items so a snapshot can be stored elsewhere without aliasing.
func CloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
