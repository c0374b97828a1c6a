package catalog

// NutritionalInfo is the per-serving label printed on a product page.
type NutritionalInfo struct {
	Calories string `json:"calories"`
	Protein  string `json:"protein"`
	Fat      string `json:"fat"`
	Carbs    string `json:"carbs"`
}

// Product is an immutable catalog entry. Prices are whole rupees.
type Product struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Price           float64          `json:"price"`
	DiscountedPrice *float64         `json:"discountedPrice,omitempty"`
	Image           string           `json:"image"`
	Category        string           `json:"category"`
	Weight          string           `json:"weight"`
	InStock         bool             `json:"inStock"`
	Rating          float64          `json:"rating"`
	NutritionalInfo *NutritionalInfo `json:"nutritionalInfo,omitempty"`
	Tags            []string         `json:"tags,omitempty"`
}

// EffectivePrice is the discounted price when one is set, the list price otherwise.
func (p Product) EffectivePrice() float64 {
	if p.DiscountedPrice != nil {
		return *p.DiscountedPrice
	}
	return p.Price
}

// OnOffer reports whether the product carries a discount.
func (p Product) OnOffer() bool {
	return p.DiscountedPrice != nil
}

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// HomeFeed groups the sections of the storefront landing page.
type HomeFeed struct {
	Categories []Category `json:"categories"`
	Featured   []Product  `json:"featured"`
	Popular    []Product  `json:"popular"`
}
