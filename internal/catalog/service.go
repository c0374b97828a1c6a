package catalog

import (
	"sort"
	"strings"

	pkgerrors "github.com/angelmondragon/dryfruit-backend/pkg/errors"
)

const (
	FilterOffers  = "offers"
	FilterPopular = "popular"

	// PopularCount is the size of the popular section on the home feed.
	PopularCount = 6
)

// Service exposes the read-only product catalog.
type Service interface {
	Categories() []Category
	List() []Product
	Get(id string) (Product, error)
	Search(query, filter string) []Product
	Featured() []Product
	Popular(n int) []Product
	Home() HomeFeed
}

type service struct {
	categories []Category
	products   []Product
	byID       map[string]int
}

// NewService returns the catalog backed by the built-in product list.
func NewService() Service {
	return newService(seedCategories(), seedProducts())
}

func newService(categories []Category, products []Product) *service {
	byID := make(map[string]int, len(products))
	for i, p := range products {
		byID[p.ID] = i
	}
	return &service{categories: categories, products: products, byID: byID}
}

func (s *service) Categories() []Category {
	return append([]Category(nil), s.categories...)
}

func (s *service) List() []Product {
	return cloneAll(s.products)
}

func (s *service) Get(id string) (Product, error) {
	idx, ok := s.byID[strings.TrimSpace(id)]
	if !ok {
		return Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").WithDetails(map[string]any{"productId": id})
	}
	return clone(s.products[idx]), nil
}

// Search matches query case-insensitively against name, description and
// category, then applies filter: "offers", "popular", or a category id or name.
// An unknown filter leaves the results unfiltered.
func (s *service) Search(query, filter string) []Product {
	needle := strings.ToLower(strings.TrimSpace(query))
	results := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if needle == "" ||
			strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) ||
			strings.Contains(strings.ToLower(p.Category), needle) {
			results = append(results, clone(p))
		}
	}

	switch f := strings.TrimSpace(filter); {
	case f == "":
	case f == FilterOffers:
		results = onOffer(results)
	case f == FilterPopular:
		sortByRating(results)
	default:
		if cat, ok := s.category(f); ok {
			filtered := results[:0]
			for _, p := range results {
				if strings.EqualFold(p.Category, cat.Name) {
					filtered = append(filtered, p)
				}
			}
			results = filtered
		}
	}
	return results
}

func (s *service) Featured() []Product {
	return onOffer(cloneAll(s.products))
}

func (s *service) Popular(n int) []Product {
	sorted := cloneAll(s.products)
	sortByRating(sorted)
	if n > 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

func (s *service) Home() HomeFeed {
	return HomeFeed{
		Categories: s.Categories(),
		Featured:   s.Featured(),
		Popular:    s.Popular(PopularCount),
	}
}

func (s *service) category(filter string) (Category, bool) {
	for _, c := range s.categories {
		if c.ID == filter || strings.EqualFold(c.Name, filter) {
			return c, true
		}
	}
	return Category{}, false
}

func onOffer(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.OnOffer() {
			out = append(out, p)
		}
	}
	return out
}

func sortByRating(products []Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Rating > products[j].Rating
	})
}

func cloneAll(products []Product) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		out[i] = clone(p)
	}
	return out
}

func clone(p Product) Product {
	if p.DiscountedPrice != nil {
		v := *p.DiscountedPrice
		p.DiscountedPrice = &v
	}
	if p.NutritionalInfo != nil {
		info := *p.NutritionalInfo
		p.NutritionalInfo = &info
	}
	p.Tags = append([]string(nil), p.Tags...)
	return p
}
