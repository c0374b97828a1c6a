package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/dryfruit-backend/api/responses"
	"github.com/angelmondragon/dryfruit-backend/api/validators"
	"github.com/angelmondragon/dryfruit-backend/internal/catalog"
	"github.com/angelmondragon/dryfruit-backend/pkg/errors"
	"github.com/angelmondragon/dryfruit-backend/pkg/logger"
)

type catalogReader interface {
	Categories() []catalog.Category
	Get(id string) (catalog.Product, error)
	Search(query, filter string) []catalog.Product
	Home() catalog.HomeFeed
}

func CatalogCategories(svc catalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeInternal, "catalog unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Categories())
	}
}

// CatalogProducts lists products matching ?q= and ?filter= (offers, popular or a category).
func CatalogProducts(svc catalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeInternal, "catalog unavailable"))
			return
		}
		query := validators.SanitizeString(r.URL.Query().Get("q"), 100)
		filter := strings.ToLower(validators.SanitizeString(r.URL.Query().Get("filter"), 50))
		responses.WriteSuccess(w, svc.Search(query, filter))
	}
}

func CatalogProduct(svc catalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeInternal, "catalog unavailable"))
			return
		}
		productID, err := requireParam(r, "productId", "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Get(productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func CatalogHome(svc catalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeInternal, "catalog unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Home())
	}
}
