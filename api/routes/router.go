package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/dryfruit-backend/api/controllers"
	"github.com/angelmondragon/dryfruit-backend/api/middleware"
	"github.com/angelmondragon/dryfruit-backend/internal/address"
	"github.com/angelmondragon/dryfruit-backend/internal/admin"
	"github.com/angelmondragon/dryfruit-backend/internal/cart"
	"github.com/angelmondragon/dryfruit-backend/internal/catalog"
	"github.com/angelmondragon/dryfruit-backend/internal/checkout"
	"github.com/angelmondragon/dryfruit-backend/internal/delivery"
	"github.com/angelmondragon/dryfruit-backend/internal/orders"
	"github.com/angelmondragon/dryfruit-backend/internal/users"
	"github.com/angelmondragon/dryfruit-backend/pkg/auth/session"
	"github.com/angelmondragon/dryfruit-backend/pkg/config"
	"github.com/angelmondragon/dryfruit-backend/pkg/enums"
	"github.com/angelmondragon/dryfruit-backend/pkg/logger"
	"github.com/angelmondragon/dryfruit-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Services bundles the domain services the HTTP surface dispatches to.
// Geocoder may be nil when no Maps key is configured.
type Services struct {
	Catalog  catalog.Service
	Users    users.Service
	Cart     cart.Service
	Checkout checkout.Service
	Orders   orders.Service
	Delivery delivery.Service
	Admin    admin.Service
	Geocoder address.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	readiness map[string]controllers.Pinger,
	redisClient *redis.Client,
	sessionManager sessionManager,
	svc Services,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	otpPolicy := middleware.NewAuthRateLimitPolicy(
		"otp",
		cfg.AuthRateLimit.OTPWindow,
		cfg.AuthRateLimit.OTPIPLimit,
		cfg.AuthRateLimit.OTPPhoneLimit,
	)
	adminLoginPolicy := middleware.NewAuthRateLimitPolicy(
		"admin_login",
		cfg.AuthRateLimit.AdminWindow,
		cfg.AuthRateLimit.AdminIPLimit,
		0,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/categories", controllers.CatalogCategories(svc.Catalog, logg))
		r.Get("/products", controllers.CatalogProducts(svc.Catalog, logg))
		r.Get("/products/{productId}", controllers.CatalogProduct(svc.Catalog, logg))
		r.Get("/home", controllers.CatalogHome(svc.Catalog, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthRateLimit(otpPolicy, redisClient, logg))
			r.Post("/otp/request", controllers.AuthRequestOTP(svc.Users, logg))
			r.Post("/otp/verify", controllers.AuthVerifyOTP(svc.Users, logg))
		})
		r.Post("/refresh", controllers.AuthRefresh(sessionManager, cfg.JWT, logg))
		r.Post("/logout", controllers.AuthLogout(sessionManager, cfg.JWT, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(adminLoginPolicy, redisClient, logg)).Post("/login", controllers.AdminLogin(svc.Admin, logg))
		r.Post("/logout", controllers.AuthLogout(sessionManager, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		r.Use(middleware.RequireRole(enums.ActorRoleCustomer, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/me", func(r chi.Router) {
			r.Get("/", controllers.MeProfile(svc.Users, logg))
			r.Patch("/", controllers.MeUpdateProfile(svc.Users, logg))
			r.Put("/location", controllers.MeUpdateLocation(svc.Users, logg))
			r.Post("/location/resolve", controllers.MeResolveLocation(svc.Users, svc.Geocoder, logg))
			r.Route("/addresses", func(r chi.Router) {
				r.Get("/suggest", controllers.AddressSuggest(svc.Geocoder, logg))
				r.Get("/", controllers.AddressList(svc.Users, logg))
				r.Post("/", controllers.AddressCreate(svc.Users, logg))
				r.Patch("/{addressId}", controllers.AddressUpdate(svc.Users, logg))
				r.Delete("/{addressId}", controllers.AddressDelete(svc.Users, logg))
				r.Post("/{addressId}/default", controllers.AddressSetDefault(svc.Users, logg))
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(svc.Cart, logg))
			r.Delete("/", controllers.CartClear(svc.Cart, logg))
			r.Post("/items", controllers.CartAddItem(svc.Cart, logg))
			r.Post("/items/{productId}/decrement", controllers.CartDecrementItem(svc.Cart, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(svc.Cart, logg))
		})

		r.Get("/checkout/quote", controllers.CheckoutQuote(svc.Checkout, logg))
		r.Post("/checkout", controllers.Checkout(svc.Checkout, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(svc.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(svc.Orders, logg))
			r.Post("/{orderId}/cancel", controllers.OrderCancel(svc.Orders, logg))
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		r.Use(middleware.RequireRole(enums.ActorRoleAdmin, logg))
		r.Use(middleware.Idempotency(redisClient, logg))
		r.Get("/ping", controllers.AdminPing())

		r.Route("/v1", func(r chi.Router) {
			r.Get("/dashboard", controllers.AdminDashboard(svc.Admin, logg))
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminOrders(svc.Orders, logg))
				r.Get("/{orderId}", controllers.AdminOrderDetail(svc.Orders, logg))
				r.Post("/{orderId}/status", controllers.AdminOrderStatus(svc.Orders, logg))
				r.Post("/{orderId}/assign", controllers.AdminOrderAssign(svc.Orders, logg))
			})
			r.Route("/delivery-personnel", func(r chi.Router) {
				r.Get("/", controllers.DeliveryPersonnelList(svc.Delivery, logg))
				r.Post("/", controllers.DeliveryPersonCreate(svc.Delivery, logg))
				r.Patch("/{personId}", controllers.DeliveryPersonUpdate(svc.Delivery, logg))
				r.Delete("/{personId}", controllers.DeliveryPersonDelete(svc.Delivery, logg))
				r.Post("/{personId}/toggle", controllers.DeliveryPersonToggle(svc.Delivery, logg))
			})
		})
	})

	return r
}
