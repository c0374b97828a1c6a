// Package admin authenticates the store operator and summarizes the order book.
package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/dryfruit-backend/internal/delivery"
	"github.com/angelmondragon/dryfruit-backend/internal/orders"
	pkgAuth "github.com/angelmondragon/dryfruit-backend/pkg/auth"
	"github.com/angelmondragon/dryfruit-backend/pkg/config"
	"github.com/angelmondragon/dryfruit-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/dryfruit-backend/pkg/errors"
	"github.com/angelmondragon/dryfruit-backend/pkg/latency"
	"github.com/angelmondragon/dryfruit-backend/pkg/logger"
	"github.com/angelmondragon/dryfruit-backend/pkg/security"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const invalidCredentialsMessage = "Invalid credentials"

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
}

type orderReader interface {
	All(ctx context.Context) ([]orders.Order, error)
}

type rosterReader interface {
	List(ctx context.Context) ([]delivery.Person, error)
}

// LoginRequest carries the operator credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

// Session is returned after a successful admin login.
type Session struct {
	Username     string `json:"username"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Dashboard holds the counters shown on the admin home screen.
type Dashboard struct {
	TotalOrders                int     `json:"totalOrders"`
	PendingOrders              int     `json:"pendingOrders"`
	ActiveDeliveries           int     `json:"activeDeliveries"`
	DeliveredOrders            int     `json:"deliveredOrders"`
	CancelledOrders            int     `json:"cancelledOrders"`
	TotalRevenue               float64 `json:"totalRevenue"`
	AvailableDeliveryPersonnel int     `json:"availableDeliveryPersonnel"`
}

// Service is the admin console backend.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (Session, error)
	Dashboard(ctx context.Context) (Dashboard, error)
}

// ServiceParams bundles the dependencies of the admin service.
type ServiceParams struct {
	Config         config.AdminConfig
	PasswordConfig config.PasswordConfig
	JWTConfig      config.JWTConfig
	SessionManager sessionManager
	Orders         orderReader
	Roster         rosterReader
	Latency        latency.Simulator
	Logger         *logger.Logger
}

type service struct {
	username     string
	passwordHash string
	jwtCfg       config.JWTConfig
	session      sessionManager
	orders       orderReader
	roster       rosterReader
	latency      latency.Simulator
	logg         *logger.Logger
	now          func() time.Time
}

// NewService builds the admin service. When no password hash is configured the
// plain password is hashed once at startup so only the hash is kept in memory.
func NewService(params ServiceParams) (Service, error) {
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order reader is required")
	}
	if params.Roster == nil {
		return nil, fmt.Errorf("delivery roster is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	username := strings.TrimSpace(params.Config.Username)
	if username == "" {
		return nil, fmt.Errorf("admin username is required")
	}

	hash := strings.TrimSpace(params.Config.PasswordHash)
	if hash == "" {
		generated, err := security.HashPassword(params.Config.Password, params.PasswordConfig)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		hash = generated
	} else if !security.IsArgonHash(hash) {
		return nil, fmt.Errorf("admin password hash is not a valid argon2id hash")
	}

	sim := params.Latency
	if sim == nil {
		sim = latency.None{}
	}
	return &service{
		username:     username,
		passwordHash: hash,
		jwtCfg:       params.JWTConfig,
		session:      params.SessionManager,
		orders:       params.Orders,
		roster:       params.Roster,
		latency:      sim,
		logg:         params.Logger,
		now:          time.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (Session, error) {
	if err := s.latency.Wait(ctx, latency.OpAdminLogin); err != nil {
		return Session{}, err
	}

	ok, err := security.VerifyPassword(req.Password, s.passwordHash)
	if err != nil {
		return Session{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify admin password")
	}
	if !ok || !security.EqualStrings(strings.TrimSpace(req.Username), s.username) {
		s.logg.Warn(s.logg.WithField(ctx, "username", req.Username), "admin login rejected")
		return Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	accessID := uuid.NewString()
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: s.username,
		Role:   enums.ActorRoleAdmin,
		JTI:    accessID,
	})
	if err != nil {
		return Session{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refresh, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return Session{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}

	s.logg.Info(s.logg.WithActorRole(ctx, string(enums.ActorRoleAdmin)), "admin.logged_in")
	return Session{Username: s.username, AccessToken: token, RefreshToken: refresh}, nil
}

func (s *service) Dashboard(ctx context.Context) (Dashboard, error) {
	all, err := s.orders.All(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	personnel, err := s.roster.List(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	return Summarize(all, personnel), nil
}

// Summarize computes the dashboard counters.
func Summarize(all []orders.Order, personnel []delivery.Person) Dashboard {
	board := Dashboard{TotalOrders: len(all)}
	revenue := decimal.Zero
	for _, order := range all {
		switch order.Status {
		case enums.OrderStatusPending, enums.OrderStatusConfirmed:
			board.PendingOrders++
		case enums.OrderStatusPreparing, enums.OrderStatusOutForDelivery:
			board.ActiveDeliveries++
		case enums.OrderStatusDelivered:
			board.DeliveredOrders++
			revenue = revenue.Add(decimal.NewFromFloat(order.TotalAmount))
		case enums.OrderStatusCancelled:
			board.CancelledOrders++
		}
	}
	board.TotalRevenue, _ = revenue.Round(2).Float64()
	board.AvailableDeliveryPersonnel = len(delivery.Available(personnel))
	return board
}
