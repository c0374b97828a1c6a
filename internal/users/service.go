package users

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	pkgAuth "github.com/angelmondragon/dryfruit-backend/pkg/auth"
	"github.com/angelmondragon/dryfruit-backend/pkg/config"
	"github.com/angelmondragon/dryfruit-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/dryfruit-backend/pkg/errors"
	"github.com/angelmondragon/dryfruit-backend/pkg/ids"
	"github.com/angelmondragon/dryfruit-backend/pkg/kvstore"
	"github.com/angelmondragon/dryfruit-backend/pkg/latency"
	"github.com/angelmondragon/dryfruit-backend/pkg/logger"
	redisclient "github.com/angelmondragon/dryfruit-backend/pkg/redis"
	"github.com/google/uuid"
)

const (
	userKeyPrefix   = "user-storage:"
	phoneIndexKey   = "user-phone-index"
	invalidOTPMsg   = "Invalid OTP"
	defaultOTPTTL   = 5 * time.Minute
	pendingOTPValue = "pending"
)

var (
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	otpPattern   = regexp.MustCompile(`^\d{4}$`)
)

type otpStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	OTPChallengeKey(phone string) string
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
}

// Service manages customer login, profile, and address book.
type Service interface {
	LoginWithPhone(ctx context.Context, phone string) (OTPChallenge, error)
	VerifyOtp(ctx context.Context, phone, otp string) (AuthResult, error)
	GetProfile(ctx context.Context, userID string) (User, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (User, error)
	AddAddress(ctx context.Context, userID string, input AddressInput) (User, error)
	UpdateAddress(ctx context.Context, userID, addressID string, input AddressInput) (User, error)
	DeleteAddress(ctx context.Context, userID, addressID string) (User, error)
	SetDefaultAddress(ctx context.Context, userID, addressID string) (User, error)
	UpdateLocation(ctx context.Context, userID string, location Location) (User, error)
}

// ServiceParams bundles the dependencies of the user service.
type ServiceParams struct {
	Store          kvstore.Store
	Locker         kvstore.Locker
	OTP            otpStore
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	OTPTTL         time.Duration
	Latency        latency.Simulator
	Logger         *logger.Logger
}

type service struct {
	store   kvstore.Store
	locker  kvstore.Locker
	index   *kvstore.Doc[phoneIndex]
	otp     otpStore
	session sessionManager
	jwtCfg  config.JWTConfig
	otpTTL  time.Duration
	latency latency.Simulator
	logg    *logger.Logger
	now     func() time.Time
}

// NewService constructs the user service.
func NewService(params ServiceParams) (Service, error) {
	if params.OTP == nil {
		return nil, fmt.Errorf("otp store is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	index, err := kvstore.NewDoc(params.Store, params.Locker, phoneIndexKey, func() phoneIndex {
		return phoneIndex{Users: map[string]string{}}
	})
	if err != nil {
		return nil, err
	}
	ttl := params.OTPTTL
	if ttl <= 0 {
		ttl = defaultOTPTTL
	}
	sim := params.Latency
	if sim == nil {
		sim = latency.None{}
	}
	return &service{
		store:   params.Store,
		locker:  params.Locker,
		index:   index,
		otp:     params.OTP,
		session: params.SessionManager,
		jwtCfg:  params.JWTConfig,
		otpTTL:  ttl,
		latency: sim,
		logg:    params.Logger,
		now:     time.Now,
	}, nil
}

// UserKey returns the snapshot key of a user profile.
func UserKey(userID string) string {
	return userKeyPrefix + userID
}

// LoginWithPhone opens an OTP challenge for the phone. No message is sent.
func (s *service) LoginWithPhone(ctx context.Context, phone string) (OTPChallenge, error) {
	phone = strings.TrimSpace(phone)
	if !phonePattern.MatchString(phone) {
		return OTPChallenge{}, pkgerrors.New(pkgerrors.CodeValidation, "phone must be exactly 10 digits")
	}
	if err := s.latency.Wait(ctx, latency.OpLogin); err != nil {
		return OTPChallenge{}, err
	}
	if err := s.otp.Set(ctx, s.otp.OTPChallengeKey(phone), pendingOTPValue, s.otpTTL); err != nil {
		return OTPChallenge{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store otp challenge")
	}
	s.logg.Info(s.logg.WithField(ctx, "phone_suffix", phoneSuffix(phone)), "otp challenge issued")
	return OTPChallenge{Phone: phone, ExpiresAt: s.now().Add(s.otpTTL).UTC()}, nil
}

// VerifyOtp accepts any four digit code for a phone with a pending challenge,
// creating the user on first login.
func (s *service) VerifyOtp(ctx context.Context, phone, otp string) (AuthResult, error) {
	phone = strings.TrimSpace(phone)
	if !phonePattern.MatchString(phone) {
		return AuthResult{}, pkgerrors.New(pkgerrors.CodeValidation, "phone must be exactly 10 digits")
	}
	if err := s.latency.Wait(ctx, latency.OpVerifyOTP); err != nil {
		return AuthResult{}, err
	}
	if !otpPattern.MatchString(strings.TrimSpace(otp)) {
		return AuthResult{}, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidOTPMsg)
	}

	key := s.otp.OTPChallengeKey(phone)
	if _, err := s.otp.Get(ctx, key); err != nil {
		if errors.Is(err, redisclient.ErrNil) {
			return AuthResult{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "no pending login for this phone")
		}
		return AuthResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load otp challenge")
	}

	user, created, err := s.findOrCreate(ctx, phone)
	if err != nil {
		return AuthResult{}, err
	}
	if err := s.otp.Del(ctx, key); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "failed to clear otp challenge")
	}

	accessID := uuid.NewString()
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Phone:  user.Phone,
		Role:   enums.ActorRoleCustomer,
		JTI:    accessID,
	})
	if err != nil {
		return AuthResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return AuthResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}

	ctx = s.logg.WithUserID(ctx, user.ID)
	if created {
		s.logg.Info(ctx, "user.created")
	}
	s.logg.Info(ctx, "user.logged_in")
	return AuthResult{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *service) findOrCreate(ctx context.Context, phone string) (User, bool, error) {
	var (
		userID  string
		created bool
	)
	_, err := s.index.Update(ctx, func(index phoneIndex) (phoneIndex, error) {
		if index.Users == nil {
			index.Users = map[string]string{}
		}
		if existing, ok := index.Users[phone]; ok {
			userID = existing
			return index, nil
		}
		next := make(map[string]string, len(index.Users)+1)
		for k, v := range index.Users {
			next[k] = v
		}
		userID = uuid.NewString()
		next[phone] = userID
		created = true
		return phoneIndex{Users: next}, nil
	})
	if err != nil {
		return User{}, false, err
	}

	doc, err := s.doc(userID)
	if err != nil {
		return User{}, false, err
	}
	user, err := doc.Update(ctx, func(current User) (User, error) {
		if current.ID != "" {
			return current, nil
		}
		return User{
			ID:              userID,
			Phone:           phone,
			Addresses:       []Address{},
			CurrentLocation: &Location{Address: defaultLocationLabel},
			CreatedAt:       s.now().UTC(),
		}, nil
	})
	if err != nil {
		return User{}, false, err
	}
	return user, created, nil
}

func (s *service) GetProfile(ctx context.Context, userID string) (User, error) {
	doc, err := s.doc(userID)
	if err != nil {
		return User{}, err
	}
	user, err := doc.Get(ctx)
	if err != nil {
		return User{}, err
	}
	if user.ID == "" {
		return User{}, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return normalize(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (User, error) {
	return s.mutate(ctx, userID, func(user User) (User, error) {
		return ApplyProfileUpdate(user, update), nil
	})
}

func (s *service) AddAddress(ctx context.Context, userID string, input AddressInput) (User, error) {
	if !input.Type.IsValid() {
		return User{}, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid address type %q", input.Type)
	}
	return s.mutate(ctx, userID, func(user User) (User, error) {
		id := ids.Millis("", s.now(), func(id string) bool {
			_, taken := FindAddress(user.Addresses, id)
			return taken
		})
		return ApplyAddAddress(user, input, id), nil
	})
}

func (s *service) UpdateAddress(ctx context.Context, userID, addressID string, input AddressInput) (User, error) {
	if !input.Type.IsValid() {
		return User{}, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid address type %q", input.Type)
	}
	return s.mutate(ctx, userID, func(user User) (User, error) {
		return ApplyUpdateAddress(user, addressID, input)
	})
}

func (s *service) DeleteAddress(ctx context.Context, userID, addressID string) (User, error) {
	return s.mutate(ctx, userID, func(user User) (User, error) {
		return ApplyDeleteAddress(user, addressID), nil
	})
}

func (s *service) SetDefaultAddress(ctx context.Context, userID, addressID string) (User, error) {
	return s.mutate(ctx, userID, func(user User) (User, error) {
		return ApplySetDefaultAddress(user, addressID)
	})
}

func (s *service) UpdateLocation(ctx context.Context, userID string, location Location) (User, error) {
	if strings.TrimSpace(location.Address) == "" {
		return User{}, pkgerrors.New(pkgerrors.CodeValidation, "location address is required")
	}
	return s.mutate(ctx, userID, func(user User) (User, error) {
		return ApplyLocation(user, location), nil
	})
}

func (s *service) mutate(ctx context.Context, userID string, fn func(User) (User, error)) (User, error) {
	doc, err := s.doc(userID)
	if err != nil {
		return User{}, err
	}
	user, err := doc.Update(ctx, func(current User) (User, error) {
		if current.ID == "" {
			return current, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return fn(current)
	})
	if err != nil {
		return User{}, err
	}
	return normalize(user), nil
}

func (s *service) doc(userID string) (*kvstore.Doc[User], error) {
	if strings.TrimSpace(userID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	return kvstore.NewDoc(s.store, s.locker, UserKey(userID), func() User { return User{} })
}

func normalize(user User) User {
	if user.Addresses == nil {
		user.Addresses = []Address{}
	}
	return user
}

func phoneSuffix(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return phone[len(phone)-4:]
}
