package users

import (
	"context"
	"testing"
	"time"

	pkgAuth "github.com/angelmondragon/dryfruit-backend/pkg/auth"
	"github.com/angelmondragon/dryfruit-backend/pkg/auth/session"
	"github.com/angelmondragon/dryfruit-backend/pkg/config"
	"github.com/angelmondragon/dryfruit-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/dryfruit-backend/pkg/errors"
	"github.com/angelmondragon/dryfruit-backend/pkg/kvstore"
	"github.com/angelmondragon/dryfruit-backend/pkg/latency"
	"github.com/angelmondragon/dryfruit-backend/pkg/logger"
	redisclient "github.com/angelmondragon/dryfruit-backend/pkg/redis"
	"github.com/angelmondragon/dryfruit-backend/pkg/redis/redistest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testJWT = config.JWTConfig{
	Secret:                 "test-secret",
	Issuer:                 "dryfruit",
	ExpirationMinutes:      15,
	RefreshTokenTTLMinutes: 60,
}

type fixture struct {
	svc      Service
	fake     *redistest.Fake
	sessions *session.Manager
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	fake := redistest.NewFake()
	client := redisclient.NewWithCmdable(fake)
	sessions, err := session.NewManager(client, testJWT)
	require.NoError(t, err)

	svc, err := NewService(ServiceParams{
		Store:          kvstore.NewMemoryStore(),
		Locker:         kvstore.NewLocalLocker(),
		OTP:            client,
		SessionManager: sessions,
		JWTConfig:      testJWT,
		OTPTTL:         2 * time.Minute,
		Latency:        latency.None{},
		Logger:         logger.Nop(),
	})
	require.NoError(t, err)
	return fixture{svc: svc, fake: fake, sessions: sessions}
}

func (f fixture) login(t *testing.T, phone string) AuthResult {
	t.Helper()
	ctx := context.Background()
	_, err := f.svc.LoginWithPhone(ctx, phone)
	require.NoError(t, err)
	result, err := f.svc.VerifyOtp(ctx, phone, "1234")
	require.NoError(t, err)
	return result
}

func TestLoginWithPhoneValidatesAndStoresChallenge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, phone := range []string{"", "12345", "98765432100", "98765abcde"} {
		_, err := f.svc.LoginWithPhone(ctx, phone)
		assert.Truef(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "phone %q", phone)
	}

	challenge, err := f.svc.LoginWithPhone(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, "9876543210", challenge.Phone)
	assert.Equal(t, 2*time.Minute, f.fake.TTL("df:otp:9876543210"))
}

func TestVerifyOtp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.LoginWithPhone(ctx, "9876543210")
	require.NoError(t, err)

	_, err = f.svc.VerifyOtp(ctx, "9876543210", "12345")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
	assert.Equal(t, "Invalid OTP", pkgerrors.As(err).Message())

	result, err := f.svc.VerifyOtp(ctx, "9876543210", "1234")
	require.NoError(t, err)
	assert.Equal(t, "9876543210", result.User.Phone)
	assert.Empty(t, result.User.Addresses)
	require.NotNil(t, result.User.CurrentLocation)
	assert.Equal(t, "Current Location", result.User.CurrentLocation.Address)
	assert.NotEmpty(t, result.RefreshToken)

	claims, err := pkgAuth.ParseAccessToken(testJWT, result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, enums.ActorRoleCustomer, claims.Role)

	active, err := f.sessions.HasSession(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, active)

	// the challenge is consumed
	_, err = f.svc.VerifyOtp(ctx, "9876543210", "1234")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestVerifyOtpReusesExistingUser(t *testing.T) {
	f := newFixture(t)
	first := f.login(t, "9876543210")
	second := f.login(t, "9876543210")
	other := f.login(t, "9123456780")

	assert.Equal(t, first.User.ID, second.User.ID)
	assert.NotEqual(t, first.User.ID, other.User.ID)
}

func TestProfileAndAddressBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.login(t, "9876543210").User.ID

	name := "Asha"
	user, err := f.svc.UpdateProfile(ctx, userID, ProfileUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Asha", user.Name)

	user, err = f.svc.AddAddress(ctx, userID, input("12 MG Road", false))
	require.NoError(t, err)
	require.Len(t, user.Addresses, 1)
	first := user.Addresses[0]
	assert.True(t, first.IsDefault)
	assert.NotEmpty(t, first.ID)

	user, err = f.svc.AddAddress(ctx, userID, input("Office", true))
	require.NoError(t, err)
	require.Len(t, user.Addresses, 2)
	second := user.Addresses[1]
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, []string{second.ID}, defaults(user))

	user, err = f.svc.SetDefaultAddress(ctx, userID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{first.ID}, defaults(user))

	user, err = f.svc.DeleteAddress(ctx, userID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID}, defaults(user))

	_, err = f.svc.UpdateAddress(ctx, userID, "missing", input("x", false))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	user, err = f.svc.UpdateLocation(ctx, userID, Location{Address: "Indiranagar", Coords: &Coordinates{Latitude: 12.97, Longitude: 77.64}})
	require.NoError(t, err)
	assert.Equal(t, "Indiranagar", user.CurrentLocation.Address)

	stored, err := f.svc.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, user, stored)
}

func TestUnknownUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.GetProfile(context.Background(), "ghost")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = f.svc.AddAddress(context.Background(), "ghost", input("x", false))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = f.svc.GetProfile(context.Background(), "")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}
