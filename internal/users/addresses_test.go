package users

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/angelmondragon/dryfruit-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/dryfruit-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func input(label string, isDefault bool) AddressInput {
	return AddressInput{
		Type:      enums.AddressTypeHome,
		Address:   label,
		City:      "Bengaluru",
		State:     "Karnataka",
		Pincode:   "560001",
		IsDefault: isDefault,
	}
}

func defaults(user User) []string {
	var out []string
	for _, addr := range user.Addresses {
		if addr.IsDefault {
			out = append(out, addr.ID)
		}
	}
	return out
}

func TestFirstAddressBecomesDefault(t *testing.T) {
	user := ApplyAddAddress(User{}, input("home", false), "a1")
	assert.Equal(t, []string{"a1"}, defaults(user))

	user = ApplyAddAddress(user, input("work", false), "a2")
	assert.Equal(t, []string{"a1"}, defaults(user))

	user = ApplyAddAddress(user, input("other", true), "a3")
	assert.Equal(t, []string{"a3"}, defaults(user))
}

func TestUpdateAddressKeepsSingleDefault(t *testing.T) {
	user := ApplyAddAddress(ApplyAddAddress(User{}, input("home", false), "a1"), input("work", false), "a2")

	user, err := ApplyUpdateAddress(user, "a2", input("work, floor 2", true))
	require.NoError(t, err)
	assert.Equal(t, []string{"a2"}, defaults(user))
	assert.Equal(t, "work, floor 2", user.Addresses[1].Address)

	// clearing the flag on the current default has no effect
	user, err = ApplyUpdateAddress(user, "a2", input("work", false))
	require.NoError(t, err)
	assert.Equal(t, []string{"a2"}, defaults(user))

	_, err = ApplyUpdateAddress(user, "missing", input("x", false))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDeleteDefaultPromotesFirst(t *testing.T) {
	user := ApplyAddAddress(User{}, input("home", false), "a1")
	user = ApplyAddAddress(user, input("work", false), "a2")
	user = ApplyAddAddress(user, input("other", false), "a3")
	user, err := ApplySetDefaultAddress(user, "a3")
	require.NoError(t, err)

	user = ApplyDeleteAddress(user, "a3")
	assert.Equal(t, []string{"a1"}, defaults(user))

	user = ApplyDeleteAddress(user, "a2")
	assert.Equal(t, []string{"a1"}, defaults(user))

	user = ApplyDeleteAddress(user, "a1")
	assert.Empty(t, user.Addresses)
	assert.Empty(t, ApplyDeleteAddress(user, "a1").Addresses)
}

func TestSetDefaultAddressUnknown(t *testing.T) {
	user := ApplyAddAddress(User{}, input("home", false), "a1")
	_, err := ApplySetDefaultAddress(user, "nope")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestAtMostOneDefaultUnderRandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	user := User{}
	next := 0

	pick := func() string {
		if len(user.Addresses) == 0 {
			return "none"
		}
		return user.Addresses[rng.Intn(len(user.Addresses))].ID
	}

	for i := 0; i < 1000; i++ {
		switch rng.Intn(4) {
		case 0:
			next++
			user = ApplyAddAddress(user, input("addr", rng.Intn(2) == 0), fmt.Sprintf("a%d", next))
		case 1:
			if updated, err := ApplyUpdateAddress(user, pick(), input("edited", rng.Intn(2) == 0)); err == nil {
				user = updated
			}
		case 2:
			user = ApplyDeleteAddress(user, pick())
		case 3:
			if updated, err := ApplySetDefaultAddress(user, pick()); err == nil {
				user = updated
			}
		}
		require.LessOrEqual(t, len(defaults(user)), 1, "step %d", i)
		if len(user.Addresses) > 0 {
			require.Len(t, defaults(user), 1, "step %d", i)
		}
	}
}

func TestDefaultAddressFallsBackToFirst(t *testing.T) {
	_, ok := DefaultAddress(nil)
	assert.False(t, ok)

	addr, ok := DefaultAddress([]Address{{ID: "a1"}, {ID: "a2"}})
	require.True(t, ok)
	assert.Equal(t, "a1", addr.ID)

	addr, ok = DefaultAddress([]Address{{ID: "a1"}, {ID: "a2", IsDefault: true}})
	require.True(t, ok)
	assert.Equal(t, "a2", addr.ID)
}

func TestProfileUpdateMerges(t *testing.T) {
	user := User{ID: "u1", Phone: "9876543210", Name: "Asha"}
	email := " asha@example.com "
	user = ApplyProfileUpdate(user, ProfileUpdate{Email: &email})
	assert.Equal(t, "Asha", user.Name)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.Equal(t, "9876543210", user.Phone)
}
