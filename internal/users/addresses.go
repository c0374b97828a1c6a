package users

import (
	"strings"

	pkgerrors "github.com/angelmondragon/dryfruit-backend/pkg/errors"
)

// ApplyAddAddress appends a new address. The first address, or one flagged as
// default, becomes the only default entry.
func ApplyAddAddress(user User, in AddressInput, id string) User {
	addr := in.toAddress(id)
	addresses := cloneAddresses(user.Addresses)
	if len(addresses) == 0 || in.IsDefault {
		for i := range addresses {
			addresses[i].IsDefault = false
		}
		addr.IsDefault = true
	}
	user.Addresses = append(addresses, addr)
	return user
}

// ApplyUpdateAddress replaces the fields of an existing address. The current
// default stays default even when the update clears the flag.
func ApplyUpdateAddress(user User, id string, in AddressInput) (User, error) {
	idx := indexOf(user.Addresses, id)
	if idx < 0 {
		return user, addressNotFound(id)
	}
	addresses := cloneAddresses(user.Addresses)
	updated := in.toAddress(id)
	if addresses[idx].IsDefault {
		updated.IsDefault = true
	}
	addresses[idx] = updated
	if updated.IsDefault {
		for i := range addresses {
			addresses[i].IsDefault = i == idx
		}
	}
	user.Addresses = addresses
	return user, nil
}

// ApplyDeleteAddress removes an address and promotes the first remaining entry
// when the default was removed. A missing id leaves the book unchanged.
func ApplyDeleteAddress(user User, id string) User {
	idx := indexOf(user.Addresses, id)
	if idx < 0 {
		return user
	}
	wasDefault := user.Addresses[idx].IsDefault
	addresses := make([]Address, 0, len(user.Addresses)-1)
	for i, addr := range user.Addresses {
		if i != idx {
			addresses = append(addresses, addr)
		}
	}
	if wasDefault && len(addresses) > 0 {
		addresses[0].IsDefault = true
	}
	user.Addresses = addresses
	return user
}

// ApplySetDefaultAddress marks exactly one address as default.
func ApplySetDefaultAddress(user User, id string) (User, error) {
	if indexOf(user.Addresses, id) < 0 {
		return user, addressNotFound(id)
	}
	addresses := cloneAddresses(user.Addresses)
	for i := range addresses {
		addresses[i].IsDefault = addresses[i].ID == id
	}
	user.Addresses = addresses
	return user, nil
}

func ApplyProfileUpdate(user User, update ProfileUpdate) User {
	if update.Name != nil {
		user.Name = strings.TrimSpace(*update.Name)
	}
	if update.Email != nil {
		user.Email = strings.TrimSpace(*update.Email)
	}
	return user
}

func ApplyLocation(user User, loc Location) User {
	next := loc
	if loc.Coords != nil {
		coords := *loc.Coords
		next.Coords = &coords
	}
	user.CurrentLocation = &next
	return user
}

// DefaultAddress returns the default address, falling back to the first entry.
func DefaultAddress(addresses []Address) (Address, bool) {
	for _, addr := range addresses {
		if addr.IsDefault {
			return addr, true
		}
	}
	if len(addresses) > 0 {
		return addresses[0], true
	}
	return Address{}, false
}

// FindAddress looks up an address by id.
func FindAddress(addresses []Address, id string) (Address, bool) {
	if idx := indexOf(addresses, id); idx >= 0 {
		return addresses[idx], true
	}
	return Address{}, false
}

func indexOf(addresses []Address, id string) int {
	for i, addr := range addresses {
		if addr.ID == id {
			return i
		}
	}
	return -1
}

func cloneAddresses(addresses []Address) []Address {
	out := make([]Address, len(addresses))
	copy(out, addresses)
	return out
}

func addressNotFound(id string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "address not found").WithDetails(map[string]any{"addressId": id})
}
