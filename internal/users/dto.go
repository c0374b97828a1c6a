package users

import (
	"time"

	"github.com/angelmondragon/dryfruit-backend/pkg/enums"
)

const defaultLocationLabel = "Current Location"

// Coordinates is a latitude/longitude pair captured from the device or geocoder.
type Coordinates struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// Location is the customer's last known position.
type Location struct {
	Address string       `json:"address" validate:"required,max=500"`
	Coords  *Coordinates `json:"coords,omitempty"`
}

// Address is an entry in a customer's address book.
type Address struct {
	ID        string            `json:"id"`
	Type      enums.AddressType `json:"type"`
	Address   string            `json:"address"`
	Landmark  string            `json:"landmark,omitempty"`
	City      string            `json:"city"`
	State     string            `json:"state"`
	Pincode   string            `json:"pincode"`
	IsDefault bool              `json:"isDefault"`
}

// AddressInput carries the editable fields of an address.
type AddressInput struct {
	Type      enums.AddressType `json:"type" validate:"required,oneof=home work other"`
	Address   string            `json:"address" validate:"required,max=500"`
	Landmark  string            `json:"landmark" validate:"omitempty,max=200"`
	City      string            `json:"city" validate:"required,max=100"`
	State     string            `json:"state" validate:"required,max=100"`
	Pincode   string            `json:"pincode" validate:"required,numeric,len=6"`
	IsDefault bool              `json:"isDefault"`
}

func (in AddressInput) toAddress(id string) Address {
	return Address{
		ID:        id,
		Type:      in.Type,
		Address:   in.Address,
		Landmark:  in.Landmark,
		City:      in.City,
		State:     in.State,
		Pincode:   in.Pincode,
		IsDefault: in.IsDefault,
	}
}

// User is the persisted customer profile. Phone never changes after creation.
type User struct {
	ID              string    `json:"id"`
	Phone           string    `json:"phone"`
	Name            string    `json:"name,omitempty"`
	Email           string    `json:"email,omitempty"`
	Addresses       []Address `json:"addresses"`
	CurrentLocation *Location `json:"currentLocation,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ProfileUpdate merges into a user; nil fields are left untouched.
type ProfileUpdate struct {
	Name  *string `json:"name" validate:"omitempty,max=100"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// OTPChallenge describes a pending phone login.
type OTPChallenge struct {
	Phone     string    `json:"phone"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthResult is returned after a successful OTP verification or refresh.
type AuthResult struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// phoneIndex maps phone numbers to user ids.
type phoneIndex struct {
	Users map[string]string `json:"users"`
}
