// Package address turns Google Places lookups into draft address book entries.
package address

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/dryfruit-backend/internal/users"
	"github.com/angelmondragon/dryfruit-backend/pkg/errors"
	"github.com/angelmondragon/dryfruit-backend/pkg/maps"
)

type placesClient interface {
	Autocomplete(ctx context.Context, req maps.AutocompleteRequest) ([]maps.AutocompleteSuggestion, error)
	ResolvePlace(ctx context.Context, placeID string) (*maps.PlaceDetails, error)
	ReverseGeocode(ctx context.Context, point maps.LatLng) (*maps.PlaceDetails, error)
}

type Service interface {
	Suggest(ctx context.Context, req SuggestRequest) ([]Suggestion, error)
	Resolve(ctx context.Context, req ResolveRequest) (Resolved, error)
	ReverseGeocode(ctx context.Context, coords users.Coordinates) (Resolved, error)
}

type service struct {
	maps   placesClient
	region string
}

// NewService wraps a maps client. A nil client yields a service whose calls
// fail with a dependency error.
func NewService(client *maps.Client) Service {
	if client == nil {
		return &service{}
	}
	return &service{maps: client, region: client.Region()}
}

func newWithClient(client placesClient) *service {
	return &service{maps: client}
}

func (s *service) Suggest(ctx context.Context, req SuggestRequest) ([]Suggestion, error) {
	if s == nil || s.maps == nil {
		return nil, errors.New(errors.CodeDependency, "maps client unavailable")
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, errors.New(errors.CodeValidation, "query is required")
	}

	payload := maps.AutocompleteRequest{
		Input: req.Query,
	}
	if s.region != "" {
		payload.IncludedRegionCodes = []string{s.region}
	}
	if lang := strings.TrimSpace(req.Language); lang != "" {
		payload.LanguageCode = lang
	}

	resp, err := s.maps.Autocomplete(ctx, payload)
	if err != nil {
		return nil, err
	}

	suggestions := make([]Suggestion, 0, len(resp))
	for _, item := range resp {
		suggestions = append(suggestions, Suggestion{
			PlaceID:     item.PlaceID,
			Description: item.Description,
		})
	}
	return suggestions, nil
}

func (s *service) Resolve(ctx context.Context, req ResolveRequest) (Resolved, error) {
	if s == nil || s.maps == nil {
		return Resolved{}, errors.New(errors.CodeDependency, "maps client unavailable")
	}
	if strings.TrimSpace(req.PlaceID) == "" {
		return Resolved{}, errors.New(errors.CodeValidation, "placeId is required")
	}

	details, err := s.maps.ResolvePlace(ctx, req.PlaceID)
	if err != nil {
		return Resolved{}, err
	}
	return mapPlaceDetails(details)
}

func (s *service) ReverseGeocode(ctx context.Context, coords users.Coordinates) (Resolved, error) {
	if s == nil || s.maps == nil {
		return Resolved{}, errors.New(errors.CodeDependency, "maps client unavailable")
	}
	details, err := s.maps.ReverseGeocode(ctx, maps.LatLng{Latitude: coords.Latitude, Longitude: coords.Longitude})
	if err != nil {
		return Resolved{}, err
	}
	return mapPlaceDetails(details)
}

func mapPlaceDetails(details *maps.PlaceDetails) (Resolved, error) {
	if details == nil {
		return Resolved{}, errors.New(errors.CodeDependency, "place details missing")
	}
	if details.Location.Latitude == 0 && details.Location.Longitude == 0 {
		return Resolved{}, errors.New(errors.CodeDependency, "place location missing")
	}

	find := func(kind string) (string, bool) {
		value := details.Component(kind)
		return value, value != ""
	}

	line := ""
	seen := map[string]bool{}
	for _, kind := range []string{"premise", "street_number", "route", maps.ComponentSublocal} {
		part, ok := find(kind)
		if !ok || seen[part] {
			continue
		}
		seen[part] = true
		if line != "" {
			line = fmt.Sprintf("%s, %s", line, part)
		} else {
			line = part
		}
	}
	if line == "" && strings.TrimSpace(details.FormattedAddress) != "" {
		parts := strings.Split(details.FormattedAddress, ",")
		line = strings.TrimSpace(parts[0])
	}
	if line == "" {
		return Resolved{}, errors.New(errors.CodeDependency, "address line missing")
	}

	city, ok := find(maps.ComponentLocality)
	if !ok {
		if admin2, ok2 := find("administrative_area_level_2"); ok2 {
			city = admin2
		}
	}
	if city == "" {
		return Resolved{}, errors.New(errors.CodeDependency, "city missing")
	}

	state, ok := find(maps.ComponentState)
	if !ok {
		return Resolved{}, errors.New(errors.CodeDependency, "state missing")
	}

	// pincode is left for the customer to fill in when Google has none
	pincode, _ := find(maps.ComponentPostalCode)

	return Resolved{
		Label:   strings.TrimSpace(details.FormattedAddress),
		Address: line,
		City:    city,
		State:   state,
		Pincode: pincode,
		Coords: users.Coordinates{
			Latitude:  details.Location.Latitude,
			Longitude: details.Location.Longitude,
		},
	}, nil
}

type SuggestRequest struct {
	Query    string
	Language string
}

type ResolveRequest struct {
	PlaceID string
}

type Suggestion struct {
	PlaceID     string `json:"placeId"`
	Description string `json:"description"`
}

// Resolved is a geocoded location ready to prefill the address form.
type Resolved struct {
	Label   string            `json:"label"`
	Address string            `json:"address"`
	City    string            `json:"city"`
	State   string            `json:"state"`
	Pincode string            `json:"pincode"`
	Coords  users.Coordinates `json:"coords"`
}

// Location converts the result into the customer's current location.
func (r Resolved) Location() users.Location {
	label := r.Label
	if label == "" {
		label = strings.Join([]string{r.Address, r.City}, ", ")
	}
	coords := r.Coords
	return users.Location{Address: label, Coords: &coords}
}
