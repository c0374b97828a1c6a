package address

import (
	"context"
	"testing"

	"github.com/angelmondragon/dryfruit-backend/internal/users"
	"github.com/angelmondragon/dryfruit-backend/pkg/errors"
	"github.com/angelmondragon/dryfruit-backend/pkg/maps"
)

func sampleDetails() *maps.PlaceDetails {
	return &maps.PlaceDetails{
		FormattedAddress: "12, MG Road, Ashok Nagar, Bengaluru, Karnataka 560001, India",
		Location: maps.LatLng{
			Latitude:  12.9756,
			Longitude: 77.6066,
		},
		AddressComponents: []maps.AddressComponent{
			{LongName: "12", Types: []string{"street_number"}},
			{LongName: "MG Road", Types: []string{"route"}},
			{LongName: "Ashok Nagar", Types: []string{"sublocality_level_1", "sublocality"}},
			{LongName: "Bengaluru", Types: []string{"locality"}},
			{LongName: "Karnataka", Types: []string{"administrative_area_level_1"}},
			{LongName: "560001", Types: []string{"postal_code"}},
			{LongName: "India", Types: []string{"country"}},
		},
	}
}

type stubPlaces struct {
	suggestions []maps.AutocompleteSuggestion
	details     *maps.PlaceDetails
	lastInput   maps.AutocompleteRequest
	lastPoint   maps.LatLng
}

func (s *stubPlaces) Autocomplete(_ context.Context, req maps.AutocompleteRequest) ([]maps.AutocompleteSuggestion, error) {
	s.lastInput = req
	return s.suggestions, nil
}

func (s *stubPlaces) ResolvePlace(context.Context, string) (*maps.PlaceDetails, error) {
	return s.details, nil
}

func (s *stubPlaces) ReverseGeocode(_ context.Context, point maps.LatLng) (*maps.PlaceDetails, error) {
	s.lastPoint = point
	return s.details, nil
}

func TestMapPlaceDetails(t *testing.T) {
	result, err := mapPlaceDetails(sampleDetails())
	if err != nil {
		t.Fatalf("mapPlaceDetails failed: %v", err)
	}
	if result.Address != "12, MG Road, Ashok Nagar" {
		t.Fatalf("unexpected address %q", result.Address)
	}
	if result.City != "Bengaluru" {
		t.Fatalf("unexpected city %q", result.City)
	}
	if result.State != "Karnataka" {
		t.Fatalf("unexpected state %q", result.State)
	}
	if result.Pincode != "560001" {
		t.Fatalf("unexpected pincode %q", result.Pincode)
	}
	if result.Coords.Latitude != 12.9756 || result.Coords.Longitude != 77.6066 {
		t.Fatalf("unexpected location %+v", result.Coords)
	}
	loc := result.Location()
	if loc.Address != "12, MG Road, Ashok Nagar, Bengaluru, Karnataka 560001, India" || loc.Coords == nil {
		t.Fatalf("unexpected current location %+v", loc)
	}
}

func TestMapPlaceDetailsMissingCity(t *testing.T) {
	details := sampleDetails()
	details.AddressComponents = details.AddressComponents[:2]

	if _, err := mapPlaceDetails(details); err == nil {
		t.Fatal("expected error when city missing")
	}
}

func TestServiceWithoutMapsClient(t *testing.T) {
	svc := NewService(nil)
	_, err := svc.Suggest(context.Background(), SuggestRequest{Query: "mg road"})
	if !errors.IsCode(err, errors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	_, err = svc.ReverseGeocode(context.Background(), users.Coordinates{Latitude: 1, Longitude: 1})
	if !errors.IsCode(err, errors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestSuggestAndReverseGeocode(t *testing.T) {
	places := &stubPlaces{
		suggestions: []maps.AutocompleteSuggestion{{PlaceID: "p1", Description: "MG Road, Bengaluru"}},
		details:     sampleDetails(),
	}
	svc := newWithClient(places)

	if _, err := svc.Suggest(context.Background(), SuggestRequest{Query: " "}); !errors.IsCode(err, errors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	got, err := svc.Suggest(context.Background(), SuggestRequest{Query: "mg road", Language: "en"})
	if err != nil {
		t.Fatalf("suggest failed: %v", err)
	}
	if len(got) != 1 || got[0].PlaceID != "p1" {
		t.Fatalf("unexpected suggestions %+v", got)
	}
	if places.lastInput.LanguageCode != "en" {
		t.Fatalf("language not forwarded: %+v", places.lastInput)
	}

	resolved, err := svc.ReverseGeocode(context.Background(), users.Coordinates{Latitude: 12.97, Longitude: 77.6})
	if err != nil {
		t.Fatalf("reverse geocode failed: %v", err)
	}
	if resolved.City != "Bengaluru" || places.lastPoint.Latitude != 12.97 {
		t.Fatalf("unexpected reverse geocode %+v %+v", resolved, places.lastPoint)
	}

	if _, err := svc.Resolve(context.Background(), ResolveRequest{}); !errors.IsCode(err, errors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
