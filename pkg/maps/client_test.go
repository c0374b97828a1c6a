package maps

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/dryfruit-backend/pkg/errors"
)

func TestClientAutocompleteRequest(t *testing.T) {
	const expectedURL = "http://maps.test/v1/places:autocomplete"
	respBody := `{"suggestions":[{"placePrediction":{"placeId":"place_123","text":{"text":"12 MG Road, Bengaluru"}}}]}`

	var capturedURL string
	var capturedHeaders http.Header

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedHeaders = req.Header.Clone()

		bodyBytes, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		var payload map[string]any
		if err := json.Unmarshal(bodyBytes, &payload); err != nil {
			t.Fatalf("unmarshal request body: %v", err)
		}
		if payload["input"] != "mg road bengaluru" {
			t.Fatalf("unexpected input %q", payload["input"])
		}
		regions, _ := payload["includedRegionCodes"].([]any)
		if len(regions) != 1 || regions[0] != "IN" {
			t.Fatalf("expected default region IN, got %v", payload["includedRegionCodes"])
		}

		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(respBody)),
			Header:     http.Header{},
		}, nil
	})

	httpClient := &http.Client{Transport: rt}
	client, err := NewClient("test-key", WithBaseURL("http://maps.test/v1"), WithHTTPClient(httpClient), WithRegion("in"))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	result, err := client.Autocomplete(context.Background(), AutocompleteRequest{
		Input:        "mg road bengaluru",
		LanguageCode: "en",
	})
	if err != nil {
		t.Fatalf("autocomplete: %v", err)
	}
	if capturedURL != expectedURL {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if capturedHeaders.Get("X-Goog-Api-Key") != "test-key" {
		t.Fatalf("api key header missing")
	}
	if capturedHeaders.Get("X-Goog-FieldMask") != autocompleteFieldMask {
		t.Fatalf("unexpected field mask %q", capturedHeaders.Get("X-Goog-FieldMask"))
	}
	if len(result) != 1 || result[0].PlaceID != "place_123" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestClientResolvePlaceRequest(t *testing.T) {
	const expectedURL = "http://maps.test/v1/places/place_123"
	respBody := `{"id":"place_123","formattedAddress":"12 MG Road, Bengaluru","location":{"latitude":1.23,"longitude":-4.56},"addressComponents":[{"longText":"123","shortText":"123","types":["street_number"]},{"longText":"560001","shortText":"560001","types":["postal_code"]}]}`

	var capturedURL string
	var capturedHeaders http.Header

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedHeaders = req.Header.Clone()
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(respBody)),
			Header:     http.Header{},
		}, nil
	})

	httpClient := &http.Client{Transport: rt}
	client, err := NewClient("test-key", WithBaseURL("http://maps.test/v1"), WithHTTPClient(httpClient))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	details, err := client.ResolvePlace(context.Background(), "place_123")
	if err != nil {
		t.Fatalf("resolve place: %v", err)
	}
	if capturedURL != expectedURL {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if capturedHeaders.Get("X-Goog-Api-Key") != "test-key" {
		t.Fatalf("api key header missing")
	}
	if capturedHeaders.Get("X-Goog-FieldMask") != placeResolveFieldMask {
		t.Fatalf("unexpected field mask %q", capturedHeaders.Get("X-Goog-FieldMask"))
	}
	if details.FormattedAddress != "12 MG Road, Bengaluru" {
		t.Fatalf("unexpected address %q", details.FormattedAddress)
	}
	if details.Location.Latitude != 1.23 || details.Location.Longitude != -4.56 {
		t.Fatalf("unexpected location %+v", details.Location)
	}
	if len(details.AddressComponents) != 2 || details.AddressComponents[0].LongName != "123" {
		t.Fatalf("unexpected components %+v", details.AddressComponents)
	}
	if details.Component(ComponentPostalCode) != "560001" {
		t.Fatalf("expected postal code component, got %q", details.Component(ComponentPostalCode))
	}
}

func TestClientReverseGeocode(t *testing.T) {
	respBody := `{"status":"OK","results":[{"place_id":"geo_1","formatted_address":"Koramangala, Bengaluru, Karnataka 560034","geometry":{"location":{"lat":12.93,"lng":77.62}},"address_components":[{"long_name":"Bengaluru","short_name":"Bengaluru","types":["locality","political"]},{"long_name":"Karnataka","short_name":"KA","types":["administrative_area_level_1","political"]}]}]}`

	var captured *http.Request
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		captured = req
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(respBody)), Header: http.Header{}}, nil
	})

	client, err := NewClient("test-key", WithGeocodeURL("http://geo.test/json"), WithHTTPClient(&http.Client{Transport: rt}), WithRegion("IN"))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	details, err := client.ReverseGeocode(context.Background(), LatLng{Latitude: 12.93, Longitude: 77.62})
	if err != nil {
		t.Fatalf("reverse geocode: %v", err)
	}
	if got := captured.URL.Query().Get("latlng"); got != "12.93,77.62" {
		t.Fatalf("unexpected latlng %q", got)
	}
	if captured.URL.Query().Get("region") != "in" || captured.URL.Query().Get("key") != "test-key" {
		t.Fatalf("unexpected query %q", captured.URL.RawQuery)
	}
	if details.FormattedAddress != "Koramangala, Bengaluru, Karnataka 560034" {
		t.Fatalf("unexpected address %q", details.FormattedAddress)
	}
	if details.Component(ComponentLocality) != "Bengaluru" || details.Component(ComponentState) != "Karnataka" {
		t.Fatalf("unexpected components %+v", details.AddressComponents)
	}
}

func TestClientReverseGeocodeZeroResults(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(`{"status":"ZERO_RESULTS","results":[]}`)), Header: http.Header{}}, nil
	})
	client, err := NewClient("test-key", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.ReverseGeocode(context.Background(), LatLng{Latitude: 0, Longitude: 0})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	_, err = client.ReverseGeocode(context.Background(), LatLng{Latitude: 120, Longitude: 0})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestClientSurfacesUpstreamFailure(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusForbidden, Body: io.NopCloser(strings.NewReader("key rejected")), Header: http.Header{}}, nil
	})
	client, err := NewClient("test-key", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.ResolvePlace(context.Background(), "place_123")
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}

	var nilClient *Client
	if _, err := nilClient.Autocomplete(context.Background(), AutocompleteRequest{Input: "x"}); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error from nil client, got %v", err)
	}
	if _, err := NewClient("  "); err == nil {
		t.Fatal("expected missing api key to fail")
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
