package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ramanasai/tripboard/internal/board"
)

// DefaultEndpoint is the AMap web service root.
const DefaultEndpoint = "https://restapi.amap.com"

var (
	ErrNotFound     = errors.New("geo: place not found")
	ErrNoCredential = errors.New("geo: no map key configured")
)

// Result is one geocoding answer.
type Result struct {
	Location board.GeoLocation
	Address  string
	Province string
	City     string
	District string
}

// AMap calls the AMap geocoding API.
type AMap struct {
	Endpoint string
	Key      string
	HTTP     *http.Client
}

func NewAMap(endpoint, key string, timeout time.Duration) *AMap {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AMap{
		Endpoint: strings.TrimRight(endpoint, "/"),
		Key:      key,
		HTTP:     &http.Client{Timeout: timeout},
	}
}

// amapText is a string field that AMap sends as [] when it is empty.
type amapText string

func (t *amapText) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '[' {
		*t = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*t = amapText(s)
	return nil
}

type geocodeResponse struct {
	Status   string `json:"status"`
	Info     string `json:"info"`
	Count    string `json:"count"`
	Geocodes []struct {
		FormattedAddress amapText `json:"formatted_address"`
		Province         amapText `json:"province"`
		City             amapText `json:"city"`
		District         amapText `json:"district"`
		Location         string   `json:"location"`
	} `json:"geocodes"`
}

// Geocode resolves an address. city narrows the search and may be empty.
func (a *AMap) Geocode(ctx context.Context, address, city string) (Result, error) {
	if a.Key == "" {
		return Result{}, ErrNoCredential
	}
	q := url.Values{}
	q.Set("address", address)
	q.Set("key", a.Key)
	if city != "" {
		q.Set("city", city)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.Endpoint+"/v3/geocode/geo?"+q.Encode(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("geocode request: %w", err)
	}
	resp, err := a.HTTP.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("geocode %q: http %d", address, resp.StatusCode)
	}
	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{}, fmt.Errorf("geocode %q: decode: %w", address, err)
	}
	if body.Status != "1" {
		return Result{}, fmt.Errorf("geocode %q: %s", address, body.Info)
	}
	if len(body.Geocodes) == 0 {
		return Result{}, ErrNotFound
	}

	g := body.Geocodes[0]
	loc, err := ParseLngLat(g.Location)
	if err != nil {
		return Result{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	return Result{
		Location: loc,
		Address:  string(g.FormattedAddress),
		Province: string(g.Province),
		City:     string(g.City),
		District: string(g.District),
	}, nil
}

// ParseLngLat reads AMap's "lng,lat" form.
func ParseLngLat(s string) (board.GeoLocation, error) {
	lng, lat, ok := strings.Cut(s, ",")
	if !ok {
		return board.GeoLocation{}, fmt.Errorf("bad coordinate %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil {
		return board.GeoLocation{}, fmt.Errorf("bad longitude %q: %w", lng, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return board.GeoLocation{}, fmt.Errorf("bad latitude %q: %w", lat, err)
	}
	return board.GeoLocation{Lng: x, Lat: y}, nil
}

// FormatLngLat is the inverse of ParseLngLat, at AMap's six decimals.
func FormatLngLat(g board.GeoLocation) string {
	return strconv.FormatFloat(g.Lng, 'f', 6, 64) + "," + strconv.FormatFloat(g.Lat, 'f', 6, 64)
}
