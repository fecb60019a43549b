package geo

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/ramanasai/tripboard/internal/board"
)

// Fallback is used when nothing else knows the place: Tiananmen, Beijing.
var Fallback = board.GeoLocation{Lng: 116.397428, Lat: 39.90923}

// Origin says which tier answered.
type Origin int

const (
	FromCache Origin = iota
	FromService
	FromFallback
)

func (o Origin) String() string {
	switch o {
	case FromCache:
		return "cache"
	case FromService:
		return "amap"
	default:
		return "fallback"
	}
}

// Source is a live geocoder.
type Source interface {
	Geocode(ctx context.Context, address, city string) (Result, error)
}

// Resolution is what Resolve returns. It always carries a usable location.
type Resolution struct {
	Location board.GeoLocation
	Origin   Origin
	Address  string
	Err      error // why the live lookup failed, when Origin is FromFallback
}

type Resolver struct {
	cache  *Cache
	source Source
	logger *slog.Logger
}

// NewResolver wires the tiers together. source may be nil for offline use.
func NewResolver(cache *Cache, source Source, logger *slog.Logger) *Resolver {
	if cache == nil {
		cache = NewCache(0)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{cache: cache, source: source, logger: logger}
}

func (r *Resolver) Cache() *Cache { return r.cache }

// Resolve never fails; a failed or missing live lookup ends at Fallback.
func (r *Resolver) Resolve(ctx context.Context, place string) Resolution {
	if loc, ok := r.cache.Lookup(place); ok {
		return Resolution{Location: loc, Origin: FromCache}
	}
	if normalize(place) == "" {
		return Resolution{Location: Fallback, Origin: FromFallback}
	}

	if r.source == nil {
		return Resolution{Location: Fallback, Origin: FromFallback, Err: ErrNoCredential}
	}
	res, err := r.source.Geocode(ctx, place, "")
	if err != nil {
		if errors.Is(err, ErrNoCredential) {
			r.logger.Warn("map key missing, using fallback coordinate", "place", place)
		} else if !errors.Is(err, ErrNotFound) {
			r.logger.Warn("geocode failed", "place", place, "err", err)
		}
		return Resolution{Location: Fallback, Origin: FromFallback, Err: err}
	}

	r.cache.Learn(place, res.Location)
	r.logger.Debug("geocoded", "place", place, "loc", res.Location.String())
	return Resolution{Location: res.Location, Origin: FromService, Address: res.Address}
}
