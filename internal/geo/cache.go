// Package geo turns free-text place names into coordinates: a built-in city
// table first, then the AMap geocoding service, then a fixed fallback.
package geo

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ramanasai/tripboard/internal/board"
)

type entry struct {
	key string
	loc board.GeoLocation
}

// Common cities. Substring matching walks this slice in order.
var seed = []entry{
	{"paris", board.GeoLocation{Lng: 2.3522, Lat: 48.8566}},
	{"paris, france", board.GeoLocation{Lng: 2.3522, Lat: 48.8566}},
	{"france", board.GeoLocation{Lng: 2.3522, Lat: 48.8566}},
	{"beijing", board.GeoLocation{Lng: 116.3974, Lat: 39.9093}},
	{"beijing, china", board.GeoLocation{Lng: 116.3974, Lat: 39.9093}},
	{"北京", board.GeoLocation{Lng: 116.3974, Lat: 39.9093}},
	{"北京天安门", board.GeoLocation{Lng: 116.397428, Lat: 39.90923}},
	{"shanghai", board.GeoLocation{Lng: 121.4737, Lat: 31.2304}},
	{"shanghai, china", board.GeoLocation{Lng: 121.4737, Lat: 31.2304}},
	{"上海", board.GeoLocation{Lng: 121.4737, Lat: 31.2304}},
	{"london", board.GeoLocation{Lng: -0.1276, Lat: 51.5074}},
	{"london, uk", board.GeoLocation{Lng: -0.1276, Lat: 51.5074}},
	{"new york", board.GeoLocation{Lng: -74.006, Lat: 40.7128}},
	{"new york, usa", board.GeoLocation{Lng: -74.006, Lat: 40.7128}},
	{"tokyo", board.GeoLocation{Lng: 139.6503, Lat: 35.6762}},
	{"tokyo, japan", board.GeoLocation{Lng: 139.6503, Lat: 35.6762}},
}

// DefaultLearned bounds how many geocoded places are remembered.
const DefaultLearned = 256

// Cache answers lookups from the seed table plus places learned at runtime.
type Cache struct {
	static  []entry
	learned *lru.Cache[string, board.GeoLocation]
}

func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultLearned
	}
	learned, err := lru.New[string, board.GeoLocation](size)
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}
	return &Cache{static: append([]entry(nil), seed...), learned: learned}
}

func normalize(place string) string {
	return strings.ToLower(strings.TrimSpace(place))
}

// Lookup tries an exact match, then a substring match in either direction.
// Empty input never matches.
func (c *Cache) Lookup(place string) (board.GeoLocation, bool) {
	q := normalize(place)
	if q == "" {
		return board.GeoLocation{}, false
	}

	if loc, ok := c.learned.Get(q); ok {
		return loc, true
	}
	for _, e := range c.static {
		if e.key == q {
			return e.loc, true
		}
	}

	for _, e := range c.static {
		if strings.Contains(q, e.key) || strings.Contains(e.key, q) {
			return c.preferLearned(e), true
		}
	}
	for _, k := range c.learned.Keys() {
		if strings.Contains(q, k) || strings.Contains(k, q) {
			loc, _ := c.learned.Peek(k)
			return loc, true
		}
	}
	return board.GeoLocation{}, false
}

// A learned value replaces a seed value for the same key.
func (c *Cache) preferLearned(e entry) board.GeoLocation {
	if loc, ok := c.learned.Peek(e.key); ok {
		return loc
	}
	return e.loc
}

// Learn remembers a resolved place.
func (c *Cache) Learn(place string, loc board.GeoLocation) {
	q := normalize(place)
	if q == "" {
		return
	}
	c.learned.Add(q, loc)
}

// Places lists every known key, seed table first. Used for suggestions.
func (c *Cache) Places() []string {
	out := make([]string, 0, len(c.static)+c.learned.Len())
	seen := make(map[string]bool, cap(out))
	for _, e := range c.static {
		out = append(out, e.key)
		seen[e.key] = true
	}
	for _, k := range c.learned.Keys() {
		if !seen[k] {
			out = append(out, k)
		}
	}
	return out
}
