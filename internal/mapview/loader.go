// Package mapview fetches and draws the map panel for a focused note.
package mapview

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ramanasai/tripboard/internal/board"
	"github.com/ramanasai/tripboard/internal/geo"
)

const (
	DefaultEndpoint = "https://restapi.amap.com"
	DefaultTimeout  = 9 * time.Second
	DefaultZoom     = 11

	// AMap caps static maps at 1024 on either side.
	maxSide = 1024
)

var ErrNoCredential = errors.New("mapview: no map key configured")

// Request identifies one static map.
type Request struct {
	Center board.GeoLocation
	Width  int // pixels
	Height int
	Zoom   int
}

func (r Request) key() string {
	return fmt.Sprintf("%s/%dx%d/z%d", geo.FormatLngLat(r.Center), r.Width, r.Height, r.Zoom)
}

// Loader downloads static maps. Identical requests share one download and
// successful images are kept.
type Loader struct {
	endpoint string
	key      string
	http     *http.Client
	timeout  time.Duration
	logger   *slog.Logger

	group singleflight.Group

	mu     sync.Mutex
	images map[string]image.Image
}

type LoaderOption func(*Loader)

func WithHTTPClient(c *http.Client) LoaderOption { return func(l *Loader) { l.http = c } }
func WithTimeout(d time.Duration) LoaderOption    { return func(l *Loader) { l.timeout = d } }
func WithLogger(lg *slog.Logger) LoaderOption     { return func(l *Loader) { l.logger = lg } }

func NewLoader(endpoint, key string, opts ...LoaderOption) *Loader {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	l := &Loader{
		endpoint: strings.TrimRight(endpoint, "/"),
		key:      key,
		http:     http.DefaultClient,
		timeout:  DefaultTimeout,
		images:   map[string]image.Image{},
	}
	for _, o := range opts {
		o(l)
	}
	if l.logger == nil {
		l.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return l
}

// HasCredential reports whether live maps can be fetched at all.
func (l *Loader) HasCredential() bool { return l.key != "" }

// Cached returns an already downloaded map.
func (l *Loader) Cached(r Request) (image.Image, bool) {
	r = normalize(r)
	l.mu.Lock()
	defer l.mu.Unlock()
	img, ok := l.images[r.key()]
	return img, ok
}

// Load returns the map for r, downloading it at most once. Failures are not
// cached, so a later Load retries.
func (l *Loader) Load(ctx context.Context, r Request) (image.Image, error) {
	if l.key == "" {
		return nil, ErrNoCredential
	}
	r = normalize(r)
	if img, ok := l.Cached(r); ok {
		return img, nil
	}

	k := r.key()
	v, err, shared := l.group.Do(k, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
		defer cancel()
		img, err := l.fetch(ctx, r)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.images[k] = img
		l.mu.Unlock()
		return img, nil
	})
	if err != nil {
		l.logger.Warn("static map failed", "center", r.Center.String(), "err", err)
		return nil, err
	}
	if shared {
		l.logger.Debug("static map shared", "key", k)
	}
	return v.(image.Image), nil
}

func normalize(r Request) Request {
	if r.Zoom <= 0 {
		r.Zoom = DefaultZoom
	}
	r.Width = clamp(r.Width, 1, maxSide)
	r.Height = clamp(r.Height, 1, maxSide)
	return r
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// URL is the static map address for r.
func (l *Loader) URL(r Request) string {
	r = normalize(r)
	center := geo.FormatLngLat(r.Center)
	q := url.Values{}
	q.Set("location", center)
	q.Set("zoom", fmt.Sprint(r.Zoom))
	q.Set("size", fmt.Sprintf("%d*%d", r.Width, r.Height))
	q.Set("markers", "mid,,A:"+center)
	q.Set("key", l.key)
	return l.endpoint + "/v3/staticmap?" + q.Encode()
}

func (l *Loader) fetch(ctx context.Context, r Request) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL(r), nil)
	if err != nil {
		return nil, fmt.Errorf("static map request: %w", err)
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("static map: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("static map: http %d", resp.StatusCode)
	}
	// AMap answers errors with a JSON body and status 200.
	if ct := resp.Header.Get("Content-Type"); strings.Contains(ct, "json") {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("static map: %s", strings.TrimSpace(string(b)))
	}
	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("static map: decode: %w", err)
	}
	return img, nil
}
