package tiles

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"

	// Some tile servers answer WebP regardless of the requested extension.
	_ "golang.org/x/image/webp"
)

const maxTileBytes = 4 << 20

// Cache fetches tiles over HTTP on demand and keeps the decoded images in an
// LRU cache. Lookups never block: a miss starts one background fetch and
// reports not-found until the tile arrives.
type Cache struct {
	template string
	client   *http.Client
	onLoad   func()

	images *lru.Cache

	mu       sync.Mutex
	inflight map[Coord]bool
	failed   map[Coord]time.Time
}

// NewCache builds a cache of up to size decoded tiles for the given URL
// template. onLoad is called after every completed fetch (from the fetching
// goroutine) so the host can invalidate its window; it may be nil.
func NewCache(template string, size int, onLoad func()) (*Cache, error) {
	images, err := lru.New(size)
	if err != nil {
		return nil, err
	}

	return &Cache{
		template: template,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		onLoad:   onLoad,
		images:   images,
		inflight: map[Coord]bool{},
		failed:   map[Coord]time.Time{},
	}, nil
}

// Get returns the tile image if it is cached. On a miss it schedules a fetch
// and returns false.
func (c *Cache) Get(coord Coord) (image.Image, bool) {
	if !coord.Valid() {
		return nil, false
	}

	if img, ok := c.images.Get(coord); ok {
		return img.(image.Image), true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inflight[coord] {
		return nil, false
	}
	if until, ok := c.failed[coord]; ok {
		if time.Now().Before(until) {
			return nil, false
		}
		delete(c.failed, coord)
	}

	c.inflight[coord] = true
	go c.fetch(coord)

	return nil, false
}

// Len returns the number of cached tiles.
func (c *Cache) Len() int {
	return c.images.Len()
}

func (c *Cache) fetch(coord Coord) {
	img, err := c.download(coord)

	c.mu.Lock()
	delete(c.inflight, coord)
	if err != nil {
		// Back off so a broken server is not hammered on every frame.
		c.failed[coord] = time.Now().Add(30 * time.Second)
	}
	c.mu.Unlock()

	if err == nil {
		c.images.Add(coord, img)
	}

	if c.onLoad != nil {
		c.onLoad()
	}
}

func (c *Cache) download(coord Coord) (image.Image, error) {
	url := coord.URL(c.template)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "geosketch/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching tile %v failed: %s", coord, resp.Status)
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, maxTileBytes))
	if err != nil {
		return nil, fmt.Errorf("decoding tile %v failed: %w", coord, err)
	}

	return img, nil
}
