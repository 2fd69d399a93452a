package speech

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Cache is an in-memory LRU of rendered PCM, compressed with zstd. It lives
// for the process only.
type Cache struct {
	capacity int64 // compressed bytes
	size     int64

	items    map[string]*list.Element
	eviction *list.List

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	mu    sync.Mutex
	stats CacheStats
}

// CacheStats reports cache activity.
type CacheStats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int64 // compressed bytes held
	Raw       int64 // uncompressed bytes held
	Capacity  int64
}

type cacheEntry struct {
	key  string
	data []byte
	raw  int64
}

// NewCache creates a cache holding at most capacity compressed bytes.
func NewCache(capacity int64) (*Cache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("cache capacity must be positive, got %d", capacity)
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close() //nolint:errcheck
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &Cache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		eviction: list.New(),
		encoder:  enc,
		decoder:  dec,
		stats:    CacheStats{Capacity: capacity},
	}, nil
}

// CacheKey derives a key from the parts that determine rendered audio.
func CacheKey(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:])
}

// Get returns the decompressed value for key.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	entry := elem.Value.(*cacheEntry)
	value, err := c.decoder.DecodeAll(entry.data, nil)
	if err != nil {
		c.remove(elem)
		c.stats.Misses++
		return nil, false
	}

	c.eviction.MoveToFront(elem)
	c.stats.Hits++
	return value, true
}

// Put compresses and stores value, evicting least recently used entries to
// make room.
func (c *Cache) Put(key string, value []byte) error {
	data := c.encoder.EncodeAll(value, nil)
	size := int64(len(data))

	c.mu.Lock()
	defer c.mu.Unlock()

	if size > c.capacity {
		return ErrItemTooLarge
	}
	if elem, ok := c.items[key]; ok {
		c.remove(elem)
	}
	for c.size+size > c.capacity && c.eviction.Len() > 0 {
		c.remove(c.eviction.Back())
		c.stats.Evictions++
	}

	entry := &cacheEntry{key: key, data: data, raw: int64(len(value))}
	c.items[key] = c.eviction.PushFront(entry)
	c.size += size
	c.stats.Raw += entry.raw
	c.stats.Size = c.size
	return nil
}

func (c *Cache) remove(elem *list.Element) {
	entry := elem.Value.(*cacheEntry)
	c.eviction.Remove(elem)
	delete(c.items, entry.key)
	c.size -= int64(len(entry.data))
	c.stats.Raw -= entry.raw
	c.stats.Size = c.size
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns a snapshot of cache statistics.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Close releases the codec resources.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.eviction.Init()
	c.size = 0
	c.decoder.Close()
	return c.encoder.Close()
}
