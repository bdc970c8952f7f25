package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"gudang/internal/domain/catalogs/product"
	"gudang/pkg/logger"
)

// Stats holds cache hit/miss counters.
type Stats struct {
	Hits          int64 `json:"hits"`
	Misses        int64 `json:"misses"`
	TotalRequests int64 `json:"totalRequests"`
	L1Keys        int   `json:"l1Keys"`
}

// ProductCache is a two-level cache for barcode lookups: an in-process
// map in front of Redis. POS scanners hit the same products repeatedly,
// so even a small L1 takes most of the load off Redis.
type ProductCache struct {
	l1      map[string]*product.Product
	l1Mutex sync.RWMutex

	redisClient *redis.Client

	maxL1Size int
	ttl       time.Duration

	statsMutex sync.Mutex
	hits       int64
	misses     int64
}

// NewProductCache creates a new product cache.
func NewProductCache(redisClient *redis.Client, maxL1Size int, ttl time.Duration) *ProductCache {
	if maxL1Size <= 0 {
		maxL1Size = 1000
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ProductCache{
		l1:          make(map[string]*product.Product),
		redisClient: redisClient,
		maxL1Size:   maxL1Size,
		ttl:         ttl,
	}
}

func productKey(barcode string) string {
	return fmt.Sprintf("product:barcode:%s", barcode)
}

// GetByBarcode returns a cached product, or nil on miss.
func (c *ProductCache) GetByBarcode(ctx context.Context, barcode string) *product.Product {
	if p := c.getFromL1(barcode); p != nil {
		c.recordHit()
		return p
	}

	if c.redisClient != nil {
		data, err := c.redisClient.Get(ctx, productKey(barcode)).Result()
		if err == nil {
			var p product.Product
			if err := json.Unmarshal([]byte(data), &p); err == nil {
				c.setToL1(barcode, &p)
				c.recordHit()
				return &p
			}
		} else if err != redis.Nil {
			logger.Warn(ctx, "redis get failed", "key", productKey(barcode), "error", err)
		}
	}

	c.recordMiss()
	return nil
}

// Set stores a product in both cache levels.
func (c *ProductCache) Set(ctx context.Context, barcode string, p *product.Product) {
	c.setToL1(barcode, p)

	if c.redisClient == nil {
		return
	}

	data, err := json.Marshal(p)
	if err != nil {
		return
	}

	if err := c.redisClient.Set(ctx, productKey(barcode), data, c.ttl).Err(); err != nil {
		logger.Warn(ctx, "redis set failed", "key", productKey(barcode), "error", err)
	}
}

// Invalidate drops a product from both cache levels. Called on every
// product write so readers never see a stale row.
func (c *ProductCache) Invalidate(ctx context.Context, barcode string) {
	c.l1Mutex.Lock()
	delete(c.l1, barcode)
	c.l1Mutex.Unlock()

	if c.redisClient == nil {
		return
	}

	if err := c.redisClient.Del(ctx, productKey(barcode)).Err(); err != nil {
		logger.Warn(ctx, "redis del failed", "key", productKey(barcode), "error", err)
	}
}

// GetStats returns hit/miss counters.
func (c *ProductCache) GetStats() Stats {
	c.statsMutex.Lock()
	hits, misses := c.hits, c.misses
	c.statsMutex.Unlock()

	c.l1Mutex.RLock()
	l1Keys := len(c.l1)
	c.l1Mutex.RUnlock()

	return Stats{
		Hits:          hits,
		Misses:        misses,
		TotalRequests: hits + misses,
		L1Keys:        l1Keys,
	}
}

func (c *ProductCache) getFromL1(barcode string) *product.Product {
	c.l1Mutex.RLock()
	defer c.l1Mutex.RUnlock()
	return c.l1[barcode]
}

func (c *ProductCache) setToL1(barcode string, p *product.Product) {
	c.l1Mutex.Lock()
	defer c.l1Mutex.Unlock()

	if len(c.l1) >= c.maxL1Size {
		// Random eviction; map iteration order serves well enough here.
		for key := range c.l1 {
			delete(c.l1, key)
			break
		}
	}

	c.l1[barcode] = p
}

func (c *ProductCache) recordHit() {
	c.statsMutex.Lock()
	c.hits++
	c.statsMutex.Unlock()
}

func (c *ProductCache) recordMiss() {
	c.statsMutex.Lock()
	c.misses++
	c.statsMutex.Unlock()
}
