package cache

import (
	"sync"
	"time"

	"github.com/rezonsoft/pamiatki/internal/models"
)

type entry struct {
	products  []*models.CatalogProduct
	timestamp time.Time
}

// MemoryCatalogCache - кэш каталога в памяти процесса с фиксированным TTL.
// Записи не вытесняются, только перезаписываются; кэш живёт до рестарта.
type MemoryCatalogCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryCatalogCache создаёт кэш с заданным временем жизни записей.
func NewMemoryCatalogCache(ttl time.Duration) *MemoryCatalogCache {
	return &MemoryCatalogCache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get возвращает закэшированные товары локации, время записи и признак попадания.
// Просроченные записи считаются промахом.
func (c *MemoryCatalogCache) Get(location string) ([]*models.CatalogProduct, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[location]
	if !ok {
		return nil, time.Time{}, false
	}
	if c.now().Sub(e.timestamp) >= c.ttl {
		return nil, time.Time{}, false
	}
	return e.products, e.timestamp, true
}

// Set записывает товары локации, перезаписывая предыдущую запись.
func (c *MemoryCatalogCache) Set(location string, products []*models.CatalogProduct) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[location] = entry{products: products, timestamp: c.now()}
}
