package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tailortalk/booking-assistant/internal/config"
	"github.com/tailortalk/booking-assistant/internal/core/domain"
	"github.com/tailortalk/booking-assistant/internal/core/ports/out"
)

const dayKeyLayout = "2006-01-02"

// LRUCacheAdapter keeps computed slot lists keyed by calendar, day and
// slot duration. Entries for a day are dropped together when the
// calendar changes.
type LRUCacheAdapter struct {
	cache  *lru.Cache[string, []domain.Slot]
	mu     sync.RWMutex
	logger out.LoggerPort
}

func NewLRUCacheAdapter(cfg *config.Config, logger out.LoggerPort) (*LRUCacheAdapter, error) {
	if !cfg.Cache.Enabled {
		logger.Info("cache.disabled", out.LogFields{
			"message": "Slot cache is disabled",
		})
		return nil, nil
	}

	cache, err := lru.New[string, []domain.Slot](cfg.Cache.Size)
	if err != nil {
		logger.Error("cache.init.failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.Size,
		})
		return nil, err
	}

	return &LRUCacheAdapter{
		cache:  cache,
		logger: logger.WithModule("CacheAdapter"),
	}, nil
}

func entryKey(calendarID string, day time.Time, duration time.Duration) string {
	return fmt.Sprintf("%s|%s|%d", calendarID, day.Format(dayKeyLayout), int(duration.Minutes()))
}

func dayPrefix(calendarID string, day time.Time) string {
	return fmt.Sprintf("%s|%s|", calendarID, day.Format(dayKeyLayout))
}

func (c *LRUCacheAdapter) GetSlots(ctx context.Context, calendarID string, day time.Time, duration time.Duration) ([]domain.Slot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	key := entryKey(calendarID, day, duration)
	slots, exists := c.cache.Get(key)
	if !exists {
		c.logger.Debug("cache.get.miss", out.LogFields{
			"key": key,
		})
		return nil, false
	}

	c.logger.Debug("cache.get.hit", out.LogFields{
		"key":        key,
		"slotsCount": len(slots),
	})
	return slots, true
}

func (c *LRUCacheAdapter) StoreSlots(ctx context.Context, calendarID string, day time.Time, duration time.Duration, slots []domain.Slot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := entryKey(calendarID, day, duration)
	c.logger.Debug("cache.store", out.LogFields{
		"key":        key,
		"slotsCount": len(slots),
	})

	c.cache.Add(key, slots)
}

func (c *LRUCacheAdapter) InvalidateDay(ctx context.Context, calendarID string, day time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := dayPrefix(calendarID, day)
	removed := 0
	for _, key := range c.cache.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.cache.Remove(key)
			removed++
		}
	}

	c.logger.Debug("cache.invalidate.day", out.LogFields{
		"prefix":  prefix,
		"removed": removed,
	})
}

func (c *LRUCacheAdapter) InvalidateAll(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Info("cache.invalidate.all", nil)
	c.cache.Purge()
}
