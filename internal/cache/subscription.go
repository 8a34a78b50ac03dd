package cache

import (
	"sync"

	"github.com/MKhiriev/go-risk-console/models"
)

// Subscription is the handle returned by [Cache.Subscribe]. It adjusts the
// polling config of its resource and releases the subscription.
type Subscription struct {
	cache *Cache
	id    models.ResourceID
	once  sync.Once
}

// ID returns the resource this subscription is attached to.
func (s *Subscription) ID() models.ResourceID {
	return s.id
}

// UpdateConfig replaces the polling config of the resource. An interval
// change takes effect on the poller's next scheduling cycle; toggling
// Enabled starts or stops polling immediately. Interval <= 0 falls back to
// the descriptor's default.
func (s *Subscription) UpdateConfig(cfg models.SubscriptionConfig) {
	c := s.cache
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[s.id]
	if !ok {
		return
	}
	if cfg.Interval <= 0 {
		cfg.Interval = e.defaultInterval
	}
	e.cfg = cfg
	c.syncPollerLocked(e)
}

// Unsubscribe releases the subscription. When the last subscriber leaves,
// polling stops but the entry stays warm: the cached value remains readable
// and is refetched on the next Subscribe if stale. Safe to call more than
// once.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		c := s.cache
		c.mu.Lock()
		defer c.mu.Unlock()

		e, ok := c.entries[s.id]
		if !ok {
			return
		}
		if e.subscriberCount > 0 {
			e.subscriberCount--
		}
		c.syncPollerLocked(e)
	})
}
