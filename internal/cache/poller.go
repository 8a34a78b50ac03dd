package cache

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-risk-console/models"
)

// poller drives background refreshes of one subscribed resource. Pollers
// are created and discarded by the cache as polling toggles; durable
// per-resource state stays in the entry.
type poller struct {
	cache    *Cache
	id       models.ResourceID
	interval time.Duration

	stopOnce sync.Once
	stopCh   chan struct{}
	kickCh   chan struct{}
	wg       sync.WaitGroup
}

func newPoller(c *Cache, id models.ResourceID, interval time.Duration) *poller {
	return &poller{
		cache:    c,
		id:       id,
		interval: interval,
		stopCh:   make(chan struct{}),
		kickCh:   make(chan struct{}, 1),
	}
}

func (p *poller) start() {
	p.wg.Add(1)
	go p.run()
}

// run fires at the configured interval, rescheduling after each fetch so an
// interval change takes effect on the next cycle. A kick forces an
// immediate tick. The goroutine exits when stopped or when the cache has
// already moved on to a different poller for this resource.
func (p *poller) run() {
	defer p.wg.Done()

	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-p.kickCh:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		case <-timer.C:
		}

		if _, err := p.cache.FetchNow(context.Background(), p.id); err != nil {
			p.cache.logger.WithResource(p.id).Debug().Err(err).Msg("background poll failed")
		}

		interval, ok := p.cache.pollInterval(p)
		if !ok {
			return
		}
		timer.Reset(interval)
	}
}

// kick requests an immediate tick. Kicks arriving before the poller reacts
// coalesce into one.
func (p *poller) kick() {
	select {
	case p.kickCh <- struct{}{}:
	default:
	}
}

// stop signals the goroutine to exit without waiting for it, so it is safe
// under the cache lock.
func (p *poller) stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
}

// wait blocks until the goroutine has exited. Must not be called under the
// cache lock: the goroutine takes that lock to apply fetch results.
func (p *poller) wait() {
	p.wg.Wait()
}

// pollInterval returns the current polling interval of p's resource, and
// whether p is still the entry's active poller. A retired poller gets
// ok=false and exits.
func (c *Cache) pollInterval(p *poller) (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[p.id]
	if !ok || e.poller != p {
		return 0, false
	}
	return e.cfg.Interval, true
}
