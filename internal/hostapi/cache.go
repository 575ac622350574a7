// ABOUTME: Single-slot cache for the properties summary
// ABOUTME: Records every successful fetch; short-circuits only when enabled

package hostapi

import (
	"time"

	"github.com/karlseguin/ccache/v3"
)

const (
	propertiesKey = "properties"

	// PropertiesTTL is how long a cached properties summary counts as fresh
	PropertiesTTL = time.Hour
)

type propertiesEntry struct {
	payload   PropertyList
	fetchedAt time.Time
}

type propertiesCache struct {
	slots   *ccache.Cache[*propertiesEntry]
	enabled bool
	now     func() time.Time
}

func newPropertiesCache(enabled bool, now func() time.Time) *propertiesCache {
	return &propertiesCache{
		slots:   ccache.New(ccache.Configure[*propertiesEntry]().MaxSize(10)),
		enabled: enabled,
		now:     now,
	}
}

func (c *propertiesCache) store(payload PropertyList) {
	c.slots.Set(propertiesKey, &propertiesEntry{payload: payload, fetchedAt: c.now()}, PropertiesTTL)
}

func (c *propertiesCache) entry() (*propertiesEntry, bool) {
	item := c.slots.Get(propertiesKey)
	if item == nil {
		return nil, false
	}
	return item.Value(), true
}

// fresh returns the cached payload if short-circuiting is on and the slot is younger than the TTL
func (c *propertiesCache) fresh() (PropertyList, bool) {
	if !c.enabled {
		return PropertyList{}, false
	}
	e, ok := c.entry()
	if !ok || c.now().Sub(e.fetchedAt) >= PropertiesTTL {
		return PropertyList{}, false
	}
	return e.payload, true
}

func (c *propertiesCache) clear() {
	c.slots.Delete(propertiesKey)
}

func (c *propertiesCache) stop() {
	c.slots.Stop()
}
