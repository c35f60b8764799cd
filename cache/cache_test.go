package cache_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/radkit/radpersonel/cache"
)

// fakeClock lets tests advance time without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache() (*cache.Cache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)}
	return cache.NewWithClock(clock.Now), clock
}

func TestCache_GetWithinTTL_ReturnsValue(t *testing.T) {
	// GIVEN: A value cached with a 10-minute TTL
	// WHEN: Reading before expiry
	// THEN: The value is returned

	c, clock := newTestCache()
	c.Set("personnel:Personel", "snapshot", 10*time.Minute)

	clock.Advance(9 * time.Minute)
	v, ok := c.Get("personnel:Personel")
	assert.True(t, ok)
	assert.Equal(t, "snapshot", v)
}

func TestCache_GetAfterTTL_Misses(t *testing.T) {
	// GIVEN: A cached value whose TTL has elapsed
	// WHEN: Reading after expiry
	// THEN: The entry is gone

	c, clock := newTestCache()
	c.Set("personnel:Personel", "snapshot", 5*time.Minute)

	clock.Advance(5 * time.Minute) // expiry is exclusive: now == expiry misses
	_, ok := c.Get("personnel:Personel")
	assert.False(t, ok, "entry must be absent at expiry")
}

func TestCache_DefaultTTL_Applied(t *testing.T) {
	c, clock := newTestCache()
	c.Set("k", 1, 0)

	clock.Advance(cache.DefaultTTL - time.Second)
	_, ok := c.Get("k")
	assert.True(t, ok, "should live for the default 300s")

	clock.Advance(2 * time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestCache_InvalidatePattern_RemovesMatchingKeys(t *testing.T) {
	// GIVEN: Sheets cached from two workbooks
	// WHEN: Invalidating by workbook prefix
	// THEN: Every sheet of that workbook is flushed, others survive

	c, _ := newTestCache()
	c.Set("personnel:Personel", 1, time.Minute)
	c.Set("personnel:FHSZ_Puantaj", 2, time.Minute)
	c.Set("personnel:izin_giris", 3, time.Minute)
	c.Set("device:Cihazlar", 4, time.Minute)

	c.InvalidatePattern("personnel:")

	for _, key := range []string{"personnel:Personel", "personnel:FHSZ_Puantaj", "personnel:izin_giris"} {
		_, ok := c.Get(key)
		assert.False(t, ok, "key %s should be flushed", key)
	}
	_, ok := c.Get("device:Cihazlar")
	assert.True(t, ok, "other workbooks stay cached")
}

func TestCache_InvalidateSingleKey(t *testing.T) {
	c, _ := newTestCache()
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	c.Invalidate("a")

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)
}

func TestCache_Clear(t *testing.T) {
	c, _ := newTestCache()
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	c.Clear()

	assert.Equal(t, 0, c.Len())
}

func TestCache_SetOverwrites(t *testing.T) {
	c, _ := newTestCache()
	c.Set("k", "old", time.Minute)
	c.Set("k", "new", time.Minute)

	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "new", v)
}

func TestCache_ConcurrentAccess_NoRace(t *testing.T) {
	// Exercised under -race: concurrent Set/Get/InvalidatePattern on
	// overlapping keys must not corrupt the map.

	c, _ := newTestCache()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("wb%d:sheet%d", n%4, j%8)
				c.Set(key, j, time.Minute)
				c.Get(key)
				if j%25 == 0 {
					c.InvalidatePattern(fmt.Sprintf("wb%d:", n%4))
				}
			}
		}(i)
	}
	wg.Wait()
}
