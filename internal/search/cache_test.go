package search

import (
	"testing"
	"time"
)

func TestCacheHit(t *testing.T) {
	c := NewCache(time.Minute)
	q := Query{Text: "ai news", MaxResults: 20}
	want := []Result{{Title: "A", URL: "http://a.example"}}

	c.Put(q, want)
	got, ok := c.Get(q)
	if !ok {
		t.Fatal("Get() ok = false, want hit")
	}
	if len(got) != 1 || got[0].URL != "http://a.example" {
		t.Errorf("Get() got = %+v, want %+v", got, want)
	}
}

func TestCacheKeyIncludesMaxResults(t *testing.T) {
	c := NewCache(time.Minute)
	c.Put(Query{Text: "ai news", MaxResults: 20}, []Result{{URL: "http://a.example"}})

	if _, ok := c.Get(Query{Text: "ai news", MaxResults: 10}); ok {
		t.Error("Get() with different MaxResults hit, want miss")
	}
	if _, ok := c.Get(Query{Text: "other", MaxResults: 20}); ok {
		t.Error("Get() with different Text hit, want miss")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(time.Minute)
	q := Query{Text: "ai news", MaxResults: 20}
	c.Put(q, []Result{{URL: "http://a.example"}})

	// 手动把条目拨到过期
	c.mu.Lock()
	e := c.entries[cacheKey(q)]
	e.expiresAt = time.Now().Add(-time.Second)
	c.entries[cacheKey(q)] = e
	c.mu.Unlock()

	if _, ok := c.Get(q); ok {
		t.Error("Get() after expiry hit, want miss")
	}
}

func TestCacheStoresEmptyResultSet(t *testing.T) {
	c := NewCache(time.Minute)
	q := Query{Text: "nothing found", MaxResults: 20}

	c.Put(q, nil)
	got, ok := c.Get(q)
	if !ok {
		t.Fatal("Get() ok = false, want hit for cached empty set")
	}
	if len(got) != 0 {
		t.Errorf("Get() got = %+v, want empty", got)
	}
}

func TestCacheDefaultTTL(t *testing.T) {
	c := NewCache(0)
	if c.ttl != defaultCacheTTL {
		t.Errorf("NewCache(0).ttl = %v, want %v", c.ttl, defaultCacheTTL)
	}
}

func TestCacheEvictsExpiredWhenFull(t *testing.T) {
	c := NewCache(time.Minute)
	past := time.Now().Add(-time.Second)

	c.mu.Lock()
	for i := 0; i <= maxCacheEntries; i++ {
		q := Query{Text: "q", MaxResults: i}
		c.entries[cacheKey(q)] = cacheEntry{expiresAt: past}
	}
	c.mu.Unlock()

	c.Put(Query{Text: "fresh", MaxResults: 1}, nil)

	c.mu.Lock()
	n := len(c.entries)
	c.mu.Unlock()
	if n != 1 {
		t.Errorf("entries after eviction = %d, want 1", n)
	}
}
