package search

import (
	"fmt"
	"sync"
	"time"
)

const (
	defaultCacheTTL = 30 * time.Minute
	maxCacheEntries = 100
)

// cacheEntry 单个缓存条目，到达过期时间后视为未命中
type cacheEntry struct {
	results   []Result
	expiresAt time.Time
}

// Cache 按（查询文本, 条数上限）记忆完整的查询到结果集映射，
// 空结果集同样缓存。HTTP 服务并发处理请求，读写需加锁；
// 条目数超过上限时在写入前惰性清理过期项。
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

// NewCache 创建缓存，ttl 非正时取默认 30 分钟
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// Get 返回未过期的缓存结果
func (c *Cache) Get(q Query) ([]Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[cacheKey(q)]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.results, true
}

// Put 写入一次检索的最终结果集
func (c *Cache) Put(q Query, results []Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) > maxCacheEntries {
		now := time.Now()
		for k, e := range c.entries {
			if now.After(e.expiresAt) {
				delete(c.entries, k)
			}
		}
	}
	c.entries[cacheKey(q)] = cacheEntry{
		results:   results,
		expiresAt: time.Now().Add(c.ttl),
	}
}

func cacheKey(q Query) string {
	return fmt.Sprintf("%s|%d", q.Text, q.MaxResults)
}
