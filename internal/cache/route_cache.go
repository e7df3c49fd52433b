// Package cache 提供按路由键寻址的进程内文档缓存。
// 失效采用惰性策略：过期条目在下一次读取时丢弃，没有后台清理任务。
package cache

import (
	"strings"
	"sync"
	"time"
)

type entry struct {
	payload   []byte
	expiresAt time.Time
}

// RouteCache 缓存按路由键存放的序列化文档。
// 写入总是整体替换，读者要么命中完整的旧值要么未命中。
type RouteCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewRouteCache 构造 RouteCache。
func NewRouteCache() *RouteCache {
	return &RouteCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// WithClock 替换时间源，主要面向测试场景。
func (c *RouteCache) WithClock(now func() time.Time) *RouteCache {
	if now != nil {
		c.now = now
	}
	return c
}

// Get 返回路由键对应的缓存载荷；过期或缺失返回 false。
func (c *RouteCache) Get(route string) ([]byte, bool) {
	c.mu.RLock()
	cached, ok := c.entries[route]
	c.mu.RUnlock()

	if !ok || c.now().After(cached.expiresAt) {
		return nil, false
	}
	return cached.payload, true
}

// Set 写入路由键对应的载荷，ttl 必须为正。
func (c *RouteCache) Set(route string, payload []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[route] = entry{payload: payload, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
}

// Invalidate 丢弃单个路由键的缓存条目。
func (c *RouteCache) Invalidate(route string) {
	c.mu.Lock()
	delete(c.entries, route)
	c.mu.Unlock()
}

// InvalidatePrefix 丢弃所有以 prefix 开头的路由键。
func (c *RouteCache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	for route := range c.entries {
		if strings.HasPrefix(route, prefix) {
			delete(c.entries, route)
		}
	}
	c.mu.Unlock()
}

// Clear 清空全部缓存条目。
func (c *RouteCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}
