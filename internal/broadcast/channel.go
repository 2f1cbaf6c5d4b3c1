// 包 broadcast 提供“最新值”发布/订阅通道：
// - 新订阅者立即收到当前最新值
// - Publish 按订阅顺序同步通知全部订阅者
// - 只保留一个最新值槽位，不缓存中间值
package broadcast

import (
	"sync"
)

// Channel 为单生产者、多消费者的最新值通道，可跨 goroutine 使用。
type Channel[T any] struct {
	// pubMu 串行化 Publish 与 Subscribe 的首次投递，保证每个订阅者看到的序列单调。
	pubMu  sync.Mutex
	mu     sync.RWMutex
	latest T
	nextID uint64
	subs   []subscriber[T]
}

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// Subscription 为订阅句柄，Unsubscribe 可重复调用。
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Unsubscribe 取消订阅；之后不再收到任何值。
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

// New 以初始值创建通道。
func New[T any](initial T) *Channel[T] {
	return &Channel[T]{latest: initial}
}

// Subscribe 注册回调并立即投递最新值。
// 回调在发布者 goroutine 中同步执行，不得在回调内再次 Publish 或 Subscribe；
// 回调内调用 Unsubscribe 是允许的。
func (c *Channel[T]) Subscribe(fn func(T)) *Subscription {
	c.pubMu.Lock()
	defer c.pubMu.Unlock()

	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscriber[T]{id: id, fn: fn})
	v := c.latest
	c.mu.Unlock()

	fn(v)
	return &Subscription{cancel: func() { c.remove(id) }}
}

// Publish 更新最新值并按订阅顺序同步通知。
func (c *Channel[T]) Publish(v T) {
	c.pubMu.Lock()
	defer c.pubMu.Unlock()

	c.mu.Lock()
	c.latest = v
	subs := make([]subscriber[T], len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, s := range subs {
		if !c.active(s.id) {
			continue
		}
		s.fn(v)
	}
}

// Latest 返回最近一次发布（或初始）的值。
func (c *Channel[T]) Latest() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latest
}

// Len 返回当前订阅者数量。
func (c *Channel[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.subs)
}

func (c *Channel[T]) active(id uint64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range c.subs {
		if s.id == id {
			return true
		}
	}
	return false
}

func (c *Channel[T]) remove(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, s := range c.subs {
		if s.id == id {
			c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
			return
		}
	}
}
