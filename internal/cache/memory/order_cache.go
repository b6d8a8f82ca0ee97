package memory

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/brunopultz/orderms/internal/domain"
	"github.com/brunopultz/orderms/internal/ports"
	"github.com/brunopultz/orderms/pkg/metrics"
)

// Проверка, что LRUCacheTTL удовлетворяет порту OrderCache.
var _ ports.OrderCache = (*LRUCacheTTL)(nil)

type entry struct {
	id        int64
	order     *domain.Order
	expiresAt time.Time
}

// LRUCacheTTL — потокобезопасный LRU-кэш заказов с TTL.
// Ключ — order_id; наружу всегда отдаются копии, чтобы внешние изменения
// не затрагивали данные внутри кэша.
type LRUCacheTTL struct {
	capacity int
	ttl      time.Duration

	ll    *list.List
	index map[int64]*list.Element

	mu sync.Mutex
}

func NewLRUCacheTTL(capacity int, ttl time.Duration) *LRUCacheTTL {
	if capacity <= 0 {
		capacity = 1
	}
	return &LRUCacheTTL{
		capacity: capacity,
		ttl:      ttl,
		ll:       list.New(),
		index:    make(map[int64]*list.Element),
	}
}

func (c *LRUCacheTTL) Get(_ context.Context, id int64) (*domain.Order, bool) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.index[id]
	if !ok {
		metrics.CacheOps.WithLabelValues("miss").Inc()
		return nil, false
	}
	ent := elem.Value.(*entry)
	if c.isExpired(ent, now) {
		metrics.CacheOps.WithLabelValues("expired").Inc()
		c.removeElement(elem)
		metrics.CacheSize.Set(float64(len(c.index)))
		return nil, false
	}
	c.ll.MoveToFront(elem)

	// Продлеваем TTL при обращении.
	if c.ttl > 0 {
		ent.expiresAt = c.expiryFrom(now)
	}

	metrics.CacheOps.WithLabelValues("hit").Inc()
	return cloneOrder(ent.order), true
}

func (c *LRUCacheTTL) Set(_ context.Context, order *domain.Order) error {
	if order == nil || order.OrderID <= 0 {
		return nil
	}
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[order.OrderID]; ok {
		ent := elem.Value.(*entry)
		ent.order = cloneOrder(order)
		ent.expiresAt = c.expiryFrom(now)
		c.ll.MoveToFront(elem)
		return nil
	}

	c.pruneExpiredFromBack(now)
	if c.ll.Len() >= c.capacity {
		c.evictLRU()
	}

	elem := c.ll.PushFront(&entry{
		id:        order.OrderID,
		order:     cloneOrder(order),
		expiresAt: c.expiryFrom(now),
	})
	c.index[order.OrderID] = elem
	metrics.CacheSize.Set(float64(len(c.index)))
	return nil
}

func (c *LRUCacheTTL) WarmUp(ctx context.Context, orders []*domain.Order) error {
	for _, order := range orders {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.Set(ctx, order); err != nil {
			return err
		}
	}
	return nil
}
