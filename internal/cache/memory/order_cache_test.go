package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brunopultz/orderms/internal/domain"
)

func testOrder(id int64) *domain.Order {
	return &domain.Order{
		OrderID:    id,
		CustomerID: 42,
		Items:      []domain.LineItem{{Product: "laptop", Quantity: 1, UnitPrice: decimal.NewFromInt(10)}},
		Total:      decimal.NewFromInt(10),
	}
}

func TestCache_SetGet(t *testing.T) {
	c := NewLRUCacheTTL(10, time.Minute)
	ctx := context.Background()

	if err := c.Set(ctx, testOrder(1)); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok := c.Get(ctx, 1)
	if !ok || got == nil || got.OrderID != 1 {
		t.Fatalf("want hit, got ok=%v order=%+v", ok, got)
	}
}

func TestCache_MissOnUnknownKey(t *testing.T) {
	c := NewLRUCacheTTL(10, time.Minute)

	if _, ok := c.Get(context.Background(), 404); ok {
		t.Fatal("want miss for unknown key")
	}
}

// Кэш отдаёт копию: мутация результата не меняет содержимое кэша.
func TestCache_GetReturnsCopy(t *testing.T) {
	c := NewLRUCacheTTL(10, time.Minute)
	ctx := context.Background()

	if err := c.Set(ctx, testOrder(1)); err != nil {
		t.Fatalf("set: %v", err)
	}

	first, _ := c.Get(ctx, 1)
	first.Items[0].Product = "mutated"
	first.CustomerID = 0

	second, _ := c.Get(ctx, 1)
	if second.Items[0].Product != "laptop" || second.CustomerID != 42 {
		t.Fatalf("cache content mutated through returned copy: %+v", second)
	}
}

func TestCache_EvictsLRUOverCapacity(t *testing.T) {
	c := NewLRUCacheTTL(2, time.Minute)
	ctx := context.Background()

	_ = c.Set(ctx, testOrder(1))
	_ = c.Set(ctx, testOrder(2))

	// трогаем 1, чтобы LRU-жертвой стал 2
	if _, ok := c.Get(ctx, 1); !ok {
		t.Fatal("want hit for 1")
	}

	_ = c.Set(ctx, testOrder(3))

	if _, ok := c.Get(ctx, 2); ok {
		t.Fatal("order 2 must be evicted")
	}
	if _, ok := c.Get(ctx, 1); !ok {
		t.Fatal("order 1 must survive")
	}
	if _, ok := c.Get(ctx, 3); !ok {
		t.Fatal("order 3 must be present")
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	c := NewLRUCacheTTL(10, 10*time.Millisecond)
	ctx := context.Background()

	_ = c.Set(ctx, testOrder(1))
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get(ctx, 1); ok {
		t.Fatal("entry must expire after TTL")
	}
}

// ttl <= 0 — записи не истекают.
func TestCache_ZeroTTLNeverExpires(t *testing.T) {
	c := NewLRUCacheTTL(10, 0)
	ctx := context.Background()

	_ = c.Set(ctx, testOrder(1))
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get(ctx, 1); !ok {
		t.Fatal("entry with zero ttl must not expire")
	}
}

func TestCache_SetUpdatesExisting(t *testing.T) {
	c := NewLRUCacheTTL(10, time.Minute)
	ctx := context.Background()

	_ = c.Set(ctx, testOrder(1))

	updated := testOrder(1)
	updated.Total = decimal.NewFromInt(99)
	_ = c.Set(ctx, updated)

	got, ok := c.Get(ctx, 1)
	if !ok || !got.Total.Equal(decimal.NewFromInt(99)) {
		t.Fatalf("want updated total 99, got ok=%v order=%+v", ok, got)
	}
}

func TestCache_IgnoresNilAndInvalid(t *testing.T) {
	c := NewLRUCacheTTL(10, time.Minute)
	ctx := context.Background()

	if err := c.Set(ctx, nil); err != nil {
		t.Fatalf("nil order: %v", err)
	}
	if err := c.Set(ctx, &domain.Order{OrderID: 0}); err != nil {
		t.Fatalf("zero id: %v", err)
	}
	if c.ll.Len() != 0 {
		t.Fatalf("cache must stay empty, len=%d", c.ll.Len())
	}
}

func TestCache_WarmUp(t *testing.T) {
	c := NewLRUCacheTTL(10, time.Minute)
	ctx := context.Background()

	orders := []*domain.Order{testOrder(1), testOrder(2), testOrder(3)}
	if err := c.WarmUp(ctx, orders); err != nil {
		t.Fatalf("warm up: %v", err)
	}

	for _, id := range []int64{1, 2, 3} {
		if _, ok := c.Get(ctx, id); !ok {
			t.Fatalf("order %d missing after warm up", id)
		}
	}
}

func TestCache_WarmUpStopsOnCancel(t *testing.T) {
	c := NewLRUCacheTTL(10, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.WarmUp(ctx, []*domain.Order{testOrder(1)}); err == nil {
		t.Fatal("want context error")
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := NewLRUCacheTTL(64, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(base int64) {
			defer wg.Done()
			for i := int64(1); i <= 50; i++ {
				id := base*100 + i
				_ = c.Set(ctx, testOrder(id))
				c.Get(ctx, id)
			}
		}(int64(g))
	}
	wg.Wait()
}
