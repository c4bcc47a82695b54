package pool

import (
	"errors"
	"testing"
)

// item 测试用可复用对象
type item struct {
	id       int
	health   float64
	velocity float64
	dead     bool
}

func newItemPool(t *testing.T, cfg Config) (*Pool[*item], *int) {
	t.Helper()
	created := 0
	p, err := New(cfg,
		func() *item {
			created++
			return &item{id: created, health: 100}
		},
		func(it *item) {
			it.health = 100
			it.velocity = 0
			it.dead = false
		},
		nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return p, &created
}

func checkInvariant(t *testing.T, p *Pool[*item]) {
	t.Helper()
	info := p.Info()
	if info.Active+info.Available > info.TotalCreated {
		t.Errorf("Invariant violated: active(%d)+available(%d) > totalCreated(%d)",
			info.Active, info.Available, info.TotalCreated)
	}
}

func TestNewPool(t *testing.T) {
	t.Run("构造函数为空", func(t *testing.T) {
		_, err := New[*item](Config{Name: "x", MaxSize: 1}, nil, nil, nil)
		if !errors.Is(err, ErrNilFactory) {
			t.Errorf("Expected ErrNilFactory, got %v", err)
		}
	})

	t.Run("预热数量超过上限", func(t *testing.T) {
		_, err := New(Config{Name: "x", InitialSize: 3, MaxSize: 2}, func() *item { return &item{} }, nil, nil)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("预热", func(t *testing.T) {
		p, created := newItemPool(t, Config{Name: "x", InitialSize: 4, MaxSize: 8})
		info := p.Info()
		if *created != 4 || info.Available != 4 || info.TotalCreated != 4 || info.Active != 0 {
			t.Errorf("Unexpected prewarm state: %+v (created=%d)", info, *created)
		}
	})
}

// 固定容量池：第 M+1 次并发 Acquire 失败，归还一个后可再次取出
func TestFixedPoolBound(t *testing.T) {
	p, _ := newItemPool(t, Config{Name: "fixed", InitialSize: 5, MaxSize: 5})

	var held []*item
	for i := 0; i < 5; i++ {
		it, ok := p.Acquire()
		if !ok {
			t.Fatalf("Acquire %d failed", i+1)
		}
		held = append(held, it)
		checkInvariant(t, p)
	}

	if _, ok := p.Acquire(); ok {
		t.Fatal("Expected 6th Acquire to fail")
	}
	if p.ActiveCount() != 5 {
		t.Errorf("Expected 5 active, got %d", p.ActiveCount())
	}

	if !p.Release(held[0]) {
		t.Fatal("Release failed")
	}
	it, ok := p.Acquire()
	if !ok {
		t.Fatal("Expected Acquire after Release to succeed")
	}
	if it != held[0] {
		t.Error("Expected released instance to be reused")
	}
	checkInvariant(t, p)
}

func TestFixedPoolGrowsUpToMax(t *testing.T) {
	p, created := newItemPool(t, Config{Name: "lazy", InitialSize: 0, MaxSize: 3})

	for i := 0; i < 3; i++ {
		if _, ok := p.Acquire(); !ok {
			t.Fatalf("Acquire %d failed", i+1)
		}
	}
	if _, ok := p.Acquire(); ok {
		t.Error("Expected Acquire beyond maxSize to fail")
	}
	if *created != 3 {
		t.Errorf("Expected exactly 3 instances created, got %d", *created)
	}
}

func TestAutoExpand(t *testing.T) {
	p, created := newItemPool(t, Config{Name: "auto", InitialSize: 2, MaxSize: 2, AutoExpand: true, ExpandStep: 4})

	for i := 0; i < 2; i++ {
		p.Acquire()
	}

	it, ok := p.Acquire()
	if !ok || it == nil {
		t.Fatal("Expected auto-expanding Acquire to succeed")
	}

	info := p.Info()
	if *created != 6 {
		t.Errorf("Expected 6 created (2 + step 4), got %d", *created)
	}
	if info.Available != 3 {
		t.Errorf("Expected step-1 = 3 enqueued, got %d", info.Available)
	}
	if info.Active != 3 {
		t.Errorf("Expected 3 active, got %d", info.Active)
	}
	if info.MaxSize < info.TotalCreated {
		t.Errorf("Expected ceiling raised to at least %d, got %d", info.TotalCreated, info.MaxSize)
	}
	checkInvariant(t, p)
}

func TestReleaseIdempotent(t *testing.T) {
	p, _ := newItemPool(t, Config{Name: "x", InitialSize: 1, MaxSize: 1})

	it, _ := p.Acquire()

	t.Run("重复归还", func(t *testing.T) {
		if !p.Release(it) {
			t.Fatal("First release should succeed")
		}
		if p.Release(it) {
			t.Error("Double release should be a no-op")
		}
		info := p.Info()
		if info.Available != 1 || info.Active != 0 {
			t.Errorf("Double release corrupted state: %+v", info)
		}
	})

	t.Run("归还未追踪对象", func(t *testing.T) {
		if p.Release(&item{}) {
			t.Error("Releasing a foreign instance should be a no-op")
		}
		checkInvariant(t, p)
	})
}

// 任意 Acquire/Release 序列下，取出的对象都已完全重置
func TestReuseSafety(t *testing.T) {
	p, _ := newItemPool(t, Config{Name: "x", InitialSize: 3, MaxSize: 3})

	for round := 0; round < 20; round++ {
		var held []*item
		for i := 0; i < 3; i++ {
			it, ok := p.Acquire()
			if !ok {
				t.Fatalf("round %d: Acquire failed", round)
			}
			if it.health != 100 || it.dead || it.velocity != 0 {
				t.Fatalf("round %d: leaked state %+v", round, *it)
			}
			it.health = 0
			it.dead = true
			it.velocity = float64(round + 1)
			held = append(held, it)
		}
		for i := len(held) - 1; i >= 0; i-- {
			p.Release(held[i])
		}
		checkInvariant(t, p)
	}
}

func TestQueueIsFIFO(t *testing.T) {
	p, _ := newItemPool(t, Config{Name: "x", InitialSize: 3, MaxSize: 3})

	a, _ := p.Acquire()
	b, _ := p.Acquire()
	p.Release(b)
	p.Release(a)

	c, _ := p.Acquire() // 预热剩余的第三个
	d, _ := p.Acquire()
	e, _ := p.Acquire()
	if c.id != 3 || d != b || e != a {
		t.Errorf("Expected FIFO order [3, b, a], got [%d, %d, %d]", c.id, d.id, e.id)
	}
}

func TestGroup(t *testing.T) {
	g := NewGroup[*item](nil)

	factory := func() *item { return &item{health: 100} }
	if _, err := g.Register(Config{Name: "a", InitialSize: 1, MaxSize: 2}, factory, nil); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	t.Run("重名", func(t *testing.T) {
		_, err := g.Register(Config{Name: "a", MaxSize: 1}, factory, nil)
		if !errors.Is(err, ErrDuplicatePool) {
			t.Errorf("Expected ErrDuplicatePool, got %v", err)
		}
	})

	t.Run("构造函数为空时跳过该池", func(t *testing.T) {
		if _, err := g.Register(Config{Name: "b", MaxSize: 1}, nil, nil); !errors.Is(err, ErrNilFactory) {
			t.Errorf("Expected ErrNilFactory, got %v", err)
		}
		if _, ok := g.Get("b"); ok {
			t.Error("Pool with nil factory should not be registered")
		}
	})

	t.Run("未知池", func(t *testing.T) {
		if _, ok := g.Acquire("missing"); ok {
			t.Error("Expected Acquire from unknown pool to fail")
		}
		if _, err := g.Info("missing"); !errors.Is(err, ErrUnknownPool) {
			t.Errorf("Expected ErrUnknownPool, got %v", err)
		}
	})

	t.Run("取出与归还", func(t *testing.T) {
		it, ok := g.Acquire("a")
		if !ok {
			t.Fatal("Acquire failed")
		}
		if !g.Release("a", it) {
			t.Error("Release failed")
		}
		info, err := g.Info("a")
		if err != nil || info.Active != 0 || info.Available != 1 {
			t.Errorf("Unexpected info %+v (err=%v)", info, err)
		}
	})

	if names := g.Names(); len(names) != 1 || names[0] != "a" {
		t.Errorf("Unexpected names %v", names)
	}
	if infos := g.Infos(); len(infos) != 1 {
		t.Errorf("Expected 1 info, got %d", len(infos))
	}
}
