// Package pool 提供可复用对象的泛型对象池
//
// 对象池负责"分配或复用"以及"归还入池"的记账：
//   - 可用队列（FIFO）中的对象均已重置、处于未激活状态
//   - 每个由本池创建的对象都被追踪，归还未追踪或已归还的对象是幂等的空操作
//   - 始终满足 active + available <= totalCreated
//
// 对象池不是并发安全的，所有调用都应来自模拟主循环。
package pool

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	// ErrNilFactory 未提供对象构造函数
	ErrNilFactory = errors.New("pool: nil factory")
	// ErrInvalidConfig 容量配置非法
	ErrInvalidConfig = errors.New("pool: invalid config")
	// ErrDuplicatePool 池名已存在
	ErrDuplicatePool = errors.New("pool: duplicate pool name")
	// ErrUnknownPool 池名不存在
	ErrUnknownPool = errors.New("pool: unknown pool")
)

// Config 对象池配置
type Config struct {
	Name        string
	InitialSize int  // 预热数量
	MaxSize     int  // 同时激活的上限（AutoExpand 时按需抬高）
	AutoExpand  bool // 队列为空时批量扩容
	ExpandStep  int  // 每次扩容创建的数量，<= 0 视为 1
}

// Info 对象池统计快照
type Info struct {
	Name         string `json:"name"`
	Active       int    `json:"active"`
	Available    int    `json:"available"`
	TotalCreated int    `json:"totalCreated"`
	MaxSize      int    `json:"maxSize"`
	AutoExpand   bool   `json:"autoExpand"`
}

// Pool 泛型对象池
//
// T 通常是指针类型（如 *enemy.Enemy），以指针身份追踪归属。
type Pool[T comparable] struct {
	cfg     Config
	factory func() T
	reset   func(T)
	log     *zap.Logger

	queue []T        // 可用队列，queue[head:] 为有效元素
	head  int        // 出队位置
	owned map[T]bool // 本池创建的对象 -> 是否处于激活状态

	activeCount  int
	totalCreated int
	maxSize      int
}

// New 创建对象池并预热 InitialSize 个对象
//
// 参数：
//   - cfg: 容量配置
//   - factory: 构造新对象（必须返回默认状态的对象）
//   - reset: 归还时重置对象的瞬时状态，可为 nil
//   - log: 日志，可为 nil
//
// 返回：
//   - error: factory 为 nil 返回 ErrNilFactory，容量非法返回 ErrInvalidConfig
func New[T comparable](cfg Config, factory func() T, reset func(T), log *zap.Logger) (*Pool[T], error) {
	if factory == nil {
		return nil, fmt.Errorf("%w: %s", ErrNilFactory, cfg.Name)
	}
	if cfg.InitialSize < 0 || cfg.MaxSize < 0 || cfg.InitialSize > cfg.MaxSize {
		return nil, fmt.Errorf("%w: %s initialSize=%d maxSize=%d", ErrInvalidConfig, cfg.Name, cfg.InitialSize, cfg.MaxSize)
	}
	if cfg.ExpandStep <= 0 {
		cfg.ExpandStep = 1
	}
	if log == nil {
		log = zap.NewNop()
	}

	p := &Pool[T]{
		cfg:     cfg,
		factory: factory,
		reset:   reset,
		log:     log,
		queue:   make([]T, 0, cfg.InitialSize),
		owned:   make(map[T]bool, cfg.InitialSize),
		maxSize: cfg.MaxSize,
	}

	for i := 0; i < cfg.InitialSize; i++ {
		p.enqueue(p.create())
	}

	p.log.Debug("pool initialized",
		zap.String("pool", cfg.Name),
		zap.Int("initial", cfg.InitialSize),
		zap.Int("max", cfg.MaxSize),
		zap.Bool("autoExpand", cfg.AutoExpand))

	return p, nil
}

// Name 返回池名
func (p *Pool[T]) Name() string {
	return p.cfg.Name
}

// Acquire 取出一个可用对象
//
// 优先复用队列中的对象；队列为空时：
//   - AutoExpand：创建 ExpandStep 个新对象，入队 ExpandStep-1 个，返回最后一个
//   - 否则激活数未达 MaxSize 时创建一个
//   - 否则返回零值和 false（池已耗尽，调用方应视为软失败）
func (p *Pool[T]) Acquire() (T, bool) {
	var item T

	switch {
	case p.available() > 0:
		item = p.dequeue()
	case p.cfg.AutoExpand:
		item = p.expand()
	case p.activeCount < p.maxSize:
		item = p.create()
	default:
		p.log.Debug("pool exhausted",
			zap.String("pool", p.cfg.Name),
			zap.Int("active", p.activeCount),
			zap.Int("max", p.maxSize))
		var zero T
		return zero, false
	}

	p.owned[item] = true
	p.activeCount++
	return item, true
}

// Release 将对象归还入池
//
// 归还前调用 reset 清除瞬时状态。未被本池追踪的对象或重复归还
// 均为幂等的空操作，返回 false。
func (p *Pool[T]) Release(item T) bool {
	active, ok := p.owned[item]
	if !ok {
		p.log.Debug("release of untracked instance ignored", zap.String("pool", p.cfg.Name))
		return false
	}
	if !active {
		p.log.Debug("double release ignored", zap.String("pool", p.cfg.Name))
		return false
	}

	if p.reset != nil {
		p.reset(item)
	}
	p.owned[item] = false
	p.activeCount--
	p.enqueue(item)
	return true
}

// Owns 判断对象是否由本池创建
func (p *Pool[T]) Owns(item T) bool {
	_, ok := p.owned[item]
	return ok
}

// IsActive 判断对象当前是否处于激活（已取出）状态
func (p *Pool[T]) IsActive(item T) bool {
	return p.owned[item]
}

// ActiveCount 返回激活对象数量
func (p *Pool[T]) ActiveCount() int {
	return p.activeCount
}

// Info 返回统计快照
func (p *Pool[T]) Info() Info {
	return Info{
		Name:         p.cfg.Name,
		Active:       p.activeCount,
		Available:    p.available(),
		TotalCreated: p.totalCreated,
		MaxSize:      p.maxSize,
		AutoExpand:   p.cfg.AutoExpand,
	}
}

// expand 批量扩容：ExpandStep-1 个入队，返回最后一个
func (p *Pool[T]) expand() T {
	step := p.cfg.ExpandStep
	for i := 0; i < step-1; i++ {
		p.enqueue(p.create())
	}
	item := p.create()

	if p.totalCreated > p.maxSize {
		p.maxSize = p.totalCreated
	}

	p.log.Debug("pool expanded",
		zap.String("pool", p.cfg.Name),
		zap.Int("step", step),
		zap.Int("totalCreated", p.totalCreated))
	return item
}

func (p *Pool[T]) create() T {
	item := p.factory()
	p.owned[item] = false
	p.totalCreated++
	return item
}

func (p *Pool[T]) available() int {
	return len(p.queue) - p.head
}

func (p *Pool[T]) enqueue(item T) {
	p.queue = append(p.queue, item)
}

func (p *Pool[T]) dequeue() T {
	item := p.queue[p.head]
	var zero T
	p.queue[p.head] = zero
	p.head++

	// 出队位置过半时压缩，避免底层数组无限增长
	if p.head > len(p.queue)/2 {
		n := copy(p.queue, p.queue[p.head:])
		clear(p.queue[n:])
		p.queue = p.queue[:n]
		p.head = 0
	}
	return item
}
