package pool

import (
	"fmt"

	"go.uber.org/zap"
)

// Group 按池名管理一组同类型对象池
//
// 池按注册顺序保存，Infos/Names 的输出顺序稳定。
type Group[T comparable] struct {
	pools map[string]*Pool[T]
	order []string
	log   *zap.Logger
}

// NewGroup 创建空的池组
func NewGroup[T comparable](log *zap.Logger) *Group[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Group[T]{
		pools: make(map[string]*Pool[T]),
		log:   log,
	}
}

// Register 创建并登记一个新池
//
// 失败（构造函数为空、容量非法、重名）时记录日志并返回错误，
// 池组中的其他池不受影响。
func (g *Group[T]) Register(cfg Config, factory func() T, reset func(T)) (*Pool[T], error) {
	if _, exists := g.pools[cfg.Name]; exists {
		err := fmt.Errorf("%w: %s", ErrDuplicatePool, cfg.Name)
		g.log.Error("pool registration skipped", zap.Error(err))
		return nil, err
	}

	p, err := New(cfg, factory, reset, g.log)
	if err != nil {
		g.log.Error("pool registration skipped", zap.String("pool", cfg.Name), zap.Error(err))
		return nil, err
	}

	g.pools[cfg.Name] = p
	g.order = append(g.order, cfg.Name)
	return p, nil
}

// Get 按名称查找池
func (g *Group[T]) Get(name string) (*Pool[T], bool) {
	p, ok := g.pools[name]
	return p, ok
}

// Acquire 从指定池取出对象；池不存在或已耗尽时返回 false
func (g *Group[T]) Acquire(name string) (T, bool) {
	p, ok := g.pools[name]
	if !ok {
		g.log.Warn("acquire from unknown pool", zap.String("pool", name))
		var zero T
		return zero, false
	}
	return p.Acquire()
}

// Release 将对象归还到指定池
func (g *Group[T]) Release(name string, item T) bool {
	p, ok := g.pools[name]
	if !ok {
		g.log.Debug("release to unknown pool ignored", zap.String("pool", name))
		return false
	}
	return p.Release(item)
}

// Names 返回所有池名（注册顺序）
func (g *Group[T]) Names() []string {
	names := make([]string, len(g.order))
	copy(names, g.order)
	return names
}

// Info 返回指定池的统计快照
func (g *Group[T]) Info(name string) (Info, error) {
	p, ok := g.pools[name]
	if !ok {
		return Info{}, fmt.Errorf("%w: %s", ErrUnknownPool, name)
	}
	return p.Info(), nil
}

// Infos 返回所有池的统计快照（注册顺序）
func (g *Group[T]) Infos() []Info {
	infos := make([]Info, 0, len(g.order))
	for _, name := range g.order {
		infos = append(infos, g.pools[name].Info())
	}
	return infos
}
