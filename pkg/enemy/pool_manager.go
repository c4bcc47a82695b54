package enemy

import (
	"github.com/gonewx/hordewave/pkg/config"
	"github.com/gonewx/hordewave/pkg/pool"
	"github.com/gonewx/hordewave/pkg/utils"
	"go.uber.org/zap"
)

// PoolManager 敌人对象池管理器
//
// 每个敌人类型一个池（池名 = 类型 ID），并按池记录激活中的敌人（激活顺序）。
// 敌人实例记住自己的池名，Despawn 时据此归还。
type PoolManager struct {
	pools  *pool.Group[*Enemy]
	active map[string][]*Enemy
	nextID uint64
	log    *zap.Logger
}

// NewPoolManager 为目录中的每个敌人类型注册一个池
//
// 单个池注册失败只会跳过该池（已记录日志），不影响其他池。
func NewPoolManager(catalog *config.EnemyCatalog, log *zap.Logger) *PoolManager {
	if log == nil {
		log = zap.NewNop()
	}
	m := &PoolManager{
		pools:  pool.NewGroup[*Enemy](log),
		active: make(map[string][]*Enemy),
		log:    log,
	}

	if catalog != nil {
		for _, id := range catalog.IDs() {
			cfg, _ := catalog.Get(id)
			_ = m.RegisterPool(id, id, cfg)
		}
	}
	return m
}

// RegisterPool 注册一个敌人池
//
// 参数：
//   - poolName: 池名
//   - typeID: 池中敌人的类型 ID
//   - cfg: 类型配置（模板），为 nil 时返回 pool.ErrNilFactory
func (m *PoolManager) RegisterPool(poolName, typeID string, cfg *config.EnemyTypeConfig) error {
	var factory func() *Enemy
	settings := config.PoolSettings{}
	if cfg != nil {
		settings = cfg.Pool
		factory = func() *Enemy {
			m.nextID++
			return New(m.nextID, typeID, poolName, cfg)
		}
	}

	_, err := m.pools.Register(pool.Config{
		Name:        poolName,
		InitialSize: settings.InitialSize,
		MaxSize:     settings.MaxSize,
		AutoExpand:  settings.AutoExpand,
		ExpandStep:  settings.ExpandStep,
	}, factory, (*Enemy).ResetForReuse)
	if err != nil {
		return err
	}

	m.active[poolName] = nil
	return nil
}

// HasPool 判断池是否存在
func (m *PoolManager) HasPool(poolName string) bool {
	_, ok := m.pools.Get(poolName)
	return ok
}

// Spawn 从池中取出敌人并激活
//
// 池不存在或已耗尽时返回 nil（软失败，调用方下一个 tick 重试）。
func (m *PoolManager) Spawn(poolName string, pos utils.Vec2, wave int, now float64) *Enemy {
	e, ok := m.pools.Acquire(poolName)
	if !ok {
		return nil
	}

	e.Activate(pos, wave, now)
	m.active[poolName] = append(m.active[poolName], e)

	m.log.Debug("enemy spawned",
		zap.String("pool", poolName),
		zap.Uint64("id", e.ID),
		zap.Int("wave", wave))
	return e
}

// Despawn 将敌人归还到所属池
//
// 对 nil、未知池或已归还的敌人为空操作，返回 false。
func (m *PoolManager) Despawn(e *Enemy) bool {
	if e == nil {
		return false
	}

	p, ok := m.pools.Get(e.PoolName)
	if !ok || !p.IsActive(e) {
		m.log.Debug("despawn ignored", zap.String("pool", e.PoolName), zap.Uint64("id", e.ID))
		return false
	}

	e.MarkRecycled()
	m.untrack(e)
	return p.Release(e)
}

func (m *PoolManager) untrack(e *Enemy) {
	list := m.active[e.PoolName]
	for i, other := range list {
		if other == e {
			copy(list[i:], list[i+1:])
			list[len(list)-1] = nil
			m.active[e.PoolName] = list[:len(list)-1]
			return
		}
	}
}

// ActiveCount 返回指定池的激活数量
func (m *PoolManager) ActiveCount(poolName string) int {
	return len(m.active[poolName])
}

// TotalActive 返回所有池的激活总数
func (m *PoolManager) TotalActive() int {
	total := 0
	for _, list := range m.active {
		total += len(list)
	}
	return total
}

// ActiveEnemies 返回指定池激活敌人的副本
func (m *PoolManager) ActiveEnemies(poolName string) []*Enemy {
	list := m.active[poolName]
	out := make([]*Enemy, len(list))
	copy(out, list)
	return out
}

// AllActive 返回所有激活敌人的副本（按池注册顺序）
func (m *PoolManager) AllActive() []*Enemy {
	out := make([]*Enemy, 0, m.TotalActive())
	for _, name := range m.pools.Names() {
		out = append(out, m.active[name]...)
	}
	return out
}

// DespawnPool 归还指定池中所有激活的敌人
func (m *PoolManager) DespawnPool(poolName string) int {
	n := 0
	for _, e := range m.ActiveEnemies(poolName) {
		if m.Despawn(e) {
			n++
		}
	}
	return n
}

// DespawnAll 归还所有激活的敌人
func (m *PoolManager) DespawnAll() int {
	n := 0
	for _, e := range m.AllActive() {
		if m.Despawn(e) {
			n++
		}
	}
	return n
}

// Infos 返回所有池的统计快照
func (m *PoolManager) Infos() []pool.Info {
	return m.pools.Infos()
}

// PoolInfo 返回指定池的统计快照
func (m *PoolManager) PoolInfo(poolName string) (pool.Info, error) {
	return m.pools.Info(poolName)
}
