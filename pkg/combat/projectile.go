// Package combat 处理敌人发射的子弹和爆炸对玩家的结算
package combat

import (
	"github.com/gonewx/hordewave/pkg/config"
	"github.com/gonewx/hordewave/pkg/pool"
	"github.com/gonewx/hordewave/pkg/utils"
	"go.uber.org/zap"
)

// PoolName 敌人子弹池的名称
const PoolName = "enemy_bullet"

// Projectile 一颗敌人子弹
type Projectile struct {
	ID       uint64
	OwnerID  uint64 // 发射者敌人 ID
	Position utils.Vec2
	Velocity utils.Vec2
	Damage   float64

	firedAt  float64
	lifetime float64
	active   bool
}

// reset 归还时清空瞬时状态
func (p *Projectile) reset() {
	p.OwnerID = 0
	p.Position = utils.Vec2{}
	p.Velocity = utils.Vec2{}
	p.Damage = 0
	p.firedAt = 0
	p.lifetime = 0
	p.active = false
}

// Expired 是否超过存活时间
func (p *Projectile) Expired(now float64) bool {
	return now-p.firedAt >= p.lifetime
}

// Active 是否在飞行中
func (p *Projectile) Active() bool {
	return p.active
}

// Hit 一次子弹命中
type Hit struct {
	OwnerID uint64
	Damage  float64
}

// Projectiles 敌人子弹管理器
//
// 子弹从对象池取出，命中玩家或超过存活时间后归还。
type Projectiles struct {
	cfg    config.ProjectileConfig
	pool   *pool.Pool[*Projectile]
	active []*Projectile
	nextID uint64
	log    *zap.Logger

	fired   int
	dropped int
}

// NewProjectiles 创建子弹管理器并预热子弹池
func NewProjectiles(cfg config.ProjectileConfig, log *zap.Logger) (*Projectiles, error) {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Projectiles{cfg: cfg, log: log}

	p, err := pool.New(pool.Config{
		Name:        PoolName,
		InitialSize: cfg.InitialSize,
		MaxSize:     cfg.MaxSize,
		AutoExpand:  cfg.AutoExpand,
		ExpandStep:  cfg.ExpandStep,
	}, func() *Projectile {
		m.nextID++
		return &Projectile{ID: m.nextID}
	}, (*Projectile).reset, log)
	if err != nil {
		return nil, err
	}
	m.pool = p
	return m, nil
}

// Fire 发射一颗子弹，池耗尽时返回 nil
func (m *Projectiles) Fire(ownerID uint64, origin, velocity utils.Vec2, damage, now float64) *Projectile {
	p, ok := m.pool.Acquire()
	if !ok {
		m.dropped++
		m.log.Debug("projectile pool exhausted", zap.Uint64("owner", ownerID))
		return nil
	}

	p.OwnerID = ownerID
	p.Position = origin
	p.Velocity = velocity
	p.Damage = damage
	p.firedAt = now
	p.lifetime = m.cfg.Lifetime
	p.active = true

	m.active = append(m.active, p)
	m.fired++
	return p
}

// Update 移动所有子弹并结算命中
//
// 与玩家距离不超过 HitRadius + playerRadius 的子弹命中并归还；
// 超过存活时间的子弹直接归还。返回本 tick 的命中列表。
func (m *Projectiles) Update(now, dt float64, playerPos utils.Vec2, playerRadius float64) []Hit {
	var hits []Hit
	reach := m.cfg.HitRadius + playerRadius

	kept := m.active[:0]
	for _, p := range m.active {
		p.Position = p.Position.Add(p.Velocity.Scale(dt))

		if utils.Dist(p.Position, playerPos) <= reach {
			hits = append(hits, Hit{OwnerID: p.OwnerID, Damage: p.Damage})
			m.pool.Release(p)
			continue
		}
		if p.Expired(now) {
			m.pool.Release(p)
			continue
		}
		kept = append(kept, p)
	}
	clear(m.active[len(kept):])
	m.active = kept
	return hits
}

// Clear 归还所有飞行中的子弹
func (m *Projectiles) Clear() int {
	n := len(m.active)
	for _, p := range m.active {
		m.pool.Release(p)
	}
	clear(m.active)
	m.active = m.active[:0]
	return n
}

// Active 返回飞行中子弹的副本
func (m *Projectiles) Active() []*Projectile {
	out := make([]*Projectile, len(m.active))
	copy(out, m.active)
	return out
}

// Count 飞行中的子弹数量
func (m *Projectiles) Count() int {
	return len(m.active)
}

// Fired 累计发射数量
func (m *Projectiles) Fired() int {
	return m.fired
}

// Dropped 因池耗尽而未发射的数量
func (m *Projectiles) Dropped() int {
	return m.dropped
}

// Info 子弹池统计
func (m *Projectiles) Info() pool.Info {
	return m.pool.Info()
}
