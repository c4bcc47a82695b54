// Package enemy 实现敌人的状态机与行为
//
// 所有敌人共用同一个 Enemy 结构体，通过 types.Behavior 标签区分行为；
// 生命值/死亡流程对所有行为一致，行为只决定移动和攻击触发方式。
//
// 生命周期：
//
//	Pooled --Activate--> Alive --TakeDamage(致死)--> Dying --(死亡演出结束)--> Recycled --Release/ResetForReuse--> Pooled
//
// 定时效果（受击闪烁、自爆预警、死亡演出）都是每个 tick 检查的时间戳字段。
package enemy

import (
	"github.com/gonewx/hordewave/pkg/config"
	"github.com/gonewx/hordewave/pkg/types"
	"github.com/gonewx/hordewave/pkg/utils"
)

// State 敌人生命周期状态
type State int

const (
	StatePooled   State = iota // 在池中，未激活
	StateAlive                 // 存活，接受伤害
	StateDying                 // 死亡流程中，不再接受伤害和移动
	StateRecycled              // 已交还池管理器，等待重置
)

func (s State) String() string {
	switch s {
	case StatePooled:
		return "pooled"
	case StateAlive:
		return "alive"
	case StateDying:
		return "dying"
	case StateRecycled:
		return "recycled"
	}
	return "unknown"
}

// Stats 战斗属性
type Stats struct {
	MaxHealth float64
	Damage    float64
	MoveSpeed float64
}

// Enemy 一个敌人实例（存活或在池中）
type Enemy struct {
	ID         uint64 // 实例 ID，创建时分配，复用时不变
	Generation uint32 // 激活次数，每次 Activate 加一
	TypeID     string
	PoolName   string
	Behavior   types.Behavior

	Position utils.Vec2
	Velocity utils.Vec2

	// 所属波次下标（生成时激活的波次），未激活时为 -1
	WaveOfOrigin int

	cfg   *config.EnemyTypeConfig // 类型参数（只读）
	base  Stats                   // 类型默认属性
	stats Stats                   // 倍率之后的属性
	mult  Stats                   // 当前生效的倍率

	health           float64
	state            State
	collisionEnabled bool
	touching         bool // 上一个 tick 是否与玩家接触

	activatedAt     float64
	lastAttackTime  float64
	flashUntil      float64
	deathCompleteAt float64

	// 行为专属计时
	warningActive  bool
	warningEndTime float64
	exploded       bool
	nextFireTime   float64
	lastShootTime  float64
	lastMinionTime float64
}

// New 按类型配置构造一个处于池中状态的敌人
func New(id uint64, typeID, poolName string, cfg *config.EnemyTypeConfig) *Enemy {
	e := &Enemy{
		ID:       id,
		TypeID:   typeID,
		PoolName: poolName,
		Behavior: cfg.Behavior,
		cfg:      cfg,
		base: Stats{
			MaxHealth: cfg.MaxHealth,
			Damage:    cfg.Damage,
			MoveSpeed: cfg.MoveSpeed,
		},
	}
	e.ResetForReuse()
	return e
}

// ResetForReuse 恢复类型默认状态，供下一次激活使用
//
// 恢复满血、清除死亡标记、启用碰撞、清零速度和所有计时器。
// 多次调用结果相同。
func (e *Enemy) ResetForReuse() {
	e.stats = e.base
	e.mult = Stats{MaxHealth: 1, Damage: 1, MoveSpeed: 1}
	e.health = e.base.MaxHealth
	e.state = StatePooled
	e.collisionEnabled = true
	e.touching = false

	e.Position = utils.Vec2{}
	e.Velocity = utils.Vec2{}
	e.WaveOfOrigin = -1

	e.activatedAt = 0
	e.lastAttackTime = 0
	e.flashUntil = 0
	e.deathCompleteAt = 0

	e.warningActive = false
	e.warningEndTime = 0
	e.exploded = false
	e.nextFireTime = 0
	e.lastShootTime = 0
	e.lastMinionTime = 0
}

// Activate 将池中取出的敌人激活到指定位置
func (e *Enemy) Activate(pos utils.Vec2, wave int, now float64) {
	e.Generation++
	e.state = StateAlive
	e.Position = pos
	e.WaveOfOrigin = wave
	e.activatedAt = now

	// 首次接触立即伤害，持续接触从首次开始计冷却
	e.lastAttackTime = now - e.cfg.AttackCooldown

	switch e.Behavior {
	case types.BehaviorRanged:
		e.nextFireTime = now
	case types.BehaviorBoss:
		e.lastShootTime = now - e.cfg.Boss.ShootInterval
		e.lastMinionTime = now + e.cfg.Boss.FirstMinionDelay
	}
}

// ApplyMultipliers 按波次难度倍率设置属性
// 始终基于类型默认属性计算，重复调用不会叠加
func (e *Enemy) ApplyMultipliers(health, damage, speed float64) {
	e.mult = Stats{MaxHealth: health, Damage: damage, MoveSpeed: speed}
	e.stats = Stats{
		MaxHealth: e.base.MaxHealth * health,
		Damage:    e.base.Damage * damage,
		MoveSpeed: e.base.MoveSpeed * speed,
	}
	e.health = e.stats.MaxHealth
}

// TakeDamage 扣除生命值
//
// 生命值被限制在 [0, MaxHealth]。生命值归零时进入 Dying（只发生一次）。
// 非存活状态或非正伤害为空操作。
//
// 返回实际扣除的生命值。
func (e *Enemy) TakeDamage(amount, now float64, fx Effects) float64 {
	if e.state != StateAlive || amount <= 0 {
		return 0
	}

	before := e.health
	e.health -= amount
	if e.health < 0 {
		e.health = 0
	}
	dealt := before - e.health

	e.flashUntil = now + e.cfg.FlashDuration
	if fx != nil {
		fx.EnemyDamaged(e, dealt)
	}

	if e.health == 0 {
		e.die(now, fx)
	}
	return dealt
}

// Kill 立即进入死亡流程（不经过伤害计算，不计入伤害统计）
func (e *Enemy) Kill(now float64, fx Effects) {
	if e.state != StateAlive {
		return
	}
	e.health = 0
	e.die(now, fx)
}

// die Alive -> Dying：停止移动、关闭碰撞、掉落、开始死亡演出
func (e *Enemy) die(now float64, fx Effects) {
	e.state = StateDying
	e.Velocity = utils.Vec2{}
	e.collisionEnabled = false
	e.touching = false
	e.warningActive = false

	// 自爆敌人被击杀时也会爆炸，整个激活期内只爆炸一次
	if e.Behavior == types.BehaviorExplosive && !e.exploded {
		e.exploded = true
		if fx != nil {
			fx.Explode(e, e.Position, e.cfg.Explosive.ExplosionRadius, e.stats.Damage)
		}
	}

	if fx != nil {
		fx.EnemyKilled(e)
		fx.DropLoot(e)
	}

	e.deathCompleteAt = now
	if e.cfg.Death.UseAnimation {
		e.deathCompleteAt = now + e.cfg.Death.Duration
	}
}

// ReadyForRecycle 死亡演出是否已结束
func (e *Enemy) ReadyForRecycle(now float64) bool {
	return e.state == StateDying && now >= e.deathCompleteAt
}

// MarkRecycled Dying -> Recycled，由池管理器在归还前调用
func (e *Enemy) MarkRecycled() {
	e.state = StateRecycled
	e.Velocity = utils.Vec2{}
	e.collisionEnabled = false
}

// Teleport 移动到新位置并清零速度（远距离重定位用）
func (e *Enemy) Teleport(pos utils.Vec2, resetHealth bool) {
	e.Position = pos
	e.Velocity = utils.Vec2{}
	e.touching = false
	if resetHealth && e.state == StateAlive {
		e.health = e.stats.MaxHealth
	}
}

func (e *Enemy) State() State                    { return e.state }
func (e *Enemy) IsAlive() bool                   { return e.state == StateAlive }
func (e *Enemy) IsDead() bool                    { return e.state == StateDying || e.state == StateRecycled }
func (e *Enemy) Health() float64                 { return e.health }
func (e *Enemy) MaxHealth() float64              { return e.stats.MaxHealth }
func (e *Enemy) Damage() float64                 { return e.stats.Damage }
func (e *Enemy) MoveSpeed() float64              { return e.stats.MoveSpeed }
func (e *Enemy) Stats() Stats                    { return e.stats }
func (e *Enemy) BaseStats() Stats                { return e.base }
func (e *Enemy) CollisionEnabled() bool          { return e.collisionEnabled }
func (e *Enemy) ContactRadius() float64          { return e.cfg.ContactRadius }
func (e *Enemy) Config() *config.EnemyTypeConfig { return e.cfg }

// HealthFraction 当前生命值占比 [0,1]
func (e *Enemy) HealthFraction() float64 {
	if e.stats.MaxHealth <= 0 {
		return 0
	}
	return e.health / e.stats.MaxHealth
}

// Flashing 是否处于受击闪烁中
func (e *Enemy) Flashing(now float64) bool {
	return now < e.flashUntil
}

// Warning 自爆敌人是否处于引爆预警中
func (e *Enemy) Warning() bool {
	return e.warningActive
}
