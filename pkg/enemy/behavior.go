package enemy

import (
	"math"
	"math/rand"

	"github.com/gonewx/hordewave/pkg/types"
	"github.com/gonewx/hordewave/pkg/utils"
)

// Effects 敌人对外产生的效果
//
// 实现方（模拟根对象）负责把效果转成事件或延迟请求：
// 敌人在自身更新或伤害处理中不得同步调用生成逻辑。
type Effects interface {
	// DamagePlayer 接触伤害
	DamagePlayer(e *Enemy, amount float64)
	// FireProjectile 请求发射子弹
	FireProjectile(e *Enemy, origin, velocity utils.Vec2, damage float64)
	// Explode 自爆
	Explode(e *Enemy, center utils.Vec2, radius, damage float64)
	// RequestMinions Boss 请求召唤小怪
	RequestMinions(e *Enemy, req MinionRequest)
	// EnemyDamaged 受到伤害（amount 为实际扣除量）
	EnemyDamaged(e *Enemy, amount float64)
	// EnemyKilled 进入死亡流程
	EnemyKilled(e *Enemy)
	// DropLoot 死亡掉落
	DropLoot(e *Enemy)
}

// MinionRequest 召唤小怪请求
type MinionRequest struct {
	Pool         string
	Count        int
	Center       utils.Vec2
	Radius       float64
	HealthFactor float64
	DamageFactor float64
	SpeedFactor  float64
}

// Context 单个 tick 的行为更新上下文
type Context struct {
	Now       float64
	Dt        float64
	PlayerPos utils.Vec2
	PlayerVel utils.Vec2
	Rng       *rand.Rand
	Fx        Effects
}

// Update 按行为标签执行移动和攻击触发
// 非存活状态不做任何事
func (e *Enemy) Update(ctx *Context) {
	if e.state != StateAlive {
		return
	}

	switch e.Behavior {
	case types.BehaviorRanged:
		e.updateRanged(ctx)
	case types.BehaviorExplosive:
		e.chasePlayer(ctx)
		e.updateWarning(ctx)
	case types.BehaviorBoss:
		e.chasePlayer(ctx)
		e.updateBossAttacks(ctx)
	default:
		e.chasePlayer(ctx)
	}
}

// UpdateContact 更新与玩家的接触状态
//
// 首次接触触发 onContactEnter，持续接触触发 onContactStay。
// 碰撞关闭或非存活时接触状态被清除。
func (e *Enemy) UpdateContact(touching bool, now float64, fx Effects) {
	if e.state != StateAlive || !e.collisionEnabled {
		e.touching = false
		return
	}

	if touching {
		if e.touching {
			e.onContactStay(now, fx)
		} else {
			e.onContactEnter(now, fx)
		}
	}
	e.touching = touching
}

// onContactEnter 首次接触：近战立即伤害，自爆开始预警
func (e *Enemy) onContactEnter(now float64, fx Effects) {
	switch e.Behavior {
	case types.BehaviorMelee, types.BehaviorBoss:
		e.lastAttackTime = now
		if fx != nil {
			fx.DamagePlayer(e, e.stats.Damage)
		}
	case types.BehaviorExplosive:
		if !e.warningActive && !e.exploded {
			e.warningActive = true
			e.warningEndTime = now + e.cfg.Explosive.WarningTime
		}
	}
}

// onContactStay 持续接触：按冷却周期伤害
// 冷却从上一次成功伤害开始计算
func (e *Enemy) onContactStay(now float64, fx Effects) {
	switch e.Behavior {
	case types.BehaviorMelee, types.BehaviorBoss:
		if now >= e.lastAttackTime+e.cfg.AttackCooldown {
			e.lastAttackTime = now
			if fx != nil {
				fx.DamagePlayer(e, e.stats.Damage)
			}
		}
	}
}

// chasePlayer 直线追踪玩家，不越过玩家位置
func (e *Enemy) chasePlayer(ctx *Context) {
	dir := ctx.PlayerPos.Sub(e.Position).Normalize()
	e.Velocity = dir.Scale(e.stats.MoveSpeed)
	e.Position = utils.MoveTowards(e.Position, ctx.PlayerPos, e.stats.MoveSpeed*ctx.Dt)
}

// updateWarning 预警结束后引爆并死亡
func (e *Enemy) updateWarning(ctx *Context) {
	if !e.warningActive || ctx.Now < e.warningEndTime {
		return
	}

	e.warningActive = false
	e.exploded = true
	if ctx.Fx != nil {
		ctx.Fx.Explode(e, e.Position, e.cfg.Explosive.ExplosionRadius, e.stats.Damage)
	}
	e.Kill(ctx.Now, ctx.Fx)
}

// updateRanged 在 [min, max] 距离带内环绕玩家，并按射速射击
func (e *Enemy) updateRanged(ctx *Context) {
	r := &e.cfg.Ranged

	toPlayer := ctx.PlayerPos.Sub(e.Position)
	dist := toPlayer.Len()
	dir := toPlayer.Normalize()

	var move utils.Vec2
	switch {
	case dist < r.MinDistance:
		move = dir.Scale(-1)
	case dist > r.MaxDistance:
		move = dir
	default:
		perp := dir.Perp()
		if !r.Clockwise {
			perp = perp.Scale(-1)
		}
		ratio := 0.0
		if r.MaxDistance > r.OptimalDistance {
			ratio = clamp01((dist - r.OptimalDistance) / (r.MaxDistance - r.OptimalDistance))
		}
		move = lerp(perp, dir, ratio)
	}

	e.Velocity = move.Normalize().Scale(e.stats.MoveSpeed)
	e.Position = e.Position.Add(e.Velocity.Scale(ctx.Dt))

	if ctx.Now < e.nextFireTime || dist > r.MaxDistance*1.5 {
		return
	}
	e.nextFireTime = ctx.Now + r.FireRate

	aim := e.aimDirection(ctx)
	if ctx.Fx != nil {
		ctx.Fx.FireProjectile(e, e.Position, aim.Scale(r.BulletSpeed), r.BulletDamage*e.mult.Damage)
	}
}

// aimDirection 计算射击方向：玩家速度提前量 + 随机角度偏差
func (e *Enemy) aimDirection(ctx *Context) utils.Vec2 {
	r := &e.cfg.Ranged

	target := ctx.PlayerPos
	if r.PredictionTime > 0 {
		target = target.Add(ctx.PlayerVel.Scale(r.PredictionTime))
	}

	dir := target.Sub(e.Position).Normalize()
	if dir.IsZero() {
		dir = utils.V(1, 0)
	}

	if r.AimOffset > 0 && ctx.Rng != nil {
		offset := (ctx.Rng.Float64()*2 - 1) * r.AimOffset
		dir = dir.Rotate(offset * math.Pi / 180)
	}
	return dir
}

// updateBossAttacks Boss 射击与召唤小怪
func (e *Enemy) updateBossAttacks(ctx *Context) {
	b := &e.cfg.Boss

	toPlayer := ctx.PlayerPos.Sub(e.Position)
	if toPlayer.Len() <= b.ShootRange && ctx.Now >= e.lastShootTime+b.ShootInterval {
		e.lastShootTime = ctx.Now
		dir := toPlayer.Normalize()
		if dir.IsZero() {
			dir = utils.V(1, 0)
		}
		if ctx.Fx != nil {
			ctx.Fx.FireProjectile(e, e.Position, dir.Scale(b.BulletSpeed), e.stats.Damage*b.BulletDamageFactor)
		}
	}

	if b.DisableMinionSpawns || b.MinionPool == "" || b.MinionsPerSpawn <= 0 {
		return
	}
	if ctx.Now >= e.lastMinionTime+b.MinionInterval {
		e.lastMinionTime = ctx.Now
		if ctx.Fx != nil {
			ctx.Fx.RequestMinions(e, MinionRequest{
				Pool:         b.MinionPool,
				Count:        b.MinionsPerSpawn,
				Center:       e.Position,
				Radius:       b.MinionRadius,
				HealthFactor: b.MinionHealthFactor,
				DamageFactor: b.MinionDamageFactor,
				SpeedFactor:  b.MinionSpeedFactor,
			})
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lerp(a, b utils.Vec2, t float64) utils.Vec2 {
	return a.Add(b.Sub(a).Scale(t))
}
