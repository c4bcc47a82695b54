package game

import (
	"github.com/gonewx/hordewave/pkg/enemy"
	"github.com/gonewx/hordewave/pkg/events"
	"github.com/gonewx/hordewave/pkg/utils"
)

// effects 实现 enemy.Effects
//
// 接触伤害直接作用于玩家；子弹、爆炸、召唤小怪只发出事件，
// 在下一个 tick 的事件阶段由 Simulation 处理，
// 从而保证敌人的伤害/死亡处理中不会同步进入生成逻辑。
type effects struct {
	sim *Simulation
}

func (fx *effects) DamagePlayer(e *enemy.Enemy, amount float64) {
	fx.sim.damagePlayer(amount, "contact:"+e.TypeID)
}

func (fx *effects) FireProjectile(e *enemy.Enemy, origin, velocity utils.Vec2, damage float64) {
	events.Emit(fx.sim.bus, events.ProjectileFired{
		OwnerID:  e.ID,
		Origin:   origin,
		Velocity: velocity,
		Damage:   damage,
	})
}

func (fx *effects) Explode(e *enemy.Enemy, center utils.Vec2, radius, damage float64) {
	events.Emit(fx.sim.bus, events.ExplosionTriggered{
		EnemyID:  e.ID,
		Position: center,
		Radius:   radius,
		Damage:   damage,
	})
}

func (fx *effects) RequestMinions(e *enemy.Enemy, req enemy.MinionRequest) {
	events.Emit(fx.sim.bus, events.MinionsRequested{
		BossID:       e.ID,
		Pool:         req.Pool,
		Count:        req.Count,
		Center:       req.Center,
		Radius:       req.Radius,
		Wave:         e.WaveOfOrigin,
		HealthFactor: req.HealthFactor,
		DamageFactor: req.DamageFactor,
		SpeedFactor:  req.SpeedFactor,
	})
}

func (fx *effects) EnemyDamaged(e *enemy.Enemy, amount float64) {
	events.Emit(fx.sim.bus, events.EnemyDamaged{
		EnemyID: e.ID,
		Type:    e.TypeID,
		Amount:  amount,
		Health:  e.Health(),
		Time:    fx.sim.clock.Elapsed(),
	})
}

func (fx *effects) EnemyKilled(e *enemy.Enemy) {
	events.Emit(fx.sim.bus, events.EnemyKilled{
		EnemyID:  e.ID,
		Type:     e.TypeID,
		Wave:     e.WaveOfOrigin,
		Position: e.Position,
		Time:     fx.sim.clock.Elapsed(),
	})
}

func (fx *effects) DropLoot(e *enemy.Enemy) {
	loot := fx.sim.loot.RollLoot(e.LootContext(), fx.sim.rng)
	events.Emit(fx.sim.bus, events.LootDropped{
		EnemyID:        e.ID,
		Position:       e.Position,
		XP:             loot.XP,
		Health:         loot.Health,
		HealthPosition: loot.HealthPosition,
	})
}
