package enemy

import (
	"math/rand"

	"github.com/gonewx/hordewave/pkg/utils"
)

// Loot 一次死亡掉落的结果
type Loot struct {
	XP             int
	Health         float64 // 血包回复量，0 表示没有掉落血包
	HealthPosition utils.Vec2
}

// LootContext 计算掉落所需的输入
type LootContext struct {
	TypeID     string
	Behavior   string
	Wave       int
	Position   utils.Vec2
	XP         int
	DropChance float64
	DropAmount float64
	DropOffset float64
}

// LootRoller 掉落公式
type LootRoller interface {
	RollLoot(ctx LootContext, rng *rand.Rand) Loot
}

// DefaultLootRoller 内置掉落公式：经验必定掉落，血包按概率掉落
type DefaultLootRoller struct{}

// RollLoot 实现 LootRoller
func (DefaultLootRoller) RollLoot(ctx LootContext, rng *rand.Rand) Loot {
	loot := Loot{XP: ctx.XP}
	if rng.Float64() < ctx.DropChance {
		loot.Health = ctx.DropAmount
		loot.HealthPosition = ScatterDrop(ctx.Position, ctx.DropOffset, rng)
	}
	return loot
}

// ScatterDrop 在死亡位置附近 ±offset 的正方形内随机取一点
func ScatterDrop(pos utils.Vec2, offset float64, rng *rand.Rand) utils.Vec2 {
	return utils.Vec2{
		X: pos.X + (rng.Float64()*2-1)*offset,
		Y: pos.Y + (rng.Float64()*2-1)*offset,
	}
}

// LootContext 根据当前状态构造掉落输入
func (e *Enemy) LootContext() LootContext {
	return LootContext{
		TypeID:     e.TypeID,
		Behavior:   e.Behavior.String(),
		Wave:       e.WaveOfOrigin,
		Position:   e.Position,
		XP:         e.cfg.Loot.XPAmount,
		DropChance: e.cfg.Loot.DropChance(),
		DropAmount: e.cfg.Loot.HealthDropAmount,
		DropOffset: e.cfg.Loot.DropOffset,
	}
}
