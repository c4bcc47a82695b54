package combat

import "github.com/gonewx/hordewave/pkg/utils"

// InBlast 判断半径为 targetRadius 的目标是否被爆炸波及
func InBlast(center utils.Vec2, radius float64, target utils.Vec2, targetRadius float64) bool {
	return utils.Dist(center, target) <= radius+targetRadius
}

// BlastDamage 计算爆炸对目标造成的伤害，未波及时返回 0
// 爆炸范围内伤害不衰减
func BlastDamage(center utils.Vec2, radius, damage float64, target utils.Vec2, targetRadius float64) float64 {
	if damage <= 0 || !InBlast(center, radius, target, targetRadius) {
		return 0
	}
	return damage
}
