// Package types 定义共享的基础类型
package types

import "fmt"

// Behavior 定义敌人的行为类别
//
// 所有敌人共享同一套生命值/死亡流程，行为类别只决定移动与攻击触发方式。
type Behavior int

const (
	// BehaviorUnknown 未知行为
	BehaviorUnknown Behavior = iota

	BehaviorMelee     // 近战：追踪玩家，接触伤害
	BehaviorRanged    // 远程：环绕玩家并发射子弹
	BehaviorExplosive // 自爆：接触后预警，随后范围爆炸
	BehaviorBoss      // Boss：近战 + 射击 + 召唤小怪
)

// 行为名称常量，用于 YAML 配置
const (
	BehaviorNameMelee     = "melee"
	BehaviorNameRanged    = "ranged"
	BehaviorNameExplosive = "explosive"
	BehaviorNameBoss      = "boss"
)

var behaviorNames = map[Behavior]string{
	BehaviorMelee:     BehaviorNameMelee,
	BehaviorRanged:    BehaviorNameRanged,
	BehaviorExplosive: BehaviorNameExplosive,
	BehaviorBoss:      BehaviorNameBoss,
}

// String 返回行为名称
func (b Behavior) String() string {
	if name, ok := behaviorNames[b]; ok {
		return name
	}
	return "unknown"
}

// ParseBehavior 将配置中的名称转换为 Behavior
// 空字符串视为近战（大多数敌人的默认行为）
func ParseBehavior(name string) (Behavior, error) {
	if name == "" {
		return BehaviorMelee, nil
	}
	for b, n := range behaviorNames {
		if n == name {
			return b, nil
		}
	}
	return BehaviorUnknown, fmt.Errorf("unknown behavior %q", name)
}

// MarshalText 实现 encoding.TextMarshaler（YAML/JSON/TOML 通用）
func (b Behavior) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (b *Behavior) UnmarshalText(text []byte) error {
	parsed, err := ParseBehavior(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
