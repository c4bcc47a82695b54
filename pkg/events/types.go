package events

import "github.com/gonewx/hordewave/pkg/utils"

// Named 事件名称，用于对外推送时标记事件种类
type Named interface {
	EventName() string
}

// EnemySpawned 敌人从池中激活并登记
type EnemySpawned struct {
	EnemyID  uint64     `json:"enemyId"`
	Type     string     `json:"type"`
	Behavior string     `json:"behavior"`
	Wave     int        `json:"wave"`
	Position utils.Vec2 `json:"position"`
	Time     float64    `json:"time"`
}

// EnemyKilled 敌人进入死亡流程
type EnemyKilled struct {
	EnemyID  uint64     `json:"enemyId"`
	Type     string     `json:"type"`
	Wave     int        `json:"wave"`
	Position utils.Vec2 `json:"position"`
	Time     float64    `json:"time"`
}

// EnemyDamaged 敌人受到伤害（Amount 为实际扣除量）
type EnemyDamaged struct {
	EnemyID uint64  `json:"enemyId"`
	Type    string  `json:"type"`
	Amount  float64 `json:"amount"`
	Health  float64 `json:"health"`
	Time    float64 `json:"time"`
}

// EnemyCountChanged 活动敌人数量变化
type EnemyCountChanged struct {
	Total       int `json:"total"`
	CurrentWave int `json:"currentWave"` // 当前波次生成、仍存活的数量
	WaveIndex   int `json:"waveIndex"`
}

// WaveChanged 激活波次切换（每次下标变化触发一次）
type WaveChanged struct {
	Index    int     `json:"index"`
	Previous int     `json:"previous"`
	Name     string  `json:"name"`
	Time     float64 `json:"time"`
}

// LootDropped 敌人死亡掉落
type LootDropped struct {
	EnemyID        uint64     `json:"enemyId"`
	Position       utils.Vec2 `json:"position"`
	XP             int        `json:"xp"`
	Health         float64    `json:"health"` // 0 表示没有血包
	HealthPosition utils.Vec2 `json:"healthPosition"`
}

// PlayerDamaged 玩家受到伤害
type PlayerDamaged struct {
	Amount float64 `json:"amount"`
	Source string  `json:"source"` // contact / projectile / explosion
	Time   float64 `json:"time"`
}

// ProjectileFired 敌人请求发射子弹（在下一个 tick 由弹道系统从池中取出）
type ProjectileFired struct {
	OwnerID  uint64     `json:"ownerId"`
	Origin   utils.Vec2 `json:"origin"`
	Velocity utils.Vec2 `json:"velocity"`
	Damage   float64    `json:"damage"`
}

// ExplosionTriggered 自爆敌人引爆
type ExplosionTriggered struct {
	EnemyID  uint64     `json:"enemyId"`
	Position utils.Vec2 `json:"position"`
	Radius   float64    `json:"radius"`
	Damage   float64    `json:"damage"`
}

// MinionsRequested Boss 请求召唤小怪
type MinionsRequested struct {
	BossID       uint64     `json:"bossId"`
	Pool         string     `json:"pool"`
	Count        int        `json:"count"`
	Center       utils.Vec2 `json:"center"`
	Radius       float64    `json:"radius"`
	Wave         int        `json:"wave"`
	HealthFactor float64    `json:"healthFactor"`
	DamageFactor float64    `json:"damageFactor"`
	SpeedFactor  float64    `json:"speedFactor"`
}

func (EnemySpawned) EventName() string       { return "enemy_spawned" }
func (EnemyKilled) EventName() string        { return "enemy_killed" }
func (EnemyDamaged) EventName() string       { return "enemy_damaged" }
func (EnemyCountChanged) EventName() string  { return "enemy_count_changed" }
func (WaveChanged) EventName() string        { return "wave_changed" }
func (LootDropped) EventName() string        { return "loot_dropped" }
func (PlayerDamaged) EventName() string      { return "player_damaged" }
func (ProjectileFired) EventName() string    { return "projectile_fired" }
func (ExplosionTriggered) EventName() string { return "explosion_triggered" }
func (MinionsRequested) EventName() string   { return "minions_requested" }
