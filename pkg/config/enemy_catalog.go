package config

import (
	"fmt"
	"sort"

	"github.com/gonewx/hordewave/pkg/embedded"
	"github.com/gonewx/hordewave/pkg/types"
	"gopkg.in/yaml.v3"
)

// PoolSettings 单个对象池的容量策略
type PoolSettings struct {
	InitialSize int  `yaml:"initialSize"` // 预热数量
	MaxSize     int  `yaml:"maxSize"`     // 容量上限（autoExpand 时可被抬高）
	AutoExpand  bool `yaml:"autoExpand"`  // 耗尽时是否自动扩容
	ExpandStep  int  `yaml:"expandStep"`  // 每次扩容创建的数量
}

// LootConfig 掉落配置
type LootConfig struct {
	XPAmount         int      `yaml:"xpAmount"`         // 经验值（必定掉落）
	HealthDropChance *float64 `yaml:"healthDropChance"` // 血包掉落概率 [0,1]，未配置时为 0.15
	HealthDropAmount float64  `yaml:"healthDropAmount"` // 血包回复量
	DropOffset       float64  `yaml:"dropOffset"`       // 血包相对死亡位置的随机偏移
}

// DropChance 返回生效的血包掉落概率
func (l LootConfig) DropChance() float64 {
	if l.HealthDropChance == nil {
		return DefaultHealthDropChance
	}
	return *l.HealthDropChance
}

// DeathConfig 死亡演出配置
type DeathConfig struct {
	UseAnimation bool    `yaml:"useAnimation"` // 是否播放死亡演出（期间不回收）
	Duration     float64 `yaml:"duration"`     // 演出时长（秒）
}

// RangedParams 远程敌人参数
type RangedParams struct {
	MinDistance     float64 `yaml:"minDistance"`     // 小于此距离时后退
	OptimalDistance float64 `yaml:"optimalDistance"` // 理想环绕距离
	MaxDistance     float64 `yaml:"maxDistance"`     // 大于此距离时靠近
	CircleSpeed     float64 `yaml:"circleSpeed"`     // 环绕速度
	Clockwise       bool    `yaml:"clockwise"`       // 环绕方向
	FireRate        float64 `yaml:"fireRate"`        // 射击间隔（秒）
	BulletSpeed     float64 `yaml:"bulletSpeed"`
	BulletDamage    float64 `yaml:"bulletDamage"`
	AimOffset       float64 `yaml:"aimOffset"`      // 随机瞄准偏差（角度）
	PredictionTime  float64 `yaml:"predictionTime"` // 提前量（秒），0 表示不预判
}

// ExplosiveParams 自爆敌人参数
type ExplosiveParams struct {
	WarningTime     float64 `yaml:"warningTime"`     // 接触后到爆炸的预警时长（秒）
	ExplosionRadius float64 `yaml:"explosionRadius"` // 爆炸半径
}

// BossParams Boss 参数
type BossParams struct {
	ShootInterval      float64 `yaml:"shootInterval"`
	ShootRange         float64 `yaml:"shootRange"`
	BulletSpeed        float64 `yaml:"bulletSpeed"`
	BulletDamageFactor float64 `yaml:"bulletDamageFactor"` // 子弹伤害 = 伤害 × 系数

	MinionPool          string  `yaml:"minionPool"`
	MinionsPerSpawn     int     `yaml:"minionsPerSpawn"`
	MinionInterval      float64 `yaml:"minionInterval"`
	MinionRadius        float64 `yaml:"minionRadius"`
	FirstMinionDelay    float64 `yaml:"firstMinionDelay"`
	MinionHealthFactor  float64 `yaml:"minionHealthFactor"`
	MinionDamageFactor  float64 `yaml:"minionDamageFactor"`
	MinionSpeedFactor   float64 `yaml:"minionSpeedFactor"`
	DisableMinionSpawns bool    `yaml:"disableMinionSpawns"`
}

// EnemyTypeConfig 单个敌人类型的基础属性（倍率之前）
type EnemyTypeConfig struct {
	Behavior       types.Behavior `yaml:"behavior"`
	MaxHealth      float64        `yaml:"maxHealth"`
	Damage         float64        `yaml:"damage"`
	MoveSpeed      float64        `yaml:"moveSpeed"`
	AttackCooldown float64        `yaml:"attackCooldown"` // 持续接触伤害的冷却（秒）
	ContactRadius  float64        `yaml:"contactRadius"`  // 与玩家的接触判定半径
	FlashDuration  float64        `yaml:"flashDuration"`  // 受击闪烁时长（秒）

	Loot  LootConfig   `yaml:"loot"`
	Death DeathConfig  `yaml:"death"`
	Pool  PoolSettings `yaml:"pool"`

	Ranged    RangedParams    `yaml:"ranged"`
	Explosive ExplosiveParams `yaml:"explosive"`
	Boss      BossParams      `yaml:"boss"`
}

// EnemyCatalog 敌人类型目录：类型 ID -> 基础属性
type EnemyCatalog struct {
	Enemies map[string]EnemyTypeConfig `yaml:"enemies"`
}

// 默认值（与原始数值保持一致）
const (
	DefaultMaxHealth          = 50.0
	DefaultDamage             = 10.0
	DefaultMoveSpeed          = 1.0
	DefaultAttackCooldown     = 1.0
	DefaultBossAttackCooldown = 1.5
	DefaultContactRadius      = 0.6
	DefaultFlashDuration      = 0.1
	DefaultXPAmount           = 10
	DefaultHealthDropChance   = 0.15
	DefaultHealthDropAmount   = 150.0
	DefaultDropOffset         = 0.5
	DefaultDeathDuration      = 1.0

	DefaultPoolInitialSize = 20
	DefaultPoolMaxSize     = 50
	DefaultPoolExpandStep  = 10
)

// LoadEnemyCatalog 从 YAML 文件加载敌人目录
func LoadEnemyCatalog(filepath string) (*EnemyCatalog, error) {
	data, err := embedded.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read enemy catalog file %s: %w", filepath, err)
	}

	catalog, err := ParseEnemyCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%w (from %s)", err, filepath)
	}
	return catalog, nil
}

// ParseEnemyCatalog 解析 YAML 格式的敌人目录，应用默认值并验证
func ParseEnemyCatalog(data []byte) (*EnemyCatalog, error) {
	var catalog EnemyCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse enemy catalog YAML: %w", err)
	}

	for id, cfg := range catalog.Enemies {
		applyEnemyDefaults(&cfg)
		catalog.Enemies[id] = cfg
	}

	if err := validateEnemyCatalog(&catalog); err != nil {
		return nil, fmt.Errorf("invalid enemy catalog: %w", err)
	}

	return &catalog, nil
}

// applyEnemyDefaults 为缺失字段设置默认值
// 行为专属参数只在对应行为下补齐
func applyEnemyDefaults(cfg *EnemyTypeConfig) {
	if cfg.Behavior == types.BehaviorUnknown {
		cfg.Behavior = types.BehaviorMelee
	}
	if cfg.MaxHealth == 0 {
		cfg.MaxHealth = DefaultMaxHealth
	}
	if cfg.Damage == 0 {
		cfg.Damage = DefaultDamage
	}
	if cfg.MoveSpeed == 0 {
		cfg.MoveSpeed = DefaultMoveSpeed
	}
	if cfg.AttackCooldown == 0 {
		cfg.AttackCooldown = DefaultAttackCooldown
		if cfg.Behavior == types.BehaviorBoss {
			cfg.AttackCooldown = DefaultBossAttackCooldown
		}
	}
	if cfg.ContactRadius == 0 {
		cfg.ContactRadius = DefaultContactRadius
	}
	if cfg.FlashDuration == 0 {
		cfg.FlashDuration = DefaultFlashDuration
	}

	if cfg.Loot.XPAmount == 0 {
		cfg.Loot.XPAmount = DefaultXPAmount
	}
	if cfg.Loot.HealthDropAmount == 0 {
		cfg.Loot.HealthDropAmount = DefaultHealthDropAmount
	}
	if cfg.Loot.DropOffset == 0 {
		cfg.Loot.DropOffset = DefaultDropOffset
	}
	if cfg.Death.UseAnimation && cfg.Death.Duration == 0 {
		cfg.Death.Duration = DefaultDeathDuration
	}

	if cfg.Pool.InitialSize == 0 {
		cfg.Pool.InitialSize = DefaultPoolInitialSize
	}
	if cfg.Pool.MaxSize == 0 {
		cfg.Pool.MaxSize = DefaultPoolMaxSize
	}
	if cfg.Pool.ExpandStep == 0 {
		cfg.Pool.ExpandStep = DefaultPoolExpandStep
	}

	switch cfg.Behavior {
	case types.BehaviorRanged:
		applyRangedDefaults(&cfg.Ranged)
	case types.BehaviorExplosive:
		if cfg.Explosive.WarningTime == 0 {
			cfg.Explosive.WarningTime = 1
		}
		if cfg.Explosive.ExplosionRadius == 0 {
			cfg.Explosive.ExplosionRadius = 3
		}
	case types.BehaviorBoss:
		applyBossDefaults(cfg)
	}
}

func applyRangedDefaults(r *RangedParams) {
	if r.MinDistance == 0 {
		r.MinDistance = 6
	}
	if r.OptimalDistance == 0 {
		r.OptimalDistance = 8
	}
	if r.MaxDistance == 0 {
		r.MaxDistance = 10
	}
	if r.CircleSpeed == 0 {
		r.CircleSpeed = 2
	}
	if r.FireRate == 0 {
		r.FireRate = 1
	}
	if r.BulletSpeed == 0 {
		r.BulletSpeed = 10
	}
	if r.BulletDamage == 0 {
		r.BulletDamage = 15
	}
}

func applyBossDefaults(cfg *EnemyTypeConfig) {
	b := &cfg.Boss
	if b.ShootInterval == 0 {
		b.ShootInterval = 2
	}
	if b.ShootRange == 0 {
		b.ShootRange = 15
	}
	if b.BulletSpeed == 0 {
		b.BulletSpeed = 8
	}
	if b.BulletDamageFactor == 0 {
		b.BulletDamageFactor = 0.5
	}
	if b.MinionsPerSpawn == 0 {
		b.MinionsPerSpawn = 3
	}
	if b.MinionInterval == 0 {
		b.MinionInterval = 15
	}
	if b.MinionRadius == 0 {
		b.MinionRadius = 3
	}
	if b.FirstMinionDelay == 0 {
		b.FirstMinionDelay = 5
	}
	if b.MinionHealthFactor == 0 {
		b.MinionHealthFactor = 0.5
	}
	if b.MinionDamageFactor == 0 {
		b.MinionDamageFactor = 0.7
	}
	if b.MinionSpeedFactor == 0 {
		b.MinionSpeedFactor = 1
	}
}

// validateEnemyCatalog 验证敌人目录的完整性和合法性
func validateEnemyCatalog(catalog *EnemyCatalog) error {
	if len(catalog.Enemies) == 0 {
		return fmt.Errorf("at least one enemy type is required")
	}

	for _, id := range catalog.IDs() {
		cfg := catalog.Enemies[id]

		if cfg.MaxHealth < 0 || cfg.Damage < 0 || cfg.MoveSpeed < 0 {
			return fmt.Errorf("enemy %s: maxHealth/damage/moveSpeed cannot be negative", id)
		}

		if chance := cfg.Loot.DropChance(); chance < 0 || chance > 1 {
			return fmt.Errorf("enemy %s: healthDropChance must be within [0,1], got %.2f", id, chance)
		}

		if cfg.Pool.InitialSize < 0 || cfg.Pool.MaxSize < 0 || cfg.Pool.ExpandStep < 0 {
			return fmt.Errorf("enemy %s: pool sizes cannot be negative", id)
		}

		if cfg.Pool.InitialSize > cfg.Pool.MaxSize {
			return fmt.Errorf("enemy %s: pool initialSize (%d) cannot exceed maxSize (%d)", id, cfg.Pool.InitialSize, cfg.Pool.MaxSize)
		}

		if cfg.Behavior == types.BehaviorRanged {
			r := cfg.Ranged
			if r.MinDistance > r.OptimalDistance || r.OptimalDistance > r.MaxDistance {
				return fmt.Errorf("enemy %s: ranged distances must satisfy min <= optimal <= max", id)
			}
		}

		if cfg.Behavior == types.BehaviorBoss && cfg.Boss.MinionPool != "" {
			if _, ok := catalog.Enemies[cfg.Boss.MinionPool]; !ok {
				return fmt.Errorf("enemy %s: minionPool %q is not a known enemy type", id, cfg.Boss.MinionPool)
			}
		}
	}

	return nil
}

// IDs 返回排序后的敌人类型 ID（保证池初始化顺序稳定）
func (c *EnemyCatalog) IDs() []string {
	ids := make([]string, 0, len(c.Enemies))
	for id := range c.Enemies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Get 获取指定敌人类型的配置
// 如果类型不存在，返回 nil 和 false
func (c *EnemyCatalog) Get(id string) (*EnemyTypeConfig, bool) {
	cfg, ok := c.Enemies[id]
	if !ok {
		return nil, false
	}
	return &cfg, true
}
