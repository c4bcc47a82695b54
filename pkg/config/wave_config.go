package config

import (
	"fmt"

	"github.com/gonewx/hordewave/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// WaveDefinition 一个时间段内的波次配置（只读）
//
// 当 elapsed >= StartTime 且没有更晚的波次同样满足条件时，该波次处于激活状态。
type WaveDefinition struct {
	Name      string  `yaml:"name"`      // 波次名称，仅用于日志和显示
	StartTime float64 `yaml:"startTime"` // 开始时间（秒，从本局开始计）

	// 敌人类型与权重，两个列表按下标对应
	// 权重缺失或数量与类型不一致时，回退为均匀随机
	EnemyTypes   []string `yaml:"enemyTypes"`
	EnemyWeights []int    `yaml:"enemyWeights"`

	SpawnRate int `yaml:"spawnRate"` // 每分钟生成的敌人数
	MaxAlive  int `yaml:"maxAlive"`  // 本波次存活上限
	MinAlive  int `yaml:"minAlive"`  // 本波次存活下限（低于时触发补刷）

	// 难度倍率，作用于敌人基础属性；未配置时为 1，显式的 0 保留
	HealthMultiplier float64 `yaml:"healthMultiplier"`
	DamageMultiplier float64 `yaml:"damageMultiplier"`
	SpeedMultiplier  float64 `yaml:"speedMultiplier"`
}

// UnmarshalYAML 先填入倍率默认值再解码，缺失的键保持为 1
func (w *WaveDefinition) UnmarshalYAML(node *yaml.Node) error {
	type plain WaveDefinition
	raw := plain{HealthMultiplier: 1, DamageMultiplier: 1, SpeedMultiplier: 1}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*w = WaveDefinition(raw)
	return nil
}

// WaveListConfig 波次配置文件结构
type WaveListConfig struct {
	Waves []WaveDefinition `yaml:"waves"`
}

// HasUsableWeights 判断权重列表是否可用于加权随机
// 条件：权重数量与敌人类型数量一致且非空
func (w *WaveDefinition) HasUsableWeights() bool {
	return len(w.EnemyWeights) > 0 && len(w.EnemyWeights) == len(w.EnemyTypes)
}

// TotalWeight 返回权重之和（仅在 HasUsableWeights 为 true 时有意义）
func (w *WaveDefinition) TotalWeight() int {
	total := 0
	for _, weight := range w.EnemyWeights {
		total += weight
	}
	return total
}

// SpawnInterval 返回两次生成之间的间隔（秒）
// SpawnRate <= 0 时返回 0 和 false
func (w *WaveDefinition) SpawnInterval() (float64, bool) {
	if w.SpawnRate <= 0 {
		return 0, false
	}
	return 60.0 / float64(w.SpawnRate), true
}

// LoadWaves 从 YAML 文件加载波次列表
// 参数：
//
//	filepath - 配置文件路径（嵌入模式下以 data/ 开头）
//
// 返回：
//
//	*WaveListConfig - 解析后的配置对象
//	error - 如果文件读取、解析或验证失败，返回错误信息
func LoadWaves(filepath string) (*WaveListConfig, error) {
	data, err := embedded.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read wave config file %s: %w", filepath, err)
	}

	cfg, err := ParseWaves(data)
	if err != nil {
		return nil, fmt.Errorf("%w (from %s)", err, filepath)
	}
	return cfg, nil
}

// ParseWaves 解析 YAML 格式的波次列表，应用默认值并验证
func ParseWaves(data []byte) (*WaveListConfig, error) {
	var cfg WaveListConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse wave config YAML: %w", err)
	}

	applyWaveDefaults(&cfg)

	if err := ValidateWaves(cfg.Waves); err != nil {
		return nil, fmt.Errorf("invalid wave config: %w", err)
	}

	return &cfg, nil
}

// applyWaveDefaults 为缺失的可选字段设置默认值
func applyWaveDefaults(cfg *WaveListConfig) {
	for i := range cfg.Waves {
		w := &cfg.Waves[i]

		if w.Name == "" {
			w.Name = fmt.Sprintf("Wave %d", i+1)
		}
	}
}

// ValidateWaves 验证波次列表的结构约束
//
// 空类型列表、零权重和非正生成速率不在这里拒绝：
// 它们属于运行期配置错误，由调度器记录日志并跳过。
func ValidateWaves(waves []WaveDefinition) error {
	for i, w := range waves {
		if i > 0 && w.StartTime <= waves[i-1].StartTime {
			return fmt.Errorf("wave %d (%s): startTime %.2f must be greater than previous wave's %.2f",
				i, w.Name, w.StartTime, waves[i-1].StartTime)
		}

		if w.StartTime < 0 {
			return fmt.Errorf("wave %d (%s): startTime cannot be negative, got %.2f", i, w.Name, w.StartTime)
		}

		if w.MaxAlive < 0 || w.MinAlive < 0 {
			return fmt.Errorf("wave %d (%s): maxAlive/minAlive cannot be negative", i, w.Name)
		}

		if w.MinAlive > w.MaxAlive {
			return fmt.Errorf("wave %d (%s): minAlive (%d) cannot exceed maxAlive (%d)", i, w.Name, w.MinAlive, w.MaxAlive)
		}

		if w.HealthMultiplier < 0 || w.DamageMultiplier < 0 || w.SpeedMultiplier < 0 {
			return fmt.Errorf("wave %d (%s): multipliers cannot be negative", i, w.Name)
		}

		for j, weight := range w.EnemyWeights {
			if weight < 0 {
				return fmt.Errorf("wave %d (%s): enemyWeights[%d] cannot be negative, got %d", i, w.Name, j, weight)
			}
		}
	}

	return nil
}
