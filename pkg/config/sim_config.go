package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/gonewx/hordewave/pkg/embedded"
)

// SimConfig 运行期配置（TOML），与数据配置（YAML 波次/敌人目录）分开
type SimConfig struct {
	Simulation SimulationConfig `toml:"simulation"`
	Spawn      SpawnConfig      `toml:"spawn"`
	Respawn    RespawnConfig    `toml:"respawn"`
	Camera     CameraConfig     `toml:"camera"`
	Player     PlayerConfig     `toml:"player"`
	Projectile ProjectileConfig `toml:"projectile"`
	Logging    LoggingConfig    `toml:"logging"`
	Data       DataConfig       `toml:"data"`
	Feed       FeedConfig       `toml:"feed"`
	Records    RecordsConfig    `toml:"records"`
}

type SimulationConfig struct {
	TickRate         int     `toml:"tick_rate"`    // 每秒 tick 数
	Seed             int64   `toml:"seed"`         // 0 = 使用当前时间
	RunDuration      float64 `toml:"run_duration"` // 通关时长（秒），0 = 无限
	SeparationRadius float64 `toml:"separation_radius"`
	SeparationForce  float64 `toml:"separation_force"`
}

type SpawnConfig struct {
	MinDistance           float64 `toml:"min_distance"`
	MaxDistance           float64 `toml:"max_distance"`
	EdgeOffset            float64 `toml:"edge_offset"`
	MinSpawnCheckInterval float64 `toml:"min_spawn_check_interval"`
	PruneOldEnemies       bool    `toml:"prune_old_enemies"`
	MaxOldEnemiesAllowed  int     `toml:"max_old_enemies_allowed"`
}

type RespawnConfig struct {
	Enabled               bool    `toml:"enabled"`
	CheckInterval         float64 `toml:"check_interval"`
	MaxDistanceFromPlayer float64 `toml:"max_distance_from_player"`
	MinDistance           float64 `toml:"min_distance"`
	MaxDistance           float64 `toml:"max_distance"`
	EdgeOffset            float64 `toml:"edge_offset"`
	OnlyOutsideCamera     bool    `toml:"only_outside_camera"`
	ResetHealth           bool    `toml:"reset_health"`
}

// CameraConfig 摄像机可视范围（世界单位），中心跟随玩家
type CameraConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// PlayerConfig 演示用自动驾驶玩家
type PlayerConfig struct {
	Autopilot     bool    `toml:"autopilot"`
	MaxHealth     float64 `toml:"max_health"`
	HitRadius     float64 `toml:"hit_radius"`
	MoveSpeed     float64 `toml:"move_speed"`
	OrbitRadius   float64 `toml:"orbit_radius"`
	PulseInterval float64 `toml:"pulse_interval"`
	PulseRadius   float64 `toml:"pulse_radius"`
	PulseDamage   float64 `toml:"pulse_damage"`
}

type ProjectileConfig struct {
	Lifetime    float64 `toml:"lifetime"`
	HitRadius   float64 `toml:"hit_radius"`
	InitialSize int     `toml:"initial_size"`
	MaxSize     int     `toml:"max_size"`
	AutoExpand  bool    `toml:"auto_expand"`
	ExpandStep  int     `toml:"expand_step"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type DataConfig struct {
	WavesFile   string `toml:"waves_file"`
	EnemiesFile string `toml:"enemies_file"`
	LootScript  string `toml:"loot_script"` // 为空则使用内置掉落公式
}

type FeedConfig struct {
	Enabled      bool   `toml:"enabled"`
	Addr         string `toml:"addr"`
	Path         string `toml:"path"`
	ClientBuffer int    `toml:"client_buffer"`
}

type RecordsConfig struct {
	Enabled bool   `toml:"enabled"`
	AppName string `toml:"app_name"`
}

// DefaultSimConfig 返回默认运行期配置
func DefaultSimConfig() *SimConfig {
	return &SimConfig{
		Simulation: SimulationConfig{
			TickRate:         60,
			RunDuration:      1800,
			SeparationRadius: 1,
			SeparationForce:  2,
		},
		Spawn: SpawnConfig{
			MinDistance:           15,
			MaxDistance:           20,
			EdgeOffset:            2,
			MinSpawnCheckInterval: 1,
			PruneOldEnemies:       true,
			MaxOldEnemiesAllowed:  10,
		},
		Respawn: RespawnConfig{
			Enabled:               true,
			CheckInterval:         1,
			MaxDistanceFromPlayer: 35,
			MinDistance:           18,
			MaxDistance:           25,
			EdgeOffset:            2,
			OnlyOutsideCamera:     true,
		},
		Camera: CameraConfig{
			Width:  32,
			Height: 18,
		},
		Player: PlayerConfig{
			Autopilot:     true,
			MaxHealth:     1000,
			HitRadius:     0.5,
			MoveSpeed:     4,
			OrbitRadius:   6,
			PulseInterval: 1,
			PulseRadius:   4,
			PulseDamage:   25,
		},
		Projectile: ProjectileConfig{
			Lifetime:    5,
			HitRadius:   0.3,
			InitialSize: 50,
			MaxSize:     100,
			AutoExpand:  true,
			ExpandStep:  10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Data: DataConfig{
			WavesFile:   "data/waves.yaml",
			EnemiesFile: "data/enemies.yaml",
		},
		Feed: FeedConfig{
			Addr:         ":8089",
			Path:         "/ws",
			ClientBuffer: 64,
		},
		Records: RecordsConfig{
			Enabled: true,
			AppName: "hordewave",
		},
	}
}

// LoadSimConfig 读取 TOML 运行期配置，未出现的键保留默认值
func LoadSimConfig(path string) (*SimConfig, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := DefaultSimConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate 检查互相约束的字段
func (c *SimConfig) Validate() error {
	if c.Simulation.TickRate <= 0 {
		return fmt.Errorf("simulation.tick_rate must be positive, got %d", c.Simulation.TickRate)
	}
	if c.Simulation.RunDuration < 0 {
		return fmt.Errorf("simulation.run_duration cannot be negative")
	}
	if c.Spawn.MinDistance < 0 || c.Spawn.MinDistance > c.Spawn.MaxDistance {
		return fmt.Errorf("spawn: min_distance (%.1f) must be within [0, max_distance (%.1f)]", c.Spawn.MinDistance, c.Spawn.MaxDistance)
	}
	if c.Respawn.MinDistance < 0 || c.Respawn.MinDistance > c.Respawn.MaxDistance {
		return fmt.Errorf("respawn: min_distance (%.1f) must be within [0, max_distance (%.1f)]", c.Respawn.MinDistance, c.Respawn.MaxDistance)
	}
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return fmt.Errorf("camera: width and height must be positive")
	}
	if c.Spawn.MaxOldEnemiesAllowed < 0 {
		return fmt.Errorf("spawn.max_old_enemies_allowed cannot be negative")
	}
	return nil
}

// TickDelta 返回每个 tick 的秒数
func (c *SimConfig) TickDelta() float64 {
	return 1.0 / float64(c.Simulation.TickRate)
}
