package game

import (
	"sort"

	"github.com/gonewx/hordewave/pkg/events"
)

// RunStats 本局统计，通过事件总线收集
//
// 只读取事件，不修改模拟状态。
type RunStats struct {
	clock *RunClock

	Kills       int
	KillsByType map[string]int
	Spawned     int

	CurrentWave int
	HighestWave int

	DamageDealt float64
	DamageTaken float64

	XPCollected     int
	HealthCollected float64
	HealthDrops     int
}

// NewRunStats 创建统计
func NewRunStats(clock *RunClock) *RunStats {
	return &RunStats{
		clock:       clock,
		KillsByType: make(map[string]int),
	}
}

// Attach 订阅事件
func (s *RunStats) Attach(bus *events.Bus) {
	events.Subscribe(bus, s.onEnemyKilled)
	events.Subscribe(bus, s.onEnemySpawned)
	events.Subscribe(bus, s.onEnemyDamaged)
	events.Subscribe(bus, s.onPlayerDamaged)
	events.Subscribe(bus, s.onWaveChanged)
	events.Subscribe(bus, s.onLootDropped)
}

func (s *RunStats) onEnemyKilled(ev events.EnemyKilled) {
	s.Kills++
	s.KillsByType[ev.Type]++
}

func (s *RunStats) onEnemySpawned(events.EnemySpawned) {
	s.Spawned++
}

func (s *RunStats) onEnemyDamaged(ev events.EnemyDamaged) {
	s.DamageDealt += ev.Amount
}

func (s *RunStats) onPlayerDamaged(ev events.PlayerDamaged) {
	s.DamageTaken += ev.Amount
}

func (s *RunStats) onWaveChanged(ev events.WaveChanged) {
	s.CurrentWave = ev.Index
	if ev.Index > s.HighestWave {
		s.HighestWave = ev.Index
	}
}

func (s *RunStats) onLootDropped(ev events.LootDropped) {
	s.XPCollected += ev.XP
	if ev.Health > 0 {
		s.HealthDrops++
		s.HealthCollected += ev.Health
	}
}

// PlayTime 已运行秒数（暂停期间不计）
func (s *RunStats) PlayTime() float64 {
	if s.clock == nil {
		return 0
	}
	return s.clock.Elapsed()
}

// KillsPerMinute 每分钟击杀数
func (s *RunStats) KillsPerMinute() float64 {
	t := s.PlayTime()
	if t <= 0 {
		return 0
	}
	return float64(s.Kills) / t * 60
}

// DPS 平均每秒伤害
func (s *RunStats) DPS() float64 {
	t := s.PlayTime()
	if t <= 0 {
		return 0
	}
	return s.DamageDealt / t
}

// TypeKill 单个类型的击杀数
type TypeKill struct {
	Type  string `json:"type"`
	Kills int    `json:"kills"`
}

// KillBreakdown 按击杀数降序（相同时按类型名）排列
func (s *RunStats) KillBreakdown() []TypeKill {
	out := make([]TypeKill, 0, len(s.KillsByType))
	for t, n := range s.KillsByType {
		out = append(out, TypeKill{Type: t, Kills: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kills != out[j].Kills {
			return out[i].Kills > out[j].Kills
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// Summary 生成本局总结
func (s *RunStats) Summary(victory bool) RunSummary {
	return RunSummary{
		SurvivalTime: s.PlayTime(),
		Kills:        s.Kills,
		HighestWave:  s.HighestWave,
		DamageDealt:  s.DamageDealt,
		Victory:      victory,
	}
}
