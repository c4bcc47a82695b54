package game

import (
	"github.com/gonewx/hordewave/pkg/enemy"
	"github.com/gonewx/hordewave/pkg/pool"
	"github.com/gonewx/hordewave/pkg/utils"
)

// EnemyView 单个敌人的只读视图
type EnemyView struct {
	ID             uint64     `json:"id"`
	Type           string     `json:"type"`
	Behavior       string     `json:"behavior"`
	Wave           int        `json:"wave"`
	Position       utils.Vec2 `json:"position"`
	HealthFraction float64    `json:"health"`
	Dying          bool       `json:"dying,omitempty"`
	Flashing       bool       `json:"flashing,omitempty"`
	Warning        bool       `json:"warning,omitempty"`
}

// PlayerView 玩家只读视图
type PlayerView struct {
	Position  utils.Vec2 `json:"position"`
	Health    float64    `json:"health"`
	MaxHealth float64    `json:"maxHealth"`
}

// Snapshot 一个 tick 结束时的模拟状态，供渲染和推送使用
type Snapshot struct {
	Time         float64      `json:"time"`
	Clock        string       `json:"clock"`
	WaveIndex    int          `json:"waveIndex"`
	WaveName     string       `json:"waveName"`
	WaveCount    int          `json:"waveCount"`
	Total        int          `json:"total"`
	CurrentWave  int          `json:"currentWave"`
	Kills        int          `json:"kills"`
	Player       PlayerView   `json:"player"`
	Camera       utils.Rect   `json:"camera"`
	Enemies      []EnemyView  `json:"enemies"`
	Projectiles  []utils.Vec2 `json:"projectiles"`
	Pools        []pool.Info  `json:"pools"`
	Paused       bool         `json:"paused"`
	Over         bool         `json:"over"`
	Victory      bool         `json:"victory"`
	KillsPerMin  float64      `json:"killsPerMinute"`
	DamageDealt  float64      `json:"damageDealt"`
	DamageTaken  float64      `json:"damageTaken"`
	HighestWave  int          `json:"highestWave"`
	XPCollected  int          `json:"xp"`
	Relocated    int          `json:"relocated"`
	Pruned       int          `json:"pruned"`
	PoolFailures int          `json:"poolFailures"`
}

// Snapshot 生成当前状态快照
func (s *Simulation) Snapshot() Snapshot {
	now := s.clock.Elapsed()
	snap := Snapshot{
		Time:        now,
		Clock:       FormatTime(now),
		WaveIndex:   s.scheduler.CurrentWaveIndex(),
		WaveCount:   s.scheduler.WaveCount(),
		Total:       s.scheduler.ActiveEnemyCount(),
		CurrentWave: s.scheduler.CurrentWaveEnemyCount(),
		Kills:       s.stats.Kills,
		Player: PlayerView{
			Position:  s.player.Position,
			Health:    s.player.Health,
			MaxHealth: s.player.MaxHealth,
		},
		Camera:       s.Camera(),
		Paused:       !s.clock.Running(),
		Over:         s.over,
		Victory:      s.victory,
		KillsPerMin:  s.stats.KillsPerMinute(),
		DamageDealt:  s.stats.DamageDealt,
		DamageTaken:  s.stats.DamageTaken,
		HighestWave:  s.stats.HighestWave,
		XPCollected:  s.stats.XPCollected,
		Relocated:    s.respawner.Relocated(),
		Pruned:       s.scheduler.Stats().Pruned,
		PoolFailures: s.scheduler.Stats().PoolExhausted,
	}
	if w, ok := s.scheduler.CurrentWave(); ok {
		snap.WaveName = w.Name
	}

	active := s.registry.Active()
	snap.Enemies = make([]EnemyView, 0, len(active))
	for _, e := range active {
		snap.Enemies = append(snap.Enemies, viewOf(e, now))
	}

	for _, p := range s.projectiles.Active() {
		snap.Projectiles = append(snap.Projectiles, p.Position)
	}

	snap.Pools = append(s.pools.Infos(), s.projectiles.Info())
	return snap
}

func viewOf(e *enemy.Enemy, now float64) EnemyView {
	return EnemyView{
		ID:             e.ID,
		Type:           e.TypeID,
		Behavior:       e.Behavior.String(),
		Wave:           e.WaveOfOrigin,
		Position:       e.Position,
		HealthFraction: e.HealthFraction(),
		Dying:          e.State() == enemy.StateDying,
		Flashing:       e.Flashing(now),
		Warning:        e.Warning(),
	}
}
