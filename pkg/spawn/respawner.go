package spawn

import (
	"github.com/gonewx/hordewave/pkg/config"
	"github.com/gonewx/hordewave/pkg/enemy"
	"github.com/gonewx/hordewave/pkg/utils"
	"go.uber.org/zap"
)

// Respawner 把离玩家过远的敌人重新安置到玩家附近
//
// 每 CheckInterval 秒检查一次；距离超过 MaxDistanceFromPlayer
// （且开启 OnlyOutsideCamera 时不在画面内）的存活敌人被传送到新的环形位置，
// 速度清零，按配置可回满血。
type Respawner struct {
	cfg       config.RespawnConfig
	planner   *Planner
	log       *zap.Logger
	nextCheck float64
	started   bool

	relocated int
}

// NewRespawner 创建重定位器
func NewRespawner(cfg config.RespawnConfig, planner *Planner, log *zap.Logger) *Respawner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Respawner{cfg: cfg, planner: planner, log: log}
}

// Update 到达检查时间时执行一次重定位，返回本次被重定位的敌人数
func (r *Respawner) Update(now float64, playerPos utils.Vec2, camera utils.Rect, enemies []*enemy.Enemy) int {
	if !r.cfg.Enabled {
		return 0
	}
	if r.started && now < r.nextCheck {
		return 0
	}
	r.started = true
	r.nextCheck = now + r.cfg.CheckInterval

	moved := 0
	for _, e := range enemies {
		if !r.shouldRelocate(e, playerPos, camera) {
			continue
		}
		pos := r.planner.Plan(playerPos, r.cfg.MinDistance, r.cfg.MaxDistance, camera, r.cfg.EdgeOffset)
		e.Teleport(pos, r.cfg.ResetHealth)
		moved++
	}

	if moved > 0 {
		r.relocated += moved
		r.log.Debug("relocated distant enemies", zap.Int("count", moved), zap.Float64("time", now))
	}
	return moved
}

func (r *Respawner) shouldRelocate(e *enemy.Enemy, playerPos utils.Vec2, camera utils.Rect) bool {
	if e == nil || !e.IsAlive() {
		return false
	}
	if utils.Dist(e.Position, playerPos) <= r.cfg.MaxDistanceFromPlayer {
		return false
	}
	if r.cfg.OnlyOutsideCamera && camera.Contains(e.Position) {
		return false
	}
	return true
}

// Relocated 累计重定位次数
func (r *Respawner) Relocated() int {
	return r.relocated
}
