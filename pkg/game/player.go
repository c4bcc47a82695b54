package game

import (
	"math"

	"github.com/gonewx/hordewave/pkg/config"
	"github.com/gonewx/hordewave/pkg/utils"
)

// Player 模拟中的玩家（位置、速度、生命值）
type Player struct {
	Position  utils.Vec2
	Velocity  utils.Vec2
	Health    float64
	MaxHealth float64
	HitRadius float64
}

// NewPlayer 按配置创建满血玩家
func NewPlayer(cfg config.PlayerConfig) *Player {
	return &Player{
		Health:    cfg.MaxHealth,
		MaxHealth: cfg.MaxHealth,
		HitRadius: cfg.HitRadius,
	}
}

// Alive 是否存活
func (p *Player) Alive() bool {
	return p.Health > 0
}

// TakeDamage 扣血，返回实际扣除量
func (p *Player) TakeDamage(amount float64) float64 {
	if amount <= 0 || !p.Alive() {
		return 0
	}
	dealt := math.Min(amount, p.Health)
	p.Health -= dealt
	return dealt
}

// Heal 回血（不超过上限），返回实际回复量
func (p *Player) Heal(amount float64) float64 {
	if amount <= 0 || !p.Alive() {
		return 0
	}
	healed := math.Min(amount, p.MaxHealth-p.Health)
	p.Health += healed
	return healed
}

// AreaDamager 范围伤害接口（由 Simulation 实现）
type AreaDamager interface {
	DamageArea(center utils.Vec2, radius, amount float64) int
}

// Autopilot 演示用自动驾驶：绕原点环行，并周期性释放范围伤害
type Autopilot struct {
	cfg       config.PlayerConfig
	angle     float64
	nextPulse float64
	pulses    int
}

// NewAutopilot 创建自动驾驶
func NewAutopilot(cfg config.PlayerConfig) *Autopilot {
	return &Autopilot{cfg: cfg}
}

// Update 移动玩家并在到点时释放脉冲
func (a *Autopilot) Update(p *Player, now, dt float64, damager AreaDamager) {
	if !p.Alive() {
		p.Velocity = utils.Vec2{}
		return
	}

	if a.cfg.OrbitRadius > 0 {
		a.angle += a.cfg.MoveSpeed / a.cfg.OrbitRadius * dt
		target := utils.FromAngle(a.angle, a.cfg.OrbitRadius)
		next := utils.MoveTowards(p.Position, target, a.cfg.MoveSpeed*dt)
		if dt > 0 {
			p.Velocity = next.Sub(p.Position).Scale(1 / dt)
		}
		p.Position = next
	}

	if a.cfg.PulseInterval > 0 && now >= a.nextPulse {
		a.nextPulse = now + a.cfg.PulseInterval
		a.pulses++
		if damager != nil {
			damager.DamageArea(p.Position, a.cfg.PulseRadius, a.cfg.PulseDamage)
		}
	}
}

// Pulses 已释放的脉冲次数
func (a *Autopilot) Pulses() int {
	return a.pulses
}
