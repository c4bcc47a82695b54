package game

import "sort"

// Phase 单个 tick 内的执行顺序
type Phase int

const (
	PhaseEvents      Phase = iota // 0: 派发上一个 tick 的事件，处理延迟请求
	PhaseWave                     // 1: 波次选择、清理旧敌人、节奏生成、补量
	PhaseBehavior                 // 2: 玩家与敌人行为、接触伤害
	PhaseProjectiles              // 3: 子弹移动与命中
	PhaseRespawn                  // 4: 远距离敌人重定位
	PhaseCleanup                  // 5: 回收死亡敌人、清理登记表
)

func (p Phase) String() string {
	switch p {
	case PhaseEvents:
		return "events"
	case PhaseWave:
		return "wave"
	case PhaseBehavior:
		return "behavior"
	case PhaseProjectiles:
		return "projectiles"
	case PhaseRespawn:
		return "respawn"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System 每个 tick 在指定阶段执行一次
type System interface {
	Phase() Phase
	Update(dt float64)
}

// Runner 按阶段顺序执行系统，同一阶段内保持注册顺序
type Runner struct {
	systems []System
	sorted  bool
}

// NewRunner 创建系统执行器
func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 8),
	}
}

// Register 注册系统
func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Tick 执行所有系统
func (r *Runner) Tick(dt float64) {
	r.ensureSorted()
	for _, s := range r.systems {
		s.Update(dt)
	}
}

// TickPhase 只执行指定阶段的系统
func (r *Runner) TickPhase(phase Phase, dt float64) {
	r.ensureSorted()
	for _, s := range r.systems {
		if s.Phase() == phase {
			s.Update(dt)
		}
	}
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}

// phaseFunc 把函数包装成 System
type phaseFunc struct {
	phase Phase
	fn    func(dt float64)
}

func (p phaseFunc) Phase() Phase      { return p.phase }
func (p phaseFunc) Update(dt float64) { p.fn(dt) }
