// Package game 组装整个波次模拟
//
// Simulation 是唯一的根对象：在创建时构造对象池、登记表、调度器等所有组件，
// 并显式传递引用，不使用任何全局单例。每个 tick 按 Phase 顺序执行。
package game

import (
	"errors"
	"math/rand"
	"time"

	"github.com/gonewx/hordewave/pkg/combat"
	"github.com/gonewx/hordewave/pkg/config"
	"github.com/gonewx/hordewave/pkg/enemy"
	"github.com/gonewx/hordewave/pkg/events"
	"github.com/gonewx/hordewave/pkg/registry"
	"github.com/gonewx/hordewave/pkg/spawn"
	"github.com/gonewx/hordewave/pkg/utils"
	"github.com/gonewx/hordewave/pkg/wave"
	"go.uber.org/zap"
)

// ErrNoCatalog 未提供敌人目录
var ErrNoCatalog = errors.New("game: enemy catalog is required")

// Options 模拟依赖
type Options struct {
	Config  *config.SimConfig // nil 使用默认配置
	Waves   []config.WaveDefinition
	Catalog *config.EnemyCatalog
	Loot    enemy.LootRoller // nil 使用内置掉落公式
	Bus     *events.Bus      // nil 时新建
	Rng     *rand.Rand       // nil 时按 Config.Simulation.Seed 创建
	Logger  *zap.Logger
}

// Simulation 模拟根对象
type Simulation struct {
	cfg *config.SimConfig
	log *zap.Logger
	rng *rand.Rand
	bus *events.Bus

	clock       *RunClock
	pools       *enemy.PoolManager
	registry    *registry.Registry
	planner     *spawn.Planner
	scheduler   *wave.Scheduler
	respawner   *spawn.Respawner
	projectiles *combat.Projectiles
	player      *Player
	autopilot   *Autopilot
	stats       *RunStats
	loot        enemy.LootRoller
	fx          *effects
	runner      *Runner

	ticks   uint64
	over    bool
	victory bool
}

// New 创建模拟（未启动，需调用 Start）
func New(opts Options) (*Simulation, error) {
	if opts.Catalog == nil {
		return nil, ErrNoCatalog
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultSimConfig()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	rng := opts.Rng
	if rng == nil {
		seed := cfg.Simulation.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}
	bus := opts.Bus
	if bus == nil {
		bus = events.NewBus()
	}
	loot := opts.Loot
	if loot == nil {
		loot = enemy.DefaultLootRoller{}
	}

	projectiles, err := combat.NewProjectiles(cfg.Projectile, log.Named("Projectiles"))
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		cfg:         cfg,
		log:         log.Named("Simulation"),
		rng:         rng,
		bus:         bus,
		clock:       NewRunClock(cfg.Simulation.RunDuration),
		pools:       enemy.NewPoolManager(opts.Catalog, log.Named("EnemyPool")),
		registry:    registry.New(),
		planner:     spawn.NewPlanner(rng),
		projectiles: projectiles,
		player:      NewPlayer(cfg.Player),
		loot:        loot,
		runner:      NewRunner(),
	}
	s.fx = &effects{sim: s}
	s.respawner = spawn.NewRespawner(cfg.Respawn, s.planner, log.Named("Respawner"))
	s.scheduler = wave.NewScheduler(wave.Options{
		Waves:    opts.Waves,
		Spawn:    cfg.Spawn,
		Pools:    s.pools,
		Registry: s.registry,
		Planner:  s.planner,
		Bus:      bus,
		Rng:      rng,
		Logger:   log.Named("WaveScheduler"),
	})
	if cfg.Player.Autopilot {
		s.autopilot = NewAutopilot(cfg.Player)
	}

	// 模拟自身的订阅先于统计和外部订阅者注册
	events.Subscribe(bus, s.onProjectileFired)
	events.Subscribe(bus, s.onExplosion)
	events.Subscribe(bus, s.onMinionsRequested)
	events.Subscribe(bus, s.onLootDropped)

	s.stats = NewRunStats(s.clock)
	s.stats.Attach(bus)

	s.runner.Register(phaseFunc{PhaseEvents, s.updateEvents})
	s.runner.Register(phaseFunc{PhaseWave, s.updateWave})
	s.runner.Register(phaseFunc{PhaseBehavior, s.updateBehavior})
	s.runner.Register(phaseFunc{PhaseProjectiles, s.updateProjectiles})
	s.runner.Register(phaseFunc{PhaseRespawn, s.updateRespawn})
	s.runner.Register(phaseFunc{PhaseCleanup, s.updateCleanup})

	s.log.Info("simulation created",
		zap.Int("waves", len(opts.Waves)),
		zap.Int("enemyTypes", len(opts.Catalog.Enemies)),
		zap.Bool("autopilot", cfg.Player.Autopilot))
	return s, nil
}

// Start 开始计时与生成
func (s *Simulation) Start() {
	s.clock.Start()
	s.scheduler.Start()
}

// Pause 暂停（Tick 不再推进）
func (s *Simulation) Pause() {
	s.clock.Pause()
}

// Resume 继续
func (s *Simulation) Resume() {
	if !s.over {
		s.clock.Resume()
	}
}

// Paused 是否暂停
func (s *Simulation) Paused() bool {
	return !s.clock.Running()
}

// Tick 推进 dt 秒
func (s *Simulation) Tick(dt float64) {
	if s.over || !s.clock.Running() {
		return
	}

	completed := s.clock.Advance(dt)
	s.ticks++
	s.runner.Tick(dt)

	switch {
	case !s.player.Alive():
		s.finish(false)
	case completed:
		s.finish(true)
	}
}

// RunFor 以固定步长运行 seconds 秒（或直到本局结束），返回执行的 tick 数
func (s *Simulation) RunFor(seconds float64) int {
	dt := s.cfg.TickDelta()
	end := s.clock.Elapsed() + seconds
	n := 0
	for !s.over && s.clock.Running() && s.clock.Elapsed()+dt/2 < end {
		s.Tick(dt)
		n++
	}
	return n
}

func (s *Simulation) finish(victory bool) {
	s.over = true
	s.victory = victory
	s.clock.Pause()
	s.scheduler.Stop()
	s.log.Info("run finished",
		zap.Bool("victory", victory),
		zap.String("time", FormatTime(s.clock.Elapsed())),
		zap.Int("kills", s.stats.Kills),
		zap.Int("highestWave", s.stats.HighestWave))
}

// view 当前玩家位置和摄像机范围
func (s *Simulation) view() wave.View {
	return wave.View{
		PlayerPos: s.player.Position,
		Camera:    s.Camera(),
	}
}

// Camera 摄像机可视范围（以玩家为中心）
func (s *Simulation) Camera() utils.Rect {
	return utils.RectFromCenter(s.player.Position, s.cfg.Camera.Width, s.cfg.Camera.Height)
}

func (s *Simulation) updateEvents(float64) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}

func (s *Simulation) updateWave(float64) {
	s.scheduler.Update(s.clock.Elapsed(), s.view())
}

func (s *Simulation) updateBehavior(dt float64) {
	now := s.clock.Elapsed()
	if s.autopilot != nil {
		s.autopilot.Update(s.player, now, dt, s)
	}

	ctx := &enemy.Context{
		Now:       now,
		Dt:        dt,
		PlayerPos: s.player.Position,
		PlayerVel: s.player.Velocity,
		Rng:       s.rng,
		Fx:        s.fx,
	}

	active := s.registry.Active()
	for _, e := range active {
		e.Update(ctx)
	}
	s.applySeparation(active, dt)

	for _, e := range active {
		touching := e.IsAlive() && e.CollisionEnabled() &&
			utils.Dist(e.Position, s.player.Position) <= e.ContactRadius()+s.player.HitRadius
		e.UpdateContact(touching, now, s.fx)
	}
}

// applySeparation 相互靠得太近的敌人彼此推开，越近推力越大
func (s *Simulation) applySeparation(active []*enemy.Enemy, dt float64) {
	radius := s.cfg.Simulation.SeparationRadius
	force := s.cfg.Simulation.SeparationForce
	if radius <= 0 || force <= 0 {
		return
	}

	for _, e := range active {
		if !e.IsAlive() {
			continue
		}
		var push utils.Vec2
		count := 0
		for _, other := range active {
			if other == e || !other.IsAlive() {
				continue
			}
			d := utils.Dist(e.Position, other.Position)
			if d >= radius {
				continue
			}
			away := e.Position.Sub(other.Position).Normalize()
			if away.IsZero() {
				away = utils.FromAngle(float64(e.ID), 1)
			}
			push = push.Add(away.Scale(1 - d/radius))
			count++
		}
		if count > 0 {
			push = push.Scale(force / float64(count))
			e.Position = e.Position.Add(push.Scale(dt))
		}
	}
}

func (s *Simulation) updateProjectiles(dt float64) {
	hits := s.projectiles.Update(s.clock.Elapsed(), dt, s.player.Position, s.player.HitRadius)
	for _, h := range hits {
		s.damagePlayer(h.Damage, "projectile")
	}
}

func (s *Simulation) updateRespawn(float64) {
	s.respawner.Update(s.clock.Elapsed(), s.player.Position, s.Camera(), s.registry.Active())
}

// updateCleanup 回收死亡演出结束的敌人，然后清理登记表
func (s *Simulation) updateCleanup(float64) {
	now := s.clock.Elapsed()
	for _, e := range s.registry.Active() {
		if e.ReadyForRecycle(now) {
			s.pools.Despawn(e)
			s.registry.MarkForRemoval(e)
		}
	}
	s.scheduler.Cleanup()
}

func (s *Simulation) onProjectileFired(ev events.ProjectileFired) {
	s.projectiles.Fire(ev.OwnerID, ev.Origin, ev.Velocity, ev.Damage, s.clock.Elapsed())
}

func (s *Simulation) onExplosion(ev events.ExplosionTriggered) {
	dmg := combat.BlastDamage(ev.Position, ev.Radius, ev.Damage, s.player.Position, s.player.HitRadius)
	if dmg > 0 {
		s.damagePlayer(dmg, "explosion")
	}
}

func (s *Simulation) onMinionsRequested(ev events.MinionsRequested) {
	mult := wave.Multipliers{Health: ev.HealthFactor, Damage: ev.DamageFactor, Speed: ev.SpeedFactor}
	spawned := 0
	for i := 0; i < ev.Count; i++ {
		pos := s.planner.Around(ev.Center, ev.Radius)
		if s.scheduler.SpawnSummoned(ev.Pool, pos, ev.Wave, mult, s.clock.Elapsed()) != nil {
			spawned++
		}
	}
	s.log.Debug("minions spawned",
		zap.Uint64("boss", ev.BossID),
		zap.Int("requested", ev.Count),
		zap.Int("spawned", spawned))
}

// onLootDropped 掉落自动拾取：血包直接回复玩家
func (s *Simulation) onLootDropped(ev events.LootDropped) {
	if ev.Health > 0 {
		s.player.Heal(ev.Health)
	}
}

func (s *Simulation) damagePlayer(amount float64, source string) {
	dealt := s.player.TakeDamage(amount)
	if dealt <= 0 {
		return
	}
	events.Emit(s.bus, events.PlayerDamaged{
		Amount: dealt,
		Source: source,
		Time:   s.clock.Elapsed(),
	})
}

// DamageEnemy 对单个敌人造成伤害（供外部武器调用），返回实际伤害
func (s *Simulation) DamageEnemy(e *enemy.Enemy, amount float64) float64 {
	if e == nil || !s.registry.Contains(e) {
		return 0
	}
	return e.TakeDamage(amount, s.clock.Elapsed(), s.fx)
}

// DamageArea 对圆形范围内所有存活敌人造成伤害，返回命中数量
func (s *Simulation) DamageArea(center utils.Vec2, radius, amount float64) int {
	hit := 0
	for _, e := range s.registry.Active() {
		if !e.IsAlive() || utils.Dist(e.Position, center) > radius+e.ContactRadius() {
			continue
		}
		if s.DamageEnemy(e, amount) > 0 {
			hit++
		}
	}
	return hit
}

// ClearAllEnemies 归还所有敌人和子弹
func (s *Simulation) ClearAllEnemies() int {
	s.projectiles.Clear()
	return s.scheduler.ClearAllEnemies()
}

// Skip 快进运行时间（调试用），下一个 tick 生效
func (s *Simulation) Skip(seconds float64) {
	if s.clock.Skip(seconds) {
		s.finish(true)
	}
}

func (s *Simulation) Bus() *events.Bus                 { return s.bus }
func (s *Simulation) Clock() *RunClock                 { return s.clock }
func (s *Simulation) Stats() *RunStats                 { return s.stats }
func (s *Simulation) Player() *Player                  { return s.player }
func (s *Simulation) Scheduler() *wave.Scheduler       { return s.scheduler }
func (s *Simulation) Registry() *registry.Registry     { return s.registry }
func (s *Simulation) Pools() *enemy.PoolManager        { return s.pools }
func (s *Simulation) Projectiles() *combat.Projectiles { return s.projectiles }
func (s *Simulation) Config() *config.SimConfig        { return s.cfg }
func (s *Simulation) Ticks() uint64                    { return s.ticks }

// Over 本局是否结束，以及是否通关
func (s *Simulation) Over() (over, victory bool) {
	return s.over, s.victory
}
