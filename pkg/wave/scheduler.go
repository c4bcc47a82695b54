// Package wave 实现按时间驱动的波次调度
//
// 每个 tick 的处理顺序：
//  1. 根据运行时间选择激活波次（下标只在变化时触发 WaveChanged）
//  2. 波次切换后按需清理画面外的旧波次敌人
//  3. 节奏计时：到点且当前波次数量 < maxAlive 时生成一个
//  4. 补量检查：每 minSpawnCheckInterval 秒，数量不足 minAlive 时一次补齐（不超过 maxAlive）
//
// 配置错误（无敌人类型、权重和为 0、生成速率非正）不会中断调度，
// 每个波次只记录一次日志，相关生成被跳过。
package wave

import (
	"math/rand"

	"github.com/gonewx/hordewave/pkg/config"
	"github.com/gonewx/hordewave/pkg/enemy"
	"github.com/gonewx/hordewave/pkg/events"
	"github.com/gonewx/hordewave/pkg/registry"
	"github.com/gonewx/hordewave/pkg/spawn"
	"github.com/gonewx/hordewave/pkg/utils"
	"go.uber.org/zap"
)

// View 调度器需要的外部状态（玩家位置、摄像机范围）
type View struct {
	PlayerPos utils.Vec2
	Camera    utils.Rect
}

// Multipliers 难度倍率
type Multipliers struct {
	Health float64
	Damage float64
	Speed  float64
}

// Unit 不改变属性的倍率
var Unit = Multipliers{Health: 1, Damage: 1, Speed: 1}

// Stats 调度器统计
type Stats struct {
	Spawned        int // 成功生成次数（含小怪）
	BurstSpawned   int // 补量生成次数
	PoolExhausted  int // 池耗尽导致的跳过次数
	Pruned         int // 清理的旧波次敌人
	WaveChanges    int
	ConfigWarnings int
}

// Options 调度器依赖
type Options struct {
	Waves    []config.WaveDefinition
	Spawn    config.SpawnConfig
	Pools    *enemy.PoolManager
	Registry *registry.Registry
	Planner  *spawn.Planner
	Bus      *events.Bus // 可为 nil
	Rng      *rand.Rand
	Logger   *zap.Logger
}

// Scheduler 波次调度器
type Scheduler struct {
	waves    []config.WaveDefinition
	spawnCfg config.SpawnConfig
	pools    *enemy.PoolManager
	registry *registry.Registry
	planner  *spawn.Planner
	bus      *events.Bus
	rng      *rand.Rand
	log      *zap.Logger

	spawning       bool
	currentIndex   int
	nextSpawnTime  float64
	nextBurstCheck float64
	pruning        bool
	lastCount      int

	// 当前波次已记录过的配置问题
	warned        map[string]bool
	warnedNoWaves bool

	stats Stats
}

// NewScheduler 创建调度器，初始为未启动状态
func NewScheduler(opts Options) *Scheduler {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	rng := opts.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	planner := opts.Planner
	if planner == nil {
		planner = spawn.NewPlanner(rng)
	}
	reg := opts.Registry
	if reg == nil {
		reg = registry.New()
	}

	return &Scheduler{
		waves:        opts.Waves,
		spawnCfg:     opts.Spawn,
		pools:        opts.Pools,
		registry:     reg,
		planner:      planner,
		bus:          opts.Bus,
		rng:          rng,
		log:          log,
		currentIndex: -1,
		warned:       make(map[string]bool),
	}
}

// SelectActiveWave 返回 startTime <= elapsed 的最大下标
// 没有满足条件的波次（含空列表）时返回 -1
func SelectActiveWave(waves []config.WaveDefinition, elapsed float64) int {
	for i := len(waves) - 1; i >= 0; i-- {
		if elapsed >= waves[i].StartTime {
			return i
		}
	}
	return -1
}

// Start 开始调度
func (s *Scheduler) Start() {
	s.spawning = true
}

// Stop 停止调度（已生成的敌人不受影响）
func (s *Scheduler) Stop() {
	s.spawning = false
}

// IsSpawning 是否处于调度中
func (s *Scheduler) IsSpawning() bool {
	return s.spawning
}

// Update 执行一次调度
func (s *Scheduler) Update(now float64, view View) {
	if !s.spawning {
		return
	}

	if len(s.waves) == 0 {
		if !s.warnedNoWaves {
			s.warnedNoWaves = true
			s.stats.ConfigWarnings++
			s.log.Warn("no waves configured, spawning disabled")
		}
		return
	}

	s.updateCurrentWave(now)
	if s.currentIndex < 0 {
		return
	}

	if s.pruning {
		s.pruneOldEnemies(view.Camera)
	}

	wave := &s.waves[s.currentIndex]
	s.updatePacing(now, wave, view)
	s.updateBurst(now, wave, view)
}

// updateCurrentWave 波次切换：触发一次事件，节奏计时器立即到点
func (s *Scheduler) updateCurrentWave(now float64) {
	index := SelectActiveWave(s.waves, now)
	if index == s.currentIndex || index < 0 {
		return
	}

	previous := s.currentIndex
	s.currentIndex = index
	s.nextSpawnTime = now
	s.nextBurstCheck = now
	clear(s.warned)
	s.stats.WaveChanges++

	s.pruning = s.spawnCfg.PruneOldEnemies && index > 0

	wave := &s.waves[index]
	s.log.Info("wave started",
		zap.Int("index", index),
		zap.String("name", wave.Name),
		zap.Float64("time", now))

	if s.bus != nil {
		events.Emit(s.bus, events.WaveChanged{
			Index:    index,
			Previous: previous,
			Name:     wave.Name,
			Time:     now,
		})
	}
}

func (s *Scheduler) updatePacing(now float64, wave *config.WaveDefinition, view View) {
	interval, ok := wave.SpawnInterval()
	if !ok {
		s.warnOnce("spawn_rate", "wave has non-positive spawn rate, paced spawning disabled",
			zap.Int("spawnRate", wave.SpawnRate))
		return
	}

	if now < s.nextSpawnTime {
		return
	}
	if s.CurrentWaveEnemyCount() >= wave.MaxAlive {
		return
	}

	if s.spawnOne(now, wave, view) != nil {
		s.nextSpawnTime = now + interval
	}
}

// updateBurst 补量：绕过节奏计时，一次补到 min(minAlive, maxAlive)
func (s *Scheduler) updateBurst(now float64, wave *config.WaveDefinition, view View) {
	if now < s.nextBurstCheck {
		return
	}
	s.nextBurstCheck = now + s.spawnCfg.MinSpawnCheckInterval

	target := min(wave.MinAlive, wave.MaxAlive)
	for s.CurrentWaveEnemyCount() < target {
		if s.spawnOne(now, wave, view) == nil {
			return
		}
		s.stats.BurstSpawned++
	}
}

// spawnOne 按当前波次生成一个敌人，失败返回 nil
func (s *Scheduler) spawnOne(now float64, wave *config.WaveDefinition, view View) *enemy.Enemy {
	typeID, ok := s.PickEnemyType(wave)
	if !ok {
		return nil
	}

	pos := s.planner.Plan(view.PlayerPos, s.spawnCfg.MinDistance, s.spawnCfg.MaxDistance, view.Camera, s.spawnCfg.EdgeOffset)
	return s.SpawnAt(typeID, pos, s.currentIndex, Multipliers{
		Health: wave.HealthMultiplier,
		Damage: wave.DamageMultiplier,
		Speed:  wave.SpeedMultiplier,
	}, now)
}

// SpawnAt 从指定池生成敌人：应用倍率、登记到所属波次并发出事件
//
// 池不存在或耗尽时返回 nil（软失败）。
func (s *Scheduler) SpawnAt(poolName string, pos utils.Vec2, wave int, mult Multipliers, now float64) *enemy.Enemy {
	return s.spawnAt(poolName, pos, wave, mult, now, false)
}

// SpawnSummoned 生成召唤物（Boss 小怪）
//
// 与 SpawnAt 相同，但登记为召唤物：不计入 CurrentWaveEnemyCount，
// 因此不会挤占波次的存活上限，也不会抑制节奏生成。
func (s *Scheduler) SpawnSummoned(poolName string, pos utils.Vec2, wave int, mult Multipliers, now float64) *enemy.Enemy {
	return s.spawnAt(poolName, pos, wave, mult, now, true)
}

func (s *Scheduler) spawnAt(poolName string, pos utils.Vec2, wave int, mult Multipliers, now float64, summoned bool) *enemy.Enemy {
	if s.pools == nil {
		return nil
	}
	if !s.pools.HasPool(poolName) {
		s.warnOnce("pool:"+poolName, "unknown enemy pool, spawn skipped", zap.String("pool", poolName))
		return nil
	}

	e := s.pools.Spawn(poolName, pos, wave, now)
	if e == nil {
		s.stats.PoolExhausted++
		s.log.Debug("pool exhausted, spawn skipped", zap.String("pool", poolName))
		return nil
	}

	e.ApplyMultipliers(mult.Health, mult.Damage, mult.Speed)
	if summoned {
		s.registry.RegisterSummoned(e, wave)
	} else {
		s.registry.Register(e, wave)
	}
	s.stats.Spawned++

	if s.bus != nil {
		events.Emit(s.bus, events.EnemySpawned{
			EnemyID:  e.ID,
			Type:     e.TypeID,
			Behavior: e.Behavior.String(),
			Wave:     wave,
			Position: pos,
			Time:     now,
		})
	}
	s.emitCount()
	return e
}

// PickEnemyType 按权重随机选择敌人类型
//
// 权重缺失或数量与类型不一致时均匀随机；
// 权重按顺序累加，取第一个累计值大于随机数的类型。
func (s *Scheduler) PickEnemyType(wave *config.WaveDefinition) (string, bool) {
	if len(wave.EnemyTypes) == 0 {
		s.warnOnce("no_types", "wave has no enemy types, spawn skipped", zap.String("wave", wave.Name))
		return "", false
	}

	if !wave.HasUsableWeights() {
		return wave.EnemyTypes[s.rng.Intn(len(wave.EnemyTypes))], true
	}

	total := wave.TotalWeight()
	if total <= 0 {
		s.warnOnce("zero_weight", "wave enemy weights sum to zero, spawn skipped", zap.String("wave", wave.Name))
		return "", false
	}

	r := s.rng.Intn(total)
	cumulative := 0
	for i, weight := range wave.EnemyWeights {
		cumulative += weight
		if r < cumulative {
			return wave.EnemyTypes[i], true
		}
	}
	return wave.EnemyTypes[0], true
}

// pruneOldEnemies 把画面外的旧波次敌人归还到池，直到数量不超过上限
// 按登记顺序取第一个满足条件的敌人
func (s *Scheduler) pruneOldEnemies(camera utils.Rect) {
	limit := s.spawnCfg.MaxOldEnemiesAllowed
	excess := s.registry.CountOlderWaves(s.currentIndex) - limit
	if excess <= 0 {
		s.pruning = false
		return
	}

	removed := 0
	for _, e := range s.registry.OffscreenOlderWaves(s.currentIndex, camera) {
		if removed >= excess {
			break
		}
		if s.pools != nil {
			s.pools.Despawn(e)
		}
		s.registry.MarkForRemoval(e)
		removed++
	}

	if removed > 0 {
		s.stats.Pruned += removed
		s.log.Debug("pruned old enemies", zap.Int("count", removed), zap.Int("wave", s.currentIndex))
	}
	if removed >= excess {
		s.pruning = false
	}
}

// Cleanup 清理登记表中已删除或失效的条目，数量变化时发出 EnemyCountChanged
func (s *Scheduler) Cleanup() int {
	removed := s.registry.Sweep()
	if removed > 0 {
		s.emitCount()
	}
	return removed
}

// ClearAllEnemies 把所有登记中的敌人归还到池并清空登记表
func (s *Scheduler) ClearAllEnemies() int {
	cleared := 0
	for _, e := range s.registry.Active() {
		if s.pools != nil && s.pools.Despawn(e) {
			cleared++
		}
	}
	s.registry.Clear()
	s.emitCount()
	s.log.Info("cleared all enemies", zap.Int("count", cleared))
	return cleared
}

func (s *Scheduler) emitCount() {
	total := s.registry.Count()
	if s.bus == nil || total == s.lastCount {
		s.lastCount = total
		return
	}
	s.lastCount = total
	events.Emit(s.bus, events.EnemyCountChanged{
		Total:       total,
		CurrentWave: s.CurrentWaveEnemyCount(),
		WaveIndex:   s.currentIndex,
	})
}

func (s *Scheduler) warnOnce(key, msg string, fields ...zap.Field) {
	if s.warned[key] {
		return
	}
	s.warned[key] = true
	s.stats.ConfigWarnings++
	s.log.Warn(msg, append(fields, zap.Int("waveIndex", s.currentIndex))...)
}

// CurrentWaveIndex 当前波次下标，尚未进入任何波次时为 -1
func (s *Scheduler) CurrentWaveIndex() int {
	return s.currentIndex
}

// CurrentWave 当前波次定义
func (s *Scheduler) CurrentWave() (*config.WaveDefinition, bool) {
	if s.currentIndex < 0 || s.currentIndex >= len(s.waves) {
		return nil, false
	}
	return &s.waves[s.currentIndex], true
}

// ActiveEnemyCount 登记中的敌人总数
func (s *Scheduler) ActiveEnemyCount() int {
	return s.registry.Count()
}

// CurrentWaveEnemyCount 所属波次为当前波次的敌人数量
func (s *Scheduler) CurrentWaveEnemyCount() int {
	if s.currentIndex < 0 {
		return 0
	}
	return s.registry.CountForWave(s.currentIndex)
}

// NextSpawnTime 下一次节奏生成的时间
func (s *Scheduler) NextSpawnTime() float64 {
	return s.nextSpawnTime
}

// WaveCount 波次总数
func (s *Scheduler) WaveCount() int {
	return len(s.waves)
}

// Stats 返回统计快照
func (s *Scheduler) Stats() Stats {
	return s.stats
}

// Registry 返回敌人登记表
func (s *Scheduler) Registry() *registry.Registry {
	return s.registry
}
