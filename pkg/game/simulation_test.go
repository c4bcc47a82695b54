package game

import (
	"math"
	"math/rand"
	"testing"

	"github.com/gonewx/hordewave/pkg/config"
	"github.com/gonewx/hordewave/pkg/enemy"
	"github.com/gonewx/hordewave/pkg/events"
	"github.com/gonewx/hordewave/pkg/utils"
	"github.com/gonewx/hordewave/pkg/wave"
)

const simTestCatalog = `
enemies:
  grunt:
    loot: {xpAmount: 10, healthDropChance: 0}
  medic:
    loot: {xpAmount: 5, healthDropChance: 1, healthDropAmount: 150}
  shooter:
    behavior: ranged
    loot: {healthDropChance: 0}
  bomber:
    behavior: explosive
    damage: 80
    loot: {healthDropChance: 0}
  boss:
    behavior: boss
    maxHealth: 1000
    loot: {healthDropChance: 0}
    boss:
      minionPool: grunt
      minionsPerSpawn: 3
      firstMinionDelay: 0.5
      minionInterval: 0.5
      shootRange: 0.1
`

const simTestWaves = `
waves:
  - name: opening
    startTime: 0
    enemyTypes: [grunt]
    spawnRate: 120
    maxAlive: 5
`

func testSimConfig() *config.SimConfig {
	cfg := config.DefaultSimConfig()
	cfg.Simulation.Seed = 7
	cfg.Simulation.RunDuration = 0
	cfg.Simulation.SeparationForce = 0
	cfg.Player.Autopilot = false
	cfg.Respawn.Enabled = false
	return cfg
}

// newTestSim 创建已启动的模拟；wavesYAML 为空时不配置波次（不会自动生成）
func newTestSim(t *testing.T, cfg *config.SimConfig, wavesYAML string) *Simulation {
	t.Helper()
	catalog, err := config.ParseEnemyCatalog([]byte(simTestCatalog))
	if err != nil {
		t.Fatalf("ParseEnemyCatalog failed: %v", err)
	}

	var waves []config.WaveDefinition
	if wavesYAML != "" {
		list, err := config.ParseWaves([]byte(wavesYAML))
		if err != nil {
			t.Fatalf("ParseWaves failed: %v", err)
		}
		waves = list.Waves
	}

	if cfg == nil {
		cfg = testSimConfig()
	}
	sim, err := New(Options{
		Config:  cfg,
		Waves:   waves,
		Catalog: catalog,
		Rng:     rand.New(rand.NewSource(cfg.Simulation.Seed)),
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	sim.Start()
	return sim
}

// place 直接在指定位置生成一个敌人（波次 0，无倍率）
func place(t *testing.T, sim *Simulation, typeID string, pos utils.Vec2) *enemy.Enemy {
	t.Helper()
	e := sim.Scheduler().SpawnAt(typeID, pos, 0, wave.Unit, sim.Clock().Elapsed())
	if e == nil {
		t.Fatalf("SpawnAt(%s) returned nil", typeID)
	}
	return e
}

func TestNewRequiresCatalog(t *testing.T) {
	_, err := New(Options{})
	if err != ErrNoCatalog {
		t.Errorf("Expected ErrNoCatalog, got %v", err)
	}
}

func TestSimulationWaveSpawning(t *testing.T) {
	sim := newTestSim(t, nil, simTestWaves)
	sim.RunFor(10)

	if got := sim.Scheduler().CurrentWaveIndex(); got != 0 {
		t.Errorf("Expected wave 0, got %d", got)
	}
	if got := sim.Registry().Count(); got != 5 {
		t.Errorf("Expected 5 registered enemies (maxAlive), got %d", got)
	}
	if sim.Registry().Count() != sim.Pools().TotalActive() {
		t.Errorf("Expected registry count %d to match pool active count %d",
			sim.Registry().Count(), sim.Pools().TotalActive())
	}
	if sim.Stats().Spawned != 5 {
		t.Errorf("Expected 5 spawn events, got %d", sim.Stats().Spawned)
	}

	for _, e := range sim.Registry().Active() {
		if e.TypeID != "grunt" {
			t.Errorf("Expected only grunt enemies, got %s", e.TypeID)
		}
		if utils.Dist(e.Position, sim.Player().Position) < 3 {
			t.Errorf("Enemy %d too close to player: %v", e.ID, e.Position)
		}
	}
}

func TestSimulationContactDamageIsImmediate(t *testing.T) {
	sim := newTestSim(t, nil, "")
	place(t, sim, "grunt", utils.V(0.5, 0))

	sim.Tick(1.0 / 60)
	if got := sim.Player().Health; got != 990 {
		t.Errorf("Expected player health 990 after contact, got %v", got)
	}
	if sim.Stats().DamageTaken != 0 {
		t.Errorf("Expected damage event not yet dispatched, got %v", sim.Stats().DamageTaken)
	}

	sim.Tick(1.0 / 60)
	if got := sim.Stats().DamageTaken; got != 10 {
		t.Errorf("Expected DamageTaken 10, got %v", got)
	}
	if got := sim.Player().Health; got != 990 {
		t.Errorf("Expected contact cooldown to prevent a second hit, got health %v", got)
	}
}

func TestSimulationKillAndRecycle(t *testing.T) {
	sim := newTestSim(t, nil, "")
	e := place(t, sim, "grunt", utils.V(3, 0))

	if hit := sim.DamageArea(utils.V(3, 0), 1, 1000); hit != 1 {
		t.Fatalf("Expected DamageArea to hit 1 enemy, got %d", hit)
	}
	if e.State() != enemy.StateDying {
		t.Errorf("Expected Dying, got %v", e.State())
	}

	sim.Tick(1.0 / 60)

	if sim.Stats().Kills != 1 {
		t.Errorf("Expected 1 kill, got %d", sim.Stats().Kills)
	}
	if sim.Stats().KillsByType["grunt"] != 1 {
		t.Errorf("Expected 1 grunt kill, got %d", sim.Stats().KillsByType["grunt"])
	}
	if sim.Stats().XPCollected != 10 {
		t.Errorf("Expected 10 XP, got %d", sim.Stats().XPCollected)
	}
	if sim.Registry().Count() != 0 {
		t.Errorf("Expected registry empty after recycle, got %d", sim.Registry().Count())
	}
	if sim.Pools().TotalActive() != 0 {
		t.Errorf("Expected no active pooled enemies, got %d", sim.Pools().TotalActive())
	}
	if e.State() != enemy.StatePooled {
		t.Errorf("Expected enemy back in pool, got %v", e.State())
	}
}

func TestSimulationDamageEnemyIgnoresUnregistered(t *testing.T) {
	sim := newTestSim(t, nil, "")
	e := place(t, sim, "grunt", utils.V(5, 0))
	sim.ClearAllEnemies()

	if got := sim.DamageEnemy(e, 10); got != 0 {
		t.Errorf("Expected 0 damage on unregistered enemy, got %v", got)
	}
	if got := sim.DamageEnemy(nil, 10); got != 0 {
		t.Errorf("Expected 0 damage on nil enemy, got %v", got)
	}
}

func TestSimulationHealthLootHealsPlayer(t *testing.T) {
	sim := newTestSim(t, nil, "")
	sim.Player().Health = 500
	place(t, sim, "medic", utils.V(3, 0))

	sim.DamageArea(utils.V(3, 0), 1, 1000)
	sim.Tick(1.0 / 60)

	if got := sim.Player().Health; got != 650 {
		t.Errorf("Expected player health 650 after pickup, got %v", got)
	}
	if sim.Stats().HealthDrops != 1 {
		t.Errorf("Expected 1 health drop, got %d", sim.Stats().HealthDrops)
	}
}

func TestSimulationExplosionOnKill(t *testing.T) {
	sim := newTestSim(t, nil, "")
	place(t, sim, "bomber", utils.V(2, 0))

	sim.DamageArea(utils.V(2, 0), 0.5, 1000)
	if got := sim.Player().Health; got != 1000 {
		t.Errorf("Expected explosion deferred to next tick, got health %v", got)
	}

	sim.Tick(1.0 / 60)
	if got := sim.Player().Health; got != 920 {
		t.Errorf("Expected player health 920 after blast, got %v", got)
	}
}

func TestSimulationProjectilesAreDeferred(t *testing.T) {
	sim := newTestSim(t, nil, "")
	place(t, sim, "shooter", utils.V(8, 0))

	sim.Tick(1.0 / 60)
	if got := sim.Projectiles().Count(); got != 0 {
		t.Errorf("Expected no projectile in the firing tick, got %d", got)
	}

	sim.Tick(1.0 / 60)
	if got := sim.Projectiles().Count(); got != 1 {
		t.Errorf("Expected 1 projectile after the next tick, got %d", got)
	}
	if sim.Projectiles().Fired() != 1 {
		t.Errorf("Expected Fired 1, got %d", sim.Projectiles().Fired())
	}
}

func TestSimulationBossMinionsAreDeferred(t *testing.T) {
	sim := newTestSim(t, nil, "")
	boss := sim.Scheduler().SpawnAt("boss", utils.V(10, 0), 2, wave.Unit, 0)
	if boss == nil {
		t.Fatal("Expected boss to spawn")
	}

	dt := 1.0 / 60
	for i := 0; i < 200 && sim.Registry().Count() == 1; i++ {
		sim.Tick(dt)
	}

	if got := sim.Registry().Count(); got != 4 {
		t.Fatalf("Expected boss plus 3 minions, got %d", got)
	}
	if sim.Clock().Elapsed() <= 1.0 {
		t.Errorf("Expected minions to arrive after the request tick, arrived at %v", sim.Clock().Elapsed())
	}
	if got := sim.Registry().CountForWave(2); got != 1 {
		t.Errorf("Expected minions excluded from wave population, got %d", got)
	}

	for _, e := range sim.Registry().Active() {
		if e == boss {
			continue
		}
		if w, ok := sim.Registry().WaveOf(e); !ok || w != 2 {
			t.Errorf("Expected minion registered under boss wave 2, got %d (ok=%v)", w, ok)
		}
		if e.TypeID != "grunt" {
			t.Errorf("Expected grunt minion, got %s", e.TypeID)
		}
		if math.Abs(e.MaxHealth()-25) > 1e-9 {
			t.Errorf("Expected minion max health 25, got %v", e.MaxHealth())
		}
		if math.Abs(e.Damage()-7) > 1e-9 {
			t.Errorf("Expected minion damage 7, got %v", e.Damage())
		}
		if utils.Dist(e.Position, boss.Position) > 3+boss.MoveSpeed() {
			t.Errorf("Expected minion near boss, got distance %v", utils.Dist(e.Position, boss.Position))
		}
	}
}

func TestSimulationMinionsRespectPopulationCeiling(t *testing.T) {
	const bossWave = `
waves:
  - name: boss
    startTime: 0
    enemyTypes: [boss]
    spawnRate: 60
    maxAlive: 1
`
	sim := newTestSim(t, nil, bossWave)

	peak := 0
	for i := 0; i < 120; i++ {
		sim.Tick(1.0 / 60)
		if n := sim.Scheduler().CurrentWaveEnemyCount(); n > peak {
			peak = n
		}
	}

	if peak > 1 {
		t.Errorf("Expected wave population to stay within maxAlive 1, got peak %d", peak)
	}
	if got := sim.Registry().Count(); got < 4 {
		t.Errorf("Expected boss plus summoned minions tracked, got %d", got)
	}
}

func TestSimulationVictory(t *testing.T) {
	cfg := testSimConfig()
	cfg.Simulation.RunDuration = 1
	sim := newTestSim(t, cfg, "")

	sim.RunFor(5)

	over, victory := sim.Over()
	if !over || !victory {
		t.Errorf("Expected victory, got over=%v victory=%v", over, victory)
	}
	if sim.Clock().Elapsed() != 1 {
		t.Errorf("Expected elapsed clamped to 1, got %v", sim.Clock().Elapsed())
	}
	if ticks := sim.Ticks(); ticks < 59 || ticks > 61 {
		t.Errorf("Expected about 60 ticks, got %d", ticks)
	}
	if sim.Scheduler().IsSpawning() {
		t.Error("Expected spawning stopped after the run ends")
	}
}

func TestSimulationDefeat(t *testing.T) {
	cfg := testSimConfig()
	cfg.Player.MaxHealth = 5
	sim := newTestSim(t, cfg, "")
	place(t, sim, "grunt", utils.V(0.5, 0))

	sim.Tick(1.0 / 60)

	over, victory := sim.Over()
	if !over || victory {
		t.Errorf("Expected defeat, got over=%v victory=%v", over, victory)
	}

	ticks := sim.Ticks()
	sim.Tick(1.0 / 60)
	if sim.Ticks() != ticks {
		t.Error("Expected no ticks after the run ends")
	}
}

func TestSimulationPause(t *testing.T) {
	sim := newTestSim(t, nil, "")

	sim.Pause()
	sim.Tick(1.0 / 60)
	if sim.Ticks() != 0 || sim.Clock().Elapsed() != 0 {
		t.Errorf("Expected paused simulation to stay at tick 0, got %d", sim.Ticks())
	}
	if !sim.Paused() {
		t.Error("Expected Paused() true")
	}

	sim.Resume()
	sim.Tick(1.0 / 60)
	if sim.Ticks() != 1 {
		t.Errorf("Expected 1 tick after resume, got %d", sim.Ticks())
	}
}

func TestSimulationAutopilotPulses(t *testing.T) {
	cfg := testSimConfig()
	cfg.Player.Autopilot = true
	sim := newTestSim(t, cfg, "")
	e := place(t, sim, "grunt", utils.V(2, 0))

	sim.Tick(1.0 / 60)
	if e.Health() >= e.MaxHealth() {
		t.Errorf("Expected the first pulse to damage the nearby enemy, health %v", e.Health())
	}
	if sim.Player().Position.IsZero() {
		t.Error("Expected autopilot to move the player")
	}
}

func TestSimulationSnapshot(t *testing.T) {
	sim := newTestSim(t, nil, simTestWaves)
	sim.RunFor(3)

	snap := sim.Snapshot()
	if snap.WaveName != "opening" {
		t.Errorf("Expected wave name opening, got %q", snap.WaveName)
	}
	if snap.Total != len(snap.Enemies) {
		t.Errorf("Expected Total %d to match enemy views %d", snap.Total, len(snap.Enemies))
	}
	if snap.Time < 2.9 || snap.Clock != FormatTime(snap.Time) {
		t.Errorf("Expected clock for about 3s, got %s (%v)", snap.Clock, snap.Time)
	}

	foundBullets := false
	for _, info := range snap.Pools {
		if info.Name == "enemy_bullet" {
			foundBullets = true
		}
	}
	if !foundBullets {
		t.Error("Expected projectile pool in snapshot")
	}
}

func TestSimulationEventsReachExternalSubscribers(t *testing.T) {
	sim := newTestSim(t, nil, simTestWaves)

	var waves []events.WaveChanged
	events.Subscribe(sim.Bus(), func(ev events.WaveChanged) {
		waves = append(waves, ev)
	})

	sim.RunFor(1)
	if len(waves) != 1 || waves[0].Index != 0 {
		t.Errorf("Expected one WaveChanged to wave 0, got %v", waves)
	}
}
