package game

import (
	"testing"

	"github.com/gonewx/hordewave/pkg/events"
)

func TestRunStats(t *testing.T) {
	clock := NewRunClock(0)
	clock.Start()
	bus := events.NewBus()
	stats := NewRunStats(clock)
	stats.Attach(bus)

	events.Emit(bus, events.EnemySpawned{Type: "basic"})
	events.Emit(bus, events.EnemyKilled{Type: "basic"})
	events.Emit(bus, events.EnemyKilled{Type: "fast"})
	events.Emit(bus, events.EnemyKilled{Type: "basic"})
	events.Emit(bus, events.EnemyDamaged{Amount: 30})
	events.Emit(bus, events.EnemyDamaged{Amount: 20})
	events.Emit(bus, events.PlayerDamaged{Amount: 15})
	events.Emit(bus, events.WaveChanged{Index: 2, Previous: 1})
	events.Emit(bus, events.WaveChanged{Index: 1, Previous: 2})
	events.Emit(bus, events.LootDropped{XP: 10, Health: 150})
	events.Emit(bus, events.LootDropped{XP: 5})

	if stats.Kills != 0 {
		t.Errorf("Expected nothing counted before dispatch, got %d", stats.Kills)
	}

	bus.SwapBuffers()
	bus.DispatchAll()
	clock.Advance(30)

	if stats.Kills != 3 || stats.Spawned != 1 {
		t.Errorf("Expected 3 kills / 1 spawn, got %d / %d", stats.Kills, stats.Spawned)
	}
	if stats.DamageDealt != 50 || stats.DamageTaken != 15 {
		t.Errorf("Expected damage 50/15, got %v/%v", stats.DamageDealt, stats.DamageTaken)
	}
	if stats.CurrentWave != 1 || stats.HighestWave != 2 {
		t.Errorf("Expected current 1 highest 2, got %d/%d", stats.CurrentWave, stats.HighestWave)
	}
	if stats.XPCollected != 15 || stats.HealthDrops != 1 || stats.HealthCollected != 150 {
		t.Errorf("Unexpected loot stats: xp=%d drops=%d health=%v",
			stats.XPCollected, stats.HealthDrops, stats.HealthCollected)
	}
	if got := stats.KillsPerMinute(); got != 6 {
		t.Errorf("Expected 6 kills per minute, got %v", got)
	}
	if got := stats.DPS(); got != 50.0/30 {
		t.Errorf("Expected DPS %v, got %v", 50.0/30, got)
	}

	breakdown := stats.KillBreakdown()
	if len(breakdown) != 2 || breakdown[0].Type != "basic" || breakdown[0].Kills != 2 {
		t.Errorf("Expected basic first with 2 kills, got %v", breakdown)
	}

	summary := stats.Summary(true)
	if !summary.Victory || summary.Kills != 3 || summary.SurvivalTime != 30 || summary.HighestWave != 2 {
		t.Errorf("Unexpected summary: %+v", summary)
	}
}

func TestRunStatsZeroTime(t *testing.T) {
	stats := NewRunStats(nil)
	if stats.KillsPerMinute() != 0 || stats.DPS() != 0 || stats.PlayTime() != 0 {
		t.Error("Expected zero rates without a clock")
	}
}
