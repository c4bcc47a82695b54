package main

import (
	"testing"

	"github.com/gonewx/hordewave/pkg/events"
	"github.com/gonewx/hordewave/pkg/game"
	"github.com/gonewx/hordewave/pkg/utils"
)

func testSnapshot() game.Snapshot {
	return game.Snapshot{
		Camera: utils.RectFromCenter(utils.V(0, 0), 32, 18),
		Player: game.PlayerView{Position: utils.V(0, 0)},
		Enemies: []game.EnemyView{
			{Behavior: "melee", Position: utils.V(-15.9, 8.9)},
			{Behavior: "melee", Position: utils.V(15.5, -8.5)},
			{Behavior: "boss", Position: utils.V(15.6, -8.6)},
			{Behavior: "ranged", Position: utils.V(15.7, -8.7)},
			{Behavior: "ranged", Position: utils.V(40, 0)},
			{Behavior: "explosive", Position: utils.V(5, 5), Dying: true},
		},
	}
}

func TestBuildRadar(t *testing.T) {
	grid := buildRadar(testSnapshot(), 32, 18)

	if grid[0][0].glyph != 'm' {
		t.Errorf("Expected melee in top-left, got %q", grid[0][0].glyph)
	}
	if grid[17][31].glyph != 'B' {
		t.Errorf("Expected boss to win bottom-right cell, got %q", grid[17][31].glyph)
	}
	if grid[9][16].glyph != '@' {
		t.Errorf("Expected player at center, got %q", grid[9][16].glyph)
	}
	if grid[4][21].glyph != '.' {
		t.Errorf("Expected dying enemy hidden, got %q", grid[4][21].glyph)
	}
}

func TestOffscreenCount(t *testing.T) {
	if got := offscreenCount(testSnapshot()); got != 1 {
		t.Errorf("Expected 1 offscreen enemy, got %d", got)
	}
}

func TestEventLog(t *testing.T) {
	bus := events.NewBus()
	l := &eventLog{}
	l.attach(bus)

	events.Emit(bus, events.WaveChanged{Index: 1, Name: "Swarm", Time: 60})
	events.Emit(bus, events.EnemySpawned{Behavior: "melee"})
	events.Emit(bus, events.EnemySpawned{Behavior: "boss", Type: "boss", Time: 600})
	events.Emit(bus, events.PlayerDamaged{Amount: 10})
	bus.SwapBuffers()
	bus.DispatchAll()

	if len(l.lines) != 2 {
		t.Fatalf("Expected 2 log lines, got %v", l.lines)
	}
	if l.lines[0] != "01:00 wave 2: Swarm" {
		t.Errorf("Unexpected line: %q", l.lines[0])
	}

	for i := 0; i < 20; i++ {
		l.add("line %d", i)
	}
	if len(l.lines) != maxLogLines || l.lines[maxLogLines-1] != "line 19" {
		t.Errorf("Expected log trimmed to last %d lines, got %v", maxLogLines, l.lines)
	}
}
