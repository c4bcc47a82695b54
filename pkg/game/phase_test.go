package game

import "testing"

func TestRunnerPhaseOrder(t *testing.T) {
	r := NewRunner()
	var order []string

	add := func(p Phase, name string) {
		r.Register(phaseFunc{p, func(float64) { order = append(order, name) }})
	}
	add(PhaseCleanup, "cleanup")
	add(PhaseWave, "wave-1")
	add(PhaseEvents, "events")
	add(PhaseWave, "wave-2")
	add(PhaseBehavior, "behavior")

	r.Tick(0.1)

	want := []string{"events", "wave-1", "wave-2", "behavior", "cleanup"}
	if len(order) != len(want) {
		t.Fatalf("Expected %d systems run, got %d", len(want), len(order))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("Expected order[%d] = %s, got %s", i, want[i], order[i])
		}
	}
}

func TestRunnerTickPhase(t *testing.T) {
	r := NewRunner()
	calls := 0
	r.Register(phaseFunc{PhaseWave, func(float64) { calls++ }})
	r.Register(phaseFunc{PhaseCleanup, func(float64) { calls += 10 }})

	r.TickPhase(PhaseWave, 0.1)
	if calls != 1 {
		t.Errorf("Expected only the wave system to run, got calls=%d", calls)
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseEvents, "events"},
		{PhaseWave, "wave"},
		{PhaseBehavior, "behavior"},
		{PhaseProjectiles, "projectiles"},
		{PhaseRespawn, "respawn"},
		{PhaseCleanup, "cleanup"},
		{Phase(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Expected %s, got %s", tt.want, got)
		}
	}
}
