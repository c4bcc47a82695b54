package events

import "testing"

func TestBusDoubleBuffer(t *testing.T) {
	bus := NewBus()

	var got []int
	Subscribe(bus, func(e WaveChanged) {
		got = append(got, e.Index)
	})

	Emit(bus, WaveChanged{Index: 1})

	t.Run("发出的事件当前 tick 不可见", func(t *testing.T) {
		bus.DispatchAll()
		if len(got) != 0 {
			t.Errorf("Expected no dispatch before swap, got %v", got)
		}
	})

	t.Run("交换后派发", func(t *testing.T) {
		bus.SwapBuffers()
		bus.DispatchAll()
		if len(got) != 1 || got[0] != 1 {
			t.Errorf("Expected [1], got %v", got)
		}
	})

	t.Run("再次交换不会重复派发", func(t *testing.T) {
		bus.SwapBuffers()
		bus.DispatchAll()
		if len(got) != 1 {
			t.Errorf("Expected event to be delivered once, got %v", got)
		}
	})
}

func TestBusPreservesEmissionOrder(t *testing.T) {
	bus := NewBus()

	var order []string
	Subscribe(bus, func(e EnemySpawned) { order = append(order, "spawn") })
	Subscribe(bus, func(e EnemyKilled) { order = append(order, "kill") })

	Emit(bus, EnemySpawned{EnemyID: 1})
	Emit(bus, EnemyKilled{EnemyID: 1})
	Emit(bus, EnemySpawned{EnemyID: 2})

	bus.SwapBuffers()
	bus.DispatchAll()

	want := []string{"spawn", "kill", "spawn"}
	if len(order) != len(want) {
		t.Fatalf("Expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, order)
			break
		}
	}
}

func TestBusEmitDuringDispatchIsDeferred(t *testing.T) {
	bus := NewBus()

	minions := 0
	Subscribe(bus, func(e EnemyKilled) {
		Emit(bus, MinionsRequested{Count: 3})
	})
	Subscribe(bus, func(e MinionsRequested) {
		minions += e.Count
	})

	Emit(bus, EnemyKilled{})
	bus.SwapBuffers()
	bus.DispatchAll()

	if minions != 0 {
		t.Errorf("Expected nested emit to be deferred, got %d minions", minions)
	}
	if bus.Pending() != 1 {
		t.Errorf("Expected 1 pending event, got %d", bus.Pending())
	}

	bus.Flush(4)
	if minions != 3 {
		t.Errorf("Expected 3 minions after flush, got %d", minions)
	}
}

func TestEventNames(t *testing.T) {
	named := []Named{
		EnemySpawned{}, EnemyKilled{}, EnemyDamaged{}, EnemyCountChanged{}, WaveChanged{},
		LootDropped{}, PlayerDamaged{}, ProjectileFired{}, ExplosionTriggered{}, MinionsRequested{},
	}
	seen := make(map[string]bool)
	for _, n := range named {
		name := n.EventName()
		if name == "" || seen[name] {
			t.Errorf("Event name %q is empty or duplicated", name)
		}
		seen[name] = true
	}
}
