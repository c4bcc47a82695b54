package game

import "testing"

func TestRunClock(t *testing.T) {
	t.Run("未启动时不前进", func(t *testing.T) {
		c := NewRunClock(10)
		c.Advance(1)
		if c.Elapsed() != 0 {
			t.Errorf("Expected 0, got %v", c.Elapsed())
		}
	})

	t.Run("暂停与继续", func(t *testing.T) {
		c := NewRunClock(0)
		c.Start()
		c.Advance(2)
		c.Pause()
		c.Advance(5)
		c.Resume()
		c.Advance(1)
		if c.Elapsed() != 3 {
			t.Errorf("Expected 3, got %v", c.Elapsed())
		}
		if c.Remaining() != 0 {
			t.Errorf("Expected Remaining 0 for unlimited run, got %v", c.Remaining())
		}
	})

	t.Run("到达时长后停止", func(t *testing.T) {
		c := NewRunClock(5)
		c.Start()
		if c.Advance(4) {
			t.Error("Expected not completed at 4s")
		}
		if !c.Advance(2) {
			t.Error("Expected completion reported once")
		}
		if c.Elapsed() != 5 {
			t.Errorf("Expected elapsed clamped to 5, got %v", c.Elapsed())
		}
		if c.Advance(1) {
			t.Error("Expected completion not reported twice")
		}
		c.Resume()
		if c.Running() {
			t.Error("Expected completed clock to stay stopped")
		}
	})

	t.Run("快进", func(t *testing.T) {
		c := NewRunClock(60)
		if !c.Skip(90) {
			t.Error("Expected skip past duration to complete")
		}
		if !c.Completed() || c.Remaining() != 0 {
			t.Errorf("Expected completed with 0 remaining, got %v", c.Remaining())
		}
	})

	t.Run("忽略负数", func(t *testing.T) {
		c := NewRunClock(0)
		c.Start()
		c.Advance(-1)
		c.Skip(-1)
		if c.Elapsed() != 0 {
			t.Errorf("Expected 0, got %v", c.Elapsed())
		}
	})
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00"},
		{59.9, "00:59"},
		{61, "01:01"},
		{1800, "30:00"},
		{-3, "00:00"},
	}
	for _, tt := range tests {
		if got := FormatTime(tt.seconds); got != tt.want {
			t.Errorf("FormatTime(%v): expected %s, got %s", tt.seconds, tt.want, got)
		}
	}
}
