package game

import "fmt"

// RunClock 本局运行时间（秒），可暂停
//
// 所有波次选择、生成节奏、冷却和计时器都以此为准。时间只前进不后退。
type RunClock struct {
	elapsed   float64
	duration  float64 // 通关时长，0 表示无限
	running   bool
	completed bool
}

// NewRunClock 创建运行时钟（未启动）
func NewRunClock(duration float64) *RunClock {
	return &RunClock{duration: duration}
}

// Start 启动
func (c *RunClock) Start() {
	c.running = true
}

// Pause 暂停
func (c *RunClock) Pause() {
	c.running = false
}

// Resume 继续
func (c *RunClock) Resume() {
	if !c.completed {
		c.running = true
	}
}

// Running 是否在计时
func (c *RunClock) Running() bool {
	return c.running
}

// Advance 前进 dt 秒
// 返回本次调用是否刚好到达通关时长
func (c *RunClock) Advance(dt float64) bool {
	if !c.running || c.completed || dt <= 0 {
		return false
	}
	c.elapsed += dt
	return c.checkComplete()
}

// Skip 快进 seconds 秒（调试用）
func (c *RunClock) Skip(seconds float64) bool {
	if c.completed || seconds <= 0 {
		return false
	}
	c.elapsed += seconds
	return c.checkComplete()
}

func (c *RunClock) checkComplete() bool {
	if c.duration > 0 && c.elapsed >= c.duration {
		c.elapsed = c.duration
		c.completed = true
		c.running = false
		return true
	}
	return false
}

// Elapsed 已运行秒数
func (c *RunClock) Elapsed() float64 {
	return c.elapsed
}

// Remaining 剩余秒数，无限时长时返回 0
func (c *RunClock) Remaining() float64 {
	if c.duration <= 0 {
		return 0
	}
	return c.duration - c.elapsed
}

// Completed 是否已到达通关时长
func (c *RunClock) Completed() bool {
	return c.completed
}

// FormatTime 格式化为 mm:ss
func FormatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
