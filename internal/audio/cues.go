// Package audio 为终端仪表盘提供简单的提示音
//
// 波次切换和 Boss 出现时播放一段正弦音。未初始化扬声器时所有调用都是空操作。
package audio

import (
	"sync"
	"time"

	"github.com/gonewx/hordewave/pkg/events"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Tone 一段提示音
type Tone struct {
	Freq     float64
	Duration time.Duration
}

// 预设提示音
var (
	WaveTone = Tone{Freq: 660, Duration: 150 * time.Millisecond}
	BossTone = Tone{Freq: 220, Duration: 400 * time.Millisecond}
)

// Cues 提示音播放器
type Cues struct {
	mu            sync.Mutex
	initialized   bool
	played        []Tone
	bossBehaviors map[string]bool
}

// NewCues 创建播放器，bossBehaviors 为需要提示的敌人行为名（通常是 "boss"）
func NewCues(bossBehaviors ...string) *Cues {
	c := &Cues{bossBehaviors: make(map[string]bool)}
	for _, b := range bossBehaviors {
		c.bossBehaviors[b] = true
	}
	return c
}

// Initialize 打开扬声器
func (c *Cues) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

// Close 停止播放
func (c *Cues) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		speaker.Clear()
		c.initialized = false
	}
}

// Attach 订阅波次切换和 Boss 生成
func (c *Cues) Attach(bus *events.Bus) {
	events.Subscribe(bus, func(ev events.WaveChanged) {
		c.Play(WaveTone)
	})
	events.Subscribe(bus, func(ev events.EnemySpawned) {
		if c.bossBehaviors[ev.Behavior] {
			c.Play(BossTone)
		}
	})
}

// Play 播放一段提示音
func (c *Cues) Play(t Tone) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.played = append(c.played, t)
	if !c.initialized {
		return
	}
	s, err := t.Streamer()
	if err != nil {
		return
	}
	speaker.Play(s)
}

// Streamer 生成该提示音的正弦波，长度为 Duration
func (t Tone) Streamer() (beep.Streamer, error) {
	sine, err := generators.SineTone(sampleRate, t.Freq)
	if err != nil {
		return nil, err
	}
	return beep.Take(sampleRate.N(t.Duration), sine), nil
}

// Played 已请求播放的提示音（含未初始化时的请求）
func (c *Cues) Played() []Tone {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Tone(nil), c.played...)
}
