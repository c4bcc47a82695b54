// Package app 提供桌面观察器：用 Ebitengine 绘制正在运行的波次模拟
//
// 观察器只读取 Simulation.Snapshot()，按键操作通过 Simulation 的公开方法完成。
package app

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/gonewx/hordewave/pkg/game"
	"github.com/gonewx/hordewave/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
)

// 逻辑屏幕尺寸
const (
	ScreenWidth  = 960
	ScreenHeight = 540
)

var (
	colorBackground = color.RGBA{R: 24, G: 28, B: 36, A: 255}
	colorPlayer     = color.RGBA{R: 80, G: 220, B: 120, A: 255}
	colorDying      = color.RGBA{R: 90, G: 90, B: 90, A: 255}
	colorFlash      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colorWarning    = color.RGBA{R: 255, G: 150, B: 40, A: 255}
	colorBullet     = color.RGBA{R: 250, G: 230, B: 80, A: 255}
	colorHealthBar  = color.RGBA{R: 200, G: 40, B: 40, A: 255}

	behaviorColors = map[string]color.RGBA{
		"melee":     {R: 200, G: 70, B: 70, A: 255},
		"ranged":    {R: 90, G: 140, B: 230, A: 255},
		"explosive": {R: 230, G: 120, B: 40, A: 255},
		"boss":      {R: 180, G: 60, B: 200, A: 255},
	}
)

// Config 观察器启动配置
type Config struct {
	Sim     *game.Simulation
	Records *game.RecordStore // 可为 nil
	Logger  *zap.Logger
}

// App 观察器，实现 ebiten.Game 接口
type App struct {
	sim       *game.Simulation
	records   *game.RecordStore
	log       *zap.Logger
	dt        float64
	showPools bool
	submitted bool
}

// NewApp 创建观察器（模拟需已启动）
func NewApp(cfg Config) *App {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &App{
		sim:     cfg.Sim,
		records: cfg.Records,
		log:     log.Named("Viewer"),
		dt:      cfg.Sim.Config().TickDelta(),
	}
}

// Update 处理按键并推进一个 tick
func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if a.sim.Paused() {
			a.sim.Resume()
		} else {
			a.sim.Pause()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		n := a.sim.ClearAllEnemies()
		a.log.Info("cleared enemies", zap.Int("count", n))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		a.sim.Skip(60)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.showPools = !a.showPools
	}

	a.sim.Tick(a.dt)

	if over, victory := a.sim.Over(); over && !a.submitted {
		a.submitted = true
		a.submitRecords(victory)
	}
	return nil
}

func (a *App) submitRecords(victory bool) {
	if a.records == nil {
		return
	}
	if a.records.Submit(a.sim.Stats().Summary(victory)) {
		a.log.Info("new personal best")
	}
	if err := a.records.Save(); err != nil {
		a.log.Warn("failed to save records", zap.Error(err))
	}
}

// Draw 绘制当前快照
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	snap := a.sim.Snapshot()
	scale := float64(ScreenWidth) / (snap.Camera.HalfW * 2)

	toScreen := func(p utils.Vec2) (float32, float32) {
		x := (p.X-snap.Camera.Center.X)*scale + ScreenWidth/2
		y := ScreenHeight/2 - (p.Y-snap.Camera.Center.Y)*scale
		return float32(x), float32(y)
	}

	for _, e := range snap.Enemies {
		x, y := toScreen(e.Position)
		r := float32(0.4 * scale)
		if e.Behavior == "boss" {
			r *= 2
		}
		vector.DrawFilledCircle(screen, x, y, r, enemyColor(e), true)
		if !e.Dying && e.HealthFraction < 1 {
			vector.DrawFilledRect(screen, x-r, y-r-4, 2*r*float32(e.HealthFraction), 2, colorHealthBar, false)
		}
	}

	for _, p := range snap.Projectiles {
		x, y := toScreen(p)
		vector.DrawFilledRect(screen, x-2, y-2, 4, 4, colorBullet, false)
	}

	px, py := toScreen(snap.Player.Position)
	vector.DrawFilledCircle(screen, px, py, float32(0.5*scale), colorPlayer, true)

	ebitenutil.DebugPrintAt(screen, hudText(snap), 10, 10)
	if a.showPools {
		ebitenutil.DebugPrintAt(screen, poolText(snap), ScreenWidth-260, 10)
	}
	ebitenutil.DebugPrintAt(screen, "SPACE pause  C clear  N +60s  P pools  F11 fullscreen", 10, ScreenHeight-20)
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

func enemyColor(e game.EnemyView) color.RGBA {
	switch {
	case e.Dying:
		return colorDying
	case e.Flashing:
		return colorFlash
	case e.Warning:
		return colorWarning
	}
	if c, ok := behaviorColors[e.Behavior]; ok {
		return c
	}
	return behaviorColors["melee"]
}

func hudText(s game.Snapshot) string {
	status := ""
	switch {
	case s.Over && s.Victory:
		status = "  VICTORY"
	case s.Over:
		status = "  DEFEATED"
	case s.Paused:
		status = "  PAUSED"
	}
	return fmt.Sprintf("%s  wave %d/%d %s%s\nenemies %d (wave %d)  kills %d  %.1f/min\nhp %.0f/%.0f  xp %d",
		s.Clock, s.WaveIndex+1, s.WaveCount, s.WaveName, status,
		s.Total, s.CurrentWave, s.Kills, s.KillsPerMin,
		s.Player.Health, s.Player.MaxHealth, s.XPCollected)
}

func poolText(s game.Snapshot) string {
	var b strings.Builder
	b.WriteString("pool        act/avail/max\n")
	for _, p := range s.Pools {
		fmt.Fprintf(&b, "%-11s %d/%d/%d\n", p.Name, p.Active, p.Available, p.MaxSize)
	}
	return b.String()
}
