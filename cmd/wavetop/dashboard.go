package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/gonewx/hordewave/pkg/events"
	"github.com/gonewx/hordewave/pkg/game"
)

const (
	maxLogLines = 8
	radarWidth  = 48
	radarHeight = 18
)

var (
	styleDefault = tcell.StyleDefault
	styleHeader  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleDim     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	stylePlayer  = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleBad     = tcell.StyleDefault.Foreground(tcell.ColorRed)

	behaviorStyles = map[string]tcell.Style{
		"melee":     tcell.StyleDefault.Foreground(tcell.ColorRed),
		"ranged":    tcell.StyleDefault.Foreground(tcell.ColorBlue),
		"explosive": tcell.StyleDefault.Foreground(tcell.ColorOrange),
		"boss":      tcell.StyleDefault.Foreground(tcell.ColorPurple).Bold(true),
	}
	behaviorGlyphs = map[string]rune{
		"melee":     'm',
		"ranged":    'r',
		"explosive": 'x',
		"boss":      'B',
	}
)

// eventLog 最近发生的重要事件
type eventLog struct {
	lines []string
}

func (l *eventLog) add(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
	if len(l.lines) > maxLogLines {
		l.lines = l.lines[len(l.lines)-maxLogLines:]
	}
}

// attach 订阅需要显示的事件
func (l *eventLog) attach(bus *events.Bus) {
	events.Subscribe(bus, func(ev events.WaveChanged) {
		l.add("%s wave %d: %s", game.FormatTime(ev.Time), ev.Index+1, ev.Name)
	})
	events.Subscribe(bus, func(ev events.EnemySpawned) {
		if ev.Behavior == "boss" {
			l.add("%s boss %s appeared", game.FormatTime(ev.Time), ev.Type)
		}
	})
	events.Subscribe(bus, func(ev events.EnemyKilled) {
		if ev.Type == "boss" {
			l.add("%s boss defeated", game.FormatTime(ev.Time))
		}
	})
	events.Subscribe(bus, func(ev events.PlayerDamaged) {
		if ev.Amount >= 50 {
			l.add("%s heavy hit %.0f (%s)", game.FormatTime(ev.Time), ev.Amount, ev.Source)
		}
	})
}

// radarCell 雷达网格中的一个格子
type radarCell struct {
	glyph    rune
	behavior string
}

// buildRadar 把摄像机范围内的敌人投影到 w×h 网格，玩家在中心
// 同一格有多个敌人时 Boss 优先显示
func buildRadar(s game.Snapshot, w, h int) [][]radarCell {
	grid := make([][]radarCell, h)
	for y := range grid {
		grid[y] = make([]radarCell, w)
		for x := range grid[y] {
			grid[y][x] = radarCell{glyph: '.'}
		}
	}

	cam := s.Camera
	cell := func(px, py float64) (int, int, bool) {
		fx := (px - (cam.Center.X - cam.HalfW)) / (2 * cam.HalfW)
		fy := ((cam.Center.Y + cam.HalfH) - py) / (2 * cam.HalfH)
		if fx < 0 || fx >= 1 || fy < 0 || fy >= 1 {
			return 0, 0, false
		}
		return int(math.Floor(fx * float64(w))), int(math.Floor(fy * float64(h))), true
	}

	for _, e := range s.Enemies {
		if e.Dying {
			continue
		}
		x, y, ok := cell(e.Position.X, e.Position.Y)
		if !ok {
			continue
		}
		if grid[y][x].behavior == "boss" {
			continue
		}
		glyph, ok := behaviorGlyphs[e.Behavior]
		if !ok {
			glyph = '?'
		}
		grid[y][x] = radarCell{glyph: glyph, behavior: e.Behavior}
	}

	if x, y, ok := cell(s.Player.Position.X, s.Player.Position.Y); ok {
		grid[y][x] = radarCell{glyph: '@', behavior: "player"}
	}
	return grid
}

// offscreenCount 摄像机范围外的存活敌人数
func offscreenCount(s game.Snapshot) int {
	n := 0
	for _, e := range s.Enemies {
		if !e.Dying && !s.Camera.Contains(e.Position) {
			n++
		}
	}
	return n
}

// dashboard 终端仪表盘
type dashboard struct {
	screen tcell.Screen
	log    *eventLog
}

func (d *dashboard) draw(s game.Snapshot) {
	d.screen.Clear()

	status := ""
	switch {
	case s.Over && s.Victory:
		status = "VICTORY"
	case s.Over:
		status = "DEFEATED"
	case s.Paused:
		status = "PAUSED"
	}
	d.text(0, 0, styleHeader, fmt.Sprintf("hordewave  %s  wave %d/%d %s  %s", s.Clock, s.WaveIndex+1, s.WaveCount, s.WaveName, status))

	hpStyle := styleDefault
	if s.Player.MaxHealth > 0 && s.Player.Health/s.Player.MaxHealth < 0.3 {
		hpStyle = styleBad
	}
	d.text(0, 1, hpStyle, fmt.Sprintf("hp %.0f/%.0f", s.Player.Health, s.Player.MaxHealth))
	d.text(18, 1, styleDefault, fmt.Sprintf("enemies %d (wave %d, offscreen %d)  kills %d  %.1f/min  xp %d",
		s.Total, s.CurrentWave, offscreenCount(s), s.Kills, s.KillsPerMin, s.XPCollected))

	grid := buildRadar(s, radarWidth, radarHeight)
	for y, row := range grid {
		for x, c := range row {
			style := styleDim
			switch c.behavior {
			case "":
			case "player":
				style = stylePlayer
			default:
				if bs, ok := behaviorStyles[c.behavior]; ok {
					style = bs
				}
			}
			d.screen.SetContent(x, 3+y, c.glyph, nil, style)
		}
	}

	col := radarWidth + 3
	d.text(col, 3, styleHeader, "pool           act  avail  max")
	for i, p := range s.Pools {
		d.text(col, 4+i, styleDefault, fmt.Sprintf("%-14s %4d %6d %4d", p.Name, p.Active, p.Available, p.MaxSize))
	}
	row := 5 + len(s.Pools)
	d.text(col, row, styleDim, fmt.Sprintf("projectiles %d  relocated %d  pruned %d  pool misses %d",
		len(s.Projectiles), s.Relocated, s.Pruned, s.PoolFailures))

	logTop := 4 + radarHeight
	for i, line := range d.log.lines {
		d.text(0, logTop+i, styleDefault, line)
	}
	d.text(0, logTop+maxLogLines+1, styleDim, "q quit  space pause  c clear  n +60s")

	d.screen.Show()
}

func (d *dashboard) text(x, y int, style tcell.Style, s string) {
	for i, r := range []rune(s) {
		d.screen.SetContent(x+i, y, r, nil, style)
	}
}
