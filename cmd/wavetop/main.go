// wavetop 在终端中实时显示波次模拟
//
// 用法：
//
//	go run ./cmd/wavetop -sound
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gonewx/hordewave/internal/audio"
	"github.com/gonewx/hordewave/pkg/config"
	"github.com/gonewx/hordewave/pkg/game"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "data/sim.toml", "运行期配置文件")
	seed       = flag.Int64("seed", 0, "随机种子（0 使用配置文件中的值）")
	speed      = flag.Float64("speed", 1, "模拟速度倍率")
	sound      = flag.Bool("sound", false, "波次切换和 Boss 出现时播放提示音")
	fps        = flag.Int("fps", 15, "刷新频率")
	logFile    = flag.String("log", "", "日志文件（终端界面占用标准输出，默认不输出日志）")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadSimConfig(*configPath)
	if err != nil {
		return err
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}

	logger := zap.NewNop()
	if *logFile != "" {
		zcfg := zap.NewDevelopmentConfig()
		zcfg.OutputPaths = []string{*logFile}
		zcfg.ErrorOutputPaths = []string{*logFile}
		if logger, err = zcfg.Build(); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
	}
	defer logger.Sync()

	sim, assets, err := game.NewFromConfig(cfg, logger)
	if err != nil {
		return err
	}
	defer assets.Close()

	log := &eventLog{}
	log.attach(sim.Bus())

	if *sound {
		cues := audio.NewCues("boss")
		if err := cues.Initialize(); err != nil {
			logger.Warn("audio unavailable", zap.Error(err))
		} else {
			defer cues.Close()
			cues.Attach(sim.Bus())
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	keys := make(chan *tcell.EventKey, 8)
	go func() {
		for {
			switch ev := screen.PollEvent().(type) {
			case nil:
				return
			case *tcell.EventKey:
				keys <- ev
			case *tcell.EventResize:
				screen.Sync()
			}
		}
	}()

	dash := &dashboard{screen: screen, log: log}
	dt := cfg.TickDelta()
	tickEvery := time.Duration(dt / *speed * float64(time.Second))
	ticker := time.NewTicker(tickEvery)
	defer ticker.Stop()
	frame := time.NewTicker(time.Second / time.Duration(max(*fps, 1)))
	defer frame.Stop()

	sim.Start()
	submitted := false
	records := game.OpenRecordStore(cfg.Records, logger.Named("Records"))

	for {
		select {
		case ev := <-keys:
			switch {
			case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
				return nil
			case ev.Rune() == ' ':
				if sim.Paused() {
					sim.Resume()
				} else {
					sim.Pause()
				}
			case ev.Rune() == 'c':
				sim.ClearAllEnemies()
			case ev.Rune() == 'n':
				sim.Skip(60)
			}
		case <-ticker.C:
			sim.Tick(dt)
			if over, victory := sim.Over(); over && !submitted {
				submitted = true
				if records.Submit(sim.Stats().Summary(victory)) {
					log.add("%s new personal best", sim.Snapshot().Clock)
				}
				if err := records.Save(); err != nil {
					logger.Warn("failed to save records", zap.Error(err))
				}
			}
		case <-frame.C:
			dash.draw(sim.Snapshot())
		}
	}
}
