package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/gonewx/hordewave/pkg/app"
	"github.com/gonewx/hordewave/pkg/config"
	"github.com/gonewx/hordewave/pkg/embedded"
	"github.com/gonewx/hordewave/pkg/feed"
	"github.com/gonewx/hordewave/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "data/sim.toml", "运行期配置文件")
	fromDisk   = flag.Bool("disk", false, "从本地文件系统读取数据文件，而不是内嵌资源")
	seed       = flag.Int64("seed", 0, "随机种子（0 使用配置文件中的值）")
	verbose    = flag.Bool("verbose", false, "输出调试日志")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if !*fromDisk {
		embedded.Init(dataFS)
	}

	cfg, err := config.LoadSimConfig(*configPath)
	if err != nil {
		return err
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	sim, assets, err := game.NewFromConfig(cfg, logger)
	if err != nil {
		return err
	}
	defer assets.Close()

	records := game.OpenRecordStore(cfg.Records, logger.Named("Records"))

	if cfg.Feed.Enabled {
		hub := feed.NewHub(cfg.Feed, logger.Named("Feed"))
		hub.Attach(sim.Bus())
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			if err := hub.ListenAndServe(ctx, cfg.Feed.Addr, cfg.Feed.Path); err != nil {
				logger.Error("feed stopped", zap.Error(err))
			}
		}()
	}

	sim.Start()

	ebiten.SetWindowSize(app.ScreenWidth, app.ScreenHeight)
	ebiten.SetWindowTitle("hordewave")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Simulation.TickRate)

	viewer := app.NewApp(app.Config{Sim: sim, Records: records, Logger: logger})
	return ebiten.RunGame(viewer)
}
