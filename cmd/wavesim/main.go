// wavesim 无界面运行波次模拟并输出本局总结
//
// 默认以最快速度运行；指定 -ws 时按真实时间运行，并把事件和状态快照推送给 WebSocket 观察端。
//
// 用法：
//
//	go run ./cmd/wavesim -duration 600 -seed 42
//	go run ./cmd/wavesim -ws :8089 -verbose
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gonewx/hordewave/pkg/config"
	"github.com/gonewx/hordewave/pkg/feed"
	"github.com/gonewx/hordewave/pkg/game"
	"go.uber.org/zap"
)

var (
	configPath     = flag.String("config", "data/sim.toml", "运行期配置文件")
	duration       = flag.Float64("duration", 0, "模拟秒数（0 表示运行到本局结束）")
	seed           = flag.Int64("seed", 0, "随机种子（0 使用配置文件中的值）")
	wsAddr         = flag.String("ws", "", "WebSocket 推送地址（如 :8089），为空则不推送并全速运行")
	reportInterval = flag.Float64("report", 30, "进度日志间隔（模拟秒数）")
	snapshotHz     = flag.Int("snapshot-hz", 10, "推送状态快照的频率（每秒）")
	jsonOut        = flag.Bool("json", false, "以 JSON 输出本局总结")
	verbose        = flag.Bool("verbose", false, "输出调试日志")
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sim.Start()
	if *wsAddr != "" {
		runRealtime(ctx, sim, cfg, logger)
	} else {
		runFast(ctx, sim, logger)
	}

	_, victory := sim.Over()
	summary := sim.Stats().Summary(victory)

	records := game.OpenRecordStore(cfg.Records, logger.Named("Records"))
	improved := records.Submit(summary)
	if err := records.Save(); err != nil {
		logger.Warn("failed to save records", zap.Error(err))
	}

	return printSummary(sim, summary, records.Record(), improved)
}

// runFast 按模拟时间分段全速运行，每段输出一次进度
func runFast(ctx context.Context, sim *game.Simulation, logger *zap.Logger) {
	step := *reportInterval
	if step <= 0 {
		step = 30
	}
	for {
		if over, _ := sim.Over(); over || ctx.Err() != nil {
			return
		}
		chunk := step
		if *duration > 0 {
			remaining := *duration - sim.Clock().Elapsed()
			if remaining <= 0 {
				return
			}
			if remaining < chunk {
				chunk = remaining
			}
		}
		sim.RunFor(chunk)
		logProgress(sim, logger)
	}
}

// runRealtime 按 tick_rate 实时运行并推送
func runRealtime(ctx context.Context, sim *game.Simulation, cfg *config.SimConfig, logger *zap.Logger) {
	feedCfg := cfg.Feed
	hub := feed.NewHub(feedCfg, logger.Named("Feed"))
	hub.Attach(sim.Bus())

	feedCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := hub.ListenAndServe(feedCtx, *wsAddr, feedCfg.Path); err != nil {
			logger.Error("feed stopped", zap.Error(err))
		}
	}()

	dt := cfg.TickDelta()
	ticker := time.NewTicker(time.Duration(dt * float64(time.Second)))
	defer ticker.Stop()

	snapshotEvery := uint64(1)
	if *snapshotHz > 0 && *snapshotHz < cfg.Simulation.TickRate {
		snapshotEvery = uint64(cfg.Simulation.TickRate / *snapshotHz)
	}
	nextReport := *reportInterval

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		sim.Tick(dt)
		if sim.Ticks()%snapshotEvery == 0 {
			hub.Broadcast(feed.SnapshotType, sim.Snapshot())
		}
		if *reportInterval > 0 && sim.Clock().Elapsed() >= nextReport {
			nextReport += *reportInterval
			logProgress(sim, logger)
		}

		over, _ := sim.Over()
		if over || (*duration > 0 && sim.Clock().Elapsed() >= *duration) {
			hub.Broadcast(feed.SnapshotType, sim.Snapshot())
			return
		}
	}
}

func logProgress(sim *game.Simulation, logger *zap.Logger) {
	snap := sim.Snapshot()
	logger.Info("progress",
		zap.String("time", snap.Clock),
		zap.Int("wave", snap.WaveIndex),
		zap.Int("enemies", snap.Total),
		zap.Int("kills", snap.Kills),
		zap.Float64("hp", snap.Player.Health),
		zap.Int("relocated", snap.Relocated),
		zap.Int("pruned", snap.Pruned))
}

type report struct {
	Summary   game.RunSummary `json:"summary"`
	Breakdown []game.TypeKill `json:"killsByType"`
	Stats     any             `json:"scheduler"`
	Record    *game.RunRecord `json:"record"`
	NewBest   bool            `json:"newBest"`
}

func printSummary(sim *game.Simulation, s game.RunSummary, record *game.RunRecord, improved bool) error {
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report{
			Summary:   s,
			Breakdown: sim.Stats().KillBreakdown(),
			Stats:     sim.Scheduler().Stats(),
			Record:    record,
			NewBest:   improved,
		})
	}

	result := "defeated"
	if s.Victory {
		result = "victory"
	} else if over, _ := sim.Over(); !over {
		result = "stopped"
	}
	fmt.Printf("result:       %s\n", result)
	fmt.Printf("survived:     %s\n", game.FormatTime(s.SurvivalTime))
	fmt.Printf("highest wave: %d\n", s.HighestWave+1)
	fmt.Printf("kills:        %d (%.1f/min)\n", s.Kills, sim.Stats().KillsPerMinute())
	for _, k := range sim.Stats().KillBreakdown() {
		fmt.Printf("  %-12s %d\n", k.Type, k.Kills)
	}
	fmt.Printf("damage dealt: %.0f\n", s.DamageDealt)
	fmt.Printf("damage taken: %.0f\n", sim.Stats().DamageTaken)

	st := sim.Scheduler().Stats()
	fmt.Printf("spawned:      %d (burst %d, pool exhausted %d, pruned %d)\n",
		st.Spawned, st.BurstSpawned, st.PoolExhausted, st.Pruned)
	if improved {
		fmt.Println("new personal best!")
	}
	fmt.Printf("best:         %s, %d kills, wave %d (%d runs)\n",
		game.FormatTime(record.BestSurvivalTime), record.MostKills, record.HighestWave+1, record.TotalRuns)
	return nil
}
