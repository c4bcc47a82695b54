package game

import (
	"fmt"

	"github.com/gonewx/hordewave/pkg/config"
	"github.com/gonewx/hordewave/pkg/enemy"
	"github.com/gonewx/hordewave/pkg/scripting"
	"go.uber.org/zap"
)

// Assets 运行一局所需的数据配置
type Assets struct {
	Waves   *config.WaveListConfig
	Catalog *config.EnemyCatalog
	Loot    enemy.LootRoller
	closer  func()
}

// Close 释放脚本虚拟机
func (a *Assets) Close() {
	if a.closer != nil {
		a.closer()
	}
}

// LoadAssets 按运行期配置加载波次、敌人目录和掉落脚本
//
// 波次和敌人目录加载失败返回错误；掉落脚本加载失败只记录日志并使用内置公式。
func LoadAssets(cfg *config.SimConfig, log *zap.Logger) (*Assets, error) {
	if log == nil {
		log = zap.NewNop()
	}

	waves, err := config.LoadWaves(cfg.Data.WavesFile)
	if err != nil {
		return nil, fmt.Errorf("load waves: %w", err)
	}
	catalog, err := config.LoadEnemyCatalog(cfg.Data.EnemiesFile)
	if err != nil {
		return nil, fmt.Errorf("load enemy catalog: %w", err)
	}

	assets := &Assets{Waves: waves, Catalog: catalog}
	if cfg.Data.LootScript != "" {
		engine, err := scripting.NewLootEngine(cfg.Data.LootScript, log.Named("LootScript"))
		if err != nil {
			log.Warn("loot script unavailable, using built-in formula", zap.Error(err))
		} else {
			assets.Loot = engine
			assets.closer = engine.Close
		}
	}
	return assets, nil
}

// NewFromConfig 加载数据并创建模拟
func NewFromConfig(cfg *config.SimConfig, log *zap.Logger) (*Simulation, *Assets, error) {
	assets, err := LoadAssets(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	sim, err := New(Options{
		Config:  cfg,
		Waves:   assets.Waves.Waves,
		Catalog: assets.Catalog,
		Loot:    assets.Loot,
		Logger:  log,
	})
	if err != nil {
		assets.Close()
		return nil, nil, err
	}
	return sim, assets, nil
}
