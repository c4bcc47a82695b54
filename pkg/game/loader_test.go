package game

import (
	"testing"

	"github.com/gonewx/hordewave/pkg/config"
)

func testDataConfig() *config.SimConfig {
	cfg := config.DefaultSimConfig()
	cfg.Data.WavesFile = "../../data/waves.yaml"
	cfg.Data.EnemiesFile = "../../data/enemies.yaml"
	cfg.Data.LootScript = "../../data/scripts/loot.lua"
	return cfg
}

func TestNewFromConfig(t *testing.T) {
	sim, assets, err := NewFromConfig(testDataConfig(), nil)
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}
	defer assets.Close()

	if assets.Loot == nil {
		t.Error("Expected loot script to load")
	}
	if sim.Scheduler().WaveCount() != len(assets.Waves.Waves) {
		t.Errorf("Expected %d waves, got %d", len(assets.Waves.Waves), sim.Scheduler().WaveCount())
	}

	sim.Start()
	sim.RunFor(5)
	if sim.Registry().Count() == 0 {
		t.Error("Expected shipped waves to spawn enemies within 5s")
	}
}

func TestLoadAssetsErrors(t *testing.T) {
	t.Run("波次文件缺失", func(t *testing.T) {
		cfg := testDataConfig()
		cfg.Data.WavesFile = "missing.yaml"
		if _, err := LoadAssets(cfg, nil); err == nil {
			t.Error("Expected error for missing waves file")
		}
	})

	t.Run("敌人目录缺失", func(t *testing.T) {
		cfg := testDataConfig()
		cfg.Data.EnemiesFile = "missing.yaml"
		if _, err := LoadAssets(cfg, nil); err == nil {
			t.Error("Expected error for missing enemy catalog")
		}
	})

	t.Run("掉落脚本缺失时回退", func(t *testing.T) {
		cfg := testDataConfig()
		cfg.Data.LootScript = "missing.lua"
		assets, err := LoadAssets(cfg, nil)
		if err != nil {
			t.Fatalf("Expected fallback, got %v", err)
		}
		if assets.Loot != nil {
			t.Error("Expected nil loot roller when script is missing")
		}
		assets.Close()
	})
}
