package game

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gonewx/hordewave/pkg/config"
	"github.com/quasilyte/gdata/v2"
)

// createTestGdataManager 创建用于测试的 gdata Manager
func createTestGdataManager(t *testing.T) *gdata.Manager {
	appName := fmt.Sprintf("hordewave_test_%d", time.Now().UnixNano())
	manager, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil
	}

	t.Cleanup(func() {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			os.RemoveAll(filepath.Join(homeDir, ".local", "share", appName))
		}
	})
	return manager
}

func TestRecordStoreSubmit(t *testing.T) {
	rs, err := NewRecordStore(nil, nil)
	if err != nil {
		t.Fatalf("NewRecordStore failed: %v", err)
	}
	if rs.Persistent() {
		t.Error("Expected degraded store to be non-persistent")
	}

	if !rs.Submit(RunSummary{SurvivalTime: 120, Kills: 40, HighestWave: 2, DamageDealt: 900}) {
		t.Error("Expected first run to set records")
	}
	if rs.Submit(RunSummary{SurvivalTime: 60, Kills: 10, HighestWave: 1, DamageDealt: 100}) {
		t.Error("Expected worse run not to improve records")
	}
	if !rs.Submit(RunSummary{SurvivalTime: 1800, Kills: 5, Victory: true}) {
		t.Error("Expected longer survival to improve records")
	}

	r := rs.Record()
	if r.TotalRuns != 3 || r.TotalKills != 55 || r.Victories != 1 {
		t.Errorf("Unexpected totals: %+v", r)
	}
	if r.BestSurvivalTime != 1800 || r.MostKills != 40 || r.HighestWave != 2 || r.BestDamage != 900 {
		t.Errorf("Unexpected bests: %+v", r)
	}

	if err := rs.Save(); err != nil {
		t.Errorf("Expected Save in degraded mode to succeed, got %v", err)
	}
}

func TestRecordStorePersistence(t *testing.T) {
	manager := createTestGdataManager(t)
	if manager == nil {
		t.Skip("Cannot create gdata manager for testing")
	}

	rs, err := NewRecordStore(manager, nil)
	if err != nil {
		t.Fatalf("NewRecordStore failed: %v", err)
	}
	rs.Submit(RunSummary{SurvivalTime: 300, Kills: 77, HighestWave: 3})
	if err := rs.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reopened, err := NewRecordStore(manager, nil)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	r := reopened.Record()
	if r.MostKills != 77 || r.BestSurvivalTime != 300 || r.TotalRuns != 1 {
		t.Errorf("Expected records to round-trip, got %+v", r)
	}
}

func TestOpenRecordStoreDisabled(t *testing.T) {
	rs := OpenRecordStore(config.RecordsConfig{Enabled: false}, nil)
	if rs.Persistent() {
		t.Error("Expected disabled store to be non-persistent")
	}
}
