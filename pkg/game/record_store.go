package game

import (
	"fmt"

	"github.com/gonewx/hordewave/pkg/config"
	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// RunRecord 跨局保存的最佳成绩
type RunRecord struct {
	BestSurvivalTime float64 `yaml:"bestSurvivalTime"`
	MostKills        int     `yaml:"mostKills"`
	HighestWave      int     `yaml:"highestWave"`
	BestDamage       float64 `yaml:"bestDamage"`

	TotalRuns  int `yaml:"totalRuns"`
	TotalKills int `yaml:"totalKills"`
	Victories  int `yaml:"victories"`
}

// RunSummary 一局结束时的结果
type RunSummary struct {
	SurvivalTime float64 `json:"survivalTime"`
	Kills        int     `json:"kills"`
	HighestWave  int     `json:"highestWave"`
	DamageDealt  float64 `json:"damageDealt"`
	Victory      bool    `json:"victory"`
}

// RecordStore 最佳成绩存储
// 负责成绩的加载、保存和内存管理
type RecordStore struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	record       *RunRecord
	log          *zap.Logger
}

// 存储路径常量
const (
	recordsObject   = "records"
	recordsProperty = "best"
)

// OpenRecordStore 按配置打开成绩存储
//
// 未启用或 gdata 打开失败时返回降级模式的存储（仅内存），不返回错误。
func OpenRecordStore(cfg config.RecordsConfig, log *zap.Logger) *RecordStore {
	if log == nil {
		log = zap.NewNop()
	}
	if !cfg.Enabled {
		rs, _ := NewRecordStore(nil, log)
		return rs
	}

	manager, err := gdata.Open(gdata.Config{
		AppName: cfg.AppName,
	})
	if err != nil {
		log.Warn("failed to open record storage, records kept in memory", zap.Error(err))
		manager = nil
	}
	rs, _ := NewRecordStore(manager, log)
	return rs
}

// NewRecordStore 创建成绩存储
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存）
//   - log: 日志，可为 nil
//
// 返回：
//   - *RecordStore: 存储实例
//   - error: 加载失败时返回（不影响创建，使用空成绩）
func NewRecordStore(gdataManager *gdata.Manager, log *zap.Logger) (*RecordStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	rs := &RecordStore{
		gdataManager: gdataManager,
		record:       &RunRecord{},
		log:          log,
	}

	if err := rs.Load(); err != nil {
		rs.log.Warn("failed to load records, starting fresh", zap.Error(err))
		return rs, err
	}
	return rs, nil
}

// Load 从 gdata 加载成绩
//
// gdataManager 为 nil 或数据不存在时使用空成绩。
func (rs *RecordStore) Load() error {
	if rs.gdataManager == nil {
		rs.record = &RunRecord{}
		return nil
	}

	if !rs.gdataManager.ObjectPropExists(recordsObject, recordsProperty) {
		rs.record = &RunRecord{}
		return nil
	}

	data, err := rs.gdataManager.LoadObjectProp(recordsObject, recordsProperty)
	if err != nil {
		rs.record = &RunRecord{}
		return fmt.Errorf("failed to load records: %w", err)
	}

	var loaded RunRecord
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		rs.record = &RunRecord{}
		return fmt.Errorf("failed to unmarshal records: %w", err)
	}

	rs.record = &loaded
	rs.log.Debug("records loaded", zap.Int("runs", loaded.TotalRuns))
	return nil
}

// Save 保存成绩到 gdata
// gdataManager 为 nil 时返回 nil（降级模式，不报错）
func (rs *RecordStore) Save() error {
	if rs.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(rs.record)
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	if err := rs.gdataManager.SaveObjectProp(recordsObject, recordsProperty, data); err != nil {
		return fmt.Errorf("failed to save records: %w", err)
	}

	rs.log.Debug("records saved")
	return nil
}

// Record 返回当前成绩
func (rs *RecordStore) Record() *RunRecord {
	return rs.record
}

// Persistent 是否能够持久化
func (rs *RecordStore) Persistent() bool {
	return rs.gdataManager != nil
}

// Submit 合并一局的结果（仅修改内存，需调用 Save 持久化）
// 返回是否刷新了任意一项最佳成绩
func (rs *RecordStore) Submit(s RunSummary) bool {
	r := rs.record
	r.TotalRuns++
	r.TotalKills += s.Kills
	if s.Victory {
		r.Victories++
	}

	improved := false
	if s.SurvivalTime > r.BestSurvivalTime {
		r.BestSurvivalTime = s.SurvivalTime
		improved = true
	}
	if s.Kills > r.MostKills {
		r.MostKills = s.Kills
		improved = true
	}
	if s.HighestWave > r.HighestWave {
		r.HighestWave = s.HighestWave
		improved = true
	}
	if s.DamageDealt > r.BestDamage {
		r.BestDamage = s.DamageDealt
		improved = true
	}
	return improved
}
