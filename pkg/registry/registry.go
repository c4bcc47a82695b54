// Package registry 追踪激活中的敌人及其所属波次
//
// 登记表按登记顺序保存条目。删除是延迟的：MarkForRemoval 只做标记，
// 每个 tick 末尾由 Sweep 统一清理，避免遍历过程中修改列表。
// Sweep 同时清除已经不再存活或已被复用（代数不一致）的条目。
package registry

import (
	"github.com/gonewx/hordewave/pkg/enemy"
	"github.com/gonewx/hordewave/pkg/utils"
)

// Entry 登记条目
type Entry struct {
	Enemy      *enemy.Enemy
	Wave       int    // 所属波次下标
	Generation uint32 // 登记时的激活代数
	Summoned   bool   // 召唤物（Boss 小怪），不计入波次存活数
}

// stale 条目是否已失效：敌人已回收，或已被复用为新的激活
func (en Entry) stale() bool {
	if en.Enemy == nil {
		return true
	}
	if en.Enemy.Generation != en.Generation {
		return true
	}
	s := en.Enemy.State()
	return s != enemy.StateAlive && s != enemy.StateDying
}

// Registry 敌人登记表
type Registry struct {
	entries  []Entry
	index    map[*enemy.Enemy]struct{}
	toRemove map[*enemy.Enemy]struct{}
}

// New 创建空登记表
func New() *Registry {
	return &Registry{
		entries:  make([]Entry, 0, 64),
		index:    make(map[*enemy.Enemy]struct{}),
		toRemove: make(map[*enemy.Enemy]struct{}),
	}
}

// Register 登记一个敌人
// 重复登记同一实例只更新其波次和代数
func (r *Registry) Register(e *enemy.Enemy, wave int) {
	r.register(e, wave, false)
}

// RegisterSummoned 登记召唤物
// 召唤物参与清理和旧波次裁剪，但不计入 CountForWave
func (r *Registry) RegisterSummoned(e *enemy.Enemy, wave int) {
	r.register(e, wave, true)
}

func (r *Registry) register(e *enemy.Enemy, wave int, summoned bool) {
	if e == nil {
		return
	}
	if _, exists := r.index[e]; exists {
		for i := range r.entries {
			if r.entries[i].Enemy == e {
				r.entries[i].Wave = wave
				r.entries[i].Generation = e.Generation
				r.entries[i].Summoned = summoned
			}
		}
		delete(r.toRemove, e)
		return
	}

	r.entries = append(r.entries, Entry{Enemy: e, Wave: wave, Generation: e.Generation, Summoned: summoned})
	r.index[e] = struct{}{}
}

// Contains 判断敌人是否在登记表中
func (r *Registry) Contains(e *enemy.Enemy) bool {
	_, ok := r.index[e]
	return ok
}

// MarkForRemoval 标记敌人待删除（不立即删除）
func (r *Registry) MarkForRemoval(e *enemy.Enemy) {
	if _, ok := r.index[e]; ok {
		r.toRemove[e] = struct{}{}
	}
}

// Sweep 清理标记删除的条目和失效条目，返回删除数量
func (r *Registry) Sweep() int {
	kept := r.entries[:0]
	removed := 0
	for _, en := range r.entries {
		_, marked := r.toRemove[en.Enemy]
		if marked || en.stale() {
			delete(r.index, en.Enemy)
			removed++
			continue
		}
		kept = append(kept, en)
	}
	clear(r.entries[len(kept):])
	r.entries = kept
	clear(r.toRemove)
	return removed
}

// Clear 清空登记表
func (r *Registry) Clear() {
	clear(r.entries)
	r.entries = r.entries[:0]
	clear(r.index)
	clear(r.toRemove)
}

// Count 登记中的敌人总数
func (r *Registry) Count() int {
	return len(r.entries)
}

// CountForWave 所属波次为 wave 的敌人数量（不含召唤物）
func (r *Registry) CountForWave(wave int) int {
	n := 0
	for _, en := range r.entries {
		if en.Wave == wave && !en.Summoned {
			n++
		}
	}
	return n
}

// CountOlderWaves 所属波次早于 currentWave、仍存活且未标记删除的敌人数量
func (r *Registry) CountOlderWaves(currentWave int) int {
	n := 0
	for _, en := range r.entries {
		if en.Wave >= currentWave || en.stale() || !en.Enemy.IsAlive() {
			continue
		}
		if _, marked := r.toRemove[en.Enemy]; marked {
			continue
		}
		n++
	}
	return n
}

// WaveOf 返回敌人的所属波次
func (r *Registry) WaveOf(e *enemy.Enemy) (int, bool) {
	if _, ok := r.index[e]; !ok {
		return 0, false
	}
	for _, en := range r.entries {
		if en.Enemy == e {
			return en.Wave, true
		}
	}
	return 0, false
}

// Active 返回登记顺序的敌人列表副本
func (r *Registry) Active() []*enemy.Enemy {
	out := make([]*enemy.Enemy, len(r.entries))
	for i, en := range r.entries {
		out[i] = en.Enemy
	}
	return out
}

// Entries 返回条目副本
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// OffscreenOlderWaves 返回所属波次早于 currentWave、仍存活且位于摄像机范围外的敌人
// 结果按登记顺序排列，已标记删除的条目不包含在内
func (r *Registry) OffscreenOlderWaves(currentWave int, camera utils.Rect) []*enemy.Enemy {
	var out []*enemy.Enemy
	for _, en := range r.entries {
		if en.Wave >= currentWave || en.stale() {
			continue
		}
		if _, marked := r.toRemove[en.Enemy]; marked {
			continue
		}
		if !en.Enemy.IsAlive() || camera.Contains(en.Enemy.Position) {
			continue
		}
		out = append(out, en.Enemy)
	}
	return out
}
