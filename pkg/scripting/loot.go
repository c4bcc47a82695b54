// Package scripting 用 Lua 脚本实现可替换的掉落公式
package scripting

import (
	"fmt"
	"math/rand"

	"github.com/gonewx/hordewave/pkg/embedded"
	"github.com/gonewx/hordewave/pkg/enemy"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// LootFunc 脚本中必须定义的全局函数名
const LootFunc = "roll_loot"

// LootEngine 包装一个 gopher-lua 虚拟机，实现 enemy.LootRoller
//
// 只能在模拟主循环中调用。脚本出错或返回值非法时退回内置公式。
type LootEngine struct {
	vm       *lua.LState
	log      *zap.Logger
	fallback enemy.DefaultLootRoller

	failures int
}

// NewLootEngine 读取并加载掉落脚本
func NewLootEngine(path string, log *zap.Logger) (*LootEngine, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read loot script %s: %w", path, err)
	}
	e, err := NewLootEngineFromSource(string(data), log)
	if err != nil {
		return nil, fmt.Errorf("load loot script %s: %w", path, err)
	}
	e.log.Debug("loaded lua script", zap.String("file", path))
	return e, nil
}

// NewLootEngineFromSource 从源码字符串加载掉落脚本
func NewLootEngineFromSource(src string, log *zap.Logger) (*LootEngine, error) {
	if log == nil {
		log = zap.NewNop()
	}

	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	if err := vm.DoString(src); err != nil {
		vm.Close()
		return nil, err
	}
	if fn := vm.GetGlobal(LootFunc); fn.Type() != lua.LTFunction {
		vm.Close()
		return nil, fmt.Errorf("lua function %s not defined", LootFunc)
	}

	return &LootEngine{vm: vm, log: log}, nil
}

// RollLoot 调用 roll_loot(ctx)
func (e *LootEngine) RollLoot(ctx enemy.LootContext, rng *rand.Rand) enemy.Loot {
	t := e.vm.NewTable()
	t.RawSetString("type", lua.LString(ctx.TypeID))
	t.RawSetString("behavior", lua.LString(ctx.Behavior))
	t.RawSetString("wave", lua.LNumber(ctx.Wave))
	t.RawSetString("xp", lua.LNumber(ctx.XP))
	t.RawSetString("drop_chance", lua.LNumber(ctx.DropChance))
	t.RawSetString("drop_amount", lua.LNumber(ctx.DropAmount))
	t.RawSetString("roll", lua.LNumber(rng.Float64()))

	if err := e.vm.CallByParam(lua.P{
		Fn:      e.vm.GetGlobal(LootFunc),
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		return e.fail(ctx, rng, "lua roll_loot error", zap.Error(err))
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return e.fail(ctx, rng, "lua roll_loot returned non-table", zap.String("got", result.Type().String()))
	}

	xp := lNumber(rt, "xp")
	health := lNumber(rt, "health")
	if xp < 0 || health < 0 {
		return e.fail(ctx, rng, "lua roll_loot returned negative amounts",
			zap.Float64("xp", xp), zap.Float64("health", health))
	}

	loot := enemy.Loot{XP: int(xp), Health: health}
	if health > 0 {
		loot.HealthPosition = enemy.ScatterDrop(ctx.Position, ctx.DropOffset, rng)
	}
	return loot
}

// fail 记录错误并退回内置公式（只在第一次失败时以 Error 级别记录）
func (e *LootEngine) fail(ctx enemy.LootContext, rng *rand.Rand, msg string, fields ...zap.Field) enemy.Loot {
	e.failures++
	fields = append(fields, zap.String("type", ctx.TypeID), zap.Int("failures", e.failures))
	if e.failures == 1 {
		e.log.Error(msg, fields...)
	} else {
		e.log.Debug(msg, fields...)
	}
	return e.fallback.RollLoot(ctx, rng)
}

// Failures 脚本调用失败次数
func (e *LootEngine) Failures() int {
	return e.failures
}

// Close 关闭 Lua 虚拟机
func (e *LootEngine) Close() {
	e.vm.Close()
}

// lNumber 读取 table 中的数字字段，缺失时为 0
func lNumber(t *lua.LTable, key string) float64 {
	return float64(lua.LVAsNumber(t.RawGetString(key)))
}
