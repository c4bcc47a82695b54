// Package events 提供模拟内部的类型化事件总线
//
// 总线是双缓冲的：第 N 个 tick 发出的事件在第 N+1 个 tick 开始时派发。
// 这样敌人在自身伤害/死亡处理中发出的请求（召唤小怪、发射子弹、爆炸）
// 不会在遍历活动敌人列表的过程中同步回调生成逻辑。
//
// 派发顺序与发出顺序一致。订阅者在派发时同步调用，
// 除模拟根对象外，订阅者不得修改模拟状态。
package events

import (
	"reflect"
	"sync"
)

// Bus 双缓冲事件总线
type Bus struct {
	mu       sync.Mutex // 只保护订阅注册
	front    []any
	back     []any
	handlers map[reflect.Type][]func(any)
}

// NewBus 创建事件总线
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[reflect.Type][]func(any)),
	}
}

// Emit 将事件放入后缓冲（下一个 tick 可读）
func Emit[T any](b *Bus, event T) {
	b.back = append(b.back, event)
}

// Subscribe 注册类型 T 的处理函数
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.handlers[t] = append(b.handlers[t], func(ev any) {
		fn(ev.(T))
	})
}

// SwapBuffers 交换前后缓冲并清空新的后缓冲
// 每个 tick 开始时调用一次
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front
	clear(b.back)
	b.back = b.back[:0]
}

// DispatchAll 按发出顺序将前缓冲中的事件派发给订阅者
// 派发期间新发出的事件进入后缓冲，在下一个 tick 派发
func (b *Bus) DispatchAll() {
	for _, ev := range b.front {
		for _, h := range b.handlers[reflect.TypeOf(ev)] {
			h(ev)
		}
	}
}

// Pending 返回后缓冲中等待下一次派发的事件数
func (b *Bus) Pending() int {
	return len(b.back)
}

// Flush 连续交换并派发，直到没有待处理事件或达到 maxRounds
// 用于模拟结束时清空残留事件
func (b *Bus) Flush(maxRounds int) {
	for i := 0; i < maxRounds && len(b.back) > 0; i++ {
		b.SwapBuffers()
		b.DispatchAll()
	}
}
