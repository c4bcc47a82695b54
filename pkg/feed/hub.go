// Package feed 把模拟事件以 JSON 推送给 WebSocket 观察端
//
// 每条消息的格式为 {"type": <事件名>, "data": <事件内容>}。
// 慢速客户端的发送队列满时直接断开，不阻塞模拟循环。
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gonewx/hordewave/pkg/config"
	"github.com/gonewx/hordewave/pkg/events"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait       = 5 * time.Second
	shutdownTimeout = 2 * time.Second

	// SnapshotType 状态快照消息类型
	SnapshotType = "snapshot"
)

// Message 推送消息
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub 管理所有观察端连接
type Hub struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	buffer   int
	dropped  int
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewHub 创建推送中心
func NewHub(cfg config.FeedConfig, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	buffer := cfg.ClientBuffer
	if buffer <= 0 {
		buffer = 64
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		buffer:  buffer,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// Attach 订阅总线上的所有事件类型
func (h *Hub) Attach(bus *events.Bus) {
	events.Subscribe(bus, func(ev events.EnemySpawned) { h.Publish(ev) })
	events.Subscribe(bus, func(ev events.EnemyKilled) { h.Publish(ev) })
	events.Subscribe(bus, func(ev events.EnemyDamaged) { h.Publish(ev) })
	events.Subscribe(bus, func(ev events.EnemyCountChanged) { h.Publish(ev) })
	events.Subscribe(bus, func(ev events.WaveChanged) { h.Publish(ev) })
	events.Subscribe(bus, func(ev events.LootDropped) { h.Publish(ev) })
	events.Subscribe(bus, func(ev events.PlayerDamaged) { h.Publish(ev) })
	events.Subscribe(bus, func(ev events.ProjectileFired) { h.Publish(ev) })
	events.Subscribe(bus, func(ev events.ExplosionTriggered) { h.Publish(ev) })
	events.Subscribe(bus, func(ev events.MinionsRequested) { h.Publish(ev) })
}

// Publish 推送一个事件
func (h *Hub) Publish(ev events.Named) {
	h.Broadcast(ev.EventName(), ev)
}

// Broadcast 推送任意消息，返回成功入队的客户端数
func (h *Hub) Broadcast(typ string, data any) int {
	payload, err := json.Marshal(Message{Type: typ, Data: data})
	if err != nil {
		h.log.Error("failed to marshal feed message", zap.String("type", typ), zap.Error(err))
		return 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	sent := 0
	for c := range h.clients {
		select {
		case c.send <- payload:
			sent++
		default:
			// 队列已满：断开慢速客户端
			delete(h.clients, c)
			c.close()
			h.dropped++
			h.log.Warn("feed client too slow, disconnected", zap.String("remote", c.conn.RemoteAddr().String()))
		}
	}
	return sent
}

// ServeHTTP 升级为 WebSocket 并注册客户端
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, h.buffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.log.Info("feed client connected", zap.String("remote", conn.RemoteAddr().String()))

	go h.writePump(c)
	go h.readPump(c)
}

// readPump 只用于检测断开，观察端发送的内容被忽略
func (h *Hub) readPump(c *client) {
	defer h.remove(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for payload := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.remove(c)
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
		h.log.Info("feed client disconnected", zap.String("remote", c.conn.RemoteAddr().String()))
	}
	h.mu.Unlock()
}

// Clients 当前连接数
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Dropped 因过慢被断开的客户端数
func (h *Hub) Dropped() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

// Close 断开所有客户端
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
}

// ListenAndServe 在 addr 的 path 上提供推送服务，ctx 取消时关闭
func (h *Hub) ListenAndServe(ctx context.Context, addr, path string) error {
	if path == "" {
		path = "/ws"
	}
	mux := http.NewServeMux()
	mux.Handle(path, h)

	srv := &http.Server{Addr: addr, Handler: mux}
	errCh := make(chan error, 1)
	go func() {
		h.log.Info("feed listening", zap.String("addr", addr), zap.String("path", path))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		h.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
