// internal/api/websocket.go
package api

import (
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Corphon/TubeGenius/internal/utils"
	"github.com/Corphon/TubeGenius/internal/views"
)

const (
	wsWriteWait    = 10 * time.Second
	wsPongWait     = 60 * time.Second
	wsPingInterval = 54 * time.Second

	// 连接建立后发送的首条消息
	eventSnapshot views.EventType = "snapshot"
)

// WebSocketClient 表示一个会话上的 WebSocket 连接
type WebSocketClient struct {
	conn      *websocket.Conn
	sessionID string
	closed    int32 // 0=开启，1=关闭
	lastPing  atomic.Int64
	createdAt time.Time
	done      chan struct{}
}

// Close 安全关闭客户端连接
func (client *WebSocketClient) Close() {
	if atomic.CompareAndSwapInt32(&client.closed, 0, 1) {
		client.conn.Close()
	}
}

// IsClosed 检查连接是否已关闭
func (client *WebSocketClient) IsClosed() bool {
	return atomic.LoadInt32(&client.closed) == 1
}

// UpdatePing 更新最后 pong 时间
func (client *WebSocketClient) UpdatePing() {
	client.lastPing.Store(time.Now().UnixNano())
}

func (client *WebSocketClient) write(message any) error {
	client.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return client.conn.WriteJSON(message)
}

// WebSocketManager 记录所有会话上的连接，用于状态查询和关闭
type WebSocketManager struct {
	connections map[string]map[*WebSocketClient]struct{} // sessionID -> clients
	mutex       sync.RWMutex
	upgrader    websocket.Upgrader
	logger      *zap.Logger
	shutdown    chan struct{}
	closeOnce   sync.Once
}

// NewWebSocketManager 创建管理器，allowedOrigins 为空时接受任意来源
func NewWebSocketManager(allowedOrigins []string, logger *zap.Logger) *WebSocketManager {
	origins := slices.Clone(allowedOrigins)
	return &WebSocketManager{
		connections: make(map[string]map[*WebSocketClient]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(origins) == 0 || origin == "" || slices.Contains(origins, origin)
			},
		},
		logger:   utils.OrNop(logger),
		shutdown: make(chan struct{}),
	}
}

func (manager *WebSocketManager) register(client *WebSocketClient) {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()

	if manager.connections[client.sessionID] == nil {
		manager.connections[client.sessionID] = make(map[*WebSocketClient]struct{})
	}
	manager.connections[client.sessionID][client] = struct{}{}
	manager.logger.Info("✅ WebSocket 客户端已连接", zap.String("session_id", client.sessionID))
}

func (manager *WebSocketManager) unregister(client *WebSocketClient) {
	manager.mutex.Lock()
	if clients, exists := manager.connections[client.sessionID]; exists {
		delete(clients, client)
		if len(clients) == 0 {
			delete(manager.connections, client.sessionID)
		}
	}
	manager.mutex.Unlock()

	client.Close()
	manager.logger.Info("🔌 WebSocket 客户端已断开连接", zap.String("session_id", client.sessionID))
}

// Shutdown 关闭所有连接
func (manager *WebSocketManager) Shutdown() {
	manager.closeOnce.Do(func() {
		close(manager.shutdown)

		manager.mutex.RLock()
		defer manager.mutex.RUnlock()
		for _, clients := range manager.connections {
			for client := range clients {
				client.Close()
			}
		}
		manager.logger.Info("✅ WebSocket 管理器已关闭")
	})
}

// GetStatus 获取连接统计
func (manager *WebSocketManager) GetStatus() map[string]interface{} {
	manager.mutex.RLock()
	defer manager.mutex.RUnlock()

	sessions := make(map[string]interface{})
	total := 0
	for sessionID, clients := range manager.connections {
		active := 0
		for client := range clients {
			if !client.IsClosed() {
				active++
			}
		}
		sessions[sessionID] = map[string]interface{}{"client_count": active}
		total += active
	}

	return map[string]interface{}{
		"total_sessions":    len(manager.connections),
		"total_connections": total,
		"sessions":          sessions,
	}
}

// SessionWebSocket 推送会话的页面状态变化
func (h *Handler) SessionWebSocket(c *gin.Context) {
	session, err := h.Sessions.Get(c.Param("id"))
	if err != nil {
		h.Response.FromError(c, err)
		return
	}

	conn, err := h.WebSocket.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("❌ WebSocket 升级失败", zap.Error(err))
		return
	}

	client := &WebSocketClient{
		conn:      conn,
		sessionID: session.ID,
		createdAt: time.Now(),
		done:      make(chan struct{}),
	}
	client.UpdatePing()

	bus := session.Shell.Bus()
	events := bus.Subscribe()
	h.WebSocket.register(client)
	defer func() {
		bus.Unsubscribe(events)
		h.WebSocket.unregister(client)
	}()

	go h.readWebSocket(client)

	snapshot := session.Shell.Snapshot()
	if err := client.write(views.Event{Type: eventSnapshot, View: snapshot.ActiveView, Data: snapshot, Timestamp: time.Now()}); err != nil {
		return
	}

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				// 会话已删除
				client.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				client.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
				return
			}
			if err := client.write(event); err != nil {
				h.logger.Debug("WebSocket 写入失败", zap.Error(err))
				return
			}

		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-client.done:
			return

		case <-h.WebSocket.shutdown:
			return
		}
	}
}

// readWebSocket 只处理控制帧，客户端消息被忽略
func (h *Handler) readWebSocket(client *WebSocketClient) {
	defer close(client.done)

	client.conn.SetReadLimit(4096)
	client.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	client.conn.SetPongHandler(func(string) error {
		client.UpdatePing()
		return client.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && !client.IsClosed() {
				h.logger.Debug("WebSocket 读取结束", zap.Error(err))
			}
			return
		}
		client.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	}
}

// GetWebSocketStatus 获取 WebSocket 连接状态
func (h *Handler) GetWebSocketStatus(c *gin.Context) {
	h.Response.Success(c, h.WebSocket.GetStatus())
}
