package sse

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Event SSE 事件。Data 为已序列化的 JSON 文本。
type Event struct {
	EventType string `json:"event"`
	Data      string `json:"data"`
}

// NewEvent 序列化 payload 生成事件。序列化失败时退化为空对象。
func NewEvent(eventType string, payload interface{}) Event {
	b, err := json.Marshal(payload)
	if err != nil {
		b = []byte("{}")
	}
	return Event{EventType: eventType, Data: string(b)}
}

// Client 一条已连接的 SSE 客户端通道。
// 同一用户可持有多个客户端（多标签页）。
type Client struct {
	ID     string
	UserID int
	Events chan Event
}

// Hub 管理全部 SSE 客户端连接。
// 通过依赖注入传递实例，不设全局单例。
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	logger  *zap.Logger
}

// NewHub 创建 SSE Hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		logger:  logger,
	}
}

// Register 注册客户端
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	h.logger.Debug("SSE 客户端已注册",
		zap.String("client_id", client.ID),
		zap.Int("user_id", client.UserID),
		zap.Int("total", len(h.clients)))
}

// Unregister 注销客户端并关闭其事件通道
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		close(client.Events)
		delete(h.clients, clientID)
		h.logger.Debug("SSE 客户端已注销",
			zap.String("client_id", clientID),
			zap.Int("total", len(h.clients)))
	}
}

// SendToUser 给指定用户的全部连接投递事件。
// 通道满时丢弃该连接的本次事件，不阻塞业务流程。
func (h *Hub) SendToUser(userID int, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if client.UserID != userID {
			continue
		}
		select {
		case client.Events <- event:
		default:
			h.logger.Warn("SSE 客户端缓冲区已满，丢弃事件",
				zap.String("client_id", client.ID),
				zap.String("event", event.EventType))
		}
	}
}

// SendToUsers 给一组用户投递同一事件
func (h *Hub) SendToUsers(userIDs []int, event Event) {
	for _, id := range userIDs {
		h.SendToUser(id, event)
	}
}

// Broadcast 向全部连接广播事件
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		select {
		case client.Events <- event:
		default:
			h.logger.Warn("SSE 客户端缓冲区已满，丢弃事件",
				zap.String("client_id", client.ID),
				zap.String("event", event.EventType))
		}
	}
}
