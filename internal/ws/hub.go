package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ignatzorin/lostfound-backend/internal/domain/entity"
	"github.com/ignatzorin/lostfound-backend/internal/goroutine"
	"github.com/ignatzorin/lostfound-backend/internal/logger"
)

// EventMatchFound - событие о новом совпадении.
const EventMatchFound = "match_found"

// Hub управляет всеми WebSocket клиентами.
type Hub struct {
	mu         sync.RWMutex
	clients    map[uuid.UUID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	done       chan struct{}
}

type message struct {
	userID  uuid.UUID
	payload []byte
}

// NewHub создаёт новый хаб.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 64),
		done:       make(chan struct{}),
	}
}

// Run запускает главный цикл хаба и возвращается после отмены ctx.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.send(msg.userID, msg.payload)
		}
	}
}

// Register добавляет клиента. После остановки хаба клиент сразу закрывается.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.conn.Close()
	}
}

// Unregister удаляет клиента.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastToUser ставит сообщение в очередь конкретному пользователю.
// Если очередь заполнена, сообщение отбрасывается: доставка не гарантируется.
func (h *Hub) BroadcastToUser(userID uuid.UUID, event string, data any) error {
	raw, err := encodeEvent(event, data)
	if err != nil {
		return err
	}

	select {
	case <-h.done:
		return fmt.Errorf("ws: хаб остановлен")
	default:
	}

	select {
	case h.broadcast <- message{userID: userID, payload: raw}:
		return nil
	default:
		logger.WithComponent("ws").WithField("user_id", userID).Warn("очередь уведомлений заполнена, событие отброшено")
		return nil
	}
}

// encodeEvent собирает сообщение {"type": ..., "data": ...}.
func encodeEvent(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(map[string]any{
		"type": event,
		"data": data,
	})
	if err != nil {
		return nil, fmt.Errorf("ws: не удалось сериализовать сообщение: %w", err)
	}
	return raw, nil
}

// MatchPayload - данные события match_found.
type MatchPayload struct {
	MatchID         uuid.UUID `json:"match_id"`
	LostItemID      uuid.UUID `json:"lost_item_id"`
	FoundItemID     uuid.UUID `json:"found_item_id"`
	SimilarityScore float64   `json:"similarity_score"`
}

// NotifyMatch сообщает о совпадении обоим владельцам.
func (h *Hub) NotifyMatch(_ context.Context, lostOwnerID, foundOwnerID uuid.UUID, match *entity.Match) {
	payload := MatchPayload{
		MatchID:         match.ID,
		LostItemID:      match.LostItemID,
		FoundItemID:     match.FoundItemID,
		SimilarityScore: match.SimilarityScore,
	}
	for _, userID := range []uuid.UUID{lostOwnerID, foundOwnerID} {
		if err := h.BroadcastToUser(userID, EventMatchFound, payload); err != nil {
			logger.WithComponent("ws").WithError(err).WithField("match_id", match.ID).Warn("не удалось отправить уведомление")
		}
	}
}

// Connected - число подключений пользователя.
func (h *Hub) Connected(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]struct{})
	}
	h.clients[client.userID][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, client.userID)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, clients := range h.clients {
		for c := range clients {
			c.conn.Close()
		}
		delete(h.clients, userID)
	}
}

func (h *Hub) send(userID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[userID] {
		select {
		case client.send <- payload:
		default:
			// Медленный клиент: закрываем вне цикла хаба.
			goroutine.SafeGo("ws-close-slow-client", client.Close)
		}
	}
}
