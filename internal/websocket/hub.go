package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Event представляет событие, отправляемое клиенту
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub рассылает события обратного отсчета клиентам активных сессий.
// На одну сессию допускается несколько соединений (второй экран, переподключение).
type Hub struct {
	mu sync.RWMutex

	// clients группирует соединения по ID сессии
	clients map[string]map[*Client]struct{}
}

// NewHub создает новый hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

// Register подключает клиента к сессии
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	group, ok := h.clients[client.SessionID]
	if !ok {
		group = make(map[*Client]struct{})
		h.clients[client.SessionID] = group
	}
	group[client] = struct{}{}
	log.Printf("[WSHub] Клиент подключен к сессии %s (всего %d)", client.SessionID, len(group))
}

// Unregister отключает клиента и закрывает его канал отправки
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	group, ok := h.clients[client.SessionID]
	if !ok {
		return
	}
	if _, ok := group[client]; !ok {
		return
	}
	delete(group, client)
	close(client.send)
	if len(group) == 0 {
		delete(h.clients, client.SessionID)
	}
}

// SendToSession отправляет событие всем клиентам сессии.
// Медленный клиент с переполненным буфером пропускает событие:
// обратный отсчет не должен блокироваться.
func (h *Hub) SendToSession(sessionID string, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("[WSHub] Ошибка сериализации события %s: %v", event.Type, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[sessionID] {
		select {
		case client.send <- payload:
		default:
			log.Printf("[WSHub] Буфер клиента сессии %s переполнен, событие %s пропущено", sessionID, event.Type)
		}
	}
}

// SessionTick реализует examsession.Notifier
func (h *Hub) SessionTick(sessionID string, secondsLeft int) {
	h.SendToSession(sessionID, Event{
		Type: "session:tick",
		Data: map[string]interface{}{
			"session_id":   sessionID,
			"seconds_left": secondsLeft,
		},
	})
}

// SessionExpired реализует examsession.Notifier
func (h *Hub) SessionExpired(sessionID string) {
	h.SendToSession(sessionID, Event{
		Type: "session:expired",
		Data: map[string]interface{}{
			"session_id": sessionID,
		},
	})
}
