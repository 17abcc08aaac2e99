package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Hub поддерживает набор активных клиентов и рассылает им сообщения.
// Один пользователь может держать несколько соединений (несколько вкладок).
type Hub struct {
	// Зарегистрированные клиенты
	clients map[*Client]bool

	// Клиенты, сгруппированные по ID пользователя
	userClients map[string]map[*Client]bool

	// Входящие broadcast-сообщения
	broadcast chan []byte

	// Запросы на регистрацию клиентов
	register chan *Client

	// Запросы на отписку клиентов
	unregister chan *Client

	// Сигнал остановки цикла Run
	done     chan struct{}
	stopOnce sync.Once

	mu sync.RWMutex

	// Метрики
	totalConnections  atomic.Int64
	messagesSent      atomic.Int64
	messagesDropped   atomic.Int64
	broadcastMessages atomic.Int64

	startedAt time.Time
}

// NewHub создает новый хаб
func NewHub() *Hub {
	return &Hub{
		clients:     make(map[*Client]bool),
		userClients: make(map[string]map[*Client]bool),
		broadcast:   make(chan []byte, 256),
		register:    make(chan *Client, 64),
		unregister:  make(chan *Client, 64),
		done:        make(chan struct{}),
		startedAt:   time.Now(),
	}
}

// Run запускает цикл обработки событий хаба
func (h *Hub) Run() {
	log.Println("[Hub] Запуск цикла обработки событий")
	for {
		select {
		case <-h.done:
			h.closeAllClients()
			log.Println("[Hub] Цикл обработки событий остановлен")
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessages.Add(1)
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
					h.messagesSent.Add(1)
				default:
					// Буфер клиента переполнен - сообщение отбрасывается,
					// клиент перечитает состояние после переподключения
					h.messagesDropped.Add(1)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register ставит клиента в очередь на регистрацию
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Stop останавливает цикл Run и закрывает все клиентские соединения.
// Повторные вызовы безопасны.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
	})
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
	}
	h.clients = make(map[*Client]bool)
	h.userClients = make(map[string]map[*Client]bool)
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	if _, ok := h.userClients[client.UserID]; !ok {
		h.userClients[client.UserID] = make(map[*Client]bool)
	}
	h.userClients[client.UserID][client] = true
	h.totalConnections.Add(1)

	log.Printf("[Hub] Клиент зарегистрирован: UserID=%s ConnID=%s (всего клиентов: %d)",
		client.UserID, client.ConnectionID, len(h.clients))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}

	delete(h.clients, client)
	if conns, ok := h.userClients[client.UserID]; ok {
		delete(conns, client)
		if len(conns) == 0 {
			delete(h.userClients, client.UserID)
		}
	}
	close(client.send)

	log.Printf("[Hub] Клиент отписан: UserID=%s ConnID=%s (всего клиентов: %d)",
		client.UserID, client.ConnectionID, len(h.clients))
}

// BroadcastJSON отправляет структуру JSON всем клиентам
func (h *Hub) BroadcastJSON(v interface{}) error {
	message, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.broadcast <- message
	return nil
}

// SendJSONToUser отправляет структуру JSON конкретному пользователю
func (h *Hub) SendJSONToUser(userID string, v interface{}) error {
	message, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.SendToUser(userID, message)
	return nil
}

// SendToUser отправляет байтовое сообщение во все соединения пользователя.
// Возвращает true, если сообщение поставлено в очередь хотя бы одному соединению.
func (h *Hub) SendToUser(userID string, message []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conns, ok := h.userClients[userID]
	if !ok || len(conns) == 0 {
		return false
	}

	sent := false
	for client := range conns {
		select {
		case client.send <- message:
			h.messagesSent.Add(1)
			sent = true
		default:
			h.messagesDropped.Add(1)
		}
	}
	return sent
}

// ClientCount возвращает количество подключенных клиентов
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetMetrics возвращает метрики хаба
func (h *Hub) GetMetrics() map[string]interface{} {
	h.mu.RLock()
	clients := len(h.clients)
	users := len(h.userClients)
	h.mu.RUnlock()

	return map[string]interface{}{
		"active_connections": clients,
		"active_users":       users,
		"total_connections":  h.totalConnections.Load(),
		"messages_sent":      h.messagesSent.Load(),
		"messages_dropped":   h.messagesDropped.Load(),
		"broadcasts":         h.broadcastMessages.Load(),
		"uptime_seconds":     int64(time.Since(h.startedAt).Seconds()),
	}
}
