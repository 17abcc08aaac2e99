package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	ws "github.com/yourusername/codereview-api/internal/websocket"
	"github.com/yourusername/codereview-api/pkg/auth"
)

// WSHandler обрабатывает WebSocket соединения
type WSHandler struct {
	wsHub      *ws.Hub
	wsManager  *ws.Manager
	jwtService *auth.JWTService
}

// NewWSHandler создает новый обработчик WebSocket
func NewWSHandler(wsHub *ws.Hub, wsManager *ws.Manager, jwtService *auth.JWTService) *WSHandler {
	handler := &WSHandler{
		wsHub:      wsHub,
		wsManager:  wsManager,
		jwtService: jwtService,
	}
	handler.registerMessageHandlers()
	return handler
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		// Пустой Origin - не браузерный клиент (curl, мобильное приложение)
		if origin == "" {
			return true
		}

		// Список разрешенных origin (синхронизирован с CORS в main.go)
		allowedOrigins := []string{
			"http://localhost:5173",
			"http://localhost:3000",
			"http://localhost:8000",
		}
		for _, allowed := range allowedOrigins {
			if origin == allowed {
				return true
			}
		}

		log.Printf("WebSocket: rejected unauthorized origin: %s", origin)
		return false
	},
	EnableCompression: true,
}

// HandleConnection обрабатывает входящее WebSocket соединение.
// Аутентификация через короткоживущий тикет (?ticket=...), выданный
// POST /api/auth/ws-ticket: токены в query-параметрах светятся в логах
// прокси, тикет хотя бы быстро истекает.
func (h *WSHandler) HandleConnection(c *gin.Context) {
	ticket := c.Query("ticket")
	if ticket == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing authentication ticket parameter"})
		return
	}

	claims, err := h.jwtService.ParseWsTicket(ticket)
	if err != nil {
		log.Printf("WebSocket: invalid or expired ticket - %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired ticket"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket: error upgrading connection: %v", err)
		return
	}

	userID := strconv.FormatUint(uint64(claims.UserID), 10)
	client := ws.NewClient(h.wsHub, conn, userID)
	h.wsHub.Register(client)
	client.StartPumps(h.wsManager.HandleMessage)

	log.Printf("WebSocket: connection established for UserID: %d", claims.UserID)
}

// registerMessageHandlers регистрирует обработчики клиентских сообщений
func (h *WSHandler) registerMessageHandlers() {
	// user:ready подтверждает готовность клиента принимать события
	h.wsManager.RegisterHandler(ws.MessageUserReady, func(data json.RawMessage, client *ws.Client) error {
		log.Printf("WebSocket: client %s ready (user %s)", client.ConnectionID, client.UserID)
		return nil
	})
}
