package websocket

// MetricsProvider определяет метод для получения метрик хаба.
type MetricsProvider interface {
	GetMetrics() map[string]interface{}
	ClientCount() int
}

// HubInterface объединяет возможности для Manager.
// Это каноническое определение интерфейса хаба.
type HubInterface interface {
	// BroadcastJSON отправляет структуру JSON всем клиентам
	BroadcastJSON(v interface{}) error

	// SendJSONToUser отправляет структуру JSON конкретному пользователю
	SendJSONToUser(userID string, v interface{}) error

	// SendToUser отправляет байтовое сообщение конкретному пользователю
	SendToUser(userID string, message []byte) bool

	// GetMetrics возвращает метрики хаба
	GetMetrics() map[string]interface{}

	// ClientCount возвращает количество подключенных клиентов
	ClientCount() int
}
