package websocket

// Типы исходящих событий.
// Клиент, получив событие, сбрасывает свои локальные кеши и перечитывает данные.
const (
	EventNotificationNew = "notification:new"
	EventReviewNew       = "review:new"
	EventSolutionStatus  = "solution:status"
	EventAppealResolved  = "appeal:resolved"
	EventServerError     = "server:error"
)

// Типы входящих сообщений от клиента
const (
	MessageUserReady = "user:ready"
)
