package entity

import "time"

// ChatMessage mensaje de una conversación (chat interno o soporte al cliente).
// Seq es creciente por conversación y sirve de cursor de sondeo.
type ChatMessage struct {
	ID           string    `json:"id"`
	Seq          int64     `json:"seq"`
	Conversation string    `json:"conversation"`
	SenderID     string    `json:"sender_id"`
	SenderName   string    `json:"sender_name"`
	Body         string    `json:"body"`
	SentAt       time.Time `json:"sent_at"`
}

// Tipos de notificación.
const (
	NotificationLowStock   = "low_stock"
	NotificationNewSale    = "new_sale"
	NotificationNewMessage = "new_message"
)

// Notification alerta mostrada al personal.
type Notification struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	RefID     string    `json:"ref_id,omitempty"`
	StoreID   string    `json:"store_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
