package dto

import "github.com/jhoicas/Gestion-api/internal/domain/entity"

// PreferencesResponse preferencias del usuario autenticado.
type PreferencesResponse struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
}

// UpdatePreferencesRequest body para PUT /api/preferences; campos nil no cambian.
type UpdatePreferencesRequest struct {
	Theme    *string `json:"theme"`
	Language *string `json:"language"`
}

// SendMessageRequest body para POST /api/chat/:conversation.
type SendMessageRequest struct {
	Body string `json:"body"`
}

// ChatHistoryResponse mensajes y cursor para el siguiente sondeo.
type ChatHistoryResponse struct {
	Conversation string               `json:"conversation"`
	Messages     []entity.ChatMessage `json:"messages"`
	Cursor       int64                `json:"cursor"`
	Unread       int                  `json:"unread"`
}

// AlertsResponse avisos recientes.
type AlertsResponse struct {
	Items  []entity.Notification `json:"items"`
	Unseen int                   `json:"unseen"`
}

// FavoritesRequest body para PUT /api/favorites.
type FavoritesRequest struct {
	ArticleIDs []string `json:"article_ids"`
}

// ToggleFavoriteResponse resultado de alternar un favorito.
type ToggleFavoriteResponse struct {
	ArticleID string `json:"article_id"`
	Favorite  bool   `json:"favorite"`
}

// SyncStatusResponse estado de la caché de dominio y de la cola de escrituras.
type SyncStatusResponse struct {
	Loaded        bool   `json:"loaded"`
	Degraded      bool   `json:"degraded"`
	Message       string `json:"message,omitempty"`
	Pending       int    `json:"pending"`
	LastSyncAt    string `json:"last_sync_at,omitempty"`
	LastSyncError string `json:"last_sync_error,omitempty"`
	NeedsReload   bool   `json:"needs_reload"`
}

// SyncReportResponse resultado de POST /api/sync.
type SyncReportResponse struct {
	Applied   int    `json:"applied"`
	Dropped   int    `json:"dropped"`
	Remaining int    `json:"remaining"`
	Error     string `json:"error,omitempty"`
}

// HealthResponse salida de GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Degraded bool   `json:"degraded"`
}
