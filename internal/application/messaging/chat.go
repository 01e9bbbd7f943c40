// Package messaging agrupa los proveedores de mensajería y avisos: chat interno
// y de soporte sobre el KV local, sondeo de mensajes nuevos, alertas, conteo de
// visitas y favoritos/carrito de los clientes.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Gestion-api/internal/application/ports"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// TranscriptLimit mensajes conservados por conversación.
const TranscriptLimit = 500

// SupportPrefix conversaciones de soporte: support:<id del cliente>.
const SupportPrefix = "support:"

var conversationRe = regexp.MustCompile(`^[a-z0-9][a-z0-9:_-]{0,79}$`)

// Notifier destino de los avisos de mensaje nuevo.
type Notifier interface {
	Notify(ctx context.Context, n entity.Notification)
}

// Chat transcripciones en listas del KV (chat:<conversación>).
type Chat struct {
	kv       ports.KVStore
	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time
}

// NewChat construye el proveedor de chat. notifier puede ser nil.
func NewChat(kv ports.KVStore, notifier Notifier, log zerolog.Logger) *Chat {
	return &Chat{kv: kv, notifier: notifier, log: log, now: time.Now}
}

func transcriptKey(conversation string) string { return "chat:" + conversation }
func seqKey(conversation string) string        { return "chat:seq:" + conversation }
func openedKey(userID, conversation string) string {
	return "chat:opened:" + userID + ":" + conversation
}

// SupportConversation conversación de soporte de un cliente.
func SupportConversation(userID string) string {
	return SupportPrefix + userID
}

// CanAccess el personal accede a cualquier conversación; un cliente solo a la suya de soporte.
func CanAccess(identity *entity.Identity, conversation string) bool {
	if identity == nil || !conversationRe.MatchString(conversation) {
		return false
	}
	if identity.IsStaff() {
		return true
	}
	return conversation == SupportConversation(identity.ID)
}

// Send agrega un mensaje a la conversación. Los mensajes de clientes generan un
// aviso para el personal.
func (c *Chat) Send(ctx context.Context, conversation string, sender *entity.Identity, body string) (entity.ChatMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" || len(body) > 4000 {
		return entity.ChatMessage{}, fmt.Errorf("mensaje vacío o demasiado largo: %w", domain.ErrInvalidInput)
	}
	if !CanAccess(sender, conversation) {
		return entity.ChatMessage{}, domain.ErrForbidden
	}
	msg := entity.ChatMessage{
		ID:           uuid.New().String(),
		Conversation: conversation,
		SenderID:     sender.ID,
		SenderName:   sender.Name,
		Body:         body,
		SentAt:       c.now().UTC(),
	}
	// El número y el alta en la transcripción van juntos: un sondeo que ya vio
	// el N+1 nunca recibe después el N.
	_, err := c.kv.AppendSeq(ctx, seqKey(conversation), transcriptKey(conversation), TranscriptLimit,
		func(seq int64) (string, error) {
			msg.Seq = seq
			raw, err := json.Marshal(msg)
			return string(raw), err
		})
	if err != nil {
		return entity.ChatMessage{}, fmt.Errorf("chat: guardar mensaje: %w", err)
	}
	if !sender.IsStaff() && c.notifier != nil {
		c.notifier.Notify(ctx, entity.Notification{
			Kind:  entity.NotificationNewMessage,
			Title: sender.Name,
			Body:  body,
			RefID: conversation,
		})
	}
	return msg, nil
}

// History mensajes con Seq mayor que after, en orden.
func (c *Chat) History(ctx context.Context, conversation string, after int64) ([]entity.ChatMessage, error) {
	rows, err := c.kv.LRange(ctx, transcriptKey(conversation), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("chat: leer transcripción: %w", err)
	}
	out := make([]entity.ChatMessage, 0, len(rows))
	for _, r := range rows {
		var m entity.ChatMessage
		if err := json.Unmarshal([]byte(r), &m); err != nil {
			c.log.Warn().Err(err).Str("conversation", conversation).Msg("mensaje ilegible")
			continue
		}
		if m.Seq > after {
			out = append(out, m)
		}
	}
	return out, nil
}

// MarkOpened registra que el usuario vio la conversación hasta el último mensaje.
func (c *Chat) MarkOpened(ctx context.Context, userID, conversation string) error {
	seq, _, err := c.lastSeq(ctx, conversation)
	if err != nil {
		return err
	}
	return c.kv.Set(ctx, openedKey(userID, conversation), strconv.FormatInt(seq, 10), 0)
}

// Unread mensajes de otros remitentes posteriores a la última apertura.
func (c *Chat) Unread(ctx context.Context, userID, conversation string) (int, error) {
	var opened int64
	raw, ok, err := c.kv.Get(ctx, openedKey(userID, conversation))
	if err != nil {
		return 0, fmt.Errorf("chat: leer última apertura: %w", err)
	}
	if ok {
		opened, _ = strconv.ParseInt(raw, 10, 64)
	}
	msgs, err := c.History(ctx, conversation, opened)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, m := range msgs {
		if m.SenderID != userID {
			n++
		}
	}
	return n, nil
}

func (c *Chat) lastSeq(ctx context.Context, conversation string) (int64, bool, error) {
	raw, ok, err := c.kv.Get(ctx, seqKey(conversation))
	if err != nil || !ok {
		return 0, ok, err
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	return n, true, err
}
