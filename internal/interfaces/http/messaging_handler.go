package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/messaging"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// ConversationDefault alias de la conversación propia del rol: el canal del
// personal para el staff y la conversación de soporte para un cliente.
const ConversationDefault = "default"

// maxWait tope del long polling del chat.
const maxWait = 30 * time.Second

// MessagingHandler chat, avisos, favoritos y carrito.
type MessagingHandler struct {
	scope
	chat   *messaging.Chat
	poller *messaging.Poller
	alerts *messaging.Alerts
	basket *messaging.Basket
	team   string
}

// NewMessagingHandler construye el handler. team es la conversación interna del personal.
func NewMessagingHandler(sc scope, chat *messaging.Chat, poller *messaging.Poller, alerts *messaging.Alerts, basket *messaging.Basket, team string) *MessagingHandler {
	return &MessagingHandler{scope: sc, chat: chat, poller: poller, alerts: alerts, basket: basket, team: team}
}

func (h *MessagingHandler) conversation(c *fiber.Ctx, identity *entity.Identity) (string, error) {
	conv := c.Params("conversation")
	if conv == ConversationDefault && identity != nil {
		if identity.IsStaff() {
			conv = h.team
		} else {
			conv = messaging.SupportConversation(identity.ID)
		}
	}
	if !messaging.CanAccess(identity, conv) {
		return "", domain.ErrForbidden
	}
	return conv, nil
}

// History godoc
// @Summary      Mensajes de una conversación
// @Description  after = último seq conocido. Con wait (segundos) la petición espera el primer mensaje nuevo.
// @Tags         chat
// @Security     BearerAuth
// @Produce      json
// @Param        conversation  path   string  true   "conversación o default"
// @Param        after         query  int     false  "cursor"
// @Param        wait          query  int     false  "segundos de espera (máx. 30)"
// @Success      200  {object}  dto.ChatHistoryResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/chat/{conversation} [get]
func (h *MessagingHandler) History(c *fiber.Ctx) error {
	identity, err := h.identity(c)
	if err != nil {
		return h.fail(c, err)
	}
	conv, err := h.conversation(c, identity)
	if err != nil {
		return h.fail(c, err)
	}
	after := int64(c.QueryInt("after", 0))
	ctx := c.UserContext()

	var msgs []entity.ChatMessage
	if wait := time.Duration(c.QueryInt("wait", 0)) * time.Second; wait > 0 {
		if wait > maxWait {
			wait = maxWait
		}
		wctx, cancel := context.WithTimeout(ctx, wait)
		msgs, err = h.poller.Wait(wctx, conv, after)
		cancel()
	} else {
		msgs, err = h.chat.History(ctx, conv, after)
	}
	if err != nil {
		return h.fail(c, err)
	}

	unread, err := h.chat.Unread(ctx, identity.ID, conv)
	if err != nil {
		return h.fail(c, err)
	}
	if err := h.chat.MarkOpened(ctx, identity.ID, conv); err != nil {
		return h.fail(c, err)
	}
	cursor := after
	if n := len(msgs); n > 0 {
		cursor = msgs[n-1].Seq
	}
	return c.JSON(dto.ChatHistoryResponse{Conversation: conv, Messages: msgs, Cursor: cursor, Unread: unread})
}

// Send godoc
// @Summary      Enviar mensaje
// @Tags         chat
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        conversation  path  string                  true  "conversación o default"
// @Param        body          body  dto.SendMessageRequest  true  "mensaje"
// @Success      201  {object}  entity.ChatMessage
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/chat/{conversation} [post]
func (h *MessagingHandler) Send(c *fiber.Ctx) error {
	var in dto.SendMessageRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	identity, err := h.identity(c)
	if err != nil {
		return h.fail(c, err)
	}
	conv, err := h.conversation(c, identity)
	if err != nil {
		return h.fail(c, err)
	}
	msg, err := h.chat.Send(c.UserContext(), conv, identity, in.Body)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// Alerts godoc
// @Summary      Avisos recientes
// @Description  Stock bajo, ventas nuevas y mensajes de clientes, filtrados por la tienda activa.
// @Tags         alerts
// @Security     BearerAuth
// @Produce      json
// @Param        limit  query  int  false  "máximo (50 por defecto)"
// @Success      200  {object}  dto.AlertsResponse
// @Router       /api/alerts [get]
func (h *MessagingHandler) Alerts(c *fiber.Ctx) error {
	identity, access, err := h.access(c)
	if err != nil {
		return h.fail(c, err)
	}
	ctx := c.UserContext()
	policy := h.stores.Policy()
	items, err := h.alerts.Recent(ctx, access, policy, c.QueryInt("limit", 50))
	if err != nil {
		return h.fail(c, err)
	}
	unseen, err := h.alerts.Unseen(ctx, identity.ID, access, policy)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.AlertsResponse{Items: items, Unseen: unseen})
}

// MarkAlertsSeen godoc
// @Summary      Marcar avisos como vistos
// @Tags         alerts
// @Security     BearerAuth
// @Success      204
// @Router       /api/alerts/seen [post]
func (h *MessagingHandler) MarkAlertsSeen(c *fiber.Ctx) error {
	if err := h.alerts.MarkSeen(c.UserContext(), GetUserID(c)); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Favorites godoc
// @Summary      Mis favoritos
// @Tags         basket
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  string
// @Router       /api/favorites [get]
func (h *MessagingHandler) Favorites(c *fiber.Ctx) error {
	ids, err := h.basket.Favorites(c.UserContext(), GetUserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(ids)
}

// SetFavorites godoc
// @Summary      Reemplazar favoritos
// @Tags         basket
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.FavoritesRequest  true  "ids de artículos"
// @Success      200  {array}  string
// @Router       /api/favorites [put]
func (h *MessagingHandler) SetFavorites(c *fiber.Ctx) error {
	var in dto.FavoritesRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	ids, err := h.basket.SetFavorites(c.UserContext(), GetUserID(c), in.ArticleIDs)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(ids)
}

// ToggleFavorite godoc
// @Summary      Alternar favorito
// @Tags         basket
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "ID del artículo"
// @Success      200  {object}  dto.ToggleFavoriteResponse
// @Router       /api/favorites/{id}/toggle [post]
func (h *MessagingHandler) ToggleFavorite(c *fiber.Ctx) error {
	id := c.Params("id")
	fav, err := h.basket.ToggleFavorite(c.UserContext(), GetUserID(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.ToggleFavoriteResponse{ArticleID: id, Favorite: fav})
}

// Cart godoc
// @Summary      Mi carrito
// @Tags         basket
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  messaging.CartItem
// @Router       /api/cart [get]
func (h *MessagingHandler) Cart(c *fiber.Ctx) error {
	items, err := h.basket.Cart(c.UserContext(), GetUserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(items)
}

// SetCart godoc
// @Summary      Reemplazar carrito
// @Description  Las líneas repetidas se suman; cantidad <= 0 es inválida.
// @Tags         basket
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  []messaging.CartItem  true  "líneas"
// @Success      200  {array}  messaging.CartItem
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/cart [put]
func (h *MessagingHandler) SetCart(c *fiber.Ctx) error {
	var in []messaging.CartItem
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	items, err := h.basket.SetCart(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(items)
}

// ClearCart godoc
// @Summary      Vaciar carrito
// @Tags         basket
// @Security     BearerAuth
// @Success      204
// @Router       /api/cart [delete]
func (h *MessagingHandler) ClearCart(c *fiber.Ctx) error {
	if err := h.basket.ClearCart(c.UserContext(), GetUserID(c)); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
