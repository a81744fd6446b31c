package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"
	"medcare-api/internal/service"
	"medcare-api/internal/usecase"
	"medcare-api/pkg/jwt"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Application close codes sent after the upgrade when the handshake fails.
const (
	CloseAuthFailed      = 4000
	CloseSubjectMismatch = 4003
)

const (
	socketWriteWait  = 10 * time.Second
	socketPongWait   = 60 * time.Second
	socketPingPeriod = (socketPongWait * 9) / 10
	socketMaxMessage = 8192
)

// TokenResolver validates the access token carried on a socket handshake.
type TokenResolver interface {
	ResolveAccessToken(ctx context.Context, token string) (*jwt.Claims, error)
}

// frameHandler answers one inbound frame. A nil event sends nothing back.
type frameHandler func(ctx context.Context, actor entity.Actor, frame dto.SocketFrame) *dto.SocketEvent

type SocketHandler struct {
	resolver             TokenResolver
	chatRegistry         *service.ConnectionRegistry
	notificationRegistry *service.ConnectionRegistry
	chatUsecase          usecase.ChatUsecase
	upgrader             websocket.Upgrader
	log                  *logrus.Logger
}

func NewSocketHandler(
	resolver TokenResolver,
	chatRegistry *service.ConnectionRegistry,
	notificationRegistry *service.ConnectionRegistry,
	chatUsecase usecase.ChatUsecase,
	allowedOrigins []string,
	log *logrus.Logger,
) *SocketHandler {
	return &SocketHandler{
		resolver:             resolver,
		chatRegistry:         chatRegistry,
		notificationRegistry: notificationRegistry,
		chatUsecase:          chatUsecase,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		log: log,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		set[origin] = struct{}{}
	}
	if len(set) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// ServeChat handles GET /chat/ws/{user_id}?token=
func (h *SocketHandler) ServeChat(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.chatRegistry, h.handleChatFrame)
}

// ServeNotifications handles GET /notifications/ws/{user_id}?token=
func (h *SocketHandler) ServeNotifications(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.notificationRegistry, nil)
}

func (h *SocketHandler) serve(w http.ResponseWriter, r *http.Request, registry *service.ConnectionRegistry, onFrame frameHandler) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader already wrote the HTTP error
		h.log.Debugf("Failed to upgrade socket: %+v", err)
		return
	}

	actor, code, reason := h.authenticate(r)
	if code != 0 {
		h.reject(ws, code, reason)
		return
	}

	conn, err := registry.Register(actor.UserID)
	if err != nil {
		h.reject(ws, websocket.CloseGoingAway, "server is shutting down")
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.writePump(ws, conn)
	}()

	h.readPump(r.Context(), ws, registry, conn, actor, onFrame)
	registry.Unregister(conn)
	<-done
}

// authenticate returns a non-zero close code when the handshake is refused.
func (h *SocketHandler) authenticate(r *http.Request) (entity.Actor, int, string) {
	pathUserID, ok := pathID(r, "user_id")
	if !ok {
		return entity.Actor{}, CloseAuthFailed, "invalid user id"
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		return entity.Actor{}, CloseAuthFailed, "missing token"
	}

	claims, err := h.resolver.ResolveAccessToken(r.Context(), token)
	if err != nil {
		return entity.Actor{}, CloseAuthFailed, "invalid token"
	}

	if claims.UserID != pathUserID {
		return entity.Actor{}, CloseSubjectMismatch, "token does not match user"
	}

	return entity.Actor{UserID: claims.UserID, Role: entity.RoleFromID(claims.RoleID)}, 0, ""
}

func (h *SocketHandler) reject(ws *websocket.Conn, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	if err := ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(socketWriteWait)); err != nil {
		h.log.Debugf("Failed to send close frame: %+v", err)
	}
	ws.Close()
}

func (h *SocketHandler) writePump(ws *websocket.Conn, conn *service.Connection) {
	ticker := time.NewTicker(socketPingPeriod)
	defer func() {
		ticker.Stop()
		ws.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			_ = ws.SetWriteDeadline(time.Now().Add(socketWriteWait))
			if !ok {
				// registry dropped the connection
				_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := ws.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = ws.SetWriteDeadline(time.Now().Add(socketWriteWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *SocketHandler) readPump(ctx context.Context, ws *websocket.Conn, registry *service.ConnectionRegistry, conn *service.Connection, actor entity.Actor, onFrame frameHandler) {
	ws.SetReadLimit(socketMaxMessage)
	_ = ws.SetReadDeadline(time.Now().Add(socketPongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(socketPongWait))
	})

	for {
		_, message, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debugf("Socket of user %d closed: %+v", actor.UserID, err)
			}
			return
		}
		_ = ws.SetReadDeadline(time.Now().Add(socketPongWait))

		var frame dto.SocketFrame
		if err := json.Unmarshal(message, &frame); err != nil {
			h.reply(registry, conn, socketError("invalid frame"))
			continue
		}

		switch {
		case frame.Type == "ping":
			h.reply(registry, conn, &dto.SocketEvent{Type: "pong"})
		case onFrame != nil:
			if event := onFrame(ctx, actor, frame); event != nil {
				h.reply(registry, conn, event)
			}
		default:
			h.reply(registry, conn, socketError("unsupported frame type"))
		}
	}
}

func (h *SocketHandler) handleChatFrame(ctx context.Context, actor entity.Actor, frame dto.SocketFrame) *dto.SocketEvent {
	if frame.Type != "chat_message" {
		return socketError("unsupported frame type")
	}

	message, err := h.chatUsecase.SendMessage(ctx, actor, &dto.SendMessageRequest{
		ReceiverID:  frame.ReceiverID,
		Message:     frame.Message,
		IsUrgent:    frame.IsUrgent,
		MessageType: frame.MessageType,
	})
	if err != nil {
		switch err {
		case usecase.ErrReceiverNotFound, usecase.ErrMessageToSelf, usecase.ErrEmptyMessage:
			return socketError(err.Error())
		default:
			return socketError("failed to send message")
		}
	}

	return &dto.SocketEvent{Type: "message_sent", Data: message}
}

func (h *SocketHandler) reply(registry *service.ConnectionRegistry, conn *service.Connection, event *dto.SocketEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.Warnf("Failed to encode socket event: %+v", err)
		return
	}
	if !registry.SendTo(conn, payload) {
		h.log.Debugf("Dropped socket reply to user %d", conn.UserID)
	}
}

func socketError(message string) *dto.SocketEvent {
	return &dto.SocketEvent{Type: "error", Data: map[string]string{"message": message}}
}
