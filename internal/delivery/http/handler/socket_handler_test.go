package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"
	"medcare-api/internal/infrastructure/database"
	gormrepo "medcare-api/internal/repository"
	"medcare-api/internal/service"
	"medcare-api/internal/usecase"
	"medcare-api/pkg/jwt"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver map[string]*jwt.Claims

func (s stubResolver) ResolveAccessToken(_ context.Context, token string) (*jwt.Claims, error) {
	claims, ok := s[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return claims, nil
}

type socketFixture struct {
	server        *httptest.Server
	resolver      stubResolver
	chatRegistry  *service.ConnectionRegistry
	notifications *service.ConnectionRegistry
	users         []*entity.User
}

func newSocketFixture(t *testing.T) *socketFixture {
	t.Helper()
	log, _ := test.NewNullLogger()

	db, err := database.NewSQLiteConnection("", false)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	userRepo := gormrepo.NewUserRepository()
	f := &socketFixture{
		resolver:      stubResolver{},
		chatRegistry:  service.NewConnectionRegistry("chat", log),
		notifications: service.NewConnectionRegistry("notifications", log),
	}
	for i, roleID := range []int{entity.RoleIDPatient, entity.RoleIDDoctor} {
		user := &entity.User{
			RoleID:    roleID,
			Email:     fmt.Sprintf("socket%d@example.com", i),
			Password:  "not-a-real-hash",
			FirstName: "Socket",
			LastName:  "User",
		}
		require.NoError(t, userRepo.Create(db, user))
		f.users = append(f.users, user)
		f.resolver[fmt.Sprintf("token-%d", user.ID)] = &jwt.Claims{UserID: user.ID, RoleID: roleID, TokenType: jwt.AccessToken}
	}

	chatUsecase := usecase.NewChatUsecase(db, log, gormrepo.NewChatRepository(), userRepo, f.chatRegistry)
	h := NewSocketHandler(f.resolver, f.chatRegistry, f.notifications, chatUsecase, nil, log)

	router := mux.NewRouter()
	router.HandleFunc("/chat/ws/{user_id}", h.ServeChat)
	router.HandleFunc("/notifications/ws/{user_id}", h.ServeNotifications)
	f.server = httptest.NewServer(router)

	t.Cleanup(func() {
		f.chatRegistry.Close()
		f.notifications.Close()
		f.server.Close()
	})
	return f
}

func (f *socketFixture) dial(t *testing.T, channel string, userID int, token string) *websocket.Conn {
	t.Helper()
	url := fmt.Sprintf("ws%s/%s/ws/%d?token=%s", strings.TrimPrefix(f.server.URL, "http"), channel, userID, token)
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

func readEvent(t *testing.T, ws *websocket.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := ws.ReadMessage()
	require.NoError(t, err)
	var event map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &event))
	return event
}

func readCloseCode(t *testing.T, ws *websocket.Conn) int {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := ws.ReadMessage()
	var closeErr *websocket.CloseError
	require.True(t, errors.As(err, &closeErr), "expected close frame, got %v", err)
	return closeErr.Code
}

func waitOnline(t *testing.T, registry *service.ConnectionRegistry, userID int) {
	t.Helper()
	require.Eventually(t, func() bool { return registry.IsOnline(userID) }, 2*time.Second, 10*time.Millisecond)
}

func TestSocketRejectsInvalidToken(t *testing.T) {
	f := newSocketFixture(t)

	ws := f.dial(t, "notifications", f.users[0].ID, "forged")

	assert.Equal(t, CloseAuthFailed, readCloseCode(t, ws))
	assert.False(t, f.notifications.IsOnline(f.users[0].ID))
}

func TestSocketRejectsSubjectMismatch(t *testing.T) {
	f := newSocketFixture(t)
	patient, doctor := f.users[0], f.users[1]

	ws := f.dial(t, "chat", doctor.ID, fmt.Sprintf("token-%d", patient.ID))

	assert.Equal(t, CloseSubjectMismatch, readCloseCode(t, ws))
	assert.False(t, f.chatRegistry.IsOnline(doctor.ID))
}

func TestSocketAnswersPing(t *testing.T) {
	f := newSocketFixture(t)
	user := f.users[0]

	ws := f.dial(t, "notifications", user.ID, fmt.Sprintf("token-%d", user.ID))
	waitOnline(t, f.notifications, user.ID)

	require.NoError(t, ws.WriteJSON(dto.SocketFrame{Type: "ping"}))
	assert.Equal(t, "pong", readEvent(t, ws)["type"])

	require.NoError(t, ws.WriteJSON(dto.SocketFrame{Type: "chat_message"}))
	assert.Equal(t, "error", readEvent(t, ws)["type"])
}

func TestSocketRelaysChatMessage(t *testing.T) {
	f := newSocketFixture(t)
	patient, doctor := f.users[0], f.users[1]

	sender := f.dial(t, "chat", patient.ID, fmt.Sprintf("token-%d", patient.ID))
	receiver := f.dial(t, "chat", doctor.ID, fmt.Sprintf("token-%d", doctor.ID))
	waitOnline(t, f.chatRegistry, patient.ID)
	waitOnline(t, f.chatRegistry, doctor.ID)

	require.NoError(t, sender.WriteJSON(dto.SocketFrame{
		Type:       "chat_message",
		ReceiverID: doctor.ID,
		Message:    "Is the 9am slot still free?",
	}))

	ack := readEvent(t, sender)
	assert.Equal(t, "message_sent", ack["type"])

	pushed := readEvent(t, receiver)
	assert.Equal(t, "chat_message", pushed["type"])
	data, ok := pushed["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Is the 9am slot still free?", data["message"])
	assert.EqualValues(t, patient.ID, data["sender_id"])
}

func TestSocketReportsChatErrors(t *testing.T) {
	f := newSocketFixture(t)
	patient := f.users[0]

	ws := f.dial(t, "chat", patient.ID, fmt.Sprintf("token-%d", patient.ID))
	waitOnline(t, f.chatRegistry, patient.ID)

	require.NoError(t, ws.WriteJSON(dto.SocketFrame{Type: "chat_message", ReceiverID: patient.ID, Message: "hi"}))

	event := readEvent(t, ws)
	assert.Equal(t, "error", event["type"])
	data, ok := event["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, usecase.ErrMessageToSelf.Error(), data["message"])
}
