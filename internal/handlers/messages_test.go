package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"devshare/internal/middleware"
	"devshare/internal/mocks"
	"devshare/internal/models"
	"devshare/internal/repositories"
)

func setupMessageRouter(handler *MessageHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.SessionKey, models.Session{ID: "user-1", Name: "Ann"})
		c.Next()
	})
	r.GET("/messages", handler.List)
	r.POST("/messages", handler.Send)
	return r
}

func TestListConversationsSuccess(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(messageRepo, new(mocks.UserRepositoryMock), nil, nil)
	router := setupMessageRouter(handler)

	now := time.Now().UTC()
	messageRepo.On("ListConversationSummaries", mock.Anything, "user-1").
		Return([]models.ConversationSummary{
			{UserID: "user-2", UserName: "Bob", LastMessageAt: now, UnreadCount: 2},
			{UserID: "user-3", UserName: "Cam", LastMessageAt: now.Add(-time.Hour)},
		}, nil).
		Once()

	req := httptest.NewRequest(http.MethodGet, "/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Conversations []models.ConversationSummary `json:"conversations"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Conversations, 2)
	require.Equal(t, "user-2", resp.Conversations[0].UserID)
	require.Equal(t, 2, resp.Conversations[0].UnreadCount)
	messageRepo.AssertExpectations(t)
}

func TestListConversationsRepoError(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(messageRepo, new(mocks.UserRepositoryMock), nil, nil)
	router := setupMessageRouter(handler)

	messageRepo.On("ListConversationSummaries", mock.Anything, "user-1").
		Return(([]models.ConversationSummary)(nil), assert.AnError).
		Once()

	req := httptest.NewRequest(http.MethodGet, "/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	messageRepo.AssertExpectations(t)
}

func TestListThreadMarksRead(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewMessageHandler(messageRepo, userRepo, nil, nil)
	router := setupMessageRouter(handler)

	thread := []models.Message{
		{ID: "m1", SenderID: "user-2", RecipientID: "user-1", Content: "hi"},
		{ID: "m2", SenderID: "user-1", RecipientID: "user-2", Content: "hey"},
	}
	messageRepo.On("ListConversation", mock.Anything, "user-1", "user-2").Return(thread, nil).Once()
	messageRepo.On("MarkConversationRead", mock.Anything, "user-1", "user-2").Return(int64(1), nil).Once()
	userRepo.On("GetUserByID", mock.Anything, "user-2").
		Return(models.User{ID: "user-2", Name: "Bob"}, nil).
		Once()

	req := httptest.NewRequest(http.MethodGet, "/messages?with=user-2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Messages []models.Message `json:"messages"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Messages, 2)
	require.Equal(t, "Bob", resp.Messages[0].Sender.Name)
	require.Equal(t, "Ann", resp.Messages[0].Recipient.Name)
	require.Equal(t, "Ann", resp.Messages[1].Sender.Name)
	messageRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestListThreadMarkReadFailureStillReturns(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewMessageHandler(messageRepo, userRepo, nil, nil)
	router := setupMessageRouter(handler)

	messageRepo.On("ListConversation", mock.Anything, "user-1", "user-2").
		Return([]models.Message{{ID: "m1", SenderID: "user-2", RecipientID: "user-1"}}, nil).
		Once()
	messageRepo.On("MarkConversationRead", mock.Anything, "user-1", "user-2").
		Return(int64(0), assert.AnError).
		Once()
	userRepo.On("GetUserByID", mock.Anything, "user-2").
		Return(models.User{ID: "user-2", Name: "Bob"}, nil).
		Once()

	req := httptest.NewRequest(http.MethodGet, "/messages?with=user-2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// The read receipt is best effort and never fails the fetch.
	require.Equal(t, http.StatusOK, rec.Code)
	messageRepo.AssertExpectations(t)
}

func TestSendMessageSuccess(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewMessageHandler(messageRepo, userRepo, nil, nil)
	router := setupMessageRouter(handler)

	userRepo.On("GetUserByID", mock.Anything, "user-2").
		Return(models.User{ID: "user-2", Name: "Bob"}, nil).
		Once()
	messageRepo.On("CreateMessage", mock.Anything, "user-1", "user-2", "hello").
		Return(models.Message{ID: "m1", SenderID: "user-1", RecipientID: "user-2", Content: "hello"}, nil).
		Once()

	body := bytes.NewBufferString(`{"recipient_id":"user-2","content":"hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/messages", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var msg models.Message
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&msg))
	require.Equal(t, "m1", msg.ID)
	require.Equal(t, "Ann", msg.Sender.Name)
	require.Equal(t, "Bob", msg.Recipient.Name)
	messageRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestSendMessageUnknownRecipient(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewMessageHandler(messageRepo, userRepo, nil, nil)
	router := setupMessageRouter(handler)

	userRepo.On("GetUserByID", mock.Anything, "ghost").
		Return(models.User{}, repositories.ErrUserNotFound).
		Once()

	body := bytes.NewBufferString(`{"recipient_id":"ghost","content":"hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/messages", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"error":"recipient not found"}`, rec.Body.String())
	userRepo.AssertExpectations(t)
}

func TestSendMessageEmptyContent(t *testing.T) {
	handler := NewMessageHandler(new(mocks.MessageRepositoryMock), new(mocks.UserRepositoryMock), nil, nil)
	router := setupMessageRouter(handler)

	body := bytes.NewBufferString(`{"recipient_id":"user-2","content":""}`)
	req := httptest.NewRequest(http.MethodPost, "/messages", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendMessageStoreError(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewMessageHandler(messageRepo, userRepo, nil, nil)
	router := setupMessageRouter(handler)

	userRepo.On("GetUserByID", mock.Anything, "user-2").
		Return(models.User{ID: "user-2"}, nil).
		Once()
	messageRepo.On("CreateMessage", mock.Anything, "user-1", "user-2", "hello").
		Return(models.Message{}, assert.AnError).
		Once()

	body := bytes.NewBufferString(`{"recipient_id":"user-2","content":"hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/messages", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	messageRepo.AssertExpectations(t)
}
