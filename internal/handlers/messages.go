package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"devshare/internal/middleware"
	"devshare/internal/models"
	"devshare/internal/observability"
	"devshare/internal/repositories"
	"devshare/internal/telemetry"
	"devshare/internal/ws"
)

// MessageHandler manages direct-message endpoints.
type MessageHandler struct {
	messageRepo repositories.MessageRepository
	userRepo    repositories.UserRepository
	hub         *ws.Hub
	audit       *telemetry.AuditEmitter
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(messageRepo repositories.MessageRepository, userRepo repositories.UserRepository, hub *ws.Hub, audit *telemetry.AuditEmitter) *MessageHandler {
	return &MessageHandler{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		hub:         hub,
		audit:       audit,
	}
}

// List handles GET /messages. Without a "with" parameter it returns the
// conversation index; with one it returns the full thread and marks the
// counterpart's messages read as a side effect.
func (h *MessageHandler) List(c *gin.Context) {
	session, _ := middleware.SessionFrom(c)

	counterpartID := c.Query("with")
	if counterpartID == "" {
		summaries, err := h.messageRepo.ListConversationSummaries(c.Request.Context(), session.ID)
		if err != nil {
			log.Printf("list conversations failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversations"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"conversations": summaries})
		return
	}

	msgs, err := h.messageRepo.ListConversation(c.Request.Context(), session.ID, counterpartID)
	if err != nil {
		log.Printf("load conversation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}

	h.attachParticipants(c, msgs, session, counterpartID)

	// Viewing the thread flips the counterpart's unread messages to
	// read. Deliberately not atomic with the fetch above: a message
	// arriving in between may or may not be marked, which is accepted.
	if _, err := h.messageRepo.MarkConversationRead(c.Request.Context(), session.ID, counterpartID); err != nil {
		log.Printf("mark conversation read failed: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// Send handles POST /messages.
func (h *MessageHandler) Send(c *gin.Context) {
	session, _ := middleware.SessionFrom(c)

	var req struct {
		RecipientID string `json:"recipient_id" binding:"required"`
		Content     string `json:"content" binding:"required,min=1,max=1000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipient, err := h.userRepo.GetUserByID(c.Request.Context(), req.RecipientID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipient not found"})
			return
		}
		log.Printf("resolve recipient failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send message"})
		return
	}

	msg, err := h.messageRepo.CreateMessage(c.Request.Context(), session.ID, recipient.ID, req.Content)
	if err != nil {
		log.Printf("store message failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send message"})
		return
	}
	msg.Sender = models.PublicUser{ID: session.ID, Name: session.Name, Image: session.Image}
	msg.Recipient = recipient.Public()

	if h.hub != nil {
		h.hub.BroadcastMessage(recipient.ID, msg)
		if recipient.ID != session.ID {
			h.hub.BroadcastMessage(session.ID, msg)
		}
	}

	observability.IncMessageSent()
	h.emitAudit(c, "INFO", "message sent")
	c.JSON(http.StatusCreated, msg)
}

// attachParticipants decorates a thread with sender/recipient identity,
// resolving the counterpart once. Lookup failures leave the identity
// fields empty rather than failing the read.
func (h *MessageHandler) attachParticipants(c *gin.Context, msgs []models.Message, session models.Session, counterpartID string) {
	me := models.PublicUser{ID: session.ID, Name: session.Name, Image: session.Image}
	other := models.PublicUser{ID: counterpartID}
	if counterpartID == session.ID {
		other = me
	} else if user, err := h.userRepo.GetUserByID(c.Request.Context(), counterpartID); err == nil {
		other = user.Public()
	}

	for i := range msgs {
		if msgs[i].SenderID == session.ID {
			msgs[i].Sender = me
		} else {
			msgs[i].Sender = other
		}
		if msgs[i].RecipientID == session.ID {
			msgs[i].Recipient = me
		} else {
			msgs[i].Recipient = other
		}
	}
}

func (h *MessageHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}
