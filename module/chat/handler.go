package chat

import (
	"context"
	"net/http"
	"strings"

	"Projease/logger"
	"Projease/module/chat/model"
	"Projease/tools/errs"

	"github.com/gin-gonic/gin"
)

// MessageReader is the slice of the message store the REST layer needs.
type MessageReader interface {
	ListByGroup(ctx context.Context, groupID string) ([]model.Message, error)
}

// UnseenCounters covers the chat-group document operations: counter
// reads, per-group badge clears and group lookup/creation.
type UnseenCounters interface {
	Read(ctx context.Context, groupID, userID string) (int64, error)
	Reset(ctx context.Context, groupID, userID string) error
	GetGroup(ctx context.Context, projectID string) (*model.ChatGroup, error)
	EnsureGroup(ctx context.Context, projectID, name string) (*model.ChatGroup, error)
}

// OnlineChecker is the live presence table (the socket registry).
type OnlineChecker interface {
	IsOnline(userID string) bool
}

// PresenceLookup reads the external presence mirror, covering users whose
// connection lives on another node. Optional.
type PresenceLookup interface {
	Lookup(ctx context.Context, userID string) (connID string, online bool, err error)
}

// Handler serves the REST side of the chat feature: unseen counters,
// chat-group documents, message history and presence checks. Thin
// pass-throughs; the protocol logic lives in service/chat.
type Handler struct {
	messages MessageReader
	unseen   UnseenCounters
	online   OnlineChecker
	mirror   PresenceLookup // nil when no redis configured
}

func NewHandler(messages MessageReader, unseen UnseenCounters, online OnlineChecker, mirror PresenceLookup) *Handler {
	return &Handler{messages: messages, unseen: unseen, online: online, mirror: mirror}
}

// GET /unseenMessageCount/:projectId/:userId
func (h *Handler) HandleUnseenCount(c *gin.Context) {
	projectID := c.Param("projectId")
	userID := c.Param("userId")

	count, err := h.unseen.Read(c.Request.Context(), projectID, userID)
	if err != nil {
		if errs.ErrNotFound.Is(err) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Chat group not found"})
			return
		}
		logger.Errorf("[chat] read unseen count proj=%s user=%s: %v", projectID, userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unseenCount": count})
}

// POST /unseenMessageCount/:projectId/:userId/reset
// Clears the user's badge for one group, i.e. when the chat is opened.
func (h *Handler) HandleResetUnseen(c *gin.Context) {
	projectID := c.Param("projectId")
	userID := c.Param("userId")

	if err := h.unseen.Reset(c.Request.Context(), projectID, userID); err != nil {
		logger.Errorf("[chat] reset unseen count proj=%s user=%s: %v", projectID, userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /chat-group/:projectId
func (h *Handler) HandleGetChatGroup(c *gin.Context) {
	projectID := c.Param("projectId")

	group, err := h.unseen.GetGroup(c.Request.Context(), projectID)
	if err != nil {
		if errs.ErrNotFound.Is(err) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Chat group not found"})
			return
		}
		logger.Errorf("[chat] get chat group proj=%s: %v", projectID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, group)
}

type createChatGroupRequest struct {
	ProjectID string `json:"projectId" binding:"required"`
	Name      string `json:"name"`
}

// POST /chat-group
func (h *Handler) HandleCreateChatGroup(c *gin.Context) {
	var req createChatGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ProjectID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "projectId is required"})
		return
	}

	group, err := h.unseen.EnsureGroup(c.Request.Context(), req.ProjectID, req.Name)
	if err != nil {
		logger.Errorf("[chat] create chat group proj=%s: %v", req.ProjectID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}
	c.JSON(http.StatusCreated, group)
}

// GET /messages/:groupId
func (h *Handler) HandleListMessages(c *gin.Context) {
	groupID := c.Param("groupId")

	msgs, err := h.messages.ListByGroup(c.Request.Context(), groupID)
	if err != nil {
		logger.Errorf("[chat] list messages group=%s: %v", groupID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	if msgs == nil {
		msgs = []model.Message{}
	}
	c.JSON(http.StatusOK, msgs)
}

// GET /presence/:userId
func (h *Handler) HandlePresence(c *gin.Context) {
	userID := c.Param("userId")
	online := h.online.IsOnline(userID)
	if !online && h.mirror != nil {
		_, mirrored, err := h.mirror.Lookup(c.Request.Context(), userID)
		if err != nil {
			logger.Warnf("[chat] presence mirror lookup user=%s: %v", userID, err)
		}
		online = mirrored
	}
	c.JSON(http.StatusOK, gin.H{
		"userId": userID,
		"online": online,
	})
}
