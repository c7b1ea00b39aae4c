package project

import (
	"net/http"

	"Projease/logger"
	"Projease/module/project/gate"
	"Projease/tools/errs"

	"github.com/gin-gonic/gin"
)

// Handler exposes the join-project gate over REST.
type Handler struct {
	gate *gate.Gate
}

func NewHandler(g *gate.Gate) *Handler {
	return &Handler{gate: g}
}

type joinProjectRequest struct {
	ProjID   string `json:"projId" binding:"required"`
	Password string `json:"password"`
	UserID   string `json:"userId" binding:"required"`
	Invited  bool   `json:"invited"`
}

// POST /join-project
func (h *Handler) HandleJoinProject(c *gin.Context) {
	var req joinProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "projId and userId are required"})
		return
	}

	res, err := h.gate.Join(c.Request.Context(), gate.Request{
		ProjectID: req.ProjID,
		UserID:    req.UserID,
		Password:  req.Password,
		Invited:   req.Invited,
	})
	if err != nil {
		if errs.ErrInvalidInput.Is(err) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "projId and userId are required"})
			return
		}
		logger.Errorf("[join-project] proj=%s user=%s: %v", req.ProjID, req.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error occurred in url:/join-project"})
		return
	}

	switch res.Status {
	case gate.StatusJoined:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": res.Message})
	case gate.StatusNotFound:
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": res.Message})
	case gate.StatusLocked:
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": res.Message})
	case gate.StatusPasswordMismatch:
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": res.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Unexpected join result"})
	}
}
