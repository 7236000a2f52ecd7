package handlers

import (
	"errors"
	"net/http"

	"workdesk/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type SessionHandler struct {
	db             *gorm.DB
	sessionService services.SessionService
}

func NewSessionHandler(db *gorm.DB, sessionService services.SessionService) *SessionHandler {
	return &SessionHandler{db: db, sessionService: sessionService}
}

// ListSessions handles GET /sessions?date=YYYY-MM-DD, defaulting to
// today in the reporting timezone.
func (h *SessionHandler) ListSessions(c *gin.Context) {
	date := c.DefaultQuery("date", h.sessionService.Today())

	sessions, err := h.sessionService.ListSessions(h.db, date)
	if err != nil {
		handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":     date,
		"sessions": sessions,
	})
}

func (h *SessionHandler) StartSession(c *gin.Context) {
	var input services.SessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.sessionService.StartSession(h.db, input)
	if err != nil {
		handleSessionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *SessionHandler) StopSession(c *gin.Context) {
	id := uuid.FromStringOrNil(c.Param("id"))

	session, err := h.sessionService.StopSession(h.db, id)
	if err != nil {
		handleSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func handleSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, services.ErrSessionAlreadyStopped):
		c.JSON(http.StatusConflict, gin.H{"error": "session already stopped"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process session request"})
	}
}
