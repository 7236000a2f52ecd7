package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"workdesk/backend/internal/models"
	"workdesk/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type HealthLogHandler struct {
	db         *gorm.DB
	logService services.HealthLogService
	loc        *time.Location
}

func NewHealthLogHandler(db *gorm.DB, logService services.HealthLogService, loc *time.Location) *HealthLogHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &HealthLogHandler{db: db, logService: logService, loc: loc}
}

// ListLogs handles GET /healthlogs?date&status. Disabled rows are
// excluded unless status=all or status=disabled is asked for.
func (h *HealthLogHandler) ListLogs(c *gin.Context) {
	date := c.DefaultQuery("date", time.Now().In(h.loc).Format("2006-01-02"))

	statusParam := strings.ToLower(c.DefaultQuery("status", "active"))
	allStatuses := statusParam == "all"
	status := models.ParseStatus(statusParam)

	logs, err := h.logService.ListLogs(h.db, date, status, allStatuses)
	if err != nil {
		handleHealthLogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  date,
		"items": logs,
	})
}

func (h *HealthLogHandler) CreateLog(c *gin.Context) {
	var input services.HealthLogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date := time.Now().In(h.loc).Format("2006-01-02")
	if input.Date != nil && *input.Date != "" {
		date = *input.Date
	}

	record, err := h.logService.CreateLog(h.db, date, input)
	if err != nil {
		handleHealthLogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *HealthLogHandler) UpdateLog(c *gin.Context) {
	id := uuid.FromStringOrNil(c.Param("id"))

	var input services.HealthLogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.logService.UpdateLog(h.db, id, input)
	if err != nil {
		handleHealthLogError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *HealthLogHandler) DeleteLog(c *gin.Context) {
	id := uuid.FromStringOrNil(c.Param("id"))

	record, err := h.logService.DeleteLog(h.db, id)
	if err != nil {
		handleHealthLogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "health log disabled",
		"log":     record,
	})
}

func handleHealthLogError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "health log not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process health log request"})
}
