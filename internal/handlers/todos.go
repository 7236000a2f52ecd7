package handlers

import (
	"errors"
	"net/http"

	"workdesk/backend/internal/query"
	"workdesk/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type TodoHandler struct {
	db          *gorm.DB
	todoService services.TodoService
}

func NewTodoHandler(db *gorm.DB, todoService services.TodoService) *TodoHandler {
	return &TodoHandler{db: db, todoService: todoService}
}

// ListTodos handles GET /todos. The response echoes the normalized
// filters plus the pre-pagination total.
func (h *TodoHandler) ListTodos(c *gin.Context) {
	spec := query.Parse(c.Request.URL.Query())

	items, total, err := h.todoService.ListTodos(h.db, spec)
	if err != nil {
		handleTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, listEnvelope(spec, gin.H{
		"total": total,
		"items": items,
	}))
}

// ListTodoTree handles GET /todos/tree: one page of roots plus a
// parent-id -> subtasks map assembled by the fan-out. The parentId
// param is forced to the root sentinel; tree pages always start from
// roots.
func (h *TodoHandler) ListTodoTree(c *gin.Context) {
	params := c.Request.URL.Query()
	params.Set("parentId", query.RootSentinel)
	spec := query.Parse(params)

	items, total, err := h.todoService.ListTodos(h.db, spec)
	if err != nil {
		handleTodoError(c, err)
		return
	}

	subtasks := h.todoService.LoadSubtasks(h.db, items, spec)

	c.JSON(http.StatusOK, listEnvelope(spec, gin.H{
		"total":    total,
		"items":    items,
		"subtasks": subtasks,
	}))
}

func (h *TodoHandler) GetTodoByID(c *gin.Context) {
	id := uuid.FromStringOrNil(c.Param("id"))

	todo, err := h.todoService.GetTodoByID(h.db, id)
	if err != nil {
		handleTodoError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

func (h *TodoHandler) CreateTodo(c *gin.Context) {
	var input services.TodoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	todo, err := h.todoService.CreateTodo(h.db, input)
	if err != nil {
		handleTodoError(c, err)
		return
	}
	c.JSON(http.StatusCreated, todo)
}

func (h *TodoHandler) UpdateTodo(c *gin.Context) {
	id := uuid.FromStringOrNil(c.Param("id"))

	var input services.TodoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	todo, err := h.todoService.UpdateTodo(h.db, id, input)
	if err != nil {
		handleTodoError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// DeleteTodo handles both DELETE /todos/:id and the POST
// /todos/:id/delete form clients use. The row is kept and flipped to
// disabled; children keep their own status.
func (h *TodoHandler) DeleteTodo(c *gin.Context) {
	id := uuid.FromStringOrNil(c.Param("id"))

	todo, err := h.todoService.DeleteTodo(h.db, id)
	if err != nil {
		handleTodoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "todo disabled",
		"todo":    todo,
	})
}

func listEnvelope(spec query.FilterSpec, extra gin.H) gin.H {
	var parent interface{}
	if spec.ParentParam != "" {
		parent = spec.ParentParam
	}

	envelope := gin.H{
		"status":     spec.StatusParam(),
		"states":     spec.StatesParam(),
		"categories": spec.CategoriesParam(),
		"priorities": spec.PrioritiesParam(),
		"parentId":   parent,
		"q":          spec.Search,
		"dueFrom":    spec.DueFromRaw,
		"dueTo":      spec.DueToRaw,
		"skip":       spec.Skip,
		"take":       spec.Take,
	}
	for k, v := range extra {
		envelope[k] = v
	}
	return envelope
}

func handleTodoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTitleRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "todo not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process todo request"})
	}
}
