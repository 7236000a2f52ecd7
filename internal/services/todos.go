package services

import (
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"workdesk/backend/internal/models"
	"workdesk/backend/internal/query"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

var ErrTitleRequired = errors.New("title is required")

// TodoInput is the wire shape shared by create and update. Every field
// is optional; on update only non-nil fields are written. Labels may
// arrive as a JSON list or as a comma-separated string. Timestamps
// accept RFC3339, datetime-local and plain dates.
type TodoInput struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	Labels      interface{} `json:"labels"`
	Category    *string     `json:"category"`
	Priority    *string     `json:"priority"`
	State       *string     `json:"state"`
	DueAt       *string     `json:"dueAt"`
	StartedAt   *string     `json:"startedAt"`
	CompletedAt *string     `json:"completedAt"`
	CanceledAt  *string     `json:"canceledAt"`
	EstimateMin *int        `json:"estimateMin"`
	SpentMin    *int        `json:"spentMin"`
	WaitingOn   *string     `json:"waitingOn"`
	ParentID    *string     `json:"parentId"`
	SortOrder   *int        `json:"sortOrder"`
	Status      *string     `json:"status"`
}

type TodoService interface {
	ListTodos(db *gorm.DB, spec query.FilterSpec) ([]models.Todo, int64, error)
	GetTodoByID(db *gorm.DB, id uuid.UUID) (models.Todo, error)
	CreateTodo(db *gorm.DB, input TodoInput) (models.Todo, error)
	UpdateTodo(db *gorm.DB, id uuid.UUID, input TodoInput) (models.Todo, error)
	DeleteTodo(db *gorm.DB, id uuid.UUID) (models.Todo, error)
	LoadSubtasks(db *gorm.DB, roots []models.Todo, spec query.FilterSpec) map[string][]models.Todo
}

type TodoServiceImpl struct{}

func NewTodoService() *TodoServiceImpl {
	return &TodoServiceImpl{}
}

func (s *TodoServiceImpl) ListTodos(db *gorm.DB, spec query.FilterSpec) ([]models.Todo, int64, error) {
	items := []models.Todo{}
	if err := spec.Page(db.Model(&models.Todo{})).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	var total int64
	if err := spec.Scope(db.Model(&models.Todo{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (s *TodoServiceImpl) GetTodoByID(db *gorm.DB, id uuid.UUID) (models.Todo, error) {
	var todo models.Todo
	err := db.First(&todo, "id = ?", id).Error
	return todo, err
}

func (s *TodoServiceImpl) CreateTodo(db *gorm.DB, input TodoInput) (models.Todo, error) {
	title := ""
	if input.Title != nil {
		title = strings.TrimSpace(*input.Title)
	}
	if title == "" {
		return models.Todo{}, ErrTitleRequired
	}

	todo := models.Todo{
		ID:          uuid.Must(uuid.NewV4()),
		Title:       title,
		Description: input.Description,
		Labels:      models.NormalizeLabels(input.Labels),
		Category:    models.CategoryOther,
		Priority:    models.PriorityNormal,
		State:       models.StateTodo,
		Status:      models.StatusActive,
		DueAt:       parseTimestamp(input.DueAt),
		StartedAt:   parseTimestamp(input.StartedAt),
		CompletedAt: parseTimestamp(input.CompletedAt),
		CanceledAt:  parseTimestamp(input.CanceledAt),
		EstimateMin: input.EstimateMin,
		SpentMin:    input.SpentMin,
		WaitingOn:   input.WaitingOn,
		SortOrder:   input.SortOrder,
	}

	if input.Category != nil {
		todo.Category = models.ParseTodoCategory(*input.Category)
	}
	if input.Priority != nil {
		todo.Priority = models.ParseTodoPriority(*input.Priority)
	}
	if input.State != nil {
		todo.State = models.ParseTodoState(*input.State)
	}
	if input.Status != nil {
		todo.Status = models.ParseStatus(*input.Status)
	}
	if input.ParentID != nil {
		if parentID := uuid.FromStringOrNil(*input.ParentID); parentID != uuid.Nil {
			todo.ParentID = &parentID
		}
	}

	if err := db.Create(&todo).Error; err != nil {
		return models.Todo{}, err
	}
	return todo, nil
}

// UpdateTodo writes only the provided fields; omitted fields keep their
// stored values. Last write wins, there is no concurrency check.
func (s *TodoServiceImpl) UpdateTodo(db *gorm.DB, id uuid.UUID, input TodoInput) (models.Todo, error) {
	todo, err := s.GetTodoByID(db, id)
	if err != nil {
		return models.Todo{}, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return models.Todo{}, ErrTitleRequired
		}
		todo.Title = title
	}
	if input.Description != nil {
		todo.Description = input.Description
	}
	if input.Labels != nil {
		todo.Labels = models.NormalizeLabels(input.Labels)
	}
	if input.Category != nil {
		todo.Category = models.ParseTodoCategory(*input.Category)
	}
	if input.Priority != nil {
		todo.Priority = models.ParseTodoPriority(*input.Priority)
	}
	if input.State != nil {
		todo.State = models.ParseTodoState(*input.State)
	}
	if input.Status != nil {
		todo.Status = models.ParseStatus(*input.Status)
	}
	if input.DueAt != nil {
		todo.DueAt = parseTimestamp(input.DueAt)
	}
	if input.StartedAt != nil {
		todo.StartedAt = parseTimestamp(input.StartedAt)
	}
	if input.CompletedAt != nil {
		todo.CompletedAt = parseTimestamp(input.CompletedAt)
	}
	if input.CanceledAt != nil {
		todo.CanceledAt = parseTimestamp(input.CanceledAt)
	}
	if input.EstimateMin != nil {
		todo.EstimateMin = input.EstimateMin
	}
	if input.SpentMin != nil {
		todo.SpentMin = input.SpentMin
	}
	if input.WaitingOn != nil {
		todo.WaitingOn = input.WaitingOn
	}
	if input.SortOrder != nil {
		todo.SortOrder = input.SortOrder
	}
	if input.ParentID != nil {
		if parentID := uuid.FromStringOrNil(*input.ParentID); parentID != uuid.Nil {
			todo.ParentID = &parentID
		} else {
			todo.ParentID = nil
		}
	}

	if err := db.Save(&todo).Error; err != nil {
		return models.Todo{}, err
	}
	return todo, nil
}

// DeleteTodo soft-deletes: the row stays, status flips to disabled.
// Children are left untouched.
func (s *TodoServiceImpl) DeleteTodo(db *gorm.DB, id uuid.UUID) (models.Todo, error) {
	todo, err := s.GetTodoByID(db, id)
	if err != nil {
		return models.Todo{}, err
	}

	todo.Status = models.StatusDisabled
	if err := db.Save(&todo).Error; err != nil {
		return models.Todo{}, err
	}
	return todo, nil
}

// LoadSubtasks fetches each root's children with one query per root,
// all issued concurrently. A failed fetch yields an empty list for
// that root only; the other roots' results are unaffected. Subtasks
// inherit the request's status/state/category/priority filters.
func (s *TodoServiceImpl) LoadSubtasks(db *gorm.DB, roots []models.Todo, spec query.FilterSpec) map[string][]models.Todo {
	result := make(map[string][]models.Todo, len(roots))
	if len(roots) == 0 {
		return result
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, root := range roots {
		wg.Add(1)
		go func(rootID uuid.UUID) {
			defer wg.Done()

			children := []models.Todo{}
			childSpec := spec.ForParent(rootID)
			if err := childSpec.Page(db.Model(&models.Todo{})).Find(&children).Error; err != nil {
				log.Printf("subtask fetch failed for %s: %v", rootID, err)
				children = []models.Todo{}
			}

			mu.Lock()
			result[rootID.String()] = children
			mu.Unlock()
		}(root.ID)
	}

	wg.Wait()
	return result
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseTimestamp(raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return &ts
		}
	}
	return nil
}
