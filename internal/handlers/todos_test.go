package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"workdesk/backend/internal/handlers"
	"workdesk/backend/internal/models"
	"workdesk/backend/internal/query"
	"workdesk/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type MockTodoService struct {
	todos             []models.Todo
	shouldReturnError bool
	returnNotFound    bool
	lastSpec          query.FilterSpec
}

func (m *MockTodoService) ListTodos(db *gorm.DB, spec query.FilterSpec) ([]models.Todo, int64, error) {
	m.lastSpec = spec
	if m.shouldReturnError {
		return nil, 0, gorm.ErrInvalidData
	}
	return m.todos, int64(len(m.todos)), nil
}

func (m *MockTodoService) GetTodoByID(db *gorm.DB, id uuid.UUID) (models.Todo, error) {
	if m.shouldReturnError {
		return models.Todo{}, gorm.ErrInvalidData
	}
	if m.returnNotFound {
		return models.Todo{}, gorm.ErrRecordNotFound
	}
	return models.Todo{ID: id, Title: "Test Todo", Status: models.StatusActive}, nil
}

func (m *MockTodoService) CreateTodo(db *gorm.DB, input services.TodoInput) (models.Todo, error) {
	if input.Title == nil || strings.TrimSpace(*input.Title) == "" {
		return models.Todo{}, services.ErrTitleRequired
	}
	if m.shouldReturnError {
		return models.Todo{}, gorm.ErrInvalidData
	}
	todo := models.Todo{
		ID:       uuid.Must(uuid.NewV4()),
		Title:    strings.TrimSpace(*input.Title),
		Category: models.CategoryOther,
		Priority: models.PriorityNormal,
		State:    models.StateTodo,
		Status:   models.StatusActive,
	}
	m.todos = append(m.todos, todo)
	return todo, nil
}

func (m *MockTodoService) UpdateTodo(db *gorm.DB, id uuid.UUID, input services.TodoInput) (models.Todo, error) {
	if m.returnNotFound {
		return models.Todo{}, gorm.ErrRecordNotFound
	}
	if m.shouldReturnError {
		return models.Todo{}, gorm.ErrInvalidData
	}
	return models.Todo{ID: id, Title: "Updated"}, nil
}

func (m *MockTodoService) DeleteTodo(db *gorm.DB, id uuid.UUID) (models.Todo, error) {
	if m.returnNotFound {
		return models.Todo{}, gorm.ErrRecordNotFound
	}
	if m.shouldReturnError {
		return models.Todo{}, gorm.ErrInvalidData
	}
	return models.Todo{ID: id, Status: models.StatusDisabled}, nil
}

func (m *MockTodoService) LoadSubtasks(db *gorm.DB, roots []models.Todo, spec query.FilterSpec) map[string][]models.Todo {
	subtasks := make(map[string][]models.Todo, len(roots))
	for _, root := range roots {
		subtasks[root.ID.String()] = []models.Todo{}
	}
	return subtasks
}

func setupTodoHandler() (*MockTodoService, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	mockService := &MockTodoService{}
	handler := handlers.NewTodoHandler(nil, mockService)

	router := gin.New()
	router.GET("/todos", handler.ListTodos)
	router.GET("/todos/tree", handler.ListTodoTree)
	router.GET("/todos/:id", handler.GetTodoByID)
	router.POST("/todos", handler.CreateTodo)
	router.PUT("/todos/:id", handler.UpdateTodo)
	router.DELETE("/todos/:id", handler.DeleteTodo)
	router.POST("/todos/:id/delete", handler.DeleteTodo)

	return mockService, router
}

func TestListTodosEnvelope(t *testing.T) {
	mockService, router := setupTodoHandler()
	mockService.todos = []models.Todo{
		{ID: uuid.Must(uuid.NewV4()), Title: "One"},
		{ID: uuid.Must(uuid.NewV4()), Title: "Two"},
	}

	req, _ := http.NewRequest("GET", "/todos?state=todo&category=all&skip=0&take=25", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response["total"] != float64(2) {
		t.Errorf("Expected total 2, got %v", response["total"])
	}
	if response["status"] != "active" {
		t.Errorf("Expected status 'active', got %v", response["status"])
	}
	if response["categories"] != "all" {
		t.Errorf("Expected categories 'all', got %v", response["categories"])
	}
	if response["take"] != float64(25) {
		t.Errorf("Expected take 25, got %v", response["take"])
	}
}

func TestListTodosStoreFailure(t *testing.T) {
	mockService, router := setupTodoHandler()
	mockService.shouldReturnError = true

	req, _ := http.NewRequest("GET", "/todos", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	if !strings.Contains(w.Body.String(), "failed to process todo request") {
		t.Errorf("Expected generic error message, got %s", w.Body.String())
	}
}

func TestListTodoTree(t *testing.T) {
	mockService, router := setupTodoHandler()
	rootID := uuid.Must(uuid.NewV4())
	mockService.todos = []models.Todo{{ID: rootID, Title: "root"}}

	req, _ := http.NewRequest("GET", "/todos/tree", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	if !mockService.lastSpec.RootOnly {
		t.Error("Expected tree listing to force the root-only filter")
	}

	var response struct {
		Subtasks map[string][]models.Todo `json:"subtasks"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if _, ok := response.Subtasks[rootID.String()]; !ok {
		t.Errorf("Expected subtasks entry for root %s", rootID)
	}
}

func TestCreateTodo(t *testing.T) {
	_, router := setupTodoHandler()

	body, _ := json.Marshal(map[string]interface{}{
		"title":  "Buy milk",
		"labels": "errands,home",
	})
	req, _ := http.NewRequest("POST", "/todos", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status %d, got %d", http.StatusCreated, w.Code)
	}
}

func TestCreateTodoBlankTitle(t *testing.T) {
	_, router := setupTodoHandler()

	body, _ := json.Marshal(map[string]interface{}{"title": "   "})
	req, _ := http.NewRequest("POST", "/todos", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	if !strings.Contains(w.Body.String(), "Title is required") {
		t.Errorf("Expected title validation message, got %s", w.Body.String())
	}
}

func TestCreateTodoInvalidJSON(t *testing.T) {
	_, router := setupTodoHandler()

	req, _ := http.NewRequest("POST", "/todos", bytes.NewBuffer([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestUpdateTodoNotFound(t *testing.T) {
	mockService, router := setupTodoHandler()
	mockService.returnNotFound = true

	body, _ := json.Marshal(map[string]interface{}{"title": "new title"})
	req, _ := http.NewRequest("PUT", "/todos/"+uuid.Must(uuid.NewV4()).String(), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestDeleteTodo(t *testing.T) {
	_, router := setupTodoHandler()

	req, _ := http.NewRequest("DELETE", "/todos/"+uuid.Must(uuid.NewV4()).String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestDeleteTodoViaPost(t *testing.T) {
	_, router := setupTodoHandler()

	req, _ := http.NewRequest("POST", "/todos/"+uuid.Must(uuid.NewV4()).String()+"/delete", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestDeleteTodoNotFound(t *testing.T) {
	mockService, router := setupTodoHandler()
	mockService.returnNotFound = true

	req, _ := http.NewRequest("DELETE", "/todos/"+uuid.Must(uuid.NewV4()).String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestGetTodoByID(t *testing.T) {
	_, router := setupTodoHandler()

	req, _ := http.NewRequest("GET", "/todos/"+uuid.Must(uuid.NewV4()).String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var todo models.Todo
	if err := json.Unmarshal(w.Body.Bytes(), &todo); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if todo.Title != "Test Todo" {
		t.Errorf("Expected title 'Test Todo', got '%s'", todo.Title)
	}
}
