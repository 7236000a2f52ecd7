package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"workdesk/backend/internal/cache"
	"workdesk/backend/internal/models"
	"workdesk/backend/internal/query"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

const (
	todoKeyPrefix     = "todo:"
	todoListKeyPrefix = "todos_list:"

	todoTTL     = 30 * time.Minute
	todoListTTL = 5 * time.Minute
)

// CachedTodoService wraps a TodoService with the multi-level cache.
// List results are keyed by the normalized FilterSpec; every write
// invalidates all list keys because any of them may now be stale.
type CachedTodoService struct {
	inner  TodoService
	cache  *cache.MultiLevelCache
	warmer *cache.CacheWarmer
}

func NewCachedTodoService(inner TodoService, cacheInstance *cache.MultiLevelCache) *CachedTodoService {
	return &CachedTodoService{
		inner:  inner,
		cache:  cacheInstance,
		warmer: cache.NewCacheWarmer(cacheInstance, nil),
	}
}

type cachedList struct {
	Items []models.Todo `json:"items"`
	Total int64         `json:"total"`
}

func (s *CachedTodoService) ListTodos(db *gorm.DB, spec query.FilterSpec) ([]models.Todo, int64, error) {
	key := todoListKeyPrefix + spec.CacheKey()

	var cached cachedList
	if err := s.cache.Get(key, &cached); err == nil {
		return cached.Items, cached.Total, nil
	}

	items, total, err := s.inner.ListTodos(db, spec)
	if err != nil {
		return items, total, err
	}

	s.cache.Set(key, cachedList{Items: items, Total: total}, todoListTTL)
	return items, total, nil
}

func (s *CachedTodoService) GetTodoByID(db *gorm.DB, id uuid.UUID) (models.Todo, error) {
	key := fmt.Sprintf("%s%s", todoKeyPrefix, id)

	var cached models.Todo
	if err := s.cache.Get(key, &cached); err == nil {
		return cached, nil
	}

	todo, err := s.inner.GetTodoByID(db, id)
	if err != nil {
		return todo, err
	}

	s.cache.Set(key, todo, todoTTL)
	return todo, nil
}

func (s *CachedTodoService) CreateTodo(db *gorm.DB, input TodoInput) (models.Todo, error) {
	todo, err := s.inner.CreateTodo(db, input)
	if err != nil {
		return todo, err
	}

	s.cache.Set(fmt.Sprintf("%s%s", todoKeyPrefix, todo.ID), todo, todoTTL)
	s.cache.DeletePattern(todoListKeyPrefix + "*")
	return todo, nil
}

func (s *CachedTodoService) UpdateTodo(db *gorm.DB, id uuid.UUID, input TodoInput) (models.Todo, error) {
	todo, err := s.inner.UpdateTodo(db, id, input)
	if err != nil {
		return todo, err
	}

	s.cache.Delete(fmt.Sprintf("%s%s", todoKeyPrefix, id))
	s.cache.DeletePattern(todoListKeyPrefix + "*")
	return todo, nil
}

func (s *CachedTodoService) DeleteTodo(db *gorm.DB, id uuid.UUID) (models.Todo, error) {
	todo, err := s.inner.DeleteTodo(db, id)
	if err != nil {
		return todo, err
	}

	s.cache.Delete(fmt.Sprintf("%s%s", todoKeyPrefix, id))
	s.cache.DeletePattern(todoListKeyPrefix + "*")
	return todo, nil
}

// LoadSubtasks is a passthrough. Each fan-out is already scoped to one
// page of roots, and caching per-root lists would multiply the keys to
// invalidate on every subtask write.
func (s *CachedTodoService) LoadSubtasks(db *gorm.DB, roots []models.Todo, spec query.FilterSpec) map[string][]models.Todo {
	return s.inner.LoadSubtasks(db, roots, spec)
}

// StartWarming keeps the default first page (the page every client
// loads first) warm until ctx is canceled.
func (s *CachedTodoService) StartWarming(ctx context.Context, db *gorm.DB) {
	defaultSpec := query.Parse(url.Values{})

	s.warmer.AddWarmupJob(cache.WarmupJob{
		Key: todoListKeyPrefix + defaultSpec.CacheKey(),
		Loader: func() (interface{}, error) {
			items, total, err := s.inner.ListTodos(db, defaultSpec)
			if err != nil {
				return nil, err
			}
			return cachedList{Items: items, Total: total}, nil
		},
		TTL:      todoListTTL,
		Priority: 100,
	})

	s.warmer.Start(ctx)
}

func (s *CachedTodoService) StopWarming() {
	s.warmer.Stop()
}

func (s *CachedTodoService) CacheStats() map[string]interface{} {
	return s.cache.Stats()
}
