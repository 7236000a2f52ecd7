package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid"
)

// StringList stores a label set as a JSON-encoded text column so the
// same schema works on both postgres and sqlite.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to encode labels: %w", err)
	}
	return string(data), nil
}

func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = StringList{}
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}

	if len(data) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// Contains reports case-insensitive membership.
func (l StringList) Contains(s string) bool {
	for _, label := range l {
		if strings.EqualFold(label, s) {
			return true
		}
	}
	return false
}

// NormalizeLabels accepts either a JSON list or a comma-separated
// string and returns a trimmed, de-duplicated label list.
func NormalizeLabels(raw interface{}) StringList {
	var parts []string
	switch v := raw.(type) {
	case nil:
		return StringList{}
	case string:
		parts = strings.Split(v, ",")
	case []string:
		parts = v
	case []interface{}:
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
	default:
		parts = []string{fmt.Sprint(v)}
	}

	seen := make(map[string]bool)
	out := StringList{}
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// Todo is a unit of work. A root todo has a nil ParentID; a subtask
// references its parent through ParentID. Rows are never hard-deleted,
// soft delete flips Status to disabled.
type Todo struct {
	ID          uuid.UUID    `json:"id" gorm:"primaryKey;type:uuid"`
	Title       string       `json:"title" gorm:"not null"`
	Description *string      `json:"description"`
	Labels      StringList   `json:"labels" gorm:"type:text"`
	Category    TodoCategory `json:"category" gorm:"not null;default:'Other'"`
	Priority    TodoPriority `json:"priority" gorm:"not null;default:'normal'"`
	State       TodoState    `json:"state" gorm:"not null;default:'todo';index"`
	DueAt       *time.Time   `json:"dueAt" gorm:"index"`
	StartedAt   *time.Time   `json:"startedAt"`
	CompletedAt *time.Time   `json:"completedAt"`
	CanceledAt  *time.Time   `json:"canceledAt"`
	EstimateMin *int         `json:"estimateMin"`
	SpentMin    *int         `json:"spentMin"`
	WaitingOn   *string      `json:"waitingOn"`
	ParentID    *uuid.UUID   `json:"parentId" gorm:"type:uuid;index"`
	SortOrder   *int         `json:"sortOrder"`
	Status      Status       `json:"status" gorm:"not null;default:'active';index"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func (t *Todo) IsRoot() bool {
	return t.ParentID == nil
}
