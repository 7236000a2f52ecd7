// Package query turns the todo list's HTTP query parameters into a
// normalized FilterSpec and applies it to a gorm query. Parsing is
// deliberately lenient: unknown enum values are dropped, malformed
// numbers and dates fall back to defaults, and an empty filter set
// means "no filter" — a request never fails because of a bad filter.
package query

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"workdesk/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

const (
	// RootSentinel selects only todos without a parent.
	RootSentinel = "__root__"
	// AllSentinel disables a category/priority/status filter.
	AllSentinel = "all"

	DefaultTake = 100
	MaxTake     = 200
)

type OrderField string

const (
	OrderByDueAt     OrderField = "dueAt"
	OrderByCreatedAt OrderField = "createdAt"
	OrderByUpdatedAt OrderField = "updatedAt"
)

var orderColumns = map[OrderField]string{
	OrderByDueAt:     "due_at",
	OrderByCreatedAt: "created_at",
	OrderByUpdatedAt: "updated_at",
}

// FilterSpec is the normalized form of a todo list request.
type FilterSpec struct {
	Status      models.Status
	AllStatuses bool

	States     []models.TodoState
	Categories []models.TodoCategory
	Priorities []models.TodoPriority

	ParentID *uuid.UUID
	RootOnly bool

	Search  string
	DueFrom *time.Time
	DueTo   *time.Time

	Skip int
	Take int

	OrderBy  OrderField
	OrderDir string

	// Raw parameter echoes, returned unchanged in the list envelope.
	ParentParam string
	DueFromRaw  string
	DueToRaw    string
}

// Parse builds a FilterSpec from raw query parameters.
func Parse(params url.Values) FilterSpec {
	spec := FilterSpec{
		Status:   models.StatusActive,
		Skip:     parseSkip(params.Get("skip")),
		Take:     parseTake(params.Get("take")),
		OrderBy:  parseOrderField(params.Get("order")),
		OrderDir: parseOrderDir(params.Get("dir")),
		Search:   strings.TrimSpace(params.Get("q")),
	}

	statusParam := strings.ToLower(params.Get("status"))
	if statusParam == AllSentinel {
		spec.AllStatuses = true
	} else {
		spec.Status = models.ParseStatus(statusParam)
	}

	for _, raw := range parseCSV(params.Get("state")) {
		if s := models.TodoState(raw); s.Valid() {
			spec.States = append(spec.States, s)
		}
	}
	for _, raw := range parseCSV(params.Get("category")) {
		if c := models.TodoCategory(raw); c.Valid() {
			spec.Categories = append(spec.Categories, c)
		}
	}
	for _, raw := range parseCSV(params.Get("priority")) {
		if p := models.TodoPriority(raw); p.Valid() {
			spec.Priorities = append(spec.Priorities, p)
		}
	}

	spec.ParentParam = params.Get("parentId")
	switch {
	case spec.ParentParam == RootSentinel:
		spec.RootOnly = true
	case spec.ParentParam != "":
		if id := uuid.FromStringOrNil(spec.ParentParam); id != uuid.Nil {
			spec.ParentID = &id
		}
	}

	spec.DueFromRaw = params.Get("dueFrom")
	spec.DueToRaw = params.Get("dueTo")
	spec.DueFrom = parseDayStart(spec.DueFromRaw)
	spec.DueTo = parseDayEnd(spec.DueToRaw)

	return spec
}

// ForParent derives the spec used for one root's subtask fetch: the
// same status/state/category/priority filters and ordering, scoped to
// the parent's children, unpaginated up to the page cap.
func (f FilterSpec) ForParent(parentID uuid.UUID) FilterSpec {
	child := f
	child.ParentID = &parentID
	child.RootOnly = false
	child.ParentParam = parentID.String()
	child.Search = ""
	child.DueFrom, child.DueTo = nil, nil
	child.DueFromRaw, child.DueToRaw = "", ""
	child.Skip = 0
	child.Take = MaxTake
	return child
}

// Scope applies the predicate only, shared by the page query and the
// pre-pagination count.
func (f FilterSpec) Scope(db *gorm.DB) *gorm.DB {
	if !f.AllStatuses {
		db = db.Where("status = ?", f.Status)
	}
	if len(f.States) > 0 {
		db = db.Where("state IN ?", f.States)
	}
	if len(f.Categories) > 0 {
		db = db.Where("category IN ?", f.Categories)
	}
	if len(f.Priorities) > 0 {
		db = db.Where("priority IN ?", f.Priorities)
	}

	if f.RootOnly {
		db = db.Where("parent_id IS NULL")
	} else if f.ParentID != nil {
		db = db.Where("parent_id = ?", *f.ParentID)
	}

	if f.Search != "" {
		term := escapeLike(strings.ToLower(f.Search))
		// Labels are a JSON-encoded list, so a label hit requires a
		// whole element: the term framed by the encoding's quotes. A
		// fragment of a label must not match.
		db = db.Where(
			`LOWER(title) LIKE @q ESCAPE '\' OR LOWER(description) LIKE @q ESCAPE '\' OR LOWER(labels) LIKE @label ESCAPE '\'`,
			map[string]interface{}{
				"q":     "%" + term + "%",
				"label": `%"` + term + `"%`,
			},
		)
	}

	if f.DueFrom != nil {
		db = db.Where("due_at >= ?", *f.DueFrom)
	}
	if f.DueTo != nil {
		db = db.Where("due_at <= ?", *f.DueTo)
	}

	return db
}

// Page applies ordering and pagination on top of Scope. The secondary
// created_at desc sort keeps pages stable when the primary key has
// duplicate or null values.
func (f FilterSpec) Page(db *gorm.DB) *gorm.DB {
	column := orderColumns[f.OrderBy]
	return f.Scope(db).
		Order(column + " " + f.OrderDir).
		Order("created_at desc").
		Offset(f.Skip).
		Limit(f.Take)
}

// StatusParam echoes the normalized status for the response envelope.
func (f FilterSpec) StatusParam() string {
	if f.AllStatuses {
		return AllSentinel
	}
	return string(f.Status)
}

// CategoriesParam echoes the category filter, collapsing "no filter"
// back to the all sentinel the way the callers expect.
func (f FilterSpec) CategoriesParam() interface{} {
	if len(f.Categories) == 0 {
		return AllSentinel
	}
	return f.Categories
}

func (f FilterSpec) PrioritiesParam() interface{} {
	if len(f.Priorities) == 0 {
		return AllSentinel
	}
	return f.Priorities
}

func (f FilterSpec) StatesParam() []models.TodoState {
	if f.States == nil {
		return []models.TodoState{}
	}
	return f.States
}

// CacheKey serializes the normalized spec into a stable cache key.
// Two requests that normalize to the same spec share a cache entry.
func (f FilterSpec) CacheKey() string {
	var b strings.Builder
	b.WriteString("status=")
	b.WriteString(f.StatusParam())
	b.WriteString(":states=")
	for i, s := range f.States {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(string(s))
	}
	b.WriteString(":categories=")
	for i, c := range f.Categories {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(string(c))
	}
	b.WriteString(":priorities=")
	for i, p := range f.Priorities {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(string(p))
	}
	b.WriteString(":parent=")
	switch {
	case f.RootOnly:
		b.WriteString(RootSentinel)
	case f.ParentID != nil:
		b.WriteString(f.ParentID.String())
	}
	b.WriteString(":q=")
	b.WriteString(strings.ToLower(f.Search))
	b.WriteString(":due=")
	b.WriteString(f.DueFromRaw)
	b.WriteByte('/')
	b.WriteString(f.DueToRaw)
	b.WriteString(":page=")
	b.WriteString(strconv.Itoa(f.Skip))
	b.WriteByte('/')
	b.WriteString(strconv.Itoa(f.Take))
	b.WriteString(":sort=")
	b.WriteString(string(f.OrderBy))
	b.WriteByte('/')
	b.WriteString(f.OrderDir)
	return b.String()
}

// escapeLike neutralizes LIKE wildcards in user input so a search for
// "100%" does not match every row starting with "100".
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func parseCSV(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == AllSentinel {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseSkip(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseTake(raw string) int {
	if raw == "" {
		return DefaultTake
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return DefaultTake
	}
	if n < 1 {
		return 1
	}
	if n > MaxTake {
		return MaxTake
	}
	return n
}

func parseOrderField(raw string) OrderField {
	if _, ok := orderColumns[OrderField(raw)]; ok {
		return OrderField(raw)
	}
	return OrderByDueAt
}

func parseOrderDir(raw string) string {
	if raw == "desc" {
		return "desc"
	}
	return "asc"
}

// parseDayStart maps YYYY-MM-DD to the day's first instant in UTC.
func parseDayStart(raw string) *time.Time {
	day, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return nil
	}
	return &day
}

// parseDayEnd maps YYYY-MM-DD to 23:59:59.999 of the same UTC day.
func parseDayEnd(raw string) *time.Time {
	day, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return nil
	}
	end := day.Add(24*time.Hour - time.Millisecond)
	return &end
}
