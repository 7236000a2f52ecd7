package query

import (
	"net/url"
	"testing"
	"time"

	"workdesk/backend/internal/models"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
)

func parseQuery(t *testing.T, rawQuery string) FilterSpec {
	t.Helper()
	params, err := url.ParseQuery(rawQuery)
	if err != nil {
		t.Fatalf("bad test query %q: %v", rawQuery, err)
	}
	return Parse(params)
}

func TestParseDefaults(t *testing.T) {
	spec := parseQuery(t, "")

	assert.Equal(t, models.StatusActive, spec.Status)
	assert.False(t, spec.AllStatuses)
	assert.Empty(t, spec.States)
	assert.Empty(t, spec.Categories)
	assert.Empty(t, spec.Priorities)
	assert.False(t, spec.RootOnly)
	assert.Nil(t, spec.ParentID)
	assert.Equal(t, 0, spec.Skip)
	assert.Equal(t, DefaultTake, spec.Take)
	assert.Equal(t, OrderByDueAt, spec.OrderBy)
	assert.Equal(t, "asc", spec.OrderDir)
}

func TestParseStatus(t *testing.T) {
	assert.True(t, parseQuery(t, "status=all").AllStatuses)
	assert.Equal(t, models.StatusDisabled, parseQuery(t, "status=disabled").Status)
	// unknown status falls back to active
	assert.Equal(t, models.StatusActive, parseQuery(t, "status=bogus").Status)
}

func TestParseCSVFilters(t *testing.T) {
	spec := parseQuery(t, "state=todo,in_progress&category=Ainka,Personal&priority=high,urgent")

	assert.Equal(t, []models.TodoState{models.StateTodo, models.StateInProgress}, spec.States)
	assert.Equal(t, []models.TodoCategory{models.CategoryAinka, models.CategoryPersonal}, spec.Categories)
	assert.Equal(t, []models.TodoPriority{models.PriorityHigh, models.PriorityUrgent}, spec.Priorities)
}

func TestParseDropsUnknownEnumValues(t *testing.T) {
	spec := parseQuery(t, "state=todo,bogus&category=Ainka,nope")

	assert.Equal(t, []models.TodoState{models.StateTodo}, spec.States)
	assert.Equal(t, []models.TodoCategory{models.CategoryAinka}, spec.Categories)
}

func TestParseAllInvalidBehavesLikeAllSentinel(t *testing.T) {
	// category=badvalue degrades to "no category filter", exactly like
	// category=all. Existing callers rely on this.
	invalid := parseQuery(t, "category=badvalue&priority=nope")
	sentinel := parseQuery(t, "category=all&priority=all")

	assert.Empty(t, invalid.Categories)
	assert.Empty(t, invalid.Priorities)
	assert.Equal(t, sentinel.CategoriesParam(), invalid.CategoriesParam())
	assert.Equal(t, AllSentinel, invalid.CategoriesParam())
}

func TestParseParent(t *testing.T) {
	root := parseQuery(t, "parentId=__root__")
	assert.True(t, root.RootOnly)
	assert.Nil(t, root.ParentID)

	id := uuid.Must(uuid.NewV4())
	child := parseQuery(t, "parentId="+id.String())
	assert.False(t, child.RootOnly)
	if assert.NotNil(t, child.ParentID) {
		assert.Equal(t, id, *child.ParentID)
	}

	// malformed id means no parent filter at all
	garbage := parseQuery(t, "parentId=not-a-uuid")
	assert.False(t, garbage.RootOnly)
	assert.Nil(t, garbage.ParentID)
}

func TestParsePaginationClamps(t *testing.T) {
	assert.Equal(t, 40, parseQuery(t, "skip=40").Skip)
	assert.Equal(t, 0, parseQuery(t, "skip=-3").Skip)
	assert.Equal(t, 0, parseQuery(t, "skip=abc").Skip)

	assert.Equal(t, 25, parseQuery(t, "take=25").Take)
	assert.Equal(t, 1, parseQuery(t, "take=0").Take)
	assert.Equal(t, MaxTake, parseQuery(t, "take=9999").Take)
	assert.Equal(t, DefaultTake, parseQuery(t, "take=abc").Take)
}

func TestParseOrder(t *testing.T) {
	spec := parseQuery(t, "order=updatedAt&dir=desc")
	assert.Equal(t, OrderByUpdatedAt, spec.OrderBy)
	assert.Equal(t, "desc", spec.OrderDir)

	fallback := parseQuery(t, "order=bogus&dir=sideways")
	assert.Equal(t, OrderByDueAt, fallback.OrderBy)
	assert.Equal(t, "asc", fallback.OrderDir)
}

func TestParseDueRange(t *testing.T) {
	spec := parseQuery(t, "dueFrom=2025-01-10&dueTo=2025-01-10")

	if assert.NotNil(t, spec.DueFrom) {
		assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), *spec.DueFrom)
	}
	if assert.NotNil(t, spec.DueTo) {
		assert.Equal(t, time.Date(2025, 1, 10, 23, 59, 59, 999000000, time.UTC), *spec.DueTo)
	}

	noon := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	nextDay := time.Date(2025, 1, 11, 0, 0, 1, 0, time.UTC)
	assert.True(t, !noon.Before(*spec.DueFrom) && !noon.After(*spec.DueTo))
	assert.True(t, nextDay.After(*spec.DueTo))
}

func TestParseDueRangeMalformed(t *testing.T) {
	spec := parseQuery(t, "dueFrom=10/01/2025&dueTo=")
	assert.Nil(t, spec.DueFrom)
	assert.Nil(t, spec.DueTo)
}

func TestForParent(t *testing.T) {
	spec := parseQuery(t, "state=todo&category=Ainka&q=flight&dueFrom=2025-01-01&skip=50&take=10")

	parentID := uuid.Must(uuid.NewV4())
	child := spec.ForParent(parentID)

	if assert.NotNil(t, child.ParentID) {
		assert.Equal(t, parentID, *child.ParentID)
	}
	assert.False(t, child.RootOnly)
	// filters carry over, search/dates/pagination do not
	assert.Equal(t, spec.States, child.States)
	assert.Equal(t, spec.Categories, child.Categories)
	assert.Empty(t, child.Search)
	assert.Nil(t, child.DueFrom)
	assert.Equal(t, 0, child.Skip)
	assert.Equal(t, MaxTake, child.Take)
}

func TestCacheKeyStable(t *testing.T) {
	a := parseQuery(t, "state=todo&category=Ainka&skip=0&take=25")
	b := parseQuery(t, "category=Ainka&state=todo&take=25&skip=0")
	assert.Equal(t, a.CacheKey(), b.CacheKey())

	c := parseQuery(t, "state=done&category=Ainka&skip=0&take=25")
	assert.NotEqual(t, a.CacheKey(), c.CacheKey())
}

func TestEnvelopeEchoes(t *testing.T) {
	spec := parseQuery(t, "status=all&state=todo&parentId=__root__")

	assert.Equal(t, "all", spec.StatusParam())
	assert.Equal(t, []models.TodoState{models.StateTodo}, spec.StatesParam())
	assert.Equal(t, AllSentinel, spec.CategoriesParam())
	assert.Equal(t, AllSentinel, spec.PrioritiesParam())

	// StatesParam never returns nil, the envelope always carries a list
	assert.NotNil(t, parseQuery(t, "").StatesParam())
}
