package models

// Enumerations are stored as strings. Unrecognized input is never an
// error: each ParseX function falls back to the enum's default, and
// Valid() lets callers drop unknown values from filter sets.

type Status string

const (
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusDisabled
}

// ParseStatus falls back to StatusActive for unknown input.
func ParseStatus(raw string) Status {
	if s := Status(raw); s.Valid() {
		return s
	}
	return StatusActive
}

type TodoState string

const (
	StateTodo       TodoState = "todo"
	StateInProgress TodoState = "in_progress"
	StateWaiting    TodoState = "waiting"
	StateBlocked    TodoState = "blocked"
	StateDone       TodoState = "done"
	StateCanceled   TodoState = "canceled"
	StateArchived   TodoState = "archived"
)

var allStates = []TodoState{
	StateTodo, StateInProgress, StateWaiting, StateBlocked,
	StateDone, StateCanceled, StateArchived,
}

func (s TodoState) Valid() bool {
	for _, known := range allStates {
		if s == known {
			return true
		}
	}
	return false
}

// ParseTodoState falls back to StateTodo for unknown input.
func ParseTodoState(raw string) TodoState {
	if s := TodoState(raw); s.Valid() {
		return s
	}
	return StateTodo
}

type TodoCategory string

const (
	CategoryAinka      TodoCategory = "Ainka"
	CategoryKuku       TodoCategory = "Kuku"
	CategoryFreelancer TodoCategory = "Freelancer"
	CategoryPersonal   TodoCategory = "Personal"
	CategoryLearning   TodoCategory = "Learning"
	CategoryOther      TodoCategory = "Other"
)

var allCategories = []TodoCategory{
	CategoryAinka, CategoryKuku, CategoryFreelancer,
	CategoryPersonal, CategoryLearning, CategoryOther,
}

func (c TodoCategory) Valid() bool {
	for _, known := range allCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseTodoCategory falls back to CategoryOther for unknown input.
func ParseTodoCategory(raw string) TodoCategory {
	if c := TodoCategory(raw); c.Valid() {
		return c
	}
	return CategoryOther
}

type TodoPriority string

const (
	PriorityLow      TodoPriority = "low"
	PriorityNormal   TodoPriority = "normal"
	PriorityHigh     TodoPriority = "high"
	PriorityUrgent   TodoPriority = "urgent"
	PriorityCritical TodoPriority = "critical"
)

var allPriorities = []TodoPriority{
	PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent, PriorityCritical,
}

func (p TodoPriority) Valid() bool {
	for _, known := range allPriorities {
		if p == known {
			return true
		}
	}
	return false
}

// ParseTodoPriority falls back to PriorityNormal for unknown input.
func ParseTodoPriority(raw string) TodoPriority {
	if p := TodoPriority(raw); p.Valid() {
		return p
	}
	return PriorityNormal
}
