package tasks

import "time"

const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Due-date buckets accepted by Filters.Due.
const (
	DueToday    = "today"
	DueOverdue  = "overdue"
	DueUpcoming = "upcoming"
)

// FilterAll disables the corresponding filter dimension.
const FilterAll = "all"

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	SharedWith  []string   `json:"shared_with"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Filters is the transient predicate configuration narrowing the visible
// task set. The zero value is not valid; use DefaultFilters.
type Filters struct {
	Status       string `json:"status"`
	Priority     string `json:"priority"`
	Due          string `json:"due"`
	SharedWithMe bool   `json:"shared_with_me"`
}

func DefaultFilters() Filters {
	return Filters{Status: FilterAll, Priority: FilterAll, Due: FilterAll}
}

// FilterPatch merges into the current criteria; nil fields are left as-is.
type FilterPatch struct {
	Status       *string `json:"status"`
	Priority     *string `json:"priority"`
	Due          *string `json:"due"`
	SharedWithMe *bool   `json:"shared_with_me"`
}

type CreateTaskData struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	SharedWith  []string   `json:"shared_with"`
}

// UpdateTaskData carries a partial task; nil fields are not touched.
type UpdateTaskData struct {
	ID          string     `json:"id"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	SharedWith  []string   `json:"shared_with"`
}

// PageView is the paginated derived view plus its metadata.
type PageView struct {
	Tasks      []Task `json:"tasks"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
	Total      int    `json:"total"`
}

// Stats are the derived dashboard counts over the full collection.
type Stats struct {
	Total          int `json:"total"`
	Todo           int `json:"todo"`
	InProgress     int `json:"in_progress"`
	Done           int `json:"done"`
	Overdue        int `json:"overdue"`
	CompletionRate int `json:"completion_rate"`
}
