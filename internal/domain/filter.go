package domain

import "fmt"

// Page sizes used when listing tasks.
const (
	DefaultTaskPageSize = 6
	ProjectTaskPageSize = 5
	MaxPageSize         = 100
)

// SortOrder is the direction of a listing.
type SortOrder string

// Supported sort directions.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// TaskSortField names a column tasks may be ordered by.
type TaskSortField string

// Sortable task fields. Anything else is rejected.
const (
	TaskSortCreatedAt TaskSortField = "created_at"
	TaskSortUpdatedAt TaskSortField = "updated_at"
	TaskSortTitle     TaskSortField = "title"
	TaskSortDeadline  TaskSortField = "deadline"
	TaskSortPriority  TaskSortField = "priority"
	TaskSortStatus    TaskSortField = "status"
)

// TaskSortFields returns every accepted sort field.
func TaskSortFields() []TaskSortField {
	return []TaskSortField{
		TaskSortCreatedAt, TaskSortUpdatedAt, TaskSortTitle,
		TaskSortDeadline, TaskSortPriority, TaskSortStatus,
	}
}

// IsValid reports whether f is an accepted sort field.
func (f TaskSortField) IsValid() bool {
	for _, v := range TaskSortFields() {
		if v == f {
			return true
		}
	}
	return false
}

// TaskFilter selects, orders and pages a user's tasks.
// Nil Status or Priority means no filtering on that field.
type TaskFilter struct {
	Status    *TaskStatus
	Priority  *TaskPriority
	SortBy    TaskSortField
	SortOrder SortOrder
	Page      int
	PerPage   int
}

// Normalize fills in defaults: created_at, descending, page 1, DefaultTaskPageSize.
func (f TaskFilter) Normalize() TaskFilter {
	if f.SortBy == "" {
		f.SortBy = TaskSortCreatedAt
	}
	if f.SortOrder == "" {
		f.SortOrder = SortDesc
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = DefaultTaskPageSize
	}
	return f
}

// Validate rejects unknown enum values, sort fields and directions.
func (f TaskFilter) Validate() error {
	if f.Status != nil && !f.Status.IsValid() {
		return NewValidationError("status", fmt.Sprintf("must be one of %v", TaskStatusValues()))
	}
	if f.Priority != nil && !f.Priority.IsValid() {
		return NewValidationError("priority", fmt.Sprintf("must be one of %v", TaskPriorityValues()))
	}
	if !f.SortBy.IsValid() {
		return NewValidationError("sort_by", fmt.Sprintf("must be one of %v", TaskSortFields()))
	}
	if f.SortOrder != SortAsc && f.SortOrder != SortDesc {
		return NewValidationError("sort_order", "must be asc or desc")
	}
	if f.PerPage > MaxPageSize {
		return NewValidationError("per_page", fmt.Sprintf("must be at most %d", MaxPageSize))
	}
	return nil
}

// Page is one page of a listing plus its pagination metadata.
type Page[T any] struct {
	Items       []T
	CurrentPage int
	LastPage    int
	Total       int
	PerPage     int
}

// NewPage builds a Page for the given slice of items.
func NewPage[T any](items []T, currentPage, total, perPage int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:       items,
		CurrentPage: currentPage,
		LastPage:    LastPage(total, perPage),
		Total:       total,
		PerPage:     perPage,
	}
}

// LastPage returns the number of the last page; an empty listing still has page 1.
func LastPage(total, perPage int) int {
	if perPage < 1 || total <= 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}

// ClampPage returns requested bounded to [1, LastPage(total, perPage)], so a
// request past the end lands on the last page that holds items.
func ClampPage(requested, total, perPage int) int {
	if requested < 1 {
		return 1
	}
	return min(requested, LastPage(total, perPage))
}

// Offset returns the row offset of page for the given page size.
func Offset(page, perPage int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * perPage
}
