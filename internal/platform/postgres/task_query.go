package postgres

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
)

const taskColumns = `
	t.id, t.project_id, t.user_id, t.title, t.description, t.status, t.priority,
	t.deadline, t.completed_at, t.created_at, t.updated_at
`

// taskQuery is the WHERE clause and arguments shared by the count and page
// queries of a task listing.
type taskQuery struct {
	where   string
	args    []any
	orderBy string
}

// buildTaskQuery scopes the listing to userID's live tasks, applies the
// equality filters and picks the ORDER BY for a normalized, validated filter.
func buildTaskQuery(userID uuid.UUID, f domain.TaskFilter) taskQuery {
	conds := []string{"t.user_id = $1", "t.deleted_at IS NULL"}
	args := []any{userID}

	if f.Status != nil {
		args = append(args, string(*f.Status))
		conds = append(conds, fmt.Sprintf("t.status = $%d", len(args)))
	}
	if f.Priority != nil {
		args = append(args, string(*f.Priority))
		conds = append(conds, fmt.Sprintf("t.priority = $%d", len(args)))
	}

	return taskQuery{
		where:   strings.Join(conds, " AND "),
		args:    args,
		orderBy: taskOrderBy(f.SortBy, f.SortOrder),
	}
}

// countSQL returns the query counting all matching tasks.
func (q taskQuery) countSQL() string {
	return "SELECT COUNT(*) FROM tasks t WHERE " + q.where
}

// pageSQL returns the page query and its arguments.
func (q taskQuery) pageSQL(limit, offset int) (string, []any) {
	args := append(append([]any{}, q.args...), limit, offset)
	query := fmt.Sprintf("SELECT %s FROM tasks t WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		strings.TrimSpace(taskColumns), q.where, q.orderBy, len(args)-1, len(args))
	return query, args
}

// taskOrderBy maps a whitelisted sort field to SQL. Priority and status
// order by rank rather than alphabetically; id breaks ties.
func taskOrderBy(field domain.TaskSortField, order domain.SortOrder) string {
	dir := "DESC"
	if order == domain.SortAsc {
		dir = "ASC"
	}

	var expr string
	switch field {
	case domain.TaskSortUpdatedAt:
		expr = "t.updated_at " + dir
	case domain.TaskSortTitle:
		expr = "t.title " + dir
	case domain.TaskSortDeadline:
		expr = "t.deadline " + dir + " NULLS LAST"
	case domain.TaskSortPriority:
		expr = rankCase("t.priority", priorityRanks()) + " " + dir
	case domain.TaskSortStatus:
		expr = rankCase("t.status", statusRanks()) + " " + dir
	default:
		expr = "t.created_at " + dir
	}
	return expr + ", t.id " + dir
}

func rankCase(column string, ranks map[string]int) string {
	var b strings.Builder
	b.WriteString("CASE ")
	b.WriteString(column)
	for _, value := range sortedKeysByRank(ranks) {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", value, ranks[value])
	}
	b.WriteString(" ELSE 0 END")
	return b.String()
}

func priorityRanks() map[string]int {
	ranks := make(map[string]int)
	for _, p := range domain.TaskPriorityValues() {
		ranks[string(p)] = p.Rank()
	}
	return ranks
}

func statusRanks() map[string]int {
	ranks := make(map[string]int)
	for _, s := range domain.TaskStatusValues() {
		ranks[string(s)] = s.Rank()
	}
	return ranks
}

func sortedKeysByRank(ranks map[string]int) []string {
	keys := make([]string, len(ranks))
	for k, r := range ranks {
		keys[r-1] = k
	}
	return keys
}
