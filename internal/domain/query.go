package domain

import (
	"cmp"
	"slices"
	"strings"
)

// SortDirection is the order applied to the sort key.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Query defaults and bounds.
const (
	DefaultSortKey  = "updatedAt"
	DefaultPageSize = 10
	MinPageSize     = 5
	MaxPageSize     = 50
)

// SortKeys returns the task fields that can be sorted on.
func SortKeys() []string {
	return []string{"id", "title", "status", "priority", "assignee", "dueDate", "createdAt", "updatedAt"}
}

// QuerySpec holds the filter, sort and page parameters of a list request.
// Status and Priority keep the raw requested value so it can be echoed back;
// values that are not a known status or priority are ignored when filtering.
type QuerySpec struct {
	Text     string        // Free-text filter over title and assignee
	Status   string        // Status filter (empty = none)
	Priority string        // Priority filter (empty = none)
	Sort     string        // Sort key (task JSON field name)
	Dir      SortDirection // Sort direction
	Page     int           // 1-based page number
	PageSize int           // Items per page
}

// Normalize returns a copy of q with defaults applied and values clamped.
func (q QuerySpec) Normalize() QuerySpec {
	q.Text = strings.ToLower(strings.TrimSpace(q.Text))
	if q.Sort == "" {
		q.Sort = DefaultSortKey
	}
	if q.Dir != SortAsc {
		q.Dir = SortDesc
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = DefaultPageSize
	}
	q.PageSize = min(MaxPageSize, max(MinPageSize, q.PageSize))
	return q
}

// QueryMeta echoes the effective query so clients can reconcile paging.
type QueryMeta struct {
	Status   *string       `json:"status" yaml:"status"`
	Priority *string       `json:"priority" yaml:"priority"`
	Sort     string        `json:"sort" yaml:"sort"`
	Dir      SortDirection `json:"dir" yaml:"dir"`
	Q        string        `json:"q" yaml:"q"`
	Total    int           `json:"total" yaml:"total"`
	Page     int           `json:"page" yaml:"page"`
	PageSize int           `json:"pageSize" yaml:"pageSize"`
}

// PageCount returns the number of pages needed to show all matches.
func (m QueryMeta) PageCount() int {
	if m.PageSize <= 0 || m.Total == 0 {
		return 1
	}
	return (m.Total + m.PageSize - 1) / m.PageSize
}

// QueryResult is one page of matching tasks plus metadata.
type QueryResult struct {
	Items []Task    `json:"items" yaml:"items"`
	Meta  QueryMeta `json:"meta" yaml:"meta"`
}

// Query filters, sorts and paginates tasks.
// Parameters are normalized first. The input slice is left untouched.
func Query(tasks []Task, spec QuerySpec) QueryResult {
	spec = spec.Normalize()

	status := Status(spec.Status)
	filterStatus := status.IsValid()
	priority := Priority(spec.Priority)
	filterPriority := priority.IsValid()

	matched := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if spec.Text != "" && !strings.Contains(strings.ToLower(t.Title+" "+t.Assignee), spec.Text) {
			continue
		}
		if filterStatus && t.Status != status {
			continue
		}
		if filterPriority && t.Priority != priority {
			continue
		}
		matched = append(matched, t)
	}

	slices.SortStableFunc(matched, func(a, b Task) int {
		return compareField(&a, &b, spec.Sort, spec.Dir)
	})

	total := len(matched)
	items := []Task{}
	if start := (spec.Page - 1) * spec.PageSize; start < total {
		end := min(start+spec.PageSize, total)
		items = matched[start:end:end]
	}

	return QueryResult{
		Items: items,
		Meta: QueryMeta{
			Total:    total,
			Page:     spec.Page,
			PageSize: spec.PageSize,
			Sort:     spec.Sort,
			Dir:      spec.Dir,
			Q:        spec.Text,
			Status:   optionalString(spec.Status),
			Priority: optionalString(spec.Priority),
		},
	}
}

// compareField orders a and b by the named field.
// A missing value sorts after any present value regardless of direction;
// two missing values compare equal, so unknown keys keep the prior order.
func compareField(a, b *Task, key string, dir SortDirection) int {
	av, aok := fieldValue(a, key)
	bv, bok := fieldValue(b, key)
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return 1
	case !bok:
		return -1
	}

	var c int
	switch x := av.(type) {
	case int:
		c = cmp.Compare(x, bv.(int))
	case string:
		c = strings.Compare(x, bv.(string))
	case int64:
		c = cmp.Compare(x, bv.(int64))
	}
	if dir == SortDesc {
		return -c
	}
	return c
}

// fieldValue returns the comparable value of a task field.
// Timestamps are compared as Unix nanoseconds.
func fieldValue(t *Task, key string) (any, bool) {
	switch key {
	case "id":
		return t.ID, true
	case "title":
		return t.Title, true
	case "status":
		return string(t.Status), true
	case "priority":
		return string(t.Priority), true
	case "assignee":
		return t.Assignee, true
	case "dueDate":
		if t.DueDate == nil {
			return nil, false
		}
		return *t.DueDate, true
	case "createdAt":
		return t.CreatedAt.UnixNano(), true
	case "updatedAt":
		return t.UpdatedAt.UnixNano(), true
	default:
		return nil, false
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
