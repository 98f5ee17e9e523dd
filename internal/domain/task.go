// Package domain contains core business entities and interfaces.
package domain

import "time"

// DefaultAssignee is used when a task is created without an assignee.
const DefaultAssignee = "Unassigned"

// Task represents a trackable unit of work.
// Fields are ordered to minimize memory padding.
type Task struct {
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"` // Creation time (immutable)
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"` // Refreshed on every mutation
	DueDate   *string   `json:"dueDate" yaml:"dueDate"`     // Calendar date (YYYY-MM-DD), nil = no due date
	Title     string    `json:"title" yaml:"title"`         // Title (3-120 chars)
	Status    Status    `json:"status" yaml:"status"`       // Current status
	Priority  Priority  `json:"priority" yaml:"priority"`   // Priority
	Assignee  string    `json:"assignee" yaml:"assignee"`   // Assignee name (2-60 chars)
	ID        int       `json:"id" yaml:"id"`               // Task ID, assigned at creation
}

// HasDueDate returns true if the task carries a due date.
func (t *Task) HasDueDate() bool {
	return t.DueDate != nil
}

// Clone returns a copy of the task that shares no pointers with the original.
func (t Task) Clone() Task {
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	return t
}

// State is the full durable dataset: all tasks plus the id counter.
// Tasks are ordered newest-first; new tasks are prepended.
type State struct {
	Tasks  []Task `json:"tasks" yaml:"tasks"`
	NextID int    `json:"nextId" yaml:"nextId"`
}

// NewState returns an empty state whose first id is 1.
func NewState() *State {
	return &State{Tasks: []Task{}, NextID: 1}
}

// Clone returns a deep copy of the state.
// Mutations are always applied to a clone, never to a shared state.
func (s *State) Clone() *State {
	out := &State{
		Tasks:  make([]Task, len(s.Tasks)),
		NextID: s.NextID,
	}
	for i, t := range s.Tasks {
		out.Tasks[i] = t.Clone()
	}
	return out
}

// IndexOf returns the position of the task with the given ID, or -1.
func (s *State) IndexOf(id int) int {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns the task with the given ID.
func (s *State) Find(id int) (Task, bool) {
	idx := s.IndexOf(id)
	if idx == -1 {
		return Task{}, false
	}
	return s.Tasks[idx], true
}

// MaxID returns the largest task ID present, or 0 for an empty state.
func (s *State) MaxID() int {
	maxID := 0
	for _, t := range s.Tasks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return maxID
}

// Repair fixes fields that would break id allocation.
// Returns true if anything was changed.
func (s *State) Repair() bool {
	changed := false
	if s.Tasks == nil {
		s.Tasks = []Task{}
	}
	if maxID := s.MaxID(); s.NextID <= maxID {
		s.NextID = maxID + 1
		changed = true
	}
	if s.NextID < 1 {
		s.NextID = 1
		changed = true
	}
	return changed
}
