// Package tasks implements the in-memory task collection engine: task records,
// the growable collection with its sort engine, the FIFO scheduling queue and
// the search/match engine.
package tasks

import "time"

// Category groups tasks. Tasks refer to categories by id; two Category values
// with the same id are the same category.
type Category struct {
	id    int
	Title string
}

// NewCategory creates a category.
func NewCategory(id int, title string) *Category {
	return &Category{id: id, Title: title}
}

// ID returns the category identifier.
func (c *Category) ID() int {
	return c.id
}

// SameCategory reports whether a and b carry the same id. A nil category only
// matches another nil category.
func SameCategory(a, b *Category) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.id == b.id
}

// Task is a single to-do record. The identifier is fixed at construction;
// every other field may be changed in place.
type Task struct {
	id          int
	Description string
	Category    *Category
	Deadline    time.Time
	Importance  Importance // must stay Valid; invalid levels sort last and are not counted
	Completed   bool
}

// NewTask creates an incomplete task. The caller guarantees id uniqueness.
func NewTask(id int, description string, category *Category, deadline time.Time, importance Importance) *Task {
	return &Task{
		id:          id,
		Description: description,
		Category:    category,
		Deadline:    deadline,
		Importance:  importance,
	}
}

// ID returns the task identifier.
func (t *Task) ID() int {
	return t.id
}

// CategoryID returns the id of the task's category, or 0 when it has none.
func (t *Task) CategoryID() int {
	if t.Category == nil {
		return 0
	}
	return t.Category.id
}

// CategoryTitle returns the category title, or "" when the task has none.
func (t *Task) CategoryTitle() string {
	if t.Category == nil {
		return ""
	}
	return t.Category.Title
}
