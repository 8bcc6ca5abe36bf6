package tasks

import (
	"context"
	"fmt"
	"sort"

	"github.com/marcus/taskboard/internal/logging"
)

// CategoryLookup is the part of the category store the service reads from.
type CategoryLookup interface {
	Get(ctx context.Context, id int) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
}

// Service is the data-access surface for the presentation layer. It owns the
// canonical collection and the scheduling queue and is not safe for
// concurrent use.
type Service struct {
	tasks      *Collection
	queue      *Queue
	categories CategoryLookup
	logger     *logging.Logger
	trace      bool
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger used for match tracing.
func WithLogger(l *logging.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = l
	}
}

// WithTrace enables debug logging of every predicate evaluated by
// AdvancedSearch.
func WithTrace(enabled bool) ServiceOption {
	return func(s *Service) {
		s.trace = enabled
	}
}

// NewService creates a service with an empty collection and queue.
func NewService(categories CategoryLookup, opts ...ServiceOption) *Service {
	s := &Service{
		tasks:      NewCollection(),
		queue:      NewQueue(),
		categories: categories,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.Component("search")
	}
	return s
}

// AddTask appends t to the collection and to the scheduling queue.
func (s *Service) AddTask(t *Task) error {
	if err := s.tasks.Add(t); err != nil {
		return err
	}
	s.queue.Enqueue(t)
	return nil
}

// Load appends t to the collection, enqueueing it only when scheduled is set.
// It is used when applying seed data.
func (s *Service) Load(t *Task, scheduled bool) error {
	if err := s.tasks.Add(t); err != nil {
		return err
	}
	if scheduled {
		s.queue.Enqueue(t)
	}
	return nil
}

// UpdateTask replaces the task carrying t's id. The replacement moves to the
// end of the collection.
func (s *Service) UpdateTask(t *Task) error {
	if t == nil {
		return fmt.Errorf("%w: nil task", ErrInvalidArgument)
	}
	if !t.Importance.Valid() {
		return fmt.Errorf("%w: task %d has importance %d", ErrInvalidArgument, t.id, int(t.Importance))
	}
	if err := s.tasks.RemoveByID(t.id); err != nil {
		return err
	}
	return s.tasks.Add(t)
}

// DeleteTask removes the task with the given id. The queue keeps its entry.
func (s *Service) DeleteTask(id int) error {
	return s.tasks.RemoveByID(id)
}

// SetCompleted marks a task complete or incomplete.
func (s *Service) SetCompleted(id int, completed bool) error {
	t, err := s.Task(id)
	if err != nil {
		return err
	}
	t.Completed = completed
	return nil
}

// Task returns the task with the given id.
func (s *Service) Task(id int) (*Task, error) {
	i := s.tasks.IndexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: task %d", ErrNotFound, id)
	}
	return s.tasks.Get(i)
}

// AllTasks returns the tasks in canonical order.
func (s *Service) AllTasks() []*Task {
	return s.tasks.Snapshot()
}

// TotalCount returns the number of tasks.
func (s *Service) TotalCount() int {
	return s.tasks.Len()
}

// TasksByCategory returns the tasks in category c, in canonical order.
func (s *Service) TasksByCategory(c *Category) ([]*Task, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil category", ErrInvalidArgument)
	}
	return s.tasks.Search(NewCriteriaBuilder().WithCategory(c).Build())
}

// SortedTasks returns the tasks ordered by key without touching the canonical
// order.
func (s *Service) SortedTasks(key SortKey) []*Task {
	view := NewCollectionFrom(s.tasks.Snapshot())
	view.Sort(key)
	return view.Snapshot()
}

// TasksByCategorySorted returns the tasks in category c ordered by key.
func (s *Service) TasksByCategorySorted(c *Category, key SortKey) ([]*Task, error) {
	matched, err := s.TasksByCategory(c)
	if err != nil {
		return nil, err
	}
	view := NewCollectionFrom(matched)
	view.Sort(key)
	return view.Snapshot(), nil
}

// SortInPlace reorders the canonical collection.
func (s *Service) SortInPlace(key SortKey) {
	s.tasks.Sort(key)
}

// AdvancedSearch returns the tasks matching criteria in canonical order.
func (s *Service) AdvancedSearch(criteria *Criteria) ([]*Task, error) {
	results, err := s.tasks.Search(criteria)
	if err != nil {
		return nil, err
	}
	if s.trace {
		s.traceSearch(criteria, len(results))
	}
	return results, nil
}

func (s *Service) traceSearch(criteria *Criteria, matched int) {
	for _, t := range s.tasks.Snapshot() {
		for _, r := range Explain(t, criteria) {
			s.logger.DebugCtx("predicate evaluated", map[string]any{
				"task_id":   t.id,
				"predicate": r.Name,
				"matched":   r.Matched,
			})
		}
	}
	s.logger.DebugCtx("search finished", map[string]any{
		"candidates": s.tasks.Len(),
		"matched":    matched,
	})
}

// NextScheduled returns the oldest queued task without removing it. The task
// may no longer be in the collection.
func (s *Service) NextScheduled() (*Task, error) {
	return s.queue.Peek()
}

// PopScheduled removes and returns the oldest queued task.
func (s *Service) PopScheduled() (*Task, error) {
	return s.queue.Dequeue()
}

// ScheduledTasks returns the queue contents from oldest to newest.
func (s *Service) ScheduledTasks() []*Task {
	return s.queue.Snapshot()
}

// ClearSchedule empties the scheduling queue.
func (s *Service) ClearSchedule() {
	s.queue.Clear()
}

// CategoryByID looks up a category in the category store.
func (s *Service) CategoryByID(ctx context.Context, id int) (*Category, error) {
	if s.categories == nil {
		return nil, fmt.Errorf("%w: category %d", ErrNotFound, id)
	}
	c, err := s.categories.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("category %d: %w", id, err)
	}
	return c, nil
}

// NextID returns one more than the largest task id, or 1 when empty.
func (s *Service) NextID() int {
	max := 0
	for _, t := range s.tasks.Snapshot() {
		if t.id > max {
			max = t.id
		}
	}
	return max + 1
}

// CategoryCount is the number of tasks filed under one category.
type CategoryCount struct {
	Category *Category
	Tasks    int
}

// Overview summarises the collection for status displays.
type Overview struct {
	Total         int
	Incomplete    int
	ByCategory    []CategoryCount
	ByImportance  [ImportanceCount]int
	Uncategorised int
}

// Overview counts tasks overall, per category and per importance. Categories
// are listed in store order, including empty ones.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	var o Overview
	perCategory := make(map[int]int)
	for _, t := range s.tasks.Snapshot() {
		o.Total++
		if !t.Completed {
			o.Incomplete++
		}
		if t.Importance.Valid() {
			o.ByImportance[t.Importance.Rank()]++
		}
		if t.Category == nil {
			o.Uncategorised++
			continue
		}
		perCategory[t.Category.id]++
	}

	if s.categories == nil {
		return o, nil
	}
	cats, err := s.categories.List(ctx)
	if err != nil {
		return o, fmt.Errorf("listing categories: %w", err)
	}
	seen := make(map[int]bool, len(cats))
	for _, c := range cats {
		seen[c.id] = true
		o.ByCategory = append(o.ByCategory, CategoryCount{Category: c, Tasks: perCategory[c.id]})
	}

	// Tasks can point at categories the store no longer has.
	var orphans []int
	for id := range perCategory {
		if !seen[id] {
			orphans = append(orphans, id)
		}
	}
	sort.Ints(orphans)
	for _, id := range orphans {
		o.ByCategory = append(o.ByCategory, CategoryCount{Category: s.categoryFromTasks(id), Tasks: perCategory[id]})
	}
	return o, nil
}

func (s *Service) categoryFromTasks(id int) *Category {
	for _, t := range s.tasks.Snapshot() {
		if t.Category != nil && t.Category.id == id {
			return t.Category
		}
	}
	return NewCategory(id, "")
}
