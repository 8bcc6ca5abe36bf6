package tasks

import "fmt"

const defaultCapacity = 10

// Collection is the authoritative ordered sequence of tasks. It grows its
// backing array by doubling and is not safe for concurrent use.
type Collection struct {
	items []*Task
	size  int
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{items: make([]*Task, defaultCapacity)}
}

// NewCollectionFrom creates a collection holding the given tasks in order.
// Nil entries are skipped.
func NewCollectionFrom(tasks []*Task) *Collection {
	c := NewCollection()
	for _, t := range tasks {
		if t != nil {
			_ = c.Add(t)
		}
	}
	return c
}

// Add appends t to the end of the collection.
func (c *Collection) Add(t *Task) error {
	if t == nil {
		return fmt.Errorf("%w: nil task", ErrInvalidArgument)
	}
	if !t.Importance.Valid() {
		return fmt.Errorf("%w: task %d has importance %d", ErrInvalidArgument, t.id, int(t.Importance))
	}
	if c.size == len(c.items) {
		c.grow()
	}
	c.items[c.size] = t
	c.size++
	return nil
}

func (c *Collection) grow() {
	capacity := len(c.items) * 2
	if capacity == 0 {
		capacity = defaultCapacity
	}
	next := make([]*Task, capacity)
	copy(next, c.items[:c.size])
	c.items = next
}

// RemoveAt removes the task at index i, shifting later tasks left.
func (c *Collection) RemoveAt(i int) error {
	if err := c.checkIndex(i); err != nil {
		return err
	}
	copy(c.items[i:c.size-1], c.items[i+1:c.size])
	c.size--
	c.items[c.size] = nil
	return nil
}

// RemoveByID removes the first task with the given id.
func (c *Collection) RemoveByID(id int) error {
	i := c.IndexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: task %d", ErrNotFound, id)
	}
	return c.RemoveAt(i)
}

// Get returns the task at index i.
func (c *Collection) Get(i int) (*Task, error) {
	if err := c.checkIndex(i); err != nil {
		return nil, err
	}
	return c.items[i], nil
}

// IndexOf returns the position of the first task with the given id, or -1.
func (c *Collection) IndexOf(id int) int {
	for i := 0; i < c.size; i++ {
		if c.items[i].id == id {
			return i
		}
	}
	return -1
}

// Len returns the number of tasks.
func (c *Collection) Len() int {
	return c.size
}

// Cap returns the capacity of the backing array.
func (c *Collection) Cap() int {
	return len(c.items)
}

// Snapshot returns a copy of the current sequence. The records are shared,
// the slice is not.
func (c *Collection) Snapshot() []*Task {
	out := make([]*Task, c.size)
	copy(out, c.items[:c.size])
	return out
}

// Search returns the tasks matching every criterion, in collection order.
func (c *Collection) Search(criteria *Criteria) ([]*Task, error) {
	if criteria == nil {
		return nil, fmt.Errorf("%w: nil search criteria", ErrInvalidArgument)
	}
	var out []*Task
	for i := 0; i < c.size; i++ {
		if Matches(c.items[i], criteria) {
			out = append(out, c.items[i])
		}
	}
	return out, nil
}

func (c *Collection) checkIndex(i int) error {
	if i < 0 || i >= c.size {
		return fmt.Errorf("%w: index %d (size %d)", ErrOutOfRange, i, c.size)
	}
	return nil
}
