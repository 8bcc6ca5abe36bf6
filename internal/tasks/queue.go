package tasks

// Queue is a singly linked FIFO of task references. It records arrival order
// only: there is no deduplication and no removal by value, so it may still
// hold tasks that have since left the collection.
type Queue struct {
	front *queueNode
	rear  *queueNode
	size  int
}

type queueNode struct {
	task *Task
	next *queueNode
}

// NewQueue creates an empty task queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue appends t at the rear.
func (q *Queue) Enqueue(t *Task) {
	node := &queueNode{task: t}
	if q.rear == nil {
		q.front = node
	} else {
		q.rear.next = node
	}
	q.rear = node
	q.size++
}

// Dequeue removes and returns the oldest task.
func (q *Queue) Dequeue() (*Task, error) {
	if q.front == nil {
		return nil, ErrEmptyQueue
	}
	node := q.front
	q.front = node.next
	if q.front == nil {
		q.rear = nil
	}
	q.size--
	return node.task, nil
}

// Peek returns the oldest task without removing it.
func (q *Queue) Peek() (*Task, error) {
	if q.front == nil {
		return nil, ErrEmptyQueue
	}
	return q.front.task, nil
}

// Len returns the number of queued entries.
func (q *Queue) Len() int {
	return q.size
}

// IsEmpty reports whether the queue has no entries.
func (q *Queue) IsEmpty() bool {
	return q.size == 0
}

// Clear drops every entry.
func (q *Queue) Clear() {
	q.front = nil
	q.rear = nil
	q.size = 0
}

// Snapshot returns the queued tasks from front to rear.
func (q *Queue) Snapshot() []*Task {
	out := make([]*Task, 0, q.size)
	for n := q.front; n != nil; n = n.next {
		out = append(out, n.task)
	}
	return out
}
