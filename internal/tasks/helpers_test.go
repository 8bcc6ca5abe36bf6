package tasks

import (
	"testing"
	"time"
)

var baseTime = time.Date(2024, time.December, 18, 9, 0, 0, 0, time.UTC)

func at(hours int) time.Time {
	return baseTime.Add(time.Duration(hours) * time.Hour)
}

func newTestTask(id int, desc string, deadlineHours int, importance Importance) *Task {
	return NewTask(id, desc, nil, at(deadlineHours), importance)
}

func newTestCollection(t *testing.T, tasks ...*Task) *Collection {
	t.Helper()
	c := NewCollection()
	for _, task := range tasks {
		if err := c.Add(task); err != nil {
			t.Fatalf("Add(%d): %v", task.ID(), err)
		}
	}
	return c
}

func ids(tasks []*Task) []int {
	out := make([]int, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID()
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
