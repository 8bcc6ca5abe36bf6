package tasks

import (
	"errors"
	"testing"
)

func TestCollectionAddGrowsByDoubling(t *testing.T) {
	c := NewCollection()
	if c.Cap() != defaultCapacity {
		t.Fatalf("initial Cap() = %d, want %d", c.Cap(), defaultCapacity)
	}

	for i := 1; i <= defaultCapacity+1; i++ {
		if err := c.Add(newTestTask(i, "task", i, ImportantUrgent)); err != nil {
			t.Fatalf("Add(%d): %v", i, err)
		}
	}

	if c.Len() != defaultCapacity+1 {
		t.Errorf("Len() = %d, want %d", c.Len(), defaultCapacity+1)
	}
	if c.Cap() != defaultCapacity*2 {
		t.Errorf("Cap() = %d, want %d", c.Cap(), defaultCapacity*2)
	}
	for i := 0; i < c.Len(); i++ {
		got, _ := c.Get(i)
		if got.ID() != i+1 {
			t.Errorf("Get(%d).ID() = %d, want %d", i, got.ID(), i+1)
		}
	}
}

func TestCollectionAddRejectsInvalid(t *testing.T) {
	c := NewCollection()
	if err := c.Add(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Add(nil): want ErrInvalidArgument, got %v", err)
	}
	if err := c.Add(newTestTask(1, "bad", 0, Importance(9))); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Add(invalid importance): want ErrInvalidArgument, got %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after failed adds, want 0", c.Len())
	}
}

func TestCollectionRemoveAtPreservesOrder(t *testing.T) {
	c := newTestCollection(t,
		newTestTask(1, "a", 0, ImportantUrgent),
		newTestTask(2, "b", 0, ImportantUrgent),
		newTestTask(3, "c", 0, ImportantUrgent),
		newTestTask(4, "d", 0, ImportantUrgent),
	)

	if err := c.RemoveAt(1); err != nil {
		t.Fatalf("RemoveAt(1): %v", err)
	}
	if got := ids(c.Snapshot()); !equalInts(got, []int{1, 3, 4}) {
		t.Errorf("after RemoveAt(1) ids = %v, want [1 3 4]", got)
	}

	if err := c.RemoveAt(2); err != nil {
		t.Fatalf("RemoveAt(2): %v", err)
	}
	if got := ids(c.Snapshot()); !equalInts(got, []int{1, 3}) {
		t.Errorf("after RemoveAt(2) ids = %v, want [1 3]", got)
	}
}

func TestCollectionBounds(t *testing.T) {
	c := newTestCollection(t,
		newTestTask(1, "a", 0, ImportantUrgent),
		newTestTask(2, "b", 0, ImportantUrgent),
		newTestTask(3, "c", 0, ImportantUrgent),
		newTestTask(4, "d", 0, ImportantUrgent),
	)

	for _, i := range []int{-1, c.Len()} {
		if _, err := c.Get(i); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Get(%d): want ErrOutOfRange, got %v", i, err)
		}
		if err := c.RemoveAt(i); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("RemoveAt(%d): want ErrOutOfRange, got %v", i, err)
		}
	}
	if c.Len() != 4 {
		t.Errorf("Len() = %d after failed removals, want 4", c.Len())
	}
}

func TestCollectionSnapshotIsCopy(t *testing.T) {
	c := newTestCollection(t,
		newTestTask(1, "a", 0, ImportantUrgent),
		newTestTask(2, "b", 0, ImportantUrgent),
	)

	snap := c.Snapshot()
	snap[0] = newTestTask(99, "intruder", 0, ImportantUrgent)
	snap = append(snap, newTestTask(100, "extra", 0, ImportantUrgent))

	if got := ids(c.Snapshot()); !equalInts(got, []int{1, 2}) {
		t.Errorf("collection changed through snapshot: ids = %v", got)
	}
	if len(snap) != 3 {
		t.Errorf("len(snap) = %d, want 3", len(snap))
	}
}

func TestCollectionRemoveByID(t *testing.T) {
	c := newTestCollection(t,
		newTestTask(5, "a", 0, ImportantUrgent),
		newTestTask(7, "b", 0, ImportantUrgent),
	)

	if err := c.RemoveByID(5); err != nil {
		t.Fatalf("RemoveByID(5): %v", err)
	}
	if c.IndexOf(5) != -1 {
		t.Error("task 5 still present after removal")
	}
	if err := c.RemoveByID(5); !errors.Is(err, ErrNotFound) {
		t.Errorf("second RemoveByID(5): want ErrNotFound, got %v", err)
	}
}

func TestCollectionSearchNilCriteria(t *testing.T) {
	c := newTestCollection(t, newTestTask(1, "a", 0, ImportantUrgent))
	if _, err := c.Search(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Search(nil): want ErrInvalidArgument, got %v", err)
	}
}

func TestNewCollectionFromSkipsNil(t *testing.T) {
	c := NewCollectionFrom([]*Task{newTestTask(1, "a", 0, ImportantUrgent), nil, newTestTask(2, "b", 0, ImportantUrgent)})
	if got := ids(c.Snapshot()); !equalInts(got, []int{1, 2}) {
		t.Errorf("ids = %v, want [1 2]", got)
	}
}
