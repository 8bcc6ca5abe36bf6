package tasks

import (
	"fmt"
	"strings"
)

// Sort reorders the collection in place. Each key family uses its own
// algorithm:
//
//   - name: merge sort, stable in both directions
//   - deadline: quicksort with a median-of-three pivot and Lomuto partition
//   - importance: counting sort over the four ranks, then deadline ascending
//     inside each rank regardless of direction. Tasks whose importance is not
//     a valid level go last.
//
// Sort panics on an unknown key.
func (c *Collection) Sort(key SortKey) {
	switch key {
	case NameAsc, NameDesc:
		c.mergeSort(key.Descending())
	case DeadlineAsc, DeadlineDesc:
		c.quickSort(0, c.size-1, key.Descending())
	case ImportanceAsc, ImportanceDesc:
		c.countingSortByImportance(key.Descending())
	default:
		panic(fmt.Sprintf("tasks: unknown sort key %d", int(key)))
	}
}

// nameInOrder reports whether a may precede b. Equal descriptions keep their
// order, which is what makes the merge stable.
func nameInOrder(a, b *Task, desc bool) bool {
	cmp := strings.Compare(a.Description, b.Description)
	if desc {
		return cmp >= 0
	}
	return cmp <= 0
}

// deadlineBefore is a strict order on deadline in the given direction. Equal
// deadlines fall back to ascending id, so quicksort gives the same result on
// every run and does not degrade when many deadlines tie.
func deadlineBefore(a, b *Task, desc bool) bool {
	if !a.Deadline.Equal(b.Deadline) {
		if desc {
			return a.Deadline.After(b.Deadline)
		}
		return a.Deadline.Before(b.Deadline)
	}
	return a.id < b.id
}

func (c *Collection) mergeSort(desc bool) {
	if c.size < 2 {
		return
	}
	scratch := make([]*Task, c.size)
	mergeSortRange(c.items, scratch, 0, c.size-1, desc)
}

func mergeSortRange(a, scratch []*Task, lo, hi int, desc bool) {
	if lo >= hi {
		return
	}
	mid := lo + (hi-lo)/2
	mergeSortRange(a, scratch, lo, mid, desc)
	mergeSortRange(a, scratch, mid+1, hi, desc)
	merge(a, scratch, lo, mid, hi, desc)
}

func merge(a, scratch []*Task, lo, mid, hi int, desc bool) {
	copy(scratch[lo:hi+1], a[lo:hi+1])

	i, j, k := lo, mid+1, lo
	for i <= mid && j <= hi {
		if nameInOrder(scratch[i], scratch[j], desc) {
			a[k] = scratch[i]
			i++
		} else {
			a[k] = scratch[j]
			j++
		}
		k++
	}
	for i <= mid {
		a[k] = scratch[i]
		i++
		k++
	}
	// Anything left on the right is already in place.
}

func (c *Collection) quickSort(lo, hi int, desc bool) {
	for lo < hi {
		mid := lo + (hi-lo)/2
		pivot := medianOfThree(c.items, lo, mid, hi, desc)
		c.swap(pivot, hi)

		p := c.partition(lo, hi, desc)

		// Recurse into the smaller side to keep the stack logarithmic.
		if p-lo < hi-p {
			c.quickSort(lo, p-1, desc)
			lo = p + 1
		} else {
			c.quickSort(p+1, hi, desc)
			hi = p - 1
		}
	}
}

// medianOfThree returns the index, among i, j and k, of the median deadline.
func medianOfThree(a []*Task, i, j, k int, desc bool) int {
	if deadlineBefore(a[i], a[j], desc) {
		if deadlineBefore(a[j], a[k], desc) {
			return j
		}
		if deadlineBefore(a[i], a[k], desc) {
			return k
		}
		return i
	}
	if deadlineBefore(a[i], a[k], desc) {
		return i
	}
	if deadlineBefore(a[j], a[k], desc) {
		return k
	}
	return j
}

// partition places the pivot at hi into its final position and returns it.
func (c *Collection) partition(lo, hi int, desc bool) int {
	pivot := c.items[hi]
	i := lo - 1
	for j := lo; j < hi; j++ {
		if deadlineBefore(c.items[j], pivot, desc) {
			i++
			c.swap(i, j)
		}
	}
	c.swap(i+1, hi)
	return i + 1
}

func (c *Collection) swap(i, j int) {
	c.items[i], c.items[j] = c.items[j], c.items[i]
}

// importanceBuckets has one extra bucket for tasks whose importance was set
// to an invalid level after they were added.
const importanceBuckets = ImportanceCount + 1

func importanceBucket(i Importance) int {
	if !i.Valid() {
		return ImportanceCount
	}
	return i.Rank()
}

func (c *Collection) countingSortByImportance(desc bool) {
	n := c.size
	var count [importanceBuckets]int
	for i := 0; i < n; i++ {
		count[importanceBucket(c.items[i].Importance)]++
	}

	// end[r] is one past the last slot of bucket r in the output.
	var end [importanceBuckets]int
	running := 0
	if desc {
		for r := ImportanceCount - 1; r >= 0; r-- {
			running += count[r]
			end[r] = running
		}
	} else {
		for r := 0; r < ImportanceCount; r++ {
			running += count[r]
			end[r] = running
		}
	}
	end[ImportanceCount] = running + count[ImportanceCount]

	out := make([]*Task, n)
	next := end
	for i := n - 1; i >= 0; i-- {
		r := importanceBucket(c.items[i].Importance)
		next[r]--
		out[next[r]] = c.items[i]
	}

	for r := 0; r < importanceBuckets; r++ {
		if count[r] > 1 {
			insertionSortByDeadline(out, end[r]-count[r], end[r]-1)
		}
	}

	copy(c.items[:n], out)
}

// insertionSortByDeadline orders tasks[start..end] by deadline ascending,
// keeping equal deadlines in their current order.
func insertionSortByDeadline(tasks []*Task, start, end int) {
	for i := start + 1; i <= end; i++ {
		key := tasks[i]
		j := i - 1
		for j >= start && tasks[j].Deadline.After(key.Deadline) {
			tasks[j+1] = tasks[j]
			j--
		}
		tasks[j+1] = key
	}
}
