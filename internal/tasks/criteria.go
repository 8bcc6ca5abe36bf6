package tasks

import "time"

// Criteria is an immutable set of optional search filters combined with AND.
// Build one with NewCriteriaBuilder; unset fields do not filter.
type Criteria struct {
	keyword    string
	start      *time.Time
	end        *time.Time
	importance *Importance
	categoryID *int
	completed  *bool
}

// Keyword returns the keyword filter. An empty keyword is reported as unset.
func (c *Criteria) Keyword() (string, bool) {
	return c.keyword, c.keyword != ""
}

// DateRange returns the exclusive deadline bounds. It is only set when both
// bounds were given.
func (c *Criteria) DateRange() (start, end time.Time, ok bool) {
	if c.start == nil || c.end == nil {
		return time.Time{}, time.Time{}, false
	}
	return *c.start, *c.end, true
}

// Importance returns the importance filter.
func (c *Criteria) Importance() (Importance, bool) {
	if c.importance == nil {
		return 0, false
	}
	return *c.importance, true
}

// CategoryID returns the category filter.
func (c *Criteria) CategoryID() (int, bool) {
	if c.categoryID == nil {
		return 0, false
	}
	return *c.categoryID, true
}

// Completed returns the completion-status filter.
func (c *Criteria) Completed() (bool, bool) {
	if c.completed == nil {
		return false, false
	}
	return *c.completed, true
}

// IsEmpty reports whether no filter is set, in which case every task matches.
func (c *Criteria) IsEmpty() bool {
	_, hasKeyword := c.Keyword()
	_, _, hasRange := c.DateRange()
	return !hasKeyword && !hasRange && c.importance == nil && c.categoryID == nil && c.completed == nil
}

// CriteriaBuilder assembles a Criteria value.
type CriteriaBuilder struct {
	c Criteria
}

// NewCriteriaBuilder returns a builder with no filters set.
func NewCriteriaBuilder() *CriteriaBuilder {
	return &CriteriaBuilder{}
}

// WithKeyword filters on a case-insensitive substring of the description.
func (b *CriteriaBuilder) WithKeyword(keyword string) *CriteriaBuilder {
	b.c.keyword = keyword
	return b
}

// WithDateRange keeps tasks whose deadline lies strictly between start and end.
func (b *CriteriaBuilder) WithDateRange(start, end time.Time) *CriteriaBuilder {
	b.c.start = &start
	b.c.end = &end
	return b
}

// WithStart sets only the lower bound. On its own it does not filter.
func (b *CriteriaBuilder) WithStart(start time.Time) *CriteriaBuilder {
	b.c.start = &start
	return b
}

// WithEnd sets only the upper bound. On its own it does not filter.
func (b *CriteriaBuilder) WithEnd(end time.Time) *CriteriaBuilder {
	b.c.end = &end
	return b
}

// WithImportance filters on an exact importance level.
func (b *CriteriaBuilder) WithImportance(i Importance) *CriteriaBuilder {
	b.c.importance = &i
	return b
}

// WithCategory filters on the category's id. A nil category clears the filter.
func (b *CriteriaBuilder) WithCategory(category *Category) *CriteriaBuilder {
	if category == nil {
		b.c.categoryID = nil
		return b
	}
	id := category.id
	b.c.categoryID = &id
	return b
}

// WithCategoryID filters on a category id.
func (b *CriteriaBuilder) WithCategoryID(id int) *CriteriaBuilder {
	b.c.categoryID = &id
	return b
}

// WithCompletion filters on the completion flag.
func (b *CriteriaBuilder) WithCompletion(completed bool) *CriteriaBuilder {
	b.c.completed = &completed
	return b
}

// Build returns the criteria. Later builder calls do not affect it.
func (b *CriteriaBuilder) Build() *Criteria {
	out := b.c
	return &out
}
