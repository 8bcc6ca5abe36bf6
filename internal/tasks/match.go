package tasks

import "strings"

// Predicate names reported by Explain.
const (
	PredicateKeyword    = "keyword"
	PredicateCategory   = "category"
	PredicateImportance = "importance"
	PredicateCompletion = "completion"
	PredicateDateRange  = "date_range"
)

// PredicateResult is the outcome of one set criterion against one task.
type PredicateResult struct {
	Name    string
	Matched bool
}

// Matches reports whether t satisfies every criterion set in c. A nil task or
// nil criteria never matches.
func Matches(t *Task, c *Criteria) bool {
	if t == nil || c == nil {
		return false
	}
	for _, r := range Explain(t, c) {
		if !r.Matched {
			return false
		}
	}
	return true
}

// Explain evaluates each set criterion against t and returns the outcomes in
// a fixed order. Unset criteria are omitted.
func Explain(t *Task, c *Criteria) []PredicateResult {
	if t == nil || c == nil {
		return nil
	}
	var results []PredicateResult

	if keyword, ok := c.Keyword(); ok {
		results = append(results, PredicateResult{PredicateKeyword, ContainsFold(t.Description, keyword)})
	}
	if id, ok := c.CategoryID(); ok {
		results = append(results, PredicateResult{PredicateCategory, t.Category != nil && t.Category.id == id})
	}
	if importance, ok := c.Importance(); ok {
		results = append(results, PredicateResult{PredicateImportance, t.Importance == importance})
	}
	if completed, ok := c.Completed(); ok {
		results = append(results, PredicateResult{PredicateCompletion, t.Completed == completed})
	}
	if start, end, ok := c.DateRange(); ok {
		inRange := t.Deadline.After(start) && t.Deadline.Before(end)
		results = append(results, PredicateResult{PredicateDateRange, inRange})
	}

	return results
}

// ContainsFold reports whether pattern occurs in text, ignoring case. It is a
// plain scan over every start position; an empty pattern always matches.
func ContainsFold(text, pattern string) bool {
	haystack := []rune(strings.ToLower(text))
	needle := []rune(strings.ToLower(pattern))
	n, m := len(haystack), len(needle)
	if m > n {
		return false
	}
	for i := 0; i <= n-m; i++ {
		found := true
		for j := 0; j < m; j++ {
			if haystack[i+j] != needle[j] {
				found = false
				break
			}
		}
		if found {
			return true
		}
	}
	return false
}
