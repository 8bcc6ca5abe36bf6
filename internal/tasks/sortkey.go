package tasks

import (
	"fmt"
	"strings"
)

// SortKey selects the field and direction used by Collection.Sort.
type SortKey int

const (
	NameAsc SortKey = iota
	NameDesc
	DeadlineAsc
	DeadlineDesc
	ImportanceAsc
	ImportanceDesc
)

// AllSortKeys returns every key in declaration order.
func AllSortKeys() []SortKey {
	return []SortKey{NameAsc, NameDesc, DeadlineAsc, DeadlineDesc, ImportanceAsc, ImportanceDesc}
}

// String returns the short label shown in sort pickers.
func (k SortKey) String() string {
	switch k {
	case NameAsc:
		return "Name ↑"
	case NameDesc:
		return "Name ↓"
	case DeadlineAsc:
		return "Deadline ↑"
	case DeadlineDesc:
		return "Deadline ↓"
	case ImportanceAsc:
		return "Importance ↑"
	case ImportanceDesc:
		return "Importance ↓"
	default:
		return "Unknown"
	}
}

// Slug returns the flag-friendly name accepted by ParseSortKey.
func (k SortKey) Slug() string {
	switch k {
	case NameAsc:
		return "name-asc"
	case NameDesc:
		return "name-desc"
	case DeadlineAsc:
		return "deadline-asc"
	case DeadlineDesc:
		return "deadline-desc"
	case ImportanceAsc:
		return "importance-asc"
	case ImportanceDesc:
		return "importance-desc"
	default:
		return "unknown"
	}
}

// Descending reports whether the key orders from high to low.
func (k SortKey) Descending() bool {
	return k == NameDesc || k == DeadlineDesc || k == ImportanceDesc
}

// Valid reports whether k is a known key.
func (k SortKey) Valid() bool {
	return k >= NameAsc && k <= ImportanceDesc
}

// Next returns the following key, wrapping around after ImportanceDesc.
func (k SortKey) Next() SortKey {
	return (k + 1) % SortKey(len(AllSortKeys()))
}

// ParseSortKey accepts slugs such as "deadline-asc"; a bare field name means
// ascending.
func ParseSortKey(s string) (SortKey, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	switch key {
	case "name-asc", "name":
		return NameAsc, nil
	case "name-desc":
		return NameDesc, nil
	case "deadline-asc", "deadline":
		return DeadlineAsc, nil
	case "deadline-desc":
		return DeadlineDesc, nil
	case "importance-asc", "importance":
		return ImportanceAsc, nil
	case "importance-desc":
		return ImportanceDesc, nil
	default:
		return 0, fmt.Errorf("%w: unknown sort key %q", ErrInvalidArgument, s)
	}
}
