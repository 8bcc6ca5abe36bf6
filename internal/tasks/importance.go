package tasks

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Importance is the Eisenhower classification of a task. The numeric value is
// the sort rank: lower ranks sort first in ascending order.
type Importance int

const (
	ImportantUrgent Importance = iota
	ImportantNotUrgent
	NotImportantUrgent
	NotImportantNotUrgent
)

// ImportanceCount is the number of importance levels.
const ImportanceCount = 4

// AllImportances returns every level in rank order.
func AllImportances() []Importance {
	return []Importance{ImportantUrgent, ImportantNotUrgent, NotImportantUrgent, NotImportantNotUrgent}
}

// Valid reports whether i is one of the four levels.
func (i Importance) Valid() bool {
	return i >= ImportantUrgent && i <= NotImportantNotUrgent
}

// Rank returns the position of the level in ascending sort order.
func (i Importance) Rank() int {
	return int(i)
}

// String returns the display label.
func (i Importance) String() string {
	switch i {
	case ImportantUrgent:
		return "Important & Urgent"
	case ImportantNotUrgent:
		return "Important & Not Urgent"
	case NotImportantUrgent:
		return "Not Important & Urgent"
	case NotImportantNotUrgent:
		return "Not Important & Not Urgent"
	default:
		return "Unknown"
	}
}

// Slug returns the kebab-case name accepted by ParseImportance.
func (i Importance) Slug() string {
	switch i {
	case ImportantUrgent:
		return "important-urgent"
	case ImportantNotUrgent:
		return "important-not-urgent"
	case NotImportantUrgent:
		return "not-important-urgent"
	case NotImportantNotUrgent:
		return "not-important-not-urgent"
	default:
		return "unknown"
	}
}

// Symbol returns the marker shown next to a task.
func (i Importance) Symbol() string {
	switch i {
	case ImportantUrgent:
		return "🔴"
	case ImportantNotUrgent:
		return "🟡"
	case NotImportantUrgent:
		return "🟠"
	case NotImportantNotUrgent:
		return "🔵"
	default:
		return "?"
	}
}

// Accent returns the level's accent colour.
func (i Importance) Accent() lipgloss.Color {
	switch i {
	case ImportantUrgent:
		return lipgloss.Color("#FF3B30")
	case ImportantNotUrgent:
		return lipgloss.Color("#FFCC00")
	case NotImportantUrgent:
		return lipgloss.Color("#FF9500")
	case NotImportantNotUrgent:
		return lipgloss.Color("#007AFF")
	default:
		return lipgloss.Color("#888888")
	}
}

// ParseImportance accepts the slug, the upper snake-case constant name or the
// two-letter short form (iu, in, nu, nn).
func ParseImportance(s string) (Importance, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	switch key {
	case "important-urgent", "iu":
		return ImportantUrgent, nil
	case "important-not-urgent", "in":
		return ImportantNotUrgent, nil
	case "not-important-urgent", "nu":
		return NotImportantUrgent, nil
	case "not-important-not-urgent", "nn":
		return NotImportantNotUrgent, nil
	default:
		return 0, fmt.Errorf("%w: unknown importance %q (valid: iu, in, nu, nn)", ErrInvalidArgument, s)
	}
}

// MarshalText implements encoding.TextMarshaler using the slug.
func (i Importance) MarshalText() ([]byte, error) {
	if !i.Valid() {
		return nil, fmt.Errorf("%w: importance %d", ErrInvalidArgument, int(i))
	}
	return []byte(i.Slug()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Importance) UnmarshalText(text []byte) error {
	parsed, err := ParseImportance(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
