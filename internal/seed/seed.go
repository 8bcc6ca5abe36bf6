// Package seed loads the categories and tasks taskboard starts with. Seed
// files are YAML; without one the built-in sample set is used.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/marcus/taskboard/internal/categories"
	"github.com/marcus/taskboard/internal/scheduler"
	"github.com/marcus/taskboard/internal/tasks"
)

// DeadlineLayout is the preferred deadline format in seed files. RFC3339 is
// also accepted.
const DeadlineLayout = "2006-01-02 15:04"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid seed data")

// Data is the content of a seed file.
type Data struct {
	Categories []CategorySeed `yaml:"categories" validate:"dive"`
	Tasks      []TaskSeed     `yaml:"tasks" validate:"dive"`
}

// CategorySeed describes one category.
type CategorySeed struct {
	ID    int    `yaml:"id" validate:"gt=0"`
	Title string `yaml:"title" validate:"required"`
}

// TaskSeed describes one task. Exactly one of Deadline and DueCron is set;
// a cron deadline resolves to its next occurrence when the seed is applied.
type TaskSeed struct {
	ID          int    `yaml:"id" validate:"gt=0"`
	Description string `yaml:"description" validate:"required"`
	CategoryID  int    `yaml:"category,omitempty" validate:"gte=0"`
	Deadline    string `yaml:"deadline,omitempty" validate:"required_without=DueCron,excluded_with=DueCron,deadline"`
	DueCron     string `yaml:"due_cron,omitempty" validate:"omitempty,cronexpr"`
	Importance  string `yaml:"importance" validate:"required,importance"`
	Completed   bool   `yaml:"completed,omitempty"`
	Scheduled   bool   `yaml:"scheduled,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("importance", func(fl validator.FieldLevel) bool {
		_, err := tasks.ParseImportance(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("cronexpr", func(fl validator.FieldLevel) bool {
		_, err := scheduler.Parse(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("deadline", func(fl validator.FieldLevel) bool {
		if fl.Field().String() == "" {
			return true
		}
		_, err := parseDeadline(fl.Field().String(), time.UTC)
		return err == nil
	})
	return v
}

// Default returns the sample data taskboard ships with. Only the first task
// is queued for scheduling.
func Default() Data {
	cats := categories.DefaultCategories()
	data := Data{Categories: make([]CategorySeed, len(cats))}
	for i, c := range cats {
		data.Categories[i] = CategorySeed{ID: c.ID(), Title: c.Title}
	}
	data.Tasks = []TaskSeed{
		{ID: 1, Description: "Complete DSA Project", CategoryID: 3, Deadline: "2024-12-18 14:00", Importance: tasks.ImportantUrgent.Slug(), Scheduled: true},
		{ID: 2, Description: "Gym Workout", CategoryID: 4, Deadline: "2024-12-18 17:30", Importance: tasks.NotImportantUrgent.Slug()},
		{ID: 3, Description: "Team Meeting", CategoryID: 1, Deadline: "2024-12-19 10:00", Importance: tasks.ImportantNotUrgent.Slug()},
		{ID: 4, Description: "Buy Groceries", CategoryID: 5, Deadline: "2024-12-19 15:00", Importance: tasks.NotImportantNotUrgent.Slug()},
	}
	return data
}

// Load reads and validates the seed file at path.
func Load(path string) (Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("reading seed %s: %w", path, err)
	}
	data, err := Parse(raw)
	if err != nil {
		return Data{}, fmt.Errorf("seed %s: %w", path, err)
	}
	return data, nil
}

// Parse decodes and validates YAML seed data.
func Parse(raw []byte) (Data, error) {
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return Data{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := Validate(data); err != nil {
		return Data{}, err
	}
	return data, nil
}

// Marshal encodes data as YAML.
func Marshal(data Data) ([]byte, error) {
	out, err := yaml.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding seed: %w", err)
	}
	return out, nil
}

// Validate checks field rules and id uniqueness. Category references are
// checked by CheckCategories, since a task may use a category that only the
// store knows about.
func Validate(data Data) error {
	if err := validate.Struct(data); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	catIDs := make(map[int]bool, len(data.Categories))
	for _, c := range data.Categories {
		if catIDs[c.ID] {
			return fmt.Errorf("%w: duplicate category id %d", ErrInvalid, c.ID)
		}
		catIDs[c.ID] = true
	}

	taskIDs := make(map[int]bool, len(data.Tasks))
	for _, t := range data.Tasks {
		if taskIDs[t.ID] {
			return fmt.Errorf("%w: duplicate task id %d", ErrInvalid, t.ID)
		}
		taskIDs[t.ID] = true
	}
	return nil
}

// CheckCategories reports the first task whose category is neither declared
// in data nor present in provider.
func CheckCategories(ctx context.Context, provider categories.Provider, data Data) error {
	declared := make(map[int]bool, len(data.Categories))
	for _, c := range data.Categories {
		declared[c.ID] = true
	}
	for _, t := range data.Tasks {
		if t.CategoryID == 0 || declared[t.CategoryID] {
			continue
		}
		_, err := provider.Get(ctx, t.CategoryID)
		if errors.Is(err, tasks.ErrNotFound) {
			return fmt.Errorf("%w: task %d refers to unknown category %d", ErrInvalid, t.ID, t.CategoryID)
		}
		if err != nil {
			return fmt.Errorf("checking category %d: %w", t.CategoryID, err)
		}
		declared[t.CategoryID] = true
	}
	return nil
}

// Apply adds data's categories to provider and its tasks to svc. Fixed
// deadlines are read in now's location; cron deadlines resolve to the next
// occurrence after now. Categories already present in provider are reused.
func Apply(ctx context.Context, provider categories.Provider, svc *tasks.Service, data Data, now time.Time) error {
	if provider == nil || svc == nil {
		return fmt.Errorf("%w: nil provider or service", tasks.ErrInvalidArgument)
	}
	if err := Validate(data); err != nil {
		return err
	}
	if err := CheckCategories(ctx, provider, data); err != nil {
		return err
	}

	for _, c := range data.Categories {
		err := provider.Add(ctx, tasks.NewCategory(c.ID, c.Title))
		if err != nil && !errors.Is(err, categories.ErrDuplicate) {
			return fmt.Errorf("adding category %d: %w", c.ID, err)
		}
	}

	for _, ts := range data.Tasks {
		t, err := build(ctx, provider, ts, now)
		if err != nil {
			return err
		}
		if err := svc.Load(t, ts.Scheduled); err != nil {
			return fmt.Errorf("loading task %d: %w", ts.ID, err)
		}
	}
	return nil
}

func build(ctx context.Context, provider categories.Provider, ts TaskSeed, now time.Time) (*tasks.Task, error) {
	var cat *tasks.Category
	if ts.CategoryID != 0 {
		c, err := provider.Get(ctx, ts.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", ts.ID, err)
		}
		cat = c
	}

	importance, err := tasks.ParseImportance(ts.Importance)
	if err != nil {
		return nil, fmt.Errorf("task %d: %w", ts.ID, err)
	}

	deadline, err := resolveDeadline(ts, now)
	if err != nil {
		return nil, fmt.Errorf("task %d: %w", ts.ID, err)
	}

	t := tasks.NewTask(ts.ID, ts.Description, cat, deadline, importance)
	t.Completed = ts.Completed
	return t, nil
}

func resolveDeadline(ts TaskSeed, now time.Time) (time.Time, error) {
	if ts.DueCron != "" {
		return scheduler.Next(ts.DueCron, now)
	}
	return parseDeadline(ts.Deadline, now.Location())
}

func parseDeadline(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(DeadlineLayout, s, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, fmt.Errorf("invalid deadline %q (use %q or RFC3339)", s, DeadlineLayout)
}

// FromTasks captures tasks and cats as seed data, marking the tasks in
// scheduled as queued.
func FromTasks(cats []*tasks.Category, all []*tasks.Task, scheduled []*tasks.Task) Data {
	queued := make(map[int]bool, len(scheduled))
	for _, t := range scheduled {
		queued[t.ID()] = true
	}

	data := Data{
		Categories: make([]CategorySeed, 0, len(cats)),
		Tasks:      make([]TaskSeed, 0, len(all)),
	}
	for _, c := range cats {
		data.Categories = append(data.Categories, CategorySeed{ID: c.ID(), Title: c.Title})
	}
	for _, t := range all {
		data.Tasks = append(data.Tasks, TaskSeed{
			ID:          t.ID(),
			Description: t.Description,
			CategoryID:  t.CategoryID(),
			Deadline:    t.Deadline.Format(DeadlineLayout),
			Importance:  t.Importance.Slug(),
			Completed:   t.Completed,
			Scheduled:   queued[t.ID()],
		})
	}
	return data
}
