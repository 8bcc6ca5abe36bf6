// Package categories stores the task categories the rest of taskboard looks
// up by id.
package categories

import (
	"context"
	"fmt"
	"io"

	"github.com/marcus/taskboard/internal/config"
	"github.com/marcus/taskboard/internal/db"
	"github.com/marcus/taskboard/internal/tasks"
)

// ErrDuplicate is returned by Add when the id is already taken.
var ErrDuplicate = fmt.Errorf("%w: duplicate category id", tasks.ErrInvalidArgument)

// Provider is a category store. Implementations return the same *Category
// for an id across calls, so a rename is visible through every task that
// refers to it.
type Provider interface {
	List(ctx context.Context) ([]*tasks.Category, error)
	Get(ctx context.Context, id int) (*tasks.Category, error)
	Add(ctx context.Context, c *tasks.Category) error
	Update(ctx context.Context, c *tasks.Category) error
	Delete(ctx context.Context, id int) error
	NextID(ctx context.Context) (int, error)
}

// DefaultCategories returns the stock category set.
func DefaultCategories() []*tasks.Category {
	return []*tasks.Category{
		tasks.NewCategory(1, "Work"),
		tasks.NewCategory(2, "Personal"),
		tasks.NewCategory(3, "Study"),
		tasks.NewCategory(4, "Health"),
		tasks.NewCategory(5, "Shopping"),
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// Open builds the store selected by cfg. The returned closer releases the
// backing database, if any.
func Open(ctx context.Context, cfg config.CategoriesConfig) (Provider, io.Closer, error) {
	switch cfg.Backend {
	case "", config.BackendMemory:
		return NewMemoryStore(), closerFunc(func() error { return nil }), nil
	case config.BackendSQLite:
		path := cfg.DBPath
		if path == "" {
			path = config.DefaultDBPath
		}
		database, err := db.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening category db: %w", err)
		}
		store, err := NewSQLiteStore(ctx, database)
		if err != nil {
			_ = database.Close()
			return nil, nil, err
		}
		return store, database, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrInvalidBackend, cfg.Backend)
	}
}

func notFound(id int) error {
	return fmt.Errorf("%w: category %d", tasks.ErrNotFound, id)
}

func duplicate(id int) error {
	return fmt.Errorf("%w %d", ErrDuplicate, id)
}

func nilCategory() error {
	return fmt.Errorf("%w: nil category", tasks.ErrInvalidArgument)
}
