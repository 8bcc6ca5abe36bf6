package categories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/marcus/taskboard/internal/db"
	"github.com/marcus/taskboard/internal/tasks"
)

// SQLiteStore keeps categories in the categories table. Rows are mirrored in
// an identity map so callers share one *Category per id.
type SQLiteStore struct {
	db *db.DB

	mu   sync.Mutex
	byID map[int]*tasks.Category
}

// NewSQLiteStore wraps an open database.
func NewSQLiteStore(ctx context.Context, database *db.DB) (*SQLiteStore, error) {
	if database == nil || database.SQL() == nil {
		return nil, fmt.Errorf("%w: nil database", tasks.ErrInvalidArgument)
	}
	s := &SQLiteStore{db: database, byID: make(map[int]*tasks.Category)}
	if _, err := s.List(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// intern returns the shared category for id, refreshing its title.
func (s *SQLiteStore) intern(id int, title string) *tasks.Category {
	c, ok := s.byID[id]
	if !ok {
		c = tasks.NewCategory(id, title)
		s.byID[id] = c
	}
	c.Title = title
	return c
}

// List returns all categories in insertion order.
func (s *SQLiteStore) List(ctx context.Context) ([]*tasks.Category, error) {
	rows, err := s.db.SQL().QueryContext(ctx, `SELECT id, title FROM categories ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*tasks.Category
	for rows.Next() {
		var (
			id    int
			title string
		)
		if err := rows.Scan(&id, &title); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		out = append(out, s.intern(id, title))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return out, nil
}

// Get returns the category with id.
func (s *SQLiteStore) Get(ctx context.Context, id int) (*tasks.Category, error) {
	var title string
	err := s.db.SQL().QueryRowContext(ctx, `SELECT title FROM categories WHERE id = ?`, id).Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting category %d: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.intern(id, title), nil
}

// Add inserts c after every existing category.
func (s *SQLiteStore) Add(ctx context.Context, c *tasks.Category) error {
	if c == nil {
		return nilCategory()
	}

	tx, err := s.db.SQL().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin add category: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories WHERE id = ?`, c.ID()).Scan(&exists); err != nil {
		return fmt.Errorf("checking category %d: %w", c.ID(), err)
	}
	if exists > 0 {
		return duplicate(c.ID())
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO categories (id, title, position) VALUES (?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM categories))`,
		c.ID(), c.Title)
	if err != nil {
		return fmt.Errorf("inserting category %d: %w", c.ID(), err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit add category: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[c.ID()]; !ok {
		s.byID[c.ID()] = c
	}
	s.byID[c.ID()].Title = c.Title
	return nil
}

// Update renames the category with c's id.
func (s *SQLiteStore) Update(ctx context.Context, c *tasks.Category) error {
	if c == nil {
		return nilCategory()
	}
	res, err := s.db.SQL().ExecContext(ctx, `UPDATE categories SET title = ? WHERE id = ?`, c.Title, c.ID())
	if err != nil {
		return fmt.Errorf("updating category %d: %w", c.ID(), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating category %d: %w", c.ID(), err)
	}
	if n == 0 {
		return notFound(c.ID())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.intern(c.ID(), c.Title)
	return nil
}

// Delete removes the category with id.
func (s *SQLiteStore) Delete(ctx context.Context, id int) error {
	res, err := s.db.SQL().ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting category %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting category %d: %w", id, err)
	}
	if n == 0 {
		return notFound(id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
	return nil
}

// NextID returns one more than the largest stored id.
func (s *SQLiteStore) NextID(ctx context.Context) (int, error) {
	var maxID int
	if err := s.db.SQL().QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) FROM categories`).Scan(&maxID); err != nil {
		return 0, fmt.Errorf("next category id: %w", err)
	}
	return maxID + 1, nil
}
