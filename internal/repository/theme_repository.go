package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/planetarium-reservation/internal/apperr"
	"github.com/iliyamo/planetarium-reservation/internal/model"
)

type ThemeRepo struct {
	db *sql.DB
}

func NewThemeRepo(db *sql.DB) *ThemeRepo { return &ThemeRepo{db: db} }

// Create inserts a theme and sets t.ID. Theme names are unique.
func (r *ThemeRepo) Create(ctx context.Context, t *model.ShowTheme) error {
	res, err := r.db.ExecContext(ctx, `INSERT INTO show_themes (name) VALUES (?)`, t.Name)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("theme %q: %w", t.Name, apperr.ErrConflict)
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

func (r *ThemeRepo) Update(ctx context.Context, t model.ShowTheme) error {
	res, err := r.db.ExecContext(ctx, `UPDATE show_themes SET name = ? WHERE id = ?`, t.Name, t.ID)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("theme %q: %w", t.Name, apperr.ErrConflict)
		}
		return err
	}
	// MySQL reports zero affected rows when the name is unchanged, so
	// existence is checked separately.
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, t.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *ThemeRepo) GetByID(ctx context.Context, id uint64) (model.ShowTheme, error) {
	var t model.ShowTheme
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM show_themes WHERE id = ?`, id).Scan(&t.ID, &t.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ShowTheme{}, notFound("theme", id)
	}
	return t, err
}

// List returns one page of themes ordered by id and the total count.
func (r *ThemeRepo) List(ctx context.Context, p Page) ([]model.ShowTheme, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM show_themes`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM show_themes ORDER BY id LIMIT ? OFFSET ?`, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := make([]model.ShowTheme, 0, p.Limit)
	for rows.Next() {
		var t model.ShowTheme
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

// Missing returns the ids from the list that do not name a stored theme.
func (r *ThemeRepo) Missing(ctx context.Context, ids []uint64) ([]uint64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM show_themes WHERE id IN (`+placeholders(len(ids))+`)`, idArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	found := map[uint64]bool{}
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	var missing []uint64
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
