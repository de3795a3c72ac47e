package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/planetarium-reservation/internal/apperr"
	"github.com/iliyamo/planetarium-reservation/internal/model"
)

// ShowFilter narrows a show listing. Title is a case-insensitive substring;
// a show matches ThemeIDs if it carries any one of them. Empty fields do
// not filter.
type ShowFilter struct {
	Title    string
	ThemeIDs []uint64
	Page
}

// ShowRepo persists astronomy shows and their theme links.
type ShowRepo struct {
	db *sql.DB
}

func NewShowRepo(db *sql.DB) *ShowRepo { return &ShowRepo{db: db} }

// CreateTx inserts the show row and sets s.ID.
func (r *ShowRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.AstronomyShow) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO astronomy_shows (title, description, duration, image) VALUES (?, ?, ?, ?)`,
		s.Title, s.Description, s.Duration, nullString(s.Image))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// UpdateTx changes title, description and duration. The image is managed
// through SetImage only.
func (r *ShowRepo) UpdateTx(ctx context.Context, tx *sql.Tx, s model.AstronomyShow) error {
	var exists int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM astronomy_shows WHERE id = ? FOR UPDATE`, s.ID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return notFound("astronomy show", s.ID)
	}
	_, err := tx.ExecContext(ctx,
		`UPDATE astronomy_shows SET title = ?, description = ?, duration = ? WHERE id = ?`,
		s.Title, s.Description, s.Duration, s.ID)
	return err
}

// SetThemesTx replaces the show's theme set.
func (r *ShowRepo) SetThemesTx(ctx context.Context, tx *sql.Tx, showID uint64, themeIDs []uint64) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM astronomy_show_themes WHERE astronomy_show_id = ?`, showID); err != nil {
		return err
	}
	if len(themeIDs) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO astronomy_show_themes (astronomy_show_id, show_theme_id) VALUES `)
	args := make([]any, 0, len(themeIDs)*2)
	for i, tid := range themeIDs {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?, ?)")
		args = append(args, showID, tid)
	}
	_, err := tx.ExecContext(ctx, sb.String(), args...)
	return err
}

// SetImage stores the relative media path of the show's image.
func (r *ShowRepo) SetImage(ctx context.Context, id uint64, path string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE astronomy_shows SET image = ? WHERE id = ?`, path, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if ok, err := r.Exists(ctx, id); err != nil || !ok {
			if err == nil {
				err = notFound("astronomy show", id)
			}
			return err
		}
	}
	return nil
}

func (r *ShowRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM astronomy_shows WHERE id = ?`, id).Scan(&n)
	return n > 0, err
}

// GetByID returns the show with its themes.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (model.AstronomyShow, error) {
	var (
		s   model.AstronomyShow
		img sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, description, duration, image FROM astronomy_shows WHERE id = ?`, id).
		Scan(&s.ID, &s.Title, &s.Description, &s.Duration, &img)
	if errors.Is(err, sql.ErrNoRows) {
		return model.AstronomyShow{}, notFound("astronomy show", id)
	}
	if err != nil {
		return model.AstronomyShow{}, err
	}
	s.Image = stringPtr(img)
	shows := []model.AstronomyShow{s}
	if err := r.attachThemes(ctx, shows); err != nil {
		return model.AstronomyShow{}, err
	}
	return shows[0], nil
}

// List returns the page of shows matching f, ordered by id, and the total
// number of matches. The theme filter uses EXISTS so a show carrying several
// of the requested themes appears once.
func (r *ShowRepo) List(ctx context.Context, f ShowFilter) ([]model.AstronomyShow, int, error) {
	var (
		where []string
		args  []any
	)
	if t := strings.TrimSpace(f.Title); t != "" {
		where = append(where, "LOWER(s.title) LIKE ?")
		args = append(args, "%"+escapeLike(strings.ToLower(t))+"%")
	}
	if len(f.ThemeIDs) > 0 {
		where = append(where, `EXISTS (SELECT 1 FROM astronomy_show_themes ast
			WHERE ast.astronomy_show_id = s.id AND ast.show_theme_id IN (`+placeholders(len(f.ThemeIDs))+`))`)
		args = append(args, idArgs(f.ThemeIDs)...)
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM astronomy_shows s`+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT s.id, s.title, s.description, s.duration, s.image FROM astronomy_shows s`+cond+
			` ORDER BY s.id LIMIT ? OFFSET ?`,
		append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	shows := make([]model.AstronomyShow, 0, f.Limit)
	for rows.Next() {
		var (
			s   model.AstronomyShow
			img sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.Duration, &img); err != nil {
			return nil, 0, err
		}
		s.Image = stringPtr(img)
		shows = append(shows, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := r.attachThemes(ctx, shows); err != nil {
		return nil, 0, err
	}
	return shows, total, nil
}

// DeleteTx removes a show. It fails with apperr.ErrConflict while any
// session references the show.
func (r *ShowRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	var exists int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM astronomy_shows WHERE id = ? FOR UPDATE`, id).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return notFound("astronomy show", id)
	}
	var sessions int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM show_sessions WHERE astronomy_show_id = ?`, id).Scan(&sessions); err != nil {
		return err
	}
	if sessions > 0 {
		return fmt.Errorf("astronomy show %d has %d show sessions: %w", id, sessions, apperr.ErrConflict)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM astronomy_show_themes WHERE astronomy_show_id = ?`, id); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `DELETE FROM astronomy_shows WHERE id = ?`, id)
	return err
}

func (r *ShowRepo) attachThemes(ctx context.Context, shows []model.AstronomyShow) error {
	if len(shows) == 0 {
		return nil
	}
	index := make(map[uint64]int, len(shows))
	ids := make([]uint64, len(shows))
	for i, s := range shows {
		index[s.ID] = i
		ids[i] = s.ID
		shows[i].Themes = []model.ShowTheme{}
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT ast.astronomy_show_id, t.id, t.name FROM astronomy_show_themes ast
		 JOIN show_themes t ON t.id = ast.show_theme_id
		 WHERE ast.astronomy_show_id IN (`+placeholders(len(ids))+`) ORDER BY t.id`,
		idArgs(ids)...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			showID uint64
			t      model.ShowTheme
		)
		if err := rows.Scan(&showID, &t.ID, &t.Name); err != nil {
			return err
		}
		if i, ok := index[showID]; ok {
			shows[i].Themes = append(shows[i].Themes, t)
		}
	}
	return rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
