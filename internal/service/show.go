package service

import (
	"context"
	"database/sql"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/planetarium-reservation/internal/apperr"
	"github.com/iliyamo/planetarium-reservation/internal/model"
	"github.com/iliyamo/planetarium-reservation/internal/repository"
)

// ShowInput is the writable part of an astronomy show.
type ShowInput struct {
	Title       string
	Description string
	Duration    int
	ThemeIDs    []uint64
}

// ShowDetail is a show with its next sessions.
type ShowDetail struct {
	model.AstronomyShow
	FutureSessions []model.SessionSummary
}

type ShowService struct {
	db           *sql.DB
	shows        *repository.ShowRepo
	themes       *repository.ThemeRepo
	availability *AvailabilityService
	media        *MediaStore
	log          *zap.Logger
}

func NewShowService(db *sql.DB, shows *repository.ShowRepo, themes *repository.ThemeRepo,
	availability *AvailabilityService, media *MediaStore, log *zap.Logger) *ShowService {
	return &ShowService{db: db, shows: shows, themes: themes, availability: availability, media: media, log: log}
}

// removeImage deletes a stored image file. The database row no longer
// points at it, so a failure leaves an orphan file and is only logged.
func (s *ShowService) removeImage(showID uint64, rel string) {
	if err := s.media.Remove(rel); err != nil {
		s.log.Warn("remove show image failed",
			zap.Uint64("show_id", showID), zap.String("path", rel), zap.Error(err))
	}
}

func (s *ShowService) validate(ctx context.Context, in ShowInput) error {
	missing, err := s.themes.Missing(ctx, in.ThemeIDs)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return apperr.Invalid("show_theme", "Invalid pk \"%d\" - object does not exist.", missing[0])
	}
	return nil
}

// Create stores the show and its theme links in one transaction.
func (s *ShowService) Create(ctx context.Context, in ShowInput) (model.AstronomyShow, error) {
	in.ThemeIDs = dedupe(in.ThemeIDs)
	if err := s.validate(ctx, in); err != nil {
		return model.AstronomyShow{}, err
	}
	show := model.AstronomyShow{Title: strings.TrimSpace(in.Title), Description: in.Description, Duration: in.Duration}
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.shows.CreateTx(ctx, tx, &show); err != nil {
			return err
		}
		return s.shows.SetThemesTx(ctx, tx, show.ID, in.ThemeIDs)
	})
	if err != nil {
		return model.AstronomyShow{}, err
	}
	return s.shows.GetByID(ctx, show.ID)
}

// Update replaces the show's fields and theme set.
func (s *ShowService) Update(ctx context.Context, id uint64, in ShowInput) (model.AstronomyShow, error) {
	in.ThemeIDs = dedupe(in.ThemeIDs)
	if err := s.validate(ctx, in); err != nil {
		return model.AstronomyShow{}, err
	}
	show := model.AstronomyShow{ID: id, Title: strings.TrimSpace(in.Title), Description: in.Description, Duration: in.Duration}
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.shows.UpdateTx(ctx, tx, show); err != nil {
			return err
		}
		return s.shows.SetThemesTx(ctx, tx, id, in.ThemeIDs)
	})
	if err != nil {
		return model.AstronomyShow{}, err
	}
	return s.shows.GetByID(ctx, id)
}

// Detail returns the show with up to FutureSessionsLimit upcoming sessions.
func (s *ShowService) Detail(ctx context.Context, id uint64) (ShowDetail, error) {
	show, err := s.shows.GetByID(ctx, id)
	if err != nil {
		return ShowDetail{}, err
	}
	future, err := s.availability.FutureSessions(ctx, id, FutureSessionsLimit)
	if err != nil {
		return ShowDetail{}, err
	}
	return ShowDetail{AstronomyShow: show, FutureSessions: future}, nil
}

func (s *ShowService) List(ctx context.Context, f repository.ShowFilter) ([]model.AstronomyShow, int, error) {
	f.ThemeIDs = dedupe(f.ThemeIDs)
	return s.shows.List(ctx, f)
}

// Delete is refused with apperr.ErrConflict while sessions reference the show.
func (s *ShowService) Delete(ctx context.Context, id uint64) error {
	show, err := s.shows.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.shows.DeleteTx(ctx, tx, id)
	}); err != nil {
		return err
	}
	if show.Image != nil {
		s.removeImage(id, *show.Image)
	}
	return nil
}

// UploadImage stores a new image for the show and returns the updated show.
// The previous image file, if any, is removed.
func (s *ShowService) UploadImage(ctx context.Context, id uint64, r io.Reader) (model.AstronomyShow, error) {
	show, err := s.shows.GetByID(ctx, id)
	if err != nil {
		return model.AstronomyShow{}, err
	}
	rel, err := s.media.SaveShowImage(show.Title, r)
	if err != nil {
		return model.AstronomyShow{}, err
	}
	if err := s.shows.SetImage(ctx, id, rel); err != nil {
		s.removeImage(id, rel)
		return model.AstronomyShow{}, err
	}
	if show.Image != nil {
		s.removeImage(id, *show.Image)
	}
	show.Image = &rel
	return show, nil
}

func dedupe(ids []uint64) []uint64 {
	if len(ids) == 0 {
		return ids
	}
	seen := make(map[uint64]bool, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
