package service

import (
	"context"
	"strings"

	"github.com/iliyamo/planetarium-reservation/internal/model"
	"github.com/iliyamo/planetarium-reservation/internal/repository"
)

type ThemeService struct {
	themes *repository.ThemeRepo
}

func NewThemeService(themes *repository.ThemeRepo) *ThemeService {
	return &ThemeService{themes: themes}
}

func (s *ThemeService) Create(ctx context.Context, name string) (model.ShowTheme, error) {
	t := model.ShowTheme{Name: strings.TrimSpace(name)}
	if err := s.themes.Create(ctx, &t); err != nil {
		return model.ShowTheme{}, err
	}
	return t, nil
}

func (s *ThemeService) Update(ctx context.Context, id uint64, name string) (model.ShowTheme, error) {
	t := model.ShowTheme{ID: id, Name: strings.TrimSpace(name)}
	if err := s.themes.Update(ctx, t); err != nil {
		return model.ShowTheme{}, err
	}
	return t, nil
}

func (s *ThemeService) Get(ctx context.Context, id uint64) (model.ShowTheme, error) {
	return s.themes.GetByID(ctx, id)
}

func (s *ThemeService) List(ctx context.Context, p repository.Page) ([]model.ShowTheme, int, error) {
	return s.themes.List(ctx, p)
}
