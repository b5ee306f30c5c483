package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMovieNotFound = errors.New("movie not found")
	ErrUnknownScreen = errors.New("unknown screen")
)

type Service interface {
	ListMovies() []Movie
	GetMovie(id int) (*Movie, error)
	ListScreens() []ScreenClass
	GetScreen(code string) (ScreenClass, error)
}

type service struct {
	movies      []Movie
	moviesByID  map[int]Movie
	screens     []ScreenClass
	screensByID map[string]ScreenClass
}

// NewService loads the catalog once; it is read-only afterwards
func NewService(ctx context.Context, repo Repository) (Service, error) {
	cat, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return newService(cat), nil
}

func newService(cat *Catalog) *service {
	s := &service{
		movies:      cat.Movies,
		moviesByID:  make(map[int]Movie, len(cat.Movies)),
		screens:     cat.Screens,
		screensByID: make(map[string]ScreenClass, len(cat.Screens)),
	}
	for _, m := range cat.Movies {
		s.moviesByID[m.ID] = m
	}
	for _, sc := range cat.Screens {
		s.screensByID[sc.Code] = sc
	}
	return s
}

func (s *service) ListMovies() []Movie {
	out := make([]Movie, len(s.movies))
	copy(out, s.movies)
	return out
}

func (s *service) GetMovie(id int) (*Movie, error) {
	m, ok := s.moviesByID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrMovieNotFound, id)
	}
	return &m, nil
}

func (s *service) ListScreens() []ScreenClass {
	out := make([]ScreenClass, len(s.screens))
	copy(out, s.screens)
	return out
}

// GetScreen looks a screen up by code, case-insensitively
func (s *service) GetScreen(code string) (ScreenClass, error) {
	sc, ok := s.screensByID[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return ScreenClass{}, fmt.Errorf("%w: %q", ErrUnknownScreen, code)
	}
	return sc, nil
}
