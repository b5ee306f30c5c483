package catalog

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmbeddedService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(context.Background(), NewEmbeddedRepository())
	require.NoError(t, err)
	return svc
}

func TestEmbeddedCatalogContents(t *testing.T) {
	svc := newEmbeddedService(t)

	movies := svc.ListMovies()
	require.Len(t, movies, 8)
	for i, m := range movies {
		assert.Equal(t, i+1, m.ID)
		assert.Equal(t, "Now Showing", m.Status)
		assert.Len(t, m.Cast, 2, m.Title)
	}

	want := []ScreenClass{
		{Code: "A", Class: "Gold", Price: 500, Capacity: 150},
		{Code: "B", Class: "Silver", Price: 300, Capacity: 200},
		{Code: "C", Class: "Iron", Price: 200, Capacity: 250},
		{Code: "D", Class: "Iron", Price: 200, Capacity: 250},
	}
	if diff := cmp.Diff(want, svc.ListScreens()); diff != "" {
		t.Errorf("screens mismatch (-want +got):\n%s", diff)
	}
}

func TestGetMovie(t *testing.T) {
	svc := newEmbeddedService(t)

	m, err := svc.GetMovie(2)
	require.NoError(t, err)
	assert.Equal(t, "Eternal Shadows", m.Title)
	assert.Equal(t, "A", m.Rating)
	assert.Equal(t, CastMember{Name: "Tom Hardy", Role: "Detective Blake"}, m.Cast[0])

	_, err = svc.GetMovie(99)
	assert.ErrorIs(t, err, ErrMovieNotFound)
}

func TestGetScreen(t *testing.T) {
	svc := newEmbeddedService(t)

	sc, err := svc.GetScreen("b")
	require.NoError(t, err)
	assert.Equal(t, 300, sc.Price)

	_, err = svc.GetScreen("Z")
	assert.ErrorIs(t, err, ErrUnknownScreen)

	_, err = svc.GetScreen("")
	assert.ErrorIs(t, err, ErrUnknownScreen)
}

func TestListMoviesReturnsCopy(t *testing.T) {
	svc := newEmbeddedService(t)

	movies := svc.ListMovies()
	movies[0].Title = "changed"

	assert.Equal(t, "The Last Guardian", svc.ListMovies()[0].Title)
}

func TestParseCatalogRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "movies: [\n"},
		{"no screens", "movies: []\nscreens: []\n"},
		{"duplicate movie", "movies:\n  - {id: 1, title: a}\n  - {id: 1, title: b}\nscreens:\n  - {code: A, price: 1}\n"},
		{"duplicate screen", "screens:\n  - {code: A, price: 1}\n  - {code: a, price: 2}\n"},
		{"negative price", "screens:\n  - {code: A, price: -5}\n"},
		{"empty code", "screens:\n  - {code: ' ', price: 5}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParseCatalogSortsAndNormalizes(t *testing.T) {
	cat, err := ParseCatalog([]byte(`
movies:
  - {id: 3, title: c}
  - {id: 1, title: a}
screens:
  - {code: b, class: Silver, price: 300}
  - {code: a, class: Gold, price: 500}
`))
	require.NoError(t, err)

	assert.Equal(t, 1, cat.Movies[0].ID)
	assert.Equal(t, "A", cat.Screens[0].Code)
	assert.Equal(t, "B", cat.Screens[1].Code)
}
