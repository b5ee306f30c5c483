package catalog

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestRepositoryLoadFromPostgres(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "movies"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "genre", "rating", "status", "poster_url", "duration", "imdb_rating"}).
			AddRow(1, "The Last Guardian", "Action/Sci-Fi", "U/A", "Now Showing", "p1", "2h 35min", "8.5").
			AddRow(2, "Eternal Shadows", "Thriller/Mystery", "A", "Now Showing", "p2", "2h 15min", "8.8"))

	mock.ExpectQuery(`SELECT \* FROM "movie_cast"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "movie_id", "position", "name", "role"}).
			AddRow(1, 1, 0, "Chris Evans", "Commander").
			AddRow(2, 1, 1, "Scarlett Johnson", "Dr. Sarah").
			AddRow(3, 2, 0, "Tom Hardy", "Detective Blake"))

	mock.ExpectQuery(`SELECT \* FROM "screens"`).
		WillReturnRows(sqlmock.NewRows([]string{"code", "class", "price", "capacity"}).
			AddRow("A", "Gold", 500, 150).
			AddRow("B", "Silver", 300, 200))

	cat, err := NewRepository(db).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, cat.Movies, 2)
	assert.Equal(t, "The Last Guardian", cat.Movies[0].Title)
	assert.Equal(t, []CastMember{
		{Name: "Chris Evans", Role: "Commander"},
		{Name: "Scarlett Johnson", Role: "Dr. Sarah"},
	}, cat.Movies[0].Cast)
	assert.Len(t, cat.Movies[1].Cast, 1)

	require.Len(t, cat.Screens, 2)
	assert.Equal(t, ScreenClass{Code: "A", Class: "Gold", Price: 500, Capacity: 150}, cat.Screens[0])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryLoadRequiresScreens(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "movies"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}))
	mock.ExpectQuery(`SELECT \* FROM "screens"`).
		WillReturnRows(sqlmock.NewRows([]string{"code", "class", "price", "capacity"}))

	_, err := NewRepository(db).Load(context.Background())
	assert.Error(t, err)
}

func TestMovieRecordRoundTrip(t *testing.T) {
	cat, err := EmbeddedCatalog()
	require.NoError(t, err)

	for _, m := range cat.Movies {
		rec := movieRecordFrom(m)
		for i := range rec.Cast {
			assert.Equal(t, i, rec.Cast[i].Position)
		}
		assert.Equal(t, m, rec.toMovie())
	}
}
