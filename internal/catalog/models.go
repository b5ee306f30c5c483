package catalog

import "time"

// CastMember is one billed actor of a movie
type CastMember struct {
	Name string `json:"name" yaml:"name"`
	Role string `json:"role" yaml:"role"`
}

// Movie is a title that can be booked. Movies are loaded once at startup
// and never change afterwards.
type Movie struct {
	ID         int          `json:"id" yaml:"id"`
	Title      string       `json:"title" yaml:"title"`
	Genre      string       `json:"genre" yaml:"genre"`
	Rating     string       `json:"rating" yaml:"rating"` // content rating: U, U/A, A
	Status     string       `json:"status" yaml:"status"`
	PosterURL  string       `json:"poster_url" yaml:"poster"`
	Duration   string       `json:"duration" yaml:"duration"`
	IMDbRating string       `json:"imdb_rating" yaml:"imdb_rating"`
	Cast       []CastMember `json:"cast" yaml:"cast"`
}

// ScreenClass is a screen with its ticket price in whole rupees
type ScreenClass struct {
	Code     string `json:"code" yaml:"code"`
	Class    string `json:"class" yaml:"class"`
	Price    int    `json:"price" yaml:"price"`
	Capacity int    `json:"capacity" yaml:"capacity"`
}

// Catalog is the full read-only data set
type Catalog struct {
	Movies  []Movie       `yaml:"movies"`
	Screens []ScreenClass `yaml:"screens"`
}

// Database records, used when the catalog is served from Postgres

type MovieRecord struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	Title      string       `gorm:"size:255;not null;uniqueIndex" json:"title"`
	Genre      string       `gorm:"size:100" json:"genre"`
	Rating     string       `gorm:"size:8" json:"rating"`
	Status     string       `gorm:"size:50;default:'Now Showing'" json:"status"`
	PosterURL  string       `gorm:"size:500" json:"poster_url"`
	Duration   string       `gorm:"size:20" json:"duration"`
	IMDbRating string       `gorm:"column:imdb_rating;size:8" json:"imdb_rating"`
	Cast       []CastRecord `gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE" json:"cast"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

func (MovieRecord) TableName() string {
	return "movies"
}

type CastRecord struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	MovieID  uint   `gorm:"not null;index" json:"movie_id"`
	Position int    `gorm:"not null;default:0" json:"position"`
	Name     string `gorm:"size:255;not null" json:"name"`
	Role     string `gorm:"size:255" json:"role"`
}

func (CastRecord) TableName() string {
	return "movie_cast"
}

type ScreenRecord struct {
	Code     string `gorm:"primaryKey;size:4" json:"code"`
	Class    string `gorm:"size:50;not null" json:"class"`
	Price    int    `gorm:"not null" json:"price"`
	Capacity int    `gorm:"not null" json:"capacity"`
}

func (ScreenRecord) TableName() string {
	return "screens"
}

func (r MovieRecord) toMovie() Movie {
	cast := make([]CastMember, 0, len(r.Cast))
	for _, c := range r.Cast {
		cast = append(cast, CastMember{Name: c.Name, Role: c.Role})
	}
	return Movie{
		ID:         int(r.ID),
		Title:      r.Title,
		Genre:      r.Genre,
		Rating:     r.Rating,
		Status:     r.Status,
		PosterURL:  r.PosterURL,
		Duration:   r.Duration,
		IMDbRating: r.IMDbRating,
		Cast:       cast,
	}
}

func movieRecordFrom(m Movie) MovieRecord {
	cast := make([]CastRecord, 0, len(m.Cast))
	for i, c := range m.Cast {
		cast = append(cast, CastRecord{Position: i, Name: c.Name, Role: c.Role})
	}
	return MovieRecord{
		ID:         uint(m.ID),
		Title:      m.Title,
		Genre:      m.Genre,
		Rating:     m.Rating,
		Status:     m.Status,
		PosterURL:  m.PosterURL,
		Duration:   m.Duration,
		IMDbRating: m.IMDbRating,
		Cast:       cast,
	}
}

func (r ScreenRecord) toScreen() ScreenClass {
	return ScreenClass{Code: r.Code, Class: r.Class, Price: r.Price, Capacity: r.Capacity}
}
