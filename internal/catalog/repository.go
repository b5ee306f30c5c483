package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

type Repository interface {
	Load(ctx context.Context) (*Catalog, error)
}

// yamlRepository serves a catalog parsed from YAML
type yamlRepository struct {
	data []byte
}

// NewEmbeddedRepository serves the catalog compiled into the binary
func NewEmbeddedRepository() Repository {
	return &yamlRepository{data: embeddedCatalog}
}

// NewYAMLRepository serves a catalog from raw YAML
func NewYAMLRepository(data []byte) Repository {
	return &yamlRepository{data: data}
}

func (r *yamlRepository) Load(_ context.Context) (*Catalog, error) {
	return ParseCatalog(r.data)
}

// ParseCatalog decodes and validates a YAML catalog
func ParseCatalog(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := cat.validate(); err != nil {
		return nil, err
	}
	cat.sort()
	return &cat, nil
}

// EmbeddedCatalog returns the catalog compiled into the binary
func EmbeddedCatalog() (*Catalog, error) {
	return ParseCatalog(embeddedCatalog)
}

// repository serves the catalog from Postgres
type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Load(ctx context.Context) (*Catalog, error) {
	var movies []MovieRecord
	err := r.db.WithContext(ctx).
		Preload("Cast", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("id ASC").
		Find(&movies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load movies: %w", err)
	}

	var screens []ScreenRecord
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&screens).Error; err != nil {
		return nil, fmt.Errorf("failed to load screens: %w", err)
	}

	cat := &Catalog{
		Movies:  make([]Movie, 0, len(movies)),
		Screens: make([]ScreenClass, 0, len(screens)),
	}
	for _, m := range movies {
		cat.Movies = append(cat.Movies, m.toMovie())
	}
	for _, s := range screens {
		cat.Screens = append(cat.Screens, s.toScreen())
	}

	if err := cat.validate(); err != nil {
		return nil, err
	}
	cat.sort()
	return cat, nil
}

// Seed writes cat into Postgres, replacing rows with the same keys
func Seed(ctx context.Context, db *gorm.DB, cat *Catalog) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, s := range cat.Screens {
			rec := ScreenRecord{Code: s.Code, Class: s.Class, Price: s.Price, Capacity: s.Capacity}
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error; err != nil {
				return fmt.Errorf("failed to seed screen %s: %w", s.Code, err)
			}
		}

		for _, m := range cat.Movies {
			rec := movieRecordFrom(m)
			cast := rec.Cast
			rec.Cast = nil

			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error; err != nil {
				return fmt.Errorf("failed to seed movie %d: %w", m.ID, err)
			}
			if err := tx.Where("movie_id = ?", rec.ID).Delete(&CastRecord{}).Error; err != nil {
				return fmt.Errorf("failed to clear cast for movie %d: %w", m.ID, err)
			}
			for i := range cast {
				cast[i].MovieID = rec.ID
			}
			if len(cast) > 0 {
				if err := tx.Create(&cast).Error; err != nil {
					return fmt.Errorf("failed to seed cast for movie %d: %w", m.ID, err)
				}
			}
		}
		return nil
	})
}

func (c *Catalog) validate() error {
	if len(c.Screens) == 0 {
		return errors.New("catalog has no screens")
	}

	movieIDs := make(map[int]struct{}, len(c.Movies))
	for _, m := range c.Movies {
		if m.ID <= 0 {
			return fmt.Errorf("movie %q has invalid id %d", m.Title, m.ID)
		}
		if _, dup := movieIDs[m.ID]; dup {
			return fmt.Errorf("duplicate movie id %d", m.ID)
		}
		movieIDs[m.ID] = struct{}{}
	}

	codes := make(map[string]struct{}, len(c.Screens))
	for i, s := range c.Screens {
		code := strings.ToUpper(strings.TrimSpace(s.Code))
		if code == "" {
			return errors.New("screen with empty code")
		}
		if _, dup := codes[code]; dup {
			return fmt.Errorf("duplicate screen code %s", code)
		}
		if s.Price < 0 {
			return fmt.Errorf("screen %s has negative price", code)
		}
		codes[code] = struct{}{}
		c.Screens[i].Code = code
	}
	return nil
}

func (c *Catalog) sort() {
	sort.Slice(c.Movies, func(i, j int) bool { return c.Movies[i].ID < c.Movies[j].ID })
	sort.Slice(c.Screens, func(i, j int) bool { return c.Screens[i].Code < c.Screens[j].Code })
}
