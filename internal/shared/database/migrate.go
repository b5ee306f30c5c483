package database

import (
	"branchdesk/internal/catalog"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&catalog.MovieRecord{},
		&catalog.CastRecord{},
		&catalog.ScreenRecord{},
	)
}
