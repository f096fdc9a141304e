package storage

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Dutrix96/batalla/internal/game"
)

// OpenAndMigrate opens the SQLite database, keeps the schema updated via
// AutoMigrate and seeds the character catalog from the config file. The
// config is the source of truth for template stats: existing rows are
// refreshed by name on every startup so a tuning change lands without manual
// migration, while battles keep their frozen snapshots.
func OpenAndMigrate(dataSourceName string, charactersFromConfig []game.Character) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&game.Character{},
		&game.User{},
		&game.Battle{},
		&game.Participant{},
	); err != nil {
		return nil, err
	}

	if err := seedCharacters(db, charactersFromConfig); err != nil {
		return nil, err
	}
	return db, nil
}

func seedCharacters(db *gorm.DB, characters []game.Character) error {
	if len(characters) == 0 {
		return nil
	}
	// upsert by unique name so config edits update stats in place
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"max_hp", "attack", "required_level", "updated_at",
		}),
	}).Create(&characters).Error
}
