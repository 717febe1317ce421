package models

import "gorm.io/gorm"

// All lists every persisted entity in migration order.
func All() []any {
	return []any{
		&User{},
		&Tag{},
		&Team{},
		&Player{},
		&Tournament{},
		&Venue{},
		&Match{},
		&News{},
		&Newsletter{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
