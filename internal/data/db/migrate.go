package db

import (
	types "github.com/CazadorHJT/MCAT-Prep-App/internal/domain"
	"gorm.io/gorm"
)

// ContentModels are the catalog tables in parent-first order.
func ContentModels() []interface{} {
	return []interface{}{
		&types.Book{},
		&types.Chapter{},
		&types.Question{},
	}
}

// ProgressModels are the learner tables that depend on questions.
func ProgressModels() []interface{} {
	return []interface{}{
		&types.UserProgress{},
		&types.ConceptMastery{},
	}
}

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(ContentModels()...); err != nil {
		return err
	}
	return db.AutoMigrate(ProgressModels()...)
}
