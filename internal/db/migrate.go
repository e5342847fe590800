package db

import (
	"rehabtrack/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Project{},
		&models.BudgetItem{},
		&models.Vendor{},
		&models.Draw{},
		&models.CostReference{},
		&models.ProjectSnapshot{},
		&models.ChangeEvent{},
		&models.SystemSetting{},
	)
}
