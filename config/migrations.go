package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
	"p9e.in/omreport/models"
)

// Migrations are purely additive: every step creates what is missing and
// never drops or rewrites existing rows, so a device upgrades in place
// without losing saved reports.
func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "01072025_create_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &models.Template{}, &models.Report{})
			},
		},
		{
			ID: "18072025_add_settings_table",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Setting{})
			},
		},
	})
	return m.Migrate()
}
