package database

import (
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/pageza/feedback/backend/internal/models"
)

// tables lists every model owned by the application
var tables = []interface{}{
	&models.Feedback{},
}

// CreateAll creates all tables that do not exist yet. Safe to repeat.
func CreateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(tables...); err != nil {
		return errors.Wrap(err, "creating tables")
	}
	grip.Info(message.Fields{
		"message": "tables created",
		"dialect": db.Dialector.Name(),
		"tables":  len(tables),
	})
	return nil
}

// DropAll drops every application table along with its data
func DropAll(db *gorm.DB) error {
	if err := db.Migrator().DropTable(tables...); err != nil {
		return errors.Wrap(err, "dropping tables")
	}
	grip.Info(message.Fields{
		"message": "tables dropped",
		"dialect": db.Dialector.Name(),
		"tables":  len(tables),
	})
	return nil
}
