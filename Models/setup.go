package Models

import (
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"Traxovo/Logger"
)

var DB *gorm.DB

// Connect opens the database and migrates the schema. MySQL is used when
// TRAXOVO_MYSQL_DSN is set, otherwise a local SQLite file — the same
// deployment split the rest of the fleet stack uses.
func Connect() error {
	if err := godotenv.Load(".env"); err != nil {
		Logger.Log.Debugw("no .env file, relying on environment", "error", err)
	}

	var err error
	if dsn := os.Getenv("TRAXOVO_MYSQL_DSN"); dsn != "" {
		DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	} else {
		path := os.Getenv("TRAXOVO_DB_PATH")
		if path == "" {
			path = "database.db"
		}
		DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	}
	if err != nil {
		return err
	}

	if err := DB.AutoMigrate(
		&User{},
		&Driver{},
		&ReconciliationRun{},
	); err != nil {
		return err
	}

	Logger.Log.Infow("database connected")
	return nil
}

// RosterNames returns the driver roster as the candidate list for identity
// matching.
func RosterNames() []string {
	var drivers []Driver
	if err := DB.Order("name").Find(&drivers).Error; err != nil {
		Logger.Log.Warnw("roster unavailable", "error", err)
		return nil
	}
	names := make([]string, 0, len(drivers))
	for _, d := range drivers {
		names = append(names, d.Name)
	}
	return names
}
