// Package db bootstraps the relational store: connection, schema migration,
// and first-run seeding.
package db

import (
	"fmt"
	"os"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the migrate database drivers and file source.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/corarez/salt-factory-app-sub000/internal/models"
)

// Default credentials for the seed account created on an empty database.
// The password must be changed through the password-change endpoint.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

// ConnectAndMigrate opens the database named by dsn, brings the schema up to
// date, and seeds the default admin account when the admins table is empty.
// MIGRATIONS=1 switches from gorm AutoMigrate to SQL migrations in
// ./migrations.
func ConnectAndMigrate(dsn string, log *logrus.Logger) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database DSN is empty, check the environment configuration")
	}
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var db *gorm.DB
	var err error
	for i := 0; i < 5; i++ {
		db, err = gorm.Open(dialector(dsn), cfg)
		if err == nil {
			break
		}
		log.WithError(err).Warn("retrying database connection")
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}
	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	if v := strings.ToLower(os.Getenv("MIGRATIONS")); v == "1" || v == "true" || v == "yes" {
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		modelsToMigrate := []interface{}{
			&models.Arrival{}, &models.Production{}, &models.Sale{},
			&models.Transaction{}, &models.Admin{},
		}
		for _, m := range modelsToMigrate {
			if migErr := db.AutoMigrate(m); migErr != nil {
				return nil, fmt.Errorf("automigrate %T: %w", m, migErr)
			}
		}
	}

	if err := seedDefaultAdmin(db, log); err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}
	return db, nil
}

// seedDefaultAdmin guarantees exactly one known account exists after first
// initialization. It does nothing once any admin row is present.
func seedDefaultAdmin(db *gorm.DB, log *logrus.Logger) error {
	var count int64
	if err := db.Model(&models.Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.Admin{
		FullName: "Administrator",
		Username: DefaultAdminUsername,
		Password: string(hash),
		Role:     models.RoleSuperAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.WithField("username", admin.Username).Info("seeded default admin account")
	return nil
}

// runSQLMigrations executes migrations in ./migrations via golang-migrate.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", migrateDSN(dsn))
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

// migrateDSN maps the gorm DSN to golang-migrate's URL scheme.
func migrateDSN(dsn string) string {
	if IsPostgresDSN(dsn) {
		return NormalizeDSN(dsn)
	}
	return "sqlite3://" + dsn
}
