package infra

import (
	"fmt"
	"io/fs"
	"sort"

	"bogogo/migrations"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a GORM connection backed by pgx. TranslateError is on so
// repositories and services can match gorm.ErrDuplicatedKey and
// gorm.ErrForeignKeyViolated instead of driver codes.
//
// AutoMigrate is not used: the schema, including the reporting views, lives
// in migrations/ and is applied by RunMigrations.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return db, nil
}

// RunMigrations applies every embedded *.up.sql file in name order. Each file
// is idempotent (IF NOT EXISTS / CREATE OR REPLACE / ON CONFLICT), so running
// it on an already migrated database is a no-op.
func RunMigrations(db *gorm.DB) error {
	return applySQLFiles(db, migrations.FS)
}

func applySQLFiles(db *gorm.DB, fsys fs.FS) error {
	names, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		sql, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
		if err := db.Exec(string(sql)).Error; err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
	}
	return nil
}
