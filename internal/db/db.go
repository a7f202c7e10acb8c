package db

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/jopotts/canable/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var kvPairRegex = regexp.MustCompile(`(?i)\b(host|user|password|dbname|port|sslmode)=`)

// NormalizeDSN accepts a URL style DSN (postgres://...), a lib/pq key=value
// list, or a sqlite path. It trims quotes and whitespace; for key=value form
// it collapses spacing and supplements sslmode=disable when missing.
func NormalizeDSN(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "\"'")
	if s == "" {
		return s
	}
	if isPostgresURL(s) {
		return s
	}
	if !kvPairRegex.MatchString(s) {
		// Not key=value pairs; treat as a sqlite path, unchanged.
		return s
	}
	cleaned := strings.Join(strings.Fields(s), " ")
	if !strings.Contains(strings.ToLower(cleaned), "sslmode=") {
		cleaned += " sslmode=disable"
	}
	return cleaned
}

// IsPostgres reports whether the DSN selects the postgres driver; everything
// else opens with sqlite.
func IsPostgres(dsn string) bool {
	return isPostgresURL(dsn) || kvPairRegex.MatchString(dsn)
}

func isPostgresURL(dsn string) bool {
	lower := strings.ToLower(dsn)
	return strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://")
}

// Connect opens the database selected by dsn and migrates the schema.
func Connect(rawDSN string) (*gorm.DB, error) {
	dsn := NormalizeDSN(rawDSN)
	if dsn == "" {
		return nil, fmt.Errorf("db: empty DSN, check DATABASE_DSN")
	}
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var conn *gorm.DB
	var err error
	if IsPostgres(dsn) {
		conn, err = gorm.Open(postgres.Open(dsn), cfg)
	} else {
		conn, err = gorm.Open(sqlite.Open(dsn), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("db: open %w", err)
	}
	if err := Migrate(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// Migrate applies the schema for all models.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(&models.User{}, &models.Article{}); err != nil {
		return fmt.Errorf("db: migrate: %w", err)
	}
	return nil
}

// SeedAdmin creates the initial admin account when no user exists yet.
// Password comes from ADMIN_PASSWORD (default "admin", development only).
func SeedAdmin(conn *gorm.DB) error {
	var count int64
	if err := conn.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	admin := models.User{Email: "admin@example.com", Admin: true}
	pw := os.Getenv("ADMIN_PASSWORD")
	if pw == "" {
		pw = "admin"
	}
	if err := admin.SetPassword(pw); err != nil {
		return err
	}
	return conn.Create(&admin).Error
}
