package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"rental-backend/internal/auth"
	"rental-backend/internal/config"
	"rental-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	connectAttempts = 10
	connectBackoff  = 2 * time.Second
)

// Open connects with retries (the database container may still be starting),
// then migrates the schema.
func Open(cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, err
	}

	var db *gorm.DB
	for i := 1; i <= connectAttempts; i++ {
		log.Info("connecting to database", "driver", cfg.DBDriver, "attempt", i, "max_attempts", connectAttempts)

		db, err = gorm.Open(dialector, gormConfig())
		if err == nil {
			break
		}

		log.Warn("failed to connect to database", "error", err)
		time.Sleep(connectBackoff)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to db after %d attempts: %w", connectAttempts, err)
	}
	log.Info("connected to database")

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// OpenSQLite opens a sqlite database without retries. Used for local runs
// and tests; pass "file::memory:" style DSNs for throwaway databases.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(withForeignKeys(dsn)), gormConfig())
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Vehicle{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Ping checks the underlying connection; used by the health endpoint.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "postgres", "":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(withForeignKeys(dsn)), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	}
}

// sqlite leaves foreign keys off unless asked per connection.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

// SeedDefaultAdmin creates the configured admin account unless an admin
// already exists.
func SeedDefaultAdmin(ctx context.Context, db *gorm.DB, cfg *config.Config, log *slog.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash default admin password: %w", err)
	}

	admin := models.User{
		Username:     "admin",
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return fmt.Errorf("create default admin: %w", err)
	}

	log.Info("created default admin user", "email", admin.Email)
	return nil
}

const demoPassword = "password123"

// SeedDemoData inserts two users with a vehicle each, only into an
// otherwise empty users table (besides the seeded admin).
func SeedDemoData(ctx context.Context, db *gorm.DB, log *slog.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", models.RoleUser).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check demo users: %w", err)
	}
	if count > 0 {
		log.Info("database already has users, demo seed skipped")
		return nil
	}

	hash, err := auth.HashPassword(demoPassword)
	if err != nil {
		return err
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := []models.User{
			{Username: "user1", Email: "user1@rental.local", PasswordHash: hash, Role: models.RoleUser},
			{Username: "user2", Email: "user2@rental.local", PasswordHash: hash, Role: models.RoleUser},
		}
		if err := tx.Create(&users).Error; err != nil {
			return fmt.Errorf("seed users: %w", err)
		}

		vehicles := []models.Vehicle{
			{Make: "Tesla", Model: "Model S", Year: 2020, VIN: "TESLA2020VIN001", RentalPrice: 120, OwnerID: users[0].ID},
			{Make: "Ford", Model: "Mustang", Year: 2018, VIN: "FORD2018VIN001", RentalPrice: 85, OwnerID: users[1].ID},
		}
		if err := tx.Create(&vehicles).Error; err != nil {
			return fmt.Errorf("seed vehicles: %w", err)
		}

		log.Info("seeded demo data", "users", len(users), "vehicles", len(vehicles))
		return nil
	})
}
