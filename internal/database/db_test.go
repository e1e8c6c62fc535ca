package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"rental-backend/internal/auth"
	"rental-backend/internal/config"
	"rental-backend/internal/database"
	"rental-backend/internal/database/dbtest"
	"rental-backend/internal/logger"
	"rental-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLiteDriver(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", DBDSN: filepath.Join(t.TempDir(), "app.db")}

	db, err := database.Open(cfg, logger.Discard())
	require.NoError(t, err)
	assert.NoError(t, database.Ping(context.Background(), db))
	assert.True(t, db.Migrator().HasTable(&models.Vehicle{}))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := database.Open(&config.Config{DBDriver: "oracle"}, logger.Discard())
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}

func TestSeedDefaultAdmin_OnlyOnce(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	cfg := &config.Config{AdminEmail: "root@rental.local", AdminPassword: "s3cret!!"}

	require.NoError(t, database.SeedDefaultAdmin(ctx, db, cfg, logger.Discard()))
	require.NoError(t, database.SeedDefaultAdmin(ctx, db, cfg, logger.Discard()))

	var admins []models.User
	require.NoError(t, db.Where("role = ?", models.RoleAdmin).Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, "root@rental.local", admins[0].Email)
	assert.True(t, auth.VerifyPassword(admins[0].PasswordHash, "s3cret!!"))
}

func TestSeedDemoData(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	require.NoError(t, database.SeedDemoData(ctx, db, logger.Discard()))
	require.NoError(t, database.SeedDemoData(ctx, db, logger.Discard()))

	var users, vehicles int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Vehicle{}).Count(&vehicles)
	assert.EqualValues(t, 2, users)
	assert.EqualValues(t, 2, vehicles)
}

func TestForeignKeysEnforced(t *testing.T) {
	db := dbtest.New(t)

	err := db.Create(&models.Vehicle{Make: "VW", Model: "Golf", Year: 2019, VIN: "VWGOLF01", RentalPrice: 40, OwnerID: "missing"}).Error
	assert.Error(t, err)
}

func TestAudit_RecordAndRecent(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	audit := database.NewAudit(db, logger.Discard())

	audit.Record(ctx, "u1", "vehicle", "v1", "create", "created VIN1")
	audit.Record(ctx, "u1", "vehicle", "v1", "delete", "")

	logs, err := audit.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "delete", logs[0].Action)
	assert.Equal(t, "create", logs[1].Action)

	logs, err = audit.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestAudit_NilIsNoop(t *testing.T) {
	var audit *database.Audit
	assert.NotPanics(t, func() { audit.Record(context.Background(), "", "user", "", "login", "") })
}
