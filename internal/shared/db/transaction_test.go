package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type ledgerRow struct {
	ID   uint `gorm:"primarykey"`
	Note string
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&ledgerRow{}))
	return db
}

func TestRunInTransaction_CommitsOnSuccess(t *testing.T) {
	gdb := setupTestDB(t)
	tm := NewTransactionManager(gdb)

	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		assert.True(t, InTransaction(ctx))
		return GetTxFromContext(ctx, gdb).Create(&ledgerRow{Note: "kept"}).Error
	})
	require.NoError(t, err)

	var count int64
	gdb.Model(&ledgerRow{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRunInTransaction_RollsBackOnError(t *testing.T) {
	gdb := setupTestDB(t)
	tm := NewTransactionManager(gdb)
	boom := errors.New("boom")

	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		require.NoError(t, GetTxFromContext(ctx, gdb).Create(&ledgerRow{Note: "dropped"}).Error)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	gdb.Model(&ledgerRow{}).Count(&count)
	assert.Zero(t, count)
}

func TestRunInTransaction_NestedCallJoinsOuter(t *testing.T) {
	gdb := setupTestDB(t)
	tm := NewTransactionManager(gdb)

	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		outer := GetTxFromContext(ctx, gdb)
		return tm.RunInTransaction(ctx, func(inner context.Context) error {
			assert.Same(t, outer, GetTxFromContext(inner, gdb))
			return nil
		})
	})
	require.NoError(t, err)
	assert.False(t, InTransaction(context.Background()))
}

func TestAfterID_OrdersAndLimits(t *testing.T) {
	gdb := setupTestDB(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, gdb.Create(&ledgerRow{Note: "r"}).Error)
	}

	var rows []ledgerRow
	require.NoError(t, gdb.Scopes(AfterID(2, 2)).Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, uint(3), rows[0].ID)
	assert.Equal(t, uint(4), rows[1].ID)
}
