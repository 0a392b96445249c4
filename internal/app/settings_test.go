package app

import (
	"fmt"
	"testing"

	"github.com/opencampus/wolfcafe/internal/domain"
	"github.com/opencampus/wolfcafe/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newSettingsDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.SysConfig{}))
	return db
}

func TestConfigManager(t *testing.T) {
	db := newSettingsDB(t)
	for _, row := range []domain.SysConfig{
		{ID: common.UUIDint64(), Type: "system", Name: "SystemTitle", Value: "WolfCafe"},
		{ID: common.UUIDint64(), Type: "system", Name: "OprLogRetainDays", Value: "90"},
		{ID: common.UUIDint64(), Type: "cafe", Name: "KioskMode", Value: "true"},
	} {
		require.NoError(t, db.Create(&row).Error)
	}

	m := NewConfigManager(db)
	assert.Equal(t, "WolfCafe", m.GetString("system", "SystemTitle"))
	assert.EqualValues(t, 90, m.GetInt64("system", "OprLogRetainDays"))
	assert.True(t, m.GetBool("cafe", "KioskMode"))
	assert.Equal(t, "", m.GetString("system", "Missing"))

	// SetValue invalidates the read cache
	require.NoError(t, m.SetValue("system", "SystemTitle", "Night Owl Cafe"))
	assert.Equal(t, "Night Owl Cafe", m.GetString("system", "SystemTitle"))
}
