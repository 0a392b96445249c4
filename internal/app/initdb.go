package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/opencampus/wolfcafe/config"
	"github.com/opencampus/wolfcafe/internal/domain"
	"github.com/opencampus/wolfcafe/pkg/common"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func getDatabase(dbCfg config.DBConfig, workdir string) *gorm.DB {
	logLevel := gormlogger.Silent
	if dbCfg.Debug {
		logLevel = gormlogger.Info
	}
	gcfg := &gorm.Config{Logger: gormlogger.Default.LogMode(logLevel)}

	var (
		db  *gorm.DB
		err error
	)
	switch dbCfg.Type {
	case "sqlite":
		dsn := filepath.Join(workdir, dbCfg.Name+".db")
		db, err = gorm.Open(sqlite.Open(dsn), gcfg)
	default:
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=America/New_York",
			dbCfg.Host, dbCfg.User, dbCfg.Passwd, dbCfg.Name, dbCfg.Port)
		db, err = gorm.Open(postgres.Open(dsn), gcfg)
	}
	if err != nil {
		zap.S().Panicf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(dbCfg.MaxConn)
		sqlDB.SetMaxIdleConns(dbCfg.IdleConn)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}
	return db
}

func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "wolfcafe"

	var admin domain.User
	err := a.gormDB.Where("username = ?", superUsername).First(&admin).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		hashed, herr := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
		if herr != nil {
			zap.L().Error("failed to hash default admin password", zap.Error(herr))
			return
		}
		if err := a.gormDB.Create(&domain.User{
			ID:        common.UUIDint64(),
			Realname:  "administrator",
			Username:  superUsername,
			Email:     "admin@wolfcafe.local",
			Password:  string(hashed),
			Role:      domain.RoleAdmin,
			Status:    common.ENABLED,
			Remark:    "super",
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default admin account", zap.String("username", superUsername))
		}
	case err != nil:
		zap.L().Error("failed to query default admin", zap.Error(err))
	}
}

// default runtime settings, created once on an empty database
var defaultSettings = []domain.SysConfig{
	{Type: "system", Name: "SystemTitle", Value: "WolfCafe", Remark: "System title"},
	{Type: "system", Name: "OprLogRetainDays", Value: "90", Remark: "Operation log retention in days"},
	{Type: "cafe", Name: "CurrencySymbol", Value: "$", Remark: "Currency symbol shown by clients"},
}

func (a *Application) checkSettings() {
	for sortid, setting := range defaultSettings {
		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", setting.Type, setting.Name).
			Count(&count)
		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				ID:     common.UUIDint64(),
				Sort:   sortid,
				Type:   setting.Type,
				Name:   setting.Name,
				Value:  setting.Value,
				Remark: setting.Remark,
			})
			zap.L().Info("initialized config",
				zap.String("key", setting.Type+"."+setting.Name),
				zap.String("default", setting.Value))
		}
	}
}

// checkInventory creates the singleton inventory row when the database is
// fresh, so the first stock update has a row to lock.
func (a *Application) checkInventory() {
	var count int64
	a.gormDB.Model(&domain.Inventory{}).Count(&count)
	if count == 0 {
		if err := a.gormDB.Create(&domain.Inventory{ID: common.UUIDint64()}).Error; err != nil {
			zap.L().Error("failed to create inventory row", zap.Error(err))
		} else {
			zap.L().Info("initialized empty inventory")
		}
	}
}
