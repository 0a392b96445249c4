package app

import (
	"sync"
	"time"

	"github.com/opencampus/wolfcafe/internal/domain"
	"github.com/spf13/cast"
	"gorm.io/gorm"
)

const settingsCacheTTL = 30 * time.Second

// ConfigManager reads runtime settings from the sys_config table with a
// short-lived cache in front.
type ConfigManager struct {
	db       *gorm.DB
	mu       sync.RWMutex
	cache    map[string]string
	loadedAt time.Time
}

func NewConfigManager(db *gorm.DB) *ConfigManager {
	return &ConfigManager{db: db, cache: make(map[string]string)}
}

func (m *ConfigManager) load() map[string]string {
	m.mu.RLock()
	if time.Since(m.loadedAt) < settingsCacheTTL {
		cache := m.cache
		m.mu.RUnlock()
		return cache
	}
	m.mu.RUnlock()

	var rows []domain.SysConfig
	if err := m.db.Find(&rows).Error; err != nil {
		return m.cache
	}
	cache := make(map[string]string, len(rows))
	for _, row := range rows {
		cache[row.Type+"."+row.Name] = row.Value
	}

	m.mu.Lock()
	m.cache = cache
	m.loadedAt = time.Now()
	m.mu.Unlock()
	return cache
}

func (m *ConfigManager) GetString(category, name string) string {
	return m.load()[category+"."+name]
}

func (m *ConfigManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(m.load()[category+"."+name])
}

func (m *ConfigManager) GetBool(category, name string) bool {
	return cast.ToBool(m.load()[category+"."+name])
}

// SetValue updates a setting row and invalidates the cache.
func (m *ConfigManager) SetValue(category, name, value string) error {
	err := m.db.Model(&domain.SysConfig{}).
		Where("type = ? and name = ?", category, name).
		Update("value", value).Error
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.loadedAt = time.Time{}
	m.mu.Unlock()
	return nil
}
