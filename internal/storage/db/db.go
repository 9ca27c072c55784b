package db

import (
	"context"
	"fmt"
	"sync"

	"github.com/sensusai/sensus-server/internal/core/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DBManager provides centralized database connection management
type DBManager struct {
	db   *gorm.DB
	lock sync.RWMutex
}

func NewDBManager() *DBManager {
	return &DBManager{}
}

// Connect opens the database and migrates the recordings table.
func (m *DBManager) Connect(ctx context.Context, dbURL string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	db, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}

	if err := Migrate(db.WithContext(ctx)); err != nil {
		return err
	}

	m.db = db
	return nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Recording{}); err != nil {
		return fmt.Errorf("error migrating database: %w", err)
	}
	return nil
}

func (m *DBManager) GetDB() *gorm.DB {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.db
}

func (m *DBManager) Close() error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.db == nil {
		return nil
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("error getting SQL DB: %w", err)
	}

	return sqlDB.Close()
}

var (
	instance *DBManager
	once     sync.Once
)

func GetDBManager() *DBManager {
	once.Do(func() {
		instance = NewDBManager()
	})
	return instance
}

// Connect connects the global DB instance
func Connect(ctx context.Context, dbURL string) (*gorm.DB, error) {
	dbManager := GetDBManager()
	if err := dbManager.Connect(ctx, dbURL); err != nil {
		return nil, err
	}
	return dbManager.GetDB(), nil
}
