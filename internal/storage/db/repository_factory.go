package db

import (
	"github.com/sensusai/sensus-server/internal/database/repositories"
	"gorm.io/gorm"
)

type RepositoryFactory struct {
	db *gorm.DB
}

func NewRepositoryFactory(db *gorm.DB) *RepositoryFactory {
	return &RepositoryFactory{
		db: db,
	}
}

func NewRepositoryFactoryFromManager(manager *DBManager) *RepositoryFactory {
	return &RepositoryFactory{
		db: manager.GetDB(),
	}
}

func (f *RepositoryFactory) RecordingRepository() *repositories.RecordingRepository {
	return repositories.NewRecordingRepository(f.db)
}
