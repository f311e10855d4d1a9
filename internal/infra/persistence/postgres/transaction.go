package postgres

import (
	"context"

	"gorm.io/gorm"

	"plantcare/internal/domain/repository"
)

// gormTransactionManager implements repository.TransactionManager using GORM transactions.
type gormTransactionManager struct {
	db *gorm.DB
}

// NewTransactionManager creates a new transaction manager.
func NewTransactionManager(db *gorm.DB) repository.TransactionManager {
	return &gormTransactionManager{db: db}
}

// Execute runs the given function within a database transaction. The factory
// passed to fn builds repositories bound to the transactional connection, so
// every operation inside fn commits or rolls back as one unit.
func (tm *gormTransactionManager) Execute(ctx context.Context, fn func(txRepoFactory repository.RepositoryFactory) error) error {
	// Repository methods already map driver errors to domain errors, so the
	// callback's error is returned untouched after the rollback.
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepositoryFactory{tx: tx})
	})
}

// gormRepositoryFactory builds repositories bound to a single transaction.
type gormRepositoryFactory struct {
	tx *gorm.DB
}

func (f *gormRepositoryFactory) UserRepo() repository.UserRepository {
	return NewUserRepository(f.tx)
}

func (f *gormRepositoryFactory) PlantRepo() repository.PlantRepository {
	return NewPlantRepository(f.tx)
}

func (f *gormRepositoryFactory) DiseaseRepo() repository.DiseaseRepository {
	return NewDiseaseRepository(f.tx)
}

func (f *gormRepositoryFactory) AccessTokenRepo() repository.AccessTokenRepository {
	return NewAccessTokenRepository(f.tx)
}
