package postgres

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"plantcare/internal/domain/entity"
	"plantcare/internal/domain/repository"
	"plantcare/internal/infra/persistence/model"
)

// diseaseRepository implements repository.DiseaseRepository using GORM.
// The catalogue is read-only at runtime; rows are seeded by cmd/initdb.
type diseaseRepository struct {
	db *gorm.DB
}

// NewDiseaseRepository is the constructor for diseaseRepository.
func NewDiseaseRepository(db *gorm.DB) repository.DiseaseRepository {
	return &diseaseRepository{db: db}
}

// FindByID retrieves a single catalogue entry.
func (repo *diseaseRepository) FindByID(ctx context.Context, id int64) (*entity.Disease, error) {
	var diseaseM model.DiseaseModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&diseaseM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrDiseaseNotFound
		}

		return nil, errors.Wrap(err, "failed to find disease")
	}

	return &entity.Disease{ID: diseaseM.ID, Type: diseaseM.Type}, nil
}

// List retrieves the whole catalogue.
func (repo *diseaseRepository) List(ctx context.Context) ([]*entity.Disease, error) {
	var diseaseModels []model.DiseaseModel
	err := repo.db.WithContext(ctx).
		Order("id ASC").
		Find(&diseaseModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list diseases")
	}

	diseases := make([]*entity.Disease, 0, len(diseaseModels))
	for i := range diseaseModels {
		diseases = append(diseases, &entity.Disease{ID: diseaseModels[i].ID, Type: diseaseModels[i].Type})
	}

	return diseases, nil
}
