package postgres

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"plantcare/internal/domain/entity"
	domainerrors "plantcare/internal/domain/errors"
	"plantcare/internal/domain/repository"
	"plantcare/internal/infra/persistence/model"
)

// plantRepository implements repository.PlantRepository using GORM.
type plantRepository struct {
	db *gorm.DB
}

// NewPlantRepository is the constructor for plantRepository.
func NewPlantRepository(db *gorm.DB) repository.PlantRepository {
	return &plantRepository{db: db}
}

// Create persists a new plant.
func (repo *plantRepository) Create(ctx context.Context, plant *entity.Plant) error {
	plantM := fromPlantDomain(plant)

	if err := repo.db.WithContext(ctx).Create(plantM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("invalid owner reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required plant information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create plant")
	}

	plant.ID = plantM.ID
	plant.CreatedAt = plantM.CreatedAt
	plant.UpdatedAt = plantM.UpdatedAt

	return nil
}

// FindByIDAndOwner retrieves a plant by id, filtered by owner. Disease
// episodes and watering history are preloaded so derived state can be
// computed without extra round trips.
func (repo *plantRepository) FindByIDAndOwner(ctx context.Context, id, ownerID int64) (*entity.Plant, error) {
	var plantM model.PlantModel
	err := repo.db.WithContext(ctx).
		Preload("WaterLogs").
		Preload("Diseases").
		Preload("Diseases.Disease").
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&plantM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPlantNotFound
		}

		return nil, errors.Wrap(err, "failed to find plant")
	}

	return toPlantDomain(&plantM), nil
}

// FindByIDsAndOwner retrieves the subset of the given ids owned by the
// account. Missing or foreign ids are simply absent from the result.
func (repo *plantRepository) FindByIDsAndOwner(ctx context.Context, ids []int64, ownerID int64) ([]*entity.Plant, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var plantModels []model.PlantModel
	err := repo.db.WithContext(ctx).
		Where("id IN ? AND user_id = ?", ids, ownerID).
		Find(&plantModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find plants by ids")
	}

	plants := make([]*entity.Plant, 0, len(plantModels))
	for i := range plantModels {
		plants = append(plants, toPlantDomain(&plantModels[i]))
	}

	return plants, nil
}

// ListByOwner retrieves all plants of an account with the histories needed
// for the derived health and watering-due flags.
func (repo *plantRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*entity.Plant, error) {
	var plantModels []model.PlantModel
	err := repo.db.WithContext(ctx).
		Preload("WaterLogs").
		Preload("Diseases").
		Where("user_id = ?", ownerID).
		Order("id ASC").
		Find(&plantModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list plants")
	}

	plants := make([]*entity.Plant, 0, len(plantModels))
	for i := range plantModels {
		plants = append(plants, toPlantDomain(&plantModels[i]))
	}

	return plants, nil
}

// Update modifies the plant's own columns. Histories are append-only and are
// never touched here.
func (repo *plantRepository) Update(ctx context.Context, plant *entity.Plant) error {
	plantM := fromPlantDomain(plant)

	result := repo.db.WithContext(ctx).
		Model(&model.PlantModel{}).
		Where("id = ? AND user_id = ?", plant.ID, plant.UserID).
		Updates(map[string]any{
			"name":               plantM.Name,
			"photo":              plantM.Photo,
			"how_often_watering": plantM.HowOftenWatering,
			"water_volume":       plantM.WaterVolume,
			"light":              plantM.Light,
			"location":           plantM.Location,
			"comment":            plantM.Comment,
			"species":            plantM.Species,
		})
	if result.Error != nil {
		if isNotNullConstraintViolation(result.Error) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required plant information")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update plant")
	}

	if result.RowsAffected == 0 {
		return repository.ErrPlantNotFound
	}

	return nil
}

// Delete removes a plant scoped to the owner. Care history rows cascade.
func (repo *plantRepository) Delete(ctx context.Context, id, ownerID int64) error {
	result := repo.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&model.PlantModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete plant")
	}

	if result.RowsAffected == 0 {
		return repository.ErrPlantNotFound
	}

	return nil
}

// AddWaterLogs appends watering events in a single insert. When called inside
// txManager.Execute the rows share the caller's transaction.
func (repo *plantRepository) AddWaterLogs(ctx context.Context, logs []*entity.WaterLog) error {
	if len(logs) == 0 {
		return nil
	}

	logModels := make([]model.WaterLogModel, 0, len(logs))
	for _, log := range logs {
		logModels = append(logModels, model.WaterLogModel{
			PlantID:     log.PlantID,
			DateTime:    log.DateTime,
			WaterVolume: log.WaterVolume,
		})
	}

	if err := repo.db.WithContext(ctx).Create(&logModels).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrPlantNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to add water logs")
	}

	for i := range logs {
		logs[i].ID = logModels[i].ID
	}

	return nil
}

// AddFertilizerLog appends a fertilizing event.
func (repo *plantRepository) AddFertilizerLog(ctx context.Context, log *entity.FertilizerLog) error {
	logM := model.FertilizerLogModel{
		PlantID:  log.PlantID,
		DateTime: log.DateTime,
		Type:     log.Type,
		Quantity: log.Quantity,
	}

	if err := repo.db.WithContext(ctx).Create(&logM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrPlantNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to add fertilizer log")
	}

	log.ID = logM.ID

	return nil
}

// LatestWaterLog returns the most recent watering event of a plant.
func (repo *plantRepository) LatestWaterLog(ctx context.Context, plantID int64) (*entity.WaterLog, error) {
	var logM model.WaterLogModel
	err := repo.db.WithContext(ctx).
		Where("plant_id = ?", plantID).
		Order("date_time DESC").
		First(&logM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrWaterLogNotFound
		}

		return nil, errors.Wrap(err, "failed to find latest water log")
	}

	return &entity.WaterLog{
		ID:          logM.ID,
		PlantID:     logM.PlantID,
		DateTime:    logM.DateTime,
		WaterVolume: logM.WaterVolume,
	}, nil
}

// LatestFertilizerLog returns the most recent fertilizing event of a plant.
func (repo *plantRepository) LatestFertilizerLog(ctx context.Context, plantID int64) (*entity.FertilizerLog, error) {
	var logM model.FertilizerLogModel
	err := repo.db.WithContext(ctx).
		Where("plant_id = ?", plantID).
		Order("date_time DESC").
		First(&logM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrFertilizerLogNotFound
		}

		return nil, errors.Wrap(err, "failed to find latest fertilizer log")
	}

	return &entity.FertilizerLog{
		ID:       logM.ID,
		PlantID:  logM.PlantID,
		DateTime: logM.DateTime,
		Type:     logM.Type,
		Quantity: logM.Quantity,
	}, nil
}

// ListDiseaseEpisodes returns up to limit most recent episodes of a plant,
// newest start date first, with the catalogue type resolved.
func (repo *plantRepository) ListDiseaseEpisodes(ctx context.Context, plantID int64, limit int) ([]*entity.PlantDisease, error) {
	query := repo.db.WithContext(ctx).
		Preload("Disease").
		Where("plant_id = ?", plantID).
		Order("start_date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var episodeModels []model.PlantDiseaseModel
	if err := query.Find(&episodeModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list disease episodes")
	}

	episodes := make([]*entity.PlantDisease, 0, len(episodeModels))
	for i := range episodeModels {
		episode := toPlantDiseaseDomain(&episodeModels[i])
		episodes = append(episodes, &episode)
	}

	return episodes, nil
}

// HasRecentDiseaseEpisode reports whether an episode with the same key
// already exists with an end date at or after the threshold.
func (repo *plantRepository) HasRecentDiseaseEpisode(ctx context.Context, plantID, diseaseID int64, startDate, endedSince time.Time) (bool, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.PlantDiseaseModel{}).
		Where("plant_id = ? AND disease_id = ? AND start_date = ?", plantID, diseaseID, startDate).
		Where("end_date >= ?", endedSince).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "failed to check disease episode")
	}

	return count > 0, nil
}

// AddDiseaseEpisode appends a disease episode.
func (repo *plantRepository) AddDiseaseEpisode(ctx context.Context, episode *entity.PlantDisease) error {
	episodeM := model.PlantDiseaseModel{
		PlantID:   episode.PlantID,
		DiseaseID: episode.DiseaseID,
		StartDate: episode.StartDate,
		EndDate:   episode.EndDate,
		Treatment: episode.Treatment,
		Comment:   episode.Comment,
	}

	if err := repo.db.WithContext(ctx).Create(&episodeM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrDuplicateDiseaseEpisode
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrDiseaseNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to add disease episode")
	}

	return nil
}

// --- Mapper Functions ---

// toPlantDomain converts a GORM PlantModel, with any preloaded associations,
// to a domain Plant entity.
func toPlantDomain(data *model.PlantModel) *entity.Plant {
	if data == nil {
		return nil
	}

	plant := &entity.Plant{
		ID:               data.ID,
		UserID:           data.UserID,
		Name:             data.Name,
		Photo:            data.Photo,
		HowOftenWatering: data.HowOftenWatering,
		WaterVolume:      data.WaterVolume,
		Light:            data.Light,
		Location:         data.Location,
		Comment:          data.Comment,
		Species:          data.Species,
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}

	for i := range data.WaterLogs {
		logM := &data.WaterLogs[i]
		plant.WaterLogs = append(plant.WaterLogs, entity.WaterLog{
			ID:          logM.ID,
			PlantID:     logM.PlantID,
			DateTime:    logM.DateTime,
			WaterVolume: logM.WaterVolume,
		})
	}

	for i := range data.FertilizerLogs {
		logM := &data.FertilizerLogs[i]
		plant.FertilizerLogs = append(plant.FertilizerLogs, entity.FertilizerLog{
			ID:       logM.ID,
			PlantID:  logM.PlantID,
			DateTime: logM.DateTime,
			Type:     logM.Type,
			Quantity: logM.Quantity,
		})
	}

	for i := range data.Diseases {
		plant.Diseases = append(plant.Diseases, toPlantDiseaseDomain(&data.Diseases[i]))
	}

	return plant
}

// fromPlantDomain converts a domain Plant entity to a GORM PlantModel.
// Associations are managed through dedicated repository methods.
func fromPlantDomain(data *entity.Plant) *model.PlantModel {
	if data == nil {
		return nil
	}

	return &model.PlantModel{
		ID:               data.ID,
		UserID:           data.UserID,
		Name:             data.Name,
		Photo:            data.Photo,
		HowOftenWatering: data.HowOftenWatering,
		WaterVolume:      data.WaterVolume,
		Light:            data.Light,
		Location:         data.Location,
		Comment:          data.Comment,
		Species:          data.Species,
	}
}

// toPlantDiseaseDomain converts a GORM PlantDiseaseModel to a domain episode.
func toPlantDiseaseDomain(data *model.PlantDiseaseModel) entity.PlantDisease {
	return entity.PlantDisease{
		PlantID:     data.PlantID,
		DiseaseID:   data.DiseaseID,
		StartDate:   data.StartDate,
		EndDate:     data.EndDate,
		Treatment:   data.Treatment,
		Comment:     data.Comment,
		DiseaseType: data.Disease.Type,
	}
}
