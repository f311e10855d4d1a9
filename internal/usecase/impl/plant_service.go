package impl

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/fx"

	deliverycontext "plantcare/internal/delivery/context"
	"plantcare/internal/domain/entity"
	domainerrors "plantcare/internal/domain/errors"
	"plantcare/internal/domain/repository"
	"plantcare/internal/domain/service"
	"plantcare/internal/usecase"
)

// diseaseHistoryLimit bounds the episode history shown in the plant detail
// view.
const diseaseHistoryLimit = 3

// plantService implements the PlantUsecase interface.
type plantService struct {
	txManager    repository.TransactionManager
	plantRepo    repository.PlantRepository
	diseaseRepo  repository.DiseaseRepository
	photoStorage service.PhotoStorage
	logger       *slog.Logger
}

// PlantServiceParams holds dependencies for plantService, injected by Fx.
type PlantServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	PlantRepo    repository.PlantRepository
	DiseaseRepo  repository.DiseaseRepository
	PhotoStorage service.PhotoStorage
	Logger       *slog.Logger
}

// NewPlantService is the constructor for plantService.
func NewPlantService(params PlantServiceParams) usecase.PlantUsecase {
	return &plantService{
		txManager:    params.TxManager,
		plantRepo:    params.PlantRepo,
		diseaseRepo:  params.DiseaseRepo,
		photoStorage: params.PhotoStorage,
		logger:       params.Logger,
	}
}

func (srv *plantService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListPlants returns the owner's plants with the derived care flags.
func (srv *plantService) ListPlants(ctx context.Context, ownerID int64) ([]*usecase.PlantSummary, error) {
	plants, err := srv.plantRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list plants")
	}

	now := time.Now()
	summaries := make([]*usecase.PlantSummary, 0, len(plants))
	for _, plant := range plants {
		summaries = append(summaries, &usecase.PlantSummary{
			ID:          plant.ID,
			Name:        plant.Name,
			Species:     plant.Species,
			PhotoURL:    srv.photoStorage.URL(plant.Photo),
			IsHealthy:   plant.IsHealthy(now),
			TimeToWater: plant.TimeToWater(now),
		})
	}

	return summaries, nil
}

// CreatePlant registers a new plant for the owner.
func (srv *plantService) CreatePlant(ctx context.Context, input *usecase.CreatePlantInput) (*entity.Plant, error) {
	plant := &entity.Plant{
		UserID:           input.OwnerID,
		Name:             input.Name,
		Photo:            input.Photo,
		HowOftenWatering: input.HowOftenWatering,
		WaterVolume:      input.WaterVolume,
		Light:            input.Light,
		Location:         input.Location,
		Comment:          input.Comment,
		Species:          input.Species,
	}

	if err := srv.plantRepo.Create(ctx, plant); err != nil {
		srv.log(ctx).Warn("Failed to create plant", slog.Int64("ownerID", input.OwnerID), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Plant created", slog.Int64("plantID", plant.ID), slog.Int64("ownerID", input.OwnerID))

	return plant, nil
}

// GetPlant returns the single-plant view: static info, derived flags, the
// most recent care events and a short disease history.
func (srv *plantService) GetPlant(ctx context.Context, ownerID, plantID int64) (*usecase.PlantDetail, error) {
	plant, err := srv.findOwnedPlant(ctx, srv.plantRepo, plantID, ownerID)
	if err != nil {
		return nil, err
	}

	latestWatering, err := srv.plantRepo.LatestWaterLog(ctx, plantID)
	if err != nil && !errors.Is(err, repository.ErrWaterLogNotFound) {
		return nil, errors.Wrap(err, "failed to load latest watering")
	}

	latestFertilizer, err := srv.plantRepo.LatestFertilizerLog(ctx, plantID)
	if err != nil && !errors.Is(err, repository.ErrFertilizerLogNotFound) {
		return nil, errors.Wrap(err, "failed to load latest fertilizing")
	}

	episodes, err := srv.plantRepo.ListDiseaseEpisodes(ctx, plantID, diseaseHistoryLimit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load disease history")
	}

	now := time.Now()

	return &usecase.PlantDetail{
		Plant:            plant,
		PhotoURL:         srv.photoStorage.URL(plant.Photo),
		IsHealthy:        plant.IsHealthy(now),
		TimeToWater:      plant.TimeToWater(now),
		LatestWatering:   latestWatering,
		LatestFertilizer: latestFertilizer,
		DiseaseEpisodes:  toDiseaseEpisodeOutputs(episodes),
	}, nil
}

// UpdatePlant rewrites the plant's care parameters. The optional descriptive
// fields keep their stored value when the input leaves them empty.
func (srv *plantService) UpdatePlant(ctx context.Context, input *usecase.UpdatePlantInput) (*entity.Plant, error) {
	var updated *entity.Plant
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		plantRepo := repoFactory.PlantRepo()

		plant, findErr := srv.findOwnedPlant(ctx, plantRepo, input.PlantID, input.OwnerID)
		if findErr != nil {
			return findErr
		}

		plant.Name = input.Name
		plant.HowOftenWatering = input.HowOftenWatering
		plant.WaterVolume = input.WaterVolume
		plant.Light = input.Light
		if input.Photo != "" {
			plant.Photo = input.Photo
		}
		if input.Location != "" {
			plant.Location = input.Location
		}
		if input.Comment != "" {
			plant.Comment = input.Comment
		}
		if input.Species != "" {
			plant.Species = input.Species
		}

		if updateErr := plantRepo.Update(ctx, plant); updateErr != nil {
			if errors.Is(updateErr, repository.ErrPlantNotFound) {
				return domainerrors.ErrPlantNotFound.WrapMessage("plant not found")
			}

			return errors.Wrap(updateErr, "failed to update plant")
		}

		updated = plant

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Plant update failed", slog.Int64("plantID", input.PlantID), slog.Any("error", err))

		return nil, err
	}

	return updated, nil
}

// DeletePlant removes a plant and its care history.
func (srv *plantService) DeletePlant(ctx context.Context, ownerID, plantID int64) error {
	if err := srv.plantRepo.Delete(ctx, plantID, ownerID); err != nil {
		if errors.Is(err, repository.ErrPlantNotFound) {
			return domainerrors.ErrPlantNotFound.WrapMessage("plant not found")
		}

		return errors.Wrap(err, "failed to delete plant")
	}

	srv.log(ctx).Debug("Plant deleted", slog.Int64("plantID", plantID), slog.Int64("ownerID", ownerID))

	return nil
}

// WaterPlant records a single watering event. A zero volume falls back to the
// plant's configured volume.
func (srv *plantService) WaterPlant(ctx context.Context, input *usecase.WaterPlantInput) (*entity.WaterLog, error) {
	plant, err := srv.findOwnedPlant(ctx, srv.plantRepo, input.PlantID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	volume := input.WaterVolume
	if volume <= 0 {
		volume = plant.WaterVolume
	}

	log := &entity.WaterLog{
		PlantID:     plant.ID,
		DateTime:    time.Now(),
		WaterVolume: volume,
	}
	if err := srv.plantRepo.AddWaterLogs(ctx, []*entity.WaterLog{log}); err != nil {
		return nil, errors.Wrap(err, "failed to record watering")
	}

	return log, nil
}

// WaterPlants records one watering event per listed plant in a single
// transaction. The whole batch is rejected as bad input when any id is
// unknown, foreign or repeated, so either every plant gets a log row or none
// does.
func (srv *plantService) WaterPlants(ctx context.Context, input *usecase.WaterPlantsInput) ([]*entity.WaterLog, error) {
	ids := input.PlantIDs
	if len(ids) == 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("no plants given")
	}

	var logs []*entity.WaterLog
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		plantRepo := repoFactory.PlantRepo()

		plants, findErr := plantRepo.FindByIDsAndOwner(ctx, ids, input.OwnerID)
		if findErr != nil {
			return errors.Wrap(findErr, "failed to load plants for bulk watering")
		}
		// The lookup resolves each distinct owned id once, so a repeated id
		// trips this check just like an unknown or foreign one.
		if len(plants) != len(ids) {
			return domainerrors.ErrValidationFailed.WrapMessage("one or more plant ids are invalid")
		}

		now := time.Now()
		logs = make([]*entity.WaterLog, 0, len(plants))
		for _, plant := range plants {
			logs = append(logs, &entity.WaterLog{
				PlantID:     plant.ID,
				DateTime:    now,
				WaterVolume: plant.WaterVolume,
			})
		}

		return plantRepo.AddWaterLogs(ctx, logs)
	})
	if err != nil {
		srv.log(ctx).Warn("Bulk watering failed", slog.Int64("ownerID", input.OwnerID), slog.Any("error", err))

		return nil, err
	}

	return logs, nil
}

// AddFertilizing records a fertilizing event.
func (srv *plantService) AddFertilizing(ctx context.Context, input *usecase.AddFertilizingInput) (*entity.FertilizerLog, error) {
	if _, err := srv.findOwnedPlant(ctx, srv.plantRepo, input.PlantID, input.OwnerID); err != nil {
		return nil, err
	}

	log := &entity.FertilizerLog{
		PlantID:  input.PlantID,
		DateTime: time.Now(),
		Type:     input.Type,
		Quantity: input.Quantity,
	}
	if err := srv.plantRepo.AddFertilizerLog(ctx, log); err != nil {
		return nil, errors.Wrap(err, "failed to record fertilizing")
	}

	return log, nil
}

// AddDisease records a disease episode after validating its dates against the
// clock and the existing history.
func (srv *plantService) AddDisease(ctx context.Context, input *usecase.AddDiseaseInput) (*usecase.DiseaseEpisodeOutput, error) {
	now := time.Now()
	if input.StartDate.After(now) {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("start date cannot lie in the future")
	}
	if input.EndDate != nil && input.EndDate.Before(input.StartDate) {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("end date cannot precede start date")
	}

	var output *usecase.DiseaseEpisodeOutput
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		plantRepo := repoFactory.PlantRepo()
		diseaseRepo := repoFactory.DiseaseRepo()

		if _, findErr := srv.findOwnedPlant(ctx, plantRepo, input.PlantID, input.OwnerID); findErr != nil {
			return findErr
		}

		disease, diseaseErr := diseaseRepo.FindByID(ctx, input.DiseaseID)
		if diseaseErr != nil {
			if errors.Is(diseaseErr, repository.ErrDiseaseNotFound) {
				return domainerrors.ErrDiseaseNotFound.WrapMessage("unknown disease")
			}

			return errors.Wrap(diseaseErr, "failed to load disease")
		}

		// An episode with the same plant, disease and start date counts as a
		// duplicate when its end date falls within the past day or later.
		exists, existsErr := plantRepo.HasRecentDiseaseEpisode(ctx, input.PlantID, input.DiseaseID, input.StartDate, now.Add(-24*time.Hour))
		if existsErr != nil {
			return errors.Wrap(existsErr, "failed to check for duplicate episode")
		}
		if exists {
			return domainerrors.ErrDuplicateDiseaseEpisode.WrapMessage("episode already recorded")
		}

		episode := &entity.PlantDisease{
			PlantID:     input.PlantID,
			DiseaseID:   input.DiseaseID,
			StartDate:   input.StartDate,
			EndDate:     input.EndDate,
			Treatment:   input.Treatment,
			Comment:     input.Comment,
			DiseaseType: disease.Type,
		}
		if addErr := plantRepo.AddDiseaseEpisode(ctx, episode); addErr != nil {
			return addErr
		}

		output = toDiseaseEpisodeOutput(episode)

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to add disease episode",
			slog.Int64("plantID", input.PlantID),
			slog.Int64("diseaseID", input.DiseaseID),
			slog.Any("error", err))

		return nil, err
	}

	return output, nil
}

// ListPlantDiseases returns the full disease history of an owned plant.
func (srv *plantService) ListPlantDiseases(ctx context.Context, ownerID, plantID int64) ([]usecase.DiseaseEpisodeOutput, error) {
	if _, err := srv.findOwnedPlant(ctx, srv.plantRepo, plantID, ownerID); err != nil {
		return nil, err
	}

	episodes, err := srv.plantRepo.ListDiseaseEpisodes(ctx, plantID, 0)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list disease episodes")
	}

	return toDiseaseEpisodeOutputs(episodes), nil
}

// ListAllDiseases returns the public disease catalogue.
func (srv *plantService) ListAllDiseases(ctx context.Context) ([]*entity.Disease, error) {
	diseases, err := srv.diseaseRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list diseases")
	}

	return diseases, nil
}

// findOwnedPlant loads a plant scoped to the owner, translating the missing
// and not-owned cases into the same 404.
func (srv *plantService) findOwnedPlant(ctx context.Context, plantRepo repository.PlantRepository, plantID, ownerID int64) (*entity.Plant, error) {
	plant, err := plantRepo.FindByIDAndOwner(ctx, plantID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrPlantNotFound) {
			return nil, domainerrors.ErrPlantNotFound.WrapMessage("plant not found")
		}

		return nil, errors.Wrap(err, "failed to load plant")
	}

	return plant, nil
}

func toDiseaseEpisodeOutput(episode *entity.PlantDisease) *usecase.DiseaseEpisodeOutput {
	return &usecase.DiseaseEpisodeOutput{
		DiseaseID:   episode.DiseaseID,
		DiseaseType: episode.DiseaseType,
		StartDate:   episode.StartDate,
		EndDate:     episode.EndDate,
		Treatment:   episode.Treatment,
		Comment:     episode.Comment,
	}
}

func toDiseaseEpisodeOutputs(episodes []*entity.PlantDisease) []usecase.DiseaseEpisodeOutput {
	outputs := make([]usecase.DiseaseEpisodeOutput, 0, len(episodes))
	for _, episode := range episodes {
		outputs = append(outputs, *toDiseaseEpisodeOutput(episode))
	}

	return outputs
}
