package impl

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantcare/internal/domain/entity"
	domainerrors "plantcare/internal/domain/errors"
	"plantcare/internal/usecase"
)

func newTestPlantService(plantRepo *fakePlantRepo, diseaseRepo *fakeDiseaseRepo) usecase.PlantUsecase {
	factory := &fakeRepoFactory{plantRepo: plantRepo, diseaseRepo: diseaseRepo}

	return NewPlantService(PlantServiceParams{
		TxManager:    &fakeTxManager{factory: factory},
		PlantRepo:    plantRepo,
		DiseaseRepo:  diseaseRepo,
		PhotoStorage: &fakePhotoStorage{},
		Logger:       discardLogger(),
	})
}

func seedPlant(t *testing.T, repo *fakePlantRepo, ownerID int64, name string) *entity.Plant {
	t.Helper()

	plant := &entity.Plant{
		UserID:           ownerID,
		Name:             name,
		HowOftenWatering: 7,
		WaterVolume:      0.5,
		Light:            "full sun",
	}
	require.NoError(t, repo.Create(context.Background(), plant))

	return plant
}

func TestPlantService_GetPlant_OwnershipGuard(t *testing.T) {
	plantRepo := newFakePlantRepo()
	plant := seedPlant(t, plantRepo, 1, "Ficus Leonid")
	svc := newTestPlantService(plantRepo, newFakeDiseaseRepo())

	// Owner sees the plant.
	detail, err := svc.GetPlant(context.Background(), 1, plant.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ficus Leonid", detail.Plant.Name)

	// Another account gets the same 404 as for a nonexistent id.
	_, errForeign := svc.GetPlant(context.Background(), 2, plant.ID)
	_, errMissing := svc.GetPlant(context.Background(), 1, 999)
	assert.ErrorIs(t, errForeign, domainerrors.ErrPlantNotFound)
	assert.ErrorIs(t, errMissing, domainerrors.ErrPlantNotFound)
}

func TestPlantService_ListPlants_DerivedFlags(t *testing.T) {
	plantRepo := newFakePlantRepo()
	plant := seedPlant(t, plantRepo, 1, "Aloe Oleg")
	now := time.Now()

	// Watered two days ago with a seven day interval, one ongoing episode.
	require.NoError(t, plantRepo.AddWaterLogs(context.Background(), []*entity.WaterLog{
		{PlantID: plant.ID, DateTime: now.Add(-2 * 24 * time.Hour), WaterVolume: 0.5},
	}))
	require.NoError(t, plantRepo.AddDiseaseEpisode(context.Background(), &entity.PlantDisease{
		PlantID:   plant.ID,
		DiseaseID: 1,
		StartDate: now.Add(-24 * time.Hour),
	}))

	svc := newTestPlantService(plantRepo, newFakeDiseaseRepo())

	summaries, err := svc.ListPlants(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.False(t, summaries[0].IsHealthy)
	assert.False(t, summaries[0].TimeToWater)
}

func TestPlantService_WaterPlant_DefaultVolume(t *testing.T) {
	plantRepo := newFakePlantRepo()
	plant := seedPlant(t, plantRepo, 1, "Ficus Leonid")
	svc := newTestPlantService(plantRepo, newFakeDiseaseRepo())

	log, err := svc.WaterPlant(context.Background(), &usecase.WaterPlantInput{
		OwnerID: 1,
		PlantID: plant.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, plant.WaterVolume, log.WaterVolume)

	explicit, err := svc.WaterPlant(context.Background(), &usecase.WaterPlantInput{
		OwnerID:     1,
		PlantID:     plant.ID,
		WaterVolume: 1.5,
	})
	require.NoError(t, err)
	assert.Equal(t, 1.5, explicit.WaterVolume)
}

func TestPlantService_WaterPlants_AllOrNothing(t *testing.T) {
	plantRepo := newFakePlantRepo()
	mine := seedPlant(t, plantRepo, 1, "Ficus Leonid")
	other := seedPlant(t, plantRepo, 2, "Aloe Oleg")
	svc := newTestPlantService(plantRepo, newFakeDiseaseRepo())

	// One foreign id rejects the whole batch as bad input.
	_, err := svc.WaterPlants(context.Background(), &usecase.WaterPlantsInput{
		OwnerID:  1,
		PlantIDs: []int64{mine.ID, other.ID},
	})
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode())
	assert.Empty(t, plantRepo.waterLogs)

	// The same for an unknown id.
	_, err = svc.WaterPlants(context.Background(), &usecase.WaterPlantsInput{
		OwnerID:  1,
		PlantIDs: []int64{mine.ID, 999},
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	assert.Empty(t, plantRepo.waterLogs)
}

func TestPlantService_WaterPlants_DuplicateIDs(t *testing.T) {
	plantRepo := newFakePlantRepo()
	plant := seedPlant(t, plantRepo, 1, "Ficus Leonid")
	svc := newTestPlantService(plantRepo, newFakeDiseaseRepo())

	// A repeated id resolves to one plant and fails the batch.
	_, err := svc.WaterPlants(context.Background(), &usecase.WaterPlantsInput{
		OwnerID:  1,
		PlantIDs: []int64{plant.ID, plant.ID},
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	assert.Empty(t, plantRepo.waterLogs)
}

func TestPlantService_WaterPlants_Success(t *testing.T) {
	plantRepo := newFakePlantRepo()
	first := seedPlant(t, plantRepo, 1, "Ficus Leonid")
	second := seedPlant(t, plantRepo, 1, "Aloe Oleg")
	svc := newTestPlantService(plantRepo, newFakeDiseaseRepo())

	logs, err := svc.WaterPlants(context.Background(), &usecase.WaterPlantsInput{
		OwnerID:  1,
		PlantIDs: []int64{first.ID, second.ID},
	})
	require.NoError(t, err)
	assert.Len(t, logs, 2)
	assert.Len(t, plantRepo.waterLogs, 2)
}

func TestPlantService_WaterPlants_PersistFailure(t *testing.T) {
	plantRepo := newFakePlantRepo()
	plant := seedPlant(t, plantRepo, 1, "Ficus Leonid")
	plantRepo.waterLogsE = assert.AnError
	svc := newTestPlantService(plantRepo, newFakeDiseaseRepo())

	_, err := svc.WaterPlants(context.Background(), &usecase.WaterPlantsInput{
		OwnerID:  1,
		PlantIDs: []int64{plant.ID},
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, plantRepo.waterLogs)
}

func TestPlantService_WaterPlants_EmptyInput(t *testing.T) {
	svc := newTestPlantService(newFakePlantRepo(), newFakeDiseaseRepo())

	_, err := svc.WaterPlants(context.Background(), &usecase.WaterPlantsInput{OwnerID: 1})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestPlantService_AddDisease_Validation(t *testing.T) {
	plantRepo := newFakePlantRepo()
	plant := seedPlant(t, plantRepo, 1, "Ficus Leonid")
	diseaseRepo := newFakeDiseaseRepo(&entity.Disease{ID: 1, Type: "root rot"})
	svc := newTestPlantService(plantRepo, diseaseRepo)

	now := time.Now()

	// Start date in the future.
	_, err := svc.AddDisease(context.Background(), &usecase.AddDiseaseInput{
		OwnerID: 1, PlantID: plant.ID, DiseaseID: 1,
		StartDate: now.Add(48 * time.Hour),
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	// End before start.
	end := now.Add(-72 * time.Hour)
	_, err = svc.AddDisease(context.Background(), &usecase.AddDiseaseInput{
		OwnerID: 1, PlantID: plant.ID, DiseaseID: 1,
		StartDate: now.Add(-48 * time.Hour),
		EndDate:   &end,
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	// Unknown disease.
	_, err = svc.AddDisease(context.Background(), &usecase.AddDiseaseInput{
		OwnerID: 1, PlantID: plant.ID, DiseaseID: 99,
		StartDate: now.Add(-48 * time.Hour),
	})
	assert.ErrorIs(t, err, domainerrors.ErrDiseaseNotFound)
}

func TestPlantService_AddDisease_DuplicateConflict(t *testing.T) {
	plantRepo := newFakePlantRepo()
	plant := seedPlant(t, plantRepo, 1, "Ficus Leonid")
	diseaseRepo := newFakeDiseaseRepo(&entity.Disease{ID: 1, Type: "root rot"})
	svc := newTestPlantService(plantRepo, diseaseRepo)

	start := time.Now().Add(-48 * time.Hour).Truncate(time.Second)
	end := time.Now().Add(-time.Hour)

	episode, err := svc.AddDisease(context.Background(), &usecase.AddDiseaseInput{
		OwnerID: 1, PlantID: plant.ID, DiseaseID: 1,
		StartDate: start,
		EndDate:   &end,
		Treatment: "less water",
	})
	require.NoError(t, err)
	assert.Equal(t, "root rot", episode.DiseaseType)

	// Re-recording an episode that just concluded is a conflict, not a
	// silent no-op.
	_, err = svc.AddDisease(context.Background(), &usecase.AddDiseaseInput{
		OwnerID: 1, PlantID: plant.ID, DiseaseID: 1,
		StartDate: start,
	})
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateDiseaseEpisode)
}

func TestPlantService_AddDisease_OngoingEpisodeDoesNotBlock(t *testing.T) {
	plantRepo := newFakePlantRepo()
	plant := seedPlant(t, plantRepo, 1, "Ficus Leonid")
	diseaseRepo := newFakeDiseaseRepo(&entity.Disease{ID: 1, Type: "root rot"})
	svc := newTestPlantService(plantRepo, diseaseRepo)

	start := time.Now().Add(-48 * time.Hour).Truncate(time.Second)

	// Only episodes with a recent end date count as duplicates; an open
	// episode with the same key does not.
	_, err := svc.AddDisease(context.Background(), &usecase.AddDiseaseInput{
		OwnerID: 1, PlantID: plant.ID, DiseaseID: 1,
		StartDate: start,
	})
	require.NoError(t, err)

	_, err = svc.AddDisease(context.Background(), &usecase.AddDiseaseInput{
		OwnerID: 1, PlantID: plant.ID, DiseaseID: 1,
		StartDate: start,
	})
	require.NoError(t, err)
	assert.Len(t, plantRepo.episodes, 2)
}

func TestPlantService_GetPlant_Detail(t *testing.T) {
	plantRepo := newFakePlantRepo()
	plant := seedPlant(t, plantRepo, 1, "Ficus Leonid")
	now := time.Now()

	require.NoError(t, plantRepo.AddWaterLogs(context.Background(), []*entity.WaterLog{
		{PlantID: plant.ID, DateTime: now.Add(-48 * time.Hour), WaterVolume: 0.5},
		{PlantID: plant.ID, DateTime: now.Add(-24 * time.Hour), WaterVolume: 0.7},
	}))
	require.NoError(t, plantRepo.AddFertilizerLog(context.Background(), &entity.FertilizerLog{
		PlantID: plant.ID, DateTime: now.Add(-24 * time.Hour), Type: "compost", Quantity: 0.1,
	}))

	svc := newTestPlantService(plantRepo, newFakeDiseaseRepo())

	detail, err := svc.GetPlant(context.Background(), 1, plant.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.LatestWatering)
	assert.Equal(t, 0.7, detail.LatestWatering.WaterVolume)
	require.NotNil(t, detail.LatestFertilizer)
	assert.Equal(t, "compost", detail.LatestFertilizer.Type)
	assert.True(t, detail.IsHealthy)
	assert.False(t, detail.TimeToWater)
}

func TestPlantService_DeletePlant(t *testing.T) {
	plantRepo := newFakePlantRepo()
	plant := seedPlant(t, plantRepo, 1, "Ficus Leonid")
	svc := newTestPlantService(plantRepo, newFakeDiseaseRepo())

	// A foreign owner cannot delete.
	err := svc.DeletePlant(context.Background(), 2, plant.ID)
	assert.ErrorIs(t, err, domainerrors.ErrPlantNotFound)

	require.NoError(t, svc.DeletePlant(context.Background(), 1, plant.ID))

	err = svc.DeletePlant(context.Background(), 1, plant.ID)
	assert.ErrorIs(t, err, domainerrors.ErrPlantNotFound)
}
