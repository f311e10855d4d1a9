package usecase

import (
	"context"
	"time"

	"plantcare/internal/domain/entity"
)

// --- Input DTOs ---

// CreatePlantInput defines the data required to register a new plant.
type CreatePlantInput struct {
	OwnerID          int64
	Name             string
	Photo            string // Object-storage key, optional.
	HowOftenWatering int
	WaterVolume      float64
	Light            string
	Location         string
	Comment          string
	Species          string
}

// UpdatePlantInput carries the full replacement state of a plant's editable
// fields.
type UpdatePlantInput struct {
	OwnerID          int64
	PlantID          int64
	Name             string
	Photo            string
	HowOftenWatering int
	WaterVolume      float64
	Light            string
	Location         string
	Comment          string
	Species          string
}

// WaterPlantInput records a watering event. A zero WaterVolume falls back to
// the plant's configured volume.
type WaterPlantInput struct {
	OwnerID     int64
	PlantID     int64
	WaterVolume float64
}

// WaterPlantsInput records one watering event per listed plant, atomically.
type WaterPlantsInput struct {
	OwnerID  int64
	PlantIDs []int64
}

// AddFertilizingInput records a fertilizing event.
type AddFertilizingInput struct {
	OwnerID  int64
	PlantID  int64
	Type     string
	Quantity float64
}

// AddDiseaseInput records a disease episode. A nil EndDate means the episode
// is ongoing.
type AddDiseaseInput struct {
	OwnerID   int64
	PlantID   int64
	DiseaseID int64
	StartDate time.Time
	EndDate   *time.Time
	Treatment string
	Comment   string
}

// --- Output DTOs ---

// PlantSummary is the list view of a plant, with the derived care flags.
type PlantSummary struct {
	ID          int64
	Name        string
	Species     string
	PhotoURL    string
	IsHealthy   bool
	TimeToWater bool
}

// DiseaseEpisodeOutput is one disease episode with the catalogue type
// resolved.
type DiseaseEpisodeOutput struct {
	DiseaseID   int64
	DiseaseType string
	StartDate   time.Time
	EndDate     *time.Time
	Treatment   string
	Comment     string
}

// PlantDetail is the single-plant view: static info plus the most recent
// care events and a short disease history.
type PlantDetail struct {
	Plant            *entity.Plant
	PhotoURL         string
	IsHealthy        bool
	TimeToWater      bool
	LatestWatering   *entity.WaterLog
	LatestFertilizer *entity.FertilizerLog
	DiseaseEpisodes  []DiseaseEpisodeOutput
}

// PlantUsecase defines the interface for plant-care business operations.
type PlantUsecase interface {
	ListPlants(ctx context.Context, ownerID int64) ([]*PlantSummary, error)
	CreatePlant(ctx context.Context, input *CreatePlantInput) (*entity.Plant, error)
	GetPlant(ctx context.Context, ownerID, plantID int64) (*PlantDetail, error)
	UpdatePlant(ctx context.Context, input *UpdatePlantInput) (*entity.Plant, error)
	DeletePlant(ctx context.Context, ownerID, plantID int64) error

	WaterPlant(ctx context.Context, input *WaterPlantInput) (*entity.WaterLog, error)
	// WaterPlants waters every listed plant or none: one unauthorized or
	// unknown id fails the whole batch.
	WaterPlants(ctx context.Context, input *WaterPlantsInput) ([]*entity.WaterLog, error)
	AddFertilizing(ctx context.Context, input *AddFertilizingInput) (*entity.FertilizerLog, error)

	AddDisease(ctx context.Context, input *AddDiseaseInput) (*DiseaseEpisodeOutput, error)
	ListPlantDiseases(ctx context.Context, ownerID, plantID int64) ([]DiseaseEpisodeOutput, error)
	// ListAllDiseases returns the public disease catalogue.
	ListAllDiseases(ctx context.Context) ([]*entity.Disease, error)
}
