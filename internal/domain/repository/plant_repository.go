package repository

import (
	"context"
	"errors"
	"time"

	"plantcare/internal/domain/entity"
)

// ErrPlantNotFound is returned when a plant does not exist or is not owned by
// the requesting account. The two cases are deliberately indistinguishable.
var ErrPlantNotFound = errors.New("plant not found")

// ErrDiseaseNotFound is returned when a disease catalogue entry is absent.
var ErrDiseaseNotFound = errors.New("disease not found")

// ErrWaterLogNotFound is returned when a plant has no watering history.
var ErrWaterLogNotFound = errors.New("water log not found")

// ErrFertilizerLogNotFound is returned when a plant has no fertilizing history.
var ErrFertilizerLogNotFound = errors.New("fertilizer log not found")

// PlantRepository defines persistence operations for plants and their
// append-only care histories. Every lookup that targets a single plant is
// scoped to the owning account: the ownership filter is the resource access
// guard.
type PlantRepository interface {
	// Create persists a new plant.
	Create(ctx context.Context, plant *entity.Plant) error

	// FindByIDAndOwner retrieves a plant by id, filtered by owner, with its
	// disease episodes and watering history preloaded for derived-state
	// computation.
	FindByIDAndOwner(ctx context.Context, id, ownerID int64) (*entity.Plant, error)

	// FindByIDsAndOwner retrieves the subset of the given plant ids owned by
	// the account. Callers compare lengths to detect unauthorized ids.
	FindByIDsAndOwner(ctx context.Context, ids []int64, ownerID int64) ([]*entity.Plant, error)

	// ListByOwner retrieves all plants of an account, with disease episodes
	// and watering history preloaded.
	ListByOwner(ctx context.Context, ownerID int64) ([]*entity.Plant, error)

	// Update modifies an existing plant.
	Update(ctx context.Context, plant *entity.Plant) error

	// Delete removes a plant and its care history, scoped to the owner.
	Delete(ctx context.Context, id, ownerID int64) error

	// AddWaterLogs appends watering events. All rows are written in the
	// caller's unit of work; the bulk watering operation relies on this for
	// its all-or-nothing semantics.
	AddWaterLogs(ctx context.Context, logs []*entity.WaterLog) error

	// AddFertilizerLog appends a fertilizing event.
	AddFertilizerLog(ctx context.Context, log *entity.FertilizerLog) error

	// LatestWaterLog returns the most recent watering event of a plant.
	LatestWaterLog(ctx context.Context, plantID int64) (*entity.WaterLog, error)

	// LatestFertilizerLog returns the most recent fertilizing event of a plant.
	LatestFertilizerLog(ctx context.Context, plantID int64) (*entity.FertilizerLog, error)

	// ListDiseaseEpisodes returns up to limit most recent disease episodes of
	// a plant, newest start date first, with the catalogue type resolved.
	ListDiseaseEpisodes(ctx context.Context, plantID int64, limit int) ([]*entity.PlantDisease, error)

	// HasRecentDiseaseEpisode reports whether an episode already exists for
	// the same plant, disease and start date with an end date at or after
	// the given threshold. Used for duplicate-episode detection.
	HasRecentDiseaseEpisode(ctx context.Context, plantID, diseaseID int64, startDate, endedSince time.Time) (bool, error)

	// AddDiseaseEpisode appends a disease episode.
	AddDiseaseEpisode(ctx context.Context, episode *entity.PlantDisease) error
}

// DiseaseRepository defines read operations over the disease catalogue.
type DiseaseRepository interface {
	// FindByID retrieves a single catalogue entry.
	FindByID(ctx context.Context, id int64) (*entity.Disease, error)

	// List retrieves the whole catalogue.
	List(ctx context.Context) ([]*entity.Disease, error)
}
