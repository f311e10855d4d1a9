package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"plantcare/internal/delivery/http/response"
	"plantcare/internal/domain/entity"
	domainerrors "plantcare/internal/domain/errors"
	"plantcare/internal/usecase"
)

// PlantHandler holds dependencies for plant-care handlers.
type PlantHandler struct {
	uc     usecase.PlantUsecase
	logger *slog.Logger
}

// NewPlantHandler is the constructor for PlantHandler, injected by Fx.
func NewPlantHandler(uc usecase.PlantUsecase, logger *slog.Logger) *PlantHandler {
	return &PlantHandler{
		uc:     uc,
		logger: logger,
	}
}

type plantRequest struct {
	Name             string  `json:"name" validate:"required,max=100"`
	Photo            string  `json:"photo"`
	HowOftenWatering int     `json:"how_often_watering" validate:"required,min=1"`
	WaterVolume      float64 `json:"water_volume" validate:"required,gt=0"`
	Light            string  `json:"light" validate:"required,oneof='full sun' 'partial shadow' 'full shadow'"`
	Location         string  `json:"location" validate:"omitempty,oneof=N NE E SE S SW W NW"`
	Comment          string  `json:"comment"`
	Species          string  `json:"species" validate:"omitempty,max=100"`
}

type wateringRequest struct {
	WaterVolume float64 `json:"water_volume" validate:"omitempty,gt=0"`
}

type bulkWateringRequest struct {
	PlantIDs []int64 `json:"plant_ids" validate:"required,min=1,dive,gt=0"`
}

type fertilizingRequest struct {
	Type     string  `json:"type" validate:"required,max=300"`
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
}

type diseaseRequest struct {
	DiseaseID int64      `json:"disease_id" validate:"required,gt=0"`
	StartDate time.Time  `json:"start_date" validate:"required"`
	EndDate   *time.Time `json:"end_date"`
	Treatment string     `json:"treatment"`
	Comment   string     `json:"comment"`
}

type plantSummaryView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Species     string `json:"species,omitempty"`
	Photo       string `json:"photo,omitempty"`
	IsHealthy   bool   `json:"is_healthy"`
	TimeToWater bool   `json:"time_to_water"`
}

type plantView struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Photo            string  `json:"photo,omitempty"`
	HowOftenWatering int     `json:"how_often_watering"`
	WaterVolume      float64 `json:"water_volume"`
	Light            string  `json:"light"`
	Location         string  `json:"location,omitempty"`
	Comment          string  `json:"comment,omitempty"`
	Species          string  `json:"species,omitempty"`
}

type waterLogView struct {
	ID          int64     `json:"id"`
	PlantID     int64     `json:"plant_id"`
	DateTime    time.Time `json:"date_time"`
	WaterVolume float64   `json:"water_volume"`
}

type fertilizerLogView struct {
	ID       int64     `json:"id"`
	PlantID  int64     `json:"plant_id"`
	DateTime time.Time `json:"date_time"`
	Type     string    `json:"type"`
	Quantity float64   `json:"quantity"`
}

type diseaseEpisodeView struct {
	DiseaseID   int64      `json:"disease_id"`
	DiseaseType string     `json:"disease_type"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Treatment   string     `json:"treatment,omitempty"`
	Comment     string     `json:"comment,omitempty"`
}

type plantDetailView struct {
	plantView
	IsHealthy        bool                 `json:"is_healthy"`
	TimeToWater      bool                 `json:"time_to_water"`
	LatestWatering   *waterLogView        `json:"latest_watering,omitempty"`
	LatestFertilizer *fertilizerLogView   `json:"latest_fertilizing,omitempty"`
	DiseaseEpisodes  []diseaseEpisodeView `json:"diseases"`
}

type diseaseView struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// List returns all plants of the caller with the derived care flags.
func (h *PlantHandler) List(c echo.Context) error {
	authUser, err := requireAuthUser(c)
	if err != nil {
		return err
	}

	summaries, err := h.uc.ListPlants(c.Request().Context(), authUser.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]plantSummaryView, 0, len(summaries))
	for _, summary := range summaries {
		views = append(views, plantSummaryView{
			ID:          summary.ID,
			Name:        summary.Name,
			Species:     summary.Species,
			Photo:       summary.PhotoURL,
			IsHealthy:   summary.IsHealthy,
			TimeToWater: summary.TimeToWater,
		})
	}

	return response.Success(c, http.StatusOK, views, "Plants retrieved successfully")
}

// Create registers a new plant for the caller.
func (h *PlantHandler) Create(c echo.Context) error {
	authUser, err := requireAuthUser(c)
	if err != nil {
		return err
	}

	var req plantRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid plant input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	plant, err := h.uc.CreatePlant(c.Request().Context(), &usecase.CreatePlantInput{
		OwnerID:          authUser.ID,
		Name:             req.Name,
		Photo:            req.Photo,
		HowOftenWatering: req.HowOftenWatering,
		WaterVolume:      req.WaterVolume,
		Light:            req.Light,
		Location:         req.Location,
		Comment:          req.Comment,
		Species:          req.Species,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toPlantView(plant), "Plant created successfully")
}

// Get returns the detail view of a single owned plant.
func (h *PlantHandler) Get(c echo.Context) error {
	authUser, err := requireAuthUser(c)
	if err != nil {
		return err
	}

	plantID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.uc.GetPlant(c.Request().Context(), authUser.ID, plantID)
	if err != nil {
		return errors.WithStack(err)
	}

	view := plantDetailView{
		plantView:       toPlantView(detail.Plant),
		IsHealthy:       detail.IsHealthy,
		TimeToWater:     detail.TimeToWater,
		DiseaseEpisodes: toDiseaseEpisodeViews(detail.DiseaseEpisodes),
	}
	view.Photo = detail.PhotoURL
	if detail.LatestWatering != nil {
		watering := toWaterLogView(detail.LatestWatering)
		view.LatestWatering = &watering
	}
	if detail.LatestFertilizer != nil {
		fertilizing := toFertilizerLogView(detail.LatestFertilizer)
		view.LatestFertilizer = &fertilizing
	}

	return response.Success(c, http.StatusOK, view, "Plant retrieved successfully")
}

// Update rewrites the care parameters of an owned plant. Empty optional
// fields keep their stored values.
func (h *PlantHandler) Update(c echo.Context) error {
	authUser, err := requireAuthUser(c)
	if err != nil {
		return err
	}

	plantID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req plantRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid plant input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	plant, err := h.uc.UpdatePlant(c.Request().Context(), &usecase.UpdatePlantInput{
		OwnerID:          authUser.ID,
		PlantID:          plantID,
		Name:             req.Name,
		Photo:            req.Photo,
		HowOftenWatering: req.HowOftenWatering,
		WaterVolume:      req.WaterVolume,
		Light:            req.Light,
		Location:         req.Location,
		Comment:          req.Comment,
		Species:          req.Species,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toPlantView(plant), "Plant updated successfully")
}

// Delete removes an owned plant and its history.
func (h *PlantHandler) Delete(c echo.Context) error {
	authUser, err := requireAuthUser(c)
	if err != nil {
		return err
	}

	plantID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeletePlant(c.Request().Context(), authUser.ID, plantID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Plant deleted successfully")
}

// Water records a watering event. The body is optional; without a volume the
// plant's configured volume is used.
func (h *PlantHandler) Water(c echo.Context) error {
	authUser, err := requireAuthUser(c)
	if err != nil {
		return err
	}

	plantID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req wateringRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid watering input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	log, err := h.uc.WaterPlant(c.Request().Context(), &usecase.WaterPlantInput{
		OwnerID:     authUser.ID,
		PlantID:     plantID,
		WaterVolume: req.WaterVolume,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toWaterLogView(log), "Watering recorded successfully")
}

// WaterMany records one watering event per listed plant, atomically.
func (h *PlantHandler) WaterMany(c echo.Context) error {
	authUser, err := requireAuthUser(c)
	if err != nil {
		return err
	}

	var req bulkWateringRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid watering input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	logs, err := h.uc.WaterPlants(c.Request().Context(), &usecase.WaterPlantsInput{
		OwnerID:  authUser.ID,
		PlantIDs: req.PlantIDs,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]waterLogView, 0, len(logs))
	for _, log := range logs {
		views = append(views, toWaterLogView(log))
	}

	return response.Success(c, http.StatusCreated, views, "Watering recorded successfully")
}

// Fertilize records a fertilizing event.
func (h *PlantHandler) Fertilize(c echo.Context) error {
	authUser, err := requireAuthUser(c)
	if err != nil {
		return err
	}

	plantID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req fertilizingRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid fertilizing input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	log, err := h.uc.AddFertilizing(c.Request().Context(), &usecase.AddFertilizingInput{
		OwnerID:  authUser.ID,
		PlantID:  plantID,
		Type:     req.Type,
		Quantity: req.Quantity,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toFertilizerLogView(log), "Fertilizing recorded successfully")
}

// AddDisease records a disease episode for an owned plant.
func (h *PlantHandler) AddDisease(c echo.Context) error {
	authUser, err := requireAuthUser(c)
	if err != nil {
		return err
	}

	plantID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req diseaseRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid disease input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	episode, err := h.uc.AddDisease(c.Request().Context(), &usecase.AddDiseaseInput{
		OwnerID:   authUser.ID,
		PlantID:   plantID,
		DiseaseID: req.DiseaseID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Treatment: req.Treatment,
		Comment:   req.Comment,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toDiseaseEpisodeView(*episode), "Disease episode recorded successfully")
}

// ListDiseases returns the disease history of an owned plant.
func (h *PlantHandler) ListDiseases(c echo.Context) error {
	authUser, err := requireAuthUser(c)
	if err != nil {
		return err
	}

	plantID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	episodes, err := h.uc.ListPlantDiseases(c.Request().Context(), authUser.ID, plantID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toDiseaseEpisodeViews(episodes), "Disease episodes retrieved successfully")
}

// ListAllDiseases returns the public disease catalogue.
func (h *PlantHandler) ListAllDiseases(c echo.Context) error {
	diseases, err := h.uc.ListAllDiseases(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]diseaseView, 0, len(diseases))
	for _, disease := range diseases {
		views = append(views, diseaseView{ID: disease.ID, Type: disease.Type})
	}

	return response.Success(c, http.StatusOK, views, "Diseases retrieved successfully")
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domainerrors.ErrValidationFailed.WrapMessage("invalid id in path")
	}

	return id, nil
}

func toPlantView(plant *entity.Plant) plantView {
	return plantView{
		ID:               plant.ID,
		Name:             plant.Name,
		Photo:            plant.Photo,
		HowOftenWatering: plant.HowOftenWatering,
		WaterVolume:      plant.WaterVolume,
		Light:            plant.Light,
		Location:         plant.Location,
		Comment:          plant.Comment,
		Species:          plant.Species,
	}
}

func toWaterLogView(log *entity.WaterLog) waterLogView {
	return waterLogView{
		ID:          log.ID,
		PlantID:     log.PlantID,
		DateTime:    log.DateTime,
		WaterVolume: log.WaterVolume,
	}
}

func toFertilizerLogView(log *entity.FertilizerLog) fertilizerLogView {
	return fertilizerLogView{
		ID:       log.ID,
		PlantID:  log.PlantID,
		DateTime: log.DateTime,
		Type:     log.Type,
		Quantity: log.Quantity,
	}
}

func toDiseaseEpisodeView(episode usecase.DiseaseEpisodeOutput) diseaseEpisodeView {
	return diseaseEpisodeView{
		DiseaseID:   episode.DiseaseID,
		DiseaseType: episode.DiseaseType,
		StartDate:   episode.StartDate,
		EndDate:     episode.EndDate,
		Treatment:   episode.Treatment,
		Comment:     episode.Comment,
	}
}

func toDiseaseEpisodeViews(episodes []usecase.DiseaseEpisodeOutput) []diseaseEpisodeView {
	views := make([]diseaseEpisodeView, 0, len(episodes))
	for _, episode := range episodes {
		views = append(views, toDiseaseEpisodeView(episode))
	}

	return views
}
