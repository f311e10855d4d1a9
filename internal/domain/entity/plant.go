package entity

import (
	"time"
)

// recoveryCooldown is the grace period after a disease episode ends during
// which the plant still counts as unhealthy.
const recoveryCooldown = 24 * time.Hour

// hoursPerDay converts the watering interval (whole days) into a duration.
const hoursPerDay = 24 * time.Hour

// Plant is owned by exactly one account. It carries a watering schedule and
// append-only histories of care events, from which the health and
// watering-due states are derived.
type Plant struct {
	ID               int64
	UserID           int64  // Owning account.
	Name             string
	Photo            string // Object-storage key, empty if none.
	HowOftenWatering int    // Watering interval in days.
	WaterVolume      float64
	Light            string
	Location         string
	Comment          string
	Species          string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	WaterLogs      []WaterLog      // Append-only watering history.
	FertilizerLogs []FertilizerLog // Append-only fertilizing history.
	Diseases       []PlantDisease  // Disease episodes.
}

// WaterLog is an immutable record of a single watering event.
type WaterLog struct {
	ID          int64
	PlantID     int64
	DateTime    time.Time
	WaterVolume float64
}

// FertilizerLog is an immutable record of a single fertilizing event.
type FertilizerLog struct {
	ID       int64
	PlantID  int64
	DateTime time.Time
	Type     string
	Quantity float64
}

// Disease is a catalogue entry describing a known plant disease type.
type Disease struct {
	ID   int64
	Type string
}

// PlantDisease is a single disease episode of a plant. A nil EndDate means
// the episode is ongoing.
type PlantDisease struct {
	PlantID     int64
	DiseaseID   int64
	StartDate   time.Time
	EndDate     *time.Time
	Treatment   string
	Comment     string
	DiseaseType string // Catalogue type name, resolved on read.
}

// Ongoing reports whether the episode has no recorded end.
func (d *PlantDisease) Ongoing() bool {
	return d.EndDate == nil
}

// IsHealthy derives the plant's health from its disease episodes. A plant is
// unhealthy while any episode is ongoing, and for one day after an episode
// ends. An empty history means healthy.
func (p *Plant) IsHealthy(now time.Time) bool {
	for i := range p.Diseases {
		episode := &p.Diseases[i]
		if episode.EndDate == nil {
			return false
		}
		if episode.EndDate.After(now.Add(-recoveryCooldown)) || episode.EndDate.Equal(now.Add(-recoveryCooldown)) {
			return false
		}
	}

	return true
}

// TimeToWater reports whether the plant is due for watering: true when no
// watering was ever logged, otherwise true once the configured interval has
// elapsed since the most recent watering. Ties on the timestamp are broken
// arbitrarily.
func (p *Plant) TimeToWater(now time.Time) bool {
	last, ok := p.LastWatering()
	if !ok {
		return true
	}

	return now.Sub(last.DateTime) >= time.Duration(p.HowOftenWatering)*hoursPerDay
}

// LastWatering returns the most recent watering event, if any.
func (p *Plant) LastWatering() (WaterLog, bool) {
	if len(p.WaterLogs) == 0 {
		return WaterLog{}, false
	}

	latest := p.WaterLogs[0]
	for _, log := range p.WaterLogs[1:] {
		if log.DateTime.After(latest.DateTime) {
			latest = log
		}
	}

	return latest, true
}
