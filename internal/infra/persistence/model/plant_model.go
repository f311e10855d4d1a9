package model

import (
	"time"
)

// PlantModel mirrors the 'plant' table.
type PlantModel struct {
	ID               int64   `gorm:"primaryKey;autoIncrement"`
	UserID           int64   `gorm:"index;not null"`
	Name             string  `gorm:"type:varchar(100);not null"`
	Photo            string  `gorm:"type:varchar(255)"`
	HowOftenWatering int     `gorm:"not null"`
	WaterVolume      float64 `gorm:"not null"`
	Light            string  `gorm:"type:varchar(50);not null"`
	Location         string  `gorm:"type:varchar(50)"`
	Comment          string  `gorm:"type:text"`
	Species          string  `gorm:"type:varchar(100)"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	WaterLogs      []WaterLogModel      `gorm:"foreignKey:PlantID;constraint:OnDelete:CASCADE"`
	FertilizerLogs []FertilizerLogModel `gorm:"foreignKey:PlantID;constraint:OnDelete:CASCADE"`
	Diseases       []PlantDiseaseModel  `gorm:"foreignKey:PlantID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (PlantModel) TableName() string {
	return "plant"
}

// WaterLogModel mirrors the 'water_log' table. Rows are append-only.
type WaterLogModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	PlantID     int64     `gorm:"index;not null"`
	DateTime    time.Time `gorm:"index;not null"`
	WaterVolume float64   `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (WaterLogModel) TableName() string {
	return "water_log"
}

// FertilizerLogModel mirrors the 'fertilizer_log' table. Rows are append-only.
type FertilizerLogModel struct {
	ID       int64     `gorm:"primaryKey;autoIncrement"`
	PlantID  int64     `gorm:"index;not null"`
	DateTime time.Time `gorm:"index;not null"`
	Type     string    `gorm:"type:varchar(300);not null"`
	Quantity float64   `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (FertilizerLogModel) TableName() string {
	return "fertilizer_log"
}

// DiseaseModel mirrors the 'disease' catalogue table.
type DiseaseModel struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Type string `gorm:"type:varchar(100);not null"`
}

// TableName explicitly sets the table name for GORM.
func (DiseaseModel) TableName() string {
	return "disease"
}

// PlantDiseaseModel mirrors the 'plant_disease' table: one disease episode of
// one plant. A NULL end_date means the episode is ongoing.
type PlantDiseaseModel struct {
	PlantID   int64     `gorm:"primaryKey"`
	DiseaseID int64     `gorm:"primaryKey"`
	StartDate time.Time `gorm:"primaryKey"`
	EndDate   *time.Time
	Treatment string `gorm:"type:text"`
	Comment   string `gorm:"type:text"`

	Disease DiseaseModel `gorm:"foreignKey:DiseaseID"`
}

// TableName explicitly sets the table name for GORM.
func (PlantDiseaseModel) TableName() string {
	return "plant_disease"
}
