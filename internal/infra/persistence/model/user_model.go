// Package model holds the GORM persistence models. They mirror the database
// tables and are mapped to and from pure domain entities at the repository
// boundary.
package model

import (
	"time"
)

// UserModel mirrors the 'user_account' table.
// It is an exported type so it can be used by the GORM Gen tool from other packages.
type UserModel struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Email        string `gorm:"type:varchar(255);unique;not null"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	Name         string `gorm:"type:varchar(100);not null"`
	Photo        string `gorm:"type:varchar(255)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	AccessTokens []AccessTokenModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Plants       []PlantModel       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "user_account"
}
