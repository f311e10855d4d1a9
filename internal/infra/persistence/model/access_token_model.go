package model

import (
	"time"
)

// AccessTokenModel mirrors the 'access_token' table. The Secret column holds
// the opaque bearer string handed to guests; it is unique so the exchange can
// look records up by it.
type AccessTokenModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Secret    string    `gorm:"type:varchar(36);uniqueIndex;not null"`
	Label     string    `gorm:"type:varchar(100);not null"`
	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null"`
	UserID    int64     `gorm:"index;not null"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (AccessTokenModel) TableName() string {
	return "access_token"
}
