package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// HealthLog is one daily wellness record. Free-text fields mirror the
// tracker's columns; Weight stays a string because the source data
// mixes units and ranges ("81.5", "81-82kg").
type HealthLog struct {
	ID            uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	Date          string     `json:"date" gorm:"not null;index"`
	Weekday       *string    `json:"weekday"`
	Weight        *string    `json:"weight"`
	Morning       *string    `json:"morning"`
	Gym           *string    `json:"gym"`
	Afternoon     *string    `json:"afternoon"`
	NoEatAfter    *string    `json:"noEatAfter"`
	Calories      *int       `json:"calories"`
	GoutTreatment *int       `json:"goutTreatment"`
	Status        Status     `json:"status" gorm:"not null;default:'active';index"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}
