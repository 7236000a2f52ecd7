package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// WorkSession tracks one start/stop interval of a working day. Date is
// the calendar day in the configured reporting timezone, kept as a
// plain YYYY-MM-DD string so day grouping never depends on the server
// clock's zone.
type WorkSession struct {
	ID          uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	Date        string     `json:"date" gorm:"not null;index"`
	StartAt     time.Time  `json:"startAt" gorm:"not null"`
	EndAt       *time.Time `json:"endAt"`
	DurationMin *int       `json:"durationMin"`
	Device      *string    `json:"device"`
	Notes       *string    `json:"notes"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (s *WorkSession) Running() bool {
	return s.EndAt == nil
}
