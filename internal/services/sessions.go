package services

import (
	"errors"
	"time"

	"workdesk/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

var ErrSessionAlreadyStopped = errors.New("session already stopped")

type SessionInput struct {
	Date   *string `json:"date"`
	Device *string `json:"device"`
	Notes  *string `json:"notes"`
}

type SessionService interface {
	ListSessions(db *gorm.DB, date string) ([]models.WorkSession, error)
	StartSession(db *gorm.DB, input SessionInput) (models.WorkSession, error)
	StopSession(db *gorm.DB, id uuid.UUID) (models.WorkSession, error)
	Today() string
}

// SessionServiceImpl groups sessions by calendar day in the reporting
// timezone, not the server's zone.
type SessionServiceImpl struct {
	loc *time.Location
}

func NewSessionService(loc *time.Location) *SessionServiceImpl {
	if loc == nil {
		loc = time.UTC
	}
	return &SessionServiceImpl{loc: loc}
}

// Today is the current calendar day in the reporting timezone.
func (s *SessionServiceImpl) Today() string {
	return time.Now().In(s.loc).Format("2006-01-02")
}

func (s *SessionServiceImpl) ListSessions(db *gorm.DB, date string) ([]models.WorkSession, error) {
	sessions := []models.WorkSession{}
	err := db.Where("date = ?", date).Order("start_at desc").Find(&sessions).Error
	return sessions, err
}

func (s *SessionServiceImpl) StartSession(db *gorm.DB, input SessionInput) (models.WorkSession, error) {
	date := s.Today()
	if input.Date != nil && *input.Date != "" {
		date = *input.Date
	}

	session := models.WorkSession{
		ID:      uuid.Must(uuid.NewV4()),
		Date:    date,
		StartAt: time.Now(),
		Device:  input.Device,
		Notes:   input.Notes,
	}

	if err := db.Create(&session).Error; err != nil {
		return models.WorkSession{}, err
	}
	return session, nil
}

func (s *SessionServiceImpl) StopSession(db *gorm.DB, id uuid.UUID) (models.WorkSession, error) {
	var session models.WorkSession
	if err := db.First(&session, "id = ?", id).Error; err != nil {
		return models.WorkSession{}, err
	}
	if !session.Running() {
		return models.WorkSession{}, ErrSessionAlreadyStopped
	}

	now := time.Now()
	minutes := int(now.Sub(session.StartAt).Minutes())
	session.EndAt = &now
	session.DurationMin = &minutes

	if err := db.Save(&session).Error; err != nil {
		return models.WorkSession{}, err
	}
	return session, nil
}
