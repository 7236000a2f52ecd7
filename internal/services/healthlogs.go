package services

import (
	"workdesk/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type HealthLogInput struct {
	Date          *string `json:"date"`
	Weekday       *string `json:"weekday"`
	Weight        *string `json:"weight"`
	Morning       *string `json:"morning"`
	Gym           *string `json:"gym"`
	Afternoon     *string `json:"afternoon"`
	NoEatAfter    *string `json:"noEatAfter"`
	Calories      *int    `json:"calories"`
	GoutTreatment *int    `json:"goutTreatment"`
	Status        *string `json:"status"`
}

type HealthLogService interface {
	ListLogs(db *gorm.DB, date string, status models.Status, allStatuses bool) ([]models.HealthLog, error)
	CreateLog(db *gorm.DB, date string, input HealthLogInput) (models.HealthLog, error)
	UpdateLog(db *gorm.DB, id uuid.UUID, input HealthLogInput) (models.HealthLog, error)
	DeleteLog(db *gorm.DB, id uuid.UUID) (models.HealthLog, error)
}

type HealthLogServiceImpl struct{}

func NewHealthLogService() *HealthLogServiceImpl {
	return &HealthLogServiceImpl{}
}

func (s *HealthLogServiceImpl) ListLogs(db *gorm.DB, date string, status models.Status, allStatuses bool) ([]models.HealthLog, error) {
	logs := []models.HealthLog{}
	tx := db.Where("date = ?", date)
	if !allStatuses {
		tx = tx.Where("status = ?", status)
	}
	err := tx.Order("created_at desc").Find(&logs).Error
	return logs, err
}

func (s *HealthLogServiceImpl) CreateLog(db *gorm.DB, date string, input HealthLogInput) (models.HealthLog, error) {
	record := models.HealthLog{
		ID:            uuid.Must(uuid.NewV4()),
		Date:          date,
		Weekday:       input.Weekday,
		Weight:        input.Weight,
		Morning:       input.Morning,
		Gym:           input.Gym,
		Afternoon:     input.Afternoon,
		NoEatAfter:    input.NoEatAfter,
		Calories:      input.Calories,
		GoutTreatment: input.GoutTreatment,
		Status:        models.StatusActive,
	}
	if input.Status != nil {
		record.Status = models.ParseStatus(*input.Status)
	}

	if err := db.Create(&record).Error; err != nil {
		return models.HealthLog{}, err
	}
	return record, nil
}

func (s *HealthLogServiceImpl) UpdateLog(db *gorm.DB, id uuid.UUID, input HealthLogInput) (models.HealthLog, error) {
	var record models.HealthLog
	if err := db.First(&record, "id = ?", id).Error; err != nil {
		return models.HealthLog{}, err
	}

	if input.Date != nil && *input.Date != "" {
		record.Date = *input.Date
	}
	if input.Weekday != nil {
		record.Weekday = input.Weekday
	}
	if input.Weight != nil {
		record.Weight = input.Weight
	}
	if input.Morning != nil {
		record.Morning = input.Morning
	}
	if input.Gym != nil {
		record.Gym = input.Gym
	}
	if input.Afternoon != nil {
		record.Afternoon = input.Afternoon
	}
	if input.NoEatAfter != nil {
		record.NoEatAfter = input.NoEatAfter
	}
	if input.Calories != nil {
		record.Calories = input.Calories
	}
	if input.GoutTreatment != nil {
		record.GoutTreatment = input.GoutTreatment
	}
	if input.Status != nil {
		record.Status = models.ParseStatus(*input.Status)
	}

	if err := db.Save(&record).Error; err != nil {
		return models.HealthLog{}, err
	}
	return record, nil
}

func (s *HealthLogServiceImpl) DeleteLog(db *gorm.DB, id uuid.UUID) (models.HealthLog, error) {
	var record models.HealthLog
	if err := db.First(&record, "id = ?", id).Error; err != nil {
		return models.HealthLog{}, err
	}

	record.Status = models.StatusDisabled
	if err := db.Save(&record).Error; err != nil {
		return models.HealthLog{}, err
	}
	return record, nil
}
