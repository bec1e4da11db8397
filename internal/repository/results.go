package repository

import (
	"hrv-go/internal/database"
	"hrv-go/internal/models"
)

// SaveSessionResult persists one analyzed session for the archive layer.
func SaveSessionResult(row models.SessionResult) error {
	return database.DB.Create(&row).Error
}

// GetSessionResult loads one session by its identifier.
func GetSessionResult(sessionID string) (*models.SessionResult, error) {
	var row models.SessionResult
	if err := database.DB.Where("session_id = ?", sessionID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ListRecentResults returns the most recent sessions, newest first.
func ListRecentResults(limit int) ([]models.SessionResult, error) {
	if limit <= 0 {
		limit = 30
	}
	var rows []models.SessionResult
	err := database.DB.Order("recorded_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}
