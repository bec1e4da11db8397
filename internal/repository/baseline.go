package repository

import (
	"time"

	"hrv-go/internal/database"
	"hrv-go/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertBaselinePoint records one accepted session's summary for its day
// (replacing an earlier point for the same day) and prunes history beyond
// the cap, in a single transaction.
func UpsertBaselinePoint(point models.BaselinePoint) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		point.Date = point.Date.UTC().Truncate(24 * time.Hour)
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"rmssd_ms", "sdnn_ms", "mean_hr", "hf_power", "lf_power",
				"lf_hf_ratio", "dfa_alpha1", "stress_index", "readiness_score",
			}),
		}).Create(&point).Error; err != nil {
			return err
		}

		// Cap stored history: keep the newest points only.
		var count int64
		if err := tx.Model(&models.BaselinePoint{}).Count(&count).Error; err != nil {
			return err
		}
		if count <= models.BaselineHistoryCap {
			return nil
		}
		var cutoff models.BaselinePoint
		if err := tx.Order("date DESC").Offset(models.BaselineHistoryCap - 1).First(&cutoff).Error; err != nil {
			return err
		}
		return tx.Where("date < ?", cutoff.Date).Delete(&models.BaselinePoint{}).Error
	})
}

// LoadBaselinePoints returns the stored history, oldest first.
func LoadBaselinePoints() ([]models.BaselinePoint, error) {
	var points []models.BaselinePoint
	err := database.DB.Order("date ASC").Find(&points).Error
	return points, err
}

// GetBaseline recomputes the rolling baseline from stored history as of the
// given time.
func GetBaseline(asOf time.Time) (models.Baseline, error) {
	points, err := LoadBaselinePoints()
	if err != nil {
		return models.Baseline{}, err
	}
	return models.ComputeBaseline(points, asOf), nil
}
