package releaseapimodels

import (
	"time"

	"cultivation-backend/models"
	apimodels "cultivation-backend/models/api"
)

type ReleaseFilter struct {
	apimodels.Pagination
	Statuses       []models.ReleaseStatus `json:"statuses"`
	ProductType    string                 `json:"product_type"`
	ProcessingType string                 `json:"processing_type"`
	DateFrom       *time.Time             `json:"date_from"`
	DateTo         *time.Time             `json:"date_to"`
}

func (r ReleaseFilter) Validate() error {
	return nil
}

type StatisticsFilter struct {
	DateFrom *time.Time `json:"date_from"`
	DateTo   *time.Time `json:"date_to"`
}

func (r StatisticsFilter) Validate() error {
	return nil
}

type StatisticsView struct {
	Total              int64                          `json:"total"`
	ByStatus           map[models.ReleaseStatus]int64 `json:"by_status"`
	MeanCompletionDays float64                        `json:"mean_completion_days"` // среднее время от создания до выпуска
}
