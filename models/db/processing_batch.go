package dbmodels

import (
	"time"

	"cultivation-backend/models"
)

// ProcessingBatch — производственная партия. Жизненным циклом партии владеет
// модуль учета партий, процесс выпуска только читает запись и помечает её
// выпущенной при финализации.
type ProcessingBatch struct {
	BaseFacilityModel
	BatchNumber    string `gorm:"type:varchar(50);index"`
	ProductType    string `gorm:"type:varchar(100)"`
	ProcessingType string `gorm:"type:varchar(100)"`
	Status         models.BatchStatus `gorm:"type:varchar(20)"`
	Quantity       float64
	UnitOfMeasure  string `gorm:"type:varchar(20)"`
	CompletedAt    *time.Time
	ReleasedAt     *time.Time
}
