package dbmodels

import (
	"time"

	"github.com/lib/pq"

	"cultivation-backend/models"
)

// CheckpointResult — результат контрольной точки качества. Создается вместе с
// выпуском в статусе pending; после ухода из pending повторное заполнение
// запрещено.
type CheckpointResult struct {
	BaseFacilityModel
	ReleaseID         string `gorm:"type:varchar(36);index"`
	Seq               int
	Name              string `gorm:"type:varchar(255)"`
	Mandatory         bool
	Status            models.CheckpointStatus `gorm:"type:varchar(20)"`
	InspectorID       *string                 `gorm:"type:varchar(36)"`
	Inspector         *FacilityUser           `gorm:"foreignKey:InspectorID"`
	CompletedAt       *time.Time
	InspectionData    JSONBMap `gorm:"type:jsonb"`
	Notes             string   `gorm:"type:varchar(2000)"`
	FailureReason     string   `gorm:"type:varchar(1000)"`
	CorrectiveActions pq.StringArray `gorm:"type:text[]"`
	RetestRequired    bool
}
