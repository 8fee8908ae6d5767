package dbmodels

import (
	"time"

	"cultivation-backend/models"
)

// BatchRelease — прохождение производственной партией процесса выпуска.
// Запись никогда не удаляется физически: история процесса должна оставаться
// доступной для проверок регулятора.
type BatchRelease struct {
	BaseFacilityModel
	ProcessingBatchID    string           `gorm:"type:varchar(36);index"`
	ProcessingBatch      *ProcessingBatch `gorm:"foreignKey:ProcessingBatchID"`
	TemplateID           string           `gorm:"type:varchar(36)"`
	Template             *ReleaseTemplate `gorm:"foreignKey:TemplateID"`
	ReleaseNumber        string           `gorm:"type:varchar(20);uniqueIndex"`
	Status               models.ReleaseStatus `gorm:"type:varchar(20);index"`
	InitiatorID          string               `gorm:"type:varchar(36)"`
	Initiator            *FacilityUser        `gorm:"foreignKey:InitiatorID"`
	TargetCompletionDate *time.Time
	ActualCompletionDate *time.Time
	Notes                string `gorm:"type:varchar(2000)"`
	FinalizedByID        *string       `gorm:"type:varchar(36)"`
	FinalizedBy          *FacilityUser `gorm:"foreignKey:FinalizedByID"`
	FinalizedAt          *time.Time
	ReleaseData          JSONBMap           `gorm:"type:jsonb"`
	Checkpoints          []CheckpointResult `gorm:"foreignKey:ReleaseID"`
	Approvals            []ReleaseApproval  `gorm:"foreignKey:ReleaseID"`
	Documents            []ReleaseDocument  `gorm:"foreignKey:ReleaseID"`
}
