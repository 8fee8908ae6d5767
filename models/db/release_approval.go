package dbmodels

import (
	"time"

	"cultivation-backend/models"
)

// ReleaseApproval — этап цепочки согласования выпуска. Создается вместе с
// выпуском в статусе pending; решение после фиксации не отзывается.
type ReleaseApproval struct {
	BaseFacilityModel
	ReleaseID       string `gorm:"type:varchar(36);index"`
	OrderSequence   int
	Level           string          `gorm:"type:varchar(255)"` // метка уровня согласования из шаблона
	RequiredRole    models.UserRole `gorm:"type:varchar(50)"`
	Status          models.ApprovalStatus `gorm:"type:varchar(20)"`
	ApproverID      *string               `gorm:"type:varchar(36)"`
	Approver        *FacilityUser         `gorm:"foreignKey:ApproverID"`
	RespondedAt     *time.Time
	Notes           string   `gorm:"type:varchar(2000)"`
	RejectionReason string   `gorm:"type:varchar(1000)"`
	SignatureData   JSONBMap `gorm:"type:jsonb"`
}
