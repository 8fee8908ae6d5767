package dbmodels

import "cultivation-backend/models"

// ReleaseAuditLog — неизменяемый журнал действий по выпуску, только добавление.
type ReleaseAuditLog struct {
	BaseFacilityModel
	ReleaseID  string             `gorm:"type:varchar(36);index"`
	Action     models.AuditAction `gorm:"type:varchar(50)"`
	EntityType string             `gorm:"type:varchar(50)"`
	EntityID   string             `gorm:"type:varchar(36)"`
	UserID     *string            `gorm:"type:varchar(36)"`
	UserName   string             `gorm:"type:varchar(305)"`
	Changes    EntityChanges      `gorm:"type:jsonb"`
}
