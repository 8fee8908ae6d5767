package dbmodels

import "cultivation-backend/models"

// ComplianceEvent — событие для внешнего реестра комплаенса. Создается в
// статусе pending и забирается внешним обработчиком асинхронно.
type ComplianceEvent struct {
	BaseFacilityModel
	EventType  models.ComplianceEventType   `gorm:"type:varchar(50);index"`
	EntityType string                       `gorm:"type:varchar(50)"`
	EntityID   string                       `gorm:"type:varchar(36)"`
	Status     models.ComplianceEventStatus `gorm:"type:varchar(20);index"`
	Payload    JSONBMap                     `gorm:"type:jsonb"`
	UserID     *string                      `gorm:"type:varchar(36)"`
}
