package compliancehandler

import (
	log "github.com/sirupsen/logrus"

	"cultivation-backend/db"
	compliancestore "cultivation-backend/lib/compliance/store"
	"cultivation-backend/models"
	dbmodels "cultivation-backend/models/db"
)

// Реестр комплаенса внешний: события складываются в статусе pending и
// передаются фоновым обработчиком. Контракт best effort — сбой эмиссии не
// откатывает действие процесса.
type Provider interface {
	Emit(facilityID string, eventType models.ComplianceEventType, entityType, entityID string, payload map[string]any, userID string)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: compliancestore.NewInstance(db.DB),
	}
}

type impl struct {
	store compliancestore.Provider
}

func (i impl) Emit(facilityID string, eventType models.ComplianceEventType, entityType, entityID string, payload map[string]any, userID string) {
	logger := log.
		WithField("facility_id", facilityID).
		WithField("event_type", eventType).
		WithField("entity_id", entityID)
	rec := dbmodels.ComplianceEvent{
		BaseFacilityModel: dbmodels.BaseFacilityModel{
			FacilityID: facilityID,
		},
		EventType:  eventType,
		EntityType: entityType,
		EntityID:   entityID,
		Status:     models.ComplianceEventStatusPending,
		Payload:    payload,
	}
	if userID != "" {
		rec.UserID = &userID
	}
	_, err := i.store.Create(rec)
	if err != nil {
		logger.WithError(err).Error("ошибка эмиссии события комплаенса")
		return
	}
	logger.Info("событие комплаенса поставлено в очередь")
}
