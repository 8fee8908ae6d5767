package audithandler

import (
	log "github.com/sirupsen/logrus"

	"cultivation-backend/db"
	auditstore "cultivation-backend/lib/audit/store"
	facilityusersstore "cultivation-backend/lib/facility/users/store"
	"cultivation-backend/models"
	releaseapimodels "cultivation-backend/models/api/release"
	dbmodels "cultivation-backend/models/db"
)

// Журнал аудита пишется по принципу best effort: сбой записи не должен
// откатывать уже совершившееся действие процесса, поэтому Save ничего не
// возвращает, а ошибки уходят в операционный лог.
type Provider interface {
	Save(facilityID, releaseID, userID string, action models.AuditAction, entityType, entityID string, changes dbmodels.EntityChanges)
	List(facilityID, releaseID string) ([]releaseapimodels.AuditEntryView, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:     auditstore.NewInstance(db.DB),
		userStore: facilityusersstore.NewInstance(db.DB),
	}
}

type impl struct {
	store     auditstore.Provider
	userStore facilityusersstore.Provider
}

func (i impl) Save(facilityID, releaseID, userID string, action models.AuditAction, entityType, entityID string, changes dbmodels.EntityChanges) {
	logger := log.
		WithField("facility_id", facilityID).
		WithField("release_id", releaseID).
		WithField("action", action)
	rec := dbmodels.ReleaseAuditLog{
		BaseFacilityModel: dbmodels.BaseFacilityModel{
			FacilityID: facilityID,
		},
		ReleaseID:  releaseID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Changes:    changes,
	}
	if userID != "" {
		rec.UserID = &userID
		user, err := i.userStore.GetByID(userID)
		if err != nil {
			logger.WithError(err).Error("ошибка записи аудита, не удалось получить автора действия")
			return
		}
		if user == nil {
			logger.Error("ошибка записи аудита, автор действия не найден")
			return
		}
		rec.UserName = user.GetFullName()
	} else {
		rec.UserName = models.SystemUser
	}
	_, err := i.store.Create(rec)
	if err != nil {
		logger.WithError(err).Error("ошибка записи аудита по выпуску")
	}
}

func (i impl) List(facilityID, releaseID string) ([]releaseapimodels.AuditEntryView, error) {
	list, err := i.store.List(facilityID, releaseID)
	if err != nil {
		return nil, err
	}
	result := make([]releaseapimodels.AuditEntryView, 0, len(list))
	for _, rec := range list {
		result = append(result, releaseapimodels.AuditEntryConvert(rec))
	}
	return result, nil
}
