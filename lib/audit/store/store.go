package auditstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	dbmodels "cultivation-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.ReleaseAuditLog) (id string, err error)
	List(facilityID, releaseID string) (list []dbmodels.ReleaseAuditLog, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ReleaseAuditLog) (id string, err error) {
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) List(facilityID, releaseID string) (list []dbmodels.ReleaseAuditLog, err error) {
	list = []dbmodels.ReleaseAuditLog{}
	err = i.db.
		Where("facility_id = ?", facilityID).
		Where("release_id = ?", releaseID).
		Order("created_at ASC").
		Find(&list).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}
