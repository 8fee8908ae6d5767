package releasedocstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	dbmodels "cultivation-backend/models/db"
)

type Provider interface {
	Save(rec dbmodels.ReleaseDocument) (id string, err error)
	GetByID(facilityID, id string) (rec *dbmodels.ReleaseDocument, err error)
	ListByRelease(facilityID, releaseID string) (list []dbmodels.ReleaseDocument, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{db: DB}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Save(rec dbmodels.ReleaseDocument) (string, error) {
	err := i.db.Save(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(facilityID, id string) (*dbmodels.ReleaseDocument, error) {
	rec := dbmodels.ReleaseDocument{}
	err := i.db.
		Where("id = ?", id).
		Where("facility_id = ?", facilityID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) ListByRelease(facilityID, releaseID string) (list []dbmodels.ReleaseDocument, err error) {
	err = i.db.
		Where("facility_id = ?", facilityID).
		Where("release_id = ?", releaseID).
		Order("created_at ASC").
		Find(&list).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return list, nil
}
