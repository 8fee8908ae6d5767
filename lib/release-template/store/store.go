package releasetemplatestore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dbmodels "cultivation-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.ReleaseTemplate) (id string, err error)
	GetByID(facilityID, id string) (rec *dbmodels.ReleaseTemplate, err error)
	Update(facilityID, id string, updMap map[string]interface{}) error
	List(facilityID string) (list []dbmodels.ReleaseTemplate, err error)
	UsedByRelease(facilityID, id string) (bool, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ReleaseTemplate) (id string, err error) {
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(facilityID, id string) (*dbmodels.ReleaseTemplate, error) {
	rec := dbmodels.ReleaseTemplate{}
	err := i.db.
		Where("id = ?", id).
		Where("facility_id = ?", facilityID).
		Preload("Checkpoints", func(db *gorm.DB) *gorm.DB {
			return db.Order("template_checkpoints.seq ASC")
		}).
		Preload("Roles", func(db *gorm.DB) *gorm.DB {
			return db.Order("template_roles.seq ASC")
		}).
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

func (i impl) Update(facilityID, id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	err := i.db.
		Model(&dbmodels.ReleaseTemplate{}).
		Where("id = ?", id).
		Where("facility_id = ?", facilityID).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) List(facilityID string) (list []dbmodels.ReleaseTemplate, err error) {
	list = []dbmodels.ReleaseTemplate{}
	err = i.db.
		Where("facility_id = ?", facilityID).
		Preload(clause.Associations).
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

func (i impl) UsedByRelease(facilityID, id string) (bool, error) {
	var rowCount int64
	err := i.db.
		Model(&dbmodels.BatchRelease{}).
		Where("facility_id = ?", facilityID).
		Where("template_id = ?", id).
		Count(&rowCount).
		Error
	if err != nil {
		return false, err
	}
	return rowCount > 0, nil
}
