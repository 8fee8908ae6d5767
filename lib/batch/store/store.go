package batchstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	dbmodels "cultivation-backend/models/db"
)

type Provider interface {
	GetByID(facilityID, id string) (rec *dbmodels.ProcessingBatch, err error)
	Update(facilityID, id string, updMap map[string]interface{}) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) GetByID(facilityID, id string) (*dbmodels.ProcessingBatch, error) {
	rec := dbmodels.ProcessingBatch{}
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

func (i impl) Update(facilityID, id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	err := i.db.
		Model(&dbmodels.ProcessingBatch{}).
		Where("id = ?", id).
		Where("facility_id = ?", facilityID).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}
