package releasecheckpointstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"cultivation-backend/models"
	dbmodels "cultivation-backend/models/db"
)

type Provider interface {
	CreateBatch(list []dbmodels.CheckpointResult) error
	GetByID(facilityID, id string) (rec *dbmodels.CheckpointResult, err error)
	ListByRelease(facilityID, releaseID string) (list []dbmodels.CheckpointResult, err error)
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

func (i impl) CreateBatch(list []dbmodels.CheckpointResult) error {
	if len(list) == 0 {
		return nil
	}
	return i.db.Create(&list).Error
}

func (i impl) GetByID(facilityID, id string) (*dbmodels.CheckpointResult, error) {
	rec := dbmodels.CheckpointResult{}
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

func (i impl) ListByRelease(facilityID, releaseID string) (list []dbmodels.CheckpointResult, err error) {
	list = []dbmodels.CheckpointResult{}
	err = i.db.
		Where("facility_id = ?", facilityID).
		Where("release_id = ?", releaseID).
		Order("seq ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Update(facilityID, id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.CheckpointResult{}).
		Where("id = ?", id).
		Where("facility_id = ?", facilityID).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.Wrap(models.ErrNotFound, "контрольная точка не найдена")
	}
	return nil
}
