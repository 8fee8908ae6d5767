package facilitystore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	dbmodels "cultivation-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Facility) (id string, err error)
	GetByID(id string) (rec *dbmodels.Facility, err error)
	FindByName(name string) (rec *dbmodels.Facility, err error)
	Update(id string, updMap map[string]interface{}) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Facility) (string, error) {
	err := i.db.Save(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Facility, error) {
	rec := dbmodels.Facility{}
	err := i.db.
		Where("id = ?", id).
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

func (i impl) FindByName(name string) (*dbmodels.Facility, error) {
	rec := dbmodels.Facility{}
	err := i.db.
		Where("name = ?", name).
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

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	return i.db.
		Model(&dbmodels.Facility{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}
