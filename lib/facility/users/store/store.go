package facilityusersstore

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"cultivation-backend/models"
	dbmodels "cultivation-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.FacilityUser) (string, error)
	Update(userID string, updMap map[string]interface{}) error
	GetByID(userID string) (rec *dbmodels.FacilityUser, err error)
	FindByEmail(email string) (rec *dbmodels.FacilityUser, err error)
	GetList(facilityID string) (userList []dbmodels.FacilityUser, err error)
	GetListByRole(facilityID string, role models.UserRole) (userList []dbmodels.FacilityUser, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.FacilityUser) (string, error) {
	rec.Email = strings.ToLower(rec.Email)
	err := i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) Update(userID string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	err := i.db.
		Model(&dbmodels.FacilityUser{}).
		Where("id = ?", userID).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) GetByID(userID string) (*dbmodels.FacilityUser, error) {
	rec := dbmodels.FacilityUser{}
	err := i.db.
		Where("id = ?", userID).
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

func (i impl) FindByEmail(email string) (*dbmodels.FacilityUser, error) {
	rec := dbmodels.FacilityUser{}
	err := i.db.
		Where("email = ?", strings.ToLower(email)).
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

func (i impl) GetList(facilityID string) (userList []dbmodels.FacilityUser, err error) {
	err = i.db.
		Where("facility_id = ?", facilityID).
		Order("last_name ASC").
		Find(&userList).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return userList, nil
}

func (i impl) GetListByRole(facilityID string, role models.UserRole) (userList []dbmodels.FacilityUser, err error) {
	err = i.db.
		Where("facility_id = ?", facilityID).
		Where("role = ?", role).
		Where("is_active = true").
		Find(&userList).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return userList, nil
}
