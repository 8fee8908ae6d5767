package facilityusershandler

import (
	"github.com/pkg/errors"

	"cultivation-backend/db"
	facilityusersstore "cultivation-backend/lib/facility/users/store"
	authutils "cultivation-backend/lib/utils/auth-utils"
	"cultivation-backend/models"
	facilityapimodels "cultivation-backend/models/api/facility"
	dbmodels "cultivation-backend/models/db"
)

type Provider interface {
	Create(facilityID string, data facilityapimodels.UserCreateData) (id string, err error)
	List(facilityID string) (list []facilityapimodels.UserView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: facilityusersstore.NewInstance(db.DB),
	}
}

type impl struct {
	store facilityusersstore.Provider
}

func (i impl) Create(facilityID string, data facilityapimodels.UserCreateData) (string, error) {
	if err := data.Validate(); err != nil {
		return "", err
	}
	existed, err := i.store.FindByEmail(data.Email)
	if err != nil {
		return "", errors.Wrap(err, "ошибка проверки почты")
	}
	if existed != nil {
		return "", errors.Wrap(models.ErrValidation, "сотрудник с такой почтой уже зарегистрирован")
	}
	rec := dbmodels.FacilityUser{
		Password:    authutils.GetMD5Hash(data.Password),
		FirstName:   data.FirstName,
		LastName:    data.LastName,
		Email:       data.Email,
		PhoneNumber: data.PhoneNumber,
		IsActive:    true,
		FacilityID:  facilityID,
		Role:        data.Role,
		Status:      models.FacilityWorkingStatus,
		NotifyEmail: data.NotifyEmail,
	}
	id, err := i.store.Create(rec)
	if err != nil {
		return "", errors.Wrap(err, "ошибка создания сотрудника")
	}
	return id, nil
}

func (i impl) List(facilityID string) ([]facilityapimodels.UserView, error) {
	recs, err := i.store.GetList(facilityID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка сотрудников")
	}
	list := make([]facilityapimodels.UserView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, facilityapimodels.UserConvert(rec))
	}
	return list, nil
}
