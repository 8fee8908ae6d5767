package db

import (
	log "github.com/sirupsen/logrus"

	"cultivation-backend/config"
	facilitystore "cultivation-backend/lib/facility/store"
	facilityusersstore "cultivation-backend/lib/facility/users/store"
	authutils "cultivation-backend/lib/utils/auth-utils"
	"cultivation-backend/models"
	dbmodels "cultivation-backend/models/db"
)

func InitPreload() {
	addDefaultFacilityAdmin()
}

// addDefaultFacilityAdmin создает стартовую площадку и администратора по
// настройкам окружения, чтобы в новую инсталляцию можно было войти.
func addDefaultFacilityAdmin() {
	if config.Conf.Admin.Email == "" {
		log.Warn("администратор площадки не добавлен, отсутствует настройка ADMIN_EMAIL")
		return
	}
	userStore := facilityusersstore.NewInstance(DB)
	existedRec, err := userStore.FindByEmail(config.Conf.Admin.Email)
	if err != nil {
		log.WithError(err).Error("ошибка добавления администратора площадки")
		return
	}
	if existedRec != nil {
		return
	}
	facilityName := config.Conf.Admin.FacilityName
	if facilityName == "" {
		facilityName = "Основная площадка"
	}
	fStore := facilitystore.NewInstance(DB)
	facilityRec, err := fStore.FindByName(facilityName)
	if err != nil {
		log.WithError(err).Error("ошибка поиска площадки")
		return
	}
	facilityID := ""
	if facilityRec != nil {
		facilityID = facilityRec.ID
	} else {
		facilityID, err = fStore.Create(dbmodels.Facility{
			Name:     facilityName,
			IsActive: true,
		})
		if err != nil {
			log.WithError(err).Error("ошибка создания площадки")
			return
		}
	}
	rec := dbmodels.FacilityUser{
		Password:    authutils.GetMD5Hash(config.Conf.Admin.Password),
		FirstName:   config.Conf.Admin.FirstName,
		LastName:    config.Conf.Admin.LastName,
		Email:       config.Conf.Admin.Email,
		IsActive:    true,
		FacilityID:  facilityID,
		Role:        models.FacilityAdminRole,
		Status:      models.FacilityWorkingStatus,
		NotifyEmail: true,
	}
	if _, err = userStore.Create(rec); err != nil {
		log.WithError(err).Error("ошибка создания администратора площадки")
		return
	}
	log.WithField("email", config.Conf.Admin.Email).Info("добавлен администратор площадки")
}
