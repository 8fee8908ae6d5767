package facilityauthhandler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"cultivation-backend/db"
	facilityusersstore "cultivation-backend/lib/facility/users/store"
	authutils "cultivation-backend/lib/utils/auth-utils"
	"cultivation-backend/models"
	authapimodels "cultivation-backend/models/api/auth"
	facilityapimodels "cultivation-backend/models/api/facility"
)

type Provider interface {
	Login(email, password string) (resp authapimodels.TokenResponse, err error)
	Me(ctx *fiber.Ctx) (view facilityapimodels.UserView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		usersStore: facilityusersstore.NewInstance(db.DB),
	}
}

type impl struct {
	usersStore facilityusersstore.Provider
}

func (i impl) Login(email, password string) (authapimodels.TokenResponse, error) {
	resp := authapimodels.TokenResponse{}
	rec, err := i.usersStore.FindByEmail(email)
	if err != nil {
		return resp, errors.Wrap(err, "ошибка поиска сотрудника")
	}
	if rec == nil || !rec.IsActive || rec.Status == models.FacilityDismissedStatus {
		return resp, errors.New("неверная почта или пароль")
	}
	if authutils.GetMD5Hash(password) != rec.Password {
		return resp, errors.New("неверная почта или пароль")
	}
	token, err := authutils.GetToken(rec.ID, rec.GetFullName(), rec.FacilityID, rec.Role)
	if err != nil {
		return resp, errors.Wrap(err, "ошибка выдачи токена")
	}
	if err = i.usersStore.Update(rec.ID, map[string]interface{}{"last_login": time.Now()}); err != nil {
		log.WithError(err).WithField("user_id", rec.ID).Error("ошибка обновления даты входа")
	}
	resp.AccessToken = token
	resp.Role = string(rec.Role)
	resp.RoleName = rec.Role.ToHuman()
	resp.FacilityID = rec.FacilityID
	return resp, nil
}

func (i impl) Me(ctx *fiber.Ctx) (facilityapimodels.UserView, error) {
	claims := authutils.GetClaims(ctx)
	userID, _ := claims["sub"].(string)
	rec, err := i.usersStore.GetByID(userID)
	if err != nil {
		return facilityapimodels.UserView{}, errors.Wrap(err, "ошибка получения сотрудника")
	}
	if rec == nil {
		return facilityapimodels.UserView{}, errors.Wrap(models.ErrNotFound, "сотрудник не найден")
	}
	return facilityapimodels.UserConvert(*rec), nil
}
