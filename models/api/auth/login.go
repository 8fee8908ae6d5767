package authapimodels

import (
	"github.com/pkg/errors"

	"cultivation-backend/models"
)

type LoginData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginData) Validate() error {
	if r.Email == "" {
		return errors.Wrap(models.ErrValidation, "не указана почта")
	}
	if r.Password == "" {
		return errors.Wrap(models.ErrValidation, "не указан пароль")
	}
	return nil
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	RoleName    string `json:"role_name"`
	FacilityID  string `json:"facility_id"`
}
