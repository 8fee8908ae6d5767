package facilityapimodels

import (
	"time"

	"github.com/pkg/errors"

	"cultivation-backend/models"
	dbmodels "cultivation-backend/models/db"
)

type UserCreateData struct {
	Email       string          `json:"email"`
	Password    string          `json:"password"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	PhoneNumber string          `json:"phone_number"`
	Role        models.UserRole `json:"role"`
	NotifyEmail bool            `json:"notify_email"`
}

func (r UserCreateData) Validate() error {
	if r.Email == "" {
		return errors.Wrap(models.ErrValidation, "не указана почта")
	}
	if r.Password == "" {
		return errors.Wrap(models.ErrValidation, "не указан пароль")
	}
	if r.FirstName == "" || r.LastName == "" {
		return errors.Wrap(models.ErrValidation, "не указаны имя и фамилия")
	}
	if r.Role.ToHuman() == string(r.Role) {
		return errors.Wrap(models.ErrValidation, "неизвестная роль")
	}
	return nil
}

type UserView struct {
	ID          string          `json:"id"`
	Email       string          `json:"email"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	PhoneNumber string          `json:"phone_number,omitempty"`
	Role        models.UserRole `json:"role"`
	RoleName    string          `json:"role_name"`
	IsActive    bool            `json:"is_active"`
	Status      string          `json:"status"`
	LastLogin   time.Time       `json:"last_login,omitempty"`
}

func UserConvert(rec dbmodels.FacilityUser) UserView {
	return UserView{
		ID:          rec.ID,
		Email:       rec.Email,
		FirstName:   rec.FirstName,
		LastName:    rec.LastName,
		PhoneNumber: rec.PhoneNumber,
		Role:        rec.Role,
		RoleName:    rec.Role.ToHuman(),
		IsActive:    rec.IsActive,
		Status:      rec.Status.ToHuman(),
		LastLogin:   rec.LastLogin,
	}
}
