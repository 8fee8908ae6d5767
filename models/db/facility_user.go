package dbmodels

import (
	"fmt"
	"time"

	"cultivation-backend/models"
)

type FacilityUser struct {
	BaseModel
	Password    string `gorm:"type:varchar(128)"`
	FirstName   string `gorm:"type:varchar(150)"`
	LastName    string `gorm:"type:varchar(150)"`
	Email       string `gorm:"type:varchar(255)"`
	IsActive    bool
	PhoneNumber string `gorm:"type:varchar(15)"`
	FacilityID  string
	Role        models.UserRole   `gorm:"type:varchar(50)"`
	Status      models.UserStatus `gorm:"type:varchar(20)"`
	NotifyEmail bool              // дублировать уведомления процесса на почту
	LastLogin   time.Time
}

func (r FacilityUser) GetFullName() string {
	return fmt.Sprintf("%s %s", r.FirstName, r.LastName)
}
