package dbmodels

import "time"

type Facility struct {
	BaseModel
	Name          string `gorm:"type:varchar(255)"`
	LicenseNumber string `gorm:"type:varchar(50)"`  // Номер лицензии регулятора
	RegulatorCode string `gorm:"type:varchar(50)"`  // Код площадки во внешней системе регулятора
	Address       string `gorm:"type:varchar(500)"`
	Timezone      string `gorm:"type:varchar(50)"`
	IsActive      bool
	LicensedAt    time.Time
}
