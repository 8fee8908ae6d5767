package dbmodels

import "cultivation-backend/models"

// ReleaseTemplate — шаблон процесса выпуска: последовательность контрольных
// точек и цепочка согласования для типа продукции. После привязки к выпуску
// шаблон не изменяется.
type ReleaseTemplate struct {
	BaseFacilityModel
	Name        string `gorm:"type:varchar(255)"`
	ProductType string `gorm:"type:varchar(100);index"`
	IsActive    bool
	Checkpoints []TemplateCheckpoint `gorm:"foreignKey:TemplateID"`
	Roles       []TemplateRole       `gorm:"foreignKey:TemplateID"`
}

type TemplateCheckpoint struct {
	BaseFacilityModel
	TemplateID  string `gorm:"type:varchar(36);index"`
	Seq         int
	Name        string `gorm:"type:varchar(255)"`
	Description string `gorm:"type:varchar(1000)"`
	Mandatory   bool
}

// TemplateRole — этап цепочки согласования: роль и готовая человекочитаемая
// метка уровня, разрешенные на стороне справочника ролей.
type TemplateRole struct {
	BaseFacilityModel
	TemplateID string `gorm:"type:varchar(36);index"`
	Seq        int
	Role       models.UserRole `gorm:"type:varchar(50)"`
	Label      string          `gorm:"type:varchar(255)"`
}
