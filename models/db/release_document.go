package dbmodels

type ReleaseDocument struct {
	BaseFacilityModel
	ReleaseID   string `gorm:"type:varchar(36);index"`
	Name        string `gorm:"type:varchar(255)"`
	DocType     DocumentType
	ContentType string `gorm:"type:varchar(100)"`
	ObjectKey   string `gorm:"type:varchar(100)"` // ключ объекта в S3
	UploadedBy  string `gorm:"type:varchar(36)"`
}

type DocumentType string

const (
	DocumentLabReport   DocumentType = "lab_report"
	DocumentPhoto       DocumentType = "photo"
	DocumentCertificate DocumentType = "certificate"
	DocumentOther       DocumentType = "other"
)
