package dbmodels

// ReleaseNumberCounter — счетчик номеров выпуска на пару (площадка, период
// YYMM). Инкремент выполняется атомарно на уровне БД, выданные номера не
// переиспользуются.
type ReleaseNumberCounter struct {
	FacilityID string `gorm:"primaryKey;type:varchar(36)"`
	Period     string `gorm:"primaryKey;type:varchar(4)"`
	LastSeq    int
}
