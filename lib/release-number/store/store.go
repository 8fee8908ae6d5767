package releasenumberstore

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dbmodels "cultivation-backend/models/db"
)

type Provider interface {
	NextSeq(facilityID, period string) (seq int, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

// NextSeq атомарно резервирует следующий номер в счетчике (площадка, период).
// Upsert с инкрементом и RETURNING исключает выдачу дубликатов при
// конкурентном создании выпусков.
func (i impl) NextSeq(facilityID, period string) (int, error) {
	rec := dbmodels.ReleaseNumberCounter{
		FacilityID: facilityID,
		Period:     period,
		LastSeq:    1,
	}
	err := i.db.
		Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "facility_id"}, {Name: "period"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"last_seq": gorm.Expr("release_number_counters.last_seq + 1"),
				}),
			},
			clause.Returning{Columns: []clause.Column{{Name: "last_seq"}}},
		).
		Create(&rec).
		Error
	if err != nil {
		return 0, err
	}
	return rec.LastSeq, nil
}
