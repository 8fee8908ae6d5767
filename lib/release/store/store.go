package releasestore

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cultivation-backend/models"
	releaseapimodels "cultivation-backend/models/api/release"
	dbmodels "cultivation-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.BatchRelease) (id string, err error)
	GetByID(facilityID, id string) (rec *dbmodels.BatchRelease, err error)
	GetByIDForUpdate(facilityID, id string) (rec *dbmodels.BatchRelease, err error)
	GetActiveByBatch(facilityID, batchID string) (rec *dbmodels.BatchRelease, err error)
	Update(facilityID, id string, updMap map[string]interface{}) error
	List(facilityID string, filter releaseapimodels.ReleaseFilter) (list []dbmodels.BatchRelease, err error)
	ListCount(facilityID string, filter releaseapimodels.ReleaseFilter) (count int64, err error)
	Statistics(facilityID string, filter releaseapimodels.StatisticsFilter) (stat releaseapimodels.StatisticsView, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.BatchRelease) (id string, err error) {
	err = i.db.
		Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(facilityID, id string) (*dbmodels.BatchRelease, error) {
	rec := dbmodels.BatchRelease{}
	err := i.db.
		Where("id = ?", id).
		Where("facility_id = ?", facilityID).
		Preload("ProcessingBatch").
		Preload("Initiator").
		Preload("FinalizedBy").
		Preload("Checkpoints", func(db *gorm.DB) *gorm.DB {
			return db.Order("checkpoint_results.seq ASC")
		}).
		Preload("Checkpoints.Inspector").
		Preload("Approvals", func(db *gorm.DB) *gorm.DB {
			return db.Order("release_approvals.order_sequence ASC")
		}).
		Preload("Approvals.Approver").
		Preload("Documents").
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// GetByIDForUpdate блокирует строку выпуска на время транзакции. Дочерние
// записи перечитываются отдельными запросами уже под блокировкой.
func (i impl) GetByIDForUpdate(facilityID, id string) (*dbmodels.BatchRelease, error) {
	rec := dbmodels.BatchRelease{}
	err := i.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Where("facility_id = ?", facilityID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetActiveByBatch(facilityID, batchID string) (*dbmodels.BatchRelease, error) {
	rec := dbmodels.BatchRelease{}
	err := i.db.
		Where("facility_id = ?", facilityID).
		Where("processing_batch_id = ?", batchID).
		Where("status NOT IN ?", []models.ReleaseStatus{
			models.ReleaseStatusReleased,
			models.ReleaseStatusRejected,
		}).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Update(facilityID, id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.BatchRelease{}).
		Where("id = ?", id).
		Where("facility_id = ?", facilityID).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.Wrap(models.ErrNotFound, "выпуск не найден")
	}
	return nil
}

func (i impl) applyFilter(tx *gorm.DB, filter releaseapimodels.ReleaseFilter) *gorm.DB {
	if len(filter.Statuses) != 0 {
		tx = tx.Where("batch_releases.status IN ?", filter.Statuses)
	}
	if filter.ProductType != "" || filter.ProcessingType != "" {
		tx = tx.Joins("JOIN processing_batches pb ON pb.id = batch_releases.processing_batch_id")
		if filter.ProductType != "" {
			tx = tx.Where("pb.product_type = ?", filter.ProductType)
		}
		if filter.ProcessingType != "" {
			tx = tx.Where("pb.processing_type = ?", filter.ProcessingType)
		}
	}
	if filter.DateFrom != nil {
		tx = tx.Where("batch_releases.created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		tx = tx.Where("batch_releases.created_at <= ?", *filter.DateTo)
	}
	return tx
}

func (i impl) List(facilityID string, filter releaseapimodels.ReleaseFilter) (list []dbmodels.BatchRelease, err error) {
	list = []dbmodels.BatchRelease{}
	tx := i.db.
		Model(&dbmodels.BatchRelease{}).
		Where("batch_releases.facility_id = ?", facilityID)
	tx = i.applyFilter(tx, filter)
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	err = tx.
		Limit(limit).
		Offset(offset).
		Order("batch_releases.created_at DESC").
		Preload("ProcessingBatch").
		Preload("Initiator").
		Preload("Checkpoints").
		Find(&list).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(facilityID string, filter releaseapimodels.ReleaseFilter) (count int64, err error) {
	tx := i.db.
		Model(&dbmodels.BatchRelease{}).
		Where("batch_releases.facility_id = ?", facilityID)
	tx = i.applyFilter(tx, filter)
	err = tx.Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (i impl) Statistics(facilityID string, filter releaseapimodels.StatisticsFilter) (releaseapimodels.StatisticsView, error) {
	stat := releaseapimodels.StatisticsView{
		ByStatus: map[models.ReleaseStatus]int64{},
	}
	tx := i.db.
		Model(&dbmodels.BatchRelease{}).
		Where("facility_id = ?", facilityID)
	if filter.DateFrom != nil {
		tx = tx.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		tx = tx.Where("created_at <= ?", *filter.DateTo)
	}

	type statusRow struct {
		Status models.ReleaseStatus
		Cnt    int64
	}
	rows := []statusRow{}
	err := tx.
		Session(&gorm.Session{}).
		Select("status, count(*) as cnt").
		Group("status").
		Scan(&rows).
		Error
	if err != nil {
		return stat, err
	}
	for _, row := range rows {
		stat.ByStatus[row.Status] = row.Cnt
		stat.Total += row.Cnt
	}

	var meanDays *float64
	err = tx.
		Session(&gorm.Session{}).
		Where("finalized_at IS NOT NULL").
		Select("avg(extract(epoch from (finalized_at - created_at)) / ?)", float64(24*time.Hour/time.Second)).
		Scan(&meanDays).
		Error
	if err != nil {
		return stat, err
	}
	if meanDays != nil {
		stat.MeanCompletionDays = *meanDays
	}
	return stat, nil
}
