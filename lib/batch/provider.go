package batchprovider

import (
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"cultivation-backend/db"
	batchstore "cultivation-backend/lib/batch/store"
	"cultivation-backend/models"
	dbmodels "cultivation-backend/models/db"
)

// Учет партий — внешний по отношению к процессу выпуска модуль.
// Процессу нужны две операции: проверка партии и отметка о выпуске.
type Provider interface {
	Get(facilityID, id string) (rec *dbmodels.ProcessingBatch, err error)
	MarkReleased(facilityID, id string) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: batchstore.NewInstance(db.DB),
	}
}

func NewHandlerWithTx(tx *gorm.DB) Provider {
	return impl{
		store: batchstore.NewInstance(tx),
	}
}

type impl struct {
	store batchstore.Provider
}

func (i impl) Get(facilityID, id string) (*dbmodels.ProcessingBatch, error) {
	rec, err := i.store.GetByID(facilityID, id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения производственной партии")
	}
	if rec == nil {
		return nil, errors.Wrap(models.ErrNotFound, "производственная партия не найдена")
	}
	return rec, nil
}

func (i impl) MarkReleased(facilityID, id string) error {
	logger := log.
		WithField("facility_id", facilityID).
		WithField("batch_id", id)
	updMap := map[string]interface{}{
		"status":      models.BatchStatusReleased,
		"released_at": time.Now(),
	}
	err := i.store.Update(facilityID, id, updMap)
	if err != nil {
		logger.WithError(err).Error("ошибка обновления статуса партии")
		return err
	}
	logger.Info("партия помечена выпущенной")
	return nil
}
