package release

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"cultivation-backend/db"
	audithandler "cultivation-backend/lib/audit"
	batchprovider "cultivation-backend/lib/batch"
	compliancehandler "cultivation-backend/lib/compliance"
	notifyhandler "cultivation-backend/lib/notify"
	releaseapprovalstore "cultivation-backend/lib/release-approval/store"
	releasecheckpointstore "cultivation-backend/lib/release-checkpoint/store"
	releasenumberhandler "cultivation-backend/lib/release-number"
	releasestore "cultivation-backend/lib/release/store"
	releasetemplatehandler "cultivation-backend/lib/release-template"
	"cultivation-backend/lib/utils/lock"
	"cultivation-backend/models"
	releaseapimodels "cultivation-backend/models/api/release"
	dbmodels "cultivation-backend/models/db"
)

const entityTypeRelease = "release"

type Provider interface {
	Create(facilityID, userID string, data releaseapimodels.ReleaseCreateData) (id string, err error)
	GetByID(facilityID, id string) (item releaseapimodels.ReleaseView, err error)
	List(facilityID string, filter releaseapimodels.ReleaseFilter) (list []releaseapimodels.ReleaseView, rowCount int64, err error)
	Statistics(facilityID string, filter releaseapimodels.StatisticsFilter) (stat releaseapimodels.StatisticsView, err error)
	Finalize(ctx context.Context, facilityID, userID, id string, data releaseapimodels.ReleaseFinalizeData) error

	// WithReleaseLock выполняет fn в транзакции под эксклюзивной блокировкой
	// выпуска. Все мутации выпуска и его дочерних записей идут через нее.
	WithReleaseLock(ctx context.Context, releaseID string, fn func(tx *gorm.DB) error) error
	// RecomputeTx пересчитывает агрегированный статус выпуска по дочерним
	// записям. Вызывается только внутри WithReleaseLock.
	RecomputeTx(tx *gorm.DB, facilityID, releaseID string) (from, to models.ReleaseStatus, err error)
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		txRunner: func(fn func(tx *gorm.DB) error) error {
			return db.DB.Transaction(fn)
		},
		stores:   defaultStores,
		batches:  batchprovider.NewHandlerWithTx,
		now:      time.Now,
		lockWait: 5 * time.Second,
	}
}

type storeBundle struct {
	releases    releasestore.Provider
	checkpoints releasecheckpointstore.Provider
	approvals   releaseapprovalstore.Provider
}

func defaultStores(tx *gorm.DB) storeBundle {
	if tx == nil {
		tx = db.DB
	}
	return storeBundle{
		releases:    releasestore.NewInstance(tx),
		checkpoints: releasecheckpointstore.NewInstance(tx),
		approvals:   releaseapprovalstore.NewInstance(tx),
	}
}

type impl struct {
	txRunner func(fn func(tx *gorm.DB) error) error
	stores   func(tx *gorm.DB) storeBundle
	batches  func(tx *gorm.DB) batchprovider.Provider
	now      func() time.Time
	lockWait time.Duration
}

func releaseLockKey(releaseID string) string {
	return fmt.Sprintf("release:%v", releaseID)
}

func (i impl) getLogger(facilityID, releaseID string) *log.Entry {
	return log.
		WithField("facility_id", facilityID).
		WithField("release_id", releaseID)
}

func (i impl) Create(facilityID, userID string, data releaseapimodels.ReleaseCreateData) (string, error) {
	logger := log.
		WithField("facility_id", facilityID).
		WithField("processing_batch_id", data.ProcessingBatchID)
	if err := data.Validate(); err != nil {
		return "", err
	}
	batchRec, err := batchprovider.Instance.Get(facilityID, data.ProcessingBatchID)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения производственной партии")
	}
	if batchRec == nil {
		return "", errors.Wrap(models.ErrNotFound, "производственная партия не найдена")
	}
	templateRec, err := releasetemplatehandler.Instance.GetRec(facilityID, data.TemplateID)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения шаблона выпуска")
	}
	if templateRec == nil {
		return "", errors.Wrap(models.ErrNotFound, "шаблон выпуска не найден")
	}
	if !templateRec.IsActive {
		return "", errors.Wrap(models.ErrValidation, "шаблон выпуска деактивирован")
	}
	existing, err := i.stores(nil).releases.GetActiveByBatch(facilityID, data.ProcessingBatchID)
	if err != nil {
		return "", errors.Wrap(err, "ошибка проверки активного выпуска по партии")
	}
	if existing != nil {
		return "", errors.Wrapf(models.ErrValidation, "по партии уже открыт выпуск %v", existing.ReleaseNumber)
	}

	// сбой резервирования номера фатален, выпуск без номера не создается
	releaseNumber, err := releasenumberhandler.Instance.Next(facilityID)
	if err != nil {
		return "", err
	}

	var releaseID string
	err = i.txRunner(func(tx *gorm.DB) error {
		st := i.stores(tx)
		rec := dbmodels.BatchRelease{
			BaseFacilityModel: dbmodels.BaseFacilityModel{
				FacilityID: facilityID,
			},
			ProcessingBatchID:    data.ProcessingBatchID,
			TemplateID:           templateRec.ID,
			ReleaseNumber:        releaseNumber,
			Status:               models.ReleaseStatusPending,
			InitiatorID:          userID,
			TargetCompletionDate: data.TargetCompletionDate,
			Notes:                data.Notes,
		}
		releaseID, err = st.releases.Create(rec)
		if err != nil {
			return errors.Wrap(err, "ошибка создания выпуска")
		}
		checkpoints := make([]dbmodels.CheckpointResult, 0, len(templateRec.Checkpoints))
		for _, tplCheckpoint := range templateRec.Checkpoints {
			checkpoints = append(checkpoints, dbmodels.CheckpointResult{
				BaseFacilityModel: dbmodels.BaseFacilityModel{
					FacilityID: facilityID,
				},
				ReleaseID: releaseID,
				Seq:       tplCheckpoint.Seq,
				Name:      tplCheckpoint.Name,
				Mandatory: tplCheckpoint.Mandatory,
				Status:    models.CheckpointStatusPending,
			})
		}
		if err = st.checkpoints.CreateBatch(checkpoints); err != nil {
			return errors.Wrap(err, "ошибка создания контрольных точек")
		}
		approvals := make([]dbmodels.ReleaseApproval, 0, len(templateRec.Roles))
		for _, tplRole := range templateRec.Roles {
			approvals = append(approvals, dbmodels.ReleaseApproval{
				BaseFacilityModel: dbmodels.BaseFacilityModel{
					FacilityID: facilityID,
				},
				ReleaseID:     releaseID,
				OrderSequence: tplRole.Seq,
				Level:         tplRole.Label,
				RequiredRole:  tplRole.Role,
				Status:        models.ApprovalStatusPending,
			})
		}
		if err = st.approvals.CreateBatch(approvals); err != nil {
			return errors.Wrap(err, "ошибка создания цепочки согласования")
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	logger.WithField("release_number", releaseNumber).Info("создан выпуск партии")

	audithandler.Instance.Save(facilityID, releaseID, userID, models.AuditActionReleaseInitiated,
		entityTypeRelease, releaseID, dbmodels.EntityChanges{
			Description: fmt.Sprintf("Выпуск %v создан по партии %v", releaseNumber, batchRec.BatchNumber),
			Data: []dbmodels.FieldChanges{
				{Field: "status", OldValue: nil, NewValue: string(models.ReleaseStatusPending)},
			},
		})
	notifyhandler.Instance.SendReleaseEvent(facilityID, models.NotifyReleaseInitiated, releaseNumber,
		[]models.UserRole{models.QaInspectorRole})
	return releaseID, nil
}

func (i impl) GetByID(facilityID, id string) (releaseapimodels.ReleaseView, error) {
	rec, err := i.stores(nil).releases.GetByID(facilityID, id)
	if err != nil {
		return releaseapimodels.ReleaseView{}, errors.Wrap(err, "ошибка получения выпуска")
	}
	if rec == nil {
		return releaseapimodels.ReleaseView{}, errors.Wrap(models.ErrNotFound, "выпуск не найден")
	}
	view := releaseapimodels.ReleaseConvert(*rec)
	auditLog, err := audithandler.Instance.List(facilityID, id)
	if err != nil {
		i.getLogger(facilityID, id).WithError(err).Error("ошибка получения журнала аудита выпуска")
	} else {
		view.AuditLog = auditLog
	}
	return view, nil
}

func (i impl) List(facilityID string, filter releaseapimodels.ReleaseFilter) ([]releaseapimodels.ReleaseView, int64, error) {
	st := i.stores(nil)
	rowCount, err := st.releases.ListCount(facilityID, filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения числа выпусков")
	}
	recs, err := st.releases.List(facilityID, filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка выпусков")
	}
	list := make([]releaseapimodels.ReleaseView, 0, len(recs))
	for _, rec := range recs {
		view := releaseapimodels.ReleaseConvert(rec)
		// в списке достаточно счетчиков, дочерние записи отдает детальная ручка
		view.Checkpoints = nil
		view.Approvals = nil
		view.Documents = nil
		list = append(list, view)
	}
	return list, rowCount, nil
}

func (i impl) Statistics(facilityID string, filter releaseapimodels.StatisticsFilter) (releaseapimodels.StatisticsView, error) {
	stat, err := i.stores(nil).releases.Statistics(facilityID, filter)
	if err != nil {
		return stat, errors.Wrap(err, "ошибка расчета статистики выпусков")
	}
	return stat, nil
}

func (i impl) WithReleaseLock(ctx context.Context, releaseID string, fn func(tx *gorm.DB) error) error {
	success, err := lock.WithDelay(ctx, releaseLockKey(releaseID), i.lockWait, func() error {
		return i.txRunner(fn)
	})
	if err != nil {
		return err
	}
	if !success {
		return errors.Wrap(models.ErrConcurrencyConflict, "выпуск занят другой операцией")
	}
	return nil
}

func (i impl) RecomputeTx(tx *gorm.DB, facilityID, releaseID string) (from, to models.ReleaseStatus, err error) {
	st := i.stores(tx)
	rec, err := st.releases.GetByIDForUpdate(facilityID, releaseID)
	if err != nil {
		return "", "", errors.Wrap(err, "ошибка чтения выпуска для пересчета статуса")
	}
	if rec == nil {
		return "", "", errors.Wrap(models.ErrNotFound, "выпуск не найден")
	}
	from = rec.Status
	if from.IsTerminal() {
		return from, from, nil
	}
	checkpoints, err := st.checkpoints.ListByRelease(facilityID, releaseID)
	if err != nil {
		return "", "", errors.Wrap(err, "ошибка чтения контрольных точек")
	}
	approvals, err := st.approvals.ListByRelease(facilityID, releaseID)
	if err != nil {
		return "", "", errors.Wrap(err, "ошибка чтения цепочки согласования")
	}
	to = deriveStatus(checkpoints, approvals)
	if to == from {
		return from, to, nil
	}
	updMap := map[string]interface{}{"status": to}
	if to == models.ReleaseStatusRejected {
		updMap["actual_completion_date"] = i.now()
	}
	if err = st.releases.Update(facilityID, releaseID, updMap); err != nil {
		return "", "", errors.Wrap(err, "ошибка сохранения статуса выпуска")
	}
	i.getLogger(facilityID, releaseID).
		WithField("from", from).
		WithField("to", to).
		Info("статус выпуска пересчитан")
	return from, to, nil
}

func (i impl) Finalize(ctx context.Context, facilityID, userID, id string, data releaseapimodels.ReleaseFinalizeData) error {
	logger := i.getLogger(facilityID, id)
	if err := data.Validate(); err != nil {
		return err
	}
	var (
		releaseNumber     string
		processingBatchID string
	)
	err := i.WithReleaseLock(ctx, id, func(tx *gorm.DB) error {
		st := i.stores(tx)
		rec, err := st.releases.GetByIDForUpdate(facilityID, id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения выпуска")
		}
		if rec == nil {
			return errors.Wrap(models.ErrNotFound, "выпуск не найден")
		}
		if !rec.Status.AllowFinalize() {
			return errors.Wrapf(models.ErrInvalidStateTransition,
				"выпуск партии невозможен из статуса %v", rec.Status.ToHuman())
		}
		releaseNumber = rec.ReleaseNumber
		processingBatchID = rec.ProcessingBatchID
		now := i.now()
		updMap := map[string]interface{}{
			"status":                 models.ReleaseStatusReleased,
			"finalized_by_id":        userID,
			"finalized_at":           now,
			"actual_completion_date": now,
			"release_data":           dbmodels.JSONBMap(data.ReleaseData),
		}
		if data.Notes != "" {
			updMap["notes"] = data.Notes
		}
		if err = st.releases.Update(facilityID, id, updMap); err != nil {
			return errors.Wrap(err, "ошибка сохранения выпуска")
		}
		err = i.batches(tx).MarkReleased(facilityID, processingBatchID)
		if err != nil {
			return errors.Wrap(err, "ошибка обновления статуса производственной партии")
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.WithField("release_number", releaseNumber).Info("партия выпущена в оборот")

	audithandler.Instance.Save(facilityID, id, userID, models.AuditActionReleaseFinalized,
		entityTypeRelease, id, dbmodels.EntityChanges{
			Description: fmt.Sprintf("Выпуск %v завершен, партия передана в оборот", releaseNumber),
			Data: []dbmodels.FieldChanges{
				{Field: "status", OldValue: string(models.ReleaseStatusApproved), NewValue: string(models.ReleaseStatusReleased)},
			},
		})
	compliancehandler.Instance.Emit(facilityID, models.ComplianceEventBatchReleased,
		entityTypeRelease, id, map[string]any{
			"release_number":      releaseNumber,
			"processing_batch_id": processingBatchID,
			"released_at":         i.now(),
		}, userID)
	notifyhandler.Instance.SendReleaseEvent(facilityID, models.NotifyReleaseReleased, releaseNumber,
		[]models.UserRole{models.ComplianceOfficerRole, models.FacilityDirectorRole})
	return nil
}
