package releasecheckpointhandler

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"cultivation-backend/db"
	audithandler "cultivation-backend/lib/audit"
	notifyhandler "cultivation-backend/lib/notify"
	"cultivation-backend/lib/release"
	releaseapprovalstore "cultivation-backend/lib/release-approval/store"
	releasecheckpointstore "cultivation-backend/lib/release-checkpoint/store"
	releasestore "cultivation-backend/lib/release/store"
	"cultivation-backend/models"
	releaseapimodels "cultivation-backend/models/api/release"
	dbmodels "cultivation-backend/models/db"
)

const entityTypeCheckpoint = "checkpoint"

type Provider interface {
	Complete(ctx context.Context, facilityID, userID, releaseID, checkpointID string,
		data releaseapimodels.CheckpointCompleteData) (view releaseapimodels.CheckpointView, releaseStatus models.ReleaseStatus, err error)
	ListByRelease(facilityID, releaseID string) (list []releaseapimodels.CheckpointView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		stores: defaultStores,
		now:    time.Now,
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
	stores func(tx *gorm.DB) storeBundle
	now    func() time.Time
}

func (i impl) Complete(ctx context.Context, facilityID, userID, releaseID, checkpointID string,
	data releaseapimodels.CheckpointCompleteData) (releaseapimodels.CheckpointView, models.ReleaseStatus, error) {
	logger := log.
		WithField("facility_id", facilityID).
		WithField("release_id", releaseID).
		WithField("checkpoint_id", checkpointID)
	view := releaseapimodels.CheckpointView{}
	if err := data.Validate(); err != nil {
		return view, "", err
	}
	newStatus := models.CheckpointStatusPassed
	if !data.Passed {
		newStatus = models.CheckpointStatusFailed
	}
	var (
		releaseNumber   string
		checkpointName  string
		fromStatus      models.ReleaseStatus
		toStatus        models.ReleaseStatus
		nextApproveRole *models.UserRole
	)
	err := release.Instance.WithReleaseLock(ctx, releaseID, func(tx *gorm.DB) error {
		st := i.stores(tx)
		releaseRec, err := st.releases.GetByIDForUpdate(facilityID, releaseID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения выпуска")
		}
		if releaseRec == nil {
			return errors.Wrap(models.ErrNotFound, "выпуск не найден")
		}
		if !releaseRec.Status.AllowCheckpointComplete() {
			return errors.Wrapf(models.ErrInvalidStateTransition,
				"выпуск в статусе %v, заполнение контрольных точек недоступно", releaseRec.Status.ToHuman())
		}
		releaseNumber = releaseRec.ReleaseNumber
		checkpointRec, err := st.checkpoints.GetByID(facilityID, checkpointID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения контрольной точки")
		}
		if checkpointRec == nil || checkpointRec.ReleaseID != releaseID {
			return errors.Wrap(models.ErrNotFound, "контрольная точка не найдена")
		}
		if checkpointRec.Status != models.CheckpointStatusPending {
			return errors.Wrap(models.ErrInvalidStateTransition, "результат контрольной точки уже зафиксирован")
		}
		checkpointName = checkpointRec.Name
		now := i.now()
		updMap := map[string]interface{}{
			"status":          newStatus,
			"inspector_id":    userID,
			"completed_at":    now,
			"inspection_data": dbmodels.JSONBMap(data.InspectionData),
			"notes":           data.Notes,
			"retest_required": data.RetestRequired,
		}
		if !data.Passed {
			updMap["failure_reason"] = data.FailureReason
			updMap["corrective_actions"] = pq.StringArray(data.CorrectiveActions)
		}
		if err = st.checkpoints.Update(facilityID, checkpointID, updMap); err != nil {
			return errors.Wrap(err, "ошибка сохранения результата контрольной точки")
		}
		fromStatus, toStatus, err = release.Instance.RecomputeTx(tx, facilityID, releaseID)
		if err != nil {
			return err
		}
		if toStatus == models.ReleaseStatusAwaitingApproval && fromStatus != models.ReleaseStatusAwaitingApproval {
			// маршрутизация уведомления по порядку цепочки согласования
			approvals, err := st.approvals.ListByRelease(facilityID, releaseID)
			if err != nil {
				return errors.Wrap(err, "ошибка чтения цепочки согласования")
			}
			for _, approval := range approvals {
				if approval.Status == models.ApprovalStatusPending {
					role := approval.RequiredRole
					nextApproveRole = &role
					break
				}
			}
		}
		updated, err := st.checkpoints.GetByID(facilityID, checkpointID)
		if err != nil {
			return errors.Wrap(err, "ошибка чтения контрольной точки")
		}
		if updated != nil {
			view = releaseapimodels.CheckpointConvert(*updated)
		}
		return nil
	})
	if err != nil {
		return releaseapimodels.CheckpointView{}, "", err
	}
	logger.WithField("status", newStatus).Info("зафиксирован результат контрольной точки")

	audithandler.Instance.Save(facilityID, releaseID, userID, models.AuditActionCheckpointCompleted,
		entityTypeCheckpoint, checkpointID, dbmodels.EntityChanges{
			Description: fmt.Sprintf("Контрольная точка %q: %v", checkpointName, newStatus.ToHuman()),
			Data: []dbmodels.FieldChanges{
				{Field: "status", OldValue: string(models.CheckpointStatusPending), NewValue: string(newStatus)},
			},
		})
	notifyhandler.Instance.SendReleaseEvent(facilityID, models.NotifyCheckpointCompleted, releaseNumber,
		[]models.UserRole{models.QaManagerRole})
	if toStatus == models.ReleaseStatusOnHold && fromStatus != models.ReleaseStatusOnHold {
		notifyhandler.Instance.SendReleaseEvent(facilityID, models.NotifyReleaseOnHold, releaseNumber,
			[]models.UserRole{models.QaManagerRole, models.ComplianceOfficerRole})
	}
	if nextApproveRole != nil {
		notifyhandler.Instance.SendReleaseEvent(facilityID, models.NotifyApprovalRequired, releaseNumber,
			[]models.UserRole{*nextApproveRole})
	}
	return view, toStatus, nil
}

func (i impl) ListByRelease(facilityID, releaseID string) ([]releaseapimodels.CheckpointView, error) {
	recs, err := i.stores(nil).checkpoints.ListByRelease(facilityID, releaseID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения контрольных точек")
	}
	list := make([]releaseapimodels.CheckpointView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, releaseapimodels.CheckpointConvert(rec))
	}
	return list, nil
}
