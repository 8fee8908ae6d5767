package releaseapprovalhandler

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"cultivation-backend/db"
	audithandler "cultivation-backend/lib/audit"
	facilityusersstore "cultivation-backend/lib/facility/users/store"
	notifyhandler "cultivation-backend/lib/notify"
	"cultivation-backend/lib/release"
	releaseapprovalstore "cultivation-backend/lib/release-approval/store"
	releasestore "cultivation-backend/lib/release/store"
	"cultivation-backend/models"
	releaseapimodels "cultivation-backend/models/api/release"
	dbmodels "cultivation-backend/models/db"
)

const entityTypeApproval = "approval"

type Provider interface {
	Process(ctx context.Context, facilityID, userID, releaseID, approvalID string,
		data releaseapimodels.ApprovalDecisionData) (view releaseapimodels.ApprovalView, releaseStatus models.ReleaseStatus, err error)
	ListByRelease(facilityID, releaseID string) (list []releaseapimodels.ApprovalView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		stores: defaultStores,
		users: func() facilityusersstore.Provider {
			return facilityusersstore.NewInstance(db.DB)
		},
		now: time.Now,
	}
}

type storeBundle struct {
	releases  releasestore.Provider
	approvals releaseapprovalstore.Provider
}

func defaultStores(tx *gorm.DB) storeBundle {
	if tx == nil {
		tx = db.DB
	}
	return storeBundle{
		releases:  releasestore.NewInstance(tx),
		approvals: releaseapprovalstore.NewInstance(tx),
	}
}

type impl struct {
	stores func(tx *gorm.DB) storeBundle
	users  func() facilityusersstore.Provider
	now    func() time.Time
}

func (i impl) Process(ctx context.Context, facilityID, userID, releaseID, approvalID string,
	data releaseapimodels.ApprovalDecisionData) (releaseapimodels.ApprovalView, models.ReleaseStatus, error) {
	logger := log.
		WithField("facility_id", facilityID).
		WithField("release_id", releaseID).
		WithField("approval_id", approvalID)
	view := releaseapimodels.ApprovalView{}
	if err := data.Validate(); err != nil {
		return view, "", err
	}
	userRec, err := i.users().GetByID(userID)
	if err != nil {
		return view, "", errors.Wrap(err, "ошибка получения сотрудника")
	}
	if userRec == nil || userRec.FacilityID != facilityID {
		return view, "", errors.Wrap(models.ErrNotFound, "сотрудник не найден")
	}
	var (
		releaseNumber string
		initiatorID   string
		levelLabel    string
		toStatus      models.ReleaseStatus
		nextRole      *models.UserRole
	)
	err = release.Instance.WithReleaseLock(ctx, releaseID, func(tx *gorm.DB) error {
		st := i.stores(tx)
		releaseRec, err := st.releases.GetByIDForUpdate(facilityID, releaseID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения выпуска")
		}
		if releaseRec == nil {
			return errors.Wrap(models.ErrNotFound, "выпуск не найден")
		}
		if !releaseRec.Status.AllowApprovalProcessing() {
			return errors.Wrapf(models.ErrInvalidStateTransition,
				"согласование недоступно, выпуск в статусе %v", releaseRec.Status.ToHuman())
		}
		releaseNumber = releaseRec.ReleaseNumber
		initiatorID = releaseRec.InitiatorID
		approvalRec, err := st.approvals.GetByID(facilityID, approvalID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения записи согласования")
		}
		if approvalRec == nil || approvalRec.ReleaseID != releaseID {
			return errors.Wrap(models.ErrNotFound, "запись согласования не найдена")
		}
		if approvalRec.Status != models.ApprovalStatusPending {
			return errors.Wrap(models.ErrInvalidStateTransition, "решение по этапу согласования уже зафиксировано")
		}
		if userRec.Role != approvalRec.RequiredRole && !userRec.Role.IsFacilityAdmin() {
			return errors.Wrapf(models.ErrPermissionDenied,
				"этап согласования требует роли %v", approvalRec.RequiredRole.ToHuman())
		}
		levelLabel = approvalRec.Level
		updMap := map[string]interface{}{
			"status":       data.Decision,
			"approver_id":  userID,
			"responded_at": i.now(),
			"notes":        data.Notes,
		}
		if data.Decision == models.ApprovalStatusRejected {
			updMap["rejection_reason"] = data.RejectionReason
		} else {
			updMap["signature_data"] = dbmodels.JSONBMap(data.Signature)
		}
		if err = st.approvals.Update(facilityID, approvalID, updMap); err != nil {
			return errors.Wrap(err, "ошибка сохранения решения по согласованию")
		}
		_, toStatus, err = release.Instance.RecomputeTx(tx, facilityID, releaseID)
		if err != nil {
			return err
		}
		if toStatus == models.ReleaseStatusAwaitingApproval {
			// следующий этап в порядке цепочки получает уведомление о необходимости решения
			approvals, err := st.approvals.ListByRelease(facilityID, releaseID)
			if err != nil {
				return errors.Wrap(err, "ошибка чтения цепочки согласования")
			}
			for _, approval := range approvals {
				if approval.Status == models.ApprovalStatusPending {
					role := approval.RequiredRole
					nextRole = &role
					break
				}
			}
		}
		updated, err := st.approvals.GetByID(facilityID, approvalID)
		if err != nil {
			return errors.Wrap(err, "ошибка чтения записи согласования")
		}
		if updated != nil {
			view = releaseapimodels.ApprovalConvert(*updated)
		}
		return nil
	})
	if err != nil {
		return releaseapimodels.ApprovalView{}, "", err
	}
	logger.WithField("decision", data.Decision).Info("зафиксировано решение по согласованию")

	action := models.AuditActionApprovalApproved
	if data.Decision == models.ApprovalStatusRejected {
		action = models.AuditActionApprovalRejected
	}
	audithandler.Instance.Save(facilityID, releaseID, userID, action,
		entityTypeApproval, approvalID, dbmodels.EntityChanges{
			Description: fmt.Sprintf("Этап согласования %q: %v", levelLabel, data.Decision.ToHuman()),
			Data: []dbmodels.FieldChanges{
				{Field: "status", OldValue: string(models.ApprovalStatusPending), NewValue: string(data.Decision)},
			},
		})
	notifyhandler.Instance.SendUserEvent(initiatorID, models.NotifyApprovalDecision, releaseNumber)
	if toStatus == models.ReleaseStatusRejected {
		notifyhandler.Instance.SendReleaseEvent(facilityID, models.NotifyReleaseRejected, releaseNumber,
			[]models.UserRole{models.QaManagerRole, models.FacilityDirectorRole})
	}
	if nextRole != nil {
		notifyhandler.Instance.SendReleaseEvent(facilityID, models.NotifyApprovalRequired, releaseNumber,
			[]models.UserRole{*nextRole})
	}
	return view, toStatus, nil
}

func (i impl) ListByRelease(facilityID, releaseID string) ([]releaseapimodels.ApprovalView, error) {
	recs, err := i.stores(nil).approvals.ListByRelease(facilityID, releaseID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения цепочки согласования")
	}
	list := make([]releaseapimodels.ApprovalView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, releaseapimodels.ApprovalConvert(rec))
	}
	return list, nil
}
