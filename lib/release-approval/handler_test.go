package releaseapprovalhandler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	audithandler "cultivation-backend/lib/audit"
	facilityusersstore "cultivation-backend/lib/facility/users/store"
	notifyhandler "cultivation-backend/lib/notify"
	"cultivation-backend/lib/release"
	"cultivation-backend/models"
	releaseapimodels "cultivation-backend/models/api/release"
	dbmodels "cultivation-backend/models/db"
)

type fakeReleaseStore struct {
	rec *dbmodels.BatchRelease
}

func (f *fakeReleaseStore) Create(rec dbmodels.BatchRelease) (string, error) {
	return "", nil
}

func (f *fakeReleaseStore) GetByID(facilityID, id string) (*dbmodels.BatchRelease, error) {
	return f.rec, nil
}

func (f *fakeReleaseStore) GetByIDForUpdate(facilityID, id string) (*dbmodels.BatchRelease, error) {
	return f.rec, nil
}

func (f *fakeReleaseStore) GetActiveByBatch(facilityID, batchID string) (*dbmodels.BatchRelease, error) {
	return nil, nil
}

func (f *fakeReleaseStore) Update(facilityID, id string, updMap map[string]interface{}) error {
	return nil
}

func (f *fakeReleaseStore) List(facilityID string, filter releaseapimodels.ReleaseFilter) ([]dbmodels.BatchRelease, error) {
	return nil, nil
}

func (f *fakeReleaseStore) ListCount(facilityID string, filter releaseapimodels.ReleaseFilter) (int64, error) {
	return 0, nil
}

func (f *fakeReleaseStore) Statistics(facilityID string, filter releaseapimodels.StatisticsFilter) (releaseapimodels.StatisticsView, error) {
	return releaseapimodels.StatisticsView{}, nil
}

type fakeApprovalStore struct {
	rec     *dbmodels.ReleaseApproval
	list    []dbmodels.ReleaseApproval
	updates []map[string]interface{}
}

func (f *fakeApprovalStore) CreateBatch(list []dbmodels.ReleaseApproval) error {
	return nil
}

func (f *fakeApprovalStore) GetByID(facilityID, id string) (*dbmodels.ReleaseApproval, error) {
	return f.rec, nil
}

func (f *fakeApprovalStore) ListByRelease(facilityID, releaseID string) ([]dbmodels.ReleaseApproval, error) {
	return f.list, nil
}

func (f *fakeApprovalStore) Update(facilityID, id string, updMap map[string]interface{}) error {
	f.updates = append(f.updates, updMap)
	if status, ok := updMap["status"].(models.ApprovalStatus); ok {
		f.rec.Status = status
	}
	return nil
}

type fakeUsersStore struct {
	rec *dbmodels.FacilityUser
}

func (f fakeUsersStore) Create(rec dbmodels.FacilityUser) (string, error) {
	return "", nil
}

func (f fakeUsersStore) Update(userID string, updMap map[string]interface{}) error {
	return nil
}

func (f fakeUsersStore) GetByID(userID string) (*dbmodels.FacilityUser, error) {
	return f.rec, nil
}

func (f fakeUsersStore) FindByEmail(email string) (*dbmodels.FacilityUser, error) {
	return nil, nil
}

func (f fakeUsersStore) GetList(facilityID string) ([]dbmodels.FacilityUser, error) {
	return nil, nil
}

func (f fakeUsersStore) GetListByRole(facilityID string, role models.UserRole) ([]dbmodels.FacilityUser, error) {
	return nil, nil
}

type fakeOrchestrator struct {
	from models.ReleaseStatus
	to   models.ReleaseStatus
}

func (f fakeOrchestrator) Create(facilityID, userID string, data releaseapimodels.ReleaseCreateData) (string, error) {
	return "", nil
}

func (f fakeOrchestrator) GetByID(facilityID, id string) (releaseapimodels.ReleaseView, error) {
	return releaseapimodels.ReleaseView{}, nil
}

func (f fakeOrchestrator) List(facilityID string, filter releaseapimodels.ReleaseFilter) ([]releaseapimodels.ReleaseView, int64, error) {
	return nil, 0, nil
}

func (f fakeOrchestrator) Statistics(facilityID string, filter releaseapimodels.StatisticsFilter) (releaseapimodels.StatisticsView, error) {
	return releaseapimodels.StatisticsView{}, nil
}

func (f fakeOrchestrator) Finalize(ctx context.Context, facilityID, userID, id string, data releaseapimodels.ReleaseFinalizeData) error {
	return nil
}

func (f fakeOrchestrator) WithReleaseLock(ctx context.Context, releaseID string, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (f fakeOrchestrator) RecomputeTx(tx *gorm.DB, facilityID, releaseID string) (models.ReleaseStatus, models.ReleaseStatus, error) {
	return f.from, f.to, nil
}

type fakeAuditProvider struct {
	actions []models.AuditAction
}

func (f *fakeAuditProvider) Save(facilityID, releaseID, userID string, action models.AuditAction, entityType, entityID string, changes dbmodels.EntityChanges) {
	f.actions = append(f.actions, action)
}

func (f *fakeAuditProvider) List(facilityID, releaseID string) ([]releaseapimodels.AuditEntryView, error) {
	return nil, nil
}

type fakeNotifyProvider struct {
	codes       []models.NotifyEventCode
	userEventTo []string
}

func (f *fakeNotifyProvider) SendReleaseEvent(facilityID string, code models.NotifyEventCode, releaseNumber string, roles []models.UserRole) {
	f.codes = append(f.codes, code)
}

func (f *fakeNotifyProvider) SendUserEvent(userID string, code models.NotifyEventCode, releaseNumber string) {
	f.codes = append(f.codes, code)
	f.userEventTo = append(f.userEventTo, userID)
}

func setupEnv(t *testing.T, orchestrator fakeOrchestrator) (*fakeAuditProvider, *fakeNotifyProvider) {
	audit := &fakeAuditProvider{}
	notify := &fakeNotifyProvider{}

	prevRelease := release.Instance
	prevAudit := audithandler.Instance
	prevNotify := notifyhandler.Instance
	t.Cleanup(func() {
		release.Instance = prevRelease
		audithandler.Instance = prevAudit
		notifyhandler.Instance = prevNotify
	})

	release.Instance = orchestrator
	audithandler.Instance = audit
	notifyhandler.Instance = notify
	return audit, notify
}

func newTestImpl(releases *fakeReleaseStore, approvals *fakeApprovalStore, user *dbmodels.FacilityUser) impl {
	return impl{
		stores: func(tx *gorm.DB) storeBundle {
			return storeBundle{
				releases:  releases,
				approvals: approvals,
			}
		},
		users: func() facilityusersstore.Provider {
			return fakeUsersStore{rec: user}
		},
		now: func() time.Time { return time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC) },
	}
}

func releaseRec(status models.ReleaseStatus) *dbmodels.BatchRelease {
	return &dbmodels.BatchRelease{
		BaseFacilityModel: dbmodels.BaseFacilityModel{
			BaseModel:  dbmodels.BaseModel{ID: "release-1"},
			FacilityID: "facility-1",
		},
		ReleaseNumber: "REL-2608-0001",
		Status:        status,
		InitiatorID:   "initiator-1",
	}
}

func approvalRec(status models.ApprovalStatus, role models.UserRole) *dbmodels.ReleaseApproval {
	return &dbmodels.ReleaseApproval{
		BaseFacilityModel: dbmodels.BaseFacilityModel{
			BaseModel:  dbmodels.BaseModel{ID: "approval-1"},
			FacilityID: "facility-1",
		},
		ReleaseID:     "release-1",
		OrderSequence: 1,
		Level:         "Менеджер качества",
		RequiredRole:  role,
		Status:        status,
	}
}

func facilityUser(role models.UserRole) *dbmodels.FacilityUser {
	return &dbmodels.FacilityUser{
		BaseModel:  dbmodels.BaseModel{ID: "user-1"},
		FacilityID: "facility-1",
		Role:       role,
		FirstName:  "Анна",
		LastName:   "Иванова",
	}
}

func TestProcess(t *testing.T) {
	t.Run("согласование этапа", func(t *testing.T) {
		audit, notify := setupEnv(t, fakeOrchestrator{
			from: models.ReleaseStatusAwaitingApproval,
			to:   models.ReleaseStatusApproved,
		})
		approvals := &fakeApprovalStore{rec: approvalRec(models.ApprovalStatusPending, models.QaManagerRole)}
		handler := newTestImpl(&fakeReleaseStore{rec: releaseRec(models.ReleaseStatusAwaitingApproval)}, approvals, facilityUser(models.QaManagerRole))

		view, releaseStatus, err := handler.Process(context.Background(), "facility-1", "user-1", "release-1", "approval-1",
			releaseapimodels.ApprovalDecisionData{
				Decision:  models.ApprovalStatusApproved,
				Signature: map[string]any{"method": "pin"},
			})
		require.NoError(t, err)
		require.Equal(t, models.ReleaseStatusApproved, releaseStatus)
		require.Equal(t, models.ApprovalStatusApproved, view.Status)

		require.Len(t, approvals.updates, 1)
		require.Contains(t, approvals.updates[0], "signature_data")
		require.NotContains(t, approvals.updates[0], "rejection_reason")

		require.Equal(t, []models.AuditAction{models.AuditActionApprovalApproved}, audit.actions)
		// инициатор выпуска получает уведомление о решении
		require.Contains(t, notify.codes, models.NotifyApprovalDecision)
		require.Equal(t, []string{"initiator-1"}, notify.userEventTo)
	})

	t.Run("отклонение этапа", func(t *testing.T) {
		audit, notify := setupEnv(t, fakeOrchestrator{
			from: models.ReleaseStatusAwaitingApproval,
			to:   models.ReleaseStatusRejected,
		})
		approvals := &fakeApprovalStore{rec: approvalRec(models.ApprovalStatusPending, models.QaManagerRole)}
		handler := newTestImpl(&fakeReleaseStore{rec: releaseRec(models.ReleaseStatusAwaitingApproval)}, approvals, facilityUser(models.QaManagerRole))

		_, releaseStatus, err := handler.Process(context.Background(), "facility-1", "user-1", "release-1", "approval-1",
			releaseapimodels.ApprovalDecisionData{
				Decision:        models.ApprovalStatusRejected,
				RejectionReason: "несоответствие протоколу испытаний",
			})
		require.NoError(t, err)
		require.Equal(t, models.ReleaseStatusRejected, releaseStatus)
		require.Equal(t, "несоответствие протоколу испытаний", approvals.updates[0]["rejection_reason"])
		require.Equal(t, []models.AuditAction{models.AuditActionApprovalRejected}, audit.actions)
		require.Contains(t, notify.codes, models.NotifyReleaseRejected)
	})

	t.Run("следующий этап получает уведомление", func(t *testing.T) {
		_, notify := setupEnv(t, fakeOrchestrator{
			from: models.ReleaseStatusAwaitingApproval,
			to:   models.ReleaseStatusAwaitingApproval,
		})
		approvals := &fakeApprovalStore{
			rec: approvalRec(models.ApprovalStatusPending, models.QaManagerRole),
			list: []dbmodels.ReleaseApproval{
				{Status: models.ApprovalStatusApproved, RequiredRole: models.QaManagerRole, OrderSequence: 1},
				{Status: models.ApprovalStatusPending, RequiredRole: models.ComplianceOfficerRole, OrderSequence: 2},
			},
		}
		handler := newTestImpl(&fakeReleaseStore{rec: releaseRec(models.ReleaseStatusAwaitingApproval)}, approvals, facilityUser(models.QaManagerRole))

		_, _, err := handler.Process(context.Background(), "facility-1", "user-1", "release-1", "approval-1",
			releaseapimodels.ApprovalDecisionData{Decision: models.ApprovalStatusApproved})
		require.NoError(t, err)
		require.Contains(t, notify.codes, models.NotifyApprovalRequired)
	})

	t.Run("несоответствие роли этапу", func(t *testing.T) {
		setupEnv(t, fakeOrchestrator{})
		approvals := &fakeApprovalStore{rec: approvalRec(models.ApprovalStatusPending, models.QaManagerRole)}
		handler := newTestImpl(&fakeReleaseStore{rec: releaseRec(models.ReleaseStatusAwaitingApproval)}, approvals, facilityUser(models.ComplianceOfficerRole))

		_, _, err := handler.Process(context.Background(), "facility-1", "user-1", "release-1", "approval-1",
			releaseapimodels.ApprovalDecisionData{Decision: models.ApprovalStatusApproved})
		require.ErrorIs(t, err, models.ErrPermissionDenied)
		require.Empty(t, approvals.updates)
	})

	t.Run("администратор площадки может закрыть любой этап", func(t *testing.T) {
		setupEnv(t, fakeOrchestrator{
			from: models.ReleaseStatusAwaitingApproval,
			to:   models.ReleaseStatusApproved,
		})
		approvals := &fakeApprovalStore{rec: approvalRec(models.ApprovalStatusPending, models.QaManagerRole)}
		handler := newTestImpl(&fakeReleaseStore{rec: releaseRec(models.ReleaseStatusAwaitingApproval)}, approvals, facilityUser(models.FacilityAdminRole))

		_, _, err := handler.Process(context.Background(), "facility-1", "user-1", "release-1", "approval-1",
			releaseapimodels.ApprovalDecisionData{Decision: models.ApprovalStatusApproved})
		require.NoError(t, err)
	})

	t.Run("согласование до прохождения точек недоступно", func(t *testing.T) {
		setupEnv(t, fakeOrchestrator{})
		approvals := &fakeApprovalStore{rec: approvalRec(models.ApprovalStatusPending, models.QaManagerRole)}
		handler := newTestImpl(&fakeReleaseStore{rec: releaseRec(models.ReleaseStatusInProgress)}, approvals, facilityUser(models.QaManagerRole))

		_, _, err := handler.Process(context.Background(), "facility-1", "user-1", "release-1", "approval-1",
			releaseapimodels.ApprovalDecisionData{Decision: models.ApprovalStatusApproved})
		require.ErrorIs(t, err, models.ErrInvalidStateTransition)
	})

	t.Run("повторное решение запрещено", func(t *testing.T) {
		setupEnv(t, fakeOrchestrator{})
		approvals := &fakeApprovalStore{rec: approvalRec(models.ApprovalStatusApproved, models.QaManagerRole)}
		handler := newTestImpl(&fakeReleaseStore{rec: releaseRec(models.ReleaseStatusAwaitingApproval)}, approvals, facilityUser(models.QaManagerRole))

		_, _, err := handler.Process(context.Background(), "facility-1", "user-1", "release-1", "approval-1",
			releaseapimodels.ApprovalDecisionData{Decision: models.ApprovalStatusApproved})
		require.ErrorIs(t, err, models.ErrInvalidStateTransition)
	})

	t.Run("сотрудник другой площадки", func(t *testing.T) {
		setupEnv(t, fakeOrchestrator{})
		user := facilityUser(models.QaManagerRole)
		user.FacilityID = "facility-2"
		handler := newTestImpl(&fakeReleaseStore{rec: releaseRec(models.ReleaseStatusAwaitingApproval)}, &fakeApprovalStore{}, user)

		_, _, err := handler.Process(context.Background(), "facility-1", "user-1", "release-1", "approval-1",
			releaseapimodels.ApprovalDecisionData{Decision: models.ApprovalStatusApproved})
		require.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("решение вне допустимых значений", func(t *testing.T) {
		setupEnv(t, fakeOrchestrator{})
		handler := newTestImpl(&fakeReleaseStore{}, &fakeApprovalStore{}, facilityUser(models.QaManagerRole))

		_, _, err := handler.Process(context.Background(), "facility-1", "user-1", "release-1", "approval-1",
			releaseapimodels.ApprovalDecisionData{Decision: models.ApprovalStatusPending})
		require.ErrorIs(t, err, models.ErrValidation)
	})
}
