package releasecheckpointhandler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	audithandler "cultivation-backend/lib/audit"
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

type fakeCheckpointStore struct {
	rec     *dbmodels.CheckpointResult
	updates []map[string]interface{}
}

func (f *fakeCheckpointStore) CreateBatch(list []dbmodels.CheckpointResult) error {
	return nil
}

func (f *fakeCheckpointStore) GetByID(facilityID, id string) (*dbmodels.CheckpointResult, error) {
	return f.rec, nil
}

func (f *fakeCheckpointStore) ListByRelease(facilityID, releaseID string) ([]dbmodels.CheckpointResult, error) {
	return nil, nil
}

func (f *fakeCheckpointStore) Update(facilityID, id string, updMap map[string]interface{}) error {
	f.updates = append(f.updates, updMap)
	if status, ok := updMap["status"].(models.CheckpointStatus); ok {
		f.rec.Status = status
	}
	return nil
}

type fakeApprovalStore struct {
	list []dbmodels.ReleaseApproval
}

func (f *fakeApprovalStore) CreateBatch(list []dbmodels.ReleaseApproval) error {
	return nil
}

func (f *fakeApprovalStore) GetByID(facilityID, id string) (*dbmodels.ReleaseApproval, error) {
	return nil, nil
}

func (f *fakeApprovalStore) ListByRelease(facilityID, releaseID string) ([]dbmodels.ReleaseApproval, error) {
	return f.list, nil
}

func (f *fakeApprovalStore) Update(facilityID, id string, updMap map[string]interface{}) error {
	return nil
}

// fakeOrchestrator подменяет блокировку и пересчет статуса выпуска
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
	codes []models.NotifyEventCode
}

func (f *fakeNotifyProvider) SendReleaseEvent(facilityID string, code models.NotifyEventCode, releaseNumber string, roles []models.UserRole) {
	f.codes = append(f.codes, code)
}

func (f *fakeNotifyProvider) SendUserEvent(userID string, code models.NotifyEventCode, releaseNumber string) {
	f.codes = append(f.codes, code)
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

func newTestImpl(releases *fakeReleaseStore, checkpoints *fakeCheckpointStore, approvals *fakeApprovalStore) impl {
	return impl{
		stores: func(tx *gorm.DB) storeBundle {
			return storeBundle{
				releases:    releases,
				checkpoints: checkpoints,
				approvals:   approvals,
			}
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
	}
}

func checkpointRec(status models.CheckpointStatus) *dbmodels.CheckpointResult {
	return &dbmodels.CheckpointResult{
		BaseFacilityModel: dbmodels.BaseFacilityModel{
			BaseModel:  dbmodels.BaseModel{ID: "checkpoint-1"},
			FacilityID: "facility-1",
		},
		ReleaseID: "release-1",
		Seq:       1,
		Name:      "Визуальный осмотр",
		Mandatory: true,
		Status:    status,
	}
}

func TestComplete(t *testing.T) {
	t.Run("успешное прохождение", func(t *testing.T) {
		audit, notify := setupEnv(t, fakeOrchestrator{
			from: models.ReleaseStatusPending,
			to:   models.ReleaseStatusInProgress,
		})
		checkpoints := &fakeCheckpointStore{rec: checkpointRec(models.CheckpointStatusPending)}
		handler := newTestImpl(&fakeReleaseStore{rec: releaseRec(models.ReleaseStatusPending)}, checkpoints, &fakeApprovalStore{})

		view, releaseStatus, err := handler.Complete(context.Background(), "facility-1", "user-1", "release-1", "checkpoint-1",
			releaseapimodels.CheckpointCompleteData{Passed: true, Notes: "замечаний нет"})
		require.NoError(t, err)
		require.Equal(t, models.ReleaseStatusInProgress, releaseStatus)
		require.Equal(t, models.CheckpointStatusPassed, view.Status)

		require.Len(t, checkpoints.updates, 1)
		require.Equal(t, models.CheckpointStatusPassed, checkpoints.updates[0]["status"])
		require.NotContains(t, checkpoints.updates[0], "failure_reason")

		require.Equal(t, []models.AuditAction{models.AuditActionCheckpointCompleted}, audit.actions)
		require.Equal(t, []models.NotifyEventCode{models.NotifyCheckpointCompleted}, notify.codes)
	})

	t.Run("провал обязательной точки", func(t *testing.T) {
		_, notify := setupEnv(t, fakeOrchestrator{
			from: models.ReleaseStatusInProgress,
			to:   models.ReleaseStatusOnHold,
		})
		checkpoints := &fakeCheckpointStore{rec: checkpointRec(models.CheckpointStatusPending)}
		handler := newTestImpl(&fakeReleaseStore{rec: releaseRec(models.ReleaseStatusInProgress)}, checkpoints, &fakeApprovalStore{})

		_, releaseStatus, err := handler.Complete(context.Background(), "facility-1", "user-1", "release-1", "checkpoint-1",
			releaseapimodels.CheckpointCompleteData{
				Passed:            false,
				FailureReason:     "превышение по микробиологии",
				CorrectiveActions: []string{"повторный отбор проб"},
			})
		require.NoError(t, err)
		require.Equal(t, models.ReleaseStatusOnHold, releaseStatus)
		require.Equal(t, "превышение по микробиологии", checkpoints.updates[0]["failure_reason"])
		require.Contains(t, notify.codes, models.NotifyReleaseOnHold)
	})

	t.Run("последняя точка запускает согласование", func(t *testing.T) {
		_, notify := setupEnv(t, fakeOrchestrator{
			from: models.ReleaseStatusInProgress,
			to:   models.ReleaseStatusAwaitingApproval,
		})
		checkpoints := &fakeCheckpointStore{rec: checkpointRec(models.CheckpointStatusPending)}
		approvals := &fakeApprovalStore{list: []dbmodels.ReleaseApproval{
			{Status: models.ApprovalStatusPending, RequiredRole: models.QaManagerRole, OrderSequence: 1},
			{Status: models.ApprovalStatusPending, RequiredRole: models.ComplianceOfficerRole, OrderSequence: 2},
		}}
		handler := newTestImpl(&fakeReleaseStore{rec: releaseRec(models.ReleaseStatusInProgress)}, checkpoints, approvals)

		_, releaseStatus, err := handler.Complete(context.Background(), "facility-1", "user-1", "release-1", "checkpoint-1",
			releaseapimodels.CheckpointCompleteData{Passed: true})
		require.NoError(t, err)
		require.Equal(t, models.ReleaseStatusAwaitingApproval, releaseStatus)
		// уведомление уходит первому незакрытому этапу цепочки
		require.Contains(t, notify.codes, models.NotifyApprovalRequired)
	})

	t.Run("повторное заполнение запрещено", func(t *testing.T) {
		audit, _ := setupEnv(t, fakeOrchestrator{})
		checkpoints := &fakeCheckpointStore{rec: checkpointRec(models.CheckpointStatusPassed)}
		handler := newTestImpl(&fakeReleaseStore{rec: releaseRec(models.ReleaseStatusInProgress)}, checkpoints, &fakeApprovalStore{})

		_, _, err := handler.Complete(context.Background(), "facility-1", "user-1", "release-1", "checkpoint-1",
			releaseapimodels.CheckpointCompleteData{Passed: true})
		require.ErrorIs(t, err, models.ErrInvalidStateTransition)
		require.Empty(t, checkpoints.updates)
		require.Empty(t, audit.actions)
	})

	t.Run("терминальный выпуск закрыт для изменений", func(t *testing.T) {
		setupEnv(t, fakeOrchestrator{})
		checkpoints := &fakeCheckpointStore{rec: checkpointRec(models.CheckpointStatusPending)}
		handler := newTestImpl(&fakeReleaseStore{rec: releaseRec(models.ReleaseStatusReleased)}, checkpoints, &fakeApprovalStore{})

		_, _, err := handler.Complete(context.Background(), "facility-1", "user-1", "release-1", "checkpoint-1",
			releaseapimodels.CheckpointCompleteData{Passed: true})
		require.ErrorIs(t, err, models.ErrInvalidStateTransition)
	})

	t.Run("чужая контрольная точка", func(t *testing.T) {
		setupEnv(t, fakeOrchestrator{})
		rec := checkpointRec(models.CheckpointStatusPending)
		rec.ReleaseID = "release-2"
		handler := newTestImpl(&fakeReleaseStore{rec: releaseRec(models.ReleaseStatusInProgress)}, &fakeCheckpointStore{rec: rec}, &fakeApprovalStore{})

		_, _, err := handler.Complete(context.Background(), "facility-1", "user-1", "release-1", "checkpoint-1",
			releaseapimodels.CheckpointCompleteData{Passed: true})
		require.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("провал без причины не принимается", func(t *testing.T) {
		setupEnv(t, fakeOrchestrator{})
		handler := newTestImpl(&fakeReleaseStore{}, &fakeCheckpointStore{}, &fakeApprovalStore{})

		_, _, err := handler.Complete(context.Background(), "facility-1", "user-1", "release-1", "checkpoint-1",
			releaseapimodels.CheckpointCompleteData{Passed: false})
		require.ErrorIs(t, err, models.ErrValidation)
	})
}
