package release

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	audithandler "cultivation-backend/lib/audit"
	batchprovider "cultivation-backend/lib/batch"
	compliancehandler "cultivation-backend/lib/compliance"
	notifyhandler "cultivation-backend/lib/notify"
	releasenumberhandler "cultivation-backend/lib/release-number"
	releasetemplatehandler "cultivation-backend/lib/release-template"
	"cultivation-backend/models"
	releaseapimodels "cultivation-backend/models/api/release"
	templateapimodels "cultivation-backend/models/api/template"
	dbmodels "cultivation-backend/models/db"
)

type fakeReleaseStore struct {
	rec       *dbmodels.BatchRelease
	active    *dbmodels.BatchRelease
	createdID string
	created   *dbmodels.BatchRelease
	updates   []map[string]interface{}
}

func (f *fakeReleaseStore) Create(rec dbmodels.BatchRelease) (string, error) {
	f.created = &rec
	return f.createdID, nil
}

func (f *fakeReleaseStore) GetByID(facilityID, id string) (*dbmodels.BatchRelease, error) {
	return f.rec, nil
}

func (f *fakeReleaseStore) GetByIDForUpdate(facilityID, id string) (*dbmodels.BatchRelease, error) {
	return f.rec, nil
}

func (f *fakeReleaseStore) GetActiveByBatch(facilityID, batchID string) (*dbmodels.BatchRelease, error) {
	return f.active, nil
}

func (f *fakeReleaseStore) Update(facilityID, id string, updMap map[string]interface{}) error {
	f.updates = append(f.updates, updMap)
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
	list    []dbmodels.CheckpointResult
	created []dbmodels.CheckpointResult
}

func (f *fakeCheckpointStore) CreateBatch(list []dbmodels.CheckpointResult) error {
	f.created = list
	return nil
}

func (f *fakeCheckpointStore) GetByID(facilityID, id string) (*dbmodels.CheckpointResult, error) {
	return nil, nil
}

func (f *fakeCheckpointStore) ListByRelease(facilityID, releaseID string) ([]dbmodels.CheckpointResult, error) {
	return f.list, nil
}

func (f *fakeCheckpointStore) Update(facilityID, id string, updMap map[string]interface{}) error {
	return nil
}

type fakeApprovalStore struct {
	list    []dbmodels.ReleaseApproval
	created []dbmodels.ReleaseApproval
}

func (f *fakeApprovalStore) CreateBatch(list []dbmodels.ReleaseApproval) error {
	f.created = list
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

type fakeBatchProvider struct {
	rec      *dbmodels.ProcessingBatch
	released []string
}

func (f *fakeBatchProvider) Get(facilityID, id string) (*dbmodels.ProcessingBatch, error) {
	return f.rec, nil
}

func (f *fakeBatchProvider) MarkReleased(facilityID, id string) error {
	f.released = append(f.released, id)
	return nil
}

type fakeTemplateProvider struct {
	rec *dbmodels.ReleaseTemplate
}

func (f fakeTemplateProvider) Create(facilityID string, data templateapimodels.TemplateData) (string, error) {
	return "", nil
}

func (f fakeTemplateProvider) GetByID(facilityID, id string) (templateapimodels.TemplateView, error) {
	return templateapimodels.TemplateView{}, nil
}

func (f fakeTemplateProvider) GetRec(facilityID, id string) (*dbmodels.ReleaseTemplate, error) {
	return f.rec, nil
}

func (f fakeTemplateProvider) List(facilityID string) ([]templateapimodels.TemplateView, error) {
	return nil, nil
}

func (f fakeTemplateProvider) Deactivate(facilityID, id string) error {
	return nil
}

type fakeNumberProvider struct {
	number string
	err    error
}

func (f fakeNumberProvider) Next(facilityID string) (string, error) {
	return f.number, f.err
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

type fakeComplianceProvider struct {
	events []models.ComplianceEventType
}

func (f *fakeComplianceProvider) Emit(facilityID string, eventType models.ComplianceEventType, entityType, entityID string, payload map[string]any, userID string) {
	f.events = append(f.events, eventType)
}

func newTestImpl(releases *fakeReleaseStore, checkpoints *fakeCheckpointStore, approvals *fakeApprovalStore) impl {
	return impl{
		txRunner: func(fn func(tx *gorm.DB) error) error {
			return fn(nil)
		},
		stores: func(tx *gorm.DB) storeBundle {
			return storeBundle{
				releases:    releases,
				checkpoints: checkpoints,
				approvals:   approvals,
			}
		},
		batches: func(tx *gorm.DB) batchprovider.Provider {
			return &fakeBatchProvider{}
		},
		now:      func() time.Time { return time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC) },
		lockWait: time.Second,
	}
}

func setupCollaborators(t *testing.T) (*fakeAuditProvider, *fakeNotifyProvider, *fakeComplianceProvider) {
	audit := &fakeAuditProvider{}
	notify := &fakeNotifyProvider{}
	compliance := &fakeComplianceProvider{}

	prevAudit := audithandler.Instance
	prevNotify := notifyhandler.Instance
	prevCompliance := compliancehandler.Instance
	prevBatch := batchprovider.Instance
	prevTemplate := releasetemplatehandler.Instance
	prevNumber := releasenumberhandler.Instance
	t.Cleanup(func() {
		audithandler.Instance = prevAudit
		notifyhandler.Instance = prevNotify
		compliancehandler.Instance = prevCompliance
		batchprovider.Instance = prevBatch
		releasetemplatehandler.Instance = prevTemplate
		releasenumberhandler.Instance = prevNumber
	})

	audithandler.Instance = audit
	notifyhandler.Instance = notify
	compliancehandler.Instance = compliance
	return audit, notify, compliance
}

func releaseRec(status models.ReleaseStatus) *dbmodels.BatchRelease {
	return &dbmodels.BatchRelease{
		BaseFacilityModel: dbmodels.BaseFacilityModel{
			BaseModel:  dbmodels.BaseModel{ID: "release-1"},
			FacilityID: "facility-1",
		},
		ProcessingBatchID: "batch-1",
		ReleaseNumber:     "REL-2608-0001",
		Status:            status,
		InitiatorID:       "user-1",
	}
}

func TestCreate(t *testing.T) {
	template := &dbmodels.ReleaseTemplate{
		BaseFacilityModel: dbmodels.BaseFacilityModel{
			BaseModel:  dbmodels.BaseModel{ID: "template-1"},
			FacilityID: "facility-1",
		},
		Name:     "Приемка цветка",
		IsActive: true,
		Checkpoints: []dbmodels.TemplateCheckpoint{
			{Seq: 1, Name: "Визуальный осмотр", Mandatory: true},
			{Seq: 2, Name: "Лабораторный анализ", Mandatory: true},
			{Seq: 3, Name: "Фотофиксация", Mandatory: false},
		},
		Roles: []dbmodels.TemplateRole{
			{Seq: 1, Role: models.QaManagerRole, Label: "Менеджер качества"},
			{Seq: 2, Role: models.ComplianceOfficerRole, Label: "Комплаенс"},
		},
	}
	data := releaseapimodels.ReleaseCreateData{
		ProcessingBatchID: "batch-1",
		TemplateID:        "template-1",
	}

	t.Run("создание выпуска по шаблону", func(t *testing.T) {
		audit, notify, _ := setupCollaborators(t)
		batchprovider.Instance = &fakeBatchProvider{rec: &dbmodels.ProcessingBatch{BatchNumber: "PB-1"}}
		releasetemplatehandler.Instance = fakeTemplateProvider{rec: template}
		releasenumberhandler.Instance = fakeNumberProvider{number: "REL-2608-0007"}

		releases := &fakeReleaseStore{createdID: "release-1"}
		checkpoints := &fakeCheckpointStore{}
		approvals := &fakeApprovalStore{}
		handler := newTestImpl(releases, checkpoints, approvals)

		id, err := handler.Create("facility-1", "user-1", data)
		require.NoError(t, err)
		require.Equal(t, "release-1", id)

		require.NotNil(t, releases.created)
		require.Equal(t, models.ReleaseStatusPending, releases.created.Status)
		require.Equal(t, "REL-2608-0007", releases.created.ReleaseNumber)
		require.Equal(t, "user-1", releases.created.InitiatorID)

		require.Len(t, checkpoints.created, 3)
		require.Equal(t, "Визуальный осмотр", checkpoints.created[0].Name)
		require.Equal(t, models.CheckpointStatusPending, checkpoints.created[0].Status)
		require.False(t, checkpoints.created[2].Mandatory)

		require.Len(t, approvals.created, 2)
		require.Equal(t, models.QaManagerRole, approvals.created[0].RequiredRole)
		require.Equal(t, "Комплаенс", approvals.created[1].Level)
		require.Equal(t, models.ApprovalStatusPending, approvals.created[1].Status)

		require.Equal(t, []models.AuditAction{models.AuditActionReleaseInitiated}, audit.actions)
		require.Equal(t, []models.NotifyEventCode{models.NotifyReleaseInitiated}, notify.codes)
	})

	t.Run("партия не найдена", func(t *testing.T) {
		setupCollaborators(t)
		batchprovider.Instance = &fakeBatchProvider{}
		releasetemplatehandler.Instance = fakeTemplateProvider{rec: template}
		releasenumberhandler.Instance = fakeNumberProvider{number: "REL-2608-0007"}

		handler := newTestImpl(&fakeReleaseStore{}, &fakeCheckpointStore{}, &fakeApprovalStore{})
		_, err := handler.Create("facility-1", "user-1", data)
		require.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("деактивированный шаблон", func(t *testing.T) {
		setupCollaborators(t)
		batchprovider.Instance = &fakeBatchProvider{rec: &dbmodels.ProcessingBatch{}}
		inactive := *template
		inactive.IsActive = false
		releasetemplatehandler.Instance = fakeTemplateProvider{rec: &inactive}

		handler := newTestImpl(&fakeReleaseStore{}, &fakeCheckpointStore{}, &fakeApprovalStore{})
		_, err := handler.Create("facility-1", "user-1", data)
		require.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("по партии уже открыт выпуск", func(t *testing.T) {
		setupCollaborators(t)
		batchprovider.Instance = &fakeBatchProvider{rec: &dbmodels.ProcessingBatch{}}
		releasetemplatehandler.Instance = fakeTemplateProvider{rec: template}

		releases := &fakeReleaseStore{active: releaseRec(models.ReleaseStatusInProgress)}
		handler := newTestImpl(releases, &fakeCheckpointStore{}, &fakeApprovalStore{})
		_, err := handler.Create("facility-1", "user-1", data)
		require.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("сбой резервирования номера фатален", func(t *testing.T) {
		setupCollaborators(t)
		batchprovider.Instance = &fakeBatchProvider{rec: &dbmodels.ProcessingBatch{}}
		releasetemplatehandler.Instance = fakeTemplateProvider{rec: template}
		releasenumberhandler.Instance = fakeNumberProvider{err: errors.New("db down")}

		releases := &fakeReleaseStore{}
		handler := newTestImpl(releases, &fakeCheckpointStore{}, &fakeApprovalStore{})
		_, err := handler.Create("facility-1", "user-1", data)
		require.Error(t, err)
		require.Nil(t, releases.created)
	})

	t.Run("валидация входных данных", func(t *testing.T) {
		handler := newTestImpl(&fakeReleaseStore{}, &fakeCheckpointStore{}, &fakeApprovalStore{})
		_, err := handler.Create("facility-1", "user-1", releaseapimodels.ReleaseCreateData{})
		require.ErrorIs(t, err, models.ErrValidation)
	})
}

func TestRecomputeTx(t *testing.T) {
	t.Run("переход на согласование", func(t *testing.T) {
		releases := &fakeReleaseStore{rec: releaseRec(models.ReleaseStatusInProgress)}
		checkpoints := &fakeCheckpointStore{list: []dbmodels.CheckpointResult{
			checkpoint(models.CheckpointStatusPassed, true),
			checkpoint(models.CheckpointStatusPassed, true),
		}}
		approvals := &fakeApprovalStore{list: []dbmodels.ReleaseApproval{
			approval(models.ApprovalStatusPending),
		}}
		handler := newTestImpl(releases, checkpoints, approvals)

		from, to, err := handler.RecomputeTx(nil, "facility-1", "release-1")
		require.NoError(t, err)
		require.Equal(t, models.ReleaseStatusInProgress, from)
		require.Equal(t, models.ReleaseStatusAwaitingApproval, to)
		require.Len(t, releases.updates, 1)
		require.Equal(t, models.ReleaseStatusAwaitingApproval, releases.updates[0]["status"])
	})

	t.Run("статус не изменился", func(t *testing.T) {
		releases := &fakeReleaseStore{rec: releaseRec(models.ReleaseStatusInProgress)}
		checkpoints := &fakeCheckpointStore{list: []dbmodels.CheckpointResult{
			checkpoint(models.CheckpointStatusPassed, true),
			checkpoint(models.CheckpointStatusPending, true),
		}}
		handler := newTestImpl(releases, checkpoints, &fakeApprovalStore{})

		from, to, err := handler.RecomputeTx(nil, "facility-1", "release-1")
		require.NoError(t, err)
		require.Equal(t, from, to)
		require.Empty(t, releases.updates)
	})

	t.Run("терминальный статус не пересчитывается", func(t *testing.T) {
		releases := &fakeReleaseStore{rec: releaseRec(models.ReleaseStatusReleased)}
		handler := newTestImpl(releases, &fakeCheckpointStore{}, &fakeApprovalStore{})

		from, to, err := handler.RecomputeTx(nil, "facility-1", "release-1")
		require.NoError(t, err)
		require.Equal(t, models.ReleaseStatusReleased, from)
		require.Equal(t, models.ReleaseStatusReleased, to)
		require.Empty(t, releases.updates)
	})

	t.Run("отклонение фиксирует дату завершения", func(t *testing.T) {
		releases := &fakeReleaseStore{rec: releaseRec(models.ReleaseStatusAwaitingApproval)}
		checkpoints := &fakeCheckpointStore{list: []dbmodels.CheckpointResult{
			checkpoint(models.CheckpointStatusPassed, true),
		}}
		approvals := &fakeApprovalStore{list: []dbmodels.ReleaseApproval{
			approval(models.ApprovalStatusRejected),
		}}
		handler := newTestImpl(releases, checkpoints, approvals)

		_, to, err := handler.RecomputeTx(nil, "facility-1", "release-1")
		require.NoError(t, err)
		require.Equal(t, models.ReleaseStatusRejected, to)
		require.Len(t, releases.updates, 1)
		require.Contains(t, releases.updates[0], "actual_completion_date")
	})

	t.Run("выпуск не найден", func(t *testing.T) {
		handler := newTestImpl(&fakeReleaseStore{}, &fakeCheckpointStore{}, &fakeApprovalStore{})
		_, _, err := handler.RecomputeTx(nil, "facility-1", "release-1")
		require.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestFinalize(t *testing.T) {
	t.Run("выпуск согласованной партии", func(t *testing.T) {
		audit, notify, compliance := setupCollaborators(t)
		releases := &fakeReleaseStore{rec: releaseRec(models.ReleaseStatusApproved)}
		batch := &fakeBatchProvider{}
		handler := newTestImpl(releases, &fakeCheckpointStore{}, &fakeApprovalStore{})
		handler.batches = func(tx *gorm.DB) batchprovider.Provider {
			return batch
		}

		err := handler.Finalize(context.Background(), "facility-1", "user-1", "release-1",
			releaseapimodels.ReleaseFinalizeData{
				ReleaseData: map[string]any{"qa_verdict": "passed"},
				Notes:       "выпуск без замечаний",
			})
		require.NoError(t, err)

		require.Len(t, releases.updates, 1)
		updMap := releases.updates[0]
		require.Equal(t, models.ReleaseStatusReleased, updMap["status"])
		require.Equal(t, "user-1", updMap["finalized_by_id"])
		require.Contains(t, updMap, "finalized_at")
		require.Contains(t, updMap, "actual_completion_date")
		require.Equal(t, "выпуск без замечаний", updMap["notes"])

		require.Equal(t, []string{"batch-1"}, batch.released)
		require.Equal(t, []models.AuditAction{models.AuditActionReleaseFinalized}, audit.actions)
		require.Equal(t, []models.ComplianceEventType{models.ComplianceEventBatchReleased}, compliance.events)
		require.Equal(t, []models.NotifyEventCode{models.NotifyReleaseReleased}, notify.codes)
	})

	t.Run("выпуск из несогласованного статуса запрещен", func(t *testing.T) {
		audit, notify, compliance := setupCollaborators(t)
		releases := &fakeReleaseStore{rec: releaseRec(models.ReleaseStatusAwaitingApproval)}
		handler := newTestImpl(releases, &fakeCheckpointStore{}, &fakeApprovalStore{})

		err := handler.Finalize(context.Background(), "facility-1", "user-1", "release-1", releaseapimodels.ReleaseFinalizeData{})
		require.ErrorIs(t, err, models.ErrInvalidStateTransition)
		require.Empty(t, releases.updates)
		require.Empty(t, audit.actions)
		require.Empty(t, notify.codes)
		require.Empty(t, compliance.events)
	})

	t.Run("повторный выпуск запрещен", func(t *testing.T) {
		setupCollaborators(t)
		releases := &fakeReleaseStore{rec: releaseRec(models.ReleaseStatusReleased)}
		handler := newTestImpl(releases, &fakeCheckpointStore{}, &fakeApprovalStore{})

		err := handler.Finalize(context.Background(), "facility-1", "user-1", "release-1", releaseapimodels.ReleaseFinalizeData{})
		require.ErrorIs(t, err, models.ErrInvalidStateTransition)
	})
}
