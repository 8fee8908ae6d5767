package releaseapimodels

import (
	"time"

	"github.com/pkg/errors"

	"cultivation-backend/models"
	dbmodels "cultivation-backend/models/db"
)

type ReleaseCreateData struct {
	ProcessingBatchID    string     `json:"processing_batch_id"`
	TemplateID           string     `json:"template_id"`
	TargetCompletionDate *time.Time `json:"target_completion_date"`
	Notes                string     `json:"notes"`
}

func (r ReleaseCreateData) Validate() error {
	if r.ProcessingBatchID == "" {
		return errors.Wrap(models.ErrValidation, "не указана производственная партия")
	}
	if r.TemplateID == "" {
		return errors.Wrap(models.ErrValidation, "не указан шаблон выпуска")
	}
	return nil
}

type ReleaseFinalizeData struct {
	ReleaseData map[string]any `json:"release_data"`
	Notes       string         `json:"notes"`
}

func (r ReleaseFinalizeData) Validate() error {
	return nil
}

type ReleaseView struct {
	ID                   string     `json:"id"`
	ReleaseNumber        string     `json:"release_number"`
	ProcessingBatchID    string     `json:"processing_batch_id"`
	BatchNumber          string     `json:"batch_number,omitempty"`
	ProductType          string     `json:"product_type,omitempty"`
	TemplateID           string     `json:"template_id"`
	Status               models.ReleaseStatus `json:"status"`
	StatusName           string               `json:"status_name"`
	InitiatorName        string               `json:"initiator_name,omitempty"`
	TargetCompletionDate *time.Time           `json:"target_completion_date,omitempty"`
	ActualCompletionDate *time.Time           `json:"actual_completion_date,omitempty"`
	Notes                string               `json:"notes,omitempty"`
	FinalizedByName      string               `json:"finalized_by_name,omitempty"`
	FinalizedAt          *time.Time           `json:"finalized_at,omitempty"`
	CreatedAt            time.Time            `json:"created_at"`
	CheckpointsTotal     int                  `json:"checkpoints_total"`
	CheckpointsDone      int                  `json:"checkpoints_done"`
	Checkpoints          []CheckpointView     `json:"checkpoints,omitempty"`
	Approvals            []ApprovalView       `json:"approvals,omitempty"`
	Documents            []DocumentView       `json:"documents,omitempty"`
	AuditLog             []AuditEntryView     `json:"audit_log,omitempty"`
}

func ReleaseConvert(rec dbmodels.BatchRelease) ReleaseView {
	view := ReleaseView{
		ID:                   rec.ID,
		ReleaseNumber:        rec.ReleaseNumber,
		ProcessingBatchID:    rec.ProcessingBatchID,
		TemplateID:           rec.TemplateID,
		Status:               rec.Status,
		StatusName:           rec.Status.ToHuman(),
		TargetCompletionDate: rec.TargetCompletionDate,
		ActualCompletionDate: rec.ActualCompletionDate,
		Notes:                rec.Notes,
		FinalizedAt:          rec.FinalizedAt,
		CreatedAt:            rec.CreatedAt,
		CheckpointsTotal:     len(rec.Checkpoints),
	}
	if rec.ProcessingBatch != nil {
		view.BatchNumber = rec.ProcessingBatch.BatchNumber
		view.ProductType = rec.ProcessingBatch.ProductType
	}
	if rec.Initiator != nil {
		view.InitiatorName = rec.Initiator.GetFullName()
	}
	if rec.FinalizedBy != nil {
		view.FinalizedByName = rec.FinalizedBy.GetFullName()
	}
	for _, checkpoint := range rec.Checkpoints {
		if checkpoint.Status != models.CheckpointStatusPending {
			view.CheckpointsDone++
		}
		view.Checkpoints = append(view.Checkpoints, CheckpointConvert(checkpoint))
	}
	for _, approval := range rec.Approvals {
		view.Approvals = append(view.Approvals, ApprovalConvert(approval))
	}
	for _, document := range rec.Documents {
		view.Documents = append(view.Documents, DocumentConvert(document))
	}
	return view
}

type DocumentView struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	DocType     dbmodels.DocumentType  `json:"doc_type"`
	ContentType string                 `json:"content_type"`
	CreatedAt   time.Time              `json:"created_at"`
}

func DocumentConvert(rec dbmodels.ReleaseDocument) DocumentView {
	return DocumentView{
		ID:          rec.ID,
		Name:        rec.Name,
		DocType:     rec.DocType,
		ContentType: rec.ContentType,
		CreatedAt:   rec.CreatedAt,
	}
}

type AuditEntryView struct {
	ID         string             `json:"id"`
	Action     models.AuditAction `json:"action"`
	EntityType string             `json:"entity_type"`
	EntityID   string             `json:"entity_id"`
	UserName   string             `json:"user_name"`
	Changes    dbmodels.EntityChanges `json:"changes"`
	CreatedAt  time.Time              `json:"created_at"`
}

func AuditEntryConvert(rec dbmodels.ReleaseAuditLog) AuditEntryView {
	return AuditEntryView{
		ID:         rec.ID,
		Action:     rec.Action,
		EntityType: rec.EntityType,
		EntityID:   rec.EntityID,
		UserName:   rec.UserName,
		Changes:    rec.Changes,
		CreatedAt:  rec.CreatedAt,
	}
}
