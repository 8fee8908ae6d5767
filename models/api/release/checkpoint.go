package releaseapimodels

import (
	"time"

	"github.com/pkg/errors"

	"cultivation-backend/models"
	dbmodels "cultivation-backend/models/db"
)

type CheckpointCompleteData struct {
	Passed            bool           `json:"passed"`
	InspectionData    map[string]any `json:"inspection_data"`
	Notes             string         `json:"notes"`
	FailureReason     string         `json:"failure_reason"`
	CorrectiveActions []string       `json:"corrective_actions"`
	RetestRequired    bool           `json:"retest_required"`
}

func (r CheckpointCompleteData) Validate() error {
	if !r.Passed && r.FailureReason == "" {
		return errors.Wrap(models.ErrValidation, "не указана причина непрохождения контрольной точки")
	}
	return nil
}

type CheckpointView struct {
	ID                string `json:"id"`
	Seq               int    `json:"seq"`
	Name              string `json:"name"`
	Mandatory         bool   `json:"mandatory"`
	Status            models.CheckpointStatus `json:"status"`
	StatusName        string                  `json:"status_name"`
	InspectorName     string                  `json:"inspector_name,omitempty"`
	CompletedAt       *time.Time              `json:"completed_at,omitempty"`
	InspectionData    map[string]any          `json:"inspection_data,omitempty"`
	Notes             string                  `json:"notes,omitempty"`
	FailureReason     string                  `json:"failure_reason,omitempty"`
	CorrectiveActions []string                `json:"corrective_actions,omitempty"`
	RetestRequired    bool                    `json:"retest_required"`
}

// CheckpointDecisionView — результат контрольной точки вместе с новым
// статусом выпуска после пересчета.
type CheckpointDecisionView struct {
	Checkpoint        CheckpointView       `json:"checkpoint"`
	ReleaseStatus     models.ReleaseStatus `json:"release_status"`
	ReleaseStatusName string               `json:"release_status_name"`
}

func CheckpointConvert(rec dbmodels.CheckpointResult) CheckpointView {
	view := CheckpointView{
		ID:                rec.ID,
		Seq:               rec.Seq,
		Name:              rec.Name,
		Mandatory:         rec.Mandatory,
		Status:            rec.Status,
		StatusName:        rec.Status.ToHuman(),
		CompletedAt:       rec.CompletedAt,
		InspectionData:    rec.InspectionData,
		Notes:             rec.Notes,
		FailureReason:     rec.FailureReason,
		CorrectiveActions: rec.CorrectiveActions,
		RetestRequired:    rec.RetestRequired,
	}
	if rec.Inspector != nil {
		view.InspectorName = rec.Inspector.GetFullName()
	}
	return view
}
