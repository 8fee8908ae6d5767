package releaseapimodels

import (
	"time"

	"github.com/pkg/errors"

	"cultivation-backend/models"
	dbmodels "cultivation-backend/models/db"
)

type ApprovalDecisionData struct {
	Decision        models.ApprovalStatus `json:"decision"`
	Notes           string                `json:"notes"`
	RejectionReason string                `json:"rejection_reason"`
	Signature       map[string]any        `json:"signature"`
}

func (r ApprovalDecisionData) Validate() error {
	if r.Decision != models.ApprovalStatusApproved && r.Decision != models.ApprovalStatusRejected {
		return errors.Wrap(models.ErrValidation, "решение должно быть approved или rejected")
	}
	if r.Decision == models.ApprovalStatusRejected && r.RejectionReason == "" {
		return errors.Wrap(models.ErrValidation, "не указана причина отклонения")
	}
	return nil
}

type ApprovalView struct {
	ID              string `json:"id"`
	OrderSequence   int    `json:"order_sequence"`
	Level           string `json:"level"`
	RequiredRole    models.UserRole       `json:"required_role"`
	RequiredRoleName string               `json:"required_role_name"`
	Status          models.ApprovalStatus `json:"status"`
	StatusName      string                `json:"status_name"`
	ApproverName    string                `json:"approver_name,omitempty"`
	RespondedAt     *time.Time            `json:"responded_at,omitempty"`
	Notes           string                `json:"notes,omitempty"`
	RejectionReason string                `json:"rejection_reason,omitempty"`
}

// ApprovalResultView — решение по этапу вместе с новым статусом выпуска
// после пересчета.
type ApprovalResultView struct {
	Approval          ApprovalView         `json:"approval"`
	ReleaseStatus     models.ReleaseStatus `json:"release_status"`
	ReleaseStatusName string               `json:"release_status_name"`
}

func ApprovalConvert(rec dbmodels.ReleaseApproval) ApprovalView {
	view := ApprovalView{
		ID:               rec.ID,
		OrderSequence:    rec.OrderSequence,
		Level:            rec.Level,
		RequiredRole:     rec.RequiredRole,
		RequiredRoleName: rec.RequiredRole.ToHuman(),
		Status:           rec.Status,
		StatusName:       rec.Status.ToHuman(),
		RespondedAt:      rec.RespondedAt,
		Notes:            rec.Notes,
		RejectionReason:  rec.RejectionReason,
	}
	if rec.Approver != nil {
		view.ApproverName = rec.Approver.GetFullName()
	}
	return view
}
